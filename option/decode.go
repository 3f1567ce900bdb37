package option

// Decode reads exactly one option from the front of data and returns it
// together with the bytes that follow it. Pad and End consume only their tag.
//
// Any structural problem, including a tag the codec does not know, yields a
// *ParsingError and no option. data is never modified; the returned remainder
// shares its backing array.
func Decode(data []byte) (Option, []byte, error) {
	if len(data) == 0 {
		return nil, nil, parsingErrorf("no option code found")
	}

	c, data := Code(data[0]), data[1:]
	switch {
	case c == CodePad:
		return Pad{}, data, nil
	case c == CodeEnd:
		return End{}, data, nil
	case !c.Known():
		return nil, nil, parsingErrorf("unknown option code: %d", uint8(c))
	}

	if len(data) == 0 {
		return nil, nil, parsingErrorf("could not parse %s: missing length", c)
	}

	n, data := int(data[0]), data[1:]
	if len(data) < n {
		return nil, nil, parsingErrorf("could not parse %s: length %d exceeds the %d bytes available", c, n, len(data))
	}

	o, err := decodeValue(c, data[:n])
	if err != nil {
		return nil, nil, err
	}

	return o, data[n:], nil
}

// DecodeAll walks an options area. Pad is skipped, End or the end of data
// stops the walk, and the first error aborts it.
func DecodeAll(data []byte) ([]Option, error) {
	var opts []Option

	for len(data) > 0 {
		o, rest, err := Decode(data)
		if err != nil {
			return nil, err
		}

		switch o.(type) {
		case End:
			return opts, nil
		case Pad:
		default:
			opts = append(opts, o)
		}

		data = rest
	}

	return opts, nil
}

func decodeValue(c Code, v []byte) (Option, error) {
	switch c {

	// Single address.
	case CodeSubnetMask:
		a, err := readAddr(c, v)
		return SubnetMask(a), err
	case CodeSwapServer:
		a, err := readAddr(c, v)
		return SwapServer(a), err
	case CodeBroadcastAddress:
		a, err := readAddr(c, v)
		return BroadcastAddress(a), err
	case CodeRouterSolicitationAddress:
		a, err := readAddr(c, v)
		return RouterSolicitationAddress(a), err
	case CodeRequestedIPAddress:
		a, err := readAddr(c, v)
		return RequestedIPAddress(a), err
	case CodeServerIdentifier:
		a, err := readAddr(c, v)
		return ServerIdentifier(a), err

	// Address lists.
	case CodeRouter:
		a, err := readAddrs(c, v, false)
		return Router(a), err
	case CodeTimeServer:
		a, err := readAddrs(c, v, false)
		return TimeServer(a), err
	case CodeNameServer:
		a, err := readAddrs(c, v, false)
		return NameServer(a), err
	case CodeDomainNameServer:
		a, err := readAddrs(c, v, false)
		return DomainNameServer(a), err
	case CodeLogServer:
		a, err := readAddrs(c, v, false)
		return LogServer(a), err
	case CodeCookieServer:
		a, err := readAddrs(c, v, false)
		return CookieServer(a), err
	case CodeLPRServer:
		a, err := readAddrs(c, v, false)
		return LPRServer(a), err
	case CodeImpressServer:
		a, err := readAddrs(c, v, false)
		return ImpressServer(a), err
	case CodeResourceLocationServer:
		a, err := readAddrs(c, v, false)
		return ResourceLocationServer(a), err
	case CodeNISServers:
		a, err := readAddrs(c, v, false)
		return NISServers(a), err
	case CodeNTPServers:
		a, err := readAddrs(c, v, false)
		return NTPServers(a), err
	case CodeNetBIOSNameServer:
		a, err := readAddrs(c, v, false)
		return NetBIOSNameServer(a), err
	case CodeNetBIOSDatagramDistributionServer:
		a, err := readAddrs(c, v, false)
		return NetBIOSDatagramDistributionServer(a), err
	case CodeXWindowFontServer:
		a, err := readAddrs(c, v, false)
		return XWindowFontServer(a), err
	case CodeXWindowDisplayManager:
		a, err := readAddrs(c, v, false)
		return XWindowDisplayManager(a), err
	case CodeNISPlusServers:
		a, err := readAddrs(c, v, false)
		return NISPlusServers(a), err
	case CodeMobileIPHomeAgent:
		// RFC 2132 9.1: zero length means no home agents.
		a, err := readAddrs(c, v, true)
		return MobileIPHomeAgent(a), err
	case CodeSMTPServer:
		a, err := readAddrs(c, v, false)
		return SMTPServer(a), err
	case CodePOP3Server:
		a, err := readAddrs(c, v, false)
		return POP3Server(a), err
	case CodeNNTPServer:
		a, err := readAddrs(c, v, false)
		return NNTPServer(a), err
	case CodeWWWServer:
		a, err := readAddrs(c, v, false)
		return WWWServer(a), err
	case CodeFingerServer:
		a, err := readAddrs(c, v, false)
		return FingerServer(a), err
	case CodeIRCServer:
		a, err := readAddrs(c, v, false)
		return IRCServer(a), err
	case CodeStreetTalkServer:
		a, err := readAddrs(c, v, false)
		return StreetTalkServer(a), err
	case CodeSTDAServer:
		a, err := readAddrs(c, v, false)
		return STDAServer(a), err

	// Address pairs.
	case CodePolicyFilter:
		pairs, err := readPairs(c, v)
		if err != nil {
			return nil, err
		}
		out := make(PolicyFilter, len(pairs))
		for i, p := range pairs {
			out[i] = Filter{Address: p[0], Mask: p[1]}
		}
		return out, nil
	case CodeStaticRoute:
		pairs, err := readPairs(c, v)
		if err != nil {
			return nil, err
		}
		out := make(StaticRoute, len(pairs))
		for i, p := range pairs {
			out[i] = Route{Destination: p[0], Router: p[1]}
		}
		return out, nil

	// Integers.
	case CodeTimeOffset:
		n, err := readUint32(c, v)
		return TimeOffset(int32(n)), err
	case CodePathMTUAgingTimeout:
		n, err := readUint32(c, v)
		return PathMTUAgingTimeout(n), err
	case CodeARPCacheTimeout:
		n, err := readUint32(c, v)
		return ARPCacheTimeout(n), err
	case CodeTCPKeepaliveInterval:
		n, err := readUint32(c, v)
		return TCPKeepaliveInterval(n), err
	case CodeIPAddressLeaseTime:
		n, err := readUint32(c, v)
		return IPAddressLeaseTime(n), err
	case CodeRenewalTime:
		n, err := readUint32(c, v)
		return RenewalTime(n), err
	case CodeRebindingTime:
		n, err := readUint32(c, v)
		return RebindingTime(n), err
	case CodeBootFileSize:
		n, err := readUint16(c, v)
		return BootFileSize(n), err
	case CodeMaximumDatagramReassemblySize:
		n, err := readUint16(c, v)
		return MaximumDatagramReassemblySize(n), err
	case CodeInterfaceMTU:
		n, err := readUint16(c, v)
		return InterfaceMTU(n), err
	case CodeMaximumMessageSize:
		n, err := readUint16(c, v)
		return MaximumMessageSize(n), err
	case CodePathMTUPlateauTable:
		ns, err := readUint16s(c, v)
		return PathMTUPlateauTable(ns), err
	case CodeDefaultIPTimeToLive:
		n, err := readUint8(c, v)
		return DefaultIPTimeToLive(n), err
	case CodeTCPDefaultTTL:
		n, err := readUint8(c, v)
		return TCPDefaultTTL(n), err

	// Flags.
	case CodeIPForwarding:
		f, err := readBool(c, v)
		return IPForwarding(f), err
	case CodeNonLocalSourceRouting:
		f, err := readBool(c, v)
		return NonLocalSourceRouting(f), err
	case CodeAllSubnetsAreLocal:
		f, err := readBool(c, v)
		return AllSubnetsAreLocal(f), err
	case CodePerformMaskDiscovery:
		f, err := readBool(c, v)
		return PerformMaskDiscovery(f), err
	case CodeMaskSupplier:
		f, err := readBool(c, v)
		return MaskSupplier(f), err
	case CodePerformRouterDiscovery:
		f, err := readBool(c, v)
		return PerformRouterDiscovery(f), err
	case CodeTrailerEncapsulation:
		f, err := readBool(c, v)
		return TrailerEncapsulation(f), err
	case CodeEthernetEncapsulation:
		f, err := readBool(c, v)
		return EthernetEncapsulation(f), err
	case CodeTCPKeepaliveGarbage:
		f, err := readBool(c, v)
		return TCPKeepaliveGarbage(f), err

	// Text. Domain style options tolerate an empty value.
	case CodeHostName:
		s, err := readText(c, v, 1)
		return HostName(s), err
	case CodeMeritDumpFile:
		s, err := readText(c, v, 1)
		return MeritDumpFile(s), err
	case CodeDomainName:
		s, err := readText(c, v, 0)
		return DomainName(s), err
	case CodeRootPath:
		s, err := readText(c, v, 1)
		return RootPath(s), err
	case CodeExtensionsPath:
		s, err := readText(c, v, 1)
		return ExtensionsPath(s), err
	case CodeNISDomain:
		s, err := readText(c, v, 0)
		return NISDomain(s), err
	case CodeMessage:
		s, err := readText(c, v, 1)
		return Message(s), err
	case CodeNISPlusDomain:
		s, err := readText(c, v, 0)
		return NISPlusDomain(s), err
	case CodeTFTPServerName:
		s, err := readText(c, v, 1)
		return TFTPServerName(s), err
	case CodeBootfileName:
		s, err := readText(c, v, 1)
		return BootfileName(s), err

	// Opaque bytes.
	case CodeVendorSpecificInformation:
		b, err := readBytes(c, v, 0)
		return VendorSpecificInformation(b), err
	case CodeNetBIOSScope:
		b, err := readBytes(c, v, 1)
		return NetBIOSScope(b), err
	case CodeVendorClassIdentifier:
		b, err := readBytes(c, v, 1)
		return VendorClassIdentifier(b), err
	case CodeClientIdentifier:
		b, err := readBytes(c, v, 2)
		return ClientIdentifier(b), err

	// Enumerations.
	case CodeNetBIOSNodeType:
		n, err := readUint8(c, v)
		if err != nil {
			return nil, err
		}
		if _, ok := nodeTypeNames[NetBIOSNodeType(n)]; !ok {
			return nil, parsingErrorf("could not parse %s: invalid node type %d", c, n)
		}
		return NetBIOSNodeType(n), nil
	case CodeOptionOverload:
		n, err := readUint8(c, v)
		if err != nil {
			return nil, err
		}
		if _, ok := overloadNames[OptionOverload(n)]; !ok {
			return nil, parsingErrorf("could not parse %s: invalid overload value %d", c, n)
		}
		return OptionOverload(n), nil
	case CodeMessageType:
		n, err := readUint8(c, v)
		if err != nil {
			return nil, err
		}
		if _, ok := messageTypeNames[MessageType(n)]; !ok {
			return nil, parsingErrorf("could not parse %s: invalid message type %d", c, n)
		}
		return MessageType(n), nil

	case CodeParameterRequestList:
		if err := atLeast(c, v, 1); err != nil {
			return nil, err
		}
		out := make(ParameterRequestList, len(v))
		for i, b := range v {
			out[i] = Code(b)
		}
		return out, nil
	}

	return nil, parsingErrorf("unknown option code: %d", uint8(c))
}
