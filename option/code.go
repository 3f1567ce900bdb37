package option

import (
	"strconv"
	"strings"
)

// Code is the one-byte tag that identifies an option on the wire.
type Code uint8

const (
	CodePad                               Code = 0
	CodeSubnetMask                        Code = 1
	CodeTimeOffset                        Code = 2
	CodeRouter                            Code = 3
	CodeTimeServer                        Code = 4
	CodeNameServer                        Code = 5
	CodeDomainNameServer                  Code = 6
	CodeLogServer                         Code = 7
	CodeCookieServer                      Code = 8
	CodeLPRServer                         Code = 9
	CodeImpressServer                     Code = 10
	CodeResourceLocationServer            Code = 11
	CodeHostName                          Code = 12
	CodeBootFileSize                      Code = 13
	CodeMeritDumpFile                     Code = 14
	CodeDomainName                        Code = 15
	CodeSwapServer                        Code = 16
	CodeRootPath                          Code = 17
	CodeExtensionsPath                    Code = 18
	CodeIPForwarding                      Code = 19
	CodeNonLocalSourceRouting             Code = 20
	CodePolicyFilter                      Code = 21
	CodeMaximumDatagramReassemblySize     Code = 22
	CodeDefaultIPTimeToLive               Code = 23
	CodePathMTUAgingTimeout               Code = 24
	CodePathMTUPlateauTable               Code = 25
	CodeInterfaceMTU                      Code = 26
	CodeAllSubnetsAreLocal                Code = 27
	CodeBroadcastAddress                  Code = 28
	CodePerformMaskDiscovery              Code = 29
	CodeMaskSupplier                      Code = 30
	CodePerformRouterDiscovery            Code = 31
	CodeRouterSolicitationAddress         Code = 32
	CodeStaticRoute                       Code = 33
	CodeTrailerEncapsulation              Code = 34
	CodeARPCacheTimeout                   Code = 35
	CodeEthernetEncapsulation             Code = 36
	CodeTCPDefaultTTL                     Code = 37
	CodeTCPKeepaliveInterval              Code = 38
	CodeTCPKeepaliveGarbage               Code = 39
	CodeNISDomain                         Code = 40
	CodeNISServers                        Code = 41
	CodeNTPServers                        Code = 42
	CodeVendorSpecificInformation         Code = 43
	CodeNetBIOSNameServer                 Code = 44
	CodeNetBIOSDatagramDistributionServer Code = 45
	CodeNetBIOSNodeType                   Code = 46
	CodeNetBIOSScope                      Code = 47
	CodeXWindowFontServer                 Code = 48
	CodeXWindowDisplayManager             Code = 49
	CodeRequestedIPAddress                Code = 50
	CodeIPAddressLeaseTime                Code = 51
	CodeOptionOverload                    Code = 52
	CodeMessageType                       Code = 53
	CodeServerIdentifier                  Code = 54
	CodeParameterRequestList              Code = 55
	CodeMessage                           Code = 56
	CodeMaximumMessageSize                Code = 57
	CodeRenewalTime                       Code = 58
	CodeRebindingTime                     Code = 59
	CodeVendorClassIdentifier             Code = 60
	CodeClientIdentifier                  Code = 61
	CodeNISPlusDomain                     Code = 64
	CodeNISPlusServers                    Code = 65
	CodeTFTPServerName                    Code = 66
	CodeBootfileName                      Code = 67
	CodeMobileIPHomeAgent                 Code = 68
	CodeSMTPServer                        Code = 69
	CodePOP3Server                        Code = 70
	CodeNNTPServer                        Code = 71
	CodeWWWServer                         Code = 72
	CodeFingerServer                      Code = 73
	CodeIRCServer                         Code = 74
	CodeStreetTalkServer                  Code = 75
	CodeSTDAServer                        Code = 76
	CodeEnd                               Code = 255
)

// kind is the payload family of a code. It drives the text conversions in
// text.go; the wire rules live in the decode switch.
type kind uint8

const (
	kindNone kind = iota
	kindAddr
	kindAddrs
	kindPairs
	kindInt32
	kindUint8
	kindUint16
	kindUint32
	kindUint16s
	kindBool
	kindText
	kindBytes
	kindNodeType
	kindOverload
	kindMessageType
	kindCodes
)

type codeInfo struct {
	name string
	kind kind
}

var codes = map[Code]codeInfo{
	CodePad:                               {"pad", kindNone},
	CodeSubnetMask:                        {"subnet-mask", kindAddr},
	CodeTimeOffset:                        {"time-offset", kindInt32},
	CodeRouter:                            {"router", kindAddrs},
	CodeTimeServer:                        {"time-server", kindAddrs},
	CodeNameServer:                        {"name-server", kindAddrs},
	CodeDomainNameServer:                  {"domain-name-server", kindAddrs},
	CodeLogServer:                         {"log-server", kindAddrs},
	CodeCookieServer:                      {"cookie-server", kindAddrs},
	CodeLPRServer:                         {"lpr-server", kindAddrs},
	CodeImpressServer:                     {"impress-server", kindAddrs},
	CodeResourceLocationServer:            {"resource-location-server", kindAddrs},
	CodeHostName:                          {"hostname", kindText},
	CodeBootFileSize:                      {"boot-file-size", kindUint16},
	CodeMeritDumpFile:                     {"merit-dump-file", kindText},
	CodeDomainName:                        {"domain-name", kindText},
	CodeSwapServer:                        {"swap-server", kindAddr},
	CodeRootPath:                          {"root-path", kindText},
	CodeExtensionsPath:                    {"extensions-path", kindText},
	CodeIPForwarding:                      {"ip-forwarding", kindBool},
	CodeNonLocalSourceRouting:             {"non-local-source-routing", kindBool},
	CodePolicyFilter:                      {"policy-filter", kindPairs},
	CodeMaximumDatagramReassemblySize:     {"max-datagram-reassembly-size", kindUint16},
	CodeDefaultIPTimeToLive:               {"default-ip-ttl", kindUint8},
	CodePathMTUAgingTimeout:               {"path-mtu-aging-timeout", kindUint32},
	CodePathMTUPlateauTable:               {"path-mtu-plateau-table", kindUint16s},
	CodeInterfaceMTU:                      {"interface-mtu", kindUint16},
	CodeAllSubnetsAreLocal:                {"all-subnets-are-local", kindBool},
	CodeBroadcastAddress:                  {"broadcast-address", kindAddr},
	CodePerformMaskDiscovery:              {"perform-mask-discovery", kindBool},
	CodeMaskSupplier:                      {"mask-supplier", kindBool},
	CodePerformRouterDiscovery:            {"perform-router-discovery", kindBool},
	CodeRouterSolicitationAddress:         {"router-solicitation-address", kindAddr},
	CodeStaticRoute:                       {"static-route", kindPairs},
	CodeTrailerEncapsulation:              {"trailer-encapsulation", kindBool},
	CodeARPCacheTimeout:                   {"arp-cache-timeout", kindUint32},
	CodeEthernetEncapsulation:             {"ethernet-encapsulation", kindBool},
	CodeTCPDefaultTTL:                     {"tcp-default-ttl", kindUint8},
	CodeTCPKeepaliveInterval:              {"tcp-keepalive-interval", kindUint32},
	CodeTCPKeepaliveGarbage:               {"tcp-keepalive-garbage", kindBool},
	CodeNISDomain:                         {"nis-domain", kindText},
	CodeNISServers:                        {"nis-servers", kindAddrs},
	CodeNTPServers:                        {"ntp-servers", kindAddrs},
	CodeVendorSpecificInformation:         {"vendor-specific-information", kindBytes},
	CodeNetBIOSNameServer:                 {"netbios-name-server", kindAddrs},
	CodeNetBIOSDatagramDistributionServer: {"netbios-datagram-distribution-server", kindAddrs},
	CodeNetBIOSNodeType:                   {"netbios-node-type", kindNodeType},
	CodeNetBIOSScope:                      {"netbios-scope", kindBytes},
	CodeXWindowFontServer:                 {"x-window-font-server", kindAddrs},
	CodeXWindowDisplayManager:             {"x-window-display-manager", kindAddrs},
	CodeRequestedIPAddress:                {"requested-ip-address", kindAddr},
	CodeIPAddressLeaseTime:                {"ip-address-lease-time", kindUint32},
	CodeOptionOverload:                    {"option-overload", kindOverload},
	CodeMessageType:                       {"dhcp-message-type", kindMessageType},
	CodeServerIdentifier:                  {"server-identifier", kindAddr},
	CodeParameterRequestList:              {"parameter-request-list", kindCodes},
	CodeMessage:                           {"message", kindText},
	CodeMaximumMessageSize:                {"max-message-size", kindUint16},
	CodeRenewalTime:                       {"renewal-time", kindUint32},
	CodeRebindingTime:                     {"rebinding-time", kindUint32},
	CodeVendorClassIdentifier:             {"vendor-class-identifier", kindBytes},
	CodeClientIdentifier:                  {"client-identifier", kindBytes},
	CodeNISPlusDomain:                     {"nis-plus-domain", kindText},
	CodeNISPlusServers:                    {"nis-plus-servers", kindAddrs},
	CodeTFTPServerName:                    {"tftp-server-name", kindText},
	CodeBootfileName:                      {"bootfile-name", kindText},
	CodeMobileIPHomeAgent:                 {"mobile-ip-home-agent", kindAddrs},
	CodeSMTPServer:                        {"smtp-server", kindAddrs},
	CodePOP3Server:                        {"pop3-server", kindAddrs},
	CodeNNTPServer:                        {"nntp-server", kindAddrs},
	CodeWWWServer:                         {"www-server", kindAddrs},
	CodeFingerServer:                      {"finger-server", kindAddrs},
	CodeIRCServer:                         {"irc-server", kindAddrs},
	CodeStreetTalkServer:                  {"streettalk-server", kindAddrs},
	CodeSTDAServer:                        {"stda-server", kindAddrs},
	CodeEnd:                               {"end", kindNone},
}

var codesByName = func() map[string]Code {
	m := make(map[string]Code, len(codes))
	for c, info := range codes {
		m[info.name] = c
	}
	return m
}()

// Known reports whether the codec has a variant for c.
func (c Code) Known() bool {
	_, ok := codes[c]
	return ok
}

func (c Code) String() string {
	if info, ok := codes[c]; ok {
		return info.name
	}
	return "option-" + strconv.Itoa(int(c))
}

// ParseCode accepts either an option name as printed by Code.String or a
// decimal tag.
func ParseCode(s string) (Code, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if c, ok := codesByName[s]; ok {
		return c, nil
	}

	n, err := strconv.ParseUint(s, 10, 8)
	if err != nil {
		return 0, parsingErrorf("unknown option name %q", s)
	}

	if c := Code(n); c.Known() {
		return c, nil
	}

	return 0, parsingErrorf("unknown option code: %d", n)
}

// Codes returns every supported code in ascending order.
func Codes() []Code {
	out := make([]Code, 0, len(codes))
	for c := 0; c < 256; c++ {
		if Code(c).Known() {
			out = append(out, Code(c))
		}
	}
	return out
}
