// Package option encodes and decodes single DHCPv4 options (RFC 2132).
//
// Option is a closed set: every supported tag has exactly one Go type
// implementing it, and Decode returns one of those types or a
// *ParsingError.
package option

import (
	"encoding/binary"
	"net/netip"
)

// Option is one decoded DHCP option.
type Option interface {
	Code() Code
	appendValue(b []byte) []byte
}

// Filter is one PolicyFilter entry.
type Filter struct {
	Address netip.Addr
	Mask    netip.Addr
}

// Route is one StaticRoute entry.
type Route struct {
	Destination netip.Addr
	Router      netip.Addr
}

type (
	Pad struct{}
	End struct{}

	SubnetMask                netip.Addr
	SwapServer                netip.Addr
	BroadcastAddress          netip.Addr
	RouterSolicitationAddress netip.Addr
	RequestedIPAddress        netip.Addr
	ServerIdentifier          netip.Addr

	Router                            []netip.Addr
	TimeServer                        []netip.Addr
	NameServer                        []netip.Addr
	DomainNameServer                  []netip.Addr
	LogServer                         []netip.Addr
	CookieServer                      []netip.Addr
	LPRServer                         []netip.Addr
	ImpressServer                     []netip.Addr
	ResourceLocationServer            []netip.Addr
	NISServers                        []netip.Addr
	NTPServers                        []netip.Addr
	NetBIOSNameServer                 []netip.Addr
	NetBIOSDatagramDistributionServer []netip.Addr
	XWindowFontServer                 []netip.Addr
	XWindowDisplayManager             []netip.Addr
	NISPlusServers                    []netip.Addr
	MobileIPHomeAgent                 []netip.Addr
	SMTPServer                        []netip.Addr
	POP3Server                        []netip.Addr
	NNTPServer                        []netip.Addr
	WWWServer                         []netip.Addr
	FingerServer                      []netip.Addr
	IRCServer                         []netip.Addr
	StreetTalkServer                  []netip.Addr
	STDAServer                        []netip.Addr

	PolicyFilter []Filter
	StaticRoute  []Route

	// TimeOffset is seconds east of UTC, two's complement on the wire.
	TimeOffset           int32
	PathMTUAgingTimeout  uint32
	ARPCacheTimeout      uint32
	TCPKeepaliveInterval uint32
	IPAddressLeaseTime   uint32
	RenewalTime          uint32
	RebindingTime        uint32

	BootFileSize                  uint16
	MaximumDatagramReassemblySize uint16
	InterfaceMTU                  uint16
	MaximumMessageSize            uint16
	PathMTUPlateauTable           []uint16

	DefaultIPTimeToLive uint8
	TCPDefaultTTL       uint8

	IPForwarding           bool
	NonLocalSourceRouting  bool
	AllSubnetsAreLocal     bool
	PerformMaskDiscovery   bool
	MaskSupplier           bool
	PerformRouterDiscovery bool
	TrailerEncapsulation   bool
	EthernetEncapsulation  bool
	TCPKeepaliveGarbage    bool

	HostName       string
	MeritDumpFile  string
	DomainName     string
	RootPath       string
	ExtensionsPath string
	NISDomain      string
	Message        string
	NISPlusDomain  string
	TFTPServerName string
	BootfileName   string

	VendorSpecificInformation []byte
	NetBIOSScope              []byte
	VendorClassIdentifier     []byte
	// ClientIdentifier is the hardware type byte followed by the identifier.
	ClientIdentifier []byte

	ParameterRequestList []Code
)

// NetBIOSNodeType is the NetBIOS over TCP/IP node type (RFC 1001/1002).
type NetBIOSNodeType uint8

const (
	BNode NetBIOSNodeType = 0x1
	PNode NetBIOSNodeType = 0x2
	MNode NetBIOSNodeType = 0x4
	HNode NetBIOSNodeType = 0x8
)

var nodeTypeNames = map[NetBIOSNodeType]string{BNode: "B-node", PNode: "P-node", MNode: "M-node", HNode: "H-node"}

func (t NetBIOSNodeType) String() string {
	if s, ok := nodeTypeNames[t]; ok {
		return s
	}
	return "unknown"
}

// OptionOverload says which BOOTP header fields carry extra options.
type OptionOverload uint8

const (
	OverloadFile  OptionOverload = 1
	OverloadSName OptionOverload = 2
	OverloadBoth  OptionOverload = 3
)

var overloadNames = map[OptionOverload]string{OverloadFile: "file", OverloadSName: "sname", OverloadBoth: "both"}

func (o OptionOverload) String() string {
	if s, ok := overloadNames[o]; ok {
		return s
	}
	return "unknown"
}

// MessageType is the DHCP message type carried in option 53.
type MessageType uint8

const (
	Discover MessageType = 1
	Offer    MessageType = 2
	Request  MessageType = 3
	Decline  MessageType = 4
	Ack      MessageType = 5
	Nak      MessageType = 6
	Release  MessageType = 7
	Inform   MessageType = 8
)

var messageTypeNames = map[MessageType]string{
	Discover: "discover",
	Offer:    "offer",
	Request:  "request",
	Decline:  "decline",
	Ack:      "ack",
	Nak:      "nak",
	Release:  "release",
	Inform:   "inform",
}

func (m MessageType) String() string {
	if s, ok := messageTypeNames[m]; ok {
		return s
	}
	return "unknown"
}

func (Pad) Code() Code                               { return CodePad }
func (End) Code() Code                               { return CodeEnd }
func (SubnetMask) Code() Code                        { return CodeSubnetMask }
func (TimeOffset) Code() Code                        { return CodeTimeOffset }
func (Router) Code() Code                            { return CodeRouter }
func (TimeServer) Code() Code                        { return CodeTimeServer }
func (NameServer) Code() Code                        { return CodeNameServer }
func (DomainNameServer) Code() Code                  { return CodeDomainNameServer }
func (LogServer) Code() Code                         { return CodeLogServer }
func (CookieServer) Code() Code                      { return CodeCookieServer }
func (LPRServer) Code() Code                         { return CodeLPRServer }
func (ImpressServer) Code() Code                     { return CodeImpressServer }
func (ResourceLocationServer) Code() Code            { return CodeResourceLocationServer }
func (HostName) Code() Code                          { return CodeHostName }
func (BootFileSize) Code() Code                      { return CodeBootFileSize }
func (MeritDumpFile) Code() Code                     { return CodeMeritDumpFile }
func (DomainName) Code() Code                        { return CodeDomainName }
func (SwapServer) Code() Code                        { return CodeSwapServer }
func (RootPath) Code() Code                          { return CodeRootPath }
func (ExtensionsPath) Code() Code                    { return CodeExtensionsPath }
func (IPForwarding) Code() Code                      { return CodeIPForwarding }
func (NonLocalSourceRouting) Code() Code             { return CodeNonLocalSourceRouting }
func (PolicyFilter) Code() Code                      { return CodePolicyFilter }
func (MaximumDatagramReassemblySize) Code() Code     { return CodeMaximumDatagramReassemblySize }
func (DefaultIPTimeToLive) Code() Code               { return CodeDefaultIPTimeToLive }
func (PathMTUAgingTimeout) Code() Code               { return CodePathMTUAgingTimeout }
func (PathMTUPlateauTable) Code() Code               { return CodePathMTUPlateauTable }
func (InterfaceMTU) Code() Code                      { return CodeInterfaceMTU }
func (AllSubnetsAreLocal) Code() Code                { return CodeAllSubnetsAreLocal }
func (BroadcastAddress) Code() Code                  { return CodeBroadcastAddress }
func (PerformMaskDiscovery) Code() Code              { return CodePerformMaskDiscovery }
func (MaskSupplier) Code() Code                      { return CodeMaskSupplier }
func (PerformRouterDiscovery) Code() Code            { return CodePerformRouterDiscovery }
func (RouterSolicitationAddress) Code() Code         { return CodeRouterSolicitationAddress }
func (StaticRoute) Code() Code                       { return CodeStaticRoute }
func (TrailerEncapsulation) Code() Code              { return CodeTrailerEncapsulation }
func (ARPCacheTimeout) Code() Code                   { return CodeARPCacheTimeout }
func (EthernetEncapsulation) Code() Code             { return CodeEthernetEncapsulation }
func (TCPDefaultTTL) Code() Code                     { return CodeTCPDefaultTTL }
func (TCPKeepaliveInterval) Code() Code              { return CodeTCPKeepaliveInterval }
func (TCPKeepaliveGarbage) Code() Code               { return CodeTCPKeepaliveGarbage }
func (NISDomain) Code() Code                         { return CodeNISDomain }
func (NISServers) Code() Code                        { return CodeNISServers }
func (NTPServers) Code() Code                        { return CodeNTPServers }
func (VendorSpecificInformation) Code() Code         { return CodeVendorSpecificInformation }
func (NetBIOSNameServer) Code() Code                 { return CodeNetBIOSNameServer }
func (NetBIOSDatagramDistributionServer) Code() Code { return CodeNetBIOSDatagramDistributionServer }
func (NetBIOSNodeType) Code() Code                   { return CodeNetBIOSNodeType }
func (NetBIOSScope) Code() Code                      { return CodeNetBIOSScope }
func (XWindowFontServer) Code() Code                 { return CodeXWindowFontServer }
func (XWindowDisplayManager) Code() Code             { return CodeXWindowDisplayManager }
func (RequestedIPAddress) Code() Code                { return CodeRequestedIPAddress }
func (IPAddressLeaseTime) Code() Code                { return CodeIPAddressLeaseTime }
func (OptionOverload) Code() Code                    { return CodeOptionOverload }
func (MessageType) Code() Code                       { return CodeMessageType }
func (ServerIdentifier) Code() Code                  { return CodeServerIdentifier }
func (ParameterRequestList) Code() Code              { return CodeParameterRequestList }
func (Message) Code() Code                           { return CodeMessage }
func (MaximumMessageSize) Code() Code                { return CodeMaximumMessageSize }
func (RenewalTime) Code() Code                       { return CodeRenewalTime }
func (RebindingTime) Code() Code                     { return CodeRebindingTime }
func (VendorClassIdentifier) Code() Code             { return CodeVendorClassIdentifier }
func (ClientIdentifier) Code() Code                  { return CodeClientIdentifier }
func (NISPlusDomain) Code() Code                     { return CodeNISPlusDomain }
func (NISPlusServers) Code() Code                    { return CodeNISPlusServers }
func (TFTPServerName) Code() Code                    { return CodeTFTPServerName }
func (BootfileName) Code() Code                      { return CodeBootfileName }
func (MobileIPHomeAgent) Code() Code                 { return CodeMobileIPHomeAgent }
func (SMTPServer) Code() Code                        { return CodeSMTPServer }
func (POP3Server) Code() Code                        { return CodePOP3Server }
func (NNTPServer) Code() Code                        { return CodeNNTPServer }
func (WWWServer) Code() Code                         { return CodeWWWServer }
func (FingerServer) Code() Code                      { return CodeFingerServer }
func (IRCServer) Code() Code                         { return CodeIRCServer }
func (StreetTalkServer) Code() Code                  { return CodeStreetTalkServer }
func (STDAServer) Code() Code                        { return CodeSTDAServer }

// Value encoders. Pad and End carry nothing; Append never calls theirs.

func (Pad) appendValue(b []byte) []byte { return b }
func (End) appendValue(b []byte) []byte { return b }

func (o SubnetMask) appendValue(b []byte) []byte                { return appendAddr(b, netip.Addr(o)) }
func (o SwapServer) appendValue(b []byte) []byte                { return appendAddr(b, netip.Addr(o)) }
func (o BroadcastAddress) appendValue(b []byte) []byte          { return appendAddr(b, netip.Addr(o)) }
func (o RouterSolicitationAddress) appendValue(b []byte) []byte { return appendAddr(b, netip.Addr(o)) }
func (o RequestedIPAddress) appendValue(b []byte) []byte        { return appendAddr(b, netip.Addr(o)) }
func (o ServerIdentifier) appendValue(b []byte) []byte          { return appendAddr(b, netip.Addr(o)) }

func (o Router) appendValue(b []byte) []byte                 { return appendAddrs(b, o) }
func (o TimeServer) appendValue(b []byte) []byte             { return appendAddrs(b, o) }
func (o NameServer) appendValue(b []byte) []byte             { return appendAddrs(b, o) }
func (o DomainNameServer) appendValue(b []byte) []byte       { return appendAddrs(b, o) }
func (o LogServer) appendValue(b []byte) []byte              { return appendAddrs(b, o) }
func (o CookieServer) appendValue(b []byte) []byte           { return appendAddrs(b, o) }
func (o LPRServer) appendValue(b []byte) []byte              { return appendAddrs(b, o) }
func (o ImpressServer) appendValue(b []byte) []byte          { return appendAddrs(b, o) }
func (o ResourceLocationServer) appendValue(b []byte) []byte { return appendAddrs(b, o) }
func (o NISServers) appendValue(b []byte) []byte             { return appendAddrs(b, o) }
func (o NTPServers) appendValue(b []byte) []byte             { return appendAddrs(b, o) }
func (o NetBIOSNameServer) appendValue(b []byte) []byte      { return appendAddrs(b, o) }
func (o NetBIOSDatagramDistributionServer) appendValue(b []byte) []byte {
	return appendAddrs(b, o)
}
func (o XWindowFontServer) appendValue(b []byte) []byte     { return appendAddrs(b, o) }
func (o XWindowDisplayManager) appendValue(b []byte) []byte { return appendAddrs(b, o) }
func (o NISPlusServers) appendValue(b []byte) []byte        { return appendAddrs(b, o) }
func (o MobileIPHomeAgent) appendValue(b []byte) []byte     { return appendAddrs(b, o) }
func (o SMTPServer) appendValue(b []byte) []byte            { return appendAddrs(b, o) }
func (o POP3Server) appendValue(b []byte) []byte            { return appendAddrs(b, o) }
func (o NNTPServer) appendValue(b []byte) []byte            { return appendAddrs(b, o) }
func (o WWWServer) appendValue(b []byte) []byte             { return appendAddrs(b, o) }
func (o FingerServer) appendValue(b []byte) []byte          { return appendAddrs(b, o) }
func (o IRCServer) appendValue(b []byte) []byte             { return appendAddrs(b, o) }
func (o StreetTalkServer) appendValue(b []byte) []byte      { return appendAddrs(b, o) }
func (o STDAServer) appendValue(b []byte) []byte            { return appendAddrs(b, o) }

func (o PolicyFilter) appendValue(b []byte) []byte {
	for _, f := range o {
		b = appendAddr(appendAddr(b, f.Address), f.Mask)
	}
	return b
}

func (o StaticRoute) appendValue(b []byte) []byte {
	for _, r := range o {
		b = appendAddr(appendAddr(b, r.Destination), r.Router)
	}
	return b
}

func (o TimeOffset) appendValue(b []byte) []byte {
	return binary.BigEndian.AppendUint32(b, uint32(o))
}
func (o PathMTUAgingTimeout) appendValue(b []byte) []byte {
	return binary.BigEndian.AppendUint32(b, uint32(o))
}
func (o ARPCacheTimeout) appendValue(b []byte) []byte {
	return binary.BigEndian.AppendUint32(b, uint32(o))
}
func (o TCPKeepaliveInterval) appendValue(b []byte) []byte {
	return binary.BigEndian.AppendUint32(b, uint32(o))
}
func (o IPAddressLeaseTime) appendValue(b []byte) []byte {
	return binary.BigEndian.AppendUint32(b, uint32(o))
}
func (o RenewalTime) appendValue(b []byte) []byte {
	return binary.BigEndian.AppendUint32(b, uint32(o))
}
func (o RebindingTime) appendValue(b []byte) []byte {
	return binary.BigEndian.AppendUint32(b, uint32(o))
}

func (o BootFileSize) appendValue(b []byte) []byte {
	return binary.BigEndian.AppendUint16(b, uint16(o))
}
func (o MaximumDatagramReassemblySize) appendValue(b []byte) []byte {
	return binary.BigEndian.AppendUint16(b, uint16(o))
}
func (o InterfaceMTU) appendValue(b []byte) []byte {
	return binary.BigEndian.AppendUint16(b, uint16(o))
}
func (o MaximumMessageSize) appendValue(b []byte) []byte {
	return binary.BigEndian.AppendUint16(b, uint16(o))
}
func (o PathMTUPlateauTable) appendValue(b []byte) []byte { return appendUint16s(b, o) }

func (o DefaultIPTimeToLive) appendValue(b []byte) []byte { return append(b, byte(o)) }
func (o TCPDefaultTTL) appendValue(b []byte) []byte       { return append(b, byte(o)) }
func (o NetBIOSNodeType) appendValue(b []byte) []byte     { return append(b, byte(o)) }
func (o OptionOverload) appendValue(b []byte) []byte      { return append(b, byte(o)) }
func (o MessageType) appendValue(b []byte) []byte         { return append(b, byte(o)) }

func (o IPForwarding) appendValue(b []byte) []byte           { return appendBool(b, bool(o)) }
func (o NonLocalSourceRouting) appendValue(b []byte) []byte  { return appendBool(b, bool(o)) }
func (o AllSubnetsAreLocal) appendValue(b []byte) []byte     { return appendBool(b, bool(o)) }
func (o PerformMaskDiscovery) appendValue(b []byte) []byte   { return appendBool(b, bool(o)) }
func (o MaskSupplier) appendValue(b []byte) []byte           { return appendBool(b, bool(o)) }
func (o PerformRouterDiscovery) appendValue(b []byte) []byte { return appendBool(b, bool(o)) }
func (o TrailerEncapsulation) appendValue(b []byte) []byte   { return appendBool(b, bool(o)) }
func (o EthernetEncapsulation) appendValue(b []byte) []byte  { return appendBool(b, bool(o)) }
func (o TCPKeepaliveGarbage) appendValue(b []byte) []byte    { return appendBool(b, bool(o)) }

func (o HostName) appendValue(b []byte) []byte       { return append(b, o...) }
func (o MeritDumpFile) appendValue(b []byte) []byte  { return append(b, o...) }
func (o DomainName) appendValue(b []byte) []byte     { return append(b, o...) }
func (o RootPath) appendValue(b []byte) []byte       { return append(b, o...) }
func (o ExtensionsPath) appendValue(b []byte) []byte { return append(b, o...) }
func (o NISDomain) appendValue(b []byte) []byte      { return append(b, o...) }
func (o Message) appendValue(b []byte) []byte        { return append(b, o...) }
func (o NISPlusDomain) appendValue(b []byte) []byte  { return append(b, o...) }
func (o TFTPServerName) appendValue(b []byte) []byte { return append(b, o...) }
func (o BootfileName) appendValue(b []byte) []byte   { return append(b, o...) }

func (o VendorSpecificInformation) appendValue(b []byte) []byte { return append(b, o...) }
func (o NetBIOSScope) appendValue(b []byte) []byte              { return append(b, o...) }
func (o VendorClassIdentifier) appendValue(b []byte) []byte     { return append(b, o...) }
func (o ClientIdentifier) appendValue(b []byte) []byte          { return append(b, o...) }

func (o ParameterRequestList) appendValue(b []byte) []byte {
	for _, c := range o {
		b = append(b, byte(c))
	}
	return b
}
