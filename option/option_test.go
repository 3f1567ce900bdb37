package option_test

import (
	"net/netip"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ipchama/dhcpopt/option"
)

var (
	addr1 = netip.MustParseAddr("192.168.0.1")
	addr2 = netip.MustParseAddr("192.168.0.2")
	mask  = netip.MustParseAddr("255.255.255.0")

	twoAddrs = []byte{192, 168, 0, 1, 192, 168, 0, 2}
)

func withHeader(code byte, value ...byte) []byte {
	return append([]byte{code, byte(len(value))}, value...)
}

// One entry per variant. wire is the complete encoding.
var variants = []struct {
	name string
	opt  option.Option
	wire []byte
}{
	{"pad", option.Pad{}, []byte{0}},
	{"end", option.End{}, []byte{255}},
	{"subnet mask", option.SubnetMask(mask), withHeader(1, 255, 255, 255, 0)},
	{"time offset", option.TimeOffset(0x12345678), withHeader(2, 0x12, 0x34, 0x56, 0x78)},
	{"negative time offset", option.TimeOffset(-3600), withHeader(2, 0xff, 0xff, 0xf1, 0xf0)},
	{"router", option.Router{addr1, addr2}, withHeader(3, twoAddrs...)},
	{"time server", option.TimeServer{addr1, addr2}, withHeader(4, twoAddrs...)},
	{"name server", option.NameServer{addr1, addr2}, withHeader(5, twoAddrs...)},
	{"domain name server", option.DomainNameServer{addr1, addr2}, withHeader(6, twoAddrs...)},
	{"log server", option.LogServer{addr1, addr2}, withHeader(7, twoAddrs...)},
	{"cookie server", option.CookieServer{addr1, addr2}, withHeader(8, twoAddrs...)},
	{"lpr server", option.LPRServer{addr1, addr2}, withHeader(9, twoAddrs...)},
	{"impress server", option.ImpressServer{addr1, addr2}, withHeader(10, twoAddrs...)},
	{"resource location server", option.ResourceLocationServer{addr1, addr2}, withHeader(11, twoAddrs...)},
	{"host name", option.HostName("host"), withHeader(12, 'h', 'o', 's', 't')},
	{"boot file size", option.BootFileSize(1024), withHeader(13, 4, 0)},
	{"merit dump file", option.MeritDumpFile("dump"), withHeader(14, 'd', 'u', 'm', 'p')},
	{"domain name", option.DomainName("domain"), withHeader(15, 'd', 'o', 'm', 'a', 'i', 'n')},
	{"empty domain name", option.DomainName(""), withHeader(15)},
	{"swap server", option.SwapServer(addr1), withHeader(16, 192, 168, 0, 1)},
	{"root path", option.RootPath("/root"), withHeader(17, '/', 'r', 'o', 'o', 't')},
	{"extensions path", option.ExtensionsPath("/ext"), withHeader(18, '/', 'e', 'x', 't')},
	{"ip forwarding on", option.IPForwarding(true), withHeader(19, 1)},
	{"ip forwarding off", option.IPForwarding(false), withHeader(19, 0)},
	{"non local source routing", option.NonLocalSourceRouting(true), withHeader(20, 1)},
	{
		"policy filter",
		option.PolicyFilter{{Address: addr1, Mask: mask}, {Address: addr2, Mask: mask}},
		withHeader(21, 192, 168, 0, 1, 255, 255, 255, 0, 192, 168, 0, 2, 255, 255, 255, 0),
	},
	{"max datagram reassembly size", option.MaximumDatagramReassemblySize(1500), withHeader(22, 5, 220)},
	{"default ip ttl", option.DefaultIPTimeToLive(64), withHeader(23, 64)},
	{"path mtu aging timeout", option.PathMTUAgingTimeout(600), withHeader(24, 0, 0, 2, 88)},
	{"path mtu plateau table", option.PathMTUPlateauTable{68, 1500}, withHeader(25, 0, 68, 5, 220)},
	{"interface mtu", option.InterfaceMTU(9000), withHeader(26, 0x23, 0x28)},
	{"all subnets are local", option.AllSubnetsAreLocal(true), withHeader(27, 1)},
	{"broadcast address", option.BroadcastAddress(netip.MustParseAddr("192.168.0.255")), withHeader(28, 192, 168, 0, 255)},
	{"perform mask discovery", option.PerformMaskDiscovery(false), withHeader(29, 0)},
	{"mask supplier", option.MaskSupplier(true), withHeader(30, 1)},
	{"perform router discovery", option.PerformRouterDiscovery(true), withHeader(31, 1)},
	{"router solicitation address", option.RouterSolicitationAddress(addr1), withHeader(32, 192, 168, 0, 1)},
	{
		"static route",
		option.StaticRoute{{Destination: netip.MustParseAddr("10.0.0.0"), Router: addr1}},
		withHeader(33, 10, 0, 0, 0, 192, 168, 0, 1),
	},
	{"trailer encapsulation", option.TrailerEncapsulation(true), withHeader(34, 1)},
	{"arp cache timeout", option.ARPCacheTimeout(60), withHeader(35, 0, 0, 0, 60)},
	{"ethernet encapsulation", option.EthernetEncapsulation(false), withHeader(36, 0)},
	{"tcp default ttl", option.TCPDefaultTTL(128), withHeader(37, 128)},
	{"tcp keepalive interval", option.TCPKeepaliveInterval(7200), withHeader(38, 0, 0, 0x1c, 0x20)},
	{"tcp keepalive garbage", option.TCPKeepaliveGarbage(true), withHeader(39, 1)},
	{"nis domain", option.NISDomain("nis"), withHeader(40, 'n', 'i', 's')},
	{"nis servers", option.NISServers{addr1, addr2}, withHeader(41, twoAddrs...)},
	{"ntp servers", option.NTPServers{addr1, addr2}, withHeader(42, twoAddrs...)},
	{
		"vendor specific information",
		option.VendorSpecificInformation{1, 2, 3, 4, 5, 6, 7, 8, 9, 10},
		withHeader(43, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10),
	},
	{"empty vendor specific information", option.VendorSpecificInformation(nil), withHeader(43)},
	{"netbios name server", option.NetBIOSNameServer{addr1, addr2}, withHeader(44, twoAddrs...)},
	{"netbios datagram distribution server", option.NetBIOSDatagramDistributionServer{addr1, addr2}, withHeader(45, twoAddrs...)},
	{"netbios node type", option.PNode, withHeader(46, 2)},
	{"netbios scope", option.NetBIOSScope{1, 2, 3}, withHeader(47, 1, 2, 3)},
	{"x window font server", option.XWindowFontServer{addr1, addr2}, withHeader(48, twoAddrs...)},
	{"x window display manager", option.XWindowDisplayManager{addr1, addr2}, withHeader(49, twoAddrs...)},
	{"requested ip address", option.RequestedIPAddress(addr2), withHeader(50, 192, 168, 0, 2)},
	{"ip address lease time", option.IPAddressLeaseTime(86400), withHeader(51, 0, 1, 0x51, 0x80)},
	{"option overload", option.OverloadBoth, withHeader(52, 3)},
	{"message type", option.Ack, withHeader(53, 5)},
	{"server identifier", option.ServerIdentifier(addr1), withHeader(54, 192, 168, 0, 1)},
	{
		"parameter request list",
		option.ParameterRequestList{option.CodeSubnetMask, option.CodeRouter, option.CodeDomainNameServer},
		withHeader(55, 1, 3, 6),
	},
	{"message", option.Message("no leases"), withHeader(56, 'n', 'o', ' ', 'l', 'e', 'a', 's', 'e', 's')},
	{"max message size", option.MaximumMessageSize(1500), withHeader(57, 5, 220)},
	{"renewal time", option.RenewalTime(43200), withHeader(58, 0, 0, 0xa8, 0xc0)},
	{"rebinding time", option.RebindingTime(75600), withHeader(59, 0, 1, 0x27, 0x50)},
	{"vendor class identifier", option.VendorClassIdentifier("MSFT 5.0"), withHeader(60, 'M', 'S', 'F', 'T', ' ', '5', '.', '0')},
	{"client identifier", option.ClientIdentifier{1, 0xde, 0xad, 0xbe, 0xef, 0xf0, 0x0d}, withHeader(61, 1, 0xde, 0xad, 0xbe, 0xef, 0xf0, 0x0d)},
	{"nis plus domain", option.NISPlusDomain("domain"), withHeader(64, 'd', 'o', 'm', 'a', 'i', 'n')},
	{"nis plus servers", option.NISPlusServers{addr1, addr2}, withHeader(65, twoAddrs...)},
	{"tftp server name", option.TFTPServerName("tftp"), withHeader(66, 't', 'f', 't', 'p')},
	{"bootfile name", option.BootfileName("pxelinux.0"), withHeader(67, 'p', 'x', 'e', 'l', 'i', 'n', 'u', 'x', '.', '0')},
	{"mobile ip home agent", option.MobileIPHomeAgent{addr1, addr2}, withHeader(68, twoAddrs...)},
	{"no mobile ip home agent", option.MobileIPHomeAgent(nil), withHeader(68)},
	{"smtp server", option.SMTPServer{addr1, addr2}, withHeader(69, twoAddrs...)},
	{"pop3 server", option.POP3Server{addr1, addr2}, withHeader(70, twoAddrs...)},
	{"nntp server", option.NNTPServer{addr1, addr2}, withHeader(71, twoAddrs...)},
	{"www server", option.WWWServer{addr1}, withHeader(72, 192, 168, 0, 1)},
	{"finger server", option.FingerServer{addr1}, withHeader(73, 192, 168, 0, 1)},
	{"irc server", option.IRCServer{addr1}, withHeader(74, 192, 168, 0, 1)},
	{"streettalk server", option.StreetTalkServer{addr1}, withHeader(75, 192, 168, 0, 1)},
	{"stda server", option.STDAServer{addr1}, withHeader(76, 192, 168, 0, 1)},
}

func TestEncode(t *testing.T) {
	for _, tc := range variants {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.wire, option.Encode(tc.opt))
		})
	}
}

func TestDecode(t *testing.T) {
	for _, tc := range variants {
		t.Run(tc.name, func(t *testing.T) {
			o, rest, err := option.Decode(tc.wire)
			require.NoError(t, err)
			assert.Equal(t, tc.opt, o)
			assert.Empty(t, rest)
		})
	}
}

func TestDecodeLeavesTrailingBytes(t *testing.T) {
	trailer := []byte{255, 0, 9}
	for _, tc := range variants {
		t.Run(tc.name, func(t *testing.T) {
			data := append(append([]byte{}, tc.wire...), trailer...)
			o, rest, err := option.Decode(data)
			require.NoError(t, err)
			assert.Equal(t, tc.opt, o)
			assert.Equal(t, trailer, rest)
		})
	}
}

func TestEveryCodeHasAVariant(t *testing.T) {
	seen := map[option.Code]bool{}
	for _, tc := range variants {
		seen[tc.opt.Code()] = true
	}
	for _, c := range option.Codes() {
		assert.True(t, seen[c], "no test variant for %s", c)
	}
}

func TestScenarios(t *testing.T) {
	t.Run("subnet mask", func(t *testing.T) {
		assert.Equal(t, []byte{1, 4, 255, 255, 255, 0}, option.Encode(option.SubnetMask(mask)))

		o, rest, err := option.Decode([]byte{1, 4, 255, 255, 255, 0, 9})
		require.NoError(t, err)
		assert.Equal(t, option.SubnetMask(mask), o)
		assert.Equal(t, []byte{9}, rest)
	})

	t.Run("router", func(t *testing.T) {
		assert.Equal(t,
			[]byte{3, 8, 192, 168, 0, 1, 192, 168, 0, 2},
			option.Encode(option.Router{addr1, addr2}))
	})

	t.Run("host name", func(t *testing.T) {
		assert.Equal(t, []byte{12, 4, 104, 111, 115, 116}, option.Encode(option.HostName("host")))
	})

	t.Run("empty home agent list", func(t *testing.T) {
		o, rest, err := option.Decode([]byte{68, 0})
		require.NoError(t, err)
		assert.Equal(t, option.MobileIPHomeAgent(nil), o)
		assert.Empty(t, rest)
	})

	t.Run("node type", func(t *testing.T) {
		o, rest, err := option.Decode([]byte{46, 1, 2})
		require.NoError(t, err)
		assert.Equal(t, option.PNode, o)
		assert.Empty(t, rest)

		_, _, err = option.Decode([]byte{46, 1, 3})
		assert.Error(t, err)
	})

	t.Run("pad and end take no length", func(t *testing.T) {
		o, rest, err := option.Decode([]byte{0x00, 0xff})
		require.NoError(t, err)
		assert.Equal(t, option.Pad{}, o)
		assert.Equal(t, []byte{0xff}, rest)

		o, rest, err = option.Decode([]byte{0xff, 0x00})
		require.NoError(t, err)
		assert.Equal(t, option.End{}, o)
		assert.Equal(t, []byte{0x00}, rest)
	})
}

func TestBoolNonzeroIsTrue(t *testing.T) {
	for _, b := range []byte{1, 2, 0x80, 0xff} {
		o, _, err := option.Decode([]byte{19, 1, b})
		require.NoError(t, err)
		assert.Equal(t, option.IPForwarding(true), o)
	}

	assert.Equal(t, []byte{39, 1, 1}, option.Encode(option.TCPKeepaliveGarbage(true)))
}

func TestDecodeDoesNotAliasInput(t *testing.T) {
	data := []byte{43, 3, 1, 2, 3}
	o, _, err := option.Decode(data)
	require.NoError(t, err)

	data[2] = 0xaa
	assert.Equal(t, option.VendorSpecificInformation{1, 2, 3}, o)
}

func TestEmptyValueDecodesAsNil(t *testing.T) {
	for _, o := range []option.Option{
		option.VendorSpecificInformation{},
		option.VendorSpecificInformation(nil),
		option.MobileIPHomeAgent{},
		option.MobileIPHomeAgent(nil),
	} {
		got, rest, err := option.Decode(option.Encode(o))
		require.NoError(t, err)
		assert.Empty(t, rest)
		assert.True(t, reflect.ValueOf(got).IsNil(), "%T decoded as %#v", o, got)
	}
}

func TestEncodeNonIPv4Address(t *testing.T) {
	assert.Equal(t, []byte{1, 4, 0, 0, 0, 0}, option.Encode(option.SubnetMask(netip.Addr{})))
	assert.Equal(t,
		[]byte{3, 4, 10, 0, 0, 1},
		option.Encode(option.Router{netip.MustParseAddr("::ffff:10.0.0.1")}))
}

func TestEncodeAllDecodeAll(t *testing.T) {
	opts := []option.Option{
		option.Discover,
		option.HostName("host"),
		option.Router{addr1},
		option.IPAddressLeaseTime(3600),
	}

	data := option.EncodeAll(opts...)
	data = append(data, 0, 0, 255, 0, 0, 0)

	got, err := option.DecodeAll(data)
	require.NoError(t, err)
	assert.Equal(t, opts, got)

	withPad := option.EncodeAll(option.Pad{}, option.SubnetMask(mask), option.Pad{})
	got, err = option.DecodeAll(withPad)
	require.NoError(t, err)
	assert.Equal(t, []option.Option{option.SubnetMask(mask)}, got)

	_, err = option.DecodeAll([]byte{53, 1, 1, 3, 5, 1})
	assert.Error(t, err)
}
