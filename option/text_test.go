package option_test

import (
	"net/netip"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ipchama/dhcpopt/option"
)

func TestParse(t *testing.T) {
	tests := []struct {
		code option.Code
		text string
		want option.Option
	}{
		{option.CodeSubnetMask, "255.255.255.0", option.SubnetMask(mask)},
		{option.CodeRouter, "192.168.0.1, 192.168.0.2", option.Router{addr1, addr2}},
		{option.CodeDomainNameServer, "192.168.0.1 192.168.0.2", option.DomainNameServer{addr1, addr2}},
		{
			option.CodeStaticRoute,
			"10.0.0.0/192.168.0.1",
			option.StaticRoute{{Destination: netip.MustParseAddr("10.0.0.0"), Router: addr1}},
		},
		{option.CodeTimeOffset, "-3600", option.TimeOffset(-3600)},
		{option.CodeDefaultIPTimeToLive, "64", option.DefaultIPTimeToLive(64)},
		{option.CodeInterfaceMTU, "1500", option.InterfaceMTU(1500)},
		{option.CodeIPAddressLeaseTime, "86400", option.IPAddressLeaseTime(86400)},
		{option.CodePathMTUPlateauTable, "68,296,1500", option.PathMTUPlateauTable{68, 296, 1500}},
		{option.CodeIPForwarding, "true", option.IPForwarding(true)},
		{option.CodeMaskSupplier, "0", option.MaskSupplier(false)},
		{option.CodeHostName, "host", option.HostName("host")},
		{option.CodeDomainName, "", option.DomainName("")},
		{option.CodeClientIdentifier, "01:de:ad:be:ef:00", option.ClientIdentifier{1, 0xde, 0xad, 0xbe, 0xef, 0}},
		{option.CodeVendorSpecificInformation, "0102", option.VendorSpecificInformation{1, 2}},
		{option.CodeNetBIOSNodeType, "H-node", option.HNode},
		{option.CodeNetBIOSNodeType, "2", option.PNode},
		{option.CodeOptionOverload, "both", option.OverloadBoth},
		{option.CodeMessageType, "discover", option.Discover},
		{option.CodeMessageType, "5", option.Ack},
		{
			option.CodeParameterRequestList,
			"subnet-mask,router,15,option-121",
			option.ParameterRequestList{option.CodeSubnetMask, option.CodeRouter, option.CodeDomainName, 121},
		},
		{option.CodeMobileIPHomeAgent, "", option.MobileIPHomeAgent(nil)},
		{option.CodeVendorSpecificInformation, "", option.VendorSpecificInformation(nil)},
		{option.CodePad, "", option.Pad{}},
		{option.CodeEnd, "ignored", option.End{}},
	}

	for _, tc := range tests {
		t.Run(tc.code.String(), func(t *testing.T) {
			got, err := option.Parse(tc.code, tc.text)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		code option.Code
		text string
	}{
		{"unknown code", option.Code(200), "x"},
		{"ipv6 address", option.CodeSubnetMask, "::1"},
		{"garbage address", option.CodeRouter, "192.168.0.1,nope"},
		{"empty router list", option.CodeRouter, ""},
		{"pair without slash", option.CodePolicyFilter, "10.0.0.0"},
		{"out of range", option.CodeDefaultIPTimeToLive, "256"},
		{"time offset overflow", option.CodeTimeOffset, "2147483648"},
		{"not a flag", option.CodeIPForwarding, "maybe"},
		{"empty host name", option.CodeHostName, ""},
		{"bad hex", option.CodeClientIdentifier, "zz"},
		{"short client identifier", option.CodeClientIdentifier, "01"},
		{"invalid node type", option.CodeNetBIOSNodeType, "3"},
		{"unknown message type", option.CodeMessageType, "hello"},
		{"unknown requested code", option.CodeParameterRequestList, "not-an-option"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			o, err := option.Parse(tc.code, tc.text)
			assert.Nil(t, o)

			var perr *option.ParsingError
			assert.ErrorAs(t, err, &perr)
		})
	}
}

func TestParseRejectsOversizedValue(t *testing.T) {
	long := make([]byte, 256)
	for i := range long {
		long[i] = 'a'
	}

	_, err := option.Parse(option.CodeHostName, string(long))
	assert.ErrorContains(t, err, "at most 255")

	_, err = option.Parse(option.CodeHostName, string(long[:255]))
	assert.NoError(t, err)
}

func TestFormatParsesBack(t *testing.T) {
	for _, tc := range variants {
		t.Run(tc.name, func(t *testing.T) {
			got, err := option.Parse(tc.opt.Code(), option.Format(tc.opt))
			require.NoError(t, err)
			assert.Equal(t, tc.opt, got)
		})
	}
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "192.168.0.1,192.168.0.2", option.Format(option.Router{addr1, addr2}))
	assert.Equal(t, "-3600", option.Format(option.TimeOffset(-3600)))
	assert.Equal(t, "true", option.Format(option.IPForwarding(true)))
	assert.Equal(t, "P-node", option.Format(option.PNode))
	assert.Equal(t, "ack", option.Format(option.Ack))
	assert.Equal(t, "01deadbeef", option.Format(option.ClientIdentifier{1, 0xde, 0xad, 0xbe, 0xef}))
	assert.Equal(t, "subnet-mask,router,option-121", option.Format(option.ParameterRequestList{1, 3, 121}))
	assert.Equal(t, "", option.Format(option.End{}))
}

func TestEntryOf(t *testing.T) {
	assert.Equal(t,
		option.Entry{Code: 3, Name: "router", Value: "192.168.0.1"},
		option.EntryOf(option.Router{addr1}))
}
