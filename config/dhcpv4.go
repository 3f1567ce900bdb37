package config

import (
	"net"

	"github.com/ipchama/dhcpopt/option"
)

// DhcpV4Options drives a probe run: DISCOVERs carrying Options go out, and
// every reply has its options decoded.
type DhcpV4Options struct {
	Handshake         bool
	EthernetBroadcast bool
	DhcpBroadcast     bool

	DhcpRelay           bool
	RelaySourceIP       net.IP
	RelayGatewayIP      net.IP
	RelayTargetServerIP net.IP
	TargetPort          int

	// Sent in every DISCOVER after the message type.
	ParameterRequestList option.ParameterRequestList
	Options              []option.Option

	RequestsPerSecond int
	MaxLifetime       int

	MacCount      int
	SpecifiedMacs []string

	StatsRate int
}

func (o *DhcpV4Options) HammerType() string {
	return "dhcpv4"
}

// DefaultParameterRequestList is what dhclient asks for out of the box.
var DefaultParameterRequestList = option.ParameterRequestList{
	option.CodeSubnetMask,
	option.CodeNISDomain,
	option.CodeRouter,
	option.CodeDomainName,
	option.CodeDomainNameServer,
}
