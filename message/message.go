package message

import (
	"net"

	"github.com/google/gopacket"
)

// Message is one captured frame together with the IPv4 source address and
// UDP source port of its sender, when it has them.
type Message struct {
	RemoteAddress net.IP
	RemotePort    int
	Packet        gopacket.Packet
}
