package config

import (
	"net"

	"golang.org/x/sys/unix"
)

type SocketeerOptions struct {
	InterfaceName   string
	GatewayMAC      net.HardwareAddr
	PromiscuousMode bool
	Filter          *unix.SockFprog
}
