package handler

import (
	"net"

	"github.com/pkg/errors"

	"github.com/ipchama/dhcpopt/config"
	"github.com/ipchama/dhcpopt/message"
	"github.com/ipchama/dhcpopt/socketeer"
	"github.com/ipchama/dhcpopt/stats"
)

// Handler consumes frames read by the socketeer.
type Handler interface {
	ReceiveMessage(m message.Message) bool
	Init() error
	Run()
	Stop() error
	DeInit() error
}

type HandlerInitParams struct {
	options     config.HammerConfig
	iface       *net.Interface
	gatewayMAC  net.HardwareAddr
	logFunc     func(string) bool
	errFunc     func(error) bool
	payloadFunc func([]byte) bool
	statFunc    func(stats.StatValue) bool
}

var handlers = make(map[string]func(HandlerInitParams) Handler)

func AddHandler(s string, f func(HandlerInitParams) Handler) error {
	if _, found := handlers[s]; found {
		return errors.Errorf("handler type already exists: %s", s)
	}

	handlers[s] = f

	return nil
}

func New(s *socketeer.RawSocketeer, o config.HammerConfig, logFunc func(string) bool, errFunc func(error) bool, statFunc func(stats.StatValue) bool) (Handler, error) {
	hip := HandlerInitParams{
		options:  o,
		logFunc:  logFunc,
		errFunc:  errFunc,
		statFunc: statFunc,
	}

	if s != nil {
		hip.iface = s.IfInfo
		hip.gatewayMAC = s.Options().GatewayMAC
		hip.payloadFunc = s.AddPayload
	}

	hf, ok := handlers[o.HammerType()]

	if !ok {
		return nil, errors.Errorf("no handler for hammer type %q", o.HammerType())
	}

	return hf(hip), nil
}
