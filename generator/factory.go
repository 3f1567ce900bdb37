package generator

import (
	"net"

	"github.com/pkg/errors"

	"github.com/ipchama/dhcpopt/config"
	"github.com/ipchama/dhcpopt/socketeer"
	"github.com/ipchama/dhcpopt/stats"
)

// Generator produces probe traffic until Stop is called or its own
// lifetime runs out.
type Generator interface {
	Init() error
	Update(interface{}) error
	Run()
	Stop() error
	DeInit() error
}

type GeneratorInitParams struct {
	options     config.HammerConfig
	iface       *net.Interface
	gatewayMAC  net.HardwareAddr
	logFunc     func(string) bool
	errFunc     func(error) bool
	payloadFunc func([]byte) bool
	statFunc    func(stats.StatValue) bool
}

var generators = make(map[string]func(GeneratorInitParams) Generator)

func AddGenerator(s string, f func(GeneratorInitParams) Generator) error {
	if _, found := generators[s]; found {
		return errors.Errorf("generator type already exists: %s", s)
	}

	generators[s] = f

	return nil
}

// New builds the generator registered for the hammer type. A nil socketeer
// leaves the interface and payload sink unset, and Init will refuse to run.
func New(s *socketeer.RawSocketeer, o config.HammerConfig, logFunc func(string) bool, errFunc func(error) bool, statFunc func(stats.StatValue) bool) (Generator, error) {

	gip := GeneratorInitParams{
		options:  o,
		logFunc:  logFunc,
		errFunc:  errFunc,
		statFunc: statFunc,
	}

	if s != nil {
		gip.iface = s.IfInfo
		gip.gatewayMAC = s.Options().GatewayMAC
		gip.payloadFunc = s.AddPayload
	}

	gf, ok := generators[o.HammerType()]

	if !ok {
		return nil, errors.Errorf("no generator for hammer type %q", o.HammerType())
	}

	return gf(gip), nil
}
