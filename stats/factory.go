package stats

import (
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/ipchama/dhcpopt/config"
)

type Stat struct {
	Name                string  `json:"stat_name"`
	Value               int     `json:"stat_value"`
	PreviousTickerValue int     `json:"stat_previous_ticker_value"`
	RatePerSecond       float64 `json:"stat_rate_per_second"`
}

type StatValue int

type Stats interface {
	AddStat(s StatValue) bool
	Init() error
	Run()
	String() string
	Stop() error
	DeInit() error
}

type StatsInitParams struct {
	options  config.HammerConfig
	registry *prometheus.Registry
	logFunc  func(string) bool
	errFunc  func(error) bool
}

var statters map[string]func(StatsInitParams) Stats = make(map[string]func(StatsInitParams) Stats)

func AddStatter(s string, f func(StatsInitParams) Stats) error {
	if _, found := statters[s]; found {
		return errors.Errorf("statter type already exists: %s", s)
	}

	statters[s] = f

	return nil
}

// New builds the statter registered for the hammer type. Prometheus
// collectors are registered on registry.
func New(o config.HammerConfig, registry *prometheus.Registry, logFunc func(string) bool, errFunc func(error) bool) (Stats, error) {
	sip := StatsInitParams{
		options:  o,
		registry: registry,
		logFunc:  logFunc,
		errFunc:  errFunc,
	}

	sf, ok := statters[o.HammerType()]

	if !ok {
		return nil, errors.Errorf("no statter for hammer type %q", o.HammerType())
	}

	return sf(sip), nil
}
