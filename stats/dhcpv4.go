package stats

import (
	"encoding/json"
	"sort"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/ipchama/dhcpopt/config"
	"github.com/ipchama/dhcpopt/option"
)

const (
	DiscoverSentStat StatValue = iota
	RequestSentStat

	OfferReceivedStat
	AckReceivedStat
	NakReceivedStat
	OtherReceivedStat

	OptionDecodedStat
	OptionDecodeErrorStat
	OptionUnknownStat

	counterCount
)

// Values at or above optionStatBase count a single option code.
const optionStatBase StatValue = 1 << 10

// OptionSeenStat is the stat recorded for every decoded option with code c.
func OptionSeenStat(c option.Code) StatValue {
	return optionStatBase + StatValue(c)
}

type metricsV4 struct {
	packets  *prometheus.CounterVec
	rates    *prometheus.GaugeVec
	optCodes *prometheus.CounterVec
}

func newMetricsV4(registry *prometheus.Registry) metricsV4 {
	factory := promauto.With(registry)

	namespace := "dhcpopt"
	subsystem := "probe"

	return metricsV4{
		packets: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "events_total",
			Help:      "Packets sent and received, and option decode results.",
		}, []string{"stat"}),
		rates: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "events_per_second",
			Help:      "Rate of each stat over the last stats interval.",
		}, []string{"stat"}),
		optCodes: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "options_seen_total",
			Help:      "Options decoded from replies, by option code.",
		}, []string{"code"}),
	}
}

type StatsV4 struct {
	options *config.DhcpV4Options

	countersMux *sync.RWMutex
	counters    [counterCount]Stat
	optCounters map[option.Code]int

	metrics metricsV4

	addLog   func(string) bool
	addError func(error) bool

	statChannel chan StatValue
	doneChannel chan struct{}
}

func init() {
	if err := AddStatter("dhcpv4", NewStatsDhcpV4); err != nil {
		panic(err)
	}
}

func NewStatsDhcpV4(sip StatsInitParams) Stats {
	registry := sip.registry
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	s := StatsV4{
		options:     sip.options.(*config.DhcpV4Options),
		addLog:      sip.logFunc,
		addError:    sip.errFunc,
		statChannel: make(chan StatValue, 10000),
		doneChannel: make(chan struct{}, 1),
		countersMux: &sync.RWMutex{},
		optCounters: make(map[option.Code]int),
		metrics:     newMetricsV4(registry),
	}

	return &s
}

func (s *StatsV4) AddStat(sv StatValue) bool {
	select {
	case s.statChannel <- sv:
		return true
	default:
	}
	return false
}

func (s *StatsV4) Init() error {

	s.counters[DiscoverSentStat].Name = "DiscoverSent"
	s.counters[RequestSentStat].Name = "RequestSent"
	s.counters[OfferReceivedStat].Name = "OfferReceived"
	s.counters[AckReceivedStat].Name = "AckReceived"
	s.counters[NakReceivedStat].Name = "NakReceived"
	s.counters[OtherReceivedStat].Name = "OtherReceived"
	s.counters[OptionDecodedStat].Name = "OptionDecoded"
	s.counters[OptionDecodeErrorStat].Name = "OptionDecodeError"
	s.counters[OptionUnknownStat].Name = "OptionUnknown"

	return nil
}

func (s *StatsV4) DeInit() error {
	return nil
}

func (s *StatsV4) Run() {

	var wg sync.WaitGroup

	wg.Add(1)

	stopTicker := make(chan struct{})

	rate := s.options.StatsRate
	if rate <= 0 {
		rate = 5
	}

	ticker := time.NewTicker(time.Duration(rate) * time.Second)
	go func() {
		for {
			select {
			case <-stopTicker:
				ticker.Stop()
				wg.Done()
				return
			case <-ticker.C:
			}

			if err := s.calculateStats(float64(rate)); err != nil {
				s.addError(err)
			}
		}
	}()

	for sv := range s.statChannel {
		s.record(sv)
	}

	stopTicker <- struct{}{}
	wg.Wait()

	close(s.doneChannel)
}

func (s *StatsV4) record(sv StatValue) {
	if sv >= optionStatBase {
		c := option.Code(sv - optionStatBase)

		s.countersMux.Lock()
		s.optCounters[c]++
		s.countersMux.Unlock()

		s.metrics.optCodes.WithLabelValues(c.String()).Inc()
		return
	}

	if sv < 0 || sv >= counterCount {
		return
	}

	s.countersMux.Lock()
	s.counters[sv].Value++
	name := s.counters[sv].Name
	s.countersMux.Unlock()

	s.metrics.packets.WithLabelValues(name).Inc()
}

func (s *StatsV4) calculateStats(interval float64) error {

	s.countersMux.Lock()
	for i := 0; i < len(s.counters); i++ {
		s.counters[i].RatePerSecond = float64(s.counters[i].Value-s.counters[i].PreviousTickerValue) / interval
		s.counters[i].PreviousTickerValue = s.counters[i].Value
		s.metrics.rates.WithLabelValues(s.counters[i].Name).Set(s.counters[i].RatePerSecond)
	}
	s.countersMux.Unlock()

	return nil
}

type optionCount struct {
	Code  uint8  `json:"code"`
	Name  string `json:"name"`
	Count int    `json:"count"`
}

type reportV4 struct {
	Counters []Stat        `json:"counters"`
	Options  []optionCount `json:"options"`
}

func (s *StatsV4) String() string {

	s.countersMux.RLock()

	r := reportV4{
		Counters: append([]Stat(nil), s.counters[:]...),
		Options:  make([]optionCount, 0, len(s.optCounters)),
	}
	for c, n := range s.optCounters {
		r.Options = append(r.Options, optionCount{Code: uint8(c), Name: c.String(), Count: n})
	}

	s.countersMux.RUnlock()

	sort.Slice(r.Options, func(i, j int) bool { return r.Options[i].Code < r.Options[j].Code })

	if jsonData, err := json.MarshalIndent(r, "", "  "); err != nil {
		s.addError(err)
		return ""
	} else {
		return string(jsonData)
	}
}

func (s *StatsV4) Stop() error {
	close(s.statChannel)
	_, _ = <-s.doneChannel

	return nil
}
