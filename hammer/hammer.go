package hammer

import (
	"fmt"
	"sync"

	"github.com/corneldamian/httpway"
	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"

	"github.com/ipchama/dhcpopt/config"
	"github.com/ipchama/dhcpopt/generator"
	"github.com/ipchama/dhcpopt/handler"
	"github.com/ipchama/dhcpopt/socketeer"
	"github.com/ipchama/dhcpopt/stats"
)

// Hammer wires a socketeer, a generator, a handler and a statter together
// and runs them until the generator finishes or Stop is called.
type Hammer struct {
	socketeerOptions *config.SocketeerOptions
	options          config.HammerConfig

	logChannel   chan string
	errorChannel chan error

	registry *prometheus.Registry

	handler   handler.Handler
	generator generator.Generator
	stats     stats.Stats
	socketeer *socketeer.RawSocketeer

	apiAddress string
	apiServer  *httpway.Server
	apiLock    sync.Mutex
	apiStopped bool
}

func New(so *config.SocketeerOptions, o config.HammerConfig) *Hammer {

	h := Hammer{
		socketeerOptions: so,
		options:          o,
		logChannel:       make(chan string, 1000),
		errorChannel:     make(chan error, 1000),
		registry:         prometheus.NewRegistry(),
	}

	return &h
}

// Init builds every component and the API server. Nothing runs until Run.
func (h *Hammer) Init(apiAddress string, apiPort int) error {

	var err error

	h.apiAddress = fmt.Sprintf("%s:%d", apiAddress, apiPort)
	h.newApiServer()

	if h.stats, err = stats.New(h.options, h.registry, h.addLog, h.addError); err != nil {
		return err
	}

	if err = h.stats.Init(); err != nil {
		return err
	}

	h.socketeer = socketeer.NewRawSocketeer(h.socketeerOptions, h.addLog, h.addError)
	if err = h.socketeer.Init(); err != nil {
		return err
	}

	defer func() {
		if err != nil {
			_ = h.socketeer.DeInit()
		}
	}()

	if h.handler, err = handler.New(h.socketeer, h.options, h.addLog, h.addError, h.stats.AddStat); err != nil {
		return err
	}

	if err = h.handler.Init(); err != nil {
		return err
	}

	h.socketeer.SetReceiver(h.handler.ReceiveMessage)

	if h.generator, err = generator.New(h.socketeer, h.options, h.addLog, h.addError, h.stats.AddStat); err != nil {
		return err
	}

	if err = h.generator.Init(); err != nil {
		return err
	}

	return nil
}

func (h *Hammer) deInit() {
	var err error

	if err = h.socketeer.DeInit(); err != nil {
		h.addError(err)
	}

	if err = h.handler.DeInit(); err != nil {
		h.addError(err)
	}

	if err = h.generator.DeInit(); err != nil {
		h.addError(err)
	}

	if err = h.stats.DeInit(); err != nil {
		h.addError(err)
	}
}

func (h *Hammer) Run() error {

	var wg sync.WaitGroup

	run := func(name string, f func()) {
		log.WithField("component", name).Info("Starting")
		wg.Add(1)
		go func() {
			defer wg.Done()
			f()
			log.WithField("component", name).Info("Stopped")
		}()
	}

	run("error reader", func() {
		for err := range h.errorChannel {
			log.WithError(err).Error("Hammer error")
		}
	})

	run("log reader", func() {
		for msg := range h.logChannel {
			log.Info(msg)
		}
	})

	run("stats", h.stats.Run)
	run("writer", h.socketeer.RunWriter)
	run("handler", h.handler.Run)
	run("listener", h.socketeer.RunListener)

	run("generator", func() {
		h.generator.Run()
		log.Info("Generator finished, stopping everything else")
		h.stop()
	})

	log.WithField("address", h.apiAddress).Info("Starting API server")
	h.startApiServer()
	log.Info("Stopped API server")

	wg.Wait()

	log.Info(h.stats.String())

	return nil
}

func (h *Hammer) addError(e error) bool {
	select {
	case h.errorChannel <- e:
		return true
	default:
	}
	return false
}

func (h *Hammer) addLog(s string) bool {
	select {
	case h.logChannel <- s:
		return true
	default:
	}

	return false
}

// Stop blocks until the generator has stopped producing payloads. The rest
// is torn down from Run.
func (h *Hammer) Stop() {
	if err := h.generator.Stop(); err != nil {
		h.addError(err)
	}
}

func (h *Hammer) stop() {
	var err error

	// Each step blocks until its component has drained.

	if err = h.stopApiServer(); err != nil {
		h.addError(err)
	}

	if err = h.socketeer.StopListener(); err != nil {
		h.addError(err)
	}

	if err = h.handler.Stop(); err != nil {
		h.addError(err)
	}

	if err = h.socketeer.StopWriter(); err != nil {
		h.addError(err)
	}

	if err = h.stats.Stop(); err != nil {
		h.addError(err)
	}

	h.deInit()

	close(h.errorChannel)
	close(h.logChannel)
}
