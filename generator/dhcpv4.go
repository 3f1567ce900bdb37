package generator

import (
	"fmt"
	"math/rand"
	"net"
	"runtime"
	"time"

	"github.com/google/gopacket/layers"

	"github.com/ipchama/dhcpopt/config"
	"github.com/ipchama/dhcpopt/message"
	"github.com/ipchama/dhcpopt/option"
	"github.com/ipchama/dhcpopt/stats"
)

type GeneratorV4 struct {
	options       *config.DhcpV4Options
	iface         *net.Interface
	gatewayMAC    net.HardwareAddr
	addLog        func(string) bool
	addError      func(error) bool
	sendPayload   func([]byte) bool
	addStat       func(stats.StatValue) bool
	finishChannel chan struct{}
	doneChannel   chan struct{}
	rpsChannel    chan int
}

func init() {
	if err := AddGenerator("dhcpv4", NewDhcpV4); err != nil {
		panic(err)
	}
}

func NewDhcpV4(gip GeneratorInitParams) Generator {

	g := GeneratorV4{
		options:       gip.options.(*config.DhcpV4Options),
		iface:         gip.iface,
		gatewayMAC:    gip.gatewayMAC,
		sendPayload:   gip.payloadFunc,
		addLog:        gip.logFunc,
		addError:      gip.errFunc,
		addStat:       gip.statFunc,
		finishChannel: make(chan struct{}, 1),
		doneChannel:   make(chan struct{}),
		rpsChannel:    make(chan int, 1),
	}

	return &g
}

func (g *GeneratorV4) Init() error {
	if g.iface == nil || g.sendPayload == nil {
		return fmt.Errorf("dhcpv4 generator needs an initialized socketeer")
	}
	return nil
}

func (g *GeneratorV4) DeInit() error {
	return nil
}

func (g *GeneratorV4) Stop() error {
	g.finishChannel <- struct{}{}
	<-g.doneChannel
	return nil
}

func (g *GeneratorV4) Update(details interface{}) error {

	if d, ok := details.(map[string]interface{}); ok {
		if v, ok := d["rps"].(float64); ok {
			g.rpsChannel <- int(v)
			return nil
		}
	}

	return fmt.Errorf("Update request failed.  Data was %v", details)
}

// DiscoverOptions lists the options carried by a DISCOVER from mac, in
// wire order, End excluded.
func DiscoverOptions(o *config.DhcpV4Options, mac net.HardwareAddr) []option.Option {
	prl := o.ParameterRequestList
	if len(prl) == 0 {
		prl = config.DefaultParameterRequestList
	}

	opts := make([]option.Option, 0, len(o.Options)+3)
	opts = append(opts,
		option.Discover,
		message.ClientIdentifier(mac),
		prl,
	)

	return append(opts, o.Options...)
}

func (g *GeneratorV4) Run() {

	macs := g.generateMacList()
	nRand := rand.New(rand.NewSource(time.Now().UnixNano()))

	outDhcpLayer := &layers.DHCPv4{
		Operation:    layers.DHCPOpRequest,
		HardwareType: layers.LinkTypeEthernet,
		HardwareLen:  6,
		Flags:        0x8000, // Broadcast
	}

	if !g.options.DhcpBroadcast {
		outDhcpLayer.Flags = 0x0
	}

	// Options only change with the MAC, so they are built once per MAC.
	macOptions := make([]layers.DHCPOptions, len(macs))
	for i, mac := range macs {
		macOptions[i] = message.LayerOptions(DiscoverOptions(g.options, mac)...)
	}

	ethernetLayer := &layers.Ethernet{
		DstMAC:       layers.EthernetBroadcast,
		SrcMAC:       g.iface.HardwareAddr,
		EthernetType: layers.EthernetTypeIPv4,
		Length:       0,
	}

	if !g.options.EthernetBroadcast {
		ethernetLayer.DstMAC = g.gatewayMAC
	}

	ipLayer := &layers.IPv4{
		Version:  4,
		TTL:      64,
		Protocol: layers.IPProtocolUDP,
		SrcIP:    net.IPv4(0, 0, 0, 0),
		DstIP:    net.IPv4(255, 255, 255, 255),
	}

	udpLayer := &layers.UDP{
		SrcPort: layers.UDPPort(68),
		DstPort: layers.UDPPort(g.options.TargetPort),
	}

	if g.options.DhcpRelay {
		ipLayer.SrcIP = g.options.RelaySourceIP
		ipLayer.DstIP = g.options.RelayTargetServerIP

		ethernetLayer.DstMAC = g.gatewayMAC

		outDhcpLayer.RelayAgentIP = g.options.RelayGatewayIP

		udpLayer.SrcPort = 67
	}

	i := 0
	sent := 0

	start := time.Now()

	mRps := g.options.RequestsPerSecond

	var elapsed float64

	g.addLog(fmt.Sprintf("Prepared %d MACs, each DISCOVER carries %d options.", len(macs), len(macOptions[0])))

	for g.options.MaxLifetime == 0 || int(elapsed) <= g.options.MaxLifetime {

		select {
		case <-g.finishChannel:
			close(g.doneChannel)
			return
		default:
		}

		select {
		case mRps = <-g.rpsChannel:
			sent = 0
			start = time.Now()
			g.addLog(fmt.Sprintf("Rate changed to %d per second.", mRps))
		default:
		}

		elapsed = time.Since(start).Seconds()

		if mRps > 0 && elapsed > 0 && int(float64(sent)/elapsed) >= mRps {
			runtime.Gosched()
			continue
		}

		outDhcpLayer.Xid = nRand.Uint32()
		outDhcpLayer.ClientHWAddr = macs[i]
		outDhcpLayer.Options = macOptions[i]

		payload, err := message.Serialize(ethernetLayer, ipLayer, udpLayer, outDhcpLayer)
		if err != nil {
			g.addError(err)
		} else if g.sendPayload(payload) {
			g.addStat(stats.DiscoverSentStat)
		}

		sent++

		if i++; i > len(macs)-1 {
			i = 0
		}
	}

	g.addLog("Max lifetime reached.")
	close(g.doneChannel)
}

func (g *GeneratorV4) generateMacList() []net.HardwareAddr {
	nRand := rand.New(rand.NewSource(time.Now().UnixNano()))

	macs := make([]net.HardwareAddr, 0, g.options.MacCount)

	for _, m := range g.options.SpecifiedMacs {
		if mac, err := net.ParseMAC(m); err == nil {
			macs = append(macs, mac)
		} else {
			g.addError(err)
		}
	}

	for len(macs) < g.options.MacCount || len(macs) == 0 {
		mac := make(net.HardwareAddr, 6)
		nRand.Read(mac)
		// Unicast, locally administered.
		mac[0] = mac[0]&^0x01 | 0x02
		macs = append(macs, mac)
	}

	return macs
}
