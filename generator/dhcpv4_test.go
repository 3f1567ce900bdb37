package generator

import (
	"net"
	"testing"
	"time"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ipchama/dhcpopt/config"
	"github.com/ipchama/dhcpopt/message"
	"github.com/ipchama/dhcpopt/option"
	"github.com/ipchama/dhcpopt/stats"
)

func newTestGenerator(o *config.DhcpV4Options, payloads chan []byte, statCh chan stats.StatValue) *GeneratorV4 {
	return NewDhcpV4(GeneratorInitParams{
		options:    o,
		iface:      &net.Interface{Name: "test0", HardwareAddr: net.HardwareAddr{0x02, 0, 0, 0, 0, 1}},
		gatewayMAC: net.HardwareAddr{0xde, 0xad, 0xbe, 0xef, 0xf0, 0x0d},
		logFunc:    func(string) bool { return true },
		errFunc:    func(error) bool { return true },
		payloadFunc: func(b []byte) bool {
			select {
			case payloads <- b:
				return true
			default:
				return false
			}
		},
		// Never blocks, like StatsV4.AddStat.
		statFunc: func(s stats.StatValue) bool {
			select {
			case statCh <- s:
				return true
			default:
				return false
			}
		},
	}).(*GeneratorV4)
}

func TestDiscoverOptions(t *testing.T) {
	mac := net.HardwareAddr{0x02, 0, 0, 0, 0, 0x42}

	assert.Equal(t, []option.Option{
		option.Discover,
		option.ClientIdentifier{1, 0x02, 0, 0, 0, 0, 0x42},
		config.DefaultParameterRequestList,
	}, DiscoverOptions(&config.DhcpV4Options{}, mac))

	o := &config.DhcpV4Options{
		ParameterRequestList: option.ParameterRequestList{option.CodeRouter, 121},
		Options:              []option.Option{option.HostName("probe"), option.MaximumMessageSize(1500)},
	}
	assert.Equal(t, []option.Option{
		option.Discover,
		option.ClientIdentifier{1, 0x02, 0, 0, 0, 0, 0x42},
		option.ParameterRequestList{option.CodeRouter, 121},
		option.HostName("probe"),
		option.MaximumMessageSize(1500),
	}, DiscoverOptions(o, mac))
}

func TestGenerateMacList(t *testing.T) {
	g := newTestGenerator(&config.DhcpV4Options{
		MacCount:      4,
		SpecifiedMacs: []string{"02:00:00:00:00:01", "nope"},
	}, nil, nil)

	macs := g.generateMacList()
	require.Len(t, macs, 4)
	assert.Equal(t, "02:00:00:00:00:01", macs[0].String())

	for _, mac := range macs[1:] {
		assert.Zero(t, mac[0]&0x01, "multicast bit set on %s", mac)
		assert.NotZero(t, mac[0]&0x02, "local bit clear on %s", mac)
	}
}

func TestGeneratorInitNeedsInterface(t *testing.T) {
	g := NewDhcpV4(GeneratorInitParams{options: &config.DhcpV4Options{}})
	assert.Error(t, g.Init())
}

func TestRunSendsDiscovers(t *testing.T) {
	payloads := make(chan []byte, 8)
	statCh := make(chan stats.StatValue, 8)

	g := newTestGenerator(&config.DhcpV4Options{
		DhcpBroadcast: true,
		TargetPort:    67,
		MacCount:      1,
		Options:       []option.Option{option.HostName("probe")},
	}, payloads, statCh)

	go g.Run()

	var frame []byte
	select {
	case frame = <-payloads:
	case <-time.After(5 * time.Second):
		t.Fatal("no DISCOVER sent")
	}

	require.NoError(t, g.Stop())
	assert.Equal(t, stats.DiscoverSentStat, <-statCh)

	p := gopacket.NewPacket(frame, layers.LayerTypeEthernet, gopacket.Default)

	eth := p.Layer(layers.LayerTypeEthernet).(*layers.Ethernet)
	assert.Equal(t, layers.EthernetBroadcast, eth.DstMAC)

	udp := p.Layer(layers.LayerTypeUDP).(*layers.UDP)
	assert.Equal(t, layers.UDPPort(68), udp.SrcPort)
	assert.Equal(t, layers.UDPPort(67), udp.DstPort)

	d := message.DHCPv4(p)
	require.NotNil(t, d)
	assert.Equal(t, layers.DHCPOpRequest, d.Operation)
	assert.Equal(t, uint16(0x8000), d.Flags)

	opts, _, err := message.Options(d)
	require.NoError(t, err)
	assert.Equal(t, DiscoverOptions(g.options, d.ClientHWAddr), opts)
}

func TestRunStopsAtMaxLifetime(t *testing.T) {
	g := newTestGenerator(&config.DhcpV4Options{
		EthernetBroadcast: false,
		RequestsPerSecond: 1,
		MaxLifetime:       1,
		MacCount:          1,
	}, make(chan []byte, 16), make(chan stats.StatValue, 16))

	done := make(chan struct{})
	go func() {
		g.Run()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(10 * time.Second):
		t.Fatal("generator did not stop at max lifetime")
	}
}
