package handler

import (
	"fmt"
	"net"
	"net/netip"
	"sort"
	"sync"
	"time"

	"github.com/google/gopacket/layers"

	"github.com/ipchama/dhcpopt/config"
	"github.com/ipchama/dhcpopt/message"
	"github.com/ipchama/dhcpopt/option"
	"github.com/ipchama/dhcpopt/stats"
)

// Reply is the latest decoded reply from one server.
type Reply struct {
	Received  time.Time
	Server    net.IP
	Xid       uint32
	ClientMAC net.HardwareAddr
	YourIP    net.IP
	Type      option.MessageType
	Options   []option.Option
}

// ReplyReporter is implemented by handlers that keep decoded replies.
type ReplyReporter interface {
	LastReplies() []Reply
}

type HandlerV4 struct {
	options      *config.DhcpV4Options
	iface        *net.Interface
	gatewayMAC   net.HardwareAddr
	addLog       func(string) bool
	addError     func(error) bool
	sendPayload  func([]byte) bool
	addStat      func(stats.StatValue) bool
	inputChannel chan message.Message
	doneChannel  chan struct{}

	repliesMux *sync.RWMutex
	replies    map[string]Reply
}

func init() {
	if err := AddHandler("dhcpv4", NewDhcpV4); err != nil {
		panic(err)
	}
}

func NewDhcpV4(hip HandlerInitParams) Handler {

	h := HandlerV4{
		options:      hip.options.(*config.DhcpV4Options),
		iface:        hip.iface,
		gatewayMAC:   hip.gatewayMAC,
		addLog:       hip.logFunc,
		addError:     hip.errFunc,
		sendPayload:  hip.payloadFunc,
		addStat:      hip.statFunc,
		inputChannel: make(chan message.Message, 10000),
		doneChannel:  make(chan struct{}),
		repliesMux:   &sync.RWMutex{},
		replies:      make(map[string]Reply),
	}

	return &h
}

func (h *HandlerV4) ReceiveMessage(msg message.Message) bool {

	select {
	case h.inputChannel <- msg:
		return true
	default:
	}

	return false
}

func (h *HandlerV4) Init() error {
	if h.options.Handshake && (h.iface == nil || h.sendPayload == nil) {
		return fmt.Errorf("dhcpv4 handler needs an initialized socketeer for handshakes")
	}
	return nil
}

func (h *HandlerV4) DeInit() error {
	return nil
}

func (h *HandlerV4) Stop() error {
	close(h.inputChannel)
	<-h.doneChannel
	return nil
}

func (h *HandlerV4) Run() {

	for msg := range h.inputChannel {
		h.handle(msg)
	}

	close(h.doneChannel)
}

func (h *HandlerV4) handle(msg message.Message) {

	dhcp := message.DHCPv4(msg.Packet)
	if dhcp == nil || dhcp.Operation != layers.DHCPOpReply {
		return
	}

	opts, unknown, err := message.Options(dhcp)
	if err != nil {
		h.addStat(stats.OptionDecodeErrorStat)
		h.addError(fmt.Errorf("reply %#08x from %s: %w", dhcp.Xid, msg.RemoteAddress, err))
		return
	}

	for _, u := range unknown {
		h.addStat(stats.OptionUnknownStat)
		h.addLog(fmt.Sprintf("reply %#08x from %s: skipped unknown option %d", dhcp.Xid, msg.RemoteAddress, u.Type))
	}

	for _, o := range opts {
		h.addStat(stats.OptionDecodedStat)
		h.addStat(stats.OptionSeenStat(o.Code()))
	}

	mt, _ := message.MessageType(opts)

	server := msg.RemoteAddress
	if sid, ok := find[option.ServerIdentifier](opts); ok {
		server = net.IP(netip.Addr(sid).AsSlice())
	}

	h.remember(Reply{
		Received:  time.Now(),
		Server:    server,
		Xid:       dhcp.Xid,
		ClientMAC: dhcp.ClientHWAddr,
		YourIP:    dhcp.YourClientIP,
		Type:      mt,
		Options:   opts,
	})

	switch mt {
	case option.Offer:
		h.addStat(stats.OfferReceivedStat)
		if h.options.Handshake {
			h.sendRequest(dhcp, opts)
		}
	case option.Ack:
		h.addStat(stats.AckReceivedStat)
	case option.Nak:
		h.addStat(stats.NakReceivedStat)
		if m, ok := find[option.Message](opts); ok {
			h.addLog(fmt.Sprintf("NAK for %s: %s", dhcp.ClientHWAddr, string(m)))
		}
	default:
		h.addStat(stats.OtherReceivedStat)
	}
}

// RequestOptions lists the options of the REQUEST that accepts offer.
func RequestOptions(o *config.DhcpV4Options, offer *layers.DHCPv4, offerOpts []option.Option) []option.Option {
	prl := o.ParameterRequestList
	if len(prl) == 0 {
		prl = config.DefaultParameterRequestList
	}

	opts := []option.Option{
		option.Request,
		message.ClientIdentifier(offer.ClientHWAddr),
	}

	if yiaddr, ok := netip.AddrFromSlice(offer.YourClientIP.To4()); ok && !yiaddr.IsUnspecified() {
		opts = append(opts, option.RequestedIPAddress(yiaddr))
	}

	if sid, ok := find[option.ServerIdentifier](offerOpts); ok {
		opts = append(opts, sid)
	}

	opts = append(opts, prl)

	return append(opts, o.Options...)
}

func (h *HandlerV4) sendRequest(offer *layers.DHCPv4, offerOpts []option.Option) {

	dhcp := &layers.DHCPv4{
		Operation:    layers.DHCPOpRequest,
		HardwareType: layers.LinkTypeEthernet,
		HardwareLen:  6,
		Xid:          offer.Xid,
		Flags:        offer.Flags,
		ClientHWAddr: offer.ClientHWAddr,
		Options:      message.LayerOptions(RequestOptions(h.options, offer, offerOpts)...),
	}

	eth := &layers.Ethernet{
		DstMAC:       layers.EthernetBroadcast,
		SrcMAC:       h.iface.HardwareAddr,
		EthernetType: layers.EthernetTypeIPv4,
	}

	if !h.options.EthernetBroadcast && h.gatewayMAC != nil {
		eth.DstMAC = h.gatewayMAC
	}

	ip := &layers.IPv4{
		Version:  4,
		TTL:      64,
		Protocol: layers.IPProtocolUDP,
		SrcIP:    net.IPv4(0, 0, 0, 0),
		DstIP:    net.IPv4(255, 255, 255, 255),
	}

	udp := &layers.UDP{
		SrcPort: 68,
		DstPort: layers.UDPPort(h.options.TargetPort),
	}

	if h.options.DhcpRelay {
		ip.SrcIP = h.options.RelaySourceIP
		ip.DstIP = h.options.RelayTargetServerIP
		eth.DstMAC = h.gatewayMAC
		dhcp.RelayAgentIP = h.options.RelayGatewayIP
		udp.SrcPort = 67
	}

	payload, err := message.Serialize(eth, ip, udp, dhcp)
	if err != nil {
		h.addError(err)
		return
	}

	if h.sendPayload(payload) {
		h.addStat(stats.RequestSentStat)
	}
}

func (h *HandlerV4) remember(r Reply) {
	h.repliesMux.Lock()
	h.replies[r.Server.String()] = r
	h.repliesMux.Unlock()
}

// LastReplies returns the newest reply per server, ordered by server
// address.
func (h *HandlerV4) LastReplies() []Reply {
	h.repliesMux.RLock()
	out := make([]Reply, 0, len(h.replies))
	for _, r := range h.replies {
		out = append(out, r)
	}
	h.repliesMux.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].Server.String() < out[j].Server.String() })

	return out
}

func find[T option.Option](opts []option.Option) (T, bool) {
	for _, o := range opts {
		if t, ok := o.(T); ok {
			return t, true
		}
	}
	var zero T
	return zero, false
}
