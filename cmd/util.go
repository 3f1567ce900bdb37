package cmd

import (
	"net"
	"sync"
	"time"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/vishvananda/netlink"

	"github.com/ipchama/dhcpopt/config"
	"github.com/ipchama/dhcpopt/message"
	"github.com/ipchama/dhcpopt/socketeer"
)

const arpTimeout = 5 * time.Second

// getGatewayV4 resolves the MAC of the default IPv4 gateway reachable
// through the named interface.
func getGatewayV4(name string) (net.HardwareAddr, error) {
	link, err := netlink.LinkByName(name)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to find link %s", name)
	}

	routes, err := netlink.RouteList(link, netlink.FAMILY_V4)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to list routes on %s", name)
	}

	gw, err := defaultGateway(name, routes)
	if err != nil {
		return nil, err
	}

	return arp(name, link, gw)
}

// defaultGateway picks the next hop of the first default route.
func defaultGateway(name string, routes []netlink.Route) (net.IP, error) {
	for _, r := range routes {
		if r.Dst != nil || r.Src != nil {
			continue
		}

		// Device routes have no next hop to ARP for.
		if r.Gw.To4() == nil {
			return nil, errors.Errorf("default route on %s has no IPv4 gateway", name)
		}

		return r.Gw.To4(), nil
	}

	return nil, errors.Errorf("no default IPv4 route on %s", name)
}

func arp(name string, link netlink.Link, target net.IP) (net.HardwareAddr, error) {

	addrs, err := netlink.AddrList(link, netlink.FAMILY_V4)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to list addresses on %s", name)
	}
	if len(addrs) == 0 {
		return nil, errors.Errorf("no IPv4 address on %s", name)
	}

	logger := log.WithFields(log.Fields{"interface": name, "gateway": target})

	s := socketeer.NewRawSocketeer(&config.SocketeerOptions{InterfaceName: name},
		func(s string) bool { logger.Debug(s); return true },
		func(e error) bool { logger.WithError(e).Warn("ARP request error"); return true })

	if err := s.Init(); err != nil {
		return nil, errors.Wrap(err, "failed to open socket for ARP request")
	}

	arpReplies := make(chan net.HardwareAddr, 1)

	s.SetReceiver(func(msg message.Message) bool {
		l := msg.Packet.Layer(layers.LayerTypeARP)
		if l == nil {
			return true
		}

		arpMsg := l.(*layers.ARP)
		if arpMsg.Operation == layers.ARPReply && net.IP(arpMsg.SourceProtAddress).Equal(target) {
			select {
			case arpReplies <- net.HardwareAddr(arpMsg.SourceHwAddress):
			default:
			}
		}

		return true
	})

	var wg sync.WaitGroup

	wg.Add(2)
	go func() {
		defer wg.Done()
		s.RunWriter()
	}()
	go func() {
		defer wg.Done()
		s.RunListener()
	}()

	buf := gopacket.NewSerializeBuffer()
	err = gopacket.SerializeLayers(buf, gopacket.SerializeOptions{FixLengths: true, ComputeChecksums: true},
		&layers.Ethernet{
			DstMAC:       layers.EthernetBroadcast,
			SrcMAC:       s.IfInfo.HardwareAddr,
			EthernetType: layers.EthernetTypeARP,
		},
		&layers.ARP{
			Operation:         layers.ARPRequest,
			DstHwAddress:      layers.EthernetBroadcast,
			DstProtAddress:    target.To4(),
			HwAddressSize:     6,
			AddrType:          layers.LinkTypeEthernet,
			ProtAddressSize:   4,
			Protocol:          layers.EthernetTypeIPv4,
			SourceHwAddress:   s.IfInfo.HardwareAddr,
			SourceProtAddress: addrs[0].IP.To4(),
		},
	)

	var gwMAC net.HardwareAddr

	if err == nil {
		s.AddPayload(buf.Bytes())

		select {
		case gwMAC = <-arpReplies:
		case <-time.After(arpTimeout):
		}
	}

	// Either a reply arrived or it did not; teardown errors are only logged.
	if err := s.StopListener(); err != nil {
		logger.WithError(err).Debug("Failed to stop ARP listener")
	}

	if err := s.StopWriter(); err != nil {
		logger.WithError(err).Debug("Failed to stop ARP writer")
	}

	wg.Wait()

	if err := s.DeInit(); err != nil {
		logger.WithError(err).Debug("Failed to release ARP socket")
	}

	if err != nil {
		return nil, errors.Wrap(err, "failed to build ARP request")
	}

	if gwMAC == nil {
		return nil, errors.Errorf("no ARP reply from gateway %s within %s", target, arpTimeout)
	}

	return gwMAC, nil
}
