package socketeer_test

import (
	"net"
	"testing"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"golang.org/x/net/bpf"

	"github.com/ipchama/dhcpopt/socketeer"
)

func frame(t *testing.T, proto layers.IPProtocol, l4 gopacket.SerializableLayer, payload []byte) []byte {
	t.Helper()

	mac, _ := net.ParseMAC("02:00:00:00:00:01")

	eth := &layers.Ethernet{SrcMAC: mac, DstMAC: layers.EthernetBroadcast, EthernetType: layers.EthernetTypeIPv4}
	ip := &layers.IPv4{Version: 4, IHL: 5, TTL: 64, Protocol: proto, SrcIP: net.IPv4(10, 0, 0, 1), DstIP: net.IPv4(10, 0, 0, 2)}

	switch l := l4.(type) {
	case *layers.UDP:
		_ = l.SetNetworkLayerForChecksum(ip)
	case *layers.TCP:
		_ = l.SetNetworkLayerForChecksum(ip)
	}

	buf := gopacket.NewSerializeBuffer()
	if err := gopacket.SerializeLayers(buf, gopacket.SerializeOptions{FixLengths: true, ComputeChecksums: true},
		eth, ip, l4, gopacket.Payload(payload)); err != nil {
		t.Fatal(err)
	}

	return buf.Bytes()
}

func TestDHCPFilterProgram(t *testing.T) {
	vm, err := bpf.NewVM(socketeer.DHCPFilterProgram())
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name   string
		frame  []byte
		accept bool
	}{
		{"client to server", frame(t, layers.IPProtocolUDP, &layers.UDP{SrcPort: 68, DstPort: 67}, []byte{1}), true},
		{"server to client", frame(t, layers.IPProtocolUDP, &layers.UDP{SrcPort: 67, DstPort: 68}, []byte{1}), true},
		{"relay reply", frame(t, layers.IPProtocolUDP, &layers.UDP{SrcPort: 6767, DstPort: 67}, []byte{1}), true},
		{"dns", frame(t, layers.IPProtocolUDP, &layers.UDP{SrcPort: 5353, DstPort: 53}, []byte{1}), false},
		{"tcp on 67", frame(t, layers.IPProtocolTCP, &layers.TCP{SrcPort: 67, DstPort: 68}, nil), false},
	}

	for _, tc := range tests {
		n, err := vm.Run(tc.frame)
		if err != nil {
			t.Fatalf("%s: %v", tc.name, err)
		}
		if accepted := n > 0; accepted != tc.accept {
			t.Errorf("DHCP filter did not %s %s.", map[bool]string{true: "accept", false: "reject"}[tc.accept], tc.name)
		}
	}
}

func TestDHCPFilter(t *testing.T) {
	f, err := socketeer.DHCPFilter()
	if err != nil {
		t.Fatal(err)
	}

	if int(f.Len) != len(socketeer.DHCPFilterProgram()) {
		t.Errorf("DHCP filter did not keep every instruction: %d.", f.Len)
	}
}
