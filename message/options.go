package message

import (
	"fmt"
	"net"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"

	"github.com/ipchama/dhcpopt/option"
)

// ToLayer converts o into the gopacket representation used when
// serializing a DHCPv4 layer.
func ToLayer(o option.Option) layers.DHCPOption {
	wire := option.Encode(o)
	if len(wire) == 1 {
		return layers.NewDHCPOption(layers.DHCPOpt(wire[0]), nil)
	}
	return layers.NewDHCPOption(layers.DHCPOpt(wire[0]), wire[2:])
}

// FromLayer runs a gopacket option back through the codec so the value is
// validated and typed.
func FromLayer(d layers.DHCPOption) (option.Option, error) {
	if d.Type == layers.DHCPOptPad || d.Type == layers.DHCPOptEnd {
		o, _, err := option.Decode([]byte{byte(d.Type)})
		return o, err
	}

	wire := make([]byte, 0, len(d.Data)+2)
	wire = append(wire, byte(d.Type), byte(len(d.Data)))
	wire = append(wire, d.Data...)

	o, _, err := option.Decode(wire)
	return o, err
}

// LayerOptions builds a DHCPv4 options field from opts and terminates it
// with End.
func LayerOptions(opts ...option.Option) layers.DHCPOptions {
	out := make(layers.DHCPOptions, 0, len(opts)+1)
	for _, o := range opts {
		out = append(out, ToLayer(o))
	}
	return append(out, layers.NewDHCPOption(layers.DHCPOptEnd, nil))
}

// DHCPv4 returns the DHCPv4 layer of p, or nil.
func DHCPv4(p gopacket.Packet) *layers.DHCPv4 {
	if l := p.Layer(layers.LayerTypeDHCPv4); l != nil {
		return l.(*layers.DHCPv4)
	}
	return nil
}

// OptionError is returned by Options when a known option carries a value the
// codec rejects.
type OptionError struct {
	Option layers.DHCPOption
	Err    error
}

func (e *OptionError) Error() string {
	return fmt.Sprintf("option %d: %v", e.Option.Type, e.Err)
}

func (e *OptionError) Unwrap() error {
	return e.Err
}

// Options decodes every option of d. Pad and End are dropped. Options with a
// code the codec has no variant for are skipped and returned as unknown.
// The first known option that fails to decode aborts the walk with an
// *OptionError.
func Options(d *layers.DHCPv4) (opts []option.Option, unknown []layers.DHCPOption, err error) {
	opts = make([]option.Option, 0, len(d.Options))

	for _, lo := range d.Options {
		if lo.Type == layers.DHCPOptPad || lo.Type == layers.DHCPOptEnd {
			continue
		}

		if !option.Code(lo.Type).Known() {
			unknown = append(unknown, lo)
			continue
		}

		o, err := FromLayer(lo)
		if err != nil {
			return nil, unknown, &OptionError{Option: lo, Err: err}
		}

		opts = append(opts, o)
	}

	return opts, unknown, nil
}

// MessageType finds option 53 among opts.
func MessageType(opts []option.Option) (option.MessageType, bool) {
	for _, o := range opts {
		if t, ok := o.(option.MessageType); ok {
			return t, true
		}
	}
	return 0, false
}

// ClientIdentifier is the ethernet hardware type followed by mac.
func ClientIdentifier(mac net.HardwareAddr) option.ClientIdentifier {
	return append(option.ClientIdentifier{byte(layers.LinkTypeEthernet)}, mac...)
}

var serializeOptions = gopacket.SerializeOptions{FixLengths: true, ComputeChecksums: true}

// Serialize lays out a DHCPv4 frame with lengths and checksums filled in.
func Serialize(eth *layers.Ethernet, ip *layers.IPv4, udp *layers.UDP, dhcp *layers.DHCPv4) ([]byte, error) {
	if err := udp.SetNetworkLayerForChecksum(ip); err != nil {
		return nil, err
	}

	buf := gopacket.NewSerializeBuffer()
	if err := gopacket.SerializeLayers(buf, serializeOptions, eth, ip, udp, dhcp); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
