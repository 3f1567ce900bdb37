package option

import (
	"encoding/binary"
	"net/netip"
	"unicode/utf8"
)

const addrLen = 4

// Length rules shared by every option family.

func exact(c Code, v []byte, n int) error {
	if len(v) != n {
		return parsingErrorf("could not parse %s: length %d, want %d", c, len(v), n)
	}
	return nil
}

func atLeast(c Code, v []byte, min int) error {
	if len(v) < min {
		return parsingErrorf("could not parse %s: length %d, want at least %d", c, len(v), min)
	}
	return nil
}

// stride checks that v holds a whole number of n-byte entries and, unless
// emptyOK, at least one of them.
func stride(c Code, v []byte, n int, emptyOK bool) error {
	if len(v) == 0 && !emptyOK {
		return parsingErrorf("could not parse %s: empty list", c)
	}
	if len(v)%n != 0 {
		return parsingErrorf("could not parse %s: length %d is not a multiple of %d", c, len(v), n)
	}
	return nil
}

// Readers. Each validates before touching v.

func readAddr(c Code, v []byte) (netip.Addr, error) {
	if err := exact(c, v, addrLen); err != nil {
		return netip.Addr{}, err
	}
	return netip.AddrFrom4([4]byte(v)), nil
}

func readAddrs(c Code, v []byte, emptyOK bool) ([]netip.Addr, error) {
	if err := stride(c, v, addrLen, emptyOK); err != nil {
		return nil, err
	}
	if len(v) == 0 {
		return nil, nil
	}
	out := make([]netip.Addr, 0, len(v)/addrLen)
	for ; len(v) > 0; v = v[addrLen:] {
		out = append(out, netip.AddrFrom4([4]byte(v[:addrLen])))
	}
	return out, nil
}

func readPairs(c Code, v []byte) ([][2]netip.Addr, error) {
	if err := stride(c, v, 2*addrLen, false); err != nil {
		return nil, err
	}
	out := make([][2]netip.Addr, 0, len(v)/(2*addrLen))
	for ; len(v) > 0; v = v[2*addrLen:] {
		out = append(out, [2]netip.Addr{
			netip.AddrFrom4([4]byte(v[:addrLen])),
			netip.AddrFrom4([4]byte(v[addrLen : 2*addrLen])),
		})
	}
	return out, nil
}

func readUint8(c Code, v []byte) (uint8, error) {
	if err := exact(c, v, 1); err != nil {
		return 0, err
	}
	return v[0], nil
}

func readUint16(c Code, v []byte) (uint16, error) {
	if err := exact(c, v, 2); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(v), nil
}

func readUint32(c Code, v []byte) (uint32, error) {
	if err := exact(c, v, 4); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(v), nil
}

func readUint16s(c Code, v []byte) ([]uint16, error) {
	if err := stride(c, v, 2, false); err != nil {
		return nil, err
	}
	out := make([]uint16, 0, len(v)/2)
	for ; len(v) > 0; v = v[2:] {
		out = append(out, binary.BigEndian.Uint16(v))
	}
	return out, nil
}

// readBool treats any nonzero byte as true.
func readBool(c Code, v []byte) (bool, error) {
	b, err := readUint8(c, v)
	return b != 0, err
}

func readText(c Code, v []byte, min int) (string, error) {
	if err := atLeast(c, v, min); err != nil {
		return "", err
	}
	if !utf8.Valid(v) {
		return "", parsingErrorf("could not parse %s: invalid UTF-8", c)
	}
	return string(v), nil
}

// readBytes copies v so the option never aliases the caller's buffer. An
// empty value decodes as nil.
func readBytes(c Code, v []byte, min int) ([]byte, error) {
	if err := atLeast(c, v, min); err != nil {
		return nil, err
	}
	if len(v) == 0 {
		return nil, nil
	}
	return append([]byte{}, v...), nil
}

// Writers.

// appendAddr writes the zero Addr and IPv6 addresses as 0.0.0.0.
func appendAddr(b []byte, a netip.Addr) []byte {
	if a = a.Unmap(); !a.Is4() {
		return append(b, 0, 0, 0, 0)
	}
	a4 := a.As4()
	return append(b, a4[:]...)
}

func appendAddrs(b []byte, addrs []netip.Addr) []byte {
	for _, a := range addrs {
		b = appendAddr(b, a)
	}
	return b
}

func appendBool(b []byte, v bool) []byte {
	if v {
		return append(b, 1)
	}
	return append(b, 0)
}

func appendUint16s(b []byte, vs []uint16) []byte {
	for _, v := range vs {
		b = binary.BigEndian.AppendUint16(b, v)
	}
	return b
}
