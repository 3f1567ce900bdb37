package option

import (
	"encoding/binary"
	"encoding/hex"
	"net/netip"
	"strconv"
	"strings"
)

const maxValueLen = 255

// Parse builds the option for c from its text form, the same form Format
// produces:
//
//	addresses       192.168.0.1,192.168.0.2
//	address pairs   10.0.0.0/255.0.0.0,10.1.0.0/255.255.0.0
//	integers        decimal, comma separated for path-mtu-plateau-table
//	flags           true/false/1/0
//	opaque bytes    hex, colons allowed (01:aa:bb)
//	enumerations    name or number (P-node, ack, both)
//	code lists      names or numbers
//
// The value is run through the wire decoder, so the same length rules apply.
func Parse(c Code, s string) (Option, error) {
	info, ok := codes[c]
	if !ok {
		return nil, parsingErrorf("unknown option code: %d", uint8(c))
	}

	var (
		v   []byte
		err error
	)

	switch info.kind {
	case kindNone:
		o, _, err := Decode([]byte{byte(c)})
		return o, err
	case kindAddr:
		var a netip.Addr
		if a, err = parseAddr(c, s); err == nil {
			v = appendAddr(nil, a)
		}
	case kindAddrs:
		for _, f := range splitList(s) {
			var a netip.Addr
			if a, err = parseAddr(c, f); err != nil {
				break
			}
			v = appendAddr(v, a)
		}
	case kindPairs:
		for _, f := range splitList(s) {
			first, second, found := strings.Cut(f, "/")
			if !found {
				err = parsingErrorf("could not parse %s: %q is not an address pair", c, f)
				break
			}
			var a, b netip.Addr
			if a, err = parseAddr(c, first); err != nil {
				break
			}
			if b, err = parseAddr(c, second); err != nil {
				break
			}
			v = appendAddr(appendAddr(v, a), b)
		}
	case kindInt32:
		var n int64
		if n, err = strconv.ParseInt(strings.TrimSpace(s), 10, 32); err == nil {
			v = binary.BigEndian.AppendUint32(nil, uint32(n))
		}
	case kindUint8:
		var n uint64
		if n, err = strconv.ParseUint(strings.TrimSpace(s), 10, 8); err == nil {
			v = []byte{byte(n)}
		}
	case kindUint16:
		var n uint64
		if n, err = strconv.ParseUint(strings.TrimSpace(s), 10, 16); err == nil {
			v = binary.BigEndian.AppendUint16(nil, uint16(n))
		}
	case kindUint32:
		var n uint64
		if n, err = strconv.ParseUint(strings.TrimSpace(s), 10, 32); err == nil {
			v = binary.BigEndian.AppendUint32(nil, uint32(n))
		}
	case kindUint16s:
		for _, f := range splitList(s) {
			var n uint64
			if n, err = strconv.ParseUint(f, 10, 16); err != nil {
				break
			}
			v = binary.BigEndian.AppendUint16(v, uint16(n))
		}
	case kindBool:
		var f bool
		if f, err = strconv.ParseBool(strings.TrimSpace(s)); err == nil {
			v = appendBool(nil, f)
		}
	case kindText:
		v = []byte(s)
	case kindBytes:
		v, err = hex.DecodeString(strings.ReplaceAll(strings.TrimSpace(s), ":", ""))
	case kindNodeType:
		v, err = parseEnum(s, map[string]byte{"b": 1, "b-node": 1, "p": 2, "p-node": 2, "m": 4, "m-node": 4, "h": 8, "h-node": 8})
	case kindOverload:
		v, err = parseEnum(s, map[string]byte{"file": 1, "sname": 2, "both": 3})
	case kindMessageType:
		names := make(map[string]byte, len(messageTypeNames))
		for t, name := range messageTypeNames {
			names[name] = byte(t)
		}
		v, err = parseEnum(s, names)
	case kindCodes:
		for _, f := range splitList(s) {
			var code Code
			if code, err = parseRequestedCode(f); err != nil {
				break
			}
			v = append(v, byte(code))
		}
	}

	if err != nil {
		if _, ok := err.(*ParsingError); ok {
			return nil, err
		}
		return nil, parsingErrorf("could not parse %s: %v", c, err)
	}

	if len(v) > maxValueLen {
		return nil, parsingErrorf("could not parse %s: value is %d bytes, at most %d fit", c, len(v), maxValueLen)
	}

	o, err := decodeValue(c, v)
	if err != nil {
		return nil, err
	}
	return o, nil
}

// Format renders the value of o as text that Parse accepts. Pad and End
// render as the empty string.
func Format(o Option) string {
	v := o.appendValue(nil)

	switch codes[o.Code()].kind {
	case kindAddr:
		return formatAddr(v)
	case kindAddrs:
		parts := make([]string, 0, len(v)/addrLen)
		for ; len(v) >= addrLen; v = v[addrLen:] {
			parts = append(parts, formatAddr(v))
		}
		return strings.Join(parts, ",")
	case kindPairs:
		parts := make([]string, 0, len(v)/(2*addrLen))
		for ; len(v) >= 2*addrLen; v = v[2*addrLen:] {
			parts = append(parts, formatAddr(v)+"/"+formatAddr(v[addrLen:]))
		}
		return strings.Join(parts, ",")
	case kindInt32:
		return strconv.FormatInt(int64(int32(binary.BigEndian.Uint32(v))), 10)
	case kindUint8:
		return strconv.FormatUint(uint64(v[0]), 10)
	case kindUint16:
		return strconv.FormatUint(uint64(binary.BigEndian.Uint16(v)), 10)
	case kindUint32:
		return strconv.FormatUint(uint64(binary.BigEndian.Uint32(v)), 10)
	case kindUint16s:
		parts := make([]string, 0, len(v)/2)
		for ; len(v) >= 2; v = v[2:] {
			parts = append(parts, strconv.FormatUint(uint64(binary.BigEndian.Uint16(v)), 10))
		}
		return strings.Join(parts, ",")
	case kindBool:
		return strconv.FormatBool(v[0] != 0)
	case kindText:
		return string(v)
	case kindBytes:
		return hex.EncodeToString(v)
	case kindNodeType:
		return NetBIOSNodeType(v[0]).String()
	case kindOverload:
		return OptionOverload(v[0]).String()
	case kindMessageType:
		return MessageType(v[0]).String()
	case kindCodes:
		parts := make([]string, len(v))
		for i, b := range v {
			parts[i] = Code(b).String()
		}
		return strings.Join(parts, ",")
	}

	return ""
}

func parseAddr(c Code, s string) (netip.Addr, error) {
	a, err := netip.ParseAddr(strings.TrimSpace(s))
	if err != nil || !a.Unmap().Is4() {
		return netip.Addr{}, parsingErrorf("could not parse %s: %q is not an IPv4 address", c, s)
	}
	return a.Unmap(), nil
}

func formatAddr(v []byte) string {
	return netip.AddrFrom4([4]byte(v[:addrLen])).String()
}

func parseEnum(s string, names map[string]byte) ([]byte, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if b, ok := names[s]; ok {
		return []byte{b}, nil
	}
	n, err := strconv.ParseUint(s, 10, 8)
	if err != nil {
		return nil, err
	}
	return []byte{byte(n)}, nil
}

// parseRequestedCode is ParseCode that also lets through tags the codec has
// no variant for, since clients routinely ask for them.
func parseRequestedCode(s string) (Code, error) {
	if c, err := ParseCode(s); err == nil {
		return c, nil
	}
	n, err := strconv.ParseUint(strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), "option-"), 10, 8)
	if err != nil {
		return 0, parsingErrorf("unknown option name %q", s)
	}
	return Code(n), nil
}

func splitList(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})
}

// Entry is the text form of one option as shown by the command line and
// the HTTP API.
type Entry struct {
	Code  uint8  `json:"code"`
	Name  string `json:"name"`
	Value string `json:"value"`
}

func EntryOf(o Option) Entry {
	return Entry{Code: uint8(o.Code()), Name: o.Code().String(), Value: Format(o)}
}
