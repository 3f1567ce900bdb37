package option

// Encode returns the wire form of o: the tag, then for everything except Pad
// and End a length byte and the value.
//
// The length byte is the value length truncated to eight bits. Keeping a
// value within 255 bytes (63 addresses, 31 pairs) is up to the caller.
func Encode(o Option) []byte {
	return Append(nil, o)
}

// Append appends the wire form of o to b.
func Append(b []byte, o Option) []byte {
	code := o.Code()
	if code == CodePad || code == CodeEnd {
		return append(b, byte(code))
	}

	b = append(b, byte(code), 0)
	at := len(b) - 1
	b = o.appendValue(b)
	b[at] = byte(len(b) - at - 1)

	return b
}

// EncodeAll concatenates the wire form of opts in the given order.
func EncodeAll(opts ...Option) []byte {
	var b []byte
	for _, o := range opts {
		b = Append(b, o)
	}
	return b
}
