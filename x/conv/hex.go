package conv

const hexDigits = "0123456789ABCDEF"

// AppendHex32 appends n to dst as "0x" and eight uppercase hex digits.
func AppendHex32(dst []byte, n uint32) []byte {
	dst = append(dst, '0', 'x')
	for shift := 28; shift >= 0; shift -= 4 {
		dst = append(dst, hexDigits[n>>uint(shift)&0xF])
	}
	return dst
}

// Hex32 formats n the way register addresses are printed: 0x40021058.
func Hex32(n uint32) string {
	var b [10]byte
	return string(AppendHex32(b[:0], n))
}
