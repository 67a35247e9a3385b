package conv

// Utoa formats n in base 10 at the end of buf and returns that tail. A
// 20-byte buffer holds any uint64; a shorter one keeps the low digits.
func Utoa(buf []byte, n uint64) []byte {
	i := len(buf)
	for i > 0 {
		i--
		buf[i] = '0' + byte(n%10)
		n /= 10
		if n == 0 {
			break
		}
	}
	return buf[i:]
}
