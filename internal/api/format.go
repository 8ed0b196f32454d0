package api

import (
	"strconv"
	"strings"
)

// FormatUint renders n with thousands separators: 1234567 -> "1,234,567".
func FormatUint(n uint64) string {
	if n == 0 {
		return "0"
	}
	var buf []byte
	for i := 0; n > 0; i++ {
		if i > 0 && i%3 == 0 {
			buf = append(buf, ',')
		}
		buf = append(buf, byte('0'+n%10))
		n /= 10
	}
	for l, r := 0, len(buf)-1; l < r; l, r = l+1, r-1 {
		buf[l], buf[r] = buf[r], buf[l]
	}
	return string(buf)
}

// FormatInt renders n with thousands separators, keeping the sign.
func FormatInt(n int64) string {
	if n < 0 {
		return "-" + FormatUint(uint64(-n))
	}
	return FormatUint(uint64(n))
}

// FormatFloat renders n with the given number of decimal places and
// thousands separators in both the integer and fractional parts.
func FormatFloat(n float64, decimalPlaces int) string {
	s := strconv.FormatFloat(n, 'f', decimalPlaces, 64)
	integer, fraction, hasFraction := strings.Cut(s, ".")

	neg := strings.HasPrefix(integer, "-")
	if neg {
		integer = integer[1:]
	}

	var out strings.Builder
	if neg {
		out.WriteByte('-')
	}
	for i, c := range integer {
		if i > 0 && (len(integer)-i)%3 == 0 {
			out.WriteByte(',')
		}
		out.WriteRune(c)
	}
	if hasFraction {
		out.WriteByte('.')
		for i, c := range fraction {
			if i > 0 && i%3 == 0 {
				out.WriteByte(',')
			}
			out.WriteRune(c)
		}
	}
	return out.String()
}
