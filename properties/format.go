package properties

import (
	"fmt"
	"strings"
)

// errorRateScientificBelow is the threshold under which error rates are shown
// in scientific notation.
const errorRateScientificBelow = 0.01

// FormatFidelity renders a fidelity fraction as a percentage with two
// decimals: 0.9998 -> "99.98%".
func FormatFidelity(v float64) string {
	return fmt.Sprintf("%.2f%%", v*100)
}

// FormatErrorRate renders an error fraction. Values below 0.01 use
// scientific notation with two decimals and a compact exponent
// (0.00124 -> "1.24e-3"); larger values are a percentage with three
// decimals (0.02 -> "2.000%").
func FormatErrorRate(v float64) string {
	if v < errorRateScientificBelow {
		return compactExponent(fmt.Sprintf("%.2e", v))
	}
	return fmt.Sprintf("%.3f%%", v*100)
}

// FormatTime renders a duration given in seconds as microseconds, switching
// to milliseconds from 1000 µs: 1e-4 -> "100.00 µs", 2e-3 -> "2.00 ms".
func FormatTime(seconds float64) string {
	us := seconds * 1e6
	if us < 1000 {
		return fmt.Sprintf("%.2f µs", us)
	}
	return fmt.Sprintf("%.2f ms", us/1000)
}

// FormatMicrometers renders a length given in meters as micrometers.
func FormatMicrometers(meters float64) string {
	return fmt.Sprintf("%.2f µm", meters*1e6)
}

// PercentToFraction converts a raw percentage (99.5) to a fraction (0.995).
func PercentToFraction(percent float64) float64 {
	return percent / 100
}

// MicrosecondsToSeconds converts µs to s.
func MicrosecondsToSeconds(us float64) float64 {
	return us / 1e6
}

// compactExponent strips exponent zero padding: "1.24e-03" -> "1.24e-3".
func compactExponent(s string) string {
	i := strings.IndexByte(s, 'e')
	if i < 0 || i+2 > len(s) {
		return s
	}
	mantissa, sign, digits := s[:i], s[i+1:i+2], s[i+2:]
	digits = strings.TrimLeft(digits, "0")
	if digits == "" {
		digits = "0"
	}
	return mantissa + "e" + sign + digits
}
