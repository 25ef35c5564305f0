package types

import "envmon-go/x/strconvx"

// Display-ready string forms of a reading. These feed both the display
// reporter and the serial status line, so the two always agree.

// FormatDeciC renders tenths of °C with exactly one decimal digit
// (231 => "23.1", -5 => "-0.5").
func FormatDeciC(d int16) string {
	v := int(d)
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	return sign + strconvx.Itoa(v/10) + "." + strconvx.Itoa(v%10)
}

// FormatRHx100 renders hundredths of %RH as a whole percentage, rounded
// half up (5540 => "55", 4760 => "48").
func FormatRHx100(h uint16) string {
	return strconvx.Itoa((int(h) + 50) / 100)
}

// Strings returns both display forms.
func (r Reading) Strings() (temp, hum string) {
	return FormatDeciC(r.DeciC), FormatRHx100(r.RHx100)
}
