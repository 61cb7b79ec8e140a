package utils

import (
	"fmt"
	"strings"
)

// FormatINR renders an amount given in paise using Indian digit grouping,
// e.g. 123456789 -> "₹12,34,567.89".
func FormatINR(paise int64) string {
	negative := paise < 0
	if negative {
		paise = -paise
	}
	rupees := paise / 100
	fraction := paise % 100

	s := fmt.Sprintf("%d", rupees)
	out := s
	if len(s) > 3 {
		head := s[:len(s)-3]
		tail := s[len(s)-3:]
		var groups []string
		for len(head) > 2 {
			groups = append([]string{head[len(head)-2:]}, groups...)
			head = head[:len(head)-2]
		}
		if head != "" {
			groups = append([]string{head}, groups...)
		}
		out = strings.Join(groups, ",") + "," + tail
	}

	sign := ""
	if negative {
		sign = "-"
	}
	return fmt.Sprintf("%s₹%s.%02d", sign, out, fraction)
}

// ToPaise converts a rupee amount to the integer minor unit the gateway expects.
func ToPaise(rupees float64) int64 {
	return int64(rupees*100 + 0.5)
}
