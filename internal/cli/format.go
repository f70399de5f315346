package cli

import (
	"fmt"
	"strings"
	"time"
)

// FormatRupees formats an amount as "Rs 1,23,456.78" with lakh/crore grouping.
func FormatRupees(amount float64) string {
	negative := amount < 0
	if negative {
		amount = -amount
	}

	str := fmt.Sprintf("%.2f", amount)
	parts := strings.Split(str, ".")

	result := "Rs " + groupDigits(parts[0]) + "." + parts[1]
	if negative {
		result = "-" + result
	}
	return result
}

// groupDigits groups an integer string as 1,00,00,000: the last three digits,
// then pairs.
func groupDigits(s string) string {
	n := len(s)
	if n <= 3 {
		return s
	}

	result := s[n-3:]
	s = s[:n-3]

	for len(s) > 0 {
		if len(s) >= 2 {
			result = s[len(s)-2:] + "," + result
			s = s[:len(s)-2]
		} else {
			result = s + "," + result
			s = ""
		}
	}

	return result
}

// FormatPrice formats a price level with two decimals and digit grouping.
func FormatPrice(price float64) string {
	s := FormatRupees(price)
	if strings.HasPrefix(s, "-") {
		return "-" + strings.TrimPrefix(s, "-Rs ")
	}
	return strings.TrimPrefix(s, "Rs ")
}

// FormatPercent formats a percentage with sign.
func FormatPercent(value float64) string {
	sign := ""
	if value > 0 {
		sign = "+"
	}
	return fmt.Sprintf("%s%.2f%%", sign, value)
}

// FormatChange formats the move from one price to another.
func FormatChange(from, to float64) string {
	if from == 0 {
		return FormatPrice(to - from)
	}
	change := to - from
	sign := ""
	if change > 0 {
		sign = "+"
	}
	return fmt.Sprintf("%s%s (%s)", sign, FormatPrice(change), FormatPercent(change/from*100))
}

// FormatRatio formats a Fibonacci ratio.
func FormatRatio(r float64) string {
	return fmt.Sprintf("%.3f", r)
}

// DateLayout is the layout used for bar dates.
var DateLayout = "2006-01-02"

// FormatDate formats a bar date.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format(DateLayout)
}

// FormatDuration formats a duration in human-readable form.
func FormatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	} else if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	} else if d < time.Hour {
		return fmt.Sprintf("%dm %ds", int(d.Minutes()), int(d.Seconds())%60)
	} else if d < 24*time.Hour {
		return fmt.Sprintf("%dh %dm", int(d.Hours()), int(d.Minutes())%60)
	}
	days := int(d.Hours()) / 24
	hours := int(d.Hours()) % 24
	return fmt.Sprintf("%dd %dh", days, hours)
}
