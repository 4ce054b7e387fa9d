package reports

import (
	"fmt"
	"strings"
)

// FormatMoney renders an amount as "$1,234.00". Two decimal places always.
func FormatMoney(amount float64) string {
	negative := amount < 0
	if negative {
		amount = -amount
	}
	text := fmt.Sprintf("%.2f", amount)
	parts := strings.SplitN(text, ".", 2)
	formatted := "$" + groupThousands(parts[0]) + "." + parts[1]
	if negative {
		return "-" + formatted
	}
	return formatted
}

// FormatPercent renders a signed percentage with one decimal: "+12.3%".
func FormatPercent(value float64) string {
	if value > 0 {
		return fmt.Sprintf("+%.1f%%", value)
	}
	return fmt.Sprintf("%.1f%%", value)
}

// FormatRating renders a rating with one decimal: "4.5".
func FormatRating(value float64) string {
	return fmt.Sprintf("%.1f", value)
}

// FormatHours renders a duration in hours with one decimal: "3.0h".
func FormatHours(value float64) string {
	return fmt.Sprintf("%.1fh", value)
}

func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	var out strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		out.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if out.Len() > 0 {
			out.WriteString(",")
		}
		out.WriteString(digits[i : i+3])
	}
	return out.String()
}

// FormattedSummary is the display-string rendering of a Summary, for screens
// that want pre-formatted scalars.
type FormattedSummary struct {
	TotalRevenue      string `json:"totalRevenue"`
	TotalServices     int    `json:"totalServices"`
	AvgRating         string `json:"avgRating"`
	AvgCompletionTime string `json:"avgCompletionTime"`
	MonthlyGrowth     string `json:"monthlyGrowth"`
	PopularService    string `json:"popularService"`
}

func FormatSummary(summary Summary) FormattedSummary {
	return FormattedSummary{
		TotalRevenue:      FormatMoney(summary.TotalRevenue),
		TotalServices:     summary.TotalServices,
		AvgRating:         FormatRating(summary.AvgRating),
		AvgCompletionTime: FormatHours(summary.AvgCompletionHours),
		MonthlyGrowth:     FormatPercent(summary.MonthlyGrowth),
		PopularService:    summary.PopularService,
	}
}
