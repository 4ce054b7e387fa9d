package reports

import (
	"bytes"
	"fmt"

	"github.com/phpdave11/gofpdf"
)

// ExportMeta carries the document header fields for a PDF export.
type ExportMeta struct {
	Title         string
	FilterSummary string
}

var pdfColumnWidths = []float64{42, 48, 30, 22, 22, 22}

var pdfColumnTitles = []string{"Customer", "Service", "Provider", "Date", "Status", "Cost"}

// BuildPDF renders the report as a paginated document: title, generation
// timestamp, active filter summary, the scalar metrics block, then the full
// record table with the header row repeated on every page. The table rows are
// exactly report.Records.
func BuildPDF(report Report, meta ExportMeta) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(12, 12, 12)
	pdf.AliasNbPages("")
	pdf.SetFooterFunc(func() {
		pdf.SetY(-12)
		pdf.SetFont("Arial", "I", 8)
		pdf.CellFormat(0, 6, fmt.Sprintf("Page %d of {nb}", pdf.PageNo()), "", 0, "C", false, 0, "")
	})
	pdf.AddPage()

	title := meta.Title
	if title == "" {
		title = "Service Report"
	}
	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(0, 9, title, "", 1, "C", false, 0, "")

	pdf.SetFont("Arial", "", 9)
	pdf.CellFormat(0, 5, fmt.Sprintf("Generated: %s", report.GeneratedAt.Format("2006-01-02 15:04")), "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 5, fmt.Sprintf("Period: %s - %s",
		report.Window.Start.Format("2006-01-02"),
		report.Window.End.Format("2006-01-02")), "", 1, "C", false, 0, "")
	if meta.FilterSummary != "" {
		pdf.CellFormat(0, 5, fmt.Sprintf("Filters: %s", meta.FilterSummary), "", 1, "C", false, 0, "")
	}

	pdf.Ln(3)
	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(0, 7, "Summary", "B", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 9)
	summary := report.Summary
	writeMetricRow(pdf, "Total Revenue", FormatMoney(summary.TotalRevenue))
	writeMetricRow(pdf, "Total Services", fmt.Sprintf("%d", summary.TotalServices))
	writeMetricRow(pdf, "Completed", fmt.Sprintf("%d", summary.CompletedServices))
	writeMetricRow(pdf, "Cancelled", fmt.Sprintf("%d", summary.CancelledServices))
	writeMetricRow(pdf, "Average Rating", FormatRating(summary.AvgRating))
	writeMetricRow(pdf, "Avg Completion Time", FormatHours(summary.AvgCompletionHours))
	writeMetricRow(pdf, "Growth", FormatPercent(summary.MonthlyGrowth))
	if summary.PopularService != "" {
		writeMetricRow(pdf, "Most Requested", summary.PopularService)
	}

	pdf.Ln(4)
	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(0, 7, fmt.Sprintf("Records (%d)", len(report.Records)), "B", 1, "L", false, 0, "")
	pdf.Ln(1)

	writeTableHeader(pdf)
	pdf.SetFont("Arial", "", 8)
	for _, record := range report.Records {
		if pdf.GetY() > 270 {
			pdf.AddPage()
			writeTableHeader(pdf)
			pdf.SetFont("Arial", "", 8)
		}
		cells := []string{
			truncateCell(record.CustomerName, 26),
			truncateCell(record.ServiceType, 30),
			truncateCell(record.ProviderName, 18),
			record.ActivityDate().Format("2006-01-02"),
			DescribeStatus(record.Status),
			FormatMoney(record.Cost),
		}
		for i, cell := range cells {
			align := "L"
			if i == len(cells)-1 {
				align = "R"
			}
			pdf.CellFormat(pdfColumnWidths[i], 6, cell, "B", 0, align, false, 0, "")
		}
		pdf.Ln(-1)
	}

	var out bytes.Buffer
	if err := pdf.Output(&out); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

func writeMetricRow(pdf *gofpdf.Fpdf, label string, value string) {
	pdf.CellFormat(60, 5, label, "", 0, "L", false, 0, "")
	pdf.CellFormat(0, 5, value, "", 1, "L", false, 0, "")
}

func writeTableHeader(pdf *gofpdf.Fpdf) {
	pdf.SetFont("Arial", "B", 8)
	pdf.SetFillColor(240, 240, 240)
	for i, title := range pdfColumnTitles {
		pdf.CellFormat(pdfColumnWidths[i], 6, title, "1", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)
}

func truncateCell(value string, max int) string {
	if len(value) <= max {
		return value
	}
	if max <= 3 {
		return value[:max]
	}
	return value[:max-3] + "..."
}
