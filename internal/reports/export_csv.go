package reports

import (
	"bytes"
	"fmt"
	"strings"
	"time"
)

const csvHeader = "Customer,Email,Phone,Service,Date,Status,Cost,Type\n"

// BuildCSV renders the record set as UTF-8 comma-separated text. String
// fields are double-quoted with embedded quotes doubled; Cost keeps two
// decimals. The rows are exactly the records passed in, one per record, in
// input order.
func BuildCSV(records []ServiceRecord) []byte {
	buffer := &bytes.Buffer{}
	_, _ = buffer.WriteString(csvHeader)

	for _, record := range records {
		line := fmt.Sprintf("%s,%s,%s,%s,%s,%s,%.2f,%s\n",
			csvQuote(record.CustomerName),
			csvQuote(record.Email),
			csvQuote(record.Phone),
			csvQuote(record.ServiceType),
			csvQuote(record.ActivityDate().Format("2006-01-02")),
			csvQuote(DescribeStatus(record.Status)),
			record.Cost,
			csvQuote(record.Category.Display()),
		)
		_, _ = buffer.WriteString(line)
	}
	return buffer.Bytes()
}

func csvQuote(value string) string {
	return "\"" + strings.ReplaceAll(value, "\"", "\"\"") + "\""
}

// ExportFilename builds the "<product>-Report-<ISODate>.<ext>" artifact name.
func ExportFilename(product string, ext string, generatedAt time.Time) string {
	if strings.TrimSpace(product) == "" {
		product = "AutoCare"
	}
	return fmt.Sprintf("%s-Report-%s.%s", product, generatedAt.Format("2006-01-02"), ext)
}
