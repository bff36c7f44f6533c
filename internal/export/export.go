// Package export renders a record list as the downloadable CSV file.
package export

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/evyataryagoni/geoconsole/internal/models"
)

// Header is the first line of every export (ID, type, coordinates)
const Header = "ID,类型,坐标"

// ContentType is sent with the download
const ContentType = "text/csv; charset=utf-8"

// FileName returns the download name for an export made at t
// Example: geo_data_2024-03-01.csv
func FileName(t time.Time) string {
	return fmt.Sprintf("geo_data_%s.csv", t.UTC().Format(time.DateOnly))
}

// WriteCSV writes the header and one row per record, rows separated by "\n"
// with no trailing newline.
//
// Row format: id,type,"coordinates"
// The coordinates field is always quoted and holds the service's textual
// form of the value (see geo.Coordinates.Raw). Array coordinates are written
// as compact JSON, e.g. "[[1,2],[3,4]]", not flattened to "1,2,3,4" the way a
// browser's Array.toString would. The id and type fields are quoted only when
// they contain a comma, quote or line break.
func WriteCSV(w io.Writer, records []models.GeoRecord) error {
	bw := bufio.NewWriter(w)

	if _, err := bw.WriteString(Header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, rec := range records {
		row := "\n" + escapeField(rec.ID) + "," + escapeField(rec.Type) + "," + quoteField(rec.Coordinates.Raw())
		if _, err := bw.WriteString(row); err != nil {
			return fmt.Errorf("failed to write CSV row %s: %w", rec.ID, err)
		}
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to flush CSV: %w", err)
	}
	return nil
}

// quoteField wraps s in double quotes, doubling any quote inside
func quoteField(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// escapeField quotes s only when CSV requires it
func escapeField(s string) string {
	if strings.ContainsAny(s, ",\"\r\n") {
		return quoteField(s)
	}
	return s
}
