package link

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strings"
)

var csvHeader = []string{"URL", "Title", "Summary", "Tags", "Status", "Created At", "Context"}

// ExportCSV writes the records as RFC 4180 CSV with a fixed header row.
// Tags are joined with ", " into a single column.
func ExportCSV(w io.Writer, records []Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, r := range records {
		row := []string{
			r.URL,
			deref(r.Title),
			r.Summary,
			strings.Join(r.Tags, ", "),
			string(r.Status),
			r.CreatedAt.Format("2006-01-02"),
			deref(r.Context),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ExportJSON writes the records as a direct JSON serialization of the
// collection.
func ExportJSON(w io.Writer, records []Record) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(records)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
