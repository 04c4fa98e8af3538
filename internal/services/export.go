package services

import (
	"strings"
	"time"

	"colloquium/internal/domain"
)

// csvHeader is the fixed export column order.
var csvHeader = []string{
	"Name", "Email", "Phone", "College", "Department", "Semester", "Year",
	"Event", "Team Details", "Fee", "UPI Paid To", "Txn Note",
	"Payment Device", "Transaction ID", "Date", "Status",
}

// Exporter serializes a registration view to CSV.
type Exporter struct {
	catalog domain.Catalog
}

// NewExporter returns an Exporter using catalog slugs for filenames.
func NewExporter(catalog domain.Catalog) *Exporter {
	return &Exporter{catalog: catalog}
}

// ExportCSV renders the given registrations as CSV: a header row plus one
// row per record, newline-separated. Every field is double-quoted with
// embedded quotes doubled. Missing values render as "N/A".
func (e *Exporter) ExportCSV(regs []*domain.Registration) string {
	var b strings.Builder
	writeRow(&b, csvHeader)
	for _, reg := range regs {
		department, semester := SplitDepartment(reg.Department)
		date := "N/A"
		if reg.CreatedAt != nil {
			date = reg.CreatedAt.Format("02/01/2006")
		}
		b.WriteString("\n")
		writeRow(&b, []string{
			orNA(reg.FullName),
			orNA(reg.Email),
			orNA(reg.Phone),
			orNA(reg.College),
			department,
			semester,
			orNA(reg.Year),
			orNA(reg.Event),
			orNA(reg.TeamDetails),
			orNA(reg.Fee),
			orNA(reg.UPIPaidTo),
			orNA(reg.TxnNote),
			orNA(reg.PaymentDevice),
			orNA(reg.TransactionID),
			date,
			string(reg.EffectiveStatus()),
		})
	}
	return b.String()
}

// Filename builds the download name for the current filter:
// colloquium-2026-<filter-slug>-<ISO-date>.csv
func (e *Exporter) Filename(filter string, now time.Time) string {
	slug := FilterAll
	if filter != FilterAll {
		if entry, ok := e.catalog.Find(filter); ok {
			slug = entry.Slug
		} else {
			slug = strings.Join(strings.Fields(strings.ToLower(filter)), "-")
		}
	}
	return "colloquium-2026-" + slug + "-" + now.Format("2006-01-02") + ".csv"
}

// SplitDepartment decomposes a free-text "Department - Semester" value.
// Without a hyphen the whole string is the department and semester is "N/A";
// with one, the first two hyphen-separated parts are used, trimmed.
func SplitDepartment(s string) (department, semester string) {
	department, semester = "N/A", "N/A"
	if s == "" {
		return department, semester
	}
	parts := strings.Split(s, "-")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	if len(parts) >= 2 {
		return parts[0], parts[1]
	}
	return parts[0], semester
}

func writeRow(b *strings.Builder, fields []string) {
	for i, f := range fields {
		if i > 0 {
			b.WriteString(",")
		}
		b.WriteString(`"`)
		b.WriteString(strings.ReplaceAll(f, `"`, `""`))
		b.WriteString(`"`)
	}
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
