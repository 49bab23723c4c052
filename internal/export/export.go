// Package export writes lead tables to CSV and XLSX.
package export

import (
	"strconv"

	"github.com/sells-group/leadgen-cli/internal/model"
)

// Filter narrows the exported rows. Zero value exports everything.
type Filter struct {
	EmailsOnly    bool
	WorldwideOnly bool
}

// Apply returns the records passing the filter, preserving order.
func (f Filter) Apply(recs []model.BusinessRecord) []model.BusinessRecord {
	if !f.EmailsOnly && !f.WorldwideOnly {
		return recs
	}
	var out []model.BusinessRecord
	for _, r := range recs {
		if f.EmailsOnly && !r.HasEmail() {
			continue
		}
		if f.WorldwideOnly && !r.PotentialWorldwideShipping {
			continue
		}
		out = append(out, r)
	}
	return out
}

// column is one exportable field: header name plus a value extractor.
type column struct {
	header string
	value  func(*model.BusinessRecord) string
}

// Columns in preferred output order. Flag columns always carry a value, so
// they survive the empty-column pruning and anchor the table shape.
var columns = []column{
	{"name", func(r *model.BusinessRecord) string { return r.Name }},
	{"category", func(r *model.BusinessRecord) string { return r.Category }},
	{"phone", func(r *model.BusinessRecord) string { return r.Phone }},
	{"email", func(r *model.BusinessRecord) string { return r.Email }},
	{"email_source", func(r *model.BusinessRecord) string {
		if r.EmailSource == model.EmailSourceNone {
			return ""
		}
		return string(r.EmailSource)
	}},
	{"contact_role", func(r *model.BusinessRecord) string { return r.ContactRole }},
	{"website", func(r *model.BusinessRecord) string { return r.Website }},
	{"address", func(r *model.BusinessRecord) string { return r.Address }},
	{"external_url", func(r *model.BusinessRecord) string { return r.ExternalURL }},
	{"rating", func(r *model.BusinessRecord) string {
		if r.Rating == 0 {
			return ""
		}
		return strconv.FormatFloat(r.Rating, 'f', -1, 64)
	}},
	{"review_count", func(r *model.BusinessRecord) string {
		if r.ReviewCount == 0 {
			return ""
		}
		return strconv.Itoa(r.ReviewCount)
	}},
	{"likely_delivery", func(r *model.BusinessRecord) string { return strconv.FormatBool(r.LikelyDelivery) }},
	{"potential_worldwide_shipping", func(r *model.BusinessRecord) string { return strconv.FormatBool(r.PotentialWorldwideShipping) }},
	{"is_logistics", func(r *model.BusinessRecord) string { return strconv.FormatBool(r.IsLogistics) }},
}

// buildTable materializes header plus rows, dropping columns that are empty
// across every record.
func buildTable(recs []model.BusinessRecord) (header []string, rows [][]string) {
	var active []column
	for _, col := range columns {
		for i := range recs {
			if col.value(&recs[i]) != "" {
				active = append(active, col)
				break
			}
		}
	}
	if len(active) == 0 {
		active = columns
	}

	header = make([]string, len(active))
	for i, col := range active {
		header[i] = col.header
	}

	rows = make([][]string, 0, len(recs))
	for i := range recs {
		row := make([]string, len(active))
		for j, col := range active {
			row[j] = col.value(&recs[i])
		}
		rows = append(rows, row)
	}
	return header, rows
}
