package export

import (
	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/leadgen-cli/internal/model"
)

// WriteXLSXFile writes records to an XLSX workbook with a single Leads sheet.
// Column handling matches WriteCSV.
func WriteXLSXFile(path string, recs []model.BusinessRecord, filter Filter) error {
	recs = filter.Apply(recs)
	header, rows := buildTable(recs)

	f := xlsx.NewFile()
	sheet, err := f.AddSheet("Leads")
	if err != nil {
		return eris.Wrap(err, "export: add xlsx sheet")
	}

	hr := sheet.AddRow()
	for _, h := range header {
		hr.AddCell().Value = h
	}
	for _, row := range rows {
		r := sheet.AddRow()
		for _, v := range row {
			r.AddCell().Value = v
		}
	}

	return eris.Wrapf(f.Save(path), "export: save %s", path)
}
