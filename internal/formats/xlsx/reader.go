// Package xlsx reads and writes the small workbooks embedded behind charts.
// The layout is the one PowerPoint uses: series names across row 1 from
// column B, categories down column A from row 2, values in the grid.
package xlsx

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// SheetName is the worksheet chart formulas refer to.
const SheetName = "Sheet1"

// Series is one named row of values.
type Series struct {
	Name   string    `json:"name"`
	Values []float64 `json:"values"`
}

// ChartData is the table behind a chart.
type ChartData struct {
	Categories []string `json:"categories"`
	Series     []Series `json:"series"`
}

// Validate checks that every series has one value per category.
func (d *ChartData) Validate() error {
	if len(d.Categories) == 0 {
		return fmt.Errorf("chart needs at least one category")
	}
	if len(d.Series) == 0 {
		return fmt.Errorf("chart needs at least one series")
	}
	for _, s := range d.Series {
		if len(s.Values) != len(d.Categories) {
			return fmt.Errorf("series %q has %d values for %d categories", s.Name, len(s.Values), len(d.Categories))
		}
	}
	return nil
}

// ColumnRef returns the absolute reference of a series column, e.g. "$C".
func ColumnRef(series int) string {
	name, err := excelize.ColumnNumberToName(series + 2)
	if err != nil {
		return "$B"
	}
	return "$" + name
}

// ReadBytes decodes an embedded workbook.
func ReadBytes(data []byte) (*ChartData, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("could not read Excel data: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("could not read sheet %q: %w", sheets[0], err)
	}
	d := &ChartData{}
	if len(rows) == 0 {
		return d, nil
	}
	for _, name := range rows[0][min(1, len(rows[0])):] {
		d.Series = append(d.Series, Series{Name: name})
	}
	for _, row := range rows[1:] {
		if len(row) == 0 {
			continue
		}
		d.Categories = append(d.Categories, row[0])
		for i := range d.Series {
			v := 0.0
			if i+1 < len(row) {
				v, _ = strconv.ParseFloat(strings.TrimSpace(row[i+1]), 64)
			}
			d.Series[i].Values = append(d.Series[i].Values, v)
		}
	}
	return d, nil
}

// WriteBytes encodes chart data as a workbook.
func WriteBytes(d *ChartData) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if def := f.GetSheetName(0); def != SheetName {
		if err := f.SetSheetName(def, SheetName); err != nil {
			return nil, fmt.Errorf("could not rename sheet: %w", err)
		}
	}
	set := func(col, row int, v any) error {
		cellName, err := excelize.CoordinatesToCellName(col, row)
		if err != nil {
			return fmt.Errorf("invalid cell coordinates: %w", err)
		}
		if err := f.SetCellValue(SheetName, cellName, v); err != nil {
			return fmt.Errorf("could not set cell %s: %w", cellName, err)
		}
		return nil
	}
	for i, s := range d.Series {
		if err := set(i+2, 1, s.Name); err != nil {
			return nil, err
		}
		for j, v := range s.Values {
			if err := set(i+2, j+2, v); err != nil {
				return nil, err
			}
		}
	}
	for j, c := range d.Categories {
		if err := set(1, j+2, c); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("could not encode workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// CSV renders the data with a header row, for display.
func (d *ChartData) CSV() string {
	var b strings.Builder
	b.WriteString(quote(""))
	for _, s := range d.Series {
		b.WriteString("," + quote(s.Name))
	}
	b.WriteString("\n")
	for i, c := range d.Categories {
		b.WriteString(quote(c))
		for _, s := range d.Series {
			b.WriteString(",")
			if i < len(s.Values) {
				b.WriteString(strconv.FormatFloat(s.Values[i], 'g', -1, 64))
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}

func quote(s string) string {
	if strings.ContainsAny(s, ",\"\n\r") {
		return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
	}
	return s
}
