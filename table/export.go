package table

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"bitbucket.org/mmdatafocus/indent_tracker/views"
)

const maxSheetTitle = 31

// Sheet is one worksheet of an export.
type Sheet struct {
	Title   string
	Columns []views.Column
	Rows    []Record
}

// WriteXLSX writes a single-sheet workbook.
func WriteXLSX(w io.Writer, title string, columns []views.Column, records []Record) error {
	return WriteWorkbook(w, []Sheet{{Title: title, Columns: columns, Rows: records}})
}

// WriteWorkbook writes one worksheet per Sheet, header row first. Numbers stay
// numeric; everything else is written as text.
func WriteWorkbook(w io.Writer, sheets []Sheet) error {
	f := excelize.NewFile()
	defer f.Close()

	used := map[string]int{}
	for i, s := range sheets {
		name := sheetTitle(s.Title, used)
		if i == 0 {
			if err := f.SetSheetName("Sheet1", name); err != nil {
				return err
			}
		} else if _, err := f.NewSheet(name); err != nil {
			return err
		}
		if err := fillSheet(f, name, s); err != nil {
			return fmt.Errorf("sheet %s: %w", name, err)
		}
	}
	if len(sheets) == 0 {
		return fmt.Errorf("no sheets to write")
	}

	_, err := f.WriteTo(w)
	return err
}

func fillSheet(f *excelize.File, name string, s Sheet) error {
	cols := s.Columns
	if len(cols) == 0 {
		cols = Columns(s.Rows)
	}

	for c, col := range cols {
		cell, err := excelize.CoordinatesToCellName(c+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(name, cell, col.Header); err != nil {
			return err
		}
	}
	for r, rec := range s.Rows {
		for c, col := range cols {
			cell, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(name, cell, cellValue(rec, col.Key)); err != nil {
				return err
			}
		}
	}
	if len(cols) > 0 {
		last, _ := excelize.ColumnNumberToName(len(cols))
		if err := f.SetColWidth(name, "A", last, 18); err != nil {
			return err
		}
	}
	return nil
}

func cellValue(r Record, key string) any {
	if n, ok := r[key].(json.Number); ok {
		if i, err := n.Int64(); err == nil {
			return i
		}
		if fl, err := n.Float64(); err == nil {
			return fl
		}
	}
	return r.Text(key)
}

// sheetTitle makes a worksheet name excel accepts and that is unique within the workbook.
func sheetTitle(title string, used map[string]int) string {
	name := strings.Map(func(r rune) rune {
		switch r {
		case '[', ']', ':', '*', '?', '/', '\\':
			return '-'
		}
		return r
	}, strings.TrimSpace(title))
	if name == "" {
		name = "Sheet"
	}
	if len(name) > maxSheetTitle {
		name = name[:maxSheetTitle]
	}
	used[name]++
	if n := used[name]; n > 1 {
		suffix := fmt.Sprintf(" (%d)", n)
		if len(name)+len(suffix) > maxSheetTitle {
			name = name[:maxSheetTitle-len(suffix)]
		}
		name += suffix
	}
	return name
}
