package data

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/xuri/excelize/v2"
)

// Workbook reads and writes cells of an XLSX file. Rows and columns are
// 0-based.
type Workbook struct {
	path string
	f    *excelize.File
}

// Open loads path. A missing file yields an empty workbook that is created
// on the first SetCellData.
func Open(path string) (*Workbook, error) {
	f, err := excelize.OpenFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return &Workbook{path: path}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	return &Workbook{path: path, f: f}, nil
}

// Close releases the workbook.
func (w *Workbook) Close() error {
	if w.f == nil {
		return nil
	}
	return w.f.Close()
}

// Sheets lists the sheet names in workbook order.
func (w *Workbook) Sheets() []string {
	if w.f == nil {
		return nil
	}
	return w.f.GetSheetList()
}

func (w *Workbook) rows(sheet string) ([][]string, error) {
	if w.f == nil {
		return nil, fmt.Errorf("workbook %s: %w", w.path, fs.ErrNotExist)
	}
	idx, err := w.f.GetSheetIndex(sheet)
	if err != nil {
		return nil, err
	}
	if idx < 0 {
		return nil, fmt.Errorf("sheet %q not found", sheet)
	}
	return w.f.GetRows(sheet)
}

// RowCount returns the index of the last row of sheet, so a header plus
// three records gives 3. An empty sheet gives 0.
func (w *Workbook) RowCount(sheet string) (int, error) {
	rows, err := w.rows(sheet)
	if err != nil {
		return 0, err
	}
	return max(len(rows)-1, 0), nil
}

// CellCount returns the number of cells in row, up to the last non-empty one.
func (w *Workbook) CellCount(sheet string, row int) (int, error) {
	rows, err := w.rows(sheet)
	if err != nil {
		return 0, err
	}
	if row < 0 || row >= len(rows) {
		return 0, fmt.Errorf("sheet %q: row %d does not exist", sheet, row)
	}
	return len(rows[row]), nil
}

// CellData returns the formatted value of a cell, or "" when the cell is empty.
func (w *Workbook) CellData(sheet string, row, col int) (string, error) {
	if _, err := w.rows(sheet); err != nil {
		return "", err
	}
	name, err := excelize.CoordinatesToCellName(col+1, row+1)
	if err != nil {
		return "", err
	}
	v, err := w.f.GetCellValue(sheet, name)
	if err != nil {
		return "", nil
	}
	return v, nil
}

// SetCellData writes value and saves the file, creating the file and sheet
// as needed.
func (w *Workbook) SetCellData(sheet string, row, col int, value string) error {
	name, err := excelize.CoordinatesToCellName(col+1, row+1)
	if err != nil {
		return err
	}
	if w.f == nil {
		w.f = excelize.NewFile()
		if sheet != "Sheet1" {
			if _, err := w.f.NewSheet(sheet); err != nil {
				return err
			}
			if err := w.f.DeleteSheet("Sheet1"); err != nil {
				return err
			}
		}
	}
	idx, err := w.f.GetSheetIndex(sheet)
	if err != nil {
		return err
	}
	if idx < 0 {
		if _, err := w.f.NewSheet(sheet); err != nil {
			return err
		}
	}
	if err := w.f.SetCellValue(sheet, name, value); err != nil {
		return err
	}
	if _, err := os.Stat(w.path); err == nil {
		return w.f.Save()
	}
	return w.f.SaveAs(w.path)
}

// Rows returns the records of sheet keyed by the first row.
func (w *Workbook) Rows(sheet string) ([]Row, error) {
	rows, err := w.rows(sheet)
	if err != nil {
		return nil, err
	}
	return fromRecords(rows), nil
}
