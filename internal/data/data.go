// Package data loads tabular test data for the data-driven suite. JSON, CSV
// and XLSX sources all decode to the same Row shape.
package data

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gocarina/gocsv"

	"github.com/storecheck/storecheck/internal/types"
)

// ErrUnsupportedFormat is returned by Load for unknown file extensions.
var ErrUnsupportedFormat = errors.New("unsupported data file format")

// Row is one record keyed by column name.
type Row map[string]string

// ProductRow is the typed CSV shape of a product record.
type ProductRow struct {
	Title       string  `csv:"title"`
	Price       float64 `csv:"price"`
	Description string  `csv:"description"`
	Image       string  `csv:"image"`
	Category    string  `csv:"category"`
}

// Product converts a typed row.
func (r ProductRow) Product() types.Product {
	return types.Product{
		Title:       r.Title,
		Price:       r.Price,
		Description: r.Description,
		Image:       r.Image,
		Category:    r.Category,
	}
}

// Product parses the product columns of a row. A missing or malformed price
// is an error; the other columns may be empty.
func (r Row) Product() (types.Product, error) {
	price, err := strconv.ParseFloat(strings.TrimSpace(r["price"]), 64)
	if err != nil {
		return types.Product{}, fmt.Errorf("price %q: %w", r["price"], err)
	}
	return types.Product{
		Title:       r["title"],
		Price:       price,
		Description: r["description"],
		Image:       r["image"],
		Category:    r["category"],
	}, nil
}

// Load reads path according to its extension. XLSX files are read from their
// first sheet.
func Load(path string) ([]Row, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return LoadJSON(path)
	case ".csv":
		return LoadCSV(path)
	case ".xlsx":
		wb, err := Open(path)
		if err != nil {
			return nil, err
		}
		defer wb.Close()
		sheets := wb.Sheets()
		if len(sheets) == 0 {
			return nil, nil
		}
		return wb.Rows(sheets[0])
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
}

// LoadJSON reads a JSON array of objects. Scalar values are converted to
// their string form; nested values keep their raw JSON.
func LoadJSON(path string) ([]Row, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var raw []map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	rows := make([]Row, 0, len(raw))
	for _, obj := range raw {
		row := make(Row, len(obj))
		for k, v := range obj {
			row[k] = scalar(v)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func scalar(v json.RawMessage) string {
	var s string
	if err := json.Unmarshal(v, &s); err == nil {
		return s
	}
	if string(v) == "null" {
		return ""
	}
	return string(v)
}

// LoadCSV reads a CSV file whose first line names the columns.
func LoadCSV(path string) ([]Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	records, err := gocsv.DefaultCSVReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return fromRecords(records), nil
}

// LoadProductsCSV decodes a product CSV into typed rows.
func LoadProductsCSV(path string) ([]ProductRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var rows []ProductRow
	if err := gocsv.UnmarshalFile(f, &rows); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return rows, nil
}

// fromRecords turns a header plus records into rows. Short records leave the
// missing columns empty.
func fromRecords(records [][]string) []Row {
	if len(records) == 0 {
		return nil
	}
	header := records[0]
	rows := make([]Row, 0, len(records)-1)
	for _, rec := range records[1:] {
		row := make(Row, len(header))
		for i, col := range header {
			col = strings.TrimSpace(col)
			if col == "" {
				continue
			}
			if i < len(rec) {
				row[col] = rec[i]
			} else {
				row[col] = ""
			}
		}
		rows = append(rows, row)
	}
	return rows
}
