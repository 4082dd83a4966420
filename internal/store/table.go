package store

import (
	"fmt"
	"log"
	"os"
	"sync"

	"github.com/xuri/excelize/v2"
)

// table is a spreadsheet file holding a header row plus string records.
// The whole sheet is read into memory per operation and rewritten in full
// on mutation. One mutex serializes every operation, held across a store's
// complete read-modify-write cycle so check-then-act sequences stay atomic
// within the process.
type table struct {
	mu      sync.Mutex
	path    string
	columns []string
}

const sheetName = "Sheet1"

func newTable(path string, columns []string) *table {
	return &table{path: path, columns: columns}
}

// init validates the backing file at startup. A missing, unreadable,
// row-less or column-mismatched file is destructively recreated as an empty
// table with the expected header. Returns an error only when the file
// cannot be (re)written.
func (t *table) init() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, err := os.Stat(t.path); err == nil {
		f, err := excelize.OpenFile(t.path)
		if err != nil {
			log.Printf("store: error reading %s: %v, recreating file", t.path, err)
			return t.recreate()
		}
		rows, err := f.GetRows(f.GetSheetName(0))
		_ = f.Close()
		if err != nil {
			log.Printf("store: error reading %s: %v, recreating file", t.path, err)
			return t.recreate()
		}
		if len(rows) == 0 || !sameColumnSet(rows[0], t.columns) {
			log.Printf("store: %s is empty or has incorrect columns, recreating", t.path)
			return t.recreate()
		}
		return nil
	}

	return t.recreate()
}

func (t *table) recreate() error {
	if err := t.writeAll(nil); err != nil {
		return fmt.Errorf("create %s: %w", t.path, err)
	}
	return nil
}

// readAll returns the data rows, each padded to the full column count.
// Caller must hold t.mu.
func (t *table) readAll() ([][]string, error) {
	f, err := excelize.OpenFile(t.path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", t.path, err)
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", t.path, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	data := make([][]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		// GetRows trims trailing empty cells
		for len(row) < len(t.columns) {
			row = append(row, "")
		}
		data = append(data, row)
	}
	return data, nil
}

// writeAll rewrites the whole file: header first, then every data row.
// Caller must hold t.mu (init excepted, it owns the lock already).
func (t *table) writeAll(rows [][]string) error {
	f := excelize.NewFile()
	defer f.Close()

	for i, col := range t.columns {
		cell := fmt.Sprintf("%c1", 'A'+i)
		if err := f.SetCellValue(sheetName, cell, col); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
	}
	for r, row := range rows {
		for i, v := range row {
			cell := fmt.Sprintf("%c%d", 'A'+i, r+2)
			if err := f.SetCellValue(sheetName, cell, v); err != nil {
				return fmt.Errorf("write row %d: %w", r, err)
			}
		}
	}

	if err := f.SaveAs(t.path); err != nil {
		return fmt.Errorf("write %s: %w", t.path, err)
	}
	return nil
}

// sameColumnSet compares headers as sets, ignoring order, like the schema
// check the tables were originally created under.
func sameColumnSet(got, want []string) bool {
	gotSet := make(map[string]struct{}, len(got))
	for _, c := range got {
		gotSet[c] = struct{}{}
	}
	wantSet := make(map[string]struct{}, len(want))
	for _, c := range want {
		wantSet[c] = struct{}{}
	}
	if len(gotSet) != len(wantSet) {
		return false
	}
	for c := range wantSet {
		if _, ok := gotSet[c]; !ok {
			return false
		}
	}
	return true
}
