package export

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"
)

// Column widths in characters: date/month column, then the count column.
var columnWidths = []float64{15, 12}

// XLSXWriter saves workbooks as .xlsx files in Dir.
type XLSXWriter struct {
	Dir    string
	Logger *slog.Logger
}

func (x *XLSXWriter) Export(ctx context.Context, wb Workbook) (string, error) {
	if err := os.MkdirAll(x.Dir, 0o755); err != nil {
		return "", fmt.Errorf("create export directory: %w", err)
	}
	f, err := newFile(wb)
	if err != nil {
		return "", err
	}
	defer f.Close()

	path := filepath.Join(x.Dir, wb.FileName)
	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("save %s: %w", path, err)
	}

	exportLogger(x.Logger).InfoContext(ctx, "Exported workbook",
		"path", path, "daily_rows", len(wb.Daily), "year", wb.Year)
	return path, nil
}

// WriteXLSX streams the workbook to w.
func WriteXLSX(w io.Writer, wb Workbook) error {
	f, err := newFile(wb)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := f.Write(w); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}
	return nil
}

func newFile(wb Workbook) (*excelize.File, error) {
	f := excelize.NewFile()
	sheets := wb.Sheets()

	for i, sh := range sheets {
		var err error
		if i == 0 {
			// a new file starts with one default sheet; reuse it
			err = f.SetSheetName(f.GetSheetName(0), sh.Name)
		} else {
			_, err = f.NewSheet(sh.Name)
		}
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("create sheet %s: %w", sh.Name, err)
		}

		if err := fillSheet(f, sh); err != nil {
			f.Close()
			return nil, err
		}
	}
	f.SetActiveSheet(0)
	return f, nil
}

func fillSheet(f *excelize.File, sh Sheet) error {
	for r, row := range sh.Rows {
		cell, err := excelize.CoordinatesToCellName(1, r+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sh.Name, cell, &row); err != nil {
			return fmt.Errorf("write %s row %d: %w", sh.Name, r+1, err)
		}
	}
	for c, width := range columnWidths {
		col, err := excelize.ColumnNumberToName(c + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(sh.Name, col, col, width); err != nil {
			return fmt.Errorf("set %s column width: %w", sh.Name, err)
		}
	}
	return nil
}
