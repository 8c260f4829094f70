// Package export writes executed query results to spreadsheet files.
package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/quarrydata/quarry/pkg/semantics"
)

const sheetName = "Results"

// WriteXLSX writes the result to path as a single-sheet workbook. The first
// row holds the column names; rows are streamed to keep memory flat on large
// result sets.
func WriteXLSX(result *semantics.Result, path string) error {
	if result == nil {
		return fmt.Errorf("nothing to export")
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return err
	}

	sw, err := f.NewStreamWriter(sheetName)
	if err != nil {
		return err
	}

	header := make([]any, len(result.Columns))
	for i, name := range result.Columns {
		header[i] = name
	}
	cell, err := excelize.CoordinatesToCellName(1, 1)
	if err != nil {
		return err
	}
	if err := sw.SetRow(cell, header); err != nil {
		return err
	}

	for i, row := range result.Rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := sw.SetRow(cell, row); err != nil {
			return err
		}
	}

	if err := sw.Flush(); err != nil {
		return err
	}
	return f.SaveAs(path)
}
