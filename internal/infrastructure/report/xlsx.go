package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/supplymatch/backend/internal/domain"
)

// XLSXWriter renders audit reports as spreadsheets for the catalog team.
type XLSXWriter struct{}

// NewXLSXWriter creates a writer.
func NewXLSXWriter() *XLSXWriter { return &XLSXWriter{} }

// Write saves the report to path with an issues sheet and a summary sheet.
func (w *XLSXWriter) Write(rep *domain.AuditReport, path string) error {
	f := excelize.NewFile()
	defer f.Close()

	const issuesSheet = "Issues"
	f.SetSheetName("Sheet1", issuesSheet)

	headers := []string{"Offer ID", "Name", "Issue Code", "Detail"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(issuesSheet, cell, h); err != nil {
			return fmt.Errorf("write report header: %w", err)
		}
	}

	for i, issue := range rep.Issues {
		row := i + 2
		values := []interface{}{issue.OfferID, issue.Name, issue.Code, issue.Detail}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			if err := f.SetCellValue(issuesSheet, cell, v); err != nil {
				return fmt.Errorf("write report row %d: %w", row, err)
			}
		}
	}

	const summarySheet = "Summary"
	if _, err := f.NewSheet(summarySheet); err != nil {
		return fmt.Errorf("create summary sheet: %w", err)
	}
	f.SetCellValue(summarySheet, "A1", "Ran At")
	f.SetCellValue(summarySheet, "B1", rep.RanAt.Format("2006-01-02 15:04:05"))
	f.SetCellValue(summarySheet, "A2", "Offers Scanned")
	f.SetCellValue(summarySheet, "B2", rep.Scanned)
	f.SetCellValue(summarySheet, "A3", "Issues Found")
	f.SetCellValue(summarySheet, "B3", len(rep.Issues))

	row := 5
	f.SetCellValue(summarySheet, "A4", "By Code")
	for code, count := range rep.ByCode {
		codeCell, _ := excelize.CoordinatesToCellName(1, row)
		countCell, _ := excelize.CoordinatesToCellName(2, row)
		f.SetCellValue(summarySheet, codeCell, code)
		f.SetCellValue(summarySheet, countCell, count)
		row++
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save report: %w", err)
	}
	return nil
}
