// Package report renders the history archive into an Excel workbook for
// offline review or sharing.
package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/example/omrsheet/internal/history"
	"github.com/example/omrsheet/internal/stats"
)

// SheetName is the single sheet the report is written to
const SheetName = "Test History"

var headers = []string{
	"Name", "Evaluated At", "Questions", "Score", "Max Score",
	"Correct", "Incorrect", "Unattempted", "Accuracy %", "Overall %", "Time (s)",
}

// WriteHistoryReport writes every archived test as one row of an .xlsx
// workbook at path, oldest first. Returns the number of rows written.
func WriteHistoryReport(archive *history.Archive, path string) (int, error) {
	tests, err := archive.ListByEvaluatedAt()
	if err != nil {
		return 0, fmt.Errorf("failed to read history: %v", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(SheetName)
	if err != nil {
		return 0, fmt.Errorf("failed to create sheet: %v", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return 0, fmt.Errorf("failed to remove default sheet: %v", err)
	}

	for col, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(SheetName, cell, h); err != nil {
			return 0, fmt.Errorf("failed to write header: %v", err)
		}
	}

	for row := range tests {
		t := &tests[row]
		elapsed := 0
		if t.ElapsedTimeSeconds != nil {
			elapsed = *t.ElapsedTimeSeconds
		}
		overall := 0.0
		if max := t.Config.MaxScore(); max > 0 {
			overall = float64(t.ScoreDetails.Score) / float64(max) * 100
		}
		values := []interface{}{
			t.Name,
			t.EvaluatedAt,
			t.Config.NumberOfQuestions,
			t.ScoreDetails.Score,
			t.Config.MaxScore(),
			t.ScoreDetails.CorrectCount,
			t.ScoreDetails.IncorrectCount,
			t.ScoreDetails.UnattemptedCount,
			t.ScoreDetails.Percentage,
			overall,
			elapsed,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			if err := f.SetCellValue(SheetName, cell, v); err != nil {
				return 0, fmt.Errorf("failed to write row %d: %v", row+2, err)
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		return 0, fmt.Errorf("failed to save report: %v", err)
	}
	return len(tests), nil
}

// WriteSummary appends a dashboard-style summary block below the table;
// separate from WriteHistoryReport so callers can skip it for raw exports.
func WriteSummary(f *excelize.File, summary *stats.Summary, startRow int) error {
	lines := []struct {
		label string
		value interface{}
	}{
		{"Total tests", summary.TotalTests},
		{"Average accuracy %", summary.AverageAccuracy},
		{"Best score", summary.BestScore},
		{"Average time (s)", summary.AverageElapsedSecs},
	}
	for i, line := range lines {
		labelCell, _ := excelize.CoordinatesToCellName(1, startRow+i)
		valueCell, _ := excelize.CoordinatesToCellName(2, startRow+i)
		if err := f.SetCellValue(SheetName, labelCell, line.label); err != nil {
			return fmt.Errorf("failed to write summary: %v", err)
		}
		if err := f.SetCellValue(SheetName, valueCell, line.value); err != nil {
			return fmt.Errorf("failed to write summary: %v", err)
		}
	}
	return nil
}
