package xlsx

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"discord-quiz-bot/internal/domain"
)

const sheetName = "Quiz Results"

// Exporter writes a run's results to <quiz>_results.xlsx with the columns
// User ID, Username, Score, rows ordered by score descending. The workbook
// is the durable artifact admins fetch with the sendresults command.
type Exporter struct {
	dir string
}

func NewExporter(dir string) *Exporter {
	if dir == "" {
		dir = "."
	}
	return &Exporter{dir: dir}
}

func (e *Exporter) Publish(_ context.Context, quiz string, rows []domain.ResultRow) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if err := f.SetSheetRow(sheetName, "A1", &[]any{"User ID", "Username", "Score"}); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheetName, cell, &[]any{row.UserID, row.DisplayName, row.Score}); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}

	if err := f.SaveAs(e.Filename(quiz)); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}

// Filename returns the workbook path for the quiz.
func (e *Exporter) Filename(quiz string) string {
	return filepath.Join(e.dir, quiz+"_results.xlsx")
}

// Remove deletes the quiz's workbook if it exists.
func (e *Exporter) Remove(quiz string) error {
	err := os.Remove(e.Filename(quiz))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}
