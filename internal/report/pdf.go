// Package report renders timesheets and moves timer sets between machines.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/akyairhashvil/worktime/internal/config"
	"github.com/akyairhashvil/worktime/internal/models"
	"github.com/akyairhashvil/worktime/internal/util"
	"github.com/go-pdf/fpdf"
)

// DefaultPDFPath is the timesheet location used when none is given.
func DefaultPDFPath(now time.Time) string {
	name := fmt.Sprintf("timesheet_%s.pdf", now.Format("2006-01-02"))
	return filepath.Join(util.ReportsDir(config.AppName), name)
}

// WritePDF renders a timesheet of entries to path: one row per timer with
// its label and duration, followed by the total.
func WritePDF(path, title string, entries []models.Entry, generated time.Time) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create report dir: %w", err)
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(title, true)
	pdf.SetCreator(config.AppName, true)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(0, 10, tr(title))
	pdf.Ln(10)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, "Generated "+generated.Format("2006-01-02 15:04"))
	pdf.Ln(10)

	const labelW, durW = 130.0, 50.0
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(labelW, 8, "Timer", "B", 0, "L", false, 0, "")
	pdf.CellFormat(durW, 8, "Duration", "B", 1, "R", false, 0, "")

	pdf.SetFont("Arial", "", 12)
	var total models.Duration
	for _, e := range entries {
		label := e.Label
		if label == "" {
			label = "(unnamed)"
		}
		if e.Running {
			label += " *"
		}
		pdf.CellFormat(labelW, 8, tr(label), "", 0, "L", false, 0, "")
		pdf.CellFormat(durW, 8, e.Duration.Clock(), "", 1, "R", false, 0, "")
		total = total.Add(e.Duration)
	}
	if len(entries) == 0 {
		pdf.CellFormat(labelW+durW, 8, "No timers.", "", 1, "L", false, 0, "")
	}

	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(labelW, 8, "Total", "T", 0, "L", false, 0, "")
	pdf.CellFormat(durW, 8, total.Clock(), "T", 1, "R", false, 0, "")
	pdf.Ln(4)
	pdf.SetFont("Arial", "I", 10)
	pdf.Cell(0, 6, total.String())

	if err := pdf.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("write report %s: %w", path, err)
	}
	return nil
}
