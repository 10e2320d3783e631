// Package export renders a ship's compliance picture as an XLSX workbook.
package export

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/fleetdocs/shipcert/internal/pipeline"
	"github.com/fleetdocs/shipcert/internal/repository"
)

// Service is a tiny façade over the compliance reads that produces XLSX
// bytes for exports.
type Service struct {
	ships      repository.ShipRepository
	compliance *pipeline.ComplianceService
	logger     *slog.Logger
}

func NewService(ships repository.ShipRepository, compliance *pipeline.ComplianceService, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{ships: ships, compliance: compliance, logger: logger}
}

// ExportComplianceXLSX returns a workbook with one row per certificate that
// carries a next survey date, plus a docking-dates summary block.
func (s *Service) ExportComplianceXLSX(ctx context.Context, shipID uuid.UUID) ([]byte, error) {
	start := time.Now()

	ship, err := s.ships.GetByID(ctx, shipID)
	if err != nil {
		return nil, fmt.Errorf("load ship: %w", err)
	}
	surveys, err := s.compliance.SurveyWindows(ctx, shipID)
	if err != nil {
		return nil, fmt.Errorf("compute survey windows: %w", err)
	}

	f := excelize.NewFile()
	const sheet = "Compliance"
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)

	headers := []string{
		"Certificate",
		"Abbrev",
		"Cert No",
		"Type",
		"Valid Until",
		"Next Survey",
		"Survey Type",
		"Window",
		"Window Opens",
		"Window Closes",
		"Overdue",
		"Critical",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	row := 2
	for _, cs := range surveys {
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(sheet, cell, v)
		}
		c, w := cs.Certificate, cs.Window

		write(1, truncate(c.CertName, 80))
		write(2, c.CertAbbrev)
		write(3, c.CertNo)
		write(4, string(c.CertType))
		write(5, fmtDate(c.ValidDate))
		write(6, w.NextSurveyDate.Format("2006-01-02"))
		write(7, string(w.SurveyType))
		write(8, w.WindowType)
		write(9, w.WindowOpen.Format("2006-01-02"))
		write(10, w.WindowClose.Format("2006-01-02"))
		write(11, yesNo(w.IsOverdue))
		write(12, yesNo(w.IsCritical))
		row++
	}

	// Docking summary under the table. Missing data is a valid state.
	row++
	writeAt := func(col, r int, v any) {
		cell, _ := excelize.CoordinatesToCellName(col, r)
		_ = f.SetCellValue(sheet, cell, v)
	}
	writeAt(1, row, "Ship")
	writeAt(2, row, ship.Name)
	writeAt(3, row, "IMO "+ship.IMO)
	row++
	writeAt(1, row, "Last docking")
	writeAt(2, row, fmtDate(ship.LastDocking))
	row++
	writeAt(1, row, "Previous docking")
	writeAt(2, row, fmtDate(ship.LastDocking2))

	_ = f.SetColWidth(sheet, "A", "A", 48) // certificate name
	_ = f.SetColWidth(sheet, "B", "D", 14)
	_ = f.SetColWidth(sheet, "C", "C", 20) // cert no
	_ = f.SetColWidth(sheet, "E", "J", 14) // dates
	_ = f.SetColWidth(sheet, "K", "L", 10)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("export.xlsx.ok",
		"ship_id", shipID.String(),
		"rows", len(surveys),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

func fmtDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}

func yesNo(b bool) string {
	if b {
		return "YES"
	}
	return "no"
}

func truncate(s string, n int) string {
	if n <= 0 || len(s) <= n {
		return s
	}
	if n <= 1 {
		return s[:n]
	}
	return s[:n-1] + "…"
}
