// Package export serializes search and analysis results to XLSX
// workbooks for download.
package export

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/stallum/mcp-legal-search/internal/document"
)

const (
	searchSheet = "Resultados"
	fieldsSheet = "Analisis_Completo"

	// LegalFieldsFilename is the fixed name of the full-analysis
	// export.
	LegalFieldsFilename = "Analisis_Completo_Boletin.xlsx"
)

// Service produces XLSX bytes for search hits and legal fields, and
// writes them into the configured export directory.
type Service struct {
	outputDir string
	logger    *slog.Logger
}

// NewService creates an export service writing into outputDir.
func NewService(outputDir string, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{outputDir: outputDir, logger: logger}
}

// SearchHitsWorkbook returns an XLSX workbook with one row per search
// hit: page number, matched text and context.
func (s *Service) SearchHitsWorkbook(hits []document.SearchHit) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), searchSheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	headers := []string{"Página", "Coincidencia", "Contexto"}
	if err := writeHeaders(f, searchSheet, headers); err != nil {
		return nil, err
	}

	for i, hit := range hits {
		row := i + 2
		writeCell(f, searchSheet, 1, row, hit.Page)
		writeCell(f, searchSheet, 2, row, hit.MatchedText)
		writeCell(f, searchSheet, 3, row, hit.Context)
	}

	_ = f.SetColWidth(searchSheet, "A", "A", 10)
	_ = f.SetColWidth(searchSheet, "B", "B", 28)
	_ = f.SetColWidth(searchSheet, "C", "C", 80)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}
	return buf.Bytes(), nil
}

// LegalFieldsWorkbook returns an XLSX workbook with one row per
// extracted legal field: category and value.
func (s *Service) LegalFieldsWorkbook(fields []document.LegalField) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), fieldsSheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	headers := []string{"Categoría", "Valor"}
	if err := writeHeaders(f, fieldsSheet, headers); err != nil {
		return nil, err
	}

	for i, field := range fields {
		row := i + 2
		writeCell(f, fieldsSheet, 1, row, string(field.Category))
		writeCell(f, fieldsSheet, 2, row, field.Value)
	}

	_ = f.SetColWidth(fieldsSheet, "A", "A", 18)
	_ = f.SetColWidth(fieldsSheet, "B", "B", 60)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}
	return buf.Bytes(), nil
}

// ExportSearchHits writes the hits workbook into the export directory
// under a name derived from the query and returns the written path.
func (s *Service) ExportSearchHits(query string, hits []document.SearchHit) (string, error) {
	start := time.Now()

	data, err := s.SearchHitsWorkbook(hits)
	if err != nil {
		return "", err
	}

	path, err := s.write(SearchHitsFilename(query), data)
	if err != nil {
		return "", err
	}

	s.logger.Info("export.search.ok",
		"query", query,
		"rows", len(hits),
		"path", path,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return path, nil
}

// ExportLegalFields writes the full-analysis workbook into the export
// directory and returns the written path.
func (s *Service) ExportLegalFields(fields []document.LegalField) (string, error) {
	start := time.Now()

	data, err := s.LegalFieldsWorkbook(fields)
	if err != nil {
		return "", err
	}

	path, err := s.write(LegalFieldsFilename, data)
	if err != nil {
		return "", err
	}

	s.logger.Info("export.analysis.ok",
		"rows", len(fields),
		"path", path,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return path, nil
}

// SearchHitsFilename derives the export filename for a query,
// sanitized for the filesystem.
func SearchHitsFilename(query string) string {
	return fmt.Sprintf("Resultados_%s.xlsx", sanitizeFilename(query))
}

func (s *Service) write(name string, data []byte) (string, error) {
	if err := os.MkdirAll(s.outputDir, 0o750); err != nil {
		return "", fmt.Errorf("create export directory: %w", err)
	}

	path := filepath.Join(s.outputDir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write export file: %w", err)
	}
	return path, nil
}

func writeHeaders(f *excelize.File, sheet string, headers []string) error {
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return fmt.Errorf("header cell: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return fmt.Errorf("set header: %w", err)
		}
	}
	return nil
}

func writeCell(f *excelize.File, sheet string, col, row int, v any) {
	cell, _ := excelize.CoordinatesToCellName(col, row)
	_ = f.SetCellValue(sheet, cell, v)
}

// sanitizeFilename keeps letters, digits, dash and underscore; every
// other rune becomes an underscore. Empty queries fall back to
// "busqueda".
func sanitizeFilename(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "busqueda"
	}

	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return b.String()
}
