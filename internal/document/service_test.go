package document

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func newTestService(t *testing.T) (*Service, string) {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "document_service_test")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	service, err := NewService(1024*1024, tempDir)
	if err != nil {
		t.Fatalf("failed to create service: %v", err)
	}
	return service, tempDir
}

func TestNewService(t *testing.T) {
	if _, err := NewService(1024, ""); err == nil {
		t.Error("expected error for empty documents directory")
	}

	service, dir := newTestService(t)
	if service.GetMaxFileSize() != 1024*1024 {
		t.Errorf("unexpected max file size: %d", service.GetMaxFileSize())
	}
	if service.DocumentsDirectory() != dir {
		t.Errorf("unexpected documents directory: %s", service.DocumentsDirectory())
	}
}

func TestService_DocumentSearch_EmptyQuery(t *testing.T) {
	service, _ := newTestService(t)

	_, err := service.DocumentSearch(DocumentSearchRequest{Path: "boletin.pdf", Query: ""})
	if err == nil {
		t.Fatal("expected error for empty query")
	}
	if !strings.Contains(err.Error(), "query cannot be empty") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestService_SecurityValidation(t *testing.T) {
	service, dir := newTestService(t)

	outside := filepath.Join(filepath.Dir(dir), "other", "secret.pdf")

	t.Run("extract rejects path outside root", func(t *testing.T) {
		_, err := service.DocumentExtract(DocumentExtractRequest{Path: outside})
		if err == nil || !strings.Contains(err.Error(), "security validation failed") {
			t.Errorf("expected security validation error, got %v", err)
		}
	})
	t.Run("search rejects path outside root", func(t *testing.T) {
		_, err := service.DocumentSearch(DocumentSearchRequest{Path: outside, Query: "toca"})
		if err == nil || !strings.Contains(err.Error(), "security validation failed") {
			t.Errorf("expected security validation error, got %v", err)
		}
	})
	t.Run("analyze rejects path outside root", func(t *testing.T) {
		_, err := service.DocumentAnalyze(DocumentAnalyzeRequest{Path: outside})
		if err == nil || !strings.Contains(err.Error(), "security validation failed") {
			t.Errorf("expected security validation error, got %v", err)
		}
	})
	t.Run("validate rejects path outside root", func(t *testing.T) {
		_, err := service.DocumentValidate(DocumentValidateRequest{Path: outside})
		if err == nil || !strings.Contains(err.Error(), "security validation failed") {
			t.Errorf("expected security validation error, got %v", err)
		}
	})
	t.Run("list rejects directory outside root", func(t *testing.T) {
		_, err := service.ListDirectory(ListDirectoryRequest{Directory: filepath.Dir(dir)})
		if err == nil || !strings.Contains(err.Error(), "security validation failed") {
			t.Errorf("expected security validation error, got %v", err)
		}
	})
}

func TestService_DocumentSearch_FullPipeline(t *testing.T) {
	service, dir := newTestService(t)

	path := filepath.Join(dir, "boletin.pdf")
	data := buildFixturePDF(
		"Se radica el Expediente 123/2024-A en el juzgado",
		"sin coincidencias en esta pagina",
	)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("failed to create test file: %v", err)
	}

	result, err := service.DocumentSearch(DocumentSearchRequest{Path: "boletin.pdf", Query: "expediente"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.PageCount != 2 {
		t.Errorf("expected 2 pages but got %d", result.PageCount)
	}
	if result.TotalCount != 1 {
		t.Fatalf("expected 1 hit but got %d: %+v", result.TotalCount, result.Hits)
	}
	hit := result.Hits[0]
	if hit.Page != 1 {
		t.Errorf("expected hit on page 1 but got %d", hit.Page)
	}
	if hit.MatchedText != "Expediente" {
		t.Errorf("expected matched text 'Expediente' but got %q", hit.MatchedText)
	}
	if !strings.Contains(hit.Context, "Expediente 123/2024-A") {
		t.Errorf("unexpected context: %q", hit.Context)
	}
}

func TestService_DocumentAnalyze_FullPipeline(t *testing.T) {
	service, dir := newTestService(t)

	path := filepath.Join(dir, "boletin.pdf")
	data := buildFixturePDF("El Demandado: Juan Perez Lopez comparecio ante el Juzgado Primero")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("failed to create test file: %v", err)
	}

	result, err := service.DocumentAnalyze(DocumentAnalyzeRequest{Path: "boletin.pdf"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.PageCount != 1 {
		t.Errorf("expected 1 page but got %d", result.PageCount)
	}
	if result.AnalysisID == "" {
		t.Error("expected a non-empty analysis id")
	}
	if value := findField(result.Fields, CategoryDemandado); value != "Juan Perez Lopez" {
		t.Errorf("expected demandado 'Juan Perez Lopez' but got %q", value)
	}
	if value := findField(result.Fields, CategoryJuzgado); !strings.Contains(value, "Juzgado Primero") {
		t.Errorf("expected a juzgado field, got %q", value)
	}
}

func TestService_DocumentValidate(t *testing.T) {
	service, dir := newTestService(t)

	bogus := filepath.Join(dir, "bogus.pdf")
	if err := os.WriteFile(bogus, []byte("not a pdf"), 0o644); err != nil {
		t.Fatalf("failed to create test file: %v", err)
	}

	result, err := service.DocumentValidate(DocumentValidateRequest{Path: "bogus.pdf"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Valid {
		t.Error("expected invalid result for bogus content")
	}
	if result.Message == "" {
		t.Error("expected a validation message")
	}
	if result.Path != bogus {
		t.Errorf("expected normalized path %q but got %q", bogus, result.Path)
	}
}

func TestService_ListDirectory(t *testing.T) {
	service, dir := newTestService(t)

	mustWrite := func(path string) {
		t.Helper()
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
			t.Fatalf("failed to create dir: %v", err)
		}
		if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
			t.Fatalf("failed to create file: %v", err)
		}
	}

	mustWrite(filepath.Join(dir, "Boletin_Enero.pdf"))
	mustWrite(filepath.Join(dir, "boletin_febrero.PDF"))
	mustWrite(filepath.Join(dir, "notas.txt"))
	mustWrite(filepath.Join(dir, "sub", "acuerdo.pdf"))
	mustWrite(filepath.Join(dir, ".oculto", "escondido.pdf"))

	t.Run("lists only PDFs recursively", func(t *testing.T) {
		result, err := service.ListDirectory(ListDirectoryRequest{Directory: dir})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.TotalCount != 3 {
			t.Fatalf("expected 3 files but got %d: %+v", result.TotalCount, result.Files)
		}
		for _, file := range result.Files {
			if !IsPDFPath(file.Name) {
				t.Errorf("non-PDF file listed: %s", file.Name)
			}
			if strings.Contains(file.Path, ".oculto") {
				t.Errorf("hidden directory should be skipped: %s", file.Path)
			}
			if file.ModifiedTime == "" {
				t.Errorf("missing modified time for %s", file.Name)
			}
		}
	})

	t.Run("filters by case-insensitive name substring", func(t *testing.T) {
		result, err := service.ListDirectory(ListDirectoryRequest{Directory: dir, Query: "BOLETIN"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.TotalCount != 2 {
			t.Errorf("expected 2 files but got %d: %+v", result.TotalCount, result.Files)
		}
	})

	t.Run("empty directory falls back to configured root", func(t *testing.T) {
		result, err := service.ListDirectory(ListDirectoryRequest{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.Directory != dir {
			t.Errorf("expected directory %q but got %q", dir, result.Directory)
		}
		if result.TotalCount != 3 {
			t.Errorf("expected 3 files but got %d", result.TotalCount)
		}
	})

	t.Run("no matches yields empty result", func(t *testing.T) {
		result, err := service.ListDirectory(ListDirectoryRequest{Directory: dir, Query: "sentencia"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.TotalCount != 0 {
			t.Errorf("expected 0 files but got %d", result.TotalCount)
		}
	})
}
