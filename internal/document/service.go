package document

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/stallum/mcp-legal-search/internal/document/security"
)

// Service orchestrates the document pipeline: extraction, literal
// search, legal field analysis and validation, confined to the
// configured documents directory. Every operation is a pure pass over
// its input; the service holds no per-document state.
type Service struct {
	maxFileSize   int64
	extractor     *Extractor
	searcher      *Searcher
	analyzer      *Analyzer
	validator     *Validator
	pathValidator *security.PathValidator
}

// NewService creates a document service rooted at the given directory.
func NewService(maxFileSize int64, documentsDirectory string) (*Service, error) {
	pathValidator, err := security.NewPathValidator(documentsDirectory)
	if err != nil {
		return nil, fmt.Errorf("failed to create path validator: %w", err)
	}

	return &Service{
		maxFileSize:   maxFileSize,
		extractor:     NewExtractor(maxFileSize),
		searcher:      NewSearcher(),
		analyzer:      NewAnalyzer(),
		validator:     NewValidator(maxFileSize),
		pathValidator: pathValidator,
	}, nil
}

// GetMaxFileSize returns the maximum accepted file size.
func (s *Service) GetMaxFileSize() int64 {
	return s.maxFileSize
}

// DocumentsDirectory returns the configured documents directory.
func (s *Service) DocumentsDirectory() string {
	return s.pathValidator.GetConfiguredDirectory()
}

// DocumentExtract extracts the per-page plain text of a PDF.
func (s *Service) DocumentExtract(req DocumentExtractRequest) (*DocumentExtractResult, error) {
	path, err := s.pathValidator.NormalizePath(req.Path)
	if err != nil {
		return nil, fmt.Errorf("security validation failed: %w", err)
	}

	pages, err := s.extractor.ExtractFile(path)
	if err != nil {
		return nil, err
	}

	return &DocumentExtractResult{
		Path:      path,
		Pages:     pages,
		PageCount: len(pages),
	}, nil
}

// DocumentSearch finds all case-insensitive literal occurrences of the
// query within the document. Zero hits is reported as an empty result,
// not an error.
func (s *Service) DocumentSearch(req DocumentSearchRequest) (*DocumentSearchResult, error) {
	if req.Query == "" {
		return nil, fmt.Errorf("query cannot be empty")
	}

	path, err := s.pathValidator.NormalizePath(req.Path)
	if err != nil {
		return nil, fmt.Errorf("security validation failed: %w", err)
	}

	pages, err := s.extractor.ExtractFile(path)
	if err != nil {
		return nil, err
	}

	hits := s.searcher.Search(pages, req.Query)

	return &DocumentSearchResult{
		Path:       path,
		Query:      req.Query,
		Hits:       hits,
		TotalCount: len(hits),
		PageCount:  len(pages),
	}, nil
}

// DocumentAnalyze runs the legal field pattern table over the full
// document text and returns the deduplicated fields.
func (s *Service) DocumentAnalyze(req DocumentAnalyzeRequest) (*DocumentAnalyzeResult, error) {
	path, err := s.pathValidator.NormalizePath(req.Path)
	if err != nil {
		return nil, fmt.Errorf("security validation failed: %w", err)
	}

	pages, err := s.extractor.ExtractFile(path)
	if err != nil {
		return nil, err
	}

	fields := s.analyzer.AnalyzeText(FullText(pages))

	return &DocumentAnalyzeResult{
		Path:       path,
		Fields:     fields,
		TotalCount: len(fields),
		PageCount:  len(pages),
		AnalysisID: uuid.NewString(),
	}, nil
}

// DocumentValidate checks whether a file is a readable PDF.
func (s *Service) DocumentValidate(req DocumentValidateRequest) (*DocumentValidateResult, error) {
	path, err := s.pathValidator.NormalizePath(req.Path)
	if err != nil {
		return nil, fmt.Errorf("security validation failed: %w", err)
	}

	return s.validator.ValidateFile(DocumentValidateRequest{Path: path})
}

// ListDirectory lists the PDF files under a directory, optionally
// filtered by a case-insensitive filename substring. An empty
// directory falls back to the configured documents directory.
func (s *Service) ListDirectory(req ListDirectoryRequest) (*ListDirectoryResult, error) {
	directory := req.Directory
	if directory == "" {
		directory = s.pathValidator.GetConfiguredDirectory()
	}

	if err := s.pathValidator.ValidateDirectory(directory); err != nil {
		return nil, fmt.Errorf("security validation failed: %w", err)
	}

	absDirectory, err := filepath.Abs(directory)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve directory path: %w", err)
	}

	query := strings.ToLower(strings.TrimSpace(req.Query))

	var files []FileInfo
	err = filepath.WalkDir(absDirectory, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil //nolint:nilerr // skip unreadable entries, keep walking
		}
		if d.IsDir() {
			if strings.HasPrefix(d.Name(), ".") && path != absDirectory {
				return filepath.SkipDir
			}
			return nil
		}
		if !IsPDFPath(d.Name()) {
			return nil
		}
		if query != "" && !strings.Contains(strings.ToLower(d.Name()), query) {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return nil //nolint:nilerr // entry vanished mid-walk
		}

		files = append(files, FileInfo{
			Path:         path,
			Name:         info.Name(),
			Size:         info.Size(),
			ModifiedTime: info.ModTime().Format("2006-01-02 15:04:05"),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("error walking directory: %w", err)
	}

	return &ListDirectoryResult{
		Files:      files,
		TotalCount: len(files),
		Directory:  absDirectory,
		Query:      req.Query,
	}, nil
}
