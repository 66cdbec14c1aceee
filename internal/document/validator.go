package document

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// Validator checks that a file or byte stream is a readable PDF
// before the pipeline spends time extracting it.
type Validator struct {
	maxFileSize int64
}

// NewValidator creates a new validator with the specified size
// constraint.
func NewValidator(maxFileSize int64) *Validator {
	return &Validator{
		maxFileSize: maxFileSize,
	}
}

// ValidateFile performs validation on a PDF file. A failed check is
// reported in the result message, not as a processing error.
func (v *Validator) ValidateFile(req DocumentValidateRequest) (*DocumentValidateResult, error) {
	result := &DocumentValidateResult{
		Path:  req.Path,
		Valid: false,
	}

	if err := v.validatePDFFile(req.Path); err != nil {
		result.Message = err.Error()
		return result, nil //nolint:nilerr // validation outcome, not a processing error
	}

	result.Valid = true
	return result, nil
}

// validatePDFFile performs the file-level and structural checks.
func (v *Validator) validatePDFFile(path string) error {
	if path == "" {
		return fmt.Errorf("path cannot be empty")
	}

	fileInfo, err := os.Stat(path)
	if os.IsNotExist(err) {
		return fmt.Errorf("file does not exist: %s", path)
	}
	if err != nil {
		return fmt.Errorf("cannot access file: %w", err)
	}
	if fileInfo.IsDir() {
		return fmt.Errorf("path is a directory, not a file: %s", path)
	}
	if !IsPDFPath(path) {
		return fmt.Errorf("file is not a PDF: %s", path)
	}
	if fileInfo.Size() == 0 {
		return fmt.Errorf("file is empty: %s", path)
	}
	if fileInfo.Size() > v.maxFileSize {
		return fmt.Errorf("file too large: %d bytes (max: %d bytes)",
			fileInfo.Size(), v.maxFileSize)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("cannot read file: %w", err)
	}

	return v.ValidateBytes(data)
}

// ValidateBytes checks that the byte stream parses as a PDF document,
// using pdfcpu in relaxed mode so lightly damaged but readable files
// still pass.
func (v *Validator) ValidateBytes(data []byte) error {
	if len(data) == 0 {
		return fmt.Errorf("document is empty")
	}

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	ctx, err := api.ReadContext(bytes.NewReader(data), conf)
	if err != nil {
		return fmt.Errorf("invalid PDF: %w", err)
	}

	if err := ctx.EnsurePageCount(); err != nil {
		return fmt.Errorf("invalid PDF: %w", err)
	}

	return nil
}

// IsPDFPath reports whether a path has the .pdf extension.
func IsPDFPath(path string) bool {
	return strings.HasSuffix(strings.ToLower(path), ".pdf")
}
