package document

// Page holds the plain text of a single PDF page. Page numbers are
// 1-based and contiguous within an extracted document.
type Page struct {
	Number int    `json:"number"`
	Text   string `json:"text"`
}

// SearchHit is one located occurrence of a literal query, with a
// newline-normalized context window around the match.
type SearchHit struct {
	Page        int    `json:"page"`
	MatchedText string `json:"matched_text"`
	Context     string `json:"context"`
}

// FieldCategory labels an extracted legal datum.
type FieldCategory string

const (
	CategoryJuzgado    FieldCategory = "Juzgado"
	CategoryExpediente FieldCategory = "Expediente"
	CategorySecretaria FieldCategory = "Secretaría"
	CategoryDemandante FieldCategory = "Demandante"
	CategoryDemandado  FieldCategory = "Demandado"
)

// AllFieldCategories returns the category set in pattern-table order.
func AllFieldCategories() []FieldCategory {
	return []FieldCategory{
		CategoryJuzgado,
		CategoryExpediente,
		CategorySecretaria,
		CategoryDemandante,
		CategoryDemandado,
	}
}

// LegalField is one extracted (category, value) pair. Values are
// trimmed and never whitespace-only.
type LegalField struct {
	Category FieldCategory `json:"category"`
	Value    string        `json:"value"`
}

// FileInfo describes a PDF file found in the documents directory.
type FileInfo struct {
	Path         string `json:"path"`
	Name         string `json:"name"`
	Size         int64  `json:"size"`
	ModifiedTime string `json:"modified_time"`
}

// Request Types

// DocumentExtractRequest asks for the per-page plain text of a PDF.
type DocumentExtractRequest struct {
	Path string `json:"path"`
}

// DocumentSearchRequest asks for all occurrences of a literal query
// within a PDF.
type DocumentSearchRequest struct {
	Path  string `json:"path"`
	Query string `json:"query"`
}

// DocumentAnalyzeRequest asks for automatic legal field extraction
// over the full document text.
type DocumentAnalyzeRequest struct {
	Path string `json:"path"`
}

// DocumentValidateRequest asks whether a file is a readable PDF.
type DocumentValidateRequest struct {
	Path string `json:"path"`
}

// ListDirectoryRequest asks for the PDF files under a directory,
// optionally filtered by a filename substring.
type ListDirectoryRequest struct {
	Directory string `json:"directory"`
	Query     string `json:"query"`
}

// Response Types

// DocumentExtractResult carries the extracted pages of a document.
type DocumentExtractResult struct {
	Path      string `json:"path"`
	Pages     []Page `json:"pages"`
	PageCount int    `json:"page_count"`
}

// DocumentSearchResult carries the hits for one search invocation.
// Zero hits is a valid outcome, not an error.
type DocumentSearchResult struct {
	Path       string      `json:"path"`
	Query      string      `json:"query"`
	Hits       []SearchHit `json:"hits"`
	TotalCount int         `json:"total_count"`
	PageCount  int         `json:"page_count"`
}

// DocumentAnalyzeResult carries the deduplicated legal fields found
// in one document.
type DocumentAnalyzeResult struct {
	Path       string       `json:"path"`
	Fields     []LegalField `json:"fields"`
	TotalCount int          `json:"total_count"`
	PageCount  int          `json:"page_count"`
	AnalysisID string       `json:"analysis_id"`
}

// DocumentValidateResult reports the outcome of a validation check.
type DocumentValidateResult struct {
	Valid   bool   `json:"valid"`
	Path    string `json:"path"`
	Message string `json:"message,omitempty"`
}

// ListDirectoryResult carries the PDF files found under a directory.
type ListDirectoryResult struct {
	Files      []FileInfo `json:"files"`
	TotalCount int        `json:"total_count"`
	Directory  string     `json:"directory"`
	Query      string     `json:"query,omitempty"`
}
