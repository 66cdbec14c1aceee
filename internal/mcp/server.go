package mcp

import (
	"context"
	"fmt"
	"log"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/stallum/mcp-legal-search/internal/config"
	"github.com/stallum/mcp-legal-search/internal/document"
	"github.com/stallum/mcp-legal-search/internal/export"
)

// maxDisplayedHits bounds the per-hit context lines rendered in a tool
// result; the XLSX export always carries the full set.
const maxDisplayedHits = 50

// Server represents the MCP server instance
type Server struct {
	config          *config.Config
	documentService *document.Service
	exportService   *export.Service
	mcpServer       *server.MCPServer
}

// NewServer creates a new MCP server instance
func NewServer(cfg *config.Config, documentService *document.Service, exportService *export.Service) (*Server, error) {
	if documentService == nil {
		return nil, fmt.Errorf("documentService cannot be nil")
	}
	if exportService == nil {
		return nil, fmt.Errorf("exportService cannot be nil")
	}

	mcpServer := server.NewMCPServer(
		cfg.ServerName,
		cfg.Version,
		server.WithToolCapabilities(false), // We don't support dynamic tool capabilities
	)

	s := &Server{
		config:          cfg,
		documentService: documentService,
		exportService:   exportService,
		mcpServer:       mcpServer,
	}

	s.registerTools()

	return s, nil
}

// registerTools registers all available MCP tools
func (s *Server) registerTools() {
	searchTool := mcp.NewTool(
		"legal_search_document",
		mcp.WithDescription("Search a legal PDF for a literal term and return every match with surrounding context"),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Path to the PDF file (relative paths resolve inside the documents directory)"),
		),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Word or phrase to search for (matched literally, case-insensitive)"),
		),
		mcp.WithBoolean("export",
			mcp.Description("Also write the results to an XLSX file in the export directory"),
		),
	)
	s.mcpServer.AddTool(searchTool, s.handleSearchDocument)

	analyzeTool := mcp.NewTool(
		"legal_analyze_document",
		mcp.WithDescription("Automatically extract key legal fields (court, docket, registry office, plaintiff, defendant) from a PDF"),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Path to the PDF file (relative paths resolve inside the documents directory)"),
		),
		mcp.WithBoolean("export",
			mcp.Description("Also write the analysis to an XLSX file in the export directory"),
		),
	)
	s.mcpServer.AddTool(analyzeTool, s.handleAnalyzeDocument)

	extractTool := mcp.NewTool(
		"legal_extract_text",
		mcp.WithDescription("Extract the plain text of a legal PDF, page by page"),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Path to the PDF file (relative paths resolve inside the documents directory)"),
		),
	)
	s.mcpServer.AddTool(extractTool, s.handleExtractText)

	validateTool := mcp.NewTool(
		"legal_validate_document",
		mcp.WithDescription("Validate that a file is a readable PDF"),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Path to the PDF file"),
		),
	)
	s.mcpServer.AddTool(validateTool, s.handleValidateDocument)

	listTool := mcp.NewTool(
		"legal_list_directory",
		mcp.WithDescription("List the PDF documents available in the documents directory"),
		mcp.WithString("directory",
			mcp.Description("Directory to list (uses the configured documents directory if empty)"),
		),
		mcp.WithString("query",
			mcp.Description("Optional filename filter (case-insensitive substring)"),
		),
	)
	s.mcpServer.AddTool(listTool, s.handleListDirectory)

	infoTool := mcp.NewTool(
		"legal_server_info",
		mcp.WithDescription("Get server information, available tools and usage guidance"),
	)
	s.mcpServer.AddTool(infoTool, s.handleServerInfo)
}

// Handler functions

func (s *Server) handleSearchDocument(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	query, err := request.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if query == "" {
		return mcp.NewToolResultError("query cannot be empty"), nil
	}

	result, err := s.documentService.DocumentSearch(document.DocumentSearchRequest{
		Path:  path,
		Query: query,
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	responseText := s.formatSearchResult(result)

	if s.exportRequested(request) && result.TotalCount > 0 {
		exportPath, err := s.exportService.ExportSearchHits(result.Query, result.Hits)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("search succeeded but export failed: %v", err)), nil
		}
		responseText += fmt.Sprintf("\nExported to: %s\n", exportPath)
	}

	return mcp.NewToolResultText(responseText), nil
}

func (s *Server) handleAnalyzeDocument(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := s.documentService.DocumentAnalyze(document.DocumentAnalyzeRequest{Path: path})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	responseText := s.formatAnalyzeResult(result)

	if s.exportRequested(request) && result.TotalCount > 0 {
		exportPath, err := s.exportService.ExportLegalFields(result.Fields)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("analysis succeeded but export failed: %v", err)), nil
		}
		responseText += fmt.Sprintf("\nExported to: %s\n", exportPath)
	}

	return mcp.NewToolResultText(responseText), nil
}

func (s *Server) handleExtractText(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := s.documentService.DocumentExtract(document.DocumentExtractRequest{Path: path})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	responseText := fmt.Sprintf("Extracted %d page(s) from %s\n", result.PageCount, result.Path)
	for _, page := range result.Pages {
		responseText += fmt.Sprintf("\n--- Página %d ---\n%s\n", page.Number, page.Text)
	}

	return mcp.NewToolResultText(responseText), nil
}

func (s *Server) handleValidateDocument(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := s.documentService.DocumentValidate(document.DocumentValidateRequest{Path: path})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var responseText string
	if result.Valid {
		responseText = fmt.Sprintf("PDF file %s is valid and readable", result.Path)
	} else {
		responseText = fmt.Sprintf("PDF validation failed for %s: %s", result.Path, result.Message)
	}

	return mcp.NewToolResultText(responseText), nil
}

func (s *Server) handleListDirectory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	directory := s.config.DocumentsDirectory // default
	if dir, ok := args["directory"].(string); ok && dir != "" {
		directory = dir
	}

	query := ""
	if q, ok := args["query"].(string); ok {
		query = q
	}

	result, err := s.documentService.ListDirectory(document.ListDirectoryRequest{
		Directory: directory,
		Query:     query,
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var responseText string
	if result.TotalCount == 0 {
		responseText = fmt.Sprintf("No PDF files found in directory: %s", result.Directory)
		if result.Query != "" {
			responseText += fmt.Sprintf(" (filtered by: %s)", result.Query)
		}
	} else {
		responseText = s.formatListDirectoryResult(result)
	}

	return mcp.NewToolResultText(responseText), nil
}

func (s *Server) handleServerInfo(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text := fmt.Sprintf("%s v%s - Server Information\n", s.config.ServerName, s.config.Version)
	text += fmt.Sprintf("Documents directory: %s\n", s.config.DocumentsDirectory)
	text += fmt.Sprintf("Export directory: %s\n", s.config.ExportDirectory)
	text += fmt.Sprintf("Max file size: %d MB\n", s.config.MaxFileSize/(1024*1024))

	text += `
Available tools:

• legal_list_directory
  List the PDF documents available for processing.

• legal_validate_document
  Check that a file is a readable PDF before processing it.

• legal_search_document
  Find every occurrence of a word or phrase in a document. Each hit
  reports its page number, the matched text as it appears in the
  source, and up to 100 characters of context on each side. Pass
  export=true to also write a Resultados_<query>.xlsx file.

• legal_analyze_document
  Run the automatic legal field extraction: Juzgado, Expediente,
  Secretaría, Demandante and Demandado patterns over the full
  document text, deduplicated. Pass export=true to also write
  ` + export.LegalFieldsFilename + `.

• legal_extract_text
  Dump the plain text of the document page by page.

Notes:
- Relative paths resolve inside the documents directory; paths outside
  it are rejected.
- Zero matches or zero extracted fields is an informational outcome,
  not an error. A file that fails to parse as a PDF fails the whole
  operation with no partial results.`

	return mcp.NewToolResultText(text), nil
}

// exportRequested reads the optional boolean export argument.
func (s *Server) exportRequested(request mcp.CallToolRequest) bool {
	args := request.GetArguments()
	flag, ok := args["export"].(bool)
	return ok && flag
}

// Formatting methods

func (s *Server) formatSearchResult(result *document.DocumentSearchResult) string {
	if result.TotalCount == 0 {
		return fmt.Sprintf("No matches found for %q in %s (%d pages searched)",
			result.Query, result.Path, result.PageCount)
	}

	text := fmt.Sprintf("Found %d match(es) for %q in %s (%d pages)\n",
		result.TotalCount, result.Query, result.Path, result.PageCount)

	for i, hit := range result.Hits {
		if i >= maxDisplayedHits {
			text += fmt.Sprintf("\n... and %d more match(es)\n", result.TotalCount-maxDisplayedHits)
			break
		}
		text += fmt.Sprintf("\n%d. Página %d: %q\n   Contexto: %s\n", i+1, hit.Page, hit.MatchedText, hit.Context)
	}

	return text
}

func (s *Server) formatAnalyzeResult(result *document.DocumentAnalyzeResult) string {
	if result.TotalCount == 0 {
		return fmt.Sprintf("No legal fields detected in %s (%d pages analyzed)",
			result.Path, result.PageCount)
	}

	text := fmt.Sprintf("Identified %d legal field(s) in %s (%d pages)\n",
		result.TotalCount, result.Path, result.PageCount)
	text += fmt.Sprintf("Analysis ID: %s\n\nCategoría | Valor\n", result.AnalysisID)

	for _, field := range result.Fields {
		text += fmt.Sprintf("%s | %s\n", field.Category, field.Value)
	}

	return text
}

func (s *Server) formatListDirectoryResult(result *document.ListDirectoryResult) string {
	text := fmt.Sprintf("Found %d PDF file(s) in directory: %s\n", result.TotalCount, result.Directory)
	if result.Query != "" {
		text += fmt.Sprintf("Filename filter: %s\n", result.Query)
	}
	text += "\nFiles:\n"

	for i, file := range result.Files {
		text += fmt.Sprintf("%d. %s\n", i+1, file.Name)
		text += fmt.Sprintf("   Path: %s\n", file.Path)
		text += fmt.Sprintf("   Size: %d bytes\n", file.Size)
		text += fmt.Sprintf("   Modified: %s\n", file.ModifiedTime)
		if i < len(result.Files)-1 {
			text += "\n"
		}
	}

	return text
}

// Run starts the MCP server in the configured mode
func (s *Server) Run(ctx context.Context) error {
	if s.config.IsServerMode() {
		return s.runServerMode(ctx)
	}
	return s.runStdioMode(ctx)
}

// runStdioMode runs the server in stdio mode
func (s *Server) runStdioMode(_ context.Context) error {
	if s.config.IsDebug() {
		log.Printf("Starting legal search MCP server in stdio mode")
		log.Printf("Documents directory: %s", s.config.DocumentsDirectory)
	}

	if err := server.ServeStdio(s.mcpServer); err != nil {
		return fmt.Errorf("failed to serve stdio: %w", err)
	}
	return nil
}

// runServerMode runs the server in HTTP server mode
func (s *Server) runServerMode(ctx context.Context) error {
	// The mark3labs transport is stdio-first; server mode falls back
	// until streamable HTTP is wired up.
	log.Printf("Server mode not yet implemented with mark3labs/mcp-go")
	log.Printf("Falling back to stdio mode")
	return s.runStdioMode(ctx)
}
