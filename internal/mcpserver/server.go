package mcpserver

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/orderdesk/pdf-order-extractor/internal/config"
	"github.com/orderdesk/pdf-order-extractor/internal/export"
	"github.com/orderdesk/pdf-order-extractor/internal/extract"
	"github.com/orderdesk/pdf-order-extractor/internal/order"
)

// Server exposes the order extraction pipeline as MCP tools.
type Server struct {
	config       *config.Config
	orderService *order.Service
	mcpServer    *server.MCPServer
	log          *zap.Logger
}

// NewServer creates a new MCP server instance.
func NewServer(cfg *config.Config, orderService *order.Service, log *zap.Logger) (*Server, error) {
	if orderService == nil {
		return nil, fmt.Errorf("orderService cannot be nil")
	}
	if log == nil {
		log = zap.NewNop()
	}

	mcpServer := server.NewMCPServer(
		cfg.ServerName,
		cfg.Version,
		server.WithToolCapabilities(false),
	)

	s := &Server{
		config:       cfg,
		orderService: orderService,
		mcpServer:    mcpServer,
		log:          log,
	}

	s.registerTools()

	return s, nil
}

// registerTools registers all available MCP tools.
func (s *Server) registerTools() {
	processTool := mcp.NewTool(
		"order_process",
		mcp.WithDescription("Extract a structured order record (summary plus line items) from an order/invoice PDF"),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Full path to the PDF file"),
		),
		mcp.WithString("pages",
			mcp.Description("Page selector: 'all' (default), a range like '2-5', or a list like '1,3,7'"),
		),
		mcp.WithString("mode",
			mcp.Description("Table detection mode: 'stream' (default) or 'lattice'"),
		),
	)
	s.mcpServer.AddTool(processTool, s.handleOrderProcess)

	exportTool := mcp.NewTool(
		"order_export",
		mcp.WithDescription("Extract an order record from a PDF and write it as CSV files or an XLSX workbook"),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Full path to the PDF file"),
		),
		mcp.WithString("format",
			mcp.Description("Output format: 'csv' (default) or 'xlsx'"),
		),
		mcp.WithString("outdir",
			mcp.Description("Output directory (uses the configured directory if empty)"),
		),
		mcp.WithString("pages",
			mcp.Description("Page selector: 'all' (default), a range like '2-5', or a list like '1,3,7'"),
		),
		mcp.WithString("mode",
			mcp.Description("Table detection mode: 'stream' (default) or 'lattice'"),
		),
	)
	s.mcpServer.AddTool(exportTool, s.handleOrderExport)

	infoTool := mcp.NewTool(
		"order_server_info",
		mcp.WithDescription("Get server information, available tools, and example output"),
	)
	s.mcpServer.AddTool(infoTool, s.handleServerInfo)
}

// buildRequest assembles a ProcessRequest from tool arguments, applying
// configured defaults.
func (s *Server) buildRequest(path string, args map[string]any) (order.ProcessRequest, error) {
	pagesArg := s.config.PageSelector
	if p, ok := args["pages"].(string); ok && p != "" {
		pagesArg = p
	}
	pages, err := extract.ParsePageSelector(pagesArg)
	if err != nil {
		return order.ProcessRequest{}, err
	}

	mode := extract.Mode(s.config.ExtractMode)
	if m, ok := args["mode"].(string); ok && m != "" {
		mode = extract.Mode(m)
	}
	if !mode.Valid() {
		return order.ProcessRequest{}, fmt.Errorf("invalid mode %q (must be 'stream' or 'lattice')", mode)
	}

	return order.ProcessRequest{Path: path, Pages: pages, Mode: mode}, nil
}

// Handler functions

func (s *Server) handleOrderProcess(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	req, err := s.buildRequest(path, request.GetArguments())
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	run, err := s.orderService.Process(ctx, req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(s.formatRun(path, run)), nil
}

func (s *Server) handleOrderExport(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	args := request.GetArguments()

	format := s.config.Format
	if f, ok := args["format"].(string); ok && f != "" {
		format = f
	}
	if format != "csv" && format != "xlsx" {
		return mcp.NewToolResultError(fmt.Sprintf("invalid format %q (must be 'csv' or 'xlsx')", format)), nil
	}

	outDir := s.config.OutputDir
	if d, ok := args["outdir"].(string); ok && d != "" {
		outDir = d
	}

	req, err := s.buildRequest(path, args)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	run, err := s.orderService.Process(ctx, req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	written, err := export.WriteRun(run, path, outDir, format)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	text := fmt.Sprintf("Exported order record from %s\n", path)
	for _, f := range written {
		text += fmt.Sprintf("  %s\n", f)
	}
	text += "\n" + s.formatSummary(run)
	return mcp.NewToolResultText(text), nil
}

func (s *Server) handleServerInfo(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text := fmt.Sprintf("%s v%s - Order Extraction Server\n", s.config.ServerName, s.config.Version)
	text += fmt.Sprintf("Default directory: %s\n", s.config.PDFDirectory)
	text += fmt.Sprintf("Max file size: %d MB\n", s.config.MaxFileSize/(1024*1024))
	text += fmt.Sprintf("Detection mode: %s (fallback %t)\n", s.config.ExtractMode, s.config.ModeFallback)
	text += fmt.Sprintf("Ambiguous date policy: %s\n\n", strings.ToUpper(s.config.DateOrder))

	text += "Available Tools:\n"
	text += "\n• order_process\n"
	text += "  Extracts the order summary and normalized line items from a PDF.\n"
	text += "  Parameters: path (required), pages, mode\n"
	text += "\n• order_export\n"
	text += "  Extracts and writes CSV files or an XLSX workbook.\n"
	text += "  Parameters: path (required), format, outdir, pages, mode\n"
	text += "\n• order_server_info\n"
	text += "  This output.\n"

	text += "\nExample output for a processed order:\n\n"
	text += s.formatRun("sample.pdf", order.SampleRun())

	return mcp.NewToolResultText(text), nil
}

// Formatting methods

func (s *Server) formatRun(path string, run *order.ExtractionRun) string {
	text := fmt.Sprintf("Processed order PDF: %s\n", path)
	text += fmt.Sprintf("Detection mode: %s", run.Mode)
	if run.FallbackUsed {
		text += " (fallback)"
	}
	text += "\n\n"

	text += s.formatSummary(run)

	text += "\nLine Items:\n"
	_, items := export.FlatTables(run)
	text += fmt.Sprintf("%s\n", strings.Join(items.Columns, " | "))
	for _, row := range items.Rows {
		text += fmt.Sprintf("%s\n", strings.Join(row, " | "))
	}

	if len(run.Warnings) > 0 {
		text += "\nWarnings:\n"
		for _, w := range run.Warnings {
			text += fmt.Sprintf("  - %s\n", w)
		}
	}
	return text
}

func (s *Server) formatSummary(run *order.ExtractionRun) string {
	customer := "(not found)"
	if run.Summary.CustomerName != nil {
		customer = *run.Summary.CustomerName
	}
	date := "(not found)"
	if run.Summary.OrderDate != nil {
		date = run.Summary.OrderDate.Format("2006-01-02")
	}

	text := "Order Summary:\n"
	text += fmt.Sprintf("  Customer: %s\n", customer)
	text += fmt.Sprintf("  Order date: %s\n", date)
	text += fmt.Sprintf("  Total products: %d\n", run.Summary.TotalProducts)
	text += fmt.Sprintf("  Total quantity: %g\n", run.Summary.TotalQuantity)
	return text
}

// Run starts the MCP server in the configured mode.
func (s *Server) Run(ctx context.Context) error {
	if s.config.IsServerMode() {
		return s.runServerMode(ctx)
	}
	return s.runStdioMode(ctx)
}

// runStdioMode runs the server in stdio mode.
func (s *Server) runStdioMode(_ context.Context) error {
	s.log.Debug("starting order extraction server in stdio mode",
		zap.String("dir", s.config.PDFDirectory))

	if err := server.ServeStdio(s.mcpServer); err != nil {
		return fmt.Errorf("failed to serve stdio: %w", err)
	}
	return nil
}

// runServerMode runs the server in HTTP server mode.
func (s *Server) runServerMode(ctx context.Context) error {
	// The mark3labs transport handles HTTP differently; stdio remains
	// the supported transport for now.
	s.log.Warn("server mode not yet implemented, falling back to stdio")
	return s.runStdioMode(ctx)
}
