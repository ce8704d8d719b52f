package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"pagecore/internal/core/domain"
	"pagecore/internal/core/engine/html"
	"pagecore/internal/core/engine/pagination"
	"pagecore/internal/core/engine/render"
	"pagecore/internal/core/engine/tree"
	"pagecore/internal/infrastructure/logger"
	"pagecore/internal/pkg/config"
)

// PrintService orchestrates the document printing process: parse, measure,
// paginate, render.
type PrintService struct {
	htmlParser     *html.Parser
	pdfRenderer    *render.PDFRenderer
	cacheService   *CacheService
	storageService *StorageService
	logger         logger.Logger
	config         config.PrintConfig
	pageConfig     pagination.PaginationConfig

	group singleflight.Group

	reflowMu       sync.Mutex
	reflowSessions map[string]*reflowSession
}

// NewPrintService creates a new print service.
func NewPrintService(cfg config.PrintConfig, pageCfg config.PaginationConfig, logger logger.Logger) (*PrintService, error) {
	sanitizer := html.NewSanitizer()
	validator := html.NewValidator(false)
	htmlParser := html.NewParser(sanitizer, validator)

	renderOpts := render.PDFRenderOptions{
		Compression:    true,
		EmbedFonts:     true,
		OptimizeImages: true,
		ColorProfile:   render.ColorProfileRGB,
		PDFVersion:     "1.7",
	}
	pdfRenderer := render.NewPDFRenderer(renderOpts)

	cacheService := NewCacheService()
	storageService := NewStorageService(cfg.OutputDirectory)

	return &PrintService{
		htmlParser:     htmlParser,
		pdfRenderer:    pdfRenderer,
		cacheService:   cacheService,
		storageService: storageService,
		logger:         logger.With("service", "print"),
		config:         cfg,
		pageConfig:     PaginationConfigFromSettings(pageCfg),
		reflowSessions: make(map[string]*reflowSession),
	}, nil
}

// PaginationConfigFromSettings translates the YAML-facing config.PaginationConfig
// into the engine's pagination.PaginationConfig.
func PaginationConfigFromSettings(s config.PaginationConfig) pagination.PaginationConfig {
	cfg := pagination.DefaultPaginationConfig()
	if s.PageSize != "" {
		cfg.PageSize = pagination.PageSizeTag(s.PageSize)
	}
	if s.Orientation != "" {
		cfg.Orientation = pagination.Orientation(s.Orientation)
	}
	if s.MarginTop > 0 || s.MarginRight > 0 || s.MarginBottom > 0 || s.MarginLeft > 0 {
		cfg.Margins = pagination.Margins{
			Top:    s.MarginTop,
			Right:  s.MarginRight,
			Bottom: s.MarginBottom,
			Left:   s.MarginLeft,
		}
	}
	if s.ReflowDebounceMs > 0 {
		cfg.ReflowDebounceMs = s.ReflowDebounceMs
	}
	if s.WidowLines > 0 {
		cfg.WidowLines = s.WidowLines
	}
	if s.OrphanLines > 0 {
		cfg.OrphanLines = s.OrphanLines
	}
	if s.DefaultLineHeight > 0 {
		cfg.DefaultLineHeight = s.DefaultLineHeight
	}
	return cfg
}

// ProcessDocument processes a document and generates output. Concurrent
// calls sharing the same cache key are de-duplicated via singleflight so a
// burst of identical requests only pays for one pagination/render pass.
func (ps *PrintService) ProcessDocument(ctx context.Context, doc *domain.Document) (*domain.RenderResult, error) {
	cacheKey := ps.generateCacheKey(doc)

	v, err, shared := ps.group.Do(cacheKey, func() (interface{}, error) {
		return ps.processDocument(ctx, doc)
	})
	if err != nil {
		return nil, err
	}
	result := v.(*domain.RenderResult)
	if shared {
		// A concurrent caller produced this result; this caller still
		// gets its own copy so mutating CacheHit doesn't race.
		copyResult := *result
		copyResult.CacheHit = true
		return &copyResult, nil
	}
	return result, nil
}

func (ps *PrintService) processDocument(ctx context.Context, doc *domain.Document) (*domain.RenderResult, error) {
	ps.logger.Info("Processing document", "document_id", doc.ID, "content_type", doc.ContentType)

	startTime := time.Now()

	if err := ps.validateDocument(doc); err != nil {
		return nil, fmt.Errorf("document validation failed: %w", err)
	}

	cacheKey := ps.generateCacheKey(doc)
	if cached, err := ps.cacheService.Get(cacheKey); err == nil && cached != nil {
		ps.logger.Info("Document found in cache", "document_id", doc.ID)
		if result, ok := cached.(*domain.RenderResult); ok {
			result.CacheHit = true
			return result, nil
		}
	}

	domTree, err := ps.parseHTML(doc.Content, doc.Options.Security)
	if err != nil {
		return nil, fmt.Errorf("HTML parsing failed: %w", err)
	}

	adapted := tree.NewAdapter(domTree)

	dims, err := ps.pageConfig.Dimensions()
	if err != nil {
		return nil, fmt.Errorf("invalid pagination configuration: %w", err)
	}

	measurer := pagination.NewMeasurer(dims, ps.pageConfig, ps.config.MaxConcurrent*250+250)
	computer := pagination.NewPageComputer(ps.pageConfig, dims)
	computer.SetMeasurer(measurer)

	model, err := computer.Compute(adapted)
	if err != nil {
		return nil, fmt.Errorf("pagination failed: %w", err)
	}

	outputPath, err := ps.generateOutput(ctx, adapted, model, doc.Options)
	if err != nil {
		return nil, fmt.Errorf("output generation failed: %w", err)
	}

	result := &domain.RenderResult{
		OutputPath: outputPath,
		OutputSize: ps.getFileSize(outputPath),
		PageCount:  model.PageCount(),
		RenderTime: time.Since(startTime),
		CacheHit:   false,
		Warnings:   make([]string, 0),
	}

	if doc.Options.Performance.EnableCache {
		_ = ps.cacheService.Set(cacheKey, result, doc.Options.Performance.CacheTTL)
	}

	ps.logger.Info("Document processed successfully",
		"document_id", doc.ID,
		"output_path", outputPath,
		"render_time", result.RenderTime,
		"page_count", result.PageCount)

	return result, nil
}

// ProcessJob processes a print job. A job carrying Transactions is an
// incremental reflow job and is routed through ProcessReflowJob against the
// document's tracked ReflowEngine; any other job runs the full pipeline via
// ProcessDocument.
func (ps *PrintService) ProcessJob(ctx context.Context, job interface{}) error {
	printJob, ok := job.(*domain.PrintJob)
	if !ok {
		return fmt.Errorf("invalid job type: expected *domain.PrintJob")
	}

	ps.logger.Info("Processing print job", "job_id", printJob.ID)

	printJob.Status = domain.JobStatusProcessing
	now := time.Now()
	printJob.StartedAt = &now

	var result *domain.RenderResult
	var err error
	if len(printJob.Transactions) > 0 {
		result, err = ps.ProcessReflowJob(ctx, printJob)
	} else {
		result, err = ps.ProcessDocument(ctx, &printJob.Document)
	}
	if err != nil {
		printJob.Status = domain.JobStatusFailed
		printJob.Error = err.Error()
		return err
	}

	printJob.Status = domain.JobStatusCompleted
	printJob.OutputPath = result.OutputPath
	completed := time.Now()
	printJob.CompletedAt = &completed

	return nil
}

// ProcessReflowJob applies job's change notifications to the document's
// tracked ReflowEngine, deriving each Change's kind from its transaction
// tuple via pagination.DeriveChange, and renders the resulting model. The
// first job for a document establishes its session; later jobs reuse it, so
// the reflow runs an incremental pass instead of a full pipeline run.
func (ps *PrintService) ProcessReflowJob(ctx context.Context, job *domain.PrintJob) (*domain.RenderResult, error) {
	startTime := time.Now()
	doc := &job.Document

	domTree, err := ps.parseHTML(doc.Content, doc.Options.Security)
	if err != nil {
		return nil, fmt.Errorf("HTML parsing failed: %w", err)
	}

	session := ps.reflowSessionFor(doc.ID)
	session.setRoot(domTree)

	changes := make([]pagination.Change, len(job.Transactions))
	for i, txn := range job.Transactions {
		changes[i] = pagination.DeriveChange(txn.FromOld, txn.ToOld, txn.FromNew, txn.ToNew)
	}
	session.engine.HandleChangeSet(changes)
	session.engine.RequestImmediateReflow()

	model := session.engine.GetModel()
	if model == nil {
		return nil, fmt.Errorf("reflow produced no model")
	}

	outputPath, err := ps.generateOutput(ctx, session.Tree(), model, doc.Options)
	if err != nil {
		return nil, fmt.Errorf("output generation failed: %w", err)
	}

	result := &domain.RenderResult{
		OutputPath: outputPath,
		OutputSize: ps.getFileSize(outputPath),
		PageCount:  model.PageCount(),
		RenderTime: time.Since(startTime),
	}

	ps.logger.Info("Reflow job processed",
		"document_id", doc.ID,
		"output_path", outputPath,
		"page_count", result.PageCount)

	return result, nil
}

// reflowSessionFor returns the ReflowEngine tracked for documentID,
// creating one on first use.
func (ps *PrintService) reflowSessionFor(documentID string) *reflowSession {
	ps.reflowMu.Lock()
	defer ps.reflowMu.Unlock()
	if existing, ok := ps.reflowSessions[documentID]; ok {
		return existing
	}

	session := &reflowSession{}
	engine, err := pagination.NewReflowEngine(ps.pageConfig, session, pagination.NewRealScheduler(), func(format string, args ...any) {
		ps.logger.Warn(fmt.Sprintf(format, args...))
	})
	if err != nil {
		ps.logger.Error("failed to build reflow engine", "error", err, "document_id", documentID)
		engine, _ = pagination.NewReflowEngine(pagination.DefaultPaginationConfig(), session, pagination.NewRealScheduler(), nil)
	}
	session.engine = engine
	ps.reflowSessions[documentID] = session
	return session
}

// validateDocument validates a document before processing
func (ps *PrintService) validateDocument(doc *domain.Document) error {
	if doc == nil {
		return domain.ErrInvalidDocument
	}

	if doc.Content == "" {
		return domain.NewPrintError(domain.ErrCodeInvalidInput, "document content is empty", domain.ErrInvalidDocument)
	}

	if len(doc.Content) > int(ps.config.MaxFileSize) {
		return domain.NewPrintError(domain.ErrCodeResourceLimit, "document too large", domain.ErrDocumentTooLarge).
			WithDetail("size", len(doc.Content)).
			WithDetail("max_size", ps.config.MaxFileSize)
	}

	return nil
}

// parseHTML parses HTML content
func (ps *PrintService) parseHTML(content string, securityOptions domain.SecurityOptions) (*html.DOMNode, error) {
	return ps.htmlParser.Parse(content, securityOptions)
}

// generateOutput generates the final output file from a computed
// PaginationModel.
func (ps *PrintService) generateOutput(ctx context.Context, tree pagination.Node, model *pagination.PaginationModel, options domain.PrintOptions) (string, error) {
	filename := fmt.Sprintf("output_%d.%s", time.Now().UnixNano(), options.Output.Format)
	outputPath := ps.storageService.GetPath(filename)

	pdfContent, err := ps.pdfRenderer.RenderPaginated(tree, model, options)
	if err != nil {
		return "", fmt.Errorf("failed to render paginated PDF: %w", err)
	}

	if err := ps.storageService.WriteFile(outputPath, pdfContent); err != nil {
		return "", fmt.Errorf("failed to write PDF file: %w", err)
	}

	ps.logger.Info("Generated PDF", "output_path", outputPath, "size_bytes", len(pdfContent), "page_count", model.PageCount())
	return outputPath, nil
}

// generateCacheKey generates a cache key for a document
func (ps *PrintService) generateCacheKey(doc *domain.Document) string {
	return fmt.Sprintf("doc_%s_%d", doc.ID, len(doc.Content))
}

// getFileSize gets the size of a file
func (ps *PrintService) getFileSize(path string) int64 {
	size, err := ps.storageService.FileSize(path)
	if err != nil {
		return 0
	}
	return size
}
