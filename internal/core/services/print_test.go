package services

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"pagecore/internal/core/domain"
	"pagecore/internal/core/engine/pagination"
	"pagecore/internal/infrastructure/logger"
	"pagecore/internal/pkg/config"
)

func testLogger() logger.Logger {
	return logger.NewStructuredLogger(&config.LoggerConfig{Level: "error", Format: "json", Output: "stdout"})
}

func newTestPrintService(t *testing.T) *PrintService {
	t.Helper()
	cfg := config.PrintConfig{
		MaxFileSize:   1 << 20,
		OutputDirectory: t.TempDir(),
		MaxConcurrent: 4,
	}
	ps, err := NewPrintService(cfg, config.PaginationConfig{}, testLogger())
	if err != nil {
		t.Fatalf("NewPrintService() error: %v", err)
	}
	return ps
}

func testDocument(content string) *domain.Document {
	return &domain.Document{
		ID:      "doc-1",
		Content: content,
		Options: domain.DefaultPrintOptions(),
	}
}

func TestPaginationConfigFromSettingsAppliesOverrides(t *testing.T) {
	s := config.PaginationConfig{
		PageSize:          "letter",
		Orientation:       "landscape",
		MarginTop:         10,
		MarginRight:       10,
		MarginBottom:      10,
		MarginLeft:        10,
		ReflowDebounceMs:  500,
		WidowLines:        3,
		OrphanLines:       3,
		DefaultLineHeight: 18,
	}
	got := PaginationConfigFromSettings(s)

	if got.PageSize != pagination.PageSizeLetter {
		t.Errorf("PageSize = %v, want letter", got.PageSize)
	}
	if got.Orientation != pagination.OrientationLandscape {
		t.Errorf("Orientation = %v, want landscape", got.Orientation)
	}
	if got.Margins != (pagination.Margins{Top: 10, Right: 10, Bottom: 10, Left: 10}) {
		t.Errorf("Margins = %+v, want all 10", got.Margins)
	}
	if got.ReflowDebounceMs != 500 || got.WidowLines != 3 || got.OrphanLines != 3 || got.DefaultLineHeight != 18 {
		t.Errorf("scalar overrides not applied: %+v", got)
	}
}

func TestPaginationConfigFromSettingsKeepsDefaultsWhenZeroValue(t *testing.T) {
	base := pagination.DefaultPaginationConfig()
	got := PaginationConfigFromSettings(config.PaginationConfig{})

	if got != base {
		t.Errorf("PaginationConfigFromSettings(zero value) = %+v, want defaults %+v", got, base)
	}
}

func TestPaginationConfigFromSettingsPartialMargins(t *testing.T) {
	got := PaginationConfigFromSettings(config.PaginationConfig{MarginTop: 5})
	if got.Margins.Top != 5 {
		t.Errorf("Margins.Top = %v, want 5", got.Margins.Top)
	}
}

func TestValidateDocumentRejectsNil(t *testing.T) {
	ps := newTestPrintService(t)
	if err := ps.validateDocument(nil); err != domain.ErrInvalidDocument {
		t.Errorf("validateDocument(nil) = %v, want ErrInvalidDocument", err)
	}
}

func TestValidateDocumentRejectsEmptyContent(t *testing.T) {
	ps := newTestPrintService(t)
	if err := ps.validateDocument(testDocument("")); err == nil {
		t.Errorf("validateDocument(empty content) error = nil, want error")
	}
}

func TestValidateDocumentRejectsOversizedContent(t *testing.T) {
	ps := newTestPrintService(t)
	ps.config.MaxFileSize = 10
	if err := ps.validateDocument(testDocument(strings.Repeat("a", 100))); err == nil {
		t.Errorf("validateDocument(oversized) error = nil, want error")
	}
}

func TestValidateDocumentAcceptsNormalContent(t *testing.T) {
	ps := newTestPrintService(t)
	if err := ps.validateDocument(testDocument("<p>hello</p>")); err != nil {
		t.Errorf("validateDocument() error = %v, want nil", err)
	}
}

func TestGenerateCacheKeyStableForSameDocument(t *testing.T) {
	ps := newTestPrintService(t)
	doc := testDocument("<p>hello</p>")
	if ps.generateCacheKey(doc) != ps.generateCacheKey(doc) {
		t.Errorf("generateCacheKey() not stable across calls")
	}
}

func TestGenerateCacheKeyDiffersByContentLength(t *testing.T) {
	ps := newTestPrintService(t)
	a := ps.generateCacheKey(testDocument("<p>hi</p>"))
	b := ps.generateCacheKey(testDocument("<p>hello there</p>"))
	if a == b {
		t.Errorf("generateCacheKey() collided for different-length content")
	}
}

func TestProcessDocumentProducesPDFOutput(t *testing.T) {
	ps := newTestPrintService(t)
	doc := testDocument("<html><body><p>Hello world</p><h1>Title</h1></body></html>")

	result, err := ps.ProcessDocument(context.Background(), doc)
	if err != nil {
		t.Fatalf("ProcessDocument() error: %v", err)
	}
	if result.PageCount < 1 {
		t.Errorf("PageCount = %d, want at least 1", result.PageCount)
	}
	if result.OutputSize == 0 {
		t.Errorf("OutputSize = 0, want a non-empty PDF")
	}
	if result.CacheHit {
		t.Errorf("first call reported CacheHit = true")
	}
	if !ps.storageService.FileExists(result.OutputPath) {
		t.Errorf("output file %q was not written", result.OutputPath)
	}
}

func TestProcessDocumentRejectsInvalidDocument(t *testing.T) {
	ps := newTestPrintService(t)
	if _, err := ps.ProcessDocument(context.Background(), testDocument("")); err == nil {
		t.Errorf("ProcessDocument(empty content) error = nil, want error")
	}
}

func TestProcessDocumentUsesCacheOnSecondCall(t *testing.T) {
	ps := newTestPrintService(t)
	doc := testDocument("<p>cache me</p>")
	doc.Options.Performance.EnableCache = true
	doc.Options.Performance.CacheTTL = time.Hour

	first, err := ps.ProcessDocument(context.Background(), doc)
	if err != nil {
		t.Fatalf("first ProcessDocument() error: %v", err)
	}
	if first.CacheHit {
		t.Errorf("first call reported CacheHit = true")
	}

	second, err := ps.ProcessDocument(context.Background(), doc)
	if err != nil {
		t.Fatalf("second ProcessDocument() error: %v", err)
	}
	if !second.CacheHit {
		t.Errorf("second call reported CacheHit = false, want true")
	}
}

func TestProcessDocumentDedupesConcurrentCallsViaSingleflight(t *testing.T) {
	ps := newTestPrintService(t)
	doc := testDocument("<p>same document</p>")

	var wg sync.WaitGroup
	results := make([]*domain.RenderResult, 4)
	errs := make([]error, 4)
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			results[idx], errs[idx] = ps.ProcessDocument(context.Background(), doc)
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Fatalf("call %d: ProcessDocument() error: %v", i, err)
		}
	}
	firstPath := results[0].OutputPath
	for i, r := range results {
		if r.OutputPath != firstPath {
			t.Errorf("call %d: OutputPath = %q, want shared path %q", i, r.OutputPath, firstPath)
		}
	}
}

func TestProcessJobUpdatesJobStatusOnSuccess(t *testing.T) {
	ps := newTestPrintService(t)
	job := &domain.PrintJob{ID: "job-1", Document: *testDocument("<p>job</p>")}

	if err := ps.ProcessJob(context.Background(), job); err != nil {
		t.Fatalf("ProcessJob() error: %v", err)
	}
	if job.Status != domain.JobStatusCompleted {
		t.Errorf("Status = %v, want completed", job.Status)
	}
	if job.OutputPath == "" {
		t.Errorf("OutputPath not set after successful job")
	}
	if job.CompletedAt == nil {
		t.Errorf("CompletedAt not set after successful job")
	}
}

func TestProcessJobMarksFailedOnError(t *testing.T) {
	ps := newTestPrintService(t)
	job := &domain.PrintJob{ID: "job-2", Document: *testDocument("")}

	if err := ps.ProcessJob(context.Background(), job); err == nil {
		t.Fatalf("ProcessJob() error = nil, want error for empty document")
	}
	if job.Status != domain.JobStatusFailed {
		t.Errorf("Status = %v, want failed", job.Status)
	}
	if job.Error == "" {
		t.Errorf("Error not set after failed job")
	}
}

func TestProcessJobRoutesTransactionsThroughReflowEngine(t *testing.T) {
	ps := newTestPrintService(t)
	job := &domain.PrintJob{
		ID:       "job-3",
		Document: *testDocument("<p>Hello world</p>"),
		Transactions: []domain.DocumentTransaction{
			{FromOld: 0, ToOld: 0, FromNew: 0, ToNew: 5},
		},
	}

	if err := ps.ProcessJob(context.Background(), job); err != nil {
		t.Fatalf("ProcessJob() error: %v", err)
	}
	if job.Status != domain.JobStatusCompleted {
		t.Errorf("Status = %v, want completed", job.Status)
	}
	if job.OutputPath == "" {
		t.Errorf("OutputPath not set after reflow job")
	}
	if _, ok := ps.reflowSessions[job.Document.ID]; !ok {
		t.Errorf("no reflow session tracked for document %q", job.Document.ID)
	}
}

func TestProcessReflowJobReusesSessionAcrossCalls(t *testing.T) {
	ps := newTestPrintService(t)
	doc := testDocument("<p>Hello world</p>")

	first := &domain.PrintJob{ID: "job-4a", Document: *doc, Transactions: []domain.DocumentTransaction{{FromNew: 0, ToNew: 5}}}
	if _, err := ps.ProcessReflowJob(context.Background(), first); err != nil {
		t.Fatalf("first ProcessReflowJob() error: %v", err)
	}

	second := &domain.PrintJob{ID: "job-4b", Document: *doc, Transactions: []domain.DocumentTransaction{{FromOld: 0, ToOld: 5, FromNew: 0, ToNew: 0}}}
	if _, err := ps.ProcessReflowJob(context.Background(), second); err != nil {
		t.Fatalf("second ProcessReflowJob() error: %v", err)
	}

	ps.reflowMu.Lock()
	sessionCount := len(ps.reflowSessions)
	ps.reflowMu.Unlock()
	if sessionCount != 1 {
		t.Errorf("reflowSessions has %d entries, want 1 (shared session per document)", sessionCount)
	}
}

func TestProcessJobRejectsWrongType(t *testing.T) {
	ps := newTestPrintService(t)
	if err := ps.ProcessJob(context.Background(), "not a job"); err == nil {
		t.Errorf("ProcessJob(wrong type) error = nil, want error")
	}
}
