package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"pagecore/internal/infrastructure/logger"
	"pagecore/internal/pkg/config"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testPaginationHandler() *PaginationHandler {
	cfg := &config.Config{
		Pagination: config.PaginationConfig{
			PageSize:          "a4",
			Orientation:       "portrait",
			MarginTop:         72,
			MarginRight:       72,
			MarginBottom:      72,
			MarginLeft:        72,
			ReflowDebounceMs:  100,
			WidowLines:        2,
			OrphanLines:       2,
			DefaultLineHeight: 14,
		},
	}
	l := logger.NewStructuredLogger(&config.LoggerConfig{Level: "error", Format: "json", Output: "stdout"})
	return NewPaginationHandler(cfg, l)
}

func newTestContext(method, url string, body any) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	var reqBody *bytes.Buffer
	if body != nil {
		data, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(data)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}
	req := httptest.NewRequest(method, url, reqBody)
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	return c, w
}

func TestPaginateReturnsModelForValidHTML(t *testing.T) {
	h := testPaginationHandler()
	c, w := newTestContext(http.MethodPost, "/documents/doc1/paginate", paginateRequest{HTML: "<p>Hello world</p>"})
	c.Params = gin.Params{{Key: "id", Value: "doc1"}}

	h.Paginate(c)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body=%s", w.Code, w.Body.String())
	}
	var resp pageModelResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.PageCount < 1 {
		t.Errorf("PageCount = %d, want at least 1", resp.PageCount)
	}
}

func TestPaginateRejectsMissingHTMLField(t *testing.T) {
	h := testPaginationHandler()
	c, w := newTestContext(http.MethodPost, "/documents/doc1/paginate", map[string]string{})
	c.Params = gin.Params{{Key: "id", Value: "doc1"}}

	h.Paginate(c)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400 for missing html field", w.Code)
	}
}

func TestGetPageBeforePaginateReturnsNotFound(t *testing.T) {
	h := testPaginationHandler()
	c, w := newTestContext(http.MethodGet, "/documents/doc1/pages/1", nil)
	c.Params = gin.Params{{Key: "id", Value: "doc1"}, {Key: "n", Value: "1"}}

	h.GetPage(c)

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404 for unknown document", w.Code)
	}
}

func TestGetPageRejectsInvalidPageNumber(t *testing.T) {
	h := testPaginationHandler()
	c, w := newTestContext(http.MethodGet, "/documents/doc1/pages/x", nil)
	c.Params = gin.Params{{Key: "id", Value: "doc1"}, {Key: "n", Value: "x"}}

	h.GetPage(c)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400 for non-numeric page", w.Code)
	}
}

func TestGetPageAfterPaginateReturnsRange(t *testing.T) {
	h := testPaginationHandler()

	pc, pw := newTestContext(http.MethodPost, "/documents/doc1/paginate", paginateRequest{HTML: "<p>Hello world</p>"})
	pc.Params = gin.Params{{Key: "id", Value: "doc1"}}
	h.Paginate(pc)
	if pw.Code != http.StatusOK {
		t.Fatalf("setup Paginate() status = %d", pw.Code)
	}

	gc, gw := newTestContext(http.MethodGet, "/documents/doc1/pages/1", nil)
	gc.Params = gin.Params{{Key: "id", Value: "doc1"}, {Key: "n", Value: "1"}}
	h.GetPage(gc)

	if gw.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body=%s", gw.Code, gw.Body.String())
	}
}

func TestReflowRequiresPriorPaginate(t *testing.T) {
	h := testPaginationHandler()
	c, w := newTestContext(http.MethodPost, "/documents/doc1/reflow", reflowRequest{HTML: "<p>x</p>"})
	c.Params = gin.Params{{Key: "id", Value: "doc1"}}

	h.Reflow(c)

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404 when no session exists", w.Code)
	}
}

func TestReflowAfterPaginateReturnsUpdatedModel(t *testing.T) {
	h := testPaginationHandler()

	pc, _ := newTestContext(http.MethodPost, "/documents/doc1/paginate", paginateRequest{HTML: "<p>Hello world</p>"})
	pc.Params = gin.Params{{Key: "id", Value: "doc1"}}
	h.Paginate(pc)

	rc, rw := newTestContext(http.MethodPost, "/documents/doc1/reflow", reflowRequest{HTML: "<p>Hello world, updated</p>"})
	rc.Params = gin.Params{{Key: "id", Value: "doc1"}}
	h.Reflow(rc)

	if rw.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body=%s", rw.Code, rw.Body.String())
	}
}

func TestReflowDerivesChangeKindFromTransactions(t *testing.T) {
	h := testPaginationHandler()

	pc, _ := newTestContext(http.MethodPost, "/documents/doc1/paginate", paginateRequest{HTML: "<p>Hello world</p>"})
	pc.Params = gin.Params{{Key: "id", Value: "doc1"}}
	h.Paginate(pc)

	rc, rw := newTestContext(http.MethodPost, "/documents/doc1/reflow", reflowRequest{
		HTML:         "<p>Hello world, updated</p>",
		Transactions: []transactionRequest{{FromOld: 0, ToOld: 0, FromNew: 0, ToNew: 5}},
	})
	rc.Params = gin.Params{{Key: "id", Value: "doc1"}}
	h.Reflow(rc)

	if rw.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body=%s", rw.Code, rw.Body.String())
	}
}

func TestThumbnailBeforePaginateReturnsNotFound(t *testing.T) {
	h := testPaginationHandler()
	c, w := newTestContext(http.MethodGet, "/documents/doc1/pages/1/thumbnail", nil)
	c.Params = gin.Params{{Key: "id", Value: "doc1"}, {Key: "n", Value: "1"}}

	h.Thumbnail(c)

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404 for unknown document", w.Code)
	}
}

func TestThumbnailAfterPaginateReturnsPNG(t *testing.T) {
	h := testPaginationHandler()

	pc, _ := newTestContext(http.MethodPost, "/documents/doc1/paginate", paginateRequest{HTML: "<p>Hello world</p>"})
	pc.Params = gin.Params{{Key: "id", Value: "doc1"}}
	h.Paginate(pc)

	tc, tw := newTestContext(http.MethodGet, "/documents/doc1/pages/1/thumbnail", nil)
	tc.Params = gin.Params{{Key: "id", Value: "doc1"}, {Key: "n", Value: "1"}}
	h.Thumbnail(tc)

	if tw.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body=%s", tw.Code, tw.Body.String())
	}
	if ct := tw.Header().Get("Content-Type"); ct != "image/png" {
		t.Errorf("Content-Type = %q, want image/png", ct)
	}
}

func TestParsePageNumberValid(t *testing.T) {
	n, err := parsePageNumber("3")
	if err != nil {
		t.Fatalf("parsePageNumber() error: %v", err)
	}
	if n != 3 {
		t.Errorf("n = %d, want 3", n)
	}
}

func TestParsePageNumberRejectsNonPositive(t *testing.T) {
	if _, err := parsePageNumber("0"); err == nil {
		t.Errorf("parsePageNumber(0) error = nil, want error")
	}
}

func TestParsePageNumberRejectsGarbage(t *testing.T) {
	if _, err := parsePageNumber("abc"); err == nil {
		t.Errorf("parsePageNumber(abc) error = nil, want error")
	}
}
