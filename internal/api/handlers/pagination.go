package handlers

import (
	"fmt"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"

	"pagecore/internal/core/domain"
	"pagecore/internal/core/engine/html"
	"pagecore/internal/core/engine/pagination"
	"pagecore/internal/core/engine/render"
	"pagecore/internal/core/engine/tree"
	"pagecore/internal/core/services"
	"pagecore/internal/infrastructure/logger"
	"pagecore/internal/pkg/config"
)

// documentSession holds one document's live tree for the ReflowEngine to
// read at pass time. It is the pagination.DocumentSource implementation
// for the HTTP surface: the engine never owns the tree, it only ever
// reads through this accessor.
type documentSession struct {
	mu     sync.RWMutex
	root   *html.DOMNode
	engine *pagination.ReflowEngine
}

func (d *documentSession) Tree() pagination.Node {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return tree.NewAdapter(d.root)
}

func (d *documentSession) setRoot(root *html.DOMNode) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.root = root
}

// PaginationHandler exposes the ReflowEngine over HTTP: paginate a
// document, inspect a page, and push incremental reflow changes.
type PaginationHandler struct {
	config *config.Config
	logger logger.Logger

	htmlParser    *html.Parser
	imageRenderer *render.ImageRenderer

	mu       sync.Mutex
	sessions map[string]*documentSession
}

// NewPaginationHandler creates a new pagination handler.
func NewPaginationHandler(cfg *config.Config, logger logger.Logger) *PaginationHandler {
	sanitizer := html.NewSanitizer()
	validator := html.NewValidator(false)
	return &PaginationHandler{
		config:        cfg,
		logger:        logger.With("handler", "pagination"),
		htmlParser:    html.NewParser(sanitizer, validator),
		imageRenderer: render.NewImageRenderer(render.ImageRenderOptions{Antialias: true}),
		sessions:      make(map[string]*documentSession),
	}
}

// paginateRequest is the body for POST /documents/:id/paginate.
type paginateRequest struct {
	HTML string `json:"html" binding:"required"`
}

// pageModelResponse mirrors a PaginationModel for JSON transport.
type pageModelResponse struct {
	PageCount          int                       `json:"pageCount"`
	TotalContentHeight float64                   `json:"totalContentHeight"`
	Pages              []pagination.PageBoundary `json:"pages"`
}

// Paginate runs a full pagination pass over posted HTML and returns the
// resulting model. The document's tree is retained in a session under :id
// so subsequent reflow/page lookups don't need the HTML resent.
func (h *PaginationHandler) Paginate(c *gin.Context) {
	id := c.Param("id")
	var req paginateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	root, err := h.htmlParser.Parse(req.HTML, domain.SecurityOptions{SanitizeHTML: true})
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("failed to parse document: %v", err)})
		return
	}

	session := h.sessionFor(id)
	session.setRoot(root)
	session.engine.ForceFullReflow()

	model := session.engine.GetModel()
	if model == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "pagination produced no model"})
		return
	}

	c.JSON(http.StatusOK, toModelResponse(model))
}

// GetPage returns one page of a previously paginated document.
func (h *PaginationHandler) GetPage(c *gin.Context) {
	id := c.Param("id")
	n, err := parsePageNumber(c.Param("n"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid page number"})
		return
	}

	h.mu.Lock()
	session, ok := h.sessions[id]
	h.mu.Unlock()
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "document not found"})
		return
	}

	model := session.engine.GetModel()
	if model == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "document not yet paginated"})
		return
	}

	start, end, ok := session.engine.GetPositionRangeForPage(n)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "page not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"pageNumber": n, "startPos": start, "endPos": end})
}

// transactionRequest is one editor transaction's position-range tuple, per
// spec §6's change-notification contract: the range it replaced
// (FromOld..ToOld) and the range that replaces it (FromNew..ToNew).
type transactionRequest struct {
	FromOld uint64 `json:"fromOld"`
	ToOld   uint64 `json:"toOld"`
	FromNew uint64 `json:"fromNew"`
	ToNew   uint64 `json:"toNew"`
}

// reflowRequest is the body for POST /documents/:id/reflow.
type reflowRequest struct {
	HTML         string               `json:"html" binding:"required"`
	Transactions []transactionRequest `json:"transactions"`
}

// Reflow applies an updated document body plus a change set and returns
// the re-paginated model.
func (h *PaginationHandler) Reflow(c *gin.Context) {
	id := c.Param("id")
	var req reflowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.mu.Lock()
	session, ok := h.sessions[id]
	h.mu.Unlock()
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "document not found; call paginate first"})
		return
	}

	root, err := h.htmlParser.Parse(req.HTML, domain.SecurityOptions{SanitizeHTML: true})
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("failed to parse document: %v", err)})
		return
	}
	session.setRoot(root)

	if len(req.Transactions) > 0 {
		changes := make([]pagination.Change, len(req.Transactions))
		for i, txn := range req.Transactions {
			changes[i] = pagination.DeriveChange(txn.FromOld, txn.ToOld, txn.FromNew, txn.ToNew)
		}
		session.engine.HandleChangeSet(changes)
	}
	session.engine.RequestImmediateReflow()

	model := session.engine.GetModel()
	if model == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "pagination produced no model"})
		return
	}
	c.JSON(http.StatusOK, toModelResponse(model))
}

// Thumbnail returns a scaled-down PNG of one page, for the virtualized
// scroll rail rather than print-quality export.
func (h *PaginationHandler) Thumbnail(c *gin.Context) {
	id := c.Param("id")
	n, err := parsePageNumber(c.Param("n"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid page number"})
		return
	}

	h.mu.Lock()
	session, ok := h.sessions[id]
	h.mu.Unlock()
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "document not found"})
		return
	}

	model := session.engine.GetModel()
	if model == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "document not yet paginated"})
		return
	}

	png, err := h.imageRenderer.RenderPageThumbnail(session.Tree(), model, n, 0.25)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}

func (h *PaginationHandler) sessionFor(id string) *documentSession {
	h.mu.Lock()
	defer h.mu.Unlock()
	if existing, ok := h.sessions[id]; ok {
		return existing
	}

	session := &documentSession{}
	cfg := services.PaginationConfigFromSettings(h.config.Pagination)
	engine, err := pagination.NewReflowEngine(cfg, session, pagination.NewRealScheduler(), func(format string, args ...any) {
		h.logger.Warn(fmt.Sprintf(format, args...))
	})
	if err != nil {
		h.logger.Error("failed to build reflow engine", "error", err, "document_id", id)
		engine, _ = pagination.NewReflowEngine(pagination.DefaultPaginationConfig(), session, pagination.NewRealScheduler(), nil)
	}
	session.engine = engine
	h.sessions[id] = session
	return session
}

func toModelResponse(model *pagination.PaginationModel) pageModelResponse {
	return pageModelResponse{
		PageCount:          model.PageCount(),
		TotalContentHeight: model.TotalContentHeight,
		Pages:              model.Pages,
	}
}

func parsePageNumber(s string) (int, error) {
	var n int
	_, err := fmt.Sscanf(s, "%d", &n)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid page number %q", s)
	}
	return n, nil
}
