package services

import (
	"sync"

	"pagecore/internal/core/engine/html"
	"pagecore/internal/core/engine/pagination"
	"pagecore/internal/core/engine/tree"
)

// reflowSession holds one document's live tree for a ReflowEngine to read
// at pass time. It mirrors the HTTP pagination handler's documentSession:
// the queue-driven worker path needs the same persistent per-document
// engine so HandleChangeSet has state to apply incremental changes to,
// rather than recomputing pagination from scratch on every job.
type reflowSession struct {
	mu     sync.RWMutex
	root   *html.DOMNode
	engine *pagination.ReflowEngine
}

func (s *reflowSession) Tree() pagination.Node {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return tree.NewAdapter(s.root)
}

func (s *reflowSession) setRoot(root *html.DOMNode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.root = root
}
