// Package reference loads the fixed reference documents included in every
// evaluation prompt.
package reference

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"golang.org/x/sync/errgroup"

	"ppoeval/internal/domain"
	"ppoeval/internal/extractor"
	"ppoeval/internal/port"
)

// Loader reads reference documents from a source and extracts their text.
// A missing or unreadable document becomes a placeholder; Load never fails.
type Loader struct {
	source    port.ReferenceSource
	extractor port.TextExtractor
	files     map[domain.ReferenceRole]string

	cache *textCache // nil when caching is disabled
}

// NewLoader creates a Loader. files maps each role to its file name; roles
// missing from the map use domain.DefaultReferenceFiles.
func NewLoader(source port.ReferenceSource, extractor port.TextExtractor, files map[domain.ReferenceRole]string, cacheEnabled bool) *Loader {
	resolved := make(map[domain.ReferenceRole]string, len(domain.AllReferenceRoles))
	for _, role := range domain.AllReferenceRoles {
		name := files[role]
		if name == "" {
			name = domain.DefaultReferenceFiles[role]
		}
		resolved[role] = name
	}

	l := &Loader{
		source:    source,
		extractor: extractor,
		files:     resolved,
	}
	if cacheEnabled {
		l.cache = newTextCache()
	}
	return l
}

// Placeholder is the text used in place of an unavailable reference.
func Placeholder(role domain.ReferenceRole) string {
	return fmt.Sprintf("[Documento de referencia no disponible: %s]", role.Label())
}

// FileName returns the file name configured for role.
func (l *Loader) FileName(role domain.ReferenceRole) string {
	return l.files[role]
}

// Load returns the extracted text of one reference document.
func (l *Loader) Load(ctx context.Context, role domain.ReferenceRole) string {
	var gen uint64
	if l.cache != nil {
		text, g, ok := l.cache.get(role)
		if ok {
			return text
		}
		gen = g
	}

	name := l.files[role]
	data, err := l.source.Read(ctx, name)
	if err != nil {
		if errors.Is(err, domain.ErrReferenceNotFound) {
			log.Printf("reference.Load: %s (%s) not found, using placeholder", role, name)
		} else {
			log.Printf("reference.Load: reading %s (%s) failed, using placeholder: %v", role, name, err)
		}
		return Placeholder(role)
	}

	doc := domain.UploadedDocument{Bytes: data, Name: name}
	text := l.extractor.Extract(ctx, doc)
	// A failed extraction may be a half-written file; retry on the next load.
	if l.cache != nil && text != extractor.DiagnosticText(name, doc.Format()) {
		if !l.cache.put(role, gen, text) {
			log.Printf("reference.Load: %s (%s) changed while loading, not cached", role, name)
		}
	}
	return text
}

// LoadAll loads every reference role concurrently and returns once all of
// them have completed or fallen back to their placeholder.
func (l *Loader) LoadAll(ctx context.Context) domain.References {
	texts := make([]string, len(domain.AllReferenceRoles))

	g, gctx := errgroup.WithContext(ctx)
	for i, role := range domain.AllReferenceRoles {
		g.Go(func() error {
			texts[i] = l.Load(gctx, role)
			return nil
		})
	}
	_ = g.Wait()

	refs := make(domain.References, len(texts))
	for i, role := range domain.AllReferenceRoles {
		refs[role] = texts[i]
	}
	return refs
}

// Invalidate drops the cached text for the reference stored under fileName.
// It reports whether a role matched.
func (l *Loader) Invalidate(fileName string) bool {
	if l.cache == nil {
		return false
	}
	for role, name := range l.files {
		if name == fileName {
			l.cache.delete(role)
			return true
		}
	}
	return false
}

// textCache keeps one text per role. Each invalidation bumps the role's
// generation so a load that started before it cannot store stale text.
type textCache struct {
	mu          sync.Mutex
	entries     map[domain.ReferenceRole]string
	generations map[domain.ReferenceRole]uint64
}

func newTextCache() *textCache {
	return &textCache{
		entries:     make(map[domain.ReferenceRole]string),
		generations: make(map[domain.ReferenceRole]uint64),
	}
}

func (c *textCache) get(role domain.ReferenceRole) (string, uint64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	text, ok := c.entries[role]
	return text, c.generations[role], ok
}

// put stores text only if no invalidation happened since generation gen.
func (c *textCache) put(role domain.ReferenceRole, gen uint64, text string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.generations[role] != gen {
		return false
	}
	c.entries[role] = text
	return true
}

func (c *textCache) delete(role domain.ReferenceRole) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, role)
	c.generations[role]++
}
