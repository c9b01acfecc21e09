package module

import (
	"context"

	"weeklypedia/internal/adapters/extracts"
	"weeklypedia/internal/services/api/digest/domain"
)

// Ports is the digest port set other modules and tools consume
type Ports struct {
	Digest domain.ServicePort
}

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }

// enricher adapts the extracts client to domain.Enricher
type enricher struct{ c *extracts.Client }

// Fetch converts client extracts to domain extracts
func (e *enricher) Fetch(ctx context.Context, lang string, titles []string, limit int) map[string]domain.Extract {
	got := e.c.Fetch(ctx, lang, titles, limit)
	out := make(map[string]domain.Extract, len(got))
	for k, v := range got {
		out[k] = domain.Extract{Title: v.Title, Extract: v.Extract}
	}
	return out
}
