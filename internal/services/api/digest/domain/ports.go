package domain

import "context"

// ServicePort is consumed by handlers, the CLI, and other modules
type ServicePort interface {
	Build(ctx context.Context, in DigestInput) (Digest, error)
}

// Enricher fetches article extracts for the first limit titles
// titles it cannot serve are left out of the result, it never fails
type Enricher interface {
	Fetch(ctx context.Context, lang string, titles []string, limit int) map[string]Extract
}
