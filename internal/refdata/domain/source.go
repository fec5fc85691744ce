package domain

// Source records where a priced value came from, so degraded-mode quotes are
// auditable after the fact.
type Source string

const (
	SourceStore    Source = "store"
	SourceFallback Source = "fallback"
)
