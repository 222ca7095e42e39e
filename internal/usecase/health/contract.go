package health

import "context"

// DBPinger checks catalog store connectivity.
type DBPinger interface {
	Ping(ctx context.Context) error
}

// IndexChecker checks the search index. Only wired when the bleve backend is
// active; nil otherwise.
type IndexChecker interface {
	DocCount() (uint64, error)
}
