package run

import (
	"context"
	"fmt"
	"sync"

	"consultation-triage/config"
	"consultation-triage/pkg/browser"
	pkgLog "consultation-triage/pkg/log"
)

// CheckFunc verifies one sales-order identifier inside a worker's session
// and returns a human-readable eligibility detail.
type CheckFunc func(ctx context.Context, session browser.Session, identifier string) (string, error)

// SessionFactory opens an independent session for one worker. Sessions are
// never shared across workers.
type SessionFactory func(ctx context.Context) (browser.Session, error)

// BulkResult is the verdict for one identifier.
type BulkResult struct {
	Identifier string
	Detail     string
	Err        error
}

// BulkPool runs the bulk sales-order eligibility scan: identifiers are split
// into contiguous chunks, one chunk per worker, each worker owning its own
// session and walking its chunk in order.
type BulkPool struct {
	workers int
	factory SessionFactory
	check   CheckFunc
	l       pkgLog.Logger
}

func NewBulkPool(cfg config.BulkConfig, factory SessionFactory, check CheckFunc, l pkgLog.Logger) *BulkPool {
	workers := cfg.Workers
	if workers <= 0 {
		workers = 1
	}
	return &BulkPool{workers: workers, factory: factory, check: check, l: l}
}

// Verify scans all identifiers and returns one result per identifier.
// Results are concatenated chunk by chunk after every worker finishes, so
// within a chunk the input order is preserved.
func (p *BulkPool) Verify(ctx context.Context, identifiers []string) []BulkResult {
	if len(identifiers) == 0 {
		return nil
	}
	chunks := chunkIdentifiers(identifiers, p.workers)
	p.l.Infof(ctx, "bulk: %d identifiers across %d workers", len(identifiers), len(chunks))

	perChunk := make([][]BulkResult, len(chunks))
	var wg sync.WaitGroup
	for i, chunk := range chunks {
		wg.Add(1)
		go func(i int, chunk []string) {
			defer wg.Done()
			perChunk[i] = p.runChunk(ctx, i, chunk)
		}(i, chunk)
	}
	wg.Wait()

	results := make([]BulkResult, 0, len(identifiers))
	for _, part := range perChunk {
		results = append(results, part...)
	}
	return results
}

func (p *BulkPool) runChunk(ctx context.Context, worker int, chunk []string) []BulkResult {
	session, err := p.factory(ctx)
	if err != nil {
		p.l.Errorf(ctx, "bulk: worker %d session: %v", worker, err)
		out := make([]BulkResult, len(chunk))
		for i, id := range chunk {
			out[i] = BulkResult{Identifier: id, Err: fmt.Errorf("open session: %w", err)}
		}
		return out
	}
	defer func() {
		if err := session.Close(); err != nil {
			p.l.Warnf(ctx, "bulk: worker %d close session: %v", worker, err)
		}
	}()

	out := make([]BulkResult, 0, len(chunk))
	for _, id := range chunk {
		if ctx.Err() != nil {
			out = append(out, BulkResult{Identifier: id, Err: ctx.Err()})
			continue
		}
		detail, err := p.check(ctx, session, id)
		if err != nil {
			p.l.Warnf(ctx, "bulk: worker %d identifier %s: %v", worker, id, err)
		}
		out = append(out, BulkResult{Identifier: id, Detail: detail, Err: err})
	}
	return out
}

// chunkIdentifiers splits ids into contiguous chunks of ceil(len/workers),
// yielding at most workers chunks.
func chunkIdentifiers(ids []string, workers int) [][]string {
	size := (len(ids) + workers - 1) / workers
	var chunks [][]string
	for start := 0; start < len(ids); start += size {
		end := start + size
		if end > len(ids) {
			end = len(ids)
		}
		chunks = append(chunks, ids[start:end])
	}
	return chunks
}

// Failed counts results that ended in an error, for exit-code decisions.
func Failed(results []BulkResult) int {
	var n int
	for _, r := range results {
		if r.Err != nil {
			n++
		}
	}
	return n
}
