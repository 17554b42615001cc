package locator

import (
	"context"
	"fmt"
	"strings"

	"github.com/devicelab-dev/screenmatch/pkg/core"
	"github.com/devicelab-dev/screenmatch/pkg/hierarchy"
	"github.com/devicelab-dev/screenmatch/pkg/similarity"
)

// Request asks to resolve a description against a dump. RawDump is
// optional when the Locator has a DumpSource.
type Request struct {
	QueryDescription string `json:"query_description"`
	RawDump          string `json:"raw_dump_text,omitempty"`
}

// VisionMatcher is an alternate matcher that looks at a screenshot plus the
// extracted element tuples. Callers decide when to use it; this package
// never calls it.
type VisionMatcher interface {
	Match(ctx context.Context, screenshot []byte, description string, tuples []hierarchy.Tuple) (Result, error)
}

// ResolveDump parses the dump in req and resolves its query.
//
// Errors are returned next to a not-found Result:
//   - core.ErrInvalidQuery: the description is blank, or has no meaningful
//     words and nothing matched it verbatim
//   - core.ErrNoMatch: no element reached AcceptThreshold; when the dump had
//     no node markup the cause is core.ErrMalformedDump
func (r Ranker) ResolveDump(req Request) (Result, error) {
	q := ParseQuery(req.QueryDescription)
	if strings.TrimSpace(q.Description) == "" {
		return NotFound("Empty element description"), core.ErrInvalidQuery
	}

	elems, dumpErr := hierarchy.Inspect(req.RawDump)

	res := r.Resolve(q, elems)
	if res.Found {
		return res, nil
	}

	if q.TargetDigit == "" && len(similarity.QueryTokens(q.Description)) == 0 {
		return res, core.ErrInvalidQuery.WithDetails(map[string]interface{}{
			"query": q.Description,
		})
	}

	details := map[string]interface{}{
		"query":    q.Description,
		"elements": len(elems),
	}
	if best, ok := r.Best(q, elems); ok {
		details["best_score"] = best.Score
		details["best_label"] = best.Element.Label()
	}
	noMatch := core.ErrNoMatch.WithDetails(details)
	if dumpErr != nil {
		noMatch = noMatch.WithCause(dumpErr)
	}
	return res, noMatch
}

// ResolveDump resolves req with the default Ranker.
func ResolveDump(req Request) (Result, error) {
	return Ranker{}.ResolveDump(req)
}

// Locator resolves requests, fetching the dump from Source when the
// request does not carry one.
type Locator struct {
	Ranker Ranker
	Source core.DumpSource
}

// Locate resolves req. Dump retrieval errors are returned as is; matching
// outcomes follow ResolveDump.
func (l *Locator) Locate(ctx context.Context, req Request) (Result, error) {
	if req.RawDump == "" {
		if l.Source == nil {
			return NotFound("No hierarchy dump available"), core.ErrMissingRequired.WithMessage("no dump text and no dump source")
		}
		dump, err := l.Source.DumpUI(ctx)
		if err != nil {
			return NotFound("UI dump failed"), fmt.Errorf("dump ui: %w", err)
		}
		req.RawDump = dump
	}
	return l.Ranker.ResolveDump(req)
}
