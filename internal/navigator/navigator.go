// Package navigator answers "nearest boundary after/before a position"
// queries, obtaining boundary lists through the result cache and extracting
// on miss.
package navigator

import (
	"context"
	"fmt"
	"io"
	"sort"

	"github.com/charmbracelet/log"

	"tagnav/internal/boundary"
	"tagnav/internal/cache"
	"tagnav/internal/parser"
)

// Categories selects which boundary lists participate in a query. The host
// resolves its "include tag boundaries when navigating attributes" setting
// into this selector.
type Categories struct {
	Tags       bool
	Attributes bool
}

// Navigator resolves navigation queries against one shared result cache.
type Navigator struct {
	cache  *cache.Cache
	logger *log.Logger
}

// Option configures a Navigator.
type Option func(*Navigator)

// WithLogger attaches a logger for cache-traffic tracing.
func WithLogger(logger *log.Logger) Option {
	return func(n *Navigator) {
		n.logger = logger
	}
}

// New creates a Navigator around the given cache. The cache is passed
// explicitly; there is no ambient singleton.
func New(c *cache.Cache, opts ...Option) *Navigator {
	n := &Navigator{
		cache:  c,
		logger: log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// TagBoundaries returns the ascending tag boundary offsets for text.
func (n *Navigator) TagBoundaries(ctx context.Context, text []byte) ([]int, error) {
	return n.boundaries(ctx, text, cache.KindTags)
}

// AttributeBoundaries returns the ascending attribute boundary offsets for text.
func (n *Navigator) AttributeBoundaries(ctx context.Context, text []byte) ([]int, error) {
	return n.boundaries(ctx, text, cache.KindAttributes)
}

// Next returns the smallest selected boundary strictly greater than pos.
// A false result means no boundary exists in that direction; it is not an
// error.
func (n *Navigator) Next(ctx context.Context, text []byte, pos int, cats Categories) (int, bool, error) {
	offsets, err := n.merged(ctx, text, cats)
	if err != nil {
		return 0, false, err
	}
	i := sort.SearchInts(offsets, pos+1)
	if i == len(offsets) {
		return 0, false, nil
	}
	return offsets[i], true, nil
}

// Prev returns the largest selected boundary strictly less than pos.
func (n *Navigator) Prev(ctx context.Context, text []byte, pos int, cats Categories) (int, bool, error) {
	offsets, err := n.merged(ctx, text, cats)
	if err != nil {
		return 0, false, err
	}
	i := sort.SearchInts(offsets, pos)
	if i == 0 {
		return 0, false, nil
	}
	return offsets[i-1], true, nil
}

// Seed installs externally obtained offsets for text and kind, e.g. from a
// persistent store, so the next query skips extraction.
func (n *Navigator) Seed(text []byte, kind cache.Kind, offsets []int) {
	n.cache.Put(text, kind, offsets)
}

// boundaries serves one extraction kind through the cache, parsing and
// extracting on miss. Errors from the parser and extractor propagate
// unwrapped in meaning; nothing is swallowed or approximated.
func (n *Navigator) boundaries(ctx context.Context, text []byte, kind cache.Kind) ([]int, error) {
	if offsets, ok := n.cache.Get(text, kind); ok {
		n.logger.Debug("cache hit", "kind", kind, "boundaries", len(offsets))
		return offsets, nil
	}

	doc, err := parser.Parse(ctx, text)
	if err != nil {
		return nil, err
	}
	defer doc.Close()

	var offsets []int
	switch kind {
	case cache.KindTags:
		offsets, err = boundary.Tags(doc)
	case cache.KindAttributes:
		offsets, err = boundary.Attributes(doc)
	default:
		return nil, fmt.Errorf("unknown extraction kind %q", kind)
	}
	if err != nil {
		return nil, err
	}

	n.cache.Put(text, kind, offsets)
	n.logger.Debug("cache miss", "kind", kind, "boundaries", len(offsets))
	return offsets, nil
}

// merged collects the selected boundary lists, deduplicated and ascending.
func (n *Navigator) merged(ctx context.Context, text []byte, cats Categories) ([]int, error) {
	var offsets []int
	if cats.Tags {
		tags, err := n.TagBoundaries(ctx, text)
		if err != nil {
			return nil, err
		}
		offsets = append(offsets, tags...)
	}
	if cats.Attributes {
		attrs, err := n.AttributeBoundaries(ctx, text)
		if err != nil {
			return nil, err
		}
		offsets = append(offsets, attrs...)
	}
	sort.Ints(offsets)

	out := offsets[:0]
	for i, v := range offsets {
		if i > 0 && v == offsets[i-1] {
			continue
		}
		out = append(out, v)
	}
	return out, nil
}
