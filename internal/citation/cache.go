// Package citation resolves citation ids to clause text, caching
// results for the lifetime of the session.
package citation

import (
	"context"

	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/veridianlabs/atlasq/internal/api"
)

// UnavailableContent is the sentinel clause text shown when a chunk
// fetch fails. Sentinels are never cached; the next resolve retries.
const UnavailableContent = "Could not load clause text."

// emptyContent is used when the backend returns a chunk with no text.
const emptyContent = "No content available."

// Metadata is the clause-level metadata rendered in the source panel.
type Metadata struct {
	ClauseTitle string
	SectionID   string
	ClauseID    string
}

// Citation is one resolved chunk, immutable once fetched. Identity is
// the (Deal, ID) pair; the same raw id under another deal is a
// different citation.
type Citation struct {
	ID          string
	Deal        string
	Content     string
	Meta        Metadata
	Unavailable bool
}

// Fetcher is the backend call the cache depends on.
type Fetcher interface {
	FetchChunk(ctx context.Context, dealID, chunkID string) (*api.ChunkResponse, error)
}

// Cache resolves citations with at most one network fetch per (deal,
// id) pair. Concurrent resolves for the same key are collapsed into a
// single in-flight fetch. Entries never expire and are never evicted;
// the cache lives and dies with the session (tens of citations, not
// thousands).
type Cache struct {
	api    Fetcher
	store  *gocache.Cache
	flight singleflight.Group
	index  *ContentIndex
	log    *zap.Logger
}

// NewCache creates a session-scoped cache. index may be nil; when set,
// every successfully resolved citation is also indexed for :find.
func NewCache(f Fetcher, index *ContentIndex, log *zap.Logger) *Cache {
	if log == nil {
		log = zap.NewNop()
	}
	return &Cache{
		api:   f,
		store: gocache.New(gocache.NoExpiration, 0),
		index: index,
		log:   log,
	}
}

// Resolve returns the citation for (dealID, citationID), fetching it on
// a cache miss. Fetch failures yield a sentinel citation with
// Unavailable set; the failure itself is not cached, so a later
// resolve for the same key hits the network again.
func (c *Cache) Resolve(ctx context.Context, dealID, citationID string) *Citation {
	key := cacheKey(dealID, citationID)
	if hit, ok := c.store.Get(key); ok {
		return hit.(*Citation)
	}

	v, err, _ := c.flight.Do(key, func() (any, error) {
		return c.fetch(ctx, dealID, citationID)
	})
	if err != nil {
		c.log.Warn("chunk fetch failed",
			zap.String("deal", dealID),
			zap.String("citation", citationID),
			zap.Error(err))
		return &Citation{ID: citationID, Deal: dealID, Content: UnavailableContent, Unavailable: true}
	}
	return v.(*Citation)
}

func (c *Cache) fetch(ctx context.Context, dealID, citationID string) (*Citation, error) {
	res, err := c.api.FetchChunk(ctx, dealID, citationID)
	if err != nil {
		return nil, err
	}

	cit := &Citation{ID: citationID, Deal: dealID, Content: emptyContent}
	if len(res.Documents) > 0 {
		cit.Content = res.Documents[0]
	}
	if len(res.Metadatas) > 0 {
		cit.Meta = Metadata{
			ClauseTitle: res.Metadatas[0].ClauseTitle,
			SectionID:   res.Metadatas[0].SectionID,
			ClauseID:    res.Metadatas[0].ClauseID,
		}
	}

	c.store.Set(cacheKey(dealID, citationID), cit, gocache.NoExpiration)
	if c.index != nil {
		if err := c.index.Add(cit); err != nil {
			c.log.Warn("failed to index citation content", zap.Error(err))
		}
	}
	return cit, nil
}

// Len reports how many citations have been resolved this session.
func (c *Cache) Len() int { return c.store.ItemCount() }

// cacheKey scopes the raw citation id to its deal. The unit separator
// cannot occur in either component.
func cacheKey(dealID, citationID string) string {
	return dealID + "\x1f" + citationID
}
