package citation

import (
	"fmt"
	"sync"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
	"github.com/blevesearch/bleve/v2/mapping"
)

// ContentIndex is an in-memory full-text index over the clause text
// resolved this session. It never touches the network; it only knows
// citations the cache has already fetched.
type ContentIndex struct {
	mu    sync.Mutex
	index bleve.Index
	docs  map[string]*Citation
}

// Match is one full-text hit.
type Match struct {
	Citation *Citation
	Score    float64
}

// NewContentIndex creates an empty in-memory index.
func NewContentIndex() (*ContentIndex, error) {
	index, err := bleve.NewMemOnly(buildIndexMapping())
	if err != nil {
		return nil, fmt.Errorf("failed to create citation index: %w", err)
	}
	return &ContentIndex{index: index, docs: make(map[string]*Citation)}, nil
}

func buildIndexMapping() mapping.IndexMapping {
	indexMapping := bleve.NewIndexMapping()
	citMapping := bleve.NewDocumentMapping()

	dealField := bleve.NewTextFieldMapping()
	dealField.Analyzer = keyword.Name
	dealField.Store = true
	dealField.Index = true
	citMapping.AddFieldMappingsAt("deal", dealField)

	contentField := bleve.NewTextFieldMapping()
	contentField.Analyzer = standard.Name
	contentField.Store = false
	contentField.Index = true
	citMapping.AddFieldMappingsAt("content", contentField)

	titleField := bleve.NewTextFieldMapping()
	titleField.Analyzer = standard.Name
	titleField.Store = false
	titleField.Index = true
	citMapping.AddFieldMappingsAt("clause_title", titleField)

	indexMapping.DefaultMapping = citMapping
	return indexMapping
}

// Add indexes one resolved citation. Re-adding the same citation is an
// overwrite, not an error.
func (ci *ContentIndex) Add(c *Citation) error {
	ci.mu.Lock()
	defer ci.mu.Unlock()

	docID := c.Deal + "\x1f" + c.ID
	doc := map[string]any{
		"deal":         c.Deal,
		"content":      c.Content,
		"clause_title": c.Meta.ClauseTitle,
	}
	if err := ci.index.Index(docID, doc); err != nil {
		return fmt.Errorf("failed to index citation %s: %w", c.ID, err)
	}
	ci.docs[docID] = c
	return nil
}

// Search returns up to k citations whose clause text or title matches
// term, best first.
func (ci *ContentIndex) Search(term string, k int) ([]Match, error) {
	ci.mu.Lock()
	defer ci.mu.Unlock()

	q := bleve.NewMatchQuery(term)
	req := bleve.NewSearchRequest(q)
	req.Size = k

	res, err := ci.index.Search(req)
	if err != nil {
		return nil, fmt.Errorf("citation search failed: %w", err)
	}

	matches := make([]Match, 0, len(res.Hits))
	for _, hit := range res.Hits {
		if c, ok := ci.docs[hit.ID]; ok {
			matches = append(matches, Match{Citation: c, Score: hit.Score})
		}
	}
	return matches, nil
}

// Close releases the index.
func (ci *ContentIndex) Close() error { return ci.index.Close() }
