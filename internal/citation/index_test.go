package citation

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContentIndexSearch(t *testing.T) {
	idx, err := NewContentIndex()
	require.NoError(t, err)
	defer idx.Close()

	require.NoError(t, idx.Add(&Citation{
		ID: "c1", Deal: "atlas-2021",
		Content: "Either party may terminate this agreement with thirty days written notice.",
		Meta:    Metadata{ClauseTitle: "Termination"},
	}))
	require.NoError(t, idx.Add(&Citation{
		ID: "c2", Deal: "atlas-2021",
		Content: "The escrow agent shall release funds upon closing.",
		Meta:    Metadata{ClauseTitle: "Escrow"},
	}))

	matches, err := idx.Search("terminate", 10)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "c1", matches[0].Citation.ID)

	matches, err = idx.Search("escrow funds", 10)
	require.NoError(t, err)
	require.NotEmpty(t, matches)
	assert.Equal(t, "c2", matches[0].Citation.ID)
}

func TestContentIndexMatchesClauseTitle(t *testing.T) {
	idx, err := NewContentIndex()
	require.NoError(t, err)
	defer idx.Close()

	require.NoError(t, idx.Add(&Citation{
		ID: "c1", Deal: "atlas-2021",
		Content: "Payments are due on the first business day.",
		Meta:    Metadata{ClauseTitle: "Indemnification"},
	}))

	matches, err := idx.Search("indemnification", 10)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "c1", matches[0].Citation.ID)
}

func TestContentIndexEmpty(t *testing.T) {
	idx, err := NewContentIndex()
	require.NoError(t, err)
	defer idx.Close()

	matches, err := idx.Search("anything", 10)
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestCacheFeedsIndex(t *testing.T) {
	idx, err := NewContentIndex()
	require.NoError(t, err)
	defer idx.Close()

	f := &fakeFetcher{content: map[string]string{
		"atlas-2021/c1": "The indemnity survives termination of this agreement.",
	}}
	c := NewCache(f, idx, nil)

	c.Resolve(context.Background(), "atlas-2021", "c1")

	matches, err := idx.Search("indemnity", 10)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "c1", matches[0].Citation.ID)
}
