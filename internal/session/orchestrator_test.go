package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veridianlabs/atlasq/internal/api"
)

type fakeAsker struct {
	fn    func(ctx context.Context, dealID, query string, topK int) (*api.AskResponse, error)
	calls int
}

func (f *fakeAsker) Ask(ctx context.Context, dealID, query string, topK int) (*api.AskResponse, error) {
	f.calls++
	return f.fn(ctx, dealID, query, topK)
}

type fixedSelection struct {
	deal string
}

func (s fixedSelection) Selected() (string, bool) {
	return s.deal, s.deal != ""
}

type recordingHistory struct {
	mu      sync.Mutex
	appends [][2]string
}

func (r *recordingHistory) Append(deal, query string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.appends = append(r.appends, [2]string{deal, query})
	return true
}

func okAsker(answer string, citations ...string) *fakeAsker {
	return &fakeAsker{fn: func(ctx context.Context, dealID, query string, topK int) (*api.AskResponse, error) {
		return &api.AskResponse{
			DealID:    dealID,
			Query:     query,
			Answer:    answer,
			Citations: citations,
		}, nil
	}}
}

func TestSubmitHappyPath(t *testing.T) {
	hist := &recordingHistory{}
	asker := okAsker("30 days notice.", "c1", "c2", "c1")
	o := NewOrchestrator(asker, fixedSelection{"atlas-2021"}, hist, 0, nil)

	require.True(t, o.Submit(context.Background(), "  termination rights  "))

	snap := o.Snapshot()
	assert.Equal(t, PhaseAnswered, snap.Phase)
	require.NotNil(t, snap.Answer)
	assert.Equal(t, "30 days notice.", snap.Answer.Text)
	// Duplicates and order preserved.
	assert.Equal(t, []string{"c1", "c2", "c1"}, snap.Answer.Citations)
	assert.Empty(t, snap.ErrMsg)

	// Exactly one append, with the trimmed query.
	require.Len(t, hist.appends, 1)
	assert.Equal(t, [2]string{"atlas-2021", "termination rights"}, hist.appends[0])
}

func TestSubmitPassesThroughLoading(t *testing.T) {
	var observed Phase
	var o *Orchestrator
	asker := &fakeAsker{fn: func(ctx context.Context, dealID, query string, topK int) (*api.AskResponse, error) {
		observed = o.Phase()
		return &api.AskResponse{DealID: dealID, Query: query, Answer: "ok"}, nil
	}}
	o = NewOrchestrator(asker, fixedSelection{"atlas-2021"}, &recordingHistory{}, 0, nil)

	require.True(t, o.Submit(context.Background(), "q"))
	assert.Equal(t, PhaseLoading, observed)
	assert.Equal(t, PhaseAnswered, o.Phase())
}

func TestSubmitGuards(t *testing.T) {
	asker := okAsker("never called")

	t.Run("empty query", func(t *testing.T) {
		o := NewOrchestrator(asker, fixedSelection{"atlas-2021"}, nil, 0, nil)
		assert.False(t, o.Submit(context.Background(), "   \t  "))
		assert.Equal(t, PhaseIdle, o.Phase())
	})

	t.Run("no deal selected", func(t *testing.T) {
		o := NewOrchestrator(asker, fixedSelection{""}, nil, 0, nil)
		assert.False(t, o.Submit(context.Background(), "valid question"))
		assert.Equal(t, PhaseIdle, o.Phase())
	})

	assert.Zero(t, asker.calls, "guarded submits must never reach the network")
}

func TestSubmitFailureEntersErrored(t *testing.T) {
	hist := &recordingHistory{}
	asker := &fakeAsker{fn: func(ctx context.Context, dealID, query string, topK int) (*api.AskResponse, error) {
		return nil, &api.Error{Endpoint: "POST /ask", Status: 500}
	}}
	o := NewOrchestrator(asker, fixedSelection{"atlas-2021"}, hist, 0, nil)

	require.True(t, o.Submit(context.Background(), "q"))

	snap := o.Snapshot()
	assert.Equal(t, PhaseErrored, snap.Phase)
	assert.Nil(t, snap.Answer)
	assert.Equal(t, AskFailureMessage, snap.ErrMsg)
	assert.Empty(t, hist.appends, "failed asks must not touch history")
}

func TestErrorDiscardsPriorAnswer(t *testing.T) {
	fail := false
	asker := &fakeAsker{fn: func(ctx context.Context, dealID, query string, topK int) (*api.AskResponse, error) {
		if fail {
			return nil, &api.Error{Endpoint: "POST /ask", Status: 503}
		}
		return &api.AskResponse{DealID: dealID, Query: query, Answer: "first answer"}, nil
	}}
	o := NewOrchestrator(asker, fixedSelection{"atlas-2021"}, &recordingHistory{}, 0, nil)

	require.True(t, o.Submit(context.Background(), "q1"))
	require.Equal(t, PhaseAnswered, o.Phase())

	fail = true
	require.True(t, o.Submit(context.Background(), "q2"))

	snap := o.Snapshot()
	assert.Equal(t, PhaseErrored, snap.Phase)
	assert.Nil(t, snap.Answer, "answered and errored are mutually exclusive")
}

func TestSubmitIgnoredWhileLoading(t *testing.T) {
	release := make(chan struct{})
	entered := make(chan struct{})
	asker := &fakeAsker{fn: func(ctx context.Context, dealID, query string, topK int) (*api.AskResponse, error) {
		close(entered)
		<-release
		return &api.AskResponse{DealID: dealID, Query: query, Answer: "slow answer"}, nil
	}}
	o := NewOrchestrator(asker, fixedSelection{"atlas-2021"}, &recordingHistory{}, 0, nil)

	done := make(chan bool)
	go func() { done <- o.Submit(context.Background(), "first") }()

	<-entered
	assert.Equal(t, PhaseLoading, o.Phase())
	assert.False(t, o.Submit(context.Background(), "second"), "submit during loading is ignored")

	close(release)
	select {
	case accepted := <-done:
		assert.True(t, accepted)
	case <-time.After(5 * time.Second):
		t.Fatal("first submit never completed")
	}

	snap := o.Snapshot()
	assert.Equal(t, PhaseAnswered, snap.Phase)
	assert.Equal(t, "first", snap.Answer.Query)
	assert.Equal(t, 1, asker.calls)
}

func TestReset(t *testing.T) {
	o := NewOrchestrator(okAsker("answer"), fixedSelection{"atlas-2021"}, &recordingHistory{}, 0, nil)

	require.True(t, o.Submit(context.Background(), "q"))
	require.Equal(t, PhaseAnswered, o.Phase())

	o.Reset()
	snap := o.Snapshot()
	assert.Equal(t, PhaseIdle, snap.Phase)
	assert.Nil(t, snap.Answer)
	assert.Empty(t, snap.ErrMsg)
}

func TestDefaultTopK(t *testing.T) {
	var gotTopK int
	asker := &fakeAsker{fn: func(ctx context.Context, dealID, query string, topK int) (*api.AskResponse, error) {
		gotTopK = topK
		return &api.AskResponse{DealID: dealID, Query: query, Answer: "ok"}, nil
	}}
	o := NewOrchestrator(asker, fixedSelection{"atlas-2021"}, nil, 0, nil)

	require.True(t, o.Submit(context.Background(), "q"))
	assert.Equal(t, DefaultTopK, gotTopK)
}
