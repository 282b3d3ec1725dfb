package session

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/veridianlabs/atlasq/internal/api"
)

// DefaultTopK bounds how many citation chunks the backend may return
// per ask. Not user-adjustable from the question flow.
const DefaultTopK = 3

// AskFailureMessage is the user-facing text for a failed ask call.
const AskFailureMessage = "We tried. The deal tried. The server tried. All parties failed. " +
	"Consider this query officially rejected."

// Asker is the backend call the orchestrator depends on.
type Asker interface {
	Ask(ctx context.Context, dealID, query string, topK int) (*api.AskResponse, error)
}

// Selection is the slice of the deal directory the orchestrator needs:
// which deal, if any, the next question targets.
type Selection interface {
	Selected() (string, bool)
}

// Recorder receives one history append per successful ask.
type Recorder interface {
	Append(deal, query string) bool
}

// Orchestrator runs the question state machine. At most one ask call is
// outstanding per instance; a Submit that arrives while one is in
// flight is ignored (see DESIGN.md for the ignore-vs-supersede choice).
// Each completed call performs exactly one state transition.
type Orchestrator struct {
	api     Asker
	deals   Selection
	history Recorder
	log     *zap.Logger
	topK    int

	mu     sync.Mutex
	phase  Phase
	answer *Answer
	errMsg string
}

// NewOrchestrator creates an orchestrator in PhaseIdle. topK <= 0
// falls back to DefaultTopK. history may be nil (answers then go
// unrecorded, used by one-shot commands that bypass history).
func NewOrchestrator(a Asker, deals Selection, history Recorder, topK int, log *zap.Logger) *Orchestrator {
	if topK <= 0 {
		topK = DefaultTopK
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Orchestrator{
		api:     a,
		deals:   deals,
		history: history,
		log:     log,
		topK:    topK,
		phase:   PhaseIdle,
	}
}

// Submit runs one question through the state machine and reports
// whether the submission was accepted. It is rejected silently — no
// state change — when the trimmed query is empty, no deal is selected,
// or another ask is already in flight. An accepted submission always
// ends in PhaseAnswered or PhaseErrored; read the outcome with
// Snapshot.
func (o *Orchestrator) Submit(ctx context.Context, query string) bool {
	q := strings.TrimSpace(query)

	o.mu.Lock()
	if o.phase == PhaseLoading {
		o.mu.Unlock()
		o.log.Debug("ask already in flight, ignoring submit")
		return false
	}
	deal, ok := o.deals.Selected()
	if q == "" || !ok {
		// Precondition guard, not an error: the UI should never let
		// an invalid submission reach the network.
		o.mu.Unlock()
		return false
	}
	o.phase = PhaseLoading
	o.answer = nil
	o.errMsg = ""
	o.mu.Unlock()

	reqID := uuid.NewString()
	o.log.Debug("submitting question",
		zap.String("request_id", reqID),
		zap.String("deal", deal),
		zap.Int("top_k", o.topK))

	res, err := o.api.Ask(ctx, deal, q, o.topK)

	o.mu.Lock()
	defer o.mu.Unlock()

	if err != nil {
		o.phase = PhaseErrored
		o.errMsg = AskFailureMessage
		o.log.Warn("ask failed", zap.String("request_id", reqID), zap.Error(err))
		return true
	}

	// The history append happens before the Answered phase becomes
	// observable, so a consumer that sees Answered is guaranteed to
	// find the entry.
	if o.history != nil {
		o.history.Append(deal, q)
	}

	answer := &Answer{
		Deal:      res.DealID,
		Query:     res.Query,
		Text:      res.Answer,
		Citations: res.Citations,
	}
	for _, src := range res.Sources {
		answer.Sources = append(answer.Sources, Source{
			ChunkID: src.ChunkID,
			Section: src.Section,
			Clause:  src.Clause,
			Preview: src.Preview,
		})
	}
	o.answer = answer
	o.phase = PhaseAnswered
	o.log.Debug("ask answered",
		zap.String("request_id", reqID),
		zap.Int("citations", len(answer.Citations)))
	return true
}

// Reset is the "new question" action: back to PhaseIdle from any
// state, discarding the current answer or error.
func (o *Orchestrator) Reset() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.phase = PhaseIdle
	o.answer = nil
	o.errMsg = ""
}

// Snapshot returns the current state.
func (o *Orchestrator) Snapshot() Snapshot {
	o.mu.Lock()
	defer o.mu.Unlock()
	return Snapshot{Phase: o.phase, Answer: o.answer, ErrMsg: o.errMsg}
}

// Phase returns the current phase.
func (o *Orchestrator) Phase() Phase {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.phase
}
