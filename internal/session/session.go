// Package session owns the lifecycle of one in-flight question and the
// state the UI renders: idle, loading, answered, or errored.
package session

// Phase is the current phase of the question lifecycle.
type Phase string

const (
	PhaseIdle     Phase = "idle"
	PhaseLoading  Phase = "loading"
	PhaseAnswered Phase = "answered"
	PhaseErrored  Phase = "errored"
)

// Answer is the result of one successful ask call. It is replaced
// wholesale by the next submission and cleared on reset.
type Answer struct {
	Deal  string
	Query string
	Text  string
	// Citations preserves the backend's order, duplicates included;
	// order reflects relevance and must not be collapsed client-side.
	Citations []string
	Sources   []Source
}

// Source is a chunk preview attached to an answer.
type Source struct {
	ChunkID string
	Section string
	Clause  string
	Preview string
}

// Snapshot is an immutable view of the orchestrator state. Answer is
// only set in PhaseAnswered, ErrMsg only in PhaseErrored.
type Snapshot struct {
	Phase  Phase
	Answer *Answer
	ErrMsg string
}
