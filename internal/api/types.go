package api

// Wire types for the Atlas backend. Field names follow the server's
// pydantic schemas; unknown extra fields are ignored on decode.

// AskRequest is the body of POST /ask/{deal_id} and POST /search/{deal_id}.
type AskRequest struct {
	DealID string `json:"deal_id"`
	Query  string `json:"query"`
	TopK   int    `json:"top_k"`
}

// SourceRef is a chunk preview attached to an answer.
type SourceRef struct {
	ChunkID string `json:"chunk_id"`
	Section string `json:"section,omitempty"`
	Clause  string `json:"clause,omitempty"`
	Preview string `json:"preview"`
	Deal    string `json:"deal,omitempty"`
}

// AskResponse is the full RAG answer for one question.
type AskResponse struct {
	DealID      string      `json:"deal_id"`
	Query       string      `json:"query"`
	Answer      string      `json:"answer"`
	Citations   []string    `json:"citations"`
	SourceCount int         `json:"source_count"`
	Sources     []SourceRef `json:"sources"`
}

// DealList is the response of GET /deals.
type DealList struct {
	Deals []string `json:"deals"`
}

// ChunkMetadata carries the clause-level metadata stored alongside each
// indexed chunk. The index writes more keys than these; only the ones
// the client renders are decoded.
type ChunkMetadata struct {
	ClauseTitle string `json:"clause_title"`
	SectionID   string `json:"section_id"`
	ClauseID    string `json:"clause_id"`
}

// ChunkResponse is the raw collection lookup returned by
// GET /chunk/{deal_id}/{chunk_id}. The first element of each list is
// the chunk itself.
type ChunkResponse struct {
	Documents []string        `json:"documents"`
	Metadatas []ChunkMetadata `json:"metadatas"`
}

// SearchResult is one retrieval-only hit.
type SearchResult struct {
	ChunkID string `json:"chunk_id"`
	Section string `json:"section,omitempty"`
	Clause  string `json:"clause,omitempty"`
	Preview string `json:"preview"`
}

// SearchResponse is the response of POST /search/{deal_id}.
type SearchResponse struct {
	DealID  string         `json:"deal_id"`
	Query   string         `json:"query"`
	Count   int            `json:"count"`
	Results []SearchResult `json:"results"`
}

// DealDocuments lists the raw and processed files behind a deal.
type DealDocuments struct {
	DealID    string `json:"deal_id"`
	Documents struct {
		Raw       []string `json:"raw"`
		Processed []string `json:"processed"`
	} `json:"documents"`
}
