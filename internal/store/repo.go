package store

import "time"

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit   int    // max results (0 = unlimited)
	After   int64  // id > After
	Purpose string // exact purpose match ("" = any)
}

// LLMRequestEventData captures the metadata of a single model request.
// Prompt and response bodies are deliberately not part of it.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
}

// LLMRequestEventRecord is a stored request event.
type LLMRequestEventRecord struct {
	ID        int64
	Timestamp time.Time
	LLMRequestEventData
}

// LLMUsageStats aggregates usage for one purpose.
type LLMUsageStats struct {
	Purpose      string
	Calls        int
	Failures     int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64
}

// LLMModelUsage aggregates token usage for one model.
type LLMModelUsage struct {
	Model        string
	Calls        int
	InputTokens  int
	OutputTokens int
}
