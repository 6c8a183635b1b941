package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

const llmEventsTable = "llm_request_events"

var llmEventColumns = []string{
	"id", "created_at", "provider", "model", "purpose",
	"input_tokens", "output_tokens", "latency_ms", "success", "error_message",
}

// EventRepo provides append and query access to LLM request events.
type EventRepo struct {
	db  *sql.DB
	now func() time.Time
}

func (r *EventRepo) clock() time.Time {
	if r.now != nil {
		return r.now()
	}
	return time.Now()
}

// AppendLLMRequest records a model API call.
func (r *EventRepo) AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error {
	query, args := builder().Insert(llmEventsTable).
		Columns(llmEventColumns[1:]...).
		Values(
			r.clock().UnixMilli(),
			data.Provider,
			data.Model,
			data.Purpose,
			data.InputTokens,
			data.OutputTokens,
			data.LatencyMs,
			data.Success,
			data.ErrorMessage,
		).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save LLM request event: %w", err)
	}
	return nil
}

// QueryLLMEvents returns events newest first.
func (r *EventRepo) QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMRequestEventRecord, error) {
	sel := builder().Select(llmEventColumns...).
		From(entsql.Table(llmEventsTable)).
		OrderBy(entsql.Desc("id"))
	if opts.After > 0 {
		sel.Where(entsql.GT("id", opts.After))
	}
	if opts.Purpose != "" {
		sel.Where(entsql.EQ("purpose", opts.Purpose))
	}
	if opts.Limit > 0 {
		sel.Limit(opts.Limit)
	}

	query, args := sel.Query()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query LLM events: %w", err)
	}
	defer rows.Close()

	var out []LLMRequestEventRecord
	for rows.Next() {
		rec, err := scanLLMEvent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// GetLLMEvent returns a single event, or nil if it does not exist.
func (r *EventRepo) GetLLMEvent(ctx context.Context, id int64) (*LLMRequestEventRecord, error) {
	query, args := builder().Select(llmEventColumns...).
		From(entsql.Table(llmEventsTable)).
		Where(entsql.EQ("id", id)).
		Query()

	rec, err := scanLLMEvent(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// LLMUsageByPurpose aggregates calls and tokens per purpose label.
func (r *EventRepo) LLMUsageByPurpose(ctx context.Context) ([]LLMUsageStats, error) {
	query, args := builder().Select(
		"purpose",
		entsql.As(entsql.Count("*"), "calls"),
		entsql.As("SUM(CASE WHEN success = 0 THEN 1 ELSE 0 END)", "failures"),
		entsql.As(entsql.Sum("input_tokens"), "input_tokens"),
		entsql.As(entsql.Sum("output_tokens"), "output_tokens"),
		entsql.As(entsql.Avg("latency_ms"), "avg_latency"),
	).
		From(entsql.Table(llmEventsTable)).
		GroupBy("purpose").
		OrderBy("purpose").
		Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query usage by purpose: %w", err)
	}
	defer rows.Close()

	var out []LLMUsageStats
	for rows.Next() {
		var st LLMUsageStats
		var avg float64
		if err := rows.Scan(&st.Purpose, &st.Calls, &st.Failures, &st.InputTokens, &st.OutputTokens, &avg); err != nil {
			return nil, fmt.Errorf("scan usage row: %w", err)
		}
		st.AvgLatencyMs = int64(avg)
		out = append(out, st)
	}
	return out, rows.Err()
}

// LLMUsageByModel aggregates calls and tokens per model ID.
func (r *EventRepo) LLMUsageByModel(ctx context.Context) ([]LLMModelUsage, error) {
	query, args := builder().Select(
		"model",
		entsql.As(entsql.Count("*"), "calls"),
		entsql.As(entsql.Sum("input_tokens"), "input_tokens"),
		entsql.As(entsql.Sum("output_tokens"), "output_tokens"),
	).
		From(entsql.Table(llmEventsTable)).
		GroupBy("model").
		OrderBy("model").
		Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query usage by model: %w", err)
	}
	defer rows.Close()

	var out []LLMModelUsage
	for rows.Next() {
		var mu LLMModelUsage
		if err := rows.Scan(&mu.Model, &mu.Calls, &mu.InputTokens, &mu.OutputTokens); err != nil {
			return nil, fmt.Errorf("scan model usage row: %w", err)
		}
		out = append(out, mu)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLLMEvent(row rowScanner) (LLMRequestEventRecord, error) {
	var rec LLMRequestEventRecord
	var createdMs int64
	err := row.Scan(
		&rec.ID,
		&createdMs,
		&rec.Provider,
		&rec.Model,
		&rec.Purpose,
		&rec.InputTokens,
		&rec.OutputTokens,
		&rec.LatencyMs,
		&rec.Success,
		&rec.ErrorMessage,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return rec, err
		}
		return rec, fmt.Errorf("scan LLM event: %w", err)
	}
	rec.Timestamp = time.UnixMilli(createdMs)
	return rec, nil
}
