package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/abhisek/lezen/internal/store"
)

// EventRecorder persists request metadata. *store.EventRepo satisfies it.
type EventRecorder interface {
	AppendLLMRequest(ctx context.Context, data store.LLMRequestEventData) error
}

// LoggingProvider is a decorator that logs every model request and
// optionally records it as an event. Prompt and response bodies are only
// written to the debug log, never to the event store.
type LoggingProvider struct {
	inner    Provider
	provider string
	log      *zap.Logger
	recorder EventRecorder
}

// WithLogging wraps a Provider with structured logging. recorder may be nil.
func WithLogging(p Provider, provider string, log *zap.Logger, recorder EventRecorder) Provider {
	if log == nil {
		log = zap.NewNop()
	}
	return &LoggingProvider{inner: p, provider: provider, log: log, recorder: recorder}
}

func (l *LoggingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	purpose := PurposeFrom(ctx)

	fields := []zap.Field{
		zap.String("provider", l.provider),
		zap.String("model", l.inner.ModelID()),
		zap.String("purpose", purpose),
	}
	if id := RequestIDFrom(ctx); id != "" {
		fields = append(fields, zap.String("request_id", id))
	}
	if ce := l.log.Check(zap.DebugLevel, "llm request"); ce != nil {
		ce.Write(append(fields, zap.String("body", serializeRequest(req)))...)
	}

	resp, err := l.inner.Generate(ctx, req)

	latency := time.Since(start)
	data := store.LLMRequestEventData{
		Provider:  l.provider,
		Model:     l.inner.ModelID(),
		Purpose:   purpose,
		LatencyMs: latency.Milliseconds(),
		Success:   err == nil,
	}
	if resp != nil {
		data.InputTokens = resp.Usage.InputTokens
		data.OutputTokens = resp.Usage.OutputTokens
		if resp.Model != "" {
			data.Model = resp.Model
		}
	}

	fields = append(fields, zap.Duration("latency", latency))
	if err != nil {
		data.ErrorMessage = err.Error()
		l.log.Warn("llm request failed", append(fields, zap.Error(err))...)
	} else {
		fields = append(fields,
			zap.Int("input_tokens", data.InputTokens),
			zap.Int("output_tokens", data.OutputTokens),
		)
		if cost := LookupCost(data.Model); cost != nil {
			fields = append(fields, zap.Float64("cost_usd", cost.Cost(data.InputTokens, data.OutputTokens)))
		}
		l.log.Info("llm request", fields...)
		l.log.Debug("llm response", zap.String("body", resp.Text()))
	}

	if l.recorder != nil {
		// Timed out and cancelled calls are recorded too, so the write
		// must not inherit the request deadline.
		if recErr := l.recorder.AppendLLMRequest(context.WithoutCancel(ctx), data); recErr != nil {
			l.log.Warn("failed to record llm request event", zap.Error(recErr))
		}
	}

	return resp, err
}

func (l *LoggingProvider) ModelID() string {
	return l.inner.ModelID()
}

// serializeRequest builds a readable representation of the request.
func serializeRequest(req Request) string {
	var b strings.Builder

	if req.System != "" {
		b.WriteString("[system]\n")
		b.WriteString(req.System)
		b.WriteString("\n\n")
	}

	for _, m := range req.Messages {
		fmt.Fprintf(&b, "[%s]\n", m.Role)
		b.WriteString(m.Content)
		b.WriteString("\n\n")
	}

	if req.Schema != nil {
		fmt.Fprintf(&b, "[schema: %s]\n", req.Schema.Name)
	}

	return b.String()
}
