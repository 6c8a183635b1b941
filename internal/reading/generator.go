package reading

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/abhisek/lezen/internal/llm"
)

// Purpose labels reading generations in logs and the request log.
const Purpose = "reading-gen"

// Generator produces reading-comprehension content.
type Generator interface {
	// Generate validates req, makes exactly one model call and returns
	// fully validated content or an error. It never returns partial content.
	Generate(ctx context.Context, req Request) (*Content, error)
}

// LLMGenerator implements Generator on top of an llm.Provider. It holds no
// mutable state and is safe for concurrent use.
type LLMGenerator struct {
	provider llm.Provider
	config   Config
	log      *zap.Logger
}

// New creates a new LLMGenerator. log may be nil.
func New(provider llm.Provider, cfg Config, log *zap.Logger) *LLMGenerator {
	if log == nil {
		log = zap.NewNop()
	}
	return &LLMGenerator{provider: provider, config: cfg, log: log}
}

// Generate implements Generator.
func (g *LLMGenerator) Generate(ctx context.Context, req Request) (*Content, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	ctx = llm.WithPurpose(ctx, Purpose)
	ctx, requestID := llm.WithRequestID(ctx)
	log := g.log.With(
		zap.String("request_id", requestID),
		zap.String("grade", string(req.Grade)),
		zap.String("length", string(req.Length)),
		zap.Int("questions", req.QuestionCount),
	)

	start := time.Now()
	content, err := g.generate(ctx, req, log)
	if err != nil {
		log.Warn("reading generation failed",
			zap.String("kind", string(KindOf(err))),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err),
		)
		return nil, err
	}

	log.Info("reading generated",
		zap.String("title", content.Title),
		zap.Int("returned_questions", len(content.Questions)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return content, nil
}

func (g *LLMGenerator) generate(ctx context.Context, req Request, log *zap.Logger) (*Content, error) {
	resp, err := g.provider.Generate(ctx, llm.Request{
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: BuildPrompt(req)},
		},
		Schema:      ContentSchema,
		MaxTokens:   g.config.MaxTokens,
		Temperature: g.config.Temperature,
	})
	if err != nil {
		return nil, &GenerationError{Kind: providerKind(err), Err: err}
	}

	raw, content, err := Decode(resp.Text())
	if err != nil {
		return nil, err
	}

	for _, v := range g.config.Validators {
		verr := v.Validate(content, req, raw)
		if verr == nil {
			continue
		}
		if verr.Warning {
			log.Warn("content accepted with warning",
				zap.String("validator", verr.Validator),
				zap.String("kind", string(verr.Kind)),
				zap.String("detail", verr.Message),
			)
			continue
		}
		return nil, &GenerationError{Kind: verr.Kind, Err: verr}
	}

	return content, nil
}

// Decode normalizes a model payload (trimming whitespace and Markdown code
// fences) and decodes it. It returns the normalized bytes alongside the
// content. Decode does not validate beyond JSON well-formedness.
func Decode(payload string) (json.RawMessage, *Content, error) {
	raw := json.RawMessage(llm.StripCodeFences(payload))
	if len(raw) == 0 {
		return nil, nil, &GenerationError{Kind: KindMalformed, Err: errors.New("empty payload")}
	}

	var content Content
	if err := json.Unmarshal(raw, &content); err != nil {
		return nil, nil, &GenerationError{
			Kind: KindMalformed,
			Err:  fmt.Errorf("decode payload: %w", err),
		}
	}
	return raw, &content, nil
}

// providerKind classifies an error returned by the provider chain.
func providerKind(err error) Kind {
	var invErr *llm.ErrInvalidResponse
	var maxTok *llm.ErrMaxTokensExceeded
	switch {
	case errors.Is(err, llm.ErrTimeout), errors.Is(err, context.DeadlineExceeded):
		return KindTimeout
	case errors.As(err, &invErr), errors.As(err, &maxTok):
		return KindMalformed
	default:
		return KindTransport
	}
}
