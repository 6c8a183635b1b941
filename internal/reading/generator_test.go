package reading

import (
	"context"
	"encoding/json"
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/abhisek/lezen/internal/llm"
)

const fencedPayload = "```json\n" +
	`{"title":"T","text":"Body.","questions":[{"question":"Q1","options":{"A":"a","B":"b","C":"c","D":"d"},"answer":"B"}]}` +
	"\n```"

func testRequest(count int) Request {
	return Request{
		Grade:         "Groep 5",
		Length:        LengthShort,
		QuestionCount: count,
		Topic:         "Vulkanen",
	}
}

func newTestGenerator(responses ...llm.MockResponse) (*LLMGenerator, *llm.MockProvider) {
	mock := llm.NewMockProvider(responses...)
	return New(mock, DefaultConfig(), nil), mock
}

func TestGenerate_FencedPayloadRoundTrip(t *testing.T) {
	gen, mock := newTestGenerator(llm.MockResponse{Content: json.RawMessage(fencedPayload)})

	got, err := gen.Generate(context.Background(), testRequest(1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := &Content{
		Title: "T",
		Text:  "Body.",
		Questions: []Question{{
			Question: "Q1",
			Options:  Options{A: "a", B: "b", C: "c", D: "d"},
			Answer:   LabelB,
		}},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("decoded content mismatch:\n got %+v\nwant %+v", got, want)
	}
	if mock.CallCount() != 1 {
		t.Fatalf("expected 1 provider call, got %d", mock.CallCount())
	}
}

func TestGenerate_UnfencedPayload(t *testing.T) {
	payload := "  \n" + strings.TrimSuffix(strings.TrimPrefix(fencedPayload, "```json\n"), "\n```") + "\n"
	gen, _ := newTestGenerator(llm.MockResponse{Content: json.RawMessage(payload)})

	got, err := gen.Generate(context.Background(), testRequest(1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Title != "T" || len(got.Questions) != 1 {
		t.Fatalf("unexpected content: %+v", got)
	}
}

func TestGenerate_SendsPromptAndSchema(t *testing.T) {
	gen, mock := newTestGenerator(llm.MockResponse{Content: json.RawMessage(fencedPayload)})
	req := testRequest(1)

	if _, err := gen.Generate(context.Background(), req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	call, ok := mock.LastCall()
	if !ok {
		t.Fatal("expected a provider call")
	}
	if call.Schema != ContentSchema {
		t.Error("expected ContentSchema on the request")
	}
	if len(call.Messages) != 1 || call.Messages[0].Role != llm.RoleUser {
		t.Fatalf("expected a single user message, got %+v", call.Messages)
	}
	if call.Messages[0].Content != BuildPrompt(req) {
		t.Error("expected the built prompt as the user message")
	}
	if call.MaxTokens != 8192 || call.Temperature != 0.7 {
		t.Errorf("unexpected limits: %d / %f", call.MaxTokens, call.Temperature)
	}
}

func TestGenerate_BlankTopicMakesNoCall(t *testing.T) {
	gen, mock := newTestGenerator(llm.MockResponse{Content: json.RawMessage(fencedPayload)})

	for _, topic := range []string{"", "   ", "\t\n"} {
		req := testRequest(1)
		req.Topic = topic
		_, err := gen.Generate(context.Background(), req)

		var inErr *InputError
		if !errors.As(err, &inErr) {
			t.Fatalf("topic %q: expected *InputError, got %T (%v)", topic, err, err)
		}
		if errors.Is(err, ErrGeneration) {
			t.Fatalf("topic %q: input errors must not be generation errors", topic)
		}
	}
	if mock.CallCount() != 0 {
		t.Fatalf("expected no provider calls, got %d", mock.CallCount())
	}
}

func TestGenerate_MissingTopLevelFields(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{"missing title", `{"text":"Body.","questions":[{"question":"Q1","options":{"A":"a","B":"b","C":"c","D":"d"},"answer":"B"}]}`},
		{"missing text", `{"title":"T","questions":[{"question":"Q1","options":{"A":"a","B":"b","C":"c","D":"d"},"answer":"B"}]}`},
		{"missing questions", `{"title":"T","text":"Body."}`},
		{"null payload", `null`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen, _ := newTestGenerator(llm.MockResponse{Content: json.RawMessage(tt.payload)})
			got, err := gen.Generate(context.Background(), testRequest(1))
			if got != nil {
				t.Fatal("expected no content on failure")
			}
			if !errors.Is(err, ErrGeneration) {
				t.Fatalf("expected generation error, got %v", err)
			}
			if KindOf(err) != KindMissingField {
				t.Errorf("kind = %q, want %q", KindOf(err), KindMissingField)
			}
		})
	}
}

func TestGenerate_AnswerOutsideLabels(t *testing.T) {
	payload := `{"title":"T","text":"Body.","questions":[{"question":"Q1","options":{"A":"a","B":"b","C":"c","D":"d"},"answer":"E"}]}`
	gen, _ := newTestGenerator(llm.MockResponse{Content: json.RawMessage(payload)})

	_, err := gen.Generate(context.Background(), testRequest(1))
	if KindOf(err) != KindInvalidQuestion {
		t.Fatalf("expected %q, got %v", KindInvalidQuestion, err)
	}
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Validator != "question" {
		t.Fatalf("expected question validator failure, got %v", err)
	}
}

func TestGenerate_MalformedPayload(t *testing.T) {
	for _, payload := range []string{"", "```json\n```", "{not json", `["T"]`, "Sorry, dat kan ik niet."} {
		gen, _ := newTestGenerator(llm.MockResponse{Content: json.RawMessage(payload)})
		_, err := gen.Generate(context.Background(), testRequest(1))
		if KindOf(err) != KindMalformed {
			t.Errorf("payload %q: expected %q, got %v", payload, KindMalformed, err)
		}
	}
}

func TestGenerate_ExtraFieldsRejectedBySchema(t *testing.T) {
	payload := `{"title":"T","text":"Body.","questions":[{"question":"Q1","options":{"A":"a","B":"b","C":"c","D":"d"},"answer":"B","uitleg":"x"}]}`
	gen, _ := newTestGenerator(llm.MockResponse{Content: json.RawMessage(payload)})

	_, err := gen.Generate(context.Background(), testRequest(1))
	if KindOf(err) != KindSchema {
		t.Fatalf("expected %q, got %v", KindSchema, err)
	}
}

func TestGenerate_CountMismatch(t *testing.T) {
	t.Run("lenient", func(t *testing.T) {
		core, logs := observer.New(zap.WarnLevel)
		mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(fencedPayload)})
		gen := New(mock, DefaultConfig(), zap.New(core))

		got, err := gen.Generate(context.Background(), testRequest(3))
		if err != nil {
			t.Fatalf("expected lenient acceptance, got %v", err)
		}
		if len(got.Questions) != 1 {
			t.Fatalf("expected the returned question, got %d", len(got.Questions))
		}
		if logs.FilterMessage("content accepted with warning").Len() != 1 {
			t.Fatal("expected a warning log for the count mismatch")
		}
	})

	t.Run("strict", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Validators = DefaultValidators(true)
		mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(fencedPayload)})
		gen := New(mock, cfg, nil)

		_, err := gen.Generate(context.Background(), testRequest(3))
		if KindOf(err) != KindCountMismatch {
			t.Fatalf("expected %q, got %v", KindCountMismatch, err)
		}
	})
}

func TestGenerate_ProviderErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"unavailable", &llm.ErrProviderUnavailable{Err: errors.New("dial tcp")}, KindTransport},
		{"invalid response", &llm.ErrInvalidResponse{Err: errors.New("no text")}, KindMalformed},
		{"truncated", &llm.ErrMaxTokensExceeded{}, KindMalformed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen, mock := newTestGenerator(llm.MockResponse{Err: tt.err})
			_, err := gen.Generate(context.Background(), testRequest(1))
			if KindOf(err) != tt.want {
				t.Fatalf("kind = %q, want %q (err %v)", KindOf(err), tt.want, err)
			}
			if !errors.Is(err, tt.err) {
				t.Fatal("expected provider error to stay reachable")
			}
			if mock.CallCount() != 1 {
				t.Fatalf("expected exactly one call, got %d", mock.CallCount())
			}
			if cat, msg := Describe(err); cat != CategoryGeneration || msg != MsgGeneration {
				t.Fatalf("Describe() = (%q, %q)", cat, msg)
			}
		})
	}
}

func TestGenerate_Timeout(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(fencedPayload), Delay: time.Second})
	gen := New(llm.WithTimeout(mock, 20*time.Millisecond), DefaultConfig(), nil)

	_, err := gen.Generate(context.Background(), testRequest(1))
	if KindOf(err) != KindTimeout {
		t.Fatalf("expected %q, got %v", KindTimeout, err)
	}
	if mock.CallCount() != 1 {
		t.Fatalf("expected no retry, got %d calls", mock.CallCount())
	}
}

func TestGenerate_SetsPurposeAndRequestID(t *testing.T) {
	var purpose, requestID string
	capture := providerFunc(func(ctx context.Context, _ llm.Request) (*llm.Response, error) {
		purpose = llm.PurposeFrom(ctx)
		requestID = llm.RequestIDFrom(ctx)
		return &llm.Response{Content: json.RawMessage(fencedPayload)}, nil
	})
	gen := New(capture, DefaultConfig(), nil)

	if _, err := gen.Generate(context.Background(), testRequest(1)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if purpose != Purpose {
		t.Errorf("purpose = %q, want %q", purpose, Purpose)
	}
	if requestID == "" {
		t.Error("expected a request id on the context")
	}
}

func TestDecode(t *testing.T) {
	raw, c, err := Decode(fencedPayload)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(string(raw), "{") || !strings.HasSuffix(string(raw), "}") {
		t.Fatalf("expected normalized payload, got %q", raw)
	}
	if c.Questions[0].CorrectOption() != "b" {
		t.Fatalf("unexpected decoded content: %+v", c)
	}
}

type providerFunc func(ctx context.Context, req llm.Request) (*llm.Response, error)

func (f providerFunc) Generate(ctx context.Context, req llm.Request) (*llm.Response, error) {
	return f(ctx, req)
}

func (f providerFunc) ModelID() string { return "func" }
