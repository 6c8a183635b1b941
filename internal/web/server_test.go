package web

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/lezen/internal/export"
	"github.com/abhisek/lezen/internal/llm"
	"github.com/abhisek/lezen/internal/reading"
	"github.com/abhisek/lezen/internal/session"
)

const payload = "```json\n" +
	`{"title":"De T-Rex","text":"De T-Rex leefde lang geleden.\n\nHij was heel groot.",` +
	`"questions":[{"question":"Wanneer leefde de T-Rex?","options":{"A":"Gisteren","B":"Lang geleden","C":"Nu","D":"Morgen"},"answer":"B"}]}` +
	"\n```"

func newTestServer(t *testing.T, exporter export.Exporter, responses ...llm.MockResponse) (*Server, *llm.MockProvider, *httptest.Server) {
	t.Helper()
	mock := llm.NewMockProvider(responses...)
	s := New(reading.New(mock, reading.DefaultConfig(), nil), exporter, Options{
		AllowedOrigins: []string{"http://school.test"},
	}, nil)
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return s, mock, ts
}

// noRedirect keeps 303 responses visible to the test.
func noRedirect(ts *httptest.Server) *http.Client {
	c := ts.Client()
	c.CheckRedirect = func(*http.Request, []*http.Request) error { return http.ErrUseLastResponse }
	return c
}

func get(t *testing.T, ts *httptest.Server, path string) (*http.Response, string) {
	t.Helper()
	resp, err := ts.Client().Get(ts.URL + path)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func postForm(t *testing.T, ts *httptest.Server, path string, form url.Values) *http.Response {
	t.Helper()
	resp, err := noRedirect(ts).PostForm(ts.URL+path, form)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func postJSON(t *testing.T, ts *httptest.Server, path, body string) (*http.Response, map[string]any) {
	t.Helper()
	resp, err := ts.Client().Post(ts.URL+path, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	var out map[string]any
	if resp.StatusCode != http.StatusNoContent {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	}
	return resp, out
}

func validForm() url.Values {
	return url.Values{
		"grade":     {"Groep 5"},
		"length":    {"kort"},
		"questions": {"1"},
		"topic":     {"dinosaurussen"},
	}
}

func TestHealthz(t *testing.T) {
	_, _, ts := newTestServer(t, nil)
	resp, body := get(t, ts, "/healthz")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"status":"ok"}`, body)
}

func TestIndex_IdleShowsForm(t *testing.T) {
	_, _, ts := newTestServer(t, nil)
	resp, body := get(t, ts, "/")

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")
	assert.Contains(t, body, AppTitle)
	assert.Contains(t, body, `<option value="Groep 6" selected>Groep 6</option>`)
	assert.Contains(t, body, `<option value="middel" selected>Middel (≈ 150-250 woorden)</option>`)
	assert.Contains(t, body, `value="3" min="1" max="10"`)
	assert.NotContains(t, body, "Toon antwoord")
}

func TestGenerateForm_Success(t *testing.T) {
	s, mock, ts := newTestServer(t, export.NewDOCX(), llm.MockResponse{Content: []byte(payload)})

	resp := postForm(t, ts, "/generate", validForm())
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get("Location"))
	assert.Equal(t, 1, mock.CallCount())
	assert.Equal(t, session.PhaseSuccess, s.Session().State().Phase)

	_, body := get(t, ts, "/")
	assert.Contains(t, body, "<h2>De T-Rex</h2>")
	assert.Contains(t, body, "<p>De T-Rex leefde lang geleden.</p>")
	assert.Contains(t, body, "<p>Hij was heel groot.</p>")
	assert.Contains(t, body, "Vragen")
	assert.Contains(t, body, "1. Wanneer leefde de T-Rex?")
	assert.Contains(t, body, "Toon antwoord")
	assert.Contains(t, body, "Correct antwoord: B")
	assert.Contains(t, body, `<div class="option correct"><strong>B:</strong> Lang geleden</div>`)
	assert.Contains(t, body, "window.print()")
	assert.Contains(t, body, "Nieuwe tekst genereren")
	assert.Contains(t, body, `href="/export/worksheet"`)
}

func TestGenerateForm_BlankTopic(t *testing.T) {
	s, mock, ts := newTestServer(t, nil)

	form := validForm()
	form.Set("topic", "   ")
	resp := postForm(t, ts, "/generate", form)
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, 0, mock.CallCount())
	assert.Equal(t, session.PhaseFailed, s.Session().State().Phase)

	_, body := get(t, ts, "/")
	assert.Contains(t, body, reading.MsgBlankTopic)
	assert.Contains(t, body, `action="/dismiss"`)
	assert.Contains(t, body, `<option value="Groep 5" selected>Groep 5</option>`)

	postForm(t, ts, "/dismiss", nil)
	_, body = get(t, ts, "/")
	assert.NotContains(t, body, reading.MsgBlankTopic)
	assert.Equal(t, session.PhaseIdle, s.Session().State().Phase)
}

func TestGenerateForm_ProviderFailure(t *testing.T) {
	_, _, ts := newTestServer(t, nil, llm.MockResponse{Err: &llm.ErrProviderUnavailable{Err: errors.New("down")}})

	postForm(t, ts, "/generate", validForm())
	_, body := get(t, ts, "/")
	assert.Contains(t, body, reading.MsgGeneration)
}

func TestGenerateForm_Busy(t *testing.T) {
	s, mock, ts := newTestServer(t, nil)
	_, err := s.Session().Begin(reading.DefaultRequest())
	require.NoError(t, err)

	resp := postForm(t, ts, "/generate", validForm())
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), MsgBusy)
	assert.Contains(t, string(body), "Even geduld...")
	assert.Equal(t, 0, mock.CallCount())
}

func TestReset(t *testing.T) {
	s, _, ts := newTestServer(t, nil, llm.MockResponse{Content: []byte(payload)})
	postForm(t, ts, "/generate", validForm())
	require.Equal(t, session.PhaseSuccess, s.Session().State().Phase)

	resp := postForm(t, ts, "/reset", nil)
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)

	_, body := get(t, ts, "/")
	assert.NotContains(t, body, "Toon antwoord")
	assert.Contains(t, body, `value="dinosaurussen"`)
}

func TestAPIGenerate_Success(t *testing.T) {
	_, mock, ts := newTestServer(t, nil, llm.MockResponse{Content: []byte(payload)})

	resp, out := postJSON(t, ts, "/api/generate", `{"grade":"7","length":"lang","questions":1,"topic":"dinosaurussen"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "success", out["phase"])

	content := out["content"].(map[string]any)
	assert.Equal(t, "De T-Rex", content["title"])
	assert.Len(t, content["questions"], 1)

	req := out["request"].(map[string]any)
	assert.Equal(t, "Groep 7", req["grade"])
	assert.Equal(t, "long", req["length"])

	call, ok := mock.LastCall()
	require.True(t, ok)
	assert.Contains(t, call.Messages[0].Content, "Groepsniveau: Groep 7")
}

func TestAPIGenerate_Defaults(t *testing.T) {
	_, mock, ts := newTestServer(t, nil, llm.MockResponse{Content: []byte(payload)})

	resp, out := postJSON(t, ts, "/api/generate", `{"topic":"dinosaurussen"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	req := out["request"].(map[string]any)
	assert.Equal(t, "Groep 6", req["grade"])
	assert.Equal(t, "medium", req["length"])
	assert.EqualValues(t, 3, req["questions"])
	assert.Equal(t, 1, mock.CallCount())
}

func TestAPIGenerate_Errors(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		response llm.MockResponse
		status   int
		category string
		field    string
		kind     string
	}{
		{
			name:     "blank topic",
			body:     `{"topic":""}`,
			status:   http.StatusBadRequest,
			category: "input",
			field:    "topic",
		},
		{
			name:     "too many questions",
			body:     `{"topic":"x","questions":11}`,
			status:   http.StatusBadRequest,
			category: "input",
			field:    "questions",
		},
		{
			name:     "unknown grade",
			body:     `{"topic":"x","grade":"9"}`,
			status:   http.StatusBadRequest,
			category: "input",
			field:    "grade",
		},
		{
			name:     "provider down",
			body:     `{"topic":"x","questions":1}`,
			response: llm.MockResponse{Err: &llm.ErrProviderUnavailable{Err: errors.New("down")}},
			status:   http.StatusBadGateway,
			category: "generation",
			kind:     "transport",
		},
		{
			name:     "missing title",
			body:     `{"topic":"x","questions":1}`,
			response: llm.MockResponse{Content: []byte(`{"text":"t","questions":[]}`)},
			status:   http.StatusBadGateway,
			category: "generation",
			kind:     "missing_field",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, ts := newTestServer(t, nil, tt.response)
			resp, out := postJSON(t, ts, "/api/generate", tt.body)

			assert.Equal(t, tt.status, resp.StatusCode)
			assert.Equal(t, tt.category, out["category"])
			if tt.field != "" {
				assert.Equal(t, tt.field, out["field"])
			}
			if tt.kind != "" {
				assert.Equal(t, tt.kind, out["kind"])
				assert.Equal(t, reading.MsgGeneration, out["error"])
			}
		})
	}
}

func TestAPIGenerate_InvalidBody(t *testing.T) {
	_, mock, ts := newTestServer(t, nil)
	resp, _ := postJSON(t, ts, "/api/generate", `{not json`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, 0, mock.CallCount())
}

func TestAPIGenerate_Busy(t *testing.T) {
	s, mock, ts := newTestServer(t, nil)
	_, err := s.Session().Begin(reading.DefaultRequest())
	require.NoError(t, err)

	resp, out := postJSON(t, ts, "/api/generate", `{"topic":"x"}`)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, MsgBusy, out["error"])
	assert.Equal(t, 0, mock.CallCount())
}

func TestAPIStateAndReset(t *testing.T) {
	_, _, ts := newTestServer(t, nil, llm.MockResponse{Content: []byte(payload)})

	_, body := get(t, ts, "/api/state")
	var st map[string]any
	require.NoError(t, json.Unmarshal([]byte(body), &st))
	assert.Equal(t, "idle", st["phase"])
	assert.NotContains(t, st, "content")

	postJSON(t, ts, "/api/generate", `{"topic":"dinosaurussen","questions":1}`)
	_, body = get(t, ts, "/api/state")
	require.NoError(t, json.Unmarshal([]byte(body), &st))
	assert.Equal(t, "success", st["phase"])
	assert.Contains(t, st, "content")

	resp, _ := postJSON(t, ts, "/api/reset", "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	_, body = get(t, ts, "/api/state")
	st = nil
	require.NoError(t, json.Unmarshal([]byte(body), &st))
	assert.Equal(t, "idle", st["phase"])
}

func TestExport(t *testing.T) {
	_, _, ts := newTestServer(t, export.NewDOCX(), llm.MockResponse{Content: []byte(payload)})

	resp, _ := get(t, ts, "/export/worksheet")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode, "no content yet")

	postForm(t, ts, "/generate", validForm())

	resp, body := get(t, ts, "/export/worksheet")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, export.NewDOCX().MediaType(), resp.Header.Get("Content-Type"))
	assert.Equal(t, `attachment; filename=de-t-rex-werkblad.docx`, resp.Header.Get("Content-Disposition"))
	assert.True(t, strings.HasPrefix(body, "PK"), "docx is a zip archive")

	resp, _ = get(t, ts, "/api/export/antwoorden")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "de-t-rex-antwoorden.docx")

	resp, _ = get(t, ts, "/export/pdf")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestExport_TextExporter(t *testing.T) {
	_, _, ts := newTestServer(t, export.NewText(), llm.MockResponse{Content: []byte(payload)})
	postForm(t, ts, "/generate", validForm())

	resp, body := get(t, ts, "/export/answers")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "1. B: Lang geleden")
}

func TestExport_Unavailable(t *testing.T) {
	_, _, ts := newTestServer(t, nil, llm.MockResponse{Content: []byte(payload)})
	postForm(t, ts, "/generate", validForm())

	_, page := get(t, ts, "/")
	assert.NotContains(t, page, `href="/export/worksheet"`)

	resp, _ := get(t, ts, "/export/worksheet")
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestCORSPreflight(t *testing.T) {
	_, _, ts := newTestServer(t, nil)

	req, err := http.NewRequest(http.MethodOptions, ts.URL+"/api/generate", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://school.test")
	req.Header.Set("Access-Control-Request-Method", "POST")

	resp, err := ts.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "http://school.test", resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestParseRequest(t *testing.T) {
	req := parseRequest("groep 8", "Lang", " 4 ", "Ruimte")
	assert.Equal(t, reading.Request{Grade: "Groep 8", Length: reading.LengthLong, QuestionCount: 4, Topic: "Ruimte"}, req)

	bad := parseRequest("12", "x", "veel", "")
	assert.Equal(t, reading.Grade("12"), bad.Grade)
	assert.Equal(t, reading.Length("x"), bad.Length)
	assert.Zero(t, bad.QuestionCount)
}
