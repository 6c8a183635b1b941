package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/abhisek/lezen/internal/export"
	"github.com/abhisek/lezen/internal/reading"
	"github.com/abhisek/lezen/internal/session"
)

// AppTitle is the page heading.
const AppTitle = "Begrijpend Lezen Assistent"

//go:embed templates/*.html
var templateFS embed.FS

type pages struct {
	page *template.Template
}

func mustParsePages() *pages {
	return &pages{page: template.Must(template.ParseFS(templateFS, "templates/page.html"))}
}

type choice struct {
	Value    string
	Label    string
	Selected bool
}

type optionView struct {
	Label   string
	Text    string
	Correct bool
}

type questionView struct {
	Number  int
	Text    string
	Options []optionView
	Answer  string
}

type resultView struct {
	Title      string
	Paragraphs []string
	Questions  []questionView
}

type pageData struct {
	AppTitle     string
	Phase        string
	Busy         bool
	Error        string
	Notice       string
	Grades       []choice
	Lengths      []choice
	Questions    int
	MinQuestions int
	MaxQuestions int
	Topic        string
	Result       *resultView
	CanExport    bool
}

func (s *Server) render(w http.ResponseWriter, status int, st session.State, notice string) {
	data := s.pageData(st, notice)

	var buf bytes.Buffer
	if err := s.pages.page.Execute(&buf, data); err != nil {
		s.log.Error("render page", zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func (s *Server) pageData(st session.State, notice string) pageData {
	req := st.Request
	data := pageData{
		AppTitle:     AppTitle,
		Phase:        st.Phase.String(),
		Busy:         st.Phase == session.PhaseRequesting,
		Error:        st.Message(),
		Notice:       notice,
		Questions:    req.QuestionCount,
		MinQuestions: reading.MinQuestions,
		MaxQuestions: reading.MaxQuestions,
		Topic:        req.Topic,
		CanExport:    export.Check(s.exporter) == nil,
	}
	if data.Questions == 0 {
		data.Questions = reading.DefaultQuestions
	}

	selectedGrade := req.Grade
	if !selectedGrade.Valid() {
		selectedGrade = reading.DefaultGrade
	}
	for _, g := range reading.Grades() {
		data.Grades = append(data.Grades, choice{Value: string(g), Label: string(g), Selected: g == selectedGrade})
	}

	selectedLength := req.Length
	if !selectedLength.Valid() {
		selectedLength = reading.DefaultLength
	}
	for _, l := range reading.Lengths() {
		lo, hi := l.WordRange()
		data.Lengths = append(data.Lengths, choice{
			Value:    l.Label(),
			Label:    fmt.Sprintf("%s (≈ %d-%d woorden)", capitalize(l.Label()), lo, hi),
			Selected: l == selectedLength,
		})
	}

	if st.Phase == session.PhaseSuccess && st.Content != nil {
		data.Result = newResultView(st.Content)
	}
	return data
}

func newResultView(c *reading.Content) *resultView {
	rv := &resultView{Title: c.Title, Paragraphs: c.Paragraphs()}
	for i, q := range c.Questions {
		qv := questionView{Number: i + 1, Text: q.Question, Answer: string(q.Answer)}
		q.Options.Each(func(l reading.Label, text string) {
			qv.Options = append(qv.Options, optionView{Label: string(l), Text: text, Correct: l == q.Answer})
		})
		rv.Questions = append(rv.Questions, qv)
	}
	return rv
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
