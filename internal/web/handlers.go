package web

import (
	"encoding/json"
	"errors"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/abhisek/lezen/internal/export"
	"github.com/abhisek/lezen/internal/reading"
	"github.com/abhisek/lezen/internal/session"
)

// MsgBusy is shown when a second generation is submitted while one is
// still running.
const MsgBusy = "Er wordt al een tekst gemaakt. Even geduld..."

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.render(w, http.StatusOK, s.session.State(), "")
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	req := parseRequest(r.PostForm.Get("grade"), r.PostForm.Get("length"),
		r.PostForm.Get("questions"), r.PostForm.Get("topic"))

	if _, err := s.session.Generate(r.Context(), s.gen, req); errors.Is(err, session.ErrBusy) {
		s.render(w, http.StatusConflict, s.session.State(), MsgBusy)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	s.session.Reset()
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleDismiss(w http.ResponseWriter, r *http.Request) {
	s.session.DismissError()
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	v, err := export.ParseVariant(chi.URLParam(r, "variant"))
	if err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}
	st := s.session.State()
	if st.Phase != session.PhaseSuccess || st.Content == nil {
		respondError(w, http.StatusNotFound, export.ErrNoContent.Error())
		return
	}
	if err := export.Check(s.exporter); err != nil {
		s.log.Warn("export requested but unavailable", zap.Error(err))
		respondError(w, http.StatusServiceUnavailable, export.ErrUnavailable.Error())
		return
	}

	doc := export.FromContent(st.Content)
	data, err := s.exporter.Export(doc, v)
	if err != nil {
		s.log.Error("export failed", zap.String("variant", string(v)), zap.Error(err))
		respondError(w, http.StatusInternalServerError, "export failed")
		return
	}

	name := export.Filename(doc, v, s.exporter.Extension())
	w.Header().Set("Content-Type", s.exporter.MediaType())
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": name}))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// apiRequest is the JSON body of POST /api/generate. Omitted fields take
// the form defaults.
type apiRequest struct {
	Grade     string `json:"grade"`
	Length    string `json:"length"`
	Questions *int   `json:"questions"`
	Topic     string `json:"topic"`
}

type requestJSON struct {
	Grade     string `json:"grade"`
	Length    string `json:"length"`
	Questions int    `json:"questions"`
	Topic     string `json:"topic"`
}

type stateResponse struct {
	Phase   string           `json:"phase"`
	Request requestJSON      `json:"request"`
	Content *reading.Content `json:"content,omitempty"`
	Error   string           `json:"error,omitempty"`
}

type errorResponse struct {
	Error    string `json:"error"`
	Category string `json:"category,omitempty"`
	Field    string `json:"field,omitempty"`
	Kind     string `json:"kind,omitempty"`
}

func (s *Server) apiGenerate(w http.ResponseWriter, r *http.Request) {
	var body apiRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	req := parseRequest(orDefault(body.Grade, string(reading.DefaultGrade)),
		orDefault(body.Length, string(reading.DefaultLength)), "", body.Topic)
	req.QuestionCount = reading.DefaultQuestions
	if body.Questions != nil {
		req.QuestionCount = *body.Questions
	}

	content, err := s.session.Generate(r.Context(), s.gen, req)
	if err != nil {
		s.respondGenerateError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, stateResponse{
		Phase:   session.PhaseSuccess.String(),
		Request: toRequestJSON(req),
		Content: content,
	})
}

func (s *Server) respondGenerateError(w http.ResponseWriter, err error) {
	if errors.Is(err, session.ErrBusy) {
		respondJSON(w, http.StatusConflict, errorResponse{Error: MsgBusy})
		return
	}

	category, msg := reading.Describe(err)
	resp := errorResponse{Error: msg, Category: string(category)}
	status := http.StatusInternalServerError
	switch category {
	case reading.CategoryInput:
		var inErr *reading.InputError
		if errors.As(err, &inErr) {
			resp.Field = inErr.Field
		}
		status = http.StatusBadRequest
	case reading.CategoryGeneration:
		resp.Kind = string(reading.KindOf(err))
		status = http.StatusBadGateway
	}
	respondJSON(w, status, resp)
}

func (s *Server) apiState(w http.ResponseWriter, _ *http.Request) {
	st := s.session.State()
	respondJSON(w, http.StatusOK, stateResponse{
		Phase:   st.Phase.String(),
		Request: toRequestJSON(st.Request),
		Content: st.Content,
		Error:   st.Message(),
	})
}

func (s *Server) apiReset(w http.ResponseWriter, _ *http.Request) {
	s.session.Reset()
	w.WriteHeader(http.StatusNoContent)
}

// parseRequest builds a request from raw form values. Values that do not
// parse are kept as-is so Request.Validate reports them.
func parseRequest(grade, length, questions, topic string) reading.Request {
	req := reading.Request{Topic: topic}
	if g, err := reading.ParseGrade(grade); err == nil {
		req.Grade = g
	} else {
		req.Grade = reading.Grade(grade)
	}
	if l, err := reading.ParseLength(length); err == nil {
		req.Length = l
	} else {
		req.Length = reading.Length(length)
	}
	req.QuestionCount, _ = strconv.Atoi(strings.TrimSpace(questions))
	return req
}

func toRequestJSON(r reading.Request) requestJSON {
	return requestJSON{
		Grade:     string(r.Grade),
		Length:    string(r.Length),
		Questions: r.QuestionCount,
		Topic:     r.Topic,
	}
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, errorResponse{Error: msg})
}
