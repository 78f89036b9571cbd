package chi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/memedex/internal/domain"
	dommeme "github.com/kailas-cloud/memedex/internal/domain/meme"
	"github.com/kailas-cloud/memedex/internal/domain/meme/patch"
	"github.com/kailas-cloud/memedex/internal/domain/search/query"
	"github.com/kailas-cloud/memedex/internal/domain/search/result"
	logpkg "github.com/kailas-cloud/memedex/internal/logger"
	gen "github.com/kailas-cloud/memedex/internal/transport/generated"
	healthuc "github.com/kailas-cloud/memedex/internal/usecase/health"
	searchuc "github.com/kailas-cloud/memedex/internal/usecase/search"
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// MemeService is the record CRUD consumed by the server.
type MemeService interface {
	Create(ctx context.Context, d dommeme.Draft) (dommeme.Meme, error)
	Get(ctx context.Context, id int64) (dommeme.Meme, error)
	Update(ctx context.Context, id int64, p patch.Patch) (dommeme.Meme, error)
	Delete(ctx context.Context, id int64) error
}

// HealthChecker reports component health.
type HealthChecker interface {
	Check(ctx context.Context) healthuc.Report
}

// Server implements generated.ServerInterface for the oapi-codegen chi router.
type Server struct {
	gen.Unimplemented
	memes         MemeService
	search        searchuc.Searcher
	health        HealthChecker
	logger        *zap.Logger
	errorHandlers []errorHandler
}

var _ gen.ServerInterface = (*Server)(nil)

// NewServer creates an HTTP API server.
func NewServer(
	memes MemeService,
	search searchuc.Searcher,
	health HealthChecker,
	logger *zap.Logger,
) *Server {
	s := &Server{
		memes:  memes,
		search: search,
		health: health,
		logger: logger,
	}
	// Order matters: an unsupported field is also a syntax error.
	s.errorHandlers = []errorHandler{
		unsupportedFieldHandler,
		syntaxErrorHandler,
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound, gen.ErrorResponseCodeMemeNotFound),
		sentinelHandler(domain.ErrInvalidLimit, http.StatusBadRequest, gen.ErrorResponseCodeValidationFailed),
		invalidRecordHandler,
		sentinelHandler(domain.ErrBackendExecution, http.StatusBadGateway, gen.ErrorResponseCodeSearchBackendError),
		sentinelHandler(domain.ErrIndexConsistency,
			http.StatusInternalServerError, gen.ErrorResponseCodeIndexConsistencyError),
	}
	return s
}

// SearchMemes handles GET /api/memes.
func (s *Server) SearchMemes(w http.ResponseWriter, r *http.Request, params gen.SearchMemesParams) {
	limit := 0
	if params.Limit != nil {
		if *params.Limit <= 0 {
			writeError(w, http.StatusBadRequest, gen.ErrorResponseCodeValidationFailed, "limit must be positive")
			return
		}
		limit = *params.Limit
	}
	raw := ""
	if params.Q != nil {
		raw = *params.Q
	}

	results, err := s.search.Search(r.Context(), raw, limit)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	items := make([]gen.SearchResultItem, len(results))
	for i := range results {
		items[i] = searchResultToGen(&results[i])
	}

	writeJSON(w, http.StatusOK, gen.SearchResultListResponse{
		Items: items,
		Limit: s.search.EffectiveLimit(limit),
		Total: len(items),
	})
}

// CreateMeme handles POST /api/memes.
func (s *Server) CreateMeme(w http.ResponseWriter, r *http.Request) {
	var req gen.CreateMemeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, gen.ErrorResponseCodeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	m, err := s.memes.Create(r.Context(), draftFromGen(req))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	w.Header().Set("Location", fmt.Sprintf("/api/memes/%d", m.ID()))
	writeJSON(w, http.StatusCreated, memeToGen(&m))
}

// GetMeme handles GET /api/memes/{id}.
func (s *Server) GetMeme(w http.ResponseWriter, r *http.Request, id gen.MemeId) {
	m, err := s.memes.Get(r.Context(), id)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, memeToGen(&m))
}

// PatchMeme handles PATCH /api/memes/{id}.
func (s *Server) PatchMeme(w http.ResponseWriter, r *http.Request, id gen.MemeId) {
	var req gen.PatchMemeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, gen.ErrorResponseCodeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	p, err := patch.New(req.Text, req.Description, req.Category, req.Keywords)
	if err != nil {
		writeError(w, http.StatusBadRequest, gen.ErrorResponseCodeValidationFailed, err.Error())
		return
	}

	m, err := s.memes.Update(r.Context(), id, p)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, memeToGen(&m))
}

// DeleteMeme handles DELETE /api/memes/{id}.
func (s *Server) DeleteMeme(w http.ResponseWriter, r *http.Request, id gen.MemeId) {
	if err := s.memes.Delete(r.Context(), id); err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ExplainQuery handles GET /api/search/explain.
func (s *Server) ExplainQuery(w http.ResponseWriter, r *http.Request, params gen.ExplainQueryParams) {
	ex, err := s.search.Explain(params.Q)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, gen.ExplainResponse{
		Canonical:  ex.Canonical,
		Dialect:    string(ex.Dialect),
		Native:     ex.Native,
		MatchAll:   ex.MatchAll,
		PostFilter: ex.PostFilter,
	})
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]gen.HealthResponseChecks)
	for k, v := range report.Checks {
		checks[k] = gen.HealthResponseChecks(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, gen.HealthResponse{
		Status: gen.HealthResponseStatus(report.Status),
		Checks: checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// ParamErrorHandler renders oapi-codegen binding failures (bad ids, limits).
func ParamErrorHandler(w http.ResponseWriter, _ *http.Request, err error) {
	var msg string
	var invalid *gen.InvalidParamFormatError
	var required *gen.RequiredParamError
	switch {
	case errors.As(err, &invalid):
		msg = "invalid " + invalid.ParamName
	case errors.As(err, &required):
		msg = required.ParamName + " is required"
	default:
		msg = "invalid request"
	}
	writeError(w, http.StatusBadRequest, gen.ErrorResponseCodeBadRequest, msg)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code gen.ErrorResponseCode, message string) {
	writeJSON(w, status, gen.ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrNotFound,
		domain.ErrInvalidLimit,
		domain.ErrBackendExecution,
		domain.ErrIndexConsistency,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code gen.ErrorResponseCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

// unsupportedFieldHandler reports the offending field name and its position.
func unsupportedFieldHandler(w http.ResponseWriter, err error, _ string) bool {
	var ufe *query.UnsupportedFieldError
	if !errors.As(err, &ufe) {
		return false
	}
	pos := ufe.Pos
	writeJSON(w, http.StatusBadRequest, gen.ErrorResponse{
		Code:     gen.ErrorResponseCodeUnsupportedField,
		Message:  ufe.Error(),
		Position: &pos,
	})
	return true
}

// syntaxErrorHandler reports the parser message, which only quotes the query itself.
func syntaxErrorHandler(w http.ResponseWriter, err error, _ string) bool {
	var se *query.SyntaxError
	if !errors.As(err, &se) {
		return false
	}
	pos := se.Pos
	writeJSON(w, http.StatusBadRequest, gen.ErrorResponse{
		Code:     gen.ErrorResponseCodeQuerySyntaxError,
		Message:  se.Error(),
		Position: &pos,
	})
	return true
}

// invalidRecordHandler passes validation messages through; they name fields and limits only.
func invalidRecordHandler(w http.ResponseWriter, err error, _ string) bool {
	if !errors.Is(err, domain.ErrInvalidRecord) {
		return false
	}
	writeError(w, http.StatusBadRequest, gen.ErrorResponseCodeValidationFailed, err.Error())
	return true
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	logger := logpkg.From(r.Context(), s.logger)
	logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, gen.ErrorResponseCodeInternalError, "internal error")
}

func memeToGen(m *dommeme.Meme) gen.Meme {
	keywords := m.Keywords()
	if keywords == nil {
		keywords = []string{}
	}
	return gen.Meme{
		Id:          m.ID(),
		Path:        m.Path(),
		Filename:    m.Filename(),
		Category:    m.Category(),
		Hash:        m.Hash(),
		Text:        m.Text(),
		Description: m.Description(),
		Keywords:    keywords,
		CreatedAt:   m.CreatedAt(),
	}
}

func draftFromGen(req gen.CreateMemeRequest) dommeme.Draft {
	d := dommeme.Draft{
		Path:        req.Path,
		Filename:    req.Filename,
		Category:    req.Category,
		Hash:        derefString(req.Hash),
		Text:        derefString(req.Text),
		Description: derefString(req.Description),
	}
	if req.Keywords != nil {
		d.Keywords = *req.Keywords
	}
	return d
}

func derefString(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func searchResultToGen(r *result.Result) gen.SearchResultItem {
	m := r.Meme()
	item := gen.SearchResultItem{Meme: memeToGen(&m)}
	if r.Scored() {
		score := r.Score()
		item.Score = &score
	}
	return item
}
