package ui

import (
	"encoding/json"
	"net/http"

	"askmydata/domain/interaction"
	"askmydata/domain/session"
	"askmydata/internal"
	"askmydata/internal/analysis"
	"askmydata/internal/errors"
	interactor "askmydata/internal/session"
	"askmydata/ports"
	uimw "askmydata/ui/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// API is the JSON surface of the dashboard. It shares sessions with the
// HTML pages through the session cookie.
type API struct {
	router     *chi.Mux
	interactor *interactor.Interactor
	sessions   ports.SessionRepository
	logger     *internal.Logger
}

// NewAPI creates the JSON API router
func NewAPI(i *interactor.Interactor, sessions ports.SessionRepository, logger *internal.Logger) *API {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	api := &API{
		router:     chi.NewRouter(),
		interactor: i,
		sessions:   sessions,
		logger:     logger.With("API"),
	}
	api.setupMiddleware()
	api.setupRoutes()
	return api
}

// Handler returns the chi router
func (a *API) Handler() http.Handler {
	return a.router
}

func (a *API) setupMiddleware() {
	a.router.Use(middleware.RequestID)
	a.router.Use(middleware.Logger)
	a.router.Use(middleware.Recoverer)
	a.router.Use(middleware.Compress(5))
}

func (a *API) setupRoutes() {
	a.router.Get("/history", a.handleHistory)
	a.router.Get("/dashboard", a.handleDashboard)
	a.router.Post("/ask", a.handleAsk)
}

type askRequest struct {
	Question string `json:"question"`
}

type askResponse struct {
	Record     *interaction.Record `json:"record"`
	Transcript []session.Message   `json:"transcript"`
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func (a *API) state(r *http.Request) (session.State, error) {
	id, ok := uimw.SessionIDFrom(r.Context())
	if !ok {
		return session.State{}, errors.InvalidInput("missing session")
	}
	return a.sessions.Get(r.Context(), id)
}

func (a *API) handleHistory(w http.ResponseWriter, r *http.Request) {
	records, err := a.interactor.History(r.Context())
	if err != nil {
		a.logger.Error("loading history: %v", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "could not load history"})
		return
	}
	if records == nil {
		records = []interaction.Record{}
	}
	writeJSON(w, http.StatusOK, records)
}

func (a *API) handleDashboard(w http.ResponseWriter, r *http.Request) {
	state, err := a.state(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if !state.HasDataset() {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "no dataset loaded"})
		return
	}
	dash, err := analysis.BuildDashboard(r.Context(), state.Dataset)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dash)
}

func (a *API) handleAsk(w http.ResponseWriter, r *http.Request) {
	var req askRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.InvalidInput("request body must be JSON with a question field"))
		return
	}

	state, err := a.state(r)
	if err != nil {
		writeError(w, err)
		return
	}

	state, record, err := a.interactor.Ask(r.Context(), state, req.Question)
	if saveErr := a.sessions.Save(r.Context(), state); saveErr != nil {
		a.logger.Error("saving session %s: %v", state.ID, saveErr)
	}
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, askResponse{Record: record, Transcript: state.Transcript})
}

func writeError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	status := http.StatusInternalServerError
	switch code {
	case errors.CodeInvalidInput, errors.CodeEmptyQuestion, errors.CodeParseError:
		status = http.StatusBadRequest
	}
	writeJSON(w, status, errorResponse{Error: err.Error(), Code: code})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
