package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/gometeo/cityweather/internal/catalog"
	"github.com/gometeo/cityweather/internal/controller"
	"github.com/gometeo/cityweather/internal/country"
	"github.com/gometeo/cityweather/internal/model"
	"github.com/gometeo/cityweather/internal/session"
	"github.com/gometeo/cityweather/internal/view"
	"github.com/gometeo/cityweather/internal/weather"
)

// Controller is what the web handlers need from controller.Controller.
type Controller interface {
	View(ctx context.Context, state *model.SessionState, route controller.Route) (controller.Outcome, error)
	Search(ctx context.Context, state *model.SessionState, query string) (controller.Outcome, error)
	Select(ctx context.Context, state *model.SessionState, id int) (controller.Outcome, error)
}

type WebHandler struct {
	ctl        Controller
	sessions   *session.Manager
	views      *view.Renderer
	mapsAPIKey string
	logger     *slog.Logger
}

func NewWebHandler(ctl Controller, sessions *session.Manager, views *view.Renderer, mapsAPIKey string, logger *slog.Logger) *WebHandler {
	return &WebHandler{
		ctl:        ctl,
		sessions:   sessions,
		views:      views,
		mapsAPIKey: mapsAPIKey,
		logger:     logger,
	}
}

// Register wires every page route onto router.
func (h *WebHandler) Register(router *mux.Router) {
	router.HandleFunc("/", h.Index).Methods(http.MethodGet)
	router.HandleFunc("/freedom", h.Freedom).Methods(http.MethodGet)
	router.HandleFunc("/about", h.About).Methods(http.MethodGet)
	router.HandleFunc("/search", h.Search).Methods(http.MethodPost)
	router.HandleFunc("/result/{id}", h.Result).Methods(http.MethodGet)
	router.HandleFunc("/healthz", h.HealthCheck).Methods(http.MethodGet)
	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h.renderError(w, http.StatusNotFound, "page not found")
	})
}

// Index serves the metric view.
func (h *WebHandler) Index(w http.ResponseWriter, r *http.Request) {
	h.view(w, r, controller.RouteDefault)
}

// Freedom serves the imperial view.
func (h *WebHandler) Freedom(w http.ResponseWriter, r *http.Request) {
	h.view(w, r, controller.RouteAlternate)
}

func (h *WebHandler) About(w http.ResponseWriter, r *http.Request) {
	h.render(w, http.StatusOK, view.PageAbout, view.Data{Title: "About"})
}

// Search handles the search form. A single match redirects to a weather view,
// anything else lists the candidates.
func (h *WebHandler) Search(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderError(w, http.StatusBadRequest, "malformed search form")
		return
	}
	query := r.PostForm.Get("search")

	sess, ok := h.loadSession(w, r)
	if !ok {
		return
	}

	out, err := h.ctl.Search(r.Context(), sess.State, query)
	if err != nil {
		h.fail(w, "search", err)
		return
	}
	h.apply(w, r, sess, out)
}

// Result selects a city from the results list by catalog id.
func (h *WebHandler) Result(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		h.renderError(w, http.StatusNotFound, "city not found")
		return
	}

	sess, ok := h.loadSession(w, r)
	if !ok {
		return
	}

	out, err := h.ctl.Select(r.Context(), sess.State, id)
	if err != nil {
		h.fail(w, "select", err, "city_id", id)
		return
	}
	h.apply(w, r, sess, out)
}

// HealthCheck reports whether the session backend is reachable.
func (h *WebHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	health := map[string]string{
		"status": "ok",
		"time":   time.Now().Format(time.RFC3339),
	}

	if err := h.sessions.Ping(r.Context()); err != nil {
		health["sessions"] = "unhealthy"
		health["status"] = "degraded"
		h.logger.Error("health check: session store unavailable", "error", err)
	} else {
		health["sessions"] = "healthy"
	}

	status := http.StatusOK
	if health["status"] == "degraded" {
		status = http.StatusServiceUnavailable
	}
	sendJSON(w, status, health)
}

func (h *WebHandler) view(w http.ResponseWriter, r *http.Request, route controller.Route) {
	sess, ok := h.loadSession(w, r)
	if !ok {
		return
	}

	out, err := h.ctl.View(r.Context(), sess.State, route)
	if err != nil {
		h.fail(w, "view", err, "route", route)
		return
	}
	h.apply(w, r, sess, out)
}

func (h *WebHandler) loadSession(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	sess, err := h.sessions.Load(r)
	if err != nil {
		h.logger.Error("session load failed", "error", err)
		h.renderError(w, http.StatusInternalServerError, "session unavailable")
		return nil, false
	}
	return sess, true
}

// apply persists the outcome's session change, then redirects or renders.
func (h *WebHandler) apply(w http.ResponseWriter, r *http.Request, sess *session.Session, out controller.Outcome) {
	switch {
	case out.Clear:
		if err := h.sessions.Clear(r, sess); err != nil {
			h.logger.Error("session clear failed", "session", sess.ID, "error", err)
			h.renderError(w, http.StatusInternalServerError, "session unavailable")
			return
		}
	case out.State != nil:
		if err := h.sessions.Save(w, r, sess, out.State); err != nil {
			h.logger.Error("session save failed", "session", sess.ID, "error", err)
			h.renderError(w, http.StatusInternalServerError, "session unavailable")
			return
		}
	}

	if out.Kind == controller.OutcomeRedirect {
		http.Redirect(w, r, out.Location, http.StatusFound)
		return
	}

	data := view.Data{MapsAPIKey: h.mapsAPIKey, Weather: out.Page, Results: out.Results}
	switch {
	case out.Page != nil:
		data.Title = out.Page.City.Name
	case out.Results != nil:
		data.Title = "Search"
	}
	h.render(w, http.StatusOK, out.View, data)
}

// fail logs a controller error and renders the matching error page.
func (h *WebHandler) fail(w http.ResponseWriter, op string, err error, attrs ...any) {
	status, message := statusFor(err)
	args := append([]any{"op", op, "status", status, "error", err}, attrs...)
	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed", args...)
	} else {
		h.logger.Info("request rejected", args...)
	}
	h.renderError(w, status, message)
}

func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, catalog.ErrCityNotFound):
		return http.StatusNotFound, "city not found"
	case errors.Is(err, weather.ErrLookup):
		return http.StatusBadGateway, "weather service unavailable"
	case errors.Is(err, country.ErrLookup):
		return http.StatusBadGateway, "country service unavailable"
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

func (h *WebHandler) render(w http.ResponseWriter, status int, page string, data view.Data) {
	if err := h.views.Render(w, status, page, data); err != nil {
		h.logger.Error("render failed", "page", page, "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

func (h *WebHandler) renderError(w http.ResponseWriter, status int, message string) {
	h.render(w, status, view.PageError, view.Data{
		Title: http.StatusText(status),
		Error: &view.ErrorInfo{Status: status, Message: message},
	})
}
