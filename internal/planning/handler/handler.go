// Package handler mounts the career planning routes. None of them is backed by
// storage yet: each answers 501 and reports whether the caller was identified.
package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"stellariq/internal/platform/middleware"
	"stellariq/pkg/platform/httputil"
)

type route struct {
	method  string
	pattern string
	name    string
}

// area is one API prefix and its placeholder routes.
type area struct {
	prefix string
	routes []route
}

var areas = []area{
	{
		prefix: "/api/careers",
		routes: []route{
			{http.MethodPost, "/plans", "Create career plan"},
			{http.MethodGet, "/plans", "Get all career plans"},
			{http.MethodGet, "/plans/{id}", "Get career plan by ID"},
			{http.MethodPut, "/plans/{id}", "Update career plan"},
			{http.MethodDelete, "/plans/{id}", "Delete career plan"},
			{http.MethodPost, "/plans/{id}/goals", "Add goal to career plan"},
			{http.MethodPut, "/plans/{id}/goals/{goalId}", "Update career goal"},
			{http.MethodDelete, "/plans/{id}/goals/{goalId}", "Delete career goal"},
		},
	},
	{
		prefix: "/api/skills",
		routes: []route{
			{http.MethodPost, "/assessments", "Create skills assessment"},
			{http.MethodGet, "/assessments", "Get all skills assessments"},
			{http.MethodGet, "/assessments/{id}", "Get skills assessment by ID"},
			{http.MethodPut, "/assessments/{id}", "Update skills assessment"},
			{http.MethodDelete, "/assessments/{id}", "Delete skills assessment"},
			{http.MethodPost, "/assessments/{id}/skills", "Add skill to assessment"},
			{http.MethodPut, "/assessments/{id}/skills/{skillId}", "Update skill rating"},
			{http.MethodDelete, "/assessments/{id}/skills/{skillId}", "Remove skill from assessment"},
			{http.MethodGet, "/categories", "Get skill categories"},
		},
	},
	{
		prefix: "/api/pivot",
		routes: []route{
			{http.MethodPost, "/plans", "Create pivot plan"},
			{http.MethodGet, "/plans", "Get all pivot plans"},
			{http.MethodGet, "/plans/{id}", "Get pivot plan by ID"},
			{http.MethodPut, "/plans/{id}", "Update pivot plan"},
			{http.MethodDelete, "/plans/{id}", "Delete pivot plan"},
			{http.MethodPost, "/plans/{id}/steps", "Add step to pivot plan"},
			{http.MethodPut, "/plans/{id}/steps/{stepId}", "Update pivot step"},
			{http.MethodDelete, "/plans/{id}/steps/{stepId}", "Delete pivot step"},
			{http.MethodPost, "/plans/{id}/analysis", "Pivot analysis"},
		},
	},
	{
		prefix: "/api/ai",
		routes: []route{
			{http.MethodPost, "/chat", "AI chat"},
			{http.MethodGet, "/chat/history", "Get chat history"},
			{http.MethodDelete, "/chat/history", "Clear chat history"},
			{http.MethodPost, "/analyze/career", "Career analysis"},
			{http.MethodPost, "/analyze/skills", "Skills analysis"},
			{http.MethodPost, "/analyze/pivot", "Pivot analysis"},
			{http.MethodPost, "/generate/insights", "Generate insights"},
			{http.MethodPost, "/generate/recommendations", "Generate recommendations"},
			{http.MethodPost, "/generate/learning-path", "Generate learning path"},
		},
	},
}

// Handler serves the placeholder planning routes.
type Handler struct {
	optionalAuth func(http.Handler) http.Handler
}

// New creates a Handler. optionalAuth attaches an identity when a valid token is
// present and never rejects the request.
func New(optionalAuth func(http.Handler) http.Handler) *Handler {
	return &Handler{optionalAuth: optionalAuth}
}

// Register mounts every planning area on r.
func (h *Handler) Register(r chi.Router) {
	for _, a := range areas {
		r.Route(a.prefix, func(r chi.Router) {
			r.Use(h.optionalAuth)
			for _, rt := range a.routes {
				r.Method(rt.method, rt.pattern, notImplemented(rt.name))
			}
		})
	}
}

func notImplemented(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, authenticated := middleware.CurrentUser(r.Context())
		httputil.WriteJSON(w, http.StatusNotImplemented, httputil.Envelope{
			Success: false,
			Message: name + " endpoint is not implemented yet",
			Data: map[string]any{
				"endpoint":      r.Method + " " + r.URL.Path,
				"authenticated": authenticated,
			},
		})
	}
}
