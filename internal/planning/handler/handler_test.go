package handler

import (
	"net/http"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stellariq/internal/auth/models"
	id "stellariq/pkg/domain"
	"stellariq/pkg/testutil"
)

type stubData struct {
	Endpoint      string `json:"endpoint"`
	Authenticated bool   `json:"authenticated"`
}

var fillParams = strings.NewReplacer("{id}", "p1", "{goalId}", "g1", "{stepId}", "s1", "{skillId}", "k1")

func newRouter() chi.Router {
	r := chi.NewRouter()
	passthrough := func(next http.Handler) http.Handler { return next }
	New(passthrough).Register(r)
	return r
}

func TestEveryRouteIsNotImplemented(t *testing.T) {
	router := newRouter()
	for _, a := range areas {
		for _, rt := range a.routes {
			path := a.prefix + fillParams.Replace(rt.pattern)
			t.Run(rt.method+" "+path, func(t *testing.T) {
				rr := testutil.DoRequest(router, testutil.NewRequest(t, rt.method, path))

				testutil.AssertFailure(t, rr, http.StatusNotImplemented, rt.name+" endpoint is not implemented yet")
				data := testutil.DecodeData[stubData](t, testutil.UnmarshalEnvelope(t, rr))
				assert.Equal(t, rt.method+" "+path, data.Endpoint)
				assert.False(t, data.Authenticated)
			})
		}
	}
}

func TestStubReportsIdentity(t *testing.T) {
	router := newRouter()
	req := testutil.NewRequest(t, http.MethodGet, "/api/careers/plans/abc")
	req = testutil.WithUser(req, models.PublicUser{ID: id.NewUserID(), Email: "ada@example.com", IsActive: true})

	rr := testutil.DoRequest(router, req)

	require.Equal(t, http.StatusNotImplemented, rr.Code)
	data := testutil.DecodeData[stubData](t, testutil.UnmarshalEnvelope(t, rr))
	assert.True(t, data.Authenticated)
	assert.Equal(t, "GET /api/careers/plans/abc", data.Endpoint)
}

func TestOptionalAuthIsApplied(t *testing.T) {
	called := 0
	mw := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			called++
			next.ServeHTTP(w, r)
		})
	}
	r := chi.NewRouter()
	New(mw).Register(r)

	testutil.DoRequest(r, testutil.NewRequest(t, http.MethodPost, "/api/ai/chat"))
	testutil.DoRequest(r, testutil.NewRequest(t, http.MethodGet, "/api/skills/categories"))

	assert.Equal(t, 2, called)
}
