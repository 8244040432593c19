package providers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRouterProvider_Get(t *testing.T) {
	rp := NewRouterProvider()
	rp.Get("/test", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	routes := rp.GetRoutes()
	assert.Len(t, routes, 1)
	assert.Equal(t, "/test", routes[0].Url)
	assert.NotNil(t, routes[0].Handler)
}

func TestRouterProvider_Post(t *testing.T) {
	rp := NewRouterProvider()
	rp.Post("/submit", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	routes := rp.GetRoutes()
	assert.Len(t, routes, 1)
	assert.Equal(t, "/submit", routes[0].Url)
}

func TestRouterProvider_MultipleRoutes(t *testing.T) {
	rp := NewRouterProvider()
	rp.Get("/a", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	rp.Post("/b", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	rp.Get("/c", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	routes := rp.GetRoutes()
	assert.Len(t, routes, 3)
	assert.Equal(t, "/a", routes[0].Url)
	assert.Equal(t, "/b", routes[1].Url)
	assert.Equal(t, "/c", routes[2].Url)
}

func TestMethodHandler_CorrectMethod(t *testing.T) {
	called := false
	h := methodHandler(http.MethodPost, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	req := httptest.NewRequest(http.MethodPost, "/test", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	assert.True(t, called)
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestMethodHandler_WrongMethod(t *testing.T) {
	called := false
	h := methodHandler(http.MethodPost, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	assert.False(t, called)
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}

func TestRouterProvider_GetRejectsPost(t *testing.T) {
	rp := NewRouterProvider()
	rp.Get("/only-get", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodPost, "/only-get", nil)
	rr := httptest.NewRecorder()
	rp.GetRoutes()[0].Handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}

func TestRouterProvider_PostRejectsGet(t *testing.T) {
	rp := NewRouterProvider()
	rp.Post("/only-post", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/only-post", nil)
	rr := httptest.NewRecorder()
	rp.GetRoutes()[0].Handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}
