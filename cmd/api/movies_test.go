package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/liliang-cn/movieflux/internal/data"
	"github.com/liliang-cn/movieflux/internal/data/mocks"
	"github.com/liliang-cn/movieflux/internal/service"
)

func TestCreateAndShowMovie(t *testing.T) {
	app := newTestApplication(t)
	ts := newTestServer(t, app.routes())

	rs := ts.do(t, http.MethodPost, "/movies", asAdmin, `{"title":"dune"}`)
	assert.Equal(t, http.StatusCreated, rs.status)
	assert.JSONEq(t, `{"id":1,"title":"dune"}`, string(rs.body))
	assert.Equal(t, "/movies/1", rs.headers.Get("Location"))

	rs = ts.do(t, http.MethodGet, "/movies/1", asUser, "")
	assert.Equal(t, http.StatusOK, rs.status)
	assert.JSONEq(t, `{"id":1,"title":"dune"}`, string(rs.body))
}

func TestShowMovie_NotFound(t *testing.T) {
	app := newTestApplication(t)
	ts := newTestServer(t, app.routes())

	for _, path := range []string{"/movies/99", "/movies/0", "/movies/-1", "/movies/abc"} {
		rs := ts.do(t, http.MethodGet, path, asUser, "")
		assert.Equal(t, http.StatusNotFound, rs.status, path)

		body := rs.errorBody(t)
		assert.Equal(t, http.StatusNotFound, body.Status)
		assert.Equal(t, "Not Found", body.Error)
		assert.Equal(t, "movie not found", body.DeveloperMessage)
		assert.False(t, body.Timestamp.IsZero())
	}
}

func TestCreateMovie_BadRequest(t *testing.T) {
	app := newTestApplication(t)
	ts := newTestServer(t, app.routes())

	tests := []struct {
		name    string
		body    string
		message string
	}{
		{"empty title", `{"title":""}`, "title: must be provided"},
		{"blank title", `{"title":"   "}`, "title: must be provided"},
		{"missing title", `{}`, "title: must be provided"},
		{"title too long", `{"title":"` + strings.Repeat("x", 501) + `"}`, "title: must not be more than 500 bytes long"},
		{"empty body", ``, "body must not be empty"},
		{"badly formed", `{"title":"dune"`, "body contains badly-formed JSON"},
		{"wrong type", `{"title":42}`, `body contains incorrect JSON type for field "title"`},
		{"unknown key", `{"title":"dune","year":2021}`, `body contains unknown key "year"`},
		{"two values", `{"title":"dune"}{"title":"heat"}`, "body must only contain a single JSON value"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rs := ts.do(t, http.MethodPost, "/movies", asAdmin, tt.body)
			assert.Equal(t, http.StatusBadRequest, rs.status)

			body := rs.errorBody(t)
			assert.Equal(t, http.StatusBadRequest, body.Status)
			assert.Equal(t, tt.message, body.DeveloperMessage)
		})
	}

	rs := ts.do(t, http.MethodGet, "/movies", asUser, "")
	assert.JSONEq(t, `[]`, string(rs.body))
}

func TestCreateMovie_IgnoresClientID(t *testing.T) {
	app := newTestApplication(t)
	ts := newTestServer(t, app.routes())

	rs := ts.do(t, http.MethodPost, "/movies", asAdmin, `{"id":42,"title":"heat"}`)
	assert.Equal(t, http.StatusCreated, rs.status)
	assert.JSONEq(t, `{"id":1,"title":"heat"}`, string(rs.body))
}

func TestListMovies(t *testing.T) {
	app := newTestApplication(t)
	ts := newTestServer(t, app.routes())

	rs := ts.do(t, http.MethodPost, "/movies/batch", asAdmin, `[{"title":"heat"},{"title":"alien"},{"title":"dune"}]`)
	require.Equal(t, http.StatusCreated, rs.status)

	rs = ts.do(t, http.MethodGet, "/movies", asUser, "")
	assert.Equal(t, http.StatusOK, rs.status)
	assert.JSONEq(t, `[{"id":1,"title":"heat"},{"id":2,"title":"alien"},{"id":3,"title":"dune"}]`, string(rs.body))

	rs = ts.do(t, http.MethodGet, "/movies?sort=title&page=1&page_size=2", asUser, "")
	assert.Equal(t, http.StatusOK, rs.status)
	assert.JSONEq(t, `[{"id":2,"title":"alien"},{"id":3,"title":"dune"}]`, string(rs.body))
}

func TestListMovies_InvalidFilters(t *testing.T) {
	app := newTestApplication(t)
	ts := newTestServer(t, app.routes())

	rs := ts.do(t, http.MethodGet, "/movies?page=abc", asUser, "")
	assert.Equal(t, http.StatusBadRequest, rs.status)
	assert.Equal(t, "must be an integer value", rs.errorBody(t).Fields["page"])

	rs = ts.do(t, http.MethodGet, "/movies?sort=year&page_size=500", asUser, "")
	assert.Equal(t, http.StatusBadRequest, rs.status)

	body := rs.errorBody(t)
	assert.Contains(t, body.Fields, "sort")
	assert.Contains(t, body.Fields, "page_size")
}

func TestShowMovieByTitle(t *testing.T) {
	app := newTestApplication(t)
	ts := newTestServer(t, app.routes())

	rs := ts.do(t, http.MethodPost, "/movies", asAdmin, `{"title":"dune"}`)
	require.Equal(t, http.StatusCreated, rs.status)

	rs = ts.do(t, http.MethodGet, "/movies/title/dune", asUser, "")
	assert.Equal(t, http.StatusOK, rs.status)
	assert.JSONEq(t, `{"id":1,"title":"dune"}`, string(rs.body))

	// 找不到时返回 200 和空响应体
	rs = ts.do(t, http.MethodGet, "/movies/title/heat", asUser, "")
	assert.Equal(t, http.StatusOK, rs.status)
	assert.Empty(t, rs.body)

	rs = ts.do(t, http.MethodGet, "/movies/name/dune", asUser, "")
	assert.Equal(t, http.StatusNotFound, rs.status)
}

func TestCreateMovieBatch(t *testing.T) {
	app := newTestApplication(t)
	ts := newTestServer(t, app.routes())

	rs := ts.do(t, http.MethodPost, "/movies/batch", asAdmin, `[{"title":"dune"},{"title":"alien"}]`)
	assert.Equal(t, http.StatusCreated, rs.status)
	assert.JSONEq(t, `[{"id":1,"title":"dune"},{"id":2,"title":"alien"}]`, string(rs.body))

	rs = ts.do(t, http.MethodPost, "/movies/batch", asAdmin, `[]`)
	assert.Equal(t, http.StatusCreated, rs.status)
	assert.JSONEq(t, `[]`, string(rs.body))
}

func TestCreateMovieBatch_InvalidTitle(t *testing.T) {
	app := newTestApplication(t)
	ts := newTestServer(t, app.routes())

	rs := ts.do(t, http.MethodPost, "/movies/batch", asAdmin, `[{"title":"dune"},{"title":""}]`)
	assert.Equal(t, http.StatusBadRequest, rs.status)

	body := rs.errorBody(t)
	assert.Equal(t, http.StatusBadRequest, body.Status)
	assert.Equal(t, "movies[1].title: must be provided", body.DeveloperMessage)
	assert.Equal(t, map[string]string{"movies[1].title": "must be provided"}, body.Fields)

	// 校验在保存之后进行，已保存的记录不回滚
	rs = ts.do(t, http.MethodGet, "/movies", asUser, "")
	assert.JSONEq(t, `[{"id":1,"title":"dune"},{"id":2,"title":""}]`, string(rs.body))
}

func TestUpdateMovie(t *testing.T) {
	app := newTestApplication(t)
	ts := newTestServer(t, app.routes())

	rs := ts.do(t, http.MethodPost, "/movies", asAdmin, `{"title":"dune"}`)
	require.Equal(t, http.StatusCreated, rs.status)

	rs = ts.do(t, http.MethodPut, "/movies/1", asAdmin, `{"id":5,"title":"dune: part two"}`)
	assert.Equal(t, http.StatusNoContent, rs.status)
	assert.Empty(t, rs.body)

	rs = ts.do(t, http.MethodGet, "/movies/1", asUser, "")
	assert.JSONEq(t, `{"id":1,"title":"dune: part two"}`, string(rs.body))

	rs = ts.do(t, http.MethodPut, "/movies/99", asAdmin, `{"title":"heat"}`)
	assert.Equal(t, http.StatusNotFound, rs.status)
	assert.Equal(t, "movie not found", rs.errorBody(t).DeveloperMessage)

	rs = ts.do(t, http.MethodPut, "/movies/1", asAdmin, `{"title":""}`)
	assert.Equal(t, http.StatusBadRequest, rs.status)

	rs = ts.do(t, http.MethodPut, "/movies/abc", asAdmin, `{"title":"heat"}`)
	assert.Equal(t, http.StatusNotFound, rs.status)
}

func TestDeleteMovie(t *testing.T) {
	app := newTestApplication(t)
	ts := newTestServer(t, app.routes())

	rs := ts.do(t, http.MethodPost, "/movies", asAdmin, `{"title":"dune"}`)
	require.Equal(t, http.StatusCreated, rs.status)

	rs = ts.do(t, http.MethodDelete, "/movies/1", asAdmin, "")
	assert.Equal(t, http.StatusNoContent, rs.status)

	rs = ts.do(t, http.MethodGet, "/movies/1", asUser, "")
	assert.Equal(t, http.StatusNotFound, rs.status)

	rs = ts.do(t, http.MethodDelete, "/movies/1", asAdmin, "")
	assert.Equal(t, http.StatusNotFound, rs.status)
	assert.Equal(t, http.StatusNotFound, rs.errorBody(t).Status)
}

func TestStorageFailureIsInternalServerError(t *testing.T) {
	app := newTestApplication(t)

	store := mocks.NewMovieStore(data.Movie{Title: "dune"})
	store.Err = assert.AnError
	app.movies = service.NewMovies(store)

	ts := newTestServer(t, app.routes())

	rs := ts.do(t, http.MethodGet, "/movies/1", asUser, "")
	assert.Equal(t, http.StatusInternalServerError, rs.status)

	body := rs.errorBody(t)
	assert.Equal(t, "Internal Server Error", body.Error)
	assert.Equal(t, "the server encountered a problem and could not process your request", body.DeveloperMessage)
	assert.NotContains(t, string(rs.body), assert.AnError.Error())
}

// 存储层阻塞时，客户端断开必须让 handler 及时返回
func TestMovieHandlersDoNotBlock(t *testing.T) {
	app := newTestApplication(t)

	store := mocks.NewMovieStore(data.Movie{Title: "dune"})
	store.Stall = make(chan struct{})
	app.movies = service.NewMovies(store)

	admin := &data.User{ID: 2, Username: "admin", Roles: data.Roles{data.RoleUser, data.RoleAdmin}}

	tests := []struct {
		name    string
		method  string
		path    string
		body    string
		params  httprouter.Params
		handler http.HandlerFunc
	}{
		{"list", http.MethodGet, "/movies", "", nil, app.listMoviesHandler},
		{"show", http.MethodGet, "/movies/1", "", httprouter.Params{{Key: "id", Value: "1"}}, app.showMovieHandler},
		{"by title", http.MethodGet, "/movies/title/dune", "", httprouter.Params{{Key: "id", Value: "title"}, {Key: "title", Value: "dune"}}, app.showMovieByTitleHandler},
		{"create", http.MethodPost, "/movies", `{"title":"heat"}`, nil, app.createMovieHandler},
		{"batch", http.MethodPost, "/movies/batch", `[{"title":"heat"}]`, nil, app.createMovieBatchHandler},
		{"update", http.MethodPut, "/movies/1", `{"title":"heat"}`, httprouter.Params{{Key: "id", Value: "1"}}, app.updateMovieHandler},
		{"delete", http.MethodDelete, "/movies/1", "", httprouter.Params{{Key: "id", Value: "1"}}, app.deleteMovieHandler},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))

			ctx := context.WithValue(r.Context(), httprouter.ParamsKey, tt.params)
			r = app.contextSetUser(r.WithContext(ctx), admin)

			rr := assertNonBlocking(t, app.requireRole(data.RoleAdmin, tt.handler), r)
			assert.Equal(t, http.StatusInternalServerError, rr.Code)
		})
	}
}
