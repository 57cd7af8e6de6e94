package main

import (
	"expvar"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/liliang-cn/movieflux/internal/data"
)

func (app *application) routes() http.Handler {
	router := httprouter.New()

	router.NotFound = http.HandlerFunc(app.notFoundResponse)
	router.MethodNotAllowed = http.HandlerFunc(app.methodNotAllowedResponse)

	router.HandlerFunc(http.MethodGet, "/healthcheck", app.healthcheckHandler)
	router.Handler(http.MethodGet, "/debug/vars", expvar.Handler())
	router.Handler(http.MethodGet, "/metrics", promhttp.Handler())

	// GET 需要 USER 角色，写操作需要 ADMIN 角色
	router.HandlerFunc(http.MethodGet, "/movies", app.requireRole(data.RoleUser, app.listMoviesHandler))
	router.HandlerFunc(http.MethodGet, "/movies/:id", app.requireRole(data.RoleUser, app.showMovieHandler))
	router.HandlerFunc(http.MethodGet, "/movies/:id/:title", app.requireRole(data.RoleUser, app.showMovieByTitleHandler))
	router.HandlerFunc(http.MethodPost, "/movies", app.requireRole(data.RoleAdmin, app.createMovieHandler))
	router.HandlerFunc(http.MethodPost, "/movies/batch", app.requireRole(data.RoleAdmin, app.createMovieBatchHandler))
	router.HandlerFunc(http.MethodPut, "/movies/:id", app.requireRole(data.RoleAdmin, app.updateMovieHandler))
	router.HandlerFunc(http.MethodDelete, "/movies/:id", app.requireRole(data.RoleAdmin, app.deleteMovieHandler))

	return app.metrics(app.requestID(app.recoverPanic(app.enableCORS(app.rateLimiter(app.authenticate(router))))))
}
