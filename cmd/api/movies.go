package main

import (
	"fmt"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"github.com/liliang-cn/movieflux/internal/data"
	"github.com/liliang-cn/movieflux/internal/service"
	"github.com/liliang-cn/movieflux/internal/validator"
)

var movieSortSafelist = []string{"id", "title", "-id", "-title"}

// listMoviesHandler GET /movies?sort=&page=&page_size=
func (app *application) listMoviesHandler(w http.ResponseWriter, r *http.Request) {
	v := validator.New()
	qs := r.URL.Query()

	filters := data.Filters{
		Sort:         app.readString(qs, "sort", "id"),
		Page:         app.readInt(qs, "page", 1, v),
		PageSize:     app.readInt(qs, "page_size", 0, v),
		SortSafelist: movieSortSafelist,
	}

	if !v.Valid() {
		app.failedValidationResponse(w, r, &service.ValidationError{Errors: v.Errors})
		return
	}

	movies, err := app.movies.ListAll(r.Context(), filters)
	if err != nil {
		app.domainErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, movies, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) showMovieHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r)
	if err != nil {
		app.movieNotFoundResponse(w, r)
		return
	}

	movie, err := app.movies.GetByID(r.Context(), id)
	if err != nil {
		app.domainErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, movie, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// showMovieByTitleHandler GET /movies/title/:title，找不到时返回 200 和空响应体
func (app *application) showMovieByTitleHandler(w http.ResponseWriter, r *http.Request) {
	params := httprouter.ParamsFromContext(r.Context())

	// 路由注册为 /movies/:id/:title，第一段必须是 "title"
	if params.ByName("id") != "title" {
		app.notFoundResponse(w, r)
		return
	}

	movie, err := app.movies.GetByTitle(r.Context(), params.ByName("title"))
	if err != nil {
		app.domainErrorResponse(w, r, err)
		return
	}

	if movie == nil {
		w.WriteHeader(http.StatusOK)
		return
	}

	err = app.writeJSON(w, http.StatusOK, movie, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) createMovieHandler(w http.ResponseWriter, r *http.Request) {
	// 请求体中的 id 会被忽略，由数据库生成
	var input struct {
		ID    *int64 `json:"id"`
		Title string `json:"title"`
	}

	err := app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	movie, err := app.movies.Create(r.Context(), &data.Movie{Title: input.Title})
	if err != nil {
		app.domainErrorResponse(w, r, err)
		return
	}

	headers := make(http.Header)
	headers.Set("Location", fmt.Sprintf("/movies/%d", movie.ID))

	err = app.writeJSON(w, http.StatusCreated, movie, headers)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// createMovieBatchHandler 整批保存后再校验，任何一条标题无效都返回 400
func (app *application) createMovieBatchHandler(w http.ResponseWriter, r *http.Request) {
	var input []struct {
		ID    *int64 `json:"id"`
		Title string `json:"title"`
	}

	err := app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	movies := make([]*data.Movie, 0, len(input))
	for _, in := range input {
		movies = append(movies, &data.Movie{Title: in.Title})
	}

	saved, err := app.movies.CreateBatch(r.Context(), movies)
	if err != nil {
		app.domainErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusCreated, saved, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// updateMovieHandler PUT 整体替换，id 以路径为准
func (app *application) updateMovieHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r)
	if err != nil {
		app.movieNotFoundResponse(w, r)
		return
	}

	var input struct {
		ID    *int64 `json:"id"`
		Title string `json:"title"`
	}

	err = app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	err = app.movies.Update(r.Context(), id, &data.Movie{ID: id, Title: input.Title})
	if err != nil {
		app.domainErrorResponse(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (app *application) deleteMovieHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r)
	if err != nil {
		app.movieNotFoundResponse(w, r)
		return
	}

	err = app.movies.Delete(r.Context(), id)
	if err != nil {
		app.domainErrorResponse(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
