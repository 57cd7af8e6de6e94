package main

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/liliang-cn/movieflux/internal/service"
)

// errorBody 所有错误响应共用的 JSON 结构
type errorBody struct {
	Timestamp        time.Time         `json:"timestamp"`
	Status           int               `json:"status"`
	Error            string            `json:"error"`
	DeveloperMessage string            `json:"developerMessage"`
	Fields           map[string]string `json:"fields,omitempty"`
}

// logError 记录错误以及请求的方法、URL 和请求 id
func (app *application) logError(r *http.Request, err error) {
	app.logger.PrintError(err, map[string]string{
		"request_method": r.Method,
		"request_url":    r.URL.String(),
		"request_id":     app.contextGetRequestID(r),
	})
}

// errorResponse 以统一格式返回错误，写入失败时只记录日志
func (app *application) errorResponse(w http.ResponseWriter, r *http.Request, status int, message string, fields map[string]string) {
	body := errorBody{
		Timestamp:        time.Now().UTC(),
		Status:           status,
		Error:            http.StatusText(status),
		DeveloperMessage: message,
		Fields:           fields,
	}

	err := app.writeJSON(w, status, body, nil)
	if err != nil {
		app.logError(r, err)
		w.WriteHeader(http.StatusInternalServerError)
	}
}

// domainErrorResponse 把 service 层返回的错误映射为 HTTP 状态码
func (app *application) domainErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	var validationError *service.ValidationError

	switch {
	case errors.Is(err, service.ErrMovieNotFound):
		app.movieNotFoundResponse(w, r)
	case errors.As(err, &validationError):
		app.failedValidationResponse(w, r, validationError)
	default:
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) serverErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.logError(r, err)

	message := "the server encountered a problem and could not process your request"
	app.errorResponse(w, r, http.StatusInternalServerError, message, nil)
}

func (app *application) notFoundResponse(w http.ResponseWriter, r *http.Request) {
	message := "the requested resource could not be found"
	app.errorResponse(w, r, http.StatusNotFound, message, nil)
}

func (app *application) movieNotFoundResponse(w http.ResponseWriter, r *http.Request) {
	app.errorResponse(w, r, http.StatusNotFound, service.ErrMovieNotFound.Error(), nil)
}

func (app *application) methodNotAllowedResponse(w http.ResponseWriter, r *http.Request) {
	message := fmt.Sprintf("the %s method is not supported for this resource", r.Method)
	app.errorResponse(w, r, http.StatusMethodNotAllowed, message, nil)
}

func (app *application) badRequestResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.errorResponse(w, r, http.StatusBadRequest, err.Error(), nil)
}

func (app *application) failedValidationResponse(w http.ResponseWriter, r *http.Request, err *service.ValidationError) {
	app.errorResponse(w, r, http.StatusBadRequest, err.Error(), err.Errors)
}

func (app *application) rateLimitExceededResponse(w http.ResponseWriter, r *http.Request) {
	message := "rate limit exceeded"
	app.errorResponse(w, r, http.StatusTooManyRequests, message, nil)
}

func (app *application) invalidCredentialsResponse(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("WWW-Authenticate", `Basic realm="movies", charset="UTF-8"`)

	message := "invalid authentication credentials"
	app.errorResponse(w, r, http.StatusUnauthorized, message, nil)
}

func (app *application) authenticationRequiredResponse(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("WWW-Authenticate", `Basic realm="movies", charset="UTF-8"`)

	message := "you must be authenticated to access this resource"
	app.errorResponse(w, r, http.StatusUnauthorized, message, nil)
}

func (app *application) notPermittedResponse(w http.ResponseWriter, r *http.Request) {
	message := "your user account doesn't have the necessary role to access this resource"
	app.errorResponse(w, r, http.StatusForbidden, message, nil)
}
