package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/liliang-cn/movieflux/internal/data"
	"github.com/liliang-cn/movieflux/internal/jsonlog"
	"github.com/liliang-cn/movieflux/internal/service"
)

type credentials struct {
	username string
	password string
}

var (
	anonymous = credentials{}
	asUser    = credentials{"user", "user-password"}
	asAdmin   = credentials{"admin", "admin-password"}
)

// newTestApplication 使用临时 SQLite 数据库构建应用，并创建 user 和 admin 两个账号
func newTestApplication(t *testing.T) *application {
	t.Helper()

	db, err := data.Open(data.DBConfig{
		Driver: data.DriverSQLite,
		DSN:    filepath.Join(t.TempDir(), "api.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	ctx := context.Background()
	require.NoError(t, data.Migrate(ctx, db, data.DriverSQLite))

	models := data.NewModels(db)
	seedUser(t, models, asUser, data.RoleUser)
	seedUser(t, models, asAdmin, data.RoleUser, data.RoleAdmin)

	var cfg config
	cfg.env = "testing"
	cfg.limiter.enabled = false

	return &application{
		config: cfg,
		logger: jsonlog.New(io.Discard, jsonlog.LevelOff),
		models: models,
		movies: service.NewMovies(models.Movies),
	}
}

func seedUser(t *testing.T, models data.Models, c credentials, roles ...string) {
	t.Helper()

	user := &data.User{Username: c.username}
	require.NoError(t, user.Password.Set(c.password))
	require.NoError(t, models.Users.Insert(context.Background(), user))
	require.NoError(t, models.Roles.AddForUser(context.Background(), user.ID, roles...))
}

type testServer struct {
	*httptest.Server
}

func newTestServer(t *testing.T, h http.Handler) *testServer {
	ts := httptest.NewServer(h)
	t.Cleanup(ts.Close)

	return &testServer{ts}
}

type testResponse struct {
	status  int
	headers http.Header
	body    []byte
}

// errorBody 把响应体解析为统一的错误结构
func (r testResponse) errorBody(t *testing.T) errorBody {
	t.Helper()

	var body errorBody
	require.NoError(t, json.Unmarshal(r.body, &body), "body: %s", r.body)
	return body
}

func (r testResponse) decode(t *testing.T, dst any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(r.body, dst), "body: %s", r.body)
}

func (ts *testServer) do(t *testing.T, method, urlPath string, c credentials, body string) testResponse {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}

	req, err := http.NewRequest(method, ts.URL+urlPath, reader)
	require.NoError(t, err)

	if c != anonymous {
		req.SetBasicAuth(c.username, c.password)
	}

	rs, err := ts.Client().Do(req)
	require.NoError(t, err)
	defer rs.Body.Close()

	b, err := io.ReadAll(rs.Body)
	require.NoError(t, err)

	return testResponse{status: rs.StatusCode, headers: rs.Header, body: bytes.TrimSpace(b)}
}

// assertNonBlocking 在存储层阻塞时取消请求，handler 必须在限定时间内返回
func assertNonBlocking(t *testing.T, h http.Handler, r *http.Request) *httptest.ResponseRecorder {
	t.Helper()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	rr := httptest.NewRecorder()
	done := make(chan struct{})

	go func() {
		defer close(done)
		h.ServeHTTP(rr, r.WithContext(ctx))
	}()

	time.AfterFunc(20*time.Millisecond, cancel)

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("%s %s still blocked after its request context was cancelled", r.Method, r.URL.Path)
	}

	return rr
}
