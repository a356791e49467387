package middleware

import (
	"bytes"
	"compress/gzip"
	"compress/zlib"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/letterdesk/internal/domain/model"
	pkgAuth "github.com/polkiloo/letterdesk/internal/pkg/auth"
	testhelpers "github.com/polkiloo/letterdesk/internal/test"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(router *gin.Engine, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func TestAuthRequired(t *testing.T) {
	router := gin.New()
	router.Use(AuthRequired(testhelpers.TokenParserStub{}))
	router.GET("/", func(c *gin.Context) {})
	if resp := serve(router, ""); resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", resp.Code)
	}

	router = gin.New()
	router.Use(AuthRequired(testhelpers.TokenParserStub{Err: pkgAuth.ErrInvalidToken}))
	router.GET("/", func(c *gin.Context) {})
	if resp := serve(router, "token"); resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for invalid token, got %d", resp.Code)
	}

	router = gin.New()
	router.Use(AuthRequired(testhelpers.TokenParserStub{Err: context.DeadlineExceeded}))
	router.GET("/", func(c *gin.Context) {})
	if resp := serve(router, "token"); resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.Code)
	}

	var stored model.Actor
	router = gin.New()
	router.Use(AuthRequired(testhelpers.TokenParserStub{Actor: testhelpers.PracticeActor(4)}))
	router.GET("/", func(c *gin.Context) {
		if v, ok := c.Get(ActorContextKey); ok {
			stored = v.(model.Actor)
		}
		c.Status(http.StatusOK)
	})
	if resp := serve(router, "token"); resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if stored.PracticeID != 4 || stored.Role != model.RolePractice {
		t.Fatalf("unexpected actor %+v", stored)
	}
}

func TestAdminOnly(t *testing.T) {
	tests := []struct {
		name   string
		actor  model.Actor
		status int
	}{
		{name: "admin", actor: testhelpers.AdminActor, status: http.StatusOK},
		{name: "practice", actor: testhelpers.PracticeActor(2), status: http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.Use(AuthRequired(testhelpers.TokenParserStub{Actor: tt.actor}), AdminOnly())
			router.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })
			if resp := serve(router, "token"); resp.Code != tt.status {
				t.Fatalf("expected %d, got %d", tt.status, resp.Code)
			}
		})
	}

	router := gin.New()
	router.Use(AdminOnly())
	router.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })
	if resp := serve(router, ""); resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without actor, got %d", resp.Code)
	}
}

func TestSetAuthCookie(t *testing.T) {
	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)
	SetAuthCookie(c, "token")
	if got := recorder.Header().Get("Authorization"); got != "Bearer token" {
		t.Fatalf("expected auth header, got %q", got)
	}
	result := recorder.Result()
	t.Cleanup(func() {
		_ = result.Body.Close()
	})
	cookies := result.Cookies()
	if len(cookies) == 0 || cookies[0].Value != "token" || cookies[0].Name != authCookieName {
		t.Fatalf("expected cookie with token, got %+v", cookies)
	}
	if !cookies[0].HttpOnly {
		t.Fatal("expected http only cookie")
	}
}

func TestExtractToken(t *testing.T) {
	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)
	c.Request, _ = http.NewRequest(http.MethodGet, "/", nil)
	if token := extractToken(c); token != "" {
		t.Fatalf("expected empty token, got %q", token)
	}
	c.Request.Header.Set("Authorization", "Bearer abc")
	if token := extractToken(c); token != "abc" {
		t.Fatalf("expected token from header, got %q", token)
	}
	c.Request.Header.Del("Authorization")
	c.Request.AddCookie(&http.Cookie{Name: authCookieName, Value: "cookie"})
	if token := extractToken(c); token != "cookie" {
		t.Fatalf("expected token from cookie, got %q", token)
	}
}

func TestDecompressRequest(t *testing.T) {
	var gzipped bytes.Buffer
	gz := gzip.NewWriter(&gzipped)
	_, _ = gz.Write([]byte("payload"))
	_ = gz.Close()

	var deflated bytes.Buffer
	zw := zlib.NewWriter(&deflated)
	_, _ = zw.Write([]byte("deflated payload"))
	_ = zw.Close()

	var large bytes.Buffer
	gz = gzip.NewWriter(&large)
	_, _ = gz.Write(bytes.Repeat([]byte("a"), 128))
	_ = gz.Close()

	router := gin.New()
	router.Use(DecompressRequest(64))
	router.POST("/", func(c *gin.Context) {
		data, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.String(http.StatusRequestEntityTooLarge, "too large")
			return
		}
		c.String(http.StatusOK, string(data))
	})

	tests := []struct {
		name     string
		encoding string
		body     []byte
		status   int
		want     string
	}{
		{name: "gzip", encoding: "gzip", body: gzipped.Bytes(), status: http.StatusOK, want: "payload"},
		{name: "deflate", encoding: "deflate", body: deflated.Bytes(), status: http.StatusOK, want: "deflated payload"},
		{name: "plain", body: []byte("plain"), status: http.StatusOK, want: "plain"},
		{name: "identity", encoding: "identity", body: []byte("plain"), status: http.StatusOK, want: "plain"},
		{name: "broken gzip", encoding: "gzip", body: []byte("not gzip"), status: http.StatusBadRequest},
		{name: "unsupported", encoding: "br", body: []byte("x"), status: http.StatusUnsupportedMediaType},
		{name: "over limit", encoding: "gzip", body: large.Bytes(), status: http.StatusRequestEntityTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(tt.body))
			if tt.encoding != "" {
				req.Header.Set("Content-Encoding", tt.encoding)
			}
			resp := httptest.NewRecorder()
			router.ServeHTTP(resp, req)
			if resp.Code != tt.status {
				t.Fatalf("expected status %d, got %d", tt.status, resp.Code)
			}
			if tt.want != "" && resp.Body.String() != tt.want {
				t.Fatalf("expected body %q, got %q", tt.want, resp.Body.String())
			}
		})
	}
}

func TestRequestLogger(t *testing.T) {
	var (
		levels  []slog.Level
		userIDs []int64
	)
	handler := slog.NewJSONHandler(io.Discard, &slog.HandlerOptions{ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
		switch a.Key {
		case slog.LevelKey:
			levels = append(levels, a.Value.Any().(slog.Level))
		case "user_id":
			userIDs = append(userIDs, a.Value.Int64())
		}
		return a
	}})
	logger := slog.New(handler)

	router := gin.New()
	router.Use(RequestLogger(logger))
	router.GET("/", func(c *gin.Context) {
		c.Set(ActorContextKey, model.Actor{UserID: 7, Role: model.RoleAdmin})
		c.Status(http.StatusOK)
	})
	router.GET("/missing", func(c *gin.Context) { c.Status(http.StatusNotFound) })
	router.GET("/fail", func(c *gin.Context) {
		_ = c.Error(errors.New("boom"))
		c.Status(http.StatusInternalServerError)
	})
	router.GET("/unavailable", func(c *gin.Context) { c.Status(http.StatusServiceUnavailable) })

	for _, path := range []string{"/", "/missing", "/fail", "/unavailable"} {
		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}
	want := []slog.Level{slog.LevelInfo, slog.LevelWarn, slog.LevelError, slog.LevelError}
	if len(levels) != len(want) {
		t.Fatalf("unexpected log levels %v", levels)
	}
	for i := range want {
		if levels[i] != want[i] {
			t.Fatalf("unexpected log levels %v", levels)
		}
	}
	if len(userIDs) != 1 || userIDs[0] != 7 {
		t.Fatalf("expected actor id to be logged once, got %v", userIDs)
	}
}

func TestRequestLoggerRequestID(t *testing.T) {
	router := gin.New()
	router.Use(RequestLogger(slog.New(slog.NewJSONHandler(io.Discard, nil))))
	var seen string
	router.GET("/", func(c *gin.Context) {
		seen = c.GetString(RequestIDContextKey)
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "req-42")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if seen != "req-42" || resp.Header().Get(RequestIDHeader) != "req-42" {
		t.Fatalf("expected caller request id to be kept, got %q / %q", seen, resp.Header().Get(RequestIDHeader))
	}

	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/", nil))
	generated := resp.Header().Get(RequestIDHeader)
	if len(generated) != 36 || generated != seen {
		t.Fatalf("expected generated uuid, got %q (context %q)", generated, seen)
	}
}

type observerStub struct {
	route  string
	method string
	code   int
}

func (o *observerStub) ObserveRequest(route, method string, code int, _ float64) {
	o.route, o.method, o.code = route, method, code
}

func TestRequestMetrics(t *testing.T) {
	observer := &observerStub{}
	router := gin.New()
	router.Use(RequestMetrics(observer))
	router.GET("/api/orders/:id", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/orders/7", nil))
	if observer.route != "/api/orders/:id" || observer.method != http.MethodGet || observer.code != http.StatusNoContent {
		t.Fatalf("unexpected observation %+v", observer)
	}

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/missing", nil))
	if observer.route != "unmatched" || observer.code != http.StatusNotFound {
		t.Fatalf("unexpected observation %+v", observer)
	}
}
