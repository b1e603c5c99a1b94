package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"quizmaster_backend/internal/config"
	"quizmaster_backend/internal/model"
	"quizmaster_backend/internal/util"

	"github.com/gin-gonic/gin"
)

func testRouter(cfg *config.Config) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/private", AuthMiddleware(cfg), func(c *gin.Context) {
		util.Success(c, gin.H{"userId": util.GetUserFromContext(c).UserID})
	})
	r.GET("/admin", AuthMiddleware(cfg), RoleMiddleware(model.Teacher), func(c *gin.Context) {
		util.Success(c, nil)
	})
	r.GET("/optional", TryAuthMiddleware(cfg), func(c *gin.Context) {
		util.Success(c, gin.H{"authenticated": util.GetUserFromContext(c) != nil})
	})
	return r
}

func token(t *testing.T, cfg *config.Config, role model.UserRole, ttl time.Duration) string {
	t.Helper()
	u := &model.User{Email: "u@example.com", Role: role}
	u.ID = 9
	tok, err := util.GenerateJWT(u, cfg.JWT.Secret, ttl)
	if err != nil {
		t.Fatalf("GenerateJWT: %v", err)
	}
	return tok
}

func do(r http.Handler, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	cfg := &config.Config{JWT: config.JWTConfig{Secret: "test-secret"}}
	r := testRouter(cfg)

	tests := []struct {
		name  string
		path  string
		token string
		want  int
	}{
		{"no token", "/private", "", http.StatusUnauthorized},
		{"garbage token", "/private", "abc.def.ghi", http.StatusUnauthorized},
		{"expired token", "/private", token(t, cfg, model.Student, -time.Minute), http.StatusUnauthorized},
		{"valid token", "/private", token(t, cfg, model.Student, time.Hour), http.StatusOK},
		{"student on teacher route", "/admin", token(t, cfg, model.Student, time.Hour), http.StatusForbidden},
		{"teacher on teacher route", "/admin", token(t, cfg, model.Teacher, time.Hour), http.StatusOK},
		{"admin passes any role", "/admin", token(t, cfg, model.Admin, time.Hour), http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(r, tt.path, tt.token)
			if w.Code != tt.want {
				t.Fatalf("status = %d, want %d (body %s)", w.Code, tt.want, w.Body.String())
			}
			var resp util.Response
			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if resp.Success != (tt.want == http.StatusOK) {
				t.Fatalf("success = %v for status %d", resp.Success, w.Code)
			}
		})
	}
}

func TestTryAuthMiddleware(t *testing.T) {
	cfg := &config.Config{JWT: config.JWTConfig{Secret: "test-secret"}}
	r := testRouter(cfg)

	for _, tc := range []struct {
		token string
		want  bool
	}{
		{"", false},
		{"bogus", false},
		{token(t, cfg, model.Student, time.Hour), true},
	} {
		w := do(r, "/optional", tc.token)
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", w.Code)
		}
		var resp struct {
			Data struct {
				Authenticated bool `json:"authenticated"`
			} `json:"data"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if resp.Data.Authenticated != tc.want {
			t.Fatalf("authenticated = %v, want %v", resp.Data.Authenticated, tc.want)
		}
	}
}
