package controller_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"quizmaster_backend/internal/app"
	"quizmaster_backend/internal/config"
	"quizmaster_backend/pkg/database"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type envelope struct {
	Success bool            `json:"success"`
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type apiClient struct {
	t      *testing.T
	router http.Handler
	token  string
}

func newTestApp(t *testing.T) *apiClient {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	cfg := &config.Config{
		Server:  config.ServerConfig{Port: "0", Mode: "test"},
		JWT:     config.JWTConfig{Secret: "api-test-secret", ExpireTime: time.Hour},
		Auth:    config.AuthConfig{BcryptCost: bcrypt.MinCost},
		Storage: config.StorageConfig{Type: "local", LocalPath: t.TempDir()},
		Quiz:    config.QuizConfig{CacheTTL: time.Minute},
	}

	application, err := app.New(cfg, db, nil)
	if err != nil {
		t.Fatalf("app.New: %v", err)
	}
	t.Cleanup(application.Close)
	if err := application.Seed(context.Background()); err != nil {
		t.Fatalf("seed: %v", err)
	}
	return &apiClient{t: t, router: application.Router}
}

func (c *apiClient) do(method, path string, body interface{}) (int, envelope) {
	c.t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			c.t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	w := httptest.NewRecorder()
	c.router.ServeHTTP(w, req)

	var env envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		c.t.Fatalf("%s %s: decode %q: %v", method, path, w.Body.String(), err)
	}
	return w.Code, env
}

func (c *apiClient) login(email string) {
	c.t.Helper()

	code, env := c.do(http.MethodPost, "/api/auth/register", map[string]string{
		"firstName": "Grace",
		"lastName":  "Hopper",
		"email":     email,
		"password":  "password123",
	})
	if code != http.StatusCreated || !env.Success {
		c.t.Fatalf("register = %d %+v", code, env)
	}

	code, env = c.do(http.MethodPost, "/api/auth/login", map[string]string{
		"email":    email,
		"password": "password123",
	})
	if code != http.StatusOK {
		c.t.Fatalf("login = %d %+v", code, env)
	}
	var auth struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(env.Data, &auth); err != nil || auth.Token == "" {
		c.t.Fatalf("login data = %s", env.Data)
	}
	c.token = auth.Token
}

func TestSubmitQuizFlow(t *testing.T) {
	api := newTestApp(t)
	api.login("grace@example.com")

	code, env := api.do(http.MethodPost, "/api/quiz/mathematics/algebra/submit", map[string]interface{}{
		"answers":   map[string]interface{}{"1": 0, "4": "7"},
		"timeSpent": 240,
	})
	if code != http.StatusOK || !env.Success {
		t.Fatalf("submit = %d %+v", code, env)
	}

	var result struct {
		Score          int `json:"score"`
		CorrectAnswers int `json:"correctAnswers"`
		TotalQuestions int `json:"totalQuestions"`
		Results        []struct {
			QuestionID int  `json:"questionId"`
			IsCorrect  bool `json:"isCorrect"`
		} `json:"results"`
	}
	if err := json.Unmarshal(env.Data, &result); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if result.Score != 40 || result.CorrectAnswers != 2 || result.TotalQuestions != 5 {
		t.Fatalf("result = %+v, want 2/5 for 40", result)
	}
	for _, r := range result.Results {
		want := r.QuestionID == 1 || r.QuestionID == 4
		if r.IsCorrect != want {
			t.Errorf("question %d correct = %v, want %v", r.QuestionID, r.IsCorrect, want)
		}
	}

	code, env = api.do(http.MethodGet, "/api/progress/subject/mathematics", nil)
	if code != http.StatusOK {
		t.Fatalf("subject progress = %d %+v", code, env)
	}
	var progress struct {
		TotalQuizzesCompleted int     `json:"totalQuizzesCompleted"`
		AverageScore          float64 `json:"averageScore"`
	}
	if err := json.Unmarshal(env.Data, &progress); err != nil {
		t.Fatalf("decode progress: %v", err)
	}
	if progress.TotalQuizzesCompleted != 1 || progress.AverageScore != 40 {
		t.Fatalf("progress = %+v", progress)
	}

	code, env = api.do(http.MethodGet, "/api/subject/mathematics", nil)
	if code != http.StatusOK || !bytes.Contains(env.Data, []byte(`"overallProgress"`)) {
		t.Fatalf("signed-in subject = %d %s", code, env.Data)
	}

	code, env = api.do(http.MethodGet, "/api/auth/me", nil)
	if code != http.StatusOK || !bytes.Contains(env.Data, []byte("grace@example.com")) {
		t.Fatalf("me = %d %s", code, env.Data)
	}
	if bytes.Contains(env.Data, []byte("password")) {
		t.Fatalf("me leaks the password hash: %s", env.Data)
	}

	code, env = api.do(http.MethodGet, "/api/quiz/history", nil)
	if code != http.StatusOK || !bytes.Contains(env.Data, []byte("mathematics")) {
		t.Fatalf("history = %d %s", code, env.Data)
	}
}

func TestGetQuizHidesAnswerKeys(t *testing.T) {
	api := newTestApp(t)

	code, env := api.do(http.MethodGet, "/api/quiz/mathematics/algebra", nil)
	if code != http.StatusOK {
		t.Fatalf("get quiz = %d %+v", code, env)
	}
	if bytes.Contains(env.Data, []byte(`"correct"`)) || bytes.Contains(env.Data, []byte(`"explanation"`)) {
		t.Fatalf("quiz leaks answer keys: %s", env.Data)
	}
	if !bytes.Contains(env.Data, []byte("Algebra")) {
		t.Fatalf("quiz data = %s", env.Data)
	}
}

func TestAnonymousSubjectHasNoProgress(t *testing.T) {
	api := newTestApp(t)

	code, env := api.do(http.MethodGet, "/api/subject/mathematics", nil)
	if code != http.StatusOK {
		t.Fatalf("subject = %d %+v", code, env)
	}
	if bytes.Contains(env.Data, []byte(`"overallProgress"`)) {
		t.Fatalf("anonymous subject carries progress: %s", env.Data)
	}
}

func TestAPIErrors(t *testing.T) {
	api := newTestApp(t)

	tests := []struct {
		name   string
		login  bool
		method string
		path   string
		body   interface{}
		want   int
	}{
		{"unknown quiz", false, http.MethodGet, "/api/quiz/mathematics/topology", nil, http.StatusNotFound},
		{"unknown subject", false, http.MethodGet, "/api/subject/astrology", nil, http.StatusNotFound},
		{"progress without token", false, http.MethodGet, "/api/progress", nil, http.StatusUnauthorized},
		{"submit without token", false, http.MethodPost, "/api/quiz/mathematics/algebra/submit", map[string]interface{}{"answers": map[string]int{"1": 0}}, http.StatusUnauthorized},
		{"submit without answers", true, http.MethodPost, "/api/quiz/mathematics/algebra/submit", map[string]interface{}{"timeSpent": 10}, http.StatusBadRequest},
		{"submit bad status", true, http.MethodPost, "/api/quiz/mathematics/algebra/submit", map[string]interface{}{"answers": map[string]int{"1": 0}, "status": "paused"}, http.StatusBadRequest},
		{"admin route as student", true, http.MethodGet, "/api/user/all", nil, http.StatusForbidden},
		{"bad theme", true, http.MethodPatch, "/api/user/preferences", map[string]string{"theme": "sepia"}, http.StatusBadRequest},
	}

	api.login("errors@example.com")
	token := api.token

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api.t = t
			api.token = ""
			if tt.login {
				api.token = token
			}
			code, env := api.do(tt.method, tt.path, tt.body)
			if code != tt.want {
				t.Fatalf("status = %d (%s), want %d", code, env.Message, tt.want)
			}
			if env.Success || env.Code != tt.want {
				t.Fatalf("envelope = %+v", env)
			}
		})
	}
}

func TestDuplicateRegistration(t *testing.T) {
	api := newTestApp(t)
	api.login("dup@example.com")

	code, env := api.do(http.MethodPost, "/api/auth/register", map[string]string{
		"firstName": "Grace",
		"lastName":  "Hopper",
		"email":     "DUP@example.com",
		"password":  "password123",
	})
	if code != http.StatusBadRequest || env.Success {
		t.Fatalf("duplicate register = %d %+v", code, env)
	}
}

func TestHealth(t *testing.T) {
	api := newTestApp(t)

	code, env := api.do(http.MethodGet, "/api/health", nil)
	if code != http.StatusOK || !env.Success {
		t.Fatalf("health = %d %+v", code, env)
	}
}
