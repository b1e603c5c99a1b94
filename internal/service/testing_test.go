package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"quizmaster_backend/internal/config"
	"quizmaster_backend/internal/model"
	"quizmaster_backend/internal/repository"
	"quizmaster_backend/pkg/database"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testNow = time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

type fixture struct {
	db *gorm.DB

	userRepo     *repository.UserRepository
	subjectRepo  *repository.SubjectRepository
	quizRepo     *repository.QuizRepository
	attemptRepo  *repository.QuizAttemptRepository
	progressRepo *repository.ProgressRepository

	auth     *AuthService
	users    *UserService
	catalog  *CatalogService
	progress *ProgressService
	quizzes  *QuizService
}

func newTestDB(t *testing.T) *gorm.DB {
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
	return db
}

func testConfig(t *testing.T) *config.Config {
	return &config.Config{
		JWT:     config.JWTConfig{Secret: "service-test-secret", ExpireTime: time.Hour},
		Auth:    config.AuthConfig{BcryptCost: bcrypt.MinCost},
		Storage: config.StorageConfig{Type: "local", LocalPath: t.TempDir()},
	}
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := newTestDB(t)
	cfg := testConfig(t)

	f := &fixture{
		db:           db,
		userRepo:     repository.NewUserRepository(db),
		subjectRepo:  repository.NewSubjectRepository(db),
		quizRepo:     repository.NewQuizRepository(db),
		attemptRepo:  repository.NewQuizAttemptRepository(db),
		progressRepo: repository.NewProgressRepository(db),
	}

	storage := &StorageService{Provider: &LocalStorageProvider{Config: &cfg.Storage}}
	f.auth = NewAuthService(f.userRepo, cfg)
	f.users = NewUserService(f.userRepo, NewAchievementService(), storage)
	f.catalog = NewCatalogService(f.subjectRepo, f.quizRepo, f.progressRepo)
	f.progress = NewProgressService(f.progressRepo, f.attemptRepo, f.quizRepo)
	f.progress.Now = func() time.Time { return testNow }
	cache := repository.NewQuizCache(nil, f.quizRepo, time.Minute)
	f.quizzes = NewQuizService(f.quizRepo, f.attemptRepo, cache, f.catalog, f.progress, f.users)
	f.quizzes.Now = func() time.Time { return testNow }
	return f
}

func (f *fixture) seedMath(t *testing.T) *model.Quiz {
	t.Helper()
	ctx := context.Background()

	subject := &model.Subject{
		ID:       "mathematics",
		Name:     "Mathematics",
		Color:    "#3B82F6",
		Icon:     "calculator",
		IsActive: true,
		Subtopics: []model.Subtopic{
			{ID: "algebra", Name: "Algebra", IsActive: true, Order: 1},
			{ID: "geometry", Name: "Geometry", IsActive: true, Order: 2},
			{ID: "calculus", Name: "Calculus", IsActive: false, Order: 3},
		},
	}
	if err := f.subjectRepo.Create(ctx, subject); err != nil {
		t.Fatalf("create subject: %v", err)
	}

	quiz := &model.Quiz{
		Title:     "Algebra Basics",
		Subject:   "mathematics",
		Subtopic:  "algebra",
		Path:      model.QuizPath("mathematics", "algebra"),
		TimeLimit: model.DefaultTimeLimit,
		IsActive:  true,
		Questions: []model.Question{
			{ID: 1, Type: model.MultipleChoice, Question: "Solve 2x = 4", Options: []string{"2", "4", "8", "0"}, Correct: json.RawMessage(`0`), Explanation: "Divide both sides by 2.", Points: 1},
			{ID: 2, Type: model.TrueFalse, Question: "A square is a rectangle.", Correct: json.RawMessage(`true`), Points: 1},
			{ID: 3, Type: model.FillBlank, Question: "The unknown in 3y = 9 is named _", Correct: json.RawMessage(`"y"`), Points: 1},
			{ID: 4, Type: model.FillBlank, Question: "x + 3 = 10, x = _", Correct: json.RawMessage(`"7"`), Points: 1},
		},
	}
	if err := f.quizRepo.Create(ctx, quiz); err != nil {
		t.Fatalf("create quiz: %v", err)
	}
	return quiz
}

func (f *fixture) register(t *testing.T, email string) *model.User {
	t.Helper()
	res, err := f.auth.Register(context.Background(), RegisterInput{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     email,
		Password:  "password123",
	})
	if err != nil {
		t.Fatalf("register %s: %v", email, err)
	}
	return res.User
}

func rawAnswers(t *testing.T, m map[string]any) map[string]json.RawMessage {
	t.Helper()
	out := make(map[string]json.RawMessage, len(m))
	for k, v := range m {
		b, err := json.Marshal(v)
		if err != nil {
			t.Fatalf("marshal answer %s: %v", k, err)
		}
		out[k] = b
	}
	return out
}

var allCorrect = map[string]any{"1": 0, "2": true, "3": " Y ", "4": "7"}
