package controllers_test

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/facteam/blog-api/config"
	"github.com/facteam/blog-api/models"
	"github.com/facteam/blog-api/routes"
	"github.com/facteam/blog-api/utils"
)

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{}, &models.Post{}, &models.Category{},
		&models.Comment{}, &models.Subscriber{},
	))
	return db
}

func newTestRouter(t *testing.T, db *gorm.DB) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	if utils.Logger == nil {
		utils.Logger = zap.NewNop()
		utils.Sugar = utils.Logger.Sugar()
	}
	config.SetForTesting(config.AppConfig{
		JWTSecret:          "controller-test-secret",
		FrontendURL:        "http://localhost:3000",
		AllowedOrigins:     []string{"*"},
		GinMode:            "test",
		GinPath:            filepath.Join(t.TempDir(), "gin.log"),
		RateLimitPerMinute: 100000,
	})
	return routes.SetupRouter(db, nil)
}

func perform(r *gin.Engine, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func createUser(t *testing.T, db *gorm.DB, username, role string) (models.User, string) {
	t.Helper()
	hash, err := utils.HashSecret("password123")
	require.NoError(t, err)

	user := models.User{
		Username:     username,
		Email:        username + "@example.com",
		Name:         username,
		PasswordHash: hash,
		Role:         role,
	}
	require.NoError(t, db.Create(&user).Error)

	token, err := utils.GenerateToken(user.ID)
	require.NoError(t, err)
	return user, token
}

func createCategory(t *testing.T, db *gorm.DB, name string) models.Category {
	t.Helper()
	category := models.Category{
		Name: name,
		Slug: utils.ComputeSlug(name),
	}
	require.NoError(t, db.Create(&category).Error)
	return category
}

func createPost(t *testing.T, db *gorm.DB, author models.User, category models.Category, title string, published bool) models.Post {
	t.Helper()
	post := models.Post{
		Title:       title,
		Content:     "content of " + title,
		AuthorID:    author.ID,
		CategoryID:  category.ID,
		Slug:        utils.ComputeSlug(title),
		IsPublished: published,
	}
	if published {
		now := time.Now()
		post.PublishedAt = &now
	}
	require.NoError(t, db.Create(&post).Error)
	return post
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

func requireStatus(t *testing.T, w *httptest.ResponseRecorder, want int) {
	t.Helper()
	require.Equal(t, want, w.Code, "body: %s", w.Body.String())
}
