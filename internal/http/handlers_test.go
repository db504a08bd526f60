package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/sujalbistaa/confide/internal/models"
	"github.com/sujalbistaa/confide/internal/store"
)

const testAdminToken = "test-admin-token"

func setupRouter(t *testing.T) (*gin.Engine, *store.Stores) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	t.Setenv("X_ADMIN_TOKEN", testAdminToken)
	t.Setenv("CORS_ORIGIN", "*")

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(
		&models.Confession{},
		&models.Like{},
		&models.Report{},
		&models.Comment{},
	))

	router := gin.New()
	SetupRoutes(router, db)
	return router, store.New(db)
}

func doJSON(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func seed(t *testing.T, s *store.Stores, content, anonID string) *models.Confession {
	t.Helper()
	confession, err := s.Confessions.Create(content, anonID, nil, nil)
	require.NoError(t, err)
	return confession
}

func TestPostConfession(t *testing.T) {
	router, _ := setupRouter(t)

	w := doJSON(router, http.MethodPost, "/confessions",
		`{"content":"I forgot my own birthday","anon_id":"quiet-fox-42","city":"Paris"}`)
	assert.Equal(t, http.StatusCreated, w.Code)

	body := decode(t, w)
	data := body["data"].(map[string]any)
	assert.NotZero(t, data["id"])
}

func TestPostConfession_MissingContent(t *testing.T) {
	router, _ := setupRouter(t)

	w := doJSON(router, http.MethodPost, "/confessions", `{"anon_id":"quiet-fox-42"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetConfessions(t *testing.T) {
	router, s := setupRouter(t)
	seed(t, s, "hello out there", "quiet-fox-42")

	w := doJSON(router, http.MethodGet, "/confessions", "")
	assert.Equal(t, http.StatusOK, w.Code)

	body := decode(t, w)
	data := body["data"].([]any)
	require.Len(t, data, 1)
	first := data[0].(map[string]any)
	assert.Equal(t, "hello out there", first["content"])
	assert.EqualValues(t, 0, first["likes_count"])
}

func TestGetNearConfessions(t *testing.T) {
	router, s := setupRouter(t)
	city := "Paris"
	_, err := s.Confessions.Create("bonjour", "a", &city, nil)
	require.NoError(t, err)
	seed(t, s, "no city here", "b")

	w := doJSON(router, http.MethodGet, "/confessions/near?city=Paris", "")
	assert.Equal(t, http.StatusOK, w.Code)
	data := decode(t, w)["data"].([]any)
	require.Len(t, data, 1)

	w = doJSON(router, http.MethodGet, "/confessions/near", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetTrendingConfessions(t *testing.T) {
	router, s := setupRouter(t)
	seed(t, s, "something", "a")

	w := doJSON(router, http.MethodGet, "/confessions/trending", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w)["data"].([]any), 1)
}

func TestGetRandomConfessions(t *testing.T) {
	router, s := setupRouter(t)
	seed(t, s, "something", "a")

	w := doJSON(router, http.MethodGet, "/confessions/random", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w)["data"].([]any), 1)
}

func TestGetMyConfessions(t *testing.T) {
	router, s := setupRouter(t)
	seed(t, s, "mine", "quiet-fox-42")
	seed(t, s, "not mine", "loud-owl-7")

	w := doJSON(router, http.MethodGet, "/confessions/mine?anon_id=quiet-fox-42", "")
	assert.Equal(t, http.StatusOK, w.Code)
	data := decode(t, w)["data"].([]any)
	require.Len(t, data, 1)
	assert.Equal(t, "mine", data[0].(map[string]any)["content"])

	w = doJSON(router, http.MethodGet, "/confessions/mine", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLikeFlow(t *testing.T) {
	router, s := setupRouter(t)
	confession := seed(t, s, "like me", "author")

	w := doJSON(router, http.MethodPost, "/likes",
		`{"confession_id":1,"anon_id":"quiet-fox-42"}`)
	assert.Equal(t, http.StatusOK, w.Code)

	// Second like from the same identity conflicts.
	w = doJSON(router, http.MethodPost, "/likes",
		`{"confession_id":1,"anon_id":"quiet-fox-42"}`)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = doJSON(router, http.MethodGet, "/likes?confession_id=1&anon_id=quiet-fox-42", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decode(t, w)["hasLiked"])

	w = doJSON(router, http.MethodDelete, "/likes?confession_id=1&anon_id=quiet-fox-42", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(router, http.MethodDelete, "/likes?confession_id=1&anon_id=quiet-fox-42", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	// Counter back to zero after the unlike.
	confessions, err := s.Confessions.ListAll()
	require.NoError(t, err)
	require.Len(t, confessions, 1)
	assert.Equal(t, confession.ID, confessions[0].ID)
	assert.Equal(t, 0, confessions[0].LikesCount)
}

func TestLike_MissingFields(t *testing.T) {
	router, _ := setupRouter(t)

	w := doJSON(router, http.MethodPost, "/likes", `{"anon_id":"quiet-fox-42"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(router, http.MethodGet, "/likes?confession_id=1", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(router, http.MethodDelete, "/likes", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestReportFlow(t *testing.T) {
	router, s := setupRouter(t)
	seed(t, s, "report me", "author")

	w := doJSON(router, http.MethodPost, "/reports",
		`{"confession_id":1,"anon_id":"quiet-fox-42"}`)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(router, http.MethodPost, "/reports",
		`{"confession_id":1,"anon_id":"quiet-fox-42"}`)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = doJSON(router, http.MethodGet, "/reports?confession_id=1&anon_id=quiet-fox-42", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decode(t, w)["hasReported"])

	w = doJSON(router, http.MethodGet, "/reports?confession_id=1&anon_id=loud-owl-7", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, decode(t, w)["hasReported"])
}

func TestCommentFlow(t *testing.T) {
	router, s := setupRouter(t)
	confession := seed(t, s, "talk to me", "author")

	w := doJSON(router, http.MethodPost, "/comments",
		`{"confession_id":1,"content":"me too","anon_id":"quiet-fox-42"}`)
	assert.Equal(t, http.StatusCreated, w.Code)
	comment := decode(t, w)["data"].(map[string]any)
	assert.Equal(t, "me too", comment["content"])

	w = doJSON(router, http.MethodGet, "/comments?confession_id=1", "")
	assert.Equal(t, http.StatusOK, w.Code)
	comments := decode(t, w)["comments"].([]any)
	require.Len(t, comments, 1)

	w = doJSON(router, http.MethodGet, "/comments", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Counter reflected in the feed.
	confessions, err := s.Confessions.ListAll()
	require.NoError(t, err)
	require.Len(t, confessions, 1)
	assert.Equal(t, 1, confessions[0].CommentsCount)
	assert.Equal(t, confession.ID, confessions[0].ID)
}

func TestComment_MissingFields(t *testing.T) {
	router, _ := setupRouter(t)

	w := doJSON(router, http.MethodPost, "/comments", `{"confession_id":1,"anon_id":"x"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHideConfession_AdminOnly(t *testing.T) {
	router, s := setupRouter(t)
	seed(t, s, "about to vanish", "author")

	// No token
	w := doJSON(router, http.MethodDelete, "/confessions/1", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Wrong token
	req := httptest.NewRequest(http.MethodDelete, "/confessions/1", nil)
	req.Header.Set("X-Admin-Token", "wrong")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// Correct token hides the confession
	req = httptest.NewRequest(http.MethodDelete, "/confessions/1", nil)
	req.Header.Set("X-Admin-Token", testAdminToken)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	listed := doJSON(router, http.MethodGet, "/confessions", "")
	assert.Empty(t, decode(t, listed)["data"].([]any))
}

func TestHealthz(t *testing.T) {
	router, _ := setupRouter(t)

	w := doJSON(router, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, w.Code)
}
