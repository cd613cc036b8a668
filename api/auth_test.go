package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"skinsight/config"
	"skinsight/middleware"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var userColumns = []string{"id", "name", "email", "password", "created_at", "updated_at"}

func initTestJWT() {
	middleware.InitJWT(&config.Config{JWT: config.JWTConfig{Secret: "test-secret"}})
}

func postJSON(router *gin.Engine, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAuthHandler_Register(t *testing.T) {
	db, mock := setupMockDB(t)

	// 邮箱未注册
	mock.ExpectQuery("SELECT .* FROM `users`").
		WillReturnRows(sqlmock.NewRows(userColumns))
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `users`").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	router := gin.New()
	router.POST("/register", NewAuthHandler(db, time.Hour, nil).Register)

	w := postJSON(router, "/register", `{"name":"Jane Doe","email":"Jane@Example.com","password":"password123"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, true, resp["success"])
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, "jane@example.com", data["email"])
	assert.NotContains(t, data, "password")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAuthHandler_Register_EmailTaken(t *testing.T) {
	db, mock := setupMockDB(t)
	mock.ExpectQuery("SELECT .* FROM `users`").
		WillReturnRows(sqlmock.NewRows(userColumns).AddRow(1, "Jane", "jane@example.com", "x", time.Now(), time.Now()))

	router := gin.New()
	router.POST("/register", NewAuthHandler(db, time.Hour, nil).Register)

	w := postJSON(router, "/register", `{"name":"Jane","email":"jane@example.com","password":"password123"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "already registered")
}

func TestAuthHandler_Register_InvalidInput(t *testing.T) {
	db, mock := setupMockDB(t)
	router := gin.New()
	router.POST("/register", NewAuthHandler(db, time.Hour, nil).Register)

	w := postJSON(router, "/register", `{"name":"Jane","email":"jane","password":"123"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAuthHandler_Register_DBError(t *testing.T) {
	db, mock := setupMockDB(t)
	mock.ExpectQuery("SELECT .* FROM `users`").WillReturnError(errors.New("connection refused"))

	router := gin.New()
	router.POST("/register", NewAuthHandler(db, time.Hour, nil).Register)

	w := postJSON(router, "/register", `{"name":"Jane","email":"jane@example.com","password":"password123"}`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestAuthHandler_Login(t *testing.T) {
	initTestJWT()
	db, mock := setupMockDB(t)

	hashed, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)
	mock.ExpectQuery("SELECT .* FROM `users`").
		WillReturnRows(sqlmock.NewRows(userColumns).AddRow(5, "Jane Doe", "jane@example.com", string(hashed), time.Now(), time.Now()))

	router := gin.New()
	router.POST("/login", NewAuthHandler(db, time.Hour, nil).Login)

	w := postJSON(router, "/login", `{"email":"jane@example.com","password":"password123"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Data LoginResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Data.Token)

	claims, err := middleware.ParseToken(resp.Data.Token)
	require.NoError(t, err)
	assert.Equal(t, uint(5), claims.UserID)
	assert.Equal(t, "Jane Doe", claims.Username)
}

func TestAuthHandler_Login_WrongPassword(t *testing.T) {
	initTestJWT()
	db, mock := setupMockDB(t)

	hashed, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	mock.ExpectQuery("SELECT .* FROM `users`").
		WillReturnRows(sqlmock.NewRows(userColumns).AddRow(5, "Jane", "jane@example.com", string(hashed), time.Now(), time.Now()))

	router := gin.New()
	router.POST("/login", NewAuthHandler(db, time.Hour, nil).Login)

	w := postJSON(router, "/login", `{"email":"jane@example.com","password":"wrong-password"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid email or password")
}

func TestAuthHandler_Login_UnknownUser(t *testing.T) {
	db, mock := setupMockDB(t)
	mock.ExpectQuery("SELECT .* FROM `users`").WillReturnRows(sqlmock.NewRows(userColumns))

	router := gin.New()
	router.POST("/login", NewAuthHandler(db, time.Hour, nil).Login)

	w := postJSON(router, "/login", `{"email":"nobody@example.com","password":"password123"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthHandler_GetProfile(t *testing.T) {
	db, mock := setupMockDB(t)
	mock.ExpectQuery("SELECT .* FROM `users`").
		WillReturnRows(sqlmock.NewRows(userColumns).AddRow(3, "Jane", "jane@example.com", "hash", time.Now(), time.Now()))

	router := gin.New()
	router.Use(setUserMiddleware(3, "Jane"))
	router.GET("/profile", NewAuthHandler(db, time.Hour, nil).GetProfile)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/profile", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "jane@example.com")
	assert.NotContains(t, w.Body.String(), "hash")
}

func TestAuthHandler_GetProfile_NotFound(t *testing.T) {
	db, mock := setupMockDB(t)
	mock.ExpectQuery("SELECT .* FROM `users`").WillReturnRows(sqlmock.NewRows(userColumns))

	router := gin.New()
	router.Use(setUserMiddleware(3, "Jane"))
	router.GET("/profile", NewAuthHandler(db, time.Hour, nil).GetProfile)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/profile", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
