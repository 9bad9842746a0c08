package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/kritika-v/stockwatch/backend/internal/models"
)

// MockUserStore is a mock implementation of UserStore for testing.
type MockUserStore struct {
	mock.Mock
}

func (m *MockUserStore) CreateUser(ctx context.Context, username, hashedPw, preferredStock string) (*models.User, error) {
	args := m.Called(ctx, username, hashedPw, preferredStock)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserStore) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

// fakeSessions is an in-memory Sessions implementation.
type fakeSessions struct {
	byID map[string]string
}

func newFakeSessions() *fakeSessions {
	return &fakeSessions{byID: map[string]string{}}
}

func (f *fakeSessions) Create(ctx context.Context, username string) (string, error) {
	sid := "sid-" + username
	f.byID[sid] = username
	return sid, nil
}

func (f *fakeSessions) Get(ctx context.Context, sessionID string) (string, error) {
	return f.byID[sessionID], nil
}

func (f *fakeSessions) Delete(ctx context.Context, sessionID string) error {
	delete(f.byID, sessionID)
	return nil
}

func postJSON(t *testing.T, handler http.HandlerFunc, body any) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	assert.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(data))
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func TestRegister_Success(t *testing.T) {
	users := new(MockUserStore)
	users.On("GetUserByUsername", mock.Anything, "alice").Return(nil, nil)
	users.On("CreateUser", mock.Anything, "alice", mock.Anything, "AAPL").
		Return(&models.User{Username: "alice", Password: "hash", PreferredStock: "AAPL"}, nil)
	h := NewHandler(users, newFakeSessions())

	rec := postJSON(t, h.Register, models.RegisterRequest{
		Username: "alice", Password: "pw123", PreferredStock: "AAPL",
	})

	assert.Equal(t, http.StatusCreated, rec.Code)
	var resp struct {
		Message string `json:"message"`
		User    struct {
			Username       string `json:"username"`
			PreferredStock string `json:"preferred_stock"`
		} `json:"user"`
	}
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "User registered successfully", resp.Message)
	assert.Equal(t, "alice", resp.User.Username)
	assert.Equal(t, "AAPL", resp.User.PreferredStock)
	assert.NotContains(t, rec.Body.String(), "pw123")
	assert.NotContains(t, rec.Body.String(), "hash")
	users.AssertExpectations(t)
}

func TestRegister_DuplicateUsername(t *testing.T) {
	users := new(MockUserStore)
	users.On("GetUserByUsername", mock.Anything, "alice").
		Return(&models.User{Username: "alice"}, nil)
	h := NewHandler(users, newFakeSessions())

	rec := postJSON(t, h.Register, models.RegisterRequest{
		Username: "alice", Password: "pw123", PreferredStock: "AAPL",
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "User already exists")
	users.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestRegister_MissingFields(t *testing.T) {
	h := NewHandler(new(MockUserStore), newFakeSessions())

	for _, body := range []models.RegisterRequest{
		{Password: "pw", PreferredStock: "AAPL"},
		{Username: "alice", PreferredStock: "AAPL"},
		{Username: "alice", Password: "pw"},
	} {
		rec := postJSON(t, h.Register, body)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "Missing required fields")
	}
}

func TestLogin_Success(t *testing.T) {
	hash, err := HashPassword("pw123")
	assert.NoError(t, err)

	users := new(MockUserStore)
	users.On("GetUserByUsername", mock.Anything, "alice").
		Return(&models.User{Username: "alice", Password: hash}, nil)
	h := NewHandler(users, newFakeSessions())

	rec := postJSON(t, h.Login, models.LoginRequest{Username: "alice", Password: "pw123"})

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp map[string]string
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Login successful", resp["message"])
	assert.Equal(t, "alice", resp["username"])

	cookies := rec.Result().Cookies()
	assert.Len(t, cookies, 1)
	assert.Equal(t, SessionCookie, cookies[0].Name)
	assert.NotEmpty(t, cookies[0].Value)
}

func TestLogin_WrongPassword(t *testing.T) {
	hash, err := HashPassword("pw123")
	assert.NoError(t, err)

	users := new(MockUserStore)
	users.On("GetUserByUsername", mock.Anything, "alice").
		Return(&models.User{Username: "alice", Password: hash}, nil)
	h := NewHandler(users, newFakeSessions())

	rec := postJSON(t, h.Login, models.LoginRequest{Username: "alice", Password: "nope"})

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Incorrect password")
}

func TestLogin_UnknownUser(t *testing.T) {
	users := new(MockUserStore)
	users.On("GetUserByUsername", mock.Anything, "ghost").Return(nil, nil)
	h := NewHandler(users, newFakeSessions())

	rec := postJSON(t, h.Login, models.LoginRequest{Username: "ghost", Password: "pw"})

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "No user exists with this username")
}

func TestLogin_MissingFields(t *testing.T) {
	h := NewHandler(new(MockUserStore), newFakeSessions())

	rec := postJSON(t, h.Login, models.LoginRequest{Username: "alice"})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Missing required fields")
}

func TestLogout_DestroysSession(t *testing.T) {
	sessions := newFakeSessions()
	sid, err := sessions.Create(context.Background(), "alice")
	assert.NoError(t, err)
	h := NewHandler(new(MockUserStore), sessions)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: sid})
	rec := httptest.NewRecorder()
	h.Logout(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "logged out")
	assert.Empty(t, sessions.byID)

	cookies := rec.Result().Cookies()
	assert.Len(t, cookies, 1)
	assert.Equal(t, SessionCookie, cookies[0].Name)
	assert.Empty(t, cookies[0].Value)
	assert.Equal(t, -1, cookies[0].MaxAge)
}

func TestLogout_WithoutCookieStillSucceeds(t *testing.T) {
	h := NewHandler(new(MockUserStore), newFakeSessions())

	req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	rec := httptest.NewRecorder()
	h.Logout(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "logged out")
}

func TestMe_ReturnsCurrentUser(t *testing.T) {
	users := new(MockUserStore)
	users.On("GetUserByUsername", mock.Anything, "alice").
		Return(&models.User{Username: "alice", Password: "hash", PreferredStock: "AAPL"}, nil)
	h := NewHandler(users, newFakeSessions())

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req = req.WithContext(context.WithValue(req.Context(), "username", "alice"))
	rec := httptest.NewRecorder()
	h.Me(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp map[string]string
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "alice", resp["username"])
	assert.Equal(t, "AAPL", resp["preferred_stock"])
	assert.NotContains(t, rec.Body.String(), "hash")
}

func TestMe_NotAuthenticated(t *testing.T) {
	h := NewHandler(new(MockUserStore), newFakeSessions())

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	rec := httptest.NewRecorder()
	h.Me(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMe_UserGone(t *testing.T) {
	users := new(MockUserStore)
	users.On("GetUserByUsername", mock.Anything, "ghost").Return(nil, nil)
	h := NewHandler(users, newFakeSessions())

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req = req.WithContext(context.WithValue(req.Context(), "username", "ghost"))
	rec := httptest.NewRecorder()
	h.Me(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
