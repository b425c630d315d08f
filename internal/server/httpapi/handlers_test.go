package httpapi

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nexcart/authd/internal/common"
	"github.com/nexcart/authd/internal/logging"
	"github.com/nexcart/authd/internal/server/auth"
	"github.com/nexcart/authd/internal/server/config"
	"github.com/nexcart/authd/internal/server/users"
)

const testSecret = "test-secret"

// --- in-memory repository ---

type memRepo struct {
	byID map[string]*users.User
}

func newMemRepo() *memRepo {
	return &memRepo{byID: make(map[string]*users.User)}
}

func (m *memRepo) Create(ctx context.Context, u *users.User) (*users.User, error) {
	for _, existing := range m.byID {
		if existing.Email == u.Email || existing.Username == u.Username {
			return nil, common.ErrorAlreadyExists
		}
	}
	stored := *u
	stored.CreatedAt = time.Now()
	m.byID[u.ID] = &stored
	return &stored, nil
}

func (m *memRepo) GetByEmail(ctx context.Context, email string) (*users.User, error) {
	for _, u := range m.byID {
		if u.Email == email {
			out := *u
			return &out, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (m *memRepo) GetByID(ctx context.Context, id string) (*users.User, error) {
	u, ok := m.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	out := *u
	return &out, nil
}

func (m *memRepo) UpdatePasswordHash(ctx context.Context, id string, hash string) error {
	u, ok := m.byID[id]
	if !ok {
		return common.ErrorNotFound
	}
	u.PasswordHash = hash
	return nil
}

func (m *memRepo) Delete(ctx context.Context, id string) error {
	if _, ok := m.byID[id]; !ok {
		return common.ErrorNotFound
	}
	delete(m.byID, id)
	return nil
}

// --- harness ---

func newTestServer(t *testing.T) (*HTTPServer, *memRepo) {
	t.Helper()

	cfg := &config.Config{
		Address:                     ":0",
		SecretKey:                   testSecret,
		SignupTokenValidityDuration: 15 * 24 * time.Hour,
		LoginTokenValidityDuration:  12 * 24 * time.Hour,
		CORSOrigins:                 "http://localhost:5173",
	}

	repo := newMemRepo()
	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	svc := users.NewService(repo, logger, cfg)

	s, err := NewHTTPServer(cfg, logger, svc)
	require.NoError(t, err)
	return s, repo
}

func doJSON(t *testing.T, s *HTTPServer, method, path, body, token string) (*http.Response, map[string]string) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}

	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	out := map[string]string{}
	if len(data) > 0 && strings.HasPrefix(resp.Header.Get(fiber.HeaderContentType), fiber.MIMEApplicationJSON) {
		require.NoError(t, json.Unmarshal(data, &out))
	} else {
		out["raw"] = string(data)
	}
	return resp, out
}

func signupAlice(t *testing.T, s *HTTPServer) string {
	t.Helper()
	resp, body := doJSON(t, s, http.MethodPost, "/api/auth/signup",
		`{"username":"alice","email":"a@x.com","password":"Abc123!"}`, "")
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.NotEmpty(t, body["token"])
	return body["token"]
}

// --- signup ---

func TestSignup(t *testing.T) {
	s, _ := newTestServer(t)

	token := signupAlice(t, s)

	userID, err := auth.GetUserIDFromToken(token, []byte(testSecret))
	require.NoError(t, err)
	assert.NotEmpty(t, userID)
}

func TestSignup_ValidationMessages(t *testing.T) {
	s, _ := newTestServer(t)

	tests := []struct {
		name string
		body string
		want string
	}{
		{
			name: "short username",
			body: `{"username":"al","email":"a@x.com","password":"Abc123!"}`,
			want: "Username must be between 3 to 30 characters",
		},
		{
			name: "long username",
			body: `{"username":"` + strings.Repeat("a", 31) + `","email":"a@x.com","password":"Abc123!"}`,
			want: "Username must be between 3 to 30 characters",
		},
		{
			name: "bad email",
			body: `{"username":"alice","email":"not-an-email","password":"Abc123!"}`,
			want: "Invalid email format",
		},
		{
			name: "weak password",
			body: `{"username":"alice","email":"a@x.com","password":"abc123!"}`,
			want: "Password must be at least 6 characters long, contain one uppercase letter, one number, and one special character",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			resp, body := doJSON(t, s, http.MethodPost, "/api/auth/signup", tc.body, "")
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			assert.Equal(t, tc.want, body["message"])
		})
	}
}

func TestSignup_DuplicateEmail(t *testing.T) {
	s, _ := newTestServer(t)

	signupAlice(t, s)

	resp, body := doJSON(t, s, http.MethodPost, "/api/auth/signup",
		`{"username":"bob","email":"a@x.com","password":"Xyz987!"}`, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "User with this email already exists", body["message"])
}

// --- login ---

func TestLogin_MissingFields(t *testing.T) {
	s, _ := newTestServer(t)

	resp, body := doJSON(t, s, http.MethodPost, "/api/auth/login", `{}`, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Email is required", body["message"])

	resp, body = doJSON(t, s, http.MethodPost, "/api/auth/login", `{"email":"a@x.com"}`, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Password is required", body["message"])
}

func TestLogin_UnknownUserIs400(t *testing.T) {
	s, _ := newTestServer(t)

	resp, body := doJSON(t, s, http.MethodPost, "/api/auth/login",
		`{"email":"ghost@x.com","password":"Abc123!"}`, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "User not found", body["message"])
}

func TestLogin_WrongPassword(t *testing.T) {
	s, _ := newTestServer(t)
	signupAlice(t, s)

	resp, body := doJSON(t, s, http.MethodPost, "/api/auth/login",
		`{"email":"a@x.com","password":"Xyz987!"}`, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Invalid credentials", body["message"])
}

func TestLogin_Success(t *testing.T) {
	s, _ := newTestServer(t)
	signupToken := signupAlice(t, s)

	resp, body := doJSON(t, s, http.MethodPost, "/api/auth/login",
		`{"email":"a@x.com","password":"Abc123!"}`, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Login successful", body["message"])
	assert.NotEmpty(t, body["token"])
	assert.NotEqual(t, signupToken, body["token"])
}

// --- auth gate ---

func TestAuthGate(t *testing.T) {
	s, _ := newTestServer(t)

	t.Run("no token", func(t *testing.T) {
		resp, body := doJSON(t, s, http.MethodGet, "/api/auth/user", "", "")
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
		assert.Equal(t, "No token provided", body["message"])
	})

	t.Run("header without bearer prefix", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/auth/user", nil)
		req.Header.Set(fiber.HeaderAuthorization, "whatever")
		resp, err := s.app.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("garbage token", func(t *testing.T) {
		resp, body := doJSON(t, s, http.MethodGet, "/api/auth/user", "", "not.a.jwt")
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		assert.Equal(t, "Invalid or expired token", body["message"])
	})

	t.Run("expired token", func(t *testing.T) {
		expired, err := auth.GenerateToken("u-1", []byte(testSecret), -time.Minute)
		require.NoError(t, err)

		resp, body := doJSON(t, s, http.MethodGet, "/api/auth/user", "", expired)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		assert.Equal(t, "Invalid or expired token", body["message"])
	})
}

// --- profile ---

func TestGetUser(t *testing.T) {
	s, _ := newTestServer(t)
	token := signupAlice(t, s)

	resp, body := doJSON(t, s, http.MethodGet, "/api/auth/user", "", token)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "alice", body["username"])
	assert.Equal(t, "a@x.com", body["email"])
	assert.Equal(t, "no-store", resp.Header.Get(fiber.HeaderCacheControl))

	// the hash must never appear in the projection
	_, hasPassword := body["password"]
	assert.False(t, hasPassword)
}

func TestGetUser_DeletedSubject(t *testing.T) {
	s, repo := newTestServer(t)
	token := signupAlice(t, s)

	userID, err := auth.GetUserIDFromToken(token, []byte(testSecret))
	require.NoError(t, err)
	require.NoError(t, repo.Delete(context.Background(), userID))

	resp, body := doJSON(t, s, http.MethodGet, "/api/auth/user", "", token)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "User not found", body["message"])
}

// --- change password ---

func TestChangePassword(t *testing.T) {
	s, _ := newTestServer(t)
	token := signupAlice(t, s)

	t.Run("missing fields", func(t *testing.T) {
		resp, body := doJSON(t, s, http.MethodPut, "/api/auth/change-password",
			`{"oldPassword":"Abc123!"}`, token)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "Both old and new passwords are required", body["message"])
	})

	t.Run("wrong old password", func(t *testing.T) {
		resp, body := doJSON(t, s, http.MethodPut, "/api/auth/change-password",
			`{"oldPassword":"Wrong1!","newPassword":"Xyz987!"}`, token)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "Old password is incorrect", body["message"])
	})

	t.Run("weak new password", func(t *testing.T) {
		resp, body := doJSON(t, s, http.MethodPut, "/api/auth/change-password",
			`{"oldPassword":"Abc123!","newPassword":"weak"}`, token)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "New password must be at least 6 characters long, contain one uppercase letter, one number, and one special character", body["message"])
	})

	t.Run("success", func(t *testing.T) {
		resp, body := doJSON(t, s, http.MethodPut, "/api/auth/change-password",
			`{"oldPassword":"Abc123!","newPassword":"Xyz987!"}`, token)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "Password changed successfully", body["message"])
	})

	t.Run("old password no longer works", func(t *testing.T) {
		resp, body := doJSON(t, s, http.MethodPost, "/api/auth/login",
			`{"email":"a@x.com","password":"Abc123!"}`, "")
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "Invalid credentials", body["message"])
	})

	t.Run("new password works", func(t *testing.T) {
		resp, _ := doJSON(t, s, http.MethodPost, "/api/auth/login",
			`{"email":"a@x.com","password":"Xyz987!"}`, "")
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("signup token still valid after change", func(t *testing.T) {
		resp, _ := doJSON(t, s, http.MethodGet, "/api/auth/user", "", token)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})
}

// --- delete account ---

func TestDeleteAccount(t *testing.T) {
	s, _ := newTestServer(t)
	token := signupAlice(t, s)

	resp, body := doJSON(t, s, http.MethodDelete, "/api/auth/delete-account", "", token)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Account deleted successfully", body["message"])

	// token is still unexpired but the record is gone
	resp, body = doJSON(t, s, http.MethodGet, "/api/auth/user", "", token)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "User not found", body["message"])

	resp, body = doJSON(t, s, http.MethodDelete, "/api/auth/delete-account", "", token)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "User not found", body["message"])
}

// --- placeholder routes ---

func TestPlaceholderRoutes(t *testing.T) {
	s, _ := newTestServer(t)
	token := signupAlice(t, s)

	for _, path := range []string{"/home", "/men", "/women", "/kids", "/cart", "/account"} {
		resp, _ := doJSON(t, s, http.MethodGet, "/api/auth"+path, "", "")
		assert.Equal(t, http.StatusForbidden, resp.StatusCode, path)

		resp, body := doJSON(t, s, http.MethodGet, "/api/auth"+path, "", token)
		assert.Equal(t, http.StatusOK, resp.StatusCode, path)
		assert.Equal(t, "You have access to this route", body["message"], path)
	}
}

// --- misc ---

func TestWelcomeRoute(t *testing.T) {
	s, _ := newTestServer(t)

	resp, body := doJSON(t, s, http.MethodGet, "/", "", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Welcome to the NexCart API", body["raw"])
}
