package auth_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/volunhub/volunhub/modules/auth"
)

type envelope struct {
	Success bool                `json:"success"`
	Message string              `json:"message"`
	Data    map[string]any      `json:"data"`
	Errors  map[string][]string `json:"errors"`
}

func newTestHandler(t *testing.T) http.Handler {
	t.Helper()
	svc := auth.NewService(testConfig(), newFakeStorage(), &fakeMailer{}, newTestSessionManager(t),
		auth.WithCodeGenerator(fixedCode("123456")))
	return svc.Handle(auth.RouterOptions{})
}

func doJSON(t *testing.T, h http.Handler, method, path, body string, cookies []*http.Cookie) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var env envelope
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&env))
	return rec, env
}

const signupBody = `{
	"name": "Alice Tan",
	"username": "alicet",
	"email": "alice@example.com",
	"password": "correct-horse",
	"phoneNumber": "+65 9123 4567",
	"dateOfBirth": "2000-03-14",
	"gender": "female",
	"institution": "NUS",
	"educationLevel": "undergraduate",
	"address": "21 Lower Kent Ridge Rd"
}`

func TestSignupEndpoint(t *testing.T) {
	t.Parallel()

	t.Run("success", func(t *testing.T) {
		t.Parallel()
		h := newTestHandler(t)

		rec, env := doJSON(t, h, http.MethodPost, "/signup", signupBody, nil)
		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.True(t, env.Success)
		assert.Equal(t, "Verification code sent to your email", env.Message)
		assert.Equal(t, "alice@example.com", env.Data["email"])
		assert.Equal(t, false, env.Data["isVerified"])
		assert.NotContains(t, env.Data, "password")
	})

	t.Run("missing fields fail validation", func(t *testing.T) {
		t.Parallel()
		h := newTestHandler(t)

		rec, env := doJSON(t, h, http.MethodPost, "/signup", `{"email":"alice@example.com"}`, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.False(t, env.Success)
		assert.Contains(t, env.Errors, "username")
		assert.Contains(t, env.Errors, "password")
	})

	t.Run("duplicate email", func(t *testing.T) {
		t.Parallel()
		h := newTestHandler(t)

		rec, _ := doJSON(t, h, http.MethodPost, "/signup", signupBody, nil)
		require.Equal(t, http.StatusCreated, rec.Code)

		rec, env := doJSON(t, h, http.MethodPost, "/signup", signupBody, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "User already exists", env.Message)
	})
}

func TestVerifyEndpoint(t *testing.T) {
	t.Parallel()

	t.Run("full flow", func(t *testing.T) {
		t.Parallel()
		h := newTestHandler(t)

		rec, _ := doJSON(t, h, http.MethodPost, "/signup", signupBody, nil)
		require.Equal(t, http.StatusCreated, rec.Code)

		rec, env := doJSON(t, h, http.MethodPost, "/verify-signup",
			`{"email":"alice@example.com","code":"123456"}`, nil)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "Account verified successfully! You can now log in", env.Message)
		assert.Equal(t, true, env.Data["isVerified"])
		assert.Equal(t, "volunteer", env.Data["userType"])
	})

	t.Run("unknown email", func(t *testing.T) {
		t.Parallel()
		h := newTestHandler(t)

		rec, env := doJSON(t, h, http.MethodPost, "/verify-signup",
			`{"email":"nobody@example.com","code":"123456"}`, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "User not found with this email address", env.Message)
	})

	t.Run("wrong code", func(t *testing.T) {
		t.Parallel()
		h := newTestHandler(t)

		rec, _ := doJSON(t, h, http.MethodPost, "/signup", signupBody, nil)
		require.Equal(t, http.StatusCreated, rec.Code)

		rec, env := doJSON(t, h, http.MethodPost, "/verify-signup",
			`{"email":"alice@example.com","code":"654321"}`, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Invalid verification code", env.Message)
	})

	t.Run("resend via PUT", func(t *testing.T) {
		t.Parallel()
		h := newTestHandler(t)

		rec, _ := doJSON(t, h, http.MethodPost, "/signup", signupBody, nil)
		require.Equal(t, http.StatusCreated, rec.Code)

		rec, env := doJSON(t, h, http.MethodPut, "/verify-signup",
			`{"email":"alice@example.com"}`, nil)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "New verification code sent to your email", env.Message)
	})
}

func TestLoginEndpoint(t *testing.T) {
	t.Parallel()

	signupAndVerify := func(t *testing.T, h http.Handler) {
		t.Helper()
		rec, _ := doJSON(t, h, http.MethodPost, "/signup", signupBody, nil)
		require.Equal(t, http.StatusCreated, rec.Code)
		rec, _ = doJSON(t, h, http.MethodPost, "/verify-signup",
			`{"email":"alice@example.com","code":"123456"}`, nil)
		require.Equal(t, http.StatusOK, rec.Code)
	}

	t.Run("success sets cookie", func(t *testing.T) {
		t.Parallel()
		h := newTestHandler(t)
		signupAndVerify(t, h)

		rec, env := doJSON(t, h, http.MethodPost, "/login",
			`{"email":"alice@example.com","password":"correct-horse"}`, nil)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "Logged in successfully", env.Message)

		cookies := rec.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, "token", cookies[0].Name)
		assert.True(t, cookies[0].HttpOnly)
	})

	t.Run("unverified account is rejected", func(t *testing.T) {
		t.Parallel()
		h := newTestHandler(t)
		rec, _ := doJSON(t, h, http.MethodPost, "/signup", signupBody, nil)
		require.Equal(t, http.StatusCreated, rec.Code)

		rec, env := doJSON(t, h, http.MethodPost, "/login",
			`{"email":"alice@example.com","password":"correct-horse"}`, nil)
		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Equal(t, "Account is not verified. Please verify your email first", env.Message)
	})

	t.Run("wrong password gets the generic message", func(t *testing.T) {
		t.Parallel()
		h := newTestHandler(t)
		signupAndVerify(t, h)

		rec, env := doJSON(t, h, http.MethodPost, "/login",
			`{"email":"alice@example.com","password":"wrong"}`, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Invalid email or password", env.Message)

		rec, env2 := doJSON(t, h, http.MethodPost, "/login",
			`{"email":"nobody@example.com","password":"wrong"}`, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, env.Message, env2.Message)
	})
}

func TestLogoutEndpoint(t *testing.T) {
	t.Parallel()

	h := newTestHandler(t)
	rec, _ := doJSON(t, h, http.MethodPost, "/signup", signupBody, nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	rec, _ = doJSON(t, h, http.MethodPost, "/verify-signup",
		`{"email":"alice@example.com","code":"123456"}`, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rec, _ = doJSON(t, h, http.MethodPost, "/login",
		`{"email":"alice@example.com","password":"correct-horse"}`, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	loginCookies := rec.Result().Cookies()

	rec, env := doJSON(t, h, http.MethodPost, "/logout", `{}`, loginCookies)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Logged out successfully", env.Message)

	// The cookie is cleared on the response.
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "token", cookies[0].Name)
	assert.LessOrEqual(t, cookies[0].MaxAge, 0)
}
