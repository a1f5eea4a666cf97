// internal/tests/auth_test.go
package tests

import (
	"net/http"
)

func (s *APITestSuite) TestUserRegistration() {
	token := s.register("testuser")

	w, env := s.do(http.MethodGet, "/v1/auth/me", token, nil)
	requireCode(s.T(), w, http.StatusOK)

	var data struct {
		User struct {
			Username string `json:"username"`
		} `json:"user"`
	}
	s.decode(env, &data)
	s.Equal("testuser", data.User.Username)

	// Duplicate username
	w, env = s.do(http.MethodPost, "/v1/auth/register", "", map[string]string{
		"username": "testuser",
		"email":    "other@example.com",
		"password": testPassword,
	})
	requireCode(s.T(), w, http.StatusConflict)
	s.False(env.Success)

	// Weak password
	w, _ = s.do(http.MethodPost, "/v1/auth/register", "", map[string]string{
		"username": "weakling",
		"email":    "weak@example.com",
		"password": "password",
	})
	requireCode(s.T(), w, http.StatusBadRequest)
}

func (s *APITestSuite) TestUserLogin() {
	s.register("testuser")

	w, env := s.do(http.MethodPost, "/v1/auth/login", "", map[string]string{
		"email":    "testuser@example.com",
		"password": testPassword,
	})
	requireCode(s.T(), w, http.StatusOK)
	s.True(env.Success)

	var data struct {
		Token        string `json:"token"`
		RefreshToken string `json:"refresh_token"`
		TokenType    string `json:"token_type"`
	}
	s.decode(env, &data)
	s.NotEmpty(data.Token)
	s.Equal("Bearer", data.TokenType)

	w, env = s.do(http.MethodPost, "/v1/auth/refresh", "", map[string]string{"refresh_token": data.RefreshToken})
	requireCode(s.T(), w, http.StatusOK)
	s.True(env.Success)

	w, env = s.do(http.MethodPost, "/v1/auth/login", "", map[string]string{
		"email":    "testuser@example.com",
		"password": "WrongPass123!",
	})
	requireCode(s.T(), w, http.StatusUnauthorized)
	s.Equal("UNAUTHORIZED", env.Error.Code)
}

func (s *APITestSuite) TestProtectedRoutesRequireToken() {
	for _, path := range []string{"/v1/auth/me", "/v1/me/items", "/v1/notifications", "/v1/tickets"} {
		w, _ := s.do(http.MethodGet, path, "", nil)
		s.Equal(http.StatusUnauthorized, w.Code, path)
	}

	token := s.register("player")
	w, _ := s.do(http.MethodGet, "/v1/admin/stats", token, nil)
	s.Equal(http.StatusForbidden, w.Code)
}

func (s *APITestSuite) TestHealthAndMetrics() {
	w, _ := s.do(http.MethodGet, "/health", "", nil)
	requireCode(s.T(), w, http.StatusOK)
	s.Contains(w.Body.String(), "healthy")

	w, _ = s.do(http.MethodGet, "/metrics", "", nil)
	requireCode(s.T(), w, http.StatusOK)
	s.Contains(w.Body.String(), "http_requests_total")
}
