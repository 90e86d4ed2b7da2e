package server

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"
)

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type oauthRequest struct {
	AccessToken string `json:"access_token"`
}

type authResponse struct {
	Token     string `json:"token"`
	ExpiresAt string `json:"expires_at"`
	UserID    string `json:"user_id"`
}

// oauthProviders maps a provider name to its userinfo endpoint.
type oauthProviders map[string]string

func defaultOAuthProviders() oauthProviders {
	return oauthProviders{
		"kakao": "https://kapi.kakao.com/v2/user/me",
	}
}

// handleRegister handles user registration
func (s *Server) handleRegister(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request"})
	}

	// Validate
	if req.Username == "" || req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "username, email, and password required"})
	}

	if len(req.Password) < 8 {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "password must be at least 8 characters"})
	}

	// Hash password
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		c.Logger().Error("bcrypt error:", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}

	// Insert user
	var userID string
	err = s.db.QueryRow(`
		INSERT INTO users (username, email, password_hash, nickname)
		VALUES ($1, $2, $3, $1)
		RETURNING id`,
		req.Username, req.Email, string(hash),
	).Scan(&userID)

	if err != nil {
		if strings.Contains(err.Error(), "unique") {
			return c.JSON(http.StatusConflict, map[string]string{"error": "username or email already exists"})
		}
		c.Logger().Error("db error:", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}

	// Create session
	token, expiresAt, err := s.createSession(userID)
	if err != nil {
		c.Logger().Error("session error:", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}

	c.Logger().Infof("User registered: %s", req.Username)

	return c.JSON(http.StatusOK, authResponse{
		Token:     token,
		ExpiresAt: expiresAt.Format(time.RFC3339),
		UserID:    userID,
	})
}

// handleLogin handles user login
func (s *Server) handleLogin(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request"})
	}

	// Find user
	var userID, passwordHash string
	err := s.db.QueryRow(`
		SELECT id, COALESCE(password_hash, '') FROM users WHERE username = $1`,
		req.Username,
	).Scan(&userID, &passwordHash)

	if err != nil || passwordHash == "" {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid credentials"})
	}

	// Check password
	if err := bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(req.Password)); err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid credentials"})
	}

	// Create session
	token, expiresAt, err := s.createSession(userID)
	if err != nil {
		c.Logger().Error("session error:", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}

	c.Logger().Infof("User logged in: %s", req.Username)

	return c.JSON(http.StatusOK, authResponse{
		Token:     token,
		ExpiresAt: expiresAt.Format(time.RFC3339),
		UserID:    userID,
	})
}

// handleOAuthExchange trades a third-party provider access token for a
// daygrid session. The provider's userinfo endpoint is the source of truth
// for the stable external id and the profile fields.
func (s *Server) handleOAuthExchange(c echo.Context) error {
	provider := c.Param("provider")
	userinfoURL, ok := s.oauth[provider]
	if !ok {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "unknown provider"})
	}

	var req oauthRequest
	if err := c.Bind(&req); err != nil || req.AccessToken == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "access_token required"})
	}

	profile, err := fetchOAuthProfile(userinfoURL, req.AccessToken)
	if err != nil {
		c.Logger().Error("oauth userinfo error:", err)
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "provider rejected token"})
	}

	// Upsert user keyed by (provider, provider_user_id)
	var userID string
	err = s.db.QueryRow(`
		INSERT INTO users (provider, provider_user_id, name, nickname, avatar_url)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (provider, provider_user_id) DO UPDATE SET
			name = $3,
			nickname = $4,
			avatar_url = $5,
			updated_at = NOW()
		RETURNING id`,
		provider, profile.ID, profile.Name, profile.Nickname, profile.AvatarURL,
	).Scan(&userID)

	if err != nil {
		c.Logger().Error("db error:", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}

	token, expiresAt, err := s.createSession(userID)
	if err != nil {
		c.Logger().Error("session error:", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}

	c.Logger().Infof("OAuth login via %s: %s", provider, userID)

	return c.JSON(http.StatusOK, authResponse{
		Token:     token,
		ExpiresAt: expiresAt.Format(time.RFC3339),
		UserID:    userID,
	})
}

type oauthProfile struct {
	ID        string
	Name      string
	Nickname  string
	AvatarURL string
}

// fetchOAuthProfile calls the provider userinfo endpoint with the user's
// access token. The shape below covers Kakao's v2/user/me response.
func fetchOAuthProfile(url, accessToken string) (*oauthProfile, error) {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("userinfo returned %d", resp.StatusCode)
	}

	var raw struct {
		ID      json.Number `json:"id"`
		Account struct {
			Profile struct {
				Nickname        string `json:"nickname"`
				ProfileImageURL string `json:"profile_image_url"`
			} `json:"profile"`
			Name string `json:"name"`
		} `json:"kakao_account"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, err
	}
	if raw.ID.String() == "" {
		return nil, fmt.Errorf("userinfo response missing id")
	}

	return &oauthProfile{
		ID:        raw.ID.String(),
		Name:      raw.Account.Name,
		Nickname:  raw.Account.Profile.Nickname,
		AvatarURL: raw.Account.Profile.ProfileImageURL,
	}, nil
}

// handleMe returns current user info
func (s *Server) handleMe(c echo.Context) error {
	userID := c.Get("user_id").(string)

	var username, email, name, nickname, avatarURL string
	err := s.db.QueryRow(`
		SELECT COALESCE(username, ''), COALESCE(email, ''), name, nickname, avatar_url
		FROM users WHERE id = $1`,
		userID,
	).Scan(&username, &email, &name, &nickname, &avatarURL)

	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "user not found"})
	}

	return c.JSON(http.StatusOK, map[string]string{
		"id":         userID,
		"username":   username,
		"email":      email,
		"name":       name,
		"nickname":   nickname,
		"avatar_url": avatarURL,
	})
}

// handleLogout deletes the presented session
func (s *Server) handleLogout(c echo.Context) error {
	token := c.Get("session_token").(string)
	if _, err := s.db.Exec(`DELETE FROM sessions WHERE token = $1`, token); err != nil {
		c.Logger().Error("db error:", err)
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// createSession creates a new session for a user
func (s *Server) createSession(userID string) (string, time.Time, error) {
	// Generate token
	tokenBytes := make([]byte, 32)
	if _, err := rand.Read(tokenBytes); err != nil {
		return "", time.Time{}, err
	}
	token := hex.EncodeToString(tokenBytes)

	// Session expires in 30 days
	expiresAt := time.Now().Add(30 * 24 * time.Hour)

	_, err := s.db.Exec(`
		INSERT INTO sessions (user_id, token, expires_at)
		VALUES ($1, $2, $3)`,
		userID, token, expiresAt,
	)

	return token, expiresAt, err
}
