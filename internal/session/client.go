package session

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/existflow/daygrid/internal/model"
)

// clientConfig is the persisted session file (~/.daygrid/session.json).
type clientConfig struct {
	ServerURL string `json:"server_url"`
	Token     string `json:"token"`
	UserID    string `json:"user_id"`
}

// Client authenticates against the daygrid server and implements Provider.
// Login and logout from this process fan out to subscribers; a token found
// on disk at startup is validated via Restore.
type Client struct {
	configPath string
	httpClient *http.Client

	mu          sync.Mutex
	config      *clientConfig
	subscribers map[int]func(*Identity)
	nextSubID   int
}

// NewClient creates an auth client for the given server, loading any
// persisted session.
func NewClient(serverURL string) (*Client, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}

	c := &Client{
		configPath:  filepath.Join(home, ".daygrid", "session.json"),
		httpClient:  &http.Client{Timeout: 30 * time.Second},
		subscribers: map[int]func(*Identity){},
	}
	c.loadConfig(serverURL)
	return c, nil
}

func (c *Client) loadConfig(serverURL string) {
	c.config = &clientConfig{ServerURL: serverURL}

	data, err := os.ReadFile(c.configPath)
	if err != nil {
		return
	}
	_ = json.Unmarshal(data, c.config)
	if serverURL != "" {
		c.config.ServerURL = serverURL
	}
}

func (c *Client) saveConfig() error {
	if err := os.MkdirAll(filepath.Dir(c.configPath), 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(c.config, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(c.configPath, data, 0600)
}

// IsLoggedIn reports whether a token is on record.
func (c *Client) IsLoggedIn() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.config.Token != ""
}

// Token returns the current bearer token, or empty.
func (c *Client) Token() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.config.Token
}

type authResponse struct {
	Token  string `json:"token"`
	UserID string `json:"user_id"`
}

func (c *Client) postAuth(path string, body map[string]string) error {
	raw, _ := json.Marshal(body)
	resp, err := c.httpClient.Post(c.config.ServerURL+path, "application/json", bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("authentication failed: %s", string(respBody))
	}

	var result authResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return err
	}

	c.mu.Lock()
	c.config.Token = result.Token
	c.config.UserID = result.UserID
	c.mu.Unlock()
	if err := c.saveConfig(); err != nil {
		return err
	}

	id, err := c.Restore(context.Background())
	if err != nil {
		return err
	}
	c.notify(id)
	return nil
}

// Register creates a new account and logs in.
func (c *Client) Register(username, email, password string) error {
	return c.postAuth("/api/v1/register", map[string]string{
		"username": username,
		"email":    email,
		"password": password,
	})
}

// Login authenticates with username and password.
func (c *Client) Login(username, password string) error {
	return c.postAuth("/api/v1/login", map[string]string{
		"username": username,
		"password": password,
	})
}

// LoginOAuth exchanges a third-party provider access token for a session.
func (c *Client) LoginOAuth(provider, accessToken string) error {
	return c.postAuth("/api/v1/oauth/"+provider, map[string]string{
		"access_token": accessToken,
	})
}

// Logout clears the session, server-side best effort and locally always.
func (c *Client) Logout() error {
	c.mu.Lock()
	token := c.config.Token
	serverURL := c.config.ServerURL
	c.mu.Unlock()

	if token != "" {
		req, _ := http.NewRequest(http.MethodPost, serverURL+"/api/v1/logout", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		if resp, err := c.httpClient.Do(req); err == nil {
			_ = resp.Body.Close()
		}
	}

	c.mu.Lock()
	c.config.Token = ""
	c.config.UserID = ""
	c.mu.Unlock()
	if err := c.saveConfig(); err != nil {
		return err
	}
	c.notify(nil)
	return nil
}

// Restore validates the stored token against the server and builds the
// identity from the profile fields it returns. Full name wins over the
// nickname field; a fixed guest label covers neither being present.
func (c *Client) Restore(ctx context.Context) (*Identity, error) {
	c.mu.Lock()
	token := c.config.Token
	serverURL := c.config.ServerURL
	c.mu.Unlock()

	if token == "" {
		return nil, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, serverURL+"/api/v1/me", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to connect: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		// Token expired: drop it so the next start doesn't retry.
		c.mu.Lock()
		c.config.Token = ""
		c.config.UserID = ""
		c.mu.Unlock()
		_ = c.saveConfig()
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("session check failed: %s", string(respBody))
	}

	var me struct {
		ID        string `json:"id"`
		Name      string `json:"name"`
		Nickname  string `json:"nickname"`
		AvatarURL string `json:"avatar_url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&me); err != nil {
		return nil, err
	}

	nickname := me.Name
	if nickname == "" {
		nickname = me.Nickname
	}
	if nickname == "" {
		nickname = "Guest User"
	}

	return &Identity{
		User: model.User{
			ID:           me.ID,
			Nickname:     nickname,
			ProfileImage: me.AvatarURL,
		},
		Token: token,
	}, nil
}

// Subscribe registers a change callback and returns an unsubscribe func.
func (c *Client) Subscribe(fn func(*Identity)) func() {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.nextSubID
	c.nextSubID++
	c.subscribers[id] = fn
	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.subscribers, id)
	}
}

func (c *Client) notify(id *Identity) {
	c.mu.Lock()
	fns := make([]func(*Identity), 0, len(c.subscribers))
	for _, fn := range c.subscribers {
		fns = append(fns, fn)
	}
	c.mu.Unlock()
	for _, fn := range fns {
		fn(id)
	}
}
