// Package suggest asks a text-generation service for candidate todo
// strings. It is a black-box collaborator: fallible and latency-bearing,
// failures yield zero suggestions and never block todo entry.
package suggest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/existflow/daygrid/internal/logger"
)

// Suggester produces short candidate todo texts for the given prompt
// context: the selected category and the texts already planned that day.
type Suggester interface {
	Suggest(ctx context.Context, categoryName string, existing []string) ([]string, error)
}

const defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// Client calls a Gemini-style generateContent endpoint.
type Client struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
}

// NewClient creates a suggestion client. An empty apiKey yields a client
// whose Suggest always returns nothing.
func NewClient(apiKey, model string) *Client {
	return &Client{
		baseURL:    defaultBaseURL,
		apiKey:     apiKey,
		model:      model,
		httpClient: &http.Client{Timeout: 20 * time.Second},
	}
}

// NewClientWithBaseURL is NewClient against a non-default endpoint.
func NewClientWithBaseURL(baseURL, apiKey, model string) *Client {
	c := NewClient(apiKey, model)
	c.baseURL = baseURL
	return c
}

// Enabled reports whether an API key is configured.
func (c *Client) Enabled() bool {
	return c.apiKey != ""
}

type generateRequest struct {
	Contents []struct {
		Parts []struct {
			Text string `json:"text"`
		} `json:"parts"`
	} `json:"contents"`
	GenerationConfig struct {
		ResponseMimeType string `json:"responseMimeType"`
	} `json:"generationConfig"`
}

// Suggest returns up to a handful of short candidate texts. Any transport or
// parse failure comes back as an error; callers log it and show nothing.
func (c *Client) Suggest(ctx context.Context, categoryName string, existing []string) ([]string, error) {
	if !c.Enabled() {
		return nil, nil
	}

	prompt := fmt.Sprintf(
		"Suggest 3 short, practical todo items for the category %q. "+
			"Already planned today: %s. "+
			"Respond with only a JSON array of strings.",
		categoryName, strings.Join(existing, ", "))

	var reqBody generateRequest
	reqBody.Contents = make([]struct {
		Parts []struct {
			Text string `json:"text"`
		} `json:"parts"`
	}, 1)
	reqBody.Contents[0].Parts = []struct {
		Text string `json:"text"`
	}{{Text: prompt}}
	reqBody.GenerationConfig.ResponseMimeType = "application/json"

	raw, err := json.Marshal(reqBody)
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.baseURL, c.model, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("suggestion request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("suggestion service error (%d): %s", resp.StatusCode, string(respBody))
	}

	var result struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, err
	}
	if len(result.Candidates) == 0 || len(result.Candidates[0].Content.Parts) == 0 {
		return nil, nil
	}

	var suggestions []string
	text := result.Candidates[0].Content.Parts[0].Text
	if err := json.Unmarshal([]byte(text), &suggestions); err != nil {
		return nil, fmt.Errorf("unexpected suggestion payload: %w", err)
	}

	logger.Debug("Got suggestions", logger.F("count", len(suggestions)))
	return suggestions, nil
}
