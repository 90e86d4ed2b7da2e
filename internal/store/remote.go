package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"time"

	"github.com/existflow/daygrid/internal/logger"
	"github.com/existflow/daygrid/internal/model"
)

// wireCategory is a category row as the server speaks it.
type wireCategory struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

// wireTodo is a todo row as the server speaks it. CategoryID is empty when
// the row's category reference is null.
type wireTodo struct {
	ID         string `json:"id"`
	Text       string `json:"text"`
	Completed  bool   `json:"completed"`
	CategoryID string `json:"category_id,omitempty"`
	DayKey     string `json:"day_key"`
	CreatedAt  string `json:"created_at"`
	Position   int    `json:"position"`
}

// Remote is the authenticated target. Every row on the server is tagged
// with the owner's user id; the session manager only hands out a Remote
// while a user is logged in.
type Remote struct {
	baseURL    string
	token      string
	ownerID    string
	httpClient *http.Client
}

// NewRemote creates a remote target for the given owner session.
func NewRemote(baseURL, token, ownerID string) *Remote {
	return &Remote{
		baseURL:    baseURL,
		token:      token,
		ownerID:    ownerID,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// OwnerID returns the authenticated user id all rows are scoped to.
func (r *Remote) OwnerID() string {
	return r.ownerID
}

func (r *Remote) do(ctx context.Context, method, path string, body interface{}, out interface{}) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, r.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+r.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("server error (%d): %s", resp.StatusCode, string(respBody))
	}

	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

// LoadCategories fetches the owner's categories in display order.
func (r *Remote) LoadCategories(ctx context.Context) ([]model.Category, error) {
	var result struct {
		Categories []wireCategory `json:"categories"`
	}
	if err := r.do(ctx, http.MethodGet, "/api/v1/categories", nil, &result); err != nil {
		return nil, err
	}

	cats := make([]model.Category, 0, len(result.Categories))
	for _, c := range result.Categories {
		cats = append(cats, model.Category{ID: c.ID, Name: c.Name, Color: c.Color})
	}
	logger.Debug("Loaded remote categories", logger.F("count", len(cats)))
	return cats, nil
}

// LoadTodos fetches all of the owner's todos grouped by day key. Rows with a
// null category reference resolve to the sentinel. Within a day, position
// governs order, then creation time.
func (r *Remote) LoadTodos(ctx context.Context) (model.DayTodos, error) {
	var result struct {
		Todos []wireTodo `json:"todos"`
	}
	if err := r.do(ctx, http.MethodGet, "/api/v1/todos", nil, &result); err != nil {
		return nil, err
	}

	byDay := map[string][]wireTodo{}
	for _, t := range result.Todos {
		byDay[t.DayKey] = append(byDay[t.DayKey], t)
	}

	grouped := model.DayTodos{}
	for key, rows := range byDay {
		sort.SliceStable(rows, func(i, j int) bool {
			if rows[i].Position != rows[j].Position {
				return rows[i].Position < rows[j].Position
			}
			return rows[i].CreatedAt < rows[j].CreatedAt
		})
		items := make([]model.TodoItem, 0, len(rows))
		for _, t := range rows {
			catID := t.CategoryID
			if catID == "" {
				catID = model.DefaultCategoryID
			}
			createdAt := int64(0)
			if ts, err := time.Parse(time.RFC3339, t.CreatedAt); err == nil {
				createdAt = ts.UnixMilli()
			}
			items = append(items, model.TodoItem{
				ID:         t.ID,
				Text:       t.Text,
				Completed:  t.Completed,
				CreatedAt:  createdAt,
				CategoryID: catID,
			})
		}
		grouped[key] = items
	}

	logger.Debug("Loaded remote todos", logger.F("days", len(grouped)))
	return grouped, nil
}

// ReplaceCategories makes the owner's stored category set exactly cats.
func (r *Remote) ReplaceCategories(ctx context.Context, cats []model.Category) error {
	beginSyncing()
	defer endSyncing()

	wire := make([]wireCategory, 0, len(cats))
	for _, c := range cats {
		wire = append(wire, wireCategory{ID: c.ID, Name: c.Name, Color: c.Color})
	}

	body := map[string]interface{}{"categories": wire}
	if err := r.do(ctx, http.MethodPut, "/api/v1/categories", body, nil); err != nil {
		return fmt.Errorf("replace categories: %w", err)
	}
	logger.Debug("Replaced remote categories", logger.F("count", len(cats)))
	return nil
}

// ReplaceTodosForDay makes the owner's stored list for dayKey exactly items.
// References to the sentinel or locally-seeded categories are sent without a
// category id and stored as null.
func (r *Remote) ReplaceTodosForDay(ctx context.Context, dayKey string, items []model.TodoItem) error {
	beginSyncing()
	defer endSyncing()

	wire := make([]wireTodo, 0, len(items))
	for i, t := range items {
		catID := t.CategoryID
		if model.IsLocalCategoryID(catID) {
			catID = ""
		}
		wire = append(wire, wireTodo{
			ID:         t.ID,
			Text:       t.Text,
			Completed:  t.Completed,
			CategoryID: catID,
			DayKey:     dayKey,
			CreatedAt:  time.UnixMilli(t.CreatedAt).UTC().Format(time.RFC3339),
			Position:   i,
		})
	}

	body := map[string]interface{}{"todos": wire}
	if err := r.do(ctx, http.MethodPut, "/api/v1/todos/"+dayKey, body, nil); err != nil {
		return fmt.Errorf("replace todos for %s: %w", dayKey, err)
	}
	logger.Debug("Replaced remote todos", logger.F("dayKey", dayKey), logger.F("count", len(items)))
	return nil
}
