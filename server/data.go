package server

import (
	"net/http"
	"regexp"
	"time"

	"github.com/labstack/echo/v4"
)

// wireCategory is a category row on the wire.
type wireCategory struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

// wireTodo is a todo row on the wire. An empty CategoryID means the row's
// category reference is null (uncategorized).
type wireTodo struct {
	ID         string `json:"id"`
	Text       string `json:"text"`
	Completed  bool   `json:"completed"`
	CategoryID string `json:"category_id,omitempty"`
	DayKey     string `json:"day_key"`
	CreatedAt  string `json:"created_at"`
	Position   int    `json:"position"`
}

type replaceCategoriesRequest struct {
	Categories []wireCategory `json:"categories"`
}

type replaceTodosRequest struct {
	Todos []wireTodo `json:"todos"`
}

var dayKeyPattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// handleLoadCategories returns the owner's categories in display order
func (s *Server) handleLoadCategories(c echo.Context) error {
	userID := c.Get("user_id").(string)

	rows, err := s.db.Query(`
		SELECT id, name, color FROM categories
		WHERE user_id = $1
		ORDER BY position ASC`,
		userID,
	)
	if err != nil {
		c.Logger().Error("db error:", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
	defer rows.Close()

	cats := []wireCategory{}
	for rows.Next() {
		var cat wireCategory
		if err := rows.Scan(&cat.ID, &cat.Name, &cat.Color); err != nil {
			c.Logger().Error("scan error:", err)
			continue
		}
		cats = append(cats, cat)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{"categories": cats})
}

// handleReplaceCategories makes the owner's stored category set exactly the
// request sequence. Delete-then-insert runs inside one transaction so a
// failure can never leave the owner with an empty set.
func (s *Server) handleReplaceCategories(c echo.Context) error {
	userID := c.Get("user_id").(string)

	var req replaceCategoriesRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request"})
	}

	tx, err := s.db.Begin()
	if err != nil {
		c.Logger().Error("tx error:", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM categories WHERE user_id = $1`, userID); err != nil {
		c.Logger().Error("db error:", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}

	for i, cat := range req.Categories {
		if cat.ID == "" || cat.Name == "" {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "category id and name required"})
		}
		if _, err := tx.Exec(`
			INSERT INTO categories (id, user_id, name, color, position)
			VALUES ($1, $2, $3, $4, $5)`,
			cat.ID, userID, cat.Name, cat.Color, i,
		); err != nil {
			c.Logger().Error("db error:", err)
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal error"})
		}
	}

	if err := tx.Commit(); err != nil {
		c.Logger().Error("commit error:", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}

	c.Logger().Infof("Replaced categories for user %s: %d rows", userID, len(req.Categories))
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// handleLoadTodos returns all of the owner's todos
func (s *Server) handleLoadTodos(c echo.Context) error {
	userID := c.Get("user_id").(string)

	rows, err := s.db.Query(`
		SELECT id, text, completed, COALESCE(category_id, ''), day_key, created_at, position
		FROM todos
		WHERE user_id = $1
		ORDER BY day_key ASC, position ASC, created_at ASC`,
		userID,
	)
	if err != nil {
		c.Logger().Error("db error:", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
	defer rows.Close()

	todos := []wireTodo{}
	for rows.Next() {
		var t wireTodo
		var createdAt time.Time
		if err := rows.Scan(&t.ID, &t.Text, &t.Completed, &t.CategoryID, &t.DayKey, &createdAt, &t.Position); err != nil {
			c.Logger().Error("scan error:", err)
			continue
		}
		t.CreatedAt = createdAt.Format(time.RFC3339)
		todos = append(todos, t)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{"todos": todos})
}

// handleReplaceTodosForDay makes the owner's stored list for one day exactly
// the request sequence, leaving other days untouched.
func (s *Server) handleReplaceTodosForDay(c echo.Context) error {
	userID := c.Get("user_id").(string)
	dayKey := c.Param("dayKey")

	if !dayKeyPattern.MatchString(dayKey) {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid day key"})
	}

	var req replaceTodosRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request"})
	}

	tx, err := s.db.Begin()
	if err != nil {
		c.Logger().Error("tx error:", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM todos WHERE user_id = $1 AND day_key = $2`, userID, dayKey); err != nil {
		c.Logger().Error("db error:", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}

	for i, t := range req.Todos {
		if t.ID == "" || t.Text == "" {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "todo id and text required"})
		}

		createdAt := time.Now()
		if ts, err := time.Parse(time.RFC3339, t.CreatedAt); err == nil {
			createdAt = ts
		}

		var categoryID interface{}
		if t.CategoryID != "" {
			categoryID = t.CategoryID
		}

		if _, err := tx.Exec(`
			INSERT INTO todos (id, user_id, text, completed, category_id, day_key, position, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			t.ID, userID, t.Text, t.Completed, categoryID, dayKey, i, createdAt,
		); err != nil {
			c.Logger().Error("db error:", err)
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal error"})
		}
	}

	if err := tx.Commit(); err != nil {
		c.Logger().Error("commit error:", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}

	c.Logger().Infof("Replaced todos for user %s day %s: %d rows", userID, dayKey, len(req.Todos))
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
