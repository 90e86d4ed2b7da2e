package model

import "strings"

// PastelColors is the fixed category color palette, in picker order.
var PastelColors = []string{
	"#A0C4FF", // blue
	"#FFADAD", // red
	"#CAFFBF", // green
	"#FFD6A5", // orange
	"#BDB2FF", // purple
	"#FFC6FF", // pink
	"#9BF6FF", // teal
}

const (
	// DefaultCategoryID is the sentinel "uncategorized" category. It is never
	// stored as a row and never editable.
	DefaultCategoryID = "default"

	// DefaultCategoryName is the display label for the sentinel category.
	DefaultCategoryName = "General"

	// DefaultCategoryColor is the fixed color for the sentinel category.
	DefaultCategoryColor = "#ffdd78"
)

// User is the authenticated identity. Nil means guest mode.
type User struct {
	ID           string `json:"id"`
	Nickname     string `json:"nickname"`
	ProfileImage string `json:"profile_image"`
}

// Category is a user-defined tag for grouping todos. Slice order is display
// order.
type Category struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

// TodoItem is a single entry in a day's list.
type TodoItem struct {
	ID         string `json:"id"`
	Text       string `json:"text"`
	Completed  bool   `json:"completed"`
	CreatedAt  int64  `json:"createdAt"` // epoch millis, ordering on load only
	CategoryID string `json:"categoryId"`
}

// DayTodos maps a day key (YYYY-MM-DD) to that day's ordered list. An absent
// key means an empty day.
type DayTodos map[string][]TodoItem

// DefaultCategories returns the seeded pair every guest (and every fresh
// account) starts with.
func DefaultCategories() []Category {
	return []Category{
		{ID: "cat-1", Name: "Work", Color: PastelColors[0]},
		{ID: "cat-2", Name: "Personal", Color: PastelColors[1]},
	}
}

// SentinelCategory returns the fixed "uncategorized" pseudo-category.
func SentinelCategory() Category {
	return Category{ID: DefaultCategoryID, Name: DefaultCategoryName, Color: DefaultCategoryColor}
}

// ResolveCategory finds the live category a todo belongs to, falling back to
// the sentinel when the reference is dangling or already the sentinel.
func ResolveCategory(categories []Category, categoryID string) Category {
	for _, c := range categories {
		if c.ID == categoryID {
			return c
		}
	}
	return SentinelCategory()
}

// IsLocalCategoryID reports whether an id only exists client-side: the
// sentinel and the seeded defaults are not rows in the remote schema, so
// references to them are stored as null there.
func IsLocalCategoryID(id string) bool {
	return id == DefaultCategoryID || strings.HasPrefix(id, "cat-")
}

// ValidText trims s and reports whether anything is left. Empty text is
// rejected before any state mutation, silently.
func ValidText(s string) (string, bool) {
	t := strings.TrimSpace(s)
	return t, t != ""
}
