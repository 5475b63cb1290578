package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Role represents a user's role on the backend
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Roles lists the assignable roles in selector order
var Roles = []Role{RoleUser, RoleAdmin}

// IsValidRole checks if a role is one the backend understands
func IsValidRole(r Role) bool {
	for _, valid := range Roles {
		if r == valid {
			return true
		}
	}
	return false
}

// NextRole cycles through Roles by delta, wrapping at both ends.
// Unknown roles start from RoleUser.
func NextRole(r Role, delta int) Role {
	idx := 0
	for i, valid := range Roles {
		if r == valid {
			idx = i
			break
		}
	}
	n := len(Roles)
	idx = ((idx+delta)%n + n) % n
	return Roles[idx]
}

// Timestamp accepts the ISO-8601 variants the backend emits, with or without
// a zone offset.
type Timestamp struct {
	time.Time
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// ParseTimestamp parses s using the accepted layouts. Zoneless values are UTC.
func ParseTimestamp(s string) (Timestamp, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Timestamp{}, nil
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return Timestamp{t}, nil
		}
	}
	return Timestamp{}, fmt.Errorf("invalid timestamp %q", s)
}

// UnmarshalJSON implements json.Unmarshaler
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*t = Timestamp{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseTimestamp(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// MarshalJSON implements json.Marshaler
func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.UTC().Format(time.RFC3339Nano))
}

// Display formats the timestamp in the local zone
func (t Timestamp) Display() string {
	if t.IsZero() {
		return ""
	}
	return t.Time.Local().Format("2006-01-02 15:04")
}

// Credentials is the body of register and login requests
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// TokenPair is the login response
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	TokenType    string `json:"token_type,omitempty"`
}

// User is a registered account
type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Role     Role   `json:"role"`
}

// IsAdmin reports whether the user may open the admin panel
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// Item is a catalog entry
type Item struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Category    string    `json:"category"`
	Description string    `json:"description"`
	FileURL     string    `json:"file_url,omitempty"`
	OwnerID     int64     `json:"owner_id,omitempty"`
	CreatedAt   Timestamp `json:"created_at"`
}

// HasImage reports whether the attachment looks like an image
func (it Item) HasImage() bool {
	lower := strings.ToLower(it.FileURL)
	for _, ext := range []string{".jpg", ".jpeg", ".png", ".gif"} {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

// Initials returns the two-letter badge shown when an item has no image
func (it Item) Initials() string {
	r := []rune(strings.TrimSpace(it.Title))
	if len(r) > 2 {
		r = r[:2]
	}
	return strings.ToUpper(string(r))
}

// ItemInput is the body of item create and update requests
type ItemInput struct {
	Title       string `json:"title"`
	Category    string `json:"category"`
	Description string `json:"description"`
}

const (
	DefaultItemTitle    = "Untitled"
	DefaultItemCategory = "general"
)

// WithDefaults fills blank title and category the way the item form does
func (in ItemInput) WithDefaults() ItemInput {
	in.Title = strings.TrimSpace(in.Title)
	in.Category = strings.TrimSpace(in.Category)
	if in.Title == "" {
		in.Title = DefaultItemTitle
	}
	if in.Category == "" {
		in.Category = DefaultItemCategory
	}
	return in
}

// Comment is a note left on an item
type Comment struct {
	ID        int64     `json:"id"`
	Content   string    `json:"content"`
	ItemID    int64     `json:"item_id,omitempty"`
	UserID    int64     `json:"user_id,omitempty"`
	CreatedAt Timestamp `json:"created_at"`
}

// AuditEntry records an administrative action
type AuditEntry struct {
	ID        int64     `json:"id,omitempty"`
	Actor     string    `json:"actor"`
	Action    string    `json:"action"`
	Target    string    `json:"target"`
	Detail    string    `json:"detail,omitempty"`
	CreatedAt Timestamp `json:"created_at"`
}

// AuditPage is a server-counted page of audit entries
type AuditPage struct {
	Items []AuditEntry `json:"items"`
	Total int          `json:"total"`
}

// ErrWrongShape is returned by decoders when the JSON kind does not match
// (array instead of object, and so on).
var ErrWrongShape = errors.New("wrong JSON shape")

// CategoryCount is one bar of the category chart
type CategoryCount struct {
	Category string
	Count    int
}

// Stats maps categories to item counts, keeping the order the server sent.
type Stats []CategoryCount

// UnmarshalJSON decodes a JSON object while preserving key order
func (s *Stats) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("stats: expected object, got %v: %w", tok, ErrWrongShape)
	}
	out := Stats{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, _ := keyTok.(string)
		var count int
		if err := dec.Decode(&count); err != nil {
			return fmt.Errorf("stats: count for %q: %w", key, err)
		}
		out = append(out, CategoryCount{Category: key, Count: count})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*s = out
	return nil
}

// Labels returns category names in order
func (s Stats) Labels() []string {
	labels := make([]string, len(s))
	for i, c := range s {
		labels[i] = c.Category
	}
	return labels
}

// Total sums all counts
func (s Stats) Total() int {
	total := 0
	for _, c := range s {
		total += c.Count
	}
	return total
}

// Max returns the largest count, or 0 when empty
func (s Stats) Max() int {
	m := 0
	for _, c := range s {
		if c.Count > m {
			m = c.Count
		}
	}
	return m
}
