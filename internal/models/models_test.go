package models

import (
	"encoding/json"
	"testing"
	"time"
)

// TestIsValidRoleValid tests all valid roles
func TestIsValidRoleValid(t *testing.T) {
	for _, r := range []Role{RoleUser, RoleAdmin} {
		if !IsValidRole(r) {
			t.Errorf("Expected %q to be valid role", r)
		}
	}
}

// TestIsValidRoleInvalid tests invalid roles
func TestIsValidRoleInvalid(t *testing.T) {
	for _, r := range []Role{"root", "owner", "Admin", ""} {
		if IsValidRole(r) {
			t.Errorf("Expected %q to be invalid role", r)
		}
	}
}

func TestNextRole(t *testing.T) {
	tests := []struct {
		from  Role
		delta int
		want  Role
	}{
		{RoleUser, 1, RoleAdmin},
		{RoleAdmin, 1, RoleUser},
		{RoleUser, -1, RoleAdmin},
		{RoleAdmin, -1, RoleUser},
		{"", 1, RoleAdmin},
	}
	for _, tt := range tests {
		if got := NextRole(tt.from, tt.delta); got != tt.want {
			t.Errorf("NextRole(%q, %d) = %q, want %q", tt.from, tt.delta, got, tt.want)
		}
	}
}

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
	}{
		{"2024-03-01T10:20:30Z", time.Date(2024, 3, 1, 10, 20, 30, 0, time.UTC)},
		{"2024-03-01T10:20:30.123456", time.Date(2024, 3, 1, 10, 20, 30, 123456000, time.UTC)},
		{"2024-03-01 10:20:30", time.Date(2024, 3, 1, 10, 20, 30, 0, time.UTC)},
	}
	for _, tt := range tests {
		got, err := ParseTimestamp(tt.in)
		if err != nil {
			t.Fatalf("ParseTimestamp(%q): %v", tt.in, err)
		}
		if !got.Equal(tt.want) {
			t.Errorf("ParseTimestamp(%q) = %v, want %v", tt.in, got.Time, tt.want)
		}
	}

	if _, err := ParseTimestamp("yesterday"); err == nil {
		t.Error("expected error for unparseable timestamp")
	}
}

func TestItemDecodeFromBackend(t *testing.T) {
	raw := `{"id":7,"title":"Lamp","category":"home","description":"brass","owner_id":2,
		"created_at":"2024-05-06T07:08:09.000001","file_url":"/uploads/7_1_lamp.PNG"}`

	var it Item
	if err := json.Unmarshal([]byte(raw), &it); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if it.ID != 7 || it.Title != "Lamp" || it.Category != "home" {
		t.Errorf("unexpected item: %+v", it)
	}
	if it.CreatedAt.Year() != 2024 {
		t.Errorf("CreatedAt not parsed: %v", it.CreatedAt)
	}
	if !it.HasImage() {
		t.Error("expected .PNG attachment to count as image")
	}
	if got := it.Initials(); got != "LA" {
		t.Errorf("Initials = %q, want LA", got)
	}
}

func TestItemInputWithDefaults(t *testing.T) {
	in := ItemInput{Title: "  ", Category: "", Description: "x"}.WithDefaults()
	if in.Title != DefaultItemTitle {
		t.Errorf("Title = %q, want %q", in.Title, DefaultItemTitle)
	}
	if in.Category != DefaultItemCategory {
		t.Errorf("Category = %q, want %q", in.Category, DefaultItemCategory)
	}

	in = ItemInput{Title: " Chair ", Category: "furniture"}.WithDefaults()
	if in.Title != "Chair" || in.Category != "furniture" {
		t.Errorf("explicit values changed: %+v", in)
	}
}

func TestStatsPreservesOrder(t *testing.T) {
	var s Stats
	if err := json.Unmarshal([]byte(`{"zeta":3,"alpha":1,"mid":5}`), &s); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	want := []string{"zeta", "alpha", "mid"}
	got := s.Labels()
	if len(got) != len(want) {
		t.Fatalf("labels = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("labels[%d] = %q, want %q", i, got[i], want[i])
		}
	}
	if s.Total() != 9 {
		t.Errorf("Total = %d, want 9", s.Total())
	}
	if s.Max() != 5 {
		t.Errorf("Max = %d, want 5", s.Max())
	}
}

func TestStatsRejectsArray(t *testing.T) {
	var s Stats
	if err := json.Unmarshal([]byte(`[1,2]`), &s); err == nil {
		t.Fatal("expected error decoding array into Stats")
	}
}

func TestUserIsAdmin(t *testing.T) {
	var nilUser *User
	if nilUser.IsAdmin() {
		t.Error("nil user must not be admin")
	}
	if (&User{Role: RoleUser}).IsAdmin() {
		t.Error("user role must not be admin")
	}
	if !(&User{Role: RoleAdmin}).IsAdmin() {
		t.Error("admin role must be admin")
	}
}
