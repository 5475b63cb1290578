package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/marcus/catalog/internal/models"
	"github.com/marcus/catalog/internal/pagination"
)

// recorded is what the fake backend saw for one request
type recorded struct {
	method      string
	path        string
	query       string
	auth        string
	contentType string
	requestID   string
	body        []byte
}

// newTestServer returns a client wired to a handler that records each request
// and replies with status and body.
func newTestServer(t *testing.T, token string, status int, body string) (*Client, *[]recorded) {
	t.Helper()
	var seen []recorded
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		seen = append(seen, recorded{
			method:      r.Method,
			path:        r.URL.Path,
			query:       r.URL.RawQuery,
			auth:        r.Header.Get("Authorization"),
			contentType: r.Header.Get("Content-Type"),
			requestID:   r.Header.Get("X-Request-ID"),
			body:        data,
		})
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return New(srv.URL+"/api", StaticToken(token)), &seen
}

func TestRequestHeaders(t *testing.T) {
	t.Run("bearer attached when token present", func(t *testing.T) {
		c, seen := newTestServer(t, "abc", http.StatusOK, `{"id":1,"username":"ann","role":"user"}`)
		if _, err := c.Me(context.Background()); err != nil {
			t.Fatalf("Me: %v", err)
		}
		got := (*seen)[0]
		if got.auth != "Bearer abc" {
			t.Errorf("Authorization: got %q, want %q", got.auth, "Bearer abc")
		}
		if got.contentType != "" {
			t.Errorf("Content-Type on GET: got %q, want empty", got.contentType)
		}
		if got.requestID == "" {
			t.Error("X-Request-ID not set")
		}
		if got.path != "/api/me" {
			t.Errorf("path: got %q", got.path)
		}
	})

	t.Run("anonymous when no token", func(t *testing.T) {
		c, seen := newTestServer(t, "", http.StatusOK, `{"access_token":"t1","token_type":"bearer"}`)
		tp, err := c.Login(context.Background(), models.Credentials{Username: "ann", Password: "pw"})
		if err != nil {
			t.Fatalf("Login: %v", err)
		}
		if tp.AccessToken != "t1" {
			t.Errorf("AccessToken: got %q", tp.AccessToken)
		}
		got := (*seen)[0]
		if got.auth != "" {
			t.Errorf("Authorization: got %q, want none", got.auth)
		}
		if got.contentType != "application/json" {
			t.Errorf("Content-Type: got %q", got.contentType)
		}
		var creds models.Credentials
		if err := json.Unmarshal(got.body, &creds); err != nil || creds.Username != "ann" {
			t.Errorf("body: got %s (%v)", got.body, err)
		}
	})

	t.Run("request ids are unique", func(t *testing.T) {
		c, seen := newTestServer(t, "abc", http.StatusOK, `{}`)
		_ = c.DeleteItem(context.Background(), 1)
		_ = c.DeleteItem(context.Background(), 2)
		if (*seen)[0].requestID == (*seen)[1].requestID {
			t.Error("expected distinct X-Request-ID values")
		}
	})
}

func TestAPIErrorDetail(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   string
	}{
		{"string detail", http.StatusUnauthorized, `{"detail":"Invalid credentials"}`, "Invalid credentials"},
		{"validation list", http.StatusUnprocessableEntity, `{"detail":[{"loc":["body","title"],"msg":"field required"}]}`, "title: field required"},
		{"plain body", http.StatusInternalServerError, `boom`, "boom"},
		{"empty body", http.StatusForbidden, ``, "Forbidden"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestServer(t, "abc", tt.status, tt.body)
			_, err := c.Me(context.Background())
			var apiErr *APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("expected *APIError, got %T %v", err, err)
			}
			if apiErr.Status != tt.status {
				t.Errorf("Status: got %d, want %d", apiErr.Status, tt.status)
			}
			if got := UserMessage(err); got != tt.want {
				t.Errorf("UserMessage: got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIsUnauthorized(t *testing.T) {
	c, _ := newTestServer(t, "stale", http.StatusUnauthorized, `{"detail":"Token expired"}`)
	_, err := c.Me(context.Background())
	if !IsUnauthorized(err) {
		t.Errorf("IsUnauthorized(%v) = false", err)
	}
	if IsUnauthorized(errors.New("other")) {
		t.Error("plain error reported as unauthorized")
	}
}

func TestUnexpectedShape(t *testing.T) {
	t.Run("object where list expected", func(t *testing.T) {
		c, _ := newTestServer(t, "abc", http.StatusOK, `{"items":[]}`)
		_, err := c.ListItems(context.Background(), pagination.NewPageQuery(6))
		if !errors.Is(err, ErrUnexpectedShape) {
			t.Errorf("got %v, want ErrUnexpectedShape", err)
		}
	})

	t.Run("array where stats object expected", func(t *testing.T) {
		c, _ := newTestServer(t, "abc", http.StatusOK, `[1,2]`)
		_, err := c.Stats(context.Background())
		if !errors.Is(err, ErrUnexpectedShape) {
			t.Errorf("got %v, want ErrUnexpectedShape", err)
		}
	})
}

func TestListItemsQuery(t *testing.T) {
	c, seen := newTestServer(t, "abc", http.StatusOK, `[{"id":1,"title":"A","category":"books"}]`)

	q := pagination.NewPageQuery(6).WithPage(3)
	res, err := c.ListItems(context.Background(), q)
	if err != nil {
		t.Fatalf("ListItems: %v", err)
	}
	if res.Total != nil {
		t.Error("items list should be uncounted")
	}
	if len(res.Items) != 1 || res.Items[0].Title != "A" {
		t.Errorf("items: got %+v", res.Items)
	}
	if got := (*seen)[0].query; got != "limit=6&offset=12" {
		t.Errorf("query: got %q", got)
	}

	_, _ = c.ListItems(context.Background(), q.WithFilter("books"))
	if got := (*seen)[1].query; got != "limit=6&offset=0&q=books" {
		t.Errorf("filtered query: got %q", got)
	}
}

func TestListAudit(t *testing.T) {
	c, seen := newTestServer(t, "abc", http.StatusOK,
		`{"items":[{"actor":"root","action":"role_update","target":"user:2","created_at":"2024-03-01T10:00:00"}],"total":41}`)

	q := pagination.NewPageQuery(10).WithFilter("role").WithPage(2)
	res, err := c.ListAudit(context.Background(), q)
	if err != nil {
		t.Fatalf("ListAudit: %v", err)
	}
	if res.Total == nil || *res.Total != 41 {
		t.Fatalf("Total: got %v, want 41", res.Total)
	}
	if res.Items[0].Action != "role_update" {
		t.Errorf("Action: got %q", res.Items[0].Action)
	}
	if res.Items[0].CreatedAt.IsZero() {
		t.Error("CreatedAt not parsed")
	}
	got := (*seen)[0]
	if got.path != "/api/admin/audit" || got.query != "limit=10&offset=10&q=role" {
		t.Errorf("request: %s?%s", got.path, got.query)
	}
}

func TestLocalValidation(t *testing.T) {
	c, seen := newTestServer(t, "abc", http.StatusOK, `{}`)
	ctx := context.Background()

	if _, err := c.AddComment(ctx, 1, "   \n"); !errors.Is(err, ErrEmptyComment) {
		t.Errorf("AddComment blank: got %v", err)
	}
	if _, err := c.Login(ctx, models.Credentials{Username: "ann"}); !errors.Is(err, ErrMissingCredentials) {
		t.Errorf("Login without password: got %v", err)
	}
	if _, err := c.Register(ctx, models.Credentials{Password: "x"}); !errors.Is(err, ErrMissingCredentials) {
		t.Errorf("Register without username: got %v", err)
	}
	if err := c.UpdateUserRole(ctx, 1, "owner"); err == nil {
		t.Error("UpdateUserRole accepted unknown role")
	}
	if len(*seen) != 0 {
		t.Errorf("expected no requests, got %d", len(*seen))
	}
}

func TestLoginWithoutToken(t *testing.T) {
	c, _ := newTestServer(t, "", http.StatusOK, `{"token_type":"bearer"}`)
	_, err := c.Login(context.Background(), models.Credentials{Username: "a", Password: "b"})
	if !errors.Is(err, ErrNoAccessToken) {
		t.Errorf("got %v, want ErrNoAccessToken", err)
	}
}

func TestUpdateUserRole(t *testing.T) {
	c, seen := newTestServer(t, "abc", http.StatusOK, `"ignored"`)
	if err := c.UpdateUserRole(context.Background(), 7, models.RoleAdmin); err != nil {
		t.Fatalf("UpdateUserRole: %v", err)
	}
	got := (*seen)[0]
	if got.method != http.MethodPut || got.path != "/api/admin/users/7" {
		t.Errorf("request: %s %s", got.method, got.path)
	}
	if string(got.body) != `{"role":"admin"}` {
		t.Errorf("body: got %s", got.body)
	}
}

func TestUpload(t *testing.T) {
	var filename, content, ctype string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctype = r.Header.Get("Content-Type")
		f, hdr, err := r.FormFile("file")
		if err != nil {
			http.Error(w, `{"detail":"no file"}`, http.StatusBadRequest)
			return
		}
		defer f.Close()
		data, _ := io.ReadAll(f)
		filename, content = hdr.Filename, string(data)
		_, _ = io.WriteString(w, `{"id":5,"title":"A","file_url":"/uploads/cat.png"}`)
	}))
	defer srv.Close()

	c := New(srv.URL+"/api", StaticToken("abc"))
	it, err := c.Upload(context.Background(), 5, "/tmp/pics/cat.png", strings.NewReader("PNGDATA"))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if !strings.HasPrefix(ctype, "multipart/form-data") {
		t.Errorf("Content-Type: got %q", ctype)
	}
	if filename != "cat.png" || content != "PNGDATA" {
		t.Errorf("server saw %q = %q", filename, content)
	}
	if !it.HasImage() {
		t.Error("uploaded item should report an image")
	}
	if got := c.ResolveURL(it.FileURL); got != srv.URL+"/uploads/cat.png" {
		t.Errorf("ResolveURL: got %q", got)
	}
}

func TestStatsOrder(t *testing.T) {
	c, _ := newTestServer(t, "abc", http.StatusOK, `{"tools":3,"books":5,"art":1}`)
	s, err := c.Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	want := []string{"tools", "books", "art"}
	for i, l := range s.Labels() {
		if l != want[i] {
			t.Errorf("label %d: got %q, want %q", i, l, want[i])
		}
	}
}
