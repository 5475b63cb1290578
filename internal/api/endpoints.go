package api

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/marcus/catalog/internal/models"
	"github.com/marcus/catalog/internal/pagination"
)

// ============================================================================
// Auth
// ============================================================================

// Register creates an account
func (c *Client) Register(ctx context.Context, creds models.Credentials) (*models.User, error) {
	if err := checkCredentials(creds); err != nil {
		return nil, err
	}
	var u models.User
	if err := c.doJSON(ctx, http.MethodPost, "/register", creds, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// Login exchanges credentials for tokens
func (c *Client) Login(ctx context.Context, creds models.Credentials) (models.TokenPair, error) {
	if err := checkCredentials(creds); err != nil {
		return models.TokenPair{}, err
	}
	var tp models.TokenPair
	if err := c.doJSON(ctx, http.MethodPost, "/login", creds, &tp); err != nil {
		return models.TokenPair{}, err
	}
	if tp.AccessToken == "" {
		return models.TokenPair{}, ErrNoAccessToken
	}
	return tp, nil
}

// Refresh exchanges a refresh token for a new access token
func (c *Client) Refresh(ctx context.Context, refreshToken string) (models.TokenPair, error) {
	if strings.TrimSpace(refreshToken) == "" {
		return models.TokenPair{}, fmt.Errorf("refresh: %w", ErrNoAccessToken)
	}
	var tp models.TokenPair
	body := map[string]string{"refresh_token": refreshToken}
	if err := c.doJSON(ctx, http.MethodPost, "/refresh", body, &tp); err != nil {
		return models.TokenPair{}, err
	}
	if tp.AccessToken == "" {
		return models.TokenPair{}, ErrNoAccessToken
	}
	return tp, nil
}

// Me returns the authenticated user
func (c *Client) Me(ctx context.Context) (*models.User, error) {
	var u models.User
	if err := c.doJSON(ctx, http.MethodGet, "/me", nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func checkCredentials(creds models.Credentials) error {
	if strings.TrimSpace(creds.Username) == "" || creds.Password == "" {
		return ErrMissingCredentials
	}
	return nil
}

// ============================================================================
// Items
// ============================================================================

// ListItems fetches one page of the caller's items. The server reports no
// total, so the result is uncounted. A non-empty Filter is sent as q.
func (c *Client) ListItems(ctx context.Context, q pagination.PageQuery) (pagination.ListResult[models.Item], error) {
	q = q.Normalize()
	params := url.Values{}
	params.Set("limit", strconv.Itoa(q.Limit()))
	params.Set("offset", strconv.Itoa(q.Offset()))
	if q.Filter != "" {
		params.Set("q", q.Filter)
	}

	var items []models.Item
	if err := c.do(ctx, request{method: http.MethodGet, path: "/items", query: params}, &items); err != nil {
		return pagination.ListResult[models.Item]{}, err
	}
	if items == nil {
		items = []models.Item{}
	}
	return pagination.Uncounted(items), nil
}

// CreateItem adds an item
func (c *Client) CreateItem(ctx context.Context, in models.ItemInput) (*models.Item, error) {
	var it models.Item
	if err := c.doJSON(ctx, http.MethodPost, "/items", in, &it); err != nil {
		return nil, err
	}
	if it.ID == 0 {
		return nil, fmt.Errorf("create item: %w: missing id", ErrUnexpectedShape)
	}
	return &it, nil
}

// UpdateItem replaces an item's fields
func (c *Client) UpdateItem(ctx context.Context, id int64, in models.ItemInput) error {
	return c.doJSON(ctx, http.MethodPut, itemPath(id), in, nil)
}

// DeleteItem removes an item
func (c *Client) DeleteItem(ctx context.Context, id int64) error {
	return c.doJSON(ctx, http.MethodDelete, itemPath(id), nil, nil)
}

// Upload attaches the contents of r to an item as a multipart "file" field
func (c *Client) Upload(ctx context.Context, id int64, filename string, r io.Reader) (*models.Item, error) {
	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	go func() {
		part, err := mw.CreateFormFile("file", filepath.Base(filename))
		if err == nil {
			_, err = io.Copy(part, r)
		}
		if err == nil {
			err = mw.Close()
		}
		pw.CloseWithError(err)
	}()

	req := request{
		method:      http.MethodPost,
		path:        itemPath(id) + "/upload-multipart",
		body:        pr,
		contentType: mw.FormDataContentType(),
	}
	var it models.Item
	err := c.do(ctx, req, &it)
	// Unblock the writer goroutine if the request failed before draining.
	pr.CloseWithError(io.ErrClosedPipe)
	if err != nil {
		return nil, err
	}
	return &it, nil
}

// UploadFile attaches a local file to an item
func (c *Client) UploadFile(ctx context.Context, id int64, path string) (*models.Item, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open attachment: %w", err)
	}
	defer f.Close()
	return c.Upload(ctx, id, path, f)
}

func itemPath(id int64) string {
	return "/items/" + strconv.FormatInt(id, 10)
}

// ============================================================================
// Comments
// ============================================================================

// ListComments returns an item's comments in server order
func (c *Client) ListComments(ctx context.Context, itemID int64) ([]models.Comment, error) {
	var comments []models.Comment
	if err := c.doJSON(ctx, http.MethodGet, itemPath(itemID)+"/comments", nil, &comments); err != nil {
		return nil, err
	}
	if comments == nil {
		comments = []models.Comment{}
	}
	return comments, nil
}

// AddComment posts a comment. Blank content is rejected without a request.
func (c *Client) AddComment(ctx context.Context, itemID int64, content string) (*models.Comment, error) {
	if strings.TrimSpace(content) == "" {
		return nil, ErrEmptyComment
	}
	var cm models.Comment
	body := map[string]string{"content": content}
	if err := c.doJSON(ctx, http.MethodPost, itemPath(itemID)+"/comments", body, &cm); err != nil {
		return nil, err
	}
	if cm.ID == 0 {
		return nil, fmt.Errorf("add comment: %w: missing id", ErrUnexpectedShape)
	}
	return &cm, nil
}

// ============================================================================
// Admin
// ============================================================================

// ListUsers returns every account (admin only)
func (c *Client) ListUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := c.doJSON(ctx, http.MethodGet, "/admin/users", nil, &users); err != nil {
		return nil, err
	}
	if users == nil {
		users = []models.User{}
	}
	return users, nil
}

// UpdateUserRole changes a user's role. The response body is not trusted;
// callers re-fetch the user list afterwards.
func (c *Client) UpdateUserRole(ctx context.Context, userID int64, role models.Role) error {
	if !models.IsValidRole(role) {
		return fmt.Errorf("invalid role %q", role)
	}
	body := map[string]models.Role{"role": role}
	return c.doJSON(ctx, http.MethodPut, "/admin/users/"+strconv.FormatInt(userID, 10), body, nil)
}

// ListAudit fetches one server-counted page of the audit log
func (c *Client) ListAudit(ctx context.Context, q pagination.PageQuery) (pagination.ListResult[models.AuditEntry], error) {
	q = q.Normalize()
	params := url.Values{}
	if q.Filter != "" {
		params.Set("q", q.Filter)
	}
	params.Set("limit", strconv.Itoa(q.Limit()))
	params.Set("offset", strconv.Itoa(q.Offset()))

	var page models.AuditPage
	if err := c.do(ctx, request{method: http.MethodGet, path: "/admin/audit", query: params}, &page); err != nil {
		return pagination.ListResult[models.AuditEntry]{}, err
	}
	if page.Items == nil {
		page.Items = []models.AuditEntry{}
	}
	return pagination.Counted(page.Items, page.Total), nil
}

// ============================================================================
// Stats
// ============================================================================

// Stats returns item counts per category
func (c *Client) Stats(ctx context.Context) (models.Stats, error) {
	var s models.Stats
	if err := c.doJSON(ctx, http.MethodGet, "/stats", nil, &s); err != nil {
		return nil, err
	}
	if s == nil {
		s = models.Stats{}
	}
	return s, nil
}
