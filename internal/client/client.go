// Package client talks to the dashboard HTTP service and keeps a sorted view of its todos.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"dashboard/internal/models"
)

// DefaultBaseURL is where the dashboard service listens by default.
const DefaultBaseURL = "http://localhost:3001"

// StatusError is returned for non-2xx responses.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("HTTP error! status: %d", e.Code)
	}
	return fmt.Sprintf("HTTP error! status: %d: %s", e.Code, e.Message)
}

// Client is a thin JSON client for the dashboard endpoints.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New returns a client for baseURL. A nil httpClient gets a 10s timeout client.
func New(baseURL string, httpClient *http.Client) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), httpClient: httpClient}
}

// do sends body as JSON and decodes the response into out when out is non-nil.
// It returns the response headers for callers interested in outcome headers.
func (c *Client) do(ctx context.Context, method, path string, body, out any) (http.Header, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var payload struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&payload)
		return resp.Header, &StatusError{Code: resp.StatusCode, Message: payload.Error}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return resp.Header, fmt.Errorf("decode %s response: %w", path, err)
		}
	}
	return resp.Header, nil
}

// ListTodos fetches the raw todo collection in stored order.
func (c *Client) ListTodos(ctx context.Context) ([]models.RawTodo, error) {
	var todos []models.RawTodo
	if _, err := c.do(ctx, http.MethodGet, "/todos", nil, &todos); err != nil {
		return nil, err
	}
	return todos, nil
}

// AddTodo appends a record.
func (c *Client) AddTodo(ctx context.Context, todo models.RawTodo) error {
	_, err := c.do(ctx, http.MethodPost, "/todos/add", todo, nil)
	return err
}

// EditTodo replaces the record named oldName and returns the server's outcome
// ("replaced" or "appended").
func (c *Client) EditTodo(ctx context.Context, oldName string, todo models.RawTodo) (string, error) {
	key := models.DeriveKey(oldName)
	if key == "" {
		return "", fmt.Errorf("todo name %q has an empty key", oldName)
	}
	header, err := c.do(ctx, http.MethodPost, "/todos/edit/"+url.PathEscape(key), todo, nil)
	if err != nil {
		return "", err
	}
	return header.Get("X-Edit-Outcome"), nil
}

// RemoveTodo deletes records named exactly name and returns the server's outcome
// ("removed" or "not_found").
func (c *Client) RemoveTodo(ctx context.Context, name string) (string, error) {
	header, err := c.do(ctx, http.MethodDelete, "/todos/remove", map[string]string{"name": name}, nil)
	if err != nil {
		return "", err
	}
	return header.Get("X-Remove-Outcome"), nil
}

// GetNotes returns the notes sheet.
func (c *Client) GetNotes(ctx context.Context) (string, error) {
	var payload struct {
		Text string `json:"text"`
	}
	if _, err := c.do(ctx, http.MethodGet, "/notes", nil, &payload); err != nil {
		return "", err
	}
	return payload.Text, nil
}

// SaveNotes overwrites the notes sheet.
func (c *Client) SaveNotes(ctx context.Context, text string) error {
	_, err := c.do(ctx, http.MethodPost, "/notes/edit", map[string]string{"text": text}, nil)
	return err
}

// NewBookmark holds the caller supplied fields of a bookmark.
type NewBookmark struct {
	Title       string  `json:"title"`
	URL         string  `json:"url"`
	Description *string `json:"description,omitempty"`
	Category    *string `json:"category,omitempty"`
}

// ListBookmarks fetches every bookmark.
func (c *Client) ListBookmarks(ctx context.Context) ([]models.Bookmark, error) {
	var bookmarks []models.Bookmark
	if _, err := c.do(ctx, http.MethodGet, "/bookmarks", nil, &bookmarks); err != nil {
		return nil, err
	}
	return bookmarks, nil
}

// AddBookmark stores a bookmark and returns it with its server assigned id.
func (c *Client) AddBookmark(ctx context.Context, b NewBookmark) (models.Bookmark, error) {
	var created models.Bookmark
	_, err := c.do(ctx, http.MethodPost, "/bookmarks/add", b, &created)
	return created, err
}

// EditBookmark applies patch to the bookmark with the given id.
func (c *Client) EditBookmark(ctx context.Context, id string, patch models.BookmarkPatch) (models.Bookmark, error) {
	var updated models.Bookmark
	_, err := c.do(ctx, http.MethodPost, "/bookmarks/edit/"+url.PathEscape(id), patch, &updated)
	return updated, err
}

// RemoveBookmark deletes the bookmark with the given id.
func (c *Client) RemoveBookmark(ctx context.Context, id string) error {
	_, err := c.do(ctx, http.MethodDelete, "/bookmarks/remove/"+url.PathEscape(id), nil, nil)
	return err
}
