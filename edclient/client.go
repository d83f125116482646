// Package edclient is a thin client for the Ed Discussion JSON API
// (https://us.edstem.org/api). It knows nothing about filtering or
// rendering; it only fetches thread records.
package edclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"ed-digest/httpclient"
	"ed-digest/logger"
	"ed-digest/models"
)

const DefaultBaseURL = "https://us.edstem.org/api"

// ErrUnauthorized covers 401/403 responses: a missing, expired or
// wrong-course token. Fatal for the run.
var ErrUnauthorized = errors.New("ed api: unauthorized")

// ErrNotFound covers 404 responses on a thread detail fetch. Callers fall
// back to the listing snapshot of that thread.
var ErrNotFound = errors.New("ed api: not found")

// Config carries everything the client needs.
type Config struct {
	BaseURL  string
	Token    string
	CourseID string
	// PageSize is the listing page size; the API caps it at 100.
	PageSize int
}

type Client struct {
	base     *httpclient.BaseClient
	token    string
	courseID string
	pageSize int
}

// New builds a client. An empty BaseURL means the public US instance; a
// nil httpClient means the shared default with logging.
func New(cfg Config, httpClient *http.Client) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	pageSize := cfg.PageSize
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 100
	}
	return &Client{
		base:     httpclient.NewBaseClientWithClient(httpClient, baseURL),
		token:    cfg.Token,
		courseID: cfg.CourseID,
		pageSize: pageSize,
	}
}

type listThreadsResponse struct {
	Threads []models.Thread `json:"threads"`
}

type threadResponse struct {
	Thread models.Thread `json:"thread"`
}

// ListThreads pages through GET /courses/{id}/threads until a short page
// signals the end, deduplicating by thread id in case pages shift while
// paginating.
func (c *Client) ListThreads(ctx context.Context) ([]models.Thread, error) {
	var all []models.Thread
	seen := make(map[int]bool)

	for page := 0; ; page++ {
		query := url.Values{}
		query.Set("limit", strconv.Itoa(c.pageSize))
		query.Set("offset", strconv.Itoa(page*c.pageSize))
		query.Set("sort", "new")

		var out listThreadsResponse
		err := c.getJSON(ctx, "/courses/"+c.courseID+"/threads", query, &out)
		if err != nil {
			return nil, fmt.Errorf("list threads page %d: %w", page, err)
		}

		fresh := 0
		for _, t := range out.Threads {
			if seen[t.ID] {
				continue
			}
			seen[t.ID] = true
			all = append(all, t)
			fresh++
		}
		logger.DebugWithFields("fetched thread page", logger.Fields{
			"page":  page,
			"new":   fresh,
			"total": len(all),
		})

		// A short page ends the listing; so does a full page of only
		// already-seen ids, which otherwise loops forever on a server
		// that keeps replaying the same window.
		if len(out.Threads) < c.pageSize || fresh == 0 {
			break
		}
	}
	return all, nil
}

// GetThread fetches the full record of one thread, including the document
// body, comments and attachments.
func (c *Client) GetThread(ctx context.Context, id int) (*models.Thread, error) {
	var out threadResponse
	err := c.getJSON(ctx, "/threads/"+strconv.Itoa(id), nil, &out)
	if err != nil {
		return nil, fmt.Errorf("get thread %d: %w", id, err)
	}
	return &out.Thread, nil
}

func (c *Client) getJSON(ctx context.Context, relPath string, query url.Values, out any) error {
	req, err := c.base.NewRequest(ctx, http.MethodGet, relPath, query, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.base.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return fmt.Errorf("%w: status=%d", ErrUnauthorized, resp.StatusCode)
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	default:
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("ed api: status=%d body=%s", resp.StatusCode, string(b))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("ed api: decode response: %w", err)
	}
	return nil
}
