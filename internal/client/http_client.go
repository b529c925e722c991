package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"sales-monitor/internal/config"
	"sales-monitor/internal/models"
)

const (
	dealsPerPage = 100
	maxDealPages = 500
)

// StatusError is a non-2xx answer from the upstream API.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.StatusCode >= 500 {
		return fmt.Sprintf("server error: %d", e.StatusCode)
	}
	return fmt.Sprintf("client error: %d", e.StatusCode)
}

// IsNotFound reports whether err is an upstream 404.
func IsNotFound(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.StatusCode == http.StatusNotFound
}

// HTTPClient talks to the sales backend. It is safe for concurrent use.
type HTTPClient struct {
	client        *http.Client
	baseURL       string
	retryAttempts int
	limiter       *rate.Limiter
	logger        *logrus.Logger
	backoff       func(attempt int) time.Duration

	mu       sync.RWMutex
	token    string
	username string
	password string
}

func NewHTTPClient(cfg *config.Config, logger *logrus.Logger) *HTTPClient {
	rps := cfg.UpstreamRPS
	if rps <= 0 {
		rps = 5
	}
	return &HTTPClient{
		client: &http.Client{
			Timeout: cfg.HTTPTimeout,
		},
		baseURL:       cfg.UpstreamAPIURL,
		retryAttempts: max(cfg.RetryAttempts, 1),
		limiter:       rate.NewLimiter(rate.Limit(rps), max(int(rps), 1)),
		logger:        logger,
		backoff:       quadraticBackoff,
		token:         cfg.UpstreamToken,
		username:      cfg.UpstreamUsername,
		password:      cfg.UpstreamPassword,
	}
}

func quadraticBackoff(attempt int) time.Duration {
	return time.Duration(attempt*attempt) * time.Second
}

// Login exchanges credentials for a bearer token and keeps it for later calls.
func (c *HTTPClient) Login(ctx context.Context, username, password string) error {
	var resp models.APIResponse[models.LoginResponse]
	body := models.LoginRequest{Username: username, Password: password}
	if err := c.retryRequest(ctx, http.MethodPost, "/login", body, &resp, false); err != nil {
		return fmt.Errorf("failed to log in: %w", err)
	}
	if resp.Data.Token == "" {
		return errors.New("failed to log in: empty token")
	}

	c.mu.Lock()
	c.token = resp.Data.Token
	c.username = username
	c.password = password
	c.mu.Unlock()

	c.logger.WithField("username", username).Info("Logged in to upstream")
	return nil
}

func (c *HTTPClient) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// FetchDeals walks every page of /deals.
func (c *HTTPClient) FetchDeals(ctx context.Context) ([]models.BackendDeal, error) {
	var deals []models.BackendDeal

	for page := 1; page <= maxDealPages; page++ {
		q := url.Values{}
		q.Set("page", strconv.Itoa(page))
		q.Set("per_page", strconv.Itoa(dealsPerPage))

		var resp models.APIResponse[models.PaginatedResponse[models.BackendDeal]]
		if err := c.get(ctx, "/deals?"+q.Encode(), &resp); err != nil {
			return nil, fmt.Errorf("failed to fetch deals page %d: %w", page, err)
		}
		deals = append(deals, resp.Data.Data...)

		if resp.Data.LastPage <= page || len(resp.Data.Data) == 0 {
			break
		}
	}

	c.logger.WithField("records", len(deals)).Info("Fetched deals")
	return deals, nil
}

func (c *HTTPClient) FetchTargets(ctx context.Context) ([]models.BackendTarget, error) {
	var resp models.APIResponse[[]models.BackendTarget]
	if err := c.get(ctx, "/targets", &resp); err != nil {
		return nil, fmt.Errorf("failed to fetch targets: %w", err)
	}

	c.logger.WithField("records", len(resp.Data)).Info("Fetched targets")
	return resp.Data, nil
}

// FetchUnits returns the active units.
func (c *HTTPClient) FetchUnits(ctx context.Context) ([]models.BackendUnit, error) {
	var resp models.APIResponse[[]models.BackendUnit]
	if err := c.get(ctx, "/units?active=true", &resp); err != nil {
		return nil, fmt.Errorf("failed to fetch units: %w", err)
	}

	c.logger.WithField("records", len(resp.Data)).Info("Fetched units")
	return resp.Data, nil
}

func (c *HTTPClient) UpdateDealStatus(ctx context.Context, id int, status models.DealStatus) (*models.BackendDeal, error) {
	var resp models.APIResponse[models.BackendDeal]
	path := fmt.Sprintf("/deals/%d/status", id)
	body := models.StatusUpdateRequest{Status: string(status)}
	if err := c.authorized(ctx, http.MethodPatch, path, body, &resp); err != nil {
		return nil, fmt.Errorf("failed to update deal %d: %w", id, err)
	}

	c.logger.WithFields(logrus.Fields{
		"deal_id": id,
		"status":  status,
	}).Info("Updated deal status")
	return &resp.Data, nil
}

// PostExportData delivers a signed export document to an external sink.
func (c *HTTPClient) PostExportData(ctx context.Context, sinkURL, contentType string, data []byte, signature string) error {
	var lastErr error

	for attempt := 0; attempt < c.retryAttempts; attempt++ {
		if attempt > 0 {
			if err := c.sleep(ctx, attempt); err != nil {
				return err
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, sinkURL, bytes.NewReader(data))
		if err != nil {
			return fmt.Errorf("failed to create export request: %w", err)
		}
		req.Header.Set("Content-Type", contentType)
		req.Header.Set("X-Signature", signature)

		resp, err := c.client.Do(req)
		if err != nil {
			lastErr = err
			continue
		}
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			return nil
		}
		if resp.StatusCode < 500 {
			return &StatusError{StatusCode: resp.StatusCode}
		}
		lastErr = &StatusError{StatusCode: resp.StatusCode}
	}

	return fmt.Errorf("export failed after retries: %w", lastErr)
}

func (c *HTTPClient) get(ctx context.Context, path string, target interface{}) error {
	return c.authorized(ctx, http.MethodGet, path, nil, target)
}

// authorized runs a request with the bearer token, logging in first when
// credentials are configured, and once more after a 401.
func (c *HTTPClient) authorized(ctx context.Context, method, path string, body, target interface{}) error {
	if c.Token() == "" && c.hasCredentials() {
		if err := c.relogin(ctx); err != nil {
			return err
		}
	}

	err := c.retryRequest(ctx, method, path, body, target, true)
	var se *StatusError
	if errors.As(err, &se) && se.StatusCode == http.StatusUnauthorized && c.hasCredentials() {
		c.logger.WithField("path", path).Warn("Upstream token rejected, logging in again")
		if err := c.relogin(ctx); err != nil {
			return err
		}
		return c.retryRequest(ctx, method, path, body, target, true)
	}
	return err
}

func (c *HTTPClient) hasCredentials() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.username != "" && c.password != ""
}

func (c *HTTPClient) relogin(ctx context.Context) error {
	c.mu.RLock()
	username, password := c.username, c.password
	c.mu.RUnlock()
	return c.Login(ctx, username, password)
}

func (c *HTTPClient) retryRequest(ctx context.Context, method, path string, body, target interface{}, withToken bool) error {
	var payload []byte
	if body != nil {
		var err error
		if payload, err = json.Marshal(body); err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
	}

	endpoint := c.baseURL + path
	var lastErr error

	for attempt := 0; attempt < c.retryAttempts; attempt++ {
		if attempt > 0 {
			c.logger.WithFields(logrus.Fields{
				"attempt": attempt + 1,
				"backoff": c.backoff(attempt),
				"url":     endpoint,
			}).Warn("Retrying request after backoff")
			if err := c.sleep(ctx, attempt); err != nil {
				return err
			}
		}

		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}

		var reader io.Reader
		if payload != nil {
			reader = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
		if err != nil {
			return fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Accept", "application/json")
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		if withToken {
			if token := c.Token(); token != "" {
				req.Header.Set("Authorization", "Bearer "+token)
			}
		}

		resp, err := c.client.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			lastErr = err
			continue
		}

		respBody, err := io.ReadAll(resp.Body)
		resp.Body.Close()

		if resp.StatusCode >= 500 {
			lastErr = &StatusError{StatusCode: resp.StatusCode, Body: string(respBody)}
			continue
		}
		if resp.StatusCode >= 400 {
			return &StatusError{StatusCode: resp.StatusCode, Body: string(respBody)}
		}
		if err != nil {
			lastErr = err
			continue
		}

		if err := json.Unmarshal(respBody, target); err != nil {
			lastErr = fmt.Errorf("decode response: %w", err)
			continue
		}

		c.logger.WithFields(logrus.Fields{
			"attempt":     attempt + 1,
			"status_code": resp.StatusCode,
			"method":      method,
			"url":         endpoint,
		}).Debug("Request successful")

		return nil
	}

	return fmt.Errorf("all retry attempts failed, last error: %w", lastErr)
}

func (c *HTTPClient) sleep(ctx context.Context, attempt int) error {
	t := time.NewTimer(c.backoff(attempt))
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
