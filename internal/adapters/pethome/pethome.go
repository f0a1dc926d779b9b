// Package pethome is the REST client of the pet-home advertisement service.
package pethome

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/larriantoniy/pethome_bot/internal/config"
	"github.com/larriantoniy/pethome_bot/internal/domain"
	"github.com/larriantoniy/pethome_bot/internal/ports"
)

type Client struct {
	client  *http.Client
	logger  *slog.Logger
	baseURL string // http://addr:port
	retries int
	backoff time.Duration
}

var _ ports.PetHome = (*Client)(nil)

func NewClient(cfg config.PetHomeConfig, logger *slog.Logger) *Client {
	retries := cfg.Retries
	if retries < 1 {
		retries = 1
	}
	return &Client{
		client:  &http.Client{Timeout: cfg.Timeout},
		logger:  logger,
		baseURL: cfg.BaseURL(),
		retries: retries,
		backoff: 300 * time.Millisecond,
	}
}

type authRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type authResponse struct {
	Token string `json:"token"`
}

type pagedRequest struct {
	Current int `json:"current"`
	Size    int `json:"size"`
}

type listRequest struct {
	Pov   domain.Scope `json:"pov"`
	Paged pagedRequest `json:"paged"`
}

type listResponse struct {
	IDs []int64 `json:"ids"`
}

type idResponse struct {
	ID int64 `json:"id"`
}

// statusError is a non-2xx answer.
type statusError struct {
	Status int
	Body   string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("status %d: %s", e.Status, e.Body)
}

func (c *Client) Authenticate(ctx context.Context, username, password string) (*domain.Handle, error) {
	var resp authResponse
	err := c.do(ctx, http.MethodPost, "/v1/users/auth", nil, authRequest{Username: username, Password: password}, &resp)
	if err != nil {
		var se *statusError
		if errors.As(err, &se) && se.Status >= 400 && se.Status < 500 {
			return nil, fmt.Errorf("%w: %w", domain.ErrAuthentication, err)
		}
		return nil, err
	}
	if resp.Token == "" {
		return nil, fmt.Errorf("%w: empty token", domain.ErrAuthentication)
	}
	return &domain.Handle{Token: resp.Token}, nil
}

func (c *Client) FetchOwn(ctx context.Context, h *domain.Handle, page int) ([]domain.Advertisement, error) {
	return c.fetch(ctx, h, domain.ScopeOwn, page)
}

func (c *Client) FetchOther(ctx context.Context, h *domain.Handle, page int) ([]domain.Advertisement, error) {
	return c.fetch(ctx, h, domain.ScopeOther, page)
}

// fetch resolves one page of ids, then every id, like the service expects.
func (c *Client) fetch(ctx context.Context, h *domain.Handle, scope domain.Scope, page int) ([]domain.Advertisement, error) {
	var list listResponse
	body := listRequest{Pov: scope, Paged: pagedRequest{Current: page, Size: domain.PageSize}}
	if err := c.retry(ctx, func() error {
		return c.do(ctx, http.MethodGet, "/v1/advertisements", h, body, &list)
	}); err != nil {
		return nil, err
	}

	ads := make([]domain.Advertisement, 0, len(list.IDs))
	for _, id := range list.IDs {
		ad, err := c.FetchByID(ctx, h, id)
		if err != nil {
			return nil, err
		}
		if scope != domain.ScopeOwn {
			ad.ID = 0
		}
		ads = append(ads, ad)
	}
	return ads, nil
}

func (c *Client) FetchByID(ctx context.Context, h *domain.Handle, id int64) (domain.Advertisement, error) {
	var ad domain.Advertisement
	err := c.retry(ctx, func() error {
		return c.do(ctx, http.MethodGet, adPath(id), h, nil, &ad)
	})
	if err != nil {
		return domain.Advertisement{}, err
	}
	if ad.ID == 0 {
		ad.ID = id
	}
	return ad, nil
}

func (c *Client) CreateAd(ctx context.Context, h *domain.Handle, ad domain.AdPayload) (int64, error) {
	var resp idResponse
	if err := c.do(ctx, http.MethodPost, "/v1/advertisements", h, ad, &resp); err != nil {
		return 0, err
	}
	return resp.ID, nil
}

func (c *Client) UpdateAd(ctx context.Context, h *domain.Handle, ad domain.AdPayload, id int64) (domain.Advertisement, error) {
	var out domain.Advertisement
	if err := c.do(ctx, http.MethodPut, adPath(id), h, ad, &out); err != nil {
		return domain.Advertisement{}, err
	}
	if out.ID == 0 {
		out.ID = id
	}
	return out, nil
}

func (c *Client) DeleteAd(ctx context.Context, h *domain.Handle, id int64) error {
	return c.do(ctx, http.MethodDelete, adPath(id), h, nil, nil)
}

func (c *Client) GetAccount(ctx context.Context, h *domain.Handle) (domain.Account, error) {
	var acc domain.Account
	err := c.retry(ctx, func() error {
		return c.do(ctx, http.MethodGet, "/v1/users/me", h, nil, &acc)
	})
	return acc, err
}

func (c *Client) UpdateAccount(ctx context.Context, h *domain.Handle, patch domain.AccountPatch) (domain.Account, error) {
	var acc domain.Account
	err := c.do(ctx, http.MethodPut, "/v1/users/me", h, patch, &acc)
	return acc, err
}

func adPath(id int64) string {
	return "/v1/advertisements/" + strconv.FormatInt(id, 10)
}

// retry repeats idempotent reads on transport and 5xx failures.
// Context cancellation stops it between attempts.
func (c *Client) retry(ctx context.Context, fn func() error) error {
	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(c.backoff), uint64(c.retries-1)),
		ctx,
	)
	err := backoff.Retry(func() error {
		err := fn()
		var se *statusError
		if errors.As(err, &se) && se.Status < 500 {
			return backoff.Permanent(err)
		}
		return err
	}, policy)
	if err != nil && !errors.Is(err, domain.ErrRemote) {
		return fmt.Errorf("%w: %w", domain.ErrRemote, err)
	}
	return err
}

// do sends one request. Every failure wraps domain.ErrRemote.
func (c *Client) do(ctx context.Context, method, path string, h *domain.Handle, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("%w: marshal body: %w", domain.ErrRemote, err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("%w: new request: %w", domain.ErrRemote, err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if h != nil {
		req.Header.Set("Authorization", "Bearer "+h.Token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Error("HTTP request to pet-home failed", "method", method, "path", path, "error", err)
		return fmt.Errorf("%w: %s %s: %w", domain.ErrRemote, method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		c.logger.Warn("pet-home returned error",
			"method", method,
			"path", path,
			"status", resp.StatusCode,
		)
		return fmt.Errorf("%w: %s %s: %w", domain.ErrRemote, method, path,
			&statusError{Status: resp.StatusCode, Body: string(data)})
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode %s: %w", domain.ErrRemote, path, err)
	}
	return nil
}
