package service

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	courierDomain "github.com/allisson/licensegate/internal/courier/domain"
	apperrors "github.com/allisson/licensegate/internal/errors"
)

// UpstreamClient calls the courier aggregation API. Implementations return
// the raw response body so the caller can cache it verbatim.
type UpstreamClient interface {
	Lookup(ctx context.Context, searchTerm, apiKey string) ([]byte, error)
}

// HoorinClient is the HTTP client for the Hoorin courier aggregation API.
type HoorinClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewHoorinClient creates a client with a bounded per-call timeout.
func NewHoorinClient(baseURL string, timeout time.Duration) *HoorinClient {
	return &HoorinClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Lookup queries the aggregation API for a search term using the given
// credential. Transport failures surface as ErrUpstreamUnavailable; non-2xx
// statuses surface as an UpstreamStatusError carrying the upstream status
// and body for diagnostic passthrough.
func (h *HoorinClient) Lookup(ctx context.Context, searchTerm, apiKey string) ([]byte, error) {
	endpoint := fmt.Sprintf("%s/api/courier-check?searchTerm=%s", h.baseURL, url.QueryEscape(searchTerm))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build upstream request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := h.httpClient.Do(req)
	if err != nil {
		return nil, apperrors.Wrap(courierDomain.ErrUpstreamUnavailable, err.Error())
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperrors.Wrap(courierDomain.ErrUpstreamUnavailable, err.Error())
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, courierDomain.NewUpstreamStatusError(resp.StatusCode, string(body))
	}

	return body, nil
}
