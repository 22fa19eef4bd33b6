// Package service implements the external scraping collaborator that
// acquires session credentials from the cookie-only courier portal.
package service

import (
	"context"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"regexp"
	"strings"
	"time"

	sessionDomain "github.com/allisson/licensegate/internal/session/domain"
)

// Scraper acquires a session token pair from the courier portal. The token
// pair with its TTL is the contract; the scraping mechanics behind it are
// incidental glue.
type Scraper interface {
	Login(ctx context.Context, email, password string) (*sessionDomain.Credential, error)
}

// csrfTokenRegex extracts the hidden _token input from the portal login page.
var csrfTokenRegex = regexp.MustCompile(`name="_token"\s+value="([^"]+)"`)

// Portal cookie names carrying the session token pair.
const (
	sessionCookieName = "steadfast_session"
	xsrfCookieName    = "XSRF-TOKEN"
)

// portalScraper logs into the Steadfast portal over plain HTTP: fetch the
// login page, extract the CSRF token, post the login form and read the
// session cookies from the jar.
type portalScraper struct {
	baseURL    string
	httpClient *http.Client
	ttl        time.Duration
}

// NewPortalScraper creates a Scraper for the portal at baseURL. Acquired
// credentials carry the given TTL from creation time.
func NewPortalScraper(baseURL string, timeout, ttl time.Duration) Scraper {
	return &portalScraper{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		ttl:        ttl,
	}
}

// Login performs the login pipeline. Stage failures surface as
// AcquisitionError with the stage-specific reason.
func (p *portalScraper) Login(
	ctx context.Context,
	email, password string,
) (*sessionDomain.Credential, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, sessionDomain.NewAcquisitionError(sessionDomain.ReasonCookieParse, err)
	}

	client := &http.Client{
		Timeout: p.httpClient.Timeout,
		Jar:     jar,
	}

	token, err := p.fetchCSRFToken(ctx, client)
	if err != nil {
		return nil, err
	}

	if err := p.submitLogin(ctx, client, email, password, token); err != nil {
		return nil, err
	}

	return p.readCredential(jar)
}

// fetchCSRFToken loads the login page and extracts the hidden _token value.
func (p *portalScraper) fetchCSRFToken(ctx context.Context, client *http.Client) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/login", nil)
	if err != nil {
		return "", sessionDomain.NewAcquisitionError(sessionDomain.ReasonLoginRejected, err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return "", sessionDomain.NewAcquisitionError(sessionDomain.ReasonLoginRejected, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", sessionDomain.NewAcquisitionError(sessionDomain.ReasonLoginRejected, err)
	}

	match := csrfTokenRegex.FindSubmatch(body)
	if match == nil {
		return "", sessionDomain.NewAcquisitionError(sessionDomain.ReasonTokenNotFound, nil)
	}

	return string(match[1]), nil
}

// submitLogin posts the login form. The portal answers a successful login
// with a redirect; a 4xx/5xx means the credentials were rejected.
func (p *portalScraper) submitLogin(
	ctx context.Context,
	client *http.Client,
	email, password, token string,
) error {
	form := url.Values{}
	form.Set("email", email)
	form.Set("password", password)
	form.Set("_token", token)

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		p.baseURL+"/login",
		strings.NewReader(form.Encode()),
	)
	if err != nil {
		return sessionDomain.NewAcquisitionError(sessionDomain.ReasonLoginRejected, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := client.Do(req)
	if err != nil {
		return sessionDomain.NewAcquisitionError(sessionDomain.ReasonLoginRejected, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= 400 {
		return sessionDomain.NewAcquisitionError(sessionDomain.ReasonLoginRejected, nil)
	}

	return nil
}

// readCredential extracts the session token pair from the cookie jar.
func (p *portalScraper) readCredential(jar http.CookieJar) (*sessionDomain.Credential, error) {
	portalURL, err := url.Parse(p.baseURL)
	if err != nil {
		return nil, sessionDomain.NewAcquisitionError(sessionDomain.ReasonCookieParse, err)
	}

	var sessionToken, xsrfToken string
	for _, cookie := range jar.Cookies(portalURL) {
		switch cookie.Name {
		case sessionCookieName:
			sessionToken = cookie.Value
		case xsrfCookieName:
			xsrfToken = cookie.Value
		}
	}

	if sessionToken == "" || xsrfToken == "" {
		return nil, sessionDomain.NewAcquisitionError(sessionDomain.ReasonCookieParse, nil)
	}

	return &sessionDomain.Credential{
		SessionToken: sessionToken,
		XSRFToken:    xsrfToken,
		ExpiresAt:    time.Now().Add(p.ttl),
	}, nil
}
