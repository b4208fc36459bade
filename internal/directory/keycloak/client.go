// Package keycloak implements the directory interface against the Keycloak
// admin REST API. Authentication uses the OAuth2 client-credentials grant;
// the token is acquired and refreshed by the oauth2 transport.
package keycloak

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/avisko/rostersync/internal/directory"
)

const defaultPageSize = 100

// Config holds everything needed to talk to one realm.
type Config struct {
	// Server is the base URL of the Keycloak server.
	Server string

	// Realm is the realm whose users are managed.
	Realm string

	// ClientID and ClientSecret identify the confidential service client.
	ClientID     string
	ClientSecret string

	// Timeout applies per request.
	Timeout time.Duration

	// PageSize is the page size for user listing (default 100).
	PageSize int

	// RequiredActions are assigned to newly created accounts.
	RequiredActions []string
}

// Client is a Keycloak admin API client scoped to a single realm.
type Client struct {
	cfg       Config
	baseURL   string
	adminBase string
	hc        *http.Client
}

var _ directory.Directory = (*Client)(nil)

// New returns a Client. No network call happens until the first request;
// the token endpoint is contacted lazily by the oauth2 transport.
func New(ctx context.Context, cfg Config) *Client {
	base := strings.TrimRight(cfg.Server, "/")
	if cfg.PageSize <= 0 {
		cfg.PageSize = defaultPageSize
	}

	cc := clientcredentials.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenURL:     base + "/realms/" + url.PathEscape(cfg.Realm) + "/protocol/openid-connect/token",
	}

	// The oauth2 transport reuses this client for both token fetches and
	// API calls, so the timeout covers everything.
	ctx = context.WithValue(ctx, oauth2.HTTPClient, &http.Client{Timeout: cfg.Timeout})

	return &Client{
		cfg:       cfg,
		baseURL:   base,
		adminBase: base + "/admin/realms/" + url.PathEscape(cfg.Realm),
		hc:        cc.Client(ctx),
	}
}

// userRepresentation mirrors the admin API user resource. Pointer fields
// are omitted from update payloads when nil, which is how partial updates
// leave the other attributes untouched.
type userRepresentation struct {
	ID              string       `json:"id,omitempty"`
	Username        string       `json:"username,omitempty"`
	Email           string       `json:"email,omitempty"`
	FirstName       *string      `json:"firstName,omitempty"`
	LastName        *string      `json:"lastName,omitempty"`
	Enabled         *bool        `json:"enabled,omitempty"`
	EmailVerified   *bool        `json:"emailVerified,omitempty"`
	RequiredActions []string     `json:"requiredActions,omitempty"`
	Credentials     []credential `json:"credentials,omitempty"`
}

type credential struct {
	Type      string `json:"type"`
	Value     string `json:"value"`
	Temporary bool   `json:"temporary"`
}

func (u userRepresentation) toUser() directory.User {
	user := directory.User{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
	}
	if u.FirstName != nil {
		user.FirstName = *u.FirstName
	}
	if u.LastName != nil {
		user.LastName = *u.LastName
	}
	if u.Enabled != nil {
		user.Enabled = *u.Enabled
	}
	if u.EmailVerified != nil {
		user.EmailVerified = *u.EmailVerified
	}
	return user
}

// ListUsers pages through every account in the realm.
func (c *Client) ListUsers(ctx context.Context) ([]directory.User, error) {
	var users []directory.User

	first := 0
	for {
		query := url.Values{}
		query.Set("first", strconv.Itoa(first))
		query.Set("max", strconv.Itoa(c.cfg.PageSize))

		var page []userRepresentation
		if _, err := c.do(ctx, http.MethodGet, "/users", query, nil, &page); err != nil {
			return nil, err
		}
		for _, rep := range page {
			users = append(users, rep.toUser())
		}
		if len(page) < c.cfg.PageSize {
			return users, nil
		}
		first += c.cfg.PageSize
	}
}

// CreateUser creates an enabled account with an unverified email, the
// realm's required actions, and a throwaway temporary password so the
// directory can offer a password-reset flow to the new member.
func (c *Client) CreateUser(ctx context.Context, username, email, firstName, lastName string) (string, error) {
	enabled := true
	verified := false
	rep := userRepresentation{
		Username:        username,
		Email:           email,
		Enabled:         &enabled,
		EmailVerified:   &verified,
		RequiredActions: c.cfg.RequiredActions,
		Credentials: []credential{
			{Type: "password", Value: randomPassword(), Temporary: true},
		},
	}
	if firstName != "" {
		rep.FirstName = &firstName
	}
	if lastName != "" {
		rep.LastName = &lastName
	}

	resp, err := c.do(ctx, http.MethodPost, "/users", nil, rep, nil)
	if err != nil {
		return "", err
	}

	// The new account's id is the last segment of the Location header.
	location := resp.Header.Get("Location")
	if location == "" {
		return "", &directory.Error{Method: http.MethodPost, Path: "/users", Status: resp.StatusCode,
			Err: fmt.Errorf("response has no Location header")}
	}
	return location[strings.LastIndex(location, "/")+1:], nil
}

// UpdateUser applies a partial update; nil fields stay untouched.
func (c *Client) UpdateUser(ctx context.Context, id string, fields directory.UpdateFields) error {
	rep := userRepresentation{
		FirstName: fields.FirstName,
		LastName:  fields.LastName,
		Enabled:   fields.Enabled,
	}
	_, err := c.do(ctx, http.MethodPut, "/users/"+url.PathEscape(id), nil, rep, nil)
	return err
}

// SetEnabled enables or disables an account.
func (c *Client) SetEnabled(ctx context.Context, id string, enabled bool) error {
	_, err := c.do(ctx, http.MethodPut, "/users/"+url.PathEscape(id), nil,
		userRepresentation{Enabled: &enabled}, nil)
	return err
}

// SetEmailVerified marks an account's email verified or unverified.
func (c *Client) SetEmailVerified(ctx context.Context, id string, verified bool) error {
	_, err := c.do(ctx, http.MethodPut, "/users/"+url.PathEscape(id), nil,
		userRepresentation{EmailVerified: &verified}, nil)
	return err
}

// SendVerifyEmail asks the directory to mail a verification link.
func (c *Client) SendVerifyEmail(ctx context.Context, id string) error {
	_, err := c.do(ctx, http.MethodPut, "/users/"+url.PathEscape(id)+"/send-verify-email", nil, nil, nil)
	return err
}

// FindUserByEmail returns the account with exactly this email address.
func (c *Client) FindUserByEmail(ctx context.Context, email string) (directory.User, error) {
	query := url.Values{}
	query.Set("email", email)
	query.Set("exact", "true")

	var page []userRepresentation
	if _, err := c.do(ctx, http.MethodGet, "/users", query, nil, &page); err != nil {
		return directory.User{}, err
	}
	if len(page) == 0 {
		return directory.User{}, fmt.Errorf("no user found with email %s", email)
	}
	return page[0].toUser(), nil
}

// IntrospectToken posts the token to the realm's introspection endpoint and
// returns the raw claim set. Introspection authenticates with the client
// credentials directly instead of a bearer token.
func (c *Client) IntrospectToken(ctx context.Context, token string) (map[string]any, error) {
	endpoint := c.baseURL + "/realms/" + url.PathEscape(c.cfg.Realm) + "/protocol/openid-connect/token/introspect"

	form := url.Values{}
	form.Set("token", token)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, &directory.Error{Method: http.MethodPost, Path: endpoint, Err: err}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(c.cfg.ClientID, c.cfg.ClientSecret)

	plain := &http.Client{Timeout: c.cfg.Timeout}
	resp, err := plain.Do(req)
	if err != nil {
		return nil, &directory.Error{Method: http.MethodPost, Path: endpoint, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &directory.Error{Method: http.MethodPost, Path: endpoint, Err: err}
	}
	if resp.StatusCode >= 300 {
		return nil, &directory.Error{Method: http.MethodPost, Path: endpoint, Status: resp.StatusCode, Body: string(body)}
	}

	var claims map[string]any
	if err := json.Unmarshal(body, &claims); err != nil {
		return nil, &directory.Error{Method: http.MethodPost, Path: endpoint, Err: err}
	}
	return claims, nil
}

// do issues one admin API request. A status >= 300 or transport failure
// comes back as *directory.Error carrying method, path and response body.
// When out is non-nil the response body is decoded into it.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, payload, out any) (*http.Response, error) {
	u := c.adminBase + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, &directory.Error{Method: method, Path: path, Err: err}
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, &directory.Error{Method: method, Path: path, Err: err}
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, &directory.Error{Method: method, Path: path, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &directory.Error{Method: method, Path: path, Err: err}
	}

	if resp.StatusCode >= 300 {
		return nil, &directory.Error{Method: method, Path: path, Status: resp.StatusCode,
			Body: strings.TrimSpace(string(data))}
	}

	if out != nil && len(data) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return nil, &directory.Error{Method: method, Path: path, Err: err}
		}
	}
	return resp, nil
}

// randomPassword returns a password that is not meant to be remembered; it
// only exists so the directory can show the password dialog and send reset
// emails.
func randomPassword() string {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		panic(err) // crypto/rand never fails on supported platforms
	}
	return base64.RawURLEncoding.EncodeToString(buf)
}
