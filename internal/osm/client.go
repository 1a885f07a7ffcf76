package osm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	autherrors "github.com/pilab-dev/osm-auth/errors"
	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"
)

const (
	defaultRequestTimeout = 10 * time.Second
	maxErrorBodyBytes     = 512
)

// Client talks to an OSM server's OAuth2 and API endpoints.
// Failures are returned as *autherrors.AuthError values.
type Client struct {
	cfg        Config
	httpClient *http.Client
}

// NewClient creates a Client. A nil httpClient gets a default one bounded by
// cfg.RequestTimeout.
func NewClient(cfg Config, httpClient *http.Client) *Client {
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = defaultRequestTimeout
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.RequestTimeout}
	}
	return &Client{cfg: cfg, httpClient: httpClient}
}

// Config returns the configuration the client was built with.
func (c *Client) Config() Config {
	return c.cfg
}

func (c *Client) requestContext(ctx context.Context) (context.Context, context.CancelFunc) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)
	return context.WithTimeout(ctx, c.cfg.RequestTimeout)
}

// FetchToken implements Provider.
func (c *Client) FetchToken(ctx context.Context, code, redirectURI string) (token *oauth2.Token, err error) {
	defer func(ctx context.Context, start time.Time) { recordRequest(ctx, opTokenExchange, start, err) }(ctx, time.Now())

	ctx, cancel := c.requestContext(ctx)
	defer cancel()

	token, err = c.cfg.OAuth2Config(redirectURI).Exchange(ctx, code)
	if err != nil {
		var retrieveErr *oauth2.RetrieveError
		if errors.As(err, &retrieveErr) && retrieveErr.ErrorCode == "invalid_grant" {
			return nil, autherrors.NewInvalidGrant(err)
		}
		log.Warn().Err(err).Msg("OSM token exchange failed")
		return nil, autherrors.NewTokenFetch(err)
	}
	if token == nil || token.AccessToken == "" {
		return nil, autherrors.NewTokenFetch(ErrEmptyToken)
	}

	return token, nil
}

// GetProfile implements Provider.
func (c *Client) GetProfile(ctx context.Context, token *oauth2.Token) (identity *ExternalIdentity, err error) {
	defer func(ctx context.Context, start time.Time) { recordRequest(ctx, opUserDetails, start, err) }(ctx, time.Now())

	ctx, cancel := c.requestContext(ctx)
	defer cancel()

	client := oauth2.NewClient(ctx, oauth2.StaticTokenSource(token))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.UserDetailsURL(), nil)
	if err != nil {
		return nil, autherrors.NewOSMService(err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, autherrors.NewOSMService(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		log.Warn().Int("status", resp.StatusCode).Str("body", string(body)).Msg("OSM user details request failed")
		return nil, autherrors.NewOSMService(fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, autherrors.NewOSMService(err)
	}

	identity, err = ParseUserDetails(body)
	if err != nil {
		return nil, autherrors.NewAuthFailure(err)
	}

	return identity, nil
}

type userDetailsResponse struct {
	User *struct {
		ID          json.Number `json:"id"`
		DisplayName string      `json:"display_name"`
		Changesets  struct {
			Count int `json:"count"`
		} `json:"changesets"`
		Img *struct {
			Href string `json:"href"`
		} `json:"img"`
	} `json:"user"`
}

// ParseUserDetails decodes the body of /api/0.6/user/details.json.
// The user id and display name are required, the avatar is optional.
func ParseUserDetails(body []byte) (*ExternalIdentity, error) {
	var details userDetailsResponse
	if err := json.Unmarshal(body, &details); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIncompleteProfile, err)
	}
	if details.User == nil || details.User.ID == "" || details.User.DisplayName == "" {
		return nil, ErrIncompleteProfile
	}

	id, err := details.User.ID.Int64()
	if err != nil {
		return nil, fmt.Errorf("%w: id %q: %v", ErrIncompleteProfile, details.User.ID, err)
	}

	identity := &ExternalIdentity{
		ID:             id,
		DisplayName:    details.User.DisplayName,
		ChangesetCount: details.User.Changesets.Count,
	}
	if details.User.Img != nil {
		identity.AvatarURL = details.User.Img.Href
	}

	return identity, nil
}

// Ensure Client implements Provider.
var _ Provider = (*Client)(nil)
