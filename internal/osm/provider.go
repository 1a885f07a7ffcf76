package osm

import (
	"context"
	"strings"
	"time"

	"golang.org/x/oauth2"
)

// Default endpoint paths on the OSM server.
const (
	DefaultAuthorizePath   = "/oauth2/authorize"
	DefaultTokenPath       = "/oauth2/token"
	DefaultUserDetailsPath = "/api/0.6/user/details.json"
)

// Config is the immutable OAuth2 client configuration for one OSM server.
type Config struct {
	ServerURL       string
	ClientID        string
	ClientSecret    string
	RedirectURI     string
	Scopes          []string
	AuthorizePath   string
	TokenPath       string
	UserDetailsPath string
	RequestTimeout  time.Duration
}

func (c Config) baseURL() string {
	return strings.TrimSuffix(c.ServerURL, "/")
}

// AuthorizeURL is the provider endpoint users are sent to for consent.
func (c Config) AuthorizeURL() string {
	return c.baseURL() + pathOrDefault(c.AuthorizePath, DefaultAuthorizePath)
}

func (c Config) TokenURL() string {
	return c.baseURL() + pathOrDefault(c.TokenPath, DefaultTokenPath)
}

func (c Config) UserDetailsURL() string {
	return c.baseURL() + pathOrDefault(c.UserDetailsPath, DefaultUserDetailsPath)
}

// OAuth2Config returns an oauth2.Config for the given redirect URI, falling
// back to the configured one when redirectURI is empty.
func (c Config) OAuth2Config(redirectURI string) *oauth2.Config {
	if redirectURI == "" {
		redirectURI = c.RedirectURI
	}
	return &oauth2.Config{
		ClientID:     c.ClientID,
		ClientSecret: c.ClientSecret,
		RedirectURL:  redirectURI,
		Scopes:       c.Scopes,
		Endpoint: oauth2.Endpoint{
			AuthURL:   c.AuthorizeURL(),
			TokenURL:  c.TokenURL(),
			AuthStyle: oauth2.AuthStyleInParams,
		},
	}
}

func pathOrDefault(path, def string) string {
	if path == "" {
		return def
	}
	return path
}

// ParseScopes splits a space separated scope string.
func ParseScopes(scope string) []string {
	return strings.Fields(scope)
}

// ExternalIdentity is the OSM profile of the user who just authorized us.
type ExternalIdentity struct {
	ID             int64
	DisplayName    string
	ChangesetCount int
	AvatarURL      string
}

// Provider exchanges authorization codes and reads the authorizing user's profile.
//
//go:generate go run go.uber.org/mock/mockgen -source=$GOFILE -destination=mock/mock_$GOFILE -package=mock_$GOPACKAGE Provider
type Provider interface {
	// FetchToken exchanges an authorization code for an access token.
	// redirectURI must match the one used to build the authorization URL;
	// an empty value selects the configured default.
	FetchToken(ctx context.Context, code, redirectURI string) (*oauth2.Token, error)

	// GetProfile fetches the user details of the token's owner.
	GetProfile(ctx context.Context, token *oauth2.Token) (*ExternalIdentity, error)
}
