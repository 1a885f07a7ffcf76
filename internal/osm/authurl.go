package osm

import (
	"net/url"
	"strings"
)

// BuildAuthorizationURL returns the URL a user agent is sent to in order to
// authorize this client. The query keeps a fixed parameter order:
// response_type, client_id, redirect_uri, scope, state.
func BuildAuthorizationURL(cfg Config, state, redirectURI string) string {
	if redirectURI == "" {
		redirectURI = cfg.RedirectURI
	}

	var b strings.Builder
	b.WriteString(cfg.AuthorizeURL())
	b.WriteString("?response_type=code")
	b.WriteString("&client_id=")
	b.WriteString(url.QueryEscape(cfg.ClientID))
	b.WriteString("&redirect_uri=")
	b.WriteString(url.QueryEscape(redirectURI))
	b.WriteString("&scope=")
	b.WriteString(url.QueryEscape(strings.Join(cfg.Scopes, " ")))
	b.WriteString("&state=")
	b.WriteString(url.QueryEscape(state))

	return b.String()
}
