package cmd

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/pilab-dev/osm-auth/domain"
	"github.com/pilab-dev/osm-auth/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	err := rootCmd.Execute()
	return out.String(), err
}

func TestLoginURL(t *testing.T) {
	t.Setenv("OSM_SERVER_URL", "https://master.apis.dev.openstreetmap.org")
	t.Setenv("OAUTH_CLIENT_ID", "cli-client")

	out, err := run(t, "login-url", "--redirect-uri", "https://tasks.example.com/authorized")
	require.NoError(t, err)

	var parsed struct {
		AuthURL string `yaml:"auth_url"`
		State   string `yaml:"state"`
	}
	require.NoError(t, yaml.Unmarshal([]byte(out), &parsed))
	assert.True(t, strings.HasPrefix(parsed.AuthURL,
		"https://master.apis.dev.openstreetmap.org/oauth2/authorize?response_type=code&client_id=cli-client&"))
	assert.Contains(t, parsed.AuthURL, "redirect_uri=https%3A%2F%2Ftasks.example.com%2Fauthorized")
	assert.True(t, strings.HasSuffix(parsed.AuthURL, "&state="+parsed.State))
}

func TestSessionVerify(t *testing.T) {
	t.Setenv("SESSION_SECRET_KEY", "cli-secret")

	issuer, err := services.NewSessionTokenIssuer("cli-secret", time.Hour)
	require.NoError(t, err)
	token, err := issuer.Issue(&domain.User{ID: 1234, Username: "test_user"})
	require.NoError(t, err)

	out, err := run(t, "session", "verify", token)
	require.NoError(t, err)

	var view sessionView
	require.NoError(t, yaml.Unmarshal([]byte(out), &view))
	assert.Equal(t, int64(1234), view.UserID)
	assert.Equal(t, "test_user", view.Username)
	assert.NotEmpty(t, view.TokenID)
}

func TestSessionVerify_Disabled(t *testing.T) {
	t.Setenv("SESSION_SECRET_KEY", "")

	_, err := run(t, "session", "verify", "anything")
	assert.ErrorIs(t, err, errSessionsDisabled)
}

func TestSessionVerify_WrongSecret(t *testing.T) {
	t.Setenv("SESSION_SECRET_KEY", "cli-secret")

	other, err := services.NewSessionTokenIssuer("other-secret", time.Hour)
	require.NoError(t, err)
	token, err := other.Issue(&domain.User{ID: 1, Username: "x"})
	require.NoError(t, err)

	_, err = run(t, "session", "verify", token)
	assert.ErrorIs(t, err, services.ErrInvalidSessionToken)
}
