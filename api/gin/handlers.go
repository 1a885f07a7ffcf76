package authgin

import (
	"net/http"

	"github.com/gin-gonic/gin"
	autherrors "github.com/pilab-dev/osm-auth/errors"
	"github.com/pilab-dev/osm-auth/services"
	"github.com/rs/zerolog/log"
)

// AuthenticationBasePath is where the authentication routes are mounted.
const AuthenticationBasePath = "/api/v2/system/authentication"

// AuthenticationAPI exposes the OSM login flow over HTTP.
type AuthenticationAPI struct {
	auth *services.AuthService
}

// NewAuthenticationAPI initializes the authentication API.
func NewAuthenticationAPI(auth *services.AuthService) *AuthenticationAPI {
	return &AuthenticationAPI{auth: auth}
}

// RegisterRoutes registers the authentication routes.
func (a *AuthenticationAPI) RegisterRoutes(r gin.IRouter) {
	group := r.Group(AuthenticationBasePath)
	group.Use(SecurityHeadersMiddleware())
	group.GET("/login/", a.LoginHandler)
	group.GET("/callback/", a.CallbackHandler)
}

// LoginHandler returns the OSM authorization URL together with its state.
// An optional redirect_uri query parameter overrides the configured one.
func (a *AuthenticationAPI) LoginHandler(c *gin.Context) {
	challenge, err := a.auth.Login(c.Request.Context(), c.Query("redirect_uri"))
	if err != nil {
		a.abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, challenge)
}

// CallbackHandler finishes the login after OSM redirects back with a code.
func (a *AuthenticationAPI) CallbackHandler(c *gin.Context) {
	if oauthError := c.Query("error"); oauthError != "" {
		log.Warn().Str("error", oauthError).Str("description", c.Query("error_description")).
			Msg("OSM returned an error to the callback")
	}

	session, err := a.auth.Callback(c.Request.Context(), services.CallbackRequest{
		Code:         c.Query("code"),
		State:        c.Query("state"),
		EmailAddress: c.Query("email_address"),
		RedirectURI:  c.Query("redirect_uri"),
	})
	if err != nil {
		a.abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, session)
}

func (a *AuthenticationAPI) abortWithError(c *gin.Context, err error) {
	authErr := autherrors.AsAuthError(err)
	_ = c.Error(err)
	c.AbortWithStatusJSON(authErr.Status, authErr)
}
