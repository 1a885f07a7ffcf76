package dto

// LoginChallenge is returned by the login endpoint. The caller redirects the
// user agent to AuthURL and keeps State to compare on callback.
type LoginChallenge struct {
	AuthURL string `json:"auth_url"`
	State   string `json:"state"`
}

// Session is returned after a successful callback. Session carries the local
// user id.
type Session struct {
	Username     string `json:"username"`
	Session      int64  `json:"session"`
	Picture      string `json:"picture"`
	SessionToken string `json:"session_token,omitempty"`
}
