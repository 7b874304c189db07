// Package auth manages the OAuth1/OAuth2 token pair needed to call the
// vendor API, their persistence on disk, and the login/MFA handshake
// that produces them.
package auth

import "time"

// OAuth1Token is the long-lived credential obtained from the SSO ticket
// exchange. It never expires on its own and is used only to mint fresh
// OAuth2 tokens.
type OAuth1Token struct {
	OAuthToken       string     `json:"oauth_token"`
	OAuthTokenSecret string     `json:"oauth_token_secret"`
	MFAToken         string     `json:"mfa_token,omitempty"`
	MFAExpiration    *time.Time `json:"mfa_expiration_timestamp,omitempty"`
	Domain           string     `json:"domain"`
}

// OAuth2Token is the short-lived bearer credential used on every API
// request, refreshed from the OAuth1Token once it expires.
type OAuth2Token struct {
	Scope                 string `json:"scope"`
	JTI                   string `json:"jti"`
	TokenType             string `json:"token_type"`
	AccessToken           string `json:"access_token"`
	RefreshToken          string `json:"refresh_token"`
	ExpiresIn             int64  `json:"expires_in"`
	ExpiresAt             int64  `json:"expires_at"`               // unix seconds
	RefreshTokenExpiresIn int64  `json:"refresh_token_expires_in"`
	RefreshTokenExpiresAt int64  `json:"refresh_token_expires_at"` // unix seconds
}

// Expired reports whether the access token itself is past its expiry.
func (t *OAuth2Token) Expired() bool {
	if t == nil {
		return true
	}
	return time.Now().Unix() >= t.ExpiresAt
}

// RefreshExpired reports whether the refresh token can no longer be
// used to mint a new access token.
func (t *OAuth2Token) RefreshExpired() bool {
	if t == nil {
		return true
	}
	return time.Now().Unix() >= t.RefreshTokenExpiresAt
}

// AuthorizationHeader renders the bearer header value for this token.
func (t *OAuth2Token) AuthorizationHeader() string {
	return t.TokenType + " " + t.AccessToken
}

// Tokens bundles both halves of the credential pair.
type Tokens struct {
	OAuth1 *OAuth1Token `json:"oauth1"`
	OAuth2 *OAuth2Token `json:"oauth2"`
}
