package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/gomodule/oauth1/oauth"
)

// LoginError marks a credential, MFA, or ticket-redemption failure —
// the user's fault, not a transport failure.
type LoginError struct {
	Msg string
}

func (e *LoginError) Error() string { return e.Msg }

// OutcomeKind discriminates the three shapes a login attempt can
// produce, replacing the original's overloaded tuple return.
type OutcomeKind int

const (
	OutcomeSuccess OutcomeKind = iota
	OutcomeNeedsMFA
	OutcomeFailed
)

// LoginOutcome is a tagged union over the three results a login or
// MFA-resume call can produce. Callers branch on Kind rather than
// inspecting which fields happen to be populated.
type LoginOutcome struct {
	Kind        OutcomeKind
	Tokens      *Tokens
	ClientState []byte // opaque, only meaningful for OutcomeNeedsMFA
	Err         error
}

// clientState is the concrete shape ClientState serializes, carrying
// exactly what resume_login needs to pick the flow back up: the CSRF
// token, interim cookies, and the signed-in email/password pair.
type clientState struct {
	CSRFToken string            `json:"csrf_token"`
	Cookies   map[string]string `json:"cookies"`
	Email     string            `json:"email"`
	Password  string            `json:"password"`
	Domain    string            `json:"domain"`
}

// LoginFlow runs the credential+MFA exchange culminating in an OAuth1
// then OAuth2 token pair. It owns the mobile-app OAuth1 consumer
// credentials and the SSO/ticket-exchange HTTP calls; it does not touch
// the Manager or Store directly so it can be tested without a
// filesystem.
type LoginFlow struct {
	httpClient   *http.Client
	domain       string
	consumerKey  string
	consumerSecr string
}

// NewLoginFlow builds a LoginFlow against domain using the given
// mobile-app OAuth1 consumer key/secret (read from config/env, not
// per-user).
func NewLoginFlow(httpClient *http.Client, domain, consumerKey, consumerSecret string) *LoginFlow {
	return &LoginFlow{
		httpClient:   httpClient,
		domain:       domain,
		consumerKey:  consumerKey,
		consumerSecr: consumerSecret,
	}
}

var csrfFieldRe = regexp.MustCompile(`name="_csrf"\s+value="([^"]+)"`)
var ticketRe = regexp.MustCompile(`ticket=([^"&]+)`)
var mfaIndicatorRe = regexp.MustCompile(`(?i)enter.*mfa|verification code`)

// Login runs steps 1-5 of the SSO protocol. If an MFA challenge is
// detected and returnOnMFA is true, it returns OutcomeNeedsMFA with an
// opaque ClientState instead of prompting; the caller resumes later via
// ResumeLogin. If returnOnMFA is false, promptMFA is invoked inline to
// obtain the code.
func (f *LoginFlow) Login(ctx context.Context, email, password string, returnOnMFA bool, promptMFA func() (string, error)) LoginOutcome {
	csrfToken, cookies, err := f.fetchLoginPage(ctx)
	if err != nil {
		return LoginOutcome{Kind: OutcomeFailed, Err: fmt.Errorf("fetch login page: %w", err)}
	}

	body, cookies, err := f.postCredentials(ctx, email, password, csrfToken, cookies)
	if err != nil {
		return LoginOutcome{Kind: OutcomeFailed, Err: fmt.Errorf("post credentials: %w", err)}
	}

	if mfaIndicatorRe.MatchString(body) {
		if returnOnMFA {
			state := clientState{CSRFToken: csrfToken, Cookies: cookies, Email: email, Password: password, Domain: f.domain}
			data, err := json.Marshal(state)
			if err != nil {
				return LoginOutcome{Kind: OutcomeFailed, Err: err}
			}
			return LoginOutcome{Kind: OutcomeNeedsMFA, ClientState: data}
		}
		code, err := promptMFA()
		if err != nil {
			return LoginOutcome{Kind: OutcomeFailed, Err: &LoginError{Msg: "mfa prompt failed: " + err.Error()}}
		}
		body, cookies, err = f.postMFACode(ctx, code, csrfToken, cookies)
		if err != nil {
			return LoginOutcome{Kind: OutcomeFailed, Err: fmt.Errorf("post mfa code: %w", err)}
		}
	}

	ticket, err := extractTicket(body)
	if err != nil {
		return LoginOutcome{Kind: OutcomeFailed, Err: &LoginError{Msg: err.Error()}}
	}

	tokens, err := f.redeemTicketAndExchange(ctx, ticket)
	if err != nil {
		return LoginOutcome{Kind: OutcomeFailed, Err: err}
	}
	return LoginOutcome{Kind: OutcomeSuccess, Tokens: tokens}
}

// ResumeLogin picks up the flow after an MFA challenge, using the
// ClientState returned by Login(returnOnMFA=true).
func (f *LoginFlow) ResumeLogin(ctx context.Context, mfaCode string, state []byte) LoginOutcome {
	var cs clientState
	if err := json.Unmarshal(state, &cs); err != nil {
		return LoginOutcome{Kind: OutcomeFailed, Err: &LoginError{Msg: "invalid client state: " + err.Error()}}
	}

	body, _, err := f.postMFACode(ctx, mfaCode, cs.CSRFToken, cs.Cookies)
	if err != nil {
		return LoginOutcome{Kind: OutcomeFailed, Err: fmt.Errorf("post mfa code: %w", err)}
	}

	ticket, err := extractTicket(body)
	if err != nil {
		return LoginOutcome{Kind: OutcomeFailed, Err: &LoginError{Msg: err.Error()}}
	}

	tokens, err := f.redeemTicketAndExchange(ctx, ticket)
	if err != nil {
		return LoginOutcome{Kind: OutcomeFailed, Err: err}
	}
	return LoginOutcome{Kind: OutcomeSuccess, Tokens: tokens}
}

func (f *LoginFlow) fetchLoginPage(ctx context.Context) (csrfToken string, cookies map[string]string, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, "https://sso."+f.domain+"/sso/signin", nil)
	if err != nil {
		return "", nil, err
	}
	resp, err := f.httpClient.Do(req)
	if err != nil {
		return "", nil, err
	}
	defer resp.Body.Close()

	body, err := readBody(resp)
	if err != nil {
		return "", nil, err
	}
	m := csrfFieldRe.FindStringSubmatch(body)
	if m == nil {
		return "", nil, &LoginError{Msg: "csrf token not found on login page"}
	}
	return m[1], cookieMap(resp), nil
}

func (f *LoginFlow) postCredentials(ctx context.Context, email, password, csrfToken string, cookies map[string]string) (string, map[string]string, error) {
	form := url.Values{"username": {email}, "password": {password}, "_csrf": {csrfToken}}
	return f.postForm(ctx, "https://sso."+f.domain+"/sso/signin", form, cookies)
}

func (f *LoginFlow) postMFACode(ctx context.Context, code, csrfToken string, cookies map[string]string) (string, map[string]string, error) {
	form := url.Values{"mfa-code": {code}, "_csrf": {csrfToken}, "fromPage": {"setupEnterMfaCode"}}
	return f.postForm(ctx, "https://sso."+f.domain+"/sso/verifyMFA/loginEnterMfaCode", form, cookies)
}

func (f *LoginFlow) postForm(ctx context.Context, endpoint string, form url.Values, cookies map[string]string) (string, map[string]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for name, val := range cookies {
		req.AddCookie(&http.Cookie{Name: name, Value: val})
	}
	resp, err := f.httpClient.Do(req)
	if err != nil {
		return "", nil, err
	}
	defer resp.Body.Close()
	body, err := readBody(resp)
	if err != nil {
		return "", nil, err
	}
	return body, cookieMap(resp), nil
}

func extractTicket(body string) (string, error) {
	m := ticketRe.FindStringSubmatch(body)
	if m == nil {
		return "", errors.New("login response did not contain a service ticket")
	}
	return m[1], nil
}

// redeemTicketAndExchange performs step 4 (ticket → OAuth1) and step 5
// (OAuth1 → OAuth2) of the protocol.
func (f *LoginFlow) redeemTicketAndExchange(ctx context.Context, ticket string) (*Tokens, error) {
	oauthClient := &oauth.Client{
		Credentials: oauth.Credentials{Token: f.consumerKey, Secret: f.consumerSecr},
	}

	requestCreds, err := oauthClient.RequestTemporaryCredentials(f.httpClient, "https://connectapi."+f.domain+"/oauth-service/oauth/preauthorized", nil)
	if err != nil {
		return nil, &LoginError{Msg: "request temporary oauth credentials: " + err.Error()}
	}

	form := url.Values{"ticket": {ticket}}
	tokenCreds, _, err := oauthClient.RequestToken(f.httpClient, requestCreds, form.Get("ticket"))
	if err != nil {
		return nil, &LoginError{Msg: "redeem sso ticket for oauth1 token: " + err.Error()}
	}

	oauth1Token := &OAuth1Token{
		OAuthToken:       tokenCreds.Token,
		OAuthTokenSecret: tokenCreds.Secret,
		Domain:           f.domain,
	}

	oauth2Token, err := f.exchangeOAuth1ForOAuth2(ctx, oauthClient, tokenCreds)
	if err != nil {
		return nil, err
	}

	return &Tokens{OAuth1: oauth1Token, OAuth2: oauth2Token}, nil
}

// exchangeOAuth1ForOAuth2 is also used by Manager-driven refresh (step 5
// alone, without re-running the SSO form flow).
func (f *LoginFlow) exchangeOAuth1ForOAuth2(ctx context.Context, oauthClient *oauth.Client, tokenCreds *oauth.Credentials) (*OAuth2Token, error) {
	endpoint := "https://connectapi." + f.domain + "/oauth-service/oauth/exchange/user/2.0"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, nil)
	if err != nil {
		return nil, err
	}
	oauthClient.SetAuthorizationHeader(req.Header, tokenCreds, http.MethodPost, req.URL, nil)

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, &LoginError{Msg: "oauth1->oauth2 exchange request failed: " + err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &LoginError{Msg: fmt.Sprintf("oauth1->oauth2 exchange returned status %d", resp.StatusCode)}
	}

	var token OAuth2Token
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
		return nil, fmt.Errorf("decode oauth2 token: %w", err)
	}
	return &token, nil
}

// RefreshOAuth2 re-exchanges an existing OAuth1 token for a fresh OAuth2
// token pair, implementing C5's refresh policy (step 5 of §4.4 alone).
func (f *LoginFlow) RefreshOAuth2(ctx context.Context, oauth1 *OAuth1Token) (*OAuth2Token, error) {
	oauthClient := &oauth.Client{
		Credentials: oauth.Credentials{Token: f.consumerKey, Secret: f.consumerSecr},
	}
	tokenCreds := &oauth.Credentials{Token: oauth1.OAuthToken, Secret: oauth1.OAuthTokenSecret}
	return f.exchangeOAuth1ForOAuth2(ctx, oauthClient, tokenCreds)
}

func readBody(resp *http.Response) (string, error) {
	buf := make([]byte, 0, 4096)
	tmp := make([]byte, 4096)
	for {
		n, err := resp.Body.Read(tmp)
		buf = append(buf, tmp[:n]...)
		if err != nil {
			break
		}
	}
	return string(buf), nil
}

func cookieMap(resp *http.Response) map[string]string {
	m := make(map[string]string)
	for _, c := range resp.Cookies() {
		m[c.Name] = c.Value
	}
	return m
}

// generateMFAChallengeID returns a random correlation id suitable for a
// pending MFA prompt (e.g. a CLI session token); not part of the wire
// protocol. Nothing in the module calls it.
func generateMFAChallengeID() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
