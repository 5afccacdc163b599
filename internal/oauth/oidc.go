package oauth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/dimitrije/leaderboard-api/internal/config"
	"github.com/dimitrije/leaderboard-api/internal/models"
	"golang.org/x/oauth2"
)

const providerName = "auth0"

var ErrMissingIDToken = errors.New("token response has no id_token")

// OIDCProvider signs users in against any OpenID Connect issuer. Endpoints
// come from the issuer's discovery document.
type OIDCProvider struct {
	config     *oauth2.Config
	verifier   *oidc.IDTokenVerifier
	logoutURL  string
	httpClient *http.Client
}

type ProviderOption func(*providerOptions)

type providerOptions struct {
	httpClient *http.Client
}

// WithHTTPClient sets the client used for discovery, key fetches and the code
// exchange.
func WithHTTPClient(client *http.Client) ProviderOption {
	return func(o *providerOptions) {
		o.httpClient = client
	}
}

func NewOIDCProvider(ctx context.Context, cfg *config.Config, opts ...ProviderOption) (*OIDCProvider, error) {
	issuer := cfg.IssuerURL()
	if issuer == "" {
		return nil, errors.New("oidc issuer is not configured")
	}
	if cfg.OAuth.ClientID == "" {
		return nil, errors.New("oidc client id is not configured")
	}

	o := &providerOptions{}
	for _, opt := range opts {
		opt(o)
	}
	if o.httpClient != nil {
		ctx = oidc.ClientContext(ctx, o.httpClient)
	}

	provider, err := oidc.NewProvider(ctx, issuer)
	if err != nil {
		return nil, fmt.Errorf("failed to discover oidc endpoints: %w", err)
	}

	endpoint := provider.Endpoint()
	return &OIDCProvider{
		config: &oauth2.Config{
			ClientID:     cfg.OAuth.ClientID,
			ClientSecret: cfg.OAuth.ClientSecret,
			RedirectURL:  cfg.CallbackURL(),
			Scopes:       []string{oidc.ScopeOpenID, "profile", "email"},
			Endpoint: oauth2.Endpoint{
				AuthURL:   endpoint.AuthURL,
				TokenURL:  endpoint.TokenURL,
				AuthStyle: oauth2.AuthStyleInParams,
			},
		},
		verifier:   provider.Verifier(&oidc.Config{ClientID: cfg.OAuth.ClientID}),
		logoutURL:  cfg.LogoutURL(),
		httpClient: o.httpClient,
	}, nil
}

func (p *OIDCProvider) Name() string {
	return providerName
}

func (p *OIDCProvider) GetConsentURL(state string) string {
	return p.config.AuthCodeURL(state)
}

// ExchangeCode trades the authorization code for tokens and returns the
// identity carried by the verified ID token.
func (p *OIDCProvider) ExchangeCode(ctx context.Context, code string) (*models.User, error) {
	if p.httpClient != nil {
		ctx = oidc.ClientContext(ctx, p.httpClient)
	}

	token, err := p.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange code: %w", err)
	}

	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok || rawIDToken == "" {
		return nil, ErrMissingIDToken
	}

	idToken, err := p.verifier.Verify(ctx, rawIDToken)
	if err != nil {
		return nil, fmt.Errorf("failed to verify id token: %w", err)
	}

	var claims map[string]any
	if err := idToken.Claims(&claims); err != nil {
		return nil, fmt.Errorf("failed to decode id token claims: %w", err)
	}

	return &models.User{
		Subject:  idToken.Subject,
		Email:    stringClaim(claims, "email"),
		Name:     stringClaim(claims, "name"),
		Picture:  stringClaim(claims, "picture"),
		Provider: providerName,
		Claims:   claims,
	}, nil
}

// LogoutURL ends the session at the identity provider and sends the browser
// back to returnTo. Without a logout endpoint it is returnTo itself.
func (p *OIDCProvider) LogoutURL(returnTo string) string {
	if p.logoutURL == "" {
		return returnTo
	}
	params := url.Values{}
	params.Set("returnTo", returnTo)
	params.Set("client_id", p.config.ClientID)
	return p.logoutURL + "?" + params.Encode()
}

func stringClaim(claims map[string]any, key string) string {
	s, _ := claims[key].(string)
	return s
}
