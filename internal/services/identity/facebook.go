package identity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mcoot/spellfight/internal/model"
)

// FacebookConfig holds Graph API settings
type FacebookConfig struct {
	GraphURL     string
	ClientID     string
	ClientSecret string
	RedirectURI  string
	Timeout      time.Duration
}

// DefaultFacebookConfig returns defaults for the Graph API client
func DefaultFacebookConfig() FacebookConfig {
	return FacebookConfig{
		GraphURL: "https://graph.facebook.com/v17.0",
		Timeout:  5 * time.Second,
	}
}

// ErrOAuthNotConfigured is returned by ExchangeCode without client credentials
var ErrOAuthNotConfigured = errors.New("facebook oauth client not configured")

// Facebook resolves Graph API access tokens to player identities
type Facebook struct {
	cfg    FacebookConfig
	client *http.Client
	logger *slog.Logger
}

// NewFacebook creates a new Facebook resolver
func NewFacebook(cfg FacebookConfig, logger *slog.Logger) *Facebook {
	return &Facebook{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		logger: logger.With(slog.String("component", "facebook")),
	}
}

type facebookProfile struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Picture struct {
		Data struct {
			URL string `json:"url"`
		} `json:"data"`
	} `json:"picture"`
}

// Resolve fetches the profile behind an access token
func (f *Facebook) Resolve(ctx context.Context, token string) (model.Player, error) {
	endpoint := f.endpoint("/me", url.Values{"fields": {"id,name,email,picture"}})
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return model.Player{}, err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	var profile facebookProfile
	if err := f.do(req, &profile); err != nil {
		return model.Player{}, err
	}
	if profile.ID == "" {
		return model.Player{}, fmt.Errorf("%w: profile has no id", model.ErrUnauthorized)
	}

	return model.Player{
		ID:          model.PlayerID(profile.ID),
		DisplayName: profile.Name,
		Email:       profile.Email,
		Avatar:      profile.Picture.Data.URL,
		Provider:    model.ProviderFacebook,
	}, nil
}

// ExchangeCode trades an OAuth callback code for an access token
func (f *Facebook) ExchangeCode(ctx context.Context, code string) (string, error) {
	if f.cfg.ClientID == "" || f.cfg.ClientSecret == "" {
		return "", ErrOAuthNotConfigured
	}

	endpoint := f.endpoint("/oauth/access_token", url.Values{
		"client_id":     {f.cfg.ClientID},
		"redirect_uri":  {f.cfg.RedirectURI},
		"client_secret": {f.cfg.ClientSecret},
		"code":          {code},
	})
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", err
	}

	var body struct {
		AccessToken string `json:"access_token"`
	}
	if err := f.do(req, &body); err != nil {
		return "", err
	}
	if body.AccessToken == "" {
		return "", fmt.Errorf("%w: no access token in response", model.ErrUnauthorized)
	}
	return body.AccessToken, nil
}

func (f *Facebook) endpoint(path string, query url.Values) string {
	return strings.TrimRight(f.cfg.GraphURL, "/") + path + "?" + query.Encode()
}

// do sends req and decodes a 200 JSON body into out. Transport and server
// failures map to ErrIdentityUnavailable, client errors to ErrUnauthorized.
func (f *Facebook) do(req *http.Request, out any) error {
	resp, err := f.client.Do(req)
	if err != nil {
		f.logger.Warn("graph request failed", slog.String("path", req.URL.Path), slog.Any("error", err))
		return fmt.Errorf("%w: %w", model.ErrIdentityUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 500:
		return fmt.Errorf("%w: graph status %d", model.ErrIdentityUnavailable, resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		return fmt.Errorf("%w: graph status %d", model.ErrUnauthorized, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode graph response: %w", model.ErrUnauthorized, err)
	}
	return nil
}

var _ Resolver = (*Facebook)(nil)
