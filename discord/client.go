// Package discord is the client side of the Discord OAuth2
// authorization-code flow plus the one API call the site needs: reading
// the caller's roles in the configured guild.
package discord

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/oauth2"

	config "github.com/jutlandia/jutlandia-site-go/config"
)

// ErrUpstream marks any failure talking to Discord: transport errors,
// non-2xx responses, and responses missing the expected fields.
var ErrUpstream = errors.New("discord upstream failure")

const (
	authorizeURL   = "https://discord.com/oauth2/authorize"
	tokenURL       = "https://discord.com/api/oauth2/token"
	defaultAPIBase = "https://discord.com/api"

	// Discord access tokens last seven days; used when the token
	// response carries no expires_in.
	defaultTokenTTL = 7 * 24 * time.Hour
)

type Client struct {
	oauth   oauth2.Config
	guildID string
	apiBase string
	http    *http.Client
}

func New(cfg *config.Config) *Client {
	return &Client{
		oauth: oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURI,
			Scopes:       []string{"guilds.members.read"},
			Endpoint: oauth2.Endpoint{
				AuthURL:   authorizeURL,
				TokenURL:  tokenURL,
				AuthStyle: oauth2.AuthStyleInParams,
			},
		},
		guildID: cfg.GuildID,
		apiBase: defaultAPIBase,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

// AuthCodeURL is the provider page the browser is sent to when no token is
// cached. Pure function of configuration.
func (c *Client) AuthCodeURL() string {
	return c.oauth.AuthCodeURL("")
}

// Exchange trades an authorization code for an access token via the
// form-encoded token endpoint. The returned expiry is always set.
func (c *Client) Exchange(ctx context.Context, code string) (token string, expiry time.Time, err error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.http)
	tok, err := c.oauth.Exchange(ctx, code)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("%w: token exchange: %v", ErrUpstream, err)
	}

	expiry = tok.Expiry
	if expiry.IsZero() {
		expiry = time.Now().Add(defaultTokenTTL)
	}
	return tok.AccessToken, expiry, nil
}

// GuildRoles returns the caller's role ids within the configured guild.
func (c *Client) GuildRoles(ctx context.Context, token string) ([]string, error) {
	url := fmt.Sprintf("%s/users/@me/guilds/%s/member", c.apiBase, c.guildID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: guild member fetch: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: guild member fetch: %s", ErrUpstream, resp.Status)
	}

	var member struct {
		Roles []string `json:"roles"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&member); err != nil {
		return nil, fmt.Errorf("%w: decode guild member: %v", ErrUpstream, err)
	}
	if member.Roles == nil {
		return nil, fmt.Errorf("%w: guild member response missing roles", ErrUpstream)
	}
	return member.Roles, nil
}
