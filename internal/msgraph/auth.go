package msgraph

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"golang.org/x/oauth2"
)

var requiredScopes = []string{
	"https://graph.microsoft.com/Calendars.Read",
	"offline_access",
}

func msEndpoint(tenantID, path string) string {
	return "https://login.microsoftonline.com/" + tenantID + "/oauth2/v2.0/" + path
}

// oauth2Config returns the oauth2.Config for Microsoft Graph using the
// provided tenant and client IDs.
func oauth2Config(tenantID, clientID string) *oauth2.Config {
	return &oauth2.Config{
		ClientID: clientID,
		Scopes:   requiredScopes,
		Endpoint: oauth2.Endpoint{
			DeviceAuthURL: msEndpoint(tenantID, "devicecode"),
			TokenURL:      msEndpoint(tenantID, "token"),
			AuthStyle:     oauth2.AuthStyleInParams,
		},
	}
}

// TokenStore keeps the Graph token in a JSON file.
type TokenStore struct {
	Path string
}

// NewTokenStore returns the store at <base>/auth/msgraph_tokens.json.
func NewTokenStore(base string) TokenStore {
	return TokenStore{Path: filepath.Join(base, "auth", "msgraph_tokens.json")}
}

// Load returns the saved token, or nil if there is none.
func (s TokenStore) Load() (*oauth2.Token, error) {
	data, err := os.ReadFile(s.Path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading token file: %w", err)
	}
	var tok oauth2.Token
	if err := json.Unmarshal(data, &tok); err != nil {
		return nil, fmt.Errorf("corrupt token file (delete %s to re-authenticate): %w", s.Path, err)
	}
	return &tok, nil
}

// Save writes tok atomically.
func (s TokenStore) Save(tok *oauth2.Token) error {
	if err := os.MkdirAll(filepath.Dir(s.Path), 0o700); err != nil {
		return fmt.Errorf("creating auth directory: %w", err)
	}
	data, err := json.MarshalIndent(tok, "", "  ")
	if err != nil {
		return fmt.Errorf("marshalling token: %w", err)
	}
	tmpPath := s.Path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o600); err != nil {
		return fmt.Errorf("writing token file: %w", err)
	}
	if err := os.Rename(tmpPath, s.Path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("saving token file: %w", err)
	}
	return nil
}

// Authenticate returns a token for Microsoft Graph. It uses the saved token
// when still valid, refreshes it when possible, and otherwise runs the device
// code flow, printing the sign-in instructions to w.
func Authenticate(ctx context.Context, store TokenStore, tenantID, clientID string, w io.Writer) (*oauth2.Token, *oauth2.Config, error) {
	cfg := oauth2Config(tenantID, clientID)

	tok, err := store.Load()
	if err != nil {
		// Corrupt token: warn and re-auth.
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		tok = nil
	}

	if tok != nil && tok.Valid() {
		return tok, cfg, nil
	}

	if tok != nil && tok.RefreshToken != "" {
		refreshed, err := cfg.TokenSource(ctx, tok).Token()
		if err == nil {
			if err2 := store.Save(refreshed); err2 != nil {
				fmt.Fprintf(os.Stderr, "Warning: could not save refreshed token: %v\n", err2)
			}
			return refreshed, cfg, nil
		}
		fmt.Fprintf(os.Stderr, "Token refresh failed (%v), re-authenticating...\n", err)
	}

	resp, err := cfg.DeviceAuth(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("device auth request failed: %w", err)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "To sign in, use a web browser to open the page:")
	fmt.Fprintf(w, "  %s\n", resp.VerificationURI)
	fmt.Fprintf(w, "Enter the code: %s\n", resp.UserCode)
	fmt.Fprintln(w)

	newTok, err := cfg.DeviceAccessToken(ctx, resp)
	if err != nil {
		return nil, nil, fmt.Errorf("device authentication failed: %w", err)
	}

	if err := store.Save(newTok); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not save token: %v\n", err)
	}

	return newTok, cfg, nil
}
