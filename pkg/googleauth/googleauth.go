package googleauth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

const defaultTokenInfoURL = "https://oauth2.googleapis.com/tokeninfo"

// Profile is the identity extracted from a verified Google ID token.
type Profile struct {
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

// Config holds the verifier settings. TokenInfoURL is overridable for tests.
type Config struct {
	ClientID     string
	TokenInfoURL string
}

// Verifier checks Google ID tokens against the tokeninfo endpoint and
// enforces the audience claim.
type Verifier struct {
	config Config
	client *http.Client
}

// NewVerifier creates a Verifier for the given client id.
func NewVerifier(config Config) *Verifier {
	if config.TokenInfoURL == "" {
		config.TokenInfoURL = defaultTokenInfoURL
	}
	return &Verifier{config: config, client: http.DefaultClient}
}

// tokenInfoResponse is the subset of the tokeninfo payload we use.
type tokenInfoResponse struct {
	Aud     string `json:"aud"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

// VerifyIDToken validates the token and returns the holder's profile. Any
// endpoint rejection or audience mismatch fails verification.
func (v *Verifier) VerifyIDToken(ctx context.Context, idToken string) (*Profile, error) {
	endpoint := v.config.TokenInfoURL + "?" + url.Values{"id_token": {idToken}}.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create tokeninfo request: %w", err)
	}

	resp, err := v.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tokeninfo request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("token rejected: status %d: %s", resp.StatusCode, string(body))
	}

	var info tokenInfoResponse
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("failed to decode tokeninfo response: %w", err)
	}

	if info.Aud != v.config.ClientID {
		return nil, fmt.Errorf("token audience mismatch")
	}

	return &Profile{Email: info.Email, Name: info.Name, Picture: info.Picture}, nil
}
