package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// authorize returns an HTTP client for the Google APIs. Service account credentials are
// used directly, otherwise the OAuth2 token cached by the 'authorise' command is required.
func authorize(ctx context.Context, credentials, scope, dir string) (*http.Client, error) {
	b, err := os.ReadFile(credentials)
	if err != nil {
		return nil, err
	}

	if isServiceAccount(b) {
		jwt, err := google.JWTConfigFromJSON(b, scope)
		if err != nil {
			return nil, err
		}

		return jwt.Client(ctx), nil
	}

	config, err := google.ConfigFromJSON(b, scope)
	if err != nil {
		return nil, err
	}

	tokens := tokensFile(credentials, dir)
	token, err := tokenFromFile(tokens)
	if err != nil {
		return nil, fmt.Errorf("missing or invalid authorisation token %v (%v) - run '%v authorise'", tokens, err, APP)
	}

	return config.Client(ctx, token), nil
}

func isServiceAccount(credentials []byte) bool {
	v := struct {
		Type string `json:"type"`
	}{}

	if err := json.Unmarshal(credentials, &v); err != nil {
		return false
	}

	return v.Type == "service_account"
}

// tokensFile returns the path of the cached token for a credentials file e.g.
// <dir>/credentials.sheets for credentials.json.
func tokensFile(credentials, dir string) string {
	_, file := filepath.Split(credentials)
	name := strings.TrimSuffix(file, filepath.Ext(file))

	return filepath.Join(dir, fmt.Sprintf("%s.sheets", name))
}

func tokenFromFile(file string) (*oauth2.Token, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}

	defer f.Close()

	token := oauth2.Token{}
	if err := json.NewDecoder(f).Decode(&token); err != nil {
		return nil, err
	}

	return &token, nil
}

func saveToken(path string, token *oauth2.Token) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("unable to cache OAuth2 token (%w)", err)
	}

	defer f.Close()

	return json.NewEncoder(f).Encode(token)
}
