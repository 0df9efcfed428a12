// credentials.go
// --------------
// Credential loading and validation. The search API speaks two auth schemes:
// HTTP basic (enterprise accounts) and bearer token (premium accounts).
// Credentials can be written out in a YAML file, set through SEARCHTWEETS_*
// environment variables, or constructed directly. Exactly one scheme must be
// resolvable before any request is sent; populating both without an explicit
// auth_mode is rejected rather than guessed at.
package searchtweets

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"golang.org/x/oauth2/clientcredentials"
	"gopkg.in/yaml.v3"
)

// AuthMode selects how a request is authenticated.
type AuthMode string

const (
	AuthModeBasic  AuthMode = "basic"
	AuthModeBearer AuthMode = "bearer"
)

// Defaults used by LoadCredentials when the corresponding argument is empty.
const (
	DefaultCredentialFile = ".twitter_keys.yaml"
	DefaultCredentialKey  = "search_tweets_api"
)

// tokenURL is where the client-credentials flow mints bearer tokens.
const tokenURL = "https://api.twitter.com/oauth2/token"

// Credentials identifies the target endpoint and one auth scheme. The zero
// value is invalid. A ResultStream never mutates the credentials it is given.
type Credentials struct {
	Endpoint string `yaml:"endpoint" json:"endpoint"`

	// AuthMode may be set explicitly to disambiguate when fields for both
	// schemes are present. Left empty, the mode is inferred from which
	// fields are populated.
	AuthMode AuthMode `yaml:"auth_mode" json:"auth_mode"`

	Username    string `yaml:"username" json:"username"`
	Password    string `yaml:"password" json:"password"`
	BearerToken string `yaml:"bearer_token" json:"bearer_token"`
}

// Mode resolves the auth scheme. With an explicit AuthMode the corresponding
// fields must be populated; otherwise the scheme is inferred, and credentials
// populating both or neither scheme are rejected.
func (c Credentials) Mode() (AuthMode, error) {
	switch c.AuthMode {
	case AuthModeBasic:
		if c.Username == "" || c.Password == "" {
			return "", fmt.Errorf("searchtweets: auth_mode %q requires username and password", c.AuthMode)
		}
		return AuthModeBasic, nil
	case AuthModeBearer:
		if c.BearerToken == "" {
			return "", fmt.Errorf("searchtweets: auth_mode %q requires bearer_token", c.AuthMode)
		}
		return AuthModeBearer, nil
	case "":
		hasBasic := c.Username != "" && c.Password != ""
		hasBearer := c.BearerToken != ""
		switch {
		case hasBasic && hasBearer:
			return "", ErrAmbiguousCredentials
		case hasBearer:
			return AuthModeBearer, nil
		case hasBasic:
			return AuthModeBasic, nil
		default:
			return "", ErrNoCredentials
		}
	default:
		return "", fmt.Errorf("searchtweets: unknown auth_mode %q", c.AuthMode)
	}
}

// Validate checks that the credentials carry an endpoint and resolve to
// exactly one auth scheme.
func (c Credentials) Validate() error {
	if c.Endpoint == "" {
		return ErrMissingEndpoint
	}
	_, err := c.Mode()
	return err
}

// authorize applies the resolved auth scheme to req.
func (c Credentials) authorize(req *http.Request) error {
	mode, err := c.Mode()
	if err != nil {
		return err
	}
	switch mode {
	case AuthModeBearer:
		req.Header.Set("Authorization", "Bearer "+c.BearerToken)
	case AuthModeBasic:
		req.SetBasicAuth(c.Username, c.Password)
	}
	return nil
}

// LoadCredentials reads credentials from a YAML file merged with
// SEARCHTWEETS_* environment variables (SEARCHTWEETS_ENDPOINT,
// SEARCHTWEETS_USERNAME, SEARCHTWEETS_PASSWORD, SEARCHTWEETS_BEARER_TOKEN,
// SEARCHTWEETS_AUTH_MODE). A missing or unreadable file is not an error as
// long as the environment supplies a complete set.
//
// The YAML file holds one credential set per top-level key, so several
// accounts can live in the same file:
//
//	search_tweets_api:
//	  endpoint: <FULL_URL_OF_ENDPOINT>
//	  bearer_token: <TOKEN>
//
// filename defaults to ~/.twitter_keys.yaml and yamlKey to
// "search_tweets_api". With envOverwrite set, environment values win over
// file values; otherwise the file wins.
func LoadCredentials(filename, yamlKey string, envOverwrite bool) (Credentials, error) {
	if filename == "" {
		home, err := os.UserHomeDir()
		if err == nil {
			filename = filepath.Join(home, DefaultCredentialFile)
		}
	}
	if yamlKey == "" {
		yamlKey = DefaultCredentialKey
	}

	fileCreds, _ := loadYAMLCredentials(filename, yamlKey)
	envCreds := loadEnvCredentials()

	var merged Credentials
	if envOverwrite {
		merged = mergeCredentials(fileCreds, envCreds)
	} else {
		merged = mergeCredentials(envCreds, fileCreds)
	}
	if err := merged.Validate(); err != nil {
		return Credentials{}, err
	}
	return merged, nil
}

func loadYAMLCredentials(filename, yamlKey string) (Credentials, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return Credentials{}, err
	}
	var doc map[string]Credentials
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Credentials{}, fmt.Errorf("searchtweets: parsing credential file %s: %w", filename, err)
	}
	creds, ok := doc[yamlKey]
	if !ok {
		return Credentials{}, fmt.Errorf("searchtweets: credential file %s is missing key %q", filename, yamlKey)
	}
	return creds, nil
}

func loadEnvCredentials() Credentials {
	return Credentials{
		Endpoint:    os.Getenv("SEARCHTWEETS_ENDPOINT"),
		AuthMode:    AuthMode(os.Getenv("SEARCHTWEETS_AUTH_MODE")),
		Username:    os.Getenv("SEARCHTWEETS_USERNAME"),
		Password:    os.Getenv("SEARCHTWEETS_PASSWORD"),
		BearerToken: os.Getenv("SEARCHTWEETS_BEARER_TOKEN"),
	}
}

// mergeCredentials overlays non-empty fields of over onto base.
func mergeCredentials(base, over Credentials) Credentials {
	if over.Endpoint != "" {
		base.Endpoint = over.Endpoint
	}
	if over.AuthMode != "" {
		base.AuthMode = over.AuthMode
	}
	if over.Username != "" {
		base.Username = over.Username
	}
	if over.Password != "" {
		base.Password = over.Password
	}
	if over.BearerToken != "" {
		base.BearerToken = over.BearerToken
	}
	return base
}

// GenerateBearerToken mints a premium bearer token from an application's
// consumer key and secret using the OAuth2 client-credentials flow. The
// returned token can be placed in Credentials.BearerToken. Token refresh is
// not handled; bearer tokens for this API do not expire until revoked.
func GenerateBearerToken(ctx context.Context, consumerKey, consumerSecret string) (string, error) {
	cfg := clientcredentials.Config{
		ClientID:     consumerKey,
		ClientSecret: consumerSecret,
		TokenURL:     tokenURL,
	}
	tok, err := cfg.Token(ctx)
	if err != nil {
		return "", fmt.Errorf("searchtweets: generating bearer token: %w", err)
	}
	return tok.AccessToken, nil
}

// String renders the credentials with secrets elided, for diagnostics.
func (c Credentials) String() string {
	redacted := c
	if redacted.Password != "" {
		redacted.Password = "<redacted>"
	}
	if redacted.BearerToken != "" {
		redacted.BearerToken = "<redacted>"
	}
	b, _ := json.Marshal(redacted)
	return string(b)
}
