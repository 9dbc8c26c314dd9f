package registryhttp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/autobump/internal/domain/entities"
)

const requestTimeout = 30 * time.Second

// Client is the HTTP client shared by every registry catalog. It never retries on
// its own: it classifies failures and lets the caller spend the retry budget.
type Client struct {
	http *http.Client
}

// NewClient creates a registry client.
func NewClient() *Client {
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = 0
	retryClient.ErrorHandler = retryablehttp.PassthroughErrorHandler
	retryClient.Logger = leveledLogger{}
	retryClient.HTTPClient.Timeout = requestTimeout
	return &Client{http: retryClient.StandardClient()}
}

// GetJSON performs a GET and decodes the JSON body into v.
func (c *Client) GetJSON(ctx context.Context, rawURL string, credentials []entities.Credential, v any) error {
	body, err := c.get(ctx, rawURL, credentials)
	if err != nil {
		return err
	}
	defer body.Close()
	if decodeErr := json.NewDecoder(body).Decode(v); decodeErr != nil {
		return fmt.Errorf("failed to decode response from %q: %w", rawURL, decodeErr)
	}
	return nil
}

// GetText performs a GET and returns the body as a string.
func (c *Client) GetText(ctx context.Context, rawURL string, credentials []entities.Credential) (string, error) {
	body, err := c.get(ctx, rawURL, credentials)
	if err != nil {
		return "", err
	}
	defer body.Close()
	data, err := io.ReadAll(body)
	if err != nil {
		return "", entities.NewTransientError(hostOf(rawURL), err)
	}
	return string(data), nil
}

func (c *Client) get(ctx context.Context, rawURL string, credentials []entities.Credential) (io.ReadCloser, error) {
	host := hostOf(rawURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request for %q: %w", rawURL, err)
	}
	req.Header.Set("User-Agent", "autobump")
	if credential, ok := entities.CredentialFor(credentials, host); ok {
		if credential.Username != "" {
			req.SetBasicAuth(credential.Username, credential.Password)
		} else if credential.Password != "" {
			req.Header.Set("Authorization", "Bearer "+credential.Password)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, err
		}
		return nil, entities.NewTransientError(host, err)
	}

	if statusErr := CheckStatus(host, resp.StatusCode); statusErr != nil {
		resp.Body.Close()
		return nil, statusErr
	}
	return resp.Body, nil
}

// CheckStatus classifies a non-success HTTP status.
func CheckStatus(host string, code int) error {
	switch {
	case code >= http.StatusOK && code < http.StatusMultipleChoices:
		return nil
	case code == http.StatusNotFound || code == http.StatusGone:
		return entities.NewResolvabilityError(host, fmt.Errorf("status %d", code))
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return entities.NewAuthenticationError(host, fmt.Errorf("status %d", code))
	case code >= http.StatusInternalServerError:
		return entities.NewTransientError(host, fmt.Errorf("status %d", code))
	default:
		return fmt.Errorf("unexpected status %d from %q", code, host)
	}
}

func hostOf(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	return parsed.Host
}

// leveledLogger routes retryablehttp logs through logrus.
type leveledLogger struct{}

func (leveledLogger) Error(msg string, keysAndValues ...interface{}) {
	logger.WithFields(fields(keysAndValues)).Error("[registry] " + msg)
}

func (leveledLogger) Info(msg string, keysAndValues ...interface{}) {
	logger.WithFields(fields(keysAndValues)).Debug("[registry] " + msg)
}

func (leveledLogger) Debug(msg string, keysAndValues ...interface{}) {
	logger.WithFields(fields(keysAndValues)).Debug("[registry] " + msg)
}

func (leveledLogger) Warn(msg string, keysAndValues ...interface{}) {
	logger.WithFields(fields(keysAndValues)).Warn("[registry] " + msg)
}

func fields(keysAndValues []interface{}) logger.Fields {
	result := logger.Fields{}
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		result[fmt.Sprint(keysAndValues[i])] = keysAndValues[i+1]
	}
	return result
}
