package store

import (
	"fmt"
	"sync"

	resty "github.com/go-resty/resty/v2"
	rperrors "github.com/runpod-tools/runpod-cli/pkg/errors"
	"go.uber.org/zap"
)

type NoAuthHTTPStore struct {
	FileStore
	noAuthHTTPClient *NoAuthHTTPClient
}

func (f *FileStore) WithNoAuthHTTPClient(c *NoAuthHTTPClient) *NoAuthHTTPStore {
	return &NoAuthHTTPStore{*f, c}
}

type NoAuthHTTPClient struct {
	restyClient *resty.Client
}

func NewNoAuthHTTPClient() *NoAuthHTTPClient {
	restyClient := resty.New()
	restyClient.SetLogger(restyLogger{})
	return &NoAuthHTTPClient{restyClient}
}

// restyLogger resolves the global zap logger on every call so it follows
// zap.ReplaceGlobals done after the client is built.
type restyLogger struct{}

func (restyLogger) Errorf(format string, v ...interface{}) { zap.S().Errorf(format, v...) }
func (restyLogger) Warnf(format string, v ...interface{})  { zap.S().Warnf(format, v...) }
func (restyLogger) Debugf(format string, v ...interface{}) { zap.S().Debugf(format, v...) }

type AuthHTTPStore struct {
	NoAuthHTTPStore
	authHTTPClient *AuthHTTPClient
}

func (f *FileStore) WithAuthHTTPClient(c *AuthHTTPClient) *AuthHTTPStore {
	na := f.WithNoAuthHTTPClient(NewNoAuthHTTPClient())
	return &AuthHTTPStore{*na, c}
}

func (n *NoAuthHTTPStore) WithAuthHTTPClient(c *AuthHTTPClient) *AuthHTTPStore {
	return &AuthHTTPStore{*n, c}
}

type Auth interface {
	GetAccessToken() (string, error)
}

type AuthHTTPClient struct {
	restyClient *resty.Client
	auth        Auth
	apiURL      string

	mu     sync.Mutex
	apiKey string
}

// NewAuthHTTPClient attaches the API key from auth as a bearer token on every
// request.
func NewAuthHTTPClient(auth Auth, runpodAPIURL string) *AuthHTTPClient {
	restyClient := resty.New()
	restyClient.SetLogger(restyLogger{})
	restyClient.SetHeader("User-Agent", "runpod-cli")
	c := &AuthHTTPClient{restyClient: restyClient, auth: auth, apiURL: runpodAPIURL}
	restyClient.OnBeforeRequest(func(_ *resty.Client, r *resty.Request) error {
		token, err := c.getAPIKey()
		if err != nil {
			return rperrors.WrapAndTrace(err)
		}
		r.SetAuthToken(token)
		return nil
	})
	return c
}

func (c *AuthHTTPClient) SetDebug(debug bool) *AuthHTTPClient {
	c.restyClient.SetDebug(debug)
	return c
}

func (c *AuthHTTPClient) getAPIKey() (string, error) {
	c.mu.Lock()
	key := c.apiKey
	c.mu.Unlock()
	if key != "" {
		return key, nil
	}
	if c.auth == nil {
		return "", rperrors.NewValidationError("no API key configured")
	}
	token, err := c.auth.GetAccessToken()
	if err != nil {
		return "", rperrors.WrapAndTrace(err)
	}
	return token, nil
}

// UseAPIKey overrides the key provided by auth, used while setup validates a
// key that has not been saved yet.
func (s AuthHTTPStore) UseAPIKey(apiKey string) {
	s.authHTTPClient.mu.Lock()
	defer s.authHTTPClient.mu.Unlock()
	s.authHTTPClient.apiKey = apiKey
}

type HTTPResponseError struct {
	response *resty.Response
}

func NewHTTPResponseError(response *resty.Response) *HTTPResponseError {
	return &HTTPResponseError{
		response: response,
	}
}

func (e HTTPResponseError) Error() string {
	return fmt.Sprintf("%s %s", e.response.Request.URL, e.response.Status())
}

func (e HTTPResponseError) StatusCode() int {
	return e.response.StatusCode()
}
