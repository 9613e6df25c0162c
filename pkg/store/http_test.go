package store

import (
	"net/http"
	"testing"

	"github.com/jarcoal/httpmock"
	rperrors "github.com/runpod-tools/runpod-cli/pkg/errors"
	"github.com/stretchr/testify/assert"
)

const mockAPIURL = "https://api.runpod.io/graphql"

type MockAuth struct{}

func (a MockAuth) GetAccessToken() (string, error) {
	return "token!", nil
}

func MakeMockNoAuthHTTPStore() *NoAuthHTTPStore {
	fs := MakeMockFileStore()
	return fs.WithNoAuthHTTPClient(NewNoAuthHTTPClient())
}

func MakeMockAuthHTTPStore() *AuthHTTPStore {
	nh := MakeMockNoAuthHTTPStore()
	return nh.WithAuthHTTPClient(NewAuthHTTPClient(MockAuth{}, mockAPIURL))
}

func TestWithAuthHTTPClient(t *testing.T) {
	ah := MakeMockAuthHTTPStore()
	if !assert.NotNil(t, ah) {
		return
	}
}

func TestBearerTokenFromAuth(t *testing.T) {
	s := MakeMockAuthHTTPStore()
	httpmock.ActivateNonDefault(s.authHTTPClient.restyClient.GetClient())
	defer httpmock.DeactivateAndReset()

	var gotAuth string
	httpmock.RegisterResponder("POST", mockAPIURL, func(req *http.Request) (*http.Response, error) {
		gotAuth = req.Header.Get("Authorization")
		return httpmock.NewStringResponse(200, `{"data":{"gpuTypes":[]}}`), nil
	})

	_, err := s.GetGPUTypes()
	if !assert.Nil(t, err) {
		return
	}
	assert.Equal(t, "Bearer token!", gotAuth)

	s.UseAPIKey("candidate")
	_, err = s.GetGPUTypes()
	if !assert.Nil(t, err) {
		return
	}
	assert.Equal(t, "Bearer candidate", gotAuth)
}

func TestGraphQLErrorBody(t *testing.T) {
	s := MakeMockAuthHTTPStore()
	httpmock.ActivateNonDefault(s.authHTTPClient.restyClient.GetClient())
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder("POST", mockAPIURL,
		httpmock.NewStringResponder(200, `{"errors":[{"message":"There are no longer any instances available"}],"data":null}`))

	_, err := s.GetGPUTypes()
	var apiErr *rperrors.APIError
	if !assert.True(t, rperrors.As(err, &apiErr)) {
		return
	}
	assert.Equal(t, "There are no longer any instances available", apiErr.Message)
}

func TestGraphQLUnauthorized(t *testing.T) {
	s := MakeMockAuthHTTPStore()
	httpmock.ActivateNonDefault(s.authHTTPClient.restyClient.GetClient())
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder("POST", mockAPIURL, httpmock.NewStringResponder(401, `unauthorized`))

	_, err := s.GetPods()
	var apiErr *rperrors.APIError
	if !assert.True(t, rperrors.As(err, &apiErr)) {
		return
	}
	assert.Equal(t, 401, apiErr.StatusCode)
	assert.Contains(t, rperrors.Directive(err), "RUNPOD_API_KEY")
}

func TestGraphQLServerError(t *testing.T) {
	s := MakeMockAuthHTTPStore()
	httpmock.ActivateNonDefault(s.authHTTPClient.restyClient.GetClient())
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder("POST", mockAPIURL, httpmock.NewStringResponder(502, `bad gateway`))

	_, err := s.GetPods()
	var httpErr *HTTPResponseError
	if !assert.True(t, rperrors.As(err, &httpErr)) {
		return
	}
	assert.Equal(t, 502, httpErr.StatusCode())
}

func TestGetLatestReleaseMetadata(t *testing.T) {
	s := MakeMockNoAuthHTTPStore()
	httpmock.ActivateNonDefault(s.noAuthHTTPClient.restyClient.GetClient())
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder("GET", s.config.GetReleaseURL(),
		httpmock.NewJsonResponderOrPanic(200, map[string]string{
			"tag_name": "v0.3.0",
			"name":     "v0.3.0",
			"body":     "## Changes",
		}))

	release, err := s.GetLatestReleaseMetadata()
	if !assert.Nil(t, err) {
		return
	}
	assert.Equal(t, "v0.3.0", release.TagName)
	assert.Equal(t, "## Changes", release.Body)
}
