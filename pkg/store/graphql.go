package store

import (
	"encoding/json"
	"net/http"

	rperrors "github.com/runpod-tools/runpod-cli/pkg/errors"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

type graphQLRequest struct {
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables,omitempty"`
}

// graphQL posts a query and returns the "data" object of the response. Errors
// reported in the body surface as APIError.
func (s AuthHTTPStore) graphQL(query string, variables map[string]interface{}) (gjson.Result, error) {
	zap.L().Debug("graphql request", zap.String("url", s.authHTTPClient.apiURL), zap.Any("variables", variables))
	res, err := s.authHTTPClient.restyClient.R().
		SetHeader("Content-Type", "application/json").
		SetBody(graphQLRequest{Query: query, Variables: variables}).
		Post(s.authHTTPClient.apiURL)
	if err != nil {
		return gjson.Result{}, rperrors.WrapAndTrace(err, rperrors.NetworkErrorMessage)
	}

	body := res.Body()
	message := gjson.GetBytes(body, "errors.0.message")
	if res.StatusCode() == http.StatusUnauthorized || res.StatusCode() == http.StatusForbidden {
		msg := res.Status()
		if message.Exists() {
			msg = message.String()
		}
		return gjson.Result{}, &rperrors.APIError{Message: msg, StatusCode: res.StatusCode()}
	}
	if res.IsError() {
		if message.Exists() {
			return gjson.Result{}, &rperrors.APIError{Message: message.String(), StatusCode: res.StatusCode()}
		}
		return gjson.Result{}, NewHTTPResponseError(res)
	}
	if message.Exists() {
		return gjson.Result{}, &rperrors.APIError{Message: message.String()}
	}
	return gjson.GetBytes(body, "data"), nil
}

// decodeField unmarshals data.<path> into v and reports whether it was
// present and non-null.
func decodeField(data gjson.Result, path string, v interface{}) (bool, error) {
	field := data.Get(path)
	if !field.Exists() || field.Type == gjson.Null {
		return false, nil
	}
	if err := json.Unmarshal([]byte(field.Raw), v); err != nil {
		return false, rperrors.WrapAndTrace(err)
	}
	return true, nil
}
