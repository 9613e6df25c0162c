package store

import (
	rperrors "github.com/runpod-tools/runpod-cli/pkg/errors"
)

type GithubReleaseMetadata struct {
	TagName      string `json:"tag_name"`
	IsDraft      bool   `json:"draft"`
	IsPrerelease bool   `json:"prerelease"`
	Name         string `json:"name"`
	Body         string `json:"body"`
}

func (n NoAuthHTTPStore) GetLatestReleaseMetadata() (*GithubReleaseMetadata, error) {
	var result GithubReleaseMetadata

	res, err := n.noAuthHTTPClient.restyClient.R().
		SetHeader("Accept", "application/vnd.github+json").
		SetResult(&result).
		Get(n.config.GetReleaseURL())
	if err != nil {
		return nil, rperrors.WrapAndTrace(err)
	}
	if res.IsError() {
		return nil, NewHTTPResponseError(res)
	}

	return &result, nil
}
