package version

import (
	"testing"

	"github.com/runpod-tools/runpod-cli/pkg/store"
	"github.com/runpod-tools/runpod-cli/pkg/terminal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockVersionStore struct {
	mock.Mock
}

func (m *MockVersionStore) GetLatestReleaseMetadata() (*store.GithubReleaseMetadata, error) {
	args := m.Called()
	release, _ := args.Get(0).(*store.GithubReleaseMetadata)
	return release, args.Error(1)
}

func withVersion(t *testing.T, v string) {
	old := Version
	Version = v
	t.Cleanup(func() { Version = old })
}

func TestIsNewerRelease(t *testing.T) {
	tests := []struct {
		current string
		tag     string
		want    bool
		wantErr bool
	}{
		{"v1.2.0", "v1.3.0", true, false},
		{"1.2.0", "v1.2.0", false, false},
		{"v1.10.0", "v1.9.0", false, false},
		{"dev", "v9.9.9", false, false},
		{"v1.2.0", "latest", false, true},
	}
	for _, tt := range tests {
		t.Run(tt.current+"->"+tt.tag, func(t *testing.T) {
			got, err := IsNewerRelease(tt.current, tt.tag)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRunVersionOutOfDate(t *testing.T) {
	withVersion(t, "v0.1.0")
	term, _, verbose, _ := terminal.NewTestTerminal()
	s := new(MockVersionStore)
	s.On("GetLatestReleaseMetadata").Return(&store.GithubReleaseMetadata{
		TagName: "v0.2.0",
		Name:    "Faster ssh",
		Body:    "## Changes\n\n* **ssh** refreshes host keys",
	}, nil)

	assert.NoError(t, RunVersion(term, s))
	assert.Contains(t, verbose.String(), "Current version: v0.1.0")
	assert.Contains(t, verbose.String(), "A new version of runpod has been released!")
	assert.Contains(t, verbose.String(), "Version: v0.2.0")
	assert.Contains(t, verbose.String(), "ssh refreshes host keys")
	assert.NotContains(t, verbose.String(), "**")
}

func TestRunVersionUpToDate(t *testing.T) {
	withVersion(t, "v0.2.0")
	term, _, verbose, _ := terminal.NewTestTerminal()
	s := new(MockVersionStore)
	s.On("GetLatestReleaseMetadata").Return(&store.GithubReleaseMetadata{TagName: "v0.2.0"}, nil)

	assert.NoError(t, RunVersion(term, s))
	assert.Contains(t, verbose.String(), "You're up to date!")
}

func TestRunVersionLookupFailureIsNotFatal(t *testing.T) {
	withVersion(t, "")
	term, _, verbose, errOut := terminal.NewTestTerminal()
	s := new(MockVersionStore)
	s.On("GetLatestReleaseMetadata").Return(nil, assert.AnError)

	assert.NoError(t, RunVersion(term, s))
	assert.Contains(t, verbose.String(), "Current version: dev")
	assert.Contains(t, errOut.String(), "Warning: failed to retrieve latest version")
}
