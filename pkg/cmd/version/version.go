package version

import (
	"strings"

	goversion "github.com/hashicorp/go-version"
	rperrors "github.com/runpod-tools/runpod-cli/pkg/errors"
	"github.com/runpod-tools/runpod-cli/pkg/store"
	"github.com/runpod-tools/runpod-cli/pkg/terminal"
	"github.com/spf13/cobra"
	stripmd "github.com/writeas/go-strip-markdown"
)

var Version = ""

const devVersion = "dev"

type VersionStore interface {
	GetLatestReleaseMetadata() (*store.GithubReleaseMetadata, error)
}

func NewCmdVersion(t *terminal.Terminal, versionStore VersionStore) *cobra.Command {
	cmd := &cobra.Command{
		Use:                   "version",
		DisableFlagsInUseLine: true,
		Short:                 "Print the runpod CLI version",
		Args:                  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := RunVersion(t, versionStore)
			if err != nil {
				return rperrors.WrapAndTrace(err)
			}
			return nil
		},
	}
	return cmd
}

func GetVersion() string {
	if Version == "" {
		return devVersion
	}
	return Version
}

// RunVersion never fails because of the release lookup.
func RunVersion(t *terminal.Terminal, versionStore VersionStore) error {
	current := GetVersion()
	t.Vprintf("Current version: %s\n", current)

	release, err := versionStore.GetLatestReleaseMetadata()
	if err != nil {
		t.Warn("failed to retrieve latest version: %s", rperrors.Cause(err).Error())
		return nil
	}

	newer, err := IsNewerRelease(current, release.TagName)
	if err != nil {
		t.Warn("could not compare versions: %s", err.Error())
		return nil
	}
	if !newer {
		t.Vprint(t.Green("\nYou're up to date!"))
		return nil
	}

	t.Vprint(t.Green("\nA new version of runpod has been released!"))
	t.Vprintf("\nVersion: %s\n", release.TagName)
	if release.Name != "" {
		t.Vprintf("Details: %s\n", release.Name)
	}
	if body := strings.TrimSpace(stripmd.Strip(release.Body)); body != "" {
		t.Vprintf("\n%s\n", body)
	}
	return nil
}

// IsNewerRelease reports whether tag is strictly newer than current. A dev
// build is never considered out of date.
func IsNewerRelease(current string, tag string) (bool, error) {
	if current == devVersion {
		return false, nil
	}
	currentVersion, err := goversion.NewVersion(current)
	if err != nil {
		return false, rperrors.WrapAndTrace(err)
	}
	latestVersion, err := goversion.NewVersion(tag)
	if err != nil {
		return false, rperrors.WrapAndTrace(err)
	}
	return latestVersion.GreaterThan(currentVersion), nil
}
