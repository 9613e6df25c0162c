package files

import (
	"os"
	"path/filepath"

	rperrors "github.com/runpod-tools/runpod-cli/pkg/errors"
	"github.com/spf13/afero"
)

const (
	settingsFileName       = ".runpod-config"
	featureFlagDirName     = ".runpod"
	sshDirName             = ".ssh"
	sshConfigFileName      = "config"
	knownHostsFileName     = "known_hosts"
	connectionDirName      = "runpod.d"
	connectionFileName     = "current.conf"
	connectionFileIncludes = "*.conf"
)

var AppFs = afero.NewOsFs()

func GetSettingsFilePath(home string) string {
	return filepath.Join(home, settingsFileName)
}

func GetFeatureFlagDir(home string) string {
	return filepath.Join(home, featureFlagDirName)
}

func GetSSHDir(home string) string {
	return filepath.Join(home, sshDirName)
}

func GetUserSSHConfigPath(home string) string {
	return filepath.Join(GetSSHDir(home), sshConfigFileName)
}

func GetKnownHostsPath(home string) string {
	return filepath.Join(GetSSHDir(home), knownHostsFileName)
}

// GetConnectionDir holds per-pod connection files pulled in by the user's
// ssh config Include directive.
func GetConnectionDir(home string) string {
	return filepath.Join(GetSSHDir(home), connectionDirName)
}

func GetConnectionFilePath(home string) string {
	return filepath.Join(GetConnectionDir(home), connectionFileName)
}

// GetConnectionIncludePattern is the glob the Include directive points at.
func GetConnectionIncludePattern(home string) string {
	return filepath.Join(GetConnectionDir(home), connectionFileIncludes)
}

func GetHomeDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", rperrors.WrapAndTrace(err)
	}
	return home, nil
}

// WriteFileAtomic writes data to a sibling temp file then renames it over path.
func WriteFileAtomic(fs afero.Fs, path string, data []byte, perm os.FileMode) error {
	if err := fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return rperrors.WrapAndTrace(err)
	}
	tmp := path + ".tmp"
	if err := afero.WriteFile(fs, tmp, data, perm); err != nil {
		return rperrors.WrapAndTrace(err)
	}
	if err := fs.Chmod(tmp, perm); err != nil {
		_ = fs.Remove(tmp)
		return rperrors.WrapAndTrace(err)
	}
	if err := fs.Rename(tmp, path); err != nil {
		_ = fs.Remove(tmp)
		return rperrors.WrapAndTrace(err)
	}
	return nil
}
