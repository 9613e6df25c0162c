package store

import (
	"os"
	"strings"

	rperrors "github.com/runpod-tools/runpod-cli/pkg/errors"
	"github.com/runpod-tools/runpod-cli/pkg/files"
	"github.com/spf13/afero"
)

func (f FileStore) GetUserSSHConfigPath() (string, error) {
	home, err := f.UserHomeDir()
	if err != nil {
		return "", rperrors.WrapAndTrace(err)
	}
	return files.GetUserSSHConfigPath(home), nil
}

func (f FileStore) GetConnectionDir() (string, error) {
	home, err := f.UserHomeDir()
	if err != nil {
		return "", rperrors.WrapAndTrace(err)
	}
	return files.GetConnectionDir(home), nil
}

func (f FileStore) GetConnectionFilePath() (string, error) {
	home, err := f.UserHomeDir()
	if err != nil {
		return "", rperrors.WrapAndTrace(err)
	}
	return files.GetConnectionFilePath(home), nil
}

func (f FileStore) GetConnectionIncludePattern() (string, error) {
	home, err := f.UserHomeDir()
	if err != nil {
		return "", rperrors.WrapAndTrace(err)
	}
	return files.GetConnectionIncludePattern(home), nil
}

func (f FileStore) GetKnownHostsPath() (string, error) {
	home, err := f.UserHomeDir()
	if err != nil {
		return "", rperrors.WrapAndTrace(err)
	}
	return files.GetKnownHostsPath(home), nil
}

// EnsureSSHDirs creates ~/.ssh and the connection directory.
func (f FileStore) EnsureSSHDirs() error {
	home, err := f.UserHomeDir()
	if err != nil {
		return rperrors.WrapAndTrace(err)
	}
	err = f.fs.MkdirAll(files.GetSSHDir(home), 0o700)
	if err != nil {
		return rperrors.WrapAndTrace(err)
	}
	err = f.fs.MkdirAll(files.GetConnectionDir(home), 0o700)
	if err != nil {
		return rperrors.WrapAndTrace(err)
	}
	return nil
}

// GetUserSSHConfig returns "" when ~/.ssh/config does not exist yet.
func (f FileStore) GetUserSSHConfig() (string, error) {
	path, err := f.GetUserSSHConfigPath()
	if err != nil {
		return "", rperrors.WrapAndTrace(err)
	}
	config, err := f.ReadFileIfExists(path)
	if err != nil {
		return "", rperrors.WrapAndTrace(err)
	}
	return config, nil
}

func (f FileStore) WriteUserSSHConfig(config string) error {
	path, err := f.GetUserSSHConfigPath()
	if err != nil {
		return rperrors.WrapAndTrace(err)
	}
	perm := os.FileMode(0o600)
	if info, statErr := f.fs.Stat(path); statErr == nil {
		perm = info.Mode().Perm()
	}
	err = afero.WriteFile(f.fs, path, []byte(config), perm)
	if err != nil {
		return rperrors.WrapAndTrace(err)
	}
	return nil
}

func (f FileStore) GetConnectionFile() (string, error) {
	path, err := f.GetConnectionFilePath()
	if err != nil {
		return "", rperrors.WrapAndTrace(err)
	}
	contents, err := f.ReadFileIfExists(path)
	if err != nil {
		return "", rperrors.WrapAndTrace(err)
	}
	return contents, nil
}

// WriteConnectionFile replaces the connection file and leaves it at 0600.
func (f FileStore) WriteConnectionFile(contents string) error {
	path, err := f.GetConnectionFilePath()
	if err != nil {
		return rperrors.WrapAndTrace(err)
	}
	err = afero.WriteFile(f.fs, path, []byte(contents), 0o600)
	if err != nil {
		return rperrors.WrapAndTrace(err)
	}
	err = f.fs.Chmod(path, 0o600)
	if err != nil {
		return rperrors.WrapAndTrace(err)
	}
	return nil
}

// AppendKnownHosts appends lines to ~/.ssh/known_hosts and leaves it at 0600.
func (f FileStore) AppendKnownHosts(lines []string) error {
	path, err := f.GetKnownHostsPath()
	if err != nil {
		return rperrors.WrapAndTrace(err)
	}
	if len(lines) == 0 {
		return nil
	}
	existing, err := f.ReadFileIfExists(path)
	if err != nil {
		return rperrors.WrapAndTrace(err)
	}
	entry := strings.Join(lines, "\n") + "\n"
	if existing != "" && !strings.HasSuffix(existing, "\n") {
		entry = "\n" + entry
	}
	file, err := f.fs.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return rperrors.WrapAndTrace(err)
	}
	_, err = file.WriteString(entry)
	if err != nil {
		_ = file.Close()
		return rperrors.WrapAndTrace(err)
	}
	err = file.Close()
	if err != nil {
		return rperrors.WrapAndTrace(err)
	}
	err = f.fs.Chmod(path, 0o600)
	if err != nil {
		return rperrors.WrapAndTrace(err)
	}
	return nil
}

func (f FileStore) GetKnownHosts() (string, error) {
	path, err := f.GetKnownHostsPath()
	if err != nil {
		return "", rperrors.WrapAndTrace(err)
	}
	contents, err := f.ReadFileIfExists(path)
	if err != nil {
		return "", rperrors.WrapAndTrace(err)
	}
	return contents, nil
}
