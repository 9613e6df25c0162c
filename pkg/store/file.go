package store

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	rperrors "github.com/runpod-tools/runpod-cli/pkg/errors"
	"github.com/spf13/afero"
)

type FileStore struct {
	BasicStore
	fs   afero.Fs
	home string
}

func (b *BasicStore) WithFileSystem(fs afero.Fs) *FileStore {
	return &FileStore{BasicStore: *b, fs: fs}
}

// WithHomeDir pins the home directory instead of resolving it from the OS.
func (f *FileStore) WithHomeDir(home string) *FileStore {
	f.home = home
	return f
}

func (f FileStore) FileExists(filepath string) (bool, error) {
	fileExists, err := afero.Exists(f.fs, filepath)
	if err != nil {
		return false, rperrors.WrapAndTrace(err)
	}
	return fileExists, nil
}

// ReadFileIfExists returns "" without error when path does not exist.
func (f FileStore) ReadFileIfExists(path string) (string, error) {
	exists, err := f.FileExists(path)
	if err != nil {
		return "", rperrors.WrapAndTrace(err)
	}
	if !exists {
		return "", nil
	}
	file, err := f.fs.Open(path)
	if err != nil {
		return "", rperrors.WrapAndTrace(err)
	}
	defer file.Close() //nolint:errcheck // read only

	buf := new(strings.Builder)
	_, err = io.Copy(buf, file)
	if err != nil {
		return "", rperrors.WrapAndTrace(err)
	}
	return buf.String(), nil
}

func (f FileStore) UserHomeDir() (string, error) {
	if f.home != "" {
		return f.home, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", rperrors.WrapAndTrace(err)
	}
	return home, nil
}

// AbsPath resolves a user supplied path, expanding a leading ~.
func (f FileStore) AbsPath(path string) (string, error) {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := f.UserHomeDir()
		if err != nil {
			return "", rperrors.WrapAndTrace(err)
		}
		path = filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", rperrors.WrapAndTrace(err)
	}
	return abs, nil
}
