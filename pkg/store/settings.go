package store

import (
	"bytes"

	rperrors "github.com/runpod-tools/runpod-cli/pkg/errors"
	"github.com/runpod-tools/runpod-cli/pkg/files"
	"github.com/runpod-tools/runpod-cli/pkg/settings"
	"github.com/spf13/afero"
)

func (f FileStore) GetSettingsFilePath() (string, error) {
	if override := f.config.GetConfigFilePath(); override != "" {
		return override, nil
	}
	home, err := f.UserHomeDir()
	if err != nil {
		return "", rperrors.WrapAndTrace(err)
	}
	return files.GetSettingsFilePath(home), nil
}

// GetSettings fails with ConfigNotFoundError when no settings file exists.
func (f FileStore) GetSettings() (*settings.Settings, error) {
	path, err := f.GetSettingsFilePath()
	if err != nil {
		return nil, rperrors.WrapAndTrace(err)
	}
	exists, err := f.FileExists(path)
	if err != nil {
		return nil, rperrors.WrapAndTrace(err)
	}
	if !exists {
		return nil, &rperrors.ConfigNotFoundError{Path: path}
	}
	data, err := afero.ReadFile(f.fs, path)
	if err != nil {
		return nil, rperrors.WrapAndTrace(err)
	}
	s, err := settings.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, rperrors.WrapAndTrace(err)
	}
	return s, nil
}

// GetSettingsOrDefault is used by setup, which runs before any file exists.
func (f FileStore) GetSettingsOrDefault() (*settings.Settings, error) {
	s, err := f.GetSettings()
	if err != nil {
		var notFound *rperrors.ConfigNotFoundError
		if rperrors.As(err, &notFound) {
			return settings.New(), nil
		}
		return nil, rperrors.WrapAndTrace(err)
	}
	return s, nil
}

func (f FileStore) SaveSettings(s *settings.Settings) error {
	path, err := f.GetSettingsFilePath()
	if err != nil {
		return rperrors.WrapAndTrace(err)
	}
	err = files.WriteFileAtomic(f.fs, path, s.Encode(), 0o600)
	if err != nil {
		return rperrors.WrapAndTrace(err)
	}
	return nil
}

// GetAccessToken reads the API key from the settings file.
func (f FileStore) GetAccessToken() (string, error) {
	s, err := f.GetSettings()
	if err != nil {
		return "", rperrors.WrapAndTrace(err)
	}
	if s.APIKey == "" {
		return "", rperrors.NewValidationError("RUNPOD_API_KEY is empty, run `runpod setup`")
	}
	return s.APIKey, nil
}
