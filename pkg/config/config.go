package config

import (
	"os"
)

type EnvVarName string // should be caps with underscore

const (
	runpodAPIURL     EnvVarName = "RUNPOD_API_URL"
	runpodConsoleURL EnvVarName = "RUNPOD_CONSOLE_URL"
	configFile       EnvVarName = "RUNPOD_CONFIG_FILE"
	sentryURL        EnvVarName = "RUNPOD_SENTRY_DSN"
	debugHTTP        EnvVarName = "RUNPOD_DEBUG_HTTP"
	releaseURL       EnvVarName = "RUNPOD_RELEASE_URL"
)

type ConstantsConfig struct{}

func NewConstants() *ConstantsConfig {
	return &ConstantsConfig{}
}

func (c ConstantsConfig) GetRunPodAPIURL() string {
	return getEnvOrDefault(runpodAPIURL, "https://api.runpod.io/graphql")
}

// GetAPIKeysURL is where users create API keys during setup.
func (c ConstantsConfig) GetAPIKeysURL() string {
	return getEnvOrDefault(runpodConsoleURL, "https://www.runpod.io/console/user/settings")
}

// GetConfigFilePath returns an override for the settings file, empty when unset.
func (c ConstantsConfig) GetConfigFilePath() string {
	return getEnvOrDefault(configFile, "")
}

func (c ConstantsConfig) GetSentryURL() string {
	return getEnvOrDefault(sentryURL, "")
}

func (c ConstantsConfig) GetDebugHTTP() bool {
	return getEnvOrDefault(debugHTTP, "") != ""
}

func (c ConstantsConfig) GetReleaseURL() string {
	return getEnvOrDefault(releaseURL, "https://api.github.com/repos/runpod-tools/runpod-cli/releases/latest")
}

func getEnvOrDefault(envVarName EnvVarName, defaultVal string) string {
	val := os.Getenv(string(envVarName))
	if val == "" {
		return defaultVal
	}
	return val
}

var GlobalConfig = NewConstants()
