package featureflag

import (
	"strings"

	"github.com/spf13/viper"
)

const debugKey = "debug"

func Debug() bool {
	return viper.GetBool(debugKey)
}

func SetDebug(debug bool) {
	viper.Set(debugKey, debug)
}

// LoadFeatureFlags reads optional flags from <path>/config.yaml and RUNPOD_*
// environment variables.
func LoadFeatureFlags(path string) error {
	viper.SetConfigName("config")
	viper.AddConfigPath(path)
	viper.SetEnvPrefix("runpod")
	viper.SetConfigType("yaml")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	_ = viper.ReadInConfig() // do not nead to fail if can't find config file

	return nil
}
