// Package cmd is the entrypoint to cli
package cmd

import (
	"github.com/pkg/browser"
	"github.com/runpod-tools/runpod-cli/pkg/cmd/down"
	"github.com/runpod-tools/runpod-cli/pkg/cmd/gpus"
	"github.com/runpod-tools/runpod-cli/pkg/cmd/install"
	"github.com/runpod-tools/runpod-cli/pkg/cmd/setup"
	"github.com/runpod-tools/runpod-cli/pkg/cmd/ssh"
	"github.com/runpod-tools/runpod-cli/pkg/cmd/status"
	"github.com/runpod-tools/runpod-cli/pkg/cmd/up"
	"github.com/runpod-tools/runpod-cli/pkg/cmd/version"
	"github.com/runpod-tools/runpod-cli/pkg/config"
	rperrors "github.com/runpod-tools/runpod-cli/pkg/errors"
	"github.com/runpod-tools/runpod-cli/pkg/featureflag"
	"github.com/runpod-tools/runpod-cli/pkg/files"
	runpodssh "github.com/runpod-tools/runpod-cli/pkg/ssh"
	"github.com/runpod-tools/runpod-cli/pkg/store"
	"github.com/runpod-tools/runpod-cli/pkg/terminal"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const hostKeyScanTimeoutSeconds = 10

func NewRunPodCommand(t *terminal.Terminal) *cobra.Command {
	conf := config.GlobalConfig

	fsStore := store.
		NewBasicStore(conf).
		WithFileSystem(files.AppFs)
	noAuthStore := fsStore.WithNoAuthHTTPClient(store.NewNoAuthHTTPClient())
	authStore := noAuthStore.WithAuthHTTPClient(
		store.NewAuthHTTPClient(fsStore, conf.GetRunPodAPIURL()).SetDebug(conf.GetDebugHTTP()),
	)

	reconciler := runpodssh.NewReconciler(authStore, runpodssh.OpenSSHHostKeyManager{TimeoutSeconds: hostKeyScanTimeoutSeconds}, nil)
	runner := runpodssh.NewExecRunner()

	cmds := &cobra.Command{
		Use:   "runpod",
		Short: "Manage RunPod GPU pods from the command line",
		Long: `runpod starts, inspects and terminates RunPod GPU pods and keeps the
'runpod' ssh alias pointed at the current one.

Run 'runpod setup' to get started.`,
		Version:       version.GetVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			err := initLogging()
			if err != nil {
				return rperrors.WrapAndTrace(err)
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = zap.L().Sync()
		},
	}

	cmds.PersistentFlags().Bool("debug", false, "print debug logs and full error traces")
	_ = viper.BindPFlag("debug", cmds.PersistentFlags().Lookup("debug"))

	cmds.AddCommand(setup.NewCmdSetup(t, setup.NewSetup(authStore, terminal.PromptUI{}, browser.OpenURL, conf.GetAPIKeysURL())))
	cmds.AddCommand(up.NewCmdUp(t, authStore, reconciler, runner))
	cmds.AddCommand(status.NewCmdStatus(t, authStore))
	cmds.AddCommand(down.NewCmdDown(t, authStore))
	cmds.AddCommand(ssh.NewCmdSSH(t, authStore, reconciler, runner))
	cmds.AddCommand(install.NewCmdInstall(t, authStore, runner))
	cmds.AddCommand(gpus.NewCmdGPUs(t, authStore))
	cmds.AddCommand(version.NewCmdVersion(t, noAuthStore))

	return cmds
}

func initLogging() error {
	home, err := files.GetHomeDir()
	if err == nil {
		_ = featureflag.LoadFeatureFlags(files.GetFeatureFlagDir(home))
	}

	logger := zap.NewNop()
	if featureflag.Debug() {
		logger, err = zap.NewDevelopment()
		if err != nil {
			return rperrors.WrapAndTrace(err)
		}
	}
	zap.ReplaceGlobals(logger)
	return nil
}
