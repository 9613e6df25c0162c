package install

import (
	"fmt"

	"github.com/runpod-tools/runpod-cli/pkg/cmd/util"
	"github.com/runpod-tools/runpod-cli/pkg/entity"
	rperrors "github.com/runpod-tools/runpod-cli/pkg/errors"
	"github.com/runpod-tools/runpod-cli/pkg/settings"
	runpodssh "github.com/runpod-tools/runpod-cli/pkg/ssh"
	"github.com/runpod-tools/runpod-cli/pkg/terminal"
	"github.com/samber/mo"
	"github.com/spf13/cobra"
)

var (
	installLong = `Register a setup script that runs on every new pod.

The script is copied to /root on the pod and run with bash. If the tracked pod is
already running the script runs right away.`

	installExample = `
  runpod install ./setup.sh
  runpod install ~/dotfiles/pod-setup.sh --no-run`
)

type InstallStore interface {
	util.GetPodStore
	GetSettings() (*settings.Settings, error)
	SaveSettings(s *settings.Settings) error
	AbsPath(path string) (string, error)
	FileExists(path string) (bool, error)
}

func NewCmdInstall(t *terminal.Terminal, installStore InstallStore, runner runpodssh.Runner) *cobra.Command {
	var noRun bool

	cmd := &cobra.Command{
		Use:                   "install <script>",
		DisableFlagsInUseLine: true,
		Short:                 "Set the setup script for new pods",
		Long:                  installLong,
		Example:               installExample,
		Args:                  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			err := RunInstall(t, installStore, runner, args[0], noRun)
			if err != nil {
				return rperrors.WrapAndTrace(err)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&noRun, "no-run", false, "only save the script path")
	return cmd
}

func RunInstall(t *terminal.Terminal, installStore InstallStore, runner runpodssh.Runner, scriptPath string, noRun bool) error {
	s, err := installStore.GetSettings()
	if err != nil {
		return rperrors.WrapAndTrace(err)
	}

	absPath, err := installStore.AbsPath(scriptPath)
	if err != nil {
		return rperrors.WrapAndTrace(err)
	}
	exists, err := installStore.FileExists(absPath)
	if err != nil {
		return rperrors.WrapAndTrace(err)
	}
	if !exists {
		return rperrors.NewValidationError(fmt.Sprintf("script not found: %s", absPath))
	}

	s.SetupScript = mo.Some(absPath)
	err = installStore.SaveSettings(s)
	if err != nil {
		return rperrors.WrapAndTrace(err)
	}
	t.Vprint(t.Green("Setup script set to %s", absPath))

	if noRun {
		return nil
	}

	podID, ok := s.PodID.Get()
	if !ok {
		t.Vprint("The script will run on the next 'runpod up'")
		return nil
	}
	pod, err := installStore.GetPod(podID)
	if err != nil {
		return rperrors.WrapAndTrace(err)
	}
	if pod.GetState() != entity.Running {
		t.Vprint("Tracked pod is not running. The script will run on the next 'runpod up'")
		return nil
	}

	t.Vprintf("Running %s on pod %s...\n", runpodssh.RemoteScriptPath(absPath), podID)
	err = runpodssh.CopyAndRunScript(runner, absPath)
	if err != nil {
		return rperrors.WrapAndTrace(err)
	}
	t.Vprint(t.Green("Setup script finished"))
	return nil
}
