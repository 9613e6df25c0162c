package up

import (
	"github.com/runpod-tools/runpod-cli/pkg/cmd/util"
	"github.com/runpod-tools/runpod-cli/pkg/entity"
	rperrors "github.com/runpod-tools/runpod-cli/pkg/errors"
	"github.com/runpod-tools/runpod-cli/pkg/settings"
	runpodssh "github.com/runpod-tools/runpod-cli/pkg/ssh"
	"github.com/runpod-tools/runpod-cli/pkg/terminal"
	"github.com/spf13/cobra"
)

var (
	upLong = `Start a GPU pod with the configured image and track it on this machine.

Once the pod is running the 'runpod' ssh alias is pointed at it (unless
RUNPOD_AUTO_SSH is false or --no-ssh is given) and the setup script, if any, is run.`

	upExample = `
  runpod up
  runpod up --gpu "NVIDIA A100 80GB PCIe"
  runpod up --no-ssh`
)

type UpStore interface {
	util.GetPodStore
	CreatePod(req entity.CreatePodRequest) (*entity.Pod, error)
	GetSettings() (*settings.Settings, error)
	SaveSettings(s *settings.Settings) error
}

type UpOptions struct {
	GPUType string
	NoSSH   bool
}

type Up struct {
	store      UpStore
	reconciler util.Reconciler
	runner     runpodssh.Runner
	poller     util.Poller
}

func NewUp(store UpStore, reconciler util.Reconciler, runner runpodssh.Runner, poller util.Poller) *Up {
	return &Up{store: store, reconciler: reconciler, runner: runner, poller: poller}
}

func NewCmdUp(t *terminal.Terminal, upStore UpStore, reconciler util.Reconciler, runner runpodssh.Runner) *cobra.Command {
	var opts UpOptions

	cmd := &cobra.Command{
		Use:                   "up",
		DisableFlagsInUseLine: true,
		Short:                 "Start a GPU pod",
		Long:                  upLong,
		Example:               upExample,
		Args:                  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			poller := util.Poller{Interval: util.StartPollInterval, MaxWait: util.StartPollMaxWait}
			err := NewUp(upStore, reconciler, runner, poller).Run(t, opts)
			if err != nil {
				return rperrors.WrapAndTrace(err)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&opts.GPUType, "gpu", "g", "", "GPU type id, overrides RUNPOD_GPU_TYPE")
	cmd.Flags().BoolVar(&opts.NoSSH, "no-ssh", false, "skip ssh configuration")
	return cmd
}

func (u Up) Run(t *terminal.Terminal, opts UpOptions) error {
	s, err := u.store.GetSettings()
	if err != nil {
		return rperrors.WrapAndTrace(err)
	}

	if podID, ok := s.PodID.Get(); ok {
		existing, err := u.store.GetPod(podID)
		if err != nil {
			return rperrors.WrapAndTrace(err)
		}
		if existing != nil {
			t.Vprint(t.Yellow("Pod %s already exists (%s)", podID, util.GetStatusText(existing)))
			t.Vprint("Run 'runpod status' to check it or 'runpod down' to terminate it")
			return nil
		}
	}

	gpuType := s.GPUType
	if opts.GPUType != "" {
		gpuType = opts.GPUType
	}
	volumeID := s.VolumeID.OrElse("")

	t.Vprint(t.Bold("Starting RunPod instance..."))
	t.Vprintf("  GPU:    %s\n", gpuType)
	t.Vprintf("  Image:  %s\n", s.DockerImage)
	if volumeID != "" {
		t.Vprintf("  Volume: %s\n", volumeID)
	}

	sp := t.NewSpinner("Creating pod")
	sp.Start()
	pod, err := u.store.CreatePod(entity.NewCreatePodRequest(s.DockerImage, gpuType, volumeID))
	sp.Stop()
	if err != nil {
		return rperrors.WrapAndTrace(err)
	}
	t.Vprint(t.Green("Pod created successfully"))
	t.Vprintf("Pod ID: %s\n", pod.ID)

	s.TrackPod(pod.ID)
	err = u.store.SaveSettings(s)
	if err != nil {
		return rperrors.WrapAndTrace(err)
	}

	outcome, err := util.PollPodRunning(t, u.store, pod.ID, u.poller)
	if err != nil {
		return rperrors.WrapAndTrace(err)
	}
	if outcome == util.TimedOut {
		t.Vprint(t.Yellow("Pod may still be starting"))
		t.Vprint("Run 'runpod status' to check on it")
		return nil
	}
	t.Vprint(t.Green("Pod is running"))

	if opts.NoSSH {
		t.Vprint("SSH setup skipped (--no-ssh flag)")
		t.Vprint("Run 'runpod ssh' to configure SSH access")
		return nil
	}
	if !s.AutoSSH {
		t.Vprint("Run 'runpod ssh' to configure SSH access")
		return nil
	}

	if !u.configureSSH(t, pod.ID) {
		return nil
	}

	if script, ok := s.SetupScript.Get(); ok {
		t.Vprintf("Running setup script %s...\n", script)
		err = runpodssh.CopyAndRunScript(u.runner, script)
		if err != nil {
			t.Warn("setup script failed: %s", rperrors.Cause(err).Error())
			t.Vprint("Run 'runpod install " + script + "' to retry")
		}
	}
	return nil
}

// configureSSH reconciles ssh for the new pod. Failure is reported, not returned.
func (u Up) configureSSH(t *terminal.Terminal, podID string) bool {
	result, err := u.reconciler.Reconcile(podID)
	if err != nil {
		t.Warn("SSH setup failed: %s", rperrors.Cause(err).Error())
		t.Vprint("Run 'runpod ssh' to try again")
		return false
	}
	util.PrintReconcileResult(t, result)
	return true
}
