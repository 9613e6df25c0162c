// Package ssh configures ssh access to the tracked pod
package ssh

import (
	"github.com/runpod-tools/runpod-cli/pkg/cmd/util"
	rperrors "github.com/runpod-tools/runpod-cli/pkg/errors"
	"github.com/runpod-tools/runpod-cli/pkg/settings"
	runpodssh "github.com/runpod-tools/runpod-cli/pkg/ssh"
	"github.com/runpod-tools/runpod-cli/pkg/terminal"
	"github.com/spf13/cobra"
)

var (
	sshLong = `Point the 'runpod' ssh alias at the tracked pod.

Writes ~/.ssh/runpod.d/current.conf, makes sure ~/.ssh/config includes it and
refreshes the pod's host key in ~/.ssh/known_hosts.`

	sshExample = `
  runpod ssh
  runpod ssh --connect`
)

type SSHStore interface {
	GetSettings() (*settings.Settings, error)
}

func NewCmdSSH(t *terminal.Terminal, sshStore SSHStore, reconciler util.Reconciler, runner runpodssh.Runner) *cobra.Command {
	var connect bool

	cmd := &cobra.Command{
		Use:                   "ssh",
		DisableFlagsInUseLine: true,
		Short:                 "Configure ssh access to the tracked pod",
		Long:                  sshLong,
		Example:               sshExample,
		Args:                  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := RunSSH(t, sshStore, reconciler, runner, connect)
			if err != nil {
				return rperrors.WrapAndTrace(err)
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&connect, "connect", "c", false, "open an ssh session once configured")
	return cmd
}

func RunSSH(t *terminal.Terminal, sshStore SSHStore, reconciler util.Reconciler, runner runpodssh.Runner, connect bool) error {
	s, err := sshStore.GetSettings()
	if err != nil {
		return rperrors.WrapAndTrace(err)
	}
	podID, ok := s.PodID.Get()
	if !ok {
		return &rperrors.NoTrackedPodError{}
	}

	t.Vprintf("Configuring ssh for pod %s...\n", podID)
	result, err := reconciler.Reconcile(podID)
	if err != nil {
		return rperrors.WrapAndTrace(err)
	}
	util.PrintReconcileResult(t, result)

	if !connect {
		return nil
	}
	t.Vprintf("\nConnecting to %s...\n", runpodssh.Alias)
	err = runpodssh.Connect(runner)
	if err != nil {
		return rperrors.WrapAndTrace(err)
	}
	return nil
}
