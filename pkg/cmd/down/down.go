package down

import (
	"github.com/runpod-tools/runpod-cli/pkg/cmd/util"
	"github.com/runpod-tools/runpod-cli/pkg/entity"
	rperrors "github.com/runpod-tools/runpod-cli/pkg/errors"
	"github.com/runpod-tools/runpod-cli/pkg/settings"
	"github.com/runpod-tools/runpod-cli/pkg/terminal"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

var (
	downLong    = "Terminate a pod. Without an argument the pod tracked by this machine is terminated."
	downExample = `
  runpod down
  runpod down <pod-id>
  runpod down <pod-name>`
)

type DownStore interface {
	util.GetPodStore
	util.GetPodsStore
	TerminatePod(podID string) error
	GetSettings() (*settings.Settings, error)
	SaveSettings(s *settings.Settings) error
}

func NewCmdDown(t *terminal.Terminal, downStore DownStore) *cobra.Command {
	cmd := &cobra.Command{
		Use:                   "down [pod-id-or-name]",
		Aliases:               []string{"stop", "terminate"},
		DisableFlagsInUseLine: true,
		Short:                 "Terminate a pod",
		Long:                  downLong,
		Example:               downExample,
		Args:                  cobra.MaximumNArgs(1),
		ValidArgsFunction:     podCompletionHandler(downStore),
		RunE: func(cmd *cobra.Command, args []string) error {
			target := ""
			if len(args) > 0 {
				target = args[0]
			}
			poller := util.Poller{Interval: util.TerminatePollInterval, MaxWait: util.TerminatePollMaxWait}
			err := RunDown(t, downStore, target, poller)
			if err != nil {
				return rperrors.WrapAndTrace(err)
			}
			return nil
		},
	}
	return cmd
}

func RunDown(t *terminal.Terminal, downStore DownStore, target string, poller util.Poller) error {
	s, err := downStore.GetSettings()
	if err != nil {
		return rperrors.WrapAndTrace(err)
	}
	trackedID := s.PodID.OrElse("")

	var pod *entity.Pod
	if target != "" {
		pod, err = util.ResolvePod(downStore, target)
		if err != nil {
			return rperrors.WrapAndTrace(err)
		}
	} else {
		if trackedID == "" {
			t.Vprint("No active pod found")
			return nil
		}
		pod, err = downStore.GetPod(trackedID)
		if err != nil {
			return rperrors.WrapAndTrace(err)
		}
		if pod == nil {
			t.Vprint(t.Yellow("Pod %s not found (may already be terminated)", trackedID))
			return untrack(t, downStore, s)
		}
	}

	t.Vprintf("Terminating pod %s...\n", pod.ID)
	err = downStore.TerminatePod(pod.ID)
	if err != nil {
		return rperrors.WrapAndTrace(err)
	}

	outcome, err := util.PollPodGone(t, downStore, pod.ID, poller)
	if err != nil {
		return rperrors.WrapAndTrace(err)
	}
	if outcome == util.Reached {
		t.Vprint(t.Green("Pod terminated successfully"))
	} else {
		t.Vprint(t.Yellow("Pod may still be terminating"))
	}

	if pod.ID == trackedID {
		return untrack(t, downStore, s)
	}
	return nil
}

func untrack(t *terminal.Terminal, downStore DownStore, s *settings.Settings) error {
	s.ClearPod()
	err := downStore.SaveSettings(s)
	if err != nil {
		return rperrors.WrapAndTrace(err)
	}
	t.Vprint("Pod ID removed from config")
	return nil
}

func podCompletionHandler(store util.GetPodsStore) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		if len(args) > 0 {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		pods, err := store.GetPods()
		if err != nil {
			return nil, cobra.ShellCompDirectiveError
		}
		names := lo.FlatMap(pods, func(p entity.Pod, _ int) []string {
			return []string{p.ID, p.Name}
		})
		return lo.Uniq(lo.Compact(names)), cobra.ShellCompDirectiveNoFileComp
	}
}
