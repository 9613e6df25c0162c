package status

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/runpod-tools/runpod-cli/pkg/cmd/util"
	"github.com/runpod-tools/runpod-cli/pkg/entity"
	rperrors "github.com/runpod-tools/runpod-cli/pkg/errors"
	"github.com/runpod-tools/runpod-cli/pkg/settings"
	runpodssh "github.com/runpod-tools/runpod-cli/pkg/ssh"
	"github.com/runpod-tools/runpod-cli/pkg/terminal"
	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	statusLong = `Show the pod tracked by this machine, or every pod on your account with --all`

	statusExample = `
  runpod status
  runpod status --all
  runpod status --all | grep running`
)

type StatusStore interface {
	util.GetPodStore
	util.GetPodsStore
	GetSettings() (*settings.Settings, error)
}

func NewCmdStatus(t *terminal.Terminal, statusStore StatusStore) *cobra.Command {
	var showAll bool

	cmd := &cobra.Command{
		Use:                   "status",
		DisableFlagsInUseLine: true,
		Short:                 "Show pod status",
		Long:                  statusLong,
		Example:               statusExample,
		Args:                  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := RunStatus(t, statusStore, showAll, util.IsStdoutPiped())
			if err != nil {
				return rperrors.WrapAndTrace(err)
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&showAll, "all", "a", false, "show every pod on the account")
	return cmd
}

func RunStatus(t *terminal.Terminal, statusStore StatusStore, showAll bool, piped bool) error {
	s, err := statusStore.GetSettings()
	if err != nil {
		return rperrors.WrapAndTrace(err)
	}

	if showAll {
		pods, err := statusStore.GetPods()
		if err != nil {
			return rperrors.WrapAndTrace(err)
		}
		displayPods(t, pods, s.PodID.OrElse(""), piped)
		return nil
	}

	podID, ok := s.PodID.Get()
	if !ok {
		t.Vprint("No active pod found")
		t.Vprint(t.Yellow("Run 'runpod up' to start one"))
		return nil
	}

	pod, err := statusStore.GetPod(podID)
	if err != nil {
		return rperrors.WrapAndTrace(err)
	}
	if pod == nil {
		return &rperrors.PodNotFoundError{PodID: podID}
	}
	displayPod(t, pod)
	return nil
}

func displayPod(t *terminal.Terminal, pod *entity.Pod) {
	t.Vprintf("Pod ID:  %s\n", pod.ID)
	t.Vprintf("Name:    %s\n", pod.Name)
	t.Vprintf("Image:   %s\n", pod.ImageName)
	t.Vprintf("GPU:     %s\n", valueOrDash(pod.GetGPUDisplayName()))
	t.Vprintf("Status:  %s\n", colorStatus(t, pod))
	t.Vprintf("Cost:    %s\n", formatCost(pod.CostPerHr))

	endpoint, ok := pod.GetSSHEndpoint()
	if !ok {
		if pod.GetState() == entity.Running {
			t.Vprint(t.Yellow("\nSSH: pod does not expose port 22"))
		} else {
			t.Vprint(t.Yellow("\nSSH: available once the pod is running"))
		}
		return
	}
	t.Vprintf("\nSSH:     ssh root@%s -p %d\n", endpoint.Host, endpoint.Port)
	t.Vprintf("Or use:  ssh %s (after 'runpod ssh')\n", runpodssh.Alias)
}

// StatusLabel title-cases the derived lifecycle status.
func StatusLabel(pod *entity.Pod) string {
	return cases.Title(language.English).String(util.GetStatusText(pod))
}

func colorStatus(t *terminal.Terminal, pod *entity.Pod) string {
	label := StatusLabel(pod)
	switch pod.GetState() {
	case entity.Running:
		return t.Green(label)
	case entity.Pending:
		return t.Yellow(label)
	default:
		return t.Red(label)
	}
}

func displayPods(t *terminal.Terminal, pods []entity.Pod, trackedID string, piped bool) {
	if len(pods) == 0 {
		t.Vprint("No pods found")
		return
	}
	if piped {
		displayPodsPlain(t, pods, trackedID)
		return
	}

	ta := table.NewWriter()
	ta.SetOutputMirror(t.VerboseWriter())
	ta.Style().Options = getTableOptions()
	ta.AppendHeader(table.Row{"", "ID", "Name", "GPU", "Status", "$/hr"})
	for i := range pods {
		pod := &pods[i]
		ta.AppendRow(table.Row{
			trackedMarker(pod.ID, trackedID),
			pod.ID,
			pod.Name,
			valueOrDash(pod.GetGPUDisplayName()),
			colorStatus(t, pod),
			formatCost(pod.CostPerHr),
		})
	}
	ta.Render()
	if trackedID != "" {
		t.Vprint(t.Yellow("\n* tracked pod"))
	}
}

// displayPodsPlain writes one tab separated line per pod for scripts.
func displayPodsPlain(t *terminal.Terminal, pods []entity.Pod, trackedID string) {
	for i := range pods {
		pod := &pods[i]
		fields := []string{
			pod.ID,
			pod.Name,
			valueOrDash(pod.GetGPUDisplayName()),
			util.GetStatusText(pod),
			formatCost(pod.CostPerHr),
		}
		if pod.ID == trackedID {
			fields = append(fields, "tracked")
		}
		t.Print(strings.Join(fields, "\t"))
	}
}

func trackedMarker(podID string, trackedID string) string {
	if trackedID != "" && podID == trackedID {
		return "*"
	}
	return ""
}

func getTableOptions() table.Options {
	options := table.OptionsDefault
	options.DrawBorder = false
	options.SeparateColumns = false
	options.SeparateRows = false
	options.SeparateHeader = false
	return options
}

func formatCost(costPerHr float64) string {
	if costPerHr == 0 {
		return "-"
	}
	return fmt.Sprintf("$%.3f/hr", costPerHr)
}

func valueOrDash(v string) string {
	if v == "" {
		return "-"
	}
	return v
}
