package util

import (
	"fmt"

	"github.com/runpod-tools/runpod-cli/pkg/entity"
	rperrors "github.com/runpod-tools/runpod-cli/pkg/errors"
	"github.com/runpod-tools/runpod-cli/pkg/terminal"
	"github.com/samber/lo"
)

type GetPodsStore interface {
	GetPods() ([]entity.Pod, error)
}

type GetPodStore interface {
	GetPod(podID string) (*entity.Pod, error)
}

// ResolvePod finds a pod by exact id, falling back to exact name. Several
// pods sharing the name is an AmbiguousPodError.
func ResolvePod(store GetPodsStore, idOrName string) (*entity.Pod, error) {
	pods, err := store.GetPods()
	if err != nil {
		return nil, rperrors.WrapAndTrace(err)
	}

	if pod, ok := lo.Find(pods, func(p entity.Pod) bool { return p.ID == idOrName }); ok {
		return &pod, nil
	}

	byName := lo.Filter(pods, func(p entity.Pod, _ int) bool { return p.Name == idOrName })
	switch len(byName) {
	case 0:
		return nil, &rperrors.PodNotFoundError{PodID: idOrName}
	case 1:
		return &byName[0], nil
	default:
		return nil, &rperrors.AmbiguousPodError{
			NameOrID: idOrName,
			Candidates: lo.Map(byName, func(p entity.Pod, _ int) string {
				return fmt.Sprintf("%s (%s, %s)", p.ID, p.Name, GetStatusText(&p))
			}),
		}
	}
}

// GetStatusText is the short lifecycle label shown to users.
func GetStatusText(pod *entity.Pod) string {
	switch pod.GetState() {
	case entity.Running:
		return "running"
	case entity.Pending:
		return "not running"
	default:
		return "not found"
	}
}

// PollPodRunning waits for the pod to have a runtime, showing a countdown.
func PollPodRunning(t *terminal.Terminal, store GetPodStore, podID string, poller Poller) (PollOutcome, error) {
	countdown := t.NewCountdown("Starting pod", poller.MaxWait)
	poller.OnTick = countdown.Update
	outcome, err := poller.PollUntil(func() (bool, error) {
		pod, err := store.GetPod(podID)
		if err != nil {
			return false, rperrors.WrapAndTrace(err)
		}
		return pod.GetState() == entity.Running, nil
	})
	countdown.Finish()
	t.Vprint("")
	if err != nil {
		return outcome, rperrors.WrapAndTrace(err)
	}
	return outcome, nil
}

// PollPodGone waits for the API to stop returning the pod.
func PollPodGone(t *terminal.Terminal, store GetPodStore, podID string, poller Poller) (PollOutcome, error) {
	countdown := t.NewCountdown("Verifying", poller.MaxWait)
	poller.OnTick = countdown.Update
	outcome, err := poller.PollUntil(func() (bool, error) {
		pod, err := store.GetPod(podID)
		if err != nil {
			return false, rperrors.WrapAndTrace(err)
		}
		return pod == nil, nil
	})
	countdown.Finish()
	t.Vprint("")
	if err != nil {
		return outcome, rperrors.WrapAndTrace(err)
	}
	return outcome, nil
}
