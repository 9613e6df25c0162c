package util

import (
	rperrors "github.com/runpod-tools/runpod-cli/pkg/errors"
	runpodssh "github.com/runpod-tools/runpod-cli/pkg/ssh"
	"github.com/runpod-tools/runpod-cli/pkg/terminal"
)

type Reconciler interface {
	Reconcile(podID string) (*runpodssh.ReconcileResult, error)
}

func PrintReconcileResult(t *terminal.Terminal, result *runpodssh.ReconcileResult) {
	t.Vprintf("Updated %s\n", result.ConnectionFile)
	if result.ConfigUpdated {
		t.Vprint("Added runpod include and host alias to ~/.ssh/config")
	}
	if result.HostKeysRefreshed {
		t.Vprintf("Refreshed host key for %s\n", result.Endpoint.KnownHostsPattern())
	}
	if result.Warnings != nil {
		for _, w := range result.Warnings.Errors {
			t.Warn("%s", rperrors.Cause(w).Error())
		}
	}
	t.Vprint(t.Green("You can now connect with: ssh %s", runpodssh.Alias))
}
