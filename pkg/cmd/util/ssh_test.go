package util

import (
	"testing"

	"github.com/hashicorp/go-multierror"
	"github.com/runpod-tools/runpod-cli/pkg/entity"
	rperrors "github.com/runpod-tools/runpod-cli/pkg/errors"
	runpodssh "github.com/runpod-tools/runpod-cli/pkg/ssh"
	"github.com/runpod-tools/runpod-cli/pkg/terminal"
	"github.com/stretchr/testify/assert"
)

func TestPrintReconcileResult(t *testing.T) {
	term, _, verbose, errOut := terminal.NewTestTerminal()
	PrintReconcileResult(term, &runpodssh.ReconcileResult{
		Endpoint:          entity.Endpoint{Host: "1.2.3.4", Port: 40001},
		ConnectionFile:    "/home/u/.ssh/runpod.d/current.conf",
		HostKeysRefreshed: true,
		Warnings:          multierror.Append(nil, rperrors.New("ssh-keygen missing")),
	})

	assert.Contains(t, verbose.String(), "Updated /home/u/.ssh/runpod.d/current.conf")
	assert.Contains(t, verbose.String(), "Refreshed host key for [1.2.3.4]:40001")
	assert.Contains(t, verbose.String(), "You can now connect with: ssh runpod")
	assert.Contains(t, errOut.String(), "Warning: ssh-keygen missing")
}

func TestPrintReconcileResultKeepsWarningContext(t *testing.T) {
	term, _, _, errOut := terminal.NewTestTerminal()
	exitErr := rperrors.New("exit status 1")
	warning := rperrors.WrapAndTrace(
		rperrors.Errorf("ssh-keyscan 1.2.3.4:40001: %w: Connection refused", exitErr))

	PrintReconcileResult(term, &runpodssh.ReconcileResult{
		Endpoint:       entity.Endpoint{Host: "1.2.3.4", Port: 40001},
		ConnectionFile: "/home/u/.ssh/runpod.d/current.conf",
		Warnings:       multierror.Append(nil, warning),
	})

	assert.Equal(t, "Warning: ssh-keyscan 1.2.3.4:40001: exit status 1: Connection refused\n", errOut.String())
}
