package main

import (
	"os"

	"github.com/runpod-tools/runpod-cli/pkg/cmd"
	"github.com/runpod-tools/runpod-cli/pkg/cmd/cmderrors"
	"github.com/runpod-tools/runpod-cli/pkg/cmd/version"
	"github.com/runpod-tools/runpod-cli/pkg/config"
	rperrors "github.com/runpod-tools/runpod-cli/pkg/errors"
	"github.com/runpod-tools/runpod-cli/pkg/terminal"
)

func main() {
	os.Exit(run())
}

func run() int {
	er := rperrors.GetDefaultErrorReporter(config.GlobalConfig.GetSentryURL(), version.GetVersion())
	defer er.Setup()()

	t := terminal.New()
	command := cmd.NewRunPodCommand(t)
	if err := command.Execute(); err != nil {
		cmderrors.DisplayAndHandleError(t, er, err)
		return 1
	}
	return 0
}
