package ssh

import (
	"io"
	"os"
	"os/exec"
	"path"
	"path/filepath"
	"strings"

	"github.com/alessio/shellescape"
	rperrors "github.com/runpod-tools/runpod-cli/pkg/errors"
)

const remoteHome = "/root"

// Runner executes local ssh and scp processes.
type Runner interface {
	Run(name string, args ...string) error
}

type ExecRunner struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

var _ Runner = ExecRunner{}

func NewExecRunner() ExecRunner {
	return ExecRunner{Stdin: os.Stdin, Stdout: os.Stdout, Stderr: os.Stderr}
}

func (e ExecRunner) Run(name string, args ...string) error {
	cmd := exec.Command(name, args...) // #nosec G204
	cmd.Stdin = e.Stdin
	cmd.Stdout = e.Stdout
	cmd.Stderr = e.Stderr
	if err := cmd.Run(); err != nil {
		return toolError(strings.Join(append([]string{name}, args...), " "), err, "")
	}
	return nil
}

// RemoteScriptPath is where a local script lands on the pod.
func RemoteScriptPath(localPath string) string {
	return path.Join(remoteHome, filepath.Base(localPath))
}

// CopyScript copies localPath to the pod behind the alias.
func CopyScript(runner Runner, localPath string) (string, error) {
	remotePath := RemoteScriptPath(localPath)
	err := runner.Run("scp", localPath, Alias+":"+remotePath)
	if err != nil {
		return "", rperrors.WrapAndTrace(err)
	}
	return remotePath, nil
}

// RunScript runs a script already on the pod with bash.
func RunScript(runner Runner, remotePath string) error {
	err := runner.Run("ssh", Alias, shellescape.QuoteCommand([]string{"bash", remotePath}))
	if err != nil {
		return rperrors.WrapAndTrace(err)
	}
	return nil
}

func CopyAndRunScript(runner Runner, localPath string) error {
	remotePath, err := CopyScript(runner, localPath)
	if err != nil {
		return rperrors.WrapAndTrace(err)
	}
	err = RunScript(runner, remotePath)
	if err != nil {
		return rperrors.WrapAndTrace(err)
	}
	return nil
}

// Connect opens an interactive session on the pod.
func Connect(runner Runner) error {
	err := runner.Run("ssh", Alias)
	if err != nil {
		return rperrors.WrapAndTrace(err)
	}
	return nil
}
