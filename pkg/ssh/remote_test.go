package ssh

import (
	"strings"
	"testing"

	rperrors "github.com/runpod-tools/runpod-cli/pkg/errors"
	"github.com/stretchr/testify/assert"
)

type recordingRunner struct {
	calls []string
	err   error
}

func (r *recordingRunner) Run(name string, args ...string) error {
	r.calls = append(r.calls, name+" "+strings.Join(args, " "))
	return r.err
}

func TestCopyAndRunScript(t *testing.T) {
	runner := &recordingRunner{}
	err := CopyAndRunScript(runner, "/home/u/scripts/my setup.sh")
	if !assert.Nil(t, err) {
		return
	}
	assert.Equal(t, []string{
		"scp /home/u/scripts/my setup.sh runpod:/root/my setup.sh",
		"ssh runpod bash '/root/my setup.sh'",
	}, runner.calls)
}

func TestCopyAndRunScriptStopsOnCopyFailure(t *testing.T) {
	runner := &recordingRunner{err: rperrors.New("scp failed")}
	err := CopyAndRunScript(runner, "/tmp/setup.sh")
	assert.NotNil(t, err)
	assert.Len(t, runner.calls, 1)
}

func TestConnect(t *testing.T) {
	runner := &recordingRunner{}
	assert.Nil(t, Connect(runner))
	assert.Equal(t, []string{"ssh runpod"}, runner.calls)
}

func TestRemoteScriptPath(t *testing.T) {
	assert.Equal(t, "/root/setup.sh", RemoteScriptPath("/home/u/setup.sh"))
}

func TestExecRunnerErrorNamesCommand(t *testing.T) {
	err := ExecRunner{}.Run("runpod-test-missing-tool", "--flag")
	if !assert.NotNil(t, err) {
		return
	}
	assert.True(t, strings.HasPrefix(rperrors.Cause(err).Error(), "runpod-test-missing-tool --flag: "), err.Error())
}
