package ssh

import (
	"bytes"
	"io"
	"os/exec"
	"strconv"
	"strings"

	"github.com/runpod-tools/runpod-cli/pkg/entity"
	rperrors "github.com/runpod-tools/runpod-cli/pkg/errors"
	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/knownhosts"
)

const scanKeyTypes = "ed25519,rsa"

// HostKeyManager wraps the OpenSSH tools that edit and populate known_hosts.
type HostKeyManager interface {
	RemoveHost(knownHostsPath string, host string) error
	ScanHost(endpoint entity.Endpoint) ([]byte, error)
}

type OpenSSHHostKeyManager struct {
	// TimeoutSeconds bounds ssh-keyscan; zero keeps the tool's default.
	TimeoutSeconds int
}

var _ HostKeyManager = OpenSSHHostKeyManager{}

func (m OpenSSHHostKeyManager) RemoveHost(knownHostsPath string, host string) error {
	cmd := exec.Command("ssh-keygen", "-R", host, "-f", knownHostsPath) // #nosec G204
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return toolError("ssh-keygen -R "+host, err, stderr.String())
	}
	return nil
}

func (m OpenSSHHostKeyManager) ScanHost(endpoint entity.Endpoint) ([]byte, error) {
	args := []string{"-p", strconv.Itoa(endpoint.Port), "-t", scanKeyTypes}
	if m.TimeoutSeconds > 0 {
		args = append(args, "-T", strconv.Itoa(m.TimeoutSeconds))
	}
	args = append(args, endpoint.Host)
	cmd := exec.Command("ssh-keyscan", args...) // #nosec G204
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		return nil, toolError("ssh-keyscan "+endpoint.Address(), err, stderr.String())
	}
	return out, nil
}

// toolError keeps the command and its stderr in the error message so they
// survive rperrors.Cause.
func toolError(command string, err error, stderr string) error {
	stderr = strings.TrimSpace(stderr)
	if stderr == "" {
		return rperrors.Errorf("%s: %w", command, err)
	}
	return rperrors.Errorf("%s: %w: %s", command, err, stderr)
}

// RewriteScannedKeys turns ssh-keyscan output into known_hosts lines keyed by
// the endpoint. Lines that are not valid keys are rejected.
func RewriteScannedKeys(scanned []byte, endpoint entity.Endpoint) ([]string, error) {
	var lines []string
	rest := scanned
	for {
		_, _, pubKey, _, next, err := ssh.ParseKnownHosts(rest)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, rperrors.Errorf("ssh-keyscan output for %s: %w", endpoint.Address(), err)
		}
		lines = append(lines, knownhosts.Line([]string{endpoint.Address()}, pubKey))
		rest = next
	}
	return lines, nil
}
