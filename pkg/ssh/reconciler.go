package ssh

import (
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/runpod-tools/runpod-cli/pkg/entity"
	rperrors "github.com/runpod-tools/runpod-cli/pkg/errors"
	"go.uber.org/zap"
)

type ReconcilerStore interface {
	GetPod(podID string) (*entity.Pod, error)
	EnsureSSHDirs() error
	GetConnectionFile() (string, error)
	GetConnectionFilePath() (string, error)
	WriteConnectionFile(contents string) error
	GetConnectionIncludePattern() (string, error)
	GetUserSSHConfig() (string, error)
	WriteUserSSHConfig(config string) error
	GetKnownHosts() (string, error)
	GetKnownHostsPath() (string, error)
	AppendKnownHosts(lines []string) error
}

// Reconciler points the runpod ssh alias at a pod's current endpoint and keeps
// known_hosts in step with it.
type Reconciler struct {
	store ReconcilerStore
	keys  HostKeyManager
	log   *zap.Logger
}

// NewReconciler uses the global zap logger when log is nil.
func NewReconciler(store ReconcilerStore, keys HostKeyManager, log *zap.Logger) *Reconciler {
	return &Reconciler{store: store, keys: keys, log: log}
}

func (r Reconciler) logger() *zap.Logger {
	if r.log != nil {
		return r.log
	}
	return zap.L()
}

type ReconcileResult struct {
	Endpoint          entity.Endpoint
	PreviousEndpoint  entity.Endpoint
	ConnectionFile    string
	ConfigUpdated     bool
	HostKeysRefreshed bool
	// Warnings collects failures of the known_hosts refresh, which never fail
	// the reconcile.
	Warnings *multierror.Error
}

func (r ReconcileResult) HasWarnings() bool {
	return r.Warnings.ErrorOrNil() != nil
}

// Reconcile fails without touching the filesystem unless the pod is running
// and exposes port 22.
func (r Reconciler) Reconcile(podID string) (*ReconcileResult, error) {
	endpoint, err := r.resolveEndpoint(podID)
	if err != nil {
		return nil, rperrors.WrapAndTrace(err)
	}
	r.logger().Debug("resolved ssh endpoint", zap.String("pod", podID), zap.String("endpoint", endpoint.Address()))

	result := &ReconcileResult{Endpoint: endpoint}

	previous, err := r.store.GetConnectionFile()
	if err != nil {
		r.logger().Debug("could not read previous connection file", zap.Error(err))
	} else if prev, ok := ParseConnectionFile(previous); ok {
		result.PreviousEndpoint = prev
	}

	err = r.store.EnsureSSHDirs()
	if err != nil {
		return nil, rperrors.WrapAndTrace(err)
	}

	err = r.writeConnectionFile(result)
	if err != nil {
		return nil, rperrors.WrapAndTrace(err)
	}

	result.ConfigUpdated, err = r.ensureConfigHasIncludeAndAlias()
	if err != nil {
		return nil, rperrors.WrapAndTrace(err)
	}

	r.refreshHostKeys(result)
	return result, nil
}

func (r Reconciler) resolveEndpoint(podID string) (entity.Endpoint, error) {
	pod, err := r.store.GetPod(podID)
	if err != nil {
		return entity.Endpoint{}, rperrors.WrapAndTrace(err)
	}
	switch pod.GetState() {
	case entity.Absent:
		return entity.Endpoint{}, &rperrors.PodNotFoundError{PodID: podID}
	case entity.Pending:
		return entity.Endpoint{}, &rperrors.PodNotRunningError{PodID: podID}
	case entity.Running:
	}
	endpoint, ok := pod.GetSSHEndpoint()
	if !ok {
		return entity.Endpoint{}, &rperrors.NoSSHPortError{PodID: podID}
	}
	return endpoint, nil
}

func (r Reconciler) writeConnectionFile(result *ReconcileResult) error {
	contents, err := MakeConnectionFile(result.Endpoint)
	if err != nil {
		return rperrors.WrapAndTrace(err)
	}
	err = r.store.WriteConnectionFile(contents)
	if err != nil {
		return rperrors.WrapAndTrace(err)
	}
	path, err := r.store.GetConnectionFilePath()
	if err != nil {
		return rperrors.WrapAndTrace(err)
	}
	result.ConnectionFile = path
	return nil
}

func (r Reconciler) ensureConfigHasIncludeAndAlias() (bool, error) {
	pattern, err := r.store.GetConnectionIncludePattern()
	if err != nil {
		return false, rperrors.WrapAndTrace(err)
	}
	conf, err := r.store.GetUserSSHConfig()
	if err != nil {
		return false, rperrors.WrapAndTrace(err)
	}
	alias, err := MakeAliasBlock()
	if err != nil {
		return false, rperrors.WrapAndTrace(err)
	}
	newConf, changed := EnsureIncludeAndAlias(conf, MakeIncludeLine(pattern), alias)
	if !changed {
		r.logger().Debug("ssh config already has include and alias")
		return false, nil
	}
	err = r.store.WriteUserSSHConfig(newConf)
	if err != nil {
		return false, rperrors.WrapAndTrace(err)
	}
	r.logger().Debug("updated ssh config")
	return true, nil
}

func (r Reconciler) refreshHostKeys(result *ReconcileResult) {
	knownHostsPath, err := r.store.GetKnownHostsPath()
	if err != nil {
		result.Warnings = multierror.Append(result.Warnings, err)
		return
	}

	existing, err := r.store.GetKnownHosts()
	if err != nil {
		result.Warnings = multierror.Append(result.Warnings, err)
	} else if strings.TrimSpace(existing) != "" {
		for _, host := range staleHostKeyTargets(result.Endpoint, result.PreviousEndpoint) {
			if err := r.keys.RemoveHost(knownHostsPath, host); err != nil {
				r.logger().Debug("could not remove host key", zap.String("host", host), zap.Error(err))
				result.Warnings = multierror.Append(result.Warnings, err)
			}
		}
	}

	scanned, err := r.keys.ScanHost(result.Endpoint)
	if err != nil {
		result.Warnings = multierror.Append(result.Warnings, err)
		return
	}
	lines, err := RewriteScannedKeys(scanned, result.Endpoint)
	if err != nil {
		result.Warnings = multierror.Append(result.Warnings, err)
		return
	}
	if len(lines) == 0 {
		result.Warnings = multierror.Append(result.Warnings,
			rperrors.Errorf("no host keys returned for %s", result.Endpoint.KnownHostsPattern()))
		return
	}
	err = r.store.AppendKnownHosts(lines)
	if err != nil {
		result.Warnings = multierror.Append(result.Warnings, err)
		return
	}
	result.HostKeysRefreshed = true
}

// staleHostKeyTargets lists the known_hosts names to purge: the new endpoint
// in bare and bracketed form, plus the previous endpoint when it moved.
func staleHostKeyTargets(current entity.Endpoint, previous entity.Endpoint) []string {
	targets := []string{current.Host, current.KnownHostsPattern()}
	if !previous.IsZero() && previous != current {
		if previous.Host != current.Host {
			targets = append(targets, previous.Host)
		}
		targets = append(targets, previous.KnownHostsPattern())
	}
	return targets
}
