package up

import (
	"testing"
	"time"

	"github.com/runpod-tools/runpod-cli/pkg/cmd/util"
	"github.com/runpod-tools/runpod-cli/pkg/entity"
	rperrors "github.com/runpod-tools/runpod-cli/pkg/errors"
	"github.com/runpod-tools/runpod-cli/pkg/settings"
	runpodssh "github.com/runpod-tools/runpod-cli/pkg/ssh"
	"github.com/runpod-tools/runpod-cli/pkg/terminal"
	"github.com/samber/mo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockUpStore struct {
	mock.Mock
}

func (m *MockUpStore) GetPod(podID string) (*entity.Pod, error) {
	args := m.Called(podID)
	pod, _ := args.Get(0).(*entity.Pod)
	return pod, args.Error(1)
}

func (m *MockUpStore) CreatePod(req entity.CreatePodRequest) (*entity.Pod, error) {
	args := m.Called(req)
	pod, _ := args.Get(0).(*entity.Pod)
	return pod, args.Error(1)
}

func (m *MockUpStore) GetSettings() (*settings.Settings, error) {
	args := m.Called()
	s, _ := args.Get(0).(*settings.Settings)
	return s, args.Error(1)
}

func (m *MockUpStore) SaveSettings(s *settings.Settings) error {
	return m.Called(s).Error(0)
}

type MockReconciler struct {
	mock.Mock
}

func (m *MockReconciler) Reconcile(podID string) (*runpodssh.ReconcileResult, error) {
	args := m.Called(podID)
	result, _ := args.Get(0).(*runpodssh.ReconcileResult)
	return result, args.Error(1)
}

type MockRunner struct {
	mock.Mock
}

func (m *MockRunner) Run(name string, args ...string) error {
	return m.Called(name, args).Error(0)
}

func testPoller() util.Poller {
	return util.Poller{
		Interval: util.StartPollInterval,
		MaxWait:  util.StartPollMaxWait,
		Sleep:    func(time.Duration) {},
	}
}

var runningPod = &entity.Pod{
	ID: "pod-1",
	Runtime: &entity.Runtime{Ports: []entity.PortMapping{
		{IP: "1.2.3.4", PrivatePort: 22, PublicPort: 40001},
	}},
}

type upFixture struct {
	store      *MockUpStore
	reconciler *MockReconciler
	runner     *MockRunner
	conf       *settings.Settings
}

func newFixture() upFixture {
	conf := settings.New()
	conf.APIKey = "key"
	f := upFixture{
		store:      new(MockUpStore),
		reconciler: new(MockReconciler),
		runner:     new(MockRunner),
		conf:       conf,
	}
	f.store.On("GetSettings").Return(conf, nil)
	f.store.On("SaveSettings", conf).Return(nil)
	return f
}

func (f upFixture) up() *Up {
	return NewUp(f.store, f.reconciler, f.runner, testPoller())
}

func (f upFixture) expectCreate(req entity.CreatePodRequest) {
	f.store.On("CreatePod", req).Return(&entity.Pod{ID: "pod-1"}, nil)
}

func defaultRequest() entity.CreatePodRequest {
	return entity.NewCreatePodRequest(settings.DefaultDockerImage, settings.DefaultGPUType, "")
}

func TestUpCreatesPodAndConfiguresSSH(t *testing.T) {
	term, _, verbose, _ := terminal.NewTestTerminal()
	f := newFixture()
	f.expectCreate(defaultRequest())
	f.store.On("GetPod", "pod-1").Return(&entity.Pod{ID: "pod-1"}, nil).Once()
	f.store.On("GetPod", "pod-1").Return(runningPod, nil)
	f.reconciler.On("Reconcile", "pod-1").Return(&runpodssh.ReconcileResult{
		Endpoint:       entity.Endpoint{Host: "1.2.3.4", Port: 40001},
		ConnectionFile: "/home/u/.ssh/runpod.d/current.conf",
	}, nil)

	require.NoError(t, f.up().Run(term, UpOptions{}))
	out := verbose.String()
	assert.Contains(t, out, "Starting RunPod instance...")
	assert.Contains(t, out, "GPU:    "+settings.DefaultGPUType)
	assert.Contains(t, out, "Pod created successfully")
	assert.Contains(t, out, "Pod ID: pod-1")
	assert.Contains(t, out, "Pod is running")
	assert.Contains(t, out, "You can now connect with: ssh runpod")
	assert.Equal(t, mo.Some("pod-1"), f.conf.PodID)
	f.runner.AssertNotCalled(t, "Run", mock.Anything, mock.Anything)
}

func TestUpExistingPodIsNoop(t *testing.T) {
	term, _, verbose, _ := terminal.NewTestTerminal()
	f := newFixture()
	f.conf.TrackPod("pod-1")
	f.store.On("GetPod", "pod-1").Return(runningPod, nil)

	require.NoError(t, f.up().Run(term, UpOptions{}))
	assert.Contains(t, verbose.String(), "Pod pod-1 already exists (running)")
	f.store.AssertNotCalled(t, "CreatePod", mock.Anything)
}

func TestUpReplacesVanishedTrackedPod(t *testing.T) {
	term, _, _, _ := terminal.NewTestTerminal()
	f := newFixture()
	f.conf.TrackPod("pod-old")
	f.store.On("GetPod", "pod-old").Return(nil, nil)
	f.expectCreate(defaultRequest())
	f.store.On("GetPod", "pod-1").Return(runningPod, nil)

	require.NoError(t, f.up().Run(term, UpOptions{NoSSH: true}))
	assert.Equal(t, mo.Some("pod-1"), f.conf.PodID)
}

func TestUpGPUFlagAndVolume(t *testing.T) {
	term, _, verbose, _ := terminal.NewTestTerminal()
	f := newFixture()
	f.conf.VolumeID = mo.Some("vol-1")
	f.expectCreate(entity.NewCreatePodRequest(settings.DefaultDockerImage, "NVIDIA A100 80GB PCIe", "vol-1"))
	f.store.On("GetPod", "pod-1").Return(runningPod, nil)

	require.NoError(t, f.up().Run(term, UpOptions{GPUType: "NVIDIA A100 80GB PCIe", NoSSH: true}))
	assert.Contains(t, verbose.String(), "Volume: vol-1")
	assert.Contains(t, verbose.String(), "SSH setup skipped (--no-ssh flag)")
	f.reconciler.AssertNotCalled(t, "Reconcile", mock.Anything)
}

func TestUpStartTimeoutIsNotAnError(t *testing.T) {
	term, _, verbose, _ := terminal.NewTestTerminal()
	f := newFixture()
	f.expectCreate(defaultRequest())
	f.store.On("GetPod", "pod-1").Return(&entity.Pod{ID: "pod-1"}, nil)

	require.NoError(t, f.up().Run(term, UpOptions{}))
	assert.Contains(t, verbose.String(), "Pod may still be starting")
	assert.Equal(t, mo.Some("pod-1"), f.conf.PodID)
	f.reconciler.AssertNotCalled(t, "Reconcile", mock.Anything)
}

func TestUpAutoSSHDisabled(t *testing.T) {
	term, _, verbose, _ := terminal.NewTestTerminal()
	f := newFixture()
	f.conf.AutoSSH = false
	f.expectCreate(defaultRequest())
	f.store.On("GetPod", "pod-1").Return(runningPod, nil)

	require.NoError(t, f.up().Run(term, UpOptions{}))
	assert.Contains(t, verbose.String(), "Run 'runpod ssh' to configure SSH access")
	f.reconciler.AssertNotCalled(t, "Reconcile", mock.Anything)
}

func TestUpSSHFailureIsAWarning(t *testing.T) {
	term, _, _, errOut := terminal.NewTestTerminal()
	f := newFixture()
	f.conf.SetupScript = mo.Some("/home/u/setup.sh")
	f.expectCreate(defaultRequest())
	f.store.On("GetPod", "pod-1").Return(runningPod, nil)
	f.reconciler.On("Reconcile", "pod-1").Return(nil, &rperrors.NoSSHPortError{PodID: "pod-1"})

	require.NoError(t, f.up().Run(term, UpOptions{}))
	assert.Contains(t, errOut.String(), "Warning: SSH setup failed: pod pod-1 does not expose an SSH port")
	f.runner.AssertNotCalled(t, "Run", mock.Anything, mock.Anything)
}

func TestUpRunsSetupScript(t *testing.T) {
	term, _, _, errOut := terminal.NewTestTerminal()
	f := newFixture()
	f.conf.SetupScript = mo.Some("/home/u/setup.sh")
	f.expectCreate(defaultRequest())
	f.store.On("GetPod", "pod-1").Return(runningPod, nil)
	f.reconciler.On("Reconcile", "pod-1").Return(&runpodssh.ReconcileResult{}, nil)
	f.runner.On("Run", "scp", []string{"/home/u/setup.sh", "runpod:/root/setup.sh"}).Return(nil)
	f.runner.On("Run", "ssh", []string{"runpod", "bash /root/setup.sh"}).
		Return(rperrors.Errorf("ssh runpod bash /root/setup.sh: %w", rperrors.New("exit status 1")))

	require.NoError(t, f.up().Run(term, UpOptions{}))
	assert.Contains(t, errOut.String(), "Warning: setup script failed: ssh runpod bash /root/setup.sh: exit status 1")
	f.runner.AssertExpectations(t)
}

func TestUpCreateFailure(t *testing.T) {
	term, _, _, _ := terminal.NewTestTerminal()
	f := newFixture()
	f.store.On("CreatePod", mock.Anything).Return(nil, &rperrors.APIError{Message: "no capacity"})

	err := f.up().Run(term, UpOptions{})
	var apiErr *rperrors.APIError
	assert.True(t, rperrors.As(err, &apiErr))
	assert.False(t, f.conf.HasTrackedPod())
	f.store.AssertNotCalled(t, "SaveSettings", mock.Anything)
}
