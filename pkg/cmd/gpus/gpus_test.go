package gpus

import (
	"testing"

	"github.com/runpod-tools/runpod-cli/pkg/entity"
	rperrors "github.com/runpod-tools/runpod-cli/pkg/errors"
	"github.com/runpod-tools/runpod-cli/pkg/terminal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockGPUsStore struct {
	mock.Mock
}

func (m *MockGPUsStore) GetGPUTypes() ([]entity.GPUType, error) {
	args := m.Called()
	return args.Get(0).([]entity.GPUType), args.Error(1)
}

func price(p float64) *entity.LowestPrice {
	return &entity.LowestPrice{UninterruptablePrice: &p}
}

func createTestGPUTypes() []entity.GPUType {
	return []entity.GPUType{
		{ID: "NVIDIA GeForce RTX 4090", DisplayName: "RTX 4090", MemoryInGb: 24, SecureCloud: true, CommunityCloud: true, LowestPrice: price(0.69)},
		{ID: "NVIDIA A100 80GB PCIe", DisplayName: "A100 PCIe", MemoryInGb: 80, SecureCloud: true, LowestPrice: price(1.64)},
		{ID: "NVIDIA RTX A6000", DisplayName: "RTX A6000", MemoryInGb: 48, CommunityCloud: true, LowestPrice: price(0.49)},
		{ID: "NVIDIA H100 80GB HBM3", DisplayName: "H100 SXM", MemoryInGb: 80, SecureCloud: true},
		{ID: "NVIDIA GeForce RTX 3090", DisplayName: "RTX 3090", MemoryInGb: 24, CommunityCloud: true, LowestPrice: price(0.22)},
	}
}

func ids(gpuTypes []entity.GPUType) []string {
	out := make([]string, 0, len(gpuTypes))
	for _, g := range gpuTypes {
		out = append(out, g.DisplayName)
	}
	return out
}

func TestFilterGPUTypes(t *testing.T) {
	tests := []struct {
		name string
		opts GPUsOptions
		want []string
	}{
		{"no filters", GPUsOptions{}, []string{"RTX 4090", "A100 PCIe", "RTX A6000", "H100 SXM", "RTX 3090"}},
		{"by display name", GPUsOptions{Name: "rtx"}, []string{"RTX 4090", "RTX A6000", "RTX 3090"}},
		{"by id", GPUsOptions{Name: "hbm3"}, []string{"H100 SXM"}},
		{"min memory", GPUsOptions{MinMemory: 48}, []string{"A100 PCIe", "RTX A6000", "H100 SXM"}},
		{"secure only", GPUsOptions{SecureOnly: true}, []string{"RTX 4090", "A100 PCIe", "H100 SXM"}},
		{"community only", GPUsOptions{CommunityOnly: true}, []string{"RTX 4090", "RTX A6000", "RTX 3090"}},
		{"combined", GPUsOptions{Name: "rtx", MinMemory: 30, CommunityOnly: true}, []string{"RTX A6000"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(FilterGPUTypes(createTestGPUTypes(), tt.opts)))
		})
	}
}

func TestSortGPUTypes(t *testing.T) {
	tests := []struct {
		sortBy     string
		descending bool
		want       []string
	}{
		{"memory", false, []string{"RTX 4090", "RTX 3090", "RTX A6000", "A100 PCIe", "H100 SXM"}},
		{"memory", true, []string{"A100 PCIe", "H100 SXM", "RTX A6000", "RTX 4090", "RTX 3090"}},
		{"price", false, []string{"H100 SXM", "RTX 3090", "RTX A6000", "RTX 4090", "A100 PCIe"}},
		{"name", false, []string{"A100 PCIe", "H100 SXM", "RTX 3090", "RTX 4090", "RTX A6000"}},
		{"id", false, []string{"A100 PCIe", "H100 SXM", "RTX 3090", "RTX 4090", "RTX A6000"}},
	}
	for _, tt := range tests {
		t.Run(tt.sortBy, func(t *testing.T) {
			gpuTypes := createTestGPUTypes()
			SortGPUTypes(gpuTypes, tt.sortBy, tt.descending)
			assert.Equal(t, tt.want, ids(gpuTypes))
		})
	}
}

func TestRunGPUs(t *testing.T) {
	term, _, verbose, _ := terminal.NewTestTerminal()
	store := new(MockGPUsStore)
	store.On("GetGPUTypes").Return(createTestGPUTypes(), nil)

	err := RunGPUs(term, store, GPUsOptions{MinMemory: 80, SortBy: "price"})
	assert.Nil(t, err)
	assert.Contains(t, verbose.String(), "A100 PCIe")
	assert.Contains(t, verbose.String(), "$1.64")
	assert.NotContains(t, verbose.String(), "RTX 4090")
	assert.Contains(t, verbose.String(), "Found 2 GPU type(s)")
	store.AssertExpectations(t)
}

func TestRunGPUsNoMatches(t *testing.T) {
	term, _, verbose, _ := terminal.NewTestTerminal()
	store := new(MockGPUsStore)
	store.On("GetGPUTypes").Return(createTestGPUTypes(), nil)

	err := RunGPUs(term, store, GPUsOptions{Name: "tpu"})
	assert.Nil(t, err)
	assert.Contains(t, verbose.String(), "No GPU types match the specified filters.")
}

func TestRunGPUsInvalidOptions(t *testing.T) {
	term, _, _, _ := terminal.NewTestTerminal()
	store := new(MockGPUsStore)

	err := RunGPUs(term, store, GPUsOptions{SecureOnly: true, CommunityOnly: true})
	var validation rperrors.ValidationError
	assert.True(t, rperrors.As(err, &validation))

	err = RunGPUs(term, store, GPUsOptions{SortBy: "vram"})
	assert.True(t, rperrors.As(err, &validation))
	store.AssertNotCalled(t, "GetGPUTypes")
}
