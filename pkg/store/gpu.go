package store

import (
	"github.com/runpod-tools/runpod-cli/pkg/entity"
	rperrors "github.com/runpod-tools/runpod-cli/pkg/errors"
)

const getGPUTypesQuery = `query GpuTypes {
	gpuTypes {
		id
		displayName
		memoryInGb
		secureCloud
		communityCloud
		lowestPrice(input: { gpuCount: 1 }) {
			minimumBidPrice
			uninterruptablePrice
		}
	}
}`

func (s AuthHTTPStore) GetGPUTypes() ([]entity.GPUType, error) {
	data, err := s.graphQL(getGPUTypesQuery, nil)
	if err != nil {
		return nil, rperrors.WrapAndTrace(err)
	}
	var gpuTypes []entity.GPUType
	_, err = decodeField(data, "gpuTypes", &gpuTypes)
	if err != nil {
		return nil, rperrors.WrapAndTrace(err)
	}
	return gpuTypes, nil
}
