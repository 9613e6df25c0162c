package store

import (
	"github.com/runpod-tools/runpod-cli/pkg/entity"
	rperrors "github.com/runpod-tools/runpod-cli/pkg/errors"
)

const podFields = `
	id
	name
	imageName
	desiredStatus
	gpuCount
	costPerHr
	containerDiskInGb
	machine { gpuDisplayName }
	runtime {
		uptimeInSeconds
		ports { ip isIpPublic privatePort publicPort type }
	}`

const getPodQuery = `query Pod($input: PodFilter) {
	pod(input: $input) {` + podFields + `
	}
}`

// GetPod returns nil without error when the pod does not exist.
func (s AuthHTTPStore) GetPod(podID string) (*entity.Pod, error) {
	data, err := s.graphQL(getPodQuery, map[string]interface{}{
		"input": map[string]string{"podId": podID},
	})
	if err != nil {
		return nil, rperrors.WrapAndTrace(err)
	}
	var pod entity.Pod
	found, err := decodeField(data, "pod", &pod)
	if err != nil {
		return nil, rperrors.WrapAndTrace(err)
	}
	if !found || pod.ID == "" {
		return nil, nil
	}
	return &pod, nil
}

const getPodsQuery = `query Pods {
	myself {
		pods {` + podFields + `
		}
	}
}`

func (s AuthHTTPStore) GetPods() ([]entity.Pod, error) {
	data, err := s.graphQL(getPodsQuery, nil)
	if err != nil {
		return nil, rperrors.WrapAndTrace(err)
	}
	var pods []entity.Pod
	_, err = decodeField(data, "myself.pods", &pods)
	if err != nil {
		return nil, rperrors.WrapAndTrace(err)
	}
	return pods, nil
}

const createPodMutation = `mutation CreatePod($input: PodFindAndDeployOnDemandInput) {
	podFindAndDeployOnDemand(input: $input) {` + podFields + `
	}
}`

func (s AuthHTTPStore) CreatePod(req entity.CreatePodRequest) (*entity.Pod, error) {
	data, err := s.graphQL(createPodMutation, map[string]interface{}{
		"input": req,
	})
	if err != nil {
		return nil, rperrors.WrapAndTrace(err)
	}
	var pod entity.Pod
	found, err := decodeField(data, "podFindAndDeployOnDemand", &pod)
	if err != nil {
		return nil, rperrors.WrapAndTrace(err)
	}
	if !found || pod.ID == "" {
		return nil, &rperrors.APIError{Message: "no pod returned, the requested GPU may be unavailable"}
	}
	return &pod, nil
}

const terminatePodMutation = `mutation TerminatePod($input: PodTerminateInput!) {
	podTerminate(input: $input)
}`

func (s AuthHTTPStore) TerminatePod(podID string) error {
	_, err := s.graphQL(terminatePodMutation, map[string]interface{}{
		"input": map[string]string{"podId": podID},
	})
	if err != nil {
		return rperrors.WrapAndTrace(err)
	}
	return nil
}
