package entity

import (
	"fmt"
	"net"
	"strconv"
)

const SSHPrivatePort = 22

// Pod Lifecycle
type PodState string

const (
	Absent  PodState = "ABSENT"
	Pending PodState = "PENDING"
	Running PodState = "RUNNING"
)

type Pod struct {
	ID                string   `json:"id"`
	Name              string   `json:"name"`
	ImageName         string   `json:"imageName"`
	DesiredStatus     string   `json:"desiredStatus,omitempty"`
	GPUCount          int      `json:"gpuCount,omitempty"`
	CostPerHr         float64  `json:"costPerHr,omitempty"`
	ContainerDiskInGb int      `json:"containerDiskInGb,omitempty"`
	Runtime           *Runtime `json:"runtime"`
	Machine           *Machine `json:"machine"`
}

type Runtime struct {
	UptimeInSeconds int           `json:"uptimeInSeconds"`
	Ports           []PortMapping `json:"ports"`
}

type Machine struct {
	GPUDisplayName string `json:"gpuDisplayName"`
}

type PortMapping struct {
	IP          string `json:"ip"`
	IsIPPublic  bool   `json:"isIpPublic"`
	PrivatePort int    `json:"privatePort"`
	PublicPort  int    `json:"publicPort"`
	Type        string `json:"type"`
}

// GetState treats a nil pod as absent and a pod without runtime as pending.
func (p *Pod) GetState() PodState {
	if p == nil {
		return Absent
	}
	if p.Runtime == nil {
		return Pending
	}
	return Running
}

func (p *Pod) GetGPUDisplayName() string {
	if p == nil || p.Machine == nil {
		return ""
	}
	return p.Machine.GPUDisplayName
}

// GetSSHEndpoint returns the public endpoint mapped to private port 22. The
// first matching mapping wins.
func (p *Pod) GetSSHEndpoint() (Endpoint, bool) {
	if p == nil || p.Runtime == nil {
		return Endpoint{}, false
	}
	for _, port := range p.Runtime.Ports {
		if port.PrivatePort != SSHPrivatePort {
			continue
		}
		if port.IP == "" || port.PublicPort == 0 {
			return Endpoint{}, false
		}
		return Endpoint{Host: port.IP, Port: port.PublicPort}, true
	}
	return Endpoint{}, false
}

// Endpoint is where a pod's sshd is reachable from the outside.
type Endpoint struct {
	Host string
	Port int
}

func (e Endpoint) Address() string {
	return net.JoinHostPort(e.Host, strconv.Itoa(e.Port))
}

// KnownHostsPattern is the bracketed form ssh uses for non-default ports.
func (e Endpoint) KnownHostsPattern() string {
	return fmt.Sprintf("[%s]:%d", e.Host, e.Port)
}

func (e Endpoint) IsZero() bool {
	return e.Host == "" && e.Port == 0
}

type CreatePodRequest struct {
	Name              string `json:"name"`
	ImageName         string `json:"imageName"`
	GPUTypeID         string `json:"gpuTypeId"`
	GPUCount          int    `json:"gpuCount"`
	CloudType         string `json:"cloudType"`
	ContainerDiskInGb int    `json:"containerDiskInGb"`
	VolumeInGb        int    `json:"volumeInGb"`
	VolumeMountPath   string `json:"volumeMountPath,omitempty"`
	MinVCPUCount      int    `json:"minVcpuCount"`
	MinMemoryInGb     int    `json:"minMemoryInGb"`
	Ports             string `json:"ports"`
	NetworkVolumeID   string `json:"networkVolumeId,omitempty"`
}

const (
	DefaultPodName           = "gpu-workspace"
	DefaultContainerDiskInGb = 20
	DefaultPorts             = "8888/http,22/tcp"
	DefaultVolumeMountPath   = "/workspace"
	DefaultCloudType         = "ALL"
)

// NewCreatePodRequest fills the defaults used for every pod this tool creates.
func NewCreatePodRequest(imageName string, gpuTypeID string, networkVolumeID string) CreatePodRequest {
	return CreatePodRequest{
		Name:              DefaultPodName,
		ImageName:         imageName,
		GPUTypeID:         gpuTypeID,
		GPUCount:          1,
		CloudType:         DefaultCloudType,
		ContainerDiskInGb: DefaultContainerDiskInGb,
		VolumeMountPath:   DefaultVolumeMountPath,
		MinVCPUCount:      1,
		MinMemoryInGb:     1,
		Ports:             DefaultPorts,
		NetworkVolumeID:   networkVolumeID,
	}
}

type GPUType struct {
	ID             string       `json:"id"`
	DisplayName    string       `json:"displayName"`
	MemoryInGb     int          `json:"memoryInGb"`
	SecureCloud    bool         `json:"secureCloud"`
	CommunityCloud bool         `json:"communityCloud"`
	LowestPrice    *LowestPrice `json:"lowestPrice"`
}

type LowestPrice struct {
	MinimumBidPrice      *float64 `json:"minimumBidPrice"`
	UninterruptablePrice *float64 `json:"uninterruptablePrice"`
}

// GetPricePerHour returns the on-demand price, zero when unknown.
func (g GPUType) GetPricePerHour() float64 {
	if g.LowestPrice == nil || g.LowestPrice.UninterruptablePrice == nil {
		return 0
	}
	return *g.LowestPrice.UninterruptablePrice
}
