package settings

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strings"

	rperrors "github.com/runpod-tools/runpod-cli/pkg/errors"
	"github.com/samber/mo"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

const (
	KeyAPIKey      = "RUNPOD_API_KEY"
	KeyGPUType     = "RUNPOD_GPU_TYPE"
	KeyDockerImage = "RUNPOD_DOCKER_IMAGE"
	KeyVolumeID    = "RUNPOD_VOLUME_ID"
	KeySetupScript = "RUNPOD_SETUP_SCRIPT"
	KeyAutoSSH     = "RUNPOD_AUTO_SSH"
	KeyPodID       = "RUNPOD_POD_ID"
)

const (
	DefaultGPUType     = "NVIDIA GeForce RTX 4090"
	DefaultDockerImage = "runpod/pytorch:2.1.0-py3.10-cuda11.8.0-devel-ubuntu22.04"
)

const header = "# RunPod CLI Configuration\n"

var knownKeys = []string{
	KeyAPIKey,
	KeyGPUType,
	KeyDockerImage,
	KeyVolumeID,
	KeySetupScript,
	KeyAutoSSH,
	KeyPodID,
}

// Settings is the persisted user configuration. Keys this tool does not know
// about are carried through a load/save cycle untouched.
type Settings struct {
	APIKey      string
	GPUType     string
	DockerImage string
	VolumeID    mo.Option[string]
	SetupScript mo.Option[string]
	AutoSSH     bool
	PodID       mo.Option[string]

	extra *orderedmap.OrderedMap[string, string]
}

func New() *Settings {
	return &Settings{
		GPUType:     DefaultGPUType,
		DockerImage: DefaultDockerImage,
		VolumeID:    mo.None[string](),
		SetupScript: mo.None[string](),
		AutoSSH:     true,
		PodID:       mo.None[string](),
		extra:       orderedmap.New[string, string](),
	}
}

// Parse reads KEY="value" lines. Comments, blank lines and lines without '='
// are skipped; a later duplicate key wins.
func Parse(r io.Reader) (*Settings, error) {
	values := orderedmap.New[string, string]()
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		values.Set(key, unquote(strings.TrimSpace(value)))
	}
	if err := scanner.Err(); err != nil {
		return nil, rperrors.WrapAndTrace(err)
	}
	return fromMap(values), nil
}

func unquote(v string) string {
	if len(v) >= 2 {
		if (v[0] == '"' && v[len(v)-1] == '"') || (v[0] == '\'' && v[len(v)-1] == '\'') {
			return strings.TrimSpace(v[1 : len(v)-1])
		}
	}
	return strings.Trim(v, `"'`)
}

func fromMap(values *orderedmap.OrderedMap[string, string]) *Settings {
	s := New()
	if v, ok := values.Get(KeyAPIKey); ok {
		s.APIKey = v
	}
	if v, ok := values.Get(KeyGPUType); ok && v != "" {
		s.GPUType = v
	}
	if v, ok := values.Get(KeyDockerImage); ok && v != "" {
		s.DockerImage = v
	}
	s.VolumeID = optional(values, KeyVolumeID)
	s.SetupScript = optional(values, KeySetupScript)
	s.PodID = optional(values, KeyPodID)
	if v, ok := values.Get(KeyAutoSSH); ok {
		s.AutoSSH = strings.EqualFold(v, "true")
	}

	for pair := values.Oldest(); pair != nil; pair = pair.Next() {
		if !isKnownKey(pair.Key) {
			s.extra.Set(pair.Key, pair.Value)
		}
	}
	return s
}

func optional(values *orderedmap.OrderedMap[string, string], key string) mo.Option[string] {
	v, ok := values.Get(key)
	if !ok || v == "" {
		return mo.None[string]()
	}
	return mo.Some(v)
}

func isKnownKey(key string) bool {
	for _, k := range knownKeys {
		if k == key {
			return true
		}
	}
	return false
}

// Encode renders the settings in a fixed key order followed by any unknown
// keys in the order they were read.
func (s *Settings) Encode() []byte {
	var buf bytes.Buffer
	buf.WriteString(header)
	writeKV(&buf, KeyAPIKey, s.APIKey)
	writeKV(&buf, KeyGPUType, s.GPUType)
	writeKV(&buf, KeyDockerImage, s.DockerImage)
	if v, ok := s.VolumeID.Get(); ok {
		writeKV(&buf, KeyVolumeID, v)
	}
	if v, ok := s.SetupScript.Get(); ok {
		writeKV(&buf, KeySetupScript, v)
	}
	writeKV(&buf, KeyAutoSSH, fmt.Sprintf("%t", s.AutoSSH))
	if v, ok := s.PodID.Get(); ok {
		writeKV(&buf, KeyPodID, v)
	}
	if s.extra != nil {
		for pair := s.extra.Oldest(); pair != nil; pair = pair.Next() {
			writeKV(&buf, pair.Key, pair.Value)
		}
	}
	return buf.Bytes()
}

func writeKV(buf *bytes.Buffer, key, value string) {
	fmt.Fprintf(buf, "%s=\"%s\"\n", key, value)
}

func (s *Settings) HasTrackedPod() bool {
	return s.PodID.IsPresent()
}

func (s *Settings) TrackPod(podID string) {
	s.PodID = mo.Some(podID)
}

func (s *Settings) ClearPod() {
	s.PodID = mo.None[string]()
}

// OptionalString maps an empty string to None.
func OptionalString(v string) mo.Option[string] {
	v = strings.TrimSpace(v)
	if v == "" {
		return mo.None[string]()
	}
	return mo.Some(v)
}
