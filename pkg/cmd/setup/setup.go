// Package setup is the interactive configuration wizard
package setup

import (
	"fmt"
	"sort"

	"github.com/runpod-tools/runpod-cli/pkg/entity"
	rperrors "github.com/runpod-tools/runpod-cli/pkg/errors"
	"github.com/runpod-tools/runpod-cli/pkg/settings"
	"github.com/runpod-tools/runpod-cli/pkg/terminal"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

var (
	setupLong = `Configure the runpod CLI.

Asks for your API key, default GPU type, docker image, network volume, setup
script and whether 'runpod up' should configure ssh. Current values are offered
as defaults.`
	setupExample = "runpod setup"
)

type SetupStore interface {
	GetSettingsOrDefault() (*settings.Settings, error)
	SaveSettings(s *settings.Settings) error
	GetSettingsFilePath() (string, error)
	UseAPIKey(apiKey string)
	GetGPUTypes() ([]entity.GPUType, error)
	AbsPath(path string) (string, error)
	FileExists(path string) (bool, error)
}

type Setup struct {
	store      SetupStore
	prompter   terminal.Prompter
	openURL    func(url string) error
	apiKeysURL string
}

func NewSetup(store SetupStore, prompter terminal.Prompter, openURL func(string) error, apiKeysURL string) *Setup {
	return &Setup{store: store, prompter: prompter, openURL: openURL, apiKeysURL: apiKeysURL}
}

func NewCmdSetup(t *terminal.Terminal, setup *Setup) *cobra.Command {
	cmd := &cobra.Command{
		Use:                   "setup",
		Aliases:               []string{"configure", "init"},
		DisableFlagsInUseLine: true,
		Short:                 "Configure API key and pod defaults",
		Long:                  setupLong,
		Example:               setupExample,
		Args:                  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := setup.Run(t)
			if err != nil {
				return rperrors.WrapAndTrace(err)
			}
			return nil
		},
	}
	return cmd
}

func (s Setup) Run(t *terminal.Terminal) error {
	current, err := s.store.GetSettingsOrDefault()
	if err != nil {
		return rperrors.WrapAndTrace(err)
	}

	t.Vprint(t.Bold("RunPod CLI setup\n"))

	apiKey, err := s.promptAPIKey(t, current.APIKey)
	if err != nil {
		return rperrors.WrapAndTrace(err)
	}

	s.store.UseAPIKey(apiKey)
	sp := t.NewSpinner("Validating API key")
	sp.Start()
	gpuTypes, err := s.store.GetGPUTypes()
	sp.Stop()
	if err != nil {
		return rperrors.WrapAndTrace(err, "validating API key")
	}
	t.Vprint(t.Green("API key is valid"))

	gpuType, err := s.promptGPUType(current.GPUType, gpuTypes)
	if err != nil {
		return rperrors.WrapAndTrace(err)
	}

	image, err := s.prompter.Prompt(terminal.PromptContent{
		Label:    "Docker image:",
		Default:  current.DockerImage,
		ErrorMsg: "a docker image is required",
	})
	if err != nil {
		return rperrors.WrapAndTrace(err)
	}

	volumeID, err := s.prompter.Prompt(terminal.PromptContent{
		Label:      "Network volume id (optional):",
		Default:    current.VolumeID.OrElse(""),
		AllowEmpty: true,
	})
	if err != nil {
		return rperrors.WrapAndTrace(err)
	}

	script, err := s.promptSetupScript(current.SetupScript.OrElse(""))
	if err != nil {
		return rperrors.WrapAndTrace(err)
	}

	autoSSH, err := s.prompter.Confirm("Configure ssh automatically after 'runpod up'", current.AutoSSH)
	if err != nil {
		return rperrors.WrapAndTrace(err)
	}

	current.APIKey = apiKey
	current.GPUType = gpuType
	current.DockerImage = image
	current.VolumeID = settings.OptionalString(volumeID)
	current.SetupScript = settings.OptionalString(script)
	current.AutoSSH = autoSSH

	err = s.store.SaveSettings(current)
	if err != nil {
		return rperrors.WrapAndTrace(err)
	}
	path, err := s.store.GetSettingsFilePath()
	if err != nil {
		return rperrors.WrapAndTrace(err)
	}
	t.Vprint(t.Green("\nConfiguration saved to %s", path))
	t.Vprint("Run 'runpod up' to start a pod")
	return nil
}

func (s Setup) promptAPIKey(t *terminal.Terminal, existing string) (string, error) {
	if existing == "" {
		open, err := s.prompter.Confirm("Open the RunPod console to create an API key", true)
		if err != nil {
			return "", rperrors.WrapAndTrace(err)
		}
		if open {
			if err := s.openURL(s.apiKeysURL); err != nil {
				t.Warn("could not open a browser: %s", err.Error())
			}
		}
		t.Vprintf("Create an API key at %s\n", t.Blue(s.apiKeysURL))
	}
	apiKey, err := s.prompter.Prompt(terminal.PromptContent{
		Label:    "RunPod API key:",
		Default:  existing,
		ErrorMsg: "an API key is required",
		Mask:     true,
	})
	if err != nil {
		return "", rperrors.WrapAndTrace(err)
	}
	return apiKey, nil
}

// promptGPUType offers the catalog sorted by memory and falls back to free
// text when the catalog is empty.
func (s Setup) promptGPUType(existing string, gpuTypes []entity.GPUType) (string, error) {
	if len(gpuTypes) == 0 {
		gpuType, err := s.prompter.Prompt(terminal.PromptContent{
			Label:    "GPU type:",
			Default:  existing,
			ErrorMsg: "a GPU type is required",
		})
		if err != nil {
			return "", rperrors.WrapAndTrace(err)
		}
		return gpuType, nil
	}

	sorted := append([]entity.GPUType(nil), gpuTypes...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].MemoryInGb < sorted[j].MemoryInGb
	})
	labels := lo.Map(sorted, func(g entity.GPUType, _ int) string { return GPUTypeLabel(g) })
	byLabel := lo.SliceToMap(sorted, func(g entity.GPUType) (string, string) { return GPUTypeLabel(g), g.ID })

	defaultLabel := ""
	if g, ok := lo.Find(sorted, func(g entity.GPUType) bool { return g.ID == existing }); ok {
		defaultLabel = GPUTypeLabel(g)
	}

	label, err := s.prompter.Select(terminal.PromptSelectContent{
		Label:   "GPU type",
		Items:   labels,
		Default: defaultLabel,
	})
	if err != nil {
		return "", rperrors.WrapAndTrace(err)
	}
	id, ok := byLabel[label]
	if !ok {
		return "", rperrors.Errorf("unknown GPU type %q", label)
	}
	return id, nil
}

func GPUTypeLabel(g entity.GPUType) string {
	label := fmt.Sprintf("%s (%dGB)", g.ID, g.MemoryInGb)
	if price := g.GetPricePerHour(); price > 0 {
		label += fmt.Sprintf(" $%.2f/hr", price)
	}
	return label
}

func (s Setup) promptSetupScript(existing string) (string, error) {
	script, err := s.prompter.Prompt(terminal.PromptContent{
		Label:      "Setup script to run on new pods (optional):",
		Default:    existing,
		AllowEmpty: true,
		Validate: func(input string) error {
			if input == "" {
				return nil
			}
			_, err := s.resolveScript(input)
			return err
		},
	})
	if err != nil {
		return "", rperrors.WrapAndTrace(err)
	}
	if script == "" {
		return "", nil
	}
	resolved, err := s.resolveScript(script)
	if err != nil {
		return "", rperrors.WrapAndTrace(err)
	}
	return resolved, nil
}

func (s Setup) resolveScript(path string) (string, error) {
	abs, err := s.store.AbsPath(path)
	if err != nil {
		return "", rperrors.WrapAndTrace(err)
	}
	exists, err := s.store.FileExists(abs)
	if err != nil {
		return "", rperrors.WrapAndTrace(err)
	}
	if !exists {
		return "", rperrors.NewValidationError(fmt.Sprintf("script not found: %s", abs))
	}
	return abs, nil
}
