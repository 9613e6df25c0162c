package terminal

import (
	"errors"
	"strings"

	"github.com/manifoldco/promptui"
	rperrors "github.com/runpod-tools/runpod-cli/pkg/errors"
)

type PromptContent struct {
	Label    string
	Default  string
	ErrorMsg string
	// Mask hides the typed value, for secrets.
	Mask bool
	// AllowEmpty accepts an empty answer instead of re-prompting.
	AllowEmpty bool
	Validate   func(string) error
}

type PromptSelectContent struct {
	Label string
	Items []string
	// Default is preselected when present in Items.
	Default string
}

// Prompter asks the user for input. Commands depend on it instead of on
// promptui directly.
type Prompter interface {
	Prompt(pc PromptContent) (string, error)
	Select(pc PromptSelectContent) (string, error)
	Confirm(label string, defaultYes bool) (bool, error)
}

type PromptUI struct{}

var _ Prompter = PromptUI{}

func (PromptUI) Prompt(pc PromptContent) (string, error) {
	validate := func(input string) error {
		if !pc.AllowEmpty && len(strings.TrimSpace(input)) == 0 {
			msg := pc.ErrorMsg
			if msg == "" {
				msg = "a value is required"
			}
			return errors.New(msg) //nolint:goerr113 // shown inline by promptui
		}
		if pc.Validate != nil {
			return pc.Validate(input)
		}
		return nil
	}

	templates := &promptui.PromptTemplates{
		Prompt:  "{{ . }} ",
		Valid:   "{{ . | green }} ",
		Invalid: "{{ . | yellow }} ",
		Success: "{{ . | bold }} ",
	}

	prompt := promptui.Prompt{
		Label:     pc.Label,
		Templates: templates,
		Validate:  validate,
		Default:   pc.Default,
		AllowEdit: !pc.Mask,
	}
	if pc.Mask {
		prompt.Mask = '*'
	}

	result, err := prompt.Run()
	if err != nil {
		return "", rperrors.WrapAndTrace(err)
	}
	result = strings.TrimSpace(result)
	if result == "" {
		result = pc.Default
	}
	return result, nil
}

func (PromptUI) Select(pc PromptSelectContent) (string, error) {
	cursor := 0
	for i, item := range pc.Items {
		if item == pc.Default {
			cursor = i
			break
		}
	}
	prompt := promptui.Select{
		Label:     pc.Label,
		Items:     pc.Items,
		Size:      10,
		CursorPos: cursor,
		Searcher: func(input string, index int) bool {
			return strings.Contains(strings.ToLower(pc.Items[index]), strings.ToLower(input))
		},
	}

	_, result, err := prompt.Run()
	if err != nil {
		return "", rperrors.WrapAndTrace(err)
	}
	return result, nil
}

func (PromptUI) Confirm(label string, defaultYes bool) (bool, error) {
	def := "n"
	if defaultYes {
		def = "y"
	}
	prompt := promptui.Prompt{
		Label:     label,
		IsConfirm: true,
		Default:   def,
	}
	result, err := prompt.Run()
	if err != nil {
		if errors.Is(err, promptui.ErrAbort) {
			return false, nil
		}
		return false, rperrors.WrapAndTrace(err)
	}
	result = strings.ToLower(strings.TrimSpace(result))
	if result == "" {
		return defaultYes, nil
	}
	return result == "y" || result == "yes", nil
}
