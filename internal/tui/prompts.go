package tui

import (
	"errors"
	"fmt"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"

	"gitstack.dev/gitstack/internal/utils"
)

// ErrInteractiveDisabled is returned when a prompt is needed but stdin is not
// a terminal or GITSTACK_NO_INTERACTIVE is set
var ErrInteractiveDisabled = errors.New("interactive prompts are disabled")

// ErrCanceled is returned when the user interrupts a prompt
var ErrCanceled = errors.New("canceled")

// PromptConfirm asks a yes/no question
func PromptConfirm(message string, defaultValue bool) (bool, error) {
	if !utils.IsInteractive() {
		return false, ErrInteractiveDisabled
	}

	answer := defaultValue
	prompt := &survey.Confirm{
		Message: message,
		Default: defaultValue,
	}
	if err := survey.AskOne(prompt, &answer); err != nil {
		return false, promptError(err)
	}
	return answer, nil
}

// PromptInput asks for a line of text, validated by validate when set
func PromptInput(message, defaultValue string, validate func(string) error) (string, error) {
	if !utils.IsInteractive() {
		return "", ErrInteractiveDisabled
	}

	var answer string
	prompt := &survey.Input{
		Message: message,
		Default: defaultValue,
	}
	var opts []survey.AskOpt
	if validate != nil {
		opts = append(opts, survey.WithValidator(func(ans interface{}) error {
			s, ok := ans.(string)
			if !ok {
				return fmt.Errorf("expected text")
			}
			return validate(s)
		}))
	}
	if err := survey.AskOne(prompt, &answer, opts...); err != nil {
		return "", promptError(err)
	}
	return answer, nil
}

func promptError(err error) error {
	if errors.Is(err, terminal.InterruptErr) {
		return ErrCanceled
	}
	return err
}
