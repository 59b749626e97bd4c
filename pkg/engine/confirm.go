package engine

import (
	"strings"

	"github.com/manifoldco/promptui"
)

// PromptConfirmer asks yes/no questions on the terminal.
type PromptConfirmer struct{}

// Confirm returns true when the user answers yes. Declining is not an
// error; only terminal failures are.
func (PromptConfirmer) Confirm(prompt string) (bool, error) {
	p := promptui.Prompt{
		Label:     prompt,
		IsConfirm: true,
	}
	answer, err := p.Run()
	if err != nil {
		// promptui reports a plain "no" as ErrAbort.
		if err == promptui.ErrAbort || err == promptui.ErrInterrupt || err == promptui.ErrEOF {
			return false, nil
		}
		return false, err
	}
	return strings.EqualFold(answer, "y") || answer == "", nil
}
