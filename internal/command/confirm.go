package command

import (
	"errors"
	"fmt"

	"github.com/manifoldco/promptui"

	"github.com/n1rna/fossflow-cli/internal/shell"
)

// confirm asks a yes/no question. Answering no (or Ctrl-C) is not an error.
func confirm(label string) (bool, error) {
	p := promptui.Prompt{
		Label:     label,
		IsConfirm: true,
	}
	if _, err := p.Run(); err != nil {
		if errors.Is(err, promptui.ErrAbort) || errors.Is(err, promptui.ErrInterrupt) {
			return false, nil
		}
		return false, fmt.Errorf("confirmation prompt: %w", err)
	}
	return true, nil
}

// resolvePending settles a pending shell action, prompting unless yes is set.
// It reports whether the action ran.
func resolvePending(sh *shell.Shell, pending *shell.PendingAction, yes bool) (bool, error) {
	if pending == nil {
		return true, nil
	}

	approve := yes
	if !approve {
		var err error
		if approve, err = confirm(pending.Prompt); err != nil {
			sh.Resolve(false)
			return false, err
		}
	}

	if err := sh.Resolve(approve); err != nil {
		return false, err
	}
	return approve, nil
}
