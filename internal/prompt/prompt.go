// Package prompt asks for missing run parameters on an interactive terminal.
package prompt

import (
	"errors"
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/manifoldco/promptui"

	"github.com/diffsquare/diffsquare/internal/input"
)

// ErrAborted is returned when the user aborts a prompt (Ctrl+C).
var ErrAborted = errors.New("aborted")

// IsAborted returns true if the error indicates the user aborted (Ctrl+C).
func IsAborted(err error) bool {
	return errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrAbort) || errors.Is(err, ErrAborted)
}

func wrapError(err error) error {
	if err == nil {
		return nil
	}
	if IsAborted(err) {
		return ErrAborted
	}
	return err
}

// InputWithValidation prompts for text input with custom validation.
func InputWithValidation(label, defaultValue string, validate func(string) error) (string, error) {
	prompt := promptui.Prompt{
		Label:    label,
		Default:  defaultValue,
		Validate: validate,
	}

	result, err := prompt.Run()
	return result, wrapError(err)
}

// Iteration asks for the starting iteration. Any integer is accepted;
// values below 1 start from the beginning.
func Iteration(defaultValue string) (*big.Int, error) {
	result, err := InputWithValidation("Enter the starting iteration", defaultValue, validateIteration)
	if err != nil {
		return nil, err
	}
	return input.ParseInteger(result)
}

// Precision asks for the number of digits after the point in scientific
// notation.
func Precision(defaultValue int) (int, error) {
	result, err := InputWithValidation("Enter the verbose precision", strconv.Itoa(defaultValue), validatePrecision)
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(strings.TrimSpace(result))
}

// Confirm prompts the user for yes/no confirmation.
func Confirm(label string) (bool, error) {
	prompt := promptui.Prompt{
		Label:     label,
		IsConfirm: true,
	}

	_, err := prompt.Run()
	if err != nil {
		// promptui returns ErrAbort for "n"
		if errors.Is(err, promptui.ErrAbort) {
			return false, nil
		}
		return false, wrapError(err)
	}
	return true, nil
}

func validateIteration(s string) error {
	if _, err := input.ParseInteger(s); err != nil {
		return fmt.Errorf("must be an integer (decimal, 0x hex, or 1e6 form)")
	}
	return nil
}

func validatePrecision(s string) error {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("must be a valid integer")
	}
	if v < 0 || v > 10000 {
		return fmt.Errorf("must be between 0 and 10000")
	}
	return nil
}
