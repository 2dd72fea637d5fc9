package validate

import (
	"fmt"

	"github.com/geoffwhittington/devici-mcp/pkg/shared/files"
)

// validateArgs validates the arguments provided to the validate command.
func validateArgs(allArgumentsValidate *RunOptionsValidate, args []string) error {
	if len(args) > 1 {
		return fmt.Errorf("only one OTM file may be specified")
	}
	if len(args) == 1 {
		if allArgumentsValidate.InputFile != "" {
			return fmt.Errorf("you cannot use an 'input-file' flag and a file path at the same time")
		}
		allArgumentsValidate.InputFile = args[0]
	}
	if allArgumentsValidate.InputFile == "" {
		return fmt.Errorf("either 'input-file' flag or a file path must be specified")
	}

	if err := files.ValidatePath(allArgumentsValidate.InputFile); err != nil {
		return fmt.Errorf("invalid OTM file: %w", err)
	}
	return nil
}
