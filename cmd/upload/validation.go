package upload

import (
	"fmt"

	"github.com/geoffwhittington/devici-mcp/pkg/shared/files"
)

// validateUploadArgs validates the arguments provided to the upload command.
func validateUploadArgs(allArgumentsUpload *RunOptionsUpload, args []string) error {
	if len(args) > 1 {
		return fmt.Errorf("only one OTM file may be specified")
	}
	if len(args) == 1 {
		if allArgumentsUpload.InputFile != "" {
			return fmt.Errorf("you cannot use an 'input-file' flag and a file path at the same time")
		}
		allArgumentsUpload.InputFile = args[0]
	}
	if allArgumentsUpload.InputFile == "" {
		return fmt.Errorf("either 'input-file' flag or a file path must be specified")
	}

	if err := files.ValidatePath(allArgumentsUpload.InputFile); err != nil {
		return fmt.Errorf("invalid OTM file: %w", err)
	}
	return nil
}
