package scan

import (
	"fmt"
	"os"
)

// validateScanArgs validates the arguments provided to the scan command and
// records the target path on the options.
func validateScanArgs(allArgumentsScan *RunOptionsScan, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("a project path must be specified")
	}
	if len(args) > 1 {
		return fmt.Errorf("only one project path may be specified")
	}

	targetPath := args[0]
	info, err := os.Stat(targetPath)
	if os.IsNotExist(err) {
		return fmt.Errorf("the project path does not exist: %v", targetPath)
	}
	if err == nil && !info.IsDir() {
		return fmt.Errorf("the project path is not a directory: %v", targetPath)
	}

	allArgumentsScan.ProjectPath = targetPath
	return nil
}
