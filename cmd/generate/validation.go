package generate

import (
	"fmt"
	"os"
)

// validateGenerateArgs validates the arguments provided to the generate command.
func validateGenerateArgs(allArgumentsGenerate *RunOptionsGenerate) error {
	if allArgumentsGenerate.Description == "" && allArgumentsGenerate.TechStack == "" && allArgumentsGenerate.ProjectPath == "" {
		return fmt.Errorf("at least one of 'description', 'tech-stack' or 'project-path' flags must be specified")
	}

	if allArgumentsGenerate.ProjectPath != "" {
		info, err := os.Stat(allArgumentsGenerate.ProjectPath)
		if os.IsNotExist(err) {
			return fmt.Errorf("the project path does not exist: %v", allArgumentsGenerate.ProjectPath)
		}
		if err == nil && !info.IsDir() {
			return fmt.Errorf("the project path is not a directory: %v", allArgumentsGenerate.ProjectPath)
		}
	}

	return nil
}
