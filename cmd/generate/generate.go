package generate

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/geoffwhittington/devici-mcp/internal/catalog"
	"github.com/geoffwhittington/devici-mcp/internal/emitter"
	"github.com/geoffwhittington/devici-mcp/internal/fsscan"
	"github.com/geoffwhittington/devici-mcp/internal/pipeline"
	"github.com/geoffwhittington/devici-mcp/internal/schema"
	"github.com/geoffwhittington/devici-mcp/pkg/shared"
	"github.com/geoffwhittington/devici-mcp/pkg/shared/artifacts"
	"github.com/geoffwhittington/devici-mcp/pkg/shared/config"
	sharederrors "github.com/geoffwhittington/devici-mcp/pkg/shared/errors"
	"github.com/geoffwhittington/devici-mcp/pkg/shared/logger"
)

// RunOptionsGenerate holds the arguments for the generate command.
type RunOptionsGenerate struct {
	ProjectName string
	Description string
	TechStack   string
	Owner       string
	ProjectPath string
	OutputPath  string
}

// Global variables for configuration and command arguments
var (
	AppConfig            *config.Config
	generateOptions      RunOptionsGenerate
	exampleGenerateUsage = `  # Generating a threat model from a project description
  devici generate --description "React storefront with a Node.js API and PostgreSQL"

  # Generating with an explicit project name and technology stack
  devici generate --name storefront --description "online shop" --tech-stack "react, nodejs, postgres"

  # Mixing in file-system signals from a local checkout
  devici generate --description "payments service" --project-path /path/to/my_project

  # Writing the OTM document to a specific file
  devici generate --description "payments service" --output /path/to/results/payments.otm`
)

// GenerateCmd represents the generate command.
var GenerateCmd = &cobra.Command{
	Use:                   "generate --description/-d TEXT [--name/-n NAME] [--tech-stack TEXT] [--owner OWNER] [--project-path PATH] [--output/-o PATH]",
	SilenceUsage:          true,
	DisableFlagsInUseLine: true,
	Example:               exampleGenerateUsage,
	Short:                 "Synthesize an OTM threat model document from a project description",
	RunE:                  runGenerateCommand,
}

// Init initializes the global configuration variable.
func Init(cfg *config.Config) {
	AppConfig = cfg
}

// runGenerateCommand executes the generate command.
func runGenerateCommand(cmd *cobra.Command, args []string) error {
	if len(args) == 0 && !shared.HasFlags(cmd.Flags()) {
		return cmd.Help()
	}

	logger := logger.NewLogger(AppConfig, "core-generate")

	if err := validateGenerateArgs(&generateOptions); err != nil {
		logger.Error("invalid generate arguments", "error", err)
		return err
	}

	input := catalog.Input{
		ProjectName: generateOptions.ProjectName,
		Description: generateOptions.Description,
		TechStack:   generateOptions.TechStack,
		Owner:       generateOptions.Owner,
	}
	if generateOptions.ProjectPath != "" {
		input = fsscan.Scan(logger, generateOptions.ProjectPath).Apply(input)
	}

	outputPath, err := emitter.ResolveOutputPath(generateOptions.OutputPath, AppConfig.Devici.ResultsFolder, input.ProjectName)
	if err != nil {
		logger.Error("failed to resolve output path", "error", err)
		return err
	}

	pipe := pipeline.New(logger, schema.NewValidator(AppConfig.Schema.Path))
	result, err := pipe.Run(pipeline.Options{Input: input, OutputPath: outputPath})
	if err != nil {
		logger.Error("generate command failed", "error", err)
		return err
	}

	fmt.Println(result.Report.Render())

	if _, err := artifacts.SaveReportJSON(AppConfig, logger, "generate", result.Document.Project.Name, result.Report); err != nil {
		logger.Error("failed to save report", "error", err)
		return err
	}

	if !result.Report.Valid {
		return sharederrors.NewValidationFailedError(len(result.Report.Violations))
	}

	logger.Info("generate command completed successfully", "output", result.OutputFile)
	return nil
}

// Initialize flags for the generate command.
func init() {
	GenerateCmd.Flags().StringVarP(&generateOptions.Description, "description", "d", "", "Free-text description of the project to model.")
	GenerateCmd.Flags().BoolP("help", "h", false, "Show help for the generate command.")
	GenerateCmd.Flags().StringVarP(&generateOptions.ProjectName, "name", "n", "", "Name of the modeled project.")
	GenerateCmd.Flags().StringVarP(&generateOptions.OutputPath, "output", "o", "", "Path to the output file or directory where the OTM document will be saved.")
	GenerateCmd.Flags().StringVar(&generateOptions.Owner, "owner", "", "Owner recorded on the project.")
	GenerateCmd.Flags().StringVar(&generateOptions.ProjectPath, "project-path", "", "Path to a local project checkout to collect file-system signals from.")
	GenerateCmd.Flags().StringVar(&generateOptions.TechStack, "tech-stack", "", "Technology stack hints (e.g. 'react, nodejs, postgres').")
}
