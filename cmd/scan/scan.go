package scan

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

// RunOptionsScan holds the arguments for the scan command.
type RunOptionsScan struct {
	ProjectName string
	ProjectPath string
	OutputPath  string
}

// Global variables for configuration and command arguments
var (
	AppConfig        *config.Config
	scanOptions      RunOptionsScan
	exampleScanUsage = `  # Scanning the current folder and generating a threat model from its signals
  devici scan .

  # Scanning a checkout with an explicit project name
  devici scan --name storefront /path/to/my_project

  # Scanning and writing the OTM document to a specific file
  devici scan /path/to/my_project --output /path/to/results/storefront.otm`
)

// ScanCmd represents the scan command.
var ScanCmd = &cobra.Command{
	Use:                   "scan [--name/-n NAME] [--output/-o PATH] PATH",
	SilenceUsage:          true,
	DisableFlagsInUseLine: true,
	Example:               exampleScanUsage,
	Short:                 "Scan a local project and synthesize an OTM threat model from its signals",
	RunE:                  runScanCommand,
}

// Init initializes the global configuration variable.
func Init(cfg *config.Config) {
	AppConfig = cfg
}

// runScanCommand executes the scan command.
func runScanCommand(cmd *cobra.Command, args []string) error {
	if len(args) == 0 && !shared.HasFlags(cmd.Flags()) {
		return cmd.Help()
	}

	logger := logger.NewLogger(AppConfig, "core-scan")

	if err := validateScanArgs(&scanOptions, args); err != nil {
		logger.Error("invalid scan arguments", "error", err)
		return err
	}

	signals := fsscan.Scan(logger, scanOptions.ProjectPath)
	input := signals.Apply(catalog.Input{ProjectName: scanOptions.ProjectName})

	outputPath, err := emitter.ResolveOutputPath(scanOptions.OutputPath, AppConfig.Devici.ResultsFolder, input.ProjectName)
	if err != nil {
		logger.Error("failed to resolve output path", "error", err)
		return err
	}

	pipe := pipeline.New(logger, schema.NewValidator(AppConfig.Schema.Path))
	result, err := pipe.Run(pipeline.Options{Input: input, OutputPath: outputPath})
	if err != nil {
		logger.Error("scan command failed", "error", err)
		return err
	}

	fmt.Println(result.Report.Render())

	if _, err := artifacts.SaveReportJSON(AppConfig, logger, "scan", result.Document.Project.Name, result.Report); err != nil {
		logger.Error("failed to save report", "error", err)
		return err
	}

	if !result.Report.Valid {
		return sharederrors.NewValidationFailedError(len(result.Report.Violations))
	}

	logger.Info("scan command completed successfully", "output", result.OutputFile)
	return nil
}

// Initialize flags for the scan command.
func init() {
	ScanCmd.Flags().BoolP("help", "h", false, "Show help for the scan command.")
	ScanCmd.Flags().StringVarP(&scanOptions.ProjectName, "name", "n", "", "Name of the modeled project. Defaults to a name derived from the scanned folder.")
	ScanCmd.Flags().StringVarP(&scanOptions.OutputPath, "output", "o", "", "Path to the output file or directory where the OTM document will be saved.")
}
