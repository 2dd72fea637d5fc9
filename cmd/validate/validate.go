package validate

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/geoffwhittington/devici-mcp/internal/emitter"
	"github.com/geoffwhittington/devici-mcp/internal/otm"
	"github.com/geoffwhittington/devici-mcp/internal/repair"
	"github.com/geoffwhittington/devici-mcp/internal/schema"
	"github.com/geoffwhittington/devici-mcp/pkg/shared"
	"github.com/geoffwhittington/devici-mcp/pkg/shared/artifacts"
	"github.com/geoffwhittington/devici-mcp/pkg/shared/config"
	sharederrors "github.com/geoffwhittington/devici-mcp/pkg/shared/errors"
	"github.com/geoffwhittington/devici-mcp/pkg/shared/logger"
)

// RunOptionsValidate holds the arguments for the validate command.
type RunOptionsValidate struct {
	InputFile  string
	Repair     bool
	OutputPath string
}

// Global variables for configuration and command arguments
var (
	AppConfig            *config.Config
	validateOptions      RunOptionsValidate
	exampleValidateUsage = `  # Validating an existing OTM document against the schema contract
  devici validate /path/to/storefront.otm

  # Validating and repairing in place
  devici validate --repair /path/to/storefront.otm

  # Repairing into a separate file, leaving the original untouched
  devici validate --repair --output /path/to/storefront-fixed.otm /path/to/storefront.otm`
)

// ValidateCmd represents the validate command.
var ValidateCmd = &cobra.Command{
	Use:                   "validate [--repair] [--output/-o PATH] {--input-file/-i PATH | PATH}",
	SilenceUsage:          true,
	DisableFlagsInUseLine: true,
	Example:               exampleValidateUsage,
	Short:                 "Validate an OTM document against the schema contract",
	RunE:                  runValidateCommand,
}

// Init initializes the global configuration variable.
func Init(cfg *config.Config) {
	AppConfig = cfg
}

// runValidateCommand executes the validate command.
func runValidateCommand(cmd *cobra.Command, args []string) error {
	if len(args) == 0 && !shared.HasFlags(cmd.Flags()) {
		return cmd.Help()
	}

	logger := logger.NewLogger(AppConfig, "core-validate")

	if err := validateArgs(&validateOptions, args); err != nil {
		logger.Error("invalid validate arguments", "error", err)
		return err
	}

	data, err := os.ReadFile(validateOptions.InputFile)
	if err != nil {
		logger.Error("failed to read OTM file", "error", err)
		return err
	}
	doc, err := otm.Load(data)
	if err != nil {
		logger.Error("failed to parse OTM file", "path", validateOptions.InputFile, "error", err)
		return err
	}

	validator := schema.NewValidator(AppConfig.Schema.Path)
	result := validator.Validate(doc)

	var fixes []string
	if !result.Valid && validateOptions.Repair {
		logger.Info("schema validation failed, repairing", "violations", len(result.Violations))
		fixes = repair.Apply(doc)
		result = validator.Validate(doc)
		if !result.Valid {
			logger.Warn("document is still invalid after repair", "violations", len(result.Violations))
		}
	}

	var warnings []string
	if result.SchemaUnavailable && validator.Warning() != "" {
		warnings = append(warnings, validator.Warning())
	}

	if validateOptions.OutputPath != "" || len(fixes) > 0 {
		outputPath := validateOptions.OutputPath
		if outputPath == "" {
			outputPath = validateOptions.InputFile
		}
		if err := emitter.WriteDocument(doc, outputPath); err != nil {
			logger.Error("failed to write OTM document", "path", outputPath, "error", err)
			return err
		}
		logger.Info("OTM document written", "path", outputPath)
	}

	report := emitter.NewReport(doc, result, fixes, warnings)
	fmt.Println(report.Render())

	if _, err := artifacts.SaveReportJSON(AppConfig, logger, "validate", doc.Project.Name, report); err != nil {
		logger.Error("failed to save report", "error", err)
		return err
	}

	if !result.Valid {
		return sharederrors.NewValidationFailedError(len(result.Violations))
	}

	logger.Info("validate command completed successfully")
	return nil
}

// Initialize flags for the validate command.
func init() {
	ValidateCmd.Flags().BoolP("help", "h", false, "Show help for the validate command.")
	ValidateCmd.Flags().StringVarP(&validateOptions.InputFile, "input-file", "i", "", "Path to the OTM document to validate.")
	ValidateCmd.Flags().StringVarP(&validateOptions.OutputPath, "output", "o", "", "Path the repaired document is written to. Defaults to rewriting the input file.")
	ValidateCmd.Flags().BoolVar(&validateOptions.Repair, "repair", false, "Apply one repair pass when the document fails validation.")
}
