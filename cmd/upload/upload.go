package upload

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/geoffwhittington/devici-mcp/internal/otm"
	"github.com/geoffwhittington/devici-mcp/internal/platform"
	"github.com/geoffwhittington/devici-mcp/pkg/shared"
	"github.com/geoffwhittington/devici-mcp/pkg/shared/artifacts"
	"github.com/geoffwhittington/devici-mcp/pkg/shared/config"
	"github.com/geoffwhittington/devici-mcp/pkg/shared/logger"
)

// RunOptionsUpload holds the arguments for the upload command.
type RunOptionsUpload struct {
	InputFile  string
	Collection string
}

// Global variables for configuration and command arguments
var (
	AppConfig          *config.Config
	uploadOptions      RunOptionsUpload
	exampleUploadUsage = `  # Uploading an OTM document into the configured default collection
  devici upload /path/to/storefront.otm

  # Uploading into a named collection, creating it when missing
  devici upload --collection "Security Review" /path/to/storefront.otm

  # Uploading with the input file flag
  devici upload --input-file /path/to/storefront.otm`
)

// UploadCmd represents the upload command.
var UploadCmd = &cobra.Command{
	Use:                   "upload [--collection/-c TITLE] {--input-file/-i PATH | PATH}",
	SilenceUsage:          true,
	DisableFlagsInUseLine: true,
	Example:               exampleUploadUsage,
	Short:                 "Upload an OTM document to the Devici platform",
	RunE:                  runUploadCommand,
}

// Init initializes the global configuration variable.
func Init(cfg *config.Config) {
	AppConfig = cfg
}

// runUploadCommand executes the upload command.
func runUploadCommand(cmd *cobra.Command, args []string) error {
	if len(args) == 0 && !shared.HasFlags(cmd.Flags()) {
		return cmd.Help()
	}

	logger := logger.NewLogger(AppConfig, "core-upload")

	if err := validateUploadArgs(&uploadOptions, args); err != nil {
		logger.Error("invalid upload arguments", "error", err)
		return err
	}

	data, err := os.ReadFile(uploadOptions.InputFile)
	if err != nil {
		logger.Error("failed to read OTM file", "error", err)
		return err
	}
	doc, err := otm.Load(data)
	if err != nil {
		logger.Error("failed to parse OTM file", "path", uploadOptions.InputFile, "error", err)
		return err
	}

	clientID, clientSecret, err := config.Credentials()
	if err != nil {
		logger.Error("missing platform credentials", "error", err)
		return err
	}

	collectionTitle := uploadOptions.Collection
	if collectionTitle == "" {
		collectionTitle = AppConfig.Devici.Collection
	}

	client := platform.New(AppConfig, logger)
	if err := client.Authenticate(clientID, clientSecret); err != nil {
		logger.Error("authentication against the platform failed", "error", err)
		return err
	}

	collection, err := client.EnsureCollection(collectionTitle)
	if err != nil {
		logger.Error("failed to resolve collection", "collection", collectionTitle, "error", err)
		return err
	}

	summary, err := client.ImportOTM(collection.ID, doc)
	if err != nil {
		logger.Error("upload command failed", "error", err)
		return err
	}

	fmt.Printf("Threat model '%s' imported into collection '%s'\n", summary.ThreatModelID, collection.Title)
	fmt.Printf("Created: %d components, %d threats, %d mitigations\n",
		summary.ComponentsCreated, summary.ThreatsCreated, summary.MitigationsCreated)
	for _, importErr := range summary.Errors {
		fmt.Printf("  error: %s\n", importErr)
	}

	if _, err := artifacts.SaveReportJSON(AppConfig, logger, "upload", doc.Project.Name, summary); err != nil {
		logger.Error("failed to save report", "error", err)
		return err
	}

	if len(summary.Errors) > 0 {
		logger.Warn("upload command completed with errors", "errors", len(summary.Errors))
		return nil
	}

	logger.Info("upload command completed successfully", "threat_model", summary.ThreatModelID)
	return nil
}

// Initialize flags for the upload command.
func init() {
	UploadCmd.Flags().StringVarP(&uploadOptions.Collection, "collection", "c", "", "Title of the collection the threat model is imported into. Defaults to the configured collection.")
	UploadCmd.Flags().BoolP("help", "h", false, "Show help for the upload command.")
	UploadCmd.Flags().StringVarP(&uploadOptions.InputFile, "input-file", "i", "", "Path to the OTM document to upload.")
}
