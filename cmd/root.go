package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/geoffwhittington/devici-mcp/cmd/generate"
	"github.com/geoffwhittington/devici-mcp/cmd/scan"
	"github.com/geoffwhittington/devici-mcp/cmd/upload"
	"github.com/geoffwhittington/devici-mcp/cmd/validate"
	"github.com/geoffwhittington/devici-mcp/cmd/version"
	"github.com/geoffwhittington/devici-mcp/pkg/shared/config"
)

var (
	cfgFile   string
	AppConfig *config.Config
	rootCmd   = &cobra.Command{
		Use:                   "devici [command]",
		SilenceUsage:          true,
		DisableFlagsInUseLine: true,
		Short:                 "Devici is a threat modeling companion for the Devici platform.",
		Long: `Devici synthesizes Open Threat Model documents from project descriptions and
	file-system signals, validates them against the platform schema contract,
	repairs what it can, and uploads the result to the Devici platform.
	`,
	}
)

func init() {
	cobra.OnInitialize(initConfig)
	// rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .config.yml)")
	rootCmd.AddCommand(version.NewVersionCmd())
	rootCmd.AddCommand(generate.GenerateCmd)
	rootCmd.AddCommand(scan.ScanCmd)
	rootCmd.AddCommand(validate.ValidateCmd)
	rootCmd.AddCommand(upload.UploadCmd)
}

func Execute() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing command: %v\n", err)
		os.Exit(1)
	}
}

func initConfig() {
	var err error

	if cfgFile == "" {
		cfgFile = "config.yml"
	}
	AppConfig, err = config.LoadConfig(cfgFile)
	if err != nil {
		fmt.Printf("initializing config file function is crashed - %v \n", err)
		os.Exit(1)
	}
	if err := config.ValidateConfig(AppConfig); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	version.Init(AppConfig)
	generate.Init(AppConfig)
	scan.Init(AppConfig)
	validate.Init(AppConfig)
	upload.Init(AppConfig)
}
