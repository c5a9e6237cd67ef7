package main

import (
	"context"
	"fmt"
	"os"

	"ercsheet/pkg/config"
	"ercsheet/pkg/erc"
	"ercsheet/pkg/schema"
	"ercsheet/pkg/sheets"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	configPath string
	schemaPath string
	verbose    bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "ercsheet",
		Short: "Read and write the ERC worksheet",
		Long: `ercsheet extracts typed records from the Employee Retention Credit worksheet
and populates it from records, against Google Sheets or a local xlsx file.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				log.SetLevel(log.DebugLevel)
			}
			log.SetFormatter(&log.TextFormatter{
				FullTimestamp: true,
			})
		},
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultFilename, "Config file path")
	rootCmd.PersistentFlags().StringVar(&schemaPath, "schema", "", "YAML schema definition (default: built in ERC layout)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose logging")

	rootCmd.AddCommand(
		newSchemaCmd(),
		newPullCmd(),
		newPushCmd(),
		newVerifyCmd(),
		newTemplateCmd(),
		newCopyCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.New(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config %s: %w", configPath, err)
	}
	return cfg, nil
}

// loadSchema picks the --schema flag, then the config's SchemaFile, then the
// built in template. cfg may be nil.
func loadSchema(cfg *config.Config) (*schema.Schema, error) {
	path := schemaPath
	if path == "" && cfg != nil {
		path = cfg.Store.SchemaFile
	}
	if path == "" {
		return erc.Template(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	s, err := schema.LoadDefinition(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	log.Debugf("Loaded schema %s with %d data cells", path, len(s.DataValueCells()))
	return s, nil
}

func newClient(ctx context.Context, cfg *config.Config, s *schema.Schema) (*sheets.SheetClient, error) {
	if cfg.Store.Google.SpreadsheetID == "" {
		return nil, fmt.Errorf("no spreadsheet configured: set Google.SpreadsheetID or SPREADSHEET_ID")
	}
	sheetName := s.SheetName()
	if cfg.Store.SheetName != "" {
		sheetName = cfg.Store.SheetName
	}
	return sheets.NewSheetClient(ctx, cfg, sheetName)
}
