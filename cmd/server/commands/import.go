package commands

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/sewasangat/attendance/pkg/clients/sheetsclient"
	"github.com/sewasangat/attendance/pkg/core/importer"
	"github.com/sewasangat/attendance/pkg/core/services"
)

// ImportCmd creates the import command
func ImportCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import [file]",
		Short: "Import sewadars from a CSV/XLSX file or the configured Google Sheet",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fromSheet, _ := cmd.Flags().GetBool("sheet")

			if err := app.Database.RunMigrations(app.Ctx); err != nil {
				return err
			}

			jobID := uuid.NewString()

			var result *importer.Result
			var err error
			switch {
			case fromSheet:
				result, err = importFromSheet(app, jobID)
			case len(args) == 1:
				result, err = importFromFile(app, jobID, args[0])
			default:
				return fmt.Errorf("provide a file path or use --sheet")
			}
			if err != nil {
				return err
			}

			// Display results
			fmt.Printf("\n✓ Import completed!\n\n")
			fmt.Printf("Job ID:    %s\n", jobID)
			fmt.Printf("Total:     %d\n", result.TotalRows)
			fmt.Printf("Created:   %d\n", result.Created)
			fmt.Printf("Updated:   %d\n", result.Updated)
			fmt.Printf("Errored:   %d\n\n", len(result.Errors))

			if len(result.Errors) > 0 {
				fmt.Printf("Row errors:\n")
				for _, re := range result.Errors {
					fmt.Printf("  row %d: %s\n", re.Row, re.Message)
				}
				fmt.Println()
			}

			return nil
		},
	}

	cmd.Flags().Bool("sheet", false, "Import from the sheet configured under importSheet")

	return cmd
}

func importFromFile(app *AppContext, jobID, path string) (*importer.Result, error) {
	format, err := services.FormatForFilename(path)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open import file: %w", err)
	}
	defer file.Close()

	return services.ImportSewadars(app.Ctx, app.Database, app.Jobs, app.Logger, jobID, format, file)
}

func importFromSheet(app *AppContext, jobID string) (*importer.Result, error) {
	if app.Cfg.ImportSheet == nil {
		return nil, fmt.Errorf("importSheet is not configured")
	}
	if app.Cfg.GoogleCredentialsFile == "" {
		return nil, fmt.Errorf("googleCredentialsFile is not configured")
	}

	client, err := sheetsclient.NewClient(app.Ctx, app.Cfg.GoogleCredentialsFile)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets client: %w", err)
	}

	return services.ImportSewadarsFromSheet(
		app.Ctx,
		app.Database,
		app.Jobs,
		client,
		app.Logger,
		jobID,
		app.Cfg.ImportSheet.SpreadsheetID,
		app.Cfg.ImportSheet.Tab,
	)
}
