package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"ercsheet/pkg/schema"
	"ercsheet/pkg/sheets"
	"ercsheet/pkg/workbook"
	"ercsheet/pkg/worksheet"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/xuri/excelize/v2"
)

type store interface {
	sheets.CellReadWriter
	sheets.RangeReader
}

// target is either a local workbook or the configured spreadsheet.
type target struct {
	store
	file *excelize.File
}

func (t *target) save() error {
	if t.file == nil {
		return nil
	}
	return t.file.Save()
}

func (t *target) close() {
	if t.file != nil {
		t.file.Close()
	}
}

func openTarget(ctx context.Context, xlsxPath string) (*target, *schema.Schema, error) {
	if xlsxPath != "" {
		s, err := loadSchema(nil)
		if err != nil {
			return nil, nil, err
		}
		f, err := workbook.Open(xlsxPath)
		if err != nil {
			return nil, nil, err
		}
		return &target{store: workbook.Sheet{File: f, Name: s.SheetName()}, file: f}, s, nil
	}
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	s, err := loadSchema(cfg)
	if err != nil {
		return nil, nil, err
	}
	client, err := newClient(ctx, cfg, s)
	if err != nil {
		return nil, nil, err
	}
	return &target{store: client}, s, nil
}

func output(path string) (io.WriteCloser, error) {
	if path == "" || path == "-" {
		return nopCloser{os.Stdout}, nil
	}
	return os.Create(path)
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newSchemaCmd() *cobra.Command {
	var section, format string
	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Print the cell layout",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSchema(nil)
			if err != nil {
				return err
			}
			switch format {
			case "yaml":
				return s.WriteDefinition(cmd.OutOrStdout())
			case "table":
			default:
				return fmt.Errorf("invalid format: %s (must be table or yaml)", format)
			}
			mappings := s.Mappings()
			if section != "" {
				mappings = s.SectionMappings(section)
				if len(mappings) == 0 {
					return fmt.Errorf("unknown section %q", section)
				}
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "CELL\tKIND\tTYPE\tFIELD\tNOTE")
			for _, m := range mappings {
				note := m.Description
				if m.MappingType != schema.DataValue {
					note = m.Label
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", m.Cell, m.MappingType, m.DataType, m.FieldName, note)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVar(&section, "section", "", "Only list one section")
	cmd.Flags().StringVar(&format, "format", "table", "Output format: table, yaml")
	return cmd
}

func newPullCmd() *cobra.Command {
	var xlsxPath, outPath, rng string
	var strict bool
	cmd := &cobra.Command{
		Use:   "pull",
		Short: "Extract a record from the worksheet as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			t, s, err := openTarget(ctx, xlsxPath)
			if err != nil {
				return err
			}
			defer t.close()

			var ex *schema.Extraction
			if rng != "" {
				ex, err = worksheet.PullRange(ctx, t, s, rng)
			} else {
				ex, err = worksheet.Pull(ctx, t, s)
			}
			if err != nil {
				return err
			}
			if strict && !ex.OK() {
				return fmt.Errorf("%d fields could not be parsed", len(ex.Errors))
			}
			out, err := output(outPath)
			if err != nil {
				return err
			}
			defer out.Close()
			return writeJSON(out, ex.Record)
		},
	}
	cmd.Flags().StringVar(&xlsxPath, "xlsx", "", "Read a local xlsx file instead of Google Sheets")
	cmd.Flags().StringVar(&rng, "range", "", "Read one block such as A1:K70 instead of cell by cell")
	cmd.Flags().StringVarP(&outPath, "output", "o", "", "Output file path (default: stdout)")
	cmd.Flags().BoolVar(&strict, "strict", false, "Fail if any field cannot be parsed")
	return cmd
}

func newPushCmd() *cobra.Command {
	var xlsxPath string
	var strict bool
	cmd := &cobra.Command{
		Use:   "push <record.json>",
		Short: "Populate the worksheet from a JSON record",
		Long: `Populate the worksheet from a JSON object of field names to values.
Fields left out are not touched; null clears the cell. Use "-" to read stdin.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			obj, err := readRecord(args[0])
			if err != nil {
				return err
			}
			t, s, err := openTarget(ctx, xlsxPath)
			if err != nil {
				return err
			}
			defer t.close()

			dr, err := s.DecodeRecord(obj)
			if err != nil {
				return err
			}
			for _, fe := range dr.Errors {
				log.WithFields(log.Fields{"field": fe.FieldName, "cell": fe.Cell}).Warnf("Not writing value %v: %v", fe.Raw, fe.Err)
			}
			if strict && !dr.OK() {
				return fmt.Errorf("%d fields could not be decoded", len(dr.Errors))
			}
			pop, err := worksheet.Push(ctx, t, s, dr.Record)
			if err != nil {
				return err
			}
			if err := t.save(); err != nil {
				return fmt.Errorf("failed to save %s: %w", xlsxPath, err)
			}
			if failed := len(dr.Errors) + len(pop.Errors); failed > 0 {
				log.Warnf("%d fields were not written", failed)
			}
			if strict && !pop.OK() {
				return fmt.Errorf("%d fields were not written", len(pop.Errors))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&xlsxPath, "xlsx", "", "Write a local xlsx file instead of Google Sheets")
	cmd.Flags().BoolVar(&strict, "strict", false, "Write nothing if any field cannot be decoded")
	return cmd
}

func readRecord(path string) (map[string]any, error) {
	var r io.Reader = os.Stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}
	dec := json.NewDecoder(r)
	dec.UseNumber()
	var obj map[string]any
	if err := dec.Decode(&obj); err != nil {
		return nil, fmt.Errorf("decode record %s: %w", path, err)
	}
	return obj, nil
}

func newVerifyCmd() *cobra.Command {
	var xlsxPath string
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Check the worksheet's labels and headers against the template",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			t, s, err := openTarget(ctx, xlsxPath)
			if err != nil {
				return err
			}
			defer t.close()

			mismatches, err := worksheet.Verify(ctx, t, s)
			if err != nil {
				return err
			}
			for _, m := range mismatches {
				fmt.Fprintln(cmd.OutOrStdout(), m)
			}
			if len(mismatches) > 0 {
				return fmt.Errorf("%d cells differ from the template", len(mismatches))
			}
			log.Info("Layout matches the template")
			return nil
		},
	}
	cmd.Flags().StringVar(&xlsxPath, "xlsx", "", "Check a local xlsx file instead of Google Sheets")
	return cmd
}

func newTemplateCmd() *cobra.Command {
	var outPath string
	cmd := &cobra.Command{
		Use:   "template",
		Short: "Write a blank worksheet to an xlsx file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSchema(nil)
			if err != nil {
				return err
			}
			f, err := workbook.RenderTemplate(s)
			if err != nil {
				return err
			}
			defer f.Close()
			if err := f.SaveAs(outPath); err != nil {
				return fmt.Errorf("failed to write output: %w", err)
			}
			log.Infof("Wrote blank template to %s", outPath)
			return nil
		},
	}
	cmd.Flags().StringVarP(&outPath, "output", "o", "erc-template.xlsx", "Output file path")
	return cmd
}

func newCopyCmd() *cobra.Command {
	var name, templateID, folderID string
	cmd := &cobra.Command{
		Use:   "copy",
		Short: "Copy the template spreadsheet in Drive and print the new spreadsheet ID",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if templateID == "" {
				templateID = cfg.Store.Google.TemplateFileID
			}
			if folderID == "" {
				folderID = cfg.Store.Google.FolderID
			}
			if templateID == "" {
				return fmt.Errorf("no template configured: set Google.TemplateFileID, ERC_TEMPLATE_FILE_ID or --template")
			}
			s, err := loadSchema(cfg)
			if err != nil {
				return err
			}
			sheetName := s.SheetName()
			if cfg.Store.SheetName != "" {
				sheetName = cfg.Store.SheetName
			}
			client, err := sheets.NewSheetClient(ctx, cfg, sheetName)
			if err != nil {
				return err
			}
			id, err := client.CopyTemplate(ctx, templateID, name, folderID)
			if err != nil {
				return err
			}
			if err := client.WithSpreadsheet(id).EnsureSheetExists(ctx); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), id)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "Name of the new spreadsheet")
	cmd.Flags().StringVar(&templateID, "template", "", "Drive file ID of the template (default: from config)")
	cmd.Flags().StringVar(&folderID, "folder", "", "Drive folder for the copy (default: from config)")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}
