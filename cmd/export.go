package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/iksnae/newschat/internal"
	"github.com/iksnae/newschat/internal/export"
	"github.com/spf13/cobra"
)

var (
	format     string
	outputPath string
)

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the current session transcript",
	Long: `Export the current session's transcript in one of several formats
(jsonl, md, yaml, json).

The transcript is loaded from the backend. Without --output it is written to
standard output.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		exporter, err := export.NewExporter(format)
		if err != nil {
			return err
		}

		session, err := startChatSession(cmd.Context())
		if err != nil {
			return err
		}
		defer session.Close()

		conv := session.ctrl.Conversation()

		if outputPath == "" {
			if err := exporter.Export(&conv, cmd.OutOrStdout()); err != nil {
				return &internal.ExportError{Format: format, Path: "stdout", Err: err}
			}
			return nil
		}

		path := exportPath(outputPath, export.FileName(conv.SessionID, exporter))
		if err := writeExport(exporter, &conv, path); err != nil {
			return &internal.ExportError{Format: format, Path: path, Err: err}
		}

		internal.PrintSuccess(cmd.ErrOrStderr(), fmt.Sprintf("Exported %d turn(s) of session %s to %s", len(conv.Turns), conv.SessionID, path))
		return nil
	},
}

// exportPath places name inside output when output is a directory
func exportPath(output, name string) string {
	if info, err := os.Stat(output); err == nil && info.IsDir() {
		return filepath.Join(output, name)
	}
	return output
}

func writeExport(exporter export.Exporter, conv *internal.Conversation, path string) (err error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	return exporter.Export(conv, file)
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVarP(&format, "format", "f", "jsonl", "Export format (jsonl, md, yaml, json)")
	exportCmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file (default stdout)")
}
