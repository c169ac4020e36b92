package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/Joseda-hg/taskminder/internal/model"
	"github.com/Joseda-hg/taskminder/internal/persist"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func exportCmd(flags *globalFlags) *cobra.Command {
	var format, output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write every task as JSON or YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context(), flags, cmd.ErrOrStderr(), false)
			if err != nil {
				return err
			}
			defer a.Close()

			data, err := encodeExport(a.store.Tasks(), format)
			if err != nil {
				return err
			}
			if output == "" || output == "-" {
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return fmt.Errorf("write export: %w", err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Exported to %s\n", output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "json", "output format: json or yaml")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	return cmd
}

func encodeExport(tasks []model.Task, format string) ([]byte, error) {
	switch strings.ToLower(format) {
	case "json":
		data, err := persist.Encode(tasks)
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	case "yaml", "yml":
		var b strings.Builder
		if err := encodeYAML(&b, tasks); err != nil {
			return nil, err
		}
		return []byte(b.String()), nil
	}
	return nil, fmt.Errorf("unsupported export format %q", format)
}

func encodeYAML(w io.Writer, tasks []model.Task) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(tasks); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	return encoder.Close()
}
