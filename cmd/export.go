package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/loglens/corelog/internal/translate"
)

var (
	exportStart      int
	exportCount      int
	exportOut        string
	exportTranslated bool
	exportFormat     string
)

var exportCmd = &cobra.Command{
	Use:   "export <path>",
	Short: "Export a contiguous line range to a file in the requested rendering",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := openRepo(args[0])
		if err != nil {
			return err
		}
		defer r.Close()

		typ := translate.Raw
		if exportTranslated {
			typ = translate.Translated
		}

		var format translate.Format
		switch exportFormat {
		case "json-full":
			format = translate.JSONFull
		case "json-single":
			format = translate.JSONSingleParams
		default:
			format = translate.Line
		}

		count := exportCount
		if count <= 0 {
			count = r.NumLines() - exportStart
		}

		out := os.Stdout
		if exportOut != "" {
			f, err := os.Create(exportOut)
			if err != nil {
				return err
			}
			defer f.Close()
			out = f
		}

		return r.ExportLines(out, typ, format, exportStart, count)
	},
}

func init() {
	exportCmd.Flags().IntVar(&exportStart, "start", 0, "first line index to export")
	exportCmd.Flags().IntVar(&exportCount, "count", 0, "number of lines to export (0 means to end of store)")
	exportCmd.Flags().StringVar(&exportOut, "out", "", "output file (defaults to stdout)")
	exportCmd.Flags().BoolVar(&exportTranslated, "translated", false, "apply the flavor's value translator before rendering")
	exportCmd.Flags().StringVar(&exportFormat, "format", "line", "rendering format: line, json-full, or json-single")
	rootCmd.AddCommand(exportCmd)
}
