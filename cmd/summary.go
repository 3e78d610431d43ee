package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var summaryCmd = &cobra.Command{
	Use:   "summary <path>",
	Short: "Print the time range, severity counts, thread set, and tag tree for a repo",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := openRepo(args[0])
		if err != nil {
			return err
		}
		defer r.Close()

		fmt.Println(r.GetSummary())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(summaryCmd)
}
