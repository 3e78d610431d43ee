package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <path>",
	Short: "Run every inspector registered for a repo's flavor and print the combined report",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := openRepo(args[0])
		if err != nil {
			return err
		}
		defer r.Close()

		fmt.Println(r.ExecuteInspection())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}
