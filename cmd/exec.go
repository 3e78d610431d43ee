package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var execCmd = &cobra.Command{
	Use:   "exec <path> <tag> <name> [params...]",
	Short: "Execute one catalogue command and print its result envelope as JSON",
	Args:  cobra.MinimumNArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := openRepo(args[0])
		if err != nil {
			return err
		}
		defer r.Close()

		tag, name := args[1], args[2]
		params := strings.Join(args[3:], " ")

		fmt.Println(r.ExecuteCommand(tag, name, params))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(execCmd)
}
