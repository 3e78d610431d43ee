package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/loglens/corelog/internal/repo"
)

var listCmd = &cobra.Command{
	Use:   "list <folder>",
	Short: "List the files a folder-backed repo of the given flavor would pick up",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		files, err := repo.ListFolderFiles(parseFlavor(flavorFlag), args[0])
		if err != nil {
			return err
		}
		b, err := json.MarshalIndent(files, "", "\t")
		if err != nil {
			return err
		}
		fmt.Println(string(b))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}
