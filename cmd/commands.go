package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var commandsJSON bool

var commandsCmd = &cobra.Command{
	Use:   "commands <path>",
	Short: "List the commands available for a repo's flavor, grouped by tag",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := openRepo(args[0])
		if err != nil {
			return err
		}
		defer r.Close()

		raw := r.GetAvailableCommands()
		if commandsJSON {
			fmt.Println(raw)
			return nil
		}

		var tagged []struct {
			Name string `json:"name"`
			Cmds []struct {
				Name string `json:"name"`
			} `json:"cmds"`
		}
		if err := json.Unmarshal([]byte(raw), &tagged); err != nil {
			fmt.Println(raw)
			return nil
		}

		var tags []string
		byTag := map[string][]string{}
		for _, t := range tagged {
			tags = append(tags, t.Name)
			for _, c := range t.Cmds {
				byTag[t.Name] = append(byTag[t.Name], c.Name)
			}
		}
		printTagTable(tags, byTag)
		return nil
	},
}

func init() {
	commandsCmd.Flags().BoolVar(&commandsJSON, "json", false, "print the raw JSON catalogue instead of a table")
	rootCmd.AddCommand(commandsCmd)
}
