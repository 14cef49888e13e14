package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate <scenario.yaml>",
	Short: "Check a scenario file without running it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sc, err := loadScenario(args[0])
		if err != nil {
			return err
		}
		fmt.Printf("%s: %d task(s), ok\n", sc.Name, len(sc.Tasks))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
