package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/treadle"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of treadle",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("treadle version %s\n", strings.TrimSpace(treadle.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
