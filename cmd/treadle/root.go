package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "treadle",
	Short: "Treadle is a tick-driven cooperative task engine",
	Long:  `Treadle runs scenario files: named tasks advanced one step per tick, coordinating through a shared store and switches.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().Bool("verbose", false, "Enable debug logging")
}
