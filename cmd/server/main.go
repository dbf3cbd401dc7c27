// Package main is the entry point for the dungeon-master server and its tools
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "dungeon-master",
	Short: "AI Dungeon Master API",
	Long: `dungeon-master runs a narrator-driven D&D 5e campaign service: campaigns,
characters, sessions, dice and narrator turns over a JSON API.`,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(serverCmd)
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(rollCmd)
}
