package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/dungeon-master/internal/narrative"
)

var (
	scanFile string
	scanExpr string
)

var scanCmd = &cobra.Command{
	Use:   "scan [text]",
	Short: "Inspect a narrator response offline",
	Long: `Scan splits a narrator response into text and dice fragments, extracts the
character update object and reports how the requested rolls would be grouped.
The response is read from the argument, --file, or stdin.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScan,
}

func init() {
	scanCmd.Flags().StringVarP(&scanFile, "file", "f", "", "read the response from a file")
	scanCmd.Flags().StringVar(&scanExpr, "grouping-expr", os.Getenv("DM_ROLL_GROUPING_EXPR"), "expr-lang related-roll rule; empty uses keywords")
}

type scanReport struct {
	Narrative string               `json:"narrative"`
	Fragments []narrative.Fragment `json:"fragments"`
	Grouping  narrative.Grouping   `json:"grouping"`
	Mutation  *narrative.Mutation  `json:"mutation,omitempty"`
}

func runScan(cmd *cobra.Command, args []string) error {
	text, err := readScanInput(cmd, args)
	if err != nil {
		return err
	}

	classifier, err := narrative.NewClassifier(scanExpr)
	if err != nil {
		return fmt.Errorf("invalid grouping expression: %w", err)
	}

	cleaned, mutation := narrative.ExtractMutation(text)
	fragments := narrative.Scan(cleaned)

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(scanReport{
		Narrative: cleaned,
		Fragments: fragments,
		Grouping:  narrative.GroupRolls(fragments, classifier),
		Mutation:  mutation,
	})
}

func readScanInput(cmd *cobra.Command, args []string) (string, error) {
	switch {
	case len(args) == 1:
		return args[0], nil
	case scanFile != "":
		data, err := os.ReadFile(scanFile)
		if err != nil {
			return "", fmt.Errorf("failed to read %s: %w", scanFile, err)
		}
		return string(data), nil
	default:
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), nil
	}
}
