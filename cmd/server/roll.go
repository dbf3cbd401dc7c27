package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/dungeon-master/internal/orchestrators/dice"
	pendingroll "github.com/KirkDiggler/dungeon-master/internal/repositories/pending_roll"
)

var rollReason string

var rollCmd = &cobra.Command{
	Use:   "roll <expression>",
	Short: "Roll dice locally",
	Long:  `Roll evaluates an expression such as d20, 2d6 or 1d8 with the server's dice resolver.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runRoll,
}

func init() {
	rollCmd.Flags().StringVarP(&rollReason, "reason", "r", "", "reason, e.g. \"Perception Check\" or \"Athletics DC 15\"")
}

func runRoll(cmd *cobra.Command, args []string) error {
	svc, err := dice.NewOrchestrator(&dice.Config{
		PendingRollRepo: pendingroll.NewMemoryRepository(&pendingroll.MemoryConfig{}),
	})
	if err != nil {
		return err
	}

	out, err := svc.RollDice(cmd.Context(), &dice.RollDiceInput{
		Expression: args[0],
		Reason:     rollReason,
	})
	if err != nil {
		return err
	}

	o := out.Outcome
	line := fmt.Sprintf("%s = %d", o.Expression, o.Total)
	if len(o.Rolls) > 1 {
		parts := make([]string, len(o.Rolls))
		for i, r := range o.Rolls {
			parts[i] = fmt.Sprint(r)
		}
		line += fmt.Sprintf(" [%s]", strings.Join(parts, " + "))
	}
	if o.Reason != "" {
		line += fmt.Sprintf(" (%s)", o.Reason)
	}
	switch {
	case o.Success != nil && *o.Success:
		line += fmt.Sprintf(" vs DC %d: SUCCESS", *o.DC)
	case o.Success != nil:
		line += fmt.Sprintf(" vs DC %d: FAILURE", *o.DC)
	case o.Tier != "":
		line += fmt.Sprintf(" [%s]", o.Tier)
	}

	_, err = fmt.Fprintln(cmd.OutOrStdout(), line)
	return err
}
