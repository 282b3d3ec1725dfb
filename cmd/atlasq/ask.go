package main

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"github.com/veridianlabs/atlasq/internal/deals"
	"github.com/veridianlabs/atlasq/internal/session"
)

var askDeal string

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask one question and print the answer with citations",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime(cmd.Context())
		if err != nil {
			return err
		}
		defer rt.Close()

		if err := rt.deals.Load(cmd.Context()); err != nil {
			return errors.New(deals.LoadFailureMessage)
		}
		if askDeal != "" && !rt.deals.Select(askDeal) {
			return errors.New("unknown deal: " + askDeal)
		}

		question := strings.Join(args, " ")
		if !rt.orch.Submit(cmd.Context(), question) {
			return errors.New("nothing to ask: empty question or no deal selected")
		}

		snap := rt.orch.Snapshot()
		printSnapshot(snap)
		if snap.Phase == session.PhaseErrored {
			return errors.New("ask failed")
		}
		return nil
	},
}

func init() {
	askCmd.Flags().StringVar(&askDeal, "deal", "", "Deal to query (default: first available)")
	rootCmd.AddCommand(askCmd)
}
