package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/veridianlabs/atlasq/internal/deals"
)

var (
	searchDealFlag string
	searchTopK     int
)

var searchCmd = &cobra.Command{
	Use:   "search [term]",
	Short: "Retrieval-only search (no LLM): preview matching clauses",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime(cmd.Context())
		if err != nil {
			return err
		}
		defer rt.Close()

		deal := searchDealFlag
		if deal == "" {
			if err := rt.deals.Load(cmd.Context()); err != nil {
				return errors.New(deals.LoadFailureMessage)
			}
			deal, _ = rt.deals.Selected()
		}

		res, err := rt.client.SearchDeal(cmd.Context(), deal, strings.Join(args, " "), searchTopK)
		if err != nil {
			return err
		}

		if len(res.Results) == 0 {
			fmt.Println(dimStyle.Render("No matching clauses."))
			return nil
		}
		for _, r := range res.Results {
			fmt.Println(citeStyle.Render(r.ChunkID))
			if r.Section != "" || r.Clause != "" {
				fmt.Println(dimStyle.Render(fmt.Sprintf("  section %s clause %s", r.Section, r.Clause)))
			}
			fmt.Println("  " + r.Preview)
		}
		return nil
	},
}

func init() {
	searchCmd.Flags().StringVar(&searchDealFlag, "deal", "", "Deal to search (default: first available)")
	searchCmd.Flags().IntVar(&searchTopK, "top-k", 5, "Number of chunks to return")
	rootCmd.AddCommand(searchCmd)
}
