package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/veridianlabs/atlasq/internal/deals"
)

var dealsCmd = &cobra.Command{
	Use:   "deals",
	Short: "List the queryable deals",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime(cmd.Context())
		if err != nil {
			return err
		}
		defer rt.Close()

		if err := rt.deals.Load(cmd.Context()); err != nil {
			return errors.New(deals.LoadFailureMessage)
		}
		for _, d := range rt.deals.Deals() {
			fmt.Println(d)
		}
		return nil
	},
}

var docsCmd = &cobra.Command{
	Use:   "docs <deal>",
	Short: "List the raw and processed documents behind a deal",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime(cmd.Context())
		if err != nil {
			return err
		}
		defer rt.Close()

		docs, err := rt.client.DealDocuments(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		fmt.Println(headingStyle.Render("RAW"))
		for _, name := range docs.Documents.Raw {
			fmt.Println("  " + name)
		}
		fmt.Println(headingStyle.Render("PROCESSED"))
		for _, name := range docs.Documents.Processed {
			fmt.Println("  " + name)
		}
		return nil
	},
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check that the backend is reachable",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime(cmd.Context())
		if err != nil {
			return err
		}
		defer rt.Close()

		if err := rt.client.Health(cmd.Context()); err != nil {
			return fmt.Errorf("backend unreachable: %w", err)
		}
		fmt.Println("ok")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(dealsCmd)
	rootCmd.AddCommand(docsCmd)
	rootCmd.AddCommand(healthCmd)
}
