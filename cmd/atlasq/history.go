package main

import (
	"fmt"
	"time"

	units "github.com/docker/go-units"
	"github.com/spf13/cobra"

	"github.com/veridianlabs/atlasq/internal/kv"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Browse, search, and prune past queries",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime(cmd.Context())
		if err != nil {
			return err
		}
		defer rt.Close()

		printHistory(rt.history.All(), time.Now())
		return nil
	},
}

var historySearchCmd = &cobra.Command{
	Use:   "search <term>",
	Short: "Filter history by query text or deal id",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime(cmd.Context())
		if err != nil {
			return err
		}
		defer rt.Close()

		printHistory(rt.history.Search(args[0]), time.Now())
		return nil
	},
}

var historyRmCmd = &cobra.Command{
	Use:   "rm <timestamp>",
	Short: "Delete one entry by its RFC3339 timestamp",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ts, err := time.Parse(time.RFC3339Nano, args[0])
		if err != nil {
			return fmt.Errorf("bad timestamp %q: %w", args[0], err)
		}

		rt, err := newRuntime(cmd.Context())
		if err != nil {
			return err
		}
		defer rt.Close()

		if !rt.history.Remove(ts) {
			fmt.Println(dimStyle.Render("No entry with that timestamp."))
			return nil
		}
		fmt.Println(dimStyle.Render("Removed."))
		return nil
	},
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all history entries",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime(cmd.Context())
		if err != nil {
			return err
		}
		defer rt.Close()

		rt.history.Clear()
		fmt.Println(dimStyle.Render("History cleared."))
		return nil
	},
}

var historyStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show entry count and on-disk size of the history store",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime(cmd.Context())
		if err != nil {
			return err
		}
		defer rt.Close()

		fmt.Printf("entries: %d\n", rt.history.Len())
		fmt.Printf("backend: %s\n", rt.cfg.HistoryBackend)
		fmt.Printf("path:    %s\n", rt.cfg.HistoryPath)
		if sizer, ok := rt.store.(kv.Sizer); ok {
			size, err := sizer.Size()
			if err == nil {
				fmt.Printf("size:    %s\n", units.HumanSize(float64(size)))
			}
		}
		return nil
	},
}

func init() {
	historyCmd.AddCommand(historySearchCmd)
	historyCmd.AddCommand(historyRmCmd)
	historyCmd.AddCommand(historyClearCmd)
	historyCmd.AddCommand(historyStatsCmd)
	rootCmd.AddCommand(historyCmd)
}
