package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var (
	verbose bool
	apiURL  string
)

var rootCmd = &cobra.Command{
	Use:   "atlasq",
	Short: "Ask questions against Veridian Atlas deals",
	Long: `atlasq is a terminal client for the Veridian Atlas RAG service.

Pick a deal (a financial contract bundle), ask a question in plain
language, and get an answer with verifiable clause citations. Queries
are recorded in a local, searchable history that survives restarts.

Run without arguments for the interactive prompt:

  atlasq

Or use one-shot commands:

  atlasq deals                         # list queryable deals
  atlasq ask --deal atlas-2021 "what are the termination rights?"
  atlasq history                       # browse past queries
  atlasq search --deal atlas-2021 indemnity   # retrieval-only search`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime(cmd.Context())
		if err != nil {
			return err
		}
		defer rt.Close()
		return runREPL(cmd.Context(), rt)
	},
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "Backend base URL (overrides config and ATLAS_API_URL)")
}
