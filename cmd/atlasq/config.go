package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/veridianlabs/atlasq/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the saved configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, err := config.NewManager()
		if err != nil {
			return err
		}
		fmt.Println(dimStyle.Render(mgr.GetConfigPath()))
		if !mgr.Exists() {
			fmt.Println("No saved configuration. `atlasq config set <key> <value>` to create one.")
			return nil
		}
		fc, err := mgr.Load()
		if err != nil {
			return err
		}
		printConfigValue("api_url", fc.APIURL)
		if fc.TopK != 0 {
			printConfigValue("top_k", strconv.Itoa(fc.TopK))
		}
		printConfigValue("history_backend", fc.HistoryBackend)
		printConfigValue("history_path", fc.HistoryPath)
		printConfigValue("log_level", fc.LogLevel)
		printConfigValue("log_file", fc.LogFile)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Save one setting (wins over environment variables)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, err := config.NewManager()
		if err != nil {
			return err
		}
		fc, err := mgr.Load()
		if err != nil {
			return err
		}

		key, value := args[0], args[1]
		switch key {
		case "api_url":
			fc.APIURL = value
		case "top_k":
			k, err := strconv.Atoi(value)
			if err != nil {
				return fmt.Errorf("top_k must be an integer: %w", err)
			}
			fc.TopK = k
		case "history_backend":
			if value != "file" && value != "sqlite" {
				return fmt.Errorf("history_backend must be \"file\" or \"sqlite\", got %q", value)
			}
			fc.HistoryBackend = value
		case "history_path":
			fc.HistoryPath = value
		case "log_level":
			fc.LogLevel = value
		case "log_file":
			fc.LogFile = value
		default:
			return fmt.Errorf("unknown key %q (api_url, top_k, history_backend, history_path, log_level, log_file)", key)
		}

		if err := mgr.Save(fc); err != nil {
			return err
		}
		fmt.Printf("Saved %s to %s\n", key, mgr.GetConfigPath())
		return nil
	},
}

func printConfigValue(key, value string) {
	if value == "" {
		return
	}
	fmt.Printf("%-16s %s\n", key, value)
}

func init() {
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}
