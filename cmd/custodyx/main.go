package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"custodyx/internal/app"
	"custodyx/internal/store"
	"custodyx/internal/tui"
)

const version = "1.0.0"

var (
	flagConfig  string
	flagTier    string
	flagData    string
	flagVerbose bool
)

func main() {
	root := &cobra.Command{
		Use:     "custodyx",
		Short:   "CustodyX - co-parenting incident documentation",
		Long:    "CustodyX documents co-parenting incidents through a guided chat, keeps a court-ready timeline, and drafts analyses and filings with AI assistance.\n\nRun without arguments to open the app.",
		Version: version,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.LoadConfig(flagConfig)
			if err != nil {
				return err
			}
			if flagTier != "" {
				cfg.Tier = flagTier
			}
			if flagData != "" {
				cfg.DataDir = flagData
			}
			if flagVerbose {
				cfg.Verbose = true
			}

			dataDir := cfg.DataDir
			if dataDir == "" {
				dataDir = store.DefaultDataRoot()
			}
			log, err := app.NewLogger(dataDir, cfg.Verbose)
			if err != nil {
				return fmt.Errorf("init logging: %w", err)
			}
			defer func() { _ = log.Sync() }()

			ctx := cmd.Context()
			application, err := app.New(ctx, cfg, log)
			if err != nil {
				return err
			}
			defer func() { _ = application.Close() }()

			log.Info("starting",
				zap.String("version", version),
				zap.String("tier", string(application.Session.Tier())),
				zap.String("data_dir", dataDir),
			)

			p := tea.NewProgram(tui.New(application), tea.WithAltScreen(), tea.WithContext(ctx))
			if _, err := p.Run(); err != nil {
				return err
			}
			return nil
		},
	}

	root.PersistentFlags().StringVar(&flagConfig, "config", "", "path to the config file")
	root.Flags().StringVar(&flagTier, "tier", "", "subscription tier override: free|plus|pro")
	root.Flags().StringVar(&flagData, "data-dir", "", "directory for the database and logs")
	root.Flags().BoolVarP(&flagVerbose, "verbose", "v", false, "debug logging")

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the configuration file",
	}
	configCmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Write a default config file",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := flagConfig
			if path == "" {
				path = app.DefaultConfigPath()
			}
			if _, err := os.Stat(path); err == nil {
				return fmt.Errorf("config already exists at %s", path)
			}
			if err := app.SaveConfig(app.DefaultConfig(), path); err != nil {
				return err
			}
			fmt.Printf("Wrote %s\n", path)
			return nil
		},
	})
	configCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the config file location",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(app.DefaultConfigPath())
		},
	})
	root.AddCommand(configCmd)

	if err := root.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
