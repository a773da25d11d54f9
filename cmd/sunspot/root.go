package main

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"sunspot-imaging/internal/job"
)

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           AppName,
		Short:         "Sunspot-enhanced 72x72 thumbnails of full-disk solar images",
		Version:       AppVersion,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetVersionTemplate(`{{printf "%s\n" .Version}}`)
	root.AddCommand(newEnhanceCommand())
	return root
}

func newEnhanceCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "enhance <image>...",
		Short: "Write an enhanced thumbnail for every input image",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd.Flags())
			if err != nil {
				return err
			}

			logger := initLogger(cfg.Debug)
			logger.WithFields(logrus.Fields{
				"version":    AppVersion,
				"inputs":     len(args),
				"output_dir": cfg.OutputDir,
				"workers":    cfg.Workers,
			}).Info("Starting sunspot enhancement")

			runner := job.NewRunner(job.Options{
				OutputDir:    cfg.OutputDir,
				PreviewScale: cfg.PreviewScale,
				DumpStages:   cfg.DumpStages,
				Workers:      cfg.Workers,
			}, logger)

			if _, err := runner.Run(cmd.Context(), args); err != nil {
				return fmt.Errorf("enhance: %w", err)
			}
			return nil
		},
	}
	registerFlags(cmd.Flags())
	return cmd
}
