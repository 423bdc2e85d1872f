package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/centsible/centsible/internal/classify"
	"github.com/centsible/centsible/internal/cli"
	"github.com/centsible/centsible/internal/config"
)

func trainCmd() *cobra.Command {
	var (
		corpusPath string
		iterations int
		threshold  float64
	)

	cmd := &cobra.Command{
		Use:   "train",
		Short: "Train the transaction classifier",
		Long: `Train the naive-Bayes classifier and save the model artifact.

By default the built-in labeled corpus is used. Pass --corpus to train
on your own CSV (header: description,merchant,category). The trained
model is what 'expense add', 'import', and 'classify' predict with.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			var (
				samples []classify.Sample
				err     error
			)
			if corpusPath != "" {
				samples, err = classify.LoadCorpus(config.ExpandPath(corpusPath))
			} else {
				samples, err = classify.SeedCorpus()
			}
			if err != nil {
				return err
			}

			classifier, report, err := classify.Train(samples, config.DefaultTaxonomy(), classify.TrainOptions{
				ProgressWriter:  os.Stderr,
				Iterations:      iterations,
				HoldoutFraction: 0.2,
				Threshold:       threshold,
			})
			if err != nil {
				return err
			}

			path := modelPath()
			if err := classifier.Save(path); err != nil {
				return fmt.Errorf("failed to save model: %w", err)
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf(
				"Trained on %d samples across %d categories (%.1f%% holdout accuracy)",
				report.Rows, report.Classes, report.Accuracy*100)))
			fmt.Println(cli.SubtleStyle.Render("  model saved to " + path))
			return nil
		},
	}

	cmd.Flags().StringVar(&corpusPath, "corpus", "", "CSV corpus to train on (default: built-in corpus)")
	cmd.Flags().IntVar(&iterations, "iterations", 0, "training iterations (default 5)")
	cmd.Flags().Float64Var(&threshold, "threshold", 0, "confidence threshold stored in the model (default 0.40)")

	return cmd
}
