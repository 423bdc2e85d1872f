package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/centsible/centsible/internal/cli"
)

func classifyCmd() *cobra.Command {
	var (
		merchant string
		topN     int
	)

	cmd := &cobra.Command{
		Use:   "classify <description>",
		Short: "Predict a category for a transaction description",
		Long: `Run the classifier against a description (and optional merchant)
without recording anything. Useful for checking what 'expense add'
would predict.`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			classifier, err := initClassifier()
			if err != nil {
				return err
			}

			result := classifier.Classify(args[0], merchant)
			if result.Confidence > 0 {
				fmt.Println(cli.FormatSuccess(fmt.Sprintf("%s (%.0f%% confidence)", result.Category, result.Confidence*100)))
			} else {
				fmt.Println(cli.FormatWarning(fmt.Sprintf("%s (low confidence fallback)", result.Category)))
			}

			if topN > 1 {
				fmt.Println(cli.SubtleStyle.Render("\nTop candidates:"))
				for _, candidate := range classifier.TopN(args[0], merchant, topN) {
					fmt.Printf("  %-16s %.1f%%\n", candidate.Category, candidate.Confidence*100)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&merchant, "merchant", "m", "", "merchant name")
	cmd.Flags().IntVar(&topN, "top", 0, "also show the top N candidate categories")

	return cmd
}
