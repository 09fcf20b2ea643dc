package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"airbnb-reviews/models"
	"airbnb-reviews/services"
)

var (
	analyzeMaxReviews int
	analyzeProperty   string
	analyzeRank       bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [file]",
	Short: "Pick the best reviews from a file or stdin",
	Long:  "Reads reviews as a JSON array of strings or one per line, from a file or stdin, and prints the top reviews as JSON.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runAnalyze,
}

func init() {
	analyzeCmd.Flags().IntVarP(&analyzeMaxReviews, "max-reviews", "n", models.DefaultAnalyzeReviews, "Number of top reviews to return")
	analyzeCmd.Flags().StringVarP(&analyzeProperty, "property", "p", "", "Property name to report")
	analyzeCmd.Flags().BoolVar(&analyzeRank, "rank", false, "Print every review with its score breakdown")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	in := cmd.InOrStdin()
	if len(args) == 1 {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("open %s: %w", args[0], err)
		}
		defer f.Close()
		in = f
	}

	reviews, err := readReviews(in)
	if err != nil {
		return err
	}

	analyzer := services.NewAnalyzer(cfg.MaxAnalyzeReviews, logger)

	var out any
	if analyzeRank {
		out, err = analyzer.RankAll(reviews)
	} else {
		out, err = analyzer.Analyze(reviews, analyzeMaxReviews, analyzeProperty)
	}
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// readReviews accepts a JSON array of strings or plain text with one review per line.
func readReviews(r io.Reader) ([]string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read reviews: %w", err)
	}

	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "[") {
		var reviews []string
		if err := json.Unmarshal([]byte(trimmed), &reviews); err != nil {
			return nil, fmt.Errorf("parse reviews JSON: %w", err)
		}
		return reviews, nil
	}

	reviews := []string{}
	scanner := bufio.NewScanner(strings.NewReader(trimmed))
	scanner.Buffer(make([]byte, 64*1024), 1<<20)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			reviews = append(reviews, line)
		}
	}
	return reviews, scanner.Err()
}
