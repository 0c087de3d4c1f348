package main

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/pscheid92/sentilog/internal/adapter/metrics"
	"github.com/pscheid92/sentilog/internal/app"
	"github.com/pscheid92/sentilog/internal/domain"
	"github.com/pscheid92/sentilog/internal/sentiment"
	"github.com/spf13/cobra"
)

var explain bool

var analyzeCmd = &cobra.Command{
	Use:   "analyze <text...>",
	Short: "Score a text and store the result",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, closeFn, err := newCLIService(cmd)
		if err != nil {
			return err
		}
		defer closeFn()

		analysis, err := svc.Analyze(cmd.Context(), strings.Join(args, " "))
		var unsaved *domain.UnsavedAnalysisError
		if errors.As(err, &unsaved) {
			fmt.Fprintf(cmd.OutOrStdout(), "sentiment=%s score=%d (not saved)\n", unsaved.Sentiment, unsaved.Score)
			return err
		}
		if err != nil {
			return err
		}

		printAnalysis(cmd.OutOrStdout(), analysis, explain)
		return nil
	},
}

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List stored analyses, newest first, with the sentiment distribution",
	RunE: func(cmd *cobra.Command, args []string) error {
		if historyLimit < 0 {
			return fmt.Errorf("--limit must not be negative, got %d", historyLimit)
		}

		svc, closeFn, err := newCLIService(cmd)
		if err != nil {
			return err
		}
		defer closeFn()

		history, err := svc.History(cmd.Context())
		if err != nil {
			return err
		}

		printHistory(cmd.OutOrStdout(), history, historyLimit)
		return nil
	},
}

func init() {
	analyzeCmd.Flags().BoolVar(&explain, "explain", false, "Show the matched positive and negative words")
	historyCmd.Flags().IntVar(&historyLimit, "limit", 0, "Show at most this many records (0 shows all)")
}

// newCLIService wires the service for one-shot commands. The stats cache is not used.
func newCLIService(cmd *cobra.Command) (*app.Service, func(), error) {
	clock := clockwork.NewRealClock()

	lex, err := loadLexicon()
	if err != nil {
		return nil, nil, err
	}

	reg := prometheus.NewRegistry()
	be, err := openBackend(cmd.Context(), clock, reg, false)
	if err != nil {
		return nil, nil, err
	}

	svc := app.NewService(sentiment.NewScorer(lex), be.store, nil, metrics.NewAnalysisMetrics(reg), clock)
	return svc, be.Close, nil
}

func printAnalysis(w io.Writer, a app.Analysis, explain bool) {
	fmt.Fprintf(w, "id=%d sentiment=%s score=%d\n", a.Record.ID, a.Record.Sentiment, a.Record.Score)
	if explain {
		fmt.Fprintf(w, "positive: %s\n", strings.Join(a.Result.MatchedPositive, ", "))
		fmt.Fprintf(w, "negative: %s\n", strings.Join(a.Result.MatchedNegative, ", "))
	}
}

func printHistory(w io.Writer, h domain.History, limit int) {
	records := h.Records
	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCREATED\tSENTIMENT\tSCORE\tTEXT")
	for _, r := range records {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%s\n", r.ID, r.CreatedAt.Local().Format(time.DateTime), r.Sentiment, r.Score, r.Text)
	}
	_ = tw.Flush()

	d := h.Distribution
	fmt.Fprintf(w, "\ntotal=%d most_common=%s", d.Total, d.MostCommon)
	for _, s := range domain.Sentiments {
		fmt.Fprintf(w, " %s=%d", s, d.Counts[s])
	}
	fmt.Fprintln(w)
}
