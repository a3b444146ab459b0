package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-dodge/internal/registry"
	"github.com/vovakirdan/tui-dodge/internal/storage"
)

var (
	flagHistoryLimit  int
	flagHistoryRecent bool
	flagHistoryClear  bool
)

var historyCmd = &cobra.Command{
	Use:   "history [category]",
	Short: "Show past results and stats",
	Long: `Display the best (or most recent) results for a category, followed by
aggregated stats. Without a category, prints a stats line per category.

Examples:
  dodge history
  dodge history classic
  dodge history blitz --recent --limit 5
  dodge history zen --clear`,
	Args: cobra.MaximumNArgs(1),
	Run:  runHistory,
}

func init() {
	historyCmd.Flags().IntVar(&flagHistoryLimit, "limit", 10, "Number of results to show")
	historyCmd.Flags().BoolVar(&flagHistoryRecent, "recent", false, "Order by end time instead of score")
	historyCmd.Flags().BoolVar(&flagHistoryClear, "clear", false, "Delete all results for the category")
}

func runHistory(cmd *cobra.Command, args []string) {
	s, err := resolveSettings(cmd, "")
	if err != nil {
		fail("%v", err)
	}

	store, err := storage.Open(s.dbPath)
	if err != nil {
		fail("opening results database: %v", err)
	}
	defer store.Close()

	if len(args) == 0 {
		printAllStats(store)
		return
	}

	cat, err := registry.Get(args[0])
	if err != nil {
		store.Close()
		fail("%v", err)
	}

	if flagHistoryClear {
		if err := store.ClearResults(cat.ID); err != nil {
			store.Close()
			fail("%v", err)
		}
		fmt.Printf("Cleared results for %s.\n", cat.Title)
		return
	}

	var records []storage.Record
	if flagHistoryRecent {
		records, err = store.RecentResults(cat.ID, flagHistoryLimit)
	} else {
		records, err = store.TopResults(cat.ID, flagHistoryLimit)
	}
	if err != nil {
		store.Close()
		fail("retrieving results: %v", err)
	}

	order := "Best"
	if flagHistoryRecent {
		order = "Recent"
	}
	fmt.Printf("%s results - %s\n", order, cat.Title)
	fmt.Println()

	if len(records) == 0 {
		fmt.Println("No results recorded yet.")
		fmt.Println()
		fmt.Printf("Play 'dodge play %s' to set the first one!\n", cat.ID)
		return
	}

	fmt.Printf("  %-4s  %-7s  %-5s  %-6s  %-4s  %-6s  %-12s  %s\n",
		"#", "Score", "Combo", "Dodged", "Hit", "Time", "Ended", "Date")
	fmt.Printf("  %-4s  %-7s  %-5s  %-6s  %-4s  %-6s  %-12s  %s\n",
		"-", "-----", "-----", "------", "---", "----", "-----", "----")
	for i, r := range records {
		fmt.Printf("  %-4d  %-7d  x%-4d  %-6d  %-4d  %-6s  %-12s  %s\n",
			i+1, r.FinalScore, r.PeakCombo, r.Dodges, r.Collisions,
			r.Duration.Round(time.Second), r.Reason, r.EndedAt.Format("2006-01-02 15:04"))
	}

	st, err := store.CategoryStats(cat.ID)
	if err == nil {
		fmt.Println()
		printStats(st)
	}
}

func printStats(st *storage.Stats) {
	fmt.Printf("Sessions: %d  Best: %d  Avg: %.1f  Best combo: x%d  Dodge rate: %.0f%%  Played: %s\n",
		st.Sessions, st.BestScore, st.AvgScore, st.BestCombo, st.SuccessRate()*100,
		st.TotalDuration.Round(time.Second))
}

func printAllStats(store *storage.Store) {
	all, err := store.AllStats()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving stats: %v\n", err)
		return
	}
	if len(all) == 0 {
		fmt.Println("No results recorded yet.")
		return
	}

	for _, c := range registry.List() {
		st, ok := all[c.ID]
		if !ok {
			continue
		}
		fmt.Printf("%s (last played %s)\n  ", c.Title, st.LastPlayed.Format("2006-01-02 15:04"))
		printStats(st)
	}
}
