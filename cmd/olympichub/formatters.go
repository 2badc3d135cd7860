package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/pevans/olympichub/discovery"
	"github.com/pevans/olympichub/feeds"
)

// newTable creates a rounded table writing to w.
func newTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleRounded)
	return t
}

// printSyncResult prints one row per feed with its count and outcome
func printSyncResult(w io.Writer, result *discovery.SyncResult) {
	fmt.Fprintf(w, "Captured at %s\n", result.CapturedAt.Format(time.RFC3339))

	t := newTable(w)
	t.AppendHeader(table.Row{"Feed", "Records", "Duration", "Status"})
	for _, r := range result.Feeds {
		status := "ok"
		if !r.OK() {
			status = truncate(r.Err.Error(), 60)
		}
		t.AppendRow(table.Row{r.Feed, r.Count, r.Duration.Round(time.Millisecond), status})
	}
	t.Render()

	if errs := result.Errors(); len(errs) > 0 {
		names := make([]string, 0, len(errs))
		for name := range errs {
			names = append(names, name)
		}
		sort.Strings(names)
		fmt.Fprintf(w, "\n%d feed(s) failed:\n", len(errs))
		for _, name := range names {
			fmt.Fprintf(w, "  - %s: %s\n", name, errs[name])
		}
	}
}

// printSnapshot prints a snapshot envelope as a table
func printSnapshot(w io.Writer, snap any) {
	switch s := snap.(type) {
	case *feeds.MedalsSnapshot:
		printKorea(w, s.Medals)
		printMedals(w, s.Medals, s.LastUpdated)
	case *feeds.NewsSnapshot:
		printNews(w, s)
	case *feeds.HighlightsSnapshot:
		printHighlights(w, s)
	case *feeds.ScheduleSnapshot:
		printSchedule(w, s)
	}
}

// printKorea prints Korea's standing, or the placeholder when it is absent
func printKorea(w io.Writer, medals []feeds.MedalStanding) {
	korea := feeds.FindKorea(medals)
	if korea == nil {
		placeholder := feeds.PlaceholderKorea
		korea = &placeholder
	}

	rank := "-"
	if korea.Rank > 0 {
		rank = fmt.Sprintf("#%d", korea.Rank)
	}
	fmt.Fprintf(w, "%s %s %s  G %d  S %d  B %d  Total %d\n",
		korea.Flag, korea.Country, rank, korea.Gold, korea.Silver, korea.Bronze, korea.Total)
}

func printMedals(w io.Writer, medals []feeds.MedalStanding, updated time.Time) {
	if len(medals) == 0 {
		fmt.Fprintln(w, "No medals to display.")
		return
	}

	t := newTable(w)
	t.SetTitle("Medal table (updated %s)", updated.Format("2006-01-02 15:04"))
	t.AppendHeader(table.Row{"#", "Country", "Gold", "Silver", "Bronze", "Total"})
	for _, m := range medals {
		t.AppendRow(table.Row{m.Rank, m.Flag + " " + m.Country, m.Gold, m.Silver, m.Bronze, m.Total})
	}
	t.Render()
}

func printNews(w io.Writer, s *feeds.NewsSnapshot) {
	if len(s.Articles) == 0 {
		fmt.Fprintln(w, "No articles to display.")
		return
	}

	t := newTable(w)
	t.AppendHeader(table.Row{"Title", "Published", "URL"})
	for _, a := range s.Articles {
		t.AppendRow(table.Row{truncate(a.Title, 70), a.PublishedAt.Format("2006-01-02 15:04"), a.URL})
	}
	t.Render()
}

func printHighlights(w io.Writer, s *feeds.HighlightsSnapshot) {
	if len(s.Highlights) == 0 {
		fmt.Fprintln(w, "No highlights to display.")
		return
	}

	t := newTable(w)
	t.AppendHeader(table.Row{"Sport", "Event", "Winner", "Result"})
	for _, h := range s.Highlights {
		t.AppendRow(table.Row{h.Sport, truncate(h.Event, 40), h.Flag + " " + h.Winner, h.Result})
	}
	t.Render()
}

func printSchedule(w io.Writer, s *feeds.ScheduleSnapshot) {
	if len(s.Events) == 0 {
		fmt.Fprintln(w, "No events to display.")
		return
	}

	t := newTable(w)
	t.AppendHeader(table.Row{"Time", "Sport", "Event", "Venue", "Status"})
	for _, e := range s.Events {
		t.AppendRow(table.Row{e.Time, e.Sport, truncate(e.Event, 40), e.Venue, e.Status})
	}
	t.Render()
}

// printJSON prints v as indented JSON
func printJSON(w io.Writer, v any) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to marshal JSON: %v\n", err)
		os.Exit(1)
	}
	fmt.Fprintln(w, string(data))
}

// truncate shortens s to max runes, ending with "..." when cut
func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	if max <= 3 {
		return string(r[:max])
	}
	return string(r[:max-3]) + "..."
}
