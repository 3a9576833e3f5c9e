// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package filter

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/pdiddy/phm-curator/pkg/types"
)

var tierOrder = []types.QualityTier{
	types.TierExcellent,
	types.TierGood,
	types.TierAcceptable,
	types.TierQuestionable,
	types.TierPoor,
}

// FormatSummary writes a human-readable digest of r to w. Reasons are listed
// most frequent first; ties sort by message.
func FormatSummary(w io.Writer, r Report) {
	fmt.Fprintf(w, "Quality filter report\n")
	fmt.Fprintf(w, "Total papers:  %d\n", r.TotalPapers)
	fmt.Fprintf(w, "Passed:        %d\n", r.PassedCount)
	fmt.Fprintf(w, "Filtered out:  %d\n", r.FilteredCount)
	fmt.Fprintf(w, "Filter rate:   %.1f%%\n", r.FilterRate*100)
	if r.ProcessingErrors > 0 {
		fmt.Fprintf(w, "Errors:        %d\n", r.ProcessingErrors)
	}

	if len(r.QualityDistribution) > 0 {
		fmt.Fprintf(w, "\nQuality tiers:\n")
		for _, tier := range tierOrder {
			if n := r.QualityDistribution[tier]; n > 0 {
				fmt.Fprintf(w, "  %-13s %d\n", tier, n)
			}
		}
	}

	if len(r.Reasons) > 0 {
		fmt.Fprintf(w, "\nTop filter reasons:\n")
		for _, kv := range sortedCounts(r.Reasons) {
			fmt.Fprintf(w, "  - %s: %d\n", kv.key, kv.count)
		}
	}
}

// FormatTable writes one row per paper: rank, score, tier, year, venue and
// title.
func FormatTable(w io.Writer, papers []types.Paper) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "RANK\tSCORE\tTIER\tYEAR\tVENUE\tTITLE")
	for i, p := range papers {
		score, tier := "-", "-"
		if p.FilterScore != nil {
			score = fmt.Sprintf("%.3f", *p.FilterScore)
		}
		if p.Assessment != nil {
			tier = string(p.Assessment.Tier)
		}
		year := "-"
		if p.Year != nil {
			year = fmt.Sprint(*p.Year)
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n", i+1, score, tier, year, truncate(p.Venue, 40), truncate(p.Title, 70))
	}
	return tw.Flush()
}

type keyCount struct {
	key   string
	count int
}

func sortedCounts(m map[string]int) []keyCount {
	out := make([]keyCount, 0, len(m))
	for k, v := range m {
		out = append(out, keyCount{k, v})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].count != out[j].count {
			return out[i].count > out[j].count
		}
		return out[i].key < out[j].key
	})
	return out
}

func truncate(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
