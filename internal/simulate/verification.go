package simulate

import (
	"fmt"
	"log"
	"sort"
)

// verifyResults checks the service's aggregates against what was submitted.
func verifyResults(config *Config, events []Event, components []ComponentSummary, storms []Storm, stats *Stats) error {
	log.Println("🔍 Verifying results...")

	if len(components) == 0 {
		return fmt.Errorf("no component aggregates to verify")
	}

	// Tally submissions per uid
	submittedTotals := make(map[string]int)
	submittedUnnecessary := make(map[string]int)
	for _, ev := range events {
		submittedTotals[ev.UID]++
		if ev.IsUnnecessary {
			submittedUnnecessary[ev.UID]++
		}
	}

	if err := verifyComponentTotals(submittedTotals, submittedUnnecessary, components, stats); err != nil {
		log.Printf("⚠️  Aggregate consistency warning: %v", err)
	} else {
		log.Println("✅ Component aggregates verified")
	}

	displayTopComponents(components, storms, config.Verbose)

	log.Println("✅ Result verification completed")
	return nil
}

// verifyComponentTotals checks the service's counts against submissions.
// Totals may lag behind briefly; only clear violations are errors.
func verifyComponentTotals(totals, unnecessary map[string]int, components []ComponentSummary, stats *Stats) error {
	if len(components) > len(totals) {
		return fmt.Errorf("service tracks %d components but only %d were submitted",
			len(components), len(totals))
	}

	for _, c := range components {
		want, ok := totals[c.UID]
		if !ok {
			return fmt.Errorf("service tracks unknown component %s", c.UID)
		}
		if c.TotalRenders > want {
			return fmt.Errorf("component %s reports %d renders but only %d were submitted",
				c.UID, c.TotalRenders, want)
		}
		if c.UnnecessaryRenders > unnecessary[c.UID] {
			return fmt.Errorf("component %s reports %d unnecessary renders but only %d were submitted",
				c.UID, c.UnnecessaryRenders, unnecessary[c.UID])
		}
	}

	// Only fully delivered counts count as verified
	failed := stats.EventsFailed
	received := 0
	for _, c := range components {
		received += c.TotalRenders
	}
	if received+failed < stats.EventsSubmitted {
		return fmt.Errorf("service received %d of %d submitted events", received, stats.EventsSubmitted)
	}

	return nil
}

// displayTopComponents shows the busiest components and active storms.
func displayTopComponents(components []ComponentSummary, storms []Storm, verbose bool) {
	sorted := make([]ComponentSummary, len(components))
	copy(sorted, components)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].TotalRenders > sorted[j].TotalRenders
	})

	topN := 10
	if len(sorted) < topN {
		topN = len(sorted)
	}

	log.Printf("🏆 Top %d components by render count:", topN)
	for i := 0; i < topN; i++ {
		c := sorted[i]
		log.Printf("   %d. %s (%s) - renders: %d, unnecessary: %d",
			i+1, c.ComponentName, c.UID, c.TotalRenders, c.UnnecessaryRenders)
	}

	if len(storms) > 0 {
		log.Printf("🌩️  Active storms: %d", len(storms))
		for _, s := range storms {
			log.Printf("   %s - count: %d, severity: %s", s.Key, s.Count, s.Severity)
		}
	}

	if verbose && len(sorted) > 0 {
		totalRenders := 0
		totalUnnecessary := 0
		for _, c := range sorted {
			totalRenders += c.TotalRenders
			totalUnnecessary += c.UnnecessaryRenders
		}
		wasteRate := float64(totalUnnecessary) / float64(totalRenders) * PercentageMultiplier

		log.Printf(`📊 Render statistics:
   Total renders: %d
   Unnecessary: %d
   Waste rate: %.1f%%
`, totalRenders, totalUnnecessary, wasteRate)
	}
}
