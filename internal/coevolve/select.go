package coevolve

import (
	"math/rand"
	"sort"

	"dagforge/internal/evolve"
	"dagforge/internal/kernel"
)

// TopN selects the n fittest individuals from the current sub-population,
// ties broken by original order (stable sort). The simplest of §4.7's two
// built-in parasite-selection policies.
func TopN(n int) ParasiteSelectFn {
	return func(current evolve.Population, _ evolve.History, _ *rand.Rand) evolve.Population {
		ranked := append(evolve.Population(nil), current...)
		sort.SliceStable(ranked, func(i, j int) bool {
			return ranked[i].FitnessOrZero() > ranked[j].FitnessOrZero()
		})
		if n > len(ranked) {
			n = len(ranked)
		}
		return ranked[:n]
	}
}

// HistoryPeaks implements §4.7's other built-in: top-n from the current
// sub-population, plus up to m opponents drawn from the local maxima of
// the sub-population's own champion-fitness history, on the premise that a
// past peak the current population has since drifted away from is still a
// useful adversary. n and m are independent counts (§8 scenario 5: "top-2
// plus 6 peak-champions from history" = 8 parasites is HistoryPeaks(2, 6));
// the two pools are concatenated, not folded into one budget.
//
// The historical half draws up to m entries from the top-2m historical
// peaks (by value), shuffled and truncated to m, so repeated calls don't
// always draw the same historical peaks. Peaks are keyed by generation
// index into history, and each chosen peak contributes that generation's
// Best record, the one genome a history entry retains. When history is
// empty or too short to have any peaks, the m historical slots are instead
// filled from the next-best current individuals (i.e. HistoryPeaks(n, m)
// falls back to TopN(n+m)).
func HistoryPeaks(n, m int) ParasiteSelectFn {
	return func(current evolve.Population, history evolve.History, rng *rand.Rand) evolve.Population {
		top := TopN(n)(current, history, rng)
		if m <= 0 {
			return top
		}
		series := history.ChampionSeries()
		peaks := kernel.Peaks(series)
		if len(peaks) == 0 {
			extra := TopN(n + m)(current, history, rng)
			if len(extra) > len(top) {
				return append(append(evolve.Population(nil), top...), extra[len(top):]...)
			}
			return top
		}
		sorted := kernel.SortedByValueDesc(peaks)
		chosen := sorted
		if len(chosen) > 2*m {
			chosen = chosen[:2*m]
		}
		rng.Shuffle(len(chosen), func(i, j int) { chosen[i], chosen[j] = chosen[j], chosen[i] })
		if len(chosen) > m {
			chosen = chosen[:m]
		}

		out := append(evolve.Population(nil), top...)
		for _, pk := range chosen {
			gen := pk.Start
			if gen < 0 {
				gen = 0
			}
			if gen >= len(history) {
				gen = len(history) - 1
			}
			out = append(out, history[gen].Best)
		}
		return out
	}
}
