package history

import (
	"sort"

	"github.com/doeshing/hansli-go/internal/domain"
)

// CommandStatistic counts runs of one command.
type CommandStatistic struct {
	Command string
	Count   int
}

// Stats aggregates a set of run records.
type Stats struct {
	Runs          int
	Succeeded     int
	ModelCalls    int
	FilesWritten  int
	ByPolicy      map[string]int
	TopCommands   []CommandStatistic
	TotalDuration int64
}

// SuccessRate returns the share of successful runs as a percentage.
func (s Stats) SuccessRate() float64 {
	if s.Runs == 0 {
		return 0.0
	}
	return float64(s.Succeeded) / float64(s.Runs) * 100.0
}

// Summarize computes statistics over records, keeping the top n commands (all if n <= 0).
func Summarize(records []domain.RunRecord, n int) Stats {
	stats := Stats{ByPolicy: map[string]int{}}
	frequency := map[string]int{}
	for _, rec := range records {
		stats.Runs++
		if rec.Success {
			stats.Succeeded++
		}
		stats.ModelCalls += rec.Attempts
		stats.FilesWritten += rec.FilesWritten
		stats.TotalDuration += rec.DurationMS
		stats.ByPolicy[rec.Policy]++
		frequency[rec.Command]++
	}
	stats.TopCommands = topCommands(frequency, n)
	return stats
}

// topCommands sorts by count (descending) then by name (ascending).
func topCommands(frequency map[string]int, limit int) []CommandStatistic {
	out := make([]CommandStatistic, 0, len(frequency))
	for cmd, count := range frequency {
		out = append(out, CommandStatistic{Command: cmd, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count == out[j].Count {
			return out[i].Command < out[j].Command
		}
		return out[i].Count > out[j].Count
	})
	if limit > 0 && len(out) > limit {
		return out[:limit]
	}
	return out
}
