package usage

import (
	"context"
	"math"
	"sort"
)

// ToolStats aggregates the records of one tool.
type ToolStats struct {
	Tool              string  `json:"tool"`
	Calls             int     `json:"calls"`
	Errors            int     `json:"errors"`
	Tokens            int     `json:"tokens"`
	AverageTokens     int     `json:"averageTokens"`
	AverageDurationMs float64 `json:"averageDurationMs"`
}

// Stats aggregates a whole log.
type Stats struct {
	TotalCalls      int         `json:"totalCalls"`
	TotalTokens     int         `json:"totalTokens"`
	AverageTokens   int         `json:"averageTokens"`
	AverageDuration float64     `json:"averageDurationMs"`
	ByTool          []ToolStats `json:"byTool"`
}

// Summarize groups records by tool. Tools are ordered by total tokens,
// highest first, then by name. Averages are per call; token averages are
// rounded to the nearest integer.
func Summarize(records []Record) Stats {
	stats := Stats{ByTool: []ToolStats{}}
	if len(records) == 0 {
		return stats
	}

	type acc struct {
		ToolStats
		duration int64
	}
	byTool := make(map[string]*acc)
	var totalDuration int64

	for _, r := range records {
		a, ok := byTool[r.Tool]
		if !ok {
			a = &acc{ToolStats: ToolStats{Tool: r.Tool}}
			byTool[r.Tool] = a
		}
		a.Calls++
		a.Tokens += r.Tokens
		a.duration += r.Duration
		if r.Error != "" {
			a.Errors++
		}

		stats.TotalCalls++
		stats.TotalTokens += r.Tokens
		totalDuration += r.Duration
	}

	for _, a := range byTool {
		a.AverageTokens = roundDiv(a.Tokens, a.Calls)
		a.AverageDurationMs = float64(a.duration) / float64(a.Calls)
		stats.ByTool = append(stats.ByTool, a.ToolStats)
	}
	sort.Slice(stats.ByTool, func(i, j int) bool {
		if stats.ByTool[i].Tokens != stats.ByTool[j].Tokens {
			return stats.ByTool[i].Tokens > stats.ByTool[j].Tokens
		}
		return stats.ByTool[i].Tool < stats.ByTool[j].Tool
	})

	stats.AverageTokens = roundDiv(stats.TotalTokens, stats.TotalCalls)
	stats.AverageDuration = float64(totalDuration) / float64(stats.TotalCalls)
	return stats
}

// Collect replays log into Stats.
func Collect(ctx context.Context, log Log) (Stats, error) {
	records, err := log.Records(ctx)
	if err != nil {
		return Stats{}, err
	}
	return Summarize(records), nil
}

func roundDiv(n, d int) int {
	if d == 0 {
		return 0
	}
	return int(math.Round(float64(n) / float64(d)))
}
