package services

import (
	"math"
	"sort"
	"time"

	"karabox/models"
)

// instantSkipSeconds: a play abandoned within this many seconds counts as
// an instant skip.
const instantSkipSeconds = 30

// hourlyWindowHours is the trailing window of the hourly activity chart.
const hourlyWindowHours = 50

// TitleStats accumulates the per-title aggregates over the play log.
type TitleStats struct {
	Title         string  `json:"title"`
	PlayCount     int     `json:"play_count"`
	PlayedSeconds int     `json:"played_seconds"`
	TotalSeconds  int     `json:"total_seconds"`
	Completions   int     `json:"completions"`
	InstantSkips  int     `json:"instant_skips"`
	AvgCompletion float64 `json:"avg_completion"`
}

// RetryStats marks titles users keep restarting without finishing.
type RetryStats struct {
	Title         string  `json:"title"`
	PlayCount     int     `json:"play_count"`
	Restarts      int     `json:"restarts"`
	AvgCompletion float64 `json:"avg_completion"`
}

// HourlyBucket is one hour of the trailing activity window, split into
// completed and aborted plays.
type HourlyBucket struct {
	Completed int `json:"completed"`
	Aborted   int `json:"aborted"`
}

// Statistics is the full set of derived metrics, recomputed on demand from
// the ordered log.
type Statistics struct {
	TotalTitles    int    `json:"total_titles"`
	TotalMinutes   int    `json:"total_minutes"`
	CompletionRate int    `json:"completion_rate"`
	TopTitle       string `json:"top_title"`

	MostPlayed    []TitleStats `json:"most_played"`
	Skipped       []TitleStats `json:"skipped"`
	InstantSkips  []TitleStats `json:"instant_skips"`
	HiddenGems    []TitleStats `json:"hidden_gems"`
	RetryPatterns []RetryStats `json:"retry_patterns"`

	PlayTimeDistribution   [4]int                     `json:"play_time_distribution"`
	CompletionDistribution [5]int                     `json:"completion_distribution"`
	HourlyActivity         [hourlyWindowHours]HourlyBucket `json:"hourly_activity"`

	Recent []models.PlayLogEntry `json:"recent"`
}

// Aggregate reduces the full ordered log into derived statistics. All
// sorted lists use stable sorts, so equal keys keep insertion order.
func Aggregate(entries []models.PlayLogEntry, now time.Time) Statistics {
	var stats Statistics

	byTitle := make(map[string]*TitleStats)
	var order []string

	totalSeconds := 0
	completedEntries := 0

	for _, e := range entries {
		agg, ok := byTitle[e.Title]
		if !ok {
			agg = &TitleStats{Title: e.Title}
			byTitle[e.Title] = agg
			order = append(order, e.Title)
		}

		agg.PlayCount++
		agg.PlayedSeconds += e.PlayedSeconds
		agg.TotalSeconds = e.TotalSeconds
		if e.Completed {
			agg.Completions++
			completedEntries++
		}
		if e.PlayedSeconds < instantSkipSeconds {
			agg.InstantSkips++
		}

		totalSeconds += e.PlayedSeconds

		stats.PlayTimeDistribution[playTimeBand(e.PlayPercent)]++

		if idx, ok := hourlyIndex(e.StartedAt, now); ok {
			if e.Completed {
				stats.HourlyActivity[idx].Completed++
			} else {
				stats.HourlyActivity[idx].Aborted++
			}
		}
	}

	titles := make([]TitleStats, 0, len(order))
	for _, title := range order {
		agg := byTitle[title]
		agg.AvgCompletion = float64(agg.Completions) / float64(agg.PlayCount) * 100
		titles = append(titles, *agg)
		stats.CompletionDistribution[completionBand(agg.AvgCompletion)]++
	}

	stats.TotalTitles = len(titles)
	stats.TotalMinutes = totalSeconds / 60
	if len(entries) > 0 {
		stats.CompletionRate = int(math.Round(float64(completedEntries) / float64(len(entries)) * 100))
	}

	stats.MostPlayed = mostPlayed(titles)
	if len(stats.MostPlayed) > 0 {
		stats.TopTitle = stats.MostPlayed[0].Title
	}
	stats.Skipped = skippedTitles(titles)
	stats.InstantSkips = instantSkipTitles(titles)
	stats.HiddenGems = hiddenGems(titles)
	stats.RetryPatterns = retryPatterns(titles)
	stats.Recent = recentEntries(entries, 10)

	return stats
}

// mostPlayed: top 15 by play count, descending.
func mostPlayed(titles []TitleStats) []TitleStats {
	out := append([]TitleStats(nil), titles...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].PlayCount > out[j].PlayCount
	})
	return truncate(out, 15)
}

// skippedTitles: played at least twice yet rarely finished, worst first.
func skippedTitles(titles []TitleStats) []TitleStats {
	var out []TitleStats
	for _, t := range titles {
		if t.PlayCount >= 2 && t.AvgCompletion < 40 {
			out = append(out, t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].AvgCompletion < out[j].AvgCompletion
	})
	return truncate(out, 10)
}

// instantSkipTitles: titles abandoned within seconds at least twice.
func instantSkipTitles(titles []TitleStats) []TitleStats {
	var out []TitleStats
	for _, t := range titles {
		if t.InstantSkips >= 2 {
			out = append(out, t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].InstantSkips > out[j].InstantSkips
	})
	return truncate(out, 10)
}

// hiddenGems: rarely played but highly completed titles.
func hiddenGems(titles []TitleStats) []TitleStats {
	var out []TitleStats
	for _, t := range titles {
		if t.PlayCount > 0 && t.PlayCount <= 3 && t.AvgCompletion > 70 {
			out = append(out, t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].AvgCompletion > out[j].AvgCompletion
	})
	return truncate(out, 10)
}

// retryPatterns: titles played often but rarely finished get a derived
// restart count.
func retryPatterns(titles []TitleStats) []RetryStats {
	var out []RetryStats
	for _, t := range titles {
		if t.PlayCount > 3 && t.AvgCompletion < 50 {
			restarts := t.PlayCount - t.Completions
			if restarts > 0 {
				out = append(out, RetryStats{
					Title:         t.Title,
					PlayCount:     t.PlayCount,
					Restarts:      restarts,
					AvgCompletion: t.AvgCompletion,
				})
			}
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Restarts > out[j].Restarts
	})
	if len(out) > 10 {
		out = out[:10]
	}
	return out
}

// recentEntries: the last n log entries, reverse chronological.
func recentEntries(entries []models.PlayLogEntry, n int) []models.PlayLogEntry {
	start := len(entries) - n
	if start < 0 {
		start = 0
	}
	tail := entries[start:]
	out := make([]models.PlayLogEntry, 0, len(tail))
	for i := len(tail) - 1; i >= 0; i-- {
		out = append(out, tail[i])
	}
	return out
}

// playTimeBand buckets a stored play percentage into the four fixed bands
// 0-25, 26-50, 51-75 and 76-100. Upper edges are inclusive.
func playTimeBand(percent float64) int {
	switch {
	case percent <= 25:
		return 0
	case percent <= 50:
		return 1
	case percent <= 75:
		return 2
	default:
		return 3
	}
}

// completionBand buckets a per-title average completion into five fixed
// bands of twenty points each. Upper edges are inclusive.
func completionBand(percent float64) int {
	switch {
	case percent <= 20:
		return 0
	case percent <= 40:
		return 1
	case percent <= 60:
		return 2
	case percent <= 80:
		return 3
	default:
		return 4
	}
}

// hourlyIndex maps an entry timestamp to its bucket in the trailing window.
// An entry stamped exactly now lands in the last bucket; anything at least
// the full window ago is excluded.
func hourlyIndex(startedAt, now time.Time) (int, bool) {
	hoursAgo := now.Sub(startedAt).Hours()
	if hoursAgo < 0 {
		return 0, false
	}
	idx := hourlyWindowHours - 1 - int(hoursAgo)
	if idx < 0 || idx >= hourlyWindowHours {
		return 0, false
	}
	return idx, true
}

func truncate(list []TitleStats, n int) []TitleStats {
	if len(list) > n {
		return list[:n]
	}
	return list
}
