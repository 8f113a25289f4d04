package weather

import (
	"math"
	"sort"
	"time"
)

// MaxForecastDays caps how many aggregated days a forecast yields.
const MaxForecastDays = 5

// dayKeyLayout buckets samples by calendar day of the sample's local time.
const dayKeyLayout = "2006-01-02"

// GroupDaily reduces an ordered sequence of 3-hourly samples into per-day
// summaries: at most MaxForecastDays entries, chronologically ordered,
// each with the day's temperature extrema, rounded mean humidity, mean
// wind speed, and dominant condition. A provider returning fewer distinct
// calendar days yields fewer entries; the result is never padded.
func GroupDaily(samples []Sample) []Daily {
	var days []Daily
	index := make(map[string]int, MaxForecastDays+2)

	for _, s := range samples {
		key := time.Unix(s.Timestamp, 0).Format(dayKeyLayout)
		i, ok := index[key]
		if !ok {
			i = len(days)
			index[key] = i
			days = append(days, Daily{DateKey: key, Timestamp: s.Timestamp})
		}
		days[i].Samples = append(days[i].Samples, s)
	}

	for i := range days {
		days[i].Summary = summarize(days[i].Samples)
	}

	// Input is already chronological in practice, but ordering is part of
	// the contract, so sort rather than assume.
	sort.Slice(days, func(a, b int) bool {
		return days[a].Timestamp < days[b].Timestamp
	})

	if len(days) > MaxForecastDays {
		days = days[:MaxForecastDays]
	}
	return days
}

// summarize computes the daily summary for a non-empty bucket.
func summarize(samples []Sample) Summary {
	sum := Summary{
		TempMin: samples[0].Temp,
		TempMax: samples[0].Temp,
	}

	var humiditySum, windSum float64
	for _, s := range samples {
		if s.Temp < sum.TempMin {
			sum.TempMin = s.Temp
		}
		if s.Temp > sum.TempMax {
			sum.TempMax = s.Temp
		}
		humiditySum += s.Humidity
		windSum += s.WindSpeed
	}

	n := float64(len(samples))
	sum.Humidity = int(math.Round(humiditySum / n))
	sum.WindSpeed = windSum / n

	sum.ConditionID, sum.Description = dominantCondition(samples)
	return sum
}

// dominantCondition picks the condition code with the highest sample
// count. Ties break toward the code encountered first in the input, so
// the choice is stable regardless of map iteration order.
func dominantCondition(samples []Sample) (int, string) {
	type tally struct {
		id    int
		desc  string
		count int
	}

	var counts []tally
	seen := make(map[int]int)

	for _, s := range samples {
		if i, ok := seen[s.ConditionID]; ok {
			counts[i].count++
			continue
		}
		seen[s.ConditionID] = len(counts)
		counts = append(counts, tally{id: s.ConditionID, desc: s.Description, count: 1})
	}

	best := counts[0]
	for _, t := range counts[1:] {
		if t.count > best.count {
			best = t
		}
	}
	return best.id, best.desc
}
