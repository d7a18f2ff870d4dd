package analysis

import (
	"fmt"
	"sort"
	"time"

	"askmydata/domain/dataset"
)

// Chart types understood by the dashboard template
const (
	ChartBar  = "bar"
	ChartLine = "line"
	ChartPie  = "pie"
)

// Chart is a pre-aggregated series. When the required columns are missing
// or the data cannot be plotted, Available is false and Message says why.
type Chart struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Type      string    `json:"type"`
	XLabel    string    `json:"x_label,omitempty"`
	YLabel    string    `json:"y_label,omitempty"`
	Labels    []string  `json:"labels,omitempty"`
	Values    []float64 `json:"values,omitempty"`
	Shares    []float64 `json:"shares,omitempty"`
	Available bool      `json:"available"`
	Level     string    `json:"level,omitempty"`
	Message   string    `json:"message,omitempty"`
}

func unavailable(id, title, level, message string) Chart {
	return Chart{ID: id, Title: title, Level: level, Message: message}
}

// RevenueByCampaign sums revenue per campaign, largest first
func RevenueByCampaign(ds *dataset.Dataset) Chart {
	const id, title = "revenue-by-campaign", "Revenue by Campaign"
	if !ds.HasColumn("campaign") || !ds.HasColumn("revenue") {
		return unavailable(id, title, "info", "No 'campaign' or 'revenue' column for graph.")
	}
	totals, err := ds.GroupSum("campaign", "revenue")
	if err != nil {
		return unavailable(id, title, "warning", err.Error())
	}
	c := Chart{ID: id, Title: title, Type: ChartBar, XLabel: "Campaign", YLabel: "Total Revenue", Available: true}
	for _, t := range totals {
		c.Labels = append(c.Labels, t.Group)
		c.Values = append(c.Values, t.Sum)
	}
	return c
}

// ClicksOverTime sums clicks per parsed date in date order. A date that does
// not parse makes the whole chart unavailable with a warning.
func ClicksOverTime(ds *dataset.Dataset) Chart {
	const id, title = "clicks-over-time", "Clicks Over Time"
	if !ds.HasColumn("date") || !ds.HasColumn("clicks") {
		return unavailable(id, title, "info", "No 'date' or 'clicks' column for graph.")
	}
	dates, _ := ds.Column("date")
	clicks, _ := ds.Column("clicks")

	sums := make(map[time.Time]float64)
	for i, raw := range dates.Raw {
		if raw == "" {
			continue
		}
		t, ok := dataset.ParseTime(raw)
		if !ok {
			return unavailable(id, title, "warning", fmt.Sprintf("Could not plot clicks over time: unknown date format %q", raw))
		}
		if _, seen := sums[t]; !seen {
			sums[t] = 0
		}
		if clicks.Kind == dataset.KindNumeric && clicks.Valid[i] {
			sums[t] += clicks.Values[i]
		}
	}

	keys := make([]time.Time, 0, len(sums))
	for t := range sums {
		keys = append(keys, t)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Before(keys[j]) })

	c := Chart{ID: id, Title: title, Type: ChartLine, XLabel: "Date", YLabel: "Clicks", Available: true}
	for _, t := range keys {
		c.Labels = append(c.Labels, formatDate(t))
		c.Values = append(c.Values, sums[t])
	}
	return c
}

func formatDate(t time.Time) string {
	if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 {
		return t.Format("2006-01-02")
	}
	return t.Format("2006-01-02 15:04:05")
}

// SpendByChannel sums spend per channel in channel order with percentage shares
func SpendByChannel(ds *dataset.Dataset) Chart {
	const id, title = "spend-by-channel", "Spend by Channel"
	if !ds.HasColumn("channel") || !ds.HasColumn("spend") {
		return unavailable(id, title, "info", "No 'channel' or 'spend' column for graph.")
	}
	totals, err := ds.GroupSumByKey("channel", "spend")
	if err != nil {
		return unavailable(id, title, "warning", err.Error())
	}

	var all float64
	for _, t := range totals {
		all += t.Sum
	}
	c := Chart{ID: id, Title: title, Type: ChartPie, Available: true}
	for _, t := range totals {
		c.Labels = append(c.Labels, t.Group)
		c.Values = append(c.Values, t.Sum)
		share := 0.0
		if all != 0 {
			share = t.Sum / all * 100
		}
		c.Shares = append(c.Shares, share)
	}
	return c
}
