// Package qa holds the vocabulary of the question dispatcher: the metrics it
// recognizes, the intents it distinguishes and the classified query variants.
package qa

import "strings"

// Metric is one of the recognized numeric columns
type Metric string

const (
	MetricClicks      Metric = "clicks"
	MetricRevenue     Metric = "revenue"
	MetricSpend       Metric = "spend"
	MetricImpressions Metric = "impressions"
)

// Metrics lists the metrics in detection order. The first one mentioned wins.
var Metrics = []Metric{MetricClicks, MetricRevenue, MetricSpend, MetricImpressions}

// Column is the dataset column backing the metric
func (m Metric) Column() string { return string(m) }

// Title is the capitalized metric name, e.g. "Clicks"
func (m Metric) Title() string {
	s := string(m)
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// Intent is the requested operation
type Intent string

const (
	IntentTotal     Intent = "total"
	IntentAverage   Intent = "average"
	IntentCombined  Intent = "combined"
	IntentList      Intent = "list"
	IntentBreakdown Intent = "breakdown"
)

// Kind tags the variant of a classified query
type Kind int

const (
	KindUnrecognized Kind = iota
	KindGreeting
	KindThanks
	KindHowAreYou
	KindFarewell
	KindNoData
	KindMetricQuery
	KindMetricPrompt
	KindCampaignQuery
)

var kindNames = map[Kind]string{
	KindUnrecognized:  "unrecognized",
	KindGreeting:      "greeting",
	KindThanks:        "thanks",
	KindHowAreYou:     "how_are_you",
	KindFarewell:      "farewell",
	KindNoData:        "no_data",
	KindMetricQuery:   "metric_query",
	KindMetricPrompt:  "metric_prompt",
	KindCampaignQuery: "campaign_query",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown"
}

// Query is the result of classifying a question.
//
// Metric is set for KindMetricQuery. Intent is set for KindMetricQuery,
// KindMetricPrompt and KindCampaignQuery. Generic marks metric queries raised
// by the generic average/total rules, which word their replies differently
// from the per-metric rules.
type Query struct {
	Kind    Kind
	Metric  Metric
	Intent  Intent
	Generic bool
}
