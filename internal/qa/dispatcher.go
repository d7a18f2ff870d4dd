package qa

import (
	"fmt"
	"math"
	"strings"

	"askmydata/domain/dataset"
	"askmydata/domain/qa"
)

// Keyword tables. Matching is substring containment on the lowercased,
// trimmed question, so "spending" matches "spend" and "this" matches "hi".
var (
	greetingWords  = []string{"hi", "hello", "hey", "good morning", "good afternoon", "good evening"}
	thanksWords    = []string{"thanks", "thank you", "thx"}
	howAreYouWords = []string{"how are you", "how's it going", "how do you do"}
	farewellWords  = []string{"bye", "goodbye", "see you"}

	averageWords      = []string{"average", "mean"}
	totalWords        = []string{"total", "sum"}
	campaignListWords = []string{"list", "types", "different", "kinds"}
	breakdownPhrases  = []string{"total revenue", "revenue by campaign"}
)

const campaignColumn = "campaign"

// Fixed replies
const (
	ReplyGreeting      = "Hello! You can ask me questions about clicks, revenue, spend, impressions, or averages."
	ReplyThanks        = "You're welcome! Feel free to ask more questions about your data."
	ReplyHowAreYou     = "I'm just a bot, but I'm here to help you analyze your data. Ask me anything!"
	ReplyFarewell      = "Goodbye! Come back anytime for more data insights."
	ReplyNoData        = "No data loaded. Please upload a CSV file first."
	ReplyAveragePrompt = "Please specify which metric you want the average for. Try: clicks, revenue, spend, or impressions."
	ReplyTotalPrompt   = "Please specify which metric you want the total for."
	ReplyNoCampaign    = "No campaign data found."
	ReplyNoBreakdown   = "Campaign or revenue data not found."
	ReplyUnrecognized  = "Sorry, I didn't understand your question. Please ask about clicks, revenue, spend, impressions, campaigns, or averages."
)

// rule is one entry of the ordered classification table
type rule struct {
	name  string
	match func(q string, ds *dataset.Dataset) bool
	build func(q string) qa.Query
}

var rules = buildRules()

func buildRules() []rule {
	rs := []rule{
		fixed("greeting", greetingWords, qa.KindGreeting),
		fixed("thanks", thanksWords, qa.KindThanks),
		fixed("how_are_you", howAreYouWords, qa.KindHowAreYou),
		fixed("farewell", farewellWords, qa.KindFarewell),
		{
			name:  "no_data",
			match: func(_ string, ds *dataset.Dataset) bool { return ds.Empty() },
			build: func(string) qa.Query { return qa.Query{Kind: qa.KindNoData} },
		},
		generic("average", averageWords, qa.IntentAverage),
		generic("total", totalWords, qa.IntentTotal),
	}

	for _, m := range qa.Metrics {
		metric := m
		rs = append(rs, rule{
			name:  "metric_" + string(metric),
			match: func(q string, _ *dataset.Dataset) bool { return strings.Contains(q, string(metric)) },
			build: func(q string) qa.Query {
				intent := qa.IntentCombined
				if containsAny(q, totalWords) {
					intent = qa.IntentTotal
				} else if containsAny(q, averageWords) {
					intent = qa.IntentAverage
				}
				return qa.Query{Kind: qa.KindMetricQuery, Metric: metric, Intent: intent}
			},
		})
	}

	rs = append(rs,
		rule{
			name: "campaign_list",
			match: func(q string, _ *dataset.Dataset) bool {
				return strings.Contains(q, campaignColumn) && containsAny(q, campaignListWords)
			},
			build: func(string) qa.Query { return qa.Query{Kind: qa.KindCampaignQuery, Intent: qa.IntentList} },
		},
		rule{
			name: "campaign_breakdown",
			match: func(q string, _ *dataset.Dataset) bool {
				return strings.Contains(q, campaignColumn) && containsAny(q, breakdownPhrases)
			},
			build: func(string) qa.Query { return qa.Query{Kind: qa.KindCampaignQuery, Intent: qa.IntentBreakdown} },
		},
	)
	return rs
}

func fixed(name string, words []string, kind qa.Kind) rule {
	return rule{
		name:  name,
		match: func(q string, _ *dataset.Dataset) bool { return containsAny(q, words) },
		build: func(string) qa.Query { return qa.Query{Kind: kind} },
	}
}

// generic builds the average/total rules: the first metric named in the
// question wins, and with none named the user is asked which one.
func generic(name string, words []string, intent qa.Intent) rule {
	return rule{
		name:  name,
		match: func(q string, _ *dataset.Dataset) bool { return containsAny(q, words) },
		build: func(q string) qa.Query {
			for _, m := range qa.Metrics {
				if strings.Contains(q, string(m)) {
					return qa.Query{Kind: qa.KindMetricQuery, Metric: m, Intent: intent, Generic: true}
				}
			}
			return qa.Query{Kind: qa.KindMetricPrompt, Intent: intent}
		},
	}
}

func containsAny(q string, words []string) bool {
	for _, w := range words {
		if strings.Contains(q, w) {
			return true
		}
	}
	return false
}

// Normalize lowercases and trims a question the way the rules expect
func Normalize(question string) string {
	return strings.ToLower(strings.TrimSpace(question))
}

// Classify maps a question to a query using the first matching rule.
// Conversational rules run before the dataset is looked at.
func Classify(ds *dataset.Dataset, question string) qa.Query {
	query, _ := classify(ds, question)
	return query
}

// MatchedRule names the rule that classifies question, "fallback" if none does
func MatchedRule(ds *dataset.Dataset, question string) string {
	_, name := classify(ds, question)
	return name
}

func classify(ds *dataset.Dataset, question string) (qa.Query, string) {
	q := Normalize(question)
	for _, r := range rules {
		if r.match(q, ds) {
			return r.build(q), r.name
		}
	}
	return qa.Query{Kind: qa.KindUnrecognized}, "fallback"
}

// Format renders a classified query against the dataset. It never fails:
// missing columns turn into explanatory text.
func Format(ds *dataset.Dataset, query qa.Query) string {
	switch query.Kind {
	case qa.KindGreeting:
		return ReplyGreeting
	case qa.KindThanks:
		return ReplyThanks
	case qa.KindHowAreYou:
		return ReplyHowAreYou
	case qa.KindFarewell:
		return ReplyFarewell
	case qa.KindNoData:
		return ReplyNoData
	case qa.KindMetricPrompt:
		if query.Intent == qa.IntentAverage {
			return ReplyAveragePrompt
		}
		return ReplyTotalPrompt
	case qa.KindMetricQuery:
		if ds.Empty() {
			return ReplyNoData
		}
		if query.Generic {
			return formatGeneric(ds, query)
		}
		return formatMetric(ds, query)
	case qa.KindCampaignQuery:
		if ds.Empty() {
			return ReplyNoData
		}
		if query.Intent == qa.IntentList {
			return formatCampaignList(ds)
		}
		return formatCampaignBreakdown(ds)
	default:
		return ReplyUnrecognized
	}
}

// Answer is the dispatcher entry point: classify then format.
// The result depends only on (ds, question).
func Answer(ds *dataset.Dataset, question string) string {
	return Format(ds, Classify(ds, question))
}

func formatGeneric(ds *dataset.Dataset, query qa.Query) string {
	col := query.Metric.Column()
	if !ds.HasColumn(col) {
		return fmt.Sprintf("Sorry, no data found for '%s'.", col)
	}
	if query.Intent == qa.IntentAverage {
		avg, _ := ds.Mean(col)
		return fmt.Sprintf("The average %s is %s.", col, formatMean(avg))
	}
	total, _ := ds.Sum(col)
	return fmt.Sprintf("The total %s is %s.", col, ds.FormatSum(col, total))
}

func formatMetric(ds *dataset.Dataset, query qa.Query) string {
	col := query.Metric.Column()
	if !ds.HasColumn(col) {
		return fmt.Sprintf("%s data not found.", query.Metric.Title())
	}
	total, _ := ds.Sum(col)
	avg, _ := ds.Mean(col)

	switch query.Intent {
	case qa.IntentTotal:
		return fmt.Sprintf("Total %s: %s", col, ds.FormatSum(col, total))
	case qa.IntentAverage:
		return fmt.Sprintf("Average %s: %s", col, formatMean(avg))
	default:
		return fmt.Sprintf("%s info - total: %s, average: %s.", query.Metric.Title(), ds.FormatSum(col, total), formatMean(avg))
	}
}

func formatCampaignList(ds *dataset.Dataset) string {
	campaigns, err := ds.UniqueValues(campaignColumn)
	if err != nil {
		return ReplyNoCampaign
	}
	return "Campaign types: " + strings.Join(campaigns, ", ")
}

// formatCampaignBreakdown lists revenue per campaign in ascending campaign
// order, unlike the dashboard chart which sorts by descending revenue.
func formatCampaignBreakdown(ds *dataset.Dataset) string {
	totals, err := ds.GroupSumByKey(campaignColumn, qa.MetricRevenue.Column())
	if err != nil {
		return ReplyNoBreakdown
	}
	var b strings.Builder
	b.WriteString("Revenue by campaign:")
	for _, t := range totals {
		fmt.Fprintf(&b, "\n- %s: %s", t.Group, t.Formatted())
	}
	return b.String()
}

func formatMean(v float64) string {
	if math.IsNaN(v) {
		return "nan"
	}
	return fmt.Sprintf("%.2f", v)
}
