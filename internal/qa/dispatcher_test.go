package qa_test

import (
	"regexp"
	"testing"

	"askmydata/domain/dataset"
	domainqa "askmydata/domain/qa"
	"askmydata/internal/errors"
	"askmydata/internal/qa"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDataset(t *testing.T, headers []string, rows ...[]string) *dataset.Dataset {
	t.Helper()
	ds, err := dataset.New("test.csv", headers, rows)
	require.NoError(t, err)
	return ds
}

func marketing(t *testing.T) *dataset.Dataset {
	return newDataset(t,
		[]string{"campaign", "clicks", "revenue", "spend"},
		[]string{"B", "1", "10", "2.5"},
		[]string{"A", "2", "20", "1.5"},
		[]string{"B", "3", "30", "1"},
	)
}

func TestAnswer_ConversationalRulesWin(t *testing.T) {
	ds := marketing(t)

	tests := []struct {
		question string
		want     string
	}{
		{"Hello, what is the total revenue?", qa.ReplyGreeting},
		{"hey", qa.ReplyGreeting},
		{"Thanks, what's total spend", qa.ReplyThanks},
		{"How are you?", qa.ReplyHowAreYou},
		{"ok bye", qa.ReplyFarewell},
		// substring matching: "this" contains "hi"
		{"show this clicks", qa.ReplyGreeting},
	}

	for _, tt := range tests {
		t.Run(tt.question, func(t *testing.T) {
			assert.Equal(t, tt.want, qa.Answer(ds, tt.question))
			assert.Equal(t, tt.want, qa.Answer(nil, tt.question), "conversational replies do not need data")
		})
	}
}

func TestAnswer_NoData(t *testing.T) {
	assert.Equal(t, qa.ReplyNoData, qa.Answer(nil, "average revenue"))
	assert.Equal(t, qa.ReplyNoData, qa.Answer(nil, "list campaigns"))

	headerOnly := newDataset(t, []string{"revenue"})
	assert.Equal(t, qa.ReplyNoData, qa.Answer(headerOnly, "total revenue"))
}

func TestAnswer_Average(t *testing.T) {
	ds := newDataset(t, []string{"revenue"}, []string{"10"}, []string{"20"}, []string{"30"})
	assert.Equal(t, "The average revenue is 20.00.", qa.Answer(ds, "average revenue"))

	ds = newDataset(t, []string{"revenue"}, []string{"10"}, []string{"20"})
	assert.Contains(t, qa.Answer(ds, "average revenue"), "15.00")

	assert.Equal(t, "The average revenue is 20.00.", qa.Answer(marketing(t), "What is the MEAN revenue?"))
}

func TestAnswer_Total(t *testing.T) {
	ds := newDataset(t, []string{"clicks"}, []string{"1"}, []string{"2"}, []string{"3"})

	got := qa.Answer(ds, "total clicks")
	assert.Equal(t, "The total clicks is 6.", got)
	assert.NotContains(t, got, "6.00")

	assert.Equal(t, "The total spend is 5.0.", qa.Answer(marketing(t), "sum of spend"))
}

func TestAnswer_GenericRulePicksFirstMetric(t *testing.T) {
	got := qa.Answer(marketing(t), "total revenue and clicks")
	assert.Equal(t, "The total clicks is 6.", got)
}

func TestAnswer_MetricPrompts(t *testing.T) {
	ds := marketing(t)
	assert.Equal(t, qa.ReplyAveragePrompt, qa.Answer(ds, "what is the average"))
	assert.Equal(t, qa.ReplyTotalPrompt, qa.Answer(ds, "give me the total"))
}

func TestAnswer_PerMetricCombined(t *testing.T) {
	ds := marketing(t)
	assert.Equal(t, "Clicks info - total: 6, average: 2.00.", qa.Answer(ds, "how many clicks"))
	assert.Equal(t, "Spend info - total: 5.0, average: 1.67.", qa.Answer(ds, "spend"))
	assert.Equal(t, "Impressions data not found.", qa.Answer(ds, "impressions"))
}

func TestAnswer_MetricKeywordsMatchInsideWords(t *testing.T) {
	ds := marketing(t)

	assert.Equal(t, "metric_spend", qa.MatchedRule(ds, "spending"))
	assert.Equal(t, "Spend info - total: 5.0, average: 1.67.", qa.Answer(ds, "spending"))
	assert.Equal(t, "total", qa.MatchedRule(ds, "total spending"))
	assert.Equal(t, "The total spend is 5.0.", qa.Answer(ds, "total spending"))
	assert.Equal(t, "The average spend is 1.67.", qa.Answer(ds, "our spending average"))
}

func TestAnswer_MissingRevenueNeverNumeric(t *testing.T) {
	ds := newDataset(t, []string{"campaign", "spend"}, []string{"A", "1"})
	digits := regexp.MustCompile(`\d`)

	for _, q := range []string{"average revenue", "total revenue", "revenue", "revenue by campaign"} {
		got := qa.Answer(ds, q)
		assert.Regexp(t, `not found|no data found`, got, q)
		assert.False(t, digits.MatchString(got), "%q answered %q", q, got)
	}
}

func TestAnswer_ListCampaigns(t *testing.T) {
	ds := newDataset(t, []string{"campaign"}, []string{"A"}, []string{"B"}, []string{"A"})
	assert.Equal(t, "Campaign types: A, B", qa.Answer(ds, "list campaigns"))
	assert.Equal(t, "Campaign types: A, B", qa.Answer(ds, "what kinds of campaign do we run"))

	noCampaign := newDataset(t, []string{"clicks"}, []string{"1"})
	assert.Equal(t, qa.ReplyNoCampaign, qa.Answer(noCampaign, "list campaigns"))
}

func TestAnswer_Unrecognized(t *testing.T) {
	assert.Equal(t, qa.ReplyUnrecognized, qa.Answer(marketing(t), "foo bar"))
	assert.Equal(t, "fallback", qa.MatchedRule(marketing(t), "foo bar"))
}

func TestAnswer_Idempotent(t *testing.T) {
	ds := marketing(t)
	for _, q := range []string{"average revenue", "list campaigns", "clicks", "hello", "foo"} {
		assert.Equal(t, qa.Answer(ds, q), qa.Answer(ds, q), q)
	}
	sum, err := ds.Sum("revenue")
	require.NoError(t, err)
	assert.Equal(t, 60.0, sum, "answering does not mutate the dataset")
}

func TestMatchedRule_Order(t *testing.T) {
	ds := marketing(t)

	tests := []struct {
		question string
		rule     string
	}{
		{"hi there", "greeting"},
		{"average revenue", "average"},
		{"total revenue by campaign", "total"},
		{"show revenue by campaign", "metric_revenue"},
		{"clicks and revenue", "metric_clicks"},
		{"list campaigns", "campaign_list"},
		{"campaign types", "campaign_list"},
	}

	for _, tt := range tests {
		t.Run(tt.question, func(t *testing.T) {
			assert.Equal(t, tt.rule, qa.MatchedRule(ds, tt.question))
		})
	}
	assert.Equal(t, "no_data", qa.MatchedRule(nil, "average revenue"))
}

func TestClassify(t *testing.T) {
	ds := marketing(t)

	assert.Equal(t, domainqa.Query{Kind: domainqa.KindGreeting}, qa.Classify(ds, "hello"))
	assert.Equal(t,
		domainqa.Query{Kind: domainqa.KindMetricQuery, Metric: domainqa.MetricRevenue, Intent: domainqa.IntentAverage, Generic: true},
		qa.Classify(ds, "  Average Revenue  "))
	assert.Equal(t,
		domainqa.Query{Kind: domainqa.KindMetricQuery, Metric: domainqa.MetricSpend, Intent: domainqa.IntentCombined},
		qa.Classify(ds, "spend"))
	assert.Equal(t, domainqa.Query{Kind: domainqa.KindMetricPrompt, Intent: domainqa.IntentTotal}, qa.Classify(ds, "total"))
	assert.Equal(t, domainqa.KindUnrecognized, qa.Classify(ds, "foo").Kind)
}

func TestFormat_CampaignBreakdown(t *testing.T) {
	ds := marketing(t)
	query := domainqa.Query{Kind: domainqa.KindCampaignQuery, Intent: domainqa.IntentBreakdown}

	assert.Equal(t, "Revenue by campaign:\n- A: 20\n- B: 40", qa.Format(ds, query))

	noRevenue := newDataset(t, []string{"campaign"}, []string{"A"})
	assert.Equal(t, qa.ReplyNoBreakdown, qa.Format(noRevenue, query))
	assert.Equal(t, qa.ReplyNoData, qa.Format(nil, query))
}

func TestFormat_PerMetricIntents(t *testing.T) {
	ds := marketing(t)

	total := domainqa.Query{Kind: domainqa.KindMetricQuery, Metric: domainqa.MetricClicks, Intent: domainqa.IntentTotal}
	assert.Equal(t, "Total clicks: 6", qa.Format(ds, total))

	avg := domainqa.Query{Kind: domainqa.KindMetricQuery, Metric: domainqa.MetricRevenue, Intent: domainqa.IntentAverage}
	assert.Equal(t, "Average revenue: 20.00", qa.Format(ds, avg))
}

func TestFormat_MeanOfNonNumericColumn(t *testing.T) {
	ds := newDataset(t, []string{"revenue"}, []string{"n/a"}, []string{"tbd"})
	assert.Equal(t, "The average revenue is nan.", qa.Answer(ds, "average revenue"))
}

func TestValidateQuestion(t *testing.T) {
	q, err := qa.ValidateQuestion("  total clicks \n")
	require.NoError(t, err)
	assert.Equal(t, "total clicks", q)

	for _, raw := range []string{"", "   ", "\t\n"} {
		_, err := qa.ValidateQuestion(raw)
		require.Error(t, err)
		assert.True(t, errors.IsEmptyQuestion(err))
		assert.Equal(t, "Please enter a question.", err.Error())
	}
}
