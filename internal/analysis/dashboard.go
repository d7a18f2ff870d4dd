package analysis

import (
	"context"

	"askmydata/domain/dataset"

	"golang.org/x/sync/errgroup"
)

// Dashboard is everything the overview page renders for a dataset
type Dashboard struct {
	Overview Overview      `json:"overview"`
	Describe []ColumnStats `json:"describe"`
	Preview  Preview       `json:"preview"`
	Charts   []Chart       `json:"charts"`
}

// BuildDashboard computes the dashboard sections. Sections are independent
// reads of an immutable dataset and are computed concurrently.
func BuildDashboard(ctx context.Context, ds *dataset.Dataset) (*Dashboard, error) {
	d := &Dashboard{Charts: make([]Chart, 3)}
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		d.Overview = BuildOverview(ds)
		d.Preview = BuildPreview(ds)
		return ctx.Err()
	})
	g.Go(func() error {
		d.Describe = Describe(ds)
		return ctx.Err()
	})
	for i, chart := range []func(*dataset.Dataset) Chart{RevenueByCampaign, ClicksOverTime, SpendByChannel} {
		i, chart := i, chart
		g.Go(func() error {
			d.Charts[i] = chart(ds)
			return ctx.Err()
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return d, nil
}
