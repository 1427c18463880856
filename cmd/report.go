package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zalepa/campuscrime/dataset"
	"github.com/zalepa/campuscrime/stats"
)

// panelStyle picks how a summary is drawn.
type panelStyle int

const (
	styleBars panelStyle = iota
	styleLine
	styleMoney
)

type panel struct {
	stats.Summary
	style panelStyle
	// percent is set for the year-over-year series.
	percent []*float64
}

// report is everything the renderers draw for one loaded dataset.
type report struct {
	meta    stats.Metadata
	panels  []panel
	stacked *stats.Stacked
}

func dailyPanels(d stats.DailySummaries) []panel {
	return []panel{
		{Summary: d.IncidentTypes},
		{Summary: d.Monthly, style: styleLine},
		{Summary: d.Locations},
		{Summary: d.Weekdays},
		{Summary: d.Hourly, style: styleLine},
		{Summary: d.Dispositions},
		{Summary: d.DollarTotals, style: styleMoney},
	}
}

func yearlyPanels(y stats.YearlySummaries) []panel {
	return []panel{
		{Summary: y.Offenses},
		{Summary: y.Trend, style: styleLine},
		{Summary: y.Locations},
		{Summary: y.Categories},
		{Summary: y.YearOverYear.Summary, style: styleLine, percent: y.YearOverYear.PercentChange},
	}
}

// reportOptions are the dataset and filter flags shared by summary, chart
// and export.
type reportOptions struct {
	kind   string
	file   string
	daily  stats.DailyFilters
	yearly stats.YearlyFilters
}

func (o *reportOptions) register(c *cobra.Command) {
	fs := c.Flags()
	fs.StringVarP(&o.kind, "kind", "k", string(dataset.Daily), "dataset kind: daily or yearly")
	fs.StringVarP(&o.file, "file", "f", dataset.CombineAll, "dataset file name")
	fs.StringVar(&o.daily.CrimeType, "crime-type", "", "incident type for the monthly series (daily)")
	fs.StringVar(&o.daily.TimeCrimeType, "time-crime-type", "", "incident type for the hourly averages (daily)")
	fs.StringVar(&o.daily.StartMonth, "start", "", "first month of the monthly series, YYYY-MM (daily)")
	fs.StringVar(&o.daily.EndMonth, "end", "", "last month of the monthly series, YYYY-MM (daily)")
	fs.IntVar(&o.daily.TopLocations, "top", 0, "number of locations to rank (daily, default top_locations)")
	fs.StringVar(&o.yearly.Offense, "offense", "", "offense for the yearly trend (yearly)")
	fs.StringVar(&o.yearly.Year, "year", "", "year for the location comparison (yearly)")
	fs.StringVar(&o.yearly.Location, "yoy-location", "", "location for the year-over-year series (yearly)")
}

// filters validates the flags for kind and fills configured defaults.
func (o *reportOptions) filters(kind dataset.Kind) (stats.DailyFilters, stats.YearlyFilters, error) {
	daily, yearly := o.daily.Normalize(), o.yearly.Normalize()
	if daily.TopLocations == 0 {
		daily.TopLocations = cfg.TopLocations
	}
	switch kind {
	case dataset.Daily:
		if err := daily.Validate(); err != nil {
			return daily, yearly, err
		}
	case dataset.Yearly:
		if err := yearly.Validate(); err != nil {
			return daily, yearly, err
		}
	}
	return daily, yearly, nil
}

// build loads the dataset and computes its summaries.
func (o *reportOptions) build(ctx context.Context) (*report, error) {
	kind, err := dataset.ParseKind(o.kind)
	if err != nil {
		return nil, err
	}
	daily, yearly, err := o.filters(kind)
	if err != nil {
		return nil, err
	}

	snap, err := newLoader(cfg, appLog).Load(ctx, kind, o.file)
	if err != nil {
		return nil, fmt.Errorf("load %s data: %w", kind, err)
	}
	return buildReport(snap, daily, yearly), nil
}

func buildReport(snap *dataset.Snapshot, daily stats.DailyFilters, yearly stats.YearlyFilters) *report {
	rep := &report{meta: stats.Describe(snap)}
	switch snap.Kind {
	case dataset.Daily:
		rep.panels = dailyPanels(stats.ComputeDaily(snap.Incidents, daily))
	case dataset.Yearly:
		y := stats.ComputeYearly(snap.Offenses, yearly)
		rep.panels = yearlyPanels(y)
		rep.stacked = &y.Stacked
	}
	return rep
}
