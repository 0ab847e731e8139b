// Package echarts renders rollout returns as an HTML line chart.
package echarts

import (
	"errors"
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"gridgym/internal/app/rollout"
)

var ErrNoReports = errors.New("no rollout reports")

// Returns writes one line per report, episode returns on the y axis.
func Returns(w io.Writer, title string, reports ...rollout.Report) error {
	if len(reports) == 0 {
		return ErrNoReports
	}
	numEpisodes := 0
	for _, r := range reports {
		if len(r.Episodes) > numEpisodes {
			numEpisodes = len(r.Episodes)
		}
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithInitializationOpts(opts.Initialization{Theme: "shine"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
	)

	episodes := make([]string, 0, numEpisodes)
	for i := 0; i < numEpisodes; i++ {
		episodes = append(episodes, fmt.Sprintf("%d", i))
	}
	line = line.SetXAxis(episodes)
	for _, r := range reports {
		items := make([]opts.LineData, 0, len(r.Episodes))
		for _, v := range r.Returns() {
			items = append(items, opts.LineData{Value: v})
		}
		line.AddSeries(seriesName(r), items)
	}

	page := components.NewPage()
	page.AddCharts(line)
	return page.Render(w)
}

func seriesName(r rollout.Report) string {
	if r.Env == "" {
		return r.Policy
	}
	return r.Policy + "/" + r.Env
}
