package plotpage

import (
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

const (
	chartWidth       = "100%"
	chartHeight      = "500px"
	emptyChartHeight = "240px"
	pieWidth         = "600px"
	pieHeight        = "420px"
	pieRadius        = "60%"
	axisLabelRotate  = 45
	graphHeight      = "640px"
	graphRepulsion   = 120
	graphEdgeLength  = 60
	wordCloudMinSize = 14
	wordCloudMaxSize = 70
)

// heatRamp is the warm low-to-high color ramp for heatmap visual maps.
var heatRamp = []string{"#F8F5EE", "#E8A87C", "#E85A4F"}

// SeriesData is a single numeric value in a chart series. It admits both
// int and float64 since opts.BarData/opts.LineData take any.
type SeriesData any

// BarSeries defines one bar chart series.
type BarSeries struct {
	Name  string
	Data  []SeriesData
	Color string // Optional, uses theme if empty.
	Stack string // Optional, stack grouping.
}

// LineSeries defines one line chart series.
type LineSeries struct {
	Name        string
	Data        []SeriesData
	Color       string  // Optional, uses theme if empty.
	Stack       string  // Optional, stack grouping.
	AreaOpacity float32 // Optional, fills the area under the line when > 0.
	Smooth      bool    // Optional, curve smoothing.
}

// PieSlice defines one pie chart slice.
type PieSlice struct {
	Name  string
	Value any
	Color string // Optional, uses theme if empty.
}

// ScatterPoint defines one scatter chart point. Value holds the axis values
// plus any extra tooltip dimensions.
type ScatterPoint struct {
	Value      []any
	SymbolSize int
}

// HeatCell is one cell of a category/category heatmap, addressed by the
// label indexes on each axis.
type HeatCell struct {
	X     int
	Y     int
	Value any
}

// BuildBarChart constructs a vertical bar chart. A nil cOpts uses the
// default theme.
func BuildBarChart(cOpts *ChartOpts, labels []string, series []BarSeries, yAxisLabel string) *charts.Bar {
	if cOpts == nil {
		cOpts = DefaultChartOpts()
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(cOpts.Init(chartWidth, chartHeight)),
		charts.WithTooltipOpts(cOpts.Tooltip("axis")),
		charts.WithDataZoomOpts(cOpts.DataZoom()...),
		charts.WithGridOpts(cOpts.Grid()),
		charts.WithXAxisOpts(opts.XAxis{
			AxisLabel: &opts.AxisLabel{
				Rotate:   axisLabelRotate,
				Interval: "0",
				Color:    cOpts.TextMutedColor(),
			},
			AxisLine: &opts.AxisLine{LineStyle: &opts.LineStyle{Color: cOpts.AxisColor()}},
		}),
		charts.WithYAxisOpts(cOpts.YAxis(yAxisLabel)),
		charts.WithLegendOpts(cOpts.Legend()),
	)

	bar.SetXAxis(labels)
	addBarSeries(bar, series)

	return bar
}

// BuildHorizontalBarChart constructs a bar chart with categories on the
// vertical axis, suited to ranked name lists.
func BuildHorizontalBarChart(cOpts *ChartOpts, labels []string, series []BarSeries, valueAxisLabel string) *charts.Bar {
	if cOpts == nil {
		cOpts = DefaultChartOpts()
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(cOpts.Init(chartWidth, chartHeight)),
		charts.WithTooltipOpts(cOpts.Tooltip("axis")),
		charts.WithGridOpts(cOpts.Grid()),
		charts.WithXAxisOpts(cOpts.XAxis(valueAxisLabel)),
		charts.WithYAxisOpts(opts.YAxis{
			AxisLabel: &opts.AxisLabel{Color: cOpts.TextMutedColor()},
			AxisLine:  &opts.AxisLine{LineStyle: &opts.LineStyle{Color: cOpts.AxisColor()}},
		}),
		charts.WithLegendOpts(cOpts.Legend()),
	)

	bar.SetXAxis(labels)
	addBarSeries(bar, series)
	bar.XYReversal()

	return bar
}

func addBarSeries(bar *charts.Bar, series []BarSeries) {
	for _, s := range series {
		barData := make([]opts.BarData, len(s.Data))
		for i, v := range s.Data {
			barData[i] = opts.BarData{Value: v}
		}

		var seriesOpts []charts.SeriesOpts
		if s.Color != "" {
			seriesOpts = append(seriesOpts, charts.WithItemStyleOpts(opts.ItemStyle{Color: s.Color}))
		}

		if s.Stack != "" {
			seriesOpts = append(seriesOpts, charts.WithBarChartOpts(opts.BarChart{Stack: s.Stack}))
		}

		bar.AddSeries(s.Name, barData, seriesOpts...)
	}
}

// BuildLineChart constructs a line chart. A nil cOpts uses the default
// theme.
func BuildLineChart(cOpts *ChartOpts, labels []string, series []LineSeries, yAxisLabel string) *charts.Line {
	if cOpts == nil {
		cOpts = DefaultChartOpts()
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(cOpts.Init(chartWidth, chartHeight)),
		charts.WithTooltipOpts(cOpts.Tooltip("axis")),
		charts.WithDataZoomOpts(cOpts.DataZoom()...),
		charts.WithGridOpts(cOpts.Grid()),
		charts.WithXAxisOpts(cOpts.XAxis("")),
		charts.WithYAxisOpts(cOpts.YAxis(yAxisLabel)),
		charts.WithLegendOpts(cOpts.Legend()),
	)

	line.SetXAxis(labels)

	for _, s := range series {
		lineData := make([]opts.LineData, len(s.Data))
		for i, v := range s.Data {
			lineData[i] = opts.LineData{Value: v}
		}

		var seriesOpts []charts.SeriesOpts
		if s.Color != "" {
			seriesOpts = append(seriesOpts,
				charts.WithItemStyleOpts(opts.ItemStyle{Color: s.Color}),
				charts.WithLineStyleOpts(opts.LineStyle{Color: s.Color}),
			)
		}

		if s.Stack != "" || s.Smooth {
			seriesOpts = append(seriesOpts, charts.WithLineChartOpts(opts.LineChart{
				Stack:  s.Stack,
				Smooth: opts.Bool(s.Smooth),
			}))
		}

		if s.AreaOpacity > 0 {
			seriesOpts = append(seriesOpts, charts.WithAreaStyleOpts(opts.AreaStyle{
				Opacity: opts.Float(s.AreaOpacity),
			}))
		}

		line.AddSeries(s.Name, lineData, seriesOpts...)
	}

	return line
}

// BuildPieChart constructs a pie chart with labeled slices.
func BuildPieChart(cOpts *ChartOpts, seriesName string, slices []PieSlice) *charts.Pie {
	if cOpts == nil {
		cOpts = DefaultChartOpts()
	}

	pie := charts.NewPie()
	pie.SetGlobalOptions(
		charts.WithInitializationOpts(cOpts.Init(pieWidth, pieHeight)),
		charts.WithTooltipOpts(cOpts.Tooltip("item")),
		charts.WithLegendOpts(cOpts.LegendBottom()),
	)

	pieData := make([]opts.PieData, len(slices))

	for i, slice := range slices {
		pieData[i] = opts.PieData{Name: slice.Name, Value: slice.Value}
		if slice.Color != "" {
			pieData[i].ItemStyle = &opts.ItemStyle{Color: slice.Color}
		}
	}

	pie.AddSeries(seriesName, pieData).
		SetSeriesOptions(
			charts.WithLabelOpts(opts.Label{
				Show:      opts.Bool(true),
				Formatter: "{b}: {c} ({d}%)",
				Color:     cOpts.TextMutedColor(),
			}),
			charts.WithPieChartOpts(opts.PieChart{Radius: pieRadius}),
		)

	return pie
}

// BuildScatterChart constructs a scatter chart with value axes.
func BuildScatterChart(cOpts *ChartOpts, seriesName, xName, yName string, points []ScatterPoint, color string) *charts.Scatter {
	if cOpts == nil {
		cOpts = DefaultChartOpts()
	}

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(cOpts.Init(chartWidth, chartHeight)),
		charts.WithTooltipOpts(cOpts.Tooltip("item")),
		charts.WithGridOpts(cOpts.Grid()),
		charts.WithXAxisOpts(opts.XAxis{
			Name:      xName,
			Type:      "value",
			AxisLabel: &opts.AxisLabel{Color: cOpts.TextMutedColor()},
			AxisLine:  &opts.AxisLine{LineStyle: &opts.LineStyle{Color: cOpts.AxisColor()}},
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Name:      yName,
			Type:      "value",
			AxisLabel: &opts.AxisLabel{Color: cOpts.TextMutedColor()},
			SplitLine: &opts.SplitLine{LineStyle: &opts.LineStyle{Color: cOpts.GridColor()}},
		}),
	)

	scatterData := make([]opts.ScatterData, len(points))
	for i, point := range points {
		scatterData[i] = opts.ScatterData{
			Value:      point.Value,
			SymbolSize: point.SymbolSize,
		}
	}

	scatter.AddSeries(seriesName, scatterData,
		charts.WithItemStyleOpts(opts.ItemStyle{Color: color}),
	)

	return scatter
}

// BuildHeatMapChart constructs a category/category heatmap with a warm
// visual map ramp.
func BuildHeatMapChart(cOpts *ChartOpts, seriesName string, xLabels, yLabels []string, cells []HeatCell, maxValue float32) *charts.HeatMap {
	if cOpts == nil {
		cOpts = DefaultChartOpts()
	}

	hm := charts.NewHeatMap()
	hm.SetGlobalOptions(
		charts.WithInitializationOpts(cOpts.Init(chartWidth, chartHeight)),
		charts.WithTooltipOpts(cOpts.Tooltip("item")),
		charts.WithXAxisOpts(opts.XAxis{
			Type:      "category",
			Data:      xLabels,
			AxisLabel: &opts.AxisLabel{Color: cOpts.TextMutedColor()},
			SplitArea: &opts.SplitArea{Show: opts.Bool(true)},
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Type:      "category",
			Data:      yLabels,
			AxisLabel: &opts.AxisLabel{Color: cOpts.TextMutedColor()},
			SplitArea: &opts.SplitArea{Show: opts.Bool(true)},
		}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Calculable: opts.Bool(true),
			Min:        0,
			Max:        maxValue,
			InRange:    &opts.VisualMapInRange{Color: heatRamp},
		}),
	)

	heatData := make([]opts.HeatMapData, len(cells))
	for i, cell := range cells {
		heatData[i] = opts.HeatMapData{Value: []any{cell.X, cell.Y, cell.Value}}
	}

	hm.AddSeries(seriesName, heatData)

	return hm
}

// GraphNode is one node of a dependency network chart.
type GraphNode struct {
	Name       string
	Value      float32
	SymbolSize int
	Category   int
}

// GraphLink is one directed edge of a dependency network chart.
type GraphLink struct {
	Source string
	Target string
}

// BuildGraphChart constructs a force-layout network chart.
func BuildGraphChart(cOpts *ChartOpts, seriesName string, nodes []GraphNode, links []GraphLink, categories []string) *charts.Graph {
	if cOpts == nil {
		cOpts = DefaultChartOpts()
	}

	graph := charts.NewGraph()
	graph.SetGlobalOptions(
		charts.WithInitializationOpts(cOpts.Init(chartWidth, graphHeight)),
		charts.WithTooltipOpts(cOpts.Tooltip("item")),
		charts.WithLegendOpts(cOpts.Legend()),
	)

	graphNodes := make([]opts.GraphNode, len(nodes))
	for i, node := range nodes {
		graphNodes[i] = opts.GraphNode{
			Name:       node.Name,
			Value:      node.Value,
			SymbolSize: node.SymbolSize,
			Category:   node.Category,
		}
	}

	graphLinks := make([]opts.GraphLink, len(links))
	for i, link := range links {
		graphLinks[i] = opts.GraphLink{Source: link.Source, Target: link.Target}
	}

	graphCategories := make([]*opts.GraphCategory, len(categories))
	for i, name := range categories {
		graphCategories[i] = &opts.GraphCategory{Name: name}
	}

	graph.AddSeries(seriesName, graphNodes, graphLinks,
		charts.WithGraphChartOpts(opts.GraphChart{
			Layout:             "force",
			Roam:               opts.Bool(true),
			FocusNodeAdjacency: opts.Bool(true),
			Force:              &opts.GraphForce{Repulsion: graphRepulsion, EdgeLength: graphEdgeLength},
			Categories:         graphCategories,
			EdgeSymbol:         []string{"none", "arrow"},
		}),
		charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Position: "right", Color: cOpts.TextMutedColor()}),
	)

	return graph
}

// WordCount is one word cloud entry.
type WordCount struct {
	Word  string
	Count int
}

// BuildWordCloudChart constructs a word cloud sized by counts. The rendered
// page must load the echarts wordcloud plugin.
func BuildWordCloudChart(cOpts *ChartOpts, seriesName string, words []WordCount) *charts.WordCloud {
	if cOpts == nil {
		cOpts = DefaultChartOpts()
	}

	wc := charts.NewWordCloud()
	wc.SetGlobalOptions(
		charts.WithInitializationOpts(cOpts.Init(chartWidth, chartHeight)),
		charts.WithTooltipOpts(cOpts.Tooltip("item")),
	)

	cloudData := make([]opts.WordCloudData, len(words))
	for i, word := range words {
		cloudData[i] = opts.WordCloudData{Name: word.Word, Value: word.Count}
	}

	wc.AddSeries(seriesName, cloudData,
		charts.WithWorldCloudChartOpts(opts.WordCloudChart{
			SizeRange: []float32{wordCloudMinSize, wordCloudMaxSize},
			Shape:     "circle",
		}),
	)

	return wc
}

// BuildTreeMapChart constructs a treemap from nested nodes.
func BuildTreeMapChart(cOpts *ChartOpts, seriesName string, nodes []opts.TreeMapNode) *charts.TreeMap {
	if cOpts == nil {
		cOpts = DefaultChartOpts()
	}

	tm := charts.NewTreeMap()
	tm.SetGlobalOptions(
		charts.WithInitializationOpts(cOpts.Init(chartWidth, chartHeight)),
		charts.WithTooltipOpts(cOpts.Tooltip("item")),
	)

	tm.AddSeries(seriesName, nodes, charts.WithTreeMapOpts(opts.TreeMapChart{
		Animation:  opts.Bool(true),
		Roam:       opts.Bool(true),
		Label:      &opts.Label{Show: opts.Bool(true), Formatter: "{b}"},
		UpperLabel: &opts.UpperLabel{Show: opts.Bool(true)},
		Levels: &[]opts.TreeMapLevel{
			{
				ItemStyle:  &opts.ItemStyle{BorderColor: "#C9B896", BorderWidth: 2, GapWidth: 2},
				UpperLabel: &opts.UpperLabel{Show: opts.Bool(true)},
			},
			{
				ItemStyle:       &opts.ItemStyle{BorderColor: "#D8C3A5", BorderWidth: 1, GapWidth: 1},
				ColorSaturation: []float32{0.3, 0.6},
			},
		},
		Left: "2%", Right: "2%", Top: "10%", Bottom: "2%",
	}))

	return tm
}

// BuildEmptyChart constructs a placeholder chart for sections with no data.
func BuildEmptyChart(cOpts *ChartOpts, title string) *charts.Bar {
	if cOpts == nil {
		cOpts = DefaultChartOpts()
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(cOpts.Init(chartWidth, emptyChartHeight)),
		charts.WithTitleOpts(cOpts.Title(title, "No data")),
	)

	return bar
}
