package chartjs

import (
	"math"
)

const (
	ColorBlue      = "#3b82f6"
	ColorBlueFill  = "rgba(59, 130, 246, 0.5)"
	ColorGreen     = "#10b981"
	ColorLightGrey = "#e5e7eb"
)

// NewChart creates a line chart with a category x axis and a linear y axis
// named "y". Tooltips show every dataset of the hovered label.
func NewChart(title string, labels []string) Chart {
	chart := Chart{
		Type: "line",
		Data: ChartData{
			Labels:   labels,
			Datasets: []ChartDataset{},
		},
		Options: ChartOptions{
			Responsive:          true,
			MaintainAspectRatio: false,
			Interaction:         ChartInteraction{Mode: "index", Intersect: false},
			Plugins: ChartPlugins{
				Legend: ChartLegend{Display: true, Position: "bottom"},
				Title:  ChartTitle{Display: title != "", Text: title},
			},
			Scales: map[string]ChartScale{
				"x": {
					Type:     "category",
					Display:  true,
					Position: "bottom",
					Grid:     &ChartGrid{Display: false},
				},
				"y": {
					Type:     "linear",
					Display:  true,
					Position: "left",
					Grid:     &ChartGrid{Display: true, Color: ColorLightGrey},
				},
			},
		},
	}
	return chart
}

// AddLine appends a line plotted against the "y" axis. Data must have one
// value per label, nil leaves a gap.
func (c *Chart) AddLine(label string, color string, data []*float64) {
	noPoints := 0
	c.Data.Datasets = append(c.Data.Datasets, ChartDataset{
		Type:        "line",
		Label:       label,
		Data:        data,
		BorderWidth: 2,
		BorderColor: color,
		Tension:     0.3,
		PointRadius: &noPoints,
		YAxisID:     "y",
	})
}

// AddBars appends bars plotted against the "y" axis. Bars are drawn behind
// the lines.
func (c *Chart) AddBars(label string, color string, fill string, data []*float64) {
	c.Data.Datasets = append(c.Data.Datasets, ChartDataset{
		Type:            "bar",
		Label:           label,
		Data:            data,
		BorderWidth:     1,
		BorderColor:     color,
		BackgroundColor: fill,
		Order:           1,
		YAxisID:         "y",
	})
}

func (cs ChartScale) WithTitle(title string) ChartScale {
	cs.Title.Display = title != ""
	cs.Title.Text = title
	return cs
}

func (cs ChartScale) WithMinAndMax(min, max float64) ChartScale {
	cs.Min = &min
	cs.Max = &max
	return cs
}

func (cs ChartScale) WithZero() ChartScale {
	cs.BeginAtZero = true
	return cs
}

func FixedFloat64(num float64, precision int) *float64 {
	p := math.Pow(10, float64(precision))
	result := math.Round(num*p) / p
	return &result
}
