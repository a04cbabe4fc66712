package chartjs

type Chart struct {
	Type    string       `json:"type"`
	Data    ChartData    `json:"data"`
	Options ChartOptions `json:"options"`
}

type ChartData struct {
	Labels   []string       `json:"labels"`
	Datasets []ChartDataset `json:"datasets"`
}

// ChartDataset with a Type overrides the chart type, which gives mixed bar and line charts.
type ChartDataset struct {
	Type            string     `json:"type,omitempty"`
	Label           string     `json:"label,omitempty"`
	Data            []*float64 `json:"data,omitempty"`
	BorderWidth     int        `json:"borderWidth"`
	BorderColor     string     `json:"borderColor"`
	BackgroundColor string     `json:"backgroundColor,omitempty"`
	Tension         float64    `json:"tension,omitempty"`
	Fill            bool       `json:"fill"`
	PointRadius     *int       `json:"pointRadius,omitempty"`
	Order           int        `json:"order,omitempty"`
	YAxisID         string     `json:"yAxisID,omitempty"`
}

type ChartOptions struct {
	Responsive          bool                  `json:"responsive"`
	MaintainAspectRatio bool                  `json:"maintainAspectRatio"`
	Interaction         ChartInteraction      `json:"interaction"`
	Plugins             ChartPlugins          `json:"plugins"`
	Scales              map[string]ChartScale `json:"scales"`
}

type ChartInteraction struct {
	Mode      string `json:"mode"`
	Intersect bool   `json:"intersect"`
}

type ChartPlugins struct {
	Legend ChartLegend `json:"legend"`
	Title  ChartTitle  `json:"title"`
}

type ChartLegend struct {
	Display  bool   `json:"display"`
	Position string `json:"position,omitempty"`
}

type ChartTitle struct {
	Display bool   `json:"display"`
	Text    string `json:"text"`
}

type ChartScale struct {
	Type        string          `json:"type"`
	Display     bool            `json:"display"`
	Position    string          `json:"position"`
	BeginAtZero bool            `json:"beginAtZero,omitempty"`
	Min         *float64        `json:"min,omitempty"`
	Max         *float64        `json:"max,omitempty"`
	Title       ChartScaleTitle `json:"title,omitempty"`
	Grid        *ChartGrid      `json:"grid,omitempty"`
}

type ChartScaleTitle struct {
	Display bool   `json:"display"`
	Text    string `json:"text"`
	Color   string `json:"color,omitempty"`
}

type ChartGrid struct {
	Display bool   `json:"display"`
	Color   string `json:"color,omitempty"`
}
