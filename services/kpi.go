package services

import "time"

// AccentColor is the firm's brand colour used for charts
const AccentColor = "#004028"

// MetricCard is a single KPI tile
type MetricCard struct {
	Title   string `json:"title"`
	Value   string `json:"value"`
	Trend   string `json:"trend"`
	Icon    string `json:"icon"`
	Tooltip string `json:"tooltip"`
}

// Breakdown is a labelled value in a static comparison chart
type Breakdown struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// TabKPIs groups the cards and the static breakdown of one tab
type TabKPIs struct {
	Cards     []MetricCard `json:"cards"`
	Breakdown []Breakdown  `json:"breakdown"`
}

// KPISnapshot is everything the KPI tabs display for one time range
type KPISnapshot struct {
	TimeRange   TimeRange `json:"time_range"`
	GeneratedAt time.Time `json:"generated_at"`

	ClientAcquisition    TabKPIs `json:"client_acquisition"`
	ClientRelationship   TabKPIs `json:"client_relationship"`
	MarketPositioning    TabKPIs `json:"market_positioning"`
	StrategicInitiatives TabKPIs `json:"strategic_initiatives"`

	NewClientsTrend    []MetricPoint `json:"new_clients_trend"`
	NPSOverTime        []MetricPoint `json:"nps_over_time"`
	MarketShareTrend   []MetricPoint `json:"market_share_trend"`
	NewServiceAdoption []MetricPoint `json:"new_service_adoption"`
}

// BuildKPISnapshot assembles the static KPIs and regenerates the four
// trends for the selected range.
func BuildKPISnapshot(gen *MetricsGenerator, tr TimeRange) KPISnapshot {
	months := tr.Months()
	return KPISnapshot{
		TimeRange:   tr,
		GeneratedAt: gen.Now(),

		ClientAcquisition: TabKPIs{
			Cards: []MetricCard{
				{Title: "New Clients Acquired", Value: "37", Trend: "+15% from last quarter", Icon: "users", Tooltip: "Total number of new clients onboarded in the selected period"},
				{Title: "Lead-to-Client Conversion", Value: "18%", Trend: "+2% from last year", Icon: "trending-up", Tooltip: "Percentage of leads that become paying clients"},
				{Title: "Client Penetration in Key Markets", Value: "25%", Trend: "+5% from last quarter", Icon: "globe", Tooltip: "Percentage of target market captured as clients"},
				{Title: "Strategic Account Growth", Value: "15%", Trend: "+3% from last year", Icon: "bar-chart", Tooltip: "Growth in revenue from key strategic accounts"},
			},
			Breakdown: []Breakdown{
				{Label: "Initial Contact", Value: 100},
				{Label: "Qualification", Value: 60},
				{Label: "Proposal", Value: 40},
				{Label: "Negotiation", Value: 25},
				{Label: "Closed Won", Value: 18},
			},
		},
		ClientRelationship: TabKPIs{
			Cards: []MetricCard{
				{Title: "Net Promoter Score", Value: "72", Trend: "+5 from last survey", Icon: "award", Tooltip: "Measure of client loyalty and satisfaction"},
				{Title: "Client Retention Rate", Value: "92%", Trend: "+2% from last year", Icon: "heart-handshake", Tooltip: "Percentage of clients retained over a given period"},
				{Title: "Client Satisfaction Score", Value: "4.8", Trend: "+0.2 from last quarter", Icon: "trophy", Tooltip: "Average rating of client satisfaction surveys"},
				{Title: "Client Engagement Rate", Value: "85%", Trend: "+5% from last quarter", Icon: "briefcase", Tooltip: "Measure of how actively clients interact with the firm"},
			},
			Breakdown: []Breakdown{
				{Label: "Communication", Value: 4.7},
				{Label: "Expertise", Value: 4.9},
				{Label: "Responsiveness", Value: 4.6},
				{Label: "Value for Money", Value: 4.5},
				{Label: "Overall Satisfaction", Value: 4.8},
			},
		},
		MarketPositioning: TabKPIs{
			Cards: []MetricCard{
				{Title: "Market Share Growth", Value: "5.2%", Trend: "+1.2% from last year", Icon: "bar-chart", Tooltip: "Increase in the firm's share of the total market"},
				{Title: "Share of Voice", Value: "28%", Trend: "+3% from last quarter", Icon: "trending-up", Tooltip: "Firm's visibility in the market compared to competitors"},
				{Title: "Competitive Win Rate", Value: "65%", Trend: "+5% from last quarter", Icon: "award", Tooltip: "Percentage of bids won against direct competitors"},
				{Title: "Brand Recognition", Value: "72%", Trend: "+7% from last year", Icon: "trophy", Tooltip: "Percentage of target audience aware of the firm's brand"},
			},
			Breakdown: []Breakdown{
				{Label: "Our Firm", Value: 85},
				{Label: "Competitor A", Value: 78},
				{Label: "Competitor B", Value: 72},
				{Label: "Competitor C", Value: 68},
				{Label: "Competitor D", Value: 62},
			},
		},
		StrategicInitiatives: TabKPIs{
			Cards: []MetricCard{
				{Title: "New Partnerships Formed", Value: "5", Trend: "+2 from last year", Icon: "heart-handshake", Tooltip: "Number of new strategic alliances or partnerships"},
				{Title: "Partnership Impact on Growth", Value: "12%", Trend: "+5% from last quarter", Icon: "trending-up", Tooltip: "Percentage of growth attributed to partnerships"},
				{Title: "Success Rate of Initiatives", Value: "78%", Trend: "+8% from last year", Icon: "award", Tooltip: "Percentage of strategic initiatives meeting their goals"},
				{Title: "Adoption of New Services", Value: "32%", Trend: "+12% from last quarter", Icon: "lightbulb", Tooltip: "Percentage of clients using newly introduced services"},
			},
			Breakdown: []Breakdown{
				{Label: "Market Entry", Value: 85},
				{Label: "New Service Line", Value: 72},
				{Label: "Digital Transformation", Value: 68},
				{Label: "Client Portal", Value: 90},
			},
		},

		NewClientsTrend:    gen.Generate(months),
		NPSOverTime:        gen.Generate(months),
		MarketShareTrend:   gen.Generate(months),
		NewServiceAdoption: gen.Generate(months),
	}
}

// TabKPIs returns the KPI block of a tab, false for the calendar tab
func (s KPISnapshot) TabKPIs(tab string) (TabKPIs, bool) {
	switch tab {
	case TabClientAcquisition:
		return s.ClientAcquisition, true
	case TabClientRelationship:
		return s.ClientRelationship, true
	case TabMarketPositioning:
		return s.MarketPositioning, true
	case TabStrategicInitiatives:
		return s.StrategicInitiatives, true
	}
	return TabKPIs{}, false
}
