// Package dashboard lists, per functional domain, which summaries, trends,
// relationships and contribution tables to build, and builds them.
package dashboard

import (
	"github.com/ukaji3/fcreport-go/pkg/fcreport/analysis"
	"github.com/ukaji3/fcreport-go/pkg/fcreport/models"
	s "github.com/ukaji3/fcreport-go/pkg/fcreport/schema"
)

// TabID identifies a functional domain tab.
type TabID string

const (
	Financials  TabID = "financials"
	Sales       TabID = "sales"
	SupplyChain TabID = "supply_chain"
	Operations  TabID = "operations"
	Purchasing  TabID = "purchasing"
)

// KPISpec requests a scalar summary card.
type KPISpec struct {
	Label string
	Field s.Field
	Agg   analysis.Aggregator
}

// TrendSpec requests a by-round series.
type TrendSpec struct {
	Title string
	Field s.Field
	Kind  analysis.ChartKind
}

// Manifest is the fixed content of one tab.
type Manifest struct {
	ID            TabID
	Title         string
	Subtitle      string
	KPIs          []KPISpec
	Trends        []TrendSpec
	Contributions []analysis.ContributionSpec
	Scatters      []analysis.ScatterSpec
}

var manifests = []Manifest{
	{
		ID:       Financials,
		Title:    "Financials",
		Subtitle: "Financial KPIs",
		KPIs: []KPISpec{
			{"ROI (avg)", s.ROI, analysis.Mean},
			{"Realized Revenues (sum)", s.Revenue, analysis.Sum},
			{"COGS (sum)", s.COGS, analysis.Sum},
			{"Indirect Cost (sum)", s.Indirect, analysis.Sum},
		},
		Trends: []TrendSpec{
			{"ROI by Round", s.ROI, analysis.Line},
			{"Realized Revenues by Round", s.Revenue, analysis.Bar},
			{"COGS by Round", s.COGS, analysis.Bar},
			{"Indirect Cost by Round", s.Indirect, analysis.Bar},
		},
		Scatters: []analysis.ScatterSpec{
			{Title: "Revenue vs ROI", X: s.Revenue, Y: s.ROI, Color: []s.Field{s.Product, s.Customer}},
			{Title: "COGS vs ROI", X: s.COGS, Y: s.ROI, Color: []s.Field{s.Supplier, s.Product}},
			{Title: "Indirect Cost vs ROI", X: s.Indirect, Y: s.ROI, Color: []s.Field{s.Customer}},
		},
	},
	{
		ID:       Sales,
		Title:    "Sales",
		Subtitle: "VP Sales: KPI to financial impact",
		KPIs: []KPISpec{
			{"Service Level (avg)", s.ServiceLevel, analysis.Mean},
			{"Attained Shelf Life (avg)", s.ShelfLife, analysis.Mean},
			{"Forecast Error (avg)", s.ForecastError, analysis.Mean},
			{"Obsolescence % (avg)", s.ObsolescencePct, analysis.Mean},
		},
		Contributions: []analysis.ContributionSpec{
			{Title: "Customer Prioritization (Contribution)", GroupBy: s.Customer,
				Metrics: []analysis.Metric{analysis.AvgROI, analysis.TotalRevenue},
				Plot:    roiVsRevenue("Customers: ROI vs Revenue")},
		},
		Scatters: []analysis.ScatterSpec{
			{Title: "Service Level vs ROI (by Customer)", X: s.ServiceLevel, Y: s.ROI, Color: []s.Field{s.Customer}},
			{Title: "Shelf Life vs Revenue (by Product)", X: s.ShelfLife, Y: s.Revenue, Color: []s.Field{s.Product}},
			{Title: "Forecast Error vs ROI", X: s.ForecastError, Y: s.ROI, Color: []s.Field{s.Customer}},
			{Title: "Obsolescence % vs Revenue", X: s.ObsolescencePct, Y: s.Revenue, Color: []s.Field{s.Product}},
		},
	},
	{
		ID:       SupplyChain,
		Title:    "Supply Chain",
		Subtitle: "VP Supply Chain: availability and financials",
		Trends: []TrendSpec{
			{"Component Availability by Round", s.ComponentAvail, analysis.Line},
			{"Product Availability by Round", s.ProductAvail, analysis.Line},
		},
		Contributions: []analysis.ContributionSpec{
			{Title: "Components: prioritize by ROI / Revenue", GroupBy: s.Component,
				Metrics: []analysis.Metric{analysis.AvgROI, analysis.TotalRevenue},
				Plot:    roiVsRevenue("Components: ROI vs Revenue")},
			{Title: "Products: prioritize by ROI / Revenue", GroupBy: s.Product,
				Metrics: []analysis.Metric{analysis.AvgROI, analysis.TotalRevenue},
				Plot:    roiVsRevenue("Products: ROI vs Revenue")},
		},
	},
	{
		ID:       Operations,
		Title:    "Operations",
		Subtitle: "VP Operations: warehouses and production",
		KPIs: []KPISpec{
			{"Inbound WH Util (avg)", s.InboundUtil, analysis.Mean},
			{"Outbound WH Util (avg)", s.OutboundUtil, analysis.Mean},
			{"Plan Adherence % (avg)", s.PlanAdherence, analysis.Mean},
		},
		Scatters: []analysis.ScatterSpec{
			{Title: "Inbound WH Util vs COGS", X: s.InboundUtil, Y: s.COGS},
			{Title: "Outbound WH Util vs COGS", X: s.OutboundUtil, Y: s.COGS},
			{Title: "Production Plan Adherence vs ROI", X: s.PlanAdherence, Y: s.ROI},
		},
	},
	{
		ID:       Purchasing,
		Title:    "Purchasing",
		Subtitle: "VP Purchasing: supplier performance and financials",
		KPIs: []KPISpec{
			{"Delivery Reliability (avg)", s.DeliveryReliability, analysis.Mean},
			{"Rejection % (avg)", s.RejectionPct, analysis.Mean},
			{"Component Obsolete % (avg)", s.ComponentObsoletePct, analysis.Mean},
			{"Raw Material Cost % (avg)", s.RMCostPct, analysis.Mean},
		},
		Contributions: []analysis.ContributionSpec{
			{Title: "Supplier Impact Summary", GroupBy: s.Supplier,
				Metrics: []analysis.Metric{analysis.AvgROI, analysis.TotalCOGS, analysis.TotalRevenue},
				Plot:    supplierImpact},
		},
		Scatters: []analysis.ScatterSpec{
			{Title: "Delivery Reliability vs ROI (by Supplier)", X: s.DeliveryReliability, Y: s.ROI, Color: []s.Field{s.Supplier}},
			{Title: "Rejection % vs ROI (by Supplier)", X: s.RejectionPct, Y: s.ROI, Color: []s.Field{s.Supplier}},
			{Title: "RM Cost % vs ROI (by Supplier)", X: s.RMCostPct, Y: s.ROI, Color: []s.Field{s.Supplier}},
		},
	},
}

var supplierImpact = &analysis.GroupPlot{
	Title: "Suppliers: Financial Impact",
	X:     []string{analysis.TotalCOGS.Label, analysis.TotalRevenue.Label},
	Y:     analysis.AvgROI.Label,
}

func roiVsRevenue(title string) *analysis.GroupPlot {
	return &analysis.GroupPlot{Title: title, X: []string{analysis.TotalRevenue.Label}, Y: analysis.AvgROI.Label}
}

// Manifests returns the tab manifests in display order.
func Manifests() []Manifest {
	return append([]Manifest(nil), manifests...)
}

// ParseTab resolves a tab id.
func ParseTab(id string) (Manifest, bool) {
	for _, m := range manifests {
		if string(m.ID) == id {
			return m, true
		}
	}
	return Manifest{}, false
}

// KPI is a built summary card.
type KPI struct {
	Label string                   `json:"label"`
	Field s.Field                  `json:"field"`
	Hint  string                   `json:"hint"`
	Value analysis.Result[float64] `json:"value"`
}

// Tab is a built functional domain view.
type Tab struct {
	ID            TabID                                          `json:"id"`
	Title         string                                         `json:"title"`
	Subtitle      string                                         `json:"subtitle"`
	KPIs          []KPI                                          `json:"kpis,omitempty"`
	Trends        []analysis.Result[*analysis.Series]            `json:"trends,omitempty"`
	Contributions []analysis.Result[*analysis.ContributionTable] `json:"contributions,omitempty"`
	GroupScatters []analysis.Result[*analysis.Relationship]      `json:"group_scatters,omitempty"`
	Scatters      []analysis.Result[*analysis.Relationship]      `json:"scatters,omitempty"`
}

// Relationships returns the group scatters followed by the row-level scatters.
func (t Tab) Relationships() []analysis.Result[*analysis.Relationship] {
	out := make([]analysis.Result[*analysis.Relationship], 0, len(t.GroupScatters)+len(t.Scatters))
	out = append(out, t.GroupScatters...)
	return append(out, t.Scatters...)
}

// Dashboard is everything derived from one filtered view.
type Dashboard struct {
	Rows   int                               `json:"rows"`
	Impact analysis.Result[*analysis.Matrix] `json:"impact"`
	Tabs   []Tab                             `json:"tabs"`
}

// Build evaluates the impact matrix and every tab manifest over the view.
func Build(view *models.Table, m *s.Mapping) *Dashboard {
	d := &Dashboard{
		Rows:   view.Len(),
		Impact: analysis.BuildImpactMatrix(view, m),
	}
	for _, man := range manifests {
		d.Tabs = append(d.Tabs, BuildTab(view, m, man))
	}
	return d
}

// BuildTab evaluates one manifest over the view.
func BuildTab(view *models.Table, m *s.Mapping, man Manifest) Tab {
	tab := Tab{ID: man.ID, Title: man.Title, Subtitle: man.Subtitle}
	for _, k := range man.KPIs {
		tab.KPIs = append(tab.KPIs, KPI{
			Label: k.Label,
			Field: k.Field,
			Hint:  k.Agg.Caption(),
			Value: analysis.Summarize(view, m, k.Field, k.Agg),
		})
	}
	for _, t := range man.Trends {
		tab.Trends = append(tab.Trends, analysis.Trend(view, m, t.Title, t.Field, t.Kind))
	}
	for _, c := range man.Contributions {
		r := analysis.Contribution(view, m, c)
		tab.Contributions = append(tab.Contributions, r)
		if c.Plot != nil {
			tab.GroupScatters = append(tab.GroupScatters, analysis.GroupScatter(r, *c.Plot))
		}
	}
	for _, sc := range man.Scatters {
		tab.Scatters = append(tab.Scatters, analysis.Scatter(view, m, sc))
	}
	return tab
}

// Tab returns a built tab by id.
func (d *Dashboard) Tab(id TabID) (Tab, bool) {
	for _, t := range d.Tabs {
		if t.ID == id {
			return t, true
		}
	}
	return Tab{}, false
}

// Family is a named group of KPIs for the overview panel.
type Family struct {
	Name   string    `json:"name"`
	Fields []s.Field `json:"fields"`
}

// Overview lists the functional and financial KPI families.
func Overview() (functional, financial []Family) {
	functional = []Family{
		{"Purchase", []s.Field{s.DeliveryReliability, s.RejectionPct, s.ComponentObsoletePct, s.RMCostPct}},
		{"Sales", []s.Field{s.ShelfLife, s.ServiceLevel, s.ForecastError, s.ObsolescencePct}},
		{"Supply Chain", []s.Field{s.ComponentAvail, s.ProductAvail}},
		{"Operations", []s.Field{s.InboundUtil, s.OutboundUtil, s.PlanAdherence}},
	}
	financial = []Family{
		{"Financial", []s.Field{s.ROI, s.Revenue, s.COGS, s.Indirect}},
	}
	return functional, financial
}
