// Package schema maps the semantic KPI fields of the simulation onto whatever
// column names a workbook happens to use.
package schema

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

// ErrUnknownField indicates a field name that is not one of the semantic fields.
var ErrUnknownField = errors.New("unknown field")

// Field is a semantic role a column can play.
type Field string

// Identifier fields.
const (
	Round     Field = "round"
	Date      Field = "date"
	Product   Field = "product"
	Customer  Field = "customer"
	Component Field = "component"
	Supplier  Field = "supplier"
)

// Financial fields.
const (
	ROI      Field = "roi"
	Revenue  Field = "revenue"
	COGS     Field = "cogs"
	Indirect Field = "indirect"
)

// Functional KPI fields.
const (
	ShelfLife            Field = "shelf_life"
	ServiceLevel         Field = "service_level"
	ForecastError        Field = "forecast_error"
	ObsolescencePct      Field = "obsolescence_pct"
	ComponentAvail       Field = "component_availability"
	ProductAvail         Field = "product_availability"
	InboundUtil          Field = "inbound_util"
	OutboundUtil         Field = "outbound_util"
	PlanAdherence        Field = "plan_adherence"
	DeliveryReliability  Field = "delivery_reliability"
	RejectionPct         Field = "rejection_pct"
	ComponentObsoletePct Field = "component_obsolete_pct"
	RMCostPct            Field = "rm_cost_pct"
)

// Group is the functional area a field belongs to.
type Group string

const (
	GroupIdentifier  Group = "identifier"
	GroupFinancial   Group = "financial"
	GroupSales       Group = "sales"
	GroupSupplyChain Group = "supply_chain"
	GroupOperations  Group = "operations"
	GroupPurchasing  Group = "purchasing"
)

// Definition describes a semantic field.
type Definition struct {
	Field Field `json:"field"`
	// Label is the human-readable KPI name.
	Label string `json:"label"`
	Group Group  `json:"group"`
	// Patterns are case-insensitive regular expressions in priority order.
	Patterns []string `json:"patterns"`
	// Aliases are alternative names accepted by ParseField.
	Aliases []string `json:"-"`
}

var definitions = []Definition{
	{Field: Round, Label: "Round", Group: GroupIdentifier,
		Patterns: []string{`^round$`, `week`, `period`, `cycle`, `game\s*round`}},
	{Field: Date, Label: "Date", Group: GroupIdentifier,
		Patterns: []string{`\bdate\b`}},
	{Field: Product, Label: "Product", Group: GroupIdentifier,
		Patterns: []string{`^product$`, `sku`, `item`}},
	{Field: Customer, Label: "Customer", Group: GroupIdentifier,
		Patterns: []string{`^customer`, `account`, `client`}},
	{Field: Component, Label: "Component", Group: GroupIdentifier,
		Patterns: []string{`^component`, `part`}},
	{Field: Supplier, Label: "Supplier", Group: GroupIdentifier,
		Patterns: []string{`^supplier`, `vendor`}},

	{Field: ROI, Label: "ROI", Group: GroupFinancial,
		Patterns: []string{`\bROI\b`, `return\s*on\s*investment`}},
	{Field: Revenue, Label: "Revenues", Group: GroupFinancial,
		Patterns: []string{`realized\s*revenue`, `\brevenue`, `sales\s*revenue`}},
	{Field: COGS, Label: "COGS", Group: GroupFinancial,
		Patterns: []string{`\bCOGS\b`, `cost\s*of\s*goods`}},
	{Field: Indirect, Label: "Indirect", Group: GroupFinancial,
		Patterns: []string{`indirect\s*cost`, `overhead`}},

	{Field: ShelfLife, Label: "Shelf Life", Group: GroupSales,
		Patterns: []string{`attained\s*shelf\s*life`, `avg.*shelf.*life`, `\bshelf\s*life\b`}},
	{Field: ServiceLevel, Label: "Service Level", Group: GroupSales,
		Patterns: []string{`achieved\s*service\s*level`, `service\s*level`}},
	{Field: ForecastError, Label: "Forecast Error", Group: GroupSales,
		Patterns: []string{`forecast(ing)?\s*error`, `MAPE`, `bias`}},
	{Field: ObsolescencePct, Label: "Obsolescence %", Group: GroupSales,
		Patterns: []string{`obsolesc(en)?ce\s*%?`, `obsolete\s*%`}, Aliases: []string{"Obsolescence%"}},

	{Field: ComponentAvail, Label: "Component Avail", Group: GroupSupplyChain,
		Patterns: []string{`component\s*availability`}, Aliases: []string{"CompAvail", "ComponentAvail"}},
	{Field: ProductAvail, Label: "Product Avail", Group: GroupSupplyChain,
		Patterns: []string{`product\s*availability`}, Aliases: []string{"ProdAvail", "ProductAvail"}},

	{Field: InboundUtil, Label: "Inbound Util", Group: GroupOperations,
		Patterns: []string{`inbound\s*warehouse.*cube\s*util`, `inbound.*util`}},
	{Field: OutboundUtil, Label: "Outbound Util", Group: GroupOperations,
		Patterns: []string{`outbound\s*warehouse.*cube\s*util`, `outbound.*util`}},
	{Field: PlanAdherence, Label: "Plan Adherence %", Group: GroupOperations,
		Patterns: []string{`production\s*plan\s*adherence`, `\bplan\s*adherence`}, Aliases: []string{"PlanAdherence%"}},

	{Field: DeliveryReliability, Label: "Delivery Reliability", Group: GroupPurchasing,
		Patterns: []string{`delivery\s*reliab`, `component\s*delivery\s*reliab`}},
	{Field: RejectionPct, Label: "Rejection %", Group: GroupPurchasing,
		Patterns: []string{`rejection\s*%|reject\s*%`}, Aliases: []string{"Rejection%"}},
	{Field: ComponentObsoletePct, Label: "Component Obsolete %", Group: GroupPurchasing,
		Patterns: []string{`component\s*obsolete\s*%|obsolete\s*component\s*%`}, Aliases: []string{"ComponentObsolete%"}},
	{Field: RMCostPct, Label: "RM Cost %", Group: GroupPurchasing,
		Patterns: []string{`raw\s*material\s*cost\s*%|RM\s*cost\s*%`}, Aliases: []string{"RMCost%"}},
}

// kpiOrder is the axis order of the impact matrix.
var kpiOrder = []Field{
	ROI, Revenue, COGS, Indirect,
	ServiceLevel, ShelfLife, ForecastError, ObsolescencePct,
	ComponentAvail, ProductAvail,
	InboundUtil, OutboundUtil, PlanAdherence,
	DeliveryReliability, RejectionPct, ComponentObsoletePct, RMCostPct,
}

var (
	byField  = make(map[Field]int, len(definitions))
	compiled = make(map[Field][]*regexp.Regexp, len(definitions))
)

func init() {
	for i, d := range definitions {
		byField[d.Field] = i
		rxs, err := Compile(d.Patterns)
		if err != nil {
			panic(fmt.Sprintf("schema: field %s: %v", d.Field, err))
		}
		compiled[d.Field] = rxs
	}
}

// Fields returns every semantic field in definition order.
func Fields() []Field {
	out := make([]Field, len(definitions))
	for i, d := range definitions {
		out[i] = d.Field
	}
	return out
}

// KPIFields returns the financial and functional KPI fields in impact matrix order.
func KPIFields() []Field {
	return append([]Field(nil), kpiOrder...)
}

// Definitions returns a copy of every field definition.
func Definitions() []Definition {
	return append([]Definition(nil), definitions...)
}

// Lookup returns the definition of a field.
func Lookup(f Field) (Definition, bool) {
	i, ok := byField[f]
	if !ok {
		return Definition{}, false
	}
	return definitions[i], true
}

// Label returns the human-readable name of the field.
func (f Field) Label() string {
	if d, ok := Lookup(f); ok {
		return d.Label
	}
	return string(f)
}

// Patterns returns the compiled detection patterns of the field.
func (f Field) Patterns() []*regexp.Regexp {
	return compiled[f]
}

// ParseField resolves a field key, label or alias, ignoring case, spaces and punctuation.
func ParseField(s string) (Field, error) {
	key := squash(s)
	if key == "" {
		return "", fmt.Errorf("%w: %q", ErrUnknownField, s)
	}
	for _, d := range definitions {
		if squash(string(d.Field)) == key || squash(d.Label) == key {
			return d.Field, nil
		}
		for _, a := range d.Aliases {
			if squash(a) == key {
				return d.Field, nil
			}
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownField, s)
}

func squash(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '%' {
			b.WriteRune(r)
		}
	}
	return strings.ReplaceAll(b.String(), "pct", "%")
}
