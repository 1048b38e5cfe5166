package taxonomy

import "ipo-analytics/models"

// ExchangeEntry declares one exchange code and the country of its national
// market. The table is many-to-one: several venue codes for one country are
// expected, but the same code declared twice with different countries is a
// data-authoring error caught at construction time.
type ExchangeEntry struct {
	Code    string
	Country string
}

// exchangeTable is the single canonical exchange-to-country table. Several
// overlapping upstream lists were consolidated into it; where they disagreed
// on a code, the resolution is recorded in DESIGN.md rather than picked
// silently.
var exchangeTable = []ExchangeEntry{
	// United States
	{"NASDAQ", "United States"},
	{"NYSE", "United States"},
	{"AMEX", "United States"},
	{"NYSEARCA", "United States"},
	{"BATS", "United States"},

	// Canada
	{"TSX", "Canada"},
	{"TSXV", "Canada"},
	{"CSE", "Canada"},

	// Latin America
	{"B3", "Brazil"},
	{"BOVESPA", "Brazil"},
	{"BMV", "Mexico"},
	{"BCBA", "Argentina"},
	{"BCS", "Chile"},
	{"BVC", "Colombia"},
	{"BVL", "Peru"},

	// United Kingdom
	{"LSE", "United Kingdom"},
	{"AIM", "United Kingdom"},
	{"LON", "United Kingdom"},

	// Germany
	{"XETRA", "Germany"},
	{"FSE", "Germany"},
	{"FRA", "Germany"},
	{"BER", "Germany"},
	{"MUN", "Germany"},
	{"STU", "Germany"},
	{"HAM", "Germany"},
	{"DUS", "Germany"},

	// France
	{"EPA", "France"},
	{"EURONEXT", "France"},
	{"PAR", "France"},

	// Rest of Europe
	{"AMS", "Netherlands"},
	{"BIT", "Italy"},
	{"MIL", "Italy"},
	{"BME", "Spain"},
	{"MCE", "Spain"},
	{"MAD", "Spain"},
	{"SIX", "Switzerland"},
	{"VTX", "Switzerland"},
	{"STO", "Sweden"},
	{"HEL", "Finland"},
	{"CPH", "Denmark"},
	{"OSL", "Norway"},
	{"WSE", "Poland"},
	{"BUD", "Hungary"},
	{"PRA", "Czech Republic"},
	{"ATH", "Greece"},
	{"LIS", "Portugal"},
	{"BRU", "Belgium"},
	{"VIE", "Austria"},
	{"TAL", "Estonia"},
	{"RIG", "Latvia"},
	{"VSE", "Lithuania"},
	{"IST", "Turkey"},
	{"MSX", "Russia"},

	// Middle East & Africa
	{"TASE", "Israel"},
	{"JSE", "South Africa"},
	{"DFM", "UAE"},
	{"ADX", "UAE"},
	{"TADAWUL", "Saudi Arabia"},
	{"QE", "Qatar"},
	{"KSE", "Kuwait"},
	{"EGX", "Egypt"},

	// China & Hong Kong
	{"SSE", "China"},
	{"SZSE", "China"},
	{"HKEX", "Hong Kong"},
	{"HKG", "Hong Kong"},

	// Japan
	{"TSE", "Japan"},
	{"JPX", "Japan"},
	{"OSA", "Japan"},

	// South Korea
	{"KRX", "South Korea"},
	{"KOSPI", "South Korea"},
	{"KOSDAQ", "South Korea"},

	// India
	{"BSE", "India"},
	{"NSE", "India"},

	// Rest of APAC
	{"SGX", "Singapore"},
	{"TWSE", "Taiwan"},
	{"TPEX", "Taiwan"},
	{"ASX", "Australia"},
	{"NZX", "New Zealand"},
	{"SET", "Thailand"},
	{"KLSE", "Malaysia"},
	{"IDX", "Indonesia"},
	{"PSE", "Philippines"},
	{"HOSE", "Vietnam"},
	{"HNX", "Vietnam"},
	{"PSX", "Pakistan"},
	{"DSE", "Bangladesh"},
	{"MSE", "Mongolia"},
	{"KASE", "Kazakhstan"},
}

// countryRegions partitions every country the registry can produce into
// exactly one region. Countries absent from this table classify as Other.
var countryRegions = map[string]models.Region{
	// Americas
	"United States": models.RegionAmericas,
	"Canada":        models.RegionAmericas,
	"Brazil":        models.RegionAmericas,
	"Mexico":        models.RegionAmericas,
	"Argentina":     models.RegionAmericas,
	"Chile":         models.RegionAmericas,
	"Colombia":      models.RegionAmericas,
	"Peru":          models.RegionAmericas,

	// EMEA
	"United Kingdom": models.RegionEMEA,
	"Germany":        models.RegionEMEA,
	"France":         models.RegionEMEA,
	"Netherlands":    models.RegionEMEA,
	"Italy":          models.RegionEMEA,
	"Spain":          models.RegionEMEA,
	"Switzerland":    models.RegionEMEA,
	"Sweden":         models.RegionEMEA,
	"Norway":         models.RegionEMEA,
	"Denmark":        models.RegionEMEA,
	"Finland":        models.RegionEMEA,
	"Poland":         models.RegionEMEA,
	"Hungary":        models.RegionEMEA,
	"Czech Republic": models.RegionEMEA,
	"Greece":         models.RegionEMEA,
	"Portugal":       models.RegionEMEA,
	"Belgium":        models.RegionEMEA,
	"Austria":        models.RegionEMEA,
	"Estonia":        models.RegionEMEA,
	"Latvia":         models.RegionEMEA,
	"Lithuania":      models.RegionEMEA,
	"Ireland":        models.RegionEMEA,
	"Luxembourg":     models.RegionEMEA,
	"Russia":         models.RegionEMEA,
	"Turkey":         models.RegionEMEA,
	"Israel":         models.RegionEMEA,
	"South Africa":   models.RegionEMEA,
	"UAE":            models.RegionEMEA,
	"Saudi Arabia":   models.RegionEMEA,
	"Qatar":          models.RegionEMEA,
	"Kuwait":         models.RegionEMEA,
	"Egypt":          models.RegionEMEA,
	"Morocco":        models.RegionEMEA,
	"Nigeria":        models.RegionEMEA,
	"Kenya":          models.RegionEMEA,

	// APAC
	"China":       models.RegionAPAC,
	"Japan":       models.RegionAPAC,
	"South Korea": models.RegionAPAC,
	"India":       models.RegionAPAC,
	"Singapore":   models.RegionAPAC,
	"Hong Kong":   models.RegionAPAC,
	"Taiwan":      models.RegionAPAC,
	"Australia":   models.RegionAPAC,
	"New Zealand": models.RegionAPAC,
	"Thailand":    models.RegionAPAC,
	"Malaysia":    models.RegionAPAC,
	"Indonesia":   models.RegionAPAC,
	"Philippines": models.RegionAPAC,
	"Vietnam":     models.RegionAPAC,
	"Bangladesh":  models.RegionAPAC,
	"Pakistan":    models.RegionAPAC,
	"Sri Lanka":   models.RegionAPAC,
	"Myanmar":     models.RegionAPAC,
	"Cambodia":    models.RegionAPAC,
	"Laos":        models.RegionAPAC,
	"Mongolia":    models.RegionAPAC,
	"Kazakhstan":  models.RegionAPAC,
	"Uzbekistan":  models.RegionAPAC,
}
