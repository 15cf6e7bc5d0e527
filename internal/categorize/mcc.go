package categorize

import "cardwise/internal/core"

// mccTable maps ISO 18245 merchant category codes onto spending categories.
// Loaded once at init; treated as immutable configuration.
var mccTable = map[string]core.Category{
	// Groceries
	"5411": core.Groceries, "5422": core.Groceries, "5441": core.Groceries,
	"5451": core.Groceries, "5462": core.Groceries, "5499": core.Groceries,
	"5921": core.Groceries,

	// Dining
	"5811": core.Dining, "5812": core.Dining, "5813": core.Dining,
	"5814": core.Dining,

	// Gas
	"5172": core.Gas, "5541": core.Gas, "5542": core.Gas, "5983": core.Gas,

	// Travel: airlines, hotels, agencies, cruise lines, car rental
	"3000": core.Travel, "3001": core.Travel, "3002": core.Travel,
	"3003": core.Travel, "3004": core.Travel, "3005": core.Travel,
	"3006": core.Travel, "3007": core.Travel, "3008": core.Travel,
	"3009": core.Travel, "3010": core.Travel, "3058": core.Travel,
	"3075": core.Travel, "3501": core.Travel, "3502": core.Travel,
	"3503": core.Travel, "3504": core.Travel, "3509": core.Travel,
	"3510": core.Travel, "3530": core.Travel, "3533": core.Travel,
	"3543": core.Travel, "3572": core.Travel, "3590": core.Travel,
	"3615": core.Travel, "3640": core.Travel, "3649": core.Travel,
	"3690": core.Travel, "3710": core.Travel, "4411": core.Travel,
	"4511": core.Travel, "4582": core.Travel, "4722": core.Travel,
	"7011": core.Travel, "7512": core.Travel,

	// Transit
	"4011": core.Transit, "4111": core.Transit, "4112": core.Transit,
	"4121": core.Transit, "4131": core.Transit, "4784": core.Transit,
	"4789": core.Transit, "7523": core.Transit,

	// Entertainment
	"5945": core.Entertainment, "7832": core.Entertainment,
	"7922": core.Entertainment, "7929": core.Entertainment,
	"7933": core.Entertainment, "7941": core.Entertainment,
	"7991": core.Entertainment, "7992": core.Entertainment,
	"7996": core.Entertainment, "7998": core.Entertainment,
	"7999": core.Entertainment,

	// Shopping
	"5310": core.Shopping, "5311": core.Shopping, "5331": core.Shopping,
	"5399": core.Shopping, "5611": core.Shopping, "5621": core.Shopping,
	"5631": core.Shopping, "5641": core.Shopping, "5651": core.Shopping,
	"5655": core.Shopping, "5661": core.Shopping, "5691": core.Shopping,
	"5699": core.Shopping, "5712": core.Shopping, "5722": core.Shopping,
	"5732": core.Shopping, "5733": core.Shopping, "5734": core.Shopping,
	"5735": core.Shopping, "5941": core.Shopping, "5942": core.Shopping,
	"5943": core.Shopping, "5944": core.Shopping, "5946": core.Shopping,
	"5947": core.Shopping, "5948": core.Shopping, "5949": core.Shopping,
	"5964": core.Shopping, "5965": core.Shopping, "5966": core.Shopping,
	"5967": core.Shopping, "5968": core.Shopping, "5969": core.Shopping,
	"5970": core.Shopping, "5977": core.Shopping, "5999": core.Shopping,

	// Utilities
	"4814": core.Utilities, "4815": core.Utilities, "4821": core.Utilities,
	"4899": core.Utilities, "4900": core.Utilities,

	// Healthcare
	"5912": core.Healthcare, "5975": core.Healthcare, "5976": core.Healthcare,
	"8011": core.Healthcare, "8021": core.Healthcare, "8031": core.Healthcare,
	"8041": core.Healthcare, "8042": core.Healthcare, "8043": core.Healthcare,
	"8049": core.Healthcare, "8050": core.Healthcare, "8062": core.Healthcare,
	"8071": core.Healthcare, "8099": core.Healthcare,

	// Streaming / digital goods
	"5815": core.Streaming, "5816": core.Streaming, "5817": core.Streaming,
	"5818": core.Streaming,

	// Financial services
	"6010": core.FinancialServices, "6011": core.FinancialServices,
	"6012": core.FinancialServices, "6051": core.FinancialServices,
	"6211": core.FinancialServices, "6300": core.FinancialServices,
	"6513": core.FinancialServices, "6529": core.FinancialServices,
	"6530": core.FinancialServices, "6540": core.FinancialServices,
	"7276": core.FinancialServices,
}

// LookupMCC resolves a 4-digit merchant category code. The second return
// is false when the code is unknown or maps to nothing more specific
// than Other.
func LookupMCC(code string) (core.Category, bool) {
	cat, ok := mccTable[code]
	if !ok || cat == core.Other {
		return core.Other, false
	}
	return cat, true
}
