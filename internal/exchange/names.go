package exchange

var currencyNames = map[string]string{
	"AED": "United Arab Emirates Dirham",
	"ARS": "Argentine Peso",
	"AUD": "Australian Dollar",
	"BGN": "Bulgarian Lev",
	"BRL": "Brazilian Real",
	"CAD": "Canadian Dollar",
	"CHF": "Swiss Franc",
	"CLP": "Chilean Peso",
	"CNY": "Chinese Yuan",
	"COP": "Colombian Peso",
	"CZK": "Czech Koruna",
	"DKK": "Danish Krone",
	"EGP": "Egyptian Pound",
	"EUR": "Euro",
	"GBP": "British Pound",
	"HKD": "Hong Kong Dollar",
	"HUF": "Hungarian Forint",
	"IDR": "Indonesian Rupiah",
	"ILS": "Israeli New Shekel",
	"INR": "Indian Rupee",
	"ISK": "Icelandic Króna",
	"JPY": "Japanese Yen",
	"KRW": "South Korean Won",
	"MAD": "Moroccan Dirham",
	"MDL": "Moldovan Leu",
	"MXN": "Mexican Peso",
	"MYR": "Malaysian Ringgit",
	"NGN": "Nigerian Naira",
	"NOK": "Norwegian Krone",
	"NZD": "New Zealand Dollar",
	"PHP": "Philippine Peso",
	"PKR": "Pakistani Rupee",
	"PLN": "Polish Zloty",
	"RON": "Romanian Leu",
	"RSD": "Serbian Dinar",
	"RUB": "Russian Ruble",
	"SAR": "Saudi Riyal",
	"SEK": "Swedish Krona",
	"SGD": "Singapore Dollar",
	"THB": "Thai Baht",
	"TRY": "Turkish Lira",
	"TWD": "New Taiwan Dollar",
	"UAH": "Ukrainian Hryvnia",
	"USD": "United States Dollar",
	"VND": "Vietnamese Dong",
	"ZAR": "South African Rand",
}

// CurrencyName returns the display name for a currency code, falling back
// to a generic label for codes the table does not carry.
func CurrencyName(code string) string {
	if name, ok := currencyNames[code]; ok {
		return name
	}
	return "Unknown Currency"
}
