package geometry

// Country codes with geometry that warrants special handling. The lists are
// fixed: membership only ever produces advisory issues, never invalidity.

// archipelagoCountries are expected to ship as MultiPolygon.
var archipelagoCountries = map[string]bool{
	"IDN": true, // Indonesia
	"PHL": true, // Philippines
	"JPN": true, // Japan
	"GRC": true, // Greece
	"NZL": true, // New Zealand
	"FJI": true, // Fiji
	"MDV": true, // Maldives
	"BHS": true, // Bahamas
	"SLB": true, // Solomon Islands
}

// enclaveCountries contain or sit inside another country's territory.
var enclaveCountries = map[string]bool{
	"LSO": true, // Lesotho
	"SMR": true, // San Marino
	"VAT": true, // Vatican City
	"ITA": true, // Italy (contains SMR, VAT)
	"ZAF": true, // South Africa (contains LSO)
}

// complexBorderCountries have disputed or exceptionally intricate borders.
var complexBorderCountries = map[string]bool{
	"IND": true,
	"PAK": true,
	"CHN": true,
	"NLD": true,
	"BEL": true,
	"MAR": true,
	"ESP": true,
}
