package channel

// Seed is a starter directory used by `countrykit channels seed` and tests.
var Seed = []Channel{
	{Name: "M-PESA", CountryAlpha2: "KE", HNI: "63902", Kind: KindMobileMoney},
	{Name: "Equity Bank", CountryAlpha2: "KE", Kind: KindBank},
	{Name: "Airtel Money", CountryAlpha2: "KE", HNI: "63903", Kind: KindMobileMoney},
	{Name: "MTN Mobile Money", CountryAlpha2: "UG", HNI: "64110", Kind: KindMobileMoney},
	{Name: "Airtel Money", CountryAlpha2: "UG", HNI: "64101", Kind: KindMobileMoney},
	{Name: "MTN Mobile Money", CountryAlpha2: "GH", HNI: "62001", Kind: KindMobileMoney},
	{Name: "Vodafone Cash", CountryAlpha2: "GH", HNI: "62002", Kind: KindMobileMoney},
	{Name: "Vodacom M-Pesa", CountryAlpha2: "TZ", HNI: "64004", Kind: KindMobileMoney},
	{Name: "Orange Money", CountryAlpha2: "CI", HNI: "61203", Kind: KindMobileMoney},
	{Name: "GTBank", CountryAlpha2: "NG", Kind: KindBank},
	{Name: "MTN Airtime", CountryAlpha2: "NG", HNI: "62130", Kind: KindTelecom},
}
