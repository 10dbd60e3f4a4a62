package schema

// StateNames maps the state and territory codes accepted by the toolbox
// to the names used in metadata. PRUSVI is the combined Puerto Rico and
// U.S. Virgin Islands product code.
var StateNames = map[string]string{
	"AK": "Alaska", "AL": "Alabama", "AR": "Arkansas",
	"AS": "American Samoa", "AZ": "Arizona", "CA": "California",
	"CO": "Colorado", "CT": "Connecticut", "DC": "District of Columbia",
	"DE": "Delaware", "FL": "Florida",
	"FM": "Federated States of Micronesia", "GA": "Georgia",
	"GU": "Guam", "HI": "Hawaii", "IA": "Iowa", "ID": "Idaho",
	"IL": "Illinois", "IN": "Indiana", "KS": "Kansas", "KY": "Kentucky",
	"LA": "Louisiana", "MA": "Massachusetts", "MD": "Maryland",
	"ME": "Maine", "MH": "Republic of the Marshall Islands",
	"MI": "Michigan", "MN": "Minnesota", "MO": "Missouri",
	"MP": "Commonwealth of the Northern Mariana Islands",
	"MS": "Mississippi", "MT": "Montana", "NC": "North Carolina",
	"ND": "North Dakota", "NE": "Nebraska", "NH": "New Hampshire",
	"NJ": "New Jersey", "NM": "New Mexico", "NV": "Nevada",
	"NY": "New York", "OH": "Ohio", "OK": "Oklahoma", "OR": "Oregon",
	"PA": "Pennsylvania", "PR": "Puerto Rico",
	"PRUSVI": "Puerto Rico and U.S. Virgin Islands",
	"PW": "Republic of Palau", "RI": "Rhode Island",
	"SC": "South Carolina", "SD": "South Dakota", "TN": "Tennessee",
	"TX": "Texas", "UT": "Utah", "VA": "Virginia",
	"VI": "U.S. Virgin Islands", "VT": "Vermont", "WA": "Washington",
	"WI": "Wisconsin", "WV": "West Virginia", "WY": "Wyoming",
}

// ValidStates is the set of codes a state package directory may be named
// after. MX and US appear on cross-border and national products.
var ValidStates = map[string]bool{
	"AK": true, "AL": true, "AR": true, "AS": true, "AZ": true,
	"CA": true, "CO": true, "CT": true, "DC": true, "DE": true,
	"FL": true, "FM": true, "GA": true, "GU": true, "HI": true,
	"IA": true, "ID": true, "IL": true, "IN": true, "KS": true,
	"KY": true, "LA": true, "MA": true, "MD": true, "ME": true,
	"MH": true, "MI": true, "MN": true, "MO": true, "MP": true,
	"MS": true, "MT": true, "MX": true, "NC": true, "ND": true,
	"NE": true, "NH": true, "NJ": true, "NM": true, "NV": true,
	"NY": true, "OH": true, "OK": true, "OR": true, "PA": true,
	"PR": true, "PW": true, "RI": true, "SC": true, "SD": true,
	"TN": true, "TX": true, "US": true, "UT": true, "VA": true,
	"VI": true, "VT": true, "WA": true, "WI": true, "WV": true,
	"WY": true,
}

// StateName resolves a code to its metadata name, falling back to the
// code itself for codes without an entry.
func StateName(code string) string {
	if n, ok := StateNames[code]; ok {
		return n
	}
	return code
}
