package routing

// DefaultAgency handles complaints whose category has no dedicated agency.
const DefaultAgency = "General Services"

// agencyByCategory is the fixed routing table. Agency names are stored on
// the complaint as labels at submission time; they are not re-derived later.
var agencyByCategory = map[string]string{
	"Roads":            "Department of Public Works",
	"Road Maintenance": "Department of Public Works",
	"Utilities":        "Utility Services",
	"Public Safety":    "Police Department",
	"Public Transport": "Transportation Authority",
	"Waste Management": "Sanitation Department",
	"Other":            DefaultAgency,
}

// ResolveAgency maps a category to the responsible agency name.
// Unknown categories resolve to DefaultAgency.
func ResolveAgency(category string) string {
	if agency, ok := agencyByCategory[category]; ok {
		return agency
	}
	return DefaultAgency
}

// KnownCategories returns the categories a submitter may supply explicitly.
func KnownCategories() []string {
	return []string{
		"Roads",
		"Road Maintenance",
		"Utilities",
		"Public Safety",
		"Public Transport",
		"Waste Management",
		"General",
		"Other",
	}
}
