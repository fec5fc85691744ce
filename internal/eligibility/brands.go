package eligibility

import "strings"

// Brand lists attach informational surcharge messaging only; they never
// change the gate outcome.
var (
	luxuryBrands = []string{
		"BMW", "MERCEDES-BENZ", "AUDI", "LEXUS",
		"CADILLAC", "LINCOLN", "ACURA", "INFINITI",
	}
	highMaintenanceBrands = []string{
		"LAND ROVER", "JAGUAR", "PORSCHE",
		"MASERATI", "BENTLEY", "ROLLS-ROYCE",
	}
)

// BrandAdvisories returns advisory messages for luxury and high-maintenance
// makes.
func BrandAdvisories(make string) []string {
	upper := strings.ToUpper(strings.TrimSpace(make))
	if upper == "" {
		return nil
	}

	var advisories []string
	for _, brand := range luxuryBrands {
		if strings.Contains(upper, brand) {
			advisories = append(advisories, "Luxury vehicle - premium coverage rates apply")
			break
		}
	}
	for _, brand := range highMaintenanceBrands {
		if strings.Contains(upper, brand) {
			advisories = append(advisories, "High-maintenance brand - surcharge may apply")
			break
		}
	}
	return advisories
}
