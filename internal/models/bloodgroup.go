package models

// BloodGroups lists the eight standard ABO/Rh groups accepted for new donations.
var BloodGroups = []string{"A+", "A-", "B+", "B-", "AB+", "AB-", "O+", "O-"}

// IsBloodGroup reports whether g is one of BloodGroups. g must already be upper-cased.
func IsBloodGroup(g string) bool {
	for _, bg := range BloodGroups {
		if bg == g {
			return true
		}
	}
	return false
}
