package valueobject

// Merchant categories the classifier was trained on.
const (
	CategoryMiscPOS       = "misc_pos"
	CategoryGasTransport  = "gas_transport"
	CategoryGroceryPOS    = "grocery_pos"
	CategoryShoppingPOS   = "shopping_pos"
	CategoryFoodDining    = "food_dining"
	CategoryPersonalCare  = "personal_care"
	CategoryHealthFitness = "health_fitness"
	CategoryHome          = "home"
	CategoryEntertainment = "entertainment"
	CategoryTravel        = "travel"
	CategoryMiscNet       = "misc_net"
)

var knownCategories = []string{
	CategoryMiscPOS,
	CategoryGasTransport,
	CategoryGroceryPOS,
	CategoryShoppingPOS,
	CategoryFoodDining,
	CategoryPersonalCare,
	CategoryHealthFitness,
	CategoryHome,
	CategoryEntertainment,
	CategoryTravel,
	CategoryMiscNet,
}

// KnownCategories returns the merchant categories in form display order.
func KnownCategories() []string {
	out := make([]string, len(knownCategories))
	copy(out, knownCategories)
	return out
}

// IsKnownCategory reports whether c is one of the known merchant categories.
func IsKnownCategory(c string) bool {
	for _, k := range knownCategories {
		if k == c {
			return true
		}
	}
	return false
}

// Cardholder genders accepted by the form.
const (
	GenderMale   = "M"
	GenderFemale = "F"
)

// KnownGenders returns the accepted gender codes.
func KnownGenders() []string {
	return []string{GenderMale, GenderFemale}
}

// IsKnownGender reports whether g is an accepted gender code.
func IsKnownGender(g string) bool {
	return g == GenderMale || g == GenderFemale
}
