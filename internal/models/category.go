package models

// Category is the closed set of spending categories shared by expenses and
// budget allocations.
type Category string

const (
	CategoryGroceries     Category = "Groceries"
	CategoryRestaurants   Category = "Restaurants"
	CategoryTransport     Category = "Transport"
	CategoryServices      Category = "Services"
	CategoryCashback      Category = "Cashback"
	CategoryCredit        Category = "Credit"
	CategorySubscription  Category = "Subscription"
	CategoryEntertainment Category = "Entertainment"
	CategoryGift          Category = "Gift"
	CategoryRent          Category = "Rent"
	CategoryOther         Category = "Other"
)

// Categories lists every valid category in display order.
var Categories = []Category{
	CategoryGroceries,
	CategoryRestaurants,
	CategoryTransport,
	CategoryServices,
	CategoryCashback,
	CategoryCredit,
	CategorySubscription,
	CategoryEntertainment,
	CategoryGift,
	CategoryRent,
	CategoryOther,
}

// IsValid reports whether c is one of the known categories.
func (c Category) IsValid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}
