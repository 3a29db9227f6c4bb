package shop

// Order is a purchase record.
type Order struct {
	ID    string
	Total float64
}

// OrderType maps purchase records into the graph under an explicit name.
//
// @gql:type target=Order name=Purchase
type OrderType struct {
	ID    string
	Total float64
}
