package shop

// User is the account model.
type User struct {
	ID    string
	Login string
	Email string
}

// UserType maps the account model into the graph.
//
// @gql:type target=User
type UserType struct {
	ID    string
	Login string
	Email string
}

// UserStats adds activity counters to the user type.
//
// @gql:extend target=User
type UserStats struct {
	PostCount  int
	LoginCount int
}

// UserBadges adds earned badges to the user type.
//
// @gql:extend target=User
type UserBadges struct {
	BadgeCount int
}
