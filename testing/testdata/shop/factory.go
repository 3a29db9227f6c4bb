package shop

// UserFactory builds users from mutation payloads.
type UserFactory struct{}

// UserDraft is the mutation payload for creating users.
type UserDraft struct {
	Login string
	Email string
}

// Create builds a user from a draft.
//
// @gql:factory target=User input=UserInput
func (f *UserFactory) Create(draft UserDraft) *User {
	return &User{Login: draft.Login, Email: draft.Email}
}
