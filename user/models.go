package user

import (
	"time"

	"github.com/uptrace/bun"

	"github.com/userpulse/userpulse/store"
)

// User models the persisted row in users. Identity is the store-assigned id;
// username and email carry no uniqueness constraint, so duplicates are
// permitted and field lookups resolve to the first match by insertion order.
type User struct {
	bun.BaseModel `bun:"table:users"`

	ID               int64     `bun:"id,pk,autoincrement"`
	Username         string    `bun:"username,notnull"`
	Email            string    `bun:"email,notnull"`
	RegistrationDate time.Time `bun:"registration_date,notnull"`
}

// Handlers adapts User to the generic store repository.
func Handlers() store.ModelHandlers[*User] {
	return store.ModelHandlers[*User]{
		NewRecord: func() *User { return &User{} },
		GetID: func(u *User) int64 {
			if u == nil {
				return 0
			}
			return u.ID
		},
		SetID: func(u *User, id int64) {
			if u != nil {
				u.ID = id
			}
		},
		Fields: func(u *User) []store.Field {
			return []store.Field{
				{Name: "id", Value: u.ID},
				{Name: "username", Value: u.Username},
				{Name: "email", Value: u.Email},
				{Name: "registration_date", Value: u.RegistrationDate},
			}
		},
	}
}
