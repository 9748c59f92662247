package activity

import (
	"time"

	"github.com/uptrace/bun"

	"github.com/userpulse/userpulse/store"
)

// Activity models one persisted event row in activities. Rows are immutable
// after insert and are only removed as a side effect of deleting their
// owning user.
type Activity struct {
	bun.BaseModel `bun:"table:activities"`

	ID     int64     `bun:"id,pk,autoincrement"`
	UserID int64     `bun:"user_id,notnull"`
	Date   time.Time `bun:"date,notnull"`
}

// Handlers adapts Activity to the generic store repository.
func Handlers() store.ModelHandlers[*Activity] {
	return store.ModelHandlers[*Activity]{
		NewRecord: func() *Activity { return &Activity{} },
		GetID: func(a *Activity) int64 {
			if a == nil {
				return 0
			}
			return a.ID
		},
		SetID: func(a *Activity, id int64) {
			if a != nil {
				a.ID = id
			}
		},
		Fields: func(a *Activity) []store.Field {
			return []store.Field{
				{Name: "id", Value: a.ID},
				{Name: "user_id", Value: a.UserID},
				{Name: "date", Value: a.Date},
			}
		},
	}
}
