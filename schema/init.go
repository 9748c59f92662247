package schema

import (
	"github.com/userpulse/userpulse/activity"
	"github.com/userpulse/userpulse/user"
)

func init() {
	RegisterModel((*user.User)(nil))
	// Storage-level backstop for the application-level cascade; requires
	// foreign_keys=on in the sqlite DSN to be enforced.
	RegisterModel((*activity.Activity)(nil),
		`("user_id") REFERENCES "users" ("id") ON DELETE CASCADE`)
}
