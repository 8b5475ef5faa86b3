package identity

import (
	"strings"

	"github.com/google/uuid"
)

// User is the self-asserted identity a device presents. The ID is generated
// client-side in spirit: nothing validates it, IsAdmin is a UI hint and not
// a security boundary (admin routes are guarded by the admin token instead).
type User struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	IsAdmin bool   `json:"isAdmin"`
}

type CurrentRoom struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// NewUser mints a "u_" prefixed identity. Uniqueness is probabilistic; the
// expected number of concurrent signups makes collisions a non-concern.
func NewUser(name string) User {
	return User{
		ID:      "u_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:9],
		Name:    strings.TrimSpace(name),
		IsAdmin: false,
	}
}
