package names

import (
	"errors"
	"fmt"
	"os/user"
	"strconv"
)

var ErrUnknownUID = errors.New("unknown uid")

// UserResolver labels a uid with its account name, falling back to the owner
// the provider reported.
type UserResolver struct {
	lookup func(uid string) (*user.User, error)
}

func NewUserResolver() *UserResolver {
	return &UserResolver{lookup: user.LookupId}
}

func (r *UserResolver) LabelFor(uid int, owner string) (string, error) {
	if uid >= 0 {
		u, err := r.lookup(strconv.Itoa(uid))
		if err == nil && u.Username != "" {
			return u.Username, nil
		}
	}
	if owner != "" {
		return owner, nil
	}
	return "", fmt.Errorf("%w: %d", ErrUnknownUID, uid)
}
