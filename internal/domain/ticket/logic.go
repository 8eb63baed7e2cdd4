package ticket

import (
	"strings"

	"github.com/google/uuid"

	"peoplehub/internal/domain/auth"
)

func oneOf(value string, allowed []string) bool {
	for _, a := range allowed {
		if a == value {
			return true
		}
	}
	return false
}

// NewCode returns a short human-readable ticket code.
func NewCode() string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	return codePrefix + strings.ToUpper(id[:8])
}

func ValidStatus(s string) bool {
	_, ok := transitions[s]
	return ok
}

func CanTransition(from, to string) bool {
	return oneOf(to, transitions[from])
}

// CanManage allows the ticket's creator, HR and Admin.
func CanManage(user auth.UserContext, raisedBy string) error {
	if user.UserID == raisedBy || user.IsHROrAdmin() {
		return nil
	}
	return ErrNotAllowed
}
