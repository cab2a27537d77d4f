package generator

import "context"

var ErrNotFound = errNotFound{}

type errNotFound struct{}

func (errNotFound) Error() string { return "flow session not found" }

// Store defines persistence operations for flow sessions. Lookups are always
// scoped to the owning user.
type Store interface {
	Create(ctx context.Context, session Session) error
	GetByID(ctx context.Context, userID, sessionID string) (Session, error)
	Update(ctx context.Context, session Session) error
}
