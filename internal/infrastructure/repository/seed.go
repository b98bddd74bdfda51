package repository

import (
	"context"

	"userdesk/internal/domain/user"
	"userdesk/internal/infrastructure/idgen"
)

// SampleUsers returns the records an empty store is seeded with
func SampleUsers(newID idgen.Func) []user.User {
	return []user.User{
		{ID: newID(), Username: "alice", Email: "alice@example.com", State: "CA", Country: "USA", Age: 28},
		{ID: newID(), Username: "bob", Email: "bob@example.com", State: "NY", Country: "USA", Age: 34},
	}
}

// EnsureSeeded returns the stored sequence, first writing the sample users
// when the store is empty. Once seeded it only reads.
func EnsureSeeded(ctx context.Context, slot *RecordSlot, newID idgen.Func) ([]user.User, error) {
	users := slot.Read(ctx)
	if len(users) > 0 {
		return users, nil
	}

	sample := SampleUsers(newID)
	if err := slot.Write(ctx, sample); err != nil {
		return nil, err
	}
	return sample, nil
}
