package user

import "context"

// Repository defines the contract for user storage operations.
//
// Lookups that find nothing are not errors: GetByID and Update return a nil
// user and Remove returns false. The only failure a caller should expect is
// a write the storage medium rejected, wrapped in ErrStorageWrite.
type Repository interface {
	GetAll(ctx context.Context) ([]User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	Create(ctx context.Context, patch Patch) (User, error)
	Update(ctx context.Context, id string, patch Patch) (*User, error)
	Remove(ctx context.Context, id string) (bool, error)

	// Replace overwrites the whole stored sequence
	Replace(ctx context.Context, users []User) error
}
