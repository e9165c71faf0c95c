package users

import "context"

// UserRepo persists identities. GetByProviderID and GetByID return an error
// matching errors.ErrNotFound when nothing matches, and Create returns one
// matching errors.ErrAlreadyExists when the provider id is taken.
type UserRepo interface {
	Create(ctx context.Context, user *User) error
	Update(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByProviderID(ctx context.Context, providerID string) (*User, error)
	List(ctx context.Context, offset, limit int) ([]*User, error)
	SetRole(ctx context.Context, id string, role RoleType) error
}
