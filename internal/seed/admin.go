package seed

import (
	"context"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/nguyenlanh282/poscake-skill/internal/domain"
	"github.com/nguyenlanh282/poscake-skill/internal/store"
)

// Admin ensures the administrator account exists. An existing account keeps
// its password: reseeding never rotates credentials.
func Admin(ctx context.Context, s *store.Store, opts Options, res *Result) (*domain.User, error) {
	return findOrCreate(res, "User",
		func() (*domain.User, error) { return s.Users.FindByEmail(ctx, opts.AdminEmail) },
		func() (*domain.User, error) {
			hash, err := bcrypt.GenerateFromPassword([]byte(opts.AdminPassword), opts.BcryptCost)
			if err != nil {
				return nil, fmt.Errorf("hash password: %w", err)
			}
			return s.Users.Create(ctx, &domain.User{
				Email:        opts.AdminEmail,
				Name:         "Admin",
				PasswordHash: string(hash),
				Role:         domain.RoleAdmin,
			})
		},
	)
}
