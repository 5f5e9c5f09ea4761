package seed

import (
	"context"
	"fmt"

	"resumeradar/internal/store"
	"resumeradar/pkg/types"
)

type fakeUserSeed struct {
	ID       string
	Email    string
	FullName string
	IsAdmin  bool
}

// IDs are fixed so reseeding updates rows instead of adding new ones.
// To generate new IDs: `go run ./cmd/resumeradar nanoid -c 8`
var fakeUsers = []fakeUserSeed{
	{ID: "seedAdmin0000000000000000000000a", Email: "reviewer+seed@example.com", FullName: "Riley Reviewer", IsAdmin: true},
	{ID: "seedUser00000000000000000000001a", Email: "ava.williams+seed1@example.com", FullName: "Ava Williams"},
	{ID: "seedUser00000000000000000000002b", Email: "liam.johnson+seed2@example.com", FullName: "Liam Johnson"},
	{ID: "seedUser00000000000000000000003c", Email: "noah.brown+seed3@example.com", FullName: "Noah Brown"},
	{ID: "seedUser00000000000000000000004d", Email: "mia.davis+seed4@example.com", FullName: "Mia Davis"},
	{ID: "seedUser00000000000000000000005e", Email: "elijah.garcia+seed5@example.com"},
}

func seedAdminID() string {
	for _, user := range fakeUsers {
		if user.IsAdmin {
			return user.ID
		}
	}
	return ""
}

func SeedFakeUsers(ctx context.Context, userRepo *store.UserRepository) error {
	seeded := 0
	for _, fakeUser := range fakeUsers {
		if _, err := userRepo.UpsertIdentity(ctx, fakeUser.ID, fakeUser.Email); err != nil {
			return fmt.Errorf("failed to upsert fake user %s: %w", fakeUser.ID, err)
		}

		if err := userRepo.UpdateFullName(ctx, fakeUser.ID, fakeUser.FullName); err != nil {
			return fmt.Errorf("failed to set name for fake user %s: %w", fakeUser.ID, err)
		}

		if err := userRepo.SetAdmin(ctx, fakeUser.ID, fakeUser.IsAdmin); err != nil {
			return fmt.Errorf("failed to set admin flag for fake user %s: %w", fakeUser.ID, err)
		}
		seeded++
	}

	fmt.Printf("Fake users seeded: %d upserted\n", seeded)
	return nil
}

// FakeUsers exposes the seed identities, mainly so tests can inspect them.
func FakeUsers() []types.User {
	users := make([]types.User, 0, len(fakeUsers))
	for _, u := range fakeUsers {
		users = append(users, types.User{
			ID:       u.ID,
			Email:    u.Email,
			FullName: types.OptionalString(u.FullName),
			IsAdmin:  u.IsAdmin,
		})
	}
	return users
}
