package orchestrators

import (
	"context"
	"log/slog"
	"time"

	"clubhouse/internal/domain/account"
	"clubhouse/internal/domain/organization"
)

// AccountStoreForSeed defines the account store interface needed by seeding.
type AccountStoreForSeed interface {
	Count(ctx context.Context) (int, error)
	Save(ctx context.Context, a account.Account) error
}

// OrganizationStoreForSeed defines the organization store interface needed
// by seeding.
type OrganizationStoreForSeed interface {
	List(ctx context.Context) ([]organization.Organization, error)
	Save(ctx context.Context, o organization.Organization) error
}

// SeedAdminInput carries input for first-run seeding.
type SeedAdminInput struct {
	AdminEmail       string
	AdminPassword    string
	OrganizationName string
}

// SeedAdminDeps holds dependencies for SeedAdmin.
type SeedAdminDeps struct {
	AccountStore      AccountStoreForSeed
	OrganizationStore OrganizationStoreForSeed
	Now               func() time.Time
	GenerateID        func() string
}

// ExecuteSeedAdmin creates the first admin account and a default
// organization on an empty database. A database with any existing account
// is left untouched, so startup can call this unconditionally.
// PRE: AdminEmail and AdminPassword are set when the database is empty
// POST: One admin account and one organization exist
func ExecuteSeedAdmin(ctx context.Context, input SeedAdminInput, deps SeedAdminDeps) error {
	count, err := deps.AccountStore.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	orgs, err := deps.OrganizationStore.List(ctx)
	if err != nil {
		return err
	}
	if len(orgs) == 0 {
		org := organization.Organization{
			ID:        deps.GenerateID(),
			Name:      input.OrganizationName,
			Active:    true,
			CreatedAt: deps.Now(),
		}
		if err := org.Validate(); err != nil {
			return err
		}
		if err := deps.OrganizationStore.Save(ctx, org); err != nil {
			return err
		}
		slog.Info("seed_event", "event", "organization_created", "organization_id", org.ID)
	}

	acct := account.Account{
		ID:        deps.GenerateID(),
		Email:     input.AdminEmail,
		Role:      account.RoleAdmin,
		CreatedAt: deps.Now(),
	}
	if err := acct.SetPassword(input.AdminPassword); err != nil {
		return err
	}
	if err := acct.Validate(); err != nil {
		return err
	}
	if err := deps.AccountStore.Save(ctx, acct); err != nil {
		return err
	}

	slog.Info("seed_event", "event", "admin_account_created", "email", acct.Email)
	return nil
}
