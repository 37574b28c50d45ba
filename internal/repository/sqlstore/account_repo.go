package sqlstore

import (
	"context"
	"database/sql"

	"github.com/prn-tf/recipebook/internal/domain"
	"github.com/prn-tf/recipebook/internal/repository"
)

// accountRepository implements repository.AccountRepository.
type accountRepository struct {
	c *conn
}

const accountSelect = `SELECT name, subscription_level, creator_user_id, ` + recordColumns + ` FROM accounts`

func scanAccount(row scanner) (*domain.Account, error) {
	var s domain.AccountState
	var creator sql.NullInt64
	if err := scanRow(row, &s.Record, &s.Name, &s.SubscriptionLevel, &creator); err != nil {
		return nil, err
	}
	s.CreatorUserID = creator.Int64
	return domain.LoadAccount(s), nil
}

// Add inserts the account and assigns its ID.
func (r *accountRepository) Add(ctx context.Context, account *domain.Account) (int64, error) {
	s := account.State()
	id, err := r.c.insert(ctx, "create account", `
		INSERT INTO accounts (name, subscription_level, creator_user_id, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		s.Name, s.SubscriptionLevel, idArg(s.CreatorUserID), s.IsActive,
		r.c.dialect.timeArg(s.CreatedAt), r.c.dialect.timeArg(s.UpdatedAt),
	)
	if err != nil {
		return 0, err
	}
	account.SetID(id)
	return id, nil
}

// GetByID retrieves an account by ID.
func (r *accountRepository) GetByID(ctx context.Context, id int64) (*domain.Account, error) {
	return getOne(ctx, r.c, "get account", scanAccount, accountSelect+` WHERE id = ?`, id)
}

// List returns all active accounts.
func (r *accountRepository) List(ctx context.Context) ([]*domain.Account, error) {
	return list(ctx, r.c, "list accounts", scanAccount, accountSelect+` WHERE is_active = ? ORDER BY name`, true)
}

// Update persists the account.
func (r *accountRepository) Update(ctx context.Context, account *domain.Account) error {
	s := account.State()
	return r.c.update(ctx, "update account", `
		UPDATE accounts
		SET name = ?, subscription_level = ?, creator_user_id = ?, is_active = ?, updated_at = ?
		WHERE id = ?`,
		s.Name, s.SubscriptionLevel, idArg(s.CreatorUserID), s.IsActive, r.c.dialect.timeArg(s.UpdatedAt), s.ID,
	)
}

// Remove soft-deletes the account.
func (r *accountRepository) Remove(ctx context.Context, id int64) error {
	return r.c.softDelete(ctx, "accounts", id)
}

// ExistsByName checks if another active account uses the name.
func (r *accountRepository) ExistsByName(ctx context.Context, name string, excludeID int64) (bool, error) {
	return r.c.exists(ctx, "check account name",
		`SELECT 1 FROM accounts WHERE fold(name) = fold(?) AND is_active = ? AND id <> ?`,
		name, true, excludeID)
}

var _ repository.AccountRepository = (*accountRepository)(nil)
