package sqlstore

import (
	"context"

	"github.com/prn-tf/recipebook/internal/domain"
	"github.com/prn-tf/recipebook/internal/repository"
)

// userRepository implements repository.UserRepository.
type userRepository struct {
	c *conn
}

const userSelect = `SELECT name, username, email, password_hash, password_salt, role_id, account_id, is_approved, ` +
	recordColumns + ` FROM users`

func scanUser(row scanner) (*domain.User, error) {
	var s domain.UserState
	err := scanRow(row, &s.Record,
		&s.Name, &s.Username, &s.Email, &s.PasswordHash, &s.PasswordSalt, &s.RoleID, &s.AccountID, &s.IsApproved)
	if err != nil {
		return nil, err
	}
	return domain.LoadUser(s), nil
}

// Add inserts the user and assigns its ID.
func (r *userRepository) Add(ctx context.Context, user *domain.User) (int64, error) {
	s := user.State()
	id, err := r.c.insert(ctx, "create user", `
		INSERT INTO users (name, username, email, password_hash, password_salt, role_id, account_id,
			is_approved, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.Name, s.Username, s.Email, s.PasswordHash, s.PasswordSalt, s.RoleID, s.AccountID,
		s.IsApproved, s.IsActive, r.c.dialect.timeArg(s.CreatedAt), r.c.dialect.timeArg(s.UpdatedAt),
	)
	if err != nil {
		return 0, err
	}
	user.SetID(id)
	return id, nil
}

// GetByID retrieves a user by ID.
func (r *userRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	return getOne(ctx, r.c, "get user", scanUser, userSelect+` WHERE id = ?`, id)
}

// GetByUsername retrieves a user by username.
func (r *userRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return getOne(ctx, r.c, "get user by username", scanUser, userSelect+` WHERE username = ?`, username)
}

// GetByEmail retrieves a user by email.
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return getOne(ctx, r.c, "get user by email", scanUser, userSelect+` WHERE fold(email) = fold(?)`, email)
}

// List returns all active users.
func (r *userRepository) List(ctx context.Context) ([]*domain.User, error) {
	return list(ctx, r.c, "list users", scanUser, userSelect+` WHERE is_active = ? ORDER BY name`, true)
}

// ListByAccount returns the active users of an account.
func (r *userRepository) ListByAccount(ctx context.Context, accountID int64) ([]*domain.User, error) {
	return list(ctx, r.c, "list users by account", scanUser,
		userSelect+` WHERE account_id = ? AND is_active = ? ORDER BY name`, accountID, true)
}

// Update persists the user.
func (r *userRepository) Update(ctx context.Context, user *domain.User) error {
	s := user.State()
	return r.c.update(ctx, "update user", `
		UPDATE users
		SET name = ?, username = ?, email = ?, password_hash = ?, password_salt = ?, role_id = ?,
			is_approved = ?, is_active = ?, updated_at = ?
		WHERE id = ?`,
		s.Name, s.Username, s.Email, s.PasswordHash, s.PasswordSalt, s.RoleID,
		s.IsApproved, s.IsActive, r.c.dialect.timeArg(s.UpdatedAt), s.ID,
	)
}

// Remove soft-deletes the user.
func (r *userRepository) Remove(ctx context.Context, id int64) error {
	return r.c.softDelete(ctx, "users", id)
}

// ExistsByUsername checks if another user has the username.
func (r *userRepository) ExistsByUsername(ctx context.Context, username string, excludeID int64) (bool, error) {
	return r.c.exists(ctx, "check username",
		`SELECT 1 FROM users WHERE fold(username) = fold(?) AND id <> ?`, username, excludeID)
}

// ExistsByEmail checks if another user has the email.
func (r *userRepository) ExistsByEmail(ctx context.Context, email string, excludeID int64) (bool, error) {
	return r.c.exists(ctx, "check email",
		`SELECT 1 FROM users WHERE fold(email) = fold(?) AND id <> ?`, email, excludeID)
}

// CountByRole returns the number of active users holding a role.
func (r *userRepository) CountByRole(ctx context.Context, roleID int64) (int64, error) {
	return r.c.count(ctx, "count users by role",
		`SELECT COUNT(*) FROM users WHERE role_id = ? AND is_active = ?`, roleID, true)
}

var _ repository.UserRepository = (*userRepository)(nil)
