package domain

import "regexp"

const (
	userNameMin     = 2
	userNameMax     = 100
	usernameMin     = 3
	usernameMax     = 50
	passwordHashMax = 255
)

var usernameRegex = regexp.MustCompile(`^[A-Za-z0-9_.]+$`)

// User is a registered member of an Account. Credentials are stored as an
// argon2id hash together with its salt.
type User struct {
	base
	name         string
	username     string
	email        string
	passwordHash string
	passwordSalt string
	roleID       int64
	accountID    int64
	approved     bool
}

// UserState is the persisted form of a User.
type UserState struct {
	Record
	Name         string `json:"name"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
	PasswordSalt string `json:"-"`
	RoleID       int64  `json:"role_id"`
	AccountID    int64  `json:"account_id"`
	IsApproved   bool   `json:"is_approved"`
}

// UserDetails is the validated input of NewUser.
type UserDetails struct {
	Name         string
	Username     string
	Email        string
	PasswordHash string
	PasswordSalt string
	RoleID       int64
	AccountID    int64
}

func checkUsername(username string) (string, error) {
	username, err := checkText("username", username, usernameMin, usernameMax)
	if err != nil {
		return "", err
	}
	if !usernameRegex.MatchString(username) {
		return "", invalid("username", "Use apenas letras, números, ponto e sublinhado.")
	}
	return username, nil
}

func checkCredentials(hash, salt string) error {
	if _, err := checkText("passwordHash", hash, 1, passwordHashMax); err != nil {
		return err
	}
	if _, err := checkText("passwordSalt", salt, 1, passwordHashMax); err != nil {
		return err
	}
	return nil
}

// NewUser validates and creates an unpersisted, unapproved User.
func NewUser(d UserDetails) (*User, error) {
	name, err := checkText("name", d.Name, userNameMin, userNameMax)
	if err != nil {
		return nil, err
	}
	username, err := checkUsername(d.Username)
	if err != nil {
		return nil, err
	}
	email, err := checkEmail("email", d.Email)
	if err != nil {
		return nil, err
	}
	if err := checkCredentials(d.PasswordHash, d.PasswordSalt); err != nil {
		return nil, err
	}
	if err := checkID("roleId", d.RoleID); err != nil {
		return nil, err
	}
	if err := checkID("accountId", d.AccountID); err != nil {
		return nil, err
	}
	return &User{
		base:         newBase(),
		name:         name,
		username:     username,
		email:        email,
		passwordHash: d.PasswordHash,
		passwordSalt: d.PasswordSalt,
		roleID:       d.RoleID,
		accountID:    d.AccountID,
	}, nil
}

// LoadUser rehydrates a User without validation.
func LoadUser(s UserState) *User {
	return &User{
		base:         loadBase(s.Record),
		name:         s.Name,
		username:     s.Username,
		email:        s.Email,
		passwordHash: s.PasswordHash,
		passwordSalt: s.PasswordSalt,
		roleID:       s.RoleID,
		accountID:    s.AccountID,
		approved:     s.IsApproved,
	}
}

func (u *User) Name() string         { return u.name }
func (u *User) Username() string     { return u.username }
func (u *User) Email() string        { return u.email }
func (u *User) PasswordHash() string { return u.passwordHash }
func (u *User) PasswordSalt() string { return u.passwordSalt }
func (u *User) RoleID() int64        { return u.roleID }
func (u *User) AccountID() int64     { return u.accountID }
func (u *User) IsApproved() bool     { return u.approved }

// CanAuthenticate returns true if the user is allowed to log in.
func (u *User) CanAuthenticate() bool {
	return u.active
}

func (u *User) ensureActive(op string) error {
	if !u.active {
		return refused(op, "Usuário inativo.")
	}
	return nil
}

// ChangeName sets the display name.
func (u *User) ChangeName(name string) (bool, error) {
	if err := u.ensureActive("user.changeName"); err != nil {
		return false, err
	}
	name, err := checkText("name", name, userNameMin, userNameMax)
	if err != nil {
		return false, err
	}
	if name == u.name {
		return false, nil
	}
	u.name = name
	u.touch()
	return true, nil
}

// ChangeUsername sets the login name. Uniqueness is checked by the caller.
func (u *User) ChangeUsername(username string) (bool, error) {
	if err := u.ensureActive("user.changeUsername"); err != nil {
		return false, err
	}
	username, err := checkUsername(username)
	if err != nil {
		return false, err
	}
	if username == u.username {
		return false, nil
	}
	u.username = username
	u.touch()
	return true, nil
}

// ChangeEmail sets the e-mail address. Uniqueness is checked by the caller.
func (u *User) ChangeEmail(email string) (bool, error) {
	if err := u.ensureActive("user.changeEmail"); err != nil {
		return false, err
	}
	email, err := checkEmail("email", email)
	if err != nil {
		return false, err
	}
	if email == u.email {
		return false, nil
	}
	u.email = email
	u.touch()
	return true, nil
}

// ChangePassword replaces hash and salt.
func (u *User) ChangePassword(hash, salt string) error {
	if err := u.ensureActive("user.changePassword"); err != nil {
		return err
	}
	if err := checkCredentials(hash, salt); err != nil {
		return err
	}
	u.passwordHash = hash
	u.passwordSalt = salt
	u.touch()
	return nil
}

// ChangeRole assigns another UserRole.
func (u *User) ChangeRole(roleID int64) (bool, error) {
	if err := u.ensureActive("user.changeRole"); err != nil {
		return false, err
	}
	if err := checkID("roleId", roleID); err != nil {
		return false, err
	}
	if roleID == u.roleID {
		return false, nil
	}
	u.roleID = roleID
	u.touch()
	return true, nil
}

// Approve marks the user as approved. Returns false when already approved.
func (u *User) Approve() (bool, error) {
	if err := u.ensureActive("user.approve"); err != nil {
		return false, err
	}
	if u.approved {
		return false, nil
	}
	u.approved = true
	u.touch()
	return true, nil
}

// Deactivate soft-deletes the user.
func (u *User) Deactivate() bool {
	return u.deactivate()
}

// Activate restores a deactivated user.
func (u *User) Activate() bool {
	if u.active {
		return false
	}
	u.active = true
	u.touch()
	return true
}

// State returns the persisted form.
func (u *User) State() UserState {
	return UserState{
		Record:       u.record(),
		Name:         u.name,
		Username:     u.username,
		Email:        u.email,
		PasswordHash: u.passwordHash,
		PasswordSalt: u.passwordSalt,
		RoleID:       u.roleID,
		AccountID:    u.accountID,
		IsApproved:   u.approved,
	}
}
