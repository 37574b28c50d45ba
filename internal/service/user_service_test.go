package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/prn-tf/recipebook/internal/apperr"
	"github.com/prn-tf/recipebook/internal/domain"
)

func registerInput() RegisterInput {
	return RegisterInput{
		Name:        "Carla Dias",
		Username:    "carla",
		Email:       "carla@example.com",
		Password:    "senhaforte1",
		AccountName: "Kitchen Co",
	}
}

func TestUsersService_RegisterWithNewAccount(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res := f.users.Register(ctx, registerInput())
	requireSuccess(t, res)

	user := res.Value()
	require.Equal(t, f.userRole.ID(), user.RoleID())
	require.False(t, user.IsApproved())

	account, err := f.store.Accounts().GetByID(ctx, user.AccountID())
	require.NoError(t, err)
	require.Equal(t, "Kitchen Co", account.Name())
	require.Equal(t, user.ID(), account.CreatorUserID())

	settings, err := f.store.UserSettings().GetByUser(ctx, user.ID())
	require.NoError(t, err)
	require.Equal(t, domain.ThemeLight, settings.Theme())

	login := f.auth.Authenticate(ctx, "carla", "senhaforte1")
	requireSuccess(t, login)
}

func TestUsersService_RegisterJoinsAccount(t *testing.T) {
	f := newFixture(t)

	input := registerInput()
	input.AccountID = f.account.ID()
	input.AccountName = ""

	res := f.users.Register(as(f.ana), input)
	requireSuccess(t, res)
	require.Equal(t, f.account.ID(), res.Value().AccountID())

	input.Username, input.Email = "dani", "dani@example.com"
	requireSuccess(t, f.users.Register(as(f.admin), input))

	input.Username, input.Email, input.AccountID = "edu", "edu@example.com", 9999
	requireFailure(t, f.users.Register(as(f.admin), input), apperr.TypeNotFound, apperr.CodeNotFound)
}

func TestUsersService_RegisterIntoAccountNeedsCreatorOrAdmin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	input := registerInput()
	input.AccountID = f.account.ID()
	input.AccountName = ""

	before, err := f.store.Users().ListByAccount(ctx, f.account.ID())
	require.NoError(t, err)

	requireFailure(t, f.users.Register(ctx, input), apperr.TypeUnauthorized, apperr.CodeAuthUnauthorized)
	requireFailure(t, f.users.Register(as(f.bruno), input), apperr.TypeForbidden, apperr.CodeAuthForbidden)
	requireFailure(t, f.users.Register(as(f.moderator), input), apperr.TypeForbidden, apperr.CodeAuthForbidden)

	after, err := f.store.Users().ListByAccount(ctx, f.account.ID())
	require.NoError(t, err)
	require.Len(t, after, len(before))

	login := f.auth.Authenticate(ctx, "carla", "senhaforte1")
	requireFailure(t, login, apperr.TypeUnauthorized, apperr.CodeAuthFailed)
}

func TestUsersService_RegisterFailures(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*RegisterInput)
		wantType  apperr.Type
		wantField string
	}{
		{"username taken", func(in *RegisterInput) { in.Username = "ANA" }, apperr.TypeConflict, "username"},
		{"email taken", func(in *RegisterInput) { in.Email = "bruno@example.com" }, apperr.TypeConflict, "email"},
		{"account name taken", func(in *RegisterInput) { in.AccountName = "Cozinha da Vó" }, apperr.TypeConflict, "accountName"},
		{"short password", func(in *RegisterInput) { in.Password = "curta" }, apperr.TypeValidation, "password"},
		{"invalid email", func(in *RegisterInput) { in.Email = "carla" }, apperr.TypeValidation, "email"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			users, err := f.store.Users().List(context.Background())
			require.NoError(t, err)

			input := registerInput()
			tt.mutate(&input)
			res := f.users.Register(context.Background(), input)

			require.True(t, res.IsFailure())
			require.Equal(t, tt.wantType, res.Err().Type)
			require.Contains(t, res.ValidationErrors(), tt.wantField)

			after, err := f.store.Users().List(context.Background())
			require.NoError(t, err)
			require.Len(t, after, len(users))
		})
	}
}

func TestUsersService_ChangePassword(t *testing.T) {
	f := newFixture(t)
	ctx := as(f.ana)

	res := f.users.ChangePassword(ctx, ChangePasswordInput{CurrentPassword: "errada123", NewPassword: "novasenha1"})
	requireFailure(t, res, apperr.TypeValidation, apperr.CodeInputInvalid)

	requireSuccess(t, f.users.ChangePassword(ctx, ChangePasswordInput{CurrentPassword: testPassword, NewPassword: "novasenha1"}))

	requireFailure(t, f.auth.Authenticate(context.Background(), "ana", testPassword), apperr.TypeUnauthorized, apperr.CodeAuthFailed)
	requireSuccess(t, f.auth.Authenticate(context.Background(), "ana", "novasenha1"))
}

func TestUsersService_UpdateProfile(t *testing.T) {
	f := newFixture(t)

	res := f.users.UpdateProfile(as(f.ana), f.ana.ID(), ProfileInput{Name: "Ana Maria Souza"})
	requireSuccess(t, res)
	require.Equal(t, "Ana Maria Souza", res.Value().Name())
	require.Equal(t, "ana", res.Value().Username())

	requireFailure(t, f.users.UpdateProfile(as(f.ana), f.ana.ID(), ProfileInput{Username: "bruno"}),
		apperr.TypeConflict, apperr.CodeConflictExists)
	requireFailure(t, f.users.UpdateProfile(as(f.bruno), f.ana.ID(), ProfileInput{Name: "Intrusa"}),
		apperr.TypeForbidden, apperr.CodeAuthForbidden)
}

func TestUsersService_AdminOperations(t *testing.T) {
	f := newFixture(t)

	requireFailure(t, f.users.Approve(as(f.ana), f.bruno.ID()), apperr.TypeForbidden, apperr.CodeAuthForbidden)

	approved := f.users.Approve(as(f.admin), f.bruno.ID())
	requireSuccess(t, approved)
	require.True(t, approved.Value().IsApproved())
	requireSuccess(t, f.users.Approve(as(f.admin), f.bruno.ID()))

	moderatorRole, err := findRole(context.Background(), f.store.UserRoles(), domain.RoleModerator)
	require.NoError(t, err)
	changed := f.users.ChangeRole(as(f.admin), f.bruno.ID(), moderatorRole.ID())
	requireSuccess(t, changed)
	require.Equal(t, moderatorRole.ID(), changed.Value().RoleID())

	requireFailure(t, f.users.ChangeRole(as(f.admin), f.bruno.ID(), 9999), apperr.TypeNotFound, apperr.CodeNotFound)
}

func TestUsersService_Visibility(t *testing.T) {
	f := newFixture(t)

	requireSuccess(t, f.users.Get(as(f.bruno), f.ana.ID()))
	requireSuccess(t, f.users.Current(as(f.bruno)))

	list := f.users.ListByAccount(as(f.ana), f.account.ID())
	requireSuccess(t, list)
	require.Len(t, list.Value(), 4)

	requireFailure(t, f.users.ListByAccount(as(f.ana), f.account.ID()+100), apperr.TypeForbidden, apperr.CodeAuthForbidden)
}

func TestUsersService_DeactivateIsIdempotent(t *testing.T) {
	f := newFixture(t)

	requireFailure(t, f.users.Deactivate(as(f.ana), f.bruno.ID()), apperr.TypeForbidden, apperr.CodeAuthForbidden)
	requireSuccess(t, f.users.Deactivate(as(f.admin), f.bruno.ID()))
	requireSuccess(t, f.users.Deactivate(as(f.admin), f.bruno.ID()))
	requireSuccess(t, f.users.Deactivate(as(f.admin), 9999))
}
