package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/prn-tf/recipebook/internal/apperr"
	"github.com/prn-tf/recipebook/internal/domain"
)

func TestAccountService_Create(t *testing.T) {
	f := newFixture(t)

	res := f.accounts.Create(as(f.admin), CreateAccountInput{Name: "Kitchen Co"})
	requireSuccess(t, res)

	account := res.Value()
	require.NotZero(t, account.ID())
	require.Equal(t, "Kitchen Co", account.Name())
	require.Equal(t, domain.DefaultSubscriptionLevel, account.SubscriptionLevel())
	require.Equal(t, f.admin.ID(), account.CreatorUserID())

	stored, err := f.store.Accounts().GetByID(context.Background(), account.ID())
	require.NoError(t, err)
	require.Equal(t, "Free", stored.SubscriptionLevel())
}

func TestAccountService_CreateConflictRollsBack(t *testing.T) {
	f := newFixture(t)
	ctx := as(f.admin)

	requireSuccess(t, f.accounts.Create(ctx, CreateAccountInput{Name: "Kitchen Co"}))
	before, err := f.store.Accounts().List(context.Background())
	require.NoError(t, err)
	rolled := f.store.rolled

	res := f.accounts.Create(ctx, CreateAccountInput{Name: "kitchen co", SubscriptionLevel: "Pro"})
	requireFailure(t, res, apperr.TypeConflict, apperr.CodeConflictExists)
	require.Contains(t, res.ValidationErrors(), "name")
	require.Equal(t, rolled+1, f.store.rolled)

	after, err := f.store.Accounts().List(context.Background())
	require.NoError(t, err)
	require.Len(t, after, len(before))
}

func TestAccountService_RenameConflictRollsBack(t *testing.T) {
	f := newFixture(t)
	requireSuccess(t, f.accounts.Create(as(f.admin), CreateAccountInput{Name: "Kitchen Co"}))
	rolled := f.store.rolled

	res := f.accounts.Rename(as(f.ana), f.account.ID(), "KITCHEN CO")
	requireFailure(t, res, apperr.TypeConflict, apperr.CodeConflictExists)
	require.Contains(t, res.ValidationErrors(), "name")
	require.Equal(t, rolled+1, f.store.rolled)

	stored, err := f.store.Accounts().GetByID(context.Background(), f.account.ID())
	require.NoError(t, err)
	require.Equal(t, "Cozinha da Vó", stored.Name())
}

func TestAccountService_Authorization(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name     string
		call     func() *apperr.Error
		wantType apperr.Type
	}{
		{
			name:     "anonymous create",
			call:     func() *apperr.Error { return f.accounts.Create(context.Background(), CreateAccountInput{Name: "X"}).Err() },
			wantType: apperr.TypeUnauthorized,
		},
		{
			name:     "member create",
			call:     func() *apperr.Error { return f.accounts.Create(as(f.ana), CreateAccountInput{Name: "X"}).Err() },
			wantType: apperr.TypeForbidden,
		},
		{
			name:     "non-creator rename",
			call:     func() *apperr.Error { return f.accounts.Rename(as(f.bruno), f.account.ID(), "Outra").Err() },
			wantType: apperr.TypeForbidden,
		},
		{
			name:     "member subscription",
			call:     func() *apperr.Error { return f.accounts.ChangeSubscription(as(f.ana), f.account.ID(), "Pro").Err() },
			wantType: apperr.TypeForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.call()
			require.NotNil(t, err)
			require.Equal(t, tt.wantType, err.Type)
		})
	}
}

func TestAccountService_RenameByCreator(t *testing.T) {
	f := newFixture(t)

	res := f.accounts.Rename(as(f.ana), f.account.ID(), "Cozinha da Ana")
	requireSuccess(t, res)
	require.Equal(t, "Cozinha da Ana", res.Value().Name())

	got := f.accounts.Get(as(f.bruno), f.account.ID())
	requireSuccess(t, got)
	require.Equal(t, "Cozinha da Ana", got.Value().Name())
}

func TestAccountService_DeactivateIsIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := as(f.admin)

	created := f.accounts.Create(ctx, CreateAccountInput{Name: "Kitchen Co"})
	requireSuccess(t, created)
	id := created.Value().ID()

	requireSuccess(t, f.accounts.Deactivate(ctx, id))
	requireSuccess(t, f.accounts.Deactivate(ctx, id))
	requireSuccess(t, f.accounts.Deactivate(ctx, 9999))

	requireFailure(t, f.accounts.Get(ctx, id), apperr.TypeNotFound, apperr.CodeNotFound)
}
