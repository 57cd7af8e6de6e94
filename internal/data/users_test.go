package data

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/liliang-cn/movieflux/internal/validator"
)

func TestPassword_SetAndMatches(t *testing.T) {
	var p password
	require.NoError(t, p.Set("pa55word!"))

	ok, err := p.Matches("pa55word!")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = p.Matches("wrong")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestUserModel_InsertAndGetByUsername(t *testing.T) {
	db := newTestDB(t)
	users := UserModel{DB: db}
	roles := RoleModel{DB: db}
	ctx := context.Background()

	user := &User{Username: "admin"}
	require.NoError(t, user.Password.Set("admin-password"))
	require.NoError(t, users.Insert(ctx, user))
	require.NotZero(t, user.ID)

	require.NoError(t, roles.AddForUser(ctx, user.ID, RoleUser, RoleAdmin))

	got, err := users.GetByUsername(ctx, "admin")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	ok, err := got.Password.Matches("admin-password")
	require.NoError(t, err)
	assert.True(t, ok)

	granted, err := roles.GetAllForUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, Roles{RoleAdmin, RoleUser}, granted)
	assert.True(t, granted.Include(RoleAdmin))
	assert.False(t, granted.Include("ROOT"))
}

func TestUserModel_DuplicateUsername(t *testing.T) {
	users := UserModel{DB: newTestDB(t)}
	ctx := context.Background()

	first := &User{Username: "jane"}
	require.NoError(t, first.Password.Set("password1"))
	require.NoError(t, users.Insert(ctx, first))

	second := &User{Username: "jane"}
	require.NoError(t, second.Password.Set("password2"))
	assert.ErrorIs(t, users.Insert(ctx, second), ErrDuplicateUsername)
}

func TestUserModel_GetByUsernameMissing(t *testing.T) {
	users := UserModel{DB: newTestDB(t)}

	_, err := users.GetByUsername(context.Background(), "nobody")
	assert.ErrorIs(t, err, ErrRecordNotFound)
}

func TestValidateUser(t *testing.T) {
	user := &User{Username: "ab", Roles: Roles{"ROOT", "ROOT"}}
	require.NoError(t, user.Password.Set("short"))

	v := validator.New()
	ValidateUser(v, user)

	assert.Contains(t, v.Errors, "username")
	assert.Contains(t, v.Errors, "password")
	assert.Contains(t, v.Errors, "roles")

	user = &User{Username: "jane.doe", Roles: Roles{RoleUser}}
	require.NoError(t, user.Password.Set("long-enough"))

	v = validator.New()
	ValidateUser(v, user)
	assert.True(t, v.Valid(), "%v", v.Errors)
}

func TestAnonymousUser(t *testing.T) {
	assert.True(t, AnonymousUser.IsAnonymous())
	assert.False(t, (&User{}).IsAnonymous())
}
