package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campus-food-api/apperr"
	"campus-food-api/middleware"
	"campus-food-api/models"
)

var testSecret = []byte("test-signing-key")

func TestRegisterAndLogin(t *testing.T) {
	svc := NewAuthService(newTestDB(t), testSecret)

	user, token, err := svc.Register("Asha", "asha@campus.test", "hunter22")
	require.NoError(t, err)
	assert.Equal(t, models.RoleStudent, user.Role) // self-registration is always student
	assert.NotEmpty(t, token)

	claims, ok := middleware.ValidateToken(testSecret, token)
	require.True(t, ok)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, models.RoleStudent, claims.Role)

	_, token, err = svc.Login("asha@campus.test", "hunter22")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := NewAuthService(newTestDB(t), testSecret)

	_, _, err := svc.Register("Asha", "asha@campus.test", "hunter22")
	require.NoError(t, err)

	_, _, err = svc.Register("Imposter", "asha@campus.test", "hunter23")
	require.Error(t, err)
	assert.Equal(t, apperr.KindInvalidRequest, apperr.KindOf(err))
}

func TestLoginFailures(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuthService(db, testSecret)

	_, _, err := svc.Register("Asha", "asha@campus.test", "hunter22")
	require.NoError(t, err)

	// federated-only account, no local password
	seedUser(t, db, "Fed", "fed@campus.test", models.RoleStudent)

	cases := []struct {
		name     string
		email    string
		password string
	}{
		{"unknown email", "nobody@campus.test", "hunter22"},
		{"wrong password", "asha@campus.test", "wrong"},
		{"federated account", "fed@campus.test", "anything"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := svc.Login(tc.email, tc.password)
			require.Error(t, err)
			assert.Equal(t, apperr.KindUnauthenticated, apperr.KindOf(err))
		})
	}
}

func TestUpdateUserRole(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuthService(db, testSecret)
	seedUser(t, db, "Ravi", "ravi@campus.test", models.RoleStudent)

	user, err := svc.UpdateUserRole("ravi@campus.test", "vendor")
	require.NoError(t, err)
	assert.Equal(t, models.RoleVendor, user.Role)

	_, err = svc.UpdateUserRole("ravi@campus.test", "superuser")
	require.Error(t, err)
	assert.Equal(t, apperr.KindInvalidRequest, apperr.KindOf(err))

	_, err = svc.UpdateUserRole("nobody@campus.test", "vendor")
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}
