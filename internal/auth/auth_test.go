package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"workplace-access-backend/internal/apperror"
	"workplace-access-backend/internal/model"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	tok, err := NewAccessToken("test-secret", "alice", RoleSubject, 60)
	require.NoError(t, err)
	require.NotEmpty(t, tok.Token)

	claims, err := ParseToken("test-secret", tok.Token)
	require.NoError(t, err)
	assert.Equal(t, RoleSubject, claims.Role)
	assert.Equal(t, "alice", claims.SubjectID)
}

func TestParseTokenRejections(t *testing.T) {
	tok, err := NewAccessToken("test-secret", "alice", RoleOfficer, 60)
	require.NoError(t, err)

	testCases := []struct {
		name   string
		secret string
		raw    string
	}{
		{"wrong secret", "other-secret", tok.Token},
		{"garbage token", "test-secret", "not.a.jwt"},
		{"empty token", "test-secret", ""},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseToken(tc.secret, tc.raw)
			require.Error(t, err)
			assert.Equal(t, apperror.KindUnauthorized, apperror.KindOf(err))
		})
	}

	// An expired token is rejected the same way.
	expired, err := NewAccessToken("test-secret", "alice", RoleSubject, -1)
	require.NoError(t, err)
	_, err = ParseToken("test-secret", expired.Token)
	require.Error(t, err)
	assert.Equal(t, apperror.KindUnauthorized, apperror.KindOf(err))
}

func TestParseRole(t *testing.T) {
	for _, valid := range []string{"subject", "admin", "officer"} {
		r, err := ParseRole(valid)
		require.NoError(t, err)
		assert.Equal(t, Role(valid), r)
	}
	_, err := ParseRole("superuser")
	require.Error(t, err)
	assert.Equal(t, apperror.KindUnauthorized, apperror.KindOf(err))
}

func TestAccessGate(t *testing.T) {
	testCases := []struct {
		name      string
		claims    Claims
		target    string
		canAccess bool
		canModify bool
	}{
		{"subject on itself", Claims{Role: RoleSubject, SubjectID: "alice"}, "alice", true, true},
		{"subject on another", Claims{Role: RoleSubject, SubjectID: "alice"}, "bob", false, false},
		{"admin on anyone", Claims{Role: RoleAdmin, SubjectID: "root"}, "bob", true, true},
		{"officer reads anyone", Claims{Role: RoleOfficer, SubjectID: "o1"}, "bob", true, false},
		{"officer on itself", Claims{Role: RoleOfficer, SubjectID: "o1"}, "o1", true, true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.canAccess, tc.claims.CanAccess(tc.target))
			assert.Equal(t, tc.canModify, tc.claims.CanModify(tc.target))
		})
	}
}

func TestHashAndVerifySecret(t *testing.T) {
	hash, err := HashSecret("s3cret", bcrypt.MinCost)
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret", hash)

	assert.True(t, VerifySecret(hash, "s3cret"))
	assert.False(t, VerifySecret(hash, "wrong"))
	assert.False(t, VerifySecret("not-a-hash", "s3cret"))
}

func TestApplyProfileUpdate(t *testing.T) {
	strp := func(s string) *string { return &s }

	user := &model.User{
		ID:        "alice",
		Email:     "alice@example.com",
		FirstName: "Alice",
		Phone:     "555-0100",
		Role:      model.UserRoleSubject,
	}

	err := ApplyProfileUpdate(Claims{Role: RoleSubject, SubjectID: "bob"}, user, ProfileUpdate{Phone: strp("555-0199")})
	require.Error(t, err)
	assert.Equal(t, apperror.KindForbidden, apperror.KindOf(err))
	assert.Equal(t, "555-0100", user.Phone)

	err = ApplyProfileUpdate(Claims{Role: RoleSubject, SubjectID: "alice"}, user, ProfileUpdate{
		Phone:       strp("555-0199"),
		LaptopModel: strp("XPS 13"),
	})
	require.NoError(t, err)
	assert.Equal(t, "555-0199", user.Phone)
	assert.Equal(t, "XPS 13", user.LaptopModel)
	// Unset fields stay untouched.
	assert.Equal(t, "Alice", user.FirstName)

	err = ApplyProfileUpdate(Claims{Role: RoleAdmin, SubjectID: "root"}, user, ProfileUpdate{FirstName: strp("Alicia")})
	require.NoError(t, err)
	assert.Equal(t, "Alicia", user.FirstName)
}
