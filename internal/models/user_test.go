package models

import (
	"bytes"
	"crypto/rand"
	"fmt"
	"regexp"
	"testing"

	"boutique/internal/database/dbtest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var referralPattern = regexp.MustCompile(`^[A-Z0-9]{8}$`)

func TestNewReferralCode(t *testing.T) {
	for i := 0; i < 500; i++ {
		code, err := NewReferralCode(rand.Reader)
		require.NoError(t, err)
		assert.Regexp(t, referralPattern, code)
	}
}

func TestNewReferralCodeSkipsBiasedBytes(t *testing.T) {
	src := bytes.NewReader([]byte{
		255, 0, 1, 2, 3, 4, 5, 6,
		35, 252, 253, 254, 255, 0, 0, 0,
	})
	code, err := NewReferralCode(src)
	require.NoError(t, err)
	assert.Equal(t, "ABCDEFG9", code)
}

func TestNewReferralCodeShortSource(t *testing.T) {
	_, err := NewReferralCode(bytes.NewReader([]byte{1, 2, 3}))
	assert.Error(t, err)
}

func newUser(i int) *User {
	return &User{
		Username:    fmt.Sprintf("user%d", i),
		Email:       fmt.Sprintf("user%d@example.com", i),
		PhoneNumber: fmt.Sprintf("+91987654%04d", i),
		IsActive:    true,
	}
}

func TestUniqueReferralCodeRetriesOnCollision(t *testing.T) {
	db := dbtest.Open(t, &User{})
	taken := newUser(1)
	taken.ReferralCode = "AAAAAAAA"
	require.NoError(t, db.Create(taken).Error)

	src := bytes.NewReader([]byte{
		0, 0, 0, 0, 0, 0, 0, 0,
		1, 2, 3, 4, 5, 6, 7, 8,
	})
	code, err := uniqueReferralCode(db, src)
	require.NoError(t, err)
	assert.Equal(t, "BCDEFGHI", code)
}

func TestUserBeforeSaveAssignsUniqueCodes(t *testing.T) {
	db := dbtest.Open(t, &User{})

	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		u := newUser(i)
		require.NoError(t, db.Create(u).Error)
		assert.Regexp(t, referralPattern, u.ReferralCode)
		assert.False(t, seen[u.ReferralCode], "duplicate referral code %s", u.ReferralCode)
		seen[u.ReferralCode] = true
	}

	var stored User
	require.NoError(t, db.First(&stored, "username = ?", "user7").Error)
	assert.NotEmpty(t, stored.ReferralCode)
}

func TestUserBeforeSaveKeepsExistingCode(t *testing.T) {
	db := dbtest.Open(t, &User{})
	u := newUser(1)
	u.ReferralCode = "KEEPME12"
	require.NoError(t, db.Create(u).Error)
	assert.Equal(t, "KEEPME12", u.ReferralCode)

	u.FirstName = "Asha"
	require.NoError(t, db.Save(u).Error)
	assert.Equal(t, "KEEPME12", u.ReferralCode)
}

func TestFullName(t *testing.T) {
	assert.Equal(t, "Asha Rao", (&User{FirstName: "Asha", LastName: "Rao"}).FullName())
	assert.Equal(t, "Asha", (&User{FirstName: "Asha"}).FullName())
	assert.Equal(t, "Rao", (&User{LastName: "Rao"}).FullName())
}
