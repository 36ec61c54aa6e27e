package auth

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/arnavshah/timetable-api-go/pkg/config"
	"github.com/arnavshah/timetable-api-go/pkg/database"
)

func testAuth() *Authenticator {
	return New(config.AuthConfig{
		JWTSecret:     "jwt-secret",
		JWTExpiration: time.Hour,
		MasterSecret:  "master-secret",
		BcryptCost:    bcrypt.MinCost,
	})
}

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func TestHMACKeyRoundTrip(t *testing.T) {
	a := testAuth()
	key := a.GenerateHMACKey("alice")

	require.True(t, strings.HasPrefix(key, "alice."))
	userID, err := a.VerifyHMACKey(key)
	require.NoError(t, err)
	assert.Equal(t, "alice", userID)

	_, err = a.VerifyHMACKey("alice.deadbeef")
	assert.ErrorIs(t, err, ErrInvalidSignature)

	_, err = a.VerifyHMACKey("no-dot")
	assert.ErrorIs(t, err, ErrInvalidKeyFormat)

	other := New(config.AuthConfig{MasterSecret: "different"})
	_, err = other.VerifyHMACKey(key)
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestTokenRoundTrip(t *testing.T) {
	a := testAuth()
	token, err := a.CreateToken("admin")
	require.NoError(t, err)

	claims, err := a.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Username)

	_, err = New(config.AuthConfig{JWTSecret: "other"}).VerifyToken(token)
	assert.Error(t, err)
}

func TestTokenExpires(t *testing.T) {
	a := testAuth()
	a.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	token, err := a.CreateToken("admin")
	require.NoError(t, err)

	_, err = testAuth().VerifyToken(token)
	assert.Error(t, err)
}

func TestPasswordHash(t *testing.T) {
	a := testAuth()
	hash, err := a.HashPassword("s3cret")
	require.NoError(t, err)

	assert.True(t, CheckPasswordHash("s3cret", hash))
	assert.False(t, CheckPasswordHash("wrong", hash))
}

func TestKeyPreview(t *testing.T) {
	assert.Equal(t, "****", KeyPreview("short"))
	assert.Equal(t, "ali...cdef", KeyPreview("alice.0123456789abcdef"))
}

func TestLookupAPIKey_CreatesOnce(t *testing.T) {
	db := testDB(t)
	a := testAuth()
	key := a.GenerateHMACKey("bob")

	first, err := a.LookupAPIKey(db, key, "bob", 25)
	require.NoError(t, err)
	assert.Equal(t, 25, first.RateLimit)
	assert.NotNil(t, first.LastUsed)

	second, err := a.LookupAPIKey(db, key, "bob", 9999)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 25, second.RateLimit)

	var count int64
	db.Model(&database.APIKey{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestLookupAPIKey_RevokedKeyStaysRevoked(t *testing.T) {
	db := testDB(t)
	a := testAuth()
	key := a.GenerateHMACKey("alice")

	created, err := a.LookupAPIKey(db, key, "alice", 5)
	require.NoError(t, err)
	require.NoError(t, db.Delete(&database.APIKey{}, created.ID).Error)

	again, err := a.LookupAPIKey(db, key, "alice", 5)
	assert.ErrorIs(t, err, ErrKeyRevoked)
	assert.Nil(t, again)

	var rows []database.APIKey
	require.NoError(t, db.Unscoped().Find(&rows).Error)
	require.Len(t, rows, 1)
	assert.Equal(t, created.ID, rows[0].ID)
	assert.True(t, rows[0].Revoked())
}

func TestEnsureAdminExists(t *testing.T) {
	db := testDB(t)
	a := testAuth()

	created, err := a.EnsureAdminExists(db, config.AdminConfig{Username: "root", Password: "pw"})
	require.NoError(t, err)
	assert.True(t, created)

	created, err = a.EnsureAdminExists(db, config.AdminConfig{Username: "other", Password: "pw"})
	require.NoError(t, err)
	assert.False(t, created)

	var user database.MasterUser
	require.NoError(t, db.First(&user).Error)
	assert.Equal(t, "root", user.Username)
	assert.True(t, CheckPasswordHash("pw", user.PasswordHash))
}
