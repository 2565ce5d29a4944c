package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/UlisseMini/communitybot/repository/testutil"
)

func TestPersonalChannelRepository_UpsertAndGet(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	guildID := int64(1018733499869577296)
	userID := int64(123456789)
	testutil.SeedUserAndGuild(t, testDB.DB, userID, guildID)

	repo := NewPersonalChannelRepository(testDB.DB)

	pc, err := repo.Get(ctx, guildID, userID)
	require.NoError(t, err)
	assert.Nil(t, pc)

	require.NoError(t, repo.Upsert(ctx, guildID, userID, 555))

	pc, err = repo.Get(ctx, guildID, userID)
	require.NoError(t, err)
	require.NotNil(t, pc)
	assert.Equal(t, int64(555), pc.ChannelID)
	assert.Nil(t, pc.LastActivityAt)

	// Reassignment replaces the channel id in place.
	require.NoError(t, repo.Upsert(ctx, guildID, userID, 777))

	pc, err = repo.Get(ctx, guildID, userID)
	require.NoError(t, err)
	require.NotNil(t, pc)
	assert.Equal(t, int64(777), pc.ChannelID)
}

func TestPersonalChannelRepository_GetByChannelID(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	guildID := int64(1018733499869577296)
	userID := int64(123456789)
	testutil.SeedUserAndGuild(t, testDB.DB, userID, guildID)

	repo := NewPersonalChannelRepository(testDB.DB)
	require.NoError(t, repo.Upsert(ctx, guildID, userID, 555))

	pc, err := repo.GetByChannelID(ctx, guildID, 555)
	require.NoError(t, err)
	require.NotNil(t, pc)
	assert.Equal(t, userID, pc.UserID)

	pc, err = repo.GetByChannelID(ctx, guildID, 999)
	require.NoError(t, err)
	assert.Nil(t, pc)
}

func TestPersonalChannelRepository_Delete(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	guildID := int64(1018733499869577296)
	userID := int64(123456789)
	testutil.SeedUserAndGuild(t, testDB.DB, userID, guildID)

	repo := NewPersonalChannelRepository(testDB.DB)
	require.NoError(t, repo.Upsert(ctx, guildID, userID, 555))
	require.NoError(t, repo.Delete(ctx, guildID, userID))

	pc, err := repo.Get(ctx, guildID, userID)
	require.NoError(t, err)
	assert.Nil(t, pc)

	// Deleting an absent record is fine; self-heal calls this blindly.
	require.NoError(t, repo.Delete(ctx, guildID, userID))
}

func TestPersonalChannelRepository_ActiveUsers(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	guildID := int64(1018733499869577296)
	repo := NewPersonalChannelRepository(testDB.DB)
	now := time.Now().UTC()

	// Three users: recent activity, old activity, no activity at all.
	recentUser := int64(1001)
	staleUser := int64(1002)
	silentUser := int64(1003)
	for _, userID := range []int64{recentUser, staleUser, silentUser} {
		testutil.SeedUserAndGuild(t, testDB.DB, userID, guildID)
		require.NoError(t, repo.Upsert(ctx, guildID, userID, userID*10))
	}

	require.NoError(t, repo.TouchLastActivity(ctx, guildID, recentUser, now.Add(-time.Hour)))
	require.NoError(t, repo.TouchLastActivity(ctx, guildID, staleUser, now.Add(-96*time.Hour)))

	active, err := repo.GetActiveUserIDs(ctx, guildID, now.Add(-72*time.Hour))
	require.NoError(t, err)

	assert.Contains(t, active, recentUser)
	assert.NotContains(t, active, staleUser)
	assert.NotContains(t, active, silentUser)
	assert.Len(t, active, 1)
}
