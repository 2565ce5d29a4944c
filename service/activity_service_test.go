package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestActivityService_GetActiveUsers(t *testing.T) {
	ctx := context.Background()
	channelRepo := new(MockPersonalChannelRepository)
	svc := NewActivityService(channelRepo)

	active := map[int64]struct{}{42: {}, 43: {}}
	before := time.Now().UTC()
	channelRepo.On("GetActiveUserIDs", ctx, int64(7), mock.MatchedBy(func(since time.Time) bool {
		offset := before.Add(-3 * 24 * time.Hour)
		return !since.Before(offset.Add(-time.Second)) && !since.After(offset.Add(2*time.Second))
	})).Return(active, nil)

	got, err := svc.GetActiveUsers(ctx, 7, 3)

	require.NoError(t, err)
	assert.Equal(t, active, got)
	channelRepo.AssertExpectations(t)
}

func TestActivityService_GetActiveUsers_Empty(t *testing.T) {
	ctx := context.Background()
	channelRepo := new(MockPersonalChannelRepository)
	svc := NewActivityService(channelRepo)

	channelRepo.On("GetActiveUserIDs", ctx, int64(7), mock.AnythingOfType("time.Time")).
		Return(map[int64]struct{}{}, nil)

	got, err := svc.GetActiveUsers(ctx, 7, 1)

	require.NoError(t, err)
	assert.Empty(t, got)
}
