package service

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"time"
	"unicode/utf8"
)

const (
	// XPCooldown is the per-user, per-guild window during which only the
	// length bonus can be earned.
	XPCooldown = time.Minute

	// Base award range for an off-cooldown message: uniform in [6, 10).
	baseXPMin = 6.0
	baseXPMax = 10.0

	// Length bonus: 0.1 XP per character beyond the first 50.
	lengthBonusThreshold = 50
	lengthBonusPerChar   = 0.1

	// SnapshotWindowDays is the fixed rolling window the cached snapshot is
	// recomputed over. Intentionally independent of the window GetUserXP
	// callers pass; the two paths may diverge and that is preserved.
	SnapshotWindowDays = 3

	// DefaultXPWindowDays is the default query window for rolling totals
	DefaultXPWindowDays = 3
)

// xpService implements the XPService interface
type xpService struct {
	userRepo  UserRepository
	guildRepo GuildRepository
	xpRepo    XPRepository
}

// NewXPService creates a new XP service
func NewXPService(userRepo UserRepository, guildRepo GuildRepository, xpRepo XPRepository) XPService {
	return &xpService{
		userRepo:  userRepo,
		guildRepo: guildRepo,
		xpRepo:    xpRepo,
	}
}

// roundXP rounds to the 3 decimal places the ledger stores
func roundXP(amount float64) float64 {
	return math.Round(amount*1000) / 1000
}

// AwardForMessage computes and records the XP award for one qualifying
// message. Every call appends a ledger entry, even when the computed award
// is exactly 0, and then recomputes the cached rolling total.
func (s *xpService) AwardForMessage(ctx context.Context, guildID, userID int64, username, guildName, content string) (float64, error) {
	now := time.Now().UTC()

	if err := s.userRepo.Upsert(ctx, userID, username); err != nil {
		return 0, fmt.Errorf("failed to ensure user: %w", err)
	}
	if err := s.guildRepo.Upsert(ctx, guildID, guildName); err != nil {
		return 0, fmt.Errorf("failed to ensure guild: %w", err)
	}

	onCooldown, err := s.xpRepo.HasEntrySince(ctx, guildID, userID, now.Add(-XPCooldown))
	if err != nil {
		return 0, fmt.Errorf("failed to check cooldown: %w", err)
	}

	var award float64
	if !onCooldown {
		award += baseXPMin + rand.Float64()*(baseXPMax-baseXPMin)
	}

	if length := utf8.RuneCountInString(content); length > lengthBonusThreshold {
		award += float64(length-lengthBonusThreshold) * lengthBonusPerChar
	}

	award = roundXP(award)

	if err := s.xpRepo.AppendEntry(ctx, guildID, userID, award, now); err != nil {
		return 0, fmt.Errorf("failed to append ledger entry: %w", err)
	}

	// Snapshot always uses the fixed window, regardless of anything else.
	windowStart := now.Add(-SnapshotWindowDays * 24 * time.Hour)
	total, err := s.xpRepo.SumEntriesSince(ctx, guildID, userID, windowStart)
	if err != nil {
		return 0, fmt.Errorf("failed to recompute rolling total: %w", err)
	}

	if err := s.xpRepo.UpsertSnapshot(ctx, guildID, userID, roundXP(total), now); err != nil {
		return 0, fmt.Errorf("failed to upsert snapshot: %w", err)
	}

	return award, nil
}

// GetUserXP sums ledger entries over the trailing window. This always
// recomputes from raw ledger rows; it never reads the snapshot.
func (s *xpService) GetUserXP(ctx context.Context, guildID, userID int64, days int) (float64, error) {
	if days <= 0 {
		days = DefaultXPWindowDays
	}

	since := time.Now().UTC().Add(-time.Duration(days) * 24 * time.Hour)
	total, err := s.xpRepo.SumEntriesSince(ctx, guildID, userID, since)
	if err != nil {
		return 0, fmt.Errorf("failed to sum ledger entries: %w", err)
	}

	return roundXP(total), nil
}
