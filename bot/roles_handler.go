package bot

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"

	"github.com/UlisseMini/communitybot/bot/common"
)

const (
	activeRoleName   = "Active Journaling"
	activeWindowDays = 3
	roleSweepPeriod  = time.Hour
)

// StartActiveRoleWorker starts the hourly sweep that grants and revokes
// the activity role across all guilds. Returns a cleanup function to stop
// the worker gracefully.
func (b *Bot) StartActiveRoleWorker(ctx context.Context) func() {
	ticker := time.NewTicker(roleSweepPeriod)
	stopChan := make(chan struct{})

	sweep := func() {
		for _, guild := range b.session.State.Guilds {
			if err := b.updateGuildActiveRoles(ctx, guild.ID); err != nil {
				log.Errorf("Error updating active roles for guild %s: %v", guild.ID, err)
			}
		}
	}

	go func() {
		// Sweeping before the session is ready would hit an empty guild
		// list and dead REST calls.
		select {
		case <-ctx.Done():
			return
		case <-stopChan:
			return
		case <-b.ready:
		}

		log.Info("Active role worker started")
		sweep()

		for {
			select {
			case <-ctx.Done():
				log.Info("Active role worker shutting down (context cancelled)...")
				return
			case <-stopChan:
				log.Info("Active role worker shutting down (stop requested)...")
				return
			case <-ticker.C:
				sweep()
			}
		}
	}()

	return func() {
		ticker.Stop()
		close(stopChan)
	}
}

// updateGuildActiveRoles reconciles the activity role for one guild:
// members active in the trailing window get the role, everyone else loses
// it. Per-member platform failures are logged and skipped.
func (b *Bot) updateGuildActiveRoles(ctx context.Context, guildID string) error {
	numericGuildID, err := common.ParseID(guildID)
	if err != nil {
		return fmt.Errorf("bad guild ID %q: %w", guildID, err)
	}

	role, err := b.getOrCreateActiveRole(ctx, guildID, numericGuildID)
	if err != nil {
		return err
	}

	active, err := b.activityService.GetActiveUsers(ctx, numericGuildID, activeWindowDays)
	if err != nil {
		return fmt.Errorf("failed to classify active users: %w", err)
	}

	after := ""
	for {
		members, err := b.session.GuildMembers(guildID, after, 1000)
		if err != nil {
			return fmt.Errorf("failed to list guild members: %w", err)
		}
		if len(members) == 0 {
			break
		}

		for _, member := range members {
			if member.User == nil || member.User.Bot {
				continue
			}
			memberID, err := common.ParseID(member.User.ID)
			if err != nil {
				continue
			}

			_, shouldHaveRole := active[memberID]
			hasRole := false
			for _, roleID := range member.Roles {
				if roleID == role.ID {
					hasRole = true
					break
				}
			}

			switch {
			case shouldHaveRole && !hasRole:
				if err := b.session.GuildMemberRoleAdd(guildID, member.User.ID, role.ID); err != nil {
					log.Errorf("Failed to add role for user %s in guild %s: %v", member.User.ID, guildID, err)
				}
			case !shouldHaveRole && hasRole:
				if err := b.session.GuildMemberRoleRemove(guildID, member.User.ID, role.ID); err != nil {
					log.Errorf("Failed to remove role for user %s in guild %s: %v", member.User.ID, guildID, err)
				}
			}
		}

		if len(members) < 1000 {
			break
		}
		after = members[len(members)-1].User.ID
	}

	return nil
}

// getOrCreateActiveRole returns the guild's activity role, creating it and
// persisting its id when the stored one is missing or no longer resolves.
func (b *Bot) getOrCreateActiveRole(ctx context.Context, guildID string, numericGuildID int64) (*discordgo.Role, error) {
	settings, err := b.settingsService.GetSettings(ctx, numericGuildID)
	if err != nil {
		return nil, fmt.Errorf("failed to load guild settings: %w", err)
	}

	if settings.ActiveRoleID != nil {
		role, err := b.session.State.Role(guildID, common.FormatID(*settings.ActiveRoleID))
		if err == nil && role != nil {
			return role, nil
		}
	}

	color := 0x2ecc71
	hoist := true
	role, err := b.session.GuildRoleCreate(guildID, &discordgo.RoleParams{
		Name:  activeRoleName,
		Color: &color,
		Hoist: &hoist,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create role: %w", err)
	}

	roleID, err := common.ParseID(role.ID)
	if err != nil {
		return nil, fmt.Errorf("bad created role ID %q: %w", role.ID, err)
	}
	if err := b.settingsService.SetActiveRole(ctx, numericGuildID, b.guildName(guildID), roleID); err != nil {
		return nil, fmt.Errorf("failed to persist role id: %w", err)
	}
	log.Infof("Created %s role in guild %s", activeRoleName, guildID)

	return role, nil
}

// handleRolesCheckActive handles /roles check-active
func (b *Bot) handleRolesCheckActive(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	if i.GuildID == "" || i.Member == nil {
		common.RespondEphemeral(s, i, "This command can only be used in a server.")
		return
	}

	// The sweep can take a while on large guilds.
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Flags: discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		log.Errorf("Error deferring roles check-active response: %v", err)
		return
	}

	if err := b.updateGuildActiveRoles(ctx, i.GuildID); err != nil {
		log.Errorf("Error manually updating active roles for guild %s: %v", i.GuildID, err)
		common.FollowUpWithError(s, i, "An error occurred while updating roles.")
		return
	}

	_, err = s.FollowupMessageCreate(i.Interaction, false, &discordgo.WebhookParams{
		Content: "Active roles updated successfully!",
		Flags:   discordgo.MessageFlagsEphemeral,
	})
	if err != nil {
		log.Errorf("Error sending roles check-active follow-up: %v", err)
	}
}

// handleRolesSetActiveRole handles /roles set-active-role
func (b *Bot) handleRolesSetActiveRole(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	if i.GuildID == "" || i.Member == nil {
		common.RespondEphemeral(s, i, "This command can only be used in a server.")
		return
	}

	role := subcommandOptions(i.ApplicationCommandData())["role"].RoleValue(s, i.GuildID)
	if role == nil {
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	guildID, err := common.ParseID(i.GuildID)
	if err != nil {
		log.Errorf("Error parsing guild ID %s: %v", i.GuildID, err)
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}
	roleID, err := common.ParseID(role.ID)
	if err != nil {
		log.Errorf("Error parsing role ID %s: %v", role.ID, err)
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	if err := b.settingsService.SetActiveRole(ctx, guildID, b.guildName(i.GuildID), roleID); err != nil {
		log.Errorf("Error setting active role for guild %d: %v", guildID, err)
		common.RespondEphemeral(s, i, "An error occurred while setting the role.")
		return
	}

	common.RespondEphemeral(s, i, fmt.Sprintf("Active journaling role set to %s", role.Mention()))
}
