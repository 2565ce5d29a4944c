package bot

import (
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// handlePing responds with gateway and round-trip latency
func (b *Bot) handlePing(s *discordgo.Session, i *discordgo.InteractionCreate) {
	start := time.Now()

	embed := &discordgo.MessageEmbed{
		Title: "🏓 Pong!",
		Color: 0x3498db,
	}

	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{embed},
		},
	})
	if err != nil {
		log.Errorf("Error responding to ping command: %v", err)
		return
	}

	embed.Fields = []*discordgo.MessageEmbedField{
		{
			Name:   "websocket latency",
			Value:  fmt.Sprintf("%.2f ms", float64(s.HeartbeatLatency().Microseconds())/1000),
			Inline: true,
		},
		{
			Name:   "bot latency",
			Value:  fmt.Sprintf("%.2f ms", float64(time.Since(start).Microseconds())/1000),
			Inline: true,
		},
	}

	embeds := []*discordgo.MessageEmbed{embed}
	if _, err := s.InteractionResponseEdit(i.Interaction, &discordgo.WebhookEdit{Embeds: &embeds}); err != nil {
		log.Errorf("Error editing ping response: %v", err)
	}
}
