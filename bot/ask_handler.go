package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"

	"github.com/UlisseMini/communitybot/ai"
	"github.com/UlisseMini/communitybot/bot/common"
)

const defaultContextMessages = 20

// handleAsk handles /ask: answers a question with recent channel messages
// as conversation context.
func (b *Bot) handleAsk(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	opts := commandOptions(i.ApplicationCommandData())
	prompt := opts["prompt"].StringValue()
	contextMessages := defaultContextMessages
	if opt, ok := opts["context_messages"]; ok {
		contextMessages = int(opt.IntValue())
	}

	// The completion call can take a while.
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
	})
	if err != nil {
		log.Errorf("Error deferring ask response: %v", err)
		return
	}

	conversation := b.buildConversationContext(s, i, contextMessages)
	fullPrompt := fmt.Sprintf(`Here is the recent conversation context from a Discord channel:

<conversation>
%s
</conversation>

User's question: %s

Please provide a helpful response based on the conversation context if relevant.`, conversation, prompt)

	response, err := b.generator.Generate(ctx, fullPrompt)
	if err != nil {
		if errors.Is(err, ai.ErrNotConfigured) {
			common.FollowUpWithError(s, i,
				"The AI assistant is not configured. The server admin needs to set the AI_API_KEY environment variable.")
			return
		}
		log.Errorf("AI generation error: %v", err)
		common.FollowUpWithError(s, i, fmt.Sprintf("Error calling the AI API: %v", err))
		return
	}

	chunks := common.SplitMessage(response)
	if _, err := s.FollowupMessageCreate(i.Interaction, false, &discordgo.WebhookParams{Content: chunks[0]}); err != nil {
		log.Errorf("Error sending ask response: %v", err)
		return
	}
	for _, chunk := range chunks[1:] {
		if _, err := s.ChannelMessageSend(i.ChannelID, chunk); err != nil {
			log.Errorf("Error sending ask response chunk: %v", err)
			return
		}
	}
}

// buildConversationContext renders the most recent channel messages as
// chronological "author: content" lines. Attachments appear as bracketed
// filenames, messages with nothing to show are skipped.
func (b *Bot) buildConversationContext(s *discordgo.Session, i *discordgo.InteractionCreate, limit int) string {
	messages, err := s.ChannelMessages(i.ChannelID, limit, "", "", "")
	if err != nil {
		log.Errorf("Failed to fetch channel history: %v", err)
		return "(No recent messages)"
	}

	var lines []string
	for _, msg := range messages {
		if msg.Author == nil {
			continue
		}

		content := msg.Content
		if len(msg.Attachments) > 0 {
			names := make([]string, 0, len(msg.Attachments))
			for _, a := range msg.Attachments {
				names = append(names, fmt.Sprintf("[%s]", a.Filename))
			}
			content = strings.TrimSpace(content + " " + strings.Join(names, ", "))
		}
		if content == "" {
			continue
		}

		lines = append(lines, fmt.Sprintf("%s: %s", msg.Author.Username, content))
	}

	if len(lines) == 0 {
		return "(No recent messages)"
	}

	// The API returns newest first.
	for left, right := 0, len(lines)-1; left < right; left, right = left+1, right-1 {
		lines[left], lines[right] = lines[right], lines[left]
	}

	return strings.Join(lines, "\n")
}
