package bot

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"

	"github.com/UlisseMini/communitybot/models"
)

func TestFormatReminderContent(t *testing.T) {
	link := "https://discord.com/channels/1/2/3"

	t.Run("no preview", func(t *testing.T) {
		content := formatReminderContent(&models.Reminder{
			UserID:      42,
			MessageLink: link,
		})

		assert.Contains(t, content, "🔔 **Reminder** <@42>")
		assert.Contains(t, content, "[Original message]("+link+")")
		assert.NotContains(t, content, "> ")
	})

	t.Run("short preview quoted verbatim", func(t *testing.T) {
		preview := "don't forget the standup notes"
		content := formatReminderContent(&models.Reminder{
			UserID:         42,
			MessageLink:    link,
			MessagePreview: &preview,
		})

		assert.Contains(t, content, "> "+preview+"\n")
		assert.NotContains(t, content, "...")
	})

	t.Run("long preview truncated", func(t *testing.T) {
		preview := strings.Repeat("x", previewMaxLen+50)
		content := formatReminderContent(&models.Reminder{
			UserID:         42,
			MessageLink:    link,
			MessagePreview: &preview,
		})

		assert.Contains(t, content, "> "+strings.Repeat("x", previewMaxLen)+"...\n")
	})

	t.Run("multibyte preview truncates on rune boundary", func(t *testing.T) {
		preview := strings.Repeat("é", previewMaxLen+1)
		content := formatReminderContent(&models.Reminder{
			UserID:         42,
			MessageLink:    link,
			MessagePreview: &preview,
		})

		assert.True(t, utf8.ValidString(content))
		assert.Contains(t, content, "> "+strings.Repeat("é", previewMaxLen)+"...\n")
	})
}
