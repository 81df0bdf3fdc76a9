package notification

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/urban-heat/uhi-monitor-api/internal/properties"
)

type discordMessage struct {
	Embeds []discordEmbed `json:"embeds"`
}

type discordEmbed struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Color       int    `json:"color"`
}

const (
	colorRed   = 16711680
	colorGreen = 65280
)

// SendAnalysisFailure posts the error to the configured Discord webhook.
// A missing webhook URL makes this a no-op so local runs stay quiet.
func SendAnalysisFailure(errorMessage string) error {
	url := properties.DiscordErrorNotificationUrl()
	if url == "" {
		return nil
	}
	return send(url, discordEmbed{
		Title:       "🚨 Analysis failed",
		Description: errorMessage,
		Color:       colorRed,
	})
}

// SendAnalysisSuccess posts a completion summary to the configured Discord
// webhook, or does nothing when no webhook is set.
func SendAnalysisSuccess(summary string) error {
	url := properties.DiscordSuccessNotificationUrl()
	if url == "" {
		return nil
	}
	return send(url, discordEmbed{
		Title:       "✅ Analysis complete",
		Description: summary,
		Color:       colorGreen,
	})
}

func send(url string, embed discordEmbed) error {
	payload, err := json.Marshal(discordMessage{Embeds: []discordEmbed{embed}})
	if err != nil {
		return err
	}

	resp, err := http.Post(url, "application/json", bytes.NewBuffer(payload))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent && resp.StatusCode != http.StatusOK {
		return fmt.Errorf("failed to send Discord notification, status code: %d", resp.StatusCode)
	}
	return nil
}
