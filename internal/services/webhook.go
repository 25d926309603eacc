package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
	"unicode/utf8"

	"github.com/campfire-dev/campfire/internal/models"
	"github.com/rs/zerolog/log"
)

// WebhookNotifier posts project activity to the Discord and/or Slack
// webhooks configured on a project. Delivery is best effort: failures
// are logged and never bubble into the operation that triggered them.
type WebhookNotifier struct {
	client *http.Client
}

func NewWebhookNotifier() *WebhookNotifier {
	return &WebhookNotifier{
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

type discordEmbed struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Color       int    `json:"color"`
	Timestamp   string `json:"timestamp"`
}

type discordWebhookRequest struct {
	Username string         `json:"username"`
	Embeds   []discordEmbed `json:"embeds"`
}

type slackWebhookRequest struct {
	Username string `json:"username"`
	Text     string `json:"text"`
}

const (
	webhookUsername     = "Campfire"
	colorBlue           = 3447003 // #3498DB
	commentPreviewRunes = 200
)

func (n *WebhookNotifier) MemberJoined(project models.Project, user models.User) {
	n.send(project,
		fmt.Sprintf("New member: %s", user.Name),
		fmt.Sprintf("%s joined the project \"%s\".", user.Name, project.Title))
}

func (n *WebhookNotifier) CommentPosted(project models.Project, user models.User, body string) {
	// Truncate on rune boundaries so multi-byte text stays valid UTF-8.
	if utf8.RuneCountInString(body) > commentPreviewRunes {
		body = string([]rune(body)[:commentPreviewRunes]) + "…"
	}
	n.send(project,
		fmt.Sprintf("New comment from %s", user.Name),
		fmt.Sprintf("On \"%s\": %s", project.Title, body))
}

func (n *WebhookNotifier) send(project models.Project, title, text string) {
	if project.DiscordWebhook != "" {
		payload := discordWebhookRequest{
			Username: webhookUsername,
			Embeds: []discordEmbed{
				{
					Title:       title,
					Description: text,
					Color:       colorBlue,
					Timestamp:   time.Now().Format(time.RFC3339),
				},
			},
		}

		if err := n.post(project.DiscordWebhook, payload); err != nil {
			log.Error().Err(err).Uint("project_id", project.ID).Msg("discord webhook delivery failed")
		}
	}

	if project.SlackWebhook != "" {
		payload := slackWebhookRequest{
			Username: webhookUsername,
			Text:     fmt.Sprintf("*%s*\n%s", title, text),
		}

		if err := n.post(project.SlackWebhook, payload); err != nil {
			log.Error().Err(err).Uint("project_id", project.ID).Msg("slack webhook delivery failed")
		}
	}
}

func (n *WebhookNotifier) post(webhookURL string, payload interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal webhook payload: %w", err)
	}

	resp, err := n.client.Post(webhookURL, "application/json", bytes.NewBuffer(body))
	if err != nil {
		return fmt.Errorf("send webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}

	return nil
}
