package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// DiscordWebhook implements Poster via a Discord webhook.
type DiscordWebhook struct {
	webhookURL string
	username   string
	client     *http.Client
}

// NewDiscordWebhook creates a new DiscordWebhook poster.
func NewDiscordWebhook(webhookURL string, opts ...DiscordOption) *DiscordWebhook {
	d := &DiscordWebhook{
		webhookURL: webhookURL,
		username:   "Target Monitor",
		client:     http.DefaultClient,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// DiscordOption configures a DiscordWebhook.
type DiscordOption func(*DiscordWebhook)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(c *http.Client) DiscordOption {
	return func(d *DiscordWebhook) {
		d.client = c
	}
}

// WithUsername overrides the webhook display name.
func WithUsername(name string) DiscordOption {
	return func(d *DiscordWebhook) {
		d.username = name
	}
}

// discordWebhookPayload is the Discord webhook JSON structure.
type discordWebhookPayload struct {
	Content  string         `json:"content,omitempty"`
	Username string         `json:"username,omitempty"`
	Embeds   []discordEmbed `json:"embeds"`
}

type discordEmbed struct {
	Title       string              `json:"title"`
	Color       int                 `json:"color"`
	Description string              `json:"description,omitempty"`
	Fields      []discordEmbedField `json:"fields,omitempty"`
}

type discordEmbedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

// Post sends one message to the webhook.
func (d *DiscordWebhook) Post(ctx context.Context, msg Message) error {
	payload := discordWebhookPayload{
		Content:  msg.Content,
		Username: d.username,
		Embeds:   make([]discordEmbed, 0, len(msg.Embeds)),
	}
	for i := range msg.Embeds {
		payload.Embeds = append(payload.Embeds, toDiscordEmbed(&msg.Embeds[i]))
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshaling discord payload: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		d.webhookURL,
		bytes.NewReader(body),
	)
	if err != nil {
		return fmt.Errorf("creating discord request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: sending discord webhook: %w", ErrPostFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return fmt.Errorf("%w: discord rate limited (429)", ErrPostFailed)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, readErr := io.ReadAll(resp.Body)
		if readErr != nil {
			return fmt.Errorf("%w: discord returned %d (body unreadable)", ErrPostFailed, resp.StatusCode)
		}
		return fmt.Errorf("%w: discord returned %d: %s", ErrPostFailed, resp.StatusCode, respBody)
	}

	return nil
}

func toDiscordEmbed(e *Embed) discordEmbed {
	out := discordEmbed{
		Title:       e.Title,
		Color:       e.Color,
		Description: e.Description,
		Fields:      make([]discordEmbedField, 0, len(e.Fields)),
	}
	for _, f := range e.Fields {
		out.Fields = append(out.Fields, discordEmbedField{
			Name:   f.Name,
			Value:  f.Value,
			Inline: f.Inline,
		})
	}
	return out
}
