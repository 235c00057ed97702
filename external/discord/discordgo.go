package discord

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/bwmarrin/discordgo"
	discordpkg "github.com/foxseedlab/kikitori/internal/discord"
)

const maxMessageRunes = 2000

type Client struct {
	session   *discordgo.Session
	token     string
	botUserID string
}

func NewClient(token string) discordpkg.Client {
	return &Client{
		token: token,
	}
}

func (c *Client) Enabled() bool {
	return c.token != ""
}

// Connect prepares a REST session and verifies the token. No gateway
// connection is opened since the client only posts messages.
func (c *Client) Connect(ctx context.Context) error {
	if !c.Enabled() {
		return nil
	}
	s, err := discordgo.New("Bot " + c.token)
	if err != nil {
		return err
	}
	c.session = s
	if _, err := c.fetchBotUserID(discordgo.WithContext(ctx)); err != nil {
		c.session = nil
		return fmt.Errorf("verify discord token: %w", err)
	}
	return nil
}

// Close drops the REST session. Later sends are no-ops.
func (c *Client) Close() error {
	if c.session == nil {
		return nil
	}
	slog.Debug("discord client closed", "bot_user_id", c.botUserID)
	c.session = nil
	c.botUserID = ""
	return nil
}

// Shutdown lets the injector close the client on exit.
func (c *Client) Shutdown() error {
	return c.Close()
}

func (c *Client) SendChannelMessage(channelID, content string) error {
	if c.session == nil {
		return nil
	}
	for _, part := range splitMessage(content, maxMessageRunes) {
		if _, err := c.session.ChannelMessageSend(channelID, part); err != nil {
			return err
		}
	}
	return nil
}

func (c *Client) SendChannelMessageWithFile(msg discordpkg.FileMessage) error {
	if c.session == nil {
		return nil
	}
	parts := splitMessage(msg.Content, maxMessageRunes)
	for _, part := range parts[:len(parts)-1] {
		if _, err := c.session.ChannelMessageSend(msg.ChannelID, part); err != nil {
			return err
		}
	}
	_, err := c.session.ChannelMessageSendComplex(msg.ChannelID, &discordgo.MessageSend{
		Content: parts[len(parts)-1],
		Files: []*discordgo.File{
			{Name: msg.Filename, ContentType: "text/plain", Reader: bytes.NewReader(msg.FileBody)},
		},
	})
	return err
}

func (c *Client) GetBotUserID() (string, error) {
	return c.fetchBotUserID()
}

func (c *Client) fetchBotUserID(options ...discordgo.RequestOption) (string, error) {
	if c.botUserID != "" {
		return c.botUserID, nil
	}
	if c.session == nil {
		return "", fmt.Errorf("discord session is not initialized")
	}
	u, err := c.session.User("@me", options...)
	if err != nil {
		return "", err
	}
	c.botUserID = u.ID
	return c.botUserID, nil
}

// splitMessage cuts content into pieces of at most limit runes, preferring
// line breaks. It always returns at least one piece.
func splitMessage(content string, limit int) []string {
	if utf8.RuneCountInString(content) <= limit {
		return []string{content}
	}
	var parts []string
	rest := content
	for utf8.RuneCountInString(rest) > limit {
		cut := runeOffset(rest, limit)
		if nl := strings.LastIndexByte(rest[:cut], '\n'); nl > 0 {
			cut = nl + 1
		}
		parts = append(parts, rest[:cut])
		rest = rest[cut:]
	}
	if rest != "" {
		parts = append(parts, rest)
	}
	return parts
}

func runeOffset(s string, n int) int {
	i := 0
	for pos := range s {
		if i == n {
			return pos
		}
		i++
	}
	return len(s)
}
