package discord

import "context"

type FileMessage struct {
	ChannelID string
	Content   string
	Filename  string
	FileBody  []byte
}

type Client interface {
	Connect(ctx context.Context) error
	Close() error
	// Enabled reports whether a bot token is configured. Send calls on a
	// disabled client are no-ops.
	Enabled() bool
	SendChannelMessage(channelID, content string) error
	SendChannelMessageWithFile(msg FileMessage) error
	GetBotUserID() (string, error)
}
