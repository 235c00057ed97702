package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

const (
	AudioCodecPCM  = "pcm"
	AudioCodecOpus = "opus"

	streamPathSuffix = "/ws/transcribe"
)

type Config struct {
	Env                     string
	TranscriberBaseURL      string
	TranscriberStreamURL    string
	DefaultSourceLanguage   string
	DefaultTargetLanguage   string
	CaptureDeviceDir        string
	AudioSampleRate         int
	AudioChannels           int
	AudioCodec              string
	StreamWriteTimeoutSec   int
	DatabaseURL             string
	TranscriptWebhookURL    string
	DiscordToken            string
	DiscordSummaryChannelID string
	TranscriptTimezone      string
}

func (c *Config) Validate() error {
	if c.TranscriberBaseURL == "" {
		return fmt.Errorf("TRANSCRIBER_BASE_URL is required")
	}
	if err := checkURLScheme("TRANSCRIBER_BASE_URL", c.TranscriberBaseURL, "http", "https"); err != nil {
		return err
	}
	if c.TranscriberStreamURL != "" {
		if err := checkURLScheme("TRANSCRIBER_STREAM_URL", c.TranscriberStreamURL, "ws", "wss"); err != nil {
			return err
		}
	}
	if !IsSupportedLanguage(c.DefaultSourceLanguage) {
		return fmt.Errorf("DEFAULT_SOURCE_LANGUAGE %q is not supported", c.DefaultSourceLanguage)
	}
	if !IsSupportedLanguage(c.DefaultTargetLanguage) {
		return fmt.Errorf("DEFAULT_TARGET_LANGUAGE %q is not supported", c.DefaultTargetLanguage)
	}
	if c.AudioSampleRate <= 0 {
		return fmt.Errorf("AUDIO_SAMPLE_RATE must be positive, got %d", c.AudioSampleRate)
	}
	if c.AudioChannels != 1 && c.AudioChannels != 2 {
		return fmt.Errorf("AUDIO_CHANNELS must be 1 or 2, got %d", c.AudioChannels)
	}
	if c.AudioCodec != AudioCodecPCM && c.AudioCodec != AudioCodecOpus {
		return fmt.Errorf("AUDIO_CODEC must be %q or %q, got %q", AudioCodecPCM, AudioCodecOpus, c.AudioCodec)
	}
	if c.StreamWriteTimeoutSec <= 0 {
		return fmt.Errorf("STREAM_WRITE_TIMEOUT_SEC must be positive, got %d", c.StreamWriteTimeoutSec)
	}
	if c.DiscordToken != "" && c.DiscordSummaryChannelID == "" {
		return fmt.Errorf("DISCORD_SUMMARY_CHANNEL_ID is required when DISCORD_TOKEN is set")
	}
	if c.TranscriptTimezone == "" {
		return fmt.Errorf("TRANSCRIPT_TIMEZONE is required")
	}
	if _, err := time.LoadLocation(c.TranscriptTimezone); err != nil {
		return fmt.Errorf("TRANSCRIPT_TIMEZONE is invalid: %w", err)
	}
	return nil
}

func checkURLScheme(name, raw string, schemes ...string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%s is invalid: %w", name, err)
	}
	for _, s := range schemes {
		if u.Scheme == s && u.Host != "" {
			return nil
		}
	}
	return fmt.Errorf("%s must be an absolute %s URL, got %q", name, strings.Join(schemes, "/"), raw)
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// StreamURL returns the duplex endpoint for one language pair.
func (c *Config) StreamURL(sourceLanguage, targetLanguage string) string {
	base := c.TranscriberStreamURL
	if base == "" {
		base = deriveStreamURL(c.TranscriberBaseURL)
	}
	return strings.TrimRight(base, "/") + "/" + url.PathEscape(sourceLanguage) + "/" + url.PathEscape(targetLanguage)
}

func deriveStreamURL(baseURL string) string {
	base := strings.TrimRight(baseURL, "/")
	switch {
	case strings.HasPrefix(base, "https://"):
		base = "wss://" + strings.TrimPrefix(base, "https://")
	case strings.HasPrefix(base, "http://"):
		base = "ws://" + strings.TrimPrefix(base, "http://")
	}
	return base + streamPathSuffix
}

func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.TranscriptTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func (c *Config) StreamWriteTimeout() time.Duration {
	return time.Duration(c.StreamWriteTimeoutSec) * time.Second
}

func (c *Config) HistoryEnabled() bool {
	return c.DatabaseURL != ""
}

func (c *Config) DiscordEnabled() bool {
	return c.DiscordToken != ""
}
