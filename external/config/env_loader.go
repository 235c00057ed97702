package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	internalconfig "github.com/foxseedlab/kikitori/internal/config"
)

type envConfig struct {
	Env                     string `env:"ENV" envDefault:"production"`
	TranscriberBaseURL      string `env:"TRANSCRIBER_BASE_URL,required"`
	TranscriberStreamURL    string `env:"TRANSCRIBER_STREAM_URL"`
	DefaultSourceLanguage   string `env:"DEFAULT_SOURCE_LANGUAGE" envDefault:"id"`
	DefaultTargetLanguage   string `env:"DEFAULT_TARGET_LANGUAGE" envDefault:"en"`
	CaptureDeviceDir        string `env:"CAPTURE_DEVICE_DIR"`
	AudioSampleRate         int    `env:"AUDIO_SAMPLE_RATE" envDefault:"16000"`
	AudioChannels           int    `env:"AUDIO_CHANNELS" envDefault:"1"`
	AudioCodec              string `env:"AUDIO_CODEC" envDefault:"pcm"`
	StreamWriteTimeoutSec   int    `env:"STREAM_WRITE_TIMEOUT_SEC" envDefault:"10"`
	DatabaseURL             string `env:"DATABASE_URL"`
	TranscriptWebhookURL    string `env:"TRANSCRIPT_WEBHOOK_URL"`
	DiscordToken            string `env:"DISCORD_TOKEN"`
	DiscordSummaryChannelID string `env:"DISCORD_SUMMARY_CHANNEL_ID"`
	TranscriptTimezone      string `env:"TRANSCRIPT_TIMEZONE" envDefault:"UTC"`
}

func Load() (*internalconfig.Config, error) {
	var raw envConfig
	if err := env.Parse(&raw); err != nil {
		return nil, fmt.Errorf("environment variables are invalid or missing: %w", err)
	}

	cfg := &internalconfig.Config{
		Env:                     raw.Env,
		TranscriberBaseURL:      raw.TranscriberBaseURL,
		TranscriberStreamURL:    raw.TranscriberStreamURL,
		DefaultSourceLanguage:   raw.DefaultSourceLanguage,
		DefaultTargetLanguage:   raw.DefaultTargetLanguage,
		CaptureDeviceDir:        raw.CaptureDeviceDir,
		AudioSampleRate:         raw.AudioSampleRate,
		AudioChannels:           raw.AudioChannels,
		AudioCodec:              raw.AudioCodec,
		StreamWriteTimeoutSec:   raw.StreamWriteTimeoutSec,
		DatabaseURL:             raw.DatabaseURL,
		TranscriptWebhookURL:    raw.TranscriptWebhookURL,
		DiscordToken:            raw.DiscordToken,
		DiscordSummaryChannelID: raw.DiscordSummaryChannelID,
		TranscriptTimezone:      raw.TranscriptTimezone,
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
