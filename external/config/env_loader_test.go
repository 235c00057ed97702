package config

import "testing"

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("TRANSCRIBER_BASE_URL", "https://example.com/transcriber")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Env != "production" {
		t.Fatalf("unexpected env: %s", cfg.Env)
	}
	if cfg.DefaultSourceLanguage != "id" || cfg.DefaultTargetLanguage != "en" {
		t.Fatalf("unexpected default languages: %s/%s", cfg.DefaultSourceLanguage, cfg.DefaultTargetLanguage)
	}
	if cfg.AudioSampleRate != 16000 || cfg.AudioChannels != 1 || cfg.AudioCodec != "pcm" {
		t.Fatalf("unexpected audio defaults: %+v", cfg)
	}
	if cfg.TranscriptTimezone != "UTC" {
		t.Fatalf("unexpected timezone: %s", cfg.TranscriptTimezone)
	}
	if cfg.HistoryEnabled() || cfg.DiscordEnabled() {
		t.Fatal("expected optional integrations to be disabled by default")
	}
}

func TestLoad_MissingBaseURL(t *testing.T) {
	t.Setenv("TRANSCRIBER_BASE_URL", "")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for missing TRANSCRIBER_BASE_URL")
	}
}

func TestLoad_ValidationRunsAfterParse(t *testing.T) {
	t.Setenv("TRANSCRIBER_BASE_URL", "https://example.com")
	t.Setenv("DISCORD_TOKEN", "token")
	if _, err := Load(); err == nil {
		t.Fatal("expected error when discord channel is missing")
	}
}
