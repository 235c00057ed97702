package audio

import (
	"github.com/foxseedlab/kikitori/internal/audio"
	"github.com/foxseedlab/kikitori/internal/config"
	"github.com/samber/do/v2"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (audio.Capturer, error) {
		c := do.MustInvoke[*config.Config](i)
		return NewPCMCapturer(c.CaptureDeviceDir, formatFromConfig(c)), nil
	})
	do.Provide(injector, func(i do.Injector) (audio.EncoderFactory, error) {
		c := do.MustInvoke[*config.Config](i)
		return NewEncoderFactory(c.AudioCodec, formatFromConfig(c))
	})
}

func formatFromConfig(c *config.Config) audio.Format {
	return audio.Format{SampleRate: c.AudioSampleRate, Channels: c.AudioChannels}
}
