package session

import (
	"github.com/foxseedlab/kikitori/internal/audio"
	"github.com/foxseedlab/kikitori/internal/config"
	"github.com/foxseedlab/kikitori/internal/discord"
	"github.com/foxseedlab/kikitori/internal/repository"
	"github.com/foxseedlab/kikitori/internal/stream"
	"github.com/foxseedlab/kikitori/internal/summarizer"
	"github.com/foxseedlab/kikitori/internal/webhook"
	"github.com/samber/do/v2"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (*Controller, error) {
		cfg := do.MustInvoke[*config.Config](i)
		capturer := do.MustInvoke[audio.Capturer](i)
		newEncoder := do.MustInvoke[audio.EncoderFactory](i)
		dialer := do.MustInvoke[stream.Dialer](i)
		requester := do.MustInvoke[summarizer.Requester](i)
		repo := do.MustInvoke[repository.Repository](i)
		wh := do.MustInvoke[webhook.Sender](i)
		dc := do.MustInvoke[discord.Client](i)
		return NewController(cfg, capturer, newEncoder, dialer, requester, repo, wh, dc), nil
	})
}
