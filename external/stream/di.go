package stream

import (
	"github.com/foxseedlab/kikitori/internal/config"
	"github.com/foxseedlab/kikitori/internal/stream"
	"github.com/samber/do/v2"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (stream.Dialer, error) {
		c := do.MustInvoke[*config.Config](i)
		return NewWebSocketDialer(c.StreamWriteTimeout()), nil
	})
}
