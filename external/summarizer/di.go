package summarizer

import (
	"github.com/foxseedlab/kikitori/internal/config"
	"github.com/foxseedlab/kikitori/internal/summarizer"
	"github.com/samber/do/v2"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (summarizer.Requester, error) {
		c := do.MustInvoke[*config.Config](i)
		return NewHTTPRequester(c.TranscriberBaseURL), nil
	})
}
