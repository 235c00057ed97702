//go:build !opus

package audio

import (
	"errors"

	"github.com/foxseedlab/kikitori/internal/audio"
)

var errOpusUnavailable = errors.New("opus codec requires building with -tags opus")

func NewOpusEncoder(_ audio.Format) (audio.Encoder, error) {
	return nil, errOpusUnavailable
}
