// Command rdwtmark embeds and extracts redundant wavelet watermarks in images.
package main

import (
	"context"
	"os"

	"github.com/rs/zerolog/log"
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		log.Error().Err(err).Msg("rdwtmark")
		os.Exit(1)
	}
}
