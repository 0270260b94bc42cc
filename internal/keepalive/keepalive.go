package keepalive

import (
	"context"
	"time"

	"overseer/internal/common"

	"github.com/rs/zerolog/log"
)

const (
	DefaultInterval = 5 * time.Minute
	requestTimeout  = 30 * time.Second
)

// Free hosting tiers put idle services to sleep. The pinger keeps
// the service awake by requesting its own public url periodically
type Pinger struct {
	url      string
	interval time.Duration
	proxy    *common.Proxy
}

func NewPinger(url string, interval time.Duration) *Pinger {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Pinger{
		url:      url,
		interval: interval,
		proxy:    common.NewProxy(map[string]string{"User-Agent": "overseer-keepalive"}, requestTimeout),
	}
}

// Ping until the context is done. Failed pings are only logged
func (pinger *Pinger) Run(ctx context.Context) error {

	if pinger.url == "" {
		log.Warn().Msg("No external url configured, keep-alive pinger disabled")
		return nil
	}
	log.Info().Msgf("Keep-alive pinger started for %s every %s", pinger.url, pinger.interval)

	ticker := time.NewTicker(pinger.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			pinger.Ping(ctx)
		case <-ctx.Done():
			log.Debug().Msg("Keep-alive pinger stopped")
			return nil
		}
	}
}

func (pinger *Pinger) Ping(ctx context.Context) bool {
	stopwatch := common.StartStopwatch()
	if _, err := pinger.proxy.Request(ctx, pinger.url); err != nil {
		log.Error().Err(err).Msg("Keep-alive ping failed")
		return false
	}
	log.Debug().Msgf("Keep-alive ping to %s answered in %s", pinger.url, stopwatch.Elapsed())
	return true
}
