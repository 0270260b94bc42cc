package status

import (
	"context"
	"errors"
	"fmt"

	"overseer/internal/common"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Finds the state of a service on a status page. It keeps no state
// between calls: every query gets its own rendering session, which is
// closed before Resolve returns
type Resolver struct {
	engine Engine
}

func NewResolver(engine Engine) *Resolver {
	return &Resolver{engine: engine}
}

// Resolve always returns exactly one result; errors and panics of the
// engine or the extraction are turned into a failure result
func (resolver *Resolver) Resolve(ctx context.Context, query StatusQuery, config ResolverConfig) (result StatusResult) {

	logger := log.With().Str("query", uuid.NewString()).Str("service", query.TargetServiceName).Logger()
	stopwatch := common.StartStopwatch()
	defer func() {
		if p := recover(); p != nil {
			logger.Error().Msgf("Recovered from panic while resolving status: %v", p)
			result = Failure(FailureUnknown, fmt.Sprint(p))
		}
		logger.Info().Stringer("result", result).Dur("elapsed", stopwatch.Elapsed()).Msg("Status query finished")
	}()

	if err := query.Validate(); err != nil {
		return Failure(FailureUnknown, err.Error())
	}
	config = config.withDefaults()
	if err := config.Selectors.Validate(); err != nil {
		return Failure(FailureUnknown, err.Error())
	}

	// The timeout covers the launch, the navigation and the wait for quiescence
	ctx, cancel := context.WithTimeout(ctx, config.RenderTimeout)
	defer cancel()

	logger.Debug().Msgf("Launching rendering session for %s", query.SourceURL)
	session, err := resolver.engine.Launch(ctx, config)
	if err != nil {
		return classifyLaunch(ctx, err)
	}
	defer func() {
		if err := session.Close(); err != nil {
			logger.Warn().Err(err).Msg("Could not close rendering session")
		}
	}()

	html, err := session.Render(ctx, query.SourceURL)
	if err != nil {
		return classifyRender(ctx, err)
	}
	logger.Debug().Msgf("Rendered %d bytes, extracting", len(html))

	pairs, err := Extract(html, config.Selectors)
	if err != nil {
		return Failure(FailureUnknown, err.Error())
	}
	logger.Debug().Msgf("Found %d services on the page", len(pairs))

	return Match(pairs, query.TargetServiceName)
}

func timedOut(ctx context.Context, err error) bool {
	return errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded)
}

func classifyLaunch(ctx context.Context, err error) StatusResult {
	switch {
	case timedOut(ctx, err):
		return Failure(FailureTimeout, err.Error())
	case errors.Is(err, context.Canceled):
		return Failure(FailureUnknown, err.Error())
	default:
		return Failure(FailureRenderEngineUnavailable, err.Error())
	}
}

func classifyRender(ctx context.Context, err error) StatusResult {
	switch {
	case timedOut(ctx, err):
		return Failure(FailureTimeout, err.Error())
	case errors.Is(err, ErrEngineUnavailable):
		return Failure(FailureRenderEngineUnavailable, err.Error())
	case errors.Is(err, context.Canceled):
		return Failure(FailureUnknown, err.Error())
	default:
		return Failure(FailureNetworkError, err.Error())
	}
}
