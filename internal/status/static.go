package status

import (
	"context"

	"overseer/internal/common"
)

// Fetches the page with a plain GET, without running any script.
// Pages that fill their content from javascript come back as an empty
// shell, so this is only good for server rendered pages
type StaticEngine struct{}

func (engine *StaticEngine) Launch(ctx context.Context, config ResolverConfig) (Session, error) {
	header := map[string]string{
		"User-Agent": config.UserAgent,
		"Accept":     "text/html,application/xhtml+xml",
	}
	return &staticSession{proxy: common.NewProxy(header, config.RenderTimeout)}, nil
}

type staticSession struct {
	proxy *common.Proxy
}

func (session *staticSession) Render(ctx context.Context, url string) (string, error) {
	body, err := session.proxy.Request(ctx, url)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

func (session *staticSession) Close() error {
	return nil
}

// Build the engine named in the configuration
func NewEngine(name string, chromePath string) (Engine, bool) {
	switch name {
	case "chrome", "":
		return &ChromeEngine{ExecPath: chromePath}, true
	case "static":
		return &StaticEngine{}, true
	default:
		return nil, false
	}
}

