package status

import (
	"fmt"
	"time"

	"github.com/andybalholm/cascadia"
)

const DefaultRenderTimeout = 90 * time.Second

const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"

// When a navigation is considered finished
type Readiness string

const (
	// Wait until at most two connections stay open, which tolerates
	// long polling and analytics beacons
	ReadinessNetworkAlmostIdle Readiness = "network-almost-idle"
	// Wait until the page stopped doing network requests
	ReadinessNetworkIdle Readiness = "network-idle"
	// Wait only for the load event of the document
	ReadinessLoad Readiness = "load"
)

// Lifecycle event of the main frame that ends the wait, empty when
// nothing is waited for after navigation
func (readiness Readiness) lifecycleEvent() string {
	switch readiness {
	case ReadinessNetworkAlmostIdle:
		return "networkAlmostIdle"
	case ReadinessNetworkIdle:
		return "networkIdle"
	default:
		return ""
	}
}

// Where the service names and their statuses live in the page.
//
// Name finds the elements holding a service name. When Status is empty
// the status is the next element sibling of the name. Otherwise Status is
// looked up inside the closest ancestor of the name matching Container,
// or inside the parent of the name when Container is empty
type Selectors struct {
	Name      string `mapstructure:"name"`
	Status    string `mapstructure:"status"`
	Container string `mapstructure:"container"`
}

// Markup of status.bethesda.net while it rendered one div per service
var SiblingSelectors = Selectors{
	Name: ".status-container > div:first-child",
}

// Markup of status.bethesda.net once services became components
var ComponentSelectors = Selectors{
	Name:      ".component-container .name",
	Status:    ".component-status",
	Container: ".component-container",
}

func (selectors Selectors) Validate() error {
	if selectors.Name == "" {
		return fmt.Errorf("name selector is empty")
	}
	for _, selector := range []string{selectors.Name, selectors.Status, selectors.Container} {
		if selector == "" {
			continue
		}
		if _, err := cascadia.Compile(selector); err != nil {
			return fmt.Errorf("selector %q is not valid: %w", selector, err)
		}
	}
	return nil
}

type ResolverConfig struct {
	RenderTimeout time.Duration
	UserAgent     string
	Readiness     Readiness
	Selectors     Selectors
}

func DefaultResolverConfig() ResolverConfig {
	return ResolverConfig{
		RenderTimeout: DefaultRenderTimeout,
		UserAgent:     DefaultUserAgent,
		Readiness:     ReadinessNetworkAlmostIdle,
		Selectors:     SiblingSelectors,
	}
}

// Fill the zero values with the defaults
func (config ResolverConfig) withDefaults() ResolverConfig {
	defaults := DefaultResolverConfig()
	if config.RenderTimeout <= 0 {
		config.RenderTimeout = defaults.RenderTimeout
	}
	if config.UserAgent == "" {
		config.UserAgent = defaults.UserAgent
	}
	if config.Readiness == "" {
		config.Readiness = defaults.Readiness
	}
	if config.Selectors.Name == "" {
		config.Selectors = defaults.Selectors
	}
	return config
}
