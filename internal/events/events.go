package events

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Discord never shows more autocomplete choices than this
const MaxChoices = 25

//go:embed events.yaml
var defaultCatalogue []byte

type Event struct {
	Key  string
	Name string
}

// The events members can announce, indexed by key
type Catalogue struct {
	events map[string]Event
	sorted []Event
}

// Catalogue shipped with the binary
func Default() *Catalogue {
	catalogue, err := Parse(defaultCatalogue)
	if err != nil {
		panic(fmt.Sprintf("embedded event catalogue is not valid: %v", err))
	}
	return catalogue
}

// Parse a yaml mapping of key to event name
func Parse(data []byte) (*Catalogue, error) {

	var raw map[string]string
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("could not decode event catalogue: %w", err)
	}

	catalogue := &Catalogue{events: make(map[string]Event, len(raw))}
	for key, name := range raw {
		key = strings.ToLower(strings.TrimSpace(key))
		name = strings.TrimSpace(name)
		if key == "" || name == "" {
			return nil, fmt.Errorf("event %q has an empty key or name", key)
		}
		if strings.ContainsAny(key, " \t") {
			return nil, fmt.Errorf("event key %q contains spaces", key)
		}
		if _, ok := catalogue.events[key]; ok {
			return nil, fmt.Errorf("event key %q is repeated", key)
		}
		event := Event{Key: key, Name: name}
		catalogue.events[key] = event
		catalogue.sorted = append(catalogue.sorted, event)
	}
	sort.Slice(catalogue.sorted, func(i, j int) bool {
		return catalogue.sorted[i].Name < catalogue.sorted[j].Name
	})
	return catalogue, nil
}

func (catalogue *Catalogue) Lookup(key string) (Event, bool) {
	event, ok := catalogue.events[strings.ToLower(key)]
	return event, ok
}

// All the events, ordered by name
func (catalogue *Catalogue) Sorted() []Event {
	return append([]Event(nil), catalogue.sorted...)
}

func (catalogue *Catalogue) Len() int {
	return len(catalogue.sorted)
}

// Events whose name or key contains the query, ignoring case.
// Prefix matches come before the rest
func (catalogue *Catalogue) Search(query string, limit int) []Event {

	query = strings.ToLower(strings.TrimSpace(query))
	if limit <= 0 || limit > MaxChoices {
		limit = MaxChoices
	}

	prefix := []Event{}
	contains := []Event{}
	for _, event := range catalogue.sorted {
		name := strings.ToLower(event.Name)
		switch {
		case strings.HasPrefix(name, query) || strings.HasPrefix(event.Key, query):
			prefix = append(prefix, event)
		case strings.Contains(name, query) || strings.Contains(event.Key, query):
			contains = append(contains, event)
		}
	}

	result := append(prefix, contains...)
	if len(result) > limit {
		result = result[:limit]
	}
	return result
}
