package status

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// A service name found in the page together with the text next to it
type Pair struct {
	Name   string
	Status string
}

// Extract every name/status pair of the page, in document order
func Extract(html string, selectors Selectors) ([]Pair, error) {

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("could not parse page: %w", err)
	}

	pairs := []Pair{}
	doc.Find(selectors.Name).Each(func(_ int, name *goquery.Selection) {
		pairs = append(pairs, Pair{
			Name:   strings.TrimSpace(name.Text()),
			Status: strings.TrimSpace(statusOf(name, selectors).Text()),
		})
	})
	return pairs, nil
}

func statusOf(name *goquery.Selection, selectors Selectors) *goquery.Selection {
	if selectors.Status == "" {
		return name.Next()
	}
	scope := name.Parent()
	if selectors.Container != "" {
		scope = name.Closest(selectors.Container)
	}
	return scope.Find(selectors.Status).First()
}

// Turn the pairs of a page into the result for the target service.
// The first pair with exactly the target name wins. The target is
// trimmed like the names on the page, and reported trimmed
func Match(pairs []Pair, targetServiceName string) StatusResult {
	target := strings.TrimSpace(targetServiceName)
	for _, pair := range pairs {
		if pair.Name != target {
			continue
		}
		if pair.Status == "" {
			return Indeterminate()
		}
		return Found(pair.Status)
	}
	return NotListed(target)
}
