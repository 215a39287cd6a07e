// SPDX-License-Identifier: MPL-2.0

// Package workshop is the catalog boundary: it scrapes the Steam Workshop
// web pages for item details and search results. There is no supported API
// for this data, so the client parses the public HTML and keeps all of its
// selectors in one place.
package workshop

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/charmbracelet/log"
	"golang.org/x/net/html"

	"workshopctl/internal/registry"
)

// DefaultBaseURL is the public Steam community site.
const DefaultBaseURL = "https://steamcommunity.com"

// Workshop ids are the digit runs Steam embeds in filedetails links.
var idPattern = regexp.MustCompile(`\d{5,15}`)

type (
	// Option configures a Client.
	Option func(*Client)

	// Client fetches and parses workshop pages. Implements registry.Lookup.
	Client struct {
		baseURL    string
		httpClient *http.Client
		maxRetries uint
	}

	// httpStatusError marks a response worth retrying.
	httpStatusError struct {
		status int
		url    string
	}
)

func (e *httpStatusError) Error() string {
	return fmt.Sprintf("GET %s: unexpected status %d", e.url, e.status)
}

// WithBaseURL points the client at a different site root. Used by tests.
func WithBaseURL(base string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(base, "/") }
}

// WithHTTPClient substitutes the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithMaxRetries caps retry attempts for transient failures.
func WithMaxRetries(n uint) Option {
	return func(c *Client) { c.maxRetries = n }
}

// New creates a workshop client.
func New(opts ...Option) *Client {
	c := &Client{
		baseURL:    DefaultBaseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		maxRetries: 3,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// fetch GETs the url and returns the parsed document, retrying transient
// transport and 5xx failures with exponential backoff.
func (c *Client) fetch(ctx context.Context, pageURL string) (*html.Node, error) {
	operation := func() (*html.Node, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
		if err != nil {
			return nil, backoff.Permanent(err)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			log.Debug("workshop fetch failed, retrying", "url", pageURL, "error", err)
			return nil, err
		}
		defer func() { _ = resp.Body.Close() }()

		if resp.StatusCode >= 500 {
			log.Debug("workshop returned server error, retrying", "url", pageURL, "status", resp.StatusCode)
			return nil, &httpStatusError{status: resp.StatusCode, url: pageURL}
		}
		if resp.StatusCode != http.StatusOK {
			return nil, backoff.Permanent(&httpStatusError{status: resp.StatusCode, url: pageURL})
		}

		doc, err := html.Parse(io.LimitReader(resp.Body, 8<<20))
		if err != nil {
			return nil, backoff.Permanent(fmt.Errorf("parse %s: %w", pageURL, err))
		}
		return doc, nil
	}

	return backoff.Retry(ctx, operation,
		backoff.WithBackOff(backoff.NewExponentialBackOff()),
		backoff.WithMaxTries(c.maxRetries))
}

// Details fetches the filedetails page for id and extracts the item record.
// A page carrying the workshop error banner maps to registry.ErrNotFound.
func (c *Client) Details(ctx context.Context, id string) (registry.Item, error) {
	pageURL := c.baseURL + "/sharedfiles/filedetails/?" + url.Values{"id": {id}}.Encode()

	doc, err := c.fetch(ctx, pageURL)
	if err != nil {
		return registry.Item{}, fmt.Errorf("fetch details for %s: %w", id, err)
	}

	if banner := findByID(doc, "message"); banner != nil {
		return registry.Item{}, fmt.Errorf("item %s: %s: %w", id, nodeText(banner), registry.ErrNotFound)
	}

	item := registry.Item{ID: id}

	if link := findDetailsLink(doc); link != "" {
		if ids := idPattern.FindAllString(link, 1); len(ids) > 0 {
			item.ID = ids[0]
		}
	}

	main := findByID(doc, "mainContents")
	if main == nil {
		return registry.Item{}, fmt.Errorf("item %s: unrecognized page layout", id)
	}

	if title := findByClass(main, "div", "workshopItemTitle"); title != nil {
		item.Name = strings.TrimSpace(nodeText(title))
	}

	// The thumbnail wins over the full-size preview when both are present.
	if img := findByID(main, "previewImageMain"); img != nil {
		item.LogoURL = attr(img, "src")
	}
	if img := findByID(main, "previewImage"); img != nil {
		item.LogoURL = attr(img, "src")
	}

	if required := findByID(main, "RequiredItems"); required != nil {
		item.Requires = collectIDs(required)
	}

	if stat := findByClass(main, "div", "detailsStatRight"); stat != nil {
		raw := strings.TrimSpace(nodeText(stat))
		size, err := registry.ParseSize(raw)
		if err != nil {
			log.Debug("unparseable item size", "id", id, "raw", raw, "error", err)
		} else {
			item.SizeBytes = size
		}
	}

	log.Debug("fetched item details", "id", item.ID, "name", item.Name, "requires", len(item.Requires))
	return item, nil
}

// Exists reports whether the workshop knows the id.
func (c *Client) Exists(ctx context.Context, id string) (bool, error) {
	_, err := c.Details(ctx, id)
	if err == nil {
		return true, nil
	}
	if registry.IsNotFound(err) {
		return false, nil
	}
	return false, err
}

// Search scrapes the browse page for text and returns the unique workshop
// ids of the results, in page order. sort is the browse sort mode; empty
// means most recent.
func (c *Client) Search(ctx context.Context, appID, text, sort string) ([]string, error) {
	if sort == "" {
		sort = "mostrecent"
	}
	params := url.Values{
		"appid":                {appID},
		"searchtext":           {text},
		"childpublishedfileid": {"0"},
		"browsesort":           {sort},
		"section":              {"readytouseitems"},
	}
	pageURL := c.baseURL + "/workshop/browse/?" + params.Encode()

	doc, err := c.fetch(ctx, pageURL)
	if err != nil {
		return nil, fmt.Errorf("search %q: %w", text, err)
	}

	ids := collectIDs(doc)
	log.Debug("workshop search", "text", text, "results", len(ids))
	return ids, nil
}

// collectIDs gathers the unique workshop ids referenced by filedetails
// links under n, preserving first-seen order.
func collectIDs(n *html.Node) []string {
	var ids []string
	seen := make(map[string]bool)

	walk(n, func(node *html.Node) bool {
		if node.Type != html.ElementNode || node.Data != "a" {
			return true
		}
		href := attr(node, "href")
		if !strings.Contains(href, "filedetails/?id") {
			return true
		}
		if found := idPattern.FindAllString(href, 1); len(found) > 0 && !seen[found[0]] {
			seen[found[0]] = true
			ids = append(ids, found[0])
		}
		return true
	})
	return ids
}

// findDetailsLink returns the href of the first filedetails link.
func findDetailsLink(n *html.Node) string {
	var link string
	walk(n, func(node *html.Node) bool {
		if node.Type == html.ElementNode && node.Data == "a" {
			if href := attr(node, "href"); strings.Contains(href, "filedetails/?id") {
				link = href
				return false
			}
		}
		return true
	})
	return link
}

// walk visits n and its descendants depth-first; fn returning false stops.
func walk(n *html.Node, fn func(*html.Node) bool) bool {
	if !fn(n) {
		return false
	}
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		if !walk(child, fn) {
			return false
		}
	}
	return true
}

// findByID returns the first element with the given id attribute.
func findByID(n *html.Node, id string) *html.Node {
	var match *html.Node
	walk(n, func(node *html.Node) bool {
		if node.Type == html.ElementNode && attr(node, "id") == id {
			match = node
			return false
		}
		return true
	})
	return match
}

// findByClass returns the first tag element carrying class among its
// space-separated class list.
func findByClass(n *html.Node, tag, class string) *html.Node {
	var match *html.Node
	walk(n, func(node *html.Node) bool {
		if node.Type != html.ElementNode || node.Data != tag {
			return true
		}
		for _, c := range strings.Fields(attr(node, "class")) {
			if c == class {
				match = node
				return false
			}
		}
		return true
	})
	return match
}

// attr returns the value of the named attribute, or "".
func attr(n *html.Node, name string) string {
	for _, a := range n.Attr {
		if a.Key == name {
			return a.Val
		}
	}
	return ""
}

// nodeText concatenates all text content under n.
func nodeText(n *html.Node) string {
	var sb strings.Builder
	walk(n, func(node *html.Node) bool {
		if node.Type == html.TextNode {
			sb.WriteString(node.Data)
		}
		return true
	})
	return sb.String()
}
