package crawler

import (
	"context"
	"net/url"
	"sort"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var (
	skipExtensions  = []string{".pdf", ".doc", ".docx", ".jpg", ".jpeg", ".png", ".gif", ".css", ".js"}
	skipPatterns    = []string{"admin", "login", "signup", "cart", "checkout", "account"}
	relevantInPaths = []string{"program", "course", "study", "camp", "abroad", "international"}
)

// IsRelevantURL reports whether a discovered link is worth crawling.
func IsRelevantURL(raw string) bool {
	lower := strings.ToLower(raw)
	for _, ext := range skipExtensions {
		if strings.HasSuffix(lower, ext) {
			return false
		}
	}
	for _, p := range skipPatterns {
		if strings.Contains(lower, p) {
			return false
		}
	}
	for _, k := range relevantInPaths {
		if strings.Contains(lower, k) {
			return true
		}
	}
	return false
}

// SameDomain compares hosts ignoring case and a leading "www.".
func SameDomain(a, b string) bool {
	ua, err := url.Parse(a)
	if err != nil {
		return false
	}
	ub, err := url.Parse(b)
	if err != nil {
		return false
	}
	host := func(u *url.URL) string {
		return strings.TrimPrefix(strings.ToLower(u.Host), "www.")
	}
	return host(ua) != "" && host(ua) == host(ub)
}

// Discover follows relevant same-domain links from seed up to maxDepth
// levels deep and returns every relevant URL it saw, sorted. Pages that
// fail to load are logged and skipped.
func (s *Service) Discover(ctx context.Context, seed string, maxDepth int) []string {
	if maxDepth < 0 {
		maxDepth = s.cfg.MaxDepth
	}
	found := make(map[string]bool)
	visited := make(map[string]bool)

	var visit func(pageURL string, depth int)
	visit = func(pageURL string, depth int) {
		if depth > maxDepth || visited[pageURL] || ctx.Err() != nil {
			return
		}
		visited[pageURL] = true

		body, _, err := s.client.Fetch(ctx, pageURL)
		if err != nil {
			s.logger.Warn("link discovery failed", zap.String("url", pageURL), zap.Error(err))
			return
		}
		for _, link := range extractLinks(body, pageURL) {
			if !IsRelevantURL(link) || !SameDomain(link, seed) {
				continue
			}
			found[link] = true
			if depth < maxDepth {
				visit(link, depth+1)
			}
		}
	}
	visit(seed, 0)

	out := make([]string, 0, len(found))
	for u := range found {
		out = append(out, u)
	}
	sort.Strings(out)
	return out
}

// extractLinks returns every <a href> in body resolved against base,
// without fragments.
func extractLinks(body, base string) []string {
	doc, err := html.Parse(strings.NewReader(body))
	if err != nil {
		return nil
	}
	b, err := url.Parse(base)
	if err != nil {
		return nil
	}

	var links []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.DataAtom == atom.A {
			if href := strings.TrimSpace(attr(n, "href")); href != "" {
				if ref, err := url.Parse(href); err == nil {
					abs := b.ResolveReference(ref)
					abs.Fragment = ""
					if abs.Scheme == "http" || abs.Scheme == "https" {
						links = append(links, abs.String())
					}
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return links
}
