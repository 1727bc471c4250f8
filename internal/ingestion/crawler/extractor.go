package crawler

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"

	"studytour/internal/microservices/http-api/models"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

const (
	maxDescriptionLen = 500
	minMetaDescLen    = 50
	minParagraphLen   = 100
)

// ErrIrrelevant is returned for pages that do not look like a program page.
var ErrIrrelevant = errors.New("page is not about study tours or camps")

// CampsiteData is what one page yields.
type CampsiteData struct {
	Name         string
	URL          string
	Description  *string
	Country      *string
	Category     models.Category
	ThumbnailURL *string

	MetaTitle       string
	MetaDescription string
	Language        string
}

// Campsite converts the extracted data into a model ready to insert.
func (d *CampsiteData) Campsite() *models.Campsite {
	return &models.Campsite{
		Name:         d.Name,
		URL:          d.URL,
		Country:      d.Country,
		Category:     d.Category,
		Description:  d.Description,
		ThumbnailURL: d.ThumbnailURL,
		Source:       models.SourceCrawler,
	}
}

var (
	titleSuffix = regexp.MustCompile(`\s*[|\-–]\s*.*$`)
	whitespace  = regexp.MustCompile(`\s+`)
	controls    = regexp.MustCompile(`[\x00-\x1F\x7F]`)
)

// Checked in order; the first match wins.
var countryPatterns = []struct {
	re      *regexp.Regexp
	country string
}{
	{regexp.MustCompile(`\b(united kingdom|uk|britain|england)\b`), "United Kingdom"},
	{regexp.MustCompile(`\b(united states|usa|america)\b`), "United States"},
	{regexp.MustCompile(`\bcanada\b`), "Canada"},
	{regexp.MustCompile(`\baustralia\b`), "Australia"},
	{regexp.MustCompile(`\bnew zealand\b`), "New Zealand"},
	{regexp.MustCompile(`\bfrance\b`), "France"},
	{regexp.MustCompile(`\bgermany\b`), "Germany"},
	{regexp.MustCompile(`\bspain\b`), "Spain"},
	{regexp.MustCompile(`\bitaly\b`), "Italy"},
	{regexp.MustCompile(`\bjapan\b`), "Japan"},
	{regexp.MustCompile(`\bchina\b`), "China"},
	{regexp.MustCompile(`\bsouth korea\b`), "South Korea"},
	{regexp.MustCompile(`\bireland\b`), "Ireland"},
	{regexp.MustCompile(`\bnetherlands\b`), "Netherlands"},
	{regexp.MustCompile(`\bswitzerland\b`), "Switzerland"},
	{regexp.MustCompile(`\baustria\b`), "Austria"},
	{regexp.MustCompile(`\bbelgium\b`), "Belgium"},
	{regexp.MustCompile(`\bczech republic\b`), "Czech Republic"},
	{regexp.MustCompile(`\bdenmark\b`), "Denmark"},
	{regexp.MustCompile(`\bfinland\b`), "Finland"},
	{regexp.MustCompile(`\bnorway\b`), "Norway"},
	{regexp.MustCompile(`\bsweden\b`), "Sweden"},
	{regexp.MustCompile(`\bpoland\b`), "Poland"},
	{regexp.MustCompile(`\bportugal\b`), "Portugal"},
}

var categoryKeywords = []struct {
	category models.Category
	keywords []string
}{
	{models.CategorySummer, []string{"summer camp", "summer program", "summer school"}},
	{models.CategoryWinter, []string{"winter camp", "winter program", "winter school"}},
	{models.CategoryOnline, []string{"online", "virtual", "remote", "distance learning"}},
}

// Extractor turns an HTML page into CampsiteData.
type Extractor struct {
	keywords []string
}

func NewExtractor(keywords []string) *Extractor {
	if len(keywords) == 0 {
		keywords = defaultKeywords
	}
	lower := make([]string, 0, len(keywords))
	for _, k := range keywords {
		lower = append(lower, strings.ToLower(k))
	}
	return &Extractor{keywords: lower}
}

// Extract parses body fetched from pageURL. It returns ErrIrrelevant when
// no relevance keyword appears in the page text or its meta tags.
func (e *Extractor) Extract(body, pageURL string) (*CampsiteData, error) {
	doc, err := html.Parse(strings.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	p := scan(doc)

	if !e.relevant(p) {
		return nil, ErrIrrelevant
	}

	data := &CampsiteData{
		Name:            e.name(p, pageURL),
		URL:             pageURL,
		Description:     e.description(p),
		Country:         country(p.text),
		Category:        category(p.text + " " + strings.ToLower(p.title)),
		ThumbnailURL:    thumbnail(p, pageURL),
		MetaTitle:       cleanText(p.title),
		MetaDescription: cleanText(p.meta["description"]),
		Language:        p.lang,
	}
	if data.Name == "" {
		return nil, fmt.Errorf("no name found on %s", pageURL)
	}
	return data, nil
}

func (e *Extractor) containsKeyword(text string) bool {
	for _, k := range e.keywords {
		if strings.Contains(text, k) {
			return true
		}
	}
	return false
}

func (e *Extractor) relevant(p *page) bool {
	if e.containsKeyword(p.text) {
		return true
	}
	meta := strings.ToLower(p.meta["keywords"] + p.meta["description"])
	return e.containsKeyword(meta)
}

// name tries h1, the title without its site suffix, og:title, the title
// meta tag and finally the capitalised domain.
func (e *Extractor) name(p *page, pageURL string) string {
	if n := cleanText(p.h1); n != "" {
		return n
	}
	if t := strings.TrimSpace(p.title); t != "" {
		if n := cleanText(titleSuffix.ReplaceAllString(t, "")); n != "" {
			return n
		}
	}
	if n := cleanText(p.meta["og:title"]); n != "" {
		return n
	}
	if n := cleanText(p.meta["title"]); n != "" {
		return n
	}
	u, err := url.Parse(pageURL)
	if err != nil || u.Hostname() == "" {
		return ""
	}
	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	label, _, _ := strings.Cut(host, ".")
	if label == "" {
		return ""
	}
	return strings.ToUpper(label[:1]) + label[1:]
}

func (e *Extractor) description(p *page) *string {
	for _, key := range []string{"description", "og:description"} {
		if d := cleanText(p.meta[key]); utf8.RuneCountInString(d) > minMetaDescLen {
			d = truncate(d, maxDescriptionLen)
			return &d
		}
	}
	for _, para := range p.paragraphs {
		text := cleanText(para)
		if utf8.RuneCountInString(text) > minParagraphLen && e.containsKeyword(strings.ToLower(text)) {
			text = truncate(text, maxDescriptionLen)
			return &text
		}
	}
	return nil
}

func country(text string) *string {
	for _, cp := range countryPatterns {
		if cp.re.MatchString(text) {
			c := cp.country
			return &c
		}
	}
	return nil
}

func category(text string) models.Category {
	for _, ck := range categoryKeywords {
		for _, k := range ck.keywords {
			if strings.Contains(text, k) {
				return ck.category
			}
		}
	}
	return models.CategoryStudy
}

// thumbnail prefers og:image, then twitter:image, then a hero or banner
// image, then the first image that is not an icon, logo or tracker.
func thumbnail(p *page, base string) *string {
	candidates := []string{p.meta["og:image"], p.meta["twitter:image"], p.heroImage}
	for _, c := range candidates {
		if c != "" {
			return resolve(c, base)
		}
	}
	for _, src := range p.images {
		lower := strings.ToLower(src)
		if strings.Contains(lower, "icon") || strings.Contains(lower, "logo") ||
			strings.Contains(lower, "pixel") || strings.Contains(lower, "track") {
			continue
		}
		return resolve(src, base)
	}
	return nil
}

func resolve(ref, base string) *string {
	b, err := url.Parse(base)
	if err != nil {
		return &ref
	}
	r, err := url.Parse(strings.TrimSpace(ref))
	if err != nil {
		return &ref
	}
	abs := b.ResolveReference(r).String()
	return &abs
}

func cleanText(s string) string {
	s = whitespace.ReplaceAllString(strings.TrimSpace(s), " ")
	return controls.ReplaceAllString(s, "")
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

// page holds everything the extractor reads, collected in one walk.
type page struct {
	text       string // lowercased visible text
	title      string
	h1         string
	meta       map[string]string // keyed by lowercased name, property or http-equiv
	paragraphs []string
	images     []string
	heroImage  string
	lang       string
}

func scan(doc *html.Node) *page {
	p := &page{meta: make(map[string]string)}
	var text strings.Builder
	var walk func(n *html.Node, inHero bool)
	walk = func(n *html.Node, inHero bool) {
		if n.Type == html.TextNode {
			text.WriteString(n.Data)
			text.WriteByte(' ')
			return
		}
		if n.Type == html.ElementNode {
			switch n.DataAtom {
			case atom.Script, atom.Style, atom.Noscript:
				return
			case atom.Html:
				p.lang = attr(n, "lang")
			case atom.Title:
				if p.title == "" {
					p.title = nodeText(n)
				}
				return
			case atom.H1:
				if p.h1 == "" {
					p.h1 = nodeText(n)
				}
			case atom.P:
				p.paragraphs = append(p.paragraphs, nodeText(n))
			case atom.Meta:
				content := attr(n, "content")
				for _, key := range []string{"name", "property", "http-equiv"} {
					if k := strings.ToLower(attr(n, key)); k != "" {
						if _, seen := p.meta[k]; !seen {
							p.meta[k] = content
						}
					}
				}
				if k := strings.ToLower(attr(n, "http-equiv")); k == "content-language" && p.lang == "" {
					p.lang = content
				}
			case atom.Img:
				src := attr(n, "src")
				if src == "" {
					src = attr(n, "data-src")
				}
				if src != "" {
					p.images = append(p.images, src)
					if p.heroImage == "" && (inHero || heroClass(attr(n, "class"))) {
						p.heroImage = src
					}
				}
			}
			if heroClass(attr(n, "class")) {
				inHero = true
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c, inHero)
		}
	}
	walk(doc, false)
	p.text = strings.ToLower(text.String())
	return p
}

func heroClass(class string) bool {
	class = strings.ToLower(class)
	return strings.Contains(class, "hero") || strings.Contains(class, "banner") || strings.Contains(class, "header")
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func nodeText(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
			b.WriteByte(' ')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}
