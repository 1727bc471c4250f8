package crawler

import (
	"strings"
	"testing"

	"studytour/internal/microservices/http-api/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const samplePage = `<!DOCTYPE html>
<html lang="en">
<head>
    <title>Amazing Summer Camp - Best Educational Experience</title>
    <meta name="description" content="Join our amazing summer camp for students aged 12-18. Language learning, cultural immersion, and unforgettable experiences in the UK.">
    <meta property="og:title" content="Amazing Summer Camp">
    <meta property="og:description" content="Educational summer program in the UK">
    <meta property="og:image" content="https://example.com/hero-image.jpg">
</head>
<body>
    <h1>Amazing Summer Camp</h1>
    <p>Welcome to our incredible summer program designed for international students.
       Our study abroad experience combines language learning with cultural immersion
       in beautiful United Kingdom locations.</p>
    <img src="/hero-banner.jpg" alt="Students learning" class="hero-image">
</body>
</html>`

const storePage = `<!DOCTYPE html>
<html>
<head>
    <title>Online Shopping Store - Best Deals</title>
    <meta name="description" content="Shop online for the best deals on electronics, clothing, and more.">
</head>
<body>
    <h1>Welcome to Our Store</h1>
    <p>Find great deals on all your favorite products. Free shipping on orders over $50.</p>
</body>
</html>`

func TestExtractRelevantPage(t *testing.T) {
	e := NewExtractor(nil)

	data, err := e.Extract(samplePage, "https://example.com")
	require.NoError(t, err)

	assert.Equal(t, "Amazing Summer Camp", data.Name)
	assert.Equal(t, "https://example.com", data.URL)
	require.NotNil(t, data.Description)
	assert.Contains(t, strings.ToLower(*data.Description), "summer camp")
	require.NotNil(t, data.Country)
	assert.Equal(t, "United Kingdom", *data.Country)
	assert.Equal(t, models.CategorySummer, data.Category)
	require.NotNil(t, data.ThumbnailURL)
	assert.Equal(t, "https://example.com/hero-image.jpg", *data.ThumbnailURL)
	assert.Equal(t, "en", data.Language)

	c := data.Campsite()
	assert.Equal(t, models.SourceCrawler, c.Source)
	assert.Equal(t, "Amazing Summer Camp", c.Name)
}

func TestExtractIrrelevantPage(t *testing.T) {
	_, err := NewExtractor(nil).Extract(storePage, "https://shop.example.com")
	assert.ErrorIs(t, err, ErrIrrelevant)
}

func TestRelevanceFromMetaOnly(t *testing.T) {
	page := `<html><head><meta name="keywords" content="Study Tour, travel"></head><body><p>Hello</p></body></html>`

	data, err := NewExtractor(nil).Extract(page, "https://www.tours.example.org/")
	require.NoError(t, err)
	assert.Equal(t, "Tours", data.Name)
	assert.Equal(t, models.CategoryStudy, data.Category)
	assert.Nil(t, data.Country)
	assert.Nil(t, data.Description)
}

func TestNameFallbacks(t *testing.T) {
	tests := []struct {
		name string
		html string
		want string
	}{
		{
			name: "title without site suffix",
			html: `<html><head><title>Kyoto Study Tour | Go Abroad</title></head><body>study tour</body></html>`,
			want: "Kyoto Study Tour",
		},
		{
			name: "og title",
			html: `<html><head><meta property="og:title" content="  Alpine   Winter Camp "></head><body>winter camp</body></html>`,
			want: "Alpine Winter Camp",
		},
		{
			name: "domain",
			html: `<html><body>student exchange</body></html>`,
			want: "Camps",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := NewExtractor(nil).Extract(tt.html, "https://www.camps.example.com/p/1")
			require.NoError(t, err)
			assert.Equal(t, tt.want, data.Name)
		})
	}
}

func TestDescriptionFromParagraph(t *testing.T) {
	para := "This immersion program brings students together for four weeks of classes, excursions and homestays with local families in Kyoto, Japan."
	page := `<html><head><meta name="description" content="Too short"></head><body>
		<p>Short intro.</p>
		<p>` + para + `</p></body></html>`

	data, err := NewExtractor(nil).Extract(page, "https://example.com")
	require.NoError(t, err)
	require.NotNil(t, data.Description)
	assert.Equal(t, para, *data.Description)
	require.NotNil(t, data.Country)
	assert.Equal(t, "Japan", *data.Country)
}

func TestDescriptionIsCapped(t *testing.T) {
	long := "study abroad " + strings.Repeat("x", 800)
	page := `<html><head><meta name="description" content="` + long + `"></head><body></body></html>`

	data, err := NewExtractor(nil).Extract(page, "https://example.com")
	require.NoError(t, err)
	require.NotNil(t, data.Description)
	assert.Len(t, *data.Description, maxDescriptionLen)
}

func TestCategoryDetection(t *testing.T) {
	tests := map[string]models.Category{
		"our winter school in the alps, a study tour": models.CategoryWinter,
		"a fully virtual study tour":                  models.CategoryOnline,
		"an academic program and study tour":          models.CategoryStudy,
		"summer school then winter camp study tour":   models.CategorySummer,
	}
	for text, want := range tests {
		page := `<html><body><p>` + text + `</p></body></html>`
		data, err := NewExtractor(nil).Extract(page, "https://example.com")
		require.NoError(t, err, text)
		assert.Equal(t, want, data.Category, text)
	}
}

func TestThumbnailFallbacks(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"hero class", `<img src="/logo.png"><img class="Hero-Img" src="img/main.jpg">`, "https://example.com/camp/img/main.jpg"},
		{"inside banner", `<div class="banner"><img data-src="/b.jpg"></div>`, "https://example.com/b.jpg"},
		{"first non icon", `<img src="/icons/a.png"><img src="/tracking-pixel.gif"><img src="/photo.jpg">`, "https://example.com/photo.jpg"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page := `<html><body><h1>Camp</h1><p>summer camp</p>` + tt.body + `</body></html>`
			data, err := NewExtractor(nil).Extract(page, "https://example.com/camp/")
			require.NoError(t, err)
			require.NotNil(t, data.ThumbnailURL)
			assert.Equal(t, tt.want, *data.ThumbnailURL)
		})
	}
}

func TestScriptTextIsIgnored(t *testing.T) {
	page := `<html><body><script>var s = "study abroad";</script><p>Nothing here</p></body></html>`

	_, err := NewExtractor(nil).Extract(page, "https://example.com")
	assert.ErrorIs(t, err, ErrIrrelevant)
}
