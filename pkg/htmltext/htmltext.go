// Package htmltext extracts readable text from rich-text article bodies.
package htmltext

import (
	"math"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
)

var whitespace = regexp.MustCompile(`\s+`)

const blockSelector = "p, h1, h2, h3, h4, h5, h6, li, blockquote, figcaption, pre, td"

// Text returns the visible text of an HTML fragment, one block per line.
// Plain text input is returned with whitespace normalized.
func Text(html string) string {
	if !strings.Contains(html, "<") {
		return normalize(html)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return normalize(html)
	}
	doc.Find("script, style, iframe, noscript").Remove()

	var parts []string
	doc.Find(blockSelector).Each(func(_ int, s *goquery.Selection) {
		if s.Find(blockSelector).Length() > 0 {
			return
		}
		if t := normalize(s.Text()); t != "" {
			parts = append(parts, t)
		}
	})
	if len(parts) == 0 {
		return normalize(doc.Text())
	}
	return strings.Join(parts, "\n")
}

// Excerpt returns at most maxRunes runes of text, cut at a word boundary with an ellipsis
func Excerpt(html string, maxRunes int) string {
	text := strings.ReplaceAll(Text(html), "\n", " ")
	if utf8.RuneCountInString(text) <= maxRunes {
		return text
	}
	runes := []rune(text)[:maxRunes]
	cut := string(runes)
	if i := strings.LastIndex(cut, " "); i > len(cut)/2 {
		cut = cut[:i]
	}
	return strings.TrimSpace(cut) + "…"
}

// Words splits the text content into words
func Words(html string) []string {
	return strings.Fields(Text(html))
}

// ReadingTime estimates minutes to read at wordsPerMinute, minimum one minute
func ReadingTime(html string, wordsPerMinute int) int {
	if wordsPerMinute <= 0 {
		wordsPerMinute = 200
	}
	n := len(Words(html))
	if n == 0 {
		return 0
	}
	return int(math.Ceil(float64(n) / float64(wordsPerMinute)))
}

func normalize(s string) string {
	return strings.TrimSpace(whitespace.ReplaceAllString(s, " "))
}
