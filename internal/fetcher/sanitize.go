package fetcher

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/samber/lo"
)

// minMainContentLength is the minimum text length for a main-content
// candidate; shorter blocks are headers, teasers, or empty shells.
const minMainContentLength = 100

// noiseSelectors name the navigation, ad, and scripting elements stripped
// before main-content probing.
var noiseSelectors = []string{
	"nav", "header", "footer",
	"script", "style", "iframe", "noscript",
	".advertisement", ".ad", ".banner",
	`[class*="sidebar"]`, `[class*="menu"]`,
}

// mainContentSelectors are probed in rank order for the generic strategy
var mainContentSelectors = []string{
	"main",
	"article",
	`[role="main"]`,
	".content",
	".post-content",
	".entry-content",
	"#content",
	".main-content",
}

// sanitize strips noise elements from the document and returns the most
// plausible main-content text, falling back to the whole body.
func sanitize(doc *goquery.Document) string {
	for _, selector := range noiseSelectors {
		doc.Find(selector).Remove()
	}

	for _, selector := range mainContentSelectors {
		text := collapseWhitespace(doc.Find(selector).First().Text())
		if len(text) > minMainContentLength {
			return text
		}
	}

	return collapseWhitespace(doc.Find("body").Text())
}

// collapseWhitespace trims lines and drops blank ones; rendered DOM text is
// full of indentation and empty layout lines.
func collapseWhitespace(s string) string {
	lines := lo.FilterMap(strings.Split(s, "\n"), func(line string, _ int) (string, bool) {
		line = strings.Join(strings.Fields(line), " ")

		return line, line != ""
	})

	return strings.Join(lines, "\n")
}
