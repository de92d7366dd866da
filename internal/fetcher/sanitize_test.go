package fetcher

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeStripsNoise(t *testing.T) {
	t.Parallel()

	body := strings.Repeat("행사 안내 본문 텍스트 ", 12)
	html := `<html><body>
		<nav>navigation links</nav>
		<div class="advertisement">buy things</div>
		<script>console.log("hi")</script>
		<main>` + body + `</main>
		<footer>copyright</footer>
	</body></html>`

	text := sanitize(docFromHTML(t, html))

	assert.Contains(t, text, "행사 안내 본문")
	assert.NotContains(t, text, "navigation links")
	assert.NotContains(t, text, "buy things")
	assert.NotContains(t, text, "console.log")
	assert.NotContains(t, text, "copyright")
}

func TestSanitizeProbesSelectorsInOrder(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("article text ", 20)
	html := `<html><body>
		<article>` + long + `</article>
		<div class="content">short</div>
	</body></html>`

	text := sanitize(docFromHTML(t, html))

	assert.Contains(t, text, "article text")
	assert.NotContains(t, text, "short")
}

func TestSanitizeSkipsShortCandidates(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("real body content ", 10)
	html := `<html><body>
		<main>too short</main>
		<div class="post-content">` + long + `</div>
	</body></html>`

	text := sanitize(docFromHTML(t, html))

	assert.Contains(t, text, "real body content")
}

func TestSanitizeBodyFallback(t *testing.T) {
	t.Parallel()

	html := `<html><body><span>plain page without any main-content containers</span></body></html>`

	text := sanitize(docFromHTML(t, html))

	assert.Contains(t, text, "plain page without")
}

func TestCollapseWhitespace(t *testing.T) {
	t.Parallel()

	in := "  first   line \n\n\n\t second\tline \n   \n third"
	out := collapseWhitespace(in)

	assert.Equal(t, "first line\nsecond line\nthird", out)
}
