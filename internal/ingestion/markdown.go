package ingestion

import (
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/PuerkitoBio/goquery"
)

// ContentHTML returns the HTML of the first matching content selector,
// with noise elements removed. Falls back to the body element.
func ContentHTML(html string, contentSelectors []string, noiseSelectors ...string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", err
	}

	doc.Find("nav, footer, header, script, style, noscript, .ad, .ads, .sidebar, .cookie-banner, .popup").Remove()
	if len(noiseSelectors) > 0 {
		if sel := strings.Join(noiseSelectors, ", "); sel != "" {
			doc.Find(sel).Remove()
		}
	}

	var content *goquery.Selection
	for _, selector := range contentSelectors {
		if selection := doc.Find(selector); selection.Length() > 0 {
			content = selection.First()
			break
		}
	}
	if content == nil {
		content = doc.Find("body")
	}

	return goquery.OuterHtml(content)
}

// ToMarkdown converts posting HTML to markdown. Markdown keeps headings and
// bullet structure, which extraction prompts handle much better than a wall
// of flattened text. Returns empty string if conversion fails.
func ToMarkdown(contentHTML string) string {
	md, err := htmltomarkdown.ConvertString(contentHTML)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(md)
}
