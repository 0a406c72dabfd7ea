package base

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/raushankrgupta/vape-catalog-scraper/scrapers"
	"github.com/raushankrgupta/vape-catalog-scraper/utils"
)

var whitespace = regexp.MustCompile(`\s+`)

// attributes that carry links and are rewritten to absolute URLs
var linkAttrs = map[string]bool{
	"href":          true,
	"src":           true,
	"data-src":      true,
	"data-original": true,
}

// attributes that help identify content and are kept verbatim
var textAttrs = map[string]bool{
	"alt":        true,
	"title":      true,
	"class":      true,
	"id":         true,
	"itemprop":   true,
	"aria-label": true,
}

// ReduceHTML strips a rendered page down to the markup that matters for extraction:
// no scripts, styles or head, only identifying and link attributes, links made absolute,
// whitespace collapsed, and at most maxBytes of body (0 means unlimited).
func ReduceHTML(rawHTML, pageURL string, maxBytes int) (*scrapers.Snapshot, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return nil, fmt.Errorf("error parsing page html: %w", err)
	}

	title := strings.TrimSpace(doc.Find("title").First().Text())

	doc.Find("head, script, style, noscript, svg, iframe, link, meta, template").Remove()

	doc.Find("*").Each(func(i int, s *goquery.Selection) {
		node := s.Get(0)
		kept := node.Attr[:0]
		for _, a := range node.Attr {
			switch {
			case linkAttrs[a.Key]:
				a.Val = utils.ResolveURL(pageURL, a.Val)
				kept = append(kept, a)
			case textAttrs[a.Key]:
				kept = append(kept, a)
			}
		}
		node.Attr = kept
	})

	body := doc.Find("body")
	var content string
	if body.Length() > 0 {
		content, err = body.Html()
	} else {
		content, err = doc.Html()
	}
	if err != nil {
		return nil, fmt.Errorf("error rendering reduced html: %w", err)
	}

	content = strings.TrimSpace(whitespace.ReplaceAllString(content, " "))
	if maxBytes > 0 && len(content) > maxBytes {
		content = strings.ToValidUTF8(content[:maxBytes], "")
	}

	return &scrapers.Snapshot{URL: pageURL, Title: title, HTML: content}, nil
}
