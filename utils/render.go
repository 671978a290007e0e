package utils

import (
	"bytes"
	"html/template"

	"github.com/PuerkitoBio/goquery"
	"github.com/russross/blackfriday/v2"
)

// RenderMarkdown renders an untrusted markdown message into styled HTML for
// the feedback dashboard. Script and style nodes that survive the markdown
// pass are stripped, then Bootstrap classes are added to the common elements.
func RenderMarkdown(md string) (template.HTML, error) {
	htmlContent := blackfriday.Run([]byte(md))

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(htmlContent))
	if err != nil {
		return "", err
	}

	doc.Find("script, style, iframe").Remove()

	doc.Find("p").Each(func(i int, s *goquery.Selection) {
		s.AddClass("mb-2")
	})
	doc.Find("pre").Each(func(i int, s *goquery.Selection) {
		s.AddClass("border rounded p-2")
	})
	doc.Find("code").Each(func(i int, s *goquery.Selection) {
		s.AddClass("rounded")
	})
	doc.Find("a").Each(func(i int, s *goquery.Selection) {
		s.AddClass("link-opacity-100")
	})
	doc.Find("ul, ol").Each(func(i int, s *goquery.Selection) {
		s.AddClass("mb-2")
	})

	rendered, err := doc.Find("body").Html()
	if err != nil {
		return "", err
	}
	return template.HTML(rendered), nil
}
