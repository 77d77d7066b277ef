// Package markdown turns post sources into HTML that is safe to embed in a page.
package markdown

import (
	"github.com/microcosm-cc/bluemonday"
	"github.com/russross/blackfriday/v2"
)

const extensions = blackfriday.CommonExtensions |
	blackfriday.FencedCode |
	blackfriday.Tables |
	blackfriday.HardLineBreak

// allowedElements is the complete set of tags that survive sanitization.
var allowedElements = []string{
	"p", "h1", "h2", "h3", "h4", "h5", "h6", "strong", "em", "ul", "ol", "li",
	"code", "pre", "blockquote", "a", "table", "thead", "tbody", "tr", "th", "td",
	"br", "hr",
}

// Renderer converts markdown to sanitized HTML. It is safe for concurrent use.
type Renderer struct {
	policy *bluemonday.Policy
}

// NewRenderer builds a renderer with the allow-list policy
func NewRenderer() *Renderer {
	p := bluemonday.NewPolicy()
	p.AllowElements(allowedElements...)
	p.AllowAttrs("href", "title").OnElements("a")
	p.AllowAttrs("class").OnElements("code", "pre")
	p.AllowURLSchemes("http", "https", "mailto")
	p.AllowRelativeURLs(true)
	p.RequireParseableURLs(true)
	return &Renderer{policy: p}
}

// Render renders src and strips everything outside the allow-list, including
// script and style bodies and event handler attributes.
func (r *Renderer) Render(src string) string {
	html := blackfriday.Run([]byte(src), blackfriday.WithExtensions(extensions))
	return string(r.policy.SanitizeBytes(html))
}
