package webpage

import (
	"io"
	"strings"

	"golang.org/x/net/html"
)

// skippedTags are regions that carry boilerplate rather than page content.
var skippedTags = map[string]bool{
	"script":   true,
	"style":    true,
	"noscript": true,
	"nav":      true,
	"header":   true,
	"footer":   true,
}

// htmlToText extracts readable text from an HTML document, dropping
// navigation, header, footer, script and style regions.
func htmlToText(r io.Reader) string {
	z := html.NewTokenizer(r)
	var b strings.Builder
	skipDepth := 0

	for {
		switch z.Next() {
		case html.ErrorToken:
			// io.EOF or malformed markup; return what we have
			return b.String()

		case html.StartTagToken:
			name, _ := z.TagName()
			if skippedTags[string(name)] {
				skipDepth++
			}

		case html.EndTagToken:
			name, _ := z.TagName()
			if skippedTags[string(name)] && skipDepth > 0 {
				skipDepth--
			}

		case html.TextToken:
			if skipDepth > 0 {
				continue
			}
			text := strings.TrimSpace(string(z.Text()))
			if text != "" {
				b.WriteString(text)
				b.WriteByte(' ')
			}
		}
	}
}
