package mdpress

import (
	"regexp"
	"strings"
)

var (
	reBareBracketURL = regexp.MustCompile(`\[(https?://[^\]]+)\]`)
	reMarkdownLink   = regexp.MustCompile(`\[([^\]]+)\]\(([^)]+)\)`)
	rePlainURL       = regexp.MustCompile(`https?://[^\s<>\[\]"]+`)
)

const externalLinkAttrs = ` target="_blank" rel="noopener noreferrer"`

// RewriteLinks converts external links in markdown content into anchors that
// open in a new tab. Three shapes are recognized: a bare URL in square
// brackets, markdown links whose URL is http(s), and plain URLs in running
// text. Internal links (relative paths, anchors, other schemes) are left for
// the client renderer to interpret as markdown. Each shape gets exactly one
// pass and boundary guards keep an already-emitted anchor from being
// rewritten again; anything malformed is left untouched.
func RewriteLinks(content string) string {
	content = rewriteBareBracketURLs(content)
	content = rewriteMarkdownLinks(content)
	return rewritePlainURLs(content)
}

// rewriteBareBracketURLs handles `[http(s)://...]` with no link text. A match
// directly followed by `(` is the text half of a markdown link, and one
// preceded by `!` is image alt text; both are left for later passes.
func rewriteBareBracketURLs(s string) string {
	matches := reBareBracketURL.FindAllStringSubmatchIndex(s, -1)
	if matches == nil {
		return s
	}
	var b strings.Builder
	last := 0
	for _, m := range matches {
		start, end := m[0], m[1]
		if end < len(s) && s[end] == '(' {
			continue
		}
		if start > 0 && s[start-1] == '!' {
			continue
		}
		url := s[m[2]:m[3]]
		b.WriteString(s[last:start])
		b.WriteString(anchor(url, url))
		last = end
	}
	b.WriteString(s[last:])
	return b.String()
}

// rewriteMarkdownLinks handles `[text](url)` for http(s) URLs, preserving the
// link text verbatim. Image syntax (a leading `!`) and non-http URLs pass
// through unchanged.
func rewriteMarkdownLinks(s string) string {
	matches := reMarkdownLink.FindAllStringSubmatchIndex(s, -1)
	if matches == nil {
		return s
	}
	var b strings.Builder
	last := 0
	for _, m := range matches {
		start, end := m[0], m[1]
		if start > 0 && s[start-1] == '!' {
			continue
		}
		text, url := s[m[2]:m[3]], s[m[4]:m[5]]
		if !isExternalURL(url) {
			continue
		}
		b.WriteString(s[last:start])
		b.WriteString(anchor(url, text))
		last = end
	}
	b.WriteString(s[last:])
	return b.String()
}

// rewritePlainURLs autolinks bare URLs in running text. A match whose
// preceding byte marks it as part of an emitted anchor, an attribute value,
// bracket syntax or a longer token is skipped.
func rewritePlainURLs(s string) string {
	matches := rePlainURL.FindAllStringIndex(s, -1)
	if matches == nil {
		return s
	}
	var b strings.Builder
	last := 0
	for _, m := range matches {
		start, end := m[0], m[1]
		if start > 0 && insideLinkBoundary(s[start-1]) {
			continue
		}
		url := s[start:end]
		b.WriteString(s[last:start])
		b.WriteString(anchor(url, url))
		last = end
	}
	b.WriteString(s[last:])
	return b.String()
}

func anchor(url, text string) string {
	return `<a href="` + url + `"` + externalLinkAttrs + `>` + text + `</a>`
}

func isExternalURL(url string) bool {
	return strings.HasPrefix(url, "http://") || strings.HasPrefix(url, "https://")
}

func insideLinkBoundary(c byte) bool {
	switch c {
	case '[', '(', '<', '>', '"', '=':
		return true
	}
	return c == '_' || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') || ('0' <= c && c <= '9')
}
