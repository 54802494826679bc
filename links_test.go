package mdpress

import (
	"strings"
	"testing"
)

func TestRewriteMarkdownLink(t *testing.T) {
	got := RewriteLinks("See [Google](https://www.google.com) for more.")
	want := `See <a href="https://www.google.com" target="_blank" rel="noopener noreferrer">Google</a> for more.`
	if got != want {
		t.Errorf("RewriteLinks = %q, want %q", got, want)
	}
}

func TestRewriteBareBracketURL(t *testing.T) {
	got := RewriteLinks("Source: [https://example.com/]")
	want := `Source: <a href="https://example.com/" target="_blank" rel="noopener noreferrer">https://example.com/</a>`
	if got != want {
		t.Errorf("RewriteLinks = %q, want %q", got, want)
	}
}

func TestRewritePlainURL(t *testing.T) {
	got := RewriteLinks("Read https://example.com/post today.")
	want := `Read <a href="https://example.com/post" target="_blank" rel="noopener noreferrer">https://example.com/post</a> today.`
	if got != want {
		t.Errorf("RewriteLinks = %q, want %q", got, want)
	}
}

func TestRewriteLinksLeavesInternalAlone(t *testing.T) {
	tests := []string{
		"[Home](./home.md)",
		"[Section](#anchor)",
		"[Mail](mailto:a@b.c)",
		"plain text with [brackets] and (parens)",
	}
	for _, input := range tests {
		if got := RewriteLinks(input); got != input {
			t.Errorf("RewriteLinks(%q) = %q, want unchanged", input, got)
		}
	}
}

func TestRewriteLinksSinglePass(t *testing.T) {
	got := RewriteLinks("[https://example.com/]")
	if strings.Count(got, "<a ") != 1 {
		t.Errorf("URL was converted more than once: %q", got)
	}
	// A second application over the output must not nest anchors either.
	again := RewriteLinks(got)
	if strings.Count(again, "<a ") != 1 {
		t.Errorf("re-running the rewriter nested anchors: %q", again)
	}
}

func TestRewriteLinksBracketURLWithLinkText(t *testing.T) {
	// [url1](url2) is a markdown link whose text happens to be a URL.
	got := RewriteLinks("[https://a.example/](https://b.example/)")
	want := `<a href="https://b.example/" target="_blank" rel="noopener noreferrer">https://a.example/</a>`
	if got != want {
		t.Errorf("RewriteLinks = %q, want %q", got, want)
	}
}

func TestRewriteLinksSkipsImages(t *testing.T) {
	input := "![diagram](https://cdn.example.com/d.png)"
	if got := RewriteLinks(input); got != input {
		t.Errorf("image syntax was rewritten: %q", got)
	}
}

func TestRewriteLinksMalformed(t *testing.T) {
	tests := []string{
		"[dangling](https://example.com",
		"[](https://example.com)",
		"[text]()",
	}
	for _, input := range tests {
		if got := RewriteLinks(input); got != input {
			t.Errorf("RewriteLinks(%q) = %q, want unchanged", input, got)
		}
	}
}

func TestRewriteLinksMixedDocument(t *testing.T) {
	input := "Intro [Docs](https://docs.example.com) and [Home](./home.md).\n\n[https://ref.example.com/]"
	got := RewriteLinks(input)
	if !strings.Contains(got, `<a href="https://docs.example.com"`) {
		t.Errorf("external link not converted: %q", got)
	}
	if !strings.Contains(got, "[Home](./home.md)") {
		t.Errorf("internal link modified: %q", got)
	}
	if !strings.Contains(got, `>https://ref.example.com/</a>`) {
		t.Errorf("bare bracketed URL not converted: %q", got)
	}
}
