package models

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
)

func TestIsShortenedURL(t *testing.T) {
	tests := []struct {
		url       string
		shortened bool
	}{
		{"https://t.co/AbCd123", true},
		{"http://bit.ly/xyz", true},
		{"https://www.tinyurl.com/xyz", true},
		{"https://example.com/t.co/xyz", false},
		{"https://notbit.ly.example.com/xyz", false},
		{"https://example.com/page", false},
		{"not a url", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := isShortenedURL(tt.url); got != tt.shortened {
			t.Errorf("isShortenedURL(%q) = %v, should be %v",
				tt.url, got, tt.shortened)
		}
	}
}

func TestExtractAnchorHrefs(t *testing.T) {
	src := `Check <a href="https://t.co/one">this</a> and ` +
		`<a class="link" href="https://t.co/two">that</a>, plus ` +
		`<a>no href</a>.`

	hrefs := extractAnchorHrefs(src)
	if len(hrefs) != 2 {
		t.Fatalf("got %d hrefs, should be 2: %v", len(hrefs), hrefs)
	}
	if hrefs[0] != "https://t.co/one" || hrefs[1] != "https://t.co/two" {
		t.Errorf("got %v", hrefs)
	}
}

func TestShortenedURLs(t *testing.T) {
	x := NewLinkExpander()

	tests := []struct {
		name string
		text string
		urls []string
	}{
		{
			"bare url",
			"read this https://t.co/AbCd123 now",
			[]string{"https://t.co/AbCd123"},
		},
		{
			"trailing punctuation stripped",
			"read this https://t.co/AbCd123.",
			[]string{"https://t.co/AbCd123"},
		},
		{
			"anchor href",
			`read <a href="https://bit.ly/xyz">this</a>`,
			[]string{"https://bit.ly/xyz"},
		},
		{
			"anchor href not double counted as bare text",
			`read <a href="https://t.co/AbCd123">https://t.co/AbCd123</a>`,
			[]string{"https://t.co/AbCd123"},
		},
		{
			"non-shortener urls ignored",
			"see https://example.com/page and https://t.co/AbCd123",
			[]string{"https://t.co/AbCd123"},
		},
		{
			"no urls at all",
			"just words here",
			nil,
		},
	}

	for _, tt := range tests {
		urls := x.shortenedURLs(tt.text)
		if len(urls) != len(tt.urls) {
			t.Errorf("%s: got %v, should be %v", tt.name, urls, tt.urls)
			continue
		}
		for i := range urls {
			if urls[i] != tt.urls[i] {
				t.Errorf("%s: got %v, should be %v",
					tt.name, urls, tt.urls)
				break
			}
		}
	}
}

func TestExpandPostLeavesUntouchablePayloadsAlone(t *testing.T) {
	x := NewLinkExpander()
	ctx := context.Background()

	tests := []struct {
		name    string
		payload string
	}{
		{"not json", `not json at all`},
		{"no text field", `{"id":"1"}`},
		{"empty text", `{"id":"1","text":""}`},
		{"no shortener in text",
			`{"id":"1","text":"see https://example.com/page"}`},
	}

	for _, tt := range tests {
		in := json.RawMessage(tt.payload)
		out := x.ExpandPost(ctx, in)
		if !bytes.Equal(out, in) {
			t.Errorf("%s: payload was modified: %s", tt.name, out)
		}
	}
}
