package models

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/cloudflare/ahocorasick"
	"github.com/golang/glog"
	"github.com/mccutchen/urlresolver"
	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"
)

// shortenerDomains is the list of link-shortener hosts we will try to
// expand within post text. This is string matching for the quick
// pre-check and host comparison for the real decision; if you add a
// shortener here it is covered by both.
var shortenerDomains = []string{
	"bit.ly",
	"buff.ly",
	"dlvr.it",
	"goo.gl",
	"ow.ly",
	"t.co",
	"tinyurl.com",
}

// At most this many links are resolved per post; anything beyond is
// left shortened rather than holding the fetch open.
const maxExpansionsPerPost = 8

// LinkExpander rewrites nothing: it annotates a fetched post payload
// with a mapping of shortened URL to resolved URL so the viewer can show
// real destinations. Every failure leaves the payload as it arrived.
type LinkExpander struct {
	resolver *urlresolver.Resolver
	matcher  *ahocorasick.Matcher
	strip    *bluemonday.Policy
}

// NewLinkExpander creates the expander with its own resolution timeout
func NewLinkExpander() *LinkExpander {
	return &LinkExpander{
		resolver: urlresolver.New(http.DefaultTransport, 5*time.Second),
		matcher:  ahocorasick.NewStringMatcher(shortenerDomains),
		strip:    bluemonday.StrictPolicy(),
	}
}

// ExpandPost resolves the shortened links found in the post's text and
// attaches the results under a resolvedUrls key. Best effort throughout:
// a payload without text, with no shortened links, or whose resolution
// fails comes back unchanged.
func (x *LinkExpander) ExpandPost(
	ctx context.Context,
	payload json.RawMessage,
) json.RawMessage {
	var post map[string]interface{}
	if err := json.Unmarshal(payload, &post); err != nil {
		return payload
	}

	text, ok := post["text"].(string)
	if !ok || text == "" {
		return payload
	}

	// A super-quick pre-check for whether any shortener domain appears
	// anywhere in the text before we do real URL work.
	if len(x.matcher.Match([]byte(text))) == 0 {
		return payload
	}

	resolved := map[string]string{}
	for _, shortURL := range x.shortenedURLs(text) {
		if len(resolved) >= maxExpansionsPerPost {
			break
		}

		result, err := x.resolver.Resolve(ctx, shortURL)
		if err != nil {
			glog.Warningf("resolver.Resolve(%s) %+v", shortURL, err)
			continue
		}
		if result.ResolvedURL == "" || result.ResolvedURL == shortURL {
			continue
		}

		resolved[shortURL] = result.ResolvedURL
	}

	if len(resolved) == 0 {
		return payload
	}

	post["resolvedUrls"] = resolved

	annotated, err := json.Marshal(post)
	if err != nil {
		glog.Errorf("json.Marshal(post) %+v", err)
		return payload
	}

	return annotated
}

// shortenedURLs returns the de-duplicated shortener links within the
// text, whether they appear as anchor hrefs or as bare URLs.
func (x *LinkExpander) shortenedURLs(text string) []string {
	var candidates []string

	if strings.Contains(text, `<a `) {
		candidates = append(candidates, extractAnchorHrefs(text)...)
	}

	// Bare URLs are scanned on the tag-stripped text so that an href
	// is not picked up a second time from inside its anchor.
	plain := x.strip.Sanitize(text)
	candidates = append(candidates, urlPattern.FindAllString(plain, -1)...)

	var (
		urls []string
		seen = map[string]bool{}
	)
	for _, candidate := range candidates {
		candidate = strings.TrimRight(candidate, `.,;:!?)`)
		if seen[candidate] || !isShortenedURL(candidate) {
			continue
		}
		seen[candidate] = true
		urls = append(urls, candidate)
	}

	return urls
}

var urlPattern = regexp.MustCompile(`https?://[^\s"'<>]+`)

// isShortenedURL returns true when the URL's host is one of the known
// shortener domains
func isShortenedURL(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}

	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	for _, domain := range shortenerDomains {
		if host == domain {
			return true
		}
	}

	return false
}

// extractAnchorHrefs collects the href of every anchor in the fragment.
// We need to safely get the href values without consuming too much of
// the surrounding text, so this works on a parsed DOM rather than with
// string surgery.
func extractAnchorHrefs(src string) []string {
	doc, err := html.Parse(strings.NewReader(src))
	if err != nil {
		return nil
	}

	var hrefs []string
	var f func(*html.Node)
	f = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "a" {
			for _, a := range n.Attr {
				if a.Key == "href" {
					hrefs = append(hrefs, a.Val)
					break
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			f(c)
		}
	}
	f(doc)

	return hrefs
}
