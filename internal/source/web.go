// Web page acquisition: one blocking GET, charset detection, visible-text
// extraction, whitespace normalization.
package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog/log"
	"golang.org/x/net/html"
	"golang.org/x/net/html/charset"
)

const (
	// FetchTimeout bounds the single GET per invocation.
	FetchTimeout = 15 * time.Second

	// maxBodySize prevents OOM on unexpectedly large pages (10MB).
	maxBodySize = 10 * 1024 * 1024
)

// DefaultHeaders is the browser-like header set sent with every fetch
// unless overridden.
var DefaultHeaders = map[string]string{
	"User-Agent": "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 " +
		"(KHTML, like Gecko) Chrome/104.0.0.0 Safari/537.36",
	"Accept": "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif," +
		"image/webp,image/apng,*/*;q=0.8,application/signed-exchange;v=b3;q=0.9",
	"Accept-Language":           "en-US,en;q=0.9",
	"Referer":                   "https://www.google.com/",
	"Connection":                "keep-alive",
	"Upgrade-Insecure-Requests": "1",
}

// ExtractFormat selects how fetched HTML is rendered to text.
type ExtractFormat string

const (
	// FormatText extracts visible text only, whitespace-normalized.
	FormatText ExtractFormat = "text"

	// FormatMarkdown renders the page as Markdown, retaining structure.
	FormatMarkdown ExtractFormat = "markdown"
)

// WebFetcher performs the single GET per invocation and reduces the
// response to text. The zero value fetches with DefaultHeaders, no cookies,
// plain-text extraction and a 15-second timeout.
type WebFetcher struct {
	// Client overrides the default HTTP client (tests, connection pooling).
	Client *http.Client

	// Headers replaces DefaultHeaders entirely when non-nil.
	Headers map[string]string

	// Cookies are sent verbatim with the request.
	Cookies map[string]string

	// Format selects text or markdown extraction. Empty means FormatText.
	Format ExtractFormat
}

// Fetch GETs url and returns its textual content. Non-2xx statuses fail
// closed; the response charset is auto-detected before parsing.
func (f *WebFetcher) Fetch(ctx context.Context, url string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, FetchTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", &TransportError{Identifier: url, Err: err}
	}

	headers := f.Headers
	if headers == nil {
		headers = DefaultHeaders
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	for name, value := range f.Cookies {
		req.AddCookie(&http.Cookie{Name: name, Value: value})
	}

	client := f.Client
	if client == nil {
		client = http.DefaultClient // timeout via context
	}

	resp, err := client.Do(req)
	if err != nil {
		return "", &TransportError{Identifier: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &TransportError{
			Identifier: url,
			Err:        fmt.Errorf("server returned status %d", resp.StatusCode),
		}
	}

	// Decode to UTF-8 using the response's declared or sniffed charset.
	decoded, err := charset.NewReader(io.LimitReader(resp.Body, maxBodySize), resp.Header.Get("Content-Type"))
	if err != nil {
		return "", &TransportError{Identifier: url, Err: err}
	}

	if f.Format == FormatMarkdown {
		raw, err := io.ReadAll(decoded)
		if err != nil {
			return "", &TransportError{Identifier: url, Err: err}
		}
		md, err := htmltomarkdown.ConvertString(string(raw))
		if err != nil {
			return "", &TransportError{Identifier: url, Err: err}
		}
		return strings.TrimSpace(md), nil
	}

	doc, err := goquery.NewDocumentFromReader(decoded)
	if err != nil {
		return "", &TransportError{Identifier: url, Err: err}
	}

	text := VisibleText(doc)
	log.Debug().Str("url", url).Int("chars", len([]rune(text))).Msg("Extracted page text")
	return text, nil
}

// VisibleText reduces a parsed document to its visible text: script, style
// and noscript subtrees are dropped, text nodes are joined with single
// spaces, and the result is whitespace-normalized.
func VisibleText(doc *goquery.Document) string {
	doc.Find("script, style, noscript").Remove()

	var b strings.Builder
	for _, node := range doc.Selection.Nodes {
		collectText(node, &b)
	}
	return NormalizeWhitespace(b.String())
}

func collectText(n *html.Node, b *strings.Builder) {
	if n.Type == html.TextNode {
		b.WriteString(n.Data)
		b.WriteString(" ")
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, b)
	}
}

var (
	spaceRunRE   = regexp.MustCompile(`[ \t]+`)
	newlineRunRE = regexp.MustCompile(`\s+\n\s+`)
)

// NormalizeWhitespace collapses runs of spaces/tabs to one space and
// whitespace-framed newline runs to one newline, then trims the ends.
func NormalizeWhitespace(s string) string {
	s = spaceRunRE.ReplaceAllString(s, " ")
	s = newlineRunRE.ReplaceAllString(s, "\n")
	return strings.TrimSpace(s)
}
