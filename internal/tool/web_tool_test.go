package tool_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/mouramax/versatile-retrieval/internal/reduce"
	"github.com/mouramax/versatile-retrieval/internal/tool"
)

func htmlServer(t *testing.T, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestNewScrapeWebsiteTool_Validation(t *testing.T) {
	tests := []struct {
		name        string
		config      tool.ScrapeWebsiteConfig
		expectError bool
	}{
		{name: "default full mode", config: tool.ScrapeWebsiteConfig{}},
		{name: "head with budget", config: tool.ScrapeWebsiteConfig{Mode: reduce.ModeHead, MaxChars: 100}},
		{name: "head without budget", config: tool.ScrapeWebsiteConfig{Mode: reduce.ModeHead}, expectError: true},
		{name: "summarize without generator", config: tool.ScrapeWebsiteConfig{Mode: reduce.ModeSummarize}, expectError: true},
		{name: "unknown format", config: tool.ScrapeWebsiteConfig{Format: "pdf"}, expectError: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tool.NewScrapeWebsiteTool(tt.config)
			if tt.expectError {
				var cfgErr *reduce.ConfigError
				assert.ErrorAs(t, err, &cfgErr)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestScrapeWebsiteTool_FullMode(t *testing.T) {
	srv := htmlServer(t, "<html><body><h1>Docs</h1><p>Welcome   here.</p></body></html>")

	st, err := tool.NewScrapeWebsiteTool(tool.ScrapeWebsiteConfig{})
	require.NoError(t, err)

	env := st.Invoke(context.Background(), []byte(`{"website_url": "`+srv.URL+`"}`))
	require.True(t, env.OK())
	assert.Contains(t, env.Content, "Docs")
	assert.Contains(t, env.Content, "Welcome here.")
	assert.Equal(t, srv.URL, env.Source)

	payload := env.JSON()
	assert.True(t, gjson.Get(payload, "scraped_content").Exists())
	assert.Equal(t, "full", gjson.Get(payload, "retrieval_mode_used").String())
}

func TestScrapeWebsiteTool_HeadMode(t *testing.T) {
	srv := htmlServer(t, "<p>"+strings.Repeat("y", 900)+"</p>")

	st, err := tool.NewScrapeWebsiteTool(tool.ScrapeWebsiteConfig{
		WebsiteURL: srv.URL,
		Mode:       reduce.ModeHead,
		MaxChars:   50,
	})
	require.NoError(t, err)

	env := st.Invoke(context.Background(), nil)
	require.True(t, env.OK())
	assert.Equal(t, strings.Repeat("y", 50), env.Content)
}

func TestScrapeWebsiteTool_SummarizeMode(t *testing.T) {
	srv := htmlServer(t, "<p>"+strings.Repeat("content. ", 500)+"</p>")

	var prompt string
	gen := reduce.GeneratorFunc(func(ctx context.Context, p string) (string, error) {
		prompt = p
		return strings.Repeat("s", 120), nil
	})

	st, err := tool.NewScrapeWebsiteTool(tool.ScrapeWebsiteConfig{
		WebsiteURL: srv.URL,
		Mode:       reduce.ModeSummarize,
		Generator:  gen,
	})
	require.NoError(t, err)

	env := st.Invoke(context.Background(), nil)
	require.True(t, env.OK())
	assert.Len(t, env.Content, 120)
	assert.Contains(t, prompt, "website text", "web tool uses the website prompt wording")
}

func TestScrapeWebsiteTool_EmptyPage(t *testing.T) {
	srv := htmlServer(t, "<html><head><script>only()</script></head><body></body></html>")

	st, err := tool.NewScrapeWebsiteTool(tool.ScrapeWebsiteConfig{WebsiteURL: srv.URL})
	require.NoError(t, err)

	env := st.Invoke(context.Background(), nil)
	require.True(t, env.OK(), "an empty page is content, not an error")
	assert.Equal(t, "No text content found on the website after cleaning.", env.Content)
}

func TestScrapeWebsiteTool_ServerErrorEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	}))
	t.Cleanup(srv.Close)

	st, err := tool.NewScrapeWebsiteTool(tool.ScrapeWebsiteConfig{WebsiteURL: srv.URL})
	require.NoError(t, err)

	env := st.Invoke(context.Background(), nil)
	require.False(t, env.OK())
	assert.Contains(t, env.ErrorMessage, "403")

	payload := env.JSON()
	assert.False(t, gjson.Get(payload, "scraped_content").Exists())
	assert.True(t, gjson.Get(payload, "error_message").Exists())
}

func TestScrapeWebsiteTool_URLRequired(t *testing.T) {
	st, err := tool.NewScrapeWebsiteTool(tool.ScrapeWebsiteConfig{})
	require.NoError(t, err)

	env := st.Invoke(context.Background(), nil)
	require.False(t, env.OK())
	assert.Equal(t, "Website canonical URL is required.", env.ErrorMessage)
}

func TestScrapeWebsiteTool_CookieFromEnv(t *testing.T) {
	var cookie string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if c, err := r.Cookie("session"); err == nil {
			cookie = c.Value
		}
		_, _ = w.Write([]byte("<p>ok</p>"))
	}))
	t.Cleanup(srv.Close)

	t.Setenv("SCRAPE_SESSION_COOKIE", "secret-value")
	st, err := tool.NewScrapeWebsiteTool(tool.ScrapeWebsiteConfig{
		WebsiteURL: srv.URL,
		CookieEnv:  &tool.CookieFromEnv{Name: "session", EnvVar: "SCRAPE_SESSION_COOKIE"},
	})
	require.NoError(t, err)

	env := st.Invoke(context.Background(), nil)
	require.True(t, env.OK())
	assert.Equal(t, "secret-value", cookie)
}

func TestScrapeWebsiteTool_CookieEnvUnsetSkipsCookie(t *testing.T) {
	sawCookie := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := r.Cookie("session"); err == nil {
			sawCookie = true
		}
		_, _ = w.Write([]byte("<p>ok</p>"))
	}))
	t.Cleanup(srv.Close)

	st, err := tool.NewScrapeWebsiteTool(tool.ScrapeWebsiteConfig{
		WebsiteURL: srv.URL,
		CookieEnv:  &tool.CookieFromEnv{Name: "session", EnvVar: "UNSET_COOKIE_VAR"},
	})
	require.NoError(t, err)

	env := st.Invoke(context.Background(), nil)
	require.True(t, env.OK())
	assert.False(t, sawCookie, "an unset env var silently skips the cookie")
}

func TestScrapeWebsiteTool_DescriptionCarriesDefaults(t *testing.T) {
	st, err := tool.NewScrapeWebsiteTool(tool.ScrapeWebsiteConfig{
		WebsiteURL: "https://example.com",
		Mode:       reduce.ModeRandomChunks,
		MaxChars:   4000,
	})
	require.NoError(t, err)

	assert.Equal(t, "Website Scraping Tool", st.Name())
	assert.Contains(t, st.Description(), "Default website: 'https://example.com'.")
	assert.Contains(t, st.Description(), "Default mode: 'random_chunks'.")
	assert.Contains(t, st.Description(), "Default 'max_chars': 4000.")
}
