package cli

import (
	"github.com/spf13/cobra"

	"github.com/mouramax/versatile-retrieval/external"
	"github.com/mouramax/versatile-retrieval/internal/reduce"
	"github.com/mouramax/versatile-retrieval/internal/source"
	"github.com/mouramax/versatile-retrieval/internal/tool"
)

var (
	scrapeMode     string
	scrapeMaxChars int
	scrapeFormat   string
)

var scrapeCmd = &cobra.Command{
	Use:   "scrape <url>",
	Short: "Fetch a web page and extract its text with a retrieval strategy",
	Args:  cobra.ExactArgs(1),
	RunE:  runScrape,
}

func init() {
	scrapeCmd.Flags().StringVar(&scrapeMode, "mode", "", "retrieval mode (full|head|random_chunks|summarize)")
	scrapeCmd.Flags().IntVar(&scrapeMaxChars, "max-chars", 0, "character budget for head/random_chunks modes")
	scrapeCmd.Flags().StringVar(&scrapeFormat, "format", "", "extraction format (text|markdown)")
}

func runScrape(cmd *cobra.Command, args []string) error {
	sc := cfg.Scrape
	if scrapeMode != "" {
		sc.Mode = scrapeMode
	}
	if scrapeMaxChars > 0 {
		sc.MaxChars = scrapeMaxChars
	}
	if scrapeFormat != "" {
		sc.Format = scrapeFormat
	}

	mode, err := reduce.ParseMode(sc.Mode)
	if err != nil {
		return err
	}

	toolCfg := tool.ScrapeWebsiteConfig{
		WebsiteURL: args[0],
		Mode:       mode,
		MaxChars:   sc.MaxChars,
		Format:     source.ExtractFormat(sc.Format),
		Headers:    sc.Headers,
		Cookies:    sc.Cookies,
	}
	if sc.CookieEnv != nil {
		toolCfg.CookieEnv = &tool.CookieFromEnv{
			Name:   sc.CookieEnv.Name,
			EnvVar: sc.CookieEnv.Env,
		}
	}
	if mode == reduce.ModeSummarize {
		toolCfg.Generator = newGenerator()
	}

	t, err := tool.NewScrapeWebsiteTool(toolCfg)
	if err != nil {
		return err
	}

	env := t.Invoke(cmd.Context(), nil)
	return printEnvelope(env.JSON(), env.OK())
}

// newGenerator builds the summarization backend from the loaded config.
func newGenerator() *external.Generator {
	return &external.Generator{
		Provider:  cfg.Generator.Provider,
		Endpoint:  cfg.Generator.Endpoint,
		APIKey:    cfg.Generator.APIKey,
		Model:     cfg.Generator.Model,
		MaxTokens: cfg.Generator.MaxTokens,
		Timeout:   cfg.Generator.Timeout,
	}
}
