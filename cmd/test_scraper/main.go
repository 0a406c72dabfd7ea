package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/alecthomas/kong"
	"github.com/raushankrgupta/vape-catalog-scraper/config"
	"github.com/raushankrgupta/vape-catalog-scraper/models"
	"github.com/raushankrgupta/vape-catalog-scraper/scrapers/base"
	"github.com/raushankrgupta/vape-catalog-scraper/scrapers/demandvape"
	"github.com/raushankrgupta/vape-catalog-scraper/utils"
	log "github.com/sirupsen/logrus"
)

type CLI struct {
	LogLevel string `help:"Log level (debug, info, warn, error)." default:"info" short:"l"`
	Headful  bool   `help:"Show the browser window."`

	Scrape ScrapeCmd `cmd:"" help:"Scrape a listing page."`
	Search SearchCmd `cmd:"" help:"Search the site and scrape the results."`
	Token  TokenCmd  `cmd:"" help:"Mint a bearer token for the API."`
}

type ScrapeCmd struct {
	URL   string   `arg:"" help:"Listing page URL."`
	Known []string `help:"Product names to skip." short:"k"`
}

type SearchCmd struct {
	Keyword string   `arg:"" help:"Search keyword."`
	Known   []string `help:"Product names to skip." short:"k"`
}

type TokenCmd struct {
	Subject string        `arg:"" help:"Token subject."`
	TTL     time.Duration `help:"Token lifetime." default:"24h"`
}

func (c *ScrapeCmd) Run(cli *CLI) error {
	scraper, closeFn, err := newScraper(cli)
	if err != nil {
		return err
	}
	defer closeFn()
	result, err := scraper.ScrapeListing(context.Background(), c.URL, c.Known)
	if err != nil {
		return err
	}
	return printResult(result)
}

func (c *SearchCmd) Run(cli *CLI) error {
	scraper, closeFn, err := newScraper(cli)
	if err != nil {
		return err
	}
	defer closeFn()
	fmt.Printf("Search URL: %s\n", scraper.SearchURL(c.Keyword))
	result, err := scraper.SearchAndScrape(context.Background(), c.Keyword, c.Known)
	if err != nil {
		return err
	}
	return printResult(result)
}

func (c *TokenCmd) Run(cli *CLI) error {
	token, err := utils.GenerateToken(c.Subject, c.TTL)
	if err != nil {
		return err
	}
	fmt.Println(token)
	return nil
}

func newScraper(cli *CLI) (*demandvape.DemandVapeScraper, func(), error) {
	querier, err := utils.NewGeminiQuerier(context.Background(), config.GeminiAPIKey, config.GeminiModel)
	if err != nil {
		return nil, nil, err
	}
	launcher := base.NewChromeLauncher(config.Headless && !cli.Headful, config.ChromePath,
		config.BrowserLaunchTimeout, config.ScrollSettle, config.MaxSnapshotBytes)
	scraper := demandvape.NewDemandVapeScraper(launcher, querier, demandvape.Settings{
		BaseURL:         config.SiteBaseURL,
		CategoryID:      config.SearchCategoryID,
		ListingScrollPx: config.ListingScrollPx,
		DetailScrollPx:  config.DetailScrollPx,
	})
	return scraper, func() { querier.Close() }, nil
}

func printResult(result *models.ScrapeResult) error {
	fmt.Printf("Redirected: %v, final URL: %s\n", result.Redirected, result.FinalURL)
	b, err := json.MarshalIndent(result.Products, "", "  ")
	if err != nil {
		return err
	}
	fmt.Printf("Products: %s\n", string(b))
	if len(result.Failed) > 0 {
		fmt.Printf("Failed: %v\n", result.Failed)
	}
	fmt.Println("--------------------------------------------------")
	return nil
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("test_scraper"),
		kong.Description("Run the catalog scrape flows from the command line."),
	)

	config.LoadConfig()
	utils.SetupLogging(cli.LogLevel)

	if err := ctx.Run(&cli); err != nil {
		log.Errorf("Command failed: %v", err)
		os.Exit(1)
	}
}
