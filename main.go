package main

import (
	"context"
	"net/http"

	"github.com/raushankrgupta/vape-catalog-scraper/api"
	"github.com/raushankrgupta/vape-catalog-scraper/config"
	"github.com/raushankrgupta/vape-catalog-scraper/scrapers/base"
	"github.com/raushankrgupta/vape-catalog-scraper/scrapers/demandvape"
	"github.com/raushankrgupta/vape-catalog-scraper/utils"
	log "github.com/sirupsen/logrus"
)

func main() {
	config.LoadConfig()
	utils.SetupLogging(config.LogLevel)

	querier, err := utils.NewGeminiQuerier(context.Background(), config.GeminiAPIKey, config.GeminiModel)
	if err != nil {
		log.Fatalf("Failed to create Gemini client: %v", err)
	}
	defer querier.Close()

	launcher := base.NewChromeLauncher(config.Headless, config.ChromePath,
		config.BrowserLaunchTimeout, config.ScrollSettle, config.MaxSnapshotBytes)
	scraper := demandvape.NewDemandVapeScraper(launcher, querier, demandvape.Settings{
		BaseURL:         config.SiteBaseURL,
		CategoryID:      config.SearchCategoryID,
		ListingScrollPx: config.ListingScrollPx,
		DetailScrollPx:  config.DetailScrollPx,
	})

	handler := api.NewHandler(scraper)
	var history *api.HistoryHandler

	// Optional integrations
	if config.MongoURI != "" {
		if err := utils.ConnectMongo(config.MongoURI); err != nil {
			log.Fatalf("Failed to connect to MongoDB: %v", err)
		}
		defer utils.DisconnectMongo()
		runs := utils.NewRunStore(config.DBName)
		handler.Runs = runs
		history = &api.HistoryHandler{Runs: runs}
	} else {
		log.Info("MONGO_URI not set, run history disabled")
	}

	if config.AWSBucketName != "" {
		if err := utils.InitS3(); err != nil {
			log.Fatalf("Failed to initialize S3: %v", err)
		}
		handler.Exporter = utils.S3Exporter{}
		if history != nil {
			history.Presigner = utils.S3Exporter{}
		}
	}

	if config.SendGridAPIKey != "" && config.DigestEmailTo != "" {
		handler.Notifier = &utils.DigestMailer{
			APIKey: config.SendGridAPIKey,
			From:   config.DigestEmailFrom,
			To:     config.DigestEmailTo,
		}
	}

	requireAuth := config.JWTSecret != ""
	router := api.NewRouter(handler, history, requireAuth)

	port := config.Port
	log.Infof("Server starting on port %s (auth required: %v)", port, requireAuth)
	log.Infof("Usage: curl -X POST \"http://localhost:%s/scrape?url=<listing_url>\"", port)
	if err := http.ListenAndServe(":"+port, router); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}
