package demandvape

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/raushankrgupta/vape-catalog-scraper/models"
	"github.com/raushankrgupta/vape-catalog-scraper/scrapers"
	"github.com/raushankrgupta/vape-catalog-scraper/scrapers/query"
	"github.com/raushankrgupta/vape-catalog-scraper/utils"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// listingLimit caps how many products are taken from one listing page
const listingLimit = 5

var (
	productListQuery = query.MustParse(`
{
    products(the first 5)[] {
        product_name
        product_link
        product_img
    }
}`)

	productDetailQuery = query.MustParse(`
{
    Battery
    Max_Puff
    Display
    Nicotine
    E_liquid_Capacity
}`)

	productInfoQuery = query.MustParse(`
{
    product_name
    product_link
    product_img
}`)
)

// ErrNoIdentity is returned when a detail page does not yield a product name
var ErrNoIdentity = errors.New("product identity not found on page")

type listedProduct struct {
	ProductName *string `json:"product_name"`
	ProductLink *string `json:"product_link"`
	ProductImg  *string `json:"product_img"`
}

type listingResponse struct {
	Products []listedProduct `json:"products"`
}

// toBase converts a query answer into a ProductBase, resolving links against pageURL.
// It reports false when the name is missing.
func (p listedProduct) toBase(pageURL string) (models.ProductBase, bool) {
	name := deref(p.ProductName)
	if name == "" {
		return models.ProductBase{}, false
	}
	return models.ProductBase{
		Name: name,
		Link: utils.ResolveURL(pageURL, deref(p.ProductLink)),
		Img:  utils.ResolveURL(pageURL, deref(p.ProductImg)),
	}, true
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}

// Settings controls where the scraper searches and how far it scrolls
type Settings struct {
	BaseURL         string
	CategoryID      string
	ListingScrollPx float64
	DetailScrollPx  float64
}

// DemandVapeScraper extracts products from demandvape.com listing and detail pages
type DemandVapeScraper struct {
	launcher scrapers.Launcher
	querier  scrapers.Querier
	settings Settings
}

// NewDemandVapeScraper creates a scraper that launches browsers with launcher and reads pages with querier
func NewDemandVapeScraper(launcher scrapers.Launcher, querier scrapers.Querier, settings Settings) *DemandVapeScraper {
	return &DemandVapeScraper{
		launcher: launcher,
		querier:  querier,
		settings: settings,
	}
}

// SearchURL returns the search page URL for a keyword
func (s *DemandVapeScraper) SearchURL(keyword string) string {
	return utils.BuildSearchURL(s.settings.BaseURL, keyword, s.settings.CategoryID)
}

// ScrapeListing fetches the listing at listingURL and the details of every product not in existing
func (s *DemandVapeScraper) ScrapeListing(ctx context.Context, listingURL string, existing []string) (*models.ScrapeResult, error) {
	browser, err := s.launcher.Launch(ctx)
	if err != nil {
		return nil, err
	}
	defer closeBrowser(browser)

	listed, err := s.FetchProductNames(ctx, browser, listingURL)
	if err != nil {
		return nil, err
	}

	result := s.fetchNewProducts(ctx, browser, listed, models.NewKnownNames(existing))
	result.FinalURL = listingURL
	return result, nil
}

// SearchAndScrape searches for keyword. A search that redirects straight to a product page
// yields that single product, even when its name is in existing: existing only filters
// listing entries. Otherwise the result page is treated as a listing.
func (s *DemandVapeScraper) SearchAndScrape(ctx context.Context, keyword string, existing []string) (*models.ScrapeResult, error) {
	searchURL := s.SearchURL(keyword)
	logger := log.WithFields(log.Fields{"keyword": keyword, "url": searchURL})
	state := stateNotNavigated
	logger.WithField("state", state).Debug("[Search] Starting")

	browser, err := s.launcher.Launch(ctx)
	if err != nil {
		return nil, err
	}
	defer closeBrowser(browser)

	page, err := browser.NewPage()
	if err != nil {
		return nil, err
	}
	defer page.Close()

	nav, err := page.GotoObservingRedirect(searchURL)
	if err != nil {
		return nil, err
	}
	state = stateNavigated
	logger.WithFields(log.Fields{"state": state, "status": nav.StatusCode}).Debug("[Search] Navigated")

	var result *models.ScrapeResult
	if nav.Redirected {
		state = stateRedirectDetected
		logger.WithFields(log.Fields{"state": state, "final_url": nav.FinalURL}).Info("[Search] Redirected to product page")

		result = &models.ScrapeResult{Products: []models.ProductDetails{}, Redirected: true, FinalURL: nav.FinalURL}
		details, err := s.FetchProductDetails(ctx, browser, nav.FinalURL, nil)
		if err != nil {
			result.Failed = append(result.Failed, unknownProduct)
		} else {
			result.Products = append(result.Products, *details)
		}
	} else {
		state = stateNoRedirect
		logger.WithField("state", state).Debug("[Search] Treating result as listing")

		listed, err := s.extractListing(ctx, page)
		if err != nil {
			return nil, err
		}
		result = s.fetchNewProducts(ctx, browser, listed, models.NewKnownNames(existing))
		result.FinalURL = searchURL
	}

	state = stateCompleted
	logger.WithFields(log.Fields{"state": state, "products": len(result.Products), "failed": len(result.Failed)}).Info("[Search] Done")
	return result, nil
}

// FetchProductNames opens the listing page and returns the valid entries among the first five
// products on it.
// Navigation errors are returned; a failed listing query degrades to an empty listing.
func (s *DemandVapeScraper) FetchProductNames(ctx context.Context, browser scrapers.Browser, listingURL string) ([]models.ProductBase, error) {
	page, err := browser.NewPage()
	if err != nil {
		return nil, err
	}
	defer page.Close()

	if err := page.Goto(listingURL); err != nil {
		return nil, err
	}
	return s.extractListing(ctx, page)
}

func (s *DemandVapeScraper) extractListing(ctx context.Context, page scrapers.Page) ([]models.ProductBase, error) {
	if err := page.Wheel(s.settings.ListingScrollPx); err != nil {
		return nil, err
	}

	snapshot, err := page.Snapshot()
	if err != nil {
		log.WithError(err).Error("[Listing] Error fetching products")
		return nil, nil
	}

	var resp listingResponse
	if err := s.querier.QueryData(ctx, snapshot, productListQuery, &resp); err != nil {
		log.WithError(err).WithField("url", snapshot.URL).Error("[Listing] Error fetching products")
		return nil, nil
	}

	answers := resp.Products
	if len(answers) > listingLimit {
		answers = answers[:listingLimit]
	}
	products := make([]models.ProductBase, 0, len(answers))
	for _, p := range answers {
		base, ok := p.toBase(snapshot.URL)
		if !ok || base.Link == "" {
			log.WithField("url", snapshot.URL).Warnf("[Listing] Dropping entry without name or link: %+v", base)
			continue
		}
		products = append(products, base)
	}
	log.WithFields(log.Fields{"url": snapshot.URL, "products": len(products)}).Debug("[Listing] Extracted")
	return products, nil
}

// FetchProductDetails opens a product page and extracts its attributes. When product is nil
// the identity is read from the page as well. Failures are logged with the product name.
func (s *DemandVapeScraper) FetchProductDetails(ctx context.Context, browser scrapers.Browser, productURL string, product *models.ProductBase) (details *models.ProductDetails, err error) {
	name := unknownProduct
	if product != nil {
		name = product.Name
	}
	defer func() {
		if err != nil {
			log.WithError(err).WithFields(log.Fields{"product": name, "url": productURL}).Error("[Detail] Error fetching details for product")
		}
	}()

	page, err := browser.NewPage()
	if err != nil {
		return nil, err
	}
	defer page.Close()

	if err := page.Goto(productURL); err != nil {
		return nil, err
	}
	if err := page.Wheel(s.settings.DetailScrollPx); err != nil {
		return nil, err
	}
	snapshot, err := page.Snapshot()
	if err != nil {
		return nil, err
	}

	var attrs models.ProductAttributes
	if err := s.querier.QueryData(ctx, snapshot, productDetailQuery, &attrs); err != nil {
		return nil, fmt.Errorf("detail query failed: %w", err)
	}

	var identity models.ProductBase
	if product != nil {
		identity = *product
	} else {
		var info listedProduct
		if err := s.querier.QueryData(ctx, snapshot, productInfoQuery, &info); err != nil {
			return nil, fmt.Errorf("identity query failed: %w", err)
		}
		base, ok := info.toBase(snapshot.URL)
		if !ok {
			return nil, ErrNoIdentity
		}
		if base.Link == "" {
			base.Link = snapshot.URL
		}
		identity = base
	}

	d := models.NewProductDetails(identity, attrs)
	return &d, nil
}

// fetchNewProducts drops known products and fetches the details of the rest concurrently,
// one page per product. Failed products are left out of Products and named in Failed.
func (s *DemandVapeScraper) fetchNewProducts(ctx context.Context, browser scrapers.Browser, listed []models.ProductBase, known models.KnownNames) *models.ScrapeResult {
	var fresh []models.ProductBase
	for _, p := range listed {
		if known.Contains(p.Name) {
			log.WithField("product", p.Name).Debug("[Listing] Skipping known product")
			continue
		}
		fresh = append(fresh, p)
	}

	fetched := make([]*models.ProductDetails, len(fresh))
	var g errgroup.Group
	for i, p := range fresh {
		i, p := i, p
		g.Go(func() error {
			d, err := s.FetchProductDetails(ctx, browser, p.Link, &p)
			if err == nil {
				fetched[i] = d
			}
			return nil
		})
	}
	_ = g.Wait()

	result := &models.ScrapeResult{Products: make([]models.ProductDetails, 0, len(fresh))}
	for i, d := range fetched {
		if d == nil {
			result.Failed = append(result.Failed, fresh[i].Name)
			continue
		}
		result.Products = append(result.Products, *d)
	}
	return result
}

func closeBrowser(browser scrapers.Browser) {
	if err := browser.Close(); err != nil {
		log.WithError(err).Warn("[Browser] Error closing browser")
	}
}
