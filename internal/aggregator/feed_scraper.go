package aggregator

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"talentmatch/internal/database"
	"talentmatch/internal/pipeline"
	"talentmatch/internal/repository"

	"github.com/gocolly/colly/v2"
)

const feedSourceName = "France Travail"

// FeedScraper pulls job offers from the France Travail public listings
// and upserts them through the offer repository. Skill extraction runs
// separately, in the extraction pipeline.
type FeedScraper struct {
	db      database.DB
	offers  repository.OfferRepository
	baseURL string
	host    string
	log     *log.Logger
}

func NewFeedScraper(db database.DB, offers repository.OfferRepository, baseURL string, logger *log.Logger) (*FeedScraper, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = "https://candidat.francetravail.fr"
	}
	u, err := url.Parse(baseURL)
	if err != nil || u.Host == "" {
		return nil, fmt.Errorf("invalid feed base url %q", baseURL)
	}
	if logger == nil {
		logger = log.Default()
	}
	return &FeedScraper{db: db, offers: offers, baseURL: baseURL, host: u.Host, log: logger}, nil
}

// Scrape walks pages listing pages, fetches every offer detail and
// upserts the batch. Returns the number of offers upserted.
func (s *FeedScraper) Scrape(ctx context.Context, pages, workers int) (int, error) {
	if pages <= 0 {
		pages = 1
	}
	if workers <= 0 {
		workers = 4
	}

	sourceID, err := ensureFeedSource(ctx, s.db, feedSourceName, s.baseURL)
	if err != nil {
		return 0, err
	}

	links := make([]string, 0)
	seen := map[string]struct{}{}
	for page := 1; page <= pages; page++ {
		if ctx.Err() != nil {
			return 0, ctx.Err()
		}
		pageLinks, err := s.scrapeListingPage(ctx, page)
		if err != nil {
			s.log.Printf("aggregator=feed status=error page=%d err=%v", page, err)
			continue
		}
		for _, l := range pageLinks {
			if _, ok := seen[l]; ok {
				continue
			}
			seen[l] = struct{}{}
			links = append(links, l)
		}
	}
	if len(links) == 0 {
		return 0, nil
	}

	pool := pipeline.NewWorkerPool(workers, workers*2)
	pool.SetRateLimit(4)
	results := pool.Run(ctx)

	upserts := make(chan repository.OfferUpsert, len(links))
	for _, link := range links {
		link := link
		ok := pool.Submit(func(ctx context.Context) error {
			d, err := s.scrapeDetailPage(ctx, link)
			if err != nil {
				return err
			}
			d.SourceID = sourceID
			upserts <- d
			return nil
		})
		if !ok {
			break
		}
	}

	pool.Close()
	for r := range results {
		if r.Err != nil {
			s.log.Printf("aggregator=feed status=error err=%v", r.Err)
		}
	}
	close(upserts)

	batch := make([]repository.OfferUpsert, 0, len(links))
	for u := range upserts {
		batch = append(batch, u)
	}
	if len(batch) == 0 {
		return 0, nil
	}

	if err := s.offers.Upsert(ctx, batch); err != nil {
		return 0, err
	}
	s.log.Printf("aggregator=feed status=ok offers=%d pages=%d", len(batch), pages)
	return len(batch), nil
}

func (s *FeedScraper) scrapeListingPage(ctx context.Context, page int) ([]string, error) {
	listURL := fmt.Sprintf("%s/offres/recherche?page=%d", s.baseURL, page)

	c := colly.NewCollector(colly.AllowedDomains(s.host))
	_ = c.Limit(&colly.LimitRule{DomainGlob: "*", Parallelism: 2, RandomDelay: 750 * time.Millisecond, Delay: 400 * time.Millisecond})

	links := make([]string, 0)
	c.OnHTML("a", func(e *colly.HTMLElement) {
		href := strings.TrimSpace(e.Attr("href"))
		if href == "" || !strings.Contains(href, "/offres/recherche/detail/") {
			return
		}
		if abs := normalizeURL(e.Request.AbsoluteURL(href)); abs != "" {
			links = append(links, abs)
		}
	})

	var reqErr error
	c.OnError(func(r *colly.Response, err error) { reqErr = err })
	c.OnRequest(func(r *colly.Request) {
		for k, v := range httpHeaders() {
			r.Headers.Set(k, v)
		}
	})

	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	if err := c.Visit(listURL); err != nil {
		return nil, err
	}
	c.Wait()
	if reqErr != nil {
		return nil, reqErr
	}
	return links, nil
}

func (s *FeedScraper) scrapeDetailPage(ctx context.Context, offerURL string) (repository.OfferUpsert, error) {
	c := colly.NewCollector(colly.AllowedDomains(s.host))
	_ = c.Limit(&colly.LimitRule{DomainGlob: "*", Parallelism: 2, RandomDelay: 850 * time.Millisecond, Delay: 450 * time.Millisecond})

	var out repository.OfferUpsert
	var reqErr error

	c.OnRequest(func(r *colly.Request) {
		for k, v := range httpHeaders() {
			r.Headers.Set(k, v)
		}
	})

	c.OnHTML("h1", func(e *colly.HTMLElement) {
		if out.Title == "" {
			out.Title = strings.TrimSpace(e.Text)
		}
	})
	c.OnHTML("title", func(e *colly.HTMLElement) {
		if out.Title == "" {
			out.Title = strings.TrimSpace(e.Text)
		}
	})
	c.OnHTML(".title-complement, .t4.title-complement", func(e *colly.HTMLElement) {
		if out.Company == "" {
			out.Company = strings.TrimSpace(e.Text)
		}
	})
	c.OnHTML("p.subtext, span.img-listing", func(e *colly.HTMLElement) {
		if out.Location == "" {
			out.Location = strings.TrimSpace(e.Text)
		}
	})
	c.OnHTML("body", func(e *colly.HTMLElement) {
		text := strings.TrimSpace(e.DOM.Find("body").Text())
		out.RawDescription = text
		out.Description = text
	})

	c.OnError(func(r *colly.Response, err error) { reqErr = err })

	if ctx.Err() != nil {
		return repository.OfferUpsert{}, ctx.Err()
	}
	if err := c.Visit(offerURL); err != nil {
		return repository.OfferUpsert{}, err
	}
	c.Wait()
	if reqErr != nil {
		return repository.OfferUpsert{}, reqErr
	}

	out.URL = offerURL
	out.ExternalID = externalIDFromURL(offerURL)
	out.ExperienceMinYr = experienceFromText(out.Description)
	out.IsActive = true
	if out.Title == "" {
		return repository.OfferUpsert{}, fmt.Errorf("no title at %s", offerURL)
	}
	return out, nil
}

func externalIDFromURL(offerURL string) string {
	u, err := url.Parse(offerURL)
	if err != nil {
		return offerURL
	}
	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(parts) == 0 {
		return offerURL
	}
	return parts[len(parts)-1]
}

var experienceRe = regexp.MustCompile(`(?i)exp[ée]rience[^.\n]{0,40}?(\d{1,2})\s*an`)

// experienceFromText pulls a "X ans d'expérience" style requirement out of
// free text; nil when nothing recognizable is stated.
func experienceFromText(text string) *int {
	m := experienceRe.FindStringSubmatch(text)
	if len(m) < 2 {
		return nil
	}
	years, err := strconv.Atoi(m[1])
	if err != nil || years <= 0 || years > 40 {
		return nil
	}
	return &years
}
