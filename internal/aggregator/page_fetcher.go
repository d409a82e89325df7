package aggregator

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"strings"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/gocolly/colly/v2"
)

// minUsefulTextLen is the point below which a fetched page is assumed to
// be a script-rendered shell and worth retrying headless.
const minUsefulTextLen = 200

// PageFetcher downloads an offer page and returns its visible text. Plain
// HTTP via colly first; pages that come back near-empty are re-rendered in
// headless Chrome.
type PageFetcher struct {
	log      *log.Logger
	headless bool
}

func NewPageFetcher(logger *log.Logger, headless bool) *PageFetcher {
	if logger == nil {
		logger = log.Default()
	}
	return &PageFetcher{log: logger, headless: headless}
}

func (f *PageFetcher) FetchText(ctx context.Context, rawURL string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return "", fmt.Errorf("invalid offer url %q", rawURL)
	}

	text, err := f.fetchStatic(ctx, u)
	if err == nil && len(text) >= minUsefulTextLen {
		return text, nil
	}

	if f.headless {
		if rendered, herr := f.fetchHeadless(ctx, u.String()); herr == nil && rendered != "" {
			return rendered, nil
		} else if herr != nil {
			f.log.Printf("aggregator=fetcher status=headless_error url=%s err=%v", u.String(), herr)
		}
	}

	if err != nil {
		return "", err
	}
	if text == "" {
		return "", fmt.Errorf("empty page at %s", u.String())
	}
	return text, nil
}

func (f *PageFetcher) fetchStatic(ctx context.Context, u *url.URL) (string, error) {
	c := colly.NewCollector(colly.AllowedDomains(u.Host))
	_ = c.Limit(&colly.LimitRule{DomainGlob: "*", Parallelism: 1, Delay: 300 * time.Millisecond})

	var text string
	var reqErr error

	c.OnRequest(func(r *colly.Request) {
		for k, v := range httpHeaders() {
			r.Headers.Set(k, v)
		}
	})
	c.OnHTML("body", func(e *colly.HTMLElement) {
		text = strings.TrimSpace(e.DOM.Find("body").Text())
	})
	c.OnError(func(r *colly.Response, err error) { reqErr = err })

	if ctx.Err() != nil {
		return "", ctx.Err()
	}
	if err := c.Visit(u.String()); err != nil {
		return "", err
	}
	c.Wait()
	if reqErr != nil {
		return "", reqErr
	}
	return text, nil
}

func (f *PageFetcher) fetchHeadless(ctx context.Context, pageURL string) (string, error) {
	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx,
		append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", true),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
			chromedp.UserAgent(httpHeaders()["User-Agent"]),
		)...,
	)
	defer allocCancel()

	browserCtx, browserCancel := chromedp.NewContext(allocCtx)
	defer browserCancel()

	reqCtx, reqCancel := context.WithTimeout(browserCtx, 25*time.Second)
	defer reqCancel()

	var text string
	err := chromedp.Run(reqCtx,
		chromedp.Navigate(pageURL),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Sleep(1500*time.Millisecond),
		chromedp.EvaluateAsDevTools(`document.body ? document.body.innerText : ""`, &text),
	)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}
