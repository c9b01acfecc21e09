// Package extracts fetches short article summaries from the MediaWiki TextExtracts API
package extracts

import (
	"context"
	"errors"
	"html"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"weeklypedia/internal/core/version"
	perr "weeklypedia/internal/platform/errors"
	"weeklypedia/internal/platform/logger"
	"weeklypedia/internal/platform/net/http/bind"
)

const (
	// LangPlaceholder is expanded with the edition code in URLTemplate
	LangPlaceholder = "{lang}"

	defaultURLTemplate = "https://{lang}.wikipedia.org/w/api.php"
	defaultSentences   = 3
	defaultWorkers     = 3
	defaultRPS         = 5
	defaultTimeout     = 10 * time.Second
	defaultRetries     = 2
	defaultRetryWait   = 250 * time.Millisecond
)

var errNoExtract = errors.New("extracts: no extract for title")

// Options configures the Client
type Options struct {
	// URLTemplate is the api.php endpoint with {lang} in it
	URLTemplate string
	// Contact is an email or URL for the User-Agent, Wikimedia asks every client for one
	Contact string

	Sentences int
	Workers   int
	RPS       float64
	Timeout   time.Duration // per request
	Retries   int           // on 429 and 5xx
	RetryWait time.Duration
}

// Extract is one plain text summary keyed by the title it was asked for
type Extract struct {
	Title   string
	Extract string
}

// Client fetches extracts with bounded parallelism and a shared rate limit
type Client struct {
	http    *resty.Client
	opts    Options
	limiter *rate.Limiter
	policy  *bluemonday.Policy
	log     logger.Logger
}

// NewClient creates a new Client with sane defaults
func NewClient(o Options) (*Client, error) {
	if strings.TrimSpace(o.Contact) == "" {
		return nil, perr.WithField(perr.InvalidArgf("extracts client requires a contact for its User-Agent"), "contact")
	}
	if o.URLTemplate == "" {
		o.URLTemplate = defaultURLTemplate
	}
	if o.Sentences <= 0 {
		o.Sentences = defaultSentences
	}
	if o.Workers <= 0 {
		o.Workers = defaultWorkers
	}
	if o.RPS <= 0 {
		o.RPS = defaultRPS
	}
	if o.Timeout <= 0 {
		o.Timeout = defaultTimeout
	}
	if o.Retries < 0 {
		o.Retries = 0
	}
	if o.RetryWait <= 0 {
		o.RetryWait = defaultRetryWait
	}

	c := &Client{
		opts:    o,
		limiter: rate.NewLimiter(rate.Limit(o.RPS), 1),
		policy:  bluemonday.StrictPolicy(),
		log:     *logger.Named("extracts"),
	}

	c.http = resty.New().
		SetTimeout(o.Timeout).
		SetHeader("User-Agent", UserAgent(o.Contact)).
		SetHeader("Accept", "application/json").
		SetRetryCount(o.Retries).
		SetRetryWaitTime(o.RetryWait).
		SetRetryMaxWaitTime(8 * o.RetryWait).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			if err != nil {
				return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
			}
			return r.StatusCode() == http.StatusTooManyRequests || r.StatusCode() >= 500
		}).
		// every attempt, retries included, waits for a token
		OnBeforeRequest(func(_ *resty.Client, r *resty.Request) error {
			return c.limiter.Wait(r.Context())
		})
	return c, nil
}

// UserAgent renders the outbound User-Agent for a contact
func UserAgent(contact string) string {
	return version.Product() + " (" + strings.TrimSpace(contact) + ")"
}

// Endpoint expands the URL template for lang
func (c *Client) Endpoint(lang string) (string, error) {
	if !bind.IsWikiLang(lang) {
		return "", perr.WithField(perr.InvalidArgf("invalid wiki language %q", lang), "lang")
	}
	return strings.ReplaceAll(c.opts.URLTemplate, LangPlaceholder, lang), nil
}

// Fetch returns extracts for the first limit titles
// a title that fails or has no extract is left out, Fetch itself never fails
func (c *Client) Fetch(ctx context.Context, lang string, titles []string, limit int) map[string]Extract {
	out := map[string]Extract{}
	if limit > len(titles) {
		limit = len(titles)
	}
	if limit <= 0 {
		return out
	}
	endpoint, err := c.Endpoint(lang)
	if err != nil {
		c.log.Warn().Err(err).Str("lang", lang).Msg("extracts skipped")
		return out
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.opts.Workers)
	for _, title := range titles[:limit] {
		g.Go(func() error {
			ex, err := c.one(gctx, endpoint, title)
			switch {
			case err == nil:
				mu.Lock()
				out[title] = ex
				mu.Unlock()
			case errors.Is(err, errNoExtract):
				c.log.Debug().Str("lang", lang).Str("title", title).Msg("no extract")
			case gctx.Err() != nil:
				// cancelled or out of time, nothing to report per title
			default:
				c.log.Warn().Err(err).Str("lang", lang).Str("title", title).Msg("extract fetch failed")
			}
			// per title failures never cancel siblings
			return nil
		})
	}
	_ = g.Wait()
	return out
}

// apiResponse is the formatversion=2 shape of prop=extracts
type apiResponse struct {
	Query struct {
		Pages []struct {
			Title   string `json:"title"`
			Missing bool   `json:"missing"`
			Invalid bool   `json:"invalid"`
			Extract string `json:"extract"`
		} `json:"pages"`
	} `json:"query"`
	Error *struct {
		Code string `json:"code"`
		Info string `json:"info"`
	} `json:"error"`
}

func (c *Client) one(ctx context.Context, endpoint, title string) (Extract, error) {
	var body apiResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"action":        "query",
			"prop":          "extracts",
			"exintro":       "1",
			"exsentences":   strconv.Itoa(c.opts.Sentences),
			"redirects":     "1",
			"format":        "json",
			"formatversion": "2",
			"titles":        title,
		}).
		SetResult(&body).
		Get(endpoint)
	if err != nil {
		return Extract{}, perr.Wrapf(err, perr.ErrorCodeUpstream, "extracts request failed")
	}
	if resp.IsError() {
		return Extract{}, perr.Upstreamf("extracts status %d", resp.StatusCode())
	}
	if body.Error != nil {
		return Extract{}, perr.Upstreamf("extracts api error %s: %s", body.Error.Code, body.Error.Info)
	}
	if len(body.Query.Pages) == 0 {
		return Extract{}, errNoExtract
	}
	p := body.Query.Pages[0]
	if p.Missing || p.Invalid {
		return Extract{}, errNoExtract
	}
	text := c.PlainText(p.Extract)
	if text == "" {
		return Extract{}, errNoExtract
	}
	return Extract{Title: title, Extract: text}, nil
}

// PlainText strips markup and collapses whitespace
func (c *Client) PlainText(s string) string {
	s = html.UnescapeString(c.policy.Sanitize(s))
	return strings.Join(strings.Fields(s), " ")
}
