// Package scrape extracts question/answer pairs from the public FAQ page.
package scrape

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/arya-labs/aryamail/internal/domain"
)

const (
	defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"
	maxResponseSize  = 10 << 20
)

// sectionKeywords select which FAQ sections are scraped. Matching is a
// case-insensitive substring check on the section heading.
var sectionKeywords = []string{"home loan", "fixed deposit"}

// Scraper fetches and parses the FAQ page.
type Scraper struct {
	httpClient *http.Client
	userAgent  string
}

func NewScraper() *Scraper {
	return &Scraper{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		userAgent:  defaultUserAgent,
	}
}

// FetchFAQs downloads the page at url and extracts the matching FAQ records.
func (s *Scraper) FetchFAQs(ctx context.Context, url string) ([]domain.FAQRecord, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build faq request: %w", err)
	}
	req.Header.Set("User-Agent", s.userAgent)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, domain.NewDomainErrorWithCause(domain.ErrCodeUpstream, "failed to fetch FAQ page", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, domain.NewDomainError(domain.ErrCodeUpstream, fmt.Sprintf("FAQ page returned status %d", resp.StatusCode))
	}

	return ParseFAQs(io.LimitReader(resp.Body, maxResponseSize))
}

// ParseFAQs extracts question/answer pairs from FAQ page markup. Only
// sections whose heading matches a target keyword contribute records; a
// question missing its answer sibling is skipped.
func ParseFAQs(r io.Reader) ([]domain.FAQRecord, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, domain.NewDomainErrorWithCause(domain.ErrCodeParse, "failed to parse FAQ page", err)
	}

	sections := doc.Find("div.tabReapeate")
	if sections.Length() == 0 {
		return nil, domain.ErrNoFAQSections
	}

	var records []domain.FAQRecord
	sections.Each(func(_ int, section *goquery.Selection) {
		heading := strings.ToLower(strings.TrimSpace(section.Find("h3").First().Text()))
		if heading == "" || !matchesKeyword(heading) {
			return
		}

		section.Find("div.question").Each(func(_ int, q *goquery.Selection) {
			questionTag := q.Find("div.QuesLists").First()
			answerContainer := q.NextAllFiltered("div.answer").First()
			if questionTag.Length() == 0 || answerContainer.Length() == 0 {
				return
			}
			answerTag := answerContainer.Find("div.AnsLists").First()
			if answerTag.Length() == 0 {
				return
			}

			question := normalizeWhitespace(questionTag.Text())
			answer := normalizeWhitespace(answerTag.Text())
			if question == "" || answer == "" {
				return
			}

			records = append(records, domain.FAQRecord{Question: question, Answer: answer})
		})
	})

	return records, nil
}

func matchesKeyword(heading string) bool {
	for _, keyword := range sectionKeywords {
		if strings.Contains(heading, keyword) {
			return true
		}
	}
	return false
}

// normalizeWhitespace collapses runs of whitespace to single spaces and
// trims the ends.
func normalizeWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
