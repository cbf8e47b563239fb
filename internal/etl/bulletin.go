package etl

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/net/html"

	"github.com/campuskit/courserag/internal/domain/course"
)

// The Brown Bulletin (bulletin.brown.edu) is static HTML. Extraction walks
// the concentrations index for department pages, collects /search/?P=CODE
// links from each, then parses every unique course page.
const (
	bulletinBaseURL = "https://bulletin.brown.edu"

	bulletinUserAgent = "courserag-etl/1.0 (academic project; polite scraper)"

	// DefaultMaxCourseFetches caps course-detail pages per run.
	DefaultMaxCourseFetches = 250
)

var (
	courseCodeRe = regexp.MustCompile(`([A-Z]{2,6})\s*(\d{4}[A-Z]?)`)
	prereqRe     = regexp.MustCompile(`(?i)(?:Prerequisites?|Prereqs?):\s*(.+?)(?:\.(?:\s|$)|$)`)
)

// BulletinScraper fetches course records from the Brown Bulletin.
type BulletinScraper struct {
	client     *http.Client
	baseURL    string
	maxFetches int
	logger     *zap.Logger
}

// NewBulletinScraper creates a Bulletin scraper. maxFetches <= 0 uses the default cap.
func NewBulletinScraper(client *http.Client, maxFetches int, logger *zap.Logger) *BulletinScraper {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	if maxFetches <= 0 {
		maxFetches = DefaultMaxCourseFetches
	}
	return &BulletinScraper{
		client:     client,
		baseURL:    bulletinBaseURL,
		maxFetches: maxFetches,
		logger:     logger,
	}
}

// WithBaseURL overrides the site root. Used by tests.
func (s *BulletinScraper) WithBaseURL(url string) *BulletinScraper {
	s.baseURL = url
	return s
}

// Scrape runs the full Bulletin extraction. Only records with a populated
// description are returned.
func (s *BulletinScraper) Scrape(ctx context.Context) ([]course.Course, error) {
	deptURLs, err := s.discoverConcentrations(ctx)
	if err != nil {
		return nil, err
	}
	if len(deptURLs) == 0 {
		s.logger.Warn("No concentration pages found on Bulletin")
		return nil, nil
	}
	s.logger.Info("Found concentration pages", zap.Int("pages", len(deptURLs)))

	codes, codeToURL := s.collectCourseLinks(ctx, deptURLs)
	if len(codes) == 0 {
		s.logger.Warn("No course links found on concentration pages")
		return nil, nil
	}
	s.logger.Info("Collected unique course codes", zap.Int("codes", len(codes)))

	if len(codes) > s.maxFetches {
		codes = codes[:s.maxFetches]
	}
	s.logger.Info("Fetching course detail pages", zap.Int("pages", len(codes)))

	var records []course.Course
	for i, code := range codes {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		politeDelay(ctx)

		body, err := s.get(ctx, codeToURL[code])
		if err != nil {
			s.logger.Debug("Course page fetch failed", zap.String("code", code), zap.Error(err))
			continue
		}

		rec, ok := parseBulletinCoursePage(body)
		if !ok || rec.Description == "" {
			continue
		}
		records = append(records, rec)

		if (i+1)%50 == 0 {
			s.logger.Info("Course page progress",
				zap.Int("fetched", i+1),
				zap.Int("of", len(codes)),
				zap.Int("records", len(records)),
			)
		}
	}

	s.logger.Info("Bulletin scraper finished", zap.Int("records", len(records)))
	return records, nil
}

// discoverConcentrations returns unique concentration page URLs from the index.
func (s *BulletinScraper) discoverConcentrations(ctx context.Context) ([]string, error) {
	indexURL := s.baseURL + "/the-college/concentrations/"
	body, err := s.get(ctx, indexURL)
	if err != nil {
		return nil, fmt.Errorf("fetch concentrations index: %w", err)
	}

	root, err := html.Parse(strings.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse concentrations index: %w", err)
	}

	seen := make(map[string]bool)
	var urls []string
	for _, a := range findAll(root, isAnchor) {
		href := attrVal(a, "href")
		if !strings.HasPrefix(href, "/the-college/concentrations/") ||
			href == "/the-college/concentrations/" ||
			nodeText(a) == "" {
			continue
		}
		full := s.baseURL + href
		if !seen[full] {
			seen[full] = true
			urls = append(urls, full)
		}
	}
	return urls, nil
}

// collectCourseLinks gathers /search/?P=CODE links across concentration
// pages, returning codes in discovery order with their page URLs.
func (s *BulletinScraper) collectCourseLinks(
	ctx context.Context, deptURLs []string,
) ([]string, map[string]string) {
	var codes []string
	codeToURL := make(map[string]string)

	for i, deptURL := range deptURLs {
		if ctx.Err() != nil {
			break
		}
		politeDelay(ctx)

		body, err := s.get(ctx, deptURL)
		if err != nil {
			continue
		}
		root, err := html.Parse(strings.NewReader(body))
		if err != nil {
			continue
		}

		for _, a := range findAll(root, isAnchor) {
			href := attrVal(a, "href")
			if !strings.Contains(href, "/search/?P=") {
				continue
			}
			parsed, err := url.Parse(href)
			if err != nil {
				continue
			}
			rawCode := parsed.Query().Get("P")
			if rawCode == "" {
				continue
			}
			code := course.CanonicalCode(rawCode)
			if !courseCodeRe.MatchString(code) {
				continue
			}
			if _, ok := codeToURL[code]; !ok {
				codeToURL[code] = s.baseURL + "/search/?P=" + url.QueryEscape(rawCode)
				codes = append(codes, code)
			}
		}

		if (i+1)%20 == 0 {
			s.logger.Info("Concentration scan progress",
				zap.Int("scanned", i+1),
				zap.Int("of", len(deptURLs)),
				zap.Int("codes", len(codeToURL)),
			)
		}
	}
	return codes, codeToURL
}

func (s *BulletinScraper) get(ctx context.Context, pageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", bulletinUserAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("get %s: %w", pageURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("get %s: unexpected status %d", pageURL, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	return string(data), nil
}

func isAnchor(n *html.Node) bool {
	return n.Type == html.ElementNode && n.Data == "a"
}

// parseBulletinCoursePage extracts one course from a /search/?P= page:
//
//	<article class="search-courseresult">
//	  <h3>CSCI 0150.  Introduction to OOP ...</h3>
//	  <div class="courseblock">
//	    <p class="courseblockdesc">...description...</p>
//	  </div>
//	</article>
func parseBulletinCoursePage(body string) (course.Course, bool) {
	root, err := html.Parse(strings.NewReader(body))
	if err != nil {
		return course.Course{}, false
	}

	articles := findAll(root, func(n *html.Node) bool {
		return n.Type == html.ElementNode && n.Data == "article" && hasClass(n, "search-courseresult")
	})
	if len(articles) == 0 {
		return course.Course{}, false
	}
	article := articles[0]

	// Title line: "CSCI 0150.  Introduction to ..."
	headings := findAll(article, func(n *html.Node) bool {
		return n.Type == html.ElementNode && n.Data == "h3"
	})
	if len(headings) == 0 {
		return course.Course{}, false
	}
	headingText := nodeText(headings[0])

	loc := courseCodeRe.FindStringIndex(headingText)
	if loc == nil {
		return course.Course{}, false
	}
	code := course.CanonicalCode(headingText[loc[0]:loc[1]])
	title := strings.TrimSpace(headingText[loc[1]:])
	title = strings.TrimSpace(strings.TrimLeft(title, "."))
	title = strings.TrimRight(title, ".")

	var desc string
	if descs := findAll(article, func(n *html.Node) bool {
		return hasClass(n, "courseblockdesc")
	}); len(descs) > 0 {
		desc = nodeText(descs[0])
	}

	var prereq string
	if m := prereqRe.FindStringSubmatch(desc); m != nil {
		prereq = strings.TrimSpace(m[1])
	}

	return course.Course{
		Code:          code,
		Title:         title,
		Department:    course.DepartmentForCode(code),
		Description:   desc,
		Prerequisites: prereq,
		Source:        course.SourceBulletin,
	}, true
}
