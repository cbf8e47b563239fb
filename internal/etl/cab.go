// Package etl scrapes the Brown course catalog from its two public sources,
// normalizes the records, and merges them into one deduplicated corpus.
package etl

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/campuskit/courserag/internal/domain/course"
)

// Courses @ Brown (cab.brown.edu) is a JavaScript SPA backed by a FOSE JSON
// API. We call the API directly: one bulk search request for the listing,
// then one detail request per course for descriptions.
const (
	cabAPIURL = "https://cab.brown.edu/api/?page=fose"

	// DefaultMaxDetailFetches caps per-course detail requests per run.
	DefaultMaxDetailFetches = 300
)

// Semester codes to probe in order (YYYYTT: 20=Spring, 15=Fall, 10=Summer).
var cabSemesterCodes = []string{"202620", "202520", "202610", "202510"}

// Browser-like headers are required: a plain UA gets HTTP 202 with an empty body.
var cabHeaders = map[string]string{
	"User-Agent": "Mozilla/5.0 (Windows NT 10.0; Win64; x64) " +
		"AppleWebKit/537.36 (KHTML, like Gecko) " +
		"Chrome/120.0.0.0 Safari/537.36",
	"Accept":          "application/json, text/html, */*",
	"Accept-Language": "en-US,en;q=0.5",
	"Referer":         "https://cab.brown.edu/",
}

// Polite-scraping delay range.
const (
	delayMin = 500 * time.Millisecond
	delayMax = time.Second
)

func politeDelay(ctx context.Context) {
	d := delayMin + time.Duration(rand.Int63n(int64(delayMax-delayMin)))
	select {
	case <-ctx.Done():
	case <-time.After(d):
	}
}

// CABScraper fetches course records from the CAB FOSE API.
type CABScraper struct {
	client     *http.Client
	apiURL     string
	maxDetails int
	logger     *zap.Logger
}

// NewCABScraper creates a CAB scraper. maxDetails <= 0 uses the default cap.
func NewCABScraper(client *http.Client, maxDetails int, logger *zap.Logger) *CABScraper {
	if client == nil {
		client = &http.Client{Timeout: 90 * time.Second}
	}
	if maxDetails <= 0 {
		maxDetails = DefaultMaxDetailFetches
	}
	return &CABScraper{
		client:     client,
		apiURL:     cabAPIURL,
		maxDetails: maxDetails,
		logger:     logger,
	}
}

// WithAPIURL overrides the API endpoint. Used by tests.
func (s *CABScraper) WithAPIURL(url string) *CABScraper {
	s.apiURL = url
	return s
}

// cabSearchRow is one section row from the bulk search response.
type cabSearchRow struct {
	Code        string `json:"code"`
	Title       string `json:"title"`
	CRN         string `json:"crn"`
	Instr       string `json:"instr"`
	Meets       string `json:"meets"`
	IsCancelled string `json:"isCancelled"`
}

type cabSearchResponse struct {
	Count   int            `json:"count"`
	Results []cabSearchRow `json:"results"`
}

// cabDetail is the per-course detail payload.
type cabDetail struct {
	Description   string `json:"description"`
	MeetingHTML   string `json:"meeting_html"`
	Prereqs       string `json:"prereqs"`
	Prerequisites string `json:"prerequisites"`
	Fatal         string `json:"fatal"`
}

// Scrape runs the full CAB extraction: discover the active semester, bulk
// search, then enrich with per-course details. Only records with a populated
// description are returned.
func (s *CABScraper) Scrape(ctx context.Context) ([]course.Course, error) {
	srcdb, err := s.discoverSemester(ctx)
	if err != nil {
		return nil, err
	}
	if srcdb == "" {
		s.logger.Warn("Could not discover an active CAB semester")
		return nil, nil
	}

	rows, err := s.search(ctx, srcdb)
	if err != nil {
		return nil, fmt.Errorf("bulk search: %w", err)
	}
	s.logger.Info("CAB search returned section rows", zap.Int("rows", len(rows)))

	// Deduplicate by course code, keeping the first non-cancelled section.
	order := make([]string, 0, len(rows))
	byCode := make(map[string]cabSearchRow, len(rows))
	for _, r := range rows {
		code := course.CanonicalCode(r.Code)
		if code == "" || r.IsCancelled == "1" {
			continue
		}
		if _, ok := byCode[code]; !ok {
			byCode[code] = r
			order = append(order, code)
		}
	}
	s.logger.Info("Unique active course codes", zap.Int("codes", len(byCode)))

	records := make(map[string]*course.Course, len(byCode))
	for code, row := range byCode {
		if rec := searchRowToCourse(code, row); rec != nil {
			records[code] = rec
		}
	}

	detailCodes := order
	if len(detailCodes) > s.maxDetails {
		detailCodes = detailCodes[:s.maxDetails]
	}
	s.logger.Info("Fetching course details",
		zap.Int("fetching", len(detailCodes)),
		zap.Int("total", len(records)),
	)

	for i, code := range detailCodes {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rec, ok := records[code]
		if !ok {
			continue
		}
		row := byCode[code]
		if row.CRN == "" {
			continue
		}

		detail, err := s.fetchDetail(ctx, srcdb, row.Code, row.CRN)
		if err != nil {
			s.logger.Debug("Detail fetch failed", zap.String("code", code), zap.Error(err))
		} else if detail.Fatal != "" {
			s.logger.Debug("Detail API error", zap.String("code", code), zap.String("fatal", detail.Fatal))
		} else {
			enrichWithDetail(rec, detail)
		}

		politeDelay(ctx)
		if (i+1)%50 == 0 {
			s.logger.Info("Detail fetch progress", zap.Int("fetched", i+1), zap.Int("of", len(detailCodes)))
		}
	}

	// Keep only records with descriptions.
	final := make([]course.Course, 0, len(records))
	for _, code := range order {
		if rec, ok := records[code]; ok && rec.Description != "" {
			final = append(final, *rec)
		}
	}
	s.logger.Info("CAB scraper finished", zap.Int("records", len(final)))
	return final, nil
}

// discoverSemester probes candidate semester codes and returns the first with
// results, or "" when none respond.
func (s *CABScraper) discoverSemester(ctx context.Context) (string, error) {
	for _, code := range cabSemesterCodes {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		resp, err := s.searchRequest(ctx, code)
		if err != nil {
			s.logger.Debug("Semester probe failed", zap.String("srcdb", code), zap.Error(err))
		} else if resp.Count > 0 {
			s.logger.Info("Discovered semester",
				zap.String("srcdb", code),
				zap.Int("courses", resp.Count),
			)
			return code, nil
		}
		politeDelay(ctx)
	}
	return "", nil
}

func (s *CABScraper) search(ctx context.Context, srcdb string) ([]cabSearchRow, error) {
	resp, err := s.searchRequest(ctx, srcdb)
	if err != nil {
		return nil, err
	}
	return resp.Results, nil
}

func (s *CABScraper) searchRequest(ctx context.Context, srcdb string) (cabSearchResponse, error) {
	payload := map[string]any{
		"other":    map[string]string{"srcdb": srcdb},
		"criteria": []map[string]string{{"field": "is_ind_study", "value": "N"}},
	}

	var out cabSearchResponse
	if err := s.postJSON(ctx, s.apiURL+"&route=search", payload, &out); err != nil {
		return cabSearchResponse{}, err
	}
	return out, nil
}

func (s *CABScraper) fetchDetail(ctx context.Context, srcdb, code, crn string) (cabDetail, error) {
	payload := map[string]string{
		"group":   "code:" + code,
		"key":     "crn:" + crn,
		"srcdb":   srcdb,
		"matched": "crn:" + crn,
	}

	var out cabDetail
	if err := s.postJSON(ctx, s.apiURL+"&route=details", payload, &out); err != nil {
		return cabDetail{}, err
	}
	return out, nil
}

func (s *CABScraper) postJSON(ctx context.Context, url string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	for k, v := range cabHeaders {
		req.Header.Set(k, v)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("post %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("post %s: unexpected status %d", url, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// searchRowToCourse converts a search row to a Course without a description.
func searchRowToCourse(code string, row cabSearchRow) *course.Course {
	title := collapseWhitespace(row.Title)
	if code == "" || title == "" {
		return nil
	}
	return &course.Course{
		Code:         code,
		Title:        title,
		Department:   course.DepartmentForCode(code),
		Instructor:   collapseWhitespace(row.Instr),
		MeetingTimes: stripHTML(row.Meets),
		Source:       course.SourceCAB,
	}
}

// enrichWithDetail fills the record from the detail payload.
func enrichWithDetail(rec *course.Course, detail cabDetail) {
	if desc := stripHTML(detail.Description); desc != "" {
		rec.Description = desc
	}
	if meeting := stripHTML(detail.MeetingHTML); meeting != "" && rec.MeetingTimes == "" {
		rec.MeetingTimes = meeting
	}
	prereq := detail.Prereqs
	if prereq == "" {
		prereq = detail.Prerequisites
	}
	if p := stripHTML(prereq); p != "" {
		rec.Prerequisites = p
	}
}
