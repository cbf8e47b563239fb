package etl

import (
	"sort"

	"go.uber.org/zap"

	"github.com/campuskit/courserag/internal/domain/course"
)

// NormalizeAll applies field-level cleaning to every record and drops
// records missing required fields.
func NormalizeAll(records []course.Course, logger *zap.Logger) []course.Course {
	good := make([]course.Course, 0, len(records))
	dropped := 0
	for _, rec := range records {
		rec = normalizeRecord(rec)
		if rec.IsValid() {
			good = append(good, rec)
		} else {
			dropped++
		}
	}
	if dropped > 0 {
		logger.Info("Dropped invalid records during normalization", zap.Int("dropped", dropped))
	}
	return good
}

func normalizeRecord(rec course.Course) course.Course {
	rec.Code = course.CanonicalCode(rec.Code)
	rec.Title = collapseWhitespace(rec.Title)
	rec.Department = collapseWhitespace(rec.Department)
	rec.Description = collapseWhitespace(rec.Description)
	rec.Instructor = collapseWhitespace(rec.Instructor)
	rec.MeetingTimes = collapseWhitespace(rec.MeetingTimes)
	rec.Prerequisites = collapseWhitespace(rec.Prerequisites)
	return rec
}

// Deduplicate merges records sharing a course code. CAB values are preferred
// on conflict; non-empty Bulletin fields fill gaps. The output is sorted by
// course code so index builds are reproducible.
func Deduplicate(records []course.Course, logger *zap.Logger) []course.Course {
	byCode := make(map[string][]course.Course)
	for _, rec := range records {
		byCode[rec.Code] = append(byCode[rec.Code], rec)
	}

	codes := make([]string, 0, len(byCode))
	for code := range byCode {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	merged := make([]course.Course, 0, len(byCode))
	mergeCount := 0
	for _, code := range codes {
		group := byCode[code]
		if len(group) == 1 {
			merged = append(merged, group[0])
			continue
		}
		mergeCount++

		base := group[0]
		for _, rec := range group {
			if rec.Source == course.SourceCAB {
				base = rec
				break
			}
		}
		for _, other := range group {
			base = base.Merge(other)
		}
		merged = append(merged, base)
	}

	logger.Info("Deduplicated records",
		zap.Int("in", len(records)),
		zap.Int("out", len(merged)),
		zap.Int("merges", mergeCount),
	)
	return merged
}
