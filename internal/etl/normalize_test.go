package etl

import (
	"testing"

	"go.uber.org/zap"

	"github.com/campuskit/courserag/internal/domain/course"
)

func TestNormalizeAll(t *testing.T) {
	in := []course.Course{
		{Code: "csci 0150", Title: "  Intro   Programming ", Description: "Learn\nOOP",
			Source: course.SourceCAB},
		{Code: "APMA2070", Title: "", Description: "untitled", Source: course.SourceCAB},    // no title
		{Code: "", Title: "Orphan", Description: "no code", Source: course.SourceBulletin}, // no code
	}

	got := NormalizeAll(in, zap.NewNop())
	if len(got) != 1 {
		t.Fatalf("kept %d records, want 1: %+v", len(got), got)
	}
	if got[0].Code != "CSCI0150" {
		t.Errorf("code = %q, want CSCI0150", got[0].Code)
	}
	if got[0].Title != "Intro Programming" {
		t.Errorf("title = %q, want collapsed whitespace", got[0].Title)
	}
	if got[0].Description != "Learn OOP" {
		t.Errorf("description = %q", got[0].Description)
	}
}

func TestDeduplicatePrefersCAB(t *testing.T) {
	in := []course.Course{
		{Code: "CSCI0150", Title: "Intro to Object-Oriented Programming",
			Description: "Short.", Prerequisites: "None", Source: course.SourceBulletin},
		{Code: "CSCI0150", Title: "Intro Programming", Instructor: "A. Professor",
			Description: "A much longer and richer description of the course.",
			Source:      course.SourceCAB},
	}

	got := Deduplicate(in, zap.NewNop())
	if len(got) != 1 {
		t.Fatalf("got %d records, want 1", len(got))
	}
	merged := got[0]
	if merged.Title != "Intro Programming" {
		t.Errorf("title = %q, CAB title should win", merged.Title)
	}
	if merged.Instructor != "A. Professor" {
		t.Errorf("instructor = %q, CAB instructor should survive", merged.Instructor)
	}
	if merged.Prerequisites != "None" {
		t.Errorf("prerequisites = %q, Bulletin should fill the gap", merged.Prerequisites)
	}
	if merged.Source != course.SourceCAB {
		t.Errorf("source = %q, want %q", merged.Source, course.SourceCAB)
	}
}

func TestDeduplicateSortsByCode(t *testing.T) {
	in := []course.Course{
		{Code: "MATH0520", Title: "Linear Algebra", Description: "Vectors", Source: course.SourceCAB},
		{Code: "APMA2070", Title: "Deep Learning", Description: "Networks", Source: course.SourceCAB},
		{Code: "CSCI0150", Title: "Intro Programming", Description: "OOP", Source: course.SourceCAB},
	}

	got := Deduplicate(in, zap.NewNop())
	if len(got) != 3 {
		t.Fatalf("got %d records, want 3", len(got))
	}
	want := []string{"APMA2070", "CSCI0150", "MATH0520"}
	for i, code := range want {
		if got[i].Code != code {
			t.Errorf("got[%d].Code = %q, want %q", i, got[i].Code, code)
		}
	}
}

func TestDeduplicateNoDuplicatesPassThrough(t *testing.T) {
	in := []course.Course{
		{Code: "CSCI0150", Title: "Intro Programming", Description: "OOP", Source: course.SourceCAB},
	}
	got := Deduplicate(in, zap.NewNop())
	if len(got) != 1 || got[0].Code != "CSCI0150" {
		t.Errorf("got %+v", got)
	}
}
