// Package course defines the unified course-catalog record shared by the ETL
// pipeline, the index artifacts, and the retrieval engine.
package course

import (
	"fmt"
	"regexp"
	"strings"
)

// Provenance tags identifying which scraper produced a record.
const (
	SourceCAB      = "CAB"
	SourceBulletin = "BULLETIN"
)

// Course is an immutable catalog record. Records are assigned a dense,
// zero-based ordinal at index-build time; the ordinal is the join key
// between the embedding matrix and this metadata.
type Course struct {
	Code          string `json:"course_code"`
	Title         string `json:"title"`
	Department    string `json:"department"`
	Description   string `json:"description"`
	Instructor    string `json:"instructor,omitempty"`
	MeetingTimes  string `json:"meeting_times,omitempty"`
	Prerequisites string `json:"prerequisites,omitempty"`
	Source        string `json:"source"`
}

// EmbedText builds the dense text representation used for both the embedding
// leg and the lexical leg, so the two indexes score the same surface form.
func (c Course) EmbedText() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s – %s. %s.", c.Code, c.Title, c.Department, c.Description)
	if c.Prerequisites != "" {
		fmt.Fprintf(&b, " Prerequisites: %s.", c.Prerequisites)
	}
	return b.String()
}

// IsValid reports whether the record carries the required fields.
func (c Course) IsValid() bool {
	return c.Code != "" && c.Title != "" && c.Source != ""
}

// Merge fills empty fields of c from other and returns the result.
// c's non-empty fields always win; provenance stays with c.
func (c Course) Merge(other Course) Course {
	if c.Title == "" {
		c.Title = other.Title
	}
	if c.Department == "" {
		c.Department = other.Department
	}
	if len(other.Description) > len(c.Description) {
		c.Description = other.Description
	}
	if c.Instructor == "" {
		c.Instructor = other.Instructor
	}
	if c.MeetingTimes == "" {
		c.MeetingTimes = other.MeetingTimes
	}
	if c.Prerequisites == "" {
		c.Prerequisites = other.Prerequisites
	}
	return c
}

var wsRe = regexp.MustCompile(`\s+`)

// CanonicalCode strips whitespace and uppercases a course code
// ("csci 0320" -> "CSCI0320").
func CanonicalCode(code string) string {
	return strings.ToUpper(wsRe.ReplaceAllString(code, ""))
}

var codePrefixRe = regexp.MustCompile(`^[A-Z]+`)

// DepartmentForCode resolves a human-readable department name from a course
// code prefix, falling back to the prefix itself for unknown departments.
func DepartmentForCode(code string) string {
	prefix := codePrefixRe.FindString(CanonicalCode(code))
	if name, ok := deptCodeNames[prefix]; ok {
		return name
	}
	return prefix
}

var deptCodeNames = map[string]string{
	"AFRI": "Africana Studies",
	"AMST": "American Studies",
	"ANTH": "Anthropology",
	"APMA": "Applied Mathematics",
	"ARCH": "Architecture",
	"BIOL": "Biology",
	"CHEM": "Chemistry",
	"CLAS": "Classics",
	"CLPS": "Cognitive, Linguistic & Psychological Sciences",
	"COLT": "Comparative Literature",
	"CSCI": "Computer Science",
	"EAST": "East Asian Studies",
	"ECON": "Economics",
	"EDUC": "Education",
	"ENGL": "English",
	"ENGN": "Engineering",
	"ENVS": "Environmental Studies",
	"FREN": "French Studies",
	"GEOL": "Earth, Environmental and Planetary Sciences",
	"GERM": "German Studies",
	"HIAA": "History of Art and Architecture",
	"HIST": "History",
	"IAPA": "International and Public Affairs",
	"ITAL": "Italian Studies",
	"JAPN": "Japanese",
	"LITR": "Literary Arts",
	"MATH": "Mathematics",
	"MCM":  "Modern Culture and Media",
	"MUSC": "Music",
	"NEUR": "Neuroscience",
	"PHIL": "Philosophy",
	"PHP":  "Public Health",
	"PHYS": "Physics",
	"POLS": "Political Science",
	"RELS": "Religious Studies",
	"SOC":  "Sociology",
	"TAPS": "Theatre Arts and Performance Studies",
	"VISA": "Visual Art",
}
