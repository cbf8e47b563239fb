// Package filter defines post-fusion attribute predicates.
package filter

import (
	"fmt"
	"strings"

	"github.com/campuskit/courserag/internal/domain/course"
)

// MaxConditions is the maximum number of predicates per expression.
const MaxConditions = 16

// Condition is a single attribute predicate over a course record.
type Condition struct {
	matches func(course.Course) bool
	desc    string
}

// DepartmentContains matches records whose department contains the value,
// case-insensitively.
func DepartmentContains(value string) (Condition, error) {
	if value == "" {
		return Condition{}, fmt.Errorf("department filter value is required")
	}
	needle := strings.ToLower(value)
	return Condition{
		matches: func(c course.Course) bool {
			return strings.Contains(strings.ToLower(c.Department), needle)
		},
		desc: "department~" + value,
	}, nil
}

// SourceEquals matches records with the exact provenance tag (case-insensitive).
func SourceEquals(value string) (Condition, error) {
	if value == "" {
		return Condition{}, fmt.Errorf("source filter value is required")
	}
	want := strings.ToUpper(value)
	return Condition{
		matches: func(c course.Course) bool {
			return strings.ToUpper(c.Source) == want
		},
		desc: "source=" + value,
	}, nil
}

// Matches reports whether the record passes this predicate.
func (c Condition) Matches(rec course.Course) bool { return c.matches(rec) }

// String describes the predicate for logging.
func (c Condition) String() string { return c.desc }

// Expression is a conjunction of predicates: every condition must pass.
type Expression struct {
	conditions []Condition
}

// NewExpression validates and creates a filter Expression.
func NewExpression(conditions ...Condition) (Expression, error) {
	if len(conditions) > MaxConditions {
		return Expression{}, fmt.Errorf("too many filter conditions (max %d)", MaxConditions)
	}
	return Expression{conditions: conditions}, nil
}

// IsEmpty reports whether the expression has no conditions.
func (e Expression) IsEmpty() bool { return len(e.conditions) == 0 }

// Matches reports whether the record passes every condition.
func (e Expression) Matches(rec course.Course) bool {
	for _, c := range e.conditions {
		if !c.Matches(rec) {
			return false
		}
	}
	return true
}
