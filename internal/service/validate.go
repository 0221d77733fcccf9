package service

import (
	"math"
	"strconv"
	"strings"
	"time"

	apperrors "taskboard/internal/errors"
)

const dateOnlyLayout = "2006-01-02"

// fieldPresent reports whether a loosely typed JSON value counts as supplied.
func fieldPresent(v any) bool {
	switch val := v.(type) {
	case nil:
		return false
	case string:
		return strings.TrimSpace(val) != ""
	default:
		return true
	}
}

// parseBudget coerces a JSON number or numeric string into a finite float64.
func parseBudget(v any) (float64, error) {
	switch val := v.(type) {
	case float64:
		if math.IsNaN(val) || math.IsInf(val, 0) {
			return 0, apperrors.NewValidationError("budget must be a number")
		}
		return val, nil
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil || math.IsNaN(parsed) || math.IsInf(parsed, 0) {
			return 0, apperrors.NewValidationError("budget must be a number")
		}
		return parsed, nil
	default:
		return 0, apperrors.NewValidationError("budget must be a number")
	}
}

// parseDeadline accepts RFC 3339 timestamps, YYYY-MM-DD dates, or an epoch in
// milliseconds and converts to an absolute UTC timestamp.
func parseDeadline(v any) (time.Time, error) {
	switch val := v.(type) {
	case string:
		raw := strings.TrimSpace(val)
		if t, err := time.Parse(time.RFC3339, raw); err == nil {
			return t.UTC(), nil
		}
		if t, err := time.Parse(dateOnlyLayout, raw); err == nil {
			return t.UTC(), nil
		}
	case float64:
		if !math.IsNaN(val) && !math.IsInf(val, 0) {
			return time.UnixMilli(int64(val)).UTC(), nil
		}
	}
	return time.Time{}, apperrors.NewValidationError("invalid deadline")
}

// validateTaskFields runs the ordered presence checks shared by task creation
// and update. The first failing field short-circuits with its own message;
// deadline parsing happens after all presence checks pass.
func validateTaskFields(title, category, description string, deadline, budget any) (fieldSet, error) {
	var err error
	fields := fieldSet{}

	fields.Title = strings.TrimSpace(title)
	if fields.Title == "" {
		return fields, apperrors.NewValidationError("title is required")
	}
	fields.Category = strings.TrimSpace(category)
	if fields.Category == "" {
		return fields, apperrors.NewValidationError("category is required")
	}
	fields.Description = strings.TrimSpace(description)
	if fields.Description == "" {
		return fields, apperrors.NewValidationError("description is required")
	}
	if !fieldPresent(deadline) {
		return fields, apperrors.NewValidationError("deadline is required")
	}
	if !fieldPresent(budget) {
		return fields, apperrors.NewValidationError("budget is required")
	}
	fields.Budget, err = parseBudget(budget)
	if err != nil {
		return fields, err
	}

	fields.rawDeadline = deadline
	return fields, nil
}

// fieldSet holds validated task fields; the deadline stays raw until
// finishDeadline so presence checks on later fields run first.
type fieldSet struct {
	Title       string
	Category    string
	Description string
	Budget      float64
	rawDeadline any
}

func (f *fieldSet) finishDeadline() (time.Time, error) {
	return parseDeadline(f.rawDeadline)
}
