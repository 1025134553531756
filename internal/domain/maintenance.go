package domain

import "time"

// ValidateNewWindow checks a maintenance window at creation: the end must be
// strictly after the start and the start strictly in the future.
func ValidateNewWindow(start, end, now time.Time) error {
	var fields []FieldError

	if !start.After(now) {
		fields = append(fields, FieldError{Field: "start", Message: "Start date must be in the future"})
	}

	if !end.After(start) {
		fields = append(fields, FieldError{Field: "end", Message: "End date must be after start date"})
	}

	if len(fields) > 0 {
		return Validation("Validation failed", fields...)
	}

	return nil
}

// ValidateWindowUpdate checks a partial update. Omitted bounds skip their
// checks entirely; ordering is only re-validated when both are supplied, and
// a start that has meanwhile passed is not re-validated.
func ValidateWindowUpdate(start, end *time.Time) error {
	if start != nil && end != nil && !end.After(*start) {
		return Validation("Validation failed",
			FieldError{Field: "end", Message: "End date must be after start date"})
	}

	return nil
}
