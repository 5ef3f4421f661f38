//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"strconv"
	"strings"
	"unicode/utf8"

	apperrors "github.com/medexjob/medexjob-api/internal/errors"
)

// requireText trims *v in place and checks it is non-empty and within maxLen runes.
func requireText(field string, v *string, maxLen int) error {
	*v = strings.TrimSpace(*v)
	if *v == "" {
		return apperrors.ValidationField(field, field+" is required and cannot be empty")
	}
	return checkLen(field, *v, maxLen)
}

// optionalText trims *v in place (when set) and checks its length.
func optionalText(field string, v *string, maxLen int) error {
	if v == nil {
		return nil
	}
	*v = strings.TrimSpace(*v)
	return checkLen(field, *v, maxLen)
}

// nonEmptyText is optionalText that also rejects a blank value.
func nonEmptyText(field string, v *string, maxLen int) error {
	if v == nil {
		return nil
	}
	*v = strings.TrimSpace(*v)
	if *v == "" {
		return apperrors.ValidationField(field, field+" cannot be empty")
	}
	return checkLen(field, *v, maxLen)
}

func checkLen(field, v string, maxLen int) error {
	if maxLen > 0 && utf8.RuneCountInString(v) > maxLen {
		return apperrors.ValidationField(field, field+" cannot exceed "+strconv.Itoa(maxLen)+" characters")
	}
	return nil
}

// cleanList trims entries, drops blanks and duplicates (case-insensitive) and enforces a cap.
func cleanList(field string, in []string, maxItems, maxLen int) ([]string, error) {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		key := strings.ToLower(s)
		if _, ok := seen[key]; ok {
			continue
		}
		if err := checkLen(field, s, maxLen); err != nil {
			return nil, err
		}
		seen[key] = struct{}{}
		out = append(out, s)
	}
	if len(out) > maxItems {
		return nil, apperrors.ValidationField(field, field+" cannot exceed "+strconv.Itoa(maxItems)+" entries")
	}
	return out, nil
}

func errNoUpdates() error {
	return apperrors.Validation("at least one field must be updated")
}

// ListOptions carries paging and sort settings shared by list endpoints.
type ListOptions struct {
	Limit  int
	Offset int
	Sort   string
	Dir    string // "asc" or "desc"
}
