package enums

import "fmt"

// Visibility defines the access class of an image or album record.
type Visibility string

const (
	VisibilityPublic   Visibility = "public"
	VisibilityUnlisted Visibility = "unlisted"
	VisibilityPrivate  Visibility = "private"
)

var validVisibilities = []Visibility{
	VisibilityPublic,
	VisibilityUnlisted,
	VisibilityPrivate,
}

// String returns the literal string for the visibility.
func (v Visibility) String() string {
	return string(v)
}

// IsValid reports whether the visibility is known.
func (v Visibility) IsValid() bool {
	for _, candidate := range validVisibilities {
		if candidate == v {
			return true
		}
	}
	return false
}

// ParseVisibility converts raw input into a Visibility.
func ParseVisibility(value string) (Visibility, error) {
	for _, candidate := range validVisibilities {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid visibility %q", value)
}

// NormalizeVisibility maps unrecognized or empty input to public.
func NormalizeVisibility(value string) Visibility {
	if parsed, err := ParseVisibility(value); err == nil {
		return parsed
	}
	return VisibilityPublic
}
