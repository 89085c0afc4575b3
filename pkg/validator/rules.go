package validator

import (
	"fmt"
	"net/mail"
	"regexp"
	"slices"
	"strings"
	"time"
	"unicode/utf8"
)

var (
	usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)
	digitsRegex   = regexp.MustCompile(`^[0-9]+$`)
	phoneRegex    = regexp.MustCompile(`^\+?[0-9\s\-]{7,15}$`)
)

// RequiredString fails on empty or whitespace-only values.
func RequiredString(field, value string) Rule {
	return Rule{
		Check: func() bool { return strings.TrimSpace(value) != "" },
		Error: ValidationError{Field: field, Message: "is required"},
	}
}

// MinLenString fails when value is shorter than min runes. Empty values pass
// so optional fields can combine it with RequiredString.
func MinLenString(field, value string, min int) Rule {
	return Rule{
		Check: func() bool { return value == "" || utf8.RuneCountInString(value) >= min },
		Error: ValidationError{Field: field, Message: fmt.Sprintf("must be at least %d characters", min)},
	}
}

// MaxLenString fails when value is longer than max runes.
func MaxLenString(field, value string, max int) Rule {
	return Rule{
		Check: func() bool { return utf8.RuneCountInString(value) <= max },
		Error: ValidationError{Field: field, Message: fmt.Sprintf("must be at most %d characters", max)},
	}
}

// ValidEmail checks a basic local@domain.tld shape via the mail parser plus
// a dot requirement in the domain, matching typical web signup expectations.
func ValidEmail(field, value string) Rule {
	return Rule{
		Check: func() bool {
			value = strings.TrimSpace(value)
			if value == "" {
				return false
			}
			addr, err := mail.ParseAddress(value)
			if err != nil || addr.Address != value {
				return false
			}
			parts := strings.Split(value, "@")
			if len(parts) != 2 {
				return false
			}
			return strings.Contains(parts[1], ".")
		},
		Error: ValidationError{Field: field, Message: "must be a valid email address"},
	}
}

// ValidUsername allows alphanumerics and underscores within the length bounds.
func ValidUsername(field, value string, minLen, maxLen int) Rule {
	return Rule{
		Check: func() bool {
			n := utf8.RuneCountInString(value)
			if n < minLen || n > maxLen {
				return false
			}
			return usernameRegex.MatchString(value)
		},
		Error: ValidationError{
			Field:   field,
			Message: fmt.Sprintf("must be %d-%d characters of letters, digits or underscores", minLen, maxLen),
		},
	}
}

// ValidOTP checks an all-digit one-time code of exact length.
func ValidOTP(field, value string, length int) Rule {
	return Rule{
		Check: func() bool {
			return len(value) == length && digitsRegex.MatchString(value)
		},
		Error: ValidationError{Field: field, Message: fmt.Sprintf("must be a %d-digit code", length)},
	}
}

// ValidPhone accepts international-ish phone numbers: optional plus, digits,
// spaces and dashes, 7-15 significant characters.
func ValidPhone(field, value string) Rule {
	return Rule{
		Check: func() bool { return phoneRegex.MatchString(strings.TrimSpace(value)) },
		Error: ValidationError{Field: field, Message: "must be a valid phone number"},
	}
}

// OneOfString fails unless value is one of the allowed options.
func OneOfString(field, value string, options []string) Rule {
	return Rule{
		Check: func() bool { return slices.Contains(options, value) },
		Error: ValidationError{
			Field:   field,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(options, ", ")),
		},
	}
}

// MinAge fails when the birthdate makes the subject younger than minAge years.
func MinAge(field string, birthdate time.Time, minAge int) Rule {
	return Rule{
		Check: func() bool {
			if birthdate.IsZero() {
				return false
			}
			return !birthdate.After(time.Now().AddDate(-minAge, 0, 0))
		},
		Error: ValidationError{Field: field, Message: fmt.Sprintf("must be at least %d years old", minAge)},
	}
}

// LatitudeRange checks a latitude in degrees.
func LatitudeRange(field string, value float64) Rule {
	return Rule{
		Check: func() bool { return value >= -90 && value <= 90 },
		Error: ValidationError{Field: field, Message: "must be between -90 and 90"},
	}
}

// LongitudeRange checks a longitude in degrees.
func LongitudeRange(field string, value float64) Rule {
	return Rule{
		Check: func() bool { return value >= -180 && value <= 180 },
		Error: ValidationError{Field: field, Message: "must be between -180 and 180"},
	}
}

// Min fails when value is below min.
func Min[T Numeric](field string, value, min T) Rule {
	return Rule{
		Check: func() bool { return value >= min },
		Error: ValidationError{Field: field, Message: fmt.Sprintf("must be at least %v", min)},
	}
}

// Max fails when value is above max.
func Max[T Numeric](field string, value, max T) Rule {
	return Rule{
		Check: func() bool { return value <= max },
		Error: ValidationError{Field: field, Message: fmt.Sprintf("must be at most %v", max)},
	}
}
