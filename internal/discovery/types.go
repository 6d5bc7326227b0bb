package discovery

import (
	"math"
	"regexp"
	"strings"
	"unicode/utf8"
)

// FieldType is the detected type of a field value.
type FieldType string

const (
	TypeNull     FieldType = "null"
	TypeBoolean  FieldType = "boolean"
	TypeInteger  FieldType = "integer"
	TypeNumber   FieldType = "number"
	TypeString   FieldType = "string"
	TypeDate     FieldType = "date"
	TypeDateTime FieldType = "datetime"
	TypeUUID     FieldType = "uuid"
	TypeURL      FieldType = "url"
	TypeEmail    FieldType = "email"
	TypeArray    FieldType = "array"
	TypeObject   FieldType = "object"
	TypeUnknown  FieldType = "unknown"
)

var (
	datePatterns = []*regexp.Regexp{
		regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`),
		regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}`),
		regexp.MustCompile(`^\d{2}/\d{2}/\d{4}$`),
	}
	uuidPattern  = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)
	urlPattern   = regexp.MustCompile(`^https?://`)
	emailPattern = regexp.MustCompile(`^[^@]+@[^@]+\.[^@]+$`)
	phonePattern = regexp.MustCompile(`^[\d\-()\s+]+$`)
)

const (
	maxSampleLen   = 50
	truncatedLen   = 47
	minPhoneLen    = 10
	phoneTailLen   = 4
	emailKeepChars = 2
)

// DetectType classifies a decoded JSON value. Whole numbers count as
// integers since JSON decoding yields float64 for every number.
func DetectType(v any) FieldType {
	switch val := v.(type) {
	case nil:
		return TypeNull
	case bool:
		return TypeBoolean
	case int, int32, int64:
		return TypeInteger
	case float64:
		if val == math.Trunc(val) && !math.IsInf(val, 0) {
			return TypeInteger
		}
		return TypeNumber
	case float32:
		return TypeNumber
	case string:
		return detectString(val)
	case []any:
		return TypeArray
	case map[string]any:
		return TypeObject
	default:
		return TypeUnknown
	}
}

func detectString(s string) FieldType {
	for _, p := range datePatterns {
		if p.MatchString(s) {
			if strings.Contains(s, "T") {
				return TypeDateTime
			}
			return TypeDate
		}
	}
	switch {
	case uuidPattern.MatchString(s):
		return TypeUUID
	case urlPattern.MatchString(s):
		return TypeURL
	case emailPattern.MatchString(s):
		return TypeEmail
	}
	return TypeString
}

// SanitizeSample masks email addresses and phone numbers and truncates
// long strings. Other values are returned unchanged.
func SanitizeSample(v any) any {
	s, ok := v.(string)
	if !ok {
		return v
	}

	if strings.Contains(s, "@") && strings.Contains(s, ".") {
		parts := strings.Split(s, "@")
		local := parts[0]
		if len(local) > emailKeepChars {
			local = local[:emailKeepChars]
		}
		return local + "***@" + parts[1]
	}

	if phonePattern.MatchString(s) && len(s) >= minPhoneLen {
		return "***-***-" + s[len(s)-phoneTailLen:]
	}

	if utf8.RuneCountInString(s) > maxSampleLen {
		return string([]rune(s)[:truncatedLen]) + "..."
	}
	return s
}
