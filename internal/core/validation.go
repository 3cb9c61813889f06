package core

// validation.go checks each row against its profile's field specs.
//
// Every field is evaluated even when an earlier one failed, so a row reports
// all of its problems at once. Messages are complete sentences that name the
// field and the violated constraint; they never contain commas so that the
// invalid-rows export can be edited and re-uploaded as-is.

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

// Rule defaults.
const (
	DefaultMinLen      = 2
	DefaultMaxLen      = 100
	DefaultMinDigits   = 7
	DefaultMaxDigits   = 15
	DefaultFeeCeiling  = 10_000_000
	dateDisplayFormats = "YYYY-MM-DD or DD/MM/YYYY"
)

var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

var dateLayouts = []string{"2006-01-02", "02/01/2006", "2/1/2006", "2006/01/02"}

// now is replaced in tests.
var now = time.Now

// RowValidator validates rows against a profile's field specs.
type RowValidator struct {
	fields []FieldSpec
	cols   ColumnMap
}

// NewRowValidator creates a validator for the given fields and column mapping.
func NewRowValidator(fields []FieldSpec, cols ColumnMap) *RowValidator {
	return &RowValidator{fields: fields, cols: cols}
}

// Validate produces exactly one ValidatedRow for raw. It never fails.
func (v *RowValidator) Validate(raw RawRow) ValidatedRow {
	row := ValidatedRow{
		Line:   raw.Line,
		Fields: make(map[string]string, len(v.fields)),
	}

	for _, f := range v.fields {
		value := ""
		if pos, ok := v.cols[f.Name]; ok && pos < len(raw.Cells) {
			value = strings.TrimSpace(raw.Cells[pos])
		}
		row.Fields[f.Name] = value

		if msg := CheckField(f, value); msg != "" {
			row.Errors = append(row.Errors, msg)
		}
	}

	row.Valid = len(row.Errors) == 0
	return row
}

// ValidateAll validates every parsed row in file order.
func ValidateAll(parsed *ParsedFile, profile Profile) []ValidatedRow {
	v := NewRowValidator(profile.Fields, parsed.Columns)
	rows := make([]ValidatedRow, len(parsed.Rows))
	for i, raw := range parsed.Rows {
		rows[i] = v.Validate(raw)
	}
	return rows
}

// CheckField returns a user-facing message when value violates the field's
// rule, or "" when it passes.
func CheckField(f FieldSpec, value string) string {
	label := f.label()

	if value == "" {
		if f.Rule.Optional {
			return ""
		}
		return fmt.Sprintf("%s is required.", label)
	}

	switch f.Rule.Kind {
	case RuleText:
		return checkText(label, f.Rule, value)
	case RulePhone:
		return checkPhone(label, f.Rule, value)
	case RuleMoney:
		return checkMoney(label, f.Rule, value)
	case RuleEmail:
		if !emailRegex.MatchString(value) {
			return fmt.Sprintf("%s must be a valid email address such as name@example.com.", label)
		}
	case RuleDate:
		t, ok := ParseDate(value)
		if !ok {
			return fmt.Sprintf("%s must be a date in %s format.", label, dateDisplayFormats)
		}
		if t.After(now()) {
			return fmt.Sprintf("%s cannot be in the future.", label)
		}
	case RuleEnum:
		for _, ev := range f.Rule.EnumValues {
			if strings.EqualFold(ev, value) {
				return ""
			}
		}
		return fmt.Sprintf("%s must be one of: %s.", label, strings.Join(f.Rule.EnumValues, " / "))
	}
	return ""
}

func checkText(label string, r Rule, value string) string {
	minLen, maxLen := r.MinLen, r.MaxLen
	if minLen == 0 {
		minLen = DefaultMinLen
	}
	if maxLen == 0 {
		maxLen = DefaultMaxLen
	}

	n := utf8.RuneCountInString(value)
	if n < minLen {
		return fmt.Sprintf("%s must be at least %d characters long.", label, minLen)
	}
	if n > maxLen {
		return fmt.Sprintf("%s must be at most %d characters long.", label, maxLen)
	}
	if r.Pattern != nil && !r.Pattern.MatchString(value) {
		return fmt.Sprintf("%s must look like %s.", label, r.PatternHint)
	}
	return ""
}

func checkPhone(label string, r Rule, value string) string {
	minDigits, maxDigits := r.MinDigits, r.MaxDigits
	if minDigits == 0 {
		minDigits = DefaultMinDigits
	}
	if maxDigits == 0 {
		maxDigits = DefaultMaxDigits
	}

	n := len(Digits(value))
	if n < minDigits {
		return fmt.Sprintf("%s is too short: it must have at least %d digits but has %d.", label, minDigits, n)
	}
	if n > maxDigits {
		return fmt.Sprintf("%s is too long: it must have at most %d digits but has %d.", label, maxDigits, n)
	}
	return ""
}

func checkMoney(label string, r Rule, value string) string {
	ceiling := r.Ceiling
	if ceiling == 0 {
		ceiling = DefaultFeeCeiling
	}

	digits := Digits(value)
	if digits == "" {
		return fmt.Sprintf("%s must be a whole number such as 150000.", label)
	}

	n, err := strconv.ParseInt(digits, 10, 64)
	if err != nil || n > ceiling {
		return fmt.Sprintf("%s of %s seems incorrect: amounts above %d usually mean cents were entered instead of whole units.", label, digits, ceiling)
	}
	if n <= 0 {
		return fmt.Sprintf("%s must be greater than zero.", label)
	}
	return ""
}

// Digits returns only the ASCII digits of s.
func Digits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r < utf8.RuneSelf && unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ParseAmount returns the whole-unit amount of a money cell.
func ParseAmount(s string) (int64, bool) {
	n, err := strconv.ParseInt(Digits(s), 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// ParseDate parses the date layouts accepted by RuleDate.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
