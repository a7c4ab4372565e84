// Package classify assigns a category and an importance level to observed
// on-screen text. Classification is a pure function: no state, no I/O.
package classify

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Category is the closed set of content kinds, checked in declaration order
// with first match winning.
type Category string

const (
	CategoryPersonName Category = "person_name"
	CategoryDateTime   Category = "datetime"
	CategoryEmail      Category = "email"
	CategoryURL        Category = "url"
	CategoryCode       Category = "code"
	CategoryFilename   Category = "filename"
	CategoryNumber     Category = "number"
	CategoryUILabel    Category = "ui_label"
	CategoryFreeText   Category = "free_text"
	CategoryOther      Category = "other"
)

// Importance is a total order over retrieval priority.
type Importance int

const (
	Noise Importance = iota
	Low
	Medium
	High
	Critical
)

// String returns the lowercase name of the importance level.
func (i Importance) String() string {
	switch i {
	case Critical:
		return "critical"
	case High:
		return "high"
	case Medium:
		return "medium"
	case Low:
		return "low"
	default:
		return "noise"
	}
}

// ParseImportance maps a name to an Importance, defaulting to Low.
func ParseImportance(s string) Importance {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "critical":
		return Critical
	case "high":
		return High
	case "medium":
		return Medium
	case "noise":
		return Noise
	default:
		return Low
	}
}

// Multiplier is the ranking weight applied to similarity scores.
func (i Importance) Multiplier() float64 {
	switch i {
	case Critical:
		return 1.5
	case High:
		return 1.25
	case Medium:
		return 1.0
	case Low:
		return 0.75
	default:
		return 0.5
	}
}

var (
	timeOfDayRe  = regexp.MustCompile(`\b\d{1,2}:\d{2}(:\d{2})?\b|\b(am|pm|AM|PM)\b`)
	slashDateRe  = regexp.MustCompile(`\b\d{1,4}/\d{1,2}(/\d{1,4})?\b`)
	numericRe    = regexp.MustCompile(`^[\d\s.,:%+\-()]+$`)
	filenameRe   = regexp.MustCompile(`^\S+\.(go|py|js|ts|tsx|jsx|rs|c|h|cpp|java|rb|sh|md|txt|json|yaml|yml|toml|xml|html|css|csv|pdf|png|jpg|jpeg|gif|svg|zip|tar|gz|log)$`)
	emailLocalRe = regexp.MustCompile(`\S+@\S+\.\S+`)
)

// codeTokens is the fixed keyword/symbol set that marks source code.
var codeTokens = []string{
	"func ", "def ", "fn ", "return ", "import ", "class ", "var ", "const ",
	"=>", "->", "!=", "==", "&&", "||", "();", "{}", "};",
}

// uiLabelWords are common single-action words found on buttons and menus.
var uiLabelWords = map[string]bool{
	"ok": true, "cancel": true, "save": true, "open": true, "close": true,
	"submit": true, "delete": true, "edit": true, "copy": true, "paste": true,
	"search": true, "send": true, "back": true, "next": true, "done": true,
	"undo": true, "redo": true, "retry": true, "apply": true, "yes": true,
	"no": true,
}

// Result pairs the category with its derived importance.
type Result struct {
	Category   Category
	Importance Importance
}

// Classify determines the category and importance of a cleaned text string.
func Classify(text string) Result {
	cat := categorize(text)
	return Result{Category: cat, Importance: importanceOf(cat, text)}
}

// categorize applies the ordered category predicates, first match wins.
func categorize(text string) Category {
	trimmed := strings.TrimSpace(text)
	n := utf8.RuneCountInString(trimmed)

	switch {
	case isPersonName(trimmed, n):
		return CategoryPersonName
	case timeOfDayRe.MatchString(trimmed) || slashDateRe.MatchString(trimmed):
		return CategoryDateTime
	case isEmail(trimmed, n):
		return CategoryEmail
	case isURL(trimmed):
		return CategoryURL
	case isCode(trimmed):
		return CategoryCode
	case filenameRe.MatchString(trimmed):
		return CategoryFilename
	case numericRe.MatchString(trimmed) && n > 2:
		return CategoryNumber
	case isUILabel(trimmed, n):
		return CategoryUILabel
	case n > 15:
		return CategoryFreeText
	default:
		return CategoryOther
	}
}

// isPersonName matches exactly two capitalized words under 50 chars.
func isPersonName(s string, n int) bool {
	if n >= 50 {
		return false
	}
	words := strings.Fields(s)
	if len(words) != 2 {
		return false
	}
	for _, w := range words {
		runes := []rune(w)
		if len(runes) < 2 || !unicode.IsUpper(runes[0]) {
			return false
		}
		for _, r := range runes[1:] {
			if !unicode.IsLower(r) {
				return false
			}
		}
	}
	return true
}

func isEmail(s string, n int) bool {
	if n < 5 || n > 100 || strings.ContainsAny(s, " \t") {
		return false
	}
	return strings.Contains(s, "@") && strings.Contains(s, ".") && emailLocalRe.MatchString(s)
}

func isURL(s string) bool {
	lower := strings.ToLower(s)
	return strings.Contains(lower, "://") ||
		strings.HasPrefix(lower, "www.") ||
		strings.HasPrefix(lower, "http")
}

func isCode(s string) bool {
	for _, tok := range codeTokens {
		if strings.Contains(s, tok) {
			return true
		}
	}
	return false
}

func isUILabel(s string, n int) bool {
	if uiLabelWords[strings.ToLower(s)] {
		return true
	}
	return n < 10
}

// importanceOf derives the retrieval priority from the category and length.
func importanceOf(cat Category, text string) Importance {
	n := utf8.RuneCountInString(strings.TrimSpace(text))
	switch cat {
	case CategoryPersonName, CategoryEmail:
		return Critical
	case CategoryCode, CategoryURL, CategoryFilename:
		if n > 20 {
			return High
		}
		return Medium
	case CategoryFreeText:
		if n > 100 {
			return High
		}
		if n > 40 {
			return Medium
		}
		return Low
	case CategoryNumber, CategoryDateTime:
		return Low
	case CategoryUILabel:
		if n < 4 {
			return Noise
		}
		return Low
	default:
		if n > 30 {
			return Low
		}
		return Noise
	}
}
