// Package token classifies table cells into typed tokens before any field assignment.
package token

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Kind is the shape of a table cell.
type Kind int

// All token kinds, in classification order.
const (
	Unknown Kind = iota
	Integer
	Decimal3        // .367 or 0.367
	Decimal2        // 2.28
	CapitalizedName // Babe Ruth, Mark McGwire
	ShortText       // NYY, Boston
)

// MaxShortText is the longest cell still considered short text.
const MaxShortText = 15

var kindNames = [...]string{"Unknown", "Integer", "Decimal3", "Decimal2", "CapitalizedName", "ShortText"}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

var (
	integerPattern  = regexp.MustCompile(`^\d+$`)
	decimal3Pattern = regexp.MustCompile(`^0?\.\d{3}$`)
	decimal2Pattern = regexp.MustCompile(`^\d\.\d{2}$`)
	namePattern     = regexp.MustCompile(`^\p{Lu}[\p{L}'.\-]+(?: \p{Lu}[\p{L}'.\-]+){1,2}$`)
)

// Token is a classified cell.
type Token struct {
	Text string
	Kind Kind
}

// IsNumeric reports whether the token is any number shape.
func (t Token) IsNumeric() bool {
	return t.Kind == Integer || t.Kind == Decimal3 || t.Kind == Decimal2
}

// Int returns the integer value of an Integer token.
func (t Token) Int() (int, bool) {
	if t.Kind != Integer {
		return 0, false
	}
	v, err := strconv.Atoi(t.Text)
	return v, err == nil
}

// Float returns the numeric value of any number token.
func (t Token) Float() (float64, bool) {
	if !t.IsNumeric() {
		return 0, false
	}
	v, err := strconv.ParseFloat(t.Text, 64)
	return v, err == nil
}

// Classify returns the kind of a single cell. Surrounding whitespace is ignored.
func Classify(cell string) Kind {
	s := strings.Join(strings.Fields(cell), " ")
	switch {
	case s == "":
		return Unknown
	case integerPattern.MatchString(s):
		return Integer
	case decimal3Pattern.MatchString(s):
		return Decimal3
	case decimal2Pattern.MatchString(s):
		return Decimal2
	case namePattern.MatchString(s):
		return CapitalizedName
	case utf8.RuneCountInString(s) <= MaxShortText:
		return ShortText
	default:
		return Unknown
	}
}

// Tokenize classifies every cell of a row, normalizing whitespace in the text.
func Tokenize(cells []string) []Token {
	tokens := make([]Token, len(cells))
	for i, c := range cells {
		text := strings.Join(strings.Fields(c), " ")
		tokens[i] = Token{Text: text, Kind: Classify(text)}
	}
	return tokens
}
