package uritemplate

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"
)

// Names of the character types defined in every parser's registry.
const (
	alphaType      = "alpha"
	digitType      = "digit"
	hexDigitType   = "hexDigit"
	genDelimsType  = "genDelims"
	subDelimsType  = "subDelims"
	unreservedType = "unreserved"
	reservedType   = "reserved"
	opLevel2Type   = "opLevel2"
	opLevel3Type   = "opLevel3"
	opReserveType  = "opReserve"
	operatorType   = "operator"
	ucscharType    = "ucschar"
	iprivateType   = "iprivate"
)

// emptyFragment matches no code point at all.
const emptyFragment = `[^\x00-\x{10FFFF}]`

var UndefinedCharacterTypeError = errors.New("undefined character type")

// CharacterType is a set of Unicode code points described by a regular
// expression fragment matching exactly one of them.
//
// Contains and RegexFragment always agree: for any code point c,
// Contains(c) reports whether RegexFragment matches the one-character
// string made of c. CharacterType values are immutable and safe for
// concurrent use.
type CharacterType struct {
	branches []string
	matcher  *regexp.Regexp
	// Bitmap of the ASCII members, laid out like the escape tables.
	ascii [16]byte
}

// NewRegexCharacterType creates a character type from a regular expression
// fragment, such as "[0-9]".
func NewRegexCharacterType(fragment string) (CharacterType, error) {
	return newCharacterType([]string{fragment})
}

// EmptyCharacterType returns a character type containing no code point.
func EmptyCharacterType() CharacterType {
	return mustCharacterType([]string{emptyFragment})
}

// Union returns a character type containing every code point of types.
// Branches of the resulting fragment keep the order of types.
func Union(types ...CharacterType) CharacterType {
	if len(types) == 0 {
		return EmptyCharacterType()
	}

	var branches []string
	for _, t := range types {
		branches = append(branches, t.branches...)
	}

	return mustCharacterType(branches)
}

func newCharacterType(branches []string) (CharacterType, error) {
	ct := CharacterType{branches: branches}

	var err error
	ct.matcher, err = regexp.Compile(`\A(?:` + ct.RegexFragment() + `)\z`)
	if err != nil {
		return CharacterType{}, fmt.Errorf("invalid character type fragment %q: %w", ct.RegexFragment(), err)
	}

	var buf [utf8.UTFMax]byte
	for b := rune(0); b < utf8.RuneSelf; b++ {
		n := utf8.EncodeRune(buf[:], b)
		if ct.matcher.Match(buf[:n]) {
			ct.ascii[b%16] |= 1 << (b / 16)
		}
	}

	return ct, nil
}

func mustCharacterType(branches []string) CharacterType {
	ct, err := newCharacterType(branches)
	if err != nil {
		panic(err)
	}

	return ct
}

// Contains reports whether c belongs to the character type.
func (ct CharacterType) Contains(c rune) bool {
	if c >= 0 && c < utf8.RuneSelf {
		return ct.ascii[c%16]&(1<<(c/16)) != 0
	}

	if ct.matcher == nil || !utf8.ValidRune(c) {
		return false
	}

	return ct.matcher.MatchString(string(c))
}

// RegexFragment returns a regular expression fragment matching any single
// member of the character type. Union fragments are alternations and must be
// grouped before being quantified.
func (ct CharacterType) RegexFragment() string {
	if len(ct.branches) == 0 {
		return emptyFragment
	}

	return strings.Join(ct.branches, "|")
}

// Or returns the union of ct and other.
func (ct CharacterType) Or(other CharacterType) CharacterType {
	return Union(ct, other)
}

// String is an alias of RegexFragment.
func (ct CharacterType) String() string {
	return ct.RegexFragment()
}

// group returns the fragment wrapped in a non-capturing group.
func (ct CharacterType) group() string {
	return "(?:" + ct.RegexFragment() + ")"
}

// CharacterTypes is a named collection of character types.
//
// The collection is populated when a Parser is created and never modified
// afterwards. The defined names are alpha, digit, hexDigit, genDelims,
// subDelims, unreserved, reserved, opLevel2, opLevel3, opReserve, operator,
// ucschar and iprivate.
type CharacterTypes struct {
	types map[string]CharacterType
}

// Lookup returns the character type registered under name.
func (cts *CharacterTypes) Lookup(name string) (CharacterType, error) {
	ct, ok := cts.types[name]
	if !ok {
		return CharacterType{}, fmt.Errorf("%w: %q", UndefinedCharacterTypeError, name)
	}

	return ct, nil
}

// Has reports whether a character type is registered under name.
func (cts *CharacterTypes) Has(name string) bool {
	_, ok := cts.types[name]

	return ok
}

// Names returns the registered names, sorted.
func (cts *CharacterTypes) Names() []string {
	names := make([]string, 0, len(cts.types))
	for name := range cts.types {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}

// mustLookup is for names the package itself defines: a miss is a bug.
func (cts *CharacterTypes) mustLookup(name string) CharacterType {
	ct, err := cts.Lookup(name)
	if err != nil {
		panic(err)
	}

	return ct
}

type characterTypesBuilder struct {
	types map[string]CharacterType
}

func (b *characterTypesBuilder) regex(name, fragment string) CharacterType {
	return b.define(name, mustCharacterType([]string{fragment}))
}

func (b *characterTypesBuilder) define(name string, ct CharacterType) CharacterType {
	b.types[name] = ct

	return ct
}

func (b *characterTypesBuilder) build() *CharacterTypes {
	return &CharacterTypes{types: b.types}
}

// https://www.rfc-editor.org/rfc/rfc6570#section-1.5
func buildCharacterTypes() *CharacterTypes {
	b := characterTypesBuilder{types: make(map[string]CharacterType)}

	b.regex(alphaType, `[A-Za-z]`)
	digit := b.regex(digitType, `[0-9]`)
	b.define(hexDigitType, digit.Or(mustCharacterType([]string{`[ABCDEFabcdef]`})))

	genDelims := b.regex(genDelimsType, `[:\/?#\[\]@]`)
	subDelims := b.regex(subDelimsType, `[!$&'()*+,;=]`)
	b.regex(unreservedType, `[A-Za-z0-9\-._~]`)
	b.define(reservedType, genDelims.Or(subDelims))

	opLevel2 := b.regex(opLevel2Type, `[+#]`)
	opLevel3 := b.regex(opLevel3Type, `[.\/;?&]`)
	opReserve := b.regex(opReserveType, `[=,!@|]`)
	b.define(operatorType, opLevel2.Or(opLevel3).Or(opReserve))

	b.regex(ucscharType, `[\x{A0}-\x{D7FF}\x{F900}-\x{FDCF}\x{FDF0}-\x{FFEF}`+
		`\x{10000}-\x{1FFFD}\x{20000}-\x{2FFFD}\x{30000}-\x{3FFFD}`+
		`\x{40000}-\x{4FFFD}\x{50000}-\x{5FFFD}\x{60000}-\x{6FFFD}`+
		`\x{70000}-\x{7FFFD}\x{80000}-\x{8FFFD}\x{90000}-\x{9FFFD}`+
		`\x{A0000}-\x{AFFFD}\x{B0000}-\x{BFFFD}\x{C0000}-\x{CFFFD}`+
		`\x{D0000}-\x{DFFFD}\x{E1000}-\x{EFFFD}]`)
	b.regex(iprivateType, `[\x{E000}-\x{F8FF}\x{F0000}-\x{FFFFD}\x{100000}-\x{10FFFD}]`)

	return b.build()
}
