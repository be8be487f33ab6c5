package commbank

import (
	"netbank/lib/textutil"
	"regexp"
	"strings"
)

var (
	transferToPrefix    = regexp.MustCompile(`^Transfer [tT]o `)
	transferPrefix      = regexp.MustCompile(`^Transfer (?:[fF]rom|[tT]o) `)
	directEntryPrefix   = regexp.MustCompile(`^Direct (?:Credit|Debit) \d+ `)
	forCollectionSuffix = regexp.MustCompile(` for collection$`)
	commbankAppPrefix   = regexp.MustCompile(`^CommBank App `)
)

// ParseTransactionDescription splits a raw multi-line transaction description
// into the payee and a secondary description line. The first matching rule wins.
func ParseTransactionDescription(raw string) (payee string, description string) {
	if !strings.Contains(raw, "\n") {
		return raw, ""
	}

	lines := strings.Split(textutil.StripSpaces(raw), "\n")

	switch len(lines) {
	case 3:
		if strings.HasPrefix(lines[2], "Value Date") {
			return textutil.Capitalize(lines[0]), ""
		}
		if strings.HasPrefix(strings.ToLower(lines[0]), "transfer to") {
			first := transferToPrefix.ReplaceAllString(lines[0], "")
			return textutil.Capitalize(first), lines[2]
		}
	case 2:
		if strings.HasPrefix(lines[1], "Value Date") || strings.HasPrefix(lines[0], "PENDING") {
			return textutil.Capitalize(lines[0]), ""
		}

		first := transferPrefix.ReplaceAllString(lines[0], "")
		first = directEntryPrefix.ReplaceAllString(first, "")
		first = forCollectionSuffix.ReplaceAllString(first, "")
		second := commbankAppPrefix.ReplaceAllString(lines[1], "")
		return strings.TrimSpace(textutil.Capitalize(first)), second
	}

	// no bank specific phrasing matched, keep everything after the first line
	return lines[0], strings.Join(lines[1:], " ")
}
