package podcast

import (
	"strings"

	"golang.org/x/text/language"
)

// DefaultLanguage is preselected for new requests.
const DefaultLanguage = "english"

// supported maps the service's language identifiers to BCP 47 tags.
// The generation service speaks these three.
var supported = []struct {
	name string
	tag  language.Tag
}{
	{"english", language.English},
	{"spanish", language.Spanish},
	{"japanese", language.Japanese},
}

var matcher = newMatcher()

func newMatcher() language.Matcher {
	tags := make([]language.Tag, 0, len(supported))
	for _, s := range supported {
		tags = append(tags, s.tag)
	}
	return language.NewMatcher(tags)
}

// Languages returns the service identifiers in display order.
func Languages() []string {
	names := make([]string, 0, len(supported))
	for _, s := range supported {
		names = append(names, s.name)
	}
	return names
}

// CanonicalLanguage resolves user input ("EN", "es-MX", "Japanese") to a
// supported service identifier. Returns false when the input matches none.
func CanonicalLanguage(input string) (string, bool) {
	input = strings.ToLower(strings.TrimSpace(input))
	if input == "" {
		return "", false
	}
	for _, s := range supported {
		if s.name == input {
			return s.name, true
		}
	}
	tag, err := language.Parse(input)
	if err != nil {
		return "", false
	}
	_, idx, conf := matcher.Match(tag)
	if conf == language.No {
		return "", false
	}
	return supported[idx].name, true
}
