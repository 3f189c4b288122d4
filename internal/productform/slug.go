package productform

import (
	"regexp"
	"strings"

	"github.com/google/uuid"
)

var (
	nonSlugChars = regexp.MustCompile(`[^\w ]+`)
	spaceRuns    = regexp.MustCompile(` +`)
)

// Slugify lower-cases name, drops everything but word characters and
// spaces, then turns each run of spaces into one hyphen. Leading and
// trailing spaces become hyphens too.
func Slugify(name string) string {
	slug := nonSlugChars.ReplaceAllString(strings.ToLower(name), "")

	return spaceRuns.ReplaceAllString(slug, "-")
}

// GenerateSKU builds "<initials>-<uuid>" from a category name, e.g.
// "Hoa Sinh Nhat" gives "HSN-<uuid>". An empty name gives an empty SKU.
func GenerateSKU(categoryName string) string {
	words := strings.Fields(categoryName)
	if len(words) == 0 {
		return ""
	}

	var prefix strings.Builder
	for _, word := range words {
		for _, r := range word {
			prefix.WriteRune(r)
			break
		}
	}

	return strings.ToUpper(prefix.String()) + "-" + uuid.NewString()
}
