package event

import (
	"crypto/rand"
	"math/big"
	"regexp"
	"strings"
)

var nonSlugChars = regexp.MustCompile(`[^a-z0-9]+`)

const slugAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// slugSuffixLen is the number of random base36 characters appended to a slug.
const slugSuffixLen = 8

// Slugify lowercases title and collapses every run of other characters to a
// single dash.
func Slugify(title string) string {
	s := nonSlugChars.ReplaceAllString(strings.ToLower(title), "-")
	return strings.Trim(s, "-")
}

// GenerateSlug returns Slugify(title) followed by a random suffix, for
// example "sarahs-wedding-k3x9q2ab".
func GenerateSlug(title string) (string, error) {
	suffix, err := randomBase36(slugSuffixLen)
	if err != nil {
		return "", err
	}
	base := Slugify(title)
	if base == "" {
		return suffix, nil
	}
	return base + "-" + suffix, nil
}

func randomBase36(n int) (string, error) {
	max := big.NewInt(int64(len(slugAlphabet)))
	b := make([]byte, n)
	for i := range b {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		b[i] = slugAlphabet[idx.Int64()]
	}
	return string(b), nil
}
