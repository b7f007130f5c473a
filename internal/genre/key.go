package genre

// Canonical keys for the two genres the bestseller list carries.
const (
	Fiction    = "fiction"
	NonFiction = "non-fiction"
)

// aliases folds spellings that Slugify alone cannot unify.
var aliases = map[string]string{
	"nonfiction": NonFiction,
	"non-fic":    NonFiction,
	"fic":        Fiction,
}

// Key returns the matching key for a genre label. Labels that differ only in
// case, spacing, punctuation or accents share a key, so "Non Fiction",
// "NonFiction" and "non-fiction" all compare equal.
func Key(label string) string {
	slug := Slugify(label)
	if canonical, ok := aliases[slug]; ok {
		return canonical
	}
	return slug
}

// Equal reports whether two genre labels share a key.
func Equal(a, b string) bool {
	return Key(a) == Key(b)
}
