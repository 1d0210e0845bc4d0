package posts

import "strings"

// GenerateSlug lowercases the title, collapses every run of characters outside
// [a-z0-9] into a single hyphen and trims hyphens from both ends.
// Different titles can produce the same slug; slugs are not unique.
func GenerateSlug(title string) string {
	var b strings.Builder
	b.Grow(len(title))

	pendingHyphen := false
	for _, r := range strings.ToLower(title) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
			continue
		}
		pendingHyphen = true
	}
	return b.String()
}
