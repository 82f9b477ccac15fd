package registration

import (
	"strings"

	"github.com/google/uuid"
)

const maxUsernameBase = 20

// GenerateUsername lowercases the ASCII letters and digits of firstName and
// appends a random six character suffix, e.g. "ada-3f9a1c".
func GenerateUsername(firstName string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(firstName) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			if b.Len() == maxUsernameBase {
				break
			}
		}
	}
	base := b.String()
	if base == "" {
		base = "user"
	}
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:6]
	return base + "-" + suffix
}

// RegenerateUsername keeps the base of a generated username and draws a new suffix.
func RegenerateUsername(username string) string {
	base := username
	if i := strings.LastIndex(username, "-"); i > 0 {
		base = username[:i]
	}
	return GenerateUsername(base)
}
