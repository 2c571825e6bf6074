package analysiscache

import (
	"fmt"
	"sort"
	"strings"

	"github.com/cespare/xxhash/v2"

	"github.com/vladimiradmaev/fitscan-coach/internal/domain"
)

// ImageHash fingerprints the raw image payload.
func ImageHash(image []byte) string {
	return fmt.Sprintf("%016x", xxhash.Sum64(image))
}

// ContextFingerprint captures the parts of a user that change an analysis.
// Guests and users without allergies or preferences get the empty string.
func ContextFingerprint(user *domain.User) string {
	if user == nil || (len(user.Allergies) == 0 && len(user.Preferences) == 0) {
		return ""
	}
	allergies := make([]string, len(user.Allergies))
	for i, a := range user.Allergies {
		allergies[i] = string(a)
	}
	prefs := make([]string, len(user.Preferences))
	for i, p := range user.Preferences {
		prefs[i] = string(p)
	}
	sort.Strings(allergies)
	sort.Strings(prefs)
	return strings.Join(allergies, ",") + "|" + strings.Join(prefs, ",")
}

// Key is the composite cache key of an image analysed for user.
func Key(image []byte, user *domain.User) string {
	return ImageHash(image) + "_" + ContextFingerprint(user)
}
