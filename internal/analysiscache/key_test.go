package analysiscache

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vladimiradmaev/fitscan-coach/internal/domain"
)

func TestImageHash(t *testing.T) {
	a := ImageHash([]byte("image-bytes"))
	assert.Len(t, a, 16)
	assert.Equal(t, a, ImageHash([]byte("image-bytes")))
	assert.NotEqual(t, a, ImageHash([]byte("image-bytez")))
	assert.NotEqual(t, ImageHash([]byte("ab")), ImageHash([]byte("ba")))
}

func TestContextFingerprint(t *testing.T) {
	assert.Equal(t, "", ContextFingerprint(nil))
	assert.Equal(t, "", ContextFingerprint(&domain.User{ID: "u"}))
	assert.Equal(t, "|Keto", ContextFingerprint(&domain.User{Preferences: []domain.DietaryPreference{domain.PrefKeto}}))

	u1 := &domain.User{
		Allergies:   []domain.Allergen{domain.AllergenPeanut, domain.AllergenMilk},
		Preferences: []domain.DietaryPreference{domain.PrefVegan, domain.PrefKeto},
	}
	u2 := &domain.User{
		Allergies:   []domain.Allergen{domain.AllergenMilk, domain.AllergenPeanut},
		Preferences: []domain.DietaryPreference{domain.PrefKeto, domain.PrefVegan},
	}
	assert.Equal(t, "Amendoim,Leite|Keto,Vegano", ContextFingerprint(u1))
	assert.Equal(t, ContextFingerprint(u1), ContextFingerprint(u2), "order does not matter")

	u3 := &domain.User{Allergies: []domain.Allergen{domain.AllergenPeanut}}
	assert.NotEqual(t, ContextFingerprint(u1), ContextFingerprint(u3))
}

func TestKey(t *testing.T) {
	img := []byte{0xff, 0xd8, 0xff}
	user := &domain.User{Allergies: []domain.Allergen{domain.AllergenPeanut}}

	assert.Equal(t, ImageHash(img)+"_", Key(img, nil))
	assert.Equal(t, ImageHash(img)+"_Amendoim|", Key(img, user))
	assert.Equal(t, Key(img, user), Key(img, user))
	assert.NotEqual(t, Key(img, nil), Key(img, user))
	assert.Equal(t, Key(img, nil), Key(img, &domain.User{ID: "u"}), "no dietary context keys like a guest")
}
