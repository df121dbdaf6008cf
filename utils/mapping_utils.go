package utils

import (
	"strings"

	"avatar-studio/models"
)

// MapGenderCode maps the gender segment of an asset file name to a Gender.
// Input is normalized to lowercase before mapping; ok is false when the
// segment is not a gender code.
func MapGenderCode(code string) (models.Gender, bool) {
	codeLower := strings.ToLower(strings.TrimSpace(code))

	genderMap := map[string]models.Gender{
		"m":      models.GenderMale,
		"male":   models.GenderMale,
		"boy":    models.GenderMale,
		"boys":   models.GenderMale,
		"f":      models.GenderFemale,
		"female": models.GenderFemale,
		"girl":   models.GenderFemale,
		"girls":  models.GenderFemale,
		"u":      models.GenderUnisex,
		"unisex": models.GenderUnisex,
	}

	g, ok := genderMap[codeLower]
	return g, ok
}

// MapCategoryToTab returns the closet tab a category is browsed from
func MapCategoryToTab(category models.Category) models.Tab {
	switch category {
	case models.CategoryBody, models.CategoryHair, models.CategoryEyes:
		return models.TabBody
	case models.CategoryAccessory, models.CategoryGlasses:
		return models.TabAccessories
	case models.CategoryBackground:
		return models.TabBackground
	case models.CategoryDrawing:
		return models.TabCanvas
	default:
		return models.TabOutfit
	}
}
