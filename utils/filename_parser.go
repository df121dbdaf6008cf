package utils

import (
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"avatar-studio/models"
)

var (
	extRegex = regexp.MustCompile(`\.(png|jpg|jpeg|webp)$`)
	idRegex  = regexp.MustCompile(`^[a-z0-9_]+$`)
)

// ParseAssetFileName parses a filename following the pattern:
// CATEGORY-ID[-GENDER][-OCCUPATION].PNG
// Example: hat-cap_01-m-chef.png
func ParseAssetFileName(filename string) (*models.CatalogItem, error) {
	nameWithoutExt := strings.ToLower(strings.TrimSpace(filename))
	if !extRegex.MatchString(nameWithoutExt) {
		return nil, fmt.Errorf("invalid filename %q: expected png, jpg or webp extension", filename)
	}
	nameWithoutExt = extRegex.ReplaceAllString(nameWithoutExt, "")

	parts := strings.Split(nameWithoutExt, "-")
	if len(parts) < 2 || len(parts) > 4 {
		return nil, fmt.Errorf("invalid filename format: expected 2 to 4 parts separated by '-', got %d parts", len(parts))
	}

	// Part 0: CATEGORY
	category, ok := models.ParseCategory(parts[0])
	if !ok || category == models.CategoryDrawing {
		return nil, fmt.Errorf("invalid category %q", parts[0])
	}

	// Part 1: ID
	if !idRegex.MatchString(parts[1]) {
		return nil, fmt.Errorf("invalid item id %q: expected letters, digits or '_'", parts[1])
	}

	item := &models.CatalogItem{
		ID:       fmt.Sprintf("%s-%s", category, parts[1]),
		Name:     cases.Title(language.English).String(strings.ReplaceAll(parts[1], "_", " ")),
		Category: category,
		Tab:      MapCategoryToTab(category),
	}

	// Parts 2 and 3: optional GENDER then OCCUPATION
	rest := parts[2:]
	if len(rest) > 0 {
		if g, ok := MapGenderCode(rest[0]); ok {
			item.Gender = g
			rest = rest[1:]
		}
	}
	switch len(rest) {
	case 0:
	case 1:
		if rest[0] == "" {
			return nil, fmt.Errorf("empty occupation segment in %q", filename)
		}
		item.Occupation = strings.ReplaceAll(rest[0], "_", " ")
	default:
		return nil, fmt.Errorf("invalid gender code %q", parts[2])
	}

	return item, nil
}
