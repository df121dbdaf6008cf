package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"avatar-studio/models"
	"avatar-studio/repository"
)

// FilterAll disables closet filtering
const FilterAll = "all"

// CatalogService holds the immutable item catalog loaded at startup
// Implements placement.Catalog
type CatalogService struct {
	repository repository.CatalogRepositoryInterface

	mu    sync.RWMutex
	items []models.CatalogItem
	byID  map[string]int
}

// NewCatalogService creates a new CatalogService
func NewCatalogService(repo repository.CatalogRepositoryInterface) *CatalogService {
	return &CatalogService{
		repository: repo,
		byID:       make(map[string]int),
	}
}

// Load reads every item from the repository. Duplicate ids keep the first entry.
func (s *CatalogService) Load(ctx context.Context) error {
	items, err := s.repository.ListItems(ctx)
	if err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}

	kept := make([]models.CatalogItem, 0, len(items))
	byID := make(map[string]int, len(items))
	for _, item := range items {
		if _, dup := byID[item.ID]; dup {
			log.Printf("⚠️  Duplicate catalog id %s, keeping first definition", item.ID)
			continue
		}
		byID[item.ID] = len(kept)
		kept = append(kept, item)
	}

	s.mu.Lock()
	s.items = kept
	s.byID = byID
	s.mu.Unlock()

	log.Printf("📦 Catalog loaded: %d items", len(kept))
	return nil
}

// Lookup finds an item by id. A non-empty category must match the item's category.
func (s *CatalogService) Lookup(id string, category models.Category) (models.CatalogItem, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.byID[id]
	if !ok {
		return models.CatalogItem{}, false
	}
	item := s.items[i]
	if category != "" && item.Category != category {
		return models.CatalogItem{}, false
	}
	return item, true
}

// ByCategory returns the items of one category in catalog order
func (s *CatalogService) ByCategory(category models.Category) []models.CatalogItem {
	return s.filter(func(item models.CatalogItem) bool {
		return item.Category == category
	})
}

// All returns a copy of the whole catalog
func (s *CatalogService) All() []models.CatalogItem {
	return s.filter(func(models.CatalogItem) bool { return true })
}

// ForTab builds the closet listing of a tab for the avatar gender.
// filter selects an occupation when the tab has occupations, else a category.
func (s *CatalogService) ForTab(tab models.Tab, gender models.Gender, filter string) models.CatalogData {
	byOccupation := s.hasOccupations(tab)
	filter = strings.TrimSpace(filter)

	items := s.filter(func(item models.CatalogItem) bool {
		if item.Tab != tab || (gender != "" && !item.Gender.Allows(gender)) {
			return false
		}
		if filter == "" || strings.EqualFold(filter, FilterAll) {
			return true
		}
		if byOccupation {
			return strings.EqualFold(item.Occupation, filter)
		}
		return strings.EqualFold(string(item.Category), filter)
	})

	return models.CatalogData{
		Tab:         tab,
		Gender:      gender,
		Occupations: s.Occupations(tab),
		Items:       items,
	}
}

// Occupations returns the filter labels of a tab: its distinct occupations
// title-cased in first-seen order, or "all" plus its categories when no item
// of the tab has an occupation
func (s *CatalogService) Occupations(tab models.Tab) []string {
	title := cases.Title(language.English)
	seen := make(map[string]bool)
	var occupations, categories []string

	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, item := range s.items {
		if item.Tab != tab {
			continue
		}
		if occ := strings.ToLower(strings.TrimSpace(item.Occupation)); occ != "" && !seen["o:"+occ] {
			seen["o:"+occ] = true
			occupations = append(occupations, title.String(occ))
		}
		if c := string(item.Category); !seen["c:"+c] {
			seen["c:"+c] = true
			categories = append(categories, c)
		}
	}

	if len(occupations) > 0 {
		return occupations
	}
	return append([]string{FilterAll}, categories...)
}

func (s *CatalogService) hasOccupations(tab models.Tab) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, item := range s.items {
		if item.Tab == tab && item.Occupation != "" {
			return true
		}
	}
	return false
}

func (s *CatalogService) filter(keep func(models.CatalogItem) bool) []models.CatalogItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.CatalogItem, 0, len(s.items))
	for _, item := range s.items {
		if keep(item) {
			out = append(out, item)
		}
	}
	return out
}
