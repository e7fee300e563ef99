package services

import (
	"fmt"
	"regexp"
	"strings"

	"codeask/internal/models"

	"gorm.io/gorm"
)

const (
	maxTagLen       = 30
	maxTagsPerQuery = 5
)

var tagPattern = regexp.MustCompile(`^[a-z0-9-]+$`)

// NormalizeTag lowercases and trims a raw tag and validates the slug form:
// 1-30 chars out of [a-z0-9-].
func NormalizeTag(raw string) (string, error) {
	tag := strings.ToLower(strings.TrimSpace(raw))
	if tag == "" {
		return "", fmt.Errorf("%w: tag cannot be empty", ErrValidation)
	}
	if len(tag) > maxTagLen {
		return "", fmt.Errorf("%w: tag %q exceeds %d characters", ErrValidation, tag, maxTagLen)
	}
	if !tagPattern.MatchString(tag) {
		return "", fmt.Errorf("%w: tag %q may only contain lowercase letters, digits and hyphens", ErrValidation, tag)
	}
	return tag, nil
}

// TagService owns the global tag vocabulary.
type TagService struct {
	db *gorm.DB
}

func NewTagService(db *gorm.DB) *TagService {
	return &TagService{db: db}
}

// ResolveSet normalizes a question's raw tag list into registered Tag rows.
// Duplicates collapse (tags are a set), and the result must hold 1-5 entries.
// Unknown tags are registered into the vocabulary as a side effect.
func (s *TagService) ResolveSet(raws []string) ([]models.Tag, error) {
	seen := make(map[string]bool, len(raws))
	names := make([]string, 0, len(raws))
	for _, raw := range raws {
		name, err := NormalizeTag(raw)
		if err != nil {
			return nil, err
		}
		if seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}

	if len(names) == 0 {
		return nil, fmt.Errorf("%w: at least one tag is required", ErrValidation)
	}
	if len(names) > maxTagsPerQuery {
		return nil, fmt.Errorf("%w: at most %d tags are allowed", ErrValidation, maxTagsPerQuery)
	}

	tags := make([]models.Tag, 0, len(names))
	for _, name := range names {
		var tag models.Tag
		if err := s.db.Where("name = ?", name).FirstOrCreate(&tag, models.Tag{Name: name}).Error; err != nil {
			return nil, err
		}
		tags = append(tags, tag)
	}
	return tags, nil
}

// List returns the full vocabulary for autocomplete, alphabetically.
func (s *TagService) List() ([]string, error) {
	var tags []models.Tag
	if err := s.db.Order("name ASC").Find(&tags).Error; err != nil {
		return nil, err
	}
	names := make([]string, 0, len(tags))
	for _, t := range tags {
		names = append(names, t.Name)
	}
	return names, nil
}
