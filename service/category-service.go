package service

import (
	"errors"
	"strings"

	"cruxed/app_error"
	"cruxed/repository"

	"gorm.io/gorm"
)

type CategoryService struct {
	categoryRepository *repository.CategoryRepository
}

func NewCategoryService(db *gorm.DB) *CategoryService {
	return &CategoryService{
		categoryRepository: repository.NewCategoryRepository(db),
	}
}

func (s *CategoryService) GetCategoriesForComp(compId int) ([]*repository.Category, error) {
	return s.categoryRepository.GetCategoriesForComp(compId)
}

func (s *CategoryService) CreateCategory(compId int, name string) (*repository.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, app_error.Validation("name is required")
	}
	_, err := s.categoryRepository.GetCategoryByName(compId, name)
	if err == nil {
		return nil, app_error.Conflict("category already exists")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	maxSortOrder, err := s.categoryRepository.GetMaxSortOrder(compId)
	if err != nil {
		return nil, err
	}
	return s.categoryRepository.Save(&repository.Category{
		CompId:    compId,
		Name:      name,
		SortOrder: maxSortOrder + 1,
	})
}

// DeleteCategory refuses to delete a category that participants still
// reference; reassign them first.
func (s *CategoryService) DeleteCategory(compId int, categoryId int) error {
	category, err := s.categoryRepository.GetCategoryInComp(categoryId, compId)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return app_error.NotFound("category not found")
		}
		return err
	}
	count, err := s.categoryRepository.CountParticipants(categoryId)
	if err != nil {
		return err
	}
	if count > 0 {
		return app_error.Conflict("cannot delete: %d participant(s) assigned", count)
	}
	return s.categoryRepository.Delete(category)
}

func (s *CategoryService) CountParticipants(categoryId int) (int64, error) {
	return s.categoryRepository.CountParticipants(categoryId)
}
