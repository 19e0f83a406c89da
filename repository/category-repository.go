package repository

import (
	"gorm.io/gorm"
)

type Category struct {
	Id        int    `gorm:"primaryKey"`
	CompId    int    `gorm:"not null;uniqueIndex:idx_category_comp_name;references comps(id)"`
	Name      string `gorm:"not null;uniqueIndex:idx_category_comp_name"`
	SortOrder int    `gorm:"not null;default:0"`
}

type CategoryRepository struct {
	DB *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) *CategoryRepository {
	return &CategoryRepository{DB: db}
}

func (r *CategoryRepository) Save(category *Category) (*Category, error) {
	result := r.DB.Save(category)
	if result.Error != nil {
		return nil, result.Error
	}
	return category, nil
}

func (r *CategoryRepository) GetCategoriesForComp(compId int) ([]*Category, error) {
	categories := make([]*Category, 0)
	result := r.DB.Order("sort_order ASC").Find(&categories, &Category{CompId: compId})
	if result.Error != nil {
		return nil, result.Error
	}
	return categories, nil
}

func (r *CategoryRepository) GetCategoryInComp(categoryId int, compId int) (*Category, error) {
	var category Category
	result := r.DB.First(&category, &Category{Id: categoryId, CompId: compId})
	if result.Error != nil {
		return nil, result.Error
	}
	return &category, nil
}

func (r *CategoryRepository) GetCategoryByName(compId int, name string) (*Category, error) {
	var category Category
	result := r.DB.First(&category, &Category{CompId: compId, Name: name})
	if result.Error != nil {
		return nil, result.Error
	}
	return &category, nil
}

func (r *CategoryRepository) GetMaxSortOrder(compId int) (int, error) {
	var maxSortOrder *int
	result := r.DB.Model(&Category{}).Where("comp_id = ?", compId).Select("MAX(sort_order)").Scan(&maxSortOrder)
	if result.Error != nil {
		return 0, result.Error
	}
	if maxSortOrder == nil {
		return -1, nil
	}
	return *maxSortOrder, nil
}

func (r *CategoryRepository) CountParticipants(categoryId int) (int64, error) {
	var count int64
	result := r.DB.Model(&Participant{}).Where("category_id = ?", categoryId).Count(&count)
	if result.Error != nil {
		return 0, result.Error
	}
	return count, nil
}

func (r *CategoryRepository) Delete(category *Category) error {
	return r.DB.Delete(category).Error
}
