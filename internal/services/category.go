package services

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/soundstore/soundstore/internal/models"
	"github.com/soundstore/soundstore/pkg/builder"
	"github.com/soundstore/soundstore/pkg/fault"
	"github.com/soundstore/soundstore/pkg/pagination"
	"github.com/soundstore/soundstore/pkg/uow"
)

type AddCategoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type AddSubCategoryRequest struct {
	Name       string `json:"name"`
	CategoryID int64  `json:"categoryId"`
}

type UpdateCategoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type UpdateSubCategoryRequest struct {
	Name       string `json:"name"`
	CategoryID *int64 `json:"categoryId"`
}

type SubCategoryResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type CategoryResponse struct {
	ID            int64                 `json:"id"`
	Name          string                `json:"name"`
	Description   string                `json:"description"`
	SubCategories []SubCategoryResponse `json:"subCategories"`
}

// CategoryItem is the lightweight id/name projection used by listings.
type CategoryItem struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// CategoryService manages the category and subcategory catalog.
type CategoryService struct {
	db  *builder.DB
	log *logrus.Logger
}

func NewCategoryService(db *builder.DB, log *logrus.Logger) *CategoryService {
	return &CategoryService{db: db, log: log}
}

// AddCategory creates a category. Names are unique case-insensitively.
func (s *CategoryService) AddCategory(ctx context.Context, req AddCategoryRequest) error {
	exists, err := builder.Select[models.Category](s.db).
		Where(builder.EqFold("name", req.Name)).
		Exists(ctx)
	if err != nil {
		return logFail(s.log, "add category", err)
	}
	if exists {
		return logFail(s.log, "add category",
			fault.Duplicated("category %s already exists", req.Name))
	}

	u := uow.New(s.db)
	defer u.Close()

	repo, err := uow.Repo[models.Category](u)
	if err != nil {
		return logFail(s.log, "add category", err)
	}

	now := time.Now()
	repo.Add(models.Category{
		Name:        req.Name,
		Description: req.Description,
		CreatedAt:   &now,
		UpdatedAt:   &now,
	})

	if _, err := u.Save(ctx); err != nil {
		return logFail(s.log, "add category", err)
	}
	return nil
}

// AddSubCategory creates a subcategory under an existing category.
func (s *CategoryService) AddSubCategory(ctx context.Context, req AddSubCategoryRequest) error {
	parentExists, err := builder.Select[models.Category](s.db).
		Where(builder.Eq("id", req.CategoryID)).
		Exists(ctx)
	if err != nil {
		return logFail(s.log, "add subcategory", err)
	}
	if !parentExists {
		return logFail(s.log, "add subcategory",
			fault.NotFound("category %d was not found", req.CategoryID))
	}

	dup, err := builder.Select[models.SubCategory](s.db).
		Where(builder.EqFold("name", req.Name)).
		Exists(ctx)
	if err != nil {
		return logFail(s.log, "add subcategory", err)
	}
	if dup {
		return logFail(s.log, "add subcategory",
			fault.Duplicated("subcategory %s already exists", req.Name))
	}

	u := uow.New(s.db)
	defer u.Close()

	repo, err := uow.Repo[models.SubCategory](u)
	if err != nil {
		return logFail(s.log, "add subcategory", err)
	}

	now := time.Now()
	categoryID := req.CategoryID
	repo.Add(models.SubCategory{
		Name:       req.Name,
		CategoryID: &categoryID,
		CreatedAt:  &now,
		UpdatedAt:  &now,
	})

	if _, err := u.Save(ctx); err != nil {
		return logFail(s.log, "add subcategory", err)
	}
	return nil
}

// GetCategories returns a page of categories with their subcategories
// attached, optionally narrowed by a case-insensitive name match.
func (s *CategoryService) GetCategories(ctx context.Context, name string, pageNumber, pageSize int) (pagination.Page[CategoryResponse], error) {
	var empty pagination.Page[CategoryResponse]

	q := builder.Select[models.Category](s.db).OrderByAsc("id")
	if name != "" {
		q.Where(builder.ILike("name", "%"+name+"%"))
	}

	page, err := pagination.Paginate(ctx, q, pageNumber, pageSize)
	if err != nil {
		return empty, logFail(s.log, "get categories", err)
	}
	if page.TotalItems == 0 {
		return empty, logFail(s.log, "get categories", fault.NoData("no categories found"))
	}

	byCategory, err := s.subCategoriesFor(ctx, page.Items)
	if err != nil {
		return empty, logFail(s.log, "get categories", err)
	}

	items := make([]CategoryResponse, 0, len(page.Items))
	for _, c := range page.Items {
		items = append(items, CategoryResponse{
			ID:            c.ID,
			Name:          c.Name,
			Description:   c.Description,
			SubCategories: byCategory[c.ID],
		})
	}
	return mapPage(page, items), nil
}

// ListCategories returns every category as an id/name pair.
func (s *CategoryService) ListCategories(ctx context.Context) ([]CategoryItem, error) {
	categories, err := builder.Select[models.Category](s.db).OrderByAsc("id").All(ctx)
	if err != nil {
		return nil, logFail(s.log, "list categories", err)
	}
	if len(categories) == 0 {
		return nil, logFail(s.log, "list categories", fault.NoData("no categories found"))
	}

	items := make([]CategoryItem, 0, len(categories))
	for _, c := range categories {
		items = append(items, CategoryItem{ID: c.ID, Name: c.Name})
	}
	return items, nil
}

// GetCategory returns one category with its subcategories.
func (s *CategoryService) GetCategory(ctx context.Context, id int64) (*CategoryResponse, error) {
	category, err := s.findCategory(ctx, id)
	if err != nil {
		return nil, logFail(s.log, "get category", err)
	}

	byCategory, err := s.subCategoriesFor(ctx, []models.Category{*category})
	if err != nil {
		return nil, logFail(s.log, "get category", err)
	}

	return &CategoryResponse{
		ID:            category.ID,
		Name:          category.Name,
		Description:   category.Description,
		SubCategories: byCategory[category.ID],
	}, nil
}

// UpdateCategory replaces a category's name and description.
func (s *CategoryService) UpdateCategory(ctx context.Context, id int64, req UpdateCategoryRequest) error {
	category, err := s.findCategory(ctx, id)
	if err != nil {
		return logFail(s.log, "update category", err)
	}

	u := uow.New(s.db)
	defer u.Close()

	repo, err := uow.Repo[models.Category](u)
	if err != nil {
		return logFail(s.log, "update category", err)
	}

	now := time.Now()
	category.Name = req.Name
	category.Description = req.Description
	category.UpdatedAt = &now
	repo.Update(*category)

	if _, err := u.Save(ctx); err != nil {
		return logFail(s.log, "update category", err)
	}
	return nil
}

// UpdateSubCategory renames a subcategory and optionally moves it under
// another category, which must exist.
func (s *CategoryService) UpdateSubCategory(ctx context.Context, id int64, req UpdateSubCategoryRequest) error {
	sub, err := s.findSubCategory(ctx, id)
	if err != nil {
		return logFail(s.log, "update subcategory", err)
	}

	if req.CategoryID != nil {
		targetExists, err := builder.Select[models.Category](s.db).
			Where(builder.Eq("id", *req.CategoryID)).
			Exists(ctx)
		if err != nil {
			return logFail(s.log, "update subcategory", err)
		}
		if !targetExists {
			return logFail(s.log, "update subcategory",
				fault.NotFound("category %d was not found", *req.CategoryID))
		}
		sub.CategoryID = req.CategoryID
	}

	u := uow.New(s.db)
	defer u.Close()

	repo, err := uow.Repo[models.SubCategory](u)
	if err != nil {
		return logFail(s.log, "update subcategory", err)
	}

	now := time.Now()
	sub.Name = req.Name
	sub.UpdatedAt = &now
	repo.Update(*sub)

	if _, err := u.Save(ctx); err != nil {
		return logFail(s.log, "update subcategory", err)
	}
	return nil
}

// DeleteCategory removes a category. Its subcategories are orphaned by
// the store's SET NULL policy, not deleted.
func (s *CategoryService) DeleteCategory(ctx context.Context, id int64) error {
	category, err := s.findCategory(ctx, id)
	if err != nil {
		return logFail(s.log, "delete category", err)
	}

	u := uow.New(s.db)
	defer u.Close()

	repo, err := uow.Repo[models.Category](u)
	if err != nil {
		return logFail(s.log, "delete category", err)
	}
	repo.Delete(*category)

	if _, err := u.Save(ctx); err != nil {
		return logFail(s.log, "delete category", err)
	}
	return nil
}

// DeleteSubCategory removes a subcategory, orphaning its products.
func (s *CategoryService) DeleteSubCategory(ctx context.Context, id int64) error {
	sub, err := s.findSubCategory(ctx, id)
	if err != nil {
		return logFail(s.log, "delete subcategory", err)
	}

	u := uow.New(s.db)
	defer u.Close()

	repo, err := uow.Repo[models.SubCategory](u)
	if err != nil {
		return logFail(s.log, "delete subcategory", err)
	}
	repo.Delete(*sub)

	if _, err := u.Save(ctx); err != nil {
		return logFail(s.log, "delete subcategory", err)
	}
	return nil
}

func (s *CategoryService) findCategory(ctx context.Context, id int64) (*models.Category, error) {
	category, err := builder.Select[models.Category](s.db).
		Where(builder.Eq("id", id)).
		First(ctx)
	if err != nil {
		return nil, notFoundOr(err, "category %d was not found", id)
	}
	return category, nil
}

func (s *CategoryService) findSubCategory(ctx context.Context, id int64) (*models.SubCategory, error) {
	sub, err := builder.Select[models.SubCategory](s.db).
		Where(builder.Eq("id", id)).
		First(ctx)
	if err != nil {
		return nil, notFoundOr(err, "subcategory %d was not found", id)
	}
	return sub, nil
}

// subCategoriesFor loads the subcategories of the given categories in
// one query, grouped by parent id.
func (s *CategoryService) subCategoriesFor(ctx context.Context, categories []models.Category) (map[int64][]SubCategoryResponse, error) {
	if len(categories) == 0 {
		return nil, nil
	}

	ids := make([]any, 0, len(categories))
	for _, c := range categories {
		ids = append(ids, c.ID)
	}

	subs, err := builder.Select[models.SubCategory](s.db).
		Where(builder.In("category_id", ids...)).
		OrderByAsc("id").
		All(ctx)
	if err != nil {
		return nil, err
	}

	byCategory := make(map[int64][]SubCategoryResponse)
	for _, sub := range subs {
		if sub.CategoryID == nil {
			continue
		}
		byCategory[*sub.CategoryID] = append(byCategory[*sub.CategoryID],
			SubCategoryResponse{ID: sub.ID, Name: sub.Name})
	}
	return byCategory, nil
}
