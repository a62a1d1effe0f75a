package services

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/soundstore/soundstore/internal/models"
	"github.com/soundstore/soundstore/internal/storage"
	"github.com/soundstore/soundstore/pkg/builder"
	"github.com/soundstore/soundstore/pkg/fault"
	"github.com/soundstore/soundstore/pkg/filter"
	"github.com/soundstore/soundstore/pkg/pagination"
	"github.com/soundstore/soundstore/pkg/uow"
)

// ProductQuery narrows the product listing. An absent or unparseable
// Status falls back to in-stock products; SortByPrice accepts "asc" or
// "desc" and anything else leaves the listing in id order.
type ProductQuery struct {
	Name          string `json:"name"`
	Status        string `json:"status"`
	CategoryID    *int64 `json:"categoryId"`
	SubCategoryID *int64 `json:"subCategoryId"`
	SortByPrice   string `json:"sortByPrice"`
}

type ProductRequest struct {
	Name                string          `json:"name"`
	Description         string          `json:"description"`
	StockQuantity       int             `json:"stockQuantity"`
	Price               decimal.Decimal `json:"price"`
	Type                *string         `json:"type"`
	Connectivity        *string         `json:"connectivity"`
	SpecialFeatures     *string         `json:"specialFeatures"`
	FrequencyResponse   *string         `json:"frequencyResponse"`
	Sensitivity         *string         `json:"sensitivity"`
	BatteryLife         *string         `json:"batteryLife"`
	AccessoriesIncluded *string         `json:"accessoriesIncluded"`
	Warranty            *string         `json:"warranty"`
	SubCategoryID       *int64          `json:"subCategoryId"`
	Status              string          `json:"status"`
}

// ImageFile is an uploaded product photo.
type ImageFile struct {
	Name        string
	Content     io.Reader
	Size        int64
	ContentType string
}

type ProductResponse struct {
	ID                  int64           `json:"id"`
	Name                string          `json:"name"`
	Description         string          `json:"description"`
	StockQuantity       int             `json:"stockQuantity"`
	Price               decimal.Decimal `json:"price"`
	Type                *string         `json:"type"`
	Connectivity        *string         `json:"connectivity"`
	SpecialFeatures     *string         `json:"specialFeatures"`
	FrequencyResponse   *string         `json:"frequencyResponse"`
	Sensitivity         *string         `json:"sensitivity"`
	BatteryLife         *string         `json:"batteryLife"`
	AccessoriesIncluded *string         `json:"accessoriesIncluded"`
	Warranty            *string         `json:"warranty"`
	Status              string          `json:"status"`
	SubCategoryID       *int64          `json:"subCategoryId"`
	SubCategoryName     string          `json:"subCategoryName"`
	CategoryID          *int64          `json:"categoryId"`
	CategoryName        string          `json:"categoryName"`
	Images              []string        `json:"images"`
}

// productEqualityFilter holds the exact-match criteria of a ProductQuery.
type productEqualityFilter struct {
	SubCategoryID *int64
}

// ProductService manages the product catalog and its images.
type ProductService struct {
	db       *builder.DB
	log      *logrus.Logger
	uploader storage.Uploader
}

func NewProductService(db *builder.DB, log *logrus.Logger, uploader storage.Uploader) *ProductService {
	return &ProductService{db: db, log: log, uploader: uploader}
}

// GetProducts returns a page of products matching the query.
func (s *ProductService) GetProducts(ctx context.Context, query ProductQuery, pageNumber, pageSize int) (pagination.Page[ProductResponse], error) {
	var empty pagination.Page[ProductResponse]

	status, err := models.ParseProductState(query.Status)
	if err != nil {
		status = models.InStock
	}

	q := builder.Select[models.Product](s.db).Where(builder.Eq("status", status))
	if query.Name != "" {
		q.Where(builder.ILike("name", "%"+query.Name+"%"))
	}
	q = filter.Apply(q, productEqualityFilter{SubCategoryID: query.SubCategoryID})
	if query.CategoryID != nil {
		subIDs, err := s.subCategoryIDs(ctx, *query.CategoryID)
		if err != nil {
			return empty, logFail(s.log, "get products", err)
		}
		if len(subIDs) == 0 {
			return empty, logFail(s.log, "get products", fault.NoData("no products found"))
		}
		q.Where(builder.In("sub_category_id", subIDs...))
	}

	switch strings.ToLower(strings.TrimSpace(query.SortByPrice)) {
	case "asc":
		q.OrderByAsc("price")
	case "desc":
		q.OrderByDesc("price")
	default:
		q.OrderByAsc("id")
	}

	page, err := pagination.Paginate(ctx, q, pageNumber, pageSize)
	if err != nil {
		return empty, logFail(s.log, "get products", err)
	}
	if page.TotalItems == 0 {
		return empty, logFail(s.log, "get products", fault.NoData("no products found"))
	}

	items, err := s.toResponses(ctx, page.Items)
	if err != nil {
		return empty, logFail(s.log, "get products", err)
	}
	return mapPage(page, items), nil
}

// GetProductByCategory returns the in-stock products of a category.
func (s *ProductService) GetProductByCategory(ctx context.Context, categoryID int64) ([]ProductResponse, error) {
	subIDs, err := s.subCategoryIDs(ctx, categoryID)
	if err != nil {
		return nil, logFail(s.log, "get products by category", err)
	}
	if len(subIDs) == 0 {
		return nil, logFail(s.log, "get products by category", fault.NoData("no products found"))
	}

	products, err := builder.Select[models.Product](s.db).
		Where(builder.Eq("status", models.InStock)).
		Where(builder.In("sub_category_id", subIDs...)).
		OrderByAsc("id").
		All(ctx)
	if err != nil {
		return nil, logFail(s.log, "get products by category", err)
	}
	if len(products) == 0 {
		return nil, logFail(s.log, "get products by category", fault.NoData("no products found"))
	}

	items, err := s.toResponses(ctx, products)
	if err != nil {
		return nil, logFail(s.log, "get products by category", err)
	}
	return items, nil
}

// GetProductBySubCategory returns the in-stock products of a subcategory.
func (s *ProductService) GetProductBySubCategory(ctx context.Context, subCategoryID int64) ([]ProductResponse, error) {
	products, err := builder.Select[models.Product](s.db).
		Where(builder.Eq("status", models.InStock)).
		Where(builder.Eq("sub_category_id", subCategoryID)).
		OrderByAsc("id").
		All(ctx)
	if err != nil {
		return nil, logFail(s.log, "get products by subcategory", err)
	}
	if len(products) == 0 {
		return nil, logFail(s.log, "get products by subcategory", fault.NoData("no products found"))
	}

	items, err := s.toResponses(ctx, products)
	if err != nil {
		return nil, logFail(s.log, "get products by subcategory", err)
	}
	return items, nil
}

// GetProduct returns one product with its category names and image URLs.
func (s *ProductService) GetProduct(ctx context.Context, id int64) (*ProductResponse, error) {
	product, err := s.findProduct(ctx, id)
	if err != nil {
		return nil, logFail(s.log, "get product", err)
	}

	items, err := s.toResponses(ctx, []models.Product{*product})
	if err != nil {
		return nil, logFail(s.log, "get product", err)
	}
	return &items[0], nil
}

// AddProduct creates a product with its images. Every file must upload
// cleanly before anything is written; the product row and its image
// rows commit in one transaction.
func (s *ProductService) AddProduct(ctx context.Context, req ProductRequest, files []ImageFile) (int64, error) {
	status, err := models.ParseProductState(req.Status)
	if err != nil {
		return 0, logFail(s.log, "add product", err)
	}

	dup, err := builder.Select[models.Product](s.db).
		Where(builder.EqFold("name", req.Name)).
		Exists(ctx)
	if err != nil {
		return 0, logFail(s.log, "add product", err)
	}
	if dup {
		return 0, logFail(s.log, "add product",
			fault.Duplicated("product %s already exists", req.Name))
	}

	if req.SubCategoryID != nil {
		subExists, err := builder.Select[models.SubCategory](s.db).
			Where(builder.Eq("id", *req.SubCategoryID)).
			Exists(ctx)
		if err != nil {
			return 0, logFail(s.log, "add product", err)
		}
		if !subExists {
			return 0, logFail(s.log, "add product",
				fault.NotFound("subcategory %d was not found", *req.SubCategoryID))
		}
	}

	urls := make([]string, 0, len(files))
	for _, f := range files {
		url, err := s.uploader.UploadImage(ctx, f.Name, f.Content, f.Size, f.ContentType)
		if err != nil {
			return 0, logFail(s.log, "add product", err)
		}
		if url == "" {
			return 0, logFail(s.log, "add product",
				fault.Invalid("upload of %s returned no url", f.Name))
		}
		urls = append(urls, url)
	}

	now := time.Now()
	product := models.Product{
		Name:                req.Name,
		Description:         req.Description,
		StockQuantity:       req.StockQuantity,
		Price:               req.Price,
		Type:                req.Type,
		Connectivity:        req.Connectivity,
		SpecialFeatures:     req.SpecialFeatures,
		FrequencyResponse:   req.FrequencyResponse,
		Sensitivity:         req.Sensitivity,
		BatteryLife:         req.BatteryLife,
		AccessoriesIncluded: req.AccessoriesIncluded,
		Warranty:            req.Warranty,
		SubCategoryID:       req.SubCategoryID,
		Status:              status,
		CreatedAt:           &now,
		UpdatedAt:           &now,
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return 0, logFail(s.log, "add product", err)
	}

	// The early check races with concurrent creates; re-check on the
	// transaction connection before inserting.
	dup, err = builder.TxSelect[models.Product](tx).
		Where(builder.EqFold("name", req.Name)).
		Exists()
	if err != nil {
		_ = tx.Rollback()
		return 0, logFail(s.log, "add product", err)
	}
	if dup {
		_ = tx.Rollback()
		return 0, logFail(s.log, "add product",
			fault.Duplicated("product %s already exists", req.Name))
	}

	inserted, err := builder.TxInsert[models.Product](tx).
		Values(product).
		Returning("id").
		ExecReturning()
	if err != nil || len(inserted) == 0 {
		_ = tx.Rollback()
		if err == nil {
			err = fault.Invalid("insert of %s returned no row", req.Name)
		}
		return 0, logFail(s.log, "add product", err)
	}
	productID := inserted[0].ID

	if len(urls) > 0 {
		images := make([]models.Image, 0, len(urls))
		for _, url := range urls {
			id := productID
			images = append(images, models.Image{
				ProductID: &id,
				URL:       url,
				CreatedAt: &now,
				UpdatedAt: &now,
			})
		}
		if _, err := builder.TxInsert[models.Image](tx).Values(images...).Exec(); err != nil {
			_ = tx.Rollback()
			return 0, logFail(s.log, "add product", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, logFail(s.log, "add product", err)
	}
	return productID, nil
}

// UpdateProduct replaces a product's fields.
func (s *ProductService) UpdateProduct(ctx context.Context, id int64, req ProductRequest) error {
	status, err := models.ParseProductState(req.Status)
	if err != nil {
		return logFail(s.log, "update product", err)
	}

	product, err := s.findProduct(ctx, id)
	if err != nil {
		return logFail(s.log, "update product", err)
	}

	if req.SubCategoryID != nil {
		subExists, err := builder.Select[models.SubCategory](s.db).
			Where(builder.Eq("id", *req.SubCategoryID)).
			Exists(ctx)
		if err != nil {
			return logFail(s.log, "update product", err)
		}
		if !subExists {
			return logFail(s.log, "update product",
				fault.NotFound("subcategory %d was not found", *req.SubCategoryID))
		}
	}

	now := time.Now()
	product.Name = req.Name
	product.Description = req.Description
	product.StockQuantity = req.StockQuantity
	product.Price = req.Price
	product.Type = req.Type
	product.Connectivity = req.Connectivity
	product.SpecialFeatures = req.SpecialFeatures
	product.FrequencyResponse = req.FrequencyResponse
	product.Sensitivity = req.Sensitivity
	product.BatteryLife = req.BatteryLife
	product.AccessoriesIncluded = req.AccessoriesIncluded
	product.Warranty = req.Warranty
	product.SubCategoryID = req.SubCategoryID
	product.Status = status
	product.UpdatedAt = &now

	u := uow.New(s.db)
	defer u.Close()

	repo, err := uow.Repo[models.Product](u)
	if err != nil {
		return logFail(s.log, "update product", err)
	}
	repo.Update(*product)

	if _, err := u.Save(ctx); err != nil {
		return logFail(s.log, "update product", err)
	}
	return nil
}

// UpdateStatus moves a product between lifecycle states. An unknown
// state leaves the stored value untouched.
func (s *ProductService) UpdateStatus(ctx context.Context, id int64, status string) error {
	parsed, err := models.ParseProductState(status)
	if err != nil {
		return logFail(s.log, "update product status", err)
	}

	product, err := s.findProduct(ctx, id)
	if err != nil {
		return logFail(s.log, "update product status", err)
	}

	u := uow.New(s.db)
	defer u.Close()

	repo, err := uow.Repo[models.Product](u)
	if err != nil {
		return logFail(s.log, "update product status", err)
	}

	now := time.Now()
	product.Status = parsed
	product.UpdatedAt = &now
	repo.Update(*product)

	if _, err := u.Save(ctx); err != nil {
		return logFail(s.log, "update product status", err)
	}
	return nil
}

// DeleteProduct removes a product unless an order line references it.
// Its ratings go with it; images are orphaned by the SET NULL policy.
func (s *ProductService) DeleteProduct(ctx context.Context, id int64) error {
	product, err := s.findProduct(ctx, id)
	if err != nil {
		return logFail(s.log, "delete product", err)
	}

	ordered, err := builder.Select[models.OrderDetail](s.db).
		Where(builder.Eq("product_id", id)).
		Exists(ctx)
	if err != nil {
		return logFail(s.log, "delete product", err)
	}
	if ordered {
		return logFail(s.log, "delete product",
			fault.Conflict("product %d is referenced by existing orders", id))
	}

	ratings, err := builder.Select[models.Rating](s.db).
		Where(builder.Eq("product_id", id)).
		All(ctx)
	if err != nil {
		return logFail(s.log, "delete product", err)
	}

	u := uow.New(s.db)
	defer u.Close()

	ratingRepo, err := uow.Repo[models.Rating](u)
	if err != nil {
		return logFail(s.log, "delete product", err)
	}
	ratingRepo.DeleteRange(ratings...)

	productRepo, err := uow.Repo[models.Product](u)
	if err != nil {
		return logFail(s.log, "delete product", err)
	}
	productRepo.Delete(*product)

	if _, err := u.Save(ctx); err != nil {
		return logFail(s.log, "delete product", err)
	}
	return nil
}

func (s *ProductService) findProduct(ctx context.Context, id int64) (*models.Product, error) {
	product, err := builder.Select[models.Product](s.db).
		Where(builder.Eq("id", id)).
		First(ctx)
	if err != nil {
		return nil, notFoundOr(err, "product %d was not found", id)
	}
	return product, nil
}

// subCategoryIDs returns the subcategory ids under a category, shaped
// for an IN condition.
func (s *ProductService) subCategoryIDs(ctx context.Context, categoryID int64) ([]any, error) {
	subs, err := builder.Select[models.SubCategory](s.db).
		Where(builder.Eq("category_id", categoryID)).
		All(ctx)
	if err != nil {
		return nil, err
	}
	ids := make([]any, 0, len(subs))
	for _, sub := range subs {
		ids = append(ids, sub.ID)
	}
	return ids, nil
}

// toResponses decorates products with category names and image URLs,
// fetched in one query per relation.
func (s *ProductService) toResponses(ctx context.Context, products []models.Product) ([]ProductResponse, error) {
	productIDs := make([]any, 0, len(products))
	subIDs := make([]any, 0, len(products))
	seenSubs := make(map[int64]bool)
	for _, p := range products {
		productIDs = append(productIDs, p.ID)
		if p.SubCategoryID != nil && !seenSubs[*p.SubCategoryID] {
			seenSubs[*p.SubCategoryID] = true
			subIDs = append(subIDs, *p.SubCategoryID)
		}
	}

	subsByID := make(map[int64]models.SubCategory)
	categoriesByID := make(map[int64]models.Category)
	if len(subIDs) > 0 {
		subs, err := builder.Select[models.SubCategory](s.db).
			Where(builder.In("id", subIDs...)).
			All(ctx)
		if err != nil {
			return nil, err
		}
		categoryIDs := make([]any, 0, len(subs))
		seenCategories := make(map[int64]bool)
		for _, sub := range subs {
			subsByID[sub.ID] = sub
			if sub.CategoryID != nil && !seenCategories[*sub.CategoryID] {
				seenCategories[*sub.CategoryID] = true
				categoryIDs = append(categoryIDs, *sub.CategoryID)
			}
		}
		if len(categoryIDs) > 0 {
			categories, err := builder.Select[models.Category](s.db).
				Where(builder.In("id", categoryIDs...)).
				All(ctx)
			if err != nil {
				return nil, err
			}
			for _, c := range categories {
				categoriesByID[c.ID] = c
			}
		}
	}

	imagesByProduct := make(map[int64][]string)
	if len(productIDs) > 0 {
		images, err := builder.Select[models.Image](s.db).
			Where(builder.In("product_id", productIDs...)).
			OrderByAsc("id").
			All(ctx)
		if err != nil {
			return nil, err
		}
		for _, img := range images {
			if img.ProductID == nil {
				continue
			}
			imagesByProduct[*img.ProductID] = append(imagesByProduct[*img.ProductID], img.URL)
		}
	}

	out := make([]ProductResponse, 0, len(products))
	for _, p := range products {
		resp := ProductResponse{
			ID:                  p.ID,
			Name:                p.Name,
			Description:         p.Description,
			StockQuantity:       p.StockQuantity,
			Price:               p.Price,
			Type:                p.Type,
			Connectivity:        p.Connectivity,
			SpecialFeatures:     p.SpecialFeatures,
			FrequencyResponse:   p.FrequencyResponse,
			Sensitivity:         p.Sensitivity,
			BatteryLife:         p.BatteryLife,
			AccessoriesIncluded: p.AccessoriesIncluded,
			Warranty:            p.Warranty,
			Status:              p.Status.String(),
			SubCategoryID:       p.SubCategoryID,
			Images:              imagesByProduct[p.ID],
		}
		if p.SubCategoryID != nil {
			if sub, ok := subsByID[*p.SubCategoryID]; ok {
				resp.SubCategoryName = sub.Name
				resp.CategoryID = sub.CategoryID
				if sub.CategoryID != nil {
					if c, ok := categoriesByID[*sub.CategoryID]; ok {
						resp.CategoryName = c.Name
					}
				}
			}
		}
		out = append(out, resp)
	}
	return out, nil
}
