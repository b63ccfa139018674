package services

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/Zin-Mg-Nyunt/shopping/app/models"
	"github.com/Zin-Mg-Nyunt/shopping/app/repositories"
	"github.com/Zin-Mg-Nyunt/shopping/pkg/cache"
	"github.com/Zin-Mg-Nyunt/shopping/pkg/collection"
	"github.com/Zin-Mg-Nyunt/shopping/pkg/orm"
)

const (
	// CatalogPerPage is the listing page size.
	CatalogPerPage = 8

	// relatedCount is how many related products a detail page shows.
	relatedCount = 4

	// relatedTTL is the related-products memoization window.
	relatedTTL = 2 * time.Minute
)

// Catalog is one page of the browsable catalogue with its filter facets.
type Catalog struct {
	Products   []models.Product  `json:"products"`
	Pagination orm.Pagination    `json:"pagination"`
	Categories []models.Category `json:"categories"`
	Brands     []models.Brand    `json:"brands"`
}

// Home is the landing page payload.
type Home struct {
	LatestProducts []models.Product  `json:"latest_products"`
	Categories     []models.Category `json:"categories"`
}

// ProductDetail is one product plus its related picks.
type ProductDetail struct {
	models.Product
	RelatedProducts []models.Product `json:"related_products"`
}

// ProductService serves catalogue browsing.
type ProductService struct {
	products *repositories.ProductRepository
}

func NewProductService(db *gorm.DB) *ProductService {
	return &ProductService{products: repositories.NewProductRepository(db)}
}

// Browse returns one catalogue page for the filter, newest first unless the
// filter sorts by price, with the category and brand facets for the sidebar.
func (s *ProductService) Browse(filter repositories.ProductFilter, page int) (Catalog, error) {
	products, pagination, err := s.products.Filtered(filter, page, CatalogPerPage)
	if err != nil {
		return Catalog{}, err
	}
	categories, err := s.products.AllCategories()
	if err != nil {
		return Catalog{}, err
	}
	brands, err := s.products.AllBrands()
	if err != nil {
		return Catalog{}, err
	}
	return Catalog{
		Products:   products,
		Pagination: pagination,
		Categories: categories,
		Brands:     brands,
	}, nil
}

// HomePage returns the latest four products (optionally narrowed to a
// category) and the category list.
func (s *ProductService) HomePage(category string) (Home, error) {
	latest, err := s.products.Latest(repositories.ProductFilter{Category: category}, relatedCount)
	if err != nil {
		return Home{}, err
	}
	categories, err := s.products.AllCategories()
	if err != nil {
		return Home{}, err
	}
	return Home{LatestProducts: latest, Categories: categories}, nil
}

// Detail loads one product by slug with its brand, categories, and related
// products. Related picks are memoized for two minutes per product.
func (s *ProductService) Detail(slug string) (ProductDetail, error) {
	product, err := s.products.FindBySlug(slug)
	if err != nil {
		return ProductDetail{}, err
	}

	related, err := s.relatedProducts(&product)
	if err != nil {
		return ProductDetail{}, err
	}

	return ProductDetail{Product: product, RelatedProducts: related}, nil
}

// relatedProducts picks up to four products sharing a category, padded with
// the newest products when the category yields too few.
func (s *ProductService) relatedProducts(product *models.Product) ([]models.Product, error) {
	var related []models.Product
	key := fmt.Sprintf("shopping:related-products:%d", product.ID)

	err := cache.Remember(key, relatedTTL, &related, func() (interface{}, error) {
		picks, err := s.buildRelated(product)
		if err != nil {
			return nil, err
		}
		return picks, nil
	})
	return related, err
}

func (s *ProductService) buildRelated(product *models.Product) ([]models.Product, error) {
	categoryIDs := collection.Map(product.Categories, func(c models.Category) uint { return c.ID })

	picks, err := s.products.InCategories(categoryIDs, product.ID, relatedCount)
	if err != nil {
		return nil, err
	}

	if len(picks) < relatedCount {
		exclude := collection.Map(picks, func(p models.Product) uint { return p.ID })
		exclude = append(exclude, product.ID)

		extra, err := s.products.LatestExcluding(exclude, relatedCount-len(picks))
		if err != nil {
			return nil, err
		}
		picks = append(picks, extra...)
	}

	return collection.Take(picks, relatedCount), nil
}
