package repositories

import (
	"time"

	"gorm.io/gorm"

	"github.com/Zin-Mg-Nyunt/shopping/app/models"
	"github.com/Zin-Mg-Nyunt/shopping/pkg/orm"
)

// ProductFilter narrows catalogue listings. Zero values mean "no constraint".
type ProductFilter struct {
	Category string // category slug
	Search   string // name substring
	SortBy   string // "price_asc" | "price_desc" | "" (newest first)
	MinPrice float64
	MaxPrice float64
	Brand    string // brand slug
}

// ProductRepository handles database operations for the catalogue.
// Relations are loaded explicitly per query — nothing is lazy.
type ProductRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// filtered applies a ProductFilter to a products query.
func (r *ProductRepository) filtered(f ProductFilter) *gorm.DB {
	q := r.db.Model(&models.Product{})

	if f.Category != "" {
		q = q.Joins("JOIN category_product cp ON cp.product_id = products.id").
			Joins("JOIN categories c ON c.id = cp.category_id").
			Where("c.slug = ?", f.Category).
			Group("products.id")
	}
	if f.Search != "" {
		q = q.Where("products.name LIKE ?", "%"+f.Search+"%")
	}
	if f.Brand != "" {
		q = q.Joins("JOIN brands b ON b.id = products.brand_id").
			Where("b.slug = ?", f.Brand)
	}
	if f.MinPrice > 0 {
		q = q.Where("products.price >= ?", f.MinPrice)
	}
	if f.MaxPrice > 0 {
		q = q.Where("products.price <= ?", f.MaxPrice)
	}

	switch f.SortBy {
	case "price_asc":
		q = q.Order("products.price asc")
	case "price_desc":
		q = q.Order("products.price desc")
	default:
		q = q.Order("products.created_at desc")
	}

	return q
}

// Filtered returns one page of the catalogue matching the filter.
func (r *ProductRepository) Filtered(f ProductFilter, page, perPage int) ([]models.Product, orm.Pagination, error) {
	var products []models.Product
	pagination, err := orm.Wrap(r.filtered(f).Preload("Brand").Preload("Categories")).
		GetWithPagination(&products, page, perPage)
	return products, pagination, err
}

// Latest returns the n newest products matching the filter.
func (r *ProductRepository) Latest(f ProductFilter, n int) ([]models.Product, error) {
	var products []models.Product
	err := r.filtered(f).Limit(n).Find(&products).Error
	return products, err
}

// FindBySlug loads one product with its brand and categories.
func (r *ProductRepository) FindBySlug(slug string) (models.Product, error) {
	var product models.Product
	err := orm.Wrap(r.db).Model(&models.Product{}).
		Preload("Brand").
		Preload("Categories").
		Where("slug = ?", slug).
		First(&product)
	return product, err
}

// FindByID loads one product without relations.
func (r *ProductRepository) FindByID(id uint) (models.Product, error) {
	var product models.Product
	err := orm.Wrap(r.db).Model(&models.Product{}).Where("id = ?", id).First(&product)
	return product, err
}

// InCategories returns up to limit products sharing any of the given
// categories, excluding excludeID, in random order.
func (r *ProductRepository) InCategories(categoryIDs []uint, excludeID uint, limit int) ([]models.Product, error) {
	if len(categoryIDs) == 0 {
		return nil, nil
	}
	var products []models.Product
	err := r.db.Model(&models.Product{}).
		Joins("JOIN category_product cp ON cp.product_id = products.id").
		Where("cp.category_id IN ?", categoryIDs).
		Where("products.id != ?", excludeID).
		Group("products.id").
		Order(r.randomFn()).
		Limit(limit).
		Find(&products).Error
	return products, err
}

// randomFn returns the dialect's random-ordering function.
func (r *ProductRepository) randomFn() string {
	switch r.db.Dialector.Name() {
	case "mysql":
		return "RAND()"
	case "sqlserver":
		return "NEWID()"
	default: // sqlite, postgres
		return "RANDOM()"
	}
}

// LatestExcluding returns the newest products outside the given ID set.
func (r *ProductRepository) LatestExcluding(excludeIDs []uint, limit int) ([]models.Product, error) {
	var products []models.Product
	q := r.db.Model(&models.Product{}).Order("created_at desc").Limit(limit)
	if len(excludeIDs) > 0 {
		q = q.Where("id NOT IN ?", excludeIDs)
	}
	err := q.Find(&products).Error
	return products, err
}

// Cache keys for the taxonomy lists. Seeders forget these after writing.
const (
	CategoriesCacheKey = "catalog:categories"
	BrandsCacheKey     = "catalog:brands"

	taxonomyTTL = 10 * time.Minute
)

// AllCategories returns every category, name order. The list only changes
// when the seeders run, so it is memoized.
func (r *ProductRepository) AllCategories() ([]models.Category, error) {
	var categories []models.Category
	err := orm.Wrap(r.db).Model(&models.Category{}).Order("name asc").
		Cache(CategoriesCacheKey, taxonomyTTL, &categories)
	return categories, err
}

// AllBrands returns every brand, name order. Memoized like AllCategories.
func (r *ProductRepository) AllBrands() ([]models.Brand, error) {
	var brands []models.Brand
	err := orm.Wrap(r.db).Model(&models.Brand{}).Order("name asc").
		Cache(BrandsCacheKey, taxonomyTTL, &brands)
	return brands, err
}
