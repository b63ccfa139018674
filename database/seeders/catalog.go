package seeders

import (
	"fmt"
	"math/rand"
	"os"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Zin-Mg-Nyunt/shopping/app/models"
	"github.com/Zin-Mg-Nyunt/shopping/app/repositories"
	"github.com/Zin-Mg-Nyunt/shopping/pkg/cache"
	"github.com/Zin-Mg-Nyunt/shopping/pkg/http"
)

func init() {
	Register("categories", SeedCategories)
	Register("brands", SeedBrands)
	Register("products", SeedProducts)
}

var categoryNames = []string{
	"Electronics",
	"Household Appliances",
	"Gadgets",
	"Furniture",
	"Sports",
	"Clothes",
}

var brandNames = []string{
	"Apple", "Samsung", "LG", "Sony", "Dell",
	"HP", "Lenovo", "Nike", "Adidas", "Puma",
}

func SeedCategories(db *gorm.DB) error {
	categories := make([]models.Category, 0, len(categoryNames))
	for _, name := range categoryNames {
		categories = append(categories, models.Category{Name: name, Slug: slugify(name)})
	}
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&categories).Error; err != nil {
		return err
	}
	return cache.Forget(repositories.CategoriesCacheKey)
}

func SeedBrands(db *gorm.DB) error {
	brands := make([]models.Brand, 0, len(brandNames))
	for _, name := range brandNames {
		brands = append(brands, models.Brand{Name: name, Slug: slugify(name)})
	}
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&brands).Error; err != nil {
		return err
	}
	return cache.Forget(repositories.BrandsCacheKey)
}

// SeedProducts inserts sample products with randomized stock and one to
// three categories each. Set SEED_REMOTE=true to pull titles and prices
// from fakestoreapi.com instead of the built-in fixtures.
func SeedProducts(db *gorm.DB) error {
	var brands []models.Brand
	if err := db.Find(&brands).Error; err != nil {
		return err
	}
	var categories []models.Category
	if err := db.Find(&categories).Error; err != nil {
		return err
	}
	if len(brands) == 0 || len(categories) == 0 {
		return fmt.Errorf("seed brands and categories first")
	}

	fixtures := productFixtures
	if os.Getenv("SEED_REMOTE") == "true" {
		if remote, err := fetchRemoteProducts(); err == nil && len(remote) > 0 {
			fixtures = remote
		}
	}

	for i, f := range fixtures {
		product := models.Product{
			UserID:      1,
			BrandID:     brands[i%len(brands)].ID,
			Thumbnail:   f.Image,
			Name:        f.Title,
			Slug:        slugify(f.Title),
			Description: f.Description,
			Price:       f.Price,
			Stock:       10 + rand.Intn(91), // 10..100
		}

		picks := rand.Perm(len(categories))[:1+rand.Intn(3)]
		for _, idx := range picks {
			product.Categories = append(product.Categories, categories[idx])
		}

		if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&product).Error; err != nil {
			return err
		}
	}
	return nil
}

type productFixture struct {
	Title       string  `json:"title"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
	Image       string  `json:"image"`
}

func fetchRemoteProducts() ([]productFixture, error) {
	resp, err := http.Get("https://fakestoreapi.com/products?limit=10").
		Retry(2, time.Second).
		Send()
	if err != nil {
		return nil, err
	}
	if err := resp.Throw(); err != nil {
		return nil, err
	}

	var fixtures []productFixture
	if err := resp.JSON(&fixtures); err != nil {
		return nil, err
	}
	return fixtures, nil
}

var productFixtures = []productFixture{
	{Title: "Fjallraven Foldsack No. 1 Backpack", Price: 109.95, Description: "Fits 15 inch laptops, padded sleeve, everyday carry.", Image: "/images/backpack.jpg"},
	{Title: "Mens Casual Premium Slim Fit T-Shirt", Price: 22.30, Description: "Slim-fitting contrast raglan with three-button henley placket.", Image: "/images/tshirt.jpg"},
	{Title: "Mens Cotton Jacket", Price: 55.99, Description: "Great outerwear for spring, autumn and casual winter days.", Image: "/images/jacket.jpg"},
	{Title: "Mens Casual Slim Fit", Price: 15.99, Description: "Lightweight casual shirt in a slim silhouette.", Image: "/images/slimfit.jpg"},
	{Title: "Silver Dragon Station Chain Bracelet", Price: 695.00, Description: "Inspired by the mythical water dragon, protector of the ocean's pearl.", Image: "/images/bracelet.jpg"},
	{Title: "Solid Gold Petite Micropave Ring", Price: 168.00, Description: "Satisfaction guaranteed, returns within 30 days.", Image: "/images/ring.jpg"},
	{Title: "White Gold Plated Princess Ring", Price: 9.99, Description: "Classic created-diamond solitaire for engagement or promise.", Image: "/images/princess.jpg"},
	{Title: "Pierced Owl Rose Gold Double Flared Plugs", Price: 10.99, Description: "Rose gold plated double flared tunnel plugs, stainless steel.", Image: "/images/plugs.jpg"},
	{Title: "WD 2TB Elements Portable External Hard Drive", Price: 64.00, Description: "USB 3.0 compatibility, fast data transfers, high capacity.", Image: "/images/harddrive.jpg"},
	{Title: "SanDisk SSD Plus 1TB Internal SSD", Price: 109.00, Description: "Easy upgrade for faster boot-up, shutdown and application load.", Image: "/images/ssd.jpg"},
}

func slugify(s string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		case !lastDash:
			b.WriteByte('-')
			lastDash = true
		}
	}
	return strings.Trim(b.String(), "-")
}
