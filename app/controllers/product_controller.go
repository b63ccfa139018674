package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"gorm.io/gorm"

	"github.com/Zin-Mg-Nyunt/shopping/app/repositories"
	"github.com/Zin-Mg-Nyunt/shopping/app/services"
	"github.com/Zin-Mg-Nyunt/shopping/pkg/database"
	"github.com/Zin-Mg-Nyunt/shopping/pkg/response"
	"github.com/Zin-Mg-Nyunt/shopping/pkg/router"
)

// ProductController serves catalogue browsing endpoints.
type ProductController struct {
	service *services.ProductService
}

func NewProductController() *ProductController {
	return &ProductController{service: services.NewProductService(database.DB)}
}

// Home returns the landing page payload: latest products and categories.
func (c *ProductController) Home(w http.ResponseWriter, r *http.Request) {
	home, err := c.service.HomePage(r.URL.Query().Get("category"))
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "Could not load home page")
		return
	}
	response.Success(w, home)
}

// Index returns one filtered catalogue page.
func (c *ProductController) Index(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := repositories.ProductFilter{
		Category: q.Get("category"),
		Search:   q.Get("search"),
		SortBy:   q.Get("sortBy"),
		Brand:    q.Get("brand"),
	}
	if v, err := strconv.ParseFloat(q.Get("min_price"), 64); err == nil {
		filter.MinPrice = v
	}
	if v, err := strconv.ParseFloat(q.Get("max_price"), 64); err == nil {
		filter.MaxPrice = v
	}
	page, _ := strconv.Atoi(q.Get("page"))

	catalog, err := c.service.Browse(filter, page)
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "Could not load products")
		return
	}
	response.Success(w, catalog)
}

// Show returns one product by slug, with brand, categories, and related picks.
func (c *ProductController) Show(w http.ResponseWriter, r *http.Request) {
	slug := router.Param(r, "slug")

	detail, err := c.service.Detail(slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFound(w)
			return
		}
		response.Error(w, http.StatusInternalServerError, "Could not load product")
		return
	}
	response.Success(w, detail)
}
