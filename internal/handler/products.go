package handler

import (
	"net/http"
	"strings"

	"paulinepos/internal/apierror"
	"paulinepos/internal/dto"
	"paulinepos/internal/model"
	"paulinepos/internal/store"

	"github.com/gin-gonic/gin"
)

type ProductsHandler struct{ store *store.Store }

func NewProductsHandler(s *store.Store) *ProductsHandler { return &ProductsHandler{store: s} }

// Categories lists the static reference categories.
func (h *ProductsHandler) Categories(c *gin.Context) {
	c.JSON(http.StatusOK, h.store.Categories())
}

// ByCategoryCode lists the products of a category code, optionally
// restricted to one restaurant with ?restaurantId=.
func (h *ProductsHandler) ByCategoryCode(c *gin.Context) {
	code := model.CategoryCode(strings.ToUpper(c.Param("code")))
	if _, ok := h.store.CategoryByCode(code); !ok {
		notFound(c, "Catégorie")
		return
	}
	products := h.store.ProductsByCategoryCode(code)
	if rid := c.Query("restaurantId"); rid != "" {
		products = filterProducts(products, func(p model.Product) bool {
			return p.RestaurantID == model.RestaurantID(rid)
		})
	}
	c.JSON(http.StatusOK, products)
}

// List godoc
// @Summary Carte d'un restaurant
// @Tags products
// @Produce json
// @Param id path string true "Restaurant"
// @Param available query bool false "Seulement les produits disponibles"
// @Param category query string false "Code catégorie (PLAT, BOISS, ...)"
// @Success 200 {array} model.Product
// @Router /v1/restaurants/{id}/products [get]
func (h *ProductsHandler) List(c *gin.Context) {
	rid := model.RestaurantID(c.Param("id"))
	var products []model.Product
	if c.Query("available") == "true" {
		products = h.store.AvailableProducts(rid)
	} else {
		products = h.store.ProductsByRestaurant(rid)
	}
	if code := c.Query("category"); code != "" {
		cat, ok := h.store.CategoryByCode(model.CategoryCode(strings.ToUpper(code)))
		if !ok {
			notFound(c, "Catégorie")
			return
		}
		products = filterProducts(products, func(p model.Product) bool { return p.CategoryID == cat.ID })
	}
	c.JSON(http.StatusOK, products)
}

func (h *ProductsHandler) Create(c *gin.Context) {
	rid := model.RestaurantID(c.Param("id"))
	if _, ok := h.store.Restaurant(rid); !ok {
		notFound(c, "Restaurant")
		return
	}
	var req dto.CreateProductRequest
	if !bindAndValidate(c, &req) {
		return
	}
	cid := model.CategoryID(req.CategoryID)
	if !h.validCategory(c, cid) {
		return
	}
	id := h.store.AddProduct(model.Product{
		Name:         strings.TrimSpace(req.Name),
		CategoryID:   cid,
		RestaurantID: rid,
		Price:        req.Price,
		Description:  strings.TrimSpace(req.Description),
		IsAvailable:  req.IsAvailable,
		Unit:         strings.TrimSpace(req.Unit),
	})
	p, _ := h.store.Product(id)
	c.JSON(http.StatusCreated, p)
}

func (h *ProductsHandler) Get(c *gin.Context) {
	p, ok := h.store.Product(model.ProductID(c.Param("id")))
	if !ok {
		notFound(c, "Produit")
		return
	}
	c.JSON(http.StatusOK, p)
}

// Update edits the catalog entry. Lines already on orders keep the name
// and price they were created with.
func (h *ProductsHandler) Update(c *gin.Context) {
	id, ok := h.existing(c)
	if !ok {
		return
	}
	var req dto.UpdateProductRequest
	if !bindAndValidate(c, &req) {
		return
	}
	patch := model.ProductPatch{
		Name:        trimmed(req.Name),
		Price:       req.Price,
		Description: trimmed(req.Description),
		IsAvailable: req.IsAvailable,
		Unit:        trimmed(req.Unit),
	}
	if req.CategoryID != nil {
		cid := model.CategoryID(*req.CategoryID)
		if !h.validCategory(c, cid) {
			return
		}
		patch.CategoryID = &cid
	}
	h.store.UpdateProduct(id, patch)
	h.Get(c)
}

func (h *ProductsHandler) Delete(c *gin.Context) {
	id, ok := h.existing(c)
	if !ok {
		return
	}
	h.store.DeleteProduct(id)
	c.Status(http.StatusNoContent)
}

func (h *ProductsHandler) ToggleAvailability(c *gin.Context) {
	id, ok := h.existing(c)
	if !ok {
		return
	}
	h.store.ToggleProductAvailability(id)
	h.Get(c)
}

func (h *ProductsHandler) existing(c *gin.Context) (model.ProductID, bool) {
	id := model.ProductID(c.Param("id"))
	if _, ok := h.store.Product(id); !ok {
		notFound(c, "Produit")
		return "", false
	}
	return id, true
}

func (h *ProductsHandler) validCategory(c *gin.Context, id model.CategoryID) bool {
	if _, ok := h.store.Category(id); !ok {
		c.JSON(http.StatusUnprocessableEntity, apierror.WithCode("unknown_category", "Catégorie inconnue"))
		return false
	}
	return true
}

func filterProducts(in []model.Product, keep func(model.Product) bool) []model.Product {
	out := make([]model.Product, 0, len(in))
	for _, p := range in {
		if keep(p) {
			out = append(out, p)
		}
	}
	return out
}
