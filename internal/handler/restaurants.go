package handler

import (
	"net/http"
	"strings"

	"paulinepos/internal/dto"
	"paulinepos/internal/middleware"
	"paulinepos/internal/model"
	"paulinepos/internal/seed"
	"paulinepos/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type RestaurantsHandler struct{ store *store.Store }

func NewRestaurantsHandler(s *store.Store) *RestaurantsHandler {
	return &RestaurantsHandler{store: s}
}

// List godoc
// @Summary Liste des restaurants
// @Tags restaurants
// @Produce json
// @Param mine query bool false "Seulement ceux de l'utilisateur connecté"
// @Success 200 {array} model.Restaurant
// @Router /v1/restaurants [get]
func (h *RestaurantsHandler) List(c *gin.Context) {
	if c.Query("mine") == "true" {
		c.JSON(http.StatusOK, h.store.RestaurantsByOwner(middleware.GetClaims(c).UID()))
		return
	}
	c.JSON(http.StatusOK, h.store.Restaurants())
}

// Create godoc
// @Summary Création d'un restaurant
// @Tags restaurants
// @Accept json
// @Produce json
// @Param body body dto.CreateRestaurantRequest true "Restaurant"
// @Success 201 {object} model.Restaurant
// @Failure 422 {object} apierror.ValidationError
// @Router /v1/restaurants [post]
func (h *RestaurantsHandler) Create(c *gin.Context) {
	var req dto.CreateRestaurantRequest
	if !bindAndValidate(c, &req) {
		return
	}
	id := h.store.AddRestaurant(model.Restaurant{
		Name:        strings.TrimSpace(req.Name),
		Specialty:   strings.TrimSpace(req.Specialty),
		Address:     strings.TrimSpace(req.Address),
		Description: strings.TrimSpace(req.Description),
		OwnerID:     middleware.GetClaims(c).UID(),
	})
	if req.Demo {
		for _, t := range seed.DemoTables(id) {
			h.store.AddTable(t)
		}
		for _, p := range seed.DemoProducts(id) {
			h.store.AddProduct(p)
		}
		log.Info().Str("restaurant_id", string(id)).Msg("restaurant seeded with demo data")
	}
	r, _ := h.store.Restaurant(id)
	c.JSON(http.StatusCreated, r)
}

func (h *RestaurantsHandler) Get(c *gin.Context) {
	r, ok := h.store.Restaurant(model.RestaurantID(c.Param("id")))
	if !ok {
		notFound(c, "Restaurant")
		return
	}
	c.JSON(http.StatusOK, r)
}

func (h *RestaurantsHandler) Update(c *gin.Context) {
	id := model.RestaurantID(c.Param("id"))
	if _, ok := h.store.Restaurant(id); !ok {
		notFound(c, "Restaurant")
		return
	}
	var req dto.UpdateRestaurantRequest
	if !bindAndValidate(c, &req) {
		return
	}
	h.store.UpdateRestaurant(id, model.RestaurantPatch{
		Name:        trimmed(req.Name),
		Specialty:   trimmed(req.Specialty),
		Address:     trimmed(req.Address),
		Description: trimmed(req.Description),
	})
	r, _ := h.store.Restaurant(id)
	c.JSON(http.StatusOK, r)
}

// Delete removes the restaurant only; its tables, products and orders
// stay and show up in the integrity report.
func (h *RestaurantsHandler) Delete(c *gin.Context) {
	id := model.RestaurantID(c.Param("id"))
	if _, ok := h.store.Restaurant(id); !ok {
		notFound(c, "Restaurant")
		return
	}
	h.store.DeleteRestaurant(id)
	c.Status(http.StatusNoContent)
}

// Select makes the restaurant the session's current restaurant.
func (h *RestaurantsHandler) Select(c *gin.Context) {
	id := model.RestaurantID(c.Param("id"))
	r, ok := h.store.Restaurant(id)
	if !ok {
		notFound(c, "Restaurant")
		return
	}
	h.store.SetCurrentRestaurant(id)
	c.JSON(http.StatusOK, r)
}

func (h *RestaurantsHandler) Current(c *gin.Context) {
	r, ok := h.store.CurrentRestaurant()
	if !ok {
		notFound(c, "Restaurant courant")
		return
	}
	c.JSON(http.StatusOK, r)
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}
