// Ad catalog HTTP handlers.
//
// This file exposes the REST endpoints for the marketplace catalog:
//   - GET    /ads          (list, optional ?category= filter)
//   - GET    /ads/{id}     (single ad)
//   - POST   /ads          (create, admin only)
//   - DELETE /ads/{id}     (delete, admin only)
//
// Slot decrements are never exposed over HTTP; only the checkout transaction
// mutates availability.
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Rishabht13/TripPlanner/internal/http/middleware"
	"github.com/Rishabht13/TripPlanner/internal/services"
)

// CreateAdRequest is the JSON payload for the administrative ad-create
// endpoint. TotalSlots/AvailableSlots are optional; absent values default to
// each other and finally to 5, and an inconsistent pair is clamped.
type CreateAdRequest struct {
	Category        string  `json:"category" binding:"required" example:"hotels"`
	Title           string  `json:"title" binding:"required" example:"Sea View Suite"`
	Location        string  `json:"location" binding:"required" example:"Goa"`
	Price           float64 `json:"price" example:"200"`
	DiscountPercent int     `json:"discountPercent" example:"15"`
	Rating          float64 `json:"rating" example:"4.5"`
	ImageURL        string  `json:"imageUrl" example:"/images/sea-view.jpg"`
	Description     string  `json:"description" example:"Two nights, breakfast included"`
	TotalSlots      *int    `json:"totalSlots,omitempty" example:"5"`
	AvailableSlots  *int    `json:"availableSlots,omitempty" example:"5"`
}

// ListAds godoc
// @ID          listAds
// @Summary     List ads
// @Description Returns catalog ads newest first, optionally filtered by category.
// @Tags        Ads
// @Produce     json
//
// @Param       X-User-ID  header  string  true   "User ID (gateway header)"  example(user123)
// @Param       category   query   string  false  "hotels | trips | transport"
//
// @Success     200  {array}  domain.Ad
// @Failure     400  {object} handlers.ErrorResponse "Unknown category"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /ads [get]
func (h *Handlers) ListAds(c *gin.Context) {
	ads, err := h.adSvc.List(c.Request.Context(), c.Query("category"))
	if err != nil {
		if errors.Is(err, services.ErrInvalidAd) {
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
			return
		}
		failServer(c, err)
		return
	}
	ok(c, http.StatusOK, ads)
}

// GetAd godoc
// @ID          getAd
// @Summary     Get a single ad
// @Tags        Ads
// @Produce     json
//
// @Param       X-User-ID  header  string  true  "User ID (gateway header)"  example(user123)
// @Param       id         path    string  true  "Ad ID (UUID)"              format(uuid)
//
// @Success     200  {object} domain.Ad
// @Failure     404  {object} handlers.ErrorResponse "Ad not found"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /ads/{id} [get]
func (h *Handlers) GetAd(c *gin.Context) {
	ad, err := h.adSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, services.ErrAdNotFound) {
			fail(c, http.StatusNotFound, ErrCodeNotFound, "ad not found")
			return
		}
		failServer(c, err)
		return
	}
	ok(c, http.StatusOK, ad)
}

// CreateAd godoc
// @ID          createAd
// @Summary     Create an ad (admin)
// @Description Creates a new catalog listing. Discounted price is derived server-side; availableSlots is clamped to totalSlots.
// @Tags        Ads
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID    header  string  true  "User ID (gateway header)"   example(admin1)
// @Param       X-User-Role  header  string  true  "Must be admin"              example(admin)
// @Param       body         body    handlers.CreateAdRequest  true  "New ad"
//
// @Success     201  {object} domain.Ad
// @Failure     400  {object} handlers.ErrorResponse "Validation failure"
// @Failure     403  {object} handlers.ErrorResponse "Admin access required"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /ads [post]
func (h *Handlers) CreateAd(c *gin.Context) {
	var req CreateAdRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "category, title, location, price required")
		return
	}

	ad, err := h.adSvc.Create(c.Request.Context(), middleware.UserID(c), services.NewAdInput{
		Category:        req.Category,
		Title:           req.Title,
		Location:        req.Location,
		Price:           req.Price,
		DiscountPercent: req.DiscountPercent,
		Rating:          req.Rating,
		ImageURL:        req.ImageURL,
		Description:     req.Description,
		TotalSlots:      req.TotalSlots,
		AvailableSlots:  req.AvailableSlots,
	})
	if err != nil {
		if errors.Is(err, services.ErrInvalidAd) {
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
			return
		}
		failServer(c, err)
		return
	}
	ok(c, http.StatusCreated, ad)
}

// DeleteAd godoc
// @ID          deleteAd
// @Summary     Delete an ad (admin)
// @Description Removes a listing from the catalog. Cart lines referencing it become unavailable at checkout.
// @Tags        Ads
// @Produce     json
//
// @Param       X-User-ID    header  string  true  "User ID (gateway header)"  example(admin1)
// @Param       X-User-Role  header  string  true  "Must be admin"             example(admin)
// @Param       id           path    string  true  "Ad ID (UUID)"              format(uuid)
//
// @Success     204  {string} string "No Content"
// @Failure     403  {object} handlers.ErrorResponse "Admin access required"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /ads/{id} [delete]
func (h *Handlers) DeleteAd(c *gin.Context) {
	if err := h.adSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		failServer(c, err)
		return
	}
	noContent(c)
}
