package handler

import (
	"net/http"

	"studytour/internal/microservices/http-api/dto"
	"studytour/internal/microservices/http-api/middleware"
	"studytour/internal/microservices/http-api/models"
	"studytour/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

type CampsiteHandler struct {
	campsiteService service.CampsiteService
}

func NewCampsiteHandler(campsiteService service.CampsiteService) *CampsiteHandler {
	return &CampsiteHandler{campsiteService: campsiteService}
}

// RegisterRoutes registers the public catalogue routes under /campsites.
func (h *CampsiteHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.GET("/countries", h.Countries)
	rg.GET("/newest", h.Newest)
	rg.GET("/:id", h.Get)
}

// RegisterAdminRoutes registers campsite management under /admin/campsites.
func (h *CampsiteHandler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	manage := middleware.RequirePermission(models.PermManageCampsites)
	rg.POST("", manage, h.Create)
	rg.PUT("/:id", manage, h.Update)
	rg.DELETE("/:id", manage, h.Delete)
}

// List returns one page of campsites matching the filters.
// GET /api/campsites?search=&country=&category=&min_rating=&page=1&page_size=12
func (h *CampsiteHandler) List(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	var q dto.ListCampsitesQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, err)
		return
	}

	page, err := h.campsiteService.ListCampsites(ctx, q.CampsiteFilters, q.Page, q.PageSize)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// GET /api/campsites/countries
func (h *CampsiteHandler) Countries(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	countries, err := h.campsiteService.ListCountries(ctx)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"countries": countries})
}

// GET /api/campsites/newest
func (h *CampsiteHandler) Newest(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	var q dto.PageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, err)
		return
	}
	page, err := h.campsiteService.ListNewest(ctx, q.Page, q.PageSize)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// GET /api/campsites/:id
func (h *CampsiteHandler) Get(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	campsite, err := h.campsiteService.GetCampsite(ctx, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, campsite)
}

// POST /api/admin/campsites
func (h *CampsiteHandler) Create(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	var req dto.CreateCampsiteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	campsite, err := h.campsiteService.CreateCampsite(ctx, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, campsite)
}

// PUT /api/admin/campsites/:id
func (h *CampsiteHandler) Update(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	var req dto.UpdateCampsiteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	campsite, err := h.campsiteService.UpdateCampsite(ctx, c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, campsite)
}

// DELETE /api/admin/campsites/:id
func (h *CampsiteHandler) Delete(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.campsiteService.DeleteCampsite(ctx, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Campsite deleted successfully"})
}
