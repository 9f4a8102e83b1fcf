package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/christa-jose1/student-migration-portal/internal/domain"
	"github.com/christa-jose1/student-migration-portal/internal/repository"
	"github.com/christa-jose1/student-migration-portal/internal/service"
	"github.com/christa-jose1/student-migration-portal/pkg/response"
)

// CatalogHandler exposes the course, FAQ, and guide catalogs. Listing
// is public; mutation routes are mounted under the admin group.
type CatalogHandler struct {
	catalog *service.CatalogService
}

// NewCatalogHandler creates a CatalogHandler.
func NewCatalogHandler(catalog *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

// RegisterPublicRoutes mounts the read-only catalog routes.
func (h *CatalogHandler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.GET("/courses", h.ListCourses)
	rg.GET("/faqs", h.ListFAQs)
	rg.GET("/guides", h.ListGuides)
}

// RegisterAdminRoutes mounts the catalog mutation routes.
func (h *CatalogHandler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.POST("/courses", h.CreateCourse)
	rg.PUT("/courses/:id", h.UpdateCourse)
	rg.DELETE("/courses/:id", h.DeleteCourse)
	rg.POST("/faqs", h.CreateFAQ)
	rg.PUT("/faqs/:id", h.UpdateFAQ)
	rg.DELETE("/faqs/:id", h.DeleteFAQ)
	rg.POST("/guides", h.RegisterGuide)
	rg.DELETE("/guides/:id", h.DeleteGuide)
}

func (h *CatalogHandler) ListCourses(c *gin.Context) {
	courses, err := h.catalog.ListCourses(c.Request.Context(), c.Query("country"))
	if err != nil {
		writeCatalogError(c, err)
		return
	}
	response.Success(c, courses)
}

func (h *CatalogHandler) CreateCourse(c *gin.Context) {
	var req domain.CourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	course, err := h.catalog.CreateCourse(c.Request.Context(), req)
	if err != nil {
		writeCatalogError(c, err)
		return
	}
	response.Created(c, course)
}

func (h *CatalogHandler) UpdateCourse(c *gin.Context) {
	var req domain.CourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	course, err := h.catalog.UpdateCourse(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		writeCatalogError(c, err)
		return
	}
	response.Success(c, course)
}

func (h *CatalogHandler) DeleteCourse(c *gin.Context) {
	if err := h.catalog.DeleteCourse(c.Request.Context(), c.Param("id")); err != nil {
		writeCatalogError(c, err)
		return
	}
	response.Message(c, "course deleted")
}

func (h *CatalogHandler) ListFAQs(c *gin.Context) {
	faqs, err := h.catalog.ListFAQs(c.Request.Context())
	if err != nil {
		writeCatalogError(c, err)
		return
	}
	response.Success(c, faqs)
}

func (h *CatalogHandler) CreateFAQ(c *gin.Context) {
	var req domain.FAQRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	faq, err := h.catalog.CreateFAQ(c.Request.Context(), req)
	if err != nil {
		writeCatalogError(c, err)
		return
	}
	response.Created(c, faq)
}

func (h *CatalogHandler) UpdateFAQ(c *gin.Context) {
	var req domain.FAQRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	faq, err := h.catalog.UpdateFAQ(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		writeCatalogError(c, err)
		return
	}
	response.Success(c, faq)
}

func (h *CatalogHandler) DeleteFAQ(c *gin.Context) {
	if err := h.catalog.DeleteFAQ(c.Request.Context(), c.Param("id")); err != nil {
		writeCatalogError(c, err)
		return
	}
	response.Message(c, "faq deleted")
}

func (h *CatalogHandler) ListGuides(c *gin.Context) {
	guides, err := h.catalog.ListGuides(c.Request.Context(), c.Query("country"))
	if err != nil {
		writeCatalogError(c, err)
		return
	}
	response.Success(c, guides)
}

func (h *CatalogHandler) RegisterGuide(c *gin.Context) {
	var req domain.GuideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	guide, err := h.catalog.RegisterGuide(c.Request.Context(), req)
	if err != nil {
		writeCatalogError(c, err)
		return
	}
	response.Created(c, guide)
}

func (h *CatalogHandler) DeleteGuide(c *gin.Context) {
	if err := h.catalog.DeleteGuide(c.Request.Context(), c.Param("id")); err != nil {
		writeCatalogError(c, err)
		return
	}
	response.Message(c, "guide deleted")
}

func writeCatalogError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, repository.ErrCourseNotFound),
		errors.Is(err, repository.ErrFAQNotFound),
		errors.Is(err, repository.ErrGuideNotFound):
		response.NotFound(c, err.Error())
	default:
		response.InternalError(c, "something went wrong")
	}
}
