package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/verzia/verzia/internal/models"
	"github.com/verzia/verzia/internal/services"
)

type SiteInfoHandler struct {
	siteInfoService *services.SiteInfoService
}

func NewSiteInfoHandler(siteInfoService *services.SiteInfoService) *SiteInfoHandler {
	return &SiteInfoHandler{siteInfoService: siteInfoService}
}

func (h *SiteInfoHandler) Get(c *gin.Context) {
	info, err := h.siteInfoService.Get(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, info)
}

func (h *SiteInfoHandler) Update(c *gin.Context) {
	actorID, ok := currentUserID(c)
	if !ok {
		return
	}

	var info models.SiteInfo
	if err := c.ShouldBindJSON(&info); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.siteInfoService.Update(c.Request.Context(), actorID, &info); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Site info updated"})
}
