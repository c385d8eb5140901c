package api

import (
	"net/http"

	"vehicle-rental/internal/handler/httperr"
	"vehicle-rental/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type CatalogHandler struct {
	queries queries.ReservationQueries
}

func NewCatalogHandler(qrys queries.ReservationQueries) *CatalogHandler {
	return &CatalogHandler{queries: qrys}
}

// @Summary Get catalog
// @Description Pickup/return locations with surcharges, and the priced add-on list
// @Tags catalog
// @Produce json
// @Success 200 {object} resdto.CatalogResponse
// @Failure 500 {object} httperr.Response
// @Router /catalog [get]
func (h *CatalogHandler) Get(c *gin.Context) {
	view, err := h.queries.GetCatalog(c.Request.Context())
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}

	c.JSON(http.StatusOK, view)
}
