package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/amnosapps/condominio-backend/internal/model"
)

// ResidentResponse is one roster entry in an apartment response.
type ResidentResponse struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Phone string `json:"phone,omitempty"`
	Email string `json:"email,omitempty"`
}

// ApartmentResponse represents the API response for a single apartment.
type ApartmentResponse struct {
	ID            int64                 `json:"id"`
	Number        string                `json:"number"`
	TypeName      model.ApartmentType   `json:"typeName"`
	Status        model.ApartmentStatus `json:"status"`
	MaxOccupation int                   `json:"maxOccupation"`
	Residents     []ResidentResponse    `json:"residents,omitempty"`
}

// condominiumParam reads the mandatory condominium query parameter.
func condominiumParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Query("condominium"), 10, 64)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid condominium ID"})
		return 0, false
	}
	return id, true
}

// GetApartments handles the GET /api/apartments request.
func (h *Handler) GetApartments(c *gin.Context) {
	condominiumID, ok := condominiumParam(c)
	if !ok {
		return
	}

	apartments, err := h.store.ListApartments(c.Request.Context(), condominiumID)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve apartments"})
		return
	}

	responses := make([]ApartmentResponse, 0, len(apartments))
	for _, a := range apartments {
		resp := ApartmentResponse{
			ID:            a.ID,
			Number:        a.Number,
			TypeName:      a.TypeName,
			Status:        a.Status,
			MaxOccupation: a.MaxOccupation,
		}
		for _, r := range a.Residents {
			resp.Residents = append(resp.Residents, ResidentResponse{
				ID: r.ID, Name: r.Name, Phone: r.Phone, Email: r.Email,
			})
		}
		responses = append(responses, resp)
	}
	c.JSON(http.StatusOK, responses)
}
