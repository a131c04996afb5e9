// Package businessflow contains the business logic for the application.
package businessflow

import (
	"time"

	"github.com/DavidIrvine-TW/tombola/app/dto"
	"github.com/DavidIrvine-TW/tombola/models"
)

// ClientMetadata holds client-related information for logging and tracing
type ClientMetadata struct {
	IPAddress string `json:"ip_address"`
	UserAgent string `json:"user_agent"`
	RequestID string `json:"request_id,omitempty"`
}

// NewClientMetadata creates a new ClientMetadata instance with basic information
func NewClientMetadata(ipAddress, userAgent string) *ClientMetadata {
	return &ClientMetadata{
		IPAddress: ipAddress,
		UserAgent: userAgent,
	}
}

// SetRequestID sets the request ID
func (cm *ClientMetadata) SetRequestID(requestID string) {
	cm.RequestID = requestID
}

// ToBeanDTO converts a bean model to its API representation
func ToBeanDTO(bean models.Bean) dto.BeanDTO {
	return dto.BeanDTO{
		ID:          bean.ID,
		UUID:        bean.UUID.String(),
		Index:       bean.Index,
		IsBotd:      bean.IsBotd,
		Cost:        bean.Cost,
		Image:       bean.Image,
		Colour:      bean.Colour,
		Name:        bean.Name,
		Description: bean.Description,
		Country:     bean.Country,
	}
}

// ToOrderDTO converts an order read model to its API representation
func ToOrderDTO(row models.OrderWithBean) dto.OrderDTO {
	return dto.OrderDTO{
		ID:           row.ID,
		UUID:         row.UUID.String(),
		BeanID:       row.BeanID,
		BeanName:     row.BeanName,
		CustomerName: row.CustomerName,
		Email:        row.Email,
		Quantity:     row.Quantity,
		TotalCost:    row.TotalCost,
		CreatedAt:    row.CreatedAt.UTC().Format(time.RFC3339),
	}
}
