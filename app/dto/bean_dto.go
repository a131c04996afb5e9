package dto

// BeanDTO is the API representation of a catalog bean
type BeanDTO struct {
	ID          uint   `json:"id"`
	UUID        string `json:"uuid"`
	Index       int    `json:"index"`
	IsBotd      bool   `json:"isBOTD"`
	Cost        string `json:"cost"`
	Image       string `json:"image"`
	Colour      string `json:"colour"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Country     string `json:"country"`
}

// ListBeansRequest carries the optional catalog filters; all provided
// filters are ANDed together
type ListBeansRequest struct {
	Search  string `query:"search" validate:"omitempty,max=255"`
	Country string `query:"country" validate:"omitempty,max=128"`
	Colour  string `query:"colour" validate:"omitempty,max=64"`
}

// ListBeansResponse is the catalog listing payload
type ListBeansResponse struct {
	Message string    `json:"message"`
	Items   []BeanDTO `json:"items"`
}

// FacetListResponse carries a sorted distinct-value list (colours or countries)
type FacetListResponse struct {
	Message string   `json:"message"`
	Items   []string `json:"items"`
}

// BeanOfTheDayResponse wraps the daily featured bean
type BeanOfTheDayResponse struct {
	Message string  `json:"message"`
	Bean    BeanDTO `json:"bean"`
	Date    string  `json:"date"`
}
