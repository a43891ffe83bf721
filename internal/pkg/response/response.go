package response

import "github.com/gofiber/fiber/v2"

// Envelope is the JSON shape every endpoint returns. Errors reuse it with
// Success=false and an appropriate HTTP status.
type Envelope struct {
	Success    bool        `json:"success"`
	Message    string      `json:"message"`
	Data       interface{} `json:"data"`
	Pagination *Pagination `json:"pagination,omitempty"`
}

// Pagination describes the page window of a list response.
type Pagination struct {
	CurrentPage  int   `json:"current_page"`
	TotalPages   int   `json:"total_pages"`
	TotalRecords int64 `json:"total_records"`
	PerPage      int   `json:"per_page"`
}

// NewPagination builds a Pagination for the given window.
func NewPagination(page, perPage int, total int64) *Pagination {
	totalPages := int(total) / perPage
	if int(total)%perPage != 0 {
		totalPages++
	}
	return &Pagination{
		CurrentPage:  page,
		TotalPages:   totalPages,
		TotalRecords: total,
		PerPage:      perPage,
	}
}

// OK sends a success envelope with data.
func OK(c *fiber.Ctx, status int, message string, data interface{}) error {
	return c.Status(status).JSON(Envelope{Success: true, Message: message, Data: data})
}

// OKPaginated sends a success envelope with data and pagination info.
func OKPaginated(c *fiber.Ctx, status int, message string, data interface{}, p *Pagination) error {
	return c.Status(status).JSON(Envelope{Success: true, Message: message, Data: data, Pagination: p})
}

// Fail sends an error envelope with the given HTTP status.
func Fail(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(Envelope{Success: false, Message: message})
}
