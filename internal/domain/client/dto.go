// internal/domain/client/dto.go
package client

type CreateClientRequest struct {
	CompanyName       string `json:"company_name" binding:"required,max=200"`
	BusinessNo        string `json:"business_no" binding:"max=20"`
	ContactName       string `json:"contact_name" binding:"required,max=100"`
	ContactPhone      string `json:"contact_phone" binding:"max=30"`
	ContactEmail      string `json:"contact_email" binding:"omitempty,email"`
	ManagerEmployeeID *int64 `json:"manager_employee_id"`
	Memo              string `json:"memo"`
}

type UpdateClientRequest struct {
	CompanyName       *string `json:"company_name" binding:"omitempty,max=200"`
	BusinessNo        *string `json:"business_no" binding:"omitempty,max=20"`
	ContactName       *string `json:"contact_name" binding:"omitempty,max=100"`
	ContactPhone      *string `json:"contact_phone" binding:"omitempty,max=30"`
	ContactEmail      *string `json:"contact_email" binding:"omitempty,email"`
	ManagerEmployeeID *int64  `json:"manager_employee_id"`
	Status            *Status `json:"status" binding:"omitempty,oneof=active ended"`
	Memo              *string `json:"memo"`
}

type ClientListFilters struct {
	Status   *Status `form:"status"`
	Search   string  `form:"search"`
	Page     int     `form:"page"`
	PageSize int     `form:"page_size"`
}

type ClientListResponse struct {
	Clients  []Client `json:"clients"`
	Total    int64    `json:"total"`
	Page     int      `json:"page"`
	PageSize int      `json:"page_size"`
}
