// internal/domain/workrequest/dto.go
package workrequest

import "worklink-service/internal/domain/subscription"

type SubmitRequest struct {
	SubscriptionID int64  `json:"subscription_id" binding:"required"`
	ClientID       int64  `json:"client_id" binding:"required"`
	Brand          string `json:"brand" binding:"max=100"`
	Manager        string `json:"manager" binding:"max=100"`
	RequestDate    string `json:"request_date" binding:"required"`
	Content        string `json:"content" binding:"required"`
	AttachmentURL  string `json:"attachment_url"`
	AttachmentName string `json:"attachment_name"`

	// deduct-type payload
	Cost int64 `json:"cost" binding:"min=0"`

	// maintenance-type payload
	WorkTypeDetail subscription.WorkCategory `json:"work_type_detail"`
	Count          int                       `json:"count" binding:"min=0"`
}

type RejectRequest struct {
	Reason string `json:"reason" binding:"required"`
}

type ChangeStatusRequest struct {
	Status Status `json:"status" binding:"required,oneof=in_progress completed"`
}

type ListFilters struct {
	Status     *Status `form:"status"`
	EmployeeID *int64  `form:"employee_id"`
	ClientID   *int64  `form:"client_id"`
	Page       int     `form:"page"`
	PageSize   int     `form:"page_size"`
}

type ListResponse struct {
	Requests []Row `json:"requests"`
	Total    int64 `json:"total"`
	Page     int   `json:"page"`
	PageSize int   `json:"page_size"`
}

type SubmitResponse struct {
	WorkRequestID int64 `json:"work_request_id"`
}
