// internal/domain/notification/dto.go
package notification

type ListFilters struct {
	IsRead   *bool   `form:"is_read"`
	Type     *string `form:"type"`
	Page     int     `form:"page"`
	PageSize int     `form:"page_size"`
}

type ListResponse struct {
	Notifications []Notification `json:"notifications"`
	Total         int64          `json:"total"`
	UnreadCount   int64          `json:"unread_count"`
	Page          int            `json:"page"`
	PageSize      int            `json:"page_size"`
}
