// internal/domain/subscription/dto.go
package subscription

type CreatePlanRequest struct {
	Code        string      `json:"code" binding:"required,max=50"`
	Name        string      `json:"name" binding:"required,max=200"`
	ProductType ProductType `json:"product_type" binding:"required,oneof=deduct maintenance"`
	Grade       string      `json:"grade" binding:"required,max=50"`
	Price       int64       `json:"price" binding:"min=0"`

	TextEditCount     int `json:"text_edit_count" binding:"min=0"`
	CodingEditCount   int `json:"coding_edit_count" binding:"min=0"`
	ImageEditCount    int `json:"image_edit_count" binding:"min=0"`
	PopupDesignCount  int `json:"popup_design_count" binding:"min=0"`
	BannerDesignCount int `json:"banner_design_count" binding:"min=0"`
}

type CreateSubscriptionRequest struct {
	ClientID int64 `json:"client_id" binding:"required"`
	PlanID   int64 `json:"plan_id" binding:"required"`

	// Initial prepaid balance; only meaningful for deduct-type plans.
	TotalAmount int64 `json:"total_amount" binding:"min=0"`
}

type UpdateSubscriptionStatusRequest struct {
	Status Status `json:"status" binding:"required,oneof=wait ongoing end unpaid"`
}

type SubscriptionListFilters struct {
	ClientID *int64  `form:"client_id"`
	Status   *Status `form:"status"`
	Page     int     `form:"page"`
	PageSize int     `form:"page_size"`
}

type SubscriptionListResponse struct {
	Subscriptions []ManagedSubscription `json:"subscriptions"`
	Total         int64                 `json:"total"`
	Page          int                   `json:"page"`
	PageSize      int                   `json:"page_size"`
}
