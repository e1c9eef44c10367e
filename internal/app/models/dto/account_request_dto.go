package dto

// RejectAccountRequestRequest carries the reason recorded on a rejected
// application
type RejectAccountRequestRequest struct {
	Reason string `json:"reason" binding:"required"`
}
