package dto

// SettleRequest is the payload for POST /settlements.
type SettleRequest struct {
	ReferenceNumber string `json:"referenceNumber" binding:"required"`
}
