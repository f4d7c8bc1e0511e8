package handlers

// ErrorResponse is the uniform error body. Details is only populated
// for caller errors; provider and internal failures stay generic.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

type QueuedResponse struct {
	Status    string `json:"status"`
	ProductID uint   `json:"product_id"`
}
