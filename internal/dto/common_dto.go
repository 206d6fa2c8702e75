package dto

type ErrorResponse struct {
	Error   bool   `json:"error"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type MessageResponse struct {
	Message string `json:"message"`
	// EmailSent is false when an outbound mail event could not be published;
	// the underlying state change still happened.
	EmailSent *bool `json:"email_sent,omitempty"`
	// AggregatesStale is true when a derived-field recompute failed after the
	// primary mutation succeeded; re-running the operation is safe.
	AggregatesStale bool `json:"aggregates_stale,omitempty"`
}

type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	DB        string `json:"db"`
	Mail      string `json:"mail"`
}

type ListMeta struct {
	Total  int64 `json:"total"`
	Limit  int   `json:"limit"`
	Offset int   `json:"offset"`
}
