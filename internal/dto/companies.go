package dto

// ListFilter contains query parameters for profile listing endpoints.
type ListFilter struct {
	Q        string
	Status   string
	Platform string
	Page     int
	PerPage  int
}
