package template

// ListOptions provides filtering options for listing templates.
type ListOptions struct {
	Statuses []Status
	Models   []BillingModel
	Limit    int
	Offset   int
}
