package requests

import "net/url"

// ListTestsQuery filters the clinical test listing endpoint. Zero values are
// omitted from the query string.
type ListTestsQuery struct {
	State     string `validate:"omitempty,oneof=pending in_review needs_review final"`
	StartDate string `validate:"omitempty,datetime=2006-01-02"`
	EndDate   string `validate:"omitempty,datetime=2006-01-02"`
	SortBy    string `validate:"omitempty,oneof=receivedDateAsc receivedDateDesc"`
}

func (q *ListTestsQuery) Values() url.Values {
	values := url.Values{}
	if q == nil {
		return values
	}
	if q.State != "" {
		values.Set("state", q.State)
	}
	if q.StartDate != "" {
		values.Set("startReceivedDate", q.StartDate)
	}
	if q.EndDate != "" {
		values.Set("endReceivedDate", q.EndDate)
	}
	if q.SortBy != "" {
		values.Set("sort", q.SortBy)
	}
	return values
}

type TestUser struct {
	Email string `json:"email" validate:"required,email"`
}
