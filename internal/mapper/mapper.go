package mapper

import (
	"strconv"
	"time"

	"github.com/fourloop/sourceflow/internal/domain"
)

// TimestampLayout is how stored timestamps are shown
const TimestampLayout = "2006-01-02 15:04:05"

// FormatBudget renders a budget without trailing zeros, or "" when unset
func FormatBudget(budget *float64) string {
	if budget == nil {
		return ""
	}
	return strconv.FormatFloat(*budget, 'f', -1, 64)
}

// FormatTimestamp renders a timestamp in UTC, or "" for the zero time
func FormatTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(TimestampLayout)
}

// ToRequestView converts Request to RequestView
func ToRequestView(request *domain.Request) domain.RequestView {
	return domain.RequestView{
		ID:         request.ID,
		ItemName:   request.ItemName,
		Brand:      request.Brand,
		Budget:     FormatBudget(request.BudgetGBP),
		Size:       request.Size,
		Colour:     request.Colour,
		StatusID:   request.StatusID,
		StatusName: request.StatusName(),
		CreatedAt:  FormatTimestamp(request.CreatedAt),
		UpdatedAt:  FormatTimestamp(request.UpdatedAt),
	}
}

// ToRequestViews converts a slice of Request
func ToRequestViews(requests []domain.Request) []domain.RequestView {
	views := make([]domain.RequestView, len(requests))
	for i := range requests {
		views[i] = ToRequestView(&requests[i])
	}
	return views
}

// ToCustomerView converts Customer to CustomerView; nil yields the zero view
func ToCustomerView(customer *domain.Customer) domain.CustomerView {
	if customer == nil {
		return domain.CustomerView{}
	}
	return domain.CustomerView{
		ID:       customer.ID,
		FullName: customer.FullName,
		Email:    customer.Email,
	}
}

// ToNoteViews converts notes, keeping their order
func ToNoteViews(notes []domain.RequestNote) []domain.NoteView {
	views := make([]domain.NoteView, len(notes))
	for i, note := range notes {
		views[i] = domain.NoteView{
			ID:        note.ID,
			Text:      note.Text,
			CreatedAt: FormatTimestamp(note.CreatedAt),
		}
	}
	return views
}

// ToRequestDetail assembles the detail page model
func ToRequestDetail(request *domain.Request, notes []domain.RequestNote) *domain.RequestDetail {
	return &domain.RequestDetail{
		Request:  ToRequestView(request),
		Customer: ToCustomerView(request.Customer),
		Notes:    ToNoteViews(notes),
	}
}

// ToRequestForm pre-fills the edit form from a stored request. Notes start empty.
func ToRequestForm(request *domain.Request) domain.RequestForm {
	return domain.RequestForm{
		ItemName:  request.ItemName,
		Brand:     request.Brand,
		BudgetGBP: FormatBudget(request.BudgetGBP),
		Size:      request.Size,
		Colour:    request.Colour,
		StatusID:  strconv.FormatInt(int64(request.StatusID), 10),
	}
}

// ToStatusOptions builds select options, marking the selected status.
// An unparsable or empty selection selects the first option.
func ToStatusOptions(statuses []domain.Status, selected string) []domain.StatusOption {
	selectedID, err := strconv.ParseInt(selected, 10, 64)
	if err != nil && len(statuses) > 0 {
		selectedID = int64(statuses[0].ID)
	}

	options := make([]domain.StatusOption, len(statuses))
	for i, s := range statuses {
		options[i] = domain.StatusOption{
			ID:       s.ID,
			Name:     s.Name,
			Selected: int64(s.ID) == selectedID,
		}
	}
	return options
}
