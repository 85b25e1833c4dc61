package domain

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// RequestForm holds the raw fields posted by the create and edit forms.
// Field names in validation errors use the form tag.
type RequestForm struct {
	ItemName  string `form:"item_name" validate:"required,min=2,max=200"`
	Brand     string `form:"brand" validate:"max=100"`
	BudgetGBP string `form:"budget_gbp" validate:"omitempty,budget"`
	Size      string `form:"size" validate:"max=50"`
	Colour    string `form:"colour" validate:"max=50"`
	StatusID  string `form:"status_id" validate:"omitempty,number"`
	Notes     string `form:"notes" validate:"max=2000"`
}

// Normalize trims every field in place
func (f *RequestForm) Normalize() {
	f.ItemName = strings.TrimSpace(f.ItemName)
	f.Brand = strings.TrimSpace(f.Brand)
	f.BudgetGBP = strings.TrimSpace(f.BudgetGBP)
	f.Size = strings.TrimSpace(f.Size)
	f.Colour = strings.TrimSpace(f.Colour)
	f.StatusID = strings.TrimSpace(f.StatusID)
	f.Notes = strings.TrimSpace(f.Notes)
}

// ToInput converts a normalized, validated form into a RequestInput.
// An empty status means StatusNew and an empty budget means no budget.
func (f *RequestForm) ToInput() (*RequestInput, error) {
	input := &RequestInput{
		StatusID: StatusNew,
		ItemName: f.ItemName,
		Brand:    f.Brand,
		Size:     f.Size,
		Colour:   f.Colour,
		Note:     f.Notes,
	}

	if f.StatusID != "" {
		id, err := strconv.ParseInt(f.StatusID, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w %q: %v", ErrInvalidStatusID, f.StatusID, err)
		}
		input.StatusID = StatusID(id)
	}

	if f.BudgetGBP != "" {
		budget, err := ParseBudget(f.BudgetGBP)
		if err != nil {
			return nil, err
		}
		input.BudgetGBP = &budget
	}

	return input, nil
}

// ParseBudget parses a non-negative GBP amount
func ParseBudget(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("%w %q: %v", ErrInvalidBudget, s, err)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0, fmt.Errorf("%w %q: must be a non-negative number", ErrInvalidBudget, s)
	}
	return v, nil
}

// RequestInput is the parsed content of a create or update
type RequestInput struct {
	StatusID  StatusID
	ItemName  string
	Brand     string
	BudgetGBP *float64
	Size      string
	Colour    string
	// Note is appended to the request's notes when non-empty
	Note string
}

// NoteForm holds the add-note form on the detail page
type NoteForm struct {
	Notes string `form:"notes" validate:"required,max=2000"`
}

// RequestView is a request formatted for display
type RequestView struct {
	ID         int64
	ItemName   string
	Brand      string
	Budget     string
	Size       string
	Colour     string
	StatusID   StatusID
	StatusName string
	CreatedAt  string
	UpdatedAt  string
}

// CustomerView is a customer formatted for display
type CustomerView struct {
	ID       int64
	FullName string
	Email    string
}

// NoteView is a note formatted for display
type NoteView struct {
	ID        int64
	Text      string
	CreatedAt string
}

// RequestDetail is everything the detail page shows
type RequestDetail struct {
	Request  RequestView
	Customer CustomerView
	Notes    []NoteView
}

// StatusOption is one entry of the status select
type StatusOption struct {
	ID       StatusID
	Name     string
	Selected bool
}
