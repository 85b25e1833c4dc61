package handler

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/fourloop/sourceflow/internal/domain"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	// Report fields by their form name so errors line up with the inputs
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	_ = v.RegisterValidation("budget", func(fl validator.FieldLevel) bool {
		_, err := domain.ParseBudget(fl.Field().String())
		return err == nil
	})

	return v
}

var fieldLabels = map[string]string{
	"item_name":  "Item name",
	"brand":      "Brand",
	"budget_gbp": "Budget",
	"size":       "Size",
	"colour":     "Colour",
	"status_id":  "Status",
	"notes":      "Note",
}

// validationErrors converts validator output into per-field messages
func validationErrors(err error) domain.FieldErrors {
	errs := make(domain.FieldErrors)

	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		errs["form"] = err.Error()
		return errs
	}

	for _, fe := range ve {
		errs[fe.Field()] = formatValidationError(fe)
	}
	return errs
}

// formatValidationError creates a human-readable validation error message
func formatValidationError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fieldLabel(fe.Field()))
	case "max":
		return fmt.Sprintf("Must be at most %s characters", fe.Param())
	case "min":
		return fmt.Sprintf("Must be at least %s characters", fe.Param())
	default:
		return domain.GetValidationMessage(fe.Tag())
	}
}

// conversionErrors maps a failed form conversion onto the offending field
func conversionErrors(err error) domain.FieldErrors {
	switch {
	case errors.Is(err, domain.ErrInvalidStatusID):
		return domain.FieldErrors{"status_id": "Unknown status"}
	case errors.Is(err, domain.ErrInvalidBudget):
		return domain.FieldErrors{"budget_gbp": domain.GetValidationMessage("budget")}
	default:
		return domain.FieldErrors{"form": "The submitted form could not be read."}
	}
}

func fieldLabel(field string) string {
	if label, ok := fieldLabels[field]; ok {
		return label
	}
	return field
}

// parseID reads the numeric {id} URL parameter
func parseID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id < 1 {
		return 0, false
	}
	return id, true
}

// parseForm reads a urlencoded body no larger than maxBytes
func parseForm(w http.ResponseWriter, r *http.Request, maxBytes int64) error {
	if maxBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	}
	if err := r.ParseForm(); err != nil {
		return fmt.Errorf("failed to parse form: %w", err)
	}
	return nil
}

// requestFormFrom reads and normalizes the request form fields
func requestFormFrom(r *http.Request) domain.RequestForm {
	form := domain.RequestForm{
		ItemName:  r.PostForm.Get("item_name"),
		Brand:     r.PostForm.Get("brand"),
		BudgetGBP: r.PostForm.Get("budget_gbp"),
		Size:      r.PostForm.Get("size"),
		Colour:    r.PostForm.Get("colour"),
		StatusID:  r.PostForm.Get("status_id"),
		Notes:     r.PostForm.Get("notes"),
	}
	form.Normalize()
	return form
}
