package validation

import (
	"fmt"
	"strings"

	"github.com/Renal37/go-quote-relay/internal/models"
	"github.com/Renal37/go-quote-relay/internal/settings"
	"github.com/go-playground/validator/v10"
)

type Code string

const (
	CodeEmptyCart        Code = "empty_cart"
	CodeBelowMinimum     Code = "below_minimum"
	CodeNotAuthenticated Code = "not_authenticated"
	CodeInsufficientRole Code = "insufficient_role"
	CodeMissingField     Code = "missing_field"
	CodeInvalidTaxID     Code = "invalid_tax_id"
	CodeCustom           Code = "custom"
)

type Reason struct {
	Code    Code   `json:"code"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

// Error результат проверки со всеми найденными причинами отказа.
type Error struct {
	Reasons []Reason `json:"reasons"`
}

func (e *Error) Error() string {
	messages := make([]string, 0, len(e.Reasons))
	for _, r := range e.Reasons {
		messages = append(messages, r.Message)
	}
	return "заявка не прошла проверку: " + strings.Join(messages, "; ")
}

func (e *Error) Has(code Code) bool {
	for _, r := range e.Reasons {
		if r.Code == code {
			return true
		}
	}
	return false
}

func (e *Error) Messages() []string {
	out := make([]string, 0, len(e.Reasons))
	for _, r := range e.Reasons {
		out = append(out, r.Message)
	}
	return out
}

// Rule дополнительное правило проверки.
type Rule func(cart models.Cart, user *models.User, s settings.Settings) []Reason

type Validator struct {
	validate *validator.Validate
	rules    []Rule
}

func New(rules ...Rule) *Validator {
	return &Validator{validate: validator.New(), rules: rules}
}

// Validate проверяет корзину и пользователя перед созданием заявки.
// Проверка не прерывается на первой ошибке: возвращаются все причины.
func (v *Validator) Validate(cart models.Cart, user *models.User, s settings.Settings) error {
	var reasons []Reason

	if cart.IsEmpty() {
		reasons = append(reasons, Reason{Code: CodeEmptyCart, Message: "Your cart is empty"})
	}

	if s.MinQuoteAmount.IsPositive() && cart.Totals.Total.LessThan(s.MinQuoteAmount) {
		reasons = append(reasons, Reason{
			Code:    CodeBelowMinimum,
			Message: fmt.Sprintf("The minimum amount to request a quote is %s", s.MinQuoteAmount.StringFixed(2)),
		})
	}

	if user == nil {
		reasons = append(reasons, Reason{Code: CodeNotAuthenticated, Message: "You must be logged in to request a quote"})
	} else {
		reasons = append(reasons, v.userReasons(user, s)...)
	}

	for _, rule := range v.rules {
		reasons = append(reasons, rule(cart, user, s)...)
	}

	if len(reasons) > 0 {
		return &Error{Reasons: reasons}
	}

	return nil
}

func (v *Validator) userReasons(user *models.User, s settings.Settings) []Reason {
	var reasons []Reason

	if !s.RoleAllowed(user.Role) {
		reasons = append(reasons, Reason{Code: CodeInsufficientRole, Message: "You do not have permission to request quotes"})
	}

	if CustomerName(user) == "" {
		reasons = append(reasons, missing("name", "Name is required"))
	}

	if err := v.validate.Var(strings.TrimSpace(user.Profile.Email), "required,email"); err != nil {
		reasons = append(reasons, missing("email", "A valid email address is required"))
	}

	if s.RequireCompany && strings.TrimSpace(user.Profile.CompanyName) == "" {
		reasons = append(reasons, missing("company_name", "Company name is required"))
	}

	taxID := strings.TrimSpace(user.Profile.TaxID)
	if taxID == "" {
		if s.RequireTaxID {
			reasons = append(reasons, missing("tax_id", "Tax ID is required"))
		}
	} else if !ValidTaxID(taxID) {
		reasons = append(reasons, Reason{Code: CodeInvalidTaxID, Field: "tax_id", Message: "Tax ID is not valid"})
	}

	return reasons
}

func missing(field, message string) Reason {
	return Reason{Code: CodeMissingField, Field: field, Message: message}
}

// CustomerName имя покупателя для заявки: отображаемое имя,
// имя из платёжного адреса или логин.
func CustomerName(user *models.User) string {
	if user == nil {
		return ""
	}
	if name := strings.TrimSpace(user.Profile.DisplayName); name != "" {
		return name
	}
	if name := strings.TrimSpace(user.Profile.Billing.FirstName + " " + user.Profile.Billing.LastName); name != "" {
		return name
	}
	return strings.TrimSpace(user.Login)
}
