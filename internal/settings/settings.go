package settings

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Renal37/go-quote-relay/internal/models"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// Ключи настроек в хранилище.
const (
	KeyERPEndpoint        = "erp_endpoint"
	KeyERPAPIKey          = "erp_api_key"
	KeyERPTimeout         = "erp_timeout"
	KeyWebhookURL         = "webhook_url"
	KeyMinQuoteAmount     = "min_quote_amount"
	KeyRequireTaxID       = "require_tax_id"
	KeyRequireCompany     = "require_company"
	KeyAdminEmail         = "admin_notification_email"
	KeyEmailNotifications = "email_notifications"
	KeySuccessMessage     = "success_message"
	KeyErrorMessage       = "error_message"
	KeyDebugMode          = "debug_mode"
	KeyAllowedRoles       = "allowed_roles"
	KeyAutoCreateLeads    = "auto_create_leads"
)

var ErrUnknownKey = errors.New("неизвестный ключ настроек")

const (
	DefaultERPTimeout     = 30 * time.Second
	DefaultSuccessMessage = "Quote requested successfully! We will contact you soon."
	DefaultErrorMessage   = "Error requesting quote. Please try again."
)

// Settings неизменяемый снимок настроек, загружаемый на одну операцию.
type Settings struct {
	ERPEndpoint        string
	ERPAPIKey          string
	ERPTimeout         time.Duration
	WebhookURL         string
	MinQuoteAmount     decimal.Decimal
	RequireTaxID       bool
	RequireCompany     bool
	AdminEmail         string
	EmailNotifications bool
	SuccessMessage     string
	ErrorMessage       string
	DebugMode          bool
	AllowedRoles       []models.Role
	AutoCreateLeads    bool
}

// Defaults значения по умолчанию. adminEmail общий адрес администратора сайта.
func Defaults(adminEmail string) Settings {
	return Settings{
		ERPTimeout:         DefaultERPTimeout,
		MinQuoteAmount:     decimal.Zero,
		AdminEmail:         adminEmail,
		EmailNotifications: true,
		SuccessMessage:     DefaultSuccessMessage,
		ErrorMessage:       DefaultErrorMessage,
		AllowedRoles: []models.Role{
			models.RoleCustomer,
			models.RoleAdministrator,
			models.RoleShopManager,
		},
		AutoCreateLeads: true,
	}
}

func (s Settings) ERPConfigured() bool {
	return s.ERPEndpoint != ""
}

func (s Settings) RoleAllowed(role models.Role) bool {
	for _, r := range s.AllowedRoles {
		if r == role {
			return true
		}
	}
	return false
}

// With возвращает копию настроек, поверх которой применены значения из хранилища.
// Некорректные значения пропускаются, ключи и причины возвращаются в skipped.
func (s Settings) With(values map[string]string) (Settings, map[string]error) {
	out := s
	out.AllowedRoles = append([]models.Role(nil), s.AllowedRoles...)
	skipped := map[string]error{}

	for key, raw := range values {
		if err := out.apply(key, raw); err != nil {
			skipped[key] = err
		}
	}

	return out, skipped
}

func (s *Settings) apply(key, raw string) error {
	raw = strings.TrimSpace(raw)

	switch key {
	case KeyERPEndpoint:
		if raw != "" {
			if err := validateURL(raw); err != nil {
				return err
			}
		}
		s.ERPEndpoint = raw
	case KeyERPAPIKey:
		s.ERPAPIKey = raw
	case KeyERPTimeout:
		d, err := parseTimeout(raw)
		if err != nil {
			return err
		}
		s.ERPTimeout = d
	case KeyWebhookURL:
		if raw != "" {
			if err := validateURL(raw); err != nil {
				return err
			}
		}
		s.WebhookURL = raw
	case KeyMinQuoteAmount:
		if raw == "" {
			s.MinQuoteAmount = decimal.Zero
			return nil
		}
		v, err := decimal.NewFromString(raw)
		if err != nil {
			return fmt.Errorf("некорректная минимальная сумма: %w", err)
		}
		if v.IsNegative() {
			return fmt.Errorf("минимальная сумма не может быть отрицательной: %s", raw)
		}
		s.MinQuoteAmount = v
	case KeyRequireTaxID:
		return parseBool(raw, &s.RequireTaxID)
	case KeyRequireCompany:
		return parseBool(raw, &s.RequireCompany)
	case KeyAdminEmail:
		if raw != "" {
			if err := validate.Var(raw, "email"); err != nil {
				return fmt.Errorf("некорректный адрес администратора: %s", raw)
			}
			s.AdminEmail = raw
		}
	case KeyEmailNotifications:
		return parseBool(raw, &s.EmailNotifications)
	case KeySuccessMessage:
		if raw != "" {
			s.SuccessMessage = raw
		}
	case KeyErrorMessage:
		if raw != "" {
			s.ErrorMessage = raw
		}
	case KeyDebugMode:
		return parseBool(raw, &s.DebugMode)
	case KeyAllowedRoles:
		var roles []models.Role
		for _, r := range strings.Split(raw, ",") {
			if r = strings.TrimSpace(r); r != "" {
				roles = append(roles, models.Role(r))
			}
		}
		if len(roles) == 0 {
			return errors.New("список разрешённых ролей пуст")
		}
		s.AllowedRoles = roles
	case KeyAutoCreateLeads:
		return parseBool(raw, &s.AutoCreateLeads)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}

	return nil
}

// Check проверяет значения перед сохранением.
func Check(values map[string]string) error {
	var s Settings
	for key, raw := range values {
		if err := s.apply(key, raw); err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
	}
	return nil
}

// ParseBool принимает yes/no, true/false, 1/0 и on/off.
func ParseBool(raw string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "yes", "true", "1", "on":
		return true, nil
	case "no", "false", "0", "off", "":
		return false, nil
	default:
		return false, fmt.Errorf("некорректное логическое значение: %q", raw)
	}
}

func parseBool(raw string, dest *bool) error {
	v, err := ParseBool(raw)
	if err != nil {
		return err
	}
	*dest = v
	return nil
}

// parseTimeout принимает число секунд или строку длительности вида "45s".
func parseTimeout(raw string) (time.Duration, error) {
	if raw == "" {
		return DefaultERPTimeout, nil
	}

	if secs, err := strconv.Atoi(raw); err == nil {
		if secs <= 0 {
			return 0, fmt.Errorf("таймаут должен быть положительным: %s", raw)
		}
		return time.Duration(secs) * time.Second, nil
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("некорректный таймаут: %w", err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("таймаут должен быть положительным: %s", raw)
	}

	return d, nil
}

var validate = validator.New()

// validateURL принимает только абсолютные http(s) адреса.
func validateURL(raw string) error {
	if err := validate.Var(raw, "http_url"); err != nil {
		return fmt.Errorf("некорректный URL: %s", raw)
	}
	return nil
}
