package models

// UnknownUser тело запросов регистрации и входа.
type UnknownUser struct {
	Login    *string  `json:"login"`
	Password *string  `json:"password"`
	Profile  *Profile `json:"profile,omitempty"`
}

type Role string

const (
	RoleCustomer      Role = "customer"
	RoleSubscriber    Role = "subscriber"
	RoleShopManager   Role = "shop_manager"
	RoleAdministrator Role = "administrator"
)

// ElevatedRoles роли, которым доступны административные операции над заявками.
var ElevatedRoles = []Role{RoleAdministrator, RoleShopManager}

type User struct {
	ID      string
	Login   string
	Hash    string
	Role    Role
	Profile Profile
}

// Profile данные покупателя, которые копируются в заявку при отправке.
type Profile struct {
	DisplayName  string  `json:"display_name"`
	Email        string  `json:"email" validate:"omitempty,email"`
	CompanyName  string  `json:"company_name"`
	TaxID        string  `json:"tax_id"`
	Phone        string  `json:"phone"`
	IndustryType string  `json:"industry_type"`
	LabSize      string  `json:"lab_size"`
	AnnualBudget string  `json:"annual_budget"`
	Billing      Address `json:"billing_address"`
}

type Address struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Address1  string `json:"address_1"`
	Address2  string `json:"address_2"`
	City      string `json:"city"`
	State     string `json:"state"`
	Postcode  string `json:"postcode"`
	Country   string `json:"country"`
}

// HasRole сообщает, входит ли роль пользователя в перечисленные.
func (u *User) HasRole(roles ...Role) bool {
	if u == nil {
		return false
	}
	for _, r := range roles {
		if u.Role == r {
			return true
		}
	}
	return false
}

func (u *User) IsElevated() bool {
	return u.HasRole(ElevatedRoles...)
}
