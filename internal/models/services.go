package models

import (
	"context"

	"github.com/golang-jwt/jwt/v5"
)

//go:generate mockgen -destination=mocks/mock_auth.go . AuthService
type AuthService interface {
	Register(ctx context.Context, user UnknownUser) error

	Login(ctx context.Context, user UnknownUser) error

	GetUser(ctx context.Context, login string) (*User, error)
}

//go:generate mockgen -destination=mocks/mock_jwt.go . JWTService
type JWTService interface {
	GenerateJWT(subject string) (string, error)

	ValidateToken(token string) (*jwt.Token, error)

	GenerateNonce(userID, action string) (string, error)

	VerifyNonce(token, userID, action string) error
}

//go:generate mockgen -destination=mocks/mock_quote.go . QuoteService
type QuoteService interface {
	Submit(ctx context.Context, user *User, req SubmitRequest) (SubmitResult, error)

	CartSummary(ctx context.Context, user *User) (CartSummary, error)

	ValidateCart(ctx context.Context, user *User) error
}

//go:generate mockgen -destination=mocks/mock_admin.go . AdminService
type AdminService interface {
	ListQuotes(ctx context.Context, actor *User, filter QuoteFilter, page int) (QuotePage, error)

	GetQuote(ctx context.Context, actor *User, quoteID int64) (*Quote, error)

	UpdateStatus(ctx context.Context, actor *User, quoteID int64, update StatusUpdate) error

	Resend(ctx context.Context, actor *User, quoteID int64) (DeliveryResult, error)

	Export(ctx context.Context, actor *User, filter QuoteFilter, format ExportFormat) (string, error)

	TestConnection(ctx context.Context, actor *User) (ConnectionResult, error)

	Stats(ctx context.Context, actor *User) (Stats, error)

	UpdateSettings(ctx context.Context, actor *User, values map[string]string) error

	RenderPDF(ctx context.Context, actor *User, quoteID int64) ([]byte, error)
}
