package router

import (
	"net/http"

	"github.com/Renal37/go-quote-relay/internal/middlewares"
	"github.com/Renal37/go-quote-relay/internal/models"
)

type validateCartResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type submitResponse struct {
	Success bool `json:"success"`
	models.SubmitResult
}

func GetCartSummary(w http.ResponseWriter, r *http.Request) {
	quoteService := middlewares.GetServiceFromContext[models.QuoteService](w, r, middlewares.QuoteServiceKey)
	user := middlewares.GetUserFromContext(w, r)
	if quoteService == nil || user == nil {
		return
	}

	summary, err := (*quoteService).CartSummary(r.Context(), user)
	if err != nil {
		writeError(w, r, err)
		return
	}

	middlewares.EncodeJSONResponse(w, summary)
}

func ValidateCart(w http.ResponseWriter, r *http.Request) {
	quoteService := middlewares.GetServiceFromContext[models.QuoteService](w, r, middlewares.QuoteServiceKey)
	user := middlewares.GetUserFromContext(w, r)
	if quoteService == nil || user == nil {
		return
	}

	if err := (*quoteService).ValidateCart(r.Context(), user); err != nil {
		writeError(w, r, err)
		return
	}

	middlewares.EncodeJSONResponse(w, validateCartResponse{Success: true, Message: "Cart is valid for quote request"})
}

// SubmitQuote создаёт заявку из корзины. Ответ приходит после попытки доставки,
// поэтому запрос может длиться до таймаута ERP.
func SubmitQuote(w http.ResponseWriter, r *http.Request) {
	quoteService := middlewares.GetServiceFromContext[models.QuoteService](w, r, middlewares.QuoteServiceKey)
	user := middlewares.GetUserFromContext(w, r)
	if quoteService == nil || user == nil {
		return
	}

	result, err := (*quoteService).Submit(r.Context(), user, models.SubmitRequest{
		IPAddress: ClientIP(r),
		UserAgent: r.UserAgent(),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	middlewares.EncodeJSONResponse(w, submitResponse{Success: true, SubmitResult: result})
}
