package pdf

import "github.com/Renal37/go-quote-relay/internal/models"

// Generator формирует PDF-документ заявки.
type Generator interface {
	Generate(q models.Quote) ([]byte, error)
}
