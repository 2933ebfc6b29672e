package workflow

import (
	"teleconsult-service/internal/app/config"
	"teleconsult-service/internal/app/models"
	"teleconsult-service/internal/pkg/constvars"
)

var consultationTypes = []string{
	constvars.ConsultationTypeChat,
	constvars.ConsultationTypeAudio,
	constvars.ConsultationTypeVideo,
}

// PriceTable maps each consultation type to its fee.
type PriceTable struct {
	Currency string
	Prices   map[string]float64
}

func NewPriceTable(pricing config.AppPricing) PriceTable {
	return PriceTable{
		Currency: pricing.Currency,
		Prices: map[string]float64{
			constvars.ConsultationTypeChat:  pricing.ChatPrice,
			constvars.ConsultationTypeAudio: pricing.AudioPrice,
			constvars.ConsultationTypeVideo: pricing.VideoPrice,
		},
	}
}

// Quotes lists every consultation type in a fixed order, flagging the
// recommended one.
func (t PriceTable) Quotes(recommended string) []models.PriceQuote {
	quotes := make([]models.PriceQuote, 0, len(consultationTypes))
	for _, consultationType := range consultationTypes {
		quotes = append(quotes, models.PriceQuote{
			ConsultationType: consultationType,
			Amount:           t.Prices[consultationType],
			Currency:         t.Currency,
			Recommended:      consultationType == recommended,
		})
	}
	return quotes
}
