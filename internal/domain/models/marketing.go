package models

// MarketingMessage is a bilingual message pushed to optic shops.
type MarketingMessage struct {
	ID        *int64 `json:"id,omitempty"`
	Title     string `json:"title"`
	MessageFr string `json:"messageFr"`
	MessageAr string `json:"messageAr"`
}
