package models

// Requests for forecast HTTP endpoints. Defined in domain for consistency and reuse.

// ForecastRequest parameterizes one pipeline run; predict, evaluate, and the
// chart page all take the same shape. Days 0 means "use the configured
// lookback window".
type ForecastRequest struct {
	Symbol string `query:"symbol" form:"symbol" json:"symbol" validate:"required,min=1,max=12"`
	Model  string `query:"model" form:"model" json:"model" default:"linear" validate:"oneof=linear tree svr"`
	Days   int    `query:"days" form:"days" json:"days" validate:"omitempty,gte=60,lte=1000"`
}

type HistoryRequest struct {
	Symbol string `query:"symbol" form:"symbol" json:"symbol" validate:"required,min=1,max=12"`
	Days   int    `query:"days" form:"days" json:"days" default:"30" validate:"gte=1,lte=1000"`
}
