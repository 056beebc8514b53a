package models

// Query parameters for the dashboard HTTP endpoints.

type CalendarRequest struct {
	Period    string `query:"period" json:"period" default:"daily"`
	Indicator string `query:"indicator" json:"indicator"`
}

type NewsRequest struct {
	Limit int `query:"limit" json:"limit" default:"10" validate:"gte=1,lte=10"`
}
