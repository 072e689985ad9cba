package models

// Requests for the dashboard HTTP endpoints. Defined in domain for consistency and reuse.

type NarrativeRequest struct {
	Symbol      string `json:"symbol" validate:"required,min=1,max=20,alphanumdot"`
	Type        string `json:"investor_type" default:"Balanced" validate:"oneof=Conservative Balanced Aggressive"`
	TimeHorizon string `json:"time_horizon" default:"Medium-term" validate:"oneof=Short-term Medium-term Long-term"`
	PrimaryGoal string `json:"primary_goal" default:"Growth" validate:"oneof=Growth Income 'Capital Preservation' Speculative"`
}

// Profile assembles the investor profile from the request fields.
func (r *NarrativeRequest) Profile() InvestorProfile {
	return InvestorProfile{
		Type:        InvestorType(r.Type),
		TimeHorizon: r.TimeHorizon,
		PrimaryGoal: r.PrimaryGoal,
	}
}

type HistoryRequest struct {
	Symbol string `query:"symbol" json:"symbol" validate:"required,min=1,max=20"`
	Limit  int    `query:"limit" json:"limit" default:"20" validate:"gte=1,lte=500"`
}

type StreamRequest struct {
	Symbol      string `query:"symbol" json:"symbol" validate:"required,min=1,max=20"`
	Type        string `query:"investor_type" json:"investor_type" default:"Balanced" validate:"oneof=Conservative Balanced Aggressive"`
	TimeHorizon string `query:"time_horizon" json:"time_horizon" default:"Medium-term" validate:"oneof=Short-term Medium-term Long-term"`
	PrimaryGoal string `query:"primary_goal" json:"primary_goal" default:"Growth" validate:"oneof=Growth Income 'Capital Preservation' Speculative"`
	Interval    int    `query:"interval" json:"interval" default:"15" validate:"gte=5,lte=300"` // seconds between pushes
}

// Profile assembles the investor profile from the request fields.
func (r *StreamRequest) Profile() InvestorProfile {
	return InvestorProfile{
		Type:        InvestorType(r.Type),
		TimeHorizon: r.TimeHorizon,
		PrimaryGoal: r.PrimaryGoal,
	}
}
