package models

// Requests for the monitor HTTP endpoints.

type RefreshRequest struct {
	Incremental string `query:"incremental" json:"incremental" default:"false" validate:"max=8"`
}

// SaveConfigRequest carries the dashboard's config form. RefreshInterval is
// left untyped: the form may send a number, a numeric string or garbage.
type SaveConfigRequest struct {
	Indices         string      `json:"indices" validate:"max=8192"`
	Funds           string      `json:"funds" validate:"max=4096"`
	RefreshInterval interface{} `json:"refresh_interval"`
}

// ConfigView is the text form of the current configuration.
type ConfigView struct {
	Indices         string `json:"indices"`
	Funds           string `json:"funds"`
	RefreshInterval int    `json:"refresh_interval"`
}
