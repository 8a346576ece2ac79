package model

// IntakeSearchRequest is the citizen search form. numero_turno is kept as
// typed so a non-numeric value can be answered as not found.
type IntakeSearchRequest struct {
	NumeroTurno string `json:"numero_turno"`
	Curp        string `json:"curp"`
}

// IntakeUpdateRequest resubmits the ticket located under Session.
type IntakeUpdateRequest struct {
	Session     string `json:"session"`
	NumeroTurno int    `json:"numero_turno"`
	TicketForm
}

// AdminUpdateRequest edits a ticket by id; curp comes from the form.
type AdminUpdateRequest struct {
	NumeroTurno int `json:"numero_turno"`
	TicketForm
}
