package model

type TicketEventMessage struct {
	ID             int64        `json:"id"`
	NumeroTurno    int          `json:"numero_turno"`
	Curp           string       `json:"curp"`
	NombreCompleto string       `json:"nombre_completo"`
	Correo         string       `json:"correo"`
	Nivel          string       `json:"nivel"`
	Municipio      string       `json:"municipio"`
	Asunto         string       `json:"asunto"`
	Estatus        TicketStatus `json:"estatus,omitempty"`
	PdfUrl         string       `json:"pdf_url,omitempty"`
}

func NewTicketEventMessage(t Ticket) TicketEventMessage {
	return TicketEventMessage{
		ID:             t.ID,
		NumeroTurno:    t.NumeroTurno,
		Curp:           t.Curp,
		NombreCompleto: t.NombreCompleto,
		Correo:         t.Correo,
		Nivel:          t.Nivel,
		Municipio:      t.Municipio,
		Asunto:         t.Asunto,
		Estatus:        t.Estatus,
		PdfUrl:         t.PdfUrl,
	}
}

type SendEmailEventMessage struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}
