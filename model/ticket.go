package model

import (
	"fmt"
	"strings"
)

type TicketStatus string

const (
	StatusPendiente TicketStatus = "Pendiente"
	StatusResuelto  TicketStatus = "Resuelto"
)

func (s TicketStatus) Valid() bool {
	return s == StatusPendiente || s == StatusResuelto
}

type Ticket struct {
	ID             int64        `json:"id"`
	NumeroTurno    int          `json:"numero_turno"`
	Curp           string       `json:"curp"`
	Nombre         string       `json:"nombre,omitempty"`
	Paterno        string       `json:"paterno,omitempty"`
	Materno        string       `json:"materno,omitempty"`
	NombreCompleto string       `json:"nombre_completo"`
	Telefono       string       `json:"telefono,omitempty"`
	Celular        string       `json:"celular,omitempty"`
	Correo         string       `json:"correo,omitempty"`
	Nivel          string       `json:"nivel"`
	Municipio      string       `json:"municipio"`
	Asunto         string       `json:"asunto"`
	Estatus        TicketStatus `json:"estatus,omitempty"`
	PdfUrl         string       `json:"pdf_url,omitempty"`
	FechaRegistro  string       `json:"fecha_registro,omitempty"`

	// Create responses name the catalog fields differently.
	NombreNivel     string `json:"nombre_nivel,omitempty"`
	NombreMunicipio string `json:"nombre_municipio,omitempty"`
	NombreAsunto    string `json:"nombre_asunto,omitempty"`
}

// Normalize folds the nombre_* aliases into the canonical catalog fields.
func (t *Ticket) Normalize() {
	if t.Nivel == "" {
		t.Nivel = t.NombreNivel
	}
	if t.Municipio == "" {
		t.Municipio = t.NombreMunicipio
	}
	if t.Asunto == "" {
		t.Asunto = t.NombreAsunto
	}
	t.NombreNivel, t.NombreMunicipio, t.NombreAsunto = "", "", ""
}

func (t Ticket) Key() TicketKey {
	return TicketKey{ID: t.ID, Curp: t.Curp, NumeroTurno: t.NumeroTurno}
}

// QRText is the payload encoded in the ticket's QR code.
func (t Ticket) QRText() string {
	return fmt.Sprintf("CURP: %s\nTurno: %d\nNombre: %s", t.Curp, t.NumeroTurno, t.NombreCompleto)
}

func (t Ticket) BarcodeText() string {
	return fmt.Sprintf("%d", t.NumeroTurno)
}

// TicketKey identifies the record a citizen located through search.
type TicketKey struct {
	ID          int64  `json:"id"`
	Curp        string `json:"curp"`
	NumeroTurno int    `json:"numero_turno"`
}

// Matches reports whether curp and numero_turno are the located ones.
func (k TicketKey) Matches(curp string, numeroTurno int) bool {
	return strings.EqualFold(strings.TrimSpace(curp), k.Curp) && numeroTurno == k.NumeroTurno
}

// TicketForm carries the citizen-editable fields of the intake form.
type TicketForm struct {
	NombreCompleto string `json:"nombreCompleto"`
	Curp           string `json:"curp"`
	Nombre         string `json:"nombre"`
	Paterno        string `json:"paterno"`
	Materno        string `json:"materno"`
	Telefono       string `json:"telefono"`
	Celular        string `json:"celular"`
	Correo         string `json:"correo"`
	Nivel          string `json:"nivel"`
	Municipio      string `json:"municipio"`
	Asunto         string `json:"asunto"`
}

// DisplayName returns NombreCompleto, or the name parts joined when blank.
func (f TicketForm) DisplayName() string {
	if name := strings.TrimSpace(f.NombreCompleto); name != "" {
		return name
	}

	parts := make([]string, 0, 3)
	for _, p := range []string{f.Nombre, f.Paterno, f.Materno} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " ")
}

type CreateTicketRequest struct {
	NombreCompleto string `json:"nombreCompleto"`
	Curp           string `json:"curp"`
	Nombre         string `json:"nombre"`
	Paterno        string `json:"paterno"`
	Materno        string `json:"materno"`
	Telefono       string `json:"telefono"`
	Celular        string `json:"celular"`
	Correo         string `json:"correo"`
	Nivel          string `json:"nivel"`
	Municipio      string `json:"municipio"`
	Asunto         string `json:"asunto"`
}

type CreateTicketResponse struct {
	Envelope
	Turno  Ticket `json:"turno"`
	PdfUrl string `json:"pdf_url"`
}

type SearchTicketRequest struct {
	NumeroTurno int    `json:"numero_turno"`
	Curp        string `json:"curp"`
}

type TicketResponse struct {
	Envelope
	Turno Ticket `json:"turno"`
}

// UpdateTicketRequest is keyed by Curp+NumeroTurno for citizens and by ID for
// administrators. Curp and NumeroTurno are always sent.
type UpdateTicketRequest struct {
	ID             int64  `json:"id,omitempty"`
	Curp           string `json:"curp"`
	NumeroTurno    int    `json:"numero_turno"`
	NombreCompleto string `json:"nombreCompleto,omitempty"`
	Nombre         string `json:"nombre,omitempty"`
	Paterno        string `json:"paterno,omitempty"`
	Materno        string `json:"materno,omitempty"`
	Telefono       string `json:"telefono,omitempty"`
	Celular        string `json:"celular,omitempty"`
	Correo         string `json:"correo,omitempty"`
	Nivel          string `json:"nivel,omitempty"`
	Municipio      string `json:"municipio,omitempty"`
	Asunto         string `json:"asunto,omitempty"`
}

type AdminSearchRequest struct {
	Curp   string `json:"curp"`
	Nombre string `json:"nombre"`
}

type AdminSearchResponse struct {
	Envelope
	Turnos []Ticket `json:"turnos"`
}

type SetStatusRequest struct {
	Estatus TicketStatus `json:"estatus"`
}
