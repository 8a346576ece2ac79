package model

type StatusCount struct {
	Resuelto  int `json:"Resuelto"`
	Pendiente int `json:"Pendiente"`
}

func (c *StatusCount) Add(status TicketStatus) bool {
	switch status {
	case StatusResuelto:
		c.Resuelto++
	case StatusPendiente:
		c.Pendiente++
	default:
		return false
	}
	return true
}

func (c StatusCount) Total() int {
	return c.Resuelto + c.Pendiente
}

type DashboardStats struct {
	Total       StatusCount            `json:"total"`
	ByMunicipio map[string]StatusCount `json:"by_municipio"`
	Municipios  []string               `json:"municipios"`
}

type DashboardStatsResponse struct {
	Envelope
	Stats DashboardStats `json:"stats"`
}
