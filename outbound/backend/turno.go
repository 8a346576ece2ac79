package backend

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"turnos/model"
)

// CreateTicket returns the stored ticket with the catalog aliases folded in
// and the top-level pdf_url attached.
func (c *Client) CreateTicket(ctx context.Context, req model.CreateTicketRequest) (model.Ticket, error) {
	var resp model.CreateTicketResponse
	if err := c.do(ctx, "CreateTicket", http.MethodPost, "/api/turno", nil, req, &resp); err != nil {
		return model.Ticket{}, err
	}

	ticket := resp.Turno
	if ticket.PdfUrl == "" {
		ticket.PdfUrl = resp.PdfUrl
	}
	ticket.Normalize()
	return ticket, nil
}

// FindTicket fails with an error matching errs.ErrNotFound when no ticket has
// that number and CURP.
func (c *Client) FindTicket(ctx context.Context, req model.SearchTicketRequest) (model.Ticket, error) {
	var resp model.TicketResponse
	if err := c.do(ctx, "FindTicket", http.MethodPost, "/api/buscar-turno", nil, req, &resp); err != nil {
		return model.Ticket{}, err
	}

	resp.Turno.Normalize()
	return resp.Turno, nil
}

func (c *Client) UpdateTicket(ctx context.Context, req model.UpdateTicketRequest) (model.Ticket, error) {
	var resp model.TicketResponse
	if err := c.do(ctx, "UpdateTicket", http.MethodPut, "/api/actualizar-turno", nil, req, &resp); err != nil {
		return model.Ticket{}, err
	}

	resp.Turno.Normalize()
	return resp.Turno, nil
}

func (c *Client) SearchTickets(ctx context.Context, req model.AdminSearchRequest) ([]model.Ticket, error) {
	var resp model.AdminSearchResponse
	if err := c.do(ctx, "SearchTickets", http.MethodPost, "/api/admin/search-turnos", nil, req, &resp); err != nil {
		return nil, err
	}

	if resp.Turnos == nil {
		return []model.Ticket{}, nil
	}
	return resp.Turnos, nil
}

func (c *Client) DeleteTicket(ctx context.Context, id int64) error {
	return c.do(ctx, "DeleteTicket", http.MethodDelete, fmt.Sprintf("/api/turno/%d", id), nil, nil, nil)
}

func (c *Client) SetTicketStatus(ctx context.Context, id int64, status model.TicketStatus) (model.Ticket, error) {
	var resp model.TicketResponse
	path := fmt.Sprintf("/api/turno/%d/status", id)
	if err := c.do(ctx, "SetTicketStatus", http.MethodPut, path, nil, model.SetStatusRequest{Estatus: status}, &resp); err != nil {
		return model.Ticket{}, err
	}
	return resp.Turno, nil
}

// DashboardStats reads the backend aggregation; an empty municipio means
// every municipality.
func (c *Client) DashboardStats(ctx context.Context, municipio string) (model.DashboardStats, error) {
	var query url.Values
	if municipio != "" {
		query = url.Values{"municipio": {municipio}}
	}

	var resp model.DashboardStatsResponse
	if err := c.do(ctx, "DashboardStats", http.MethodGet, "/api/admin/dashboard-stats", query, nil, &resp); err != nil {
		return model.DashboardStats{}, err
	}
	return resp.Stats, nil
}
