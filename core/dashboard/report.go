package dashboard

import (
	"io"
	"slices"

	"turnos/model"

	"golang.org/x/text/message"
)

// WriteReport prints stats as a plain-text table with p's number format.
func WriteReport(w io.Writer, p *message.Printer, stats model.DashboardStats, filter string) error {
	if _, err := p.Fprintf(w, "Municipio: %s\n", filter); err != nil {
		return err
	}
	if _, err := p.Fprintf(w, "%-30s %10s %10s %10s\n", "", "Resuelto", "Pendiente", "Total"); err != nil {
		return err
	}

	names := make([]string, 0, len(stats.ByMunicipio))
	for m := range stats.ByMunicipio {
		names = append(names, m)
	}
	slices.Sort(names)

	for _, m := range names {
		count := stats.ByMunicipio[m]
		if _, err := p.Fprintf(w, "%-30s %10d %10d %10d\n", m, count.Resuelto, count.Pendiente, count.Total()); err != nil {
			return err
		}
	}

	_, err := p.Fprintf(w, "%-30s %10d %10d %10d\n", "TOTAL", stats.Total.Resuelto, stats.Total.Pendiente, stats.Total.Total())
	return err
}
