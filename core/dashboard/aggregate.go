// Package dashboard tallies tickets per status and municipality.
package dashboard

import (
	"slices"
	"strings"

	"turnos/common/constant"
	"turnos/model"
)

// Aggregate counts tickets per status, overall and per municipality. Only
// tickets whose municipio equals filter are counted unless filter is empty or
// "todos". Municipios always lists every municipality in tickets, so the
// filter's own options do not depend on it.
//
// Every municipality key present in ByMunicipio carries both statuses, zero
// when absent. Tickets with an unrecognized status still register their
// municipality but add nothing to the counts.
func Aggregate(tickets []model.Ticket, filter string) model.DashboardStats {
	filter = strings.TrimSpace(filter)
	all := filter == "" || filter == constant.AllMunicipios

	stats := model.DashboardStats{
		ByMunicipio: make(map[string]model.StatusCount),
		Municipios:  []string{},
	}

	seen := make(map[string]struct{})

	for _, t := range tickets {
		municipio := strings.TrimSpace(t.Municipio)
		if municipio != "" {
			if _, ok := seen[municipio]; !ok {
				seen[municipio] = struct{}{}
				stats.Municipios = append(stats.Municipios, municipio)
			}
		}

		if !all && municipio != filter {
			continue
		}

		stats.Total.Add(t.Estatus)

		if municipio == "" {
			continue
		}
		count := stats.ByMunicipio[municipio]
		count.Add(t.Estatus)
		stats.ByMunicipio[municipio] = count
	}

	slices.Sort(stats.Municipios)
	return stats
}

// ZeroFill gives server-computed stats the same shape Aggregate produces:
// non-nil collections, and every municipality of ByMunicipio listed in
// Municipios, sorted and without duplicates.
func ZeroFill(stats model.DashboardStats) model.DashboardStats {
	out := model.DashboardStats{
		Total:       stats.Total,
		ByMunicipio: make(map[string]model.StatusCount, len(stats.ByMunicipio)),
		Municipios:  []string{},
	}

	seen := make(map[string]struct{})
	add := func(m string) {
		if m == "" {
			return
		}
		if _, ok := seen[m]; ok {
			return
		}
		seen[m] = struct{}{}
		out.Municipios = append(out.Municipios, m)
	}

	for _, m := range stats.Municipios {
		add(m)
	}
	for m, count := range stats.ByMunicipio {
		out.ByMunicipio[m] = count
		add(m)
	}

	slices.Sort(out.Municipios)
	return out
}
