// Package binder turns catalog entries into form options and matches
// previously stored free-text values back to an entry.
package binder

import (
	"context"
	"log/slog"
	"strings"

	"turnos/common"
	"turnos/common/constant"
	"turnos/common/otel"
	"turnos/model"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Loader is the read side of the catalog store.
type Loader interface {
	Load(ctx context.Context, category model.Category) ([]model.CatalogEntry, error)
}

type Option struct {
	Value    string `json:"value"`
	Label    string `json:"label"`
	Selected bool   `json:"selected,omitempty"`
}

// Selection is the outcome of resolving one catalog field of a ticket.
type Selection struct {
	Category model.Category     `json:"category"`
	Prior    string             `json:"prior"`
	Entry    model.CatalogEntry `json:"entry"`
	Found    bool               `json:"found"`
	Options  []Option           `json:"options"`
}

// Value is what the form control should hold: the option value on a match,
// empty otherwise.
func (s Selection) Value() string {
	if !s.Found {
		return ""
	}
	return OptionValue(s.Entry)
}

type Binder struct {
	catalogs Loader
}

func New(catalogs Loader) *Binder {
	return &Binder{catalogs: catalogs}
}

// BindOptions lists the category as options in catalog order, marking the one
// that resolves from current.
func (b *Binder) BindOptions(ctx context.Context, category model.Category, current string) ([]Option, error) {
	ctx, span := otel.Tracer.Start(ctx, "Binder.BindOptions")
	defer span.End()

	entries, err := b.catalogs.Load(ctx, category)
	if err != nil {
		common.UtilSpanError(span, err)
		return nil, err
	}

	return Options(entries, current), nil
}

func (b *Binder) Resolve(ctx context.Context, category model.Category, prior string) (model.CatalogEntry, bool, error) {
	entries, err := b.catalogs.Load(ctx, category)
	if err != nil {
		return model.CatalogEntry{}, false, err
	}

	entry, ok := Resolve(entries, prior)
	return entry, ok, nil
}

// BindTicket resolves nivel, municipio and asunto of t. A catalog that fails
// to load yields an unresolved selection; the first error is returned along
// with every selection.
func (b *Binder) BindTicket(ctx context.Context, t model.Ticket) (map[model.Category]Selection, error) {
	ctx, span := otel.Tracer.Start(ctx, "Binder.BindTicket")
	defer span.End()

	priors := map[model.Category]string{
		model.CategoryNivel:     t.Nivel,
		model.CategoryMunicipio: t.Municipio,
		model.CategoryAsunto:    t.Asunto,
	}

	var firstErr error
	out := make(map[model.Category]Selection, len(priors))

	for _, category := range model.Categories {
		prior := priors[category]
		sel := Selection{Category: category, Prior: prior}

		entries, err := b.catalogs.Load(ctx, category)
		if err != nil {
			slog.WarnContext(ctx, "catalog unavailable while binding ticket",
				common.ExtractTraceIDFromCtx(ctx),
				slog.String(constant.LogFieldCategory, string(category)),
				slog.Any(constant.LogFieldErr, err))
			if firstErr == nil {
				firstErr = err
			}
			out[category] = sel
			continue
		}

		sel.Entry, sel.Found = Resolve(entries, prior)
		sel.Options = Options(entries, prior)
		out[category] = sel
	}

	common.UtilSpanError(span, firstErr)
	return out, firstErr
}

// Suggestions returns the entry names for a free-text input's suggestion
// list, in catalog order.
func (b *Binder) Suggestions(ctx context.Context, category model.Category) ([]string, error) {
	entries, err := b.catalogs.Load(ctx, category)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name)
	}
	return names, nil
}

// Options builds the option list; at most one option is selected.
func Options(entries []model.CatalogEntry, current string) []Option {
	match, found := Resolve(entries, current)

	options := make([]Option, 0, len(entries))
	for _, e := range entries {
		options = append(options, Option{
			Value:    OptionValue(e),
			Label:    e.Name,
			Selected: found && e.ID == match.ID && e.Name == match.Name,
		})
	}
	return options
}

// OptionValue is the submitted value of an entry's option.
func OptionValue(e model.CatalogEntry) string {
	return normalize(e.Name)
}

// Resolve finds the entry whose normalized value, then normalized label,
// equals the normalized prior. Nothing else counts as a match.
func Resolve(entries []model.CatalogEntry, prior string) (model.CatalogEntry, bool) {
	key := normalize(prior)
	if key == "" {
		return model.CatalogEntry{}, false
	}

	for _, e := range entries {
		if normalize(OptionValue(e)) == key {
			return e, true
		}
	}
	for _, e := range entries {
		if normalize(e.Name) == key {
			return e, true
		}
	}
	return model.CatalogEntry{}, false
}

func normalize(s string) string {
	return cases.Lower(language.Spanish).String(strings.TrimSpace(s))
}
