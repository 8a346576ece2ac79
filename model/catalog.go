package model

type Category string

const (
	CategoryNivel     Category = "nivel"
	CategoryMunicipio Category = "municipio"
	CategoryAsunto    Category = "asunto"
)

var Categories = []Category{CategoryNivel, CategoryMunicipio, CategoryAsunto}

func (c Category) Valid() bool {
	switch c {
	case CategoryNivel, CategoryMunicipio, CategoryAsunto:
		return true
	}
	return false
}

type CatalogEntry struct {
	ID       int64    `json:"id"`
	Name     string   `json:"name"`
	Category Category `json:"category,omitempty"`
}

type CatalogNameRequest struct {
	Name string `json:"name"`
}

type ListCatalogResponse struct {
	Envelope
	Items []CatalogEntry `json:"items"`
}

type CatalogEntryResponse struct {
	Envelope
	Item CatalogEntry `json:"item"`
}
