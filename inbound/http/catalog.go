package http

import (
	"net/http"

	"turnos/common/errs"
	"turnos/core/binder"
	"turnos/core/catalog"
	"turnos/model"
)

type CatalogHttp struct {
	Store  *catalog.Store
	Binder *binder.Binder
}

// RegisterCatalogHttp serves the public option lists through binder and the
// admin catalog maintenance through store.
func RegisterCatalogHttp(mux *http.ServeMux, store *catalog.Store, binder *binder.Binder) *CatalogHttp {
	in := &CatalogHttp{Store: store, Binder: binder}

	mux.HandleFunc("GET /api/public/catalogs/{cat}", in.options)
	mux.HandleFunc("GET /api/catalogs/{cat}", in.list)
	mux.HandleFunc("POST /api/catalogs/{cat}", in.add)
	mux.HandleFunc("PUT /api/catalogs/{cat}/{id}", in.rename)
	mux.HandleFunc("DELETE /api/catalogs/{cat}/{id}", in.remove)

	return in
}

type optionsResponse struct {
	Success bool            `json:"success"`
	Items   []binder.Option `json:"items"`
}

type entryResponse struct {
	Success bool               `json:"success"`
	Item    model.CatalogEntry `json:"item"`
}

type listResponse struct {
	Success bool                 `json:"success"`
	Items   []model.CatalogEntry `json:"items"`
}

func (in *CatalogHttp) options(w http.ResponseWriter, r *http.Request) {
	options, err := in.Binder.BindOptions(r.Context(), pathCategory(r), r.URL.Query().Get("selected"))
	if err != nil {
		writeErrorResponse(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, optionsResponse{Success: true, Items: options})
}

func (in *CatalogHttp) list(w http.ResponseWriter, r *http.Request) {
	entries, err := in.Store.Load(r.Context(), pathCategory(r))
	if err != nil {
		writeErrorResponse(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, listResponse{Success: true, Items: entries})
}

func (in *CatalogHttp) add(w http.ResponseWriter, r *http.Request) {
	var req model.CatalogNameRequest
	if err := decodeJSON(r, &req); err != nil {
		writeErrorResponse(w, err)
		return
	}

	entry, err := in.Store.Add(r.Context(), pathCategory(r), req.Name)
	if err != nil {
		writeErrorResponse(w, err)
		return
	}

	writeJSONResponse(w, http.StatusCreated, entryResponse{Success: true, Item: entry})
}

func (in *CatalogHttp) rename(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeErrorResponse(w, err)
		return
	}

	var req model.CatalogNameRequest
	if err := decodeJSON(r, &req); err != nil {
		writeErrorResponse(w, err)
		return
	}

	entry, err := in.Store.Rename(r.Context(), pathCategory(r), id, req.Name)
	if err != nil {
		writeErrorResponse(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, entryResponse{Success: true, Item: entry})
}

func (in *CatalogHttp) remove(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeErrorResponse(w, err)
		return
	}

	if !confirmed(r) {
		writeErrorResponse(w, errs.ErrNotConfirmed)
		return
	}

	if err := in.Store.Remove(r.Context(), pathCategory(r), id); err != nil {
		writeErrorResponse(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, model.Envelope{Success: true})
}
