package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"turnos/common/constant"
	"turnos/common/errs"
	"turnos/model"
)

func writeJSONResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if data == nil {
		return
	}

	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

func writeErrorResponse(w http.ResponseWriter, err error) {
	if err == nil {
		return
	}

	code, message, data := errorStatus(err)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)

	errorResponse := model.ErrorResponse{Success: false, Error: message, Data: data}
	if err := json.NewEncoder(w).Encode(errorResponse); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

func errorStatus(err error) (int, string, any) {
	var httpErr *errs.HttpError
	var validationErr *errs.ValidationError
	var backendErr *errs.BackendError
	var transportErr *errs.TransportError

	switch {
	case errors.As(err, &httpErr):
		return httpErr.Code, httpErr.Message, httpErr.Data
	case errors.As(err, &validationErr):
		return http.StatusBadRequest, constant.MsgValidationFailed, validationErr.Fields
	case errors.As(err, &backendErr):
		if backendErr.Status >= 400 && backendErr.Status < 500 {
			return backendErr.Status, backendErr.UserMessage(), nil
		}
		return http.StatusBadGateway, backendErr.UserMessage(), nil
	case errors.As(err, &transportErr):
		return http.StatusBadGateway, constant.MsgTransportFailure, nil
	case errors.Is(err, errs.ErrNotFound):
		return http.StatusNotFound, constant.MsgTicketNotFound, nil
	case errors.Is(err, errs.ErrBusy):
		return http.StatusConflict, constant.MsgBusy, nil
	case errors.Is(err, errs.ErrNotConfirmed):
		return http.StatusBadRequest, constant.MsgNotConfirmed, nil
	case errors.Is(err, errs.ErrNoLocatedTicket):
		return http.StatusBadRequest, constant.MsgNoLocatedTicket, nil
	case errors.Is(err, errs.ErrKeyChanged):
		return http.StatusConflict, constant.MsgKeyChanged, nil
	case errors.Is(err, errs.ErrInvalidState):
		return http.StatusConflict, constant.MsgInvalidState, nil
	}

	return http.StatusInternalServerError, "Internal Server Error", nil
}

func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return &errs.HttpError{Code: http.StatusBadRequest, Message: constant.MsgInvalidRequest}
	}
	return nil
}

func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, &errs.HttpError{Code: http.StatusBadRequest, Message: constant.MsgInvalidRequest, Data: map[string]string{"id": r.PathValue("id")}}
	}
	return id, nil
}

// confirmed reads the explicit confirmation required by destructive routes.
func confirmed(r *http.Request) bool {
	ok, _ := strconv.ParseBool(r.URL.Query().Get("confirm"))
	return ok
}

func pathCategory(r *http.Request) model.Category {
	return model.Category(r.PathValue("cat"))
}
