package handlers

import (
	"errors"
	"net/http"

	"github.com/Hareshku/growtogather-backend/internal/pkg/validate"
	authsvc "github.com/Hareshku/growtogather-backend/internal/services/auth"
	connectionssvc "github.com/Hareshku/growtogather-backend/internal/services/connections"
	"github.com/Hareshku/growtogather-backend/internal/transport/http/dto"
	httperrors "github.com/Hareshku/growtogather-backend/internal/transport/http/errors"
)

type ConnectionsHandler struct {
	connections *connectionssvc.Service
}

func NewConnectionsHandler(connections *connectionssvc.Service) *ConnectionsHandler {
	return &ConnectionsHandler{connections: connections}
}

func (h *ConnectionsHandler) Request(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.connections == nil {
		writeInternal(w, "CONNECTIONS_SERVICE_UNAVAILABLE", "connections service is unavailable")
		return
	}

	var req dto.ConnectionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", err.Error())
		return
	}

	rec, err := h.connections.Request(r.Context(), identity.UserID, req.ReceiverID, req.Message)
	if err != nil {
		handleConnectionsError(w, err)
		return
	}
	httperrors.Write(w, http.StatusCreated, connectionResponse(rec))
}

func (h *ConnectionsHandler) Respond(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.connections == nil {
		writeInternal(w, "CONNECTIONS_SERVICE_UNAVAILABLE", "connections service is unavailable")
		return
	}

	connectionID, ok := pathID(r, "connectionID")
	if !ok {
		writeBadRequest(w, "INVALID_CONNECTION_ID", "connection id must be a positive integer")
		return
	}

	var req dto.ConnectionRespondRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "invalid request body")
		return
	}

	rec, err := h.connections.Respond(r.Context(), identity.UserID, connectionID, req.Accept)
	if err != nil {
		handleConnectionsError(w, err)
		return
	}
	httperrors.Write(w, http.StatusOK, connectionResponse(rec))
}

func (h *ConnectionsHandler) List(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.connections == nil {
		writeInternal(w, "CONNECTIONS_SERVICE_UNAVAILABLE", "connections service is unavailable")
		return
	}

	limit := queryInt(r, "limit")
	recs, err := h.connections.ListForUser(r.Context(), identity.UserID, limit)
	if err != nil {
		handleConnectionsError(w, err)
		return
	}

	resp := dto.ConnectionListResponse{Connections: make([]dto.ConnectionResponse, 0, len(recs))}
	for _, rec := range recs {
		resp.Connections = append(resp.Connections, connectionResponse(rec))
	}
	httperrors.Write(w, http.StatusOK, resp)
}

func handleConnectionsError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, connectionssvc.ErrValidation):
		writeBadRequest(w, "VALIDATION_ERROR", err.Error())
	case errors.Is(err, connectionssvc.ErrForbidden):
		writeForbidden(w, "FORBIDDEN", "you are not allowed to perform this action")
	case errors.Is(err, connectionssvc.ErrConflict):
		writeConflict(w, "CONNECTION_CONFLICT", err.Error())
	case errors.Is(err, connectionssvc.ErrNotFound):
		writeNotFound(w, "CONNECTION_NOT_FOUND", "connection not found")
	default:
		writeInternal(w, "INTERNAL_ERROR", "something went wrong")
	}
}
