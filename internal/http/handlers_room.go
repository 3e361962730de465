package http

import (
	"net/http"

	"kosku/internal/core"
	"kosku/internal/services"
)

// handleRooms serves GET /rooms (list) and POST /rooms (create).
func (s *Server) handleRooms(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		rooms, err := s.rooms.ListRooms(r.Context())
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, rooms)
	case http.MethodPost:
		var room core.Room
		if err := readJSON(w, r, &room); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		created, err := s.rooms.CreateRoom(r.Context(), room)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		s.invalidateSummary()
		writeJSON(w, http.StatusCreated, created)
	default:
		w.Header().Set("Allow", "GET, POST")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) handleUpdateRoom(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}
	var room core.Room
	if err := readJSON(w, r, &room); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if room.ID <= 0 {
		writeError(w, http.StatusBadRequest, "room id is required")
		return
	}
	updated, err := s.rooms.UpdateRoom(r.Context(), room)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	s.invalidateSummary()
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteRoom(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}
	id, err := parseID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.rooms.DeleteRoom(r.Context(), id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	s.invalidateSummary()
	writeJSON(w, http.StatusOK, map[string]int64{"deleted": id})
}

// handleRoomCodes returns every room number the house recognizes.
func (s *Server) handleRoomCodes(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}
	writeJSON(w, http.StatusOK, services.RoomCodes())
}

// handleOccupancy serves either one room's tenant history (?room_id=) or the
// effective occupant of every room for a month (?month=, default current).
func (s *Server) handleOccupancy(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}
	if r.URL.Query().Get("room_id") != "" {
		id, err := parseID(r, "room_id")
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		history, err := s.rooms.OccupantHistory(r.Context(), id)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, history)
		return
	}

	month := monthParam(r, true)
	occupants, err := s.rooms.OccupantsFor(r.Context(), month)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, occupants)
}
