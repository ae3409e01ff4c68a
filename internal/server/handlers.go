package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"gitlab.ozon.dev/pupkingeorgij/custody/internal/custody"
	"gitlab.ozon.dev/pupkingeorgij/custody/internal/repository"
)

const (
	defaultPage     = 1
	defaultPageSize = 10
)

type bookingRequest struct {
	Requester   string `json:"requester"`
	NextKeeper  string `json:"next_keeper"`
	DeviceID    int64  `json:"device_id"`
	BookingDate string `json:"booking_date"`
	ReturnDate  string `json:"return_date"`
}

// parseDate accepts YYYY-MM-DD; an empty string is the zero time.
func parseDate(value string) (time.Time, error) {
	if strings.TrimSpace(value) == "" {
		return time.Time{}, nil
	}
	return time.Parse(dateLayout, strings.TrimSpace(value))
}

func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	return id, err == nil && id > 0
}

func (s *Server) handleSubmitRequests(w http.ResponseWriter, r *http.Request) {
	var submitRequest struct {
		Requests []bookingRequest `json:"requests"`
	}
	if err := json.NewDecoder(r.Body).Decode(&submitRequest); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	batch := make([]custody.BookingInput, 0, len(submitRequest.Requests))
	for _, item := range submitRequest.Requests {
		bookingDate, err := parseDate(item.BookingDate)
		if err != nil {
			respondError(w, http.StatusBadRequest, "Invalid date format. Use YYYY-MM-DD")
			return
		}
		returnDate, err := parseDate(item.ReturnDate)
		if err != nil {
			respondError(w, http.StatusBadRequest, "Invalid date format. Use YYYY-MM-DD")
			return
		}
		batch = append(batch, custody.BookingInput{
			Requester:   item.Requester,
			NextKeeper:  item.NextKeeper,
			DeviceID:    item.DeviceID,
			BookingDate: bookingDate,
			ReturnDate:  returnDate,
		})
	}

	result, err := s.service.SubmitBookingRequests(r.Context(), batch)
	if err != nil {
		s.respondServiceError(w, "submit_requests", err)
		return
	}
	if !result.OK() {
		respondJSON(w, http.StatusBadRequest, result)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleUpdateRequestStatus(w http.ResponseWriter, r *http.Request) {
	requestID, ok := pathID(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid request ID")
		return
	}

	var statusRequest struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&statusRequest); err != nil || statusRequest.Status == "" {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	status, err := repository.ParseRequestStatus(statusRequest.Status)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Unknown request status")
		return
	}

	if err := s.service.UpdateRequestStatus(r.Context(), requestID, status); err != nil {
		s.respondServiceError(w, "update_request_status", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"message": "Request status updated successfully",
	})
}

func (s *Server) handleExtendDuration(w http.ResponseWriter, r *http.Request) {
	var extendRequest struct {
		NextKeeper string `json:"next_keeper"`
		DeviceID   int64  `json:"device_id"`
		ReturnDate string `json:"return_date"`
	}
	if err := json.NewDecoder(r.Body).Decode(&extendRequest); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	returnDate, err := parseDate(extendRequest.ReturnDate)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid date format. Use YYYY-MM-DD")
		return
	}

	extension, err := s.service.ExtendDuration(r.Context(), custody.ExtendInput{
		NextKeeper: extendRequest.NextKeeper,
		DeviceID:   extendRequest.DeviceID,
		ReturnDate: returnDate,
	})
	if err != nil {
		s.respondServiceError(w, "extend_duration", err)
		return
	}

	respondJSON(w, http.StatusCreated, extension)
}

func (s *Server) handleKeeperReturn(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var returnRequest struct {
		DeviceID int64 `json:"device_id"`
		KeeperNo int   `json:"keeper_no"`
	}
	if err := json.NewDecoder(r.Body).Decode(&returnRequest); err != nil || returnRequest.DeviceID <= 0 {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := s.service.ConfirmKeeperReturn(r.Context(), returnRequest.DeviceID, returnRequest.KeeperNo, user.ID)
	if err != nil {
		s.respondServiceError(w, "confirm_keeper_return", err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleOwnerReturn(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var returnRequest struct {
		DeviceID int64 `json:"device_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&returnRequest); err != nil || returnRequest.DeviceID <= 0 {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := s.service.ConfirmOwnerReturn(r.Context(), returnRequest.DeviceID, user.ID)
	if err != nil {
		s.respondServiceError(w, "confirm_owner_return", err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleListRequests(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := pathID(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid employee ID")
		return
	}

	query := r.URL.Query()
	page, err := queryInt(query.Get("page"), defaultPage)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid value for 'page' parameter")
		return
	}
	size, err := queryInt(query.Get("size"), defaultPageSize)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid value for 'size' parameter")
		return
	}
	filter, err := parseFilter(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := s.service.ListRequests(r.Context(), employeeID, filter, custody.PageRequest{
		Page:    page,
		Size:    size,
		SortBy:  query.Get("sort_by"),
		SortDir: query.Get("sort_dir"),
	})
	if err != nil {
		s.respondServiceError(w, "list_requests", err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleSuggestKeywords(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := pathID(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid employee ID")
		return
	}
	filter, err := parseFilter(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	query := r.URL.Query()
	keywords, err := s.service.SuggestRequestKeywords(r.Context(), employeeID, query.Get("column"), query.Get("keyword"), filter)
	if err != nil {
		s.respondServiceError(w, "suggest_keywords", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string][]string{"keywords": keywords})
}

func (s *Server) handleKeeperChain(w http.ResponseWriter, r *http.Request) {
	deviceID, ok := pathID(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid device ID")
		return
	}

	chain, err := s.service.KeeperChain(r.Context(), deviceID)
	if err != nil {
		s.respondServiceError(w, "keeper_chain", err)
		return
	}

	respondJSON(w, http.StatusOK, chain)
}

func (s *Server) handleHasRequests(w http.ResponseWriter, r *http.Request) {
	deviceID, ok := pathID(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid device ID")
		return
	}
	status, err := repository.ParseRequestStatus(r.URL.Query().Get("status"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Unknown request status")
		return
	}

	exists, err := s.service.HasRequestsInStatus(r.Context(), deviceID, status)
	if err != nil {
		s.respondServiceError(w, "has_requests", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]bool{"exists": exists})
}

// handleDeleteRequests deletes one status when ?status= is given, otherwise
// clears the whole custody history of the device.
func (s *Server) handleDeleteRequests(w http.ResponseWriter, r *http.Request) {
	deviceID, ok := pathID(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid device ID")
		return
	}

	rawStatus := r.URL.Query().Get("status")
	if rawStatus == "" {
		if err := s.service.ClearDeviceForDeletion(r.Context(), deviceID); err != nil {
			s.respondServiceError(w, "clear_device", err)
			return
		}
		respondJSON(w, http.StatusOK, map[string]string{
			"message": "Device custody history cleared",
		})
		return
	}

	status, err := repository.ParseRequestStatus(rawStatus)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Unknown request status")
		return
	}
	deleted, err := s.service.DeleteRequestsInStatus(r.Context(), deviceID, status)
	if err != nil {
		s.respondServiceError(w, "delete_requests", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]int64{"deleted": deleted})
}

func queryInt(value string, fallback int) (int, error) {
	if value == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}
	return n, nil
}

func parseFilter(r *http.Request) (custody.RequestFilter, error) {
	query := r.URL.Query()
	filter := custody.RequestFilter{
		RequestCode:   query.Get("request_code"),
		Device:        query.Get("device"),
		SerialNumber:  query.Get("serial_number"),
		Approver:      query.Get("approver"),
		Requester:     query.Get("requester"),
		CurrentKeeper: query.Get("current_keeper"),
		NextKeeper:    query.Get("next_keeper"),
	}
	if raw := query.Get("status"); raw != "" {
		status, err := repository.ParseRequestStatus(raw)
		if err != nil {
			return filter, errors.New("Unknown request status")
		}
		filter.Status = status
	}
	var err error
	if filter.BookedAfter, err = parseDate(query.Get("booked_after")); err != nil {
		return filter, errors.New("Invalid value for 'booked_after' parameter. Use YYYY-MM-DD")
	}
	if filter.ReturnBefore, err = parseDate(query.Get("return_before")); err != nil {
		return filter, errors.New("Invalid value for 'return_before' parameter. Use YYYY-MM-DD")
	}
	return filter, nil
}
