package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	geohash "github.com/TomiHiltunen/geohash-golang"
	"github.com/go-chi/chi/v5"

	"github.com/apeiron-tech/Immoxperts-sub001/internal/api/respond"
	"github.com/apeiron-tech/Immoxperts-sub001/internal/cache"
	"github.com/apeiron-tech/Immoxperts-sub001/internal/dataset"
	"github.com/apeiron-tech/Immoxperts-sub001/internal/place"
)

const (
	defaultSearchLimit = 10
	maxSearchLimit     = 50

	// nearestPrecision 8 is a cell of roughly 38m x 19m; queries inside the
	// same cell share one cached answer.
	nearestPrecision = 8
)

// PlaceList is the response shape for search, postcode and department lookups.
type PlaceList struct {
	Count  int            `json:"count"`
	Places []place.Record `json:"places"`
}

// NearestPlace is the response shape for nearest-place lookups.
type NearestPlace struct {
	Geohash   string       `json:"geohash"`
	Place     place.Record `json:"place"`
	DistanceM float64      `json:"distance_m"`
}

func newPlaceList(records []place.Record) PlaceList {
	if records == nil {
		records = []place.Record{}
	}
	return PlaceList{Count: len(records), Places: records}
}

// SearchPlaces serves autocomplete.
// @Summary Search places
// @Description Prefix search on place names (case-insensitive) or on postcodes when q is numeric. Exact name matches come first.
// @Tags places
// @Produce json
// @Param q query string true "Name or postcode prefix"
// @Param limit query int false "Maximum results (1-50)" default(10)
// @Success 200 {object} PlaceList
// @Failure 400 {object} respond.ErrorResponse
// @Router /places [get]
func (h *Handler) SearchPlaces(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if q == "" {
		respond.WriteError(w, http.StatusBadRequest, "MISSING_QUERY", "q query parameter is required")
		return
	}

	limit := defaultSearchLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxSearchLimit {
			respond.WriteErrorDetail(w, http.StatusBadRequest, "INVALID_LIMIT",
				fmt.Sprintf("limit must be an integer between 1 and %d", maxSearchLimit), raw)
			return
		}
		limit = n
	}

	key := fmt.Sprintf("search:%s:%d", place.NormalizeName(q), limit)
	h.serveCached(w, r, key, cache.TTLSearch, func() ([]byte, bool) {
		return h.encode(w, newPlaceList(h.places.Load().Search(q, limit)))
	})
}

// GetPlacesByPostcode returns every place sharing a postcode.
// @Summary Places by postcode
// @Description Returns all places (cities, arrondissements, departments) with the given 5-character postcode.
// @Tags places
// @Produce json
// @Param postcode path string true "5-character postcode"
// @Success 200 {object} PlaceList
// @Failure 400 {object} respond.ErrorResponse
// @Failure 404 {object} respond.ErrorResponse
// @Router /places/postcode/{postcode} [get]
func (h *Handler) GetPlacesByPostcode(w http.ResponseWriter, r *http.Request) {
	postcode := chi.URLParam(r, "postcode")
	if len(postcode) != place.PostcodeLength {
		respond.WriteErrorDetail(w, http.StatusBadRequest, "INVALID_POSTCODE",
			"postcode must be 5 characters", postcode)
		return
	}

	h.serveCached(w, r, "postcode:"+postcode, cache.TTLLookup, func() ([]byte, bool) {
		records := h.places.Load().ByPostcode(postcode)
		if len(records) == 0 {
			respond.WriteError(w, http.StatusNotFound, "NOT_FOUND", "No places found for postcode "+postcode)
			return nil, false
		}
		return h.encode(w, newPlaceList(records))
	})
}

// GetNearestPlace resolves a coordinate to the closest known place.
// @Summary Nearest place
// @Description Returns the closest place with coordinates within 50km of lat/lon.
// @Tags places
// @Produce json
// @Param lat query number true "Latitude"
// @Param lon query number true "Longitude"
// @Success 200 {object} NearestPlace
// @Failure 400 {object} respond.ErrorResponse
// @Failure 404 {object} respond.ErrorResponse
// @Router /places/nearest [get]
func (h *Handler) GetNearestPlace(w http.ResponseWriter, r *http.Request) {
	lat, errLat := strconv.ParseFloat(r.URL.Query().Get("lat"), 64)
	lon, errLon := strconv.ParseFloat(r.URL.Query().Get("lon"), 64)
	if errLat != nil || errLon != nil || lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		respond.WriteError(w, http.StatusBadRequest, "INVALID_COORDINATES",
			"lat and lon must be valid decimal degrees")
		return
	}

	cell := geohash.EncodeWithPrecision(lat, lon, nearestPrecision)
	h.serveCached(w, r, "nearest:"+cell, cache.TTLLookup, func() ([]byte, bool) {
		rec, dist, ok := h.places.Load().Nearest(lat, lon)
		if !ok {
			respond.WriteError(w, http.StatusNotFound, "NOT_FOUND", "No place within range")
			return nil, false
		}
		return h.encode(w, NearestPlace{Geohash: cell, Place: rec, DistanceM: dist})
	})
}

// GetDepartments lists the department records.
// @Summary List departments
// @Description Returns the department-type records of the dataset, sorted by name.
// @Tags places
// @Produce json
// @Success 200 {object} PlaceList
// @Router /departments [get]
func (h *Handler) GetDepartments(w http.ResponseWriter, r *http.Request) {
	h.serveCached(w, r, "departments", cache.TTLDataset, func() ([]byte, bool) {
		return h.encode(w, newPlaceList(h.places.Load().Departments()))
	})
}

// GetDataset returns the whole dataset in its on-disk JSON layout.
// @Summary Full dataset
// @Description Returns the complete sorted place list exactly as the frontend consumes it. Supports If-None-Match.
// @Tags places
// @Produce json
// @Success 200 {array} place.Record
// @Router /dataset [get]
func (h *Handler) GetDataset(w http.ResponseWriter, r *http.Request) {
	h.serveCached(w, r, "dataset", cache.TTLDataset, func() ([]byte, bool) {
		data, err := dataset.Marshal(h.places.Load().Records())
		if err != nil {
			respond.WriteError(w, http.StatusInternalServerError, "ENCODE_FAILED", "Failed to encode dataset")
			return nil, false
		}
		return data, true
	})
}

func (h *Handler) encode(w http.ResponseWriter, v interface{}) ([]byte, bool) {
	data, err := respond.Marshal(v)
	if err != nil {
		respond.WriteError(w, http.StatusInternalServerError, "ENCODE_FAILED", "Failed to encode response")
		return nil, false
	}
	return data, true
}
