package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/RobinCoderZhao/countrykit/internal/channel"
	"github.com/RobinCoderZhao/countrykit/pkg/country"
	"github.com/RobinCoderZhao/countrykit/pkg/i18n"
	"github.com/RobinCoderZhao/countrykit/pkg/picker"
)

type ChannelListResponse struct {
	Country  country.Code      `json:"country"`
	Label    string            `json:"label"`
	Channels []channel.Channel `json:"channels"`
	Message  string            `json:"message,omitempty"`
}

type AddChannelRequest struct {
	Name    string `json:"name"`
	Country string `json:"country"`
	HNI     string `json:"hni"`
	Kind    string `json:"kind"`
}

// handleListChannels lists channels in ?country=, which defaults to all countries.
func (s *Server) handleListChannels() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		selected := country.All
		if raw := r.URL.Query().Get("country"); raw != "" {
			code, err := country.Parse(raw)
			if err != nil {
				respondError(w, http.StatusBadRequest, err.Error())
				return
			}
			selected = code
		}

		channels, err := s.channelStore.List(r.Context(), selected)
		if err != nil {
			s.logger.Error("list channels", "country", selected, "error", err)
			respondError(w, http.StatusInternalServerError, "Database error")
			return
		}

		lang := s.language(r)
		resp := ChannelListResponse{
			Country:  selected,
			Label:    s.formatter.Format(selected, lang),
			Channels: channels,
		}
		if resp.Channels == nil {
			resp.Channels = []channel.Channel{}
		}
		if len(channels) == 0 && !selected.IsAll() {
			resp.Message = s.strings.Format(lang, i18n.KeyNoChannels, i18n.RegionName(lang, string(selected)))
		}
		respondJSON(w, http.StatusOK, resp)
	}
}

// handleChannelCountries returns picker rows for the countries that have
// channels, led by the all-countries row.
func (s *Server) handleChannelCountries() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		codes, err := s.channelStore.Countries(r.Context())
		if err != nil {
			s.logger.Error("list channel countries", "error", err)
			respondError(w, http.StatusInternalServerError, "Database error")
			return
		}

		adapter := picker.NewAdapter(country.WithAll(codes), s.language(r), s.formatter)
		s.respondRows(w, r, adapter)
	}
}

func (s *Server) handleAddChannel() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req AddChannelRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		code, err := country.Parse(req.Country)
		if err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}

		id, err := s.channelStore.Add(r.Context(), channel.Channel{
			Name:          req.Name,
			CountryAlpha2: code,
			HNI:           req.HNI,
			Kind:          req.Kind,
		})
		switch {
		case errors.Is(err, channel.ErrDuplicate):
			respondError(w, http.StatusConflict, err.Error())
			return
		case errors.Is(err, channel.ErrInvalid), errors.Is(err, country.ErrInvalidCode):
			respondError(w, http.StatusBadRequest, err.Error())
			return
		case err != nil:
			s.logger.Error("add channel", "country", code, "error", err)
			respondError(w, http.StatusInternalServerError, "Database error")
			return
		}

		s.logger.Info("channel added", "id", id, "country", code, "by", getSubject(r))
		respondJSON(w, http.StatusCreated, map[string]int{"id": id})
	}
}

func (s *Server) handleDeleteChannel() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.Atoi(r.PathValue("id"))
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid channel id")
			return
		}

		if err := s.channelStore.Delete(r.Context(), id); err != nil {
			if errors.Is(err, channel.ErrNotFound) {
				respondError(w, http.StatusNotFound, err.Error())
				return
			}
			s.logger.Error("delete channel", "id", id, "error", err)
			respondError(w, http.StatusInternalServerError, "Database error")
			return
		}

		s.logger.Info("channel deleted", "id", id, "by", getSubject(r))
		w.WriteHeader(http.StatusNoContent)
	}
}
