// Package api exposes the projected entity graph over a read-only JSON
// surface. Mutations only ever arrive through the event stream.
package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"gorm.io/gorm"

	"srxgraph/models"
	"srxgraph/store"
)

// Server serves entity queries from the projection database.
type Server struct {
	db  *gorm.DB
	log *slog.Logger
}

// New builds a query server over the given database handle.
func New(db *gorm.DB, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	return &Server{db: db, log: log.With("component", "api")}
}

// Handler returns the routed HTTP handler, instrumented for tracing.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Route("/v1", func(r chi.Router) {
		r.Get("/campaigns", s.listCampaigns)
		r.Route("/campaigns/{campaignID}", func(r chi.Router) {
			r.Get("/", s.getCampaign)
			r.Get("/ideas", s.campaignChildren(func(c *models.Campaign) any { return c.Ideas }))
			r.Get("/donations", s.campaignChildren(func(c *models.Campaign) any { return c.Donations }))
			r.Get("/withdrawals", s.campaignChildren(func(c *models.Campaign) any { return c.Withdrawals }))
			r.Get("/updates", s.campaignChildren(func(c *models.Campaign) any { return c.Updates }))
			r.Get("/follows", s.campaignChildren(func(c *models.Campaign) any { return c.Follows }))
			r.Get("/ratings", s.campaignChildren(func(c *models.Campaign) any { return c.Ratings }))
			r.Get("/groups", s.campaignChildren(func(c *models.Campaign) any { return c.Connections }))
		})
		r.Get("/groups", s.listGroups)
		r.Get("/groups/{groupID}", s.getGroup)
	})
	return otelhttp.NewHandler(r, "srxgraph-api")
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.log.Warn("encode response", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]string{"error": msg})
}

func parseU32(r *http.Request, param string) (uint32, bool) {
	raw := chi.URLParam(r, param)
	v, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, false
	}
	return uint32(v), true
}

func (s *Server) listCampaigns(w http.ResponseWriter, r *http.Request) {
	var campaigns []models.Campaign
	if err := s.db.WithContext(r.Context()).Order("campaign_id").Find(&campaigns).Error; err != nil {
		s.writeError(w, http.StatusInternalServerError, "query failed")
		return
	}
	s.writeJSON(w, http.StatusOK, campaigns)
}

// loadCampaign resolves the numeric business id with all has-many relations
// preloaded. A nil return means the response is already written.
func (s *Server) loadCampaign(w http.ResponseWriter, r *http.Request) *models.Campaign {
	id, ok := parseU32(r, "campaignID")
	if !ok {
		s.writeError(w, http.StatusBadRequest, "invalid campaign id")
		return nil
	}
	var campaign models.Campaign
	err := s.db.WithContext(r.Context()).
		Preload("Donations").Preload("Withdrawals").Preload("Follows").
		Preload("Updates").Preload("Ideas").Preload("Connections").Preload("Ratings").
		First(&campaign, "campaign_id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		s.writeError(w, http.StatusNotFound, "campaign not found")
		return nil
	}
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "query failed")
		return nil
	}
	return &campaign
}

func (s *Server) getCampaign(w http.ResponseWriter, r *http.Request) {
	if campaign := s.loadCampaign(w, r); campaign != nil {
		s.writeJSON(w, http.StatusOK, campaign)
	}
}

func (s *Server) campaignChildren(pick func(*models.Campaign) any) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if campaign := s.loadCampaign(w, r); campaign != nil {
			s.writeJSON(w, http.StatusOK, pick(campaign))
		}
	}
}

func (s *Server) listGroups(w http.ResponseWriter, r *http.Request) {
	var groups []models.SpecialistGroup
	if err := s.db.WithContext(r.Context()).Order("group_id").Find(&groups).Error; err != nil {
		s.writeError(w, http.StatusInternalServerError, "query failed")
		return
	}
	s.writeJSON(w, http.StatusOK, groups)
}

func (s *Server) getGroup(w http.ResponseWriter, r *http.Request) {
	id, ok := parseU32(r, "groupID")
	if !ok {
		s.writeError(w, http.StatusBadRequest, "invalid group id")
		return
	}
	group, err := store.GetByColumn[models.SpecialistGroup](
		s.db.WithContext(r.Context()).Preload("Memberships").Preload("Connections"),
		"group_id", id,
	)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "query failed")
		return
	}
	if group == nil {
		s.writeError(w, http.StatusNotFound, "group not found")
		return
	}
	s.writeJSON(w, http.StatusOK, group)
}
