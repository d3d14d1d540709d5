package api

import (
	"encoding/json"
	"io"
	"net/http"
	"net/url"

	"github.com/fredhutch/github-org-manager/pkg/compliance"
	"github.com/fredhutch/github-org-manager/pkg/logger"
	"github.com/fredhutch/github-org-manager/pkg/membership"
	"github.com/fredhutch/github-org-manager/pkg/middleware"
	"github.com/fredhutch/github-org-manager/pkg/version"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Handler struct {
	members    membership.Service
	offboarder membership.Offboarder
	auditor    compliance.Auditor
	log        logger.Logger
}

func New(members membership.Service, offboarder membership.Offboarder, auditor compliance.Auditor, log logger.Logger) *Handler {
	return &Handler{
		members:    members,
		offboarder: offboarder,
		auditor:    auditor,
		log:        log,
	}
}

// Router The membership resource lives at the root path, one handler per
// verb, matching the curl incantations operators already have in their shell
// history. Mutating verbs sit behind the IP allow-list.
func (h *Handler) Router(approvedIPs []string) chi.Router {
	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedMethods: []string{http.MethodGet, http.MethodPut, http.MethodDelete},
	}))

	r.Get("/", h.GetMembership)
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireApprovedIP(approvedIPs, h.log))
		r.Put("/", h.InviteMembership)
		r.Delete("/", h.RemoveMembership)
	})

	r.Get("/unnamed", h.UnnamedMembers)
	r.Get("/version", h.Version)
	r.Handle("/metrics", promhttp.Handler())

	return r
}

func (h *Handler) GetMembership(w http.ResponseWriter, r *http.Request) {
	user := username(r)
	if user == "" {
		respondMessage(w, http.StatusBadRequest, "username is required")
		return
	}

	status, err := h.members.Query(r.Context(), user)
	if err != nil {
		h.log.WithUser(user).Errorf("membership query: %s", err)
		respondMessage(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondStatus(w, http.StatusOK, status)
}

func (h *Handler) InviteMembership(w http.ResponseWriter, r *http.Request) {
	user := username(r)
	if user == "" {
		respondMessage(w, http.StatusBadRequest, "username is required")
		return
	}

	outcome, err := h.members.Invite(r.Context(), user)
	if err != nil {
		h.log.WithUser(user).Errorf("membership invite: %s", err)
		respondMessage(w, http.StatusInternalServerError, err.Error())
		return
	}

	if outcome.ProviderBody != nil {
		// provider diagnostics, verbatim
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(outcome.ProviderBody)
		return
	}

	respondStatus(w, http.StatusOK, outcome.Status)
}

func (h *Handler) RemoveMembership(w http.ResponseWriter, r *http.Request) {
	user := username(r)
	if user == "" {
		respondMessage(w, http.StatusBadRequest, "username is required")
		return
	}

	status, err := h.offboarder.Offboard(r.Context(), user)
	if err != nil {
		h.log.WithUser(user).Errorf("offboarding: %s", err)
		respondMessage(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondStatus(w, http.StatusOK, status)
}

func (h *Handler) UnnamedMembers(w http.ResponseWriter, r *http.Request) {
	var unnamed []string
	var err error

	if r.URL.Query().Get("nag") == "true" {
		unnamed, err = h.auditor.NagUnnamedMembers(r.Context())
	} else {
		unnamed, err = h.auditor.FindUnnamedMembers(r.Context())
	}

	if err != nil {
		h.log.Errorf("compliance sweep: %s", err)
		respondMessage(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"unnamed": unnamed})
}

func (h *Handler) Version(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{"version": version.Version()})
}

// username accepts the username parameter from the query string or a form
// encoded body. ParseForm leaves DELETE bodies alone, so those are read by
// hand.
func username(r *http.Request) string {
	if value := r.URL.Query().Get("username"); value != "" {
		return value
	}

	_ = r.ParseForm()
	if value := r.PostFormValue("username"); value != "" {
		return value
	}

	if r.Body == nil {
		return ""
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		return ""
	}

	values, err := url.ParseQuery(string(body))
	if err != nil {
		return ""
	}

	return values.Get("username")
}

func respondJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondStatus(w http.ResponseWriter, code int, status interface{}) {
	respondJSON(w, code, map[string]interface{}{"status": status})
}

func respondMessage(w http.ResponseWriter, code int, message string) {
	respondJSON(w, code, map[string]interface{}{"message": message})
}
