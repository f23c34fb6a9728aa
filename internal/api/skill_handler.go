package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/studygen/studygen-api/internal/api/shared"
	"github.com/studygen/studygen-api/internal/platform/logger"
	"github.com/studygen/studygen-api/internal/skills"
)

// SkillResponse describes one discovered skill.
type SkillResponse struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// SkillHandler exposes the skill registry: listing the available
// instruction documents and matching a free-text request to one.
type SkillHandler struct {
	registry *skills.Registry
	logger   *slog.Logger
}

// NewSkillHandler creates a new SkillHandler
func NewSkillHandler(registry *skills.Registry, log *slog.Logger) *SkillHandler {
	if log == nil {
		log = slog.Default()
	}
	return &SkillHandler{
		registry: registry,
		logger:   log.With(slog.String("component", "skill_handler")),
	}
}

// ListSkills handles GET /api/skills requests.
func (h *SkillHandler) ListSkills(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	names, err := h.registry.Names()
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
			"Failed to list skills", err)
		return
	}

	resp := make([]SkillResponse, 0, len(names))
	for _, name := range names {
		skill, err := h.registry.Get(name)
		if err != nil {
			log.Warn("skill disappeared between listing and lookup", "skill", name)
			continue
		}
		resp = append(resp, SkillResponse{Name: skill.Name, Description: skill.Description})
	}

	shared.RespondWithJSON(w, r, http.StatusOK, resp)
}

// GetSkill handles GET /api/skills/{name} requests, returning the
// skill's instruction document as markdown.
func (h *SkillHandler) GetSkill(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	skill, err := h.registry.Get(name)
	if err != nil {
		if errors.Is(err, skills.ErrSkillNotFound) {
			shared.RespondWithError(w, r, http.StatusNotFound, "Skill not found")
			return
		}
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
			"Failed to load skill", err)
		return
	}

	shared.RespondWithMarkdown(w, r, http.StatusOK, skill.Content)
}

// MatchSkill handles GET /api/skills/match?q= requests: the query is
// scored against each skill's name and description.
func (h *SkillHandler) MatchSkill(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Query parameter q is required")
		return
	}

	skill, err := h.registry.Match(query)
	if err != nil {
		if errors.Is(err, skills.ErrNoMatch) {
			shared.RespondWithError(w, r, http.StatusNotFound, "No skill matches the request")
			return
		}
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
			"Failed to match skills", err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, SkillResponse{
		Name:        skill.Name,
		Description: skill.Description,
	})
}
