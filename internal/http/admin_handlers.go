package httpapp

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/alphabot-ai/skillswap/internal/model"
	"github.com/alphabot-ai/skillswap/internal/moderation"
	"github.com/alphabot-ai/skillswap/internal/store"
)

// handleAdminUsers godoc
//
//	@Summary	List all accounts
//	@Tags		Admin
//	@Produce	json
//	@Security	BearerAuth
//	@Success	200	{array}		model.Account
//	@Failure	401	{object}	map[string]string	"Not authenticated"
//	@Failure	403	{object}	map[string]string	"Not an admin"
//	@Router		/api/admin/users [get]
func (s *Server) handleAdminUsers(w http.ResponseWriter, r *http.Request) {
	admin, ok := s.authorizeAdmin(w, r)
	if !ok {
		return
	}
	accounts, err := s.engine.ListAccounts(r.Context(), admin)
	if err != nil {
		s.failModeration(w, r, "admin.users", err)
		return
	}
	writeJSON(w, http.StatusOK, accounts)
}

// handleAdminBan godoc
//
//	@Summary		Ban or unban an account
//	@Description	Each call records an audit entry, including repeats.
//	@Tags			Admin
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id		path		int					true	"Account ID"
//	@Param			request	body		object{is_banned=bool}	true	"Ban state"
//	@Success		200		{object}	model.BanState
//	@Failure		400		{object}	map[string]string	"Invalid request"
//	@Failure		403		{object}	map[string]string	"Not an admin"
//	@Failure		404		{object}	map[string]string	"Account not found"
//	@Router			/api/admin/users/{id}/ban [put]
func (s *Server) handleAdminBan(w http.ResponseWriter, r *http.Request) {
	admin, ok := s.authorizeAdmin(w, r)
	if !ok {
		return
	}
	if !s.allowRateLimit(w, r, "admin", s.cfg.RateLimits.AdminPerMinute) {
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	var req struct {
		Banned *bool `json:"is_banned"`
	}
	if err := readJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if req.Banned == nil {
		writeError(w, http.StatusBadRequest, errors.New("is_banned required"))
		return
	}
	state, err := s.engine.SetBanState(r.Context(), admin, id, *req.Banned)
	if err != nil {
		s.failModeration(w, r, "admin.ban", err)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

// handleAdminSkill godoc
//
//	@Summary	Approve or reject a skill
//	@Tags		Admin
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id		path		int						true	"Skill ID"
//	@Param		request	body		object{action=string}	true	"approve or reject"
//	@Success	200		{object}	model.Skill
//	@Failure	400		{object}	map[string]string	"Invalid action"
//	@Failure	403		{object}	map[string]string	"Not an admin"
//	@Failure	404		{object}	map[string]string	"Skill not found"
//	@Router		/api/admin/skills/{id} [put]
func (s *Server) handleAdminSkill(w http.ResponseWriter, r *http.Request) {
	admin, ok := s.authorizeAdmin(w, r)
	if !ok {
		return
	}
	if !s.allowRateLimit(w, r, "admin", s.cfg.RateLimits.AdminPerMinute) {
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	var req struct {
		Action string `json:"action"`
	}
	if err := readJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	skill, err := s.engine.SetSkillApproval(r.Context(), admin, id, req.Action)
	if err != nil {
		s.failModeration(w, r, "admin.skill", err)
		return
	}
	writeJSON(w, http.StatusOK, skill)
}

// handleAdminMessage godoc
//
//	@Summary	Broadcast a platform message
//	@Tags		Admin
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		request	body		object{title=string,message=string,type=string}	true	"Message; type is info, warning, maintenance or update"
//	@Success	201		{object}	model.PlatformMessage
//	@Failure	400		{object}	map[string]string	"Invalid message"
//	@Failure	403		{object}	map[string]string	"Not an admin"
//	@Router		/api/admin/messages [post]
func (s *Server) handleAdminMessage(w http.ResponseWriter, r *http.Request) {
	admin, ok := s.authorizeAdmin(w, r)
	if !ok {
		return
	}
	if !s.allowRateLimit(w, r, "admin", s.cfg.RateLimits.AdminPerMinute) {
		return
	}
	var req struct {
		Title   string `json:"title"`
		Message string `json:"message"`
		Type    string `json:"type"`
	}
	if err := readJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	msg, err := s.engine.Broadcast(r.Context(), admin, moderation.BroadcastInput{
		Title: req.Title,
		Body:  req.Message,
		Type:  model.MessageType(req.Type),
	})
	if err != nil {
		s.failModeration(w, r, "admin.message", err)
		return
	}
	writeJSON(w, http.StatusCreated, msg)
}

// handleAdminReport godoc
//
//	@Summary	Platform activity report
//	@Tags		Admin
//	@Produce	json
//	@Security	BearerAuth
//	@Success	200	{object}	model.Report
//	@Failure	403	{object}	map[string]string	"Not an admin"
//	@Router		/api/admin/reports [get]
func (s *Server) handleAdminReport(w http.ResponseWriter, r *http.Request) {
	admin, ok := s.authorizeAdmin(w, r)
	if !ok {
		return
	}
	report, err := s.engine.GenerateReport(r.Context(), admin)
	if err != nil {
		s.failModeration(w, r, "admin.report", err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// handleAdminSwaps godoc
//
//	@Summary	List all swap requests
//	@Tags		Admin
//	@Produce	json
//	@Security	BearerAuth
//	@Success	200	{array}		model.SwapRequest
//	@Failure	403	{object}	map[string]string	"Not an admin"
//	@Router		/api/admin/swaps [get]
func (s *Server) handleAdminSwaps(w http.ResponseWriter, r *http.Request) {
	admin, ok := s.authorizeAdmin(w, r)
	if !ok {
		return
	}
	swaps, err := s.engine.ListSwaps(r.Context(), admin)
	if err != nil {
		s.failModeration(w, r, "admin.swaps", err)
		return
	}
	writeJSON(w, http.StatusOK, swaps)
}

// handleAdminLogs godoc
//
//	@Summary	Read the audit log
//	@Tags		Admin
//	@Produce	json
//	@Security	BearerAuth
//	@Param		target_type	query		string	false	"user, skill or platform_message"
//	@Param		target_id	query		int		false	"Target ID"
//	@Param		limit		query		int		false	"Max results"	default(100)
//	@Success	200			{array}		model.AuditEntry
//	@Failure	400			{object}	map[string]string	"Invalid filter"
//	@Failure	403			{object}	map[string]string	"Not an admin"
//	@Router		/api/admin/logs [get]
func (s *Server) handleAdminLogs(w http.ResponseWriter, r *http.Request) {
	admin, ok := s.authorizeAdmin(w, r)
	if !ok {
		return
	}
	q := r.URL.Query()
	opts := store.AuditListOpts{Limit: parseIntDefault(q.Get("limit"), 100)}
	if raw := q.Get("target_type"); raw != "" {
		target, err := model.ParseAuditTarget(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		opts.TargetType = target
	}
	if raw := q.Get("target_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, errors.New("invalid target_id"))
			return
		}
		opts.TargetID = id
	}
	entries, err := s.engine.ListAudit(r.Context(), admin, opts)
	if err != nil {
		s.failModeration(w, r, "admin.logs", err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}
