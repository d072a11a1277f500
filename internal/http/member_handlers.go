package httpapp

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/alphabot-ai/skillswap/internal/model"
	"github.com/alphabot-ai/skillswap/internal/store"
)

const (
	maxSkillNameLength = 100
	maxSwapMessage     = 1000
	maxRatingComment   = 1000
)

// handleListSkills godoc
//
//	@Summary		Browse skills
//	@Description	Approved skills of public, non-banned accounts.
//	@Tags			Skills
//	@Produce		json
//	@Param			type	query		string	false	"offered or wanted"
//	@Param			q		query		string	false	"Name search"
//	@Param			limit	query		int		false	"Max results"	default(100)
//	@Success		200		{array}		model.Skill
//	@Router			/api/skills [get]
func (s *Server) handleListSkills(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	skillType := model.SkillType(q.Get("type"))
	if skillType != "" && !skillType.Valid() {
		writeError(w, http.StatusBadRequest, errors.New("type must be offered or wanted"))
		return
	}
	skills, err := s.store.ListPublicSkills(r.Context(), store.SkillListOpts{
		Type:  skillType,
		Query: q.Get("q"),
		Limit: parseIntDefault(q.Get("limit"), 100),
	})
	if err != nil {
		s.fail(w, r, "skills.list", http.StatusInternalServerError, err)
		return
	}
	if skills == nil {
		skills = []model.Skill{}
	}
	writeJSON(w, http.StatusOK, skills)
}

// handleCreateSkill godoc
//
//	@Summary	Add a skill
//	@Tags		Skills
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		skill	body		object{name=string,type=string}	true	"Skill"
//	@Success	201		{object}	model.Skill
//	@Failure	400		{object}	map[string]string	"Invalid skill"
//	@Failure	401		{object}	map[string]string	"Not authenticated"
//	@Router		/api/skills [post]
func (s *Server) handleCreateSkill(w http.ResponseWriter, r *http.Request) {
	verified, ok := s.requireAuth(w, r)
	if !ok {
		return
	}
	if !s.allowRateLimit(w, r, "skill", s.cfg.RateLimits.SkillPerMinute) {
		return
	}
	var req struct {
		Name string `json:"name"`
		Type string `json:"type"`
	}
	if err := readJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	skill := model.Skill{
		Name:      strings.TrimSpace(req.Name),
		Type:      model.SkillType(strings.TrimSpace(req.Type)),
		Approved:  true,
		AccountID: verified.AccountID,
		CreatedAt: time.Now(),
	}
	if skill.Name == "" || len(skill.Name) > maxSkillNameLength {
		writeError(w, http.StatusBadRequest, errors.New("name must be 1-100 characters"))
		return
	}
	if !skill.Type.Valid() {
		writeError(w, http.StatusBadRequest, errors.New("type must be offered or wanted"))
		return
	}
	id, err := s.store.CreateSkill(r.Context(), &skill)
	if err != nil {
		s.fail(w, r, "skills.create", http.StatusInternalServerError, err)
		return
	}
	skill.ID = id
	writeJSON(w, http.StatusCreated, skill)
}

// handleDeleteSkill godoc
//
//	@Summary	Delete one of your skills
//	@Tags		Skills
//	@Security	BearerAuth
//	@Param		id	path	int	true	"Skill ID"
//	@Success	204
//	@Failure	404	{object}	map[string]string	"Not found"
//	@Router		/api/skills/{id} [delete]
func (s *Server) handleDeleteSkill(w http.ResponseWriter, r *http.Request) {
	verified, ok := s.requireAuth(w, r)
	if !ok {
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := s.store.DeleteSkill(r.Context(), id, verified.AccountID); err != nil {
		s.failStore(w, r, "skills.delete", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleListSwaps godoc
//
//	@Summary	List your swap requests
//	@Tags		Swaps
//	@Produce	json
//	@Security	BearerAuth
//	@Success	200	{array}	model.SwapRequest
//	@Router		/api/swaps [get]
func (s *Server) handleListSwaps(w http.ResponseWriter, r *http.Request) {
	verified, ok := s.requireAuth(w, r)
	if !ok {
		return
	}
	swaps, err := s.store.ListSwapsByAccount(r.Context(), verified.AccountID)
	if err != nil {
		s.fail(w, r, "swaps.list", http.StatusInternalServerError, err)
		return
	}
	if swaps == nil {
		swaps = []model.SwapRequest{}
	}
	writeJSON(w, http.StatusOK, swaps)
}

// handleCreateSwap godoc
//
//	@Summary	Propose a swap
//	@Tags		Swaps
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		swap	body		object{receiver_id=int,skill_offered=string,skill_requested=string,message=string}	true	"Swap request"
//	@Success	201		{object}	model.SwapRequest
//	@Failure	400		{object}	map[string]string	"Invalid request"
//	@Failure	404		{object}	map[string]string	"Receiver not found"
//	@Router		/api/swaps [post]
func (s *Server) handleCreateSwap(w http.ResponseWriter, r *http.Request) {
	verified, ok := s.requireAuth(w, r)
	if !ok {
		return
	}
	if !s.allowRateLimit(w, r, "swap", s.cfg.RateLimits.SwapPerMinute) {
		return
	}
	var req struct {
		ReceiverID     int64  `json:"receiver_id"`
		SkillOffered   string `json:"skill_offered"`
		SkillRequested string `json:"skill_requested"`
		Message        string `json:"message"`
	}
	if err := readJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	swap := model.SwapRequest{
		SenderID:       verified.AccountID,
		ReceiverID:     req.ReceiverID,
		SkillOffered:   strings.TrimSpace(req.SkillOffered),
		SkillRequested: strings.TrimSpace(req.SkillRequested),
		Message:        strings.TrimSpace(req.Message),
		Status:         model.SwapPending,
		CreatedAt:      time.Now(),
	}
	if swap.ReceiverID <= 0 || swap.SkillOffered == "" || swap.SkillRequested == "" {
		writeError(w, http.StatusBadRequest, errors.New("receiver_id, skill_offered and skill_requested required"))
		return
	}
	if swap.ReceiverID == swap.SenderID {
		writeError(w, http.StatusBadRequest, errors.New("cannot swap with yourself"))
		return
	}
	if len(swap.Message) > maxSwapMessage {
		writeError(w, http.StatusBadRequest, errors.New("message too long"))
		return
	}
	receiver, err := s.store.GetAccount(r.Context(), swap.ReceiverID)
	if err != nil {
		s.failStore(w, r, "swaps.create", err)
		return
	}
	if receiver.Banned {
		notFound(w)
		return
	}
	id, err := s.store.CreateSwap(r.Context(), &swap)
	if err != nil {
		s.fail(w, r, "swaps.create", http.StatusInternalServerError, err)
		return
	}
	created, err := s.store.GetSwap(r.Context(), id)
	if err != nil {
		s.fail(w, r, "swaps.create", http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// handleUpdateSwap godoc
//
//	@Summary		Answer a swap request
//	@Description	Only the receiver can change the status.
//	@Tags			Swaps
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id		path		int								true	"Swap ID"
//	@Param			status	body		object{status=string}			true	"accepted, rejected or completed"
//	@Success		200		{object}	model.SwapRequest
//	@Failure		400		{object}	map[string]string	"Invalid status"
//	@Failure		404		{object}	map[string]string	"Not found"
//	@Router			/api/swaps/{id} [put]
func (s *Server) handleUpdateSwap(w http.ResponseWriter, r *http.Request) {
	verified, ok := s.requireAuth(w, r)
	if !ok {
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	var req struct {
		Status string `json:"status"`
	}
	if err := readJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	status := model.SwapStatus(strings.TrimSpace(req.Status))
	switch status {
	case model.SwapAccepted, model.SwapRejected, model.SwapCompleted:
	default:
		writeError(w, http.StatusBadRequest, errors.New("status must be accepted, rejected or completed"))
		return
	}
	swap, err := s.store.UpdateSwapStatus(r.Context(), id, verified.AccountID, status)
	if err != nil {
		s.failStore(w, r, "swaps.update", err)
		return
	}
	writeJSON(w, http.StatusOK, swap)
}

// handleDeleteSwap godoc
//
//	@Summary	Delete a swap request you are part of
//	@Tags		Swaps
//	@Security	BearerAuth
//	@Param		id	path	int	true	"Swap ID"
//	@Success	204
//	@Failure	404	{object}	map[string]string	"Not found"
//	@Router		/api/swaps/{id} [delete]
func (s *Server) handleDeleteSwap(w http.ResponseWriter, r *http.Request) {
	verified, ok := s.requireAuth(w, r)
	if !ok {
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := s.store.DeleteSwap(r.Context(), id, verified.AccountID); err != nil {
		s.failStore(w, r, "swaps.delete", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleCreateRating godoc
//
//	@Summary		Rate the other party of a swap
//	@Description	The swap must be accepted or completed. One rating per swap per rater.
//	@Tags			Ratings
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			rating	body		object{swap_id=int,score=int,comment=string}	true	"Rating"
//	@Success		201		{object}	model.Rating
//	@Failure		400		{object}	map[string]string	"Invalid rating"
//	@Failure		404		{object}	map[string]string	"Swap not found"
//	@Failure		409		{object}	map[string]string	"Already rated"
//	@Router			/api/ratings [post]
func (s *Server) handleCreateRating(w http.ResponseWriter, r *http.Request) {
	verified, ok := s.requireAuth(w, r)
	if !ok {
		return
	}
	if !s.allowRateLimit(w, r, "rating", s.cfg.RateLimits.RatingPerMinute) {
		return
	}
	var req struct {
		SwapID  int64  `json:"swap_id"`
		Score   int    `json:"score"`
		Comment string `json:"comment"`
	}
	if err := readJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if req.Score < 1 || req.Score > 5 {
		writeError(w, http.StatusBadRequest, errors.New("score must be between 1 and 5"))
		return
	}
	comment := strings.TrimSpace(req.Comment)
	if len(comment) > maxRatingComment {
		writeError(w, http.StatusBadRequest, errors.New("comment too long"))
		return
	}
	swap, err := s.store.GetSwap(r.Context(), req.SwapID)
	if err != nil {
		s.failStore(w, r, "ratings.create", err)
		return
	}
	if !swap.Involves(verified.AccountID) {
		notFound(w)
		return
	}
	if swap.Status != model.SwapAccepted && swap.Status != model.SwapCompleted {
		writeError(w, http.StatusBadRequest, errors.New("swap must be accepted or completed"))
		return
	}
	rating := model.Rating{
		SwapID:    swap.ID,
		RaterID:   verified.AccountID,
		RatedID:   swap.SenderID,
		Score:     req.Score,
		Comment:   comment,
		CreatedAt: time.Now(),
	}
	if swap.SenderID == verified.AccountID {
		rating.RatedID = swap.ReceiverID
	}
	id, err := s.store.CreateRating(r.Context(), &rating)
	if err != nil {
		if errors.Is(err, store.ErrDuplicateRating) {
			s.fail(w, r, "ratings.create", http.StatusConflict, errors.New("swap already rated"))
			return
		}
		s.fail(w, r, "ratings.create", http.StatusInternalServerError, err)
		return
	}
	rating.ID = id
	writeJSON(w, http.StatusCreated, rating)
}

// handleListMessages godoc
//
//	@Summary	Platform announcements
//	@Tags		Messages
//	@Produce	json
//	@Param		limit	query	int	false	"Max results"	default(20)
//	@Success	200		{array}	model.PlatformMessage
//	@Router		/api/messages [get]
func (s *Server) handleListMessages(w http.ResponseWriter, r *http.Request) {
	messages, err := s.store.ListPlatformMessages(r.Context(), parseIntDefault(r.URL.Query().Get("limit"), 20))
	if err != nil {
		s.fail(w, r, "messages.list", http.StatusInternalServerError, err)
		return
	}
	if messages == nil {
		messages = []model.PlatformMessage{}
	}
	writeJSON(w, http.StatusOK, messages)
}

// failStore writes 404 for store.ErrNotFound and 500 otherwise.
func (s *Server) failStore(w http.ResponseWriter, r *http.Request, op string, err error) {
	if errors.Is(err, store.ErrNotFound) {
		notFound(w)
		return
	}
	s.fail(w, r, op, http.StatusInternalServerError, err)
}
