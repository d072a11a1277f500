package httpapp

import (
	"errors"
	"net/http"
	"strings"

	"github.com/alphabot-ai/skillswap/internal/auth"
	"github.com/alphabot-ai/skillswap/internal/model"
	"github.com/alphabot-ai/skillswap/internal/store"
)

// handleAuthChallenge godoc
//
//	@Summary		Get authentication challenge
//	@Description	Request a challenge string to sign. This is step 1 of the auth flow.
//	@Tags			Authentication
//	@Accept			json
//	@Produce		json
//	@Param			request	body		object{alg=string}	true	"Algorithm (ed25519, secp256k1, rsa-pss, rsa-sha256)"
//	@Success		200		{object}	map[string]interface{}	"Challenge with expiration"
//	@Failure		400		{object}	map[string]string		"Invalid request"
//	@Failure		429		{object}	map[string]interface{}	"Rate limited"
//	@Router			/api/auth/challenge [post]
func (s *Server) handleAuthChallenge(w http.ResponseWriter, r *http.Request) {
	if !s.allowRateLimit(w, r, "auth", s.cfg.RateLimits.AuthPerMinute) {
		return
	}
	var req struct {
		Alg string `json:"alg"`
	}
	if err := readJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	alg := strings.TrimSpace(req.Alg)
	if alg == "" {
		writeError(w, http.StatusBadRequest, errors.New("alg required"))
		return
	}
	if !auth.SupportedAlg(alg) {
		writeError(w, http.StatusBadRequest, errors.New("unsupported alg"))
		return
	}
	challenge, err := s.auth.CreateChallenge(r.Context(), alg)
	if err != nil {
		s.fail(w, r, "auth.challenge", http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"challenge":  challenge.Challenge,
		"expires_at": challenge.ExpiresAt,
	})
}

// handleAuthVerify godoc
//
//	@Summary		Verify signature and get token
//	@Description	Exchange a signed challenge for a bearer token. This is step 2 of the auth flow.
//	@Tags			Authentication
//	@Accept			json
//	@Produce		json
//	@Param			request	body		object{alg=string,public_key=string,challenge=string,signature=string}	true	"Signed challenge"
//	@Success		200		{object}	map[string]interface{}	"Access token with expiration"
//	@Failure		400		{object}	map[string]string		"Missing fields"
//	@Failure		401		{object}	map[string]string		"Invalid signature or unknown key"
//	@Failure		403		{object}	map[string]string		"Account banned"
//	@Router			/api/auth/verify [post]
func (s *Server) handleAuthVerify(w http.ResponseWriter, r *http.Request) {
	if !s.allowRateLimit(w, r, "auth", s.cfg.RateLimits.AuthPerMinute) {
		return
	}
	var req struct {
		Alg       string `json:"alg"`
		PublicKey string `json:"public_key"`
		Challenge string `json:"challenge"`
		Signature string `json:"signature"`
	}
	if err := readJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if req.Alg == "" || req.PublicKey == "" || req.Challenge == "" || req.Signature == "" {
		writeError(w, http.StatusBadRequest, errors.New("missing fields"))
		return
	}
	issued, err := s.auth.VerifyAndCreateToken(r.Context(),
		strings.TrimSpace(req.Alg), strings.TrimSpace(req.PublicKey),
		strings.TrimSpace(req.Challenge), strings.TrimSpace(req.Signature))
	if err != nil {
		s.failAuth(w, r, "auth.verify", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"access_token": issued.AccessToken,
		"expires_at":   issued.Token.ExpiresAt,
		"key_id":       issued.Token.KeyID,
		"account_id":   issued.Account.ID,
		"role":         issued.Account.Role,
	})
}

// handleAuthLogout godoc
//
//	@Summary	Revoke the current token
//	@Tags		Authentication
//	@Security	BearerAuth
//	@Success	204
//	@Failure	401	{object}	map[string]string	"Not authenticated"
//	@Router		/api/auth/logout [post]
func (s *Server) handleAuthLogout(w http.ResponseWriter, r *http.Request) {
	verified, ok := s.requireAuth(w, r)
	if !ok {
		return
	}
	if err := s.auth.Logout(r.Context(), verified.JTI); err != nil && !errors.Is(err, store.ErrNotFound) {
		s.fail(w, r, "auth.logout", http.StatusInternalServerError, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleCreateAccount godoc
//
//	@Summary		Register a new account
//	@Description	Create an account with a unique display_name, owned by the key that signed the challenge.
//	@Tags			Accounts
//	@Accept			json
//	@Produce		json
//	@Param			account	body		object{display_name=string,email=string,location=string,is_public=bool,public_key=string,alg=string,challenge=string,signature=string}	true	"Account data with signed challenge"
//	@Success		201		{object}	map[string]interface{}	"Account and key IDs"
//	@Failure		400		{object}	map[string]string		"Missing fields"
//	@Failure		401		{object}	map[string]string		"Invalid signature"
//	@Failure		409		{object}	map[string]string		"display_name taken or key exists"
//	@Router			/api/accounts [post]
func (s *Server) handleCreateAccount(w http.ResponseWriter, r *http.Request) {
	if !s.allowRateLimit(w, r, "auth", s.cfg.RateLimits.AuthPerMinute) {
		return
	}
	var req struct {
		DisplayName string `json:"display_name"`
		Email       string `json:"email"`
		Location    string `json:"location"`
		Public      *bool  `json:"is_public"`
		PublicKey   string `json:"public_key"`
		Alg         string `json:"alg"`
		Signature   string `json:"signature"`
		Challenge   string `json:"challenge"`
	}
	if err := readJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if strings.TrimSpace(req.DisplayName) == "" || req.PublicKey == "" || req.Alg == "" || req.Signature == "" || req.Challenge == "" {
		writeError(w, http.StatusBadRequest, errors.New("missing fields"))
		return
	}
	public := true
	if req.Public != nil {
		public = *req.Public
	}
	account, keyID, err := s.auth.Register(r.Context(), auth.RegisterInput{
		DisplayName: strings.TrimSpace(req.DisplayName),
		Email:       strings.TrimSpace(req.Email),
		Location:    strings.TrimSpace(req.Location),
		Public:      public,
		Alg:         strings.TrimSpace(req.Alg),
		PublicKey:   strings.TrimSpace(req.PublicKey),
		Challenge:   strings.TrimSpace(req.Challenge),
		Signature:   strings.TrimSpace(req.Signature),
	})
	if err != nil {
		s.failAuth(w, r, "accounts.create", err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"account_id": account.ID,
		"key_id":     keyID,
	})
}

// failAuth maps errors from the auth service.
func (s *Server) failAuth(w http.ResponseWriter, r *http.Request, op string, err error) {
	switch {
	case auth.IsCredentialError(err):
		s.fail(w, r, op, http.StatusUnauthorized, err)
	case errors.Is(err, auth.ErrAccountBanned):
		s.fail(w, r, op, http.StatusForbidden, err)
	case errors.Is(err, store.ErrDuplicateName):
		s.fail(w, r, op, http.StatusConflict, errors.New("display_name already taken"))
	case errors.Is(err, store.ErrDuplicateKey):
		s.fail(w, r, op, http.StatusConflict, errors.New("public key already registered"))
	default:
		s.fail(w, r, op, http.StatusInternalServerError, err)
	}
}

// handleGetAccount godoc
//
//	@Summary		Get account
//	@Description	Private accounts are only visible to their owner. Email is only shown to the owner.
//	@Tags			Accounts
//	@Produce		json
//	@Param			id	path		int	true	"Account ID"
//	@Success		200	{object}	model.Account
//	@Failure		404	{object}	map[string]string	"Not found"
//	@Router			/api/accounts/{id} [get]
func (s *Server) handleGetAccount(w http.ResponseWriter, r *http.Request) {
	account, ok := s.visibleAccount(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, account)
}

// handleAccountSkills godoc
//
//	@Summary	List an account's skills
//	@Tags		Skills
//	@Produce	json
//	@Param		id	path		int	true	"Account ID"
//	@Success	200	{array}		model.Skill
//	@Failure	404	{object}	map[string]string	"Not found"
//	@Router		/api/accounts/{id}/skills [get]
func (s *Server) handleAccountSkills(w http.ResponseWriter, r *http.Request) {
	account, ok := s.visibleAccount(w, r)
	if !ok {
		return
	}
	skills, err := s.store.ListSkillsByAccount(r.Context(), account.ID)
	if err != nil {
		s.fail(w, r, "accounts.skills", http.StatusInternalServerError, err)
		return
	}
	if caller := s.optionalAuth(r); caller == nil || caller.AccountID != account.ID {
		skills = approvedOnly(skills)
	}
	if skills == nil {
		skills = []model.Skill{}
	}
	writeJSON(w, http.StatusOK, skills)
}

// handleAccountRatings godoc
//
//	@Summary	List ratings received by an account
//	@Tags		Ratings
//	@Produce	json
//	@Param		id	path		int	true	"Account ID"
//	@Success	200	{array}		model.Rating
//	@Failure	404	{object}	map[string]string	"Not found"
//	@Router		/api/accounts/{id}/ratings [get]
func (s *Server) handleAccountRatings(w http.ResponseWriter, r *http.Request) {
	account, ok := s.visibleAccount(w, r)
	if !ok {
		return
	}
	ratings, err := s.store.ListRatingsForAccount(r.Context(), account.ID)
	if err != nil {
		s.fail(w, r, "accounts.ratings", http.StatusInternalServerError, err)
		return
	}
	if ratings == nil {
		ratings = []model.Rating{}
	}
	writeJSON(w, http.StatusOK, ratings)
}

func (s *Server) visibleAccount(w http.ResponseWriter, r *http.Request) (model.Account, bool) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return model.Account{}, false
	}
	account, err := s.store.GetAccount(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			notFound(w)
			return model.Account{}, false
		}
		s.fail(w, r, "accounts.get", http.StatusInternalServerError, err)
		return model.Account{}, false
	}
	caller := s.optionalAuth(r)
	self := caller != nil && caller.AccountID == account.ID
	if !self {
		if !account.Public || account.Banned {
			notFound(w)
			return model.Account{}, false
		}
		account.Email = ""
	}
	return account, true
}

func approvedOnly(skills []model.Skill) []model.Skill {
	out := skills[:0]
	for _, sk := range skills {
		if sk.Approved {
			out = append(out, sk)
		}
	}
	return out
}
