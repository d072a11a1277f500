package moderation

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/alphabot-ai/skillswap/internal/model"
	"github.com/alphabot-ai/skillswap/internal/store"
)

// Repository is the slice of the store the Engine needs.
type Repository interface {
	store.ReportStore
	ListAccounts(ctx context.Context) ([]model.Account, error)
	ListSwaps(ctx context.Context) ([]model.SwapRequest, error)
	ListAudit(ctx context.Context, opts store.AuditListOpts) ([]model.AuditEntry, error)
	InTx(ctx context.Context, fn func(tx store.Tx) error) error
}

// Engine applies privileged mutations. Each mutation and its audit entry are
// written in a single transaction.
type Engine struct {
	repo   Repository
	logger *slog.Logger
	now    func() time.Time
}

func NewEngine(repo Repository, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		repo:   repo,
		logger: logger.With("module", "moderation"),
		now:    time.Now,
	}
}

// Decision is the moderation verdict on a skill.
type Decision string

const (
	DecisionApprove Decision = "approve"
	DecisionReject  Decision = "reject"
)

func ParseDecision(s string) (Decision, bool) {
	switch d := Decision(s); d {
	case DecisionApprove, DecisionReject:
		return d, true
	}
	return "", false
}

type BroadcastInput struct {
	Title string
	Body  string
	Type  model.MessageType
}

func (e *Engine) ListAccounts(ctx context.Context, admin Admin) ([]model.Account, error) {
	const op = "moderation.list_accounts"
	if err := checkAdmin(op, admin); err != nil {
		return nil, err
	}
	accounts, err := e.repo.ListAccounts(ctx)
	if err != nil {
		return nil, e.fail(ctx, op, admin, classify(op, "account", err))
	}
	if accounts == nil {
		accounts = []model.Account{}
	}
	return accounts, nil
}

func (e *Engine) ListSwaps(ctx context.Context, admin Admin) ([]model.SwapRequest, error) {
	const op = "moderation.list_swaps"
	if err := checkAdmin(op, admin); err != nil {
		return nil, err
	}
	swaps, err := e.repo.ListSwaps(ctx)
	if err != nil {
		return nil, e.fail(ctx, op, admin, classify(op, "swap", err))
	}
	if swaps == nil {
		swaps = []model.SwapRequest{}
	}
	return swaps, nil
}

func (e *Engine) ListAudit(ctx context.Context, admin Admin, opts store.AuditListOpts) ([]model.AuditEntry, error) {
	const op = "moderation.list_audit"
	if err := checkAdmin(op, admin); err != nil {
		return nil, err
	}
	if opts.TargetType != "" && !opts.TargetType.Valid() {
		return nil, newError(ErrValidation, op, "unknown target type", nil)
	}
	entries, err := e.repo.ListAudit(ctx, opts)
	if err != nil {
		return nil, e.fail(ctx, op, admin, classify(op, "audit entry", err))
	}
	if entries == nil {
		entries = []model.AuditEntry{}
	}
	return entries, nil
}

// SetBanState sets the banned flag of an account. Repeating the call leaves the
// flag unchanged but records another audit entry.
func (e *Engine) SetBanState(ctx context.Context, admin Admin, accountID int64, banned bool) (model.BanState, error) {
	const op = "moderation.set_ban_state"
	if err := checkAdmin(op, admin); err != nil {
		return model.BanState{}, err
	}
	action := model.ActionUnbanUser
	if banned {
		action = model.ActionBanUser
	}

	var account model.Account
	err := e.repo.InTx(ctx, func(tx store.Tx) error {
		var err error
		account, err = tx.SetAccountBanned(ctx, accountID, banned)
		if err != nil {
			return err
		}
		_, err = tx.AppendAudit(ctx, &model.AuditEntry{
			AdminID:    admin.id,
			Action:     action,
			TargetType: model.TargetUser,
			TargetID:   account.ID,
			Detail:     account.DisplayName,
			CreatedAt:  e.now(),
		})
		return err
	})
	if err != nil {
		return model.BanState{}, e.fail(ctx, op, admin, classify(op, "user", err))
	}
	e.logger.InfoContext(ctx, "account ban state changed",
		"operation", op,
		"outcome", "success",
		"admin_id", admin.id,
		"account_id", account.ID,
		"action", string(action),
	)
	return model.BanState{ID: account.ID, DisplayName: account.DisplayName, Banned: account.Banned}, nil
}

// SetSkillApproval approves or rejects a skill. An unrecognised decision is
// refused before anything is written.
func (e *Engine) SetSkillApproval(ctx context.Context, admin Admin, skillID int64, decision string) (model.Skill, error) {
	const op = "moderation.set_skill_approval"
	if err := checkAdmin(op, admin); err != nil {
		return model.Skill{}, err
	}
	d, ok := ParseDecision(decision)
	if !ok {
		return model.Skill{}, newError(ErrValidation, op, "invalid action", nil)
	}
	approved := d == DecisionApprove
	action := model.ActionRejectSkill
	if approved {
		action = model.ActionApproveSkill
	}

	var skill model.Skill
	err := e.repo.InTx(ctx, func(tx store.Tx) error {
		var err error
		skill, err = tx.SetSkillApproved(ctx, skillID, approved)
		if err != nil {
			return err
		}
		_, err = tx.AppendAudit(ctx, &model.AuditEntry{
			AdminID:    admin.id,
			Action:     action,
			TargetType: model.TargetSkill,
			TargetID:   skill.ID,
			Detail:     skill.Name,
			CreatedAt:  e.now(),
		})
		return err
	})
	if err != nil {
		return model.Skill{}, e.fail(ctx, op, admin, classify(op, "skill", err))
	}
	e.logger.InfoContext(ctx, "skill moderated",
		"operation", op,
		"outcome", "success",
		"admin_id", admin.id,
		"skill_id", skill.ID,
		"action", string(action),
	)
	return skill, nil
}

// Broadcast publishes a platform message authored by admin. An empty type
// defaults to info.
func (e *Engine) Broadcast(ctx context.Context, admin Admin, in BroadcastInput) (model.PlatformMessage, error) {
	const op = "moderation.broadcast"
	if err := checkAdmin(op, admin); err != nil {
		return model.PlatformMessage{}, err
	}
	msg := model.PlatformMessage{
		Title:     strings.TrimSpace(in.Title),
		Body:      strings.TrimSpace(in.Body),
		Type:      in.Type,
		CreatedBy: admin.id,
		CreatedAt: e.now(),
	}
	if msg.Type == "" {
		msg.Type = model.MessageInfo
	}
	switch {
	case msg.Title == "":
		return model.PlatformMessage{}, newError(ErrValidation, op, "title is required", nil)
	case msg.Body == "":
		return model.PlatformMessage{}, newError(ErrValidation, op, "message is required", nil)
	case !msg.Type.Valid():
		return model.PlatformMessage{}, newError(ErrValidation, op, "invalid message type", nil)
	}

	err := e.repo.InTx(ctx, func(tx store.Tx) error {
		id, err := tx.CreatePlatformMessage(ctx, &msg)
		if err != nil {
			return err
		}
		msg.ID = id
		_, err = tx.AppendAudit(ctx, &model.AuditEntry{
			AdminID:    admin.id,
			Action:     model.ActionSendMessage,
			TargetType: model.TargetPlatformMessage,
			TargetID:   id,
			Detail:     msg.Title,
			CreatedAt:  e.now(),
		})
		return err
	})
	if err != nil {
		return model.PlatformMessage{}, e.fail(ctx, op, admin, classify(op, "message", err))
	}
	e.logger.InfoContext(ctx, "platform message sent",
		"operation", op,
		"outcome", "success",
		"admin_id", admin.id,
		"message_id", msg.ID,
	)
	return msg, nil
}

func checkAdmin(op string, admin Admin) error {
	if admin.id == 0 {
		return newError(ErrAuthorizationDenied, op, "", nil)
	}
	return nil
}

// fail logs server faults with their cause and passes err through.
func (e *Engine) fail(ctx context.Context, op string, admin Admin, err error) error {
	if KindOf(err) == ErrServerFault {
		e.logger.ErrorContext(ctx, "moderation operation failed",
			"operation", op,
			"outcome", "failure",
			"admin_id", admin.id,
			"error", err.Error(),
		)
	}
	return err
}
