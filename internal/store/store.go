package store

import (
	"context"
	"errors"
	"time"

	"github.com/alphabot-ai/skillswap/internal/model"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrDuplicateKey    = errors.New("duplicate key")
	ErrDuplicateName   = errors.New("duplicate name")
	ErrDuplicateRating = errors.New("duplicate rating")
	ErrInvalidAudit    = errors.New("invalid audit entry")
)

type SkillListOpts struct {
	Type  model.SkillType
	Query string
	Limit int
}

type AuditListOpts struct {
	TargetType model.AuditTarget
	TargetID   int64
	Limit      int
}

type Store interface {
	AccountStore
	SkillStore
	SwapStore
	RatingStore
	MessageStore
	AuditStore
	AuthStore
	ReportStore
	// InTx runs fn inside one transaction. A non-nil error from fn rolls back
	// every write made through the Tx.
	InTx(ctx context.Context, fn func(tx Tx) error) error
	Close() error
}

// Tx holds the writes that must commit together with their audit entry.
type Tx interface {
	SetAccountBanned(ctx context.Context, accountID int64, banned bool) (model.Account, error)
	SetSkillApproved(ctx context.Context, skillID int64, approved bool) (model.Skill, error)
	CreatePlatformMessage(ctx context.Context, msg *model.PlatformMessage) (int64, error)
	AppendAudit(ctx context.Context, entry *model.AuditEntry) (int64, error)
}

type AccountStore interface {
	CreateAccount(ctx context.Context, account *model.Account, key *model.AccountKey) (accountID, keyID int64, err error)
	GetAccount(ctx context.Context, id int64) (model.Account, error)
	GetAccountRole(ctx context.Context, id int64) (model.Role, error)
	SetAccountRole(ctx context.Context, id int64, role model.Role) error
	ListAccounts(ctx context.Context) ([]model.Account, error)
	FindAccountKey(ctx context.Context, alg, publicKey string) (model.AccountKey, *model.Account, error)
}

type SkillStore interface {
	CreateSkill(ctx context.Context, skill *model.Skill) (int64, error)
	GetSkill(ctx context.Context, id int64) (model.Skill, error)
	ListSkillsByAccount(ctx context.Context, accountID int64) ([]model.Skill, error)
	ListPublicSkills(ctx context.Context, opts SkillListOpts) ([]model.Skill, error)
	DeleteSkill(ctx context.Context, id, accountID int64) error
}

type SwapStore interface {
	CreateSwap(ctx context.Context, swap *model.SwapRequest) (int64, error)
	GetSwap(ctx context.Context, id int64) (model.SwapRequest, error)
	ListSwapsByAccount(ctx context.Context, accountID int64) ([]model.SwapRequest, error)
	ListSwaps(ctx context.Context) ([]model.SwapRequest, error)
	// UpdateSwapStatus only touches swaps received by receiverID.
	UpdateSwapStatus(ctx context.Context, id, receiverID int64, status model.SwapStatus) (model.SwapRequest, error)
	// DeleteSwap only removes swaps sent or received by accountID.
	DeleteSwap(ctx context.Context, id, accountID int64) error
}

type RatingStore interface {
	CreateRating(ctx context.Context, rating *model.Rating) (int64, error)
	ListRatingsForAccount(ctx context.Context, ratedID int64) ([]model.Rating, error)
}

type MessageStore interface {
	ListPlatformMessages(ctx context.Context, limit int) ([]model.PlatformMessage, error)
}

type AuditStore interface {
	ListAudit(ctx context.Context, opts AuditListOpts) ([]model.AuditEntry, error)
}

type AuthStore interface {
	CreateChallenge(ctx context.Context, c model.Challenge) error
	ConsumeChallenge(ctx context.Context, challenge string) (model.Challenge, error)
	CreateToken(ctx context.Context, token model.Token) error
	GetToken(ctx context.Context, jti string) (model.Token, error)
	DeleteToken(ctx context.Context, jti string) error
	PurgeExpiredAuth(ctx context.Context, now time.Time) (int64, error)
}

// ReportStore holds the independent aggregate reads behind the admin report.
type ReportStore interface {
	CountActiveAccounts(ctx context.Context) (int64, error)
	CountSwapsByStatus(ctx context.Context) ([]model.SwapStatusCount, error)
	SummarizeRatings(ctx context.Context) (model.RatingSummary, error)
	CountApprovedSkillsByType(ctx context.Context) ([]model.SkillTypeCount, error)
}
