package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alphabot-ai/skillswap/internal/model"
	"github.com/alphabot-ai/skillswap/internal/store"
	"gorm.io/gorm"
)

// Store implements store.Store on Postgres through GORM.
type Store struct {
	db *gorm.DB
}

var _ store.Store = (*Store)(nil)

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Open connects, applies migrations and returns a ready store.
func Open(ctx context.Context, databaseURL string, maxConns int) (*Store, error) {
	db, err := Connect(ctx, databaseURL, maxConns)
	if err != nil {
		return nil, err
	}
	if err := RunMigrations(ctx, db); err != nil {
		if sqlDB, dbErr := db.DB(); dbErr == nil {
			_ = sqlDB.Close()
		}
		return nil, err
	}
	return New(db), nil
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (s *Store) InTx(ctx context.Context, fn func(tx store.Tx) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTx{db: tx})
	})
}

type gormTx struct {
	db *gorm.DB
}

func (t *gormTx) SetAccountBanned(ctx context.Context, accountID int64, banned bool) (model.Account, error) {
	res := t.db.WithContext(ctx).Model(&accountModel{}).Where("id = ?", accountID).Update("is_banned", banned)
	if res.Error != nil {
		return model.Account{}, res.Error
	}
	if res.RowsAffected == 0 {
		return model.Account{}, store.ErrNotFound
	}
	return getAccount(ctx, t.db, accountID)
}

func (t *gormTx) SetSkillApproved(ctx context.Context, skillID int64, approved bool) (model.Skill, error) {
	res := t.db.WithContext(ctx).Model(&skillModel{}).Where("id = ?", skillID).Update("is_approved", approved)
	if res.Error != nil {
		return model.Skill{}, res.Error
	}
	if res.RowsAffected == 0 {
		return model.Skill{}, store.ErrNotFound
	}
	return getSkill(ctx, t.db, skillID)
}

func (t *gormTx) CreatePlatformMessage(ctx context.Context, msg *model.PlatformMessage) (int64, error) {
	rec := platformMessageModel{
		Title:     msg.Title,
		Message:   msg.Body,
		Type:      string(msg.Type),
		CreatedBy: msg.CreatedBy,
		CreatedAt: msg.CreatedAt,
	}
	if err := t.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return 0, err
	}
	return rec.ID, nil
}

func (t *gormTx) AppendAudit(ctx context.Context, entry *model.AuditEntry) (int64, error) {
	if err := entry.Validate(); err != nil {
		return 0, fmt.Errorf("%w: %v", store.ErrInvalidAudit, err)
	}
	rec := adminLogModel{
		AdminID:    entry.AdminID,
		Action:     string(entry.Action),
		TargetType: string(entry.TargetType),
		TargetID:   entry.TargetID,
		Details:    optional(entry.Detail),
		CreatedAt:  entry.CreatedAt,
	}
	if err := t.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return 0, err
	}
	return rec.ID, nil
}

func (s *Store) CreateAccount(ctx context.Context, account *model.Account, key *model.AccountKey) (int64, int64, error) {
	var accountID, keyID int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		role := account.Role
		if role == "" {
			role = model.RoleUser
		}
		acc := accountModel{
			DisplayName: account.DisplayName,
			Email:       optional(account.Email),
			Location:    optional(account.Location),
			IsPublic:    account.Public,
			Role:        string(role),
			CreatedAt:   account.CreatedAt,
		}
		if err := tx.Create(&acc).Error; err != nil {
			if isUniqueViolation(err) {
				return store.ErrDuplicateName
			}
			return err
		}
		k := accountKeyModel{
			AccountID: acc.ID,
			Alg:       key.Alg,
			PublicKey: key.PublicKey,
			CreatedAt: key.CreatedAt,
		}
		if err := tx.Create(&k).Error; err != nil {
			if isUniqueViolation(err) {
				return store.ErrDuplicateKey
			}
			return err
		}
		accountID, keyID = acc.ID, k.ID
		return nil
	})
	if err != nil {
		return 0, 0, err
	}
	return accountID, keyID, nil
}

func getAccount(ctx context.Context, db *gorm.DB, id int64) (model.Account, error) {
	var rec accountModel
	if err := db.WithContext(ctx).Where("id = ?", id).Take(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return model.Account{}, store.ErrNotFound
		}
		return model.Account{}, err
	}
	return toAccount(rec), nil
}

func (s *Store) GetAccount(ctx context.Context, id int64) (model.Account, error) {
	return getAccount(ctx, s.db, id)
}

func (s *Store) GetAccountRole(ctx context.Context, id int64) (model.Role, error) {
	acc, err := getAccount(ctx, s.db, id)
	if err != nil {
		return "", err
	}
	return acc.Role, nil
}

func (s *Store) SetAccountRole(ctx context.Context, id int64, role model.Role) error {
	if !role.Valid() {
		return fmt.Errorf("invalid role %q", role)
	}
	res := s.db.WithContext(ctx).Model(&accountModel{}).Where("id = ?", id).Update("role", string(role))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) ListAccounts(ctx context.Context) ([]model.Account, error) {
	var rows []accountModel
	if err := s.db.WithContext(ctx).Order("created_at DESC, id DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]model.Account, 0, len(rows))
	for _, row := range rows {
		out = append(out, toAccount(row))
	}
	return out, nil
}

func (s *Store) FindAccountKey(ctx context.Context, alg, publicKey string) (model.AccountKey, *model.Account, error) {
	var rec accountKeyModel
	if err := s.db.WithContext(ctx).Where("alg = ? AND public_key = ?", alg, publicKey).Take(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return model.AccountKey{}, nil, store.ErrNotFound
		}
		return model.AccountKey{}, nil, err
	}
	account, err := getAccount(ctx, s.db, rec.AccountID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return toAccountKey(rec), nil, nil
		}
		return model.AccountKey{}, nil, err
	}
	return toAccountKey(rec), &account, nil
}

const skillSelect = `
SELECT s.id, s.name, s.type, s.is_approved, s.account_id, s.created_at, a.display_name AS account_name
FROM skills s
LEFT JOIN accounts a ON a.id = s.account_id`

func getSkill(ctx context.Context, db *gorm.DB, id int64) (model.Skill, error) {
	var rows []skillRow
	if err := db.WithContext(ctx).Raw(skillSelect+` WHERE s.id = ?`, id).Scan(&rows).Error; err != nil {
		return model.Skill{}, err
	}
	if len(rows) == 0 {
		return model.Skill{}, store.ErrNotFound
	}
	return toSkill(rows[0]), nil
}

func (s *Store) CreateSkill(ctx context.Context, skill *model.Skill) (int64, error) {
	rec := skillModel{
		Name:       skill.Name,
		Type:       string(skill.Type),
		IsApproved: skill.Approved,
		AccountID:  skill.AccountID,
		CreatedAt:  skill.CreatedAt,
	}
	if err := s.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return 0, err
	}
	return rec.ID, nil
}

func (s *Store) GetSkill(ctx context.Context, id int64) (model.Skill, error) {
	return getSkill(ctx, s.db, id)
}

func (s *Store) ListSkillsByAccount(ctx context.Context, accountID int64) ([]model.Skill, error) {
	var rows []skillRow
	err := s.db.WithContext(ctx).
		Raw(skillSelect+` WHERE s.account_id = ? ORDER BY s.created_at DESC, s.id DESC`, accountID).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return toSkills(rows), nil
}

func (s *Store) ListPublicSkills(ctx context.Context, opts store.SkillListOpts) ([]model.Skill, error) {
	query := skillSelect + ` WHERE s.is_approved AND a.is_public AND NOT a.is_banned`
	args := []any{}
	if opts.Type != "" {
		query += ` AND s.type = ?`
		args = append(args, string(opts.Type))
	}
	if q := strings.TrimSpace(opts.Query); q != "" {
		query += ` AND s.name ILIKE ?`
		args = append(args, "%"+q+"%")
	}
	query += ` ORDER BY s.created_at DESC, s.id DESC LIMIT ?`
	args = append(args, limitOr(opts.Limit, 100))

	var rows []skillRow
	if err := s.db.WithContext(ctx).Raw(query, args...).Scan(&rows).Error; err != nil {
		return nil, err
	}
	return toSkills(rows), nil
}

func (s *Store) DeleteSkill(ctx context.Context, id, accountID int64) error {
	res := s.db.WithContext(ctx).Where("id = ? AND account_id = ?", id, accountID).Delete(&skillModel{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}

const swapSelect = `
SELECT sr.id, sr.sender_id, sr.receiver_id, sr.skill_offered, sr.skill_requested, sr.message,
	sr.status, sr.created_at, sender.display_name AS sender_name, receiver.display_name AS receiver_name
FROM swap_requests sr
LEFT JOIN accounts sender ON sender.id = sr.sender_id
LEFT JOIN accounts receiver ON receiver.id = sr.receiver_id`

func (s *Store) CreateSwap(ctx context.Context, swap *model.SwapRequest) (int64, error) {
	status := swap.Status
	if status == "" {
		status = model.SwapPending
	}
	rec := swapModel{
		SenderID:       swap.SenderID,
		ReceiverID:     swap.ReceiverID,
		SkillOffered:   swap.SkillOffered,
		SkillRequested: swap.SkillRequested,
		Message:        optional(swap.Message),
		Status:         string(status),
		CreatedAt:      swap.CreatedAt,
	}
	if err := s.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return 0, err
	}
	return rec.ID, nil
}

func (s *Store) GetSwap(ctx context.Context, id int64) (model.SwapRequest, error) {
	var rows []swapRow
	if err := s.db.WithContext(ctx).Raw(swapSelect+` WHERE sr.id = ?`, id).Scan(&rows).Error; err != nil {
		return model.SwapRequest{}, err
	}
	if len(rows) == 0 {
		return model.SwapRequest{}, store.ErrNotFound
	}
	return toSwap(rows[0]), nil
}

func (s *Store) ListSwapsByAccount(ctx context.Context, accountID int64) ([]model.SwapRequest, error) {
	var rows []swapRow
	err := s.db.WithContext(ctx).
		Raw(swapSelect+` WHERE sr.sender_id = ? OR sr.receiver_id = ? ORDER BY sr.created_at DESC, sr.id DESC`, accountID, accountID).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return toSwaps(rows), nil
}

func (s *Store) ListSwaps(ctx context.Context) ([]model.SwapRequest, error) {
	var rows []swapRow
	if err := s.db.WithContext(ctx).Raw(swapSelect + ` ORDER BY sr.created_at DESC, sr.id DESC`).Scan(&rows).Error; err != nil {
		return nil, err
	}
	return toSwaps(rows), nil
}

func (s *Store) UpdateSwapStatus(ctx context.Context, id, receiverID int64, status model.SwapStatus) (model.SwapRequest, error) {
	res := s.db.WithContext(ctx).Model(&swapModel{}).
		Where("id = ? AND receiver_id = ?", id, receiverID).
		Update("status", string(status))
	if res.Error != nil {
		return model.SwapRequest{}, res.Error
	}
	if res.RowsAffected == 0 {
		return model.SwapRequest{}, store.ErrNotFound
	}
	return s.GetSwap(ctx, id)
}

func (s *Store) DeleteSwap(ctx context.Context, id, accountID int64) error {
	res := s.db.WithContext(ctx).
		Where("id = ? AND (sender_id = ? OR receiver_id = ?)", id, accountID, accountID).
		Delete(&swapModel{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) CreateRating(ctx context.Context, rating *model.Rating) (int64, error) {
	rec := ratingModel{
		SwapID:    rating.SwapID,
		RaterID:   rating.RaterID,
		RatedID:   rating.RatedID,
		Score:     rating.Score,
		Comment:   optional(rating.Comment),
		CreatedAt: rating.CreatedAt,
	}
	if err := s.db.WithContext(ctx).Create(&rec).Error; err != nil {
		if isUniqueViolation(err) {
			return 0, store.ErrDuplicateRating
		}
		return 0, err
	}
	return rec.ID, nil
}

func (s *Store) ListRatingsForAccount(ctx context.Context, ratedID int64) ([]model.Rating, error) {
	var rows []ratingRow
	err := s.db.WithContext(ctx).Raw(`
SELECT r.id, r.swap_id, r.rater_id, r.rated_id, r.score, r.comment, r.created_at, a.display_name AS rater_name
FROM ratings r
LEFT JOIN accounts a ON a.id = r.rater_id
WHERE r.rated_id = ?
ORDER BY r.created_at DESC, r.id DESC`, ratedID).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]model.Rating, 0, len(rows))
	for _, row := range rows {
		out = append(out, toRating(row))
	}
	return out, nil
}

func (s *Store) ListPlatformMessages(ctx context.Context, limit int) ([]model.PlatformMessage, error) {
	var rows []platformMessageModel
	err := s.db.WithContext(ctx).
		Order("created_at DESC, id DESC").
		Limit(limitOr(limit, 100)).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]model.PlatformMessage, 0, len(rows))
	for _, row := range rows {
		out = append(out, toPlatformMessage(row))
	}
	return out, nil
}

func (s *Store) ListAudit(ctx context.Context, opts store.AuditListOpts) ([]model.AuditEntry, error) {
	q := s.db.WithContext(ctx).Model(&adminLogModel{})
	if opts.TargetType != "" {
		q = q.Where("target_type = ?", string(opts.TargetType))
	}
	if opts.TargetID != 0 {
		q = q.Where("target_id = ?", opts.TargetID)
	}
	var rows []adminLogModel
	if err := q.Order("created_at DESC, id DESC").Limit(limitOr(opts.Limit, 500)).Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]model.AuditEntry, 0, len(rows))
	for _, row := range rows {
		entry, err := toAuditEntry(row)
		if err != nil {
			return nil, err
		}
		out = append(out, entry)
	}
	return out, nil
}

func (s *Store) CreateChallenge(ctx context.Context, c model.Challenge) error {
	return s.db.WithContext(ctx).Create(&challengeModel{
		Challenge: c.Challenge,
		Alg:       c.Alg,
		ExpiresAt: c.ExpiresAt,
		CreatedAt: time.Now(),
	}).Error
}

func (s *Store) ConsumeChallenge(ctx context.Context, challenge string) (model.Challenge, error) {
	var rec challengeModel
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("challenge = ?", challenge).Take(&rec).Error; err != nil {
			return err
		}
		return tx.Where("challenge = ?", challenge).Delete(&challengeModel{}).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return model.Challenge{}, store.ErrNotFound
		}
		return model.Challenge{}, err
	}
	return model.Challenge{Challenge: rec.Challenge, Alg: rec.Alg, ExpiresAt: rec.ExpiresAt}, nil
}

func (s *Store) CreateToken(ctx context.Context, token model.Token) error {
	return s.db.WithContext(ctx).Create(&tokenModel{
		JTI:       token.JTI,
		AccountID: token.AccountID,
		KeyID:     token.KeyID,
		ExpiresAt: token.ExpiresAt,
		CreatedAt: time.Now(),
	}).Error
}

func (s *Store) GetToken(ctx context.Context, jti string) (model.Token, error) {
	var rec tokenModel
	if err := s.db.WithContext(ctx).Where("jti = ?", jti).Take(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return model.Token{}, store.ErrNotFound
		}
		return model.Token{}, err
	}
	return model.Token{JTI: rec.JTI, AccountID: rec.AccountID, KeyID: rec.KeyID, ExpiresAt: rec.ExpiresAt}, nil
}

func (s *Store) DeleteToken(ctx context.Context, jti string) error {
	res := s.db.WithContext(ctx).Where("jti = ?", jti).Delete(&tokenModel{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) PurgeExpiredAuth(ctx context.Context, now time.Time) (int64, error) {
	var total int64
	for _, m := range []any{&challengeModel{}, &tokenModel{}} {
		res := s.db.WithContext(ctx).Where("expires_at < ?", now).Delete(m)
		if res.Error != nil {
			return total, res.Error
		}
		total += res.RowsAffected
	}
	return total, nil
}

func (s *Store) CountActiveAccounts(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&accountModel{}).Where("is_banned = ?", false).Count(&n).Error
	return n, err
}

func (s *Store) CountSwapsByStatus(ctx context.Context) ([]model.SwapStatusCount, error) {
	var rows []struct {
		Status string
		Total  int64
	}
	err := s.db.WithContext(ctx).Model(&swapModel{}).
		Select("status, COUNT(*) AS total").
		Group("status").
		Order("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]model.SwapStatusCount, 0, len(rows))
	for _, row := range rows {
		out = append(out, model.SwapStatusCount{Status: model.SwapStatus(row.Status), Total: row.Total})
	}
	return out, nil
}

func (s *Store) SummarizeRatings(ctx context.Context) (model.RatingSummary, error) {
	var row struct {
		Average float64
		Total   int64
	}
	err := s.db.WithContext(ctx).Model(&ratingModel{}).
		Select("COALESCE(AVG(score), 0) AS average, COUNT(*) AS total").
		Scan(&row).Error
	if err != nil {
		return model.RatingSummary{}, err
	}
	return model.RatingSummary{Average: row.Average, Total: row.Total}, nil
}

func (s *Store) CountApprovedSkillsByType(ctx context.Context) ([]model.SkillTypeCount, error) {
	var rows []struct {
		Type  string
		Total int64
	}
	err := s.db.WithContext(ctx).Model(&skillModel{}).
		Select("type, COUNT(*) AS total").
		Where("is_approved = ?", true).
		Group("type").
		Order("type").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]model.SkillTypeCount, 0, len(rows))
	for _, row := range rows {
		out = append(out, model.SkillTypeCount{Type: model.SkillType(row.Type), Total: row.Total})
	}
	return out, nil
}

func toSkills(rows []skillRow) []model.Skill {
	out := make([]model.Skill, 0, len(rows))
	for _, row := range rows {
		out = append(out, toSkill(row))
	}
	return out
}

func toSwaps(rows []swapRow) []model.SwapRequest {
	out := make([]model.SwapRequest, 0, len(rows))
	for _, row := range rows {
		out = append(out, toSwap(row))
	}
	return out
}

func limitOr(v, max int) int {
	if v <= 0 || v > max {
		return max
	}
	return v
}

func isUniqueViolation(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
