package postgres

import (
	"time"

	"github.com/alphabot-ai/skillswap/internal/model"
)

type accountModel struct {
	ID          int64     `gorm:"column:id;primaryKey"`
	DisplayName string    `gorm:"column:display_name"`
	Email       *string   `gorm:"column:email"`
	Location    *string   `gorm:"column:location"`
	IsPublic    bool      `gorm:"column:is_public"`
	IsBanned    bool      `gorm:"column:is_banned"`
	Role        string    `gorm:"column:role"`
	CreatedAt   time.Time `gorm:"column:created_at"`
}

func (accountModel) TableName() string { return "accounts" }

type accountKeyModel struct {
	ID        int64     `gorm:"column:id;primaryKey"`
	AccountID int64     `gorm:"column:account_id"`
	Alg       string    `gorm:"column:alg"`
	PublicKey string    `gorm:"column:public_key"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (accountKeyModel) TableName() string { return "account_keys" }

type challengeModel struct {
	Challenge string    `gorm:"column:challenge;primaryKey"`
	Alg       string    `gorm:"column:alg"`
	ExpiresAt time.Time `gorm:"column:expires_at"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (challengeModel) TableName() string { return "auth_challenges" }

type tokenModel struct {
	JTI       string    `gorm:"column:jti;primaryKey"`
	AccountID *int64    `gorm:"column:account_id"`
	KeyID     int64     `gorm:"column:key_id"`
	ExpiresAt time.Time `gorm:"column:expires_at"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (tokenModel) TableName() string { return "auth_tokens" }

type skillModel struct {
	ID         int64     `gorm:"column:id;primaryKey"`
	Name       string    `gorm:"column:name"`
	Type       string    `gorm:"column:type"`
	IsApproved bool      `gorm:"column:is_approved"`
	AccountID  int64     `gorm:"column:account_id"`
	CreatedAt  time.Time `gorm:"column:created_at"`
}

func (skillModel) TableName() string { return "skills" }

// skillRow is a skill joined with its owner's display name.
type skillRow struct {
	skillModel
	AccountName *string `gorm:"column:account_name"`
}

type swapModel struct {
	ID             int64     `gorm:"column:id;primaryKey"`
	SenderID       int64     `gorm:"column:sender_id"`
	ReceiverID     int64     `gorm:"column:receiver_id"`
	SkillOffered   string    `gorm:"column:skill_offered"`
	SkillRequested string    `gorm:"column:skill_requested"`
	Message        *string   `gorm:"column:message"`
	Status         string    `gorm:"column:status"`
	CreatedAt      time.Time `gorm:"column:created_at"`
}

func (swapModel) TableName() string { return "swap_requests" }

type swapRow struct {
	swapModel
	SenderName   *string `gorm:"column:sender_name"`
	ReceiverName *string `gorm:"column:receiver_name"`
}

type ratingModel struct {
	ID        int64     `gorm:"column:id;primaryKey"`
	SwapID    int64     `gorm:"column:swap_id"`
	RaterID   int64     `gorm:"column:rater_id"`
	RatedID   int64     `gorm:"column:rated_id"`
	Score     int       `gorm:"column:score"`
	Comment   *string   `gorm:"column:comment"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (ratingModel) TableName() string { return "ratings" }

type ratingRow struct {
	ratingModel
	RaterName *string `gorm:"column:rater_name"`
}

type platformMessageModel struct {
	ID        int64     `gorm:"column:id;primaryKey"`
	Title     string    `gorm:"column:title"`
	Message   string    `gorm:"column:message"`
	Type      string    `gorm:"column:type"`
	CreatedBy int64     `gorm:"column:created_by"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (platformMessageModel) TableName() string { return "platform_messages" }

type adminLogModel struct {
	ID         int64     `gorm:"column:id;primaryKey"`
	AdminID    int64     `gorm:"column:admin_id"`
	Action     string    `gorm:"column:action"`
	TargetType string    `gorm:"column:target_type"`
	TargetID   int64     `gorm:"column:target_id"`
	Details    *string   `gorm:"column:details"`
	CreatedAt  time.Time `gorm:"column:created_at"`
}

func (adminLogModel) TableName() string { return "admin_logs" }

func toAccount(row accountModel) model.Account {
	return model.Account{
		ID:          row.ID,
		DisplayName: row.DisplayName,
		Email:       deref(row.Email),
		Location:    deref(row.Location),
		Public:      row.IsPublic,
		Banned:      row.IsBanned,
		Role:        model.Role(row.Role),
		CreatedAt:   row.CreatedAt,
	}
}

func toAccountKey(row accountKeyModel) model.AccountKey {
	return model.AccountKey{
		ID:        row.ID,
		AccountID: row.AccountID,
		Alg:       row.Alg,
		PublicKey: row.PublicKey,
		CreatedAt: row.CreatedAt,
	}
}

func toSkill(row skillRow) model.Skill {
	return model.Skill{
		ID:          row.ID,
		Name:        row.Name,
		Type:        model.SkillType(row.Type),
		Approved:    row.IsApproved,
		AccountID:   row.AccountID,
		AccountName: deref(row.AccountName),
		CreatedAt:   row.CreatedAt,
	}
}

func toSwap(row swapRow) model.SwapRequest {
	return model.SwapRequest{
		ID:             row.ID,
		SenderID:       row.SenderID,
		SenderName:     deref(row.SenderName),
		ReceiverID:     row.ReceiverID,
		ReceiverName:   deref(row.ReceiverName),
		SkillOffered:   row.SkillOffered,
		SkillRequested: row.SkillRequested,
		Message:        deref(row.Message),
		Status:         model.SwapStatus(row.Status),
		CreatedAt:      row.CreatedAt,
	}
}

func toRating(row ratingRow) model.Rating {
	return model.Rating{
		ID:        row.ID,
		SwapID:    row.SwapID,
		RaterID:   row.RaterID,
		RaterName: deref(row.RaterName),
		RatedID:   row.RatedID,
		Score:     row.Score,
		Comment:   deref(row.Comment),
		CreatedAt: row.CreatedAt,
	}
}

func toPlatformMessage(row platformMessageModel) model.PlatformMessage {
	return model.PlatformMessage{
		ID:        row.ID,
		Title:     row.Title,
		Body:      row.Message,
		Type:      model.MessageType(row.Type),
		CreatedBy: row.CreatedBy,
		CreatedAt: row.CreatedAt,
	}
}

func toAuditEntry(row adminLogModel) (model.AuditEntry, error) {
	action, err := model.ParseAuditAction(row.Action)
	if err != nil {
		return model.AuditEntry{}, err
	}
	target, err := model.ParseAuditTarget(row.TargetType)
	if err != nil {
		return model.AuditEntry{}, err
	}
	return model.AuditEntry{
		ID:         row.ID,
		AdminID:    row.AdminID,
		Action:     action,
		TargetType: target,
		TargetID:   row.TargetID,
		Detail:     deref(row.Details),
		CreatedAt:  row.CreatedAt,
	}, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
