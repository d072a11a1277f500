package model

import "time"

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

type Account struct {
	ID          int64     `json:"id"`
	DisplayName string    `json:"display_name"`
	Email       string    `json:"email"`
	Location    string    `json:"location"`
	Public      bool      `json:"is_public"`
	Banned      bool      `json:"is_banned"`
	Role        Role      `json:"role"`
	CreatedAt   time.Time `json:"created_at"`
}

// BanState is the slice of an account returned by a ban or unban.
type BanState struct {
	ID          int64  `json:"id"`
	DisplayName string `json:"display_name"`
	Banned      bool   `json:"is_banned"`
}

type AccountKey struct {
	ID        int64     `json:"id"`
	AccountID int64     `json:"account_id"`
	Alg       string    `json:"alg"`
	PublicKey string    `json:"public_key"`
	CreatedAt time.Time `json:"created_at"`
}

type Challenge struct {
	Challenge string
	Alg       string
	ExpiresAt time.Time
}

type Token struct {
	JTI       string
	AccountID *int64
	KeyID     int64
	ExpiresAt time.Time
}

type SkillType string

const (
	SkillOffered SkillType = "offered"
	SkillWanted  SkillType = "wanted"
)

func (t SkillType) Valid() bool {
	return t == SkillOffered || t == SkillWanted
}

type Skill struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Type        SkillType `json:"type"`
	Approved    bool      `json:"is_approved"`
	AccountID   int64     `json:"user_id"`
	AccountName string    `json:"user_name,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type SwapStatus string

const (
	SwapPending   SwapStatus = "pending"
	SwapAccepted  SwapStatus = "accepted"
	SwapRejected  SwapStatus = "rejected"
	SwapCompleted SwapStatus = "completed"
)

func (s SwapStatus) Valid() bool {
	switch s {
	case SwapPending, SwapAccepted, SwapRejected, SwapCompleted:
		return true
	}
	return false
}

type SwapRequest struct {
	ID             int64      `json:"id"`
	SenderID       int64      `json:"sender_id"`
	SenderName     string     `json:"sender_name,omitempty"`
	ReceiverID     int64      `json:"receiver_id"`
	ReceiverName   string     `json:"receiver_name,omitempty"`
	SkillOffered   string     `json:"skill_offered"`
	SkillRequested string     `json:"skill_requested"`
	Message        string     `json:"message,omitempty"`
	Status         SwapStatus `json:"status"`
	CreatedAt      time.Time  `json:"created_at"`
}

func (s SwapRequest) Involves(accountID int64) bool {
	return s.SenderID == accountID || s.ReceiverID == accountID
}

type Rating struct {
	ID        int64     `json:"id"`
	SwapID    int64     `json:"swap_id"`
	RaterID   int64     `json:"rater_id"`
	RaterName string    `json:"rater_name,omitempty"`
	RatedID   int64     `json:"rated_id"`
	Score     int       `json:"score"`
	Comment   string    `json:"comment,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type MessageType string

const (
	MessageInfo        MessageType = "info"
	MessageWarning     MessageType = "warning"
	MessageMaintenance MessageType = "maintenance"
	MessageUpdate      MessageType = "update"
)

func (t MessageType) Valid() bool {
	switch t {
	case MessageInfo, MessageWarning, MessageMaintenance, MessageUpdate:
		return true
	}
	return false
}

type PlatformMessage struct {
	ID        int64       `json:"id"`
	Title     string      `json:"title"`
	Body      string      `json:"message"`
	Type      MessageType `json:"type"`
	CreatedBy int64       `json:"created_by"`
	CreatedAt time.Time   `json:"created_at"`
}

type SwapStatusCount struct {
	Status SwapStatus `json:"status"`
	Total  int64      `json:"total_swaps"`
}

type RatingSummary struct {
	Average float64 `json:"avg_rating"`
	Total   int64   `json:"total_ratings"`
}

type SkillTypeCount struct {
	Type  SkillType `json:"type"`
	Total int64     `json:"total_skills"`
}

type Report struct {
	ActiveAccounts int64             `json:"total_users"`
	Swaps          []SwapStatusCount `json:"swaps"`
	Ratings        RatingSummary     `json:"ratings"`
	Skills         []SkillTypeCount  `json:"skills"`
	GeneratedAt    time.Time         `json:"generated_at"`
}
