// Package models defines the projected entity schema. Primary keys are the
// deterministic hex strings produced by the keys package, never sequential
// counters, so replaying the event stream is idempotent at the row level.
package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"gorm.io/gorm"
)

// IdeaType classifies a node in a campaign's argument tree.
type IdeaType int32

const (
	IdeaClaim IdeaType = 0
	IdeaPro   IdeaType = 1
	IdeaCon   IdeaType = 2
	IdeaPart  IdeaType = 3
)

// GroupStatus tracks the lifecycle state of a specialist group.
type GroupStatus int32

const (
	GroupActive   GroupStatus = 0
	GroupInactive GroupStatus = 1
	GroupDeleted  GroupStatus = 2
)

// StringList stores an ordered list of entity ids as a JSON text column so it
// round-trips identically on sqlite and postgres.
type StringList []string

// Value implements driver.Valuer.
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		l = StringList{}
	}
	raw, err := json.Marshal(l)
	if err != nil {
		return nil, fmt.Errorf("encode string list: %w", err)
	}
	return string(raw), nil
}

// Scan implements sql.Scanner.
func (l *StringList) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*l = StringList{}
		return nil
	case string:
		return json.Unmarshal([]byte(v), l)
	case []byte:
		return json.Unmarshal(v, l)
	default:
		return fmt.Errorf("unsupported string list source %T", src)
	}
}

// Campaign is the aggregate root for donations, withdrawals, follows, updates,
// ideas, group connections and ratings. Amounts are canonical decimal strings
// of uint256 values and only ever grow by increments.
type Campaign struct {
	ID              string `gorm:"primaryKey;size:130"`
	CampaignID      uint32 `gorm:"uniqueIndex"`
	Owner           string `gorm:"size:42;index"`
	Title           string
	Claim           string
	Description     string
	AmountCollected string `gorm:"size:80"`
	AmountWithdrawn string `gorm:"size:80"`
	CreatedAt       uint64

	Donations   []Donation                         `gorm:"foreignKey:CampaignRef;references:ID"`
	Withdrawals []Withdrawal                       `gorm:"foreignKey:CampaignRef;references:ID"`
	Follows     []Follow                           `gorm:"foreignKey:CampaignRef;references:ID"`
	Updates     []CampaignUpdate                   `gorm:"foreignKey:CampaignRef;references:ID"`
	Ideas       []Idea                             `gorm:"foreignKey:CampaignRef;references:ID"`
	Connections []SpecialistGroupCampaignConnection `gorm:"foreignKey:CampaignRef;references:ID"`
	Ratings     []TruthRating                      `gorm:"foreignKey:CampaignRef;references:ID"`
}

// Donation is an immutable record of a single donation event.
type Donation struct {
	ID          string `gorm:"primaryKey;size:130"`
	CampaignRef string `gorm:"size:130;index"`
	Donor       string `gorm:"size:42;index"`
	Amount      string `gorm:"size:80"`
	Comment     string
	CreatedAt   uint64
}

// Donor is the per-address donation rollup, created on first activity.
type Donor struct {
	Address       string `gorm:"primaryKey;size:42"`
	CreatedAt     uint64
	DonationCount uint64
}

// Withdrawal is an immutable record of a single withdrawal event.
type Withdrawal struct {
	ID          string `gorm:"primaryKey;size:130"`
	CampaignRef string `gorm:"size:130;index"`
	Withdrawer  string `gorm:"size:42;index"`
	Amount      string `gorm:"size:80"`
	Comment     string
	CreatedAt   uint64
}

// Withdrawer is the per-address withdrawal rollup.
type Withdrawer struct {
	Address         string `gorm:"primaryKey;size:42"`
	CreatedAt       uint64
	WithdrawalCount uint64
}

// Follow is an existence-only edge: one row per (campaign, user), hard
// deleted on unfollow.
type Follow struct {
	ID          string `gorm:"primaryKey;size:130"`
	CampaignRef string `gorm:"size:130;index"`
	User        string `gorm:"size:42;index"`
	CreatedAt   uint64
}

// CampaignUpdate is an append-only progress note authored by the campaign
// side; it never mutates the campaign's own fields.
type CampaignUpdate struct {
	ID          string `gorm:"primaryKey;size:130"`
	CampaignRef string `gorm:"size:130;index"`
	Author      string `gorm:"size:42"`
	Title       string
	Content     string
	CreatedAt   uint64
}

// Idea is a node in a campaign's argument tree. The root claim has
// ParentID equal to the zero-address sentinel. For every other idea the
// parent's Children[ParentIndex] equals the idea's ID after every mutation.
type Idea struct {
	ID          string     `gorm:"primaryKey;size:130"`
	CampaignRef string     `gorm:"size:130;index"`
	ParentID    string     `gorm:"size:130;index"`
	ParentIndex int32
	Children    StringList `gorm:"type:text"`
	IdeaType    IdeaType
	Text        string
	X           int32
	Y           int32
	CreatedAt   uint64
}

// SpecialistGroup is a roster of specialists who rate ideas.
type SpecialistGroup struct {
	ID            string      `gorm:"primaryKey;size:130"`
	GroupID       uint32      `gorm:"uniqueIndex"`
	Owner         string      `gorm:"size:42;index"`
	Status        GroupStatus
	Name          string
	Specification string
	CreatedAt     uint64

	Memberships []SpecialistGroupMembership         `gorm:"foreignKey:GroupRef;references:ID"`
	Connections []SpecialistGroupCampaignConnection `gorm:"foreignKey:GroupRef;references:ID"`
}

// SpecialistGroupMembership is one row per (group, member). The group owner
// is enrolled automatically at group creation.
type SpecialistGroupMembership struct {
	ID          string `gorm:"primaryKey;size:130"`
	GroupRef    string `gorm:"size:130;index"`
	Owner       string `gorm:"size:42"`
	Member      string `gorm:"size:42;index"`
	Comments    string
	EvidenceURL string
	CreatedAt   uint64
}

// SpecialistGroupCampaignConnection is the many-to-many join between groups
// and campaigns, one row per pair.
type SpecialistGroupCampaignConnection struct {
	ID          string `gorm:"primaryKey;size:130"`
	GroupRef    string `gorm:"size:130;index"`
	CampaignRef string `gorm:"size:130;index"`
	Owner       string `gorm:"size:42"`
	Comments    string
	CreatedAt   uint64
}

// TruthRating is at most one row per (campaign, group, idea, rater); updates
// replace score and comments in place.
type TruthRating struct {
	ID          string `gorm:"primaryKey;size:130"`
	CampaignRef string `gorm:"size:130;index"`
	GroupRef    string `gorm:"size:130;index"`
	Idea        string `gorm:"size:130;index"`
	Rater       string `gorm:"size:42;index"`
	RatingScore uint8
	Comments    string
	CreatedAt   uint64
}

// Cursor records the last applied event position. A single row (ID 1) is
// updated inside the same transaction as each event's entity writes so a
// crash-resume never re-applies an event.
type Cursor struct {
	ID          uint32 `gorm:"primaryKey"`
	BlockNumber uint64
	TxIndex     uint32
	LogIndex    uint32
}

// AutoMigrate creates or updates every projected table.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&Campaign{},
		&Donation{},
		&Donor{},
		&Withdrawal{},
		&Withdrawer{},
		&Follow{},
		&CampaignUpdate{},
		&Idea{},
		&SpecialistGroup{},
		&SpecialistGroupMembership{},
		&SpecialistGroupCampaignConnection{},
		&TruthRating{},
		&Cursor{},
	)
}
