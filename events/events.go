// Package events defines the closed set of contract events the indexer
// consumes. Each event is one typed struct; dynamic payload access is never
// used. Provenance carries the chain coordinates used for key derivation and
// replay ordering, never exposed as business data.
package events

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// Event is a structured state change emitted by the exchange contract.
type Event interface {
	EventType() string
	Provenance() Provenance
}

// Provenance is the chain position of an event. The total order
// (BlockNumber, TxIndex, LogIndex) is the replay order.
type Provenance struct {
	TxHash      common.Hash
	BlockNumber uint64
	TxIndex     uint
	LogIndex    uint
	Timestamp   uint64
}

// Before reports whether p precedes q in replay order.
func (p Provenance) Before(q Provenance) bool {
	if p.BlockNumber != q.BlockNumber {
		return p.BlockNumber < q.BlockNumber
	}
	if p.TxIndex != q.TxIndex {
		return p.TxIndex < q.TxIndex
	}
	return p.LogIndex < q.LogIndex
}

// Event type names, matching the contract event declarations.
const (
	TypeCampaignCreated            = "CampaignCreated"
	TypeDonation                   = "Donation"
	TypeWithdrawal                 = "Withdrawal"
	TypeCampaignUpdate             = "CampaignUpdate"
	TypeCampaignOwnerUpdated       = "CampaignOwnerUpdated"
	TypeCampaignTitleUpdated       = "CampaignTitleUpdated"
	TypeCampaignClaimUpdated       = "CampaignClaimUpdated"
	TypeCampaignDescriptionUpdated = "CampaignDescriptionUpdated"
	TypeFollow                     = "Follow"
	TypeUnfollow                   = "Unfollow"
	TypeCreateIdea                 = "CreateIdea"
	TypeUpdateIdeaText             = "UpdateIdeaText"
	TypeUpdateIdeaType             = "UpdateIdeaType"
	TypeUpdateIdeaPosition         = "UpdateIdeaPosition"
	TypeUpdateIdeaParent           = "UpdateIdeaParent"
	TypeDeleteIdea                 = "DeleteIdea"
	TypeCreateSpecialistGroup      = "CreateSpecialistGroup"
	TypeGroupOwnerUpdated          = "SpecialistGroupOwnerUpdated"
	TypeGroupNameUpdated           = "SpecialistGroupNameUpdated"
	TypeGroupSpecificationUpdated  = "SpecialistGroupSpecificationUpdated"
	TypeGroupStatusUpdated         = "SpecialistGroupStatusUpdated"
	TypeDeleteSpecialistGroup      = "DeleteSpecialistGroup"
	TypeSpecialistAdded            = "SpecialistAddedToGroup"
	TypeSpecialistRemoved          = "SpecialistRemovedFromGroup"
	TypeGroupAddedToCampaign       = "SpecialistGroupAddedToCampaign"
	TypeGroupRemovedFromCampaign   = "SpecialistGroupRemovedFromCampaign"
	TypeTruthRatingCreated         = "TruthRatingCreated"
	TypeTruthRatingUpdated         = "TruthRatingUpdated"
	TypeTruthRatingDeleted         = "TruthRatingDeleted"
)

// CampaignCreated announces a new campaign with zeroed totals.
type CampaignCreated struct {
	Prov        Provenance
	CampaignID  uint32
	Owner       common.Address
	Title       string
	Claim       string
	Description string
}

func (CampaignCreated) EventType() string { return TypeCampaignCreated }
func (e CampaignCreated) Provenance() Provenance { return e.Prov }

// Donation records funds added to a campaign.
type Donation struct {
	Prov       Provenance
	CampaignID uint32
	Donor      common.Address
	Amount     *uint256.Int
	Comment    string
}

func (Donation) EventType() string { return TypeDonation }
func (e Donation) Provenance() Provenance { return e.Prov }

// Withdrawal records funds taken out of a campaign.
type Withdrawal struct {
	Prov       Provenance
	CampaignID uint32
	Withdrawer common.Address
	Amount     *uint256.Int
	Comment    string
}

func (Withdrawal) EventType() string { return TypeWithdrawal }
func (e Withdrawal) Provenance() Provenance { return e.Prov }

// CampaignUpdate appends a progress note to a campaign.
type CampaignUpdate struct {
	Prov       Provenance
	CampaignID uint32
	Author     common.Address
	Title      string
	Content    string
}

func (CampaignUpdate) EventType() string { return TypeCampaignUpdate }
func (e CampaignUpdate) Provenance() Provenance { return e.Prov }

// CampaignOwnerUpdated transfers campaign ownership.
type CampaignOwnerUpdated struct {
	Prov       Provenance
	CampaignID uint32
	NewOwner   common.Address
}

func (CampaignOwnerUpdated) EventType() string { return TypeCampaignOwnerUpdated }
func (e CampaignOwnerUpdated) Provenance() Provenance { return e.Prov }

// CampaignTitleUpdated replaces the campaign title.
type CampaignTitleUpdated struct {
	Prov       Provenance
	CampaignID uint32
	NewTitle   string
}

func (CampaignTitleUpdated) EventType() string { return TypeCampaignTitleUpdated }
func (e CampaignTitleUpdated) Provenance() Provenance { return e.Prov }

// CampaignClaimUpdated replaces the campaign claim.
type CampaignClaimUpdated struct {
	Prov       Provenance
	CampaignID uint32
	NewClaim   string
}

func (CampaignClaimUpdated) EventType() string { return TypeCampaignClaimUpdated }
func (e CampaignClaimUpdated) Provenance() Provenance { return e.Prov }

// CampaignDescriptionUpdated replaces the campaign description.
type CampaignDescriptionUpdated struct {
	Prov           Provenance
	CampaignID     uint32
	NewDescription string
}

func (CampaignDescriptionUpdated) EventType() string { return TypeCampaignDescriptionUpdated }
func (e CampaignDescriptionUpdated) Provenance() Provenance { return e.Prov }

// Follow adds a follow edge for (campaign, user).
type Follow struct {
	Prov       Provenance
	CampaignID uint32
	User       common.Address
}

func (Follow) EventType() string { return TypeFollow }
func (e Follow) Provenance() Provenance { return e.Prov }

// Unfollow removes the follow edge for (campaign, user).
type Unfollow struct {
	Prov       Provenance
	CampaignID uint32
	User       common.Address
}

func (Unfollow) EventType() string { return TypeUnfollow }
func (e Unfollow) Provenance() Provenance { return e.Prov }

// CreateIdea adds a node to a campaign's argument tree. ParentID is the
// zero-address sentinel for the root claim. The nonce disambiguates several
// creations within one log entry.
type CreateIdea struct {
	Prov       Provenance
	Nonce      uint32
	CampaignID uint32
	ParentID   string
	IdeaType   int32
	Text       string
	X          int32
	Y          int32
}

func (CreateIdea) EventType() string { return TypeCreateIdea }
func (e CreateIdea) Provenance() Provenance { return e.Prov }

// UpdateIdeaText replaces an idea's text.
type UpdateIdeaText struct {
	Prov       Provenance
	CampaignID uint32
	IdeaID     string
	NewText    string
}

func (UpdateIdeaText) EventType() string { return TypeUpdateIdeaText }
func (e UpdateIdeaText) Provenance() Provenance { return e.Prov }

// UpdateIdeaType reclassifies an idea.
type UpdateIdeaType struct {
	Prov       Provenance
	CampaignID uint32
	IdeaID     string
	NewType    int32
}

func (UpdateIdeaType) EventType() string { return TypeUpdateIdeaType }
func (e UpdateIdeaType) Provenance() Provenance { return e.Prov }

// UpdateIdeaPosition moves an idea's layout coordinates.
type UpdateIdeaPosition struct {
	Prov       Provenance
	CampaignID uint32
	IdeaID     string
	X          int32
	Y          int32
}

func (UpdateIdeaPosition) EventType() string { return TypeUpdateIdeaPosition }
func (e UpdateIdeaPosition) Provenance() Provenance { return e.Prov }

// UpdateIdeaParent re-parents an idea under a new parent.
type UpdateIdeaParent struct {
	Prov        Provenance
	CampaignID  uint32
	IdeaID      string
	NewParentID string
}

func (UpdateIdeaParent) EventType() string { return TypeUpdateIdeaParent }
func (e UpdateIdeaParent) Provenance() Provenance { return e.Prov }

// DeleteIdea removes an idea and its entire subtree.
type DeleteIdea struct {
	Prov       Provenance
	CampaignID uint32
	IdeaID     string
}

func (DeleteIdea) EventType() string { return TypeDeleteIdea }
func (e DeleteIdea) Provenance() Provenance { return e.Prov }

// CreateSpecialistGroup opens a group; the owner is auto-enrolled as member.
type CreateSpecialistGroup struct {
	Prov          Provenance
	GroupID       uint32
	Owner         common.Address
	Name          string
	Specification string
}

func (CreateSpecialistGroup) EventType() string { return TypeCreateSpecialistGroup }
func (e CreateSpecialistGroup) Provenance() Provenance { return e.Prov }

// GroupOwnerUpdated transfers group ownership.
type GroupOwnerUpdated struct {
	Prov     Provenance
	GroupID  uint32
	NewOwner common.Address
}

func (GroupOwnerUpdated) EventType() string { return TypeGroupOwnerUpdated }
func (e GroupOwnerUpdated) Provenance() Provenance { return e.Prov }

// GroupNameUpdated renames a group.
type GroupNameUpdated struct {
	Prov    Provenance
	GroupID uint32
	NewName string
}

func (GroupNameUpdated) EventType() string { return TypeGroupNameUpdated }
func (e GroupNameUpdated) Provenance() Provenance { return e.Prov }

// GroupSpecificationUpdated replaces a group's specification text.
type GroupSpecificationUpdated struct {
	Prov             Provenance
	GroupID          uint32
	NewSpecification string
}

func (GroupSpecificationUpdated) EventType() string { return TypeGroupSpecificationUpdated }
func (e GroupSpecificationUpdated) Provenance() Provenance { return e.Prov }

// GroupStatusUpdated moves a group between Active/Inactive/Deleted.
type GroupStatusUpdated struct {
	Prov      Provenance
	GroupID   uint32
	NewStatus int32
}

func (GroupStatusUpdated) EventType() string { return TypeGroupStatusUpdated }
func (e GroupStatusUpdated) Provenance() Provenance { return e.Prov }

// DeleteSpecialistGroup removes a group and all of its memberships.
type DeleteSpecialistGroup struct {
	Prov        Provenance
	GroupID     uint32
	Sender      common.Address
	Comments    string
	EvidenceURL string
}

func (DeleteSpecialistGroup) EventType() string { return TypeDeleteSpecialistGroup }
func (e DeleteSpecialistGroup) Provenance() Provenance { return e.Prov }

// SpecialistAdded enrolls a member into a group.
type SpecialistAdded struct {
	Prov        Provenance
	GroupID     uint32
	Owner       common.Address
	Member      common.Address
	Comments    string
	EvidenceURL string
}

func (SpecialistAdded) EventType() string { return TypeSpecialistAdded }
func (e SpecialistAdded) Provenance() Provenance { return e.Prov }

// SpecialistRemoved drops a member from a group.
type SpecialistRemoved struct {
	Prov        Provenance
	GroupID     uint32
	Owner       common.Address
	Member      common.Address
	Comments    string
	EvidenceURL string
}

func (SpecialistRemoved) EventType() string { return TypeSpecialistRemoved }
func (e SpecialistRemoved) Provenance() Provenance { return e.Prov }

// GroupAddedToCampaign associates a group with a campaign.
type GroupAddedToCampaign struct {
	Prov       Provenance
	GroupID    uint32
	CampaignID uint32
	Owner      common.Address
	Comments   string
}

func (GroupAddedToCampaign) EventType() string { return TypeGroupAddedToCampaign }
func (e GroupAddedToCampaign) Provenance() Provenance { return e.Prov }

// GroupRemovedFromCampaign dissolves a group-campaign association.
type GroupRemovedFromCampaign struct {
	Prov       Provenance
	GroupID    uint32
	CampaignID uint32
	Owner      common.Address
	Comments   string
}

func (GroupRemovedFromCampaign) EventType() string { return TypeGroupRemovedFromCampaign }
func (e GroupRemovedFromCampaign) Provenance() Provenance { return e.Prov }

// TruthRatingCreated records a rater's score for an idea on behalf of a group.
type TruthRatingCreated struct {
	Prov        Provenance
	CampaignID  uint32
	GroupID     uint32
	IdeaID      string
	Rater       common.Address
	RatingScore uint8
	Comments    string
}

func (TruthRatingCreated) EventType() string { return TypeTruthRatingCreated }
func (e TruthRatingCreated) Provenance() Provenance { return e.Prov }

// TruthRatingUpdated replaces the score and comments of an existing rating.
type TruthRatingUpdated struct {
	Prov        Provenance
	CampaignID  uint32
	GroupID     uint32
	IdeaID      string
	Rater       common.Address
	RatingScore uint8
	Comments    string
}

func (TruthRatingUpdated) EventType() string { return TypeTruthRatingUpdated }
func (e TruthRatingUpdated) Provenance() Provenance { return e.Prov }

// TruthRatingDeleted removes a rating row.
type TruthRatingDeleted struct {
	Prov       Provenance
	CampaignID uint32
	GroupID    uint32
	IdeaID     string
	Rater      common.Address
}

func (TruthRatingDeleted) EventType() string { return TypeTruthRatingDeleted }
func (e TruthRatingDeleted) Provenance() Provenance { return e.Prov }
