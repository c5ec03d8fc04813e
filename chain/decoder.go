// Package chain pulls SharedRealityExchange logs off an Ethereum node and
// turns them into typed indexer events.
package chain

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/holiman/uint256"

	"srxgraph/events"
)

// ErrUnknownEvent marks a log whose topic does not belong to the contract ABI.
var ErrUnknownEvent = errors.New("chain: unknown event")

// Decoder unpacks contract logs into the closed event union.
type Decoder struct {
	abi abi.ABI
}

// NewDecoder parses the embedded contract ABI.
func NewDecoder() (*Decoder, error) {
	parsed, err := ExchangeABI()
	if err != nil {
		return nil, fmt.Errorf("parse exchange abi: %w", err)
	}
	return &Decoder{abi: parsed}, nil
}

// args wraps the unpacked value list with typed accessors so each decode case
// stays a single expression per field. The first type mismatch is sticky.
type args struct {
	vals []interface{}
	err  error
}

func (a *args) fail(i int, want string) {
	if a.err == nil {
		a.err = fmt.Errorf("argument %d is not %s", i, want)
	}
}

func (a *args) uint32At(i int) uint32 {
	if v, ok := a.vals[i].(uint32); ok {
		return v
	}
	a.fail(i, "uint32")
	return 0
}

func (a *args) int32At(i int) int32 {
	if v, ok := a.vals[i].(int32); ok {
		return v
	}
	a.fail(i, "int32")
	return 0
}

func (a *args) uint8At(i int) uint8 {
	if v, ok := a.vals[i].(uint8); ok {
		return v
	}
	a.fail(i, "uint8")
	return 0
}

func (a *args) stringAt(i int) string {
	if v, ok := a.vals[i].(string); ok {
		return v
	}
	a.fail(i, "string")
	return ""
}

func (a *args) addressAt(i int) common.Address {
	if v, ok := a.vals[i].(common.Address); ok {
		return v
	}
	a.fail(i, "address")
	return common.Address{}
}

func (a *args) uint256At(i int) *uint256.Int {
	if v, ok := a.vals[i].(*big.Int); ok {
		u, overflow := uint256.FromBig(v)
		if overflow {
			a.fail(i, "uint256")
			return nil
		}
		return u
	}
	a.fail(i, "uint256")
	return nil
}

// Decode turns one log into its typed event. The block timestamp is supplied
// by the caller since logs do not carry it.
func (d *Decoder) Decode(lg types.Log, timestamp uint64) (events.Event, error) {
	if len(lg.Topics) == 0 {
		return nil, ErrUnknownEvent
	}
	def, err := d.abi.EventByID(lg.Topics[0])
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownEvent, lg.Topics[0])
	}
	vals, err := d.abi.Unpack(def.Name, lg.Data)
	if err != nil {
		return nil, fmt.Errorf("unpack %s: %w", def.Name, err)
	}
	prov := events.Provenance{
		TxHash:      lg.TxHash,
		BlockNumber: lg.BlockNumber,
		TxIndex:     lg.TxIndex,
		LogIndex:    lg.Index,
		Timestamp:   timestamp,
	}
	a := &args{vals: vals}

	var ev events.Event
	switch def.Name {
	case events.TypeCampaignCreated:
		ev = events.CampaignCreated{Prov: prov, CampaignID: a.uint32At(0), Owner: a.addressAt(1), Title: a.stringAt(2), Claim: a.stringAt(3), Description: a.stringAt(4)}
	case events.TypeDonation:
		ev = events.Donation{Prov: prov, CampaignID: a.uint32At(0), Donor: a.addressAt(1), Amount: a.uint256At(2), Comment: a.stringAt(3)}
	case events.TypeWithdrawal:
		ev = events.Withdrawal{Prov: prov, CampaignID: a.uint32At(0), Withdrawer: a.addressAt(1), Amount: a.uint256At(2), Comment: a.stringAt(3)}
	case events.TypeCampaignUpdate:
		ev = events.CampaignUpdate{Prov: prov, CampaignID: a.uint32At(0), Author: a.addressAt(1), Title: a.stringAt(2), Content: a.stringAt(3)}
	case events.TypeCampaignOwnerUpdated:
		ev = events.CampaignOwnerUpdated{Prov: prov, CampaignID: a.uint32At(0), NewOwner: a.addressAt(1)}
	case events.TypeCampaignTitleUpdated:
		ev = events.CampaignTitleUpdated{Prov: prov, CampaignID: a.uint32At(0), NewTitle: a.stringAt(1)}
	case events.TypeCampaignClaimUpdated:
		ev = events.CampaignClaimUpdated{Prov: prov, CampaignID: a.uint32At(0), NewClaim: a.stringAt(1)}
	case events.TypeCampaignDescriptionUpdated:
		ev = events.CampaignDescriptionUpdated{Prov: prov, CampaignID: a.uint32At(0), NewDescription: a.stringAt(1)}
	case events.TypeFollow:
		ev = events.Follow{Prov: prov, CampaignID: a.uint32At(0), User: a.addressAt(1)}
	case events.TypeUnfollow:
		ev = events.Unfollow{Prov: prov, CampaignID: a.uint32At(0), User: a.addressAt(1)}
	case events.TypeCreateIdea:
		ev = events.CreateIdea{Prov: prov, Nonce: a.uint32At(0), CampaignID: a.uint32At(1), ParentID: a.stringAt(2), IdeaType: a.int32At(3), Text: a.stringAt(4), X: a.int32At(5), Y: a.int32At(6)}
	case events.TypeUpdateIdeaText:
		ev = events.UpdateIdeaText{Prov: prov, CampaignID: a.uint32At(0), IdeaID: a.stringAt(1), NewText: a.stringAt(2)}
	case events.TypeUpdateIdeaType:
		ev = events.UpdateIdeaType{Prov: prov, CampaignID: a.uint32At(0), IdeaID: a.stringAt(1), NewType: a.int32At(2)}
	case events.TypeUpdateIdeaPosition:
		ev = events.UpdateIdeaPosition{Prov: prov, CampaignID: a.uint32At(0), IdeaID: a.stringAt(1), X: a.int32At(2), Y: a.int32At(3)}
	case events.TypeUpdateIdeaParent:
		ev = events.UpdateIdeaParent{Prov: prov, CampaignID: a.uint32At(0), IdeaID: a.stringAt(1), NewParentID: a.stringAt(2)}
	case events.TypeDeleteIdea:
		ev = events.DeleteIdea{Prov: prov, CampaignID: a.uint32At(0), IdeaID: a.stringAt(1)}
	case events.TypeCreateSpecialistGroup:
		ev = events.CreateSpecialistGroup{Prov: prov, GroupID: a.uint32At(0), Owner: a.addressAt(1), Name: a.stringAt(2), Specification: a.stringAt(3)}
	case events.TypeGroupOwnerUpdated:
		ev = events.GroupOwnerUpdated{Prov: prov, GroupID: a.uint32At(0), NewOwner: a.addressAt(1)}
	case events.TypeGroupNameUpdated:
		ev = events.GroupNameUpdated{Prov: prov, GroupID: a.uint32At(0), NewName: a.stringAt(1)}
	case events.TypeGroupSpecificationUpdated:
		ev = events.GroupSpecificationUpdated{Prov: prov, GroupID: a.uint32At(0), NewSpecification: a.stringAt(1)}
	case events.TypeGroupStatusUpdated:
		ev = events.GroupStatusUpdated{Prov: prov, GroupID: a.uint32At(0), NewStatus: a.int32At(1)}
	case events.TypeDeleteSpecialistGroup:
		ev = events.DeleteSpecialistGroup{Prov: prov, GroupID: a.uint32At(0), Sender: a.addressAt(1), Comments: a.stringAt(2), EvidenceURL: a.stringAt(3)}
	case events.TypeSpecialistAdded:
		ev = events.SpecialistAdded{Prov: prov, GroupID: a.uint32At(0), Owner: a.addressAt(1), Member: a.addressAt(2), Comments: a.stringAt(3), EvidenceURL: a.stringAt(4)}
	case events.TypeSpecialistRemoved:
		ev = events.SpecialistRemoved{Prov: prov, GroupID: a.uint32At(0), Owner: a.addressAt(1), Member: a.addressAt(2), Comments: a.stringAt(3), EvidenceURL: a.stringAt(4)}
	case events.TypeGroupAddedToCampaign:
		ev = events.GroupAddedToCampaign{Prov: prov, GroupID: a.uint32At(0), CampaignID: a.uint32At(1), Owner: a.addressAt(2), Comments: a.stringAt(3)}
	case events.TypeGroupRemovedFromCampaign:
		ev = events.GroupRemovedFromCampaign{Prov: prov, GroupID: a.uint32At(0), CampaignID: a.uint32At(1), Owner: a.addressAt(2), Comments: a.stringAt(3)}
	case events.TypeTruthRatingCreated:
		ev = events.TruthRatingCreated{Prov: prov, CampaignID: a.uint32At(0), GroupID: a.uint32At(1), IdeaID: a.stringAt(2), Rater: a.addressAt(3), RatingScore: a.uint8At(4), Comments: a.stringAt(5)}
	case events.TypeTruthRatingUpdated:
		ev = events.TruthRatingUpdated{Prov: prov, CampaignID: a.uint32At(0), GroupID: a.uint32At(1), IdeaID: a.stringAt(2), Rater: a.addressAt(3), RatingScore: a.uint8At(4), Comments: a.stringAt(5)}
	case events.TypeTruthRatingDeleted:
		ev = events.TruthRatingDeleted{Prov: prov, CampaignID: a.uint32At(0), GroupID: a.uint32At(1), IdeaID: a.stringAt(2), Rater: a.addressAt(3)}
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownEvent, def.Name)
	}
	if a.err != nil {
		return nil, fmt.Errorf("decode %s: %w", def.Name, a.err)
	}
	return ev, nil
}
