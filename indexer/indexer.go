// Package indexer projects the contract event stream into the entity graph.
// Events are applied one at a time in chain order; each application runs in a
// single database transaction together with the replay cursor update, so a
// resumed replay never applies the same event twice.
package indexer

import (
	"context"
	"fmt"
	"log/slog"

	"gorm.io/gorm"

	"srxgraph/events"
	"srxgraph/models"
	"srxgraph/observability/metrics"
	"srxgraph/store"
)

// Skip reasons reported via logs and metrics when an event is dropped.
const (
	skipDuplicate       = "duplicate"
	skipUnknownEvent    = "unknown_event"
	skipMissingCampaign = "missing_campaign"
	skipExistingEntity  = "existing_entity"
	skipMissingIdea     = "missing_idea"
	skipMissingParent   = "missing_parent"
	skipRootImmutable   = "root_immutable"
	skipSentinelParent  = "sentinel_parent"
	skipCycle           = "cycle"
	skipCorruptSiblings = "corrupt_siblings"
	skipMissingGroup    = "missing_group"
	skipMissingRating   = "missing_rating"
)

// Indexer applies contract events to the projected entity store.
type Indexer struct {
	db  *gorm.DB
	log *slog.Logger
}

// New returns an indexer writing through the provided database handle.
func New(db *gorm.DB, log *slog.Logger) *Indexer {
	if log == nil {
		log = slog.Default()
	}
	return &Indexer{db: db, log: log.With("component", "indexer")}
}

// Apply processes a single event. Events at or before the persisted cursor
// position are duplicates and are dropped without side effects. Storage
// failures abort the transaction and are returned; domain-level anomalies
// (missing campaign, root mutation attempts) are silent skips per the
// projection's error policy.
func (i *Indexer) Apply(ctx context.Context, ev events.Event) error {
	prov := ev.Provenance()
	err := i.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		advanced, err := i.advanceCursor(tx, prov)
		if err != nil {
			return err
		}
		if !advanced {
			i.skip(skipDuplicate, "type", ev.EventType(), "block", prov.BlockNumber, "log", prov.LogIndex)
			return nil
		}
		return i.dispatch(tx, ev)
	})
	if err != nil {
		return fmt.Errorf("apply %s: %w", ev.EventType(), err)
	}
	metrics.Indexer().MarkProcessed(ev.EventType())
	metrics.Indexer().SetCursorBlock(prov.BlockNumber)
	return nil
}

// advanceCursor moves the replay cursor to prov, reporting false when prov is
// not strictly after the stored position.
func (i *Indexer) advanceCursor(tx *gorm.DB, prov events.Provenance) (bool, error) {
	cursor, err := store.GetOrNull[models.Cursor](tx, 1)
	if err != nil {
		return false, err
	}
	if cursor != nil {
		at := events.Provenance{
			BlockNumber: cursor.BlockNumber,
			TxIndex:     uint(cursor.TxIndex),
			LogIndex:    uint(cursor.LogIndex),
		}
		if !at.Before(prov) {
			return false, nil
		}
		cursor.BlockNumber = prov.BlockNumber
		cursor.TxIndex = uint32(prov.TxIndex)
		cursor.LogIndex = uint32(prov.LogIndex)
		return true, tx.Save(cursor).Error
	}
	first := models.Cursor{
		ID:          1,
		BlockNumber: prov.BlockNumber,
		TxIndex:     uint32(prov.TxIndex),
		LogIndex:    uint32(prov.LogIndex),
	}
	return true, tx.Create(&first).Error
}

// dispatch routes an event to its handler. The union of event types is
// closed; anything else is dropped.
func (i *Indexer) dispatch(tx *gorm.DB, ev events.Event) error {
	switch e := ev.(type) {
	case events.CampaignCreated:
		return i.applyCampaignCreated(tx, e)
	case events.Donation:
		return i.applyDonation(tx, e)
	case events.Withdrawal:
		return i.applyWithdrawal(tx, e)
	case events.CampaignUpdate:
		return i.applyCampaignUpdate(tx, e)
	case events.CampaignOwnerUpdated:
		return i.applyCampaignField(tx, e.CampaignID, func(c *models.Campaign) { c.Owner = e.NewOwner.Hex() })
	case events.CampaignTitleUpdated:
		return i.applyCampaignField(tx, e.CampaignID, func(c *models.Campaign) { c.Title = e.NewTitle })
	case events.CampaignClaimUpdated:
		return i.applyCampaignField(tx, e.CampaignID, func(c *models.Campaign) { c.Claim = e.NewClaim })
	case events.CampaignDescriptionUpdated:
		return i.applyCampaignField(tx, e.CampaignID, func(c *models.Campaign) { c.Description = e.NewDescription })
	case events.Follow:
		return i.applyFollow(tx, e)
	case events.Unfollow:
		return i.applyUnfollow(tx, e)
	case events.CreateIdea:
		return i.applyCreateIdea(tx, e)
	case events.UpdateIdeaText:
		return i.applyIdeaField(tx, e.IdeaID, func(n *models.Idea) { n.Text = e.NewText })
	case events.UpdateIdeaType:
		return i.applyIdeaField(tx, e.IdeaID, func(n *models.Idea) { n.IdeaType = models.IdeaType(e.NewType) })
	case events.UpdateIdeaPosition:
		return i.applyIdeaField(tx, e.IdeaID, func(n *models.Idea) { n.X, n.Y = e.X, e.Y })
	case events.UpdateIdeaParent:
		return i.applyUpdateIdeaParent(tx, e)
	case events.DeleteIdea:
		return i.applyDeleteIdea(tx, e)
	case events.CreateSpecialistGroup:
		return i.applyCreateGroup(tx, e)
	case events.GroupOwnerUpdated:
		return i.applyGroupField(tx, e.GroupID, func(g *models.SpecialistGroup) { g.Owner = e.NewOwner.Hex() })
	case events.GroupNameUpdated:
		return i.applyGroupField(tx, e.GroupID, func(g *models.SpecialistGroup) { g.Name = e.NewName })
	case events.GroupSpecificationUpdated:
		return i.applyGroupField(tx, e.GroupID, func(g *models.SpecialistGroup) { g.Specification = e.NewSpecification })
	case events.GroupStatusUpdated:
		return i.applyGroupField(tx, e.GroupID, func(g *models.SpecialistGroup) { g.Status = models.GroupStatus(e.NewStatus) })
	case events.DeleteSpecialistGroup:
		return i.applyDeleteGroup(tx, e)
	case events.SpecialistAdded:
		return i.applySpecialistAdded(tx, e)
	case events.SpecialistRemoved:
		return i.applySpecialistRemoved(tx, e)
	case events.GroupAddedToCampaign:
		return i.applyGroupAddedToCampaign(tx, e)
	case events.GroupRemovedFromCampaign:
		return i.applyGroupRemovedFromCampaign(tx, e)
	case events.TruthRatingCreated:
		return i.applyTruthRatingCreated(tx, e)
	case events.TruthRatingUpdated:
		return i.applyTruthRatingUpdated(tx, e)
	case events.TruthRatingDeleted:
		return i.applyTruthRatingDeleted(tx, e)
	default:
		i.skip(skipUnknownEvent, "type", ev.EventType())
		return nil
	}
}

// skip records a dropped event or sub-operation. Skips are part of the normal
// replay contract, not failures.
func (i *Indexer) skip(reason string, args ...any) {
	metrics.Indexer().MarkSkip(reason)
	i.log.Warn("event skipped", append([]any{"reason", reason}, args...)...)
}
