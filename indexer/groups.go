package indexer

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"srxgraph/events"
	"srxgraph/keys"
	"srxgraph/models"
	"srxgraph/store"
)

// OwnerMembershipComment is the system comment attached to the membership a
// group owner receives automatically at group creation.
const OwnerMembershipComment = "Group owner, automatically added as a specialist"

func (i *Indexer) applyCreateGroup(tx *gorm.DB, e events.CreateSpecialistGroup) error {
	id := keys.Group(e.GroupID)
	existing, err := store.GetOrNull[models.SpecialistGroup](tx, id)
	if err != nil {
		return err
	}
	if existing != nil {
		i.skip(skipExistingEntity, "group", e.GroupID)
		return nil
	}
	group := models.SpecialistGroup{
		ID:            id,
		GroupID:       e.GroupID,
		Owner:         e.Owner.Hex(),
		Status:        models.GroupActive,
		Name:          e.Name,
		Specification: e.Specification,
		CreatedAt:     e.Prov.Timestamp,
	}
	if err := tx.Create(&group).Error; err != nil {
		return err
	}

	// The owner is always a member; no separate event is emitted for this.
	membership := models.SpecialistGroupMembership{
		ID:        keys.Membership(e.GroupID, e.Owner),
		GroupRef:  id,
		Owner:     e.Owner.Hex(),
		Member:    e.Owner.Hex(),
		Comments:  OwnerMembershipComment,
		CreatedAt: e.Prov.Timestamp,
	}
	return tx.Create(&membership).Error
}

// applyGroupField performs a single-field in-place update on a group.
func (i *Indexer) applyGroupField(tx *gorm.DB, groupID uint32, mutate func(*models.SpecialistGroup)) error {
	group, err := store.GetOrNull[models.SpecialistGroup](tx, keys.Group(groupID))
	if err != nil {
		return err
	}
	if group == nil {
		i.skip(skipMissingGroup, "group", groupID)
		return nil
	}
	mutate(group)
	return tx.Save(group).Error
}

// applyDeleteGroup removes every membership of the group before the group
// itself, so the store never holds a membership without its group.
func (i *Indexer) applyDeleteGroup(tx *gorm.DB, e events.DeleteSpecialistGroup) error {
	group, err := store.GetOrNull[models.SpecialistGroup](tx, keys.Group(e.GroupID))
	if err != nil {
		return err
	}
	if group == nil {
		i.skip(skipMissingGroup, "group", e.GroupID)
		return nil
	}
	var memberships []models.SpecialistGroupMembership
	if err := tx.Where("group_ref = ?", group.ID).Find(&memberships).Error; err != nil {
		return err
	}
	for _, m := range memberships {
		if err := store.DeleteByID[models.SpecialistGroupMembership](tx, m.ID); err != nil {
			return err
		}
	}
	return store.DeleteByID[models.SpecialistGroup](tx, group.ID)
}

func (i *Indexer) applySpecialistAdded(tx *gorm.DB, e events.SpecialistAdded) error {
	membership := models.SpecialistGroupMembership{
		ID:          keys.Membership(e.GroupID, e.Member),
		GroupRef:    keys.Group(e.GroupID),
		Owner:       e.Owner.Hex(),
		Member:      e.Member.Hex(),
		Comments:    e.Comments,
		EvidenceURL: e.EvidenceURL,
		CreatedAt:   e.Prov.Timestamp,
	}
	return tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&membership).Error
}

func (i *Indexer) applySpecialistRemoved(tx *gorm.DB, e events.SpecialistRemoved) error {
	return store.DeleteByID[models.SpecialistGroupMembership](tx, keys.Membership(e.GroupID, e.Member))
}

func (i *Indexer) applyGroupAddedToCampaign(tx *gorm.DB, e events.GroupAddedToCampaign) error {
	connection := models.SpecialistGroupCampaignConnection{
		ID:          keys.Connection(e.GroupID, e.CampaignID),
		GroupRef:    keys.Group(e.GroupID),
		CampaignRef: keys.Campaign(e.CampaignID),
		Owner:       e.Owner.Hex(),
		Comments:    e.Comments,
		CreatedAt:   e.Prov.Timestamp,
	}
	return tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&connection).Error
}

func (i *Indexer) applyGroupRemovedFromCampaign(tx *gorm.DB, e events.GroupRemovedFromCampaign) error {
	return store.DeleteByID[models.SpecialistGroupCampaignConnection](tx, keys.Connection(e.GroupID, e.CampaignID))
}

func (i *Indexer) applyTruthRatingCreated(tx *gorm.DB, e events.TruthRatingCreated) error {
	rating := models.TruthRating{
		ID:          keys.Rating(e.GroupID, e.Rater, e.IdeaID),
		CampaignRef: keys.Campaign(e.CampaignID),
		GroupRef:    keys.Group(e.GroupID),
		Idea:        e.IdeaID,
		Rater:       e.Rater.Hex(),
		RatingScore: e.RatingScore,
		Comments:    e.Comments,
		CreatedAt:   e.Prov.Timestamp,
	}
	// A repeated create for the same (group, rater, idea) tuple overwrites.
	return tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&rating).Error
}

// applyTruthRatingUpdated replaces score and comments only; provenance fields
// keep their creation values.
func (i *Indexer) applyTruthRatingUpdated(tx *gorm.DB, e events.TruthRatingUpdated) error {
	rating, err := store.GetOrNull[models.TruthRating](tx, keys.Rating(e.GroupID, e.Rater, e.IdeaID))
	if err != nil {
		return err
	}
	if rating == nil {
		i.skip(skipMissingRating, "group", e.GroupID, "idea", e.IdeaID)
		return nil
	}
	rating.RatingScore = e.RatingScore
	rating.Comments = e.Comments
	return tx.Save(rating).Error
}

func (i *Indexer) applyTruthRatingDeleted(tx *gorm.DB, e events.TruthRatingDeleted) error {
	return store.DeleteByID[models.TruthRating](tx, keys.Rating(e.GroupID, e.Rater, e.IdeaID))
}
