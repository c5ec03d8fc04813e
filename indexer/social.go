package indexer

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"srxgraph/events"
	"srxgraph/keys"
	"srxgraph/models"
	"srxgraph/store"
)

// applyFollow upserts the follow edge for (campaign, user). The key is
// deterministic, so a repeated follow overwrites the same row and the edge
// stays unique per pair.
func (i *Indexer) applyFollow(tx *gorm.DB, e events.Follow) error {
	follow := models.Follow{
		ID:          keys.Follow(e.CampaignID, e.User),
		CampaignRef: keys.Campaign(e.CampaignID),
		User:        e.User.Hex(),
		CreatedAt:   e.Prov.Timestamp,
	}
	return tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&follow).Error
}

// applyUnfollow hard-deletes the follow edge. Unfollowing a non-follower is
// a no-op.
func (i *Indexer) applyUnfollow(tx *gorm.DB, e events.Unfollow) error {
	return store.DeleteByID[models.Follow](tx, keys.Follow(e.CampaignID, e.User))
}
