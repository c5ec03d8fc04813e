package indexer

import (
	"fmt"

	"github.com/holiman/uint256"
	"gorm.io/gorm"

	"srxgraph/events"
	"srxgraph/keys"
	"srxgraph/models"
	"srxgraph/store"
)

// addAmount adds delta to a canonical decimal amount string. Totals only ever
// grow; the contract has no event that decrements them.
func addAmount(current string, delta *uint256.Int) (string, error) {
	if current == "" {
		current = "0"
	}
	total, err := uint256.FromDecimal(current)
	if err != nil {
		return "", fmt.Errorf("parse amount %q: %w", current, err)
	}
	if delta != nil {
		total.Add(total, delta)
	}
	return total.Dec(), nil
}

func (i *Indexer) applyCampaignCreated(tx *gorm.DB, e events.CampaignCreated) error {
	id := keys.Campaign(e.CampaignID)
	existing, err := store.GetOrNull[models.Campaign](tx, id)
	if err != nil {
		return err
	}
	if existing != nil {
		// Campaign ids are unique per contract invariant; a repeat create is
		// a stream anomaly and must not reset totals.
		i.skip(skipExistingEntity, "campaign", e.CampaignID)
		return nil
	}
	campaign := models.Campaign{
		ID:              id,
		CampaignID:      e.CampaignID,
		Owner:           e.Owner.Hex(),
		Title:           e.Title,
		Claim:           e.Claim,
		Description:     e.Description,
		AmountCollected: "0",
		AmountWithdrawn: "0",
		CreatedAt:       e.Prov.Timestamp,
	}
	return tx.Create(&campaign).Error
}

func (i *Indexer) applyDonation(tx *gorm.DB, e events.Donation) error {
	campaignKey := keys.Campaign(e.CampaignID)
	campaign, err := store.GetOrNull[models.Campaign](tx, campaignKey)
	if err != nil {
		return err
	}
	if campaign != nil {
		collected, err := addAmount(campaign.AmountCollected, e.Amount)
		if err != nil {
			return err
		}
		campaign.AmountCollected = collected
		if err := tx.Save(campaign).Error; err != nil {
			return err
		}
	} else {
		i.skip(skipMissingCampaign, "campaign", e.CampaignID, "event", e.EventType())
	}

	donor, err := store.GetOrNull[models.Donor](tx, e.Donor.Hex())
	if err != nil {
		return err
	}
	if donor == nil {
		donor = &models.Donor{Address: e.Donor.Hex(), CreatedAt: e.Prov.Timestamp, DonationCount: 1}
		if err := tx.Create(donor).Error; err != nil {
			return err
		}
	} else {
		donor.DonationCount++
		if err := tx.Save(donor).Error; err != nil {
			return err
		}
	}

	amount := "0"
	if e.Amount != nil {
		amount = e.Amount.Dec()
	}
	donation := models.Donation{
		ID:          keys.Event(e.Prov.TxHash, e.Prov.LogIndex),
		CampaignRef: campaignKey,
		Donor:       e.Donor.Hex(),
		Amount:      amount,
		Comment:     e.Comment,
		CreatedAt:   e.Prov.Timestamp,
	}
	return tx.Create(&donation).Error
}

func (i *Indexer) applyWithdrawal(tx *gorm.DB, e events.Withdrawal) error {
	campaignKey := keys.Campaign(e.CampaignID)
	campaign, err := store.GetOrNull[models.Campaign](tx, campaignKey)
	if err != nil {
		return err
	}
	if campaign != nil {
		withdrawn, err := addAmount(campaign.AmountWithdrawn, e.Amount)
		if err != nil {
			return err
		}
		campaign.AmountWithdrawn = withdrawn
		if err := tx.Save(campaign).Error; err != nil {
			return err
		}
	} else {
		i.skip(skipMissingCampaign, "campaign", e.CampaignID, "event", e.EventType())
	}

	withdrawer, err := store.GetOrNull[models.Withdrawer](tx, e.Withdrawer.Hex())
	if err != nil {
		return err
	}
	if withdrawer == nil {
		withdrawer = &models.Withdrawer{Address: e.Withdrawer.Hex(), CreatedAt: e.Prov.Timestamp, WithdrawalCount: 1}
		if err := tx.Create(withdrawer).Error; err != nil {
			return err
		}
	} else {
		withdrawer.WithdrawalCount++
		if err := tx.Save(withdrawer).Error; err != nil {
			return err
		}
	}

	amount := "0"
	if e.Amount != nil {
		amount = e.Amount.Dec()
	}
	withdrawal := models.Withdrawal{
		ID:          keys.Event(e.Prov.TxHash, e.Prov.LogIndex),
		CampaignRef: campaignKey,
		Withdrawer:  e.Withdrawer.Hex(),
		Amount:      amount,
		Comment:     e.Comment,
		CreatedAt:   e.Prov.Timestamp,
	}
	return tx.Create(&withdrawal).Error
}

// applyCampaignField performs a single-field in-place update. A missing
// campaign is a silent skip; the stream is trusted to reference real rows.
func (i *Indexer) applyCampaignField(tx *gorm.DB, campaignID uint32, mutate func(*models.Campaign)) error {
	campaign, err := store.GetOrNull[models.Campaign](tx, keys.Campaign(campaignID))
	if err != nil {
		return err
	}
	if campaign == nil {
		i.skip(skipMissingCampaign, "campaign", campaignID)
		return nil
	}
	mutate(campaign)
	return tx.Save(campaign).Error
}

func (i *Indexer) applyCampaignUpdate(tx *gorm.DB, e events.CampaignUpdate) error {
	update := models.CampaignUpdate{
		ID:          keys.Event(e.Prov.TxHash, e.Prov.LogIndex),
		CampaignRef: keys.Campaign(e.CampaignID),
		Author:      e.Author.Hex(),
		Title:       e.Title,
		Content:     e.Content,
		CreatedAt:   e.Prov.Timestamp,
	}
	return tx.Create(&update).Error
}
