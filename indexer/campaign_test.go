package indexer

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"srxgraph/events"
	"srxgraph/keys"
	"srxgraph/models"
	"srxgraph/store"
)

func TestCampaignCreated(t *testing.T) {
	h := newHarness(t)
	h.createCampaign(t, 0)

	campaign := h.mustCampaign(t, 0)
	if campaign.Owner != testOwner.Hex() {
		t.Fatalf("owner = %s, want %s", campaign.Owner, testOwner.Hex())
	}
	if campaign.Title != "title" || campaign.Claim != "claim" || campaign.Description != "description" {
		t.Fatalf("unexpected campaign fields: %+v", campaign)
	}
	if campaign.AmountCollected != "0" || campaign.AmountWithdrawn != "0" {
		t.Fatalf("totals not zeroed: %+v", campaign)
	}
}

func TestCampaignCreatedRepeatDoesNotResetTotals(t *testing.T) {
	h := newHarness(t)
	h.createCampaign(t, 0)
	h.apply(t, func(p events.Provenance) events.Event {
		return events.Donation{Prov: p, CampaignID: 0, Donor: testOwner, Amount: uint256.NewInt(42), Comment: "x"}
	})
	h.apply(t, func(p events.Provenance) events.Event {
		return events.CampaignCreated{Prov: p, CampaignID: 0, Owner: testUser, Title: "other", Claim: "c", Description: "d"}
	})

	campaign := h.mustCampaign(t, 0)
	if campaign.AmountCollected != "42" {
		t.Fatalf("amountCollected = %s, want 42", campaign.AmountCollected)
	}
	if campaign.Owner != testOwner.Hex() {
		t.Fatalf("repeat create must not replace the campaign")
	}
}

func TestDonationAggregation(t *testing.T) {
	h := newHarness(t)
	h.createCampaign(t, 0)

	amounts := []uint64{1000, 250, 3}
	for _, a := range amounts {
		amount := a
		h.apply(t, func(p events.Provenance) events.Event {
			return events.Donation{
				Prov: p, CampaignID: 0, Donor: testOwner,
				Amount: uint256.NewInt(amount), Comment: "This is the donation comment",
			}
		})
	}

	campaign := h.mustCampaign(t, 0)
	if campaign.AmountCollected != "1253" {
		t.Fatalf("amountCollected = %s, want 1253", campaign.AmountCollected)
	}
	if n := count[models.Donation](t, h.db); n != 3 {
		t.Fatalf("donation rows = %d, want 3", n)
	}

	donor, err := store.GetOrNull[models.Donor](h.db, testOwner.Hex())
	if err != nil {
		t.Fatalf("load donor: %v", err)
	}
	if donor == nil || donor.DonationCount != 3 {
		t.Fatalf("donor rollup = %+v, want count 3", donor)
	}
}

func TestWithdrawalAggregation(t *testing.T) {
	h := newHarness(t)
	h.createCampaign(t, 0)
	h.apply(t, func(p events.Provenance) events.Event {
		return events.Donation{Prov: p, CampaignID: 0, Donor: testOwner, Amount: uint256.NewInt(1000), Comment: "This is the donation comment"}
	})
	h.apply(t, func(p events.Provenance) events.Event {
		return events.Withdrawal{Prov: p, CampaignID: 0, Withdrawer: testOwner, Amount: uint256.NewInt(100), Comment: "This is the withdrawal comment"}
	})

	campaign := h.mustCampaign(t, 0)
	if campaign.AmountCollected != "1000" {
		t.Fatalf("amountCollected = %s, want 1000", campaign.AmountCollected)
	}
	if campaign.AmountWithdrawn != "100" {
		t.Fatalf("amountWithdrawn = %s, want 100", campaign.AmountWithdrawn)
	}

	withdrawer, err := store.GetOrNull[models.Withdrawer](h.db, testOwner.Hex())
	if err != nil {
		t.Fatalf("load withdrawer: %v", err)
	}
	if withdrawer == nil || withdrawer.WithdrawalCount != 1 {
		t.Fatalf("withdrawer rollup = %+v, want count 1", withdrawer)
	}
}

func TestDonationToMissingCampaignStillRecorded(t *testing.T) {
	h := newHarness(t)
	h.apply(t, func(p events.Provenance) events.Event {
		return events.Donation{Prov: p, CampaignID: 9, Donor: testOwner, Amount: uint256.NewInt(7), Comment: ""}
	})

	if n := count[models.Donation](t, h.db); n != 1 {
		t.Fatalf("donation rows = %d, want 1 (record kept, increment skipped)", n)
	}
	if n := count[models.Campaign](t, h.db); n != 0 {
		t.Fatalf("campaign rows = %d, want 0", n)
	}
}

func TestCampaignFieldUpdates(t *testing.T) {
	h := newHarness(t)
	h.createCampaign(t, 0)

	newOwner := common.HexToAddress("0x1111111111111111111111111111111111111111")
	h.apply(t, func(p events.Provenance) events.Event {
		return events.CampaignOwnerUpdated{Prov: p, CampaignID: 0, NewOwner: newOwner}
	})
	h.apply(t, func(p events.Provenance) events.Event {
		return events.CampaignTitleUpdated{Prov: p, CampaignID: 0, NewTitle: "t2"}
	})
	h.apply(t, func(p events.Provenance) events.Event {
		return events.CampaignClaimUpdated{Prov: p, CampaignID: 0, NewClaim: "c2"}
	})
	h.apply(t, func(p events.Provenance) events.Event {
		return events.CampaignDescriptionUpdated{Prov: p, CampaignID: 0, NewDescription: "d2"}
	})

	campaign := h.mustCampaign(t, 0)
	if campaign.Owner != newOwner.Hex() || campaign.Title != "t2" || campaign.Claim != "c2" || campaign.Description != "d2" {
		t.Fatalf("field updates not applied: %+v", campaign)
	}
}

func TestCampaignFieldUpdateMissingCampaignIsNoop(t *testing.T) {
	h := newHarness(t)
	h.apply(t, func(p events.Provenance) events.Event {
		return events.CampaignTitleUpdated{Prov: p, CampaignID: 5, NewTitle: "ghost"}
	})
	if n := count[models.Campaign](t, h.db); n != 0 {
		t.Fatalf("campaign rows = %d, want 0", n)
	}
}

func TestCampaignUpdateAppendsLogEntry(t *testing.T) {
	h := newHarness(t)
	h.createCampaign(t, 0)
	h.apply(t, func(p events.Provenance) events.Event {
		return events.CampaignUpdate{Prov: p, CampaignID: 0, Author: testOwner, Title: "progress", Content: "shipped"}
	})

	var updates []models.CampaignUpdate
	if err := h.db.Where("campaign_ref = ?", keys.Campaign(0)).Find(&updates).Error; err != nil {
		t.Fatalf("load updates: %v", err)
	}
	if len(updates) != 1 || updates[0].Title != "progress" {
		t.Fatalf("updates = %+v, want one entry", updates)
	}
	// The campaign's own title is untouched.
	if got := h.mustCampaign(t, 0).Title; got != "title" {
		t.Fatalf("campaign title = %s, want title", got)
	}
}
