package indexer

import (
	"context"
	"testing"

	"srxgraph/events"
	"srxgraph/keys"
	"srxgraph/models"
	"srxgraph/store"
)

func (h *testHarness) createIdea(t *testing.T, campaignID uint32, parentID string, ideaType int32) string {
	t.Helper()
	p := h.seq.next()
	id := keys.Idea(p.TxHash, p.LogIndex, 0)
	if err := h.idx.Apply(context.Background(), events.CreateIdea{
		Prov: p, Nonce: 0, CampaignID: campaignID, ParentID: parentID,
		IdeaType: ideaType, Text: "idea text",
	}); err != nil {
		t.Fatalf("create idea: %v", err)
	}
	return id
}

func (h *testHarness) mustIdea(t *testing.T, id string) *models.Idea {
	t.Helper()
	idea, err := store.GetOrNull[models.Idea](h.db, id)
	if err != nil {
		t.Fatalf("load idea: %v", err)
	}
	if idea == nil {
		t.Fatalf("idea %s not found", id)
	}
	return idea
}

// assertTreeInvariant checks that for every non-root idea,
// parent.Children[idea.ParentIndex] == idea.ID, and that children arrays only
// reference ideas pointing back at their parent.
func (h *testHarness) assertTreeInvariant(t *testing.T) {
	t.Helper()
	var ideas []models.Idea
	if err := h.db.Find(&ideas).Error; err != nil {
		t.Fatalf("load ideas: %v", err)
	}
	byID := make(map[string]*models.Idea, len(ideas))
	for i := range ideas {
		byID[ideas[i].ID] = &ideas[i]
	}
	for _, idea := range ideas {
		if keys.IsZeroParent(idea.ParentID) {
			continue
		}
		parent, ok := byID[idea.ParentID]
		if !ok {
			t.Fatalf("idea %s has dangling parent %s", idea.ID, idea.ParentID)
		}
		if int(idea.ParentIndex) >= len(parent.Children) || parent.Children[idea.ParentIndex] != idea.ID {
			t.Fatalf("invariant broken: parent %s children %v, idea %s parentIndex %d",
				parent.ID, parent.Children, idea.ID, idea.ParentIndex)
		}
	}
	for _, idea := range ideas {
		for _, childID := range idea.Children {
			child, ok := byID[childID]
			if !ok {
				t.Fatalf("idea %s lists missing child %s", idea.ID, childID)
			}
			if child.ParentID != idea.ID {
				t.Fatalf("child %s parent = %s, want %s", childID, child.ParentID, idea.ID)
			}
		}
	}
}

func TestCreateRootIdea(t *testing.T) {
	h := newHarness(t)
	h.createCampaign(t, 0)
	rootID := h.createIdea(t, 0, keys.ZeroParent, int32(models.IdeaClaim))

	root := h.mustIdea(t, rootID)
	if !keys.IsZeroParent(root.ParentID) {
		t.Fatalf("root parent = %s, want sentinel", root.ParentID)
	}
	if root.ParentIndex != 0 || len(root.Children) != 0 {
		t.Fatalf("root = %+v, want parentIndex 0 and no children", root)
	}
	if root.Text != "idea text" || root.IdeaType != models.IdeaClaim {
		t.Fatalf("unexpected root fields: %+v", root)
	}
}

func TestCreateChildAppendsToParent(t *testing.T) {
	h := newHarness(t)
	h.createCampaign(t, 0)
	rootID := h.createIdea(t, 0, keys.ZeroParent, int32(models.IdeaClaim))
	childID := h.createIdea(t, 0, rootID, int32(models.IdeaPro))

	root := h.mustIdea(t, rootID)
	if len(root.Children) != 1 || root.Children[0] != childID {
		t.Fatalf("root children = %v, want [%s]", root.Children, childID)
	}
	child := h.mustIdea(t, childID)
	if child.ParentID != rootID || child.ParentIndex != 0 {
		t.Fatalf("child linkage = %+v", child)
	}
	h.assertTreeInvariant(t)
}

func TestCreateIdeaUnderMissingParentIsNoop(t *testing.T) {
	h := newHarness(t)
	h.createCampaign(t, 0)
	h.apply(t, func(p events.Provenance) events.Event {
		return events.CreateIdea{Prov: p, CampaignID: 0, ParentID: "0xdeadbeef", IdeaType: 1, Text: "orphan"}
	})
	if n := count[models.Idea](t, h.db); n != 0 {
		t.Fatalf("idea rows = %d, want 0", n)
	}
}

func TestUpdateIdeaFields(t *testing.T) {
	h := newHarness(t)
	h.createCampaign(t, 0)
	rootID := h.createIdea(t, 0, keys.ZeroParent, int32(models.IdeaClaim))
	childID := h.createIdea(t, 0, rootID, int32(models.IdeaPro))

	h.apply(t, func(p events.Provenance) events.Event {
		return events.UpdateIdeaText{Prov: p, CampaignID: 0, IdeaID: childID, NewText: "revised"}
	})
	h.apply(t, func(p events.Provenance) events.Event {
		return events.UpdateIdeaType{Prov: p, CampaignID: 0, IdeaID: childID, NewType: int32(models.IdeaCon)}
	})
	h.apply(t, func(p events.Provenance) events.Event {
		return events.UpdateIdeaPosition{Prov: p, CampaignID: 0, IdeaID: childID, X: 120, Y: -40}
	})

	child := h.mustIdea(t, childID)
	if child.Text != "revised" || child.IdeaType != models.IdeaCon || child.X != 120 || child.Y != -40 {
		t.Fatalf("field updates not applied: %+v", child)
	}
	h.assertTreeInvariant(t)
}

func TestReparentGrandchildScenario(t *testing.T) {
	h := newHarness(t)
	h.createCampaign(t, 0)
	rootID := h.createIdea(t, 0, keys.ZeroParent, int32(models.IdeaClaim))
	childID := h.createIdea(t, 0, rootID, int32(models.IdeaPro))
	grandID := h.createIdea(t, 0, childID, int32(models.IdeaCon))

	// Grandchild moves from child to root: root's children grow in insertion
	// order.
	h.apply(t, func(p events.Provenance) events.Event {
		return events.UpdateIdeaParent{Prov: p, CampaignID: 0, IdeaID: grandID, NewParentID: rootID}
	})
	root := h.mustIdea(t, rootID)
	if len(root.Children) != 2 || root.Children[0] != childID || root.Children[1] != grandID {
		t.Fatalf("root children = %v, want [%s %s]", root.Children, childID, grandID)
	}
	if child := h.mustIdea(t, childID); len(child.Children) != 0 {
		t.Fatalf("child children = %v, want empty", child.Children)
	}
	h.assertTreeInvariant(t)

	// Child moves under grandchild: compacting removal swaps the grandchild
	// into slot 0 of the root.
	h.apply(t, func(p events.Provenance) events.Event {
		return events.UpdateIdeaParent{Prov: p, CampaignID: 0, IdeaID: childID, NewParentID: grandID}
	})
	root = h.mustIdea(t, rootID)
	if len(root.Children) != 1 || root.Children[0] != grandID {
		t.Fatalf("root children = %v, want [%s]", root.Children, grandID)
	}
	grand := h.mustIdea(t, grandID)
	if grand.ParentIndex != 0 {
		t.Fatalf("moved sibling parentIndex = %d, want 0", grand.ParentIndex)
	}
	if len(grand.Children) != 1 || grand.Children[0] != childID {
		t.Fatalf("grand children = %v, want [%s]", grand.Children, childID)
	}
	h.assertTreeInvariant(t)
}

func TestReparentWithinSameParent(t *testing.T) {
	h := newHarness(t)
	h.createCampaign(t, 0)
	rootID := h.createIdea(t, 0, keys.ZeroParent, int32(models.IdeaClaim))
	a := h.createIdea(t, 0, rootID, int32(models.IdeaPro))
	b := h.createIdea(t, 0, rootID, int32(models.IdeaCon))

	h.apply(t, func(p events.Provenance) events.Event {
		return events.UpdateIdeaParent{Prov: p, CampaignID: 0, IdeaID: a, NewParentID: rootID}
	})

	root := h.mustIdea(t, rootID)
	if len(root.Children) != 2 || root.Children[0] != b || root.Children[1] != a {
		t.Fatalf("root children = %v, want [%s %s]", root.Children, b, a)
	}
	h.assertTreeInvariant(t)
}

func TestReparentRootIsNoop(t *testing.T) {
	h := newHarness(t)
	h.createCampaign(t, 0)
	rootID := h.createIdea(t, 0, keys.ZeroParent, int32(models.IdeaClaim))
	childID := h.createIdea(t, 0, rootID, int32(models.IdeaPro))

	h.apply(t, func(p events.Provenance) events.Event {
		return events.UpdateIdeaParent{Prov: p, CampaignID: 0, IdeaID: rootID, NewParentID: childID}
	})

	root := h.mustIdea(t, rootID)
	if !keys.IsZeroParent(root.ParentID) {
		t.Fatalf("root was re-parented to %s", root.ParentID)
	}
	h.assertTreeInvariant(t)
}

func TestReparentIntoOwnSubtreeIsNoop(t *testing.T) {
	h := newHarness(t)
	h.createCampaign(t, 0)
	rootID := h.createIdea(t, 0, keys.ZeroParent, int32(models.IdeaClaim))
	a := h.createIdea(t, 0, rootID, int32(models.IdeaPro))
	b := h.createIdea(t, 0, a, int32(models.IdeaPart))
	c := h.createIdea(t, 0, b, int32(models.IdeaCon))

	// a -> c would place a inside its own subtree.
	h.apply(t, func(p events.Provenance) events.Event {
		return events.UpdateIdeaParent{Prov: p, CampaignID: 0, IdeaID: a, NewParentID: c}
	})
	// a -> a is the degenerate cycle.
	h.apply(t, func(p events.Provenance) events.Event {
		return events.UpdateIdeaParent{Prov: p, CampaignID: 0, IdeaID: a, NewParentID: a}
	})

	if got := h.mustIdea(t, a).ParentID; got != rootID {
		t.Fatalf("a parent = %s, want %s", got, rootID)
	}
	h.assertTreeInvariant(t)
}

func TestDeleteIdeaCompactsSiblings(t *testing.T) {
	h := newHarness(t)
	h.createCampaign(t, 0)
	rootID := h.createIdea(t, 0, keys.ZeroParent, int32(models.IdeaClaim))
	a := h.createIdea(t, 0, rootID, int32(models.IdeaPro))
	b := h.createIdea(t, 0, rootID, int32(models.IdeaCon))
	c := h.createIdea(t, 0, rootID, int32(models.IdeaPart))

	h.apply(t, func(p events.Provenance) events.Event {
		return events.DeleteIdea{Prov: p, CampaignID: 0, IdeaID: a}
	})

	root := h.mustIdea(t, rootID)
	if len(root.Children) != 2 || root.Children[0] != c || root.Children[1] != b {
		t.Fatalf("root children = %v, want [%s %s] (last swapped into vacated slot)", root.Children, c, b)
	}
	if got := h.mustIdea(t, c).ParentIndex; got != 0 {
		t.Fatalf("moved sibling parentIndex = %d, want 0", got)
	}
	h.assertTreeInvariant(t)
}

func TestDeleteIdeaRemovesWholeSubtree(t *testing.T) {
	h := newHarness(t)
	h.createCampaign(t, 0)
	rootID := h.createIdea(t, 0, keys.ZeroParent, int32(models.IdeaClaim))
	keep := h.createIdea(t, 0, rootID, int32(models.IdeaPro))
	doomed := h.createIdea(t, 0, rootID, int32(models.IdeaCon))
	x := h.createIdea(t, 0, doomed, int32(models.IdeaPart))
	y := h.createIdea(t, 0, doomed, int32(models.IdeaPart))
	h.createIdea(t, 0, x, int32(models.IdeaPro))
	h.createIdea(t, 0, y, int32(models.IdeaCon))

	before := count[models.Idea](t, h.db)
	h.apply(t, func(p events.Provenance) events.Event {
		return events.DeleteIdea{Prov: p, CampaignID: 0, IdeaID: doomed}
	})

	after := count[models.Idea](t, h.db)
	if before-after != 5 {
		t.Fatalf("deleted %d ideas, want 5 (node plus all descendants)", before-after)
	}
	h.mustIdea(t, rootID)
	h.mustIdea(t, keep)
	if idea, _ := store.GetOrNull[models.Idea](h.db, doomed); idea != nil {
		t.Fatal("deleted idea still present")
	}
	h.assertTreeInvariant(t)
}

func TestDeleteRootIsNoop(t *testing.T) {
	h := newHarness(t)
	h.createCampaign(t, 0)
	rootID := h.createIdea(t, 0, keys.ZeroParent, int32(models.IdeaClaim))
	h.createIdea(t, 0, rootID, int32(models.IdeaPro))

	h.apply(t, func(p events.Provenance) events.Event {
		return events.DeleteIdea{Prov: p, CampaignID: 0, IdeaID: rootID}
	})

	if n := count[models.Idea](t, h.db); n != 2 {
		t.Fatalf("idea rows = %d, want 2 (root is not deletable)", n)
	}
}

func TestDeleteSingleChildJustPops(t *testing.T) {
	h := newHarness(t)
	h.createCampaign(t, 0)
	rootID := h.createIdea(t, 0, keys.ZeroParent, int32(models.IdeaClaim))
	only := h.createIdea(t, 0, rootID, int32(models.IdeaPro))

	h.apply(t, func(p events.Provenance) events.Event {
		return events.DeleteIdea{Prov: p, CampaignID: 0, IdeaID: only}
	})

	root := h.mustIdea(t, rootID)
	if len(root.Children) != 0 {
		t.Fatalf("root children = %v, want empty", root.Children)
	}
	h.assertTreeInvariant(t)
}
