package indexer

import (
	"gorm.io/gorm"

	"srxgraph/events"
	"srxgraph/keys"
	"srxgraph/models"
	"srxgraph/observability/metrics"
	"srxgraph/store"
)

// The idea tree is kept as parent pointers plus ordered children arrays.
// After every mutation, parent.Children[idea.ParentIndex] == idea.ID holds
// for every non-root idea, and children arrays have no gaps: removal swaps
// the last sibling into the vacated slot and shrinks by one.

func (i *Indexer) applyCreateIdea(tx *gorm.DB, e events.CreateIdea) error {
	id := keys.Idea(e.Prov.TxHash, e.Prov.LogIndex, e.Nonce)
	idea := models.Idea{
		ID:          id,
		CampaignRef: keys.Campaign(e.CampaignID),
		ParentID:    keys.ZeroParent,
		ParentIndex: 0,
		Children:    models.StringList{},
		IdeaType:    models.IdeaType(e.IdeaType),
		Text:        e.Text,
		X:           e.X,
		Y:           e.Y,
		CreatedAt:   e.Prov.Timestamp,
	}

	if !keys.IsZeroParent(e.ParentID) {
		parent, err := store.GetOrNull[models.Idea](tx, e.ParentID)
		if err != nil {
			return err
		}
		if parent == nil {
			i.skip(skipMissingParent, "parent", e.ParentID, "event", e.EventType())
			return nil
		}
		parent.Children = append(parent.Children, id)
		if err := tx.Save(parent).Error; err != nil {
			return err
		}
		idea.ParentID = parent.ID
		idea.ParentIndex = int32(len(parent.Children) - 1)
	}

	if err := tx.Create(&idea).Error; err != nil {
		return err
	}
	metrics.Indexer().MarkIdeaMutation("create")
	return nil
}

// applyIdeaField overwrites non-structural fields of an idea in place.
func (i *Indexer) applyIdeaField(tx *gorm.DB, ideaID string, mutate func(*models.Idea)) error {
	idea, err := store.GetOrNull[models.Idea](tx, ideaID)
	if err != nil {
		return err
	}
	if idea == nil {
		i.skip(skipMissingIdea, "idea", ideaID)
		return nil
	}
	mutate(idea)
	return tx.Save(idea).Error
}

func (i *Indexer) applyUpdateIdeaParent(tx *gorm.DB, e events.UpdateIdeaParent) error {
	idea, err := store.GetOrNull[models.Idea](tx, e.IdeaID)
	if err != nil {
		return err
	}
	if idea == nil {
		i.skip(skipMissingIdea, "idea", e.IdeaID)
		return nil
	}
	if keys.IsZeroParent(idea.ParentID) {
		// The root claim can never move.
		i.skip(skipRootImmutable, "idea", e.IdeaID)
		return nil
	}
	if keys.IsZeroParent(e.NewParentID) {
		// A second root is never valid.
		i.skip(skipSentinelParent, "idea", e.IdeaID)
		return nil
	}

	newParent, err := store.GetOrNull[models.Idea](tx, e.NewParentID)
	if err != nil {
		return err
	}
	if newParent == nil {
		i.skip(skipMissingParent, "parent", e.NewParentID)
		return nil
	}

	cycle, err := i.wouldCycle(tx, idea.ID, newParent)
	if err != nil {
		return err
	}
	if cycle {
		i.skip(skipCycle, "idea", e.IdeaID, "parent", e.NewParentID)
		return nil
	}

	if newParent.ID == idea.ParentID {
		// Moving within the same parent: compact out the old slot, then
		// re-append, all on one row.
		idx := int(idea.ParentIndex)
		last := len(newParent.Children) - 1
		if last < 0 || idx > last || newParent.Children[idx] != idea.ID {
			i.skip(skipCorruptSiblings, "idea", idea.ID, "parent", newParent.ID)
			return nil
		}
		moved := newParent.Children[last]
		newParent.Children = newParent.Children[:last]
		if idx != last {
			newParent.Children[idx] = moved
		}
		newParent.Children = append(newParent.Children, idea.ID)
		if err := tx.Save(newParent).Error; err != nil {
			return err
		}
		if idx != last {
			if err := i.reindexSibling(tx, moved, int32(idx)); err != nil {
				return err
			}
		}
		idea.ParentIndex = int32(len(newParent.Children) - 1)
		if err := tx.Save(idea).Error; err != nil {
			return err
		}
		metrics.Indexer().MarkIdeaMutation("reparent")
		return nil
	}

	// Save order is old parent, then new parent, then the moved idea itself.
	if err := i.detachFromParent(tx, idea); err != nil {
		return err
	}
	newParent.Children = append(newParent.Children, idea.ID)
	if err := tx.Save(newParent).Error; err != nil {
		return err
	}
	idea.ParentID = newParent.ID
	idea.ParentIndex = int32(len(newParent.Children) - 1)
	if err := tx.Save(idea).Error; err != nil {
		return err
	}
	metrics.Indexer().MarkIdeaMutation("reparent")
	return nil
}

func (i *Indexer) applyDeleteIdea(tx *gorm.DB, e events.DeleteIdea) error {
	idea, err := store.GetOrNull[models.Idea](tx, e.IdeaID)
	if err != nil {
		return err
	}
	if idea == nil {
		i.skip(skipMissingIdea, "idea", e.IdeaID)
		return nil
	}
	if keys.IsZeroParent(idea.ParentID) {
		i.skip(skipRootImmutable, "idea", e.IdeaID)
		return nil
	}

	if err := i.detachFromParent(tx, idea); err != nil {
		return err
	}

	// Destroy the whole subtree with an explicit worklist; recursion depth
	// would otherwise track tree depth.
	stack := []string{idea.ID}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		node, err := store.GetOrNull[models.Idea](tx, id)
		if err != nil {
			return err
		}
		if node == nil {
			continue
		}
		stack = append(stack, node.Children...)
		if err := store.DeleteByID[models.Idea](tx, id); err != nil {
			return err
		}
	}
	metrics.Indexer().MarkIdeaMutation("delete")
	return nil
}

// detachFromParent performs the compacting removal of idea from its parent's
// children array: pop the last id, and unless the removed slot was last,
// write the popped id into the vacated slot and fix that sibling's own
// ParentIndex. A missing or inconsistent parent aborts the detach silently.
func (i *Indexer) detachFromParent(tx *gorm.DB, idea *models.Idea) error {
	parent, err := store.GetOrNull[models.Idea](tx, idea.ParentID)
	if err != nil {
		return err
	}
	if parent == nil {
		i.skip(skipMissingParent, "parent", idea.ParentID, "idea", idea.ID)
		return nil
	}
	idx := int(idea.ParentIndex)
	last := len(parent.Children) - 1
	if last < 0 || idx > last || parent.Children[idx] != idea.ID {
		i.skip(skipCorruptSiblings, "idea", idea.ID, "parent", parent.ID)
		return nil
	}
	moved := parent.Children[last]
	parent.Children = parent.Children[:last]
	if idx != last {
		parent.Children[idx] = moved
	}
	if err := tx.Save(parent).Error; err != nil {
		return err
	}
	if idx != last {
		return i.reindexSibling(tx, moved, int32(idx))
	}
	return nil
}

// reindexSibling updates the ParentIndex of the sibling swapped into a
// vacated slot.
func (i *Indexer) reindexSibling(tx *gorm.DB, siblingID string, index int32) error {
	sibling, err := store.GetOrNull[models.Idea](tx, siblingID)
	if err != nil {
		return err
	}
	if sibling == nil {
		i.skip(skipCorruptSiblings, "sibling", siblingID)
		return nil
	}
	sibling.ParentIndex = index
	return tx.Save(sibling).Error
}

// wouldCycle reports whether attaching ideaID under candidate would place the
// idea inside its own subtree. It walks parent pointers from the candidate to
// the root; the visited set bounds the walk even on corrupt data.
func (i *Indexer) wouldCycle(tx *gorm.DB, ideaID string, candidate *models.Idea) (bool, error) {
	visited := map[string]struct{}{}
	current := candidate
	for current != nil {
		if current.ID == ideaID {
			return true, nil
		}
		if _, seen := visited[current.ID]; seen {
			return true, nil
		}
		visited[current.ID] = struct{}{}
		if keys.IsZeroParent(current.ParentID) {
			return false, nil
		}
		next, err := store.GetOrNull[models.Idea](tx, current.ParentID)
		if err != nil {
			return false, err
		}
		current = next
	}
	return false, nil
}
