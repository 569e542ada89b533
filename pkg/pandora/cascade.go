package pandora

import (
	"github.com/G-Node/pandora/pkg/types"
)

// deleteSection removes the section nameOrID from coll in two phases.
// First the subtree is deleted bottom-up, recording every deleted id. Then
// the whole forest is swept and every link to a recorded id is cleared.
func (f *File) deleteSection(coll types.Collection[types.SectionBackend], nameOrID string) (bool, error) {
	target, err := coll.Get(nameOrID)
	if isNotFound(err) {
		// Reports false, or the read-only/closed condition.
		return coll.Delete(nameOrID)
	}
	if err != nil {
		return false, err
	}

	deleted := make(map[string]bool)
	if err := deleteSubtree(target, deleted); err != nil {
		return false, err
	}
	ok, err := coll.Delete(target.ID())
	if err != nil {
		return false, err
	}
	deleted[target.ID()] = true

	cleared, err := f.sweepLinks(deleted)
	if err != nil {
		return ok, err
	}
	f.log.Debug().
		Str("section", target.ID()).
		Int("deleted", len(deleted)).
		Int("links_cleared", cleared).
		Msg("deleted section subtree")
	return ok, nil
}

// deleteSubtree deletes the descendants of s in post-order.
func deleteSubtree(s types.SectionBackend, deleted map[string]bool) error {
	children := s.Sections()
	n, err := children.Count()
	if err != nil {
		return err
	}
	for i := n - 1; i >= 0; i-- {
		c, err := children.At(i)
		if err != nil {
			return err
		}
		if err := deleteSubtree(c, deleted); err != nil {
			return err
		}
		if _, err := children.Delete(c.ID()); err != nil {
			return err
		}
		deleted[c.ID()] = true
	}
	return nil
}

// sweepLinks clears every link in the forest whose target is in deleted and
// returns how many were cleared.
func (f *File) sweepLinks(deleted map[string]bool) (int, error) {
	forest, err := f.FindSections(AcceptAll, Unbounded)
	if err != nil {
		return 0, err
	}
	cleared := 0
	for _, s := range forest {
		id, ok, err := s.b.LinkID()
		if err != nil {
			return cleared, err
		}
		if ok && deleted[id] {
			if err := s.b.ClearLink(); err != nil {
				return cleared, err
			}
			cleared++
		}
	}
	return cleared, nil
}
