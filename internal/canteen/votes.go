package canteen

import (
	"context"
	"strings"
	"time"

	"github.com/preplate/preplate/internal/models"
)

// Vote registers one vote for a poll item. The one-vote-per-item rule is
// enforced against the device-local ledger; the count itself goes through
// the store's atomic increment, so two voters hitting the same item at once
// both land (an absolute read-then-write here would lose updates under
// contention).
func (s *Service) Vote(ctx context.Context, itemID string) error {
	s.mu.RLock()
	found := false
	for _, item := range s.polls {
		if item.ID == itemID {
			found = true
			break
		}
	}
	s.mu.RUnlock()
	if !found {
		return ErrPollItemNotFound
	}

	voted, err := s.ledger.HasVoted(itemID)
	if err != nil {
		return err
	}
	if voted {
		return ErrAlreadyVoted
	}

	if err := s.store.Increment(ctx, models.CollectionPolls, itemID, "votes", 1); err != nil {
		return err
	}

	// bump the local projection so the caller sees the vote before the next
	// snapshot lands
	s.mu.Lock()
	for i := range s.polls {
		if s.polls[i].ID == itemID {
			s.polls[i].Votes++
			break
		}
	}
	s.mu.Unlock()

	// the vote is durable at this point; a ledger failure must not undo it
	if err := s.ledger.MarkVoted(itemID); err != nil {
		s.logger.Warnf("vote for %s registered but ledger write failed: %v", itemID, err)
	}
	s.publishPollEvent(eventPollVoted, itemID, 1)
	return nil
}

// AddPollItem creates a poll candidate with zero votes. Blank names are
// rejected rather than silently creating an empty poll entry.
func (s *Service) AddPollItem(ctx context.Context, name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrEmptyPollName
	}

	item := models.PollItem{
		Name:      name,
		Votes:     0,
		CreatedAt: time.Now(),
	}
	id, err := s.store.Create(ctx, models.CollectionPolls, item.Document())
	if err != nil {
		return "", err
	}
	item.ID = id

	s.mu.Lock()
	s.polls = append(s.polls, item)
	s.mu.Unlock()

	s.logger.Infof("poll item %q added as %s", name, id)
	return id, nil
}

// DeletePollItem removes a poll candidate outright, votes and all.
func (s *Service) DeletePollItem(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, models.CollectionPolls, id); err != nil {
		return err
	}

	s.mu.Lock()
	for i := range s.polls {
		if s.polls[i].ID == id {
			s.polls = append(s.polls[:i], s.polls[i+1:]...)
			break
		}
	}
	s.mu.Unlock()
	return nil
}

// VotedItems exposes the device-local voted-set.
func (s *Service) VotedItems() ([]string, error) {
	return s.ledger.VotedItems()
}
