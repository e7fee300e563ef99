package services

import (
	"errors"
	"fmt"

	"codeask/internal/models"

	"gorm.io/gorm"
)

// VoteService is the vote ledger: at most one vote per (actor, target), cast
// again to replace, same direction twice is a no-op. Target scores are updated
// with an incremental delta inside the same transaction as the ledger row, so
// they never need a rescan on the hot path.
type VoteService struct {
	db       *gorm.DB
	notifier *Notifier
}

func NewVoteService(db *gorm.DB, notifier *Notifier) *VoteService {
	return &VoteService{db: db, notifier: notifier}
}

// Cast upserts the actor's vote on a question or answer and returns the
// target's new score. The target's author gets a vote_received notification
// only for the actor's first vote on that target, and (by default) only when
// it is an upvote.
func (s *VoteService) Cast(actor *models.User, targetType string, targetID uint, value int) (int, error) {
	if err := requireActor(actor); err != nil {
		return 0, err
	}
	if !models.IsValidTargetType(targetType) {
		return 0, fmt.Errorf("%w: unknown vote target %q", ErrValidation, targetType)
	}
	if !models.IsValidVoteValue(value) {
		return 0, fmt.Errorf("%w: vote value must be 1 or -1", ErrValidation)
	}

	var (
		newScore int
		created  bool
		authorID uint
		label    string
	)

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var score int
		switch targetType {
		case models.TargetQuestion:
			// The target row is the mutex for the upsert: concurrent casts by
			// the same actor serialize on it instead of both taking the create
			// branch off the same snapshot.
			var question models.Question
			if err := lockForUpdate(tx).First(&question, targetID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("%w: question %d", ErrNotFound, targetID)
				}
				return err
			}
			authorID = question.AuthorID
			score = question.Score
			label = fmt.Sprintf("your question %q", question.Title)
		case models.TargetAnswer:
			var answer models.Answer
			if err := lockForUpdate(tx).First(&answer, targetID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("%w: answer %d", ErrNotFound, targetID)
				}
				return err
			}
			authorID = answer.AuthorID
			score = answer.Score
			label = "your answer"
		}

		if actor.ID == authorID {
			return ErrSelfVote
		}

		var delta int
		var existing models.Vote
		err := tx.Where("user_id = ? AND target_type = ? AND target_id = ?",
			actor.ID, targetType, targetID).First(&existing).Error
		switch {
		case err == nil:
			if existing.Value == value {
				// Idempotent: same direction twice changes nothing.
				newScore = score
				return nil
			}
			delta = value - existing.Value
			if err := tx.Model(&existing).Update("value", value).Error; err != nil {
				return err
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			created = true
			delta = value
			vote := models.Vote{
				UserID:     actor.ID,
				TargetType: targetType,
				TargetID:   targetID,
				Value:      value,
			}
			if err := tx.Create(&vote).Error; err != nil {
				// The unique index on (user_id, target_type, target_id) is the
				// backstop if a concurrent cast slipped past the row lock.
				if errors.Is(err, gorm.ErrDuplicatedKey) {
					return fmt.Errorf("%w: vote already recorded, retry", ErrConflict)
				}
				return err
			}
		default:
			return err
		}

		newScore = score + delta
		return s.applyScoreDelta(tx, targetType, targetID, delta)
	})
	if err != nil {
		return 0, err
	}

	if created {
		s.notifier.VoteReceived(authorID, actor, value, label)
	}
	return newScore, nil
}

func (s *VoteService) applyScoreDelta(tx *gorm.DB, targetType string, targetID uint, delta int) error {
	expr := gorm.Expr("score + ?", delta)
	if targetType == models.TargetQuestion {
		return tx.Model(&models.Question{}).Where("id = ?", targetID).
			UpdateColumn("score", expr).Error
	}
	return tx.Model(&models.Answer{}).Where("id = ?", targetID).
		UpdateColumn("score", expr).Error
}

// Get returns the actor's current vote on a target, zero if none.
func (s *VoteService) Get(userID uint, targetType string, targetID uint) int {
	var vote models.Vote
	err := s.db.Where("user_id = ? AND target_type = ? AND target_id = ?",
		userID, targetType, targetID).First(&vote).Error
	if err != nil {
		return 0
	}
	return vote.Value
}
