package services

import (
	"errors"
	"fmt"

	"codeask/internal/models"

	"gorm.io/gorm"
)

// AnswerService owns the answer lifecycle and the acceptance rule. The
// question's answer_count rides every create/delete in the same transaction;
// the acceptance pair-swap is a single transaction so no reader ever sees two
// accepted answers on one question.
type AnswerService struct {
	db       *gorm.DB
	notifier *Notifier
}

func NewAnswerService(db *gorm.DB, notifier *Notifier) *AnswerService {
	return &AnswerService{db: db, notifier: notifier}
}

// Create stores a new answer against a non-deleted question and bumps the
// question's answer count. The question's author is notified after commit,
// unless they answered themselves.
func (s *AnswerService) Create(actor *models.User, questionID uint, body string) (*models.Answer, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	if err := validateBody(body); err != nil {
		return nil, err
	}

	var question models.Question
	answer := models.Answer{QuestionID: questionID, AuthorID: actor.ID, Body: body}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&question, questionID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: question %d", ErrNotFound, questionID)
			}
			return err
		}
		if err := tx.Create(&answer).Error; err != nil {
			return err
		}
		return tx.Model(&question).
			UpdateColumn("answer_count", gorm.Expr("answer_count + ?", 1)).Error
	})
	if err != nil {
		return nil, err
	}

	s.notifier.NewAnswer(&question, actor)

	answer.Author = *actor
	return &answer, nil
}

// Get loads a non-deleted answer with its author.
func (s *AnswerService) Get(id uint) (*models.Answer, error) {
	var answer models.Answer
	if err := s.db.Preload("Author").First(&answer, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: answer %d", ErrNotFound, id)
		}
		return nil, err
	}
	return &answer, nil
}

// ListByQuestion returns a question's non-deleted answers, accepted first,
// then by score.
func (s *AnswerService) ListByQuestion(questionID uint) ([]models.Answer, error) {
	var answers []models.Answer
	err := s.db.Preload("Author").
		Where("question_id = ?", questionID).
		Order("is_accepted DESC, score DESC, created_at ASC").
		Find(&answers).Error
	return answers, err
}

// ListByAuthor pages a user's non-deleted answers, newest first.
func (s *AnswerService) ListByAuthor(authorID uint, page, limit int) ([]models.Answer, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	var total int64
	if err := s.db.Model(&models.Answer{}).Where("author_id = ?", authorID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var answers []models.Answer
	err := s.db.Preload("Author").
		Where("author_id = ?", authorID).
		Order("created_at DESC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&answers).Error
	return answers, total, err
}

// Edit replaces the body. Only the author or an admin may edit.
func (s *AnswerService) Edit(id uint, actor *models.User, body string) (*models.Answer, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	if err := validateBody(body); err != nil {
		return nil, err
	}

	var answer models.Answer
	if err := s.db.First(&answer, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: answer %d", ErrNotFound, id)
		}
		return nil, err
	}
	if !canModerate(actor, answer.AuthorID) {
		return nil, fmt.Errorf("%w: only the author or an admin may edit this answer", ErrForbidden)
	}

	if err := s.db.Model(&answer).Update("body", body).Error; err != nil {
		return nil, err
	}
	answer.Body = body
	return &answer, nil
}

// Delete tombstones an answer and decrements the question's answer count.
// Deleting an accepted answer clears the acceptance; no other answer is
// auto-promoted.
func (s *AnswerService) Delete(id uint, actor *models.User) error {
	if err := requireActor(actor); err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		var answer models.Answer
		if err := tx.First(&answer, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: answer %d", ErrNotFound, id)
			}
			return err
		}
		if !canModerate(actor, answer.AuthorID) {
			return fmt.Errorf("%w: only the author or an admin may delete this answer", ErrForbidden)
		}

		if answer.IsAccepted {
			if err := tx.Model(&answer).UpdateColumn("is_accepted", false).Error; err != nil {
				return err
			}
		}
		if err := tx.Delete(&answer).Error; err != nil {
			return err
		}
		return tx.Model(&models.Question{}).
			Where("id = ?", answer.QuestionID).
			UpdateColumn("answer_count", gorm.Expr("answer_count - ?", 1)).Error
	})
}

// Accept marks an answer as the question's accepted one. Asker only: admins
// get no override here, acceptance reflects the asker's judgment. Clearing
// the previously accepted answer and setting the new one happen in one
// transaction, so at most one answer per question is ever accepted. Accepting
// an already accepted answer is a no-op success.
func (s *AnswerService) Accept(questionID, answerID uint, actor *models.User) (*models.Answer, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}

	var question models.Question
	var answer models.Answer
	alreadyAccepted := false

	err := s.db.Transaction(func(tx *gorm.DB) error {
		// The question row is the mutex for the pair-swap: locking it keeps a
		// second concurrent accept from clearing accepted flags against a
		// stale snapshot and leaving two accepted answers.
		if err := lockForUpdate(tx).First(&question, questionID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: question %d", ErrNotFound, questionID)
			}
			return err
		}
		if actor.ID != question.AuthorID {
			return fmt.Errorf("%w: only the question's author may accept an answer", ErrForbidden)
		}

		if err := tx.First(&answer, answerID).Error; err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			// Distinguish a deleted answer (lost race) from one that never
			// existed.
			var tombstoned int64
			if cerr := tx.Unscoped().Model(&models.Answer{}).Where("id = ?", answerID).Count(&tombstoned).Error; cerr != nil {
				return cerr
			}
			if tombstoned > 0 {
				return fmt.Errorf("%w: answer %d was deleted", ErrConflict, answerID)
			}
			return fmt.Errorf("%w: answer %d", ErrNotFound, answerID)
		}
		if answer.QuestionID != questionID {
			return fmt.Errorf("%w: answer %d does not belong to question %d", ErrNotFound, answerID, questionID)
		}

		if answer.IsAccepted {
			alreadyAccepted = true
			return nil
		}

		if err := tx.Model(&models.Answer{}).
			Where("question_id = ? AND is_accepted = ?", questionID, true).
			UpdateColumn("is_accepted", false).Error; err != nil {
			return err
		}
		if err := tx.Model(&answer).UpdateColumn("is_accepted", true).Error; err != nil {
			return err
		}
		answer.IsAccepted = true
		return nil
	})
	if err != nil {
		return nil, err
	}

	if !alreadyAccepted {
		s.notifier.AnswerAccepted(&answer, &question, actor)
	}
	return &answer, nil
}
