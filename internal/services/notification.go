package services

import (
	"fmt"
	"log"

	"codeask/internal/models"

	"gorm.io/gorm"
)

// Notifier creates notification records as side effects of domain actions.
// Emission is best effort: it runs after the triggering transaction has
// committed and a failure is logged, never returned, so a lost notification
// cannot roll back a vote or an accepted answer.
type Notifier struct {
	db *gorm.DB

	// NotifyOnDownvote extends vote_received to downvotes. Off by default to
	// avoid amplifying negative signal; NOTIFY_ON_DOWNVOTE=true flips it.
	NotifyOnDownvote bool
}

func NewNotifier(db *gorm.DB) *Notifier {
	return &Notifier{db: db}
}

func (n *Notifier) emit(recipientID, actorID uint, kind models.NotificationType, message string) {
	if recipientID == actorID {
		// Never notify people about their own actions.
		return
	}
	notification := models.Notification{
		UserID:  recipientID,
		ActorID: &actorID,
		Type:    kind,
		Message: message,
	}
	if err := n.db.Create(&notification).Error; err != nil {
		log.Printf("Failed to emit %s notification to user %d: %v", kind, recipientID, err)
	}
}

// NewAnswer tells a question's author someone answered. Suppressed when the
// author answers their own question.
func (n *Notifier) NewAnswer(question *models.Question, answerAuthor *models.User) {
	n.emit(question.AuthorID, answerAuthor.ID,
		models.NotificationTypeNewAnswer,
		fmt.Sprintf("%s answered your question %q", answerAuthor.Username, question.Title))
}

// VoteReceived tells a target's author about the first vote an actor cast on
// it. Replacement votes never re-notify; downvotes only when configured.
func (n *Notifier) VoteReceived(recipientID uint, actor *models.User, value int, targetLabel string) {
	if value < 0 && !n.NotifyOnDownvote {
		return
	}
	verb := "upvoted"
	if value < 0 {
		verb = "downvoted"
	}
	n.emit(recipientID, actor.ID,
		models.NotificationTypeVoteReceived,
		fmt.Sprintf("%s %s %s", actor.Username, verb, targetLabel))
}

// AnswerAccepted tells an answer's author the asker accepted it.
func (n *Notifier) AnswerAccepted(answer *models.Answer, question *models.Question, asker *models.User) {
	n.emit(answer.AuthorID, asker.ID,
		models.NotificationTypeAnswerAccepted,
		fmt.Sprintf("Your answer to %q was accepted", question.Title))
}

// === Recipient-scoped notification operations ===

func (n *Notifier) List(userID uint, limit int) ([]models.Notification, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	var notifications []models.Notification
	err := n.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&notifications).Error
	return notifications, err
}

func (n *Notifier) UnreadCount(userID uint) (int64, error) {
	var count int64
	err := n.db.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&count).Error
	return count, err
}

// MarkRead flips a notification to read. Only the recipient may do it, and
// re-reading an already read notification is a no-op success.
func (n *Notifier) MarkRead(id, userID uint) error {
	var notification models.Notification
	if err := n.db.Where("id = ? AND user_id = ?", id, userID).First(&notification).Error; err != nil {
		return fmt.Errorf("%w: notification %d", ErrNotFound, id)
	}
	if notification.IsRead {
		return nil
	}
	return n.db.Model(&notification).Update("is_read", true).Error
}

func (n *Notifier) MarkAllRead(userID uint) error {
	return n.db.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true).Error
}

func (n *Notifier) Delete(id, userID uint) error {
	var notification models.Notification
	if err := n.db.Where("id = ? AND user_id = ?", id, userID).First(&notification).Error; err != nil {
		return fmt.Errorf("%w: notification %d", ErrNotFound, id)
	}
	return n.db.Delete(&notification).Error
}
