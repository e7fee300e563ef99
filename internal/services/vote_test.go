package services

import (
	"sync"
	"testing"

	"codeask/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVoteReplacesNotAccumulates(t *testing.T) {
	f := newFixture(t)
	author := f.user(t, "alice")
	voter := f.user(t, "bob")
	question := f.question(t, author)

	score, err := f.votes.Cast(voter, models.TargetQuestion, question.ID, models.VoteUp)
	require.NoError(t, err)
	assert.Equal(t, 1, score)

	score, err = f.votes.Cast(voter, models.TargetQuestion, question.ID, models.VoteDown)
	require.NoError(t, err)
	assert.Equal(t, -1, score)

	// Exactly one ledger row, holding the latest direction.
	var votes []models.Vote
	require.NoError(t, f.db.Where("user_id = ?", voter.ID).Find(&votes).Error)
	require.Len(t, votes, 1)
	assert.Equal(t, models.VoteDown, votes[0].Value)

	got, err := f.questions.Get(question.ID)
	require.NoError(t, err)
	assert.Equal(t, -1, got.Score)
}

func TestVoteIdempotent(t *testing.T) {
	f := newFixture(t)
	author := f.user(t, "alice")
	voter := f.user(t, "bob")
	question := f.question(t, author)

	_, err := f.votes.Cast(voter, models.TargetQuestion, question.ID, models.VoteUp)
	require.NoError(t, err)
	score, err := f.votes.Cast(voter, models.TargetQuestion, question.ID, models.VoteUp)
	require.NoError(t, err)
	assert.Equal(t, 1, score)

	got, err := f.questions.Get(question.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Score)

	// No duplicate notification either.
	assert.Len(t, f.notifications(t, author.ID), 1)
}

func TestSelfVoteRejected(t *testing.T) {
	f := newFixture(t)
	author := f.user(t, "alice")
	question := f.question(t, author)

	for _, value := range []int{models.VoteUp, models.VoteDown} {
		_, err := f.votes.Cast(author, models.TargetQuestion, question.ID, value)
		assert.ErrorIs(t, err, ErrSelfVote)
	}

	answer := f.answer(t, author, question.ID)
	_, err := f.votes.Cast(author, models.TargetAnswer, answer.ID, models.VoteUp)
	assert.ErrorIs(t, err, ErrSelfVote)
}

func TestVoteRequiresActor(t *testing.T) {
	f := newFixture(t)
	author := f.user(t, "alice")
	question := f.question(t, author)

	_, err := f.votes.Cast(nil, models.TargetQuestion, question.ID, models.VoteUp)
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestVoteOnMissingOrDeletedTarget(t *testing.T) {
	f := newFixture(t)
	author := f.user(t, "alice")
	voter := f.user(t, "bob")
	question := f.question(t, author)

	_, err := f.votes.Cast(voter, models.TargetAnswer, 99999, models.VoteUp)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, f.questions.Delete(question.ID, author))
	_, err = f.votes.Cast(voter, models.TargetQuestion, question.ID, models.VoteUp)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestVoteValidation(t *testing.T) {
	f := newFixture(t)
	author := f.user(t, "alice")
	voter := f.user(t, "bob")
	question := f.question(t, author)

	_, err := f.votes.Cast(voter, "post", question.ID, models.VoteUp)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = f.votes.Cast(voter, models.TargetQuestion, question.ID, 2)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestUpvoteNotifiesAuthorOnce(t *testing.T) {
	f := newFixture(t)
	author := f.user(t, "alice")
	voter := f.user(t, "bob")
	question := f.question(t, author)

	_, err := f.votes.Cast(voter, models.TargetQuestion, question.ID, models.VoteUp)
	require.NoError(t, err)

	notifications := f.notifications(t, author.ID)
	require.Len(t, notifications, 1)
	assert.Equal(t, models.NotificationTypeVoteReceived, notifications[0].Type)

	// Flipping down and back up replaces the vote; it is not a first vote, so
	// it never re-notifies.
	_, err = f.votes.Cast(voter, models.TargetQuestion, question.ID, models.VoteDown)
	require.NoError(t, err)
	_, err = f.votes.Cast(voter, models.TargetQuestion, question.ID, models.VoteUp)
	require.NoError(t, err)
	assert.Len(t, f.notifications(t, author.ID), 1)
}

func TestDownvoteDoesNotNotifyByDefault(t *testing.T) {
	f := newFixture(t)
	author := f.user(t, "alice")
	voter := f.user(t, "bob")
	question := f.question(t, author)

	_, err := f.votes.Cast(voter, models.TargetQuestion, question.ID, models.VoteDown)
	require.NoError(t, err)
	assert.Empty(t, f.notifications(t, author.ID))
}

func TestDownvoteNotifyConfigurable(t *testing.T) {
	f := newFixture(t)
	f.notifier.NotifyOnDownvote = true
	author := f.user(t, "alice")
	voter := f.user(t, "bob")
	question := f.question(t, author)

	_, err := f.votes.Cast(voter, models.TargetQuestion, question.ID, models.VoteDown)
	require.NoError(t, err)

	notifications := f.notifications(t, author.ID)
	require.Len(t, notifications, 1)
	assert.Equal(t, models.NotificationTypeVoteReceived, notifications[0].Type)
}

func TestVoteScoresAreIndependentPerTarget(t *testing.T) {
	f := newFixture(t)
	author := f.user(t, "alice")
	responder := f.user(t, "bob")
	voter := f.user(t, "carol")
	question := f.question(t, author)
	answer := f.answer(t, responder, question.ID)

	_, err := f.votes.Cast(voter, models.TargetQuestion, question.ID, models.VoteUp)
	require.NoError(t, err)
	score, err := f.votes.Cast(voter, models.TargetAnswer, answer.ID, models.VoteDown)
	require.NoError(t, err)
	assert.Equal(t, -1, score)

	got, err := f.questions.Get(question.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Score)
}

func TestVoteGetReflectsLedger(t *testing.T) {
	f := newFixture(t)
	author := f.user(t, "alice")
	voter := f.user(t, "bob")
	question := f.question(t, author)

	assert.Equal(t, 0, f.votes.Get(voter.ID, models.TargetQuestion, question.ID))

	_, err := f.votes.Cast(voter, models.TargetQuestion, question.ID, models.VoteDown)
	require.NoError(t, err)
	assert.Equal(t, models.VoteDown, f.votes.Get(voter.ID, models.TargetQuestion, question.ID))

	_, err = f.votes.Cast(voter, models.TargetQuestion, question.ID, models.VoteUp)
	require.NoError(t, err)
	assert.Equal(t, models.VoteUp, f.votes.Get(voter.ID, models.TargetQuestion, question.ID))
}

func TestConcurrentVotesSameActorSerialize(t *testing.T) {
	f := newFixture(t)
	author := f.user(t, "alice")
	voter := f.user(t, "bob")
	question := f.question(t, author)

	var wg sync.WaitGroup
	for _, value := range []int{models.VoteUp, models.VoteDown} {
		wg.Add(1)
		go func(v int) {
			defer wg.Done()
			_, err := f.votes.Cast(voter, models.TargetQuestion, question.ID, v)
			assert.NoError(t, err)
		}(value)
	}
	wg.Wait()

	// Whichever cast lands last wins; the ledger must hold exactly one row
	// and the score must agree with it.
	var votes []models.Vote
	require.NoError(t, f.db.Where("user_id = ?", voter.ID).Find(&votes).Error)
	require.Len(t, votes, 1)

	got, err := f.questions.Get(question.ID)
	require.NoError(t, err)
	assert.Equal(t, votes[0].Value, got.Score)
}
