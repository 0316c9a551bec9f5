package services

import (
	"context"
	"testing"

	"debatehub/internal/apperr"
	"debatehub/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessageSend(t *testing.T) {
	f := newFixture(t)
	svc := NewMessageService(f.store, f.notes)
	ctx := context.Background()

	_, err := svc.Send(ctx, f.alice.ID, MessageInput{Receiver: "alice", Content: "hello me"})
	assert.ErrorIs(t, err, apperr.ErrInvalidState)

	_, err = svc.Send(ctx, f.alice.ID, MessageInput{Receiver: "nobody", Content: "hello"})
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	_, err = svc.Send(ctx, f.alice.ID, MessageInput{Receiver: "bob", Content: "<i></i>"})
	assert.ErrorIs(t, err, apperr.ErrInvalidState)

	m, err := svc.Send(ctx, f.alice.ID, MessageInput{Receiver: " bob ", Content: "see you at the debate"})
	require.NoError(t, err)
	assert.Equal(t, f.bob.ID, m.ReceiverID)

	notes := f.notificationsOf(models.NotificationMessage)
	require.Len(t, notes, 1)
	assert.Equal(t, f.bob.ID, notes[0].UserID)
	assert.Equal(t, "/messages", notes[0].RelatedURL)
	assert.Contains(t, notes[0].Content, "alice")
}

func TestMessageInboxSentAndRead(t *testing.T) {
	f := newFixture(t)
	svc := NewMessageService(f.store, f.notes)
	ctx := context.Background()

	first, err := svc.Send(ctx, f.alice.ID, MessageInput{Receiver: "bob", Content: "first"})
	require.NoError(t, err)
	_, err = svc.Send(ctx, f.carol.ID, MessageInput{Receiver: "bob", Content: "second"})
	require.NoError(t, err)

	inbox, err := svc.Inbox(ctx, f.bob.ID, 0, 0)
	require.NoError(t, err)
	require.Len(t, inbox, 2)
	assert.Equal(t, "second", inbox[0].Content)
	assert.Equal(t, "carol", inbox[0].SenderNickname)
	assert.Equal(t, "bob", inbox[0].ReceiverNickname)

	sent, err := svc.Sent(ctx, f.alice.ID, 0, 0)
	require.NoError(t, err)
	require.Len(t, sent, 1)
	assert.Equal(t, first.ID, sent[0].ID)

	paged, err := svc.Inbox(ctx, f.bob.ID, 1, 1)
	require.NoError(t, err)
	require.Len(t, paged, 1)
	assert.Equal(t, "first", paged[0].Content)

	assert.ErrorIs(t, svc.MarkRead(ctx, f.alice.ID, first.ID), apperr.ErrForbidden)
	require.NoError(t, svc.MarkRead(ctx, f.bob.ID, first.ID))
	stored, err := f.store.GetMessage(ctx, first.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsRead)
}
