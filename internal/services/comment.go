package services

import (
	"context"
	"fmt"
	"time"

	"debatehub/internal/apperr"
	"debatehub/internal/models"
	"debatehub/internal/utils"
)

type CommentPage struct {
	Items []models.CommentView `json:"items"`
	Total int64                `json:"total"`
}

// CommentService manages a debate's comment tree. Threads are one level
// deep: a reply's parent is always a top-level comment of the same debate.
type CommentService struct {
	comments CommentStore
	debates  DebateStore
	users    UserStore
	notifier Notifier
	now      func() time.Time
}

func NewCommentService(store Store, notifier Notifier) *CommentService {
	return &CommentService{
		comments: store,
		debates:  store,
		users:    store,
		notifier: notifier,
		now:      time.Now,
	}
}

func (s *CommentService) Create(ctx context.Context, debateID, authorID uint, content string, parentID *uint) (*models.Comment, error) {
	content = utils.SanitizeText(content)
	if content == "" {
		return nil, apperr.InvalidState("content is required")
	}

	d, err := s.debates.GetDebate(ctx, debateID)
	if err != nil {
		return nil, err
	}
	if d.IsHidden {
		return nil, apperr.NotFound("debate")
	}

	var parent *models.Comment
	if parentID != nil {
		if parent, err = s.comments.GetComment(ctx, *parentID); err != nil {
			return nil, err
		}
		if parent.DebateID != debateID {
			return nil, apperr.InvalidState("parent comment belongs to another debate")
		}
		if parent.IsReply() {
			return nil, apperr.InvalidState("reply to a reply is not allowed")
		}
	}

	c := &models.Comment{
		DebateID: debateID,
		UserID:   authorID,
		ParentID: parentID,
		Content:  content,
	}
	if err := s.comments.CreateComment(ctx, c); err != nil {
		return nil, err
	}

	name := displayName(ctx, s.users, authorID)
	if parent != nil {
		if !parent.IsDeleted {
			notifyOther(s.notifier, authorID, models.Notification{
				UserID:     parent.UserID,
				Type:       models.NotificationReply,
				Content:    fmt.Sprintf("%s replied to your comment", name),
				RelatedURL: commentURL(debateID, c.ID),
			})
		}
	} else {
		notifyOther(s.notifier, authorID, models.Notification{
			UserID:     d.UserID,
			Type:       models.NotificationComment,
			Content:    fmt.Sprintf("%s commented on your debate \"%s\"", name, d.Title),
			RelatedURL: commentURL(debateID, c.ID),
		})
	}
	return c, nil
}

func (s *CommentService) Update(ctx context.Context, id, actorID uint, content string) (*models.Comment, error) {
	c, err := s.comments.GetComment(ctx, id)
	if err != nil {
		return nil, err
	}
	if c.UserID != actorID {
		return nil, apperr.Forbidden("only the author can edit this comment")
	}
	if c.IsDeleted {
		return nil, apperr.InvalidState("comment has been deleted")
	}
	content = utils.SanitizeText(content)
	if content == "" {
		return nil, apperr.InvalidState("content is required")
	}
	if err := s.comments.UpdateCommentContent(ctx, id, content); err != nil {
		return nil, err
	}
	c.Content = content
	c.UpdatedAt = s.now()
	return c, nil
}

// Delete removes a comment on behalf of its author. A comment with replies
// is only flagged deleted so the replies keep their parent.
func (s *CommentService) Delete(ctx context.Context, id, actorID uint) (models.DeleteOutcome, error) {
	c, err := s.comments.GetComment(ctx, id)
	if err != nil {
		return "", err
	}
	if c.UserID != actorID {
		return "", apperr.Forbidden("only the author can delete this comment")
	}
	return s.comments.DeleteComment(ctx, id)
}

// ListByDebate returns a page of top-level comments with their replies.
// viewerID may be 0 for anonymous readers.
func (s *CommentService) ListByDebate(ctx context.Context, debateID, viewerID uint, limit, offset int) (*CommentPage, error) {
	d, err := s.debates.GetDebate(ctx, debateID)
	if err != nil {
		return nil, err
	}
	if d.IsHidden {
		return nil, apperr.NotFound("debate")
	}
	limit, offset = ThreadPageSize.normalize(limit, offset)
	return commentTree(ctx, s.comments, models.CommentFilter{
		DebateID:     debateID,
		TopLevelOnly: true,
		Limit:        limit,
		Offset:       offset,
	}, viewerID)
}

// commentTree loads a page of top-level comments and attaches their replies.
func commentTree(ctx context.Context, store CommentStore, f models.CommentFilter, viewerID uint) (*CommentPage, error) {
	top, total, err := store.ListComments(ctx, f)
	if err != nil {
		return nil, err
	}

	ids := make([]uint, 0, len(top))
	for _, c := range top {
		ids = append(ids, c.ID)
	}
	replies, err := store.ListReplies(ctx, ids, f.IncludeHidden)
	if err != nil {
		return nil, err
	}

	liked := map[uint]bool{}
	if viewerID != 0 {
		all := append([]uint(nil), ids...)
		for _, r := range replies {
			all = append(all, r.ID)
		}
		if liked, err = store.LikedComments(ctx, viewerID, all); err != nil {
			return nil, err
		}
	}

	byParent := make(map[uint][]models.CommentView)
	for _, r := range replies {
		byParent[*r.ParentID] = append(byParent[*r.ParentID], project(r, liked))
	}
	items := make([]models.CommentView, 0, len(top))
	for _, c := range top {
		v := project(c, liked)
		v.Replies = byParent[c.ID]
		items = append(items, v)
	}
	return &CommentPage{Items: items, Total: total}, nil
}

// project builds the client view of c. The author and content of a deleted
// comment are replaced here and never leave the service.
func project(c models.Comment, liked map[uint]bool) models.CommentView {
	v := models.CommentView{
		ID:        c.ID,
		DebateID:  c.DebateID,
		ParentID:  c.ParentID,
		IsHidden:  c.IsHidden,
		IsDeleted: c.IsDeleted,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
	if c.IsDeleted {
		v.Nickname = models.DeletedCommentNickname
		v.Content = models.DeletedCommentContent
		return v
	}
	userID := c.UserID
	v.UserID = &userID
	v.Nickname = c.User.Nickname
	v.Content = c.Content
	v.LikeCount = c.LikeCount
	v.Liked = liked[c.ID]
	return v
}

// ToggleLike flips the user's like on a comment and reports the new state.
func (s *CommentService) ToggleLike(ctx context.Context, commentID, userID uint) (bool, error) {
	c, err := s.comments.GetComment(ctx, commentID)
	if err != nil {
		return false, err
	}
	if c.IsDeleted {
		return false, apperr.InvalidState("comment has been deleted")
	}
	liked, err := s.comments.ToggleCommentLike(ctx, commentID, userID)
	if err != nil {
		return false, err
	}
	if liked {
		notifyOther(s.notifier, userID, models.Notification{
			UserID:     c.UserID,
			Type:       models.NotificationCommentLike,
			Content:    fmt.Sprintf("%s liked your comment", displayName(ctx, s.users, userID)),
			RelatedURL: commentURL(c.DebateID, c.ID),
		})
	}
	return liked, nil
}
