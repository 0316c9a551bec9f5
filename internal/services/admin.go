package services

import (
	"context"
	"fmt"
	"strings"

	"debatehub/internal/models"
	"debatehub/internal/utils"
)

// AdminService is the moderation surface. Callers must already be admins.
type AdminService struct {
	comments CommentStore
	debates  DebateStore
}

func NewAdminService(store Store) *AdminService {
	return &AdminService{comments: store, debates: store}
}

// DebateComments lists a debate's thread including hidden comments.
// Deleted comments stay redacted.
func (s *AdminService) DebateComments(ctx context.Context, debateID uint, limit, offset int) (*CommentPage, error) {
	if _, err := s.debates.GetDebate(ctx, debateID); err != nil {
		return nil, err
	}
	limit, offset = ThreadPageSize.normalize(limit, offset)
	return commentTree(ctx, s.comments, models.CommentFilter{
		DebateID:      debateID,
		TopLevelOnly:  true,
		IncludeHidden: true,
		Limit:         limit,
		Offset:        offset,
	}, 0)
}

// SearchComments finds comments across debates by keyword and hidden flag.
func (s *AdminService) SearchComments(ctx context.Context, keyword string, hidden *bool, limit, offset int) (*CommentPage, error) {
	limit, offset = ThreadPageSize.normalize(limit, offset)
	items, total, err := s.comments.ListComments(ctx, models.CommentFilter{
		Keyword:       strings.TrimSpace(keyword),
		Hidden:        hidden,
		IncludeHidden: true,
		Limit:         limit,
		Offset:        offset,
	})
	if err != nil {
		return nil, err
	}
	page := &CommentPage{Items: make([]models.CommentView, 0, len(items)), Total: total}
	for _, c := range items {
		page.Items = append(page.Items, project(c, nil))
	}
	return page, nil
}

func (s *AdminService) ToggleCommentHidden(ctx context.Context, id uint) (bool, error) {
	c, err := s.comments.GetComment(ctx, id)
	if err != nil {
		return false, err
	}
	hidden := !c.IsHidden
	if err := s.comments.SetCommentHidden(ctx, id, hidden); err != nil {
		return false, err
	}
	utils.LogInfo(fmt.Sprintf("comment %d hidden=%t", id, hidden))
	return hidden, nil
}

// DeleteComment applies the tree delete policy without the author check.
func (s *AdminService) DeleteComment(ctx context.Context, id uint) (models.DeleteOutcome, error) {
	if _, err := s.comments.GetComment(ctx, id); err != nil {
		return "", err
	}
	return s.comments.DeleteComment(ctx, id)
}

func (s *AdminService) ToggleDebateHidden(ctx context.Context, id uint) (bool, error) {
	d, err := s.debates.GetDebate(ctx, id)
	if err != nil {
		return false, err
	}
	hidden := !d.IsHidden
	if err := s.debates.SetDebateHidden(ctx, id, hidden); err != nil {
		return false, err
	}
	utils.LogInfo(fmt.Sprintf("debate %d hidden=%t", id, hidden))
	return hidden, nil
}
