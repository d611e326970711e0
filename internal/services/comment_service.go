package services

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"vidtube/internal/apierror"
	"vidtube/internal/models"
	"vidtube/internal/repositories"
)

// CommentService handles comments on videos.
type CommentService struct {
	commentRepo repositories.CommentRepository
	videoRepo   repositories.VideoRepository
}

// NewCommentService creates a new CommentService.
func NewCommentService(commentRepo repositories.CommentRepository, videoRepo repositories.VideoRepository) *CommentService {
	return &CommentService{commentRepo: commentRepo, videoRepo: videoRepo}
}

// ForVideo lists the comments of a video the viewer can see.
func (s *CommentService) ForVideo(ctx context.Context, videoID uuid.UUID, opts models.ListOptions, viewer uuid.UUID) (models.Page[models.CommentView], error) {
	if _, err := visibleVideo(ctx, s.videoRepo, videoID, viewer); err != nil {
		return models.Page[models.CommentView]{}, err
	}
	page, err := s.commentRepo.ForVideo(ctx, videoID, opts, viewer)
	if err != nil {
		return page, apierror.Internal(err)
	}
	return page, nil
}

// Add creates a comment on a video the author can see.
func (s *CommentService) Add(ctx context.Context, videoID, ownerID uuid.UUID, content string) (*models.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apierror.BadRequest("Content is required")
	}
	if _, err := visibleVideo(ctx, s.videoRepo, videoID, ownerID); err != nil {
		return nil, err
	}

	comment := &models.Comment{Content: content, VideoID: videoID, OwnerID: ownerID}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, writeFailed(err, "Failed to add comment")
	}
	return comment, nil
}

// Update changes the content of an owned comment.
func (s *CommentService) Update(ctx context.Context, commentID, callerID uuid.UUID, content string) (*models.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apierror.BadRequest("Content is required")
	}
	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return nil, readFailed(err, "Comment not found")
	}
	if err := requireOwner(comment.OwnerID, callerID, "edit this comment"); err != nil {
		return nil, err
	}
	if err := s.commentRepo.UpdateContent(ctx, commentID, content); err != nil {
		return nil, writeFailed(err, "Failed to update comment")
	}
	comment.Content = content
	return comment, nil
}

// Delete removes an owned comment.
func (s *CommentService) Delete(ctx context.Context, commentID, callerID uuid.UUID) error {
	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return readFailed(err, "Comment not found")
	}
	if err := requireOwner(comment.OwnerID, callerID, "delete this comment"); err != nil {
		return err
	}
	if err := s.commentRepo.Delete(ctx, commentID); err != nil {
		return writeFailed(err, "Failed to delete comment")
	}
	return nil
}
