package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"nutriai/nutrition-app/internal/domain"
	"nutriai/nutrition-app/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Errors returned by CommunityService
var (
	ErrEmptyPost   = errors.New("post text cannot be empty")
	ErrPostTooLong = errors.New("post text is too long")
)

// Maximum post length in characters (runes, not bytes)
const maxPostLength = 2000

// CommunityService handles the social feed.
type CommunityService interface {
	CreatePost(ctx context.Context, userID primitive.ObjectID, text string) (*domain.Post, error)
	ListMyPosts(ctx context.Context, userID primitive.ObjectID) ([]domain.Post, error)
}

type communityService struct {
	postRepo repository.PostRepository
	userRepo repository.UserRepository
}

func NewCommunityService(postRepo repository.PostRepository, userRepo repository.UserRepository) CommunityService {
	return &communityService{postRepo: postRepo, userRepo: userRepo}
}

// CreatePost stores the trimmed text under the author's current display name.
func (s *communityService) CreatePost(ctx context.Context, userID primitive.ObjectID, text string) (*domain.Post, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyPost
	}
	if len([]rune(text)) > maxPostLength {
		return nil, ErrPostTooLong
	}

	// The name is copied into the post so the feed needs no join
	author, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	post := &domain.Post{
		Text:       text,
		AuthorID:   userID,
		AuthorName: strings.TrimSpace(author.Name + " " + author.Surname),
		CreatedAt:  time.Now().UTC(),
	}
	id, err := s.postRepo.Create(ctx, post)
	if err != nil {
		return nil, err
	}
	post.ID = id
	return post, nil
}

// ListMyPosts returns the caller's posts, newest first.
func (s *communityService) ListMyPosts(ctx context.Context, userID primitive.ObjectID) ([]domain.Post, error) {
	return s.postRepo.ListByAuthor(ctx, userID)
}
