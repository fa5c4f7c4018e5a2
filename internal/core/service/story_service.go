package service

import (
	"context"

	"github.com/handcrafted-haven/marketplace/internal/core/domain"
	"github.com/handcrafted-haven/marketplace/internal/core/listing"
	"github.com/handcrafted-haven/marketplace/internal/core/ports"
)

type storyService struct {
	stories  ports.StoryRepository
	pipe     *Pipeline
	pageSize int
}

// NewStoryService returns a StoryService implementation.
func NewStoryService(stories ports.StoryRepository, pipe *Pipeline, pageSize int) ports.StoryService {
	return &storyService{stories: stories, pipe: pipe, pageSize: pageSize}
}

// ListBySeller pages through a seller's stories, newest first.
func (s *storyService) ListBySeller(ctx context.Context, sellerID string, page int) (*ports.Page[domain.SellerStory], error) {
	if !knownID(sellerID) {
		return nil, domain.ErrNotFound
	}
	req := listing.Request(page, s.pageSize, listing.DefaultStoryPageSize)
	items, total, err := s.stories.List(ctx, ports.StoryFilter{SellerID: sellerID}, req)
	if err != nil {
		return nil, err
	}
	return listing.NewPage(items, total, req), nil
}

// Latest returns the seller's most recent story, or ErrNotFound when there is none.
func (s *storyService) Latest(ctx context.Context, sellerID string) (*domain.SellerStory, error) {
	if !knownID(sellerID) {
		return nil, domain.ErrNotFound
	}
	return s.stories.Latest(ctx, sellerID)
}

func (s *storyService) Create(ctx context.Context, id *domain.Identity, raw map[string]string) (*domain.SellerStory, error) {
	if err := s.pipe.Authorizer.Require(ctx, id, domain.ActionCreate, domain.ResourceStory, ""); err != nil {
		return nil, err
	}
	fields, err := s.pipe.Validator.Story(raw)
	if err != nil {
		return nil, s.pipe.invalid(domain.ResourceStory, err)
	}

	m := Mutation{Action: domain.ActionCreate, Kind: domain.ResourceStory, ResourceID: newID(), Actor: id}
	var created *domain.SellerStory
	err = s.pipe.Executor.Execute(ctx, m, func(ctx context.Context) error {
		st, err := s.stories.Insert(ctx, m.ResourceID, id.UserID, fields)
		created = st
		return err
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *storyService) Update(ctx context.Context, id *domain.Identity, storyID string, raw map[string]string) (*domain.SellerStory, error) {
	if err := s.pipe.Authorizer.Require(ctx, id, domain.ActionUpdate, domain.ResourceStory, storyID); err != nil {
		return nil, err
	}
	fields, err := s.pipe.Validator.Story(raw)
	if err != nil {
		return nil, s.pipe.invalid(domain.ResourceStory, err)
	}

	m := Mutation{Action: domain.ActionUpdate, Kind: domain.ResourceStory, ResourceID: storyID, Actor: id}
	var updated *domain.SellerStory
	err = s.pipe.Executor.Execute(ctx, m, func(ctx context.Context) error {
		st, err := s.stories.UpdateOwned(ctx, storyID, id.UserID, fields)
		updated = st
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *storyService) Delete(ctx context.Context, id *domain.Identity, storyID string) error {
	if err := s.pipe.Authorizer.Require(ctx, id, domain.ActionDelete, domain.ResourceStory, storyID); err != nil {
		return err
	}
	m := Mutation{Action: domain.ActionDelete, Kind: domain.ResourceStory, ResourceID: storyID, Actor: id}
	return s.pipe.Executor.Execute(ctx, m, func(ctx context.Context) error {
		return s.stories.DeleteOwned(ctx, storyID, id.UserID)
	})
}
