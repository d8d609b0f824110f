package service

import (
	"context"
	"errors"
	"strings"

	"github.com/iliyamo/buildrr-backend/internal/model"
	"github.com/iliyamo/buildrr-backend/internal/repository"
)

type ContentService struct {
	content ContentStore
}

func NewContentService(content ContentStore) *ContentService {
	return &ContentService{content: content}
}

type ContentInput struct {
	PageName    string
	SectionName string
	ContentType string
	Content     string
	IsActive    *bool
}

type ContentUpdate struct {
	PageName    *string
	SectionName *string
	ContentType *string
	Content     *string
	IsActive    *bool
}

// Published returns the active blocks of one page, or of every page when
// page is empty.
func (s *ContentService) Published(ctx context.Context, page string) ([]*model.SiteContent, error) {
	return s.content.List(ctx, strings.TrimSpace(page), true)
}

func (s *ContentService) List(ctx context.Context) ([]*model.SiteContent, error) {
	return s.content.List(ctx, "", false)
}

func (s *ContentService) Create(ctx context.Context, in ContentInput) (*model.SiteContent, error) {
	if strings.TrimSpace(in.PageName) == "" || strings.TrimSpace(in.SectionName) == "" || strings.TrimSpace(in.ContentType) == "" {
		return nil, invalidInput("pageName, sectionName and contentType are required")
	}
	c := &model.SiteContent{
		PageName:    strings.TrimSpace(in.PageName),
		SectionName: strings.TrimSpace(in.SectionName),
		ContentType: strings.TrimSpace(in.ContentType),
		Content:     in.Content,
		IsActive:    in.IsActive == nil || *in.IsActive,
	}
	if err := s.content.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *ContentService) Update(ctx context.Context, id uint64, in ContentUpdate) (*model.SiteContent, error) {
	for _, v := range []*string{in.PageName, in.SectionName, in.ContentType} {
		if v != nil && strings.TrimSpace(*v) == "" {
			return nil, invalidInput("pageName, sectionName and contentType must not be empty")
		}
	}
	if _, err := s.get(ctx, id); err != nil {
		return nil, err
	}
	patch := repository.ContentPatch{
		PageName:    in.PageName,
		SectionName: in.SectionName,
		ContentType: in.ContentType,
		Content:     in.Content,
		IsActive:    in.IsActive,
	}
	if err := s.content.Update(ctx, id, patch); err != nil {
		return nil, err
	}
	return s.get(ctx, id)
}

func (s *ContentService) get(ctx context.Context, id uint64) (*model.SiteContent, error) {
	c, err := s.content.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, notFound("Content")
	}
	return c, err
}

func (s *ContentService) Delete(ctx context.Context, id uint64) error {
	if err := s.content.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound("Content")
		}
		return err
	}
	return nil
}
