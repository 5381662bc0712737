package services

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/gemtrack/gemtrack/internal/models"
	pgrepo "github.com/gemtrack/gemtrack/internal/repositories/postgres"
	"github.com/gemtrack/gemtrack/internal/storage"
	"github.com/gemtrack/gemtrack/internal/utils"
)

type TemplateService interface {
	List(ctx context.Context) ([]models.Template, error)
	DownloadURL(ctx context.Context, id string) (string, error)
}

type templateService struct {
	repo  pgrepo.TemplateRepository
	files storage.Store
	log   *logrus.Logger
}

func NewTemplateService(repo pgrepo.TemplateRepository, files storage.Store, log *logrus.Logger) TemplateService {
	return &templateService{repo: repo, files: files, log: log}
}

func (s *templateService) List(ctx context.Context) ([]models.Template, error) {
	const op = "TemplateService.List"

	rows, err := s.repo.ListPublic(ctx)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list templates", err)
	}
	return rows, nil
}

func (s *templateService) DownloadURL(ctx context.Context, id string) (string, error) {
	const op = "TemplateService.DownloadURL"

	tpl, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if err == utils.ErrNotFound {
			return "", utils.E(utils.CodeNotFound, op, "template not found", nil)
		}
		return "", utils.E(utils.CodeInternal, op, "failed to fetch template", err)
	}

	// count is advisory; a failed bump never blocks the download
	if ierr := s.repo.IncrementDownloads(ctx, id); ierr != nil {
		s.log.WithError(ierr).WithField("template_id", id).Warn("failed to bump download count")
	}

	url, err := s.files.SignedURL(ctx, tpl.FilePath, signedURLTTL)
	if err != nil {
		return "", utils.E(utils.CodeUnavailable, op, "failed to sign download url", err)
	}
	return url, nil
}
