package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"umsshop/pkg/audit"
	"umsshop/pkg/logger"
	"umsshop/users-service/internal/app/users/entity"
	"umsshop/users-service/internal/app/users/repository"
	"umsshop/users-service/internal/app/users/util"

	"github.com/google/uuid"
)

// ManagerService аккаунты back-office
type ManagerService struct {
	repo     repository.ManagerRepository
	recorder audit.Recorder
}

// NewManagerService создает сервис менеджеров
func NewManagerService(repo repository.ManagerRepository, recorder audit.Recorder) *ManagerService {
	if recorder == nil {
		recorder = audit.NopRecorder{}
	}
	return &ManagerService{repo: repo, recorder: recorder}
}

func (s *ManagerService) CreateManager(ctx context.Context, actor audit.Actor, req *entity.CreateManagerRequest) (*entity.Manager, error) {
	if !isRole(req.Role) {
		return nil, fmt.Errorf("%w: unknown role %q", ErrInvalidRequest, req.Role)
	}

	if err := util.ValidatePassword(req.Password, req.Email); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}

	hash, err := util.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}

	manager := &entity.Manager{
		ID:           uuid.New(),
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: hash,
		Name:         req.Name,
		Role:         req.Role,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.repo.Create(ctx, manager); err != nil {
		if errors.Is(err, repository.ErrManagerExists) {
			return nil, ErrManagerExists
		}
		return nil, fmt.Errorf("failed to create manager: %w", err)
	}

	s.recorder.Record(ctx, actor, audit.ActionManagerCreate, fmt.Sprintf("manager %s (%s) created", manager.Email, manager.Role))
	logger.Info().Str("manager_id", manager.ID.String()).Str("role", manager.Role).Msg("Manager created")

	return manager, nil
}

func (s *ManagerService) ListManagers(ctx context.Context) ([]entity.Manager, error) {
	managers, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list managers: %w", err)
	}
	return managers, nil
}

func (s *ManagerService) UpdateRole(ctx context.Context, actor audit.Actor, id uuid.UUID, role string) error {
	if !isRole(role) {
		return fmt.Errorf("%w: unknown role %q", ErrInvalidRequest, role)
	}

	if err := s.repo.UpdateRole(ctx, id, role); err != nil {
		return mapManagerError(err, "failed to update role")
	}

	s.recorder.Record(ctx, actor, audit.ActionManagerRole, fmt.Sprintf("manager %s -> %s", id, role))
	return nil
}

func (s *ManagerService) DeleteManager(ctx context.Context, actor audit.Actor, id uuid.UUID) error {
	manager, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return mapManagerError(err, "failed to get manager")
	}

	// Себя удалить нельзя, иначе можно остаться без администратора
	if strings.EqualFold(manager.Email, actor.Manager) {
		return fmt.Errorf("%w: cannot delete own account", ErrInvalidRequest)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return mapManagerError(err, "failed to delete manager")
	}

	s.recorder.Record(ctx, actor, audit.ActionManagerDelete, fmt.Sprintf("manager %s deleted", manager.Email))
	return nil
}

func isRole(role string) bool {
	return role == entity.RoleManager || role == entity.RoleAdmin
}

func mapManagerError(err error, msg string) error {
	if errors.Is(err, repository.ErrManagerNotFound) {
		return ErrManagerNotFound
	}
	return fmt.Errorf("%s: %w", msg, err)
}
