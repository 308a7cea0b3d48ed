package workflow

import (
	"context"

	"github.com/ignatzorin/bantuin-gateway/internal/domain/entity"
	"github.com/ignatzorin/bantuin-gateway/internal/domain/repository"
)

type Services struct {
	repo repository.ServiceRepository
}

func NewServices(repo repository.ServiceRepository) *Services {
	return &Services{repo: repo}
}

// Search запрашивает страницу каталога. Пустые и неизвестные фильтры отбрасываются клиентом backend.
func (s *Services) Search(ctx context.Context, filter repository.ServiceFilter) ([]entity.Service, *entity.Pagination, error) {
	return s.repo.ListServices(ctx, filter.Values())
}

func (s *Services) Get(ctx context.Context, id string) (*entity.Service, error) {
	return s.repo.GetService(ctx, id)
}

// Mine услуги текущего продавца, включая неактивные.
func (s *Services) Mine(ctx context.Context) ([]entity.Service, error) {
	return s.repo.MyServices(ctx)
}

// Toggle переключает видимость услуги и возвращает её новое состояние.
func (s *Services) Toggle(ctx context.Context, id string) (*entity.Service, error) {
	if err := s.repo.ToggleService(ctx, id); err != nil {
		return nil, err
	}
	return s.repo.GetService(ctx, id)
}
