package workflow

import (
	"context"

	"github.com/ignatzorin/bantuin-gateway/internal/domain/entity"
	"github.com/ignatzorin/bantuin-gateway/internal/domain/repository"
	"github.com/ignatzorin/bantuin-gateway/internal/domain/valueobject"
	"github.com/ignatzorin/bantuin-gateway/internal/dto"
	"github.com/ignatzorin/bantuin-gateway/internal/pkg/apperror"
	"github.com/ignatzorin/bantuin-gateway/internal/validation"
)

type Reports struct {
	repo repository.ReportRepository
}

func NewReports(repo repository.ReportRepository) *Reports {
	return &Reports{repo: repo}
}

// File подаёт жалобу на пользователя. На себя пожаловаться нельзя.
func (r *Reports) File(ctx context.Context, reporterID string, req dto.CreateReportRequest) (*entity.Report, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	if reporterID != "" && reporterID == req.ReportedUserID {
		return nil, apperror.Validation(apperror.FieldError{Field: "reportedUserId", Message: "нельзя пожаловаться на себя"})
	}
	return r.repo.CreateReport(ctx, req)
}

func (r *Reports) List(ctx context.Context, page int) ([]entity.Report, *entity.Pagination, error) {
	return r.repo.AdminReports(ctx, page)
}

// Resolve закрывает жалобу. Текущий статус ищется по всем страницам списка администратора;
// закрытую жалобу повторно не трогаем.
func (r *Reports) Resolve(ctx context.Context, id string, status valueobject.ReportStatus) error {
	current, err := r.statusOf(ctx, id)
	if err != nil {
		return err
	}
	if current == "" {
		return apperror.New(apperror.ErrCodeNotFound, "жалоба не найдена")
	}

	req := dto.UpdateReportStatusRequest{Status: string(status)}
	if err := validation.ReportStatus(current, req); err != nil {
		return err
	}
	return r.repo.UpdateReportStatus(ctx, id, req)
}

func (r *Reports) statusOf(ctx context.Context, id string) (valueobject.ReportStatus, error) {
	for page := 1; ; page++ {
		reports, p, err := r.repo.AdminReports(ctx, page)
		if err != nil {
			return "", err
		}
		for _, report := range reports {
			if report.ID == id {
				return report.Status, nil
			}
		}
		// backend без пагинации или вернул не ту страницу
		if p == nil || p.Page != page || !p.HasNext() {
			return "", nil
		}
	}
}
