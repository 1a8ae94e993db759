package service

import (
	"context"

	"github.com/ignatzorin/cityreport-backend/internal/models"
)

// AssignmentPolicy выбирает исполнителя для нового обращения. nil означает «без исполнителя».
type AssignmentPolicy interface {
	DefaultOfficer(ctx context.Context, report *models.Report) (*models.Officer, error)
}

// NoDefaultOfficer оставляет новые обращения без исполнителя.
type NoDefaultOfficer struct{}

func (NoDefaultOfficer) DefaultOfficer(context.Context, *models.Report) (*models.Officer, error) {
	return nil, nil
}

// FirstInternalOfficerPolicy назначает внутреннего сотрудника с наименьшим id.
// Внешних сотрудников не выбирает: у нового обращения нет руководителя.
type FirstInternalOfficerPolicy struct {
	officers OfficerDirectory
}

func NewFirstInternalOfficerPolicy(officers OfficerDirectory) *FirstInternalOfficerPolicy {
	return &FirstInternalOfficerPolicy{officers: officers}
}

func (p *FirstInternalOfficerPolicy) DefaultOfficer(ctx context.Context, _ *models.Report) (*models.Officer, error) {
	return p.officers.FirstInternal(ctx)
}
