package settlementrepo

import (
	"context"

	"helperhub/internal/adapters/out/postgres/dberrs"
	"helperhub/internal/core/domain/model/kernel"
	"helperhub/internal/core/domain/model/settlement"
	"helperhub/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormSettlementRepository implements ports.SettlementRepository using GORM.
type GormSettlementRepository struct {
	db *gorm.DB
}

func NewGormSettlementRepository(db *gorm.DB) *GormSettlementRepository {
	return &GormSettlementRepository{db: db}
}

func (r *GormSettlementRepository) Add(ctx context.Context, s *settlement.Settlement) error {
	if err := s.Validate(); err != nil {
		return err
	}
	dto := fromDomain(s)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return dberrs.Write(err, "settlement", s.ID().String())
	}
	return r.flushAudit(ctx, s)
}

// Update is a compare-and-set on the version. Pending audit entries are
// written in the same transaction.
func (r *GormSettlementRepository) Update(ctx context.Context, s *settlement.Settlement) error {
	if err := s.Validate(); err != nil {
		return err
	}
	dto := fromDomain(s)
	dto.Version = s.Version() + 1
	result := r.db.WithContext(ctx).
		Model(&SettlementDTO{}).
		Where("id = ? AND version = ?", dto.ID, s.Version()).
		Select("*").
		Omit("id", "order_id", "helper_id", "created_at").
		Updates(&dto)
	if result.Error != nil {
		return dberrs.Write(result.Error, "settlement", s.ID().String())
	}
	if result.RowsAffected == 0 {
		return errs.NewConcurrencyConflictError("settlement", s.ID().String())
	}
	s.AdvanceVersion()
	return r.flushAudit(ctx, s)
}

func (r *GormSettlementRepository) flushAudit(ctx context.Context, s *settlement.Settlement) error {
	entries := s.PendingAudit()
	if len(entries) == 0 {
		return nil
	}
	dtos := make([]AuditEntryDTO, 0, len(entries))
	for _, e := range entries {
		dtos = append(dtos, auditFromDomain(e))
	}
	if err := r.db.WithContext(ctx).Create(&dtos).Error; err != nil {
		return err
	}
	s.ClearPendingAudit()
	return nil
}

func (r *GormSettlementRepository) Get(ctx context.Context, id kernel.UUID) (*settlement.Settlement, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	var dto SettlementDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		return nil, dberrs.Read(err, "settlement", id.String())
	}
	return toDomain(dto)
}

func (r *GormSettlementRepository) ListByOrder(ctx context.Context, orderID kernel.UUID) ([]*settlement.Settlement, error) {
	var dtos []SettlementDTO
	if err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID.Bytes()).
		Order("created_at, id").
		Find(&dtos).Error; err != nil {
		return nil, err
	}

	settlements := make([]*settlement.Settlement, 0, len(dtos))
	for _, dto := range dtos {
		s, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		settlements = append(settlements, s)
	}
	return settlements, nil
}

func (r *GormSettlementRepository) GetByOrderAndHelper(ctx context.Context, orderID, helperID kernel.UUID) (*settlement.Settlement, error) {
	var dto SettlementDTO
	err := r.db.WithContext(ctx).
		First(&dto, "order_id = ? AND helper_id = ?", orderID.Bytes(), helperID.Bytes()).Error
	if err != nil {
		return nil, dberrs.Read(err, "settlement", orderID.String()+"/"+helperID.String())
	}
	return toDomain(dto)
}
