package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/returnhub/backend/internal/domain/returns"
	"github.com/returnhub/backend/internal/domain/shared"
)

// GormUnitRepository implements returns.UnitRepository using GORM
type GormUnitRepository struct {
	db *gorm.DB
}

// NewGormUnitRepository creates a new GormUnitRepository
func NewGormUnitRepository(db *gorm.DB) *GormUnitRepository {
	return &GormUnitRepository{db: db}
}

// FindByID finds a return unit by its ID
func (r *GormUnitRepository) FindByID(ctx context.Context, id uuid.UUID) (*returns.ReturnUnit, error) {
	var u returns.ReturnUnit
	if err := r.db.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	if err := u.CanonicalizeStatus(); err != nil {
		return nil, err
	}
	return &u, nil
}

// FindAll finds return units matching the filter
func (r *GormUnitRepository) FindAll(ctx context.Context, filter shared.Filter) ([]returns.ReturnUnit, error) {
	var units []returns.ReturnUnit
	query := r.applyFilter(r.db.WithContext(ctx).Model(&returns.ReturnUnit{}), filter)

	if err := query.Find(&units).Error; err != nil {
		return nil, err
	}
	return canonicalizeAll(units)
}

// Count counts return units matching the filter
func (r *GormUnitRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&returns.ReturnUnit{}), filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// FindByGroupKey finds the units sharing a paperwork reference. Keys are
// matched after normalization, so "DOC-1 " and "doc-1" hit the same group.
func (r *GormUnitRepository) FindByGroupKey(ctx context.Context, key string) ([]returns.ReturnUnit, error) {
	normalized := returns.NormalizeGroupKey(key)
	if normalized == "" {
		return nil, nil
	}

	// Legacy rows carry keys with stray whitespace and mixed case, so the
	// candidate set is fetched broadly and narrowed in memory.
	pattern := "%" + normalized + "%"
	query := r.db.WithContext(ctx).
		Where("LOWER(document_no) LIKE ? OR LOWER(collection_order_id) LIKE ? OR LOWER(ncr_number) LIKE ?",
			pattern, pattern, pattern)

	// id is a uuid column; postgres rejects the whole query if an
	// arbitrary key is bound against it, so only match the raw-id
	// fallback when the key parses as one.
	if id, err := uuid.Parse(normalized); err == nil {
		query = query.Or("id = ?", id)
	}

	var candidates []returns.ReturnUnit
	if err := query.Order("record_date DESC").Find(&candidates).Error; err != nil {
		return nil, err
	}

	units := make([]returns.ReturnUnit, 0, len(candidates))
	for _, u := range candidates {
		if u.GroupKey() == normalized {
			units = append(units, u)
		}
	}
	return canonicalizeAll(units)
}

// FindByIDs finds return units by their IDs
func (r *GormUnitRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]returns.ReturnUnit, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var units []returns.ReturnUnit
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&units).Error; err != nil {
		return nil, err
	}
	return canonicalizeAll(units)
}

// Save creates or updates a return unit
func (r *GormUnitRepository) Save(ctx context.Context, unit *returns.ReturnUnit) error {
	return r.db.WithContext(ctx).Save(unit).Error
}

// SaveWithLock saves with optimistic locking (version check)
func (r *GormUnitRepository) SaveWithLock(ctx context.Context, unit *returns.ReturnUnit) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Scan reports zero rows through RowsAffected, not ErrRecordNotFound
		var currentVersion int
		read := tx.Model(&returns.ReturnUnit{}).
			Where("id = ?", unit.ID).
			Select("version").
			Scan(&currentVersion)
		if read.Error != nil {
			return read.Error
		}
		if read.RowsAffected == 0 {
			return shared.ErrNotFound
		}

		if currentVersion != unit.Version {
			return shared.ErrConcurrencyConflict
		}

		unit.Version++
		unit.UpdatedAt = time.Now()

		result := tx.Model(&returns.ReturnUnit{}).
			Where("id = ? AND version = ?", unit.ID, currentVersion).
			Updates(map[string]any{
				"ref_no":              unit.RefNo,
				"neo_ref_no":          unit.NeoRefNo,
				"document_no":         unit.DocumentNo,
				"collection_order_id": unit.CollectionOrderID,
				"ncr_number":          unit.NCRNumber,
				"branch":              unit.Branch,
				"customer_name":       unit.CustomerName,
				"product_code":        unit.ProductCode,
				"product_name":        unit.ProductName,
				"category":            unit.Category,
				"record_date":         unit.RecordDate,
				"quantity":            unit.Quantity,
				"unit":                unit.Unit,
				"bill_price":          unit.BillPrice,
				"sell_price":          unit.SellPrice,
				"expiry_date":         unit.ExpiryDate,
				"status":              unit.Status,
				"reason":              unit.Reason,
				"notes":               unit.Notes,
				"problem_type":        unit.ProblemType,
				"root_cause":          unit.RootCause,
				"condition":           unit.Condition,
				"condition_note":      unit.ConditionNote,
				"disposition":         unit.Disposition,
				"return_route":        unit.ReturnRoute,
				"buyer_name":          unit.BuyerName,
				"buyer_phone":         unit.BuyerPhone,
				"usage_detail":        unit.UsageDetail,
				"claim_insurer":       unit.ClaimInsurer,
				"claim_coordinator":   unit.ClaimCoordinator,
				"claim_phone":         unit.ClaimPhone,
				"requested_at":        unit.RequestedAt,
				"job_accepted_at":     unit.JobAcceptedAt,
				"branch_received_at":  unit.BranchReceivedAt,
				"consolidated_at":     unit.ConsolidatedAt,
				"in_transit_at":       unit.InTransitAt,
				"hub_received_at":     unit.HubReceivedAt,
				"graded_at":           unit.GradedAt,
				"documented_at":       unit.DocumentedAt,
				"completed_at":        unit.CompletedAt,
				"settled_at":          unit.SettledAt,
				"field_settled":       unit.FieldSettled,
				"settlement_amount":   unit.SettlementAmount,
				"settlement_evidence": unit.SettlementEvidence,
				"settlement_signer":   unit.SettlementSigner,
				"settlement_role":     unit.SettlementRole,
				"parent_id":           unit.ParentID,
				"version":             unit.Version,
				"updated_at":          unit.UpdatedAt,
			})

		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrConcurrencyConflict
		}
		return nil
	})
}

// Delete deletes a return unit
func (r *GormUnitRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&returns.ReturnUnit{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// DeleteByIDs deletes the given units and reports how many rows were removed
func (r *GormUnitRepository) DeleteByIDs(ctx context.Context, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	result := r.db.WithContext(ctx).Delete(&returns.ReturnUnit{}, "id IN ?", ids)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// CountByStatus counts units per canonical status. Legacy aliases found in
// older rows are folded into their canonical buckets.
func (r *GormUnitRepository) CountByStatus(ctx context.Context) (map[returns.Status]int64, error) {
	type row struct {
		Status string
		Count  int64
	}
	var rows []row
	if err := r.db.WithContext(ctx).
		Model(&returns.ReturnUnit{}).
		Select("status, COUNT(*) as count").
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	counts := make(map[returns.Status]int64, len(rows))
	for _, rw := range rows {
		s, ok := returns.CanonicalStatus(rw.Status)
		if !ok {
			return nil, shared.NewDomainError("INVALID_STATE",
				fmt.Sprintf("status %q is not recognized", rw.Status))
		}
		counts[s] += rw.Count
	}
	return counts, nil
}

// NextNCRNumber allocates the next incident number for the year.
// Format: NCR-YYYY-NNNN (e.g., NCR-2026-0001), restarting each year.
func (r *GormUnitRepository) NextNCRNumber(ctx context.Context, year int) (string, error) {
	prefix := fmt.Sprintf("NCR-%d-", year)

	var lastUnit returns.ReturnUnit
	err := r.db.WithContext(ctx).
		Model(&returns.ReturnUnit{}).
		Where("ncr_number LIKE ?", prefix+"%").
		Order("ncr_number DESC").
		First(&lastUnit).Error

	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}

	var nextNum int64 = 1
	if err == nil && lastUnit.NCRNumber != "" {
		parts := strings.Split(lastUnit.NCRNumber, "-")
		if len(parts) == 3 {
			var num int64
			if _, parseErr := fmt.Sscanf(parts[2], "%d", &num); parseErr == nil {
				nextNum = num + 1
			}
		}
	}

	number := fmt.Sprintf("%s%04d", prefix, nextNum)

	// Concurrent allocations can collide, so walk forward until free
	exists, err := r.ncrNumberExists(ctx, number)
	if err != nil {
		return "", err
	}
	if exists {
		for range 100 {
			nextNum++
			number = fmt.Sprintf("%s%04d", prefix, nextNum)
			exists, err = r.ncrNumberExists(ctx, number)
			if err != nil {
				return "", err
			}
			if !exists {
				break
			}
		}
	}

	return number, nil
}

func (r *GormUnitRepository) ncrNumberExists(ctx context.Context, number string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&returns.ReturnUnit{}).
		Where("ncr_number = ?", number).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// applyFilter applies filter options to the query
func (r *GormUnitRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	if filter.OrderBy != "" {
		orderBy := ValidateSortField(filter.OrderBy, ReturnUnitSortFields, "record_date")
		query = query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))
	} else {
		query = query.Order("record_date DESC")
	}

	return query
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormUnitRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where(
			"ref_no ILIKE ? OR ncr_number ILIKE ? OR document_no ILIKE ? OR product_name ILIKE ? OR customer_name ILIKE ?",
			searchPattern, searchPattern, searchPattern, searchPattern, searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "statuses":
			if statuses, ok := value.([]string); ok && len(statuses) > 0 {
				query = query.Where("status IN ?", statuses)
			}
		case "disposition":
			query = query.Where("disposition = ?", value)
		case "branch":
			query = query.Where("branch = ?", value)
		case "product_code":
			query = query.Where("product_code = ?", value)
		case "channel":
			switch value {
			case string(returns.ChannelIncident):
				query = query.Where("ncr_number <> ''")
			case string(returns.ChannelCollection):
				query = query.Where("ncr_number = ''")
			}
		case "field_settled":
			query = query.Where("field_settled = ?", value)
		case "start_date":
			if t, ok := value.(time.Time); ok {
				query = query.Where("record_date >= ?", t)
			}
		case "end_date":
			if t, ok := value.(time.Time); ok {
				query = query.Where("record_date <= ?", t)
			}
		}
	}

	return query
}

func canonicalizeAll(units []returns.ReturnUnit) ([]returns.ReturnUnit, error) {
	for i := range units {
		if err := units[i].CanonicalizeStatus(); err != nil {
			return nil, err
		}
	}
	return units, nil
}

// Ensure GormUnitRepository implements UnitRepository
var _ returns.UnitRepository = (*GormUnitRepository)(nil)
