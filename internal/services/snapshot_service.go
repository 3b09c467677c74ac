package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	apperrors "finboard/internal/errors"
	"finboard/internal/finance"
	"finboard/internal/models"
	"finboard/internal/pagination"
)

// snapshotService handles net worth snapshot operations.
type snapshotService struct {
	db *gorm.DB
}

// NewSnapshotService creates a new SnapshotServicer.
func NewSnapshotService(db *gorm.DB) SnapshotServicer {
	return &snapshotService{db: db}
}

// ComputeAndRecordSnapshots computes and stores a net worth snapshot for
// every user with at least one account. Recording twice at the same instant
// overwrites the earlier snapshot.
func (s *snapshotService) ComputeAndRecordSnapshots(recordedAt time.Time) (int, error) {
	var userIDs []string
	if err := s.db.Model(&models.Account{}).
		Distinct("user_id").
		Pluck("user_id", &userIDs).Error; err != nil {
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	count := 0
	for _, userID := range userIDs {
		snapshot, err := s.computeSnapshot(userID, recordedAt)
		if err != nil {
			return count, err
		}

		var existing models.NetWorthSnapshot
		err = s.db.Where("user_id = ? AND recorded_at = ?", userID, recordedAt).First(&existing).Error
		switch {
		case err == nil:
			if err := s.db.Model(&existing).Updates(map[string]interface{}{
				"total_assets":      snapshot.TotalAssets,
				"total_liabilities": snapshot.TotalLiabilities,
				"net_worth":         snapshot.NetWorth,
			}).Error; err != nil {
				return count, apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			if err := s.db.Create(snapshot).Error; err != nil {
				return count, apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
		default:
			return count, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		count++
	}

	return count, nil
}

// computeSnapshot classifies a user's accounts into assets and liabilities.
func (s *snapshotService) computeSnapshot(userID string, recordedAt time.Time) (*models.NetWorthSnapshot, error) {
	var accounts []models.Account
	if err := s.db.Scopes(models.OwnedBy(userID)).Find(&accounts).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	summary := finance.SummarizeAccounts(accounts)
	return &models.NetWorthSnapshot{
		UserID:           userID,
		RecordedAt:       recordedAt,
		TotalAssets:      summary.TotalAssets,
		TotalLiabilities: summary.TotalLiabilities,
		NetWorth:         summary.NetWorth,
	}, nil
}

// GetSnapshots returns paginated snapshots for a user within a date range.
func (s *snapshotService) GetSnapshots(
	userID string,
	from, to time.Time,
	page pagination.PageRequest,
) (*pagination.PageResponse[models.NetWorthSnapshot], error) {
	page.Defaults()

	var totalItems int64
	base := s.db.Model(&models.NetWorthSnapshot{}).
		Where("user_id = ? AND recorded_at >= ? AND recorded_at <= ?", userID, from, to)
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var snapshots []models.NetWorthSnapshot
	if err := base.Order("recorded_at DESC").Scopes(pagination.Paginate(page)).Find(&snapshots).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(snapshots, page.Page, page.Limit, totalItems)
	return &result, nil
}
