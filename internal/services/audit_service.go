package services

import (
	"encoding/json"
	"strings"

	"gorm.io/gorm"

	"finboard/internal/logger"
	"finboard/internal/models"
)

// redactedFields never reach the audit table in clear text.
var redactedFields = map[string]struct{}{
	"password":      {},
	"password_hash": {},
	"refresh_token": {},
	"api_key":       {},
}

type auditService struct {
	db *gorm.DB
}

// NewAuditService creates a new AuditServicer.
func NewAuditService(db *gorm.DB) AuditServicer {
	return &auditService{db: db}
}

// Log records a mutation made by userID. Failures are logged, never returned,
// so a broken audit table cannot fail the request that triggered it.
func (s *auditService) Log(userID, action, resourceType, resourceID, ipAddress string, changes map[string]interface{}) {
	log := logger.With("user_id", userID, "action", action, "resource_type", resourceType)
	if userID == "" {
		log.Warnw("audit entry without user dropped", "resource_id", resourceID)
		return
	}

	entry := &models.AuditLog{
		UserID:       userID,
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		IPAddress:    ipAddress,
		Changes:      encodeChanges(changes),
	}
	if err := s.db.Create(entry).Error; err != nil {
		log.Errorw("audit write failed", "resource_id", resourceID, "error", err)
	}
}

// encodeChanges renders changes as JSON with credential fields masked.
// Empty maps are stored as an empty string.
func encodeChanges(changes map[string]interface{}) string {
	if len(changes) == 0 {
		return ""
	}
	clean := make(map[string]interface{}, len(changes))
	for k, v := range changes {
		if _, ok := redactedFields[strings.ToLower(k)]; ok {
			clean[k] = "[redacted]"
			continue
		}
		clean[k] = v
	}
	data, err := json.Marshal(clean)
	if err != nil {
		logger.Get().Warnw("audit changes not serializable", "error", err)
		return "{}"
	}
	return string(data)
}
