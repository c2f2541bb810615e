package infrastructure

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/yourusername/sysmod-go/internal/domain"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// maxFilenameClaims bounds the suffix search for a colliding filename
const maxFilenameClaims = 1000

// filenameClaim records a destination handed out by the resolver. The
// unique index on resolved_name is what makes claims collision-safe.
type filenameClaim struct {
	ID            uint   `gorm:"primaryKey"`
	RequestedName string `gorm:"index"`
	ResolvedName  string `gorm:"uniqueIndex"`
	CreatedAt     time.Time
}

// SQLiteStore implements SubjectRepository and DestinationResolver on a
// single SQLite database
type SQLiteStore struct {
	db          *gorm.DB
	downloadDir string
}

// NewSQLiteStore opens (creating if needed) the store backing the handoff
// queue and the filename index. downloadDir is the directory resolved
// destinations point into.
func NewSQLiteStore(dbPath, downloadDir string) (*SQLiteStore, error) {
	if err := os.MkdirAll(downloadDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create download directory: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.AutoMigrate(&domain.SubjectRecord{}, &filenameClaim{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &SQLiteStore{db: db, downloadDir: downloadDir}, nil
}

// ============================================================================
// DestinationResolver implementation
// ============================================================================

// ResolveDestination claims a unique filename under the download directory
// and returns it as a file URI. When the requested name is already taken,
// a " (n)" suffix is inserted before the extension; the winning name is
// whatever claim the unique index accepts first.
func (s *SQLiteStore) ResolveDestination(filename string) (string, error) {
	filename = strings.TrimSpace(filename)
	if filename == "" {
		return "", fmt.Errorf("empty filename")
	}
	if strings.ContainsAny(filename, `/\`) {
		return "", fmt.Errorf("filename must not contain path separators: %q", filename)
	}

	ext := filepath.Ext(filename)
	stem := strings.TrimSuffix(filename, ext)

	for n := 0; n < maxFilenameClaims; n++ {
		candidate := filename
		if n > 0 {
			candidate = fmt.Sprintf("%s (%d)%s", stem, n, ext)
		}

		claim := filenameClaim{RequestedName: filename, ResolvedName: candidate, CreatedAt: time.Now()}
		err := s.db.Create(&claim).Error
		if err == nil {
			return "file://" + filepath.Join(s.downloadDir, candidate), nil
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return "", fmt.Errorf("failed to claim filename %q: %w", candidate, err)
		}
	}

	return "", fmt.Errorf("too many claims for filename %q", filename)
}

// ============================================================================
// SubjectRepository implementation
// ============================================================================

// Create stores a newly issued record
func (s *SQLiteStore) Create(record *domain.SubjectRecord) error {
	return s.db.Create(record).Error
}

// FindByID finds a record by id
func (s *SQLiteStore) FindByID(id string) (*domain.SubjectRecord, error) {
	var record domain.SubjectRecord
	if err := s.db.First(&record, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

// FindAll finds records matching the optional filters, newest first
func (s *SQLiteStore) FindAll(filters map[string]interface{}) ([]*domain.SubjectRecord, error) {
	var records []*domain.SubjectRecord
	query := s.db

	for key, value := range filters {
		query = query.Where(fmt.Sprintf("%s = ?", key), value)
	}

	err := query.Order("created_at DESC").Find(&records).Error
	return records, err
}

// ClaimNext atomically claims the oldest issued record. Returns nil when
// the queue is drained.
func (s *SQLiteStore) ClaimNext() (*domain.SubjectRecord, error) {
	var claimed *domain.SubjectRecord
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var record domain.SubjectRecord
		err := tx.Where("status = ?", domain.StatusIssued).
			Order("created_at ASC").
			First(&record).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}

		record.MarkClaimed()
		if err := tx.Save(&record).Error; err != nil {
			return err
		}
		claimed = &record
		return nil
	})
	return claimed, err
}

// MaxNotifyID returns the highest notification id ever recorded
func (s *SQLiteStore) MaxNotifyID() (int, error) {
	var max int
	err := s.db.Model(&domain.SubjectRecord{}).
		Select("COALESCE(MAX(notify_id), 0)").
		Scan(&max).Error
	return max, err
}

// Stats returns queue statistics
func (s *SQLiteStore) Stats() (*domain.SubjectStats, error) {
	stats := &domain.SubjectStats{}

	if err := s.db.Model(&domain.SubjectRecord{}).Count(&stats.Total).Error; err != nil {
		return nil, err
	}

	statusCounts := []struct {
		Status domain.SubjectStatus
		Count  int64
	}{}
	if err := s.db.Model(&domain.SubjectRecord{}).
		Select("status, count(*) as count").
		Group("status").
		Scan(&statusCounts).Error; err != nil {
		return nil, err
	}
	for _, sc := range statusCounts {
		switch sc.Status {
		case domain.StatusIssued:
			stats.Issued = sc.Count
		case domain.StatusClaimed:
			stats.Claimed = sc.Count
		}
	}

	kindCounts := []struct {
		Kind  domain.SubjectKind
		Count int64
	}{}
	if err := s.db.Model(&domain.SubjectRecord{}).
		Select("kind, count(*) as count").
		Group("kind").
		Scan(&kindCounts).Error; err != nil {
		return nil, err
	}
	for _, kc := range kindCounts {
		switch kc.Kind {
		case domain.KindModuleInstall:
			stats.Modules = kc.Count
		case domain.KindAppUpdate:
			stats.Updates = kc.Count
		case domain.KindTestTransfer:
			stats.NetTests = kc.Count
		}
	}

	return stats, nil
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
