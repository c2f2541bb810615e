package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/yourusername/sysmod-go/internal/domain"
)

// SubjectService turns intake requests into download subjects and parks
// them in the handoff queue for the external transfer engine
type SubjectService struct {
	repo         domain.SubjectRepository
	ids          domain.IDAllocator
	resolver     domain.DestinationResolver
	actions      domain.InstallActionFactory
	testEndpoint string
	logger       *zap.Logger
}

// NewSubjectService creates a new subject service
func NewSubjectService(
	repo domain.SubjectRepository,
	ids domain.IDAllocator,
	resolver domain.DestinationResolver,
	actions domain.InstallActionFactory,
	testEndpoint string,
	logger *zap.Logger,
) *SubjectService {
	return &SubjectService{
		repo:         repo,
		ids:          ids,
		resolver:     resolver,
		actions:      actions,
		testEndpoint: testEndpoint,
		logger:       logger,
	}
}

// Deps returns the collaborators a decoded subject is rebound to
func (s *SubjectService) Deps() domain.SubjectDeps {
	return domain.SubjectDeps{Resolver: s.resolver, Actions: s.actions}
}

// IssueModuleInstall issues a subject for downloading and installing a
// module package
func (s *SubjectService) IssueModuleInstall(module domain.ModuleInfo, autoLaunch bool) (*domain.SubjectRecord, error) {
	if module.Name == "" {
		return nil, fmt.Errorf("module name required")
	}
	if module.ZipURL == "" {
		return nil, fmt.Errorf("module zip url required")
	}

	subject := domain.NewModuleInstall(module, autoLaunch, s.ids, s.resolver, s.actions)
	return s.issue(subject)
}

// IssueAppUpdate issues a subject for downloading an application update.
// The post-download action, attached here before handoff, resolves the
// package destination and opens the install flow for it.
func (s *SubjectService) IssueAppUpdate(release domain.ReleaseInfo) (*domain.SubjectRecord, error) {
	if release.Name == "" {
		return nil, fmt.Errorf("release name required")
	}
	if release.Link == "" {
		return nil, fmt.Errorf("release link required")
	}

	subject := domain.NewAppUpdate(release, s.ids, s.resolver)
	subject.AttachAction(func(ctx context.Context) error {
		uri, err := subject.File()
		if err != nil {
			return err
		}
		handle, err := s.actions.BuildInstallAction(ctx, uri, subject.NotifyID())
		if err != nil {
			return err
		}
		return handle.Fire(ctx)
	})

	return s.issue(subject)
}

// IssueTestTransfer issues a throughput-test subject. An empty title gets
// a generated token.
func (s *SubjectService) IssueTestTransfer(title string) (*domain.SubjectRecord, error) {
	subject := domain.NewTestTransfer(title, s.testEndpoint, s.ids)
	return s.issue(subject)
}

// issue serializes the subject and stores it in the handoff queue
func (s *SubjectService) issue(subject domain.Subject) (*domain.SubjectRecord, error) {
	envelope, err := domain.EncodeSubject(subject)
	if err != nil {
		return nil, fmt.Errorf("failed to encode subject: %w", err)
	}

	record := domain.NewSubjectRecord(subject, envelope)
	if err := s.repo.Create(record); err != nil {
		return nil, fmt.Errorf("failed to store subject: %w", err)
	}

	s.logger.Info("Subject issued",
		zap.String("id", record.ID),
		zap.String("kind", string(record.Kind)),
		zap.String("title", record.Title),
		zap.Int("notify_id", record.NotifyID),
		zap.Bool("auto_launch", record.AutoLaunch))

	return record, nil
}

// GetSubject finds an issued record by id
func (s *SubjectService) GetSubject(id string) (*domain.SubjectRecord, error) {
	return s.repo.FindByID(id)
}

// ListSubjects lists issued records matching the optional filters
func (s *SubjectService) ListSubjects(filters map[string]interface{}) ([]*domain.SubjectRecord, error) {
	return s.repo.FindAll(filters)
}

// ClaimNext hands the oldest issued record to the caller (the transfer
// engine), returning nil when the queue is drained
func (s *SubjectService) ClaimNext() (*domain.SubjectRecord, error) {
	record, err := s.repo.ClaimNext()
	if err != nil {
		return nil, fmt.Errorf("failed to claim subject: %w", err)
	}
	if record != nil {
		s.logger.Info("Subject claimed",
			zap.String("id", record.ID),
			zap.String("kind", string(record.Kind)),
			zap.Int("notify_id", record.NotifyID))
	}
	return record, nil
}

// Stats returns handoff-queue statistics
func (s *SubjectService) Stats() (*domain.SubjectStats, error) {
	return s.repo.Stats()
}
