package accesscontrol

import (
	"context"
	"log/slog"
	"sync"
	"time"

	errors "github.com/framil09/prefeitura--sub000/internal"
	"github.com/framil09/prefeitura--sub000/internal/core/events"
)

type RepositoryAPI interface {
	ListOverrides(ctx context.Context, userID int64) ([]Override, error)
	UpsertOverride(ctx context.Context, override Override) (Override, error)
	// ApplyOverrides writes the whole batch inside one transaction so a
	// preset can never be half applied.
	ApplyOverrides(ctx context.Context, userID int64, rows []Override) error
	UserExists(ctx context.Context, userID int64) (bool, error)
}

// Service is the operator-facing permission management surface plus the
// menu filter consumed by the admin shell.
type Service struct {
	repo   RepositoryAPI
	bus    *events.Bus
	logger *slog.Logger

	mu        sync.RWMutex
	menuCache map[int64][]MenuEntry
	menuGen   map[int64]uint64
}

func NewService(repo RepositoryAPI, bus *events.Bus, logger *slog.Logger) *Service {
	s := &Service{
		repo:      repo,
		bus:       bus,
		logger:    logger,
		menuCache: make(map[int64][]MenuEntry),
		menuGen:   make(map[int64]uint64),
	}

	// Synchronous invalidation: a cached menu never outlives a single
	// override mutation for its user.
	bus.Subscribe(events.TopicPermissionChanged, func(ctx context.Context, event events.Event) error {
		if changed, ok := event.(events.PermissionChanged); ok {
			s.invalidateMenu(changed.UserID)
		}
		return nil
	})

	return s
}

// invalidateMenu drops the cached menu and bumps the user's generation so
// a render that started before the mutation can never re-cache its result.
func (s *Service) invalidateMenu(userID int64) {
	s.mu.Lock()
	delete(s.menuCache, userID)
	s.menuGen[userID]++
	s.mu.Unlock()
}

func (s *Service) requireUser(ctx context.Context, userID int64) error {
	exists, err := s.repo.UserExists(ctx, userID)
	if err != nil {
		s.logger.Error("user lookup failed", "user_id", userID, "error", err)
		return errors.NewUnavailableError("permission store unreachable", err)
	}
	if !exists {
		return errors.ErrUserNotFound
	}
	return nil
}

// ListOverrides returns every override row for the target user. An empty
// result means the user has never been configured, which the evaluator
// treats differently from a fully granted user.
func (s *Service) ListOverrides(ctx context.Context, userID int64) ([]Override, error) {
	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}

	rows, err := s.repo.ListOverrides(ctx, userID)
	if err != nil {
		s.logger.Error("failed to list overrides", "user_id", userID, "error", err)
		return nil, errors.NewUnavailableError("permission store unreachable", err)
	}
	return rows, nil
}

// SetOverride upserts a single (section, allowed) pair and returns the
// persisted row. Re-applying the same value is a no-op observable effect.
func (s *Service) SetOverride(ctx context.Context, userID int64, section string, allowed bool) (Override, error) {
	sec, err := ParseSection(section)
	if err != nil {
		return Override{}, err
	}

	if err := s.requireUser(ctx, userID); err != nil {
		return Override{}, err
	}

	row, err := s.repo.UpsertOverride(ctx, Override{UserID: userID, Section: sec, Allowed: allowed})
	if err != nil {
		s.logger.Error("failed to upsert override",
			"user_id", userID, "section", sec, "error", err)
		return Override{}, errors.NewUnavailableError("permission store unreachable", err)
	}

	s.logger.Info("override written", "user_id", userID, "section", sec, "allowed", allowed)
	s.publishChanged(ctx, userID)
	return row, nil
}

// ApplyPreset writes the preset's full section table for the user as one
// transactional batch. Presets are only offered for non-administrators,
// but rows written for an admin are simply never consulted.
func (s *Service) ApplyPreset(ctx context.Context, userID int64, presetName string) error {
	preset, err := ParsePreset(presetName)
	if err != nil {
		return err
	}

	if err := s.requireUser(ctx, userID); err != nil {
		return err
	}

	if err := s.repo.ApplyOverrides(ctx, userID, preset.Rows(userID)); err != nil {
		s.logger.Error("failed to apply preset",
			"user_id", userID, "preset", preset, "error", err)
		return errors.NewUnavailableError("permission store unreachable", err)
	}

	s.logger.Info("preset applied", "user_id", userID, "preset", preset)
	s.publishChanged(ctx, userID)
	return nil
}

func (s *Service) publishChanged(ctx context.Context, userID int64) {
	event := events.PermissionChanged{UserID: userID, At: time.Now()}
	if err := s.bus.Publish(ctx, event); err != nil {
		s.logger.Error("failed to publish permission change", "user_id", userID, "error", err)
	}
}

// CanAccessSection evaluates access for one tagged section. A store
// failure is returned as an error, never guessed as allow or deny.
func (s *Service) CanAccessSection(ctx context.Context, id Identity, section Section) (bool, error) {
	entry, ok := EntryForSection(section)
	if !ok {
		return false, nil
	}

	overrides, err := s.loadOverrideSet(ctx, id)
	if err != nil {
		return false, err
	}
	return CanAccess(id, entry, overrides), nil
}

// VisibleMenu returns the admin menu entries the identity may see, in
// render order. Results are cached per user until the next override
// mutation for that user.
func (s *Service) VisibleMenu(ctx context.Context, id Identity) ([]MenuEntry, error) {
	s.mu.RLock()
	cached, ok := s.menuCache[id.UserID]
	gen := s.menuGen[id.UserID]
	s.mu.RUnlock()
	if ok {
		return cached, nil
	}

	overrides, err := s.loadOverrideSet(ctx, id)
	if err != nil {
		return nil, err
	}

	visible := FilterMenu(id, AdminMenu(), overrides)

	// Cache only if no mutation invalidated this user while we were
	// reading; a stale render must not outlive the mutation.
	s.mu.Lock()
	if s.menuGen[id.UserID] == gen {
		s.menuCache[id.UserID] = visible
	}
	s.mu.Unlock()

	return visible, nil
}

func (s *Service) loadOverrideSet(ctx context.Context, id Identity) (OverrideSet, error) {
	// Administrators never consult the override layer, skip the read.
	if id.Role == RoleAdmin {
		return NewOverrideSet(nil), nil
	}

	rows, err := s.repo.ListOverrides(ctx, id.UserID)
	if err != nil {
		s.logger.Error("failed to load overrides for evaluation",
			"user_id", id.UserID, "error", err)
		return OverrideSet{}, errors.NewUnavailableError("permission store unreachable", err)
	}
	return NewOverrideSet(rows), nil
}
