package domain

import (
	"context"
	"os"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// SubjectKind identifies a download subject variant
type SubjectKind string

const (
	KindModuleInstall SubjectKind = "module"
	KindAppUpdate     SubjectKind = "app_update"
	KindTestTransfer  SubjectKind = "net_test"
)

// DefaultTestEndpoint is the large-file endpoint used for throughput tests
const DefaultTestEndpoint = "https://link.testfile.org/500MB"

// testTitleLength is the length of the generated test-transfer title token
const testTitleLength = 6

// IDAllocator hands out notification ids, one fresh id per call
type IDAllocator interface {
	NextNotifyID() int
}

// DestinationResolver maps a desired filename to a writable destination URI.
// Resolution may perform storage I/O; subjects call it at most once.
type DestinationResolver interface {
	ResolveDestination(filename string) (string, error)
}

// InstallActionFactory builds the action that opens the install flow
// for a downloaded file, bound to the subject's notification id
type InstallActionFactory interface {
	BuildInstallAction(ctx context.Context, fileURI string, notifyID int) (ActionHandle, error)
}

// Subject describes one download task: what to fetch, where to store it,
// and what should happen once the transfer engine reports completion.
// The variant set is closed; consumers may switch on Kind exhaustively.
type Subject interface {
	// Kind returns the variant tag
	Kind() SubjectKind

	// URL returns the source location to fetch from. No validation is
	// performed here; malformed URLs are the transfer engine's concern.
	URL() string

	// File returns the destination URI. Resolution is lazy and memoized:
	// the resolver runs at most once per instance, and every caller
	// observes the same outcome.
	File() (string, error)

	// Title returns the human-readable display name
	Title() string

	// NotifyID returns the notification id assigned at construction
	NotifyID() int

	// AutoLaunch reports whether the post-download action should run
	// without user interaction
	AutoLaunch() bool

	// PendingIntent returns the deferred action to run on completion,
	// or nil when the subject has none
	PendingIntent(ctx context.Context) (ActionHandle, error)

	// sealed keeps the variant set closed to this package
	sealed()
}

// fileCell memoizes destination resolution. The lock is held across the
// resolver call so concurrent first readers block until the single
// resolution finishes; error outcomes are memoized the same as successes.
type fileCell struct {
	mu   sync.Mutex
	done bool
	uri  string
	err  error
}

func (c *fileCell) get(resolve func() (string, error)) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.done {
		c.uri, c.err = resolve()
		c.done = true
	}
	return c.uri, c.err
}

// seed marks the cell resolved with a known destination, used when a
// subject arrives over a process boundary already resolved
func (c *fileCell) seed(uri string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.uri = uri
	c.done = true
}

// peek returns the resolved destination without triggering resolution
func (c *fileCell) peek() (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.done || c.err != nil {
		return "", false
	}
	return c.uri, true
}

// ModuleInstall is the subject for downloading an installable module
// package. On completion the install flow opens for the downloaded file.
type ModuleInstall struct {
	module     ModuleInfo
	notifyID   int
	autoLaunch bool
	file       fileCell
	resolver   DestinationResolver
	actions    InstallActionFactory
}

// NewModuleInstall creates a module-install subject. autoLaunch is
// caller-supplied per instance.
func NewModuleInstall(module ModuleInfo, autoLaunch bool, ids IDAllocator, resolver DestinationResolver, actions InstallActionFactory) *ModuleInstall {
	return &ModuleInstall{
		module:     module,
		notifyID:   ids.NextNotifyID(),
		autoLaunch: autoLaunch,
		resolver:   resolver,
		actions:    actions,
	}
}

func (s *ModuleInstall) Kind() SubjectKind { return KindModuleInstall }
func (s *ModuleInstall) URL() string       { return s.module.ZipURL }
func (s *ModuleInstall) Title() string     { return s.module.DownloadFilename() }
func (s *ModuleInstall) NotifyID() int     { return s.notifyID }
func (s *ModuleInstall) AutoLaunch() bool  { return s.autoLaunch }

func (s *ModuleInstall) File() (string, error) {
	return s.file.get(func() (string, error) {
		return s.resolver.ResolveDestination(s.Title())
	})
}

func (s *ModuleInstall) PendingIntent(ctx context.Context) (ActionHandle, error) {
	uri, err := s.File()
	if err != nil {
		return nil, err
	}
	return s.actions.BuildInstallAction(ctx, uri, s.notifyID)
}

func (s *ModuleInstall) sealed() {}

// Module returns the wrapped module descriptor
func (s *ModuleInstall) Module() ModuleInfo { return s.module }

// AppUpdate is the subject for downloading an application update package.
// Its post-download action is attached by the caller after construction;
// until then the subject reports no action.
type AppUpdate struct {
	release  ReleaseInfo
	notifyID int
	file     fileCell
	resolver DestinationResolver

	mu     sync.Mutex
	action ActionHandle
}

// NewAppUpdate creates an app-update subject
func NewAppUpdate(release ReleaseInfo, ids IDAllocator, resolver DestinationResolver) *AppUpdate {
	return &AppUpdate{
		release:  release,
		notifyID: ids.NextNotifyID(),
		resolver: resolver,
	}
}

func (s *AppUpdate) Kind() SubjectKind { return KindAppUpdate }
func (s *AppUpdate) URL() string       { return s.release.Link }
func (s *AppUpdate) Title() string     { return s.release.DisplayName() }
func (s *AppUpdate) NotifyID() int     { return s.notifyID }
func (s *AppUpdate) AutoLaunch() bool  { return true }

func (s *AppUpdate) File() (string, error) {
	return s.file.get(func() (string, error) {
		return s.resolver.ResolveDestination(s.release.PackageFilename())
	})
}

// AttachAction sets the post-download action. Set-once: the first attached
// action wins and later calls are ignored. Callers must attach before
// handing the subject to the transfer engine.
func (s *AppUpdate) AttachAction(fn ActionFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.action == nil && fn != nil {
		s.action = WrapAction(s.notifyID, fn)
	}
}

func (s *AppUpdate) PendingIntent(ctx context.Context) (ActionHandle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.action, nil
}

func (s *AppUpdate) sealed() {}

// Release returns the wrapped release descriptor
func (s *AppUpdate) Release() ReleaseInfo { return s.release }

// TestTransfer is a synthetic subject used for throughput diagnostics.
// The payload is written to the discard sink and no post-download action
// ever runs.
type TestTransfer struct {
	title    string
	url      string
	notifyID int
}

// NewTestTransfer creates a test-transfer subject. An empty title gets a
// random 6-character token; an empty url falls back to the default
// test endpoint.
func NewTestTransfer(title, url string, ids IDAllocator) *TestTransfer {
	if title == "" {
		title = randomToken(testTitleLength)
	}
	if url == "" {
		url = DefaultTestEndpoint
	}
	return &TestTransfer{
		title:    title,
		url:      url,
		notifyID: ids.NextNotifyID(),
	}
}

func (s *TestTransfer) Kind() SubjectKind { return KindTestTransfer }
func (s *TestTransfer) URL() string       { return s.url }
func (s *TestTransfer) Title() string     { return s.title }
func (s *TestTransfer) NotifyID() int     { return s.notifyID }
func (s *TestTransfer) AutoLaunch() bool  { return false }

// File returns the discard sink; no resolver lookup is needed
func (s *TestTransfer) File() (string, error) {
	return "file://" + os.DevNull, nil
}

func (s *TestTransfer) PendingIntent(ctx context.Context) (ActionHandle, error) {
	return nil, nil
}

func (s *TestTransfer) sealed() {}

// randomToken returns n hex characters of a fresh random uuid
func randomToken(n int) string {
	token := strings.ReplaceAll(uuid.New().String(), "-", "")
	return token[:n]
}
