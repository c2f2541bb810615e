package domain

import (
	"encoding/json"
	"fmt"
)

// SubjectDeps bundles the collaborators a decoded subject is rebound to.
// Notification ids travel with the envelope and are never re-allocated.
type SubjectDeps struct {
	Resolver DestinationResolver
	Actions  InstallActionFactory
}

// subjectEnvelope is the variant-tagged wire form of a subject: the kind
// tag plus the minimal data needed to reconstruct the variant. A resolved
// destination is carried along so the receiving side does not resolve
// again; an unresolved subject stays unresolved.
type subjectEnvelope struct {
	Kind       SubjectKind  `json:"kind"`
	NotifyID   int          `json:"notify_id"`
	AutoLaunch bool         `json:"auto_launch"`
	Module     *ModuleInfo  `json:"module,omitempty"`
	Release    *ReleaseInfo `json:"release,omitempty"`
	Title      string       `json:"title,omitempty"`
	URL        string       `json:"url,omitempty"`
	File       string       `json:"file,omitempty"`
}

// EncodeSubject serializes a subject for transport across a process
// boundary, preserving all attributes and the resolved/unresolved state
// of the destination
func EncodeSubject(s Subject) ([]byte, error) {
	var env subjectEnvelope
	switch v := s.(type) {
	case *ModuleInstall:
		module := v.module
		env = subjectEnvelope{
			Kind:       KindModuleInstall,
			NotifyID:   v.notifyID,
			AutoLaunch: v.autoLaunch,
			Module:     &module,
		}
		if uri, ok := v.file.peek(); ok {
			env.File = uri
		}
	case *AppUpdate:
		release := v.release
		env = subjectEnvelope{
			Kind:       KindAppUpdate,
			NotifyID:   v.notifyID,
			AutoLaunch: true,
			Release:    &release,
		}
		if uri, ok := v.file.peek(); ok {
			env.File = uri
		}
	case *TestTransfer:
		env = subjectEnvelope{
			Kind:     KindTestTransfer,
			NotifyID: v.notifyID,
			Title:    v.title,
			URL:      v.url,
		}
	default:
		return nil, fmt.Errorf("unknown subject type %T", s)
	}
	return json.Marshal(env)
}

// DecodeSubject reconstructs a subject from its wire form, rebinding it
// to the given collaborators. App-update subjects arrive without their
// post-download action; the receiving side attaches its own if needed.
func DecodeSubject(data []byte, deps SubjectDeps) (Subject, error) {
	var env subjectEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("failed to decode subject envelope: %w", err)
	}

	switch env.Kind {
	case KindModuleInstall:
		if env.Module == nil {
			return nil, fmt.Errorf("module subject envelope missing module descriptor")
		}
		s := &ModuleInstall{
			module:     *env.Module,
			notifyID:   env.NotifyID,
			autoLaunch: env.AutoLaunch,
			resolver:   deps.Resolver,
			actions:    deps.Actions,
		}
		if env.File != "" {
			s.file.seed(env.File)
		}
		return s, nil

	case KindAppUpdate:
		if env.Release == nil {
			return nil, fmt.Errorf("app-update subject envelope missing release descriptor")
		}
		s := &AppUpdate{
			release:  *env.Release,
			notifyID: env.NotifyID,
			resolver: deps.Resolver,
		}
		if env.File != "" {
			s.file.seed(env.File)
		}
		return s, nil

	case KindTestTransfer:
		return &TestTransfer{
			title:    env.Title,
			url:      env.URL,
			notifyID: env.NotifyID,
		}, nil

	default:
		return nil, fmt.Errorf("unknown subject kind %q", env.Kind)
	}
}
