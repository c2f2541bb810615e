package domain

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecode_ModuleInstallRoundTrip(t *testing.T) {
	ids := &seqAllocator{}
	resolver := &countingResolver{}
	subject := NewModuleInstall(testModule(), false, ids, resolver, &recordingFactory{})

	data, err := EncodeSubject(subject)
	require.NoError(t, err)

	remoteResolver := &countingResolver{}
	decoded, err := DecodeSubject(data, SubjectDeps{Resolver: remoteResolver, Actions: &recordingFactory{}})
	require.NoError(t, err)

	assert.Equal(t, KindModuleInstall, decoded.Kind())
	assert.Equal(t, subject.URL(), decoded.URL())
	assert.Equal(t, subject.Title(), decoded.Title())
	assert.Equal(t, subject.NotifyID(), decoded.NotifyID())
	assert.Equal(t, subject.AutoLaunch(), decoded.AutoLaunch())

	// Undelivered resolution re-runs on the receiving side and is
	// deterministic for the same resolver behavior
	localURI, err := subject.File()
	require.NoError(t, err)
	remoteURI, err := decoded.File()
	require.NoError(t, err)
	assert.Equal(t, localURI, remoteURI)
	assert.Equal(t, 1, remoteResolver.calls)
}

func TestEncodeDecode_PreservesResolvedState(t *testing.T) {
	ids := &seqAllocator{}
	resolver := &countingResolver{}
	subject := NewModuleInstall(testModule(), true, ids, resolver, &recordingFactory{})

	uri, err := subject.File()
	require.NoError(t, err)

	data, err := EncodeSubject(subject)
	require.NoError(t, err)

	// The receiving side must not resolve again: its resolver always fails
	broken := &countingResolver{failFrom: 1}
	decoded, err := DecodeSubject(data, SubjectDeps{Resolver: broken, Actions: &recordingFactory{}})
	require.NoError(t, err)

	remoteURI, err := decoded.File()
	require.NoError(t, err)
	assert.Equal(t, uri, remoteURI)
	assert.Zero(t, broken.calls)
}

func TestEncodeDecode_AppUpdateRoundTrip(t *testing.T) {
	ids := &seqAllocator{}
	subject := NewAppUpdate(testRelease(), ids, &countingResolver{})
	subject.AttachAction(func(ctx context.Context) error { return nil })

	data, err := EncodeSubject(subject)
	require.NoError(t, err)

	decoded, err := DecodeSubject(data, SubjectDeps{Resolver: &countingResolver{}})
	require.NoError(t, err)

	assert.Equal(t, KindAppUpdate, decoded.Kind())
	assert.Equal(t, subject.URL(), decoded.URL())
	assert.Equal(t, subject.Title(), decoded.Title())
	assert.Equal(t, subject.NotifyID(), decoded.NotifyID())
	assert.True(t, decoded.AutoLaunch())

	// Actions do not cross the boundary
	update, ok := decoded.(*AppUpdate)
	require.True(t, ok)
	handle, err := update.PendingIntent(context.Background())
	require.NoError(t, err)
	assert.Nil(t, handle)
}

func TestEncodeDecode_TestTransferRoundTrip(t *testing.T) {
	ids := &seqAllocator{}
	subject := NewTestTransfer("", "", ids)

	data, err := EncodeSubject(subject)
	require.NoError(t, err)

	decoded, err := DecodeSubject(data, SubjectDeps{})
	require.NoError(t, err)

	assert.Equal(t, KindTestTransfer, decoded.Kind())
	assert.Equal(t, subject.Title(), decoded.Title())
	assert.Equal(t, subject.URL(), decoded.URL())
	assert.Equal(t, subject.NotifyID(), decoded.NotifyID())
	assert.False(t, decoded.AutoLaunch())
}

func TestDecodeSubject_UnknownKind(t *testing.T) {
	_, err := DecodeSubject([]byte(`{"kind":"mystery","notify_id":1}`), SubjectDeps{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown subject kind")
}

func TestDecodeSubject_MissingDescriptor(t *testing.T) {
	_, err := DecodeSubject([]byte(`{"kind":"module","notify_id":1}`), SubjectDeps{})
	require.Error(t, err)

	_, err = DecodeSubject([]byte(`{"kind":"app_update","notify_id":1}`), SubjectDeps{})
	require.Error(t, err)
}

func TestDecodeSubject_MalformedJSON(t *testing.T) {
	_, err := DecodeSubject([]byte(`{`), SubjectDeps{})
	require.Error(t, err)
}
