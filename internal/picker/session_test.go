package picker

import (
	"context"
	"testing"
	"time"

	"location_picker/internal/geo"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSession_StaleResolutionIsDropped(t *testing.T) {
	s := newSession(context.Background(), time.Now())

	first, _, err := s.begin(false)
	require.NoError(t, err)
	_, ok := s.resolve(first, geo.Coordinate{Latitude: 1, Longitude: 1})
	require.True(t, ok)

	second, snap, err := s.begin(false)
	require.NoError(t, err)
	assert.Greater(t, second, first)
	assert.True(t, snap.State.Busy)

	got, ok := s.resolve(first, geo.Coordinate{Latitude: 9, Longitude: 9})
	assert.False(t, ok)
	assert.True(t, got.State.Busy)
	assert.Equal(t, 1.0, got.State.Coordinate.Latitude)

	_, ok = s.fail(first, "late")
	assert.False(t, ok)

	got, ok = s.fail(second, MessageUnavailable)
	require.True(t, ok)
	assert.False(t, got.State.Busy)
	assert.Equal(t, MessageUnavailable, got.State.ErrorMessage)
}

func TestSession_ResolutionAfterCompletionIsDropped(t *testing.T) {
	s := newSession(context.Background(), time.Now())
	seq, _, err := s.begin(false)
	require.NoError(t, err)

	_, ok := s.fail(seq, MessageUnavailable)
	require.True(t, ok)
	before := s.Snapshot()

	_, ok = s.resolve(seq, geo.Coordinate{Latitude: 3, Longitude: 3})
	assert.False(t, ok)
	assert.Equal(t, before, s.Snapshot())
}

func TestSession_RevisionCountsCommits(t *testing.T) {
	s := newSession(context.Background(), time.Now())
	assert.EqualValues(t, 0, s.Snapshot().Revision)

	s.selectCoordinate(geo.Coordinate{Latitude: 1, Longitude: 2})
	_, err := s.rejectUnsupported()
	require.NoError(t, err)
	seq, _, err := s.begin(false)
	require.NoError(t, err)
	_, _, err = s.begin(false)
	assert.ErrorIs(t, err, ErrBusy)
	s.resolve(seq, geo.Coordinate{Latitude: 3, Longitude: 4})

	assert.EqualValues(t, 4, s.Snapshot().Revision)
}

func TestSession_CoordinateIsReplacedNotMutated(t *testing.T) {
	s := newSession(context.Background(), time.Now())
	held := s.selectCoordinate(geo.Coordinate{Latitude: 1, Longitude: 2})

	s.selectCoordinate(geo.Coordinate{Latitude: 7, Longitude: 8})

	assert.Equal(t, 1.0, held.State.Coordinate.Latitude)
	assert.Equal(t, 7.0, s.Snapshot().State.Coordinate.Latitude)
}

func TestSession_LocateSeqOnlyWhileReading(t *testing.T) {
	s := newSession(context.Background(), time.Now())

	seq, snap, err := s.begin(true)
	require.NoError(t, err)
	assert.Equal(t, seq, snap.LocateSeq)
	assert.Equal(t, seq, s.Snapshot().LocateSeq)

	done, ok := s.fail(seq, MessageUnavailable)
	require.True(t, ok)
	assert.Zero(t, done.LocateSeq)

	_, snap, err = s.begin(false)
	require.NoError(t, err)
	assert.Zero(t, snap.LocateSeq)
}
