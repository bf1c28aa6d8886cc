package lifecycle

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"hoaxify/internal/domain"
	"hoaxify/internal/storage"
)

type mockAttachmentStore struct {
	mock.Mock
}

func (m *mockAttachmentStore) ListCandidates(ctx context.Context, cutoff time.Time) ([]domain.FileAttachment, error) {
	args := m.Called(ctx, cutoff)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FileAttachment), args.Error(1)
}

func (m *mockAttachmentStore) Reserve(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *mockAttachmentStore) Release(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockAttachmentStore) DeleteIfUnclaimed(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

type mockBlobs struct {
	mock.Mock
}

func (m *mockBlobs) Delete(ctx context.Context, key string) (storage.DeleteResult, error) {
	args := m.Called(ctx, key)
	return args.Get(0).(storage.DeleteResult), args.Error(1)
}

var sweepNow = time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)

func staleAttachment(id int64, name string) domain.FileAttachment {
	return domain.FileAttachment{ID: id, Filename: name, UploadDate: sweepNow.Add(-25 * time.Hour)}
}

func newTestSweeper(store AttachmentStore, blobs BlobDeleter) *AttachmentSweeper {
	return NewAttachmentSweeper(store, blobs, AttachmentSweeperConfig{
		Retention:   24 * time.Hour,
		CallTimeout: time.Second,
		Clock:       NewManualClock(sweepNow),
	})
}

func TestAttachmentSweeper_DeletesBlobBeforeRecord(t *testing.T) {
	store := new(mockAttachmentStore)
	blobs := new(mockBlobs)

	var mu sync.Mutex
	var order []string
	record := func(step string) func(mock.Arguments) {
		return func(mock.Arguments) {
			mu.Lock()
			order = append(order, step)
			mu.Unlock()
		}
	}

	store.On("ListCandidates", mock.Anything, sweepNow.Add(-24*time.Hour)).
		Return([]domain.FileAttachment{staleAttachment(1, "a.png")}, nil)
	store.On("Reserve", mock.Anything, int64(1)).Return(true, nil).Run(record("reserve"))
	blobs.On("Delete", mock.Anything, "a.png").Return(storage.Deleted, nil).Run(record("blob"))
	store.On("DeleteIfUnclaimed", mock.Anything, int64(1)).Return(true, nil).Run(record("row"))

	report := newTestSweeper(store, blobs).Run(context.Background())

	require.NoError(t, report.Err)
	assert.Equal(t, []string{"a.png"}, report.Deleted)
	assert.Equal(t, []string{"reserve", "blob", "row"}, order)
	store.AssertExpectations(t)
	blobs.AssertExpectations(t)
}

func TestAttachmentSweeper_SkipsIneligibleWithoutSideEffects(t *testing.T) {
	store := new(mockAttachmentStore)
	blobs := new(mockBlobs)
	hoaxID := int64(3)

	young := domain.FileAttachment{ID: 1, Filename: "young", UploadDate: sweepNow.Add(-time.Hour)}
	claimed := domain.FileAttachment{ID: 2, Filename: "claimed", UploadDate: sweepNow.Add(-48 * time.Hour), HoaxID: &hoaxID}
	store.On("ListCandidates", mock.Anything, mock.Anything).Return([]domain.FileAttachment{young, claimed}, nil)

	report := newTestSweeper(store, blobs).Run(context.Background())

	assert.Equal(t, 2, report.Scanned)
	assert.Equal(t, 2, report.Skipped)
	assert.Empty(t, report.Deleted)
	store.AssertNotCalled(t, "Reserve", mock.Anything, mock.Anything)
	blobs.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestAttachmentSweeper_ListFailureAbortsPass(t *testing.T) {
	store := new(mockAttachmentStore)
	store.On("ListCandidates", mock.Anything, mock.Anything).Return(nil, errors.New("connection refused"))

	report := newTestSweeper(store, new(mockBlobs)).Run(context.Background())

	assert.ErrorIs(t, report.Err, ErrStoreUnavailable)
	assert.Zero(t, report.Scanned)
}

func TestAttachmentSweeper_MissingBlobCountsAsRemoved(t *testing.T) {
	store := new(mockAttachmentStore)
	blobs := new(mockBlobs)

	store.On("ListCandidates", mock.Anything, mock.Anything).Return([]domain.FileAttachment{staleAttachment(1, "gone")}, nil)
	store.On("Reserve", mock.Anything, int64(1)).Return(true, nil)
	blobs.On("Delete", mock.Anything, "gone").Return(storage.NotFound, nil)
	store.On("DeleteIfUnclaimed", mock.Anything, int64(1)).Return(true, nil)

	report := newTestSweeper(store, blobs).Run(context.Background())

	assert.Equal(t, []string{"gone"}, report.Deleted)
	assert.Empty(t, report.Failures)
}

func TestAttachmentSweeper_BlobFailureReleasesAndContinues(t *testing.T) {
	store := new(mockAttachmentStore)
	blobs := new(mockBlobs)

	store.On("ListCandidates", mock.Anything, mock.Anything).Return([]domain.FileAttachment{
		staleAttachment(1, "a"), staleAttachment(2, "b"), staleAttachment(3, "c"),
	}, nil)
	store.On("Reserve", mock.Anything, mock.Anything).Return(true, nil)
	blobs.On("Delete", mock.Anything, "a").Return(storage.Deleted, nil)
	blobs.On("Delete", mock.Anything, "b").Return(storage.Failed, errors.New("text file busy"))
	blobs.On("Delete", mock.Anything, "c").Return(storage.Deleted, nil)
	store.On("Release", mock.Anything, int64(2)).Return(nil)
	store.On("DeleteIfUnclaimed", mock.Anything, int64(1)).Return(true, nil)
	store.On("DeleteIfUnclaimed", mock.Anything, int64(3)).Return(true, nil)

	report := newTestSweeper(store, blobs).Run(context.Background())

	require.NoError(t, report.Err)
	assert.Equal(t, []string{"a", "c"}, report.Deleted)
	require.Len(t, report.Failures, 1)
	assert.Equal(t, "b", report.Failures[0].Key)
	assert.ErrorIs(t, report.Failures[0].Err, ErrResourceBusy)
	store.AssertCalled(t, "Release", mock.Anything, int64(2))
	store.AssertNotCalled(t, "DeleteIfUnclaimed", mock.Anything, int64(2))
}

func TestAttachmentSweeper_LostReservationIsARace(t *testing.T) {
	store := new(mockAttachmentStore)
	blobs := new(mockBlobs)

	store.On("ListCandidates", mock.Anything, mock.Anything).Return([]domain.FileAttachment{staleAttachment(1, "a")}, nil)
	store.On("Reserve", mock.Anything, int64(1)).Return(false, nil)

	report := newTestSweeper(store, blobs).Run(context.Background())

	assert.Equal(t, 1, report.Raced)
	assert.Empty(t, report.Failures)
	assert.Empty(t, report.Deleted)
	blobs.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestAttachmentSweeper_StoreErrorOnOneCandidateDoesNotStopPass(t *testing.T) {
	store := new(mockAttachmentStore)
	blobs := new(mockBlobs)

	store.On("ListCandidates", mock.Anything, mock.Anything).Return([]domain.FileAttachment{
		staleAttachment(1, "a"), staleAttachment(2, "b"),
	}, nil)
	store.On("Reserve", mock.Anything, int64(1)).Return(false, errors.New("database is locked"))
	store.On("Reserve", mock.Anything, int64(2)).Return(true, nil)
	blobs.On("Delete", mock.Anything, "b").Return(storage.Deleted, nil)
	store.On("DeleteIfUnclaimed", mock.Anything, int64(2)).Return(true, nil)

	report := newTestSweeper(store, blobs).Run(context.Background())

	assert.Equal(t, []string{"b"}, report.Deleted)
	require.Len(t, report.Failures, 1)
	assert.Equal(t, "a", report.Failures[0].Key)
}

type hangingBlobs struct{}

func (hangingBlobs) Delete(ctx context.Context, key string) (storage.DeleteResult, error) {
	<-ctx.Done()
	return storage.Failed, ctx.Err()
}

func TestAttachmentSweeper_HungBlobDeleteTimesOut(t *testing.T) {
	store := new(mockAttachmentStore)
	store.On("ListCandidates", mock.Anything, mock.Anything).Return([]domain.FileAttachment{staleAttachment(1, "a")}, nil)
	store.On("Reserve", mock.Anything, int64(1)).Return(true, nil)

	sweeper := NewAttachmentSweeper(store, hangingBlobs{}, AttachmentSweeperConfig{
		CallTimeout: 20 * time.Millisecond,
		Clock:       NewManualClock(sweepNow),
	})
	report := sweeper.Run(context.Background())

	require.NoError(t, report.Err)
	require.Len(t, report.Failures, 1)
	assert.ErrorIs(t, report.Failures[0].Err, ErrResourceBusy)
	assert.ErrorIs(t, report.Failures[0].Err, context.DeadlineExceeded)
	store.AssertNotCalled(t, "Release", mock.Anything, mock.Anything)
	store.AssertNotCalled(t, "DeleteIfUnclaimed", mock.Anything, mock.Anything)
}

func TestAttachmentSweeper_PendingBlobDeleteKeepsReservation(t *testing.T) {
	store := new(mockAttachmentStore)
	blobs := new(mockBlobs)
	store.On("ListCandidates", mock.Anything, mock.Anything).Return([]domain.FileAttachment{
		staleAttachment(1, "a"), staleAttachment(2, "b"),
	}, nil)
	store.On("Reserve", mock.Anything, mock.Anything).Return(true, nil)
	blobs.On("Delete", mock.Anything, "a").Return(storage.Pending, errors.New("remove still running"))
	blobs.On("Delete", mock.Anything, "b").Return(storage.Deleted, nil)
	store.On("DeleteIfUnclaimed", mock.Anything, int64(2)).Return(true, nil)

	report := newTestSweeper(store, blobs).Run(context.Background())

	assert.Equal(t, []string{"b"}, report.Deleted)
	require.Len(t, report.Failures, 1)
	assert.Equal(t, "a", report.Failures[0].Key)
	assert.ErrorIs(t, report.Failures[0].Err, ErrResourceBusy)
	store.AssertNotCalled(t, "Release", mock.Anything, mock.Anything)
}

func TestAttachmentSweeper_CanceledContextStopsPass(t *testing.T) {
	store := new(mockAttachmentStore)
	store.On("ListCandidates", mock.Anything, mock.Anything).Return([]domain.FileAttachment{staleAttachment(1, "a")}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report := newTestSweeper(store, new(mockBlobs)).Run(ctx)

	assert.ErrorIs(t, report.Err, context.Canceled)
	store.AssertNotCalled(t, "Reserve", mock.Anything, mock.Anything)
}
