package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/health-predictor/internal/adapter"
	"github.com/magabrotheeeer/health-predictor/internal/lib/digest"
	"github.com/magabrotheeeer/health-predictor/internal/models"
)

type PredictionRepositoryMock struct {
	mock.Mock
}

func (m *PredictionRepositoryMock) SavePrediction(ctx context.Context, entry models.PredictionEntry) (int64, error) {
	args := m.Called(ctx, entry)
	return args.Get(0).(int64), args.Error(1)
}

func (m *PredictionRepositoryMock) ListPredictions(ctx context.Context, userUID string, modality models.Modality, limit, offset int) ([]*models.PredictionEntry, error) {
	args := m.Called(ctx, userUID, modality, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.PredictionEntry), args.Error(1)
}

type CacheMock struct {
	mock.Mock
}

func (m *CacheMock) Get(key string, result any) (bool, error) {
	args := m.Called(key, result)
	return args.Bool(0), args.Error(1)
}

func (m *CacheMock) Set(key string, value any, expiration time.Duration) error {
	args := m.Called(key, value, expiration)
	return args.Error(0)
}

func (m *CacheMock) Invalidate(key string) error {
	args := m.Called(key)
	return args.Error(0)
}

// adapterStub отвечает фиксированным результатом или ошибкой.
type adapterStub struct {
	modality models.Modality
	result   *adapter.Result
	err      error
}

func (a *adapterStub) Modality() models.Modality { return a.modality }

func (a *adapterStub) Predict(_ context.Context, _ []byte) (*adapter.Result, error) {
	return a.result, a.err
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestPredictionService_Predict_Success(t *testing.T) {
	repo := new(PredictionRepositoryMock)
	cache := new(CacheMock)
	stub := &adapterStub{
		modality: models.ModalityDiabetes,
		result:   &adapter.Result{Label: adapter.LabelPositive, Confidence: 0.87},
	}
	service := NewPredictionService(repo, adapter.NewRegistry(stub), cache, newNoopLogger())

	input := []byte(`{"some":"payload"}`)
	repo.On("SavePrediction", mock.Anything, mock.MatchedBy(func(e models.PredictionEntry) bool {
		// В журнал уходит дайджест входа, а не сам вход.
		return e.UserUID == "uid-1" &&
			e.Modality == models.ModalityDiabetes &&
			e.InputDigest == digest.Sum(input) &&
			e.ResultLabel == adapter.LabelPositive &&
			e.ResultConfidence == 0.87
	})).Return(int64(7), nil)
	cache.On("Invalidate", "history:uid-1").Return(nil)

	entry, err := service.Predict(context.Background(), "uid-1", models.ModalityDiabetes, input)
	require.NoError(t, err)
	assert.Equal(t, int64(7), entry.ID)
	assert.Equal(t, adapter.LabelPositive, entry.ResultLabel)

	repo.AssertExpectations(t)
	cache.AssertExpectations(t)
}

func TestPredictionService_Predict_AdapterErrorLeavesNoTrace(t *testing.T) {
	repo := new(PredictionRepositoryMock)
	cache := new(CacheMock)
	stub := &adapterStub{
		modality: models.ModalityDiabetes,
		err:      models.ErrInvalidInput,
	}
	service := NewPredictionService(repo, adapter.NewRegistry(stub), cache, newNoopLogger())

	_, err := service.Predict(context.Background(), "uid-1", models.ModalityDiabetes, []byte(`{}`))
	require.ErrorIs(t, err, models.ErrInvalidInput)

	// Ошибка адаптера не должна оставить записи в журнале.
	repo.AssertNotCalled(t, "SavePrediction", mock.Anything, mock.Anything)
	cache.AssertNotCalled(t, "Invalidate", mock.Anything)
}

func TestPredictionService_Predict_UnknownModality(t *testing.T) {
	repo := new(PredictionRepositoryMock)
	cache := new(CacheMock)
	service := NewPredictionService(repo, adapter.NewRegistry(), cache, newNoopLogger())

	_, err := service.Predict(context.Background(), "uid-1", models.ModalityDiabetes, []byte(`{}`))
	assert.Error(t, err)
	repo.AssertNotCalled(t, "SavePrediction", mock.Anything, mock.Anything)
}

func TestPredictionService_Predict_SaveFailureIsReturned(t *testing.T) {
	repo := new(PredictionRepositoryMock)
	cache := new(CacheMock)
	stub := &adapterStub{
		modality: models.ModalityDiabetes,
		result:   &adapter.Result{Label: adapter.LabelNegative, Confidence: 0.6},
	}
	service := NewPredictionService(repo, adapter.NewRegistry(stub), cache, newNoopLogger())

	saveErr := errors.New("connection refused")
	repo.On("SavePrediction", mock.Anything, mock.Anything).Return(int64(0), saveErr)

	// Результат считается выданным только после записи в журнал.
	_, err := service.Predict(context.Background(), "uid-1", models.ModalityDiabetes, []byte(`{}`))
	assert.ErrorIs(t, err, saveErr)
	cache.AssertNotCalled(t, "Invalidate", mock.Anything)
}

func TestPredictionService_History_CacheMiss(t *testing.T) {
	repo := new(PredictionRepositoryMock)
	cache := new(CacheMock)
	service := NewPredictionService(repo, adapter.NewRegistry(), cache, newNoopLogger())

	entries := []*models.PredictionEntry{
		{ID: 2, UserUID: "uid-1", Modality: models.ModalityDiabetes},
		{ID: 1, UserUID: "uid-1", Modality: models.ModalityPneumonia},
	}
	cache.On("Get", "history:uid-1", mock.Anything).Return(false, nil)
	repo.On("ListPredictions", mock.Anything, "uid-1", models.Modality(""), DefaultHistoryLimit, 0).
		Return(entries, nil)
	cache.On("Set", "history:uid-1", entries, time.Hour).Return(nil)

	got, err := service.History(context.Background(), "uid-1", "", 0, 0)
	require.NoError(t, err)
	assert.Equal(t, entries, got)

	repo.AssertExpectations(t)
	cache.AssertExpectations(t)
}

func TestPredictionService_History_CacheHitSkipsRepository(t *testing.T) {
	repo := new(PredictionRepositoryMock)
	cache := new(CacheMock)
	service := NewPredictionService(repo, adapter.NewRegistry(), cache, newNoopLogger())

	cache.On("Get", "history:uid-1", mock.Anything).Run(func(args mock.Arguments) {
		out := args.Get(1).(*[]*models.PredictionEntry)
		*out = []*models.PredictionEntry{{ID: 5, UserUID: "uid-1"}}
	}).Return(true, nil)

	got, err := service.History(context.Background(), "uid-1", "", 0, 0)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, int64(5), got[0].ID)

	repo.AssertNotCalled(t, "ListPredictions",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestPredictionService_History_FilteredRequestBypassesCache(t *testing.T) {
	repo := new(PredictionRepositoryMock)
	cache := new(CacheMock)
	service := NewPredictionService(repo, adapter.NewRegistry(), cache, newNoopLogger())

	repo.On("ListPredictions", mock.Anything, "uid-1", models.ModalityParkinsons, 10, 20).
		Return([]*models.PredictionEntry{}, nil)

	_, err := service.History(context.Background(), "uid-1", models.ModalityParkinsons, 10, 20)
	require.NoError(t, err)

	cache.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
	cache.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything)
}

func TestPredictionService_History_CacheFailureFallsThrough(t *testing.T) {
	repo := new(PredictionRepositoryMock)
	cache := new(CacheMock)
	service := NewPredictionService(repo, adapter.NewRegistry(), cache, newNoopLogger())

	cache.On("Get", "history:uid-1", mock.Anything).Return(false, errors.New("redis down"))
	repo.On("ListPredictions", mock.Anything, "uid-1", models.Modality(""), DefaultHistoryLimit, 0).
		Return([]*models.PredictionEntry{}, nil)
	cache.On("Set", "history:uid-1", mock.Anything, time.Hour).Return(errors.New("redis down"))

	// Недоступный кеш не мешает отдать историю из хранилища.
	_, err := service.History(context.Background(), "uid-1", "", 0, 0)
	assert.NoError(t, err)
	repo.AssertExpectations(t)
}
