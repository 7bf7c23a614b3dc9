package store

import (
	"bytes"
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/sisocc/internal/models"
	"github.com/shenikar/sisocc/internal/store/mocks"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var baseTime = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

func newTestStore(t *testing.T) (*Store, *mocks.MockRemoteClient) {
	ctrl := gomock.NewController(t)
	remote := mocks.NewMockRemoteClient(ctrl)
	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{}) // Отключаем вывод логов в тестах
	return New(remote, logger), remote
}

func occurrence(status models.Status, minutes int) models.Occurrence {
	created := baseTime.Add(time.Duration(minutes) * time.Minute)
	return models.Occurrence{
		ID:          uuid.New(),
		Tipo:        "INCENDIO",
		Local:       "Praça X",
		Endereco:    "Rua Y, 10",
		Latitude:    -8.05,
		Longitude:   -34.90,
		CoordSource: models.CoordResolved,
		Status:      status,
		Prioridade:  models.PriorityAlta,
		CreatedAt:   created,
		UpdatedAt:   created,
	}
}

func TestRefresh_ReplacesWholesale(t *testing.T) {
	// Подготовка
	s, remote := newTestStore(t)
	old := occurrence(models.StatusNovo, 0)
	s.HandleCreated(old)

	a := occurrence(models.StatusNovo, 1)
	b := occurrence(models.StatusConcluido, 2)

	// Ожидания
	remote.EXPECT().ListOccurrences(gomock.Any()).Return([]models.Occurrence{a, b, a}, nil).Times(1)

	// Действие
	err := s.Refresh(context.Background())

	// Проверки
	require.NoError(t, err)
	assert.Equal(t, []models.Occurrence{b, a}, s.Snapshot())
	_, found := s.Get(old.ID)
	assert.False(t, found)
}

func TestRefresh_FailureKeepsCollection(t *testing.T) {
	s, remote := newTestStore(t)
	a := occurrence(models.StatusNovo, 0)
	s.HandleCreated(a)

	remote.EXPECT().ListOccurrences(gomock.Any()).Return(nil, errors.New("connection refused")).Times(1)

	err := s.Refresh(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
	assert.Equal(t, []models.Occurrence{a}, s.Snapshot())
}

func TestCreatedEventThenRefresh_NoDuplicate(t *testing.T) {
	s, remote := newTestStore(t)
	a := occurrence(models.StatusNovo, 0)
	b := occurrence(models.StatusNovo, 1)

	remote.EXPECT().ListOccurrences(gomock.Any()).Return([]models.Occurrence{a, b}, nil).Times(1)

	s.HandleCreated(b)
	require.NoError(t, s.Refresh(context.Background()))

	assert.Equal(t, 2, s.Len())
}

func TestCreatedEventDuringRefresh_SurvivesResult(t *testing.T) {
	s, remote := newTestStore(t)
	a := occurrence(models.StatusNovo, 0)
	late := occurrence(models.StatusNovo, 5)

	// Событие приходит, пока список еще в пути, и сервер его не содержит
	remote.EXPECT().ListOccurrences(gomock.Any()).DoAndReturn(func(ctx context.Context) ([]models.Occurrence, error) {
		s.HandleCreated(late)
		return []models.Occurrence{a}, nil
	}).Times(1)

	require.NoError(t, s.Refresh(context.Background()))

	assert.Equal(t, []models.Occurrence{late, a}, s.Snapshot())
}

func TestCreatedEventDuringRefresh_AlsoInResult(t *testing.T) {
	s, remote := newTestStore(t)
	a := occurrence(models.StatusNovo, 0)

	remote.EXPECT().ListOccurrences(gomock.Any()).DoAndReturn(func(ctx context.Context) ([]models.Occurrence, error) {
		s.HandleCreated(a)
		return []models.Occurrence{a}, nil
	}).Times(1)

	require.NoError(t, s.Refresh(context.Background()))

	assert.Equal(t, 1, s.Len())
}

func TestEventsDuringRefresh_UpdateAndDeleteReplayed(t *testing.T) {
	s, remote := newTestStore(t)
	a := occurrence(models.StatusNovo, 0)
	b := occurrence(models.StatusNovo, 1)

	remote.EXPECT().ListOccurrences(gomock.Any()).Return([]models.Occurrence{a, b}, nil).Times(1)
	require.NoError(t, s.Refresh(context.Background()))

	updated := a
	updated.Status = models.StatusEmAnalise
	updated.UpdatedAt = a.UpdatedAt.Add(time.Minute)

	// Сервер отдает состояние до изменения
	remote.EXPECT().ListOccurrences(gomock.Any()).DoAndReturn(func(ctx context.Context) ([]models.Occurrence, error) {
		s.HandleUpdated(updated)
		s.HandleDeleted(b)
		return []models.Occurrence{a, b}, nil
	}).Times(1)

	require.NoError(t, s.Refresh(context.Background()))

	assert.Equal(t, []models.Occurrence{updated}, s.Snapshot())
}

func TestStaleRefreshDiscarded(t *testing.T) {
	s, remote := newTestStore(t)
	first := occurrence(models.StatusNovo, 0)
	second := occurrence(models.StatusNovo, 1)

	started := make(chan struct{})
	release := make(chan struct{})
	gomock.InOrder(
		remote.EXPECT().ListOccurrences(gomock.Any()).DoAndReturn(func(ctx context.Context) ([]models.Occurrence, error) {
			close(started)
			<-release
			return []models.Occurrence{first}, nil
		}),
		remote.EXPECT().ListOccurrences(gomock.Any()).Return([]models.Occurrence{second}, nil),
	)

	done := make(chan error, 1)
	go func() { done <- s.Refresh(context.Background()) }()
	<-started

	require.NoError(t, s.Refresh(context.Background()))
	close(release)
	require.NoError(t, <-done)

	assert.Equal(t, []models.Occurrence{second}, s.Snapshot())
}

func TestHandleUpdated_UnknownIDDropped(t *testing.T) {
	s, _ := newTestStore(t)
	a := occurrence(models.StatusNovo, 0)
	s.HandleCreated(a)

	var notified int32
	s.Subscribe(func() { atomic.AddInt32(&notified, 1) })

	s.HandleUpdated(occurrence(models.StatusEmAnalise, 1))

	assert.Equal(t, []models.Occurrence{a}, s.Snapshot())
	assert.Equal(t, int32(0), atomic.LoadInt32(&notified))
}

func TestUpsert_OlderVersionIgnored(t *testing.T) {
	s, _ := newTestStore(t)
	a := occurrence(models.StatusNovo, 0)
	newer := a
	newer.Status = models.StatusEmAnalise
	newer.UpdatedAt = a.UpdatedAt.Add(time.Minute)

	s.HandleUpdated(newer) // неизвестный id
	s.HandleCreated(newer)
	s.HandleUpdated(a)
	s.HandleCreated(a)

	got, found := s.Get(a.ID)
	require.True(t, found)
	assert.Equal(t, models.StatusEmAnalise, got.Status)
}

func TestHandleDeleted(t *testing.T) {
	s, _ := newTestStore(t)
	a := occurrence(models.StatusNovo, 0)
	b := occurrence(models.StatusNovo, 1)
	s.HandleCreated(a)
	s.HandleCreated(b)

	s.HandleDeleted(a)
	s.HandleDeleted(a)

	assert.Equal(t, []models.Occurrence{b}, s.Snapshot())
}

func TestAdd_NoOptimisticInsert(t *testing.T) {
	s, remote := newTestStore(t)
	created := occurrence(models.StatusNovo, 0)
	draft := models.Draft{Tipo: "INCENDIO", Local: "Praça X", Endereco: "Rua Y, 10"}

	gomock.InOrder(
		remote.EXPECT().CreateOccurrence(gomock.Any(), draft).Return(&created, nil),
		remote.EXPECT().ListOccurrences(gomock.Any()).Return(nil, errors.New("timeout")),
	)

	occ, err := s.Add(context.Background(), draft)

	// Ошибка обновления не возвращается, запись не вставлена локально
	require.NoError(t, err)
	assert.Equal(t, created.ID, occ.ID)
	assert.Equal(t, 0, s.Len())
}

func TestAdd_RefreshBringsRecord(t *testing.T) {
	s, remote := newTestStore(t)
	created := occurrence(models.StatusNovo, 0)
	draft := models.Draft{Tipo: "INCENDIO", Local: "Praça X"}

	gomock.InOrder(
		remote.EXPECT().CreateOccurrence(gomock.Any(), draft).Return(&created, nil),
		remote.EXPECT().ListOccurrences(gomock.Any()).Return([]models.Occurrence{created}, nil),
	)

	_, err := s.Add(context.Background(), draft)

	require.NoError(t, err)
	assert.Equal(t, []models.Occurrence{created}, s.Snapshot())
}

func TestAdd_ErrorSkipsRefresh(t *testing.T) {
	s, remote := newTestStore(t)
	remote.EXPECT().CreateOccurrence(gomock.Any(), gomock.Any()).Return(nil, errors.New("server returned 500")).Times(1)
	remote.EXPECT().ListOccurrences(gomock.Any()).Times(0)

	occ, err := s.Add(context.Background(), models.Draft{Tipo: "ALAGAMENTO"})

	require.Error(t, err)
	assert.Nil(t, occ)
}

func TestUpdateAndRemove_ForwardAndRefresh(t *testing.T) {
	s, remote := newTestStore(t)
	a := occurrence(models.StatusNovo, 0)
	status := models.StatusEmAnalise
	patch := models.Patch{Status: &status}
	updated := a
	updated.Status = status

	gomock.InOrder(
		remote.EXPECT().UpdateOccurrence(gomock.Any(), a.ID, patch).Return(&updated, nil),
		remote.EXPECT().ListOccurrences(gomock.Any()).Return([]models.Occurrence{updated}, nil),
		remote.EXPECT().DeleteOccurrence(gomock.Any(), a.ID).Return(nil),
		remote.EXPECT().ListOccurrences(gomock.Any()).Return([]models.Occurrence{}, nil),
	)

	got, err := s.Update(context.Background(), a.ID, patch)
	require.NoError(t, err)
	assert.Equal(t, status, got.Status)
	assert.Equal(t, 1, s.Len())

	require.NoError(t, s.Remove(context.Background(), a.ID))
	assert.Equal(t, 0, s.Len())
}

func TestRemove_Error(t *testing.T) {
	s, remote := newTestStore(t)
	id := uuid.New()
	remote.EXPECT().DeleteOccurrence(gomock.Any(), id).Return(errors.New("not found")).Times(1)

	err := s.Remove(context.Background(), id)

	require.Error(t, err)
	assert.Contains(t, err.Error(), id.String())
}

func TestStats(t *testing.T) {
	s, _ := newTestStore(t)
	for i, status := range []models.Status{
		models.StatusNovo, models.StatusEmAnalise, models.StatusEmAtendimento,
		models.StatusConcluido, models.StatusCancelado,
	} {
		s.HandleCreated(occurrence(status, i))
	}

	stats := s.Stats()

	assert.Equal(t, models.Stats{Total: 5, Pendentes: 2, Resolvidos: 1}, stats)
	assert.LessOrEqual(t, stats.Pendentes+stats.Resolvidos, stats.Total)
}

func TestSubscribe_NotifiedOnChange(t *testing.T) {
	s, remote := newTestStore(t)
	var notified int32
	s.Subscribe(func() { atomic.AddInt32(&notified, 1) })

	remote.EXPECT().ListOccurrences(gomock.Any()).Return([]models.Occurrence{}, nil).Times(1)

	s.HandleCreated(occurrence(models.StatusNovo, 0))
	require.NoError(t, s.Refresh(context.Background()))

	assert.Equal(t, int32(2), atomic.LoadInt32(&notified))
}

func TestRun_RefreshesOnTimer(t *testing.T) {
	s, remote := newTestStore(t)
	var calls int32
	remote.EXPECT().ListOccurrences(gomock.Any()).DoAndReturn(func(ctx context.Context) ([]models.Occurrence, error) {
		atomic.AddInt32(&calls, 1)
		return []models.Occurrence{}, nil
	}).MinTimes(2)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx, 10*time.Millisecond)
		close(done)
	}()

	assert.Eventually(t, func() bool { return atomic.LoadInt32(&calls) >= 2 }, time.Second, 5*time.Millisecond)
	cancel()
	<-done
}
