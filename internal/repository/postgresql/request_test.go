package postgresql

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	mock_database "gitlab.ozon.dev/pupkingeorgij/custody/internal/db/mocks"
	"gitlab.ozon.dev/pupkingeorgij/custody/internal/repository"
)

func testRequest() *repository.Request {
	now := time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)
	return &repository.Request{
		Code:            "c0ffee",
		RequesterID:     2,
		CurrentKeeperID: 1,
		NextKeeperID:    3,
		AccepterID:      1,
		DeviceID:        10,
		Status:          repository.RequestPending,
		BookingDate:     time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		ReturnDate:      time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC),
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

func anyArgs(n int) []interface{} {
	args := make([]interface{}, n)
	for i := range args {
		args[i] = gomock.Any()
	}
	return args
}

func TestRequestRepo_CreateTx(t *testing.T) {
	ctx := context.Background()

	t.Run("success sets id", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		mockDB := mock_database.NewMockDB(ctrl)
		mockTx := mock_database.NewMockTx(ctrl)
		repo := NewRequestRepo(mockDB)

		req := testRequest()
		mockTx.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any(),
			gomock.Eq(req.Code),
			gomock.Eq(req.RequesterID),
			gomock.Eq(req.CurrentKeeperID),
			gomock.Eq(req.NextKeeperID),
			gomock.Eq(req.AccepterID),
			gomock.Eq(req.DeviceID),
			gomock.Eq(req.Status),
			gomock.Eq(req.BookingDate),
			gomock.Eq(req.ReturnDate),
			gomock.Nil(),
			gomock.Nil(),
			gomock.Nil(),
			gomock.Eq(req.CreatedAt),
			gomock.Eq(req.UpdatedAt),
		).SetArg(1, int64(42)).Return(nil)

		require.NoError(t, repo.CreateTx(ctx, mockTx, req))
		assert.Equal(t, int64(42), req.ID)
	})

	t.Run("database error", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		mockDB := mock_database.NewMockDB(ctrl)
		mockTx := mock_database.NewMockTx(ctrl)
		repo := NewRequestRepo(mockDB)

		dbErr := errors.New("unique violation")
		mockTx.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any(), anyArgs(14)...).Return(dbErr)

		err := repo.CreateTx(ctx, mockTx, testRequest())
		assert.ErrorIs(t, err, dbErr)
	})
}

func TestRequestRepo_GetByID(t *testing.T) {
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		mockDB := mock_database.NewMockDB(ctrl)
		repo := NewRequestRepo(mockDB)

		want := testRequest()
		want.ID = 5
		mockDB.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any(), int64(5)).SetArg(1, *want).Return(nil)

		got, err := repo.GetByID(ctx, 5)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})

	t.Run("not found", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		mockDB := mock_database.NewMockDB(ctrl)
		repo := NewRequestRepo(mockDB)

		mockDB.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any(), int64(5)).Return(pgx.ErrNoRows)

		_, err := repo.GetByID(ctx, 5)
		assert.ErrorIs(t, err, repository.ErrObjectNotFound)
	})
}

func TestRequestRepo_UpdateTx(t *testing.T) {
	ctx := context.Background()
	approved := time.Date(2025, 1, 2, 12, 0, 0, 0, time.UTC)

	t.Run("success", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		mockDB := mock_database.NewMockDB(ctrl)
		mockTx := mock_database.NewMockTx(ctrl)
		repo := NewRequestRepo(mockDB)

		req := testRequest()
		req.ID = 5
		req.Status = repository.RequestApproved
		req.ApprovalDate = &approved
		mockTx.EXPECT().Exec(gomock.Any(), gomock.Any(),
			gomock.Eq(req.CurrentKeeperID),
			gomock.Eq(repository.RequestApproved),
			gomock.Eq(req.ReturnDate),
			gomock.Eq(&approved),
			gomock.Nil(),
			gomock.Nil(),
			gomock.Eq(req.UpdatedAt),
			gomock.Eq(int64(5)),
		).Return(pgconn.CommandTag("UPDATE 1"), nil)

		assert.NoError(t, repo.UpdateTx(ctx, mockTx, req))
	})

	t.Run("missing row", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		mockDB := mock_database.NewMockDB(ctrl)
		mockTx := mock_database.NewMockTx(ctrl)
		repo := NewRequestRepo(mockDB)

		mockTx.EXPECT().Exec(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(),
			gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(pgconn.CommandTag("UPDATE 0"), nil)

		err := repo.UpdateTx(ctx, mockTx, testRequest())
		assert.ErrorIs(t, err, repository.ErrObjectNotFound)
	})
}

func TestRequestRepo_ListByDeviceTx(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockDB := mock_database.NewMockDB(ctrl)
	mockTx := mock_database.NewMockTx(ctrl)
	repo := NewRequestRepo(mockDB)

	first, second := testRequest(), testRequest()
	first.ID, second.ID = 1, 2
	mockTx.EXPECT().Select(gomock.Any(), gomock.Any(), gomock.Any(), int64(10)).
		SetArg(1, []*repository.Request{first, second}).
		Return(nil)

	got, err := repo.ListByDeviceTx(context.Background(), mockTx, 10)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestRequestRepo_ListViewsByEmployee(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockDB := mock_database.NewMockDB(ctrl)
	repo := NewRequestRepo(mockDB)

	view := &repository.RequestView{Request: *testRequest(), DeviceName: "Pixel 8", RequesterName: "rita"}
	mockDB.EXPECT().Select(gomock.Any(), gomock.Any(), gomock.Any(), int64(2)).
		DoAndReturn(func(_ context.Context, dest interface{}, query string, _ ...interface{}) error {
			assert.Contains(t, query, "r.accepter_id")
			*dest.(*[]*repository.RequestView) = []*repository.RequestView{view}
			return nil
		})

	got, err := repo.ListViewsByEmployee(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Pixel 8", got[0].DeviceName)
}

func TestRequestRepo_ExistsAndDeleteByStatus(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	mockDB := mock_database.NewMockDB(ctrl)
	mockTx := mock_database.NewMockTx(ctrl)
	repo := NewRequestRepo(mockDB)

	mockDB.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any(), int64(10), repository.RequestPending).
		SetArg(1, true).
		Return(nil)
	mockTx.EXPECT().Exec(gomock.Any(), gomock.Any(), int64(10), repository.RequestPending).
		Return(pgconn.CommandTag("DELETE 3"), nil)

	exists, err := repo.ExistsByStatusAndDevice(ctx, 10, repository.RequestPending)
	require.NoError(t, err)
	assert.True(t, exists)

	deleted, err := repo.DeleteByStatusAndDeviceTx(ctx, mockTx, 10, repository.RequestPending)
	require.NoError(t, err)
	assert.Equal(t, int64(3), deleted)
}
