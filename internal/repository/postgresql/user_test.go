package postgresql

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/jackc/pgx/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"golang.org/x/crypto/bcrypt"

	mock_database "gitlab.ozon.dev/pupkingeorgij/custody/internal/db/mocks"
	"gitlab.ozon.dev/pupkingeorgij/custody/internal/repository"
)

type stubRow struct {
	values []interface{}
	err    error
}

func (r stubRow) Scan(dest ...interface{}) error {
	if r.err != nil {
		return r.err
	}
	for i, d := range dest {
		reflect.ValueOf(d).Elem().Set(reflect.ValueOf(r.values[i]))
	}
	return nil
}

func TestUserRepo_ValidateUser(t *testing.T) {
	ctx := context.Background()
	hash, err := bcrypt.GenerateFromPassword([]byte("secret"), bcrypt.MinCost)
	require.NoError(t, err)

	tests := []struct {
		name     string
		password string
		row      stubRow
		want     bool
		wantErr  bool
	}{
		{name: "valid password", password: "secret", row: stubRow{values: []interface{}{string(hash)}}, want: true},
		{name: "wrong password", password: "guess", row: stubRow{values: []interface{}{string(hash)}}, want: false},
		{name: "unknown user", password: "secret", row: stubRow{err: pgx.ErrNoRows}, want: false},
		{name: "database error", password: "secret", row: stubRow{err: errors.New("down")}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			mockDB := mock_database.NewMockDB(ctrl)
			repo := NewUserRepo(mockDB)

			mockDB.EXPECT().ExecQueryRow(gomock.Any(), gomock.Any(), "admin").Return(tt.row)

			ok, err := repo.ValidateUser(ctx, "admin", tt.password)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, ok)
		})
	}
}

func TestUserRepo_GetByUsername(t *testing.T) {
	ctx := context.Background()

	t.Run("trims input", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		mockDB := mock_database.NewMockDB(ctrl)
		repo := NewUserRepo(mockDB)

		mockDB.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any(), "kim").
			SetArg(1, repository.User{ID: 3, Username: "Kim"}).
			Return(nil)

		user, err := repo.GetByUsername(ctx, "  kim ")
		require.NoError(t, err)
		assert.Equal(t, int64(3), user.ID)
	})

	t.Run("not found", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		mockDB := mock_database.NewMockDB(ctrl)
		repo := NewUserRepo(mockDB)

		mockDB.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any(), "ghost").Return(pgx.ErrNoRows)

		_, err := repo.GetByUsername(ctx, "ghost")
		assert.ErrorIs(t, err, repository.ErrObjectNotFound)
	})
}

func TestUserRepo_CreateUser(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockDB := mock_database.NewMockDB(ctrl)
	repo := NewUserRepo(mockDB)

	mockDB.EXPECT().ExecQueryRow(gomock.Any(), gomock.Any(), "admin", gomock.Not("admin")).
		Return(stubRow{values: []interface{}{int64(1)}})

	id, err := repo.CreateUser(context.Background(), "admin", "admin")
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)
}
