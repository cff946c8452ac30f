package repository

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"labtrack_backend/internals/features/kits/model"
)

func setupMockDB(t *testing.T) (sqlmock.Sqlmock, *KitRepository) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return mock, NewKitRepository(db)
}

func TestBatchIDsByKitType(t *testing.T) {
	mock, repo := setupMockDB(t)
	kt := uuid.New()
	b1, b2 := uuid.New(), uuid.New()

	mock.ExpectQuery(`SELECT "id" FROM "kit_batches" WHERE kit_type_id = \$1`).
		WithArgs(kt).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(b1).AddRow(b2))

	ids, err := repo.BatchIDsByKitType(context.Background(), kt)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{b1, b2}, ids)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCountByStatus(t *testing.T) {
	mock, repo := setupMockDB(t)
	b1, b2 := uuid.New(), uuid.New()

	mock.ExpectQuery(`SELECT count\(\*\) FROM "kits" WHERE batch_id IN \(\$1,\$2\) AND status = \$3`).
		WithArgs(b1, b2, model.KitInStock).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(7))

	n, err := repo.CountByStatus(context.Background(), []uuid.UUID{b1, b2}, model.KitInStock)
	require.NoError(t, err)
	assert.Equal(t, int64(7), n)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPickKits_LocksSkippingLockedRows(t *testing.T) {
	mock, repo := setupMockDB(t)
	b1 := uuid.New()
	k1 := uuid.New()

	mock.ExpectQuery(`SELECT "id","batch_id","kit_code","status","created_at" FROM "kits" WHERE batch_id IN \(\$1\) AND status IN \(\$2,\$3\) ORDER BY created_at ASC, kit_code ASC LIMIT \$4 FOR UPDATE SKIP LOCKED`).
		WithArgs(b1, model.KitVoid, model.KitLost, 3).
		WillReturnRows(sqlmock.NewRows([]string{"id", "batch_id", "kit_code", "status"}).AddRow(k1, b1, "L-001", "void"))

	kits, err := repo.PickKits(context.Background(), []uuid.UUID{b1}, []model.KitStatus{model.KitVoid, model.KitLost}, 3)
	require.NoError(t, err)
	require.Len(t, kits, 1)
	assert.Equal(t, model.KitVoid, kits[0].Status)
	assert.Equal(t, "L-001", kits[0].KitCode)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAvailabilityRows_GroupedWithFilter(t *testing.T) {
	mock, repo := setupMockDB(t)
	kt := uuid.New()

	mock.ExpectQuery(`SELECT kt.id AS kit_type_id, kt.code AS kit_type_code, kt.name AS kit_type_name, k.status AS status, COUNT\(\*\) AS count FROM kits AS k JOIN kit_batches AS b ON b.id = k.batch_id JOIN kit_types AS kt ON kt.id = b.kit_type_id WHERE b.kit_type_id = \$1 GROUP BY kt.id, kt.code, kt.name, k.status ORDER BY kt.code ASC, k.status ASC`).
		WithArgs(kt).
		WillReturnRows(sqlmock.NewRows([]string{"kit_type_id", "kit_type_code", "kit_type_name", "status", "count"}).
			AddRow(kt, "A", "Kit A", "in_stock", 2).
			AddRow(kt, "A", "Kit A", "used", 1))

	rows, err := repo.AvailabilityRows(context.Background(), &kt)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, model.KitInStock, rows[0].Status)
	assert.Equal(t, int64(2), rows[0].Count)
	assert.Equal(t, "Kit A", rows[1].KitTypeName)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPickKits_RejectsNonPositiveLimit(t *testing.T) {
	mock, repo := setupMockDB(t)
	b1 := uuid.New()

	for _, limit := range []int{0, -9} {
		kits, err := repo.PickKits(context.Background(), []uuid.UUID{b1}, []model.KitStatus{model.KitInStock}, limit)
		assert.Error(t, err)
		assert.Empty(t, kits)
	}

	// tidak ada query sama sekali
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateKitStatus_KeepsNoteWhenNil(t *testing.T) {
	mock, repo := setupMockDB(t)
	k1 := uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "kits" SET "status"=\$1,"updated_at"=\$2 WHERE id IN \(\$3\)$`).
		WithArgs(model.KitExpired, sqlmock.AnyArg(), k1).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.UpdateKitStatus(context.Background(), []uuid.UUID{k1}, model.KitExpired, nil))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateKitStatus_WritesNoteWhenGiven(t *testing.T) {
	mock, repo := setupMockDB(t)
	k1 := uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "kits" SET "note"=\$1,"status"=\$2,"updated_at"=\$3 WHERE id IN \(\$4\)$`).
		WithArgs("rơi vỡ", model.KitVoid, sqlmock.AnyArg(), k1).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	reason := "rơi vỡ"
	require.NoError(t, repo.UpdateKitStatus(context.Background(), []uuid.UUID{k1}, model.KitVoid, &reason))
	require.NoError(t, mock.ExpectationsWereMet())
}
