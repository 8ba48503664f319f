package store

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raisehub/admin-manager/internal/apperr"
	"github.com/raisehub/admin-manager/internal/entity"
	"github.com/raisehub/admin-manager/internal/service"
)

func newMockStore(t *testing.T) (*PGStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewFromDB(sqlx.NewDb(db, "postgres")), mock
}

var languageRowColumns = []string{
	"id", "public_id", "name", "folder_code", "iso2", "iso3",
	"flag_image", "direction", "is_default", "is_active", "created_at", "updated_at",
}

func languageRow(id, publicId, name, folder string, isDefault bool) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows(languageRowColumns).
		AddRow(id, publicId, name, folder, "US", "eng", "", "ltr", isDefault, true, now, now)
}

func TestLanguageStoreGetByPublicId(t *testing.T) {
	ps, mock := newMockStore(t)
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		mock.ExpectQuery(`SELECT (.+) FROM language WHERE public_id = \$1`).
			WithArgs("pub-1").
			WillReturnRows(languageRow("id-1", "pub-1", "English", "en", true))

		lang, err := ps.Languages().GetByPublicId(ctx, "pub-1")
		require.NoError(t, err)
		assert.Equal(t, "English", lang.Name)
		assert.True(t, lang.IsDefault)
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery(`SELECT (.+) FROM language WHERE public_id = \$1`).
			WithArgs("missing").
			WillReturnRows(sqlmock.NewRows(languageRowColumns))

		_, err := ps.Languages().GetByPublicId(ctx, "missing")
		assert.ErrorIs(t, err, apperr.ErrNotFound)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLanguageStoreMalformedIdIsNotFound(t *testing.T) {
	ps, mock := newMockStore(t)
	ctx := context.Background()

	// 22P02 means the value cannot be a uuid, so it cannot match a row.
	t.Run("query", func(t *testing.T) {
		mock.ExpectQuery(`SELECT (.+) FROM language WHERE public_id = \$1`).
			WithArgs("not-a-uuid").
			WillReturnError(&pq.Error{Code: "22P02"})

		_, err := ps.Languages().GetByPublicId(ctx, "not-a-uuid")
		assert.ErrorIs(t, err, apperr.ErrNotFound)
	})

	t.Run("exec", func(t *testing.T) {
		mock.ExpectExec(`UPDATE language SET (.+) WHERE public_id = \$(\d)`).
			WillReturnError(&pq.Error{Code: "22P02"})

		name := "Renamed"
		err := ps.Languages().UpdateByPublicId(ctx, "not-a-uuid", entity.LanguageUpdate{Name: &name})
		assert.ErrorIs(t, err, apperr.ErrNotFound)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLanguageResolveMalformedTokenOverStore(t *testing.T) {
	ps, mock := newMockStore(t)

	mock.ExpectQuery(`SELECT (.+) FROM language WHERE public_id = \$1`).
		WithArgs("not-a-language").
		WillReturnError(&pq.Error{Code: "22P02"})
	mock.ExpectQuery(`SELECT (.+) FROM language WHERE id = \$1`).
		WithArgs("not-a-language").
		WillReturnError(&pq.Error{Code: "22P02"})

	ls := service.NewLanguage(ps, nil)
	_, err := ls.Resolve(context.Background(), "not-a-language")
	assert.True(t, apperr.IsKind(err, apperr.KindLanguageResolution), "got %v", err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLanguageStoreInsert(t *testing.T) {
	ps, mock := newMockStore(t)

	mock.ExpectQuery(`INSERT INTO language (.+) RETURNING`).
		WithArgs("pub-1", "English", "en", "US", "eng", "", "ltr", true, true).
		WillReturnRows(languageRow("id-1", "pub-1", "English", "en", true))

	lang, err := ps.Languages().Insert(context.Background(), &entity.Language{
		PublicId:   "pub-1",
		Name:       "English",
		FolderCode: "en",
		ISO2:       "US",
		ISO3:       "eng",
		Direction:  entity.DirectionLTR,
		IsDefault:  true,
		IsActive:   true,
	})
	require.NoError(t, err)
	assert.Equal(t, "id-1", lang.Id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLanguageStoreList(t *testing.T) {
	ps, mock := newMockStore(t)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM language`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(42))
	mock.ExpectQuery(`SELECT (.+) FROM language WHERE (.+) ORDER BY is_default DESC, name ASC LIMIT \$(\d) OFFSET \$(\d)`).
		WillReturnRows(languageRow("id-1", "pub-1", "English", "en", true))

	active := true
	langs, pg, err := ps.Languages().List(context.Background(),
		entity.LanguageFilter{IsActive: &active},
		entity.ListOptions{Limit: 20, Offset: 20},
	)
	require.NoError(t, err)
	assert.Len(t, langs, 1)
	assert.Equal(t, 42, pg.TotalCount)
	assert.Equal(t, 2, pg.CurrentPage)
	assert.Equal(t, 3, pg.TotalPages)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLanguageStoreUpdateNotFound(t *testing.T) {
	ps, mock := newMockStore(t)

	mock.ExpectExec(`UPDATE language SET (.+) WHERE public_id = \$(\d)`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	name := "Renamed"
	err := ps.Languages().UpdateByPublicId(context.Background(), "missing", entity.LanguageUpdate{Name: &name})
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLanguageStoreClearDefault(t *testing.T) {
	ps, mock := newMockStore(t)

	mock.ExpectExec(`UPDATE language SET is_default = FALSE`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, ps.Languages().ClearDefault(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLanguageStoreBulkDeleteSkipsDefault(t *testing.T) {
	ps, mock := newMockStore(t)

	// The default language is collected first, then the delete excludes it.
	mock.ExpectQuery(`SELECT public_id FROM language WHERE public_id IN \(\$1, \$2\) AND is_default = TRUE`).
		WithArgs("pub-1", "pub-2").
		WillReturnRows(sqlmock.NewRows([]string{"public_id"}).AddRow("pub-1"))
	mock.ExpectExec(`DELETE FROM language WHERE public_id IN \(\$1, \$2\) AND is_default = FALSE`).
		WithArgs("pub-1", "pub-2").
		WillReturnResult(sqlmock.NewResult(0, 1))

	res, err := ps.Languages().BulkDelete(context.Background(), []string{"pub-1", "pub-2"})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Count)
	assert.Equal(t, []string{"pub-1"}, res.SkippedIds)
	assert.NoError(t, mock.ExpectationsWereMet())
}
