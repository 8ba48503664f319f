package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raisehub/admin-manager/internal/apperr"
	"github.com/raisehub/admin-manager/internal/entity"
)

type fakeFileStore struct {
	uploads []string
}

func (f *fakeFileStore) UploadFlagImage(_ context.Context, _ string, folder, imageName string) (string, error) {
	path := fmt.Sprintf("/files/%s/%s.png", folder, imageName)
	f.uploads = append(f.uploads, path)
	return path, nil
}

func TestCountryCreateUploadsFlag(t *testing.T) {
	bucket := &fakeFileStore{}
	cs := NewCountry(newFakeRepo(), nil, bucket)

	created, err := cs.Create(context.Background(), entity.Country{
		Name: "United States", ISO2: "us", ISO3: "usa", IsActive: true,
	}, "aGVsbG8=")
	require.NoError(t, err)

	assert.Equal(t, "/files/country/us.png", created.FlagImage)
	assert.Equal(t, "US", created.ISO2)
	assert.Len(t, bucket.uploads, 1)
}

func TestCountryCreateClearsPreviousDefault(t *testing.T) {
	repo := newFakeRepo()
	cs := NewCountry(repo, nil, nil)
	ctx := context.Background()

	us, err := cs.Create(ctx, entity.Country{Name: "United States", ISO2: "US", ISO3: "USA", IsDefault: true, IsActive: true}, "")
	require.NoError(t, err)
	de, err := cs.Create(ctx, entity.Country{Name: "Germany", ISO2: "DE", ISO3: "DEU", IsDefault: true, IsActive: true}, "")
	require.NoError(t, err)

	usAfter, err := cs.Get(ctx, us.PublicId)
	require.NoError(t, err)
	assert.False(t, usAfter.IsDefault)

	deAfter, err := cs.Get(ctx, de.PublicId)
	require.NoError(t, err)
	assert.True(t, deAfter.IsDefault)
}

func TestCountryDeleteGuards(t *testing.T) {
	repo := newFakeRepo()
	cs := NewCountry(repo, nil, nil)
	ctx := context.Background()

	def, err := cs.Create(ctx, entity.Country{Name: "United States", ISO2: "US", ISO3: "USA", IsDefault: true, IsActive: true}, "")
	require.NoError(t, err)
	used, err := cs.Create(ctx, entity.Country{Name: "Germany", ISO2: "DE", ISO3: "DEU", IsActive: true}, "")
	require.NoError(t, err)
	free, err := cs.Create(ctx, entity.Country{Name: "France", ISO2: "FR", ISO3: "FRA", IsActive: true}, "")
	require.NoError(t, err)

	require.NoError(t, repo.Countries().IncrementUseCount(ctx, used.PublicId, 3))

	err = cs.Delete(ctx, def.PublicId)
	assert.True(t, apperr.IsKind(err, apperr.KindInUse), "default country: %v", err)

	err = cs.Delete(ctx, used.PublicId)
	assert.True(t, apperr.IsKind(err, apperr.KindInUse), "referenced country: %v", err)

	require.NoError(t, cs.Delete(ctx, free.PublicId))
}

func TestCountryBulkDeleteReportsSkipped(t *testing.T) {
	repo := newFakeRepo()
	cs := NewCountry(repo, nil, nil)
	ctx := context.Background()

	def, err := cs.Create(ctx, entity.Country{Name: "United States", ISO2: "US", ISO3: "USA", IsDefault: true, IsActive: true}, "")
	require.NoError(t, err)
	used, err := cs.Create(ctx, entity.Country{Name: "Germany", ISO2: "DE", ISO3: "DEU", IsActive: true}, "")
	require.NoError(t, err)
	free, err := cs.Create(ctx, entity.Country{Name: "France", ISO2: "FR", ISO3: "FRA", IsActive: true}, "")
	require.NoError(t, err)

	require.NoError(t, repo.Countries().IncrementUseCount(ctx, used.PublicId, 1))

	res, err := cs.BulkDelete(ctx, []string{def.PublicId, used.PublicId, free.PublicId})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Count)
	assert.ElementsMatch(t, []string{def.PublicId, used.PublicId}, res.SkippedIds)
}

func TestCountryUseCountNeverNegative(t *testing.T) {
	repo := newFakeRepo()
	cs := NewCountry(repo, nil, nil)
	ctx := context.Background()

	c, err := cs.Create(ctx, entity.Country{Name: "Germany", ISO2: "DE", ISO3: "DEU", IsActive: true}, "")
	require.NoError(t, err)

	require.NoError(t, repo.Countries().IncrementUseCount(ctx, c.PublicId, -5))
	after, err := cs.Get(ctx, c.PublicId)
	require.NoError(t, err)
	assert.Equal(t, 0, after.UseCount)
}

func TestCountryCreateDuplicateISO(t *testing.T) {
	cs := NewCountry(newFakeRepo(), nil, nil)
	ctx := context.Background()

	_, err := cs.Create(ctx, entity.Country{Name: "Germany", ISO2: "DE", ISO3: "DEU", IsActive: true}, "")
	require.NoError(t, err)

	_, err = cs.Create(ctx, entity.Country{Name: "Deutschland", ISO2: "DE", ISO3: "DEU", IsActive: true}, "")
	assert.True(t, apperr.IsKind(err, apperr.KindAlreadyExists))
}
