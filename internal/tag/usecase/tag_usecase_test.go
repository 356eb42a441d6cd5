package usecase

import (
	"strings"
	"testing"

	"github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/internal/tag/repository"
	"github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/internal/testutil"
	"github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/pkg/apperror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTagUsecase(t *testing.T) TagUsecase {
	return NewTagUsecase(repository.NewTagRepository(testutil.NewDB(t)))
}

func TestCreateAndGetByName(t *testing.T) {
	uc := newTagUsecase(t)

	tag, err := uc.Create("  backend ")
	require.NoError(t, err)
	assert.Equal(t, "backend", tag.Name)

	_, err = uc.Create("backend")
	assert.Equal(t, apperror.KindConflict, apperror.KindOf(err))

	got, err := uc.GetByName("backend")
	require.NoError(t, err)
	assert.Equal(t, tag.ID, got.ID)

	_, err = uc.GetByName("frontend")
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
}

func TestCreateValidatesName(t *testing.T) {
	uc := newTagUsecase(t)

	_, err := uc.Create("   ")
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))

	_, err = uc.Create(strings.Repeat("x", maxNameLength+1))
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
}

func TestRename(t *testing.T) {
	uc := newTagUsecase(t)

	bug, err := uc.Create("bug")
	require.NoError(t, err)
	_, err = uc.Create("feature")
	require.NoError(t, err)

	_, err = uc.Rename(bug.ID, "feature")
	assert.Equal(t, apperror.KindConflict, apperror.KindOf(err))

	renamed, err := uc.Rename(bug.ID, "defect")
	require.NoError(t, err)
	assert.Equal(t, "defect", renamed.Name)

	_, err = uc.Rename(9999, "ghost")
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))

	tags, err := uc.List()
	require.NoError(t, err)
	assert.Len(t, tags, 2)
}
