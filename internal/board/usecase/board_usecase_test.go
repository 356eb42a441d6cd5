package usecase

import (
	"context"
	"testing"

	authrepo "github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/internal/auth/repository"
	boarddto "github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/internal/board/dto"
	"github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/internal/board/repository"
	notifdomain "github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/internal/notification/domain"
	"github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/internal/notification/notificationtest"
	tagrepo "github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/internal/tag/repository"
	"github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/internal/testutil"
	"github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/pkg/apperror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestUsecase(t *testing.T) (BoardUsecase, *gorm.DB, *notificationtest.Recorder) {
	db := testutil.NewDB(t)
	svc, rec := notificationtest.NewService(t, db)
	uc := NewBoardUsecase(db, repository.NewBoardRepository(db), authrepo.NewUserRepository(db), tagrepo.NewTagRepository(db), svc)
	return uc, db, rec
}

func TestCreateBoardNotifiesMembers(t *testing.T) {
	uc, db, rec := newTestUsecase(t)
	owner := testutil.CreateUser(t, db, "Ana", "ana@example.com")
	bob := testutil.CreateUser(t, db, "Bob", "bob@example.com")

	board, err := uc.Create(context.Background(), owner, &boarddto.CreateBoardRequest{
		Name:      "  Sprint 1 ",
		MemberIDs: []uint{bob.ID, owner.ID, bob.ID},
		Tags:      []string{"backend", "backend"},
	})
	require.NoError(t, err)

	assert.Equal(t, "Sprint 1", board.Name)
	require.Len(t, board.Members, 1)
	assert.Equal(t, bob.ID, board.Members[0].ID)
	assert.Len(t, board.Tags, 1)

	stored := notificationtest.Stored(t, db, notifdomain.TypeBoardMemberAdded)
	require.Len(t, stored, 1)
	assert.Equal(t, bob.ID, stored[0].UserID)
	require.NotNil(t, stored[0].EventID)
	assert.Contains(t, *stored[0].EventID, "member")
	assert.Len(t, rec.Payloads(), 1)
	assert.Len(t, rec.Emails(), 1)
}

func TestCreateBoardValidation(t *testing.T) {
	uc, db, _ := newTestUsecase(t)
	owner := testutil.CreateUser(t, db, "Ana", "ana@example.com")

	_, err := uc.Create(context.Background(), owner, &boarddto.CreateBoardRequest{Name: "   "})
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))

	_, err = uc.Create(context.Background(), owner, &boarddto.CreateBoardRequest{Name: "ok", MemberIDs: []uint{999}})
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
}

func TestBoardAccessPolicy(t *testing.T) {
	uc, db, _ := newTestUsecase(t)
	ctx := context.Background()
	owner := testutil.CreateUser(t, db, "Ana", "ana@example.com")
	member := testutil.CreateUser(t, db, "Bob", "bob@example.com")
	stranger := testutil.CreateUser(t, db, "Eve", "eve@example.com")

	private, err := uc.Create(ctx, owner, &boarddto.CreateBoardRequest{Name: "Private", MemberIDs: []uint{member.ID}})
	require.NoError(t, err)
	public, err := uc.Create(ctx, owner, &boarddto.CreateBoardRequest{Name: "Public", IsPublic: true})
	require.NoError(t, err)

	_, err = uc.Get(stranger.ID, private.ID)
	assert.Equal(t, apperror.KindForbidden, apperror.KindOf(err))

	_, err = uc.Get(member.ID, private.ID)
	assert.NoError(t, err)

	_, err = uc.Get(stranger.ID, public.ID)
	assert.NoError(t, err)

	name := "Renamed"
	_, err = uc.Update(ctx, member, private.ID, &boarddto.UpdateBoardRequest{Name: &name})
	assert.Equal(t, apperror.KindForbidden, apperror.KindOf(err))

	err = uc.Delete(ctx, member, private.ID)
	assert.Equal(t, apperror.KindForbidden, apperror.KindOf(err))

	visible, err := uc.ListVisible(stranger.ID)
	require.NoError(t, err)
	require.Len(t, visible, 1)
	assert.Equal(t, public.ID, visible[0].ID)

	mine, err := uc.ListMine(member.ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, private.ID, mine[0].ID)

	_, err = uc.Get(owner.ID, 12345)
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
}

func TestUpdateBoardNotifiesOnlyNewMembers(t *testing.T) {
	uc, db, _ := newTestUsecase(t)
	ctx := context.Background()
	owner := testutil.CreateUser(t, db, "Ana", "ana@example.com")
	bob := testutil.CreateUser(t, db, "Bob", "bob@example.com")
	carl := testutil.CreateUser(t, db, "Carl", "carl@example.com")

	board, err := uc.Create(ctx, owner, &boarddto.CreateBoardRequest{Name: "Board", MemberIDs: []uint{bob.ID}})
	require.NoError(t, err)

	members := []uint{bob.ID, carl.ID}
	updated, err := uc.Update(ctx, owner, board.ID, &boarddto.UpdateBoardRequest{Members: &members})
	require.NoError(t, err)
	assert.Len(t, updated.Members, 2)

	stored := notificationtest.Stored(t, db, notifdomain.TypeBoardMemberAdded)
	require.Len(t, stored, 2)
	assert.Equal(t, bob.ID, stored[0].UserID)
	assert.Equal(t, carl.ID, stored[1].UserID)
}

func TestAddAndRemoveMember(t *testing.T) {
	uc, db, _ := newTestUsecase(t)
	ctx := context.Background()
	owner := testutil.CreateUser(t, db, "Ana", "ana@example.com")
	bob := testutil.CreateUser(t, db, "Bob", "bob@example.com")
	carl := testutil.CreateUser(t, db, "Carl", "carl@example.com")

	board, err := uc.Create(ctx, owner, &boarddto.CreateBoardRequest{Name: "Board"})
	require.NoError(t, err)

	_, err = uc.AddMember(ctx, owner, board.ID, owner.ID)
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))

	_, err = uc.AddMember(ctx, owner, board.ID, 999)
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))

	updated, err := uc.AddMember(ctx, owner, board.ID, bob.ID)
	require.NoError(t, err)
	assert.True(t, updated.IsMember(bob.ID))

	_, err = uc.AddMember(ctx, owner, board.ID, bob.ID)
	assert.Equal(t, apperror.KindConflict, apperror.KindOf(err))

	_, err = uc.AddMember(ctx, bob, board.ID, carl.ID)
	assert.Equal(t, apperror.KindForbidden, apperror.KindOf(err))

	_, err = uc.AddMember(ctx, owner, board.ID, carl.ID)
	require.NoError(t, err)

	_, err = uc.RemoveMember(ctx, bob, board.ID, carl.ID)
	assert.Equal(t, apperror.KindForbidden, apperror.KindOf(err))

	updated, err = uc.RemoveMember(ctx, bob, board.ID, bob.ID)
	require.NoError(t, err)
	assert.False(t, updated.IsMember(bob.ID))

	_, err = uc.RemoveMember(ctx, owner, board.ID, bob.ID)
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))

	members, err := uc.Members(owner.ID, board.ID)
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Equal(t, carl.ID, members[0].ID)
}

func TestSearchUsers(t *testing.T) {
	uc, db, _ := newTestUsecase(t)
	testutil.CreateUser(t, db, "Maria", "maria@example.com")
	testutil.CreateUser(t, db, "Mario", "mario@example.com")
	testutil.CreateUser(t, db, "Juan", "juan@example.com")

	users, err := uc.SearchUsers("m")
	require.NoError(t, err)
	assert.Empty(t, users)

	users, err = uc.SearchUsers("MAR")
	require.NoError(t, err)
	assert.Len(t, users, 2)
}

func TestFavorites(t *testing.T) {
	uc, db, _ := newTestUsecase(t)
	ctx := context.Background()
	owner := testutil.CreateUser(t, db, "Ana", "ana@example.com")
	stranger := testutil.CreateUser(t, db, "Eve", "eve@example.com")

	board, err := uc.Create(ctx, owner, &boarddto.CreateBoardRequest{Name: "Board"})
	require.NoError(t, err)

	err = uc.AddFavorite(stranger.ID, board.ID)
	assert.Equal(t, apperror.KindForbidden, apperror.KindOf(err))

	require.NoError(t, uc.AddFavorite(owner.ID, board.ID))
	require.NoError(t, uc.AddFavorite(owner.ID, board.ID))

	favorites, err := uc.ListFavorites(owner.ID)
	require.NoError(t, err)
	require.Len(t, favorites, 1)
	assert.Equal(t, owner.ID, favorites[0].UserID)

	require.NoError(t, uc.RemoveFavorite(owner.ID, board.ID))
	err = uc.RemoveFavorite(owner.ID, board.ID)
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
}

func TestDeleteBoardCascades(t *testing.T) {
	uc, db, _ := newTestUsecase(t)
	ctx := context.Background()
	owner := testutil.CreateUser(t, db, "Ana", "ana@example.com")
	bob := testutil.CreateUser(t, db, "Bob", "bob@example.com")

	board, err := uc.Create(ctx, owner, &boarddto.CreateBoardRequest{Name: "Board", MemberIDs: []uint{bob.ID}, Tags: []string{"x"}})
	require.NoError(t, err)
	require.NoError(t, uc.AddFavorite(owner.ID, board.ID))

	require.NoError(t, uc.Delete(ctx, owner, board.ID))

	_, err = uc.Get(owner.ID, board.ID)
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))

	var joins int64
	require.NoError(t, db.Table("board_user_association").Where("board_id = ?", board.ID).Count(&joins).Error)
	assert.Zero(t, joins)
}
