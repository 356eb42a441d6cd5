package usecase

import (
	"context"
	"testing"
	"time"

	authdomain "github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/internal/auth/domain"
	boarddomain "github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/internal/board/domain"
	boardrepo "github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/internal/board/repository"
	carddomain "github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/internal/card/domain"
	cardrepo "github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/internal/card/repository"
	commentdomain "github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/internal/comment/domain"
	commentdto "github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/internal/comment/dto"
	"github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/internal/comment/repository"
	notifdomain "github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/internal/notification/domain"
	"github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/internal/notification/notificationtest"
	"github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/internal/testutil"
	"github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/pkg/apperror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fixture struct {
	uc       CommentUsecase
	db       *gorm.DB
	owner    *authdomain.User
	member   *authdomain.User
	watcher  *authdomain.User
	stranger *authdomain.User
	board    *boarddomain.Board
	card     *carddomain.Card
}

// newFixture builds a private board owned by Ana with Bob and Carl as board
// members, and a card whose members are Ana, Bob and Carl.
func newFixture(t *testing.T, public bool) *fixture {
	db := testutil.NewDB(t)
	svc, _ := notificationtest.NewService(t, db)
	boards := boardrepo.NewBoardRepository(db)
	cards := cardrepo.NewCardRepository(db)

	f := &fixture{
		uc:       NewCommentUsecase(db, repository.NewCommentRepository(db), cards, boards, svc),
		db:       db,
		owner:    testutil.CreateUser(t, db, "Ana", "ana@example.com"),
		member:   testutil.CreateUser(t, db, "Bob", "bob@example.com"),
		watcher:  testutil.CreateUser(t, db, "Carl", "carl@example.com"),
		stranger: testutil.CreateUser(t, db, "Eve", "eve@example.com"),
	}
	f.board = &boarddomain.Board{
		Name:         "Board",
		CreationDate: time.Now().UTC(),
		UserID:       f.owner.ID,
		IsPublic:     public,
		Members:      []authdomain.User{*f.member, *f.watcher},
	}
	require.NoError(t, boards.Create(f.board))

	f.card = &carddomain.Card{
		Title:        "Card",
		CreationDate: time.Now().UTC(),
		State:        carddomain.DefaultState,
		BoardID:      f.board.ID,
		Members:      []authdomain.User{*f.owner, *f.member, *f.watcher},
	}
	require.NoError(t, cards.Create(f.card))
	return f
}

func TestCreateCommentNotifiesCardMembersExceptAuthor(t *testing.T) {
	f := newFixture(t, false)

	comment, err := f.uc.Create(context.Background(), f.member, &commentdto.CreateCommentRequest{CardID: f.card.ID, Content: "  hola  "})
	require.NoError(t, err)
	assert.Equal(t, "hola", comment.Content)
	require.NotNil(t, comment.User)
	assert.Equal(t, f.member.ID, comment.User.ID)

	stored := notificationtest.Stored(t, f.db, notifdomain.TypeCommentNew)
	require.Len(t, stored, 2)
	recipients := []uint{stored[0].UserID, stored[1].UserID}
	assert.ElementsMatch(t, []uint{f.owner.ID, f.watcher.ID}, recipients)
}

func TestReplyNotifiesParentAuthor(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()

	parent, err := f.uc.Create(ctx, f.owner, &commentdto.CreateCommentRequest{CardID: f.card.ID, Content: "first"})
	require.NoError(t, err)

	_, err = f.uc.Create(ctx, f.owner, &commentdto.CreateCommentRequest{CardID: f.card.ID, Content: "self reply", ParentID: &parent.ID})
	require.NoError(t, err)
	assert.Empty(t, notificationtest.Stored(t, f.db, notifdomain.TypeCommentReply))

	reply, err := f.uc.Create(ctx, f.member, &commentdto.CreateCommentRequest{CardID: f.card.ID, Content: "reply", ParentID: &parent.ID})
	require.NoError(t, err)

	stored := notificationtest.Stored(t, f.db, notifdomain.TypeCommentReply)
	require.Len(t, stored, 1)
	assert.Equal(t, f.owner.ID, stored[0].UserID)

	_, err = f.uc.Create(ctx, f.owner, &commentdto.CreateCommentRequest{CardID: f.card.ID, Content: "nested", ParentID: &reply.ID})
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))

	missing := uint(999)
	_, err = f.uc.Create(ctx, f.owner, &commentdto.CreateCommentRequest{CardID: f.card.ID, Content: "x", ParentID: &missing})
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
}

func TestCreateCommentAccess(t *testing.T) {
	private := newFixture(t, false)
	_, err := private.uc.Create(context.Background(), private.stranger, &commentdto.CreateCommentRequest{CardID: private.card.ID, Content: "hi"})
	assert.Equal(t, apperror.KindForbidden, apperror.KindOf(err))

	_, err = private.uc.Create(context.Background(), private.owner, &commentdto.CreateCommentRequest{CardID: private.card.ID, Content: "  "})
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))

	_, err = private.uc.Create(context.Background(), private.owner, &commentdto.CreateCommentRequest{CardID: 999, Content: "hi"})
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))

	public := newFixture(t, true)
	_, err = public.uc.Create(context.Background(), public.stranger, &commentdto.CreateCommentRequest{CardID: public.card.ID, Content: "hi"})
	assert.NoError(t, err)
}

func TestOwnerSoftDeleteKeepsTombstoneInListing(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()

	comment, err := f.uc.Create(ctx, f.member, &commentdto.CreateCommentRequest{CardID: f.card.ID, Content: "secret"})
	require.NoError(t, err)

	err = f.uc.Delete(ctx, f.watcher.ID, comment.ID)
	assert.Equal(t, apperror.KindForbidden, apperror.KindOf(err))

	require.NoError(t, f.uc.Delete(ctx, f.owner.ID, comment.ID))
	require.NoError(t, f.uc.Delete(ctx, f.owner.ID, comment.ID))

	comments, meta, err := f.uc.List(f.member.ID, commentdto.ListCommentsQuery{CardID: f.card.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(1), meta.Total)
	assert.Equal(t, DefaultPageSize, meta.Limit)
	require.Len(t, comments, 1)

	resp := commentdto.NewCommentResponse(&comments[0])
	assert.Nil(t, resp.Content)
	require.NotNil(t, resp.Placeholder)
	assert.Equal(t, commentdomain.DeletedPlaceholder, *resp.Placeholder)
	assert.True(t, resp.Deleted)
	require.NotNil(t, resp.DeletedBy)
	assert.Equal(t, f.owner.ID, *resp.DeletedBy)
	assert.NotNil(t, resp.DeletedAt)

	_, err = f.uc.Update(ctx, f.member.ID, comment.ID, "edit")
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))

	require.NoError(t, f.uc.Restore(ctx, f.member.ID, comment.ID))
	comments, _, err = f.uc.List(f.member.ID, commentdto.ListCommentsQuery{CardID: f.card.ID})
	require.NoError(t, err)
	resp = commentdto.NewCommentResponse(&comments[0])
	require.NotNil(t, resp.Content)
	assert.Equal(t, "secret", *resp.Content)
	assert.False(t, resp.Deleted)
}

func TestUpdateCommentByAuthorOnly(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()

	comment, err := f.uc.Create(ctx, f.member, &commentdto.CreateCommentRequest{CardID: f.card.ID, Content: "draft"})
	require.NoError(t, err)

	_, err = f.uc.Update(ctx, f.owner.ID, comment.ID, "hijack")
	assert.Equal(t, apperror.KindForbidden, apperror.KindOf(err))

	_, err = f.uc.Update(ctx, f.member.ID, comment.ID, " ")
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))

	updated, err := f.uc.Update(ctx, f.member.ID, comment.ID, "final")
	require.NoError(t, err)
	assert.Equal(t, "final", updated.Content)
	assert.True(t, updated.IsEdited)
	assert.NotNil(t, updated.UpdatedAt)

	_, err = f.uc.Update(ctx, f.member.ID, 999, "x")
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
}

func TestListPagination(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()

	for _, content := range []string{"one", "two", "three"} {
		_, err := f.uc.Create(ctx, f.owner, &commentdto.CreateCommentRequest{CardID: f.card.ID, Content: content})
		require.NoError(t, err)
	}

	comments, meta, err := f.uc.List(f.owner.ID, commentdto.ListCommentsQuery{CardID: f.card.ID, Limit: 2, Offset: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(3), meta.Total)
	require.Len(t, comments, 2)
	assert.Equal(t, "two", comments[0].Content)
	assert.Equal(t, "three", comments[1].Content)

	_, _, err = f.uc.List(f.stranger.ID, commentdto.ListCommentsQuery{CardID: f.card.ID})
	assert.Equal(t, apperror.KindForbidden, apperror.KindOf(err))
}
