package notification

import (
	"context"
	"fmt"
	"time"
	"unicode/utf8"

	authdomain "github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/internal/auth/domain"
	notifdomain "github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/internal/notification/domain"
	"github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/pkg/database"
)

// Dispatcher is what feature usecases depend on.
type Dispatcher interface {
	Create(ctx context.Context, uow *database.UnitOfWork, req Request) (*notifdomain.Notification, error)
}

const previewLength = 50

func actorID(actor *authdomain.User) *uint {
	id := actor.ID
	return &id
}

func preview(content string) string {
	if utf8.RuneCountInString(content) <= previewLength {
		return content
	}
	return string([]rune(content)[:previewLength]) + "…"
}

func BoardMemberAdded(boardID uint, boardName string, actor, recipient *authdomain.User) Request {
	return Request{
		UserID:    recipient.ID,
		Type:      notifdomain.TypeBoardMemberAdded,
		Title:     "Te agregaron a un tablero",
		Message:   fmt.Sprintf("%s te agregó al tablero '%s'", actor.FullName(), boardName),
		Resource:  notifdomain.BoardResource(boardID),
		ActorID:   actorID(actor),
		EventID:   fmt.Sprintf("board:%d:member:%d", boardID, recipient.ID),
		UserEmail: recipient.Email,
		SendEmail: true,
	}
}

// CardAssigned uses the creation event id unless eventID overrides it.
// An empty override on update means the assignment is not deduplicated.
func CardAssigned(cardID uint, cardTitle string, actor, recipient *authdomain.User, eventID string) Request {
	return Request{
		UserID:    recipient.ID,
		Type:      notifdomain.TypeCardAssigned,
		Title:     "Nueva tarjeta asignada",
		Message:   fmt.Sprintf("%s te asignó la tarjeta '%s'", actor.FullName(), cardTitle),
		Resource:  notifdomain.CardResource(cardID),
		ActorID:   actorID(actor),
		EventID:   eventID,
		UserEmail: recipient.Email,
		SendEmail: true,
	}
}

func CardAssignedEventID(cardID, userID uint) string {
	return fmt.Sprintf("card:%d:assigned:%d", cardID, userID)
}

func CardMemberAdded(cardID uint, cardTitle string, actor, recipient *authdomain.User) Request {
	return Request{
		UserID:    recipient.ID,
		Type:      notifdomain.TypeCardMemberAdded,
		Title:     "Te agregaron a una tarjeta",
		Message:   fmt.Sprintf("%s te agregó a la tarjeta '%s'", actor.FullName(), cardTitle),
		Resource:  notifdomain.CardResource(cardID),
		ActorID:   actorID(actor),
		EventID:   fmt.Sprintf("card:%d:member:%d", cardID, recipient.ID),
		UserEmail: recipient.Email,
	}
}

func CommentNew(cardID uint, cardTitle string, commentID uint, content string, actor *authdomain.User, recipientID uint) Request {
	return Request{
		UserID:   recipientID,
		Type:     notifdomain.TypeCommentNew,
		Title:    "Nuevo comentario en una tarjeta",
		Message:  fmt.Sprintf("%s comentó en '%s': %s", actor.FullName(), cardTitle, preview(content)),
		Resource: notifdomain.CardResource(cardID),
		ActorID:  actorID(actor),
		EventID:  fmt.Sprintf("card:%d:comment:%d:to:%d", cardID, commentID, recipientID),
	}
}

func CommentReply(cardID, parentID, replyID uint, content string, actor *authdomain.User, recipientID uint) Request {
	return Request{
		UserID:   recipientID,
		Type:     notifdomain.TypeCommentReply,
		Title:    "Nueva respuesta a tu comentario",
		Message:  fmt.Sprintf("%s respondió: %s", actor.FullName(), preview(content)),
		Resource: notifdomain.CardResource(cardID),
		ActorID:  actorID(actor),
		EventID:  fmt.Sprintf("card:%d:comment:%d:reply:%d:to:%d", cardID, parentID, replyID, recipientID),
	}
}

func SubtaskAssigned(cardID, subtaskID uint, description string, actor, recipient *authdomain.User) Request {
	return Request{
		UserID:    recipient.ID,
		Type:      notifdomain.TypeSubtaskAssigned,
		Title:     "Nueva subtarea asignada",
		Message:   fmt.Sprintf("%s te asignó la subtarea '%s'", actor.FullName(), preview(description)),
		Resource:  notifdomain.CardResource(cardID),
		ActorID:   actorID(actor),
		EventID:   fmt.Sprintf("card:%d:subtask:%d:assigned:%d", cardID, subtaskID, recipient.ID),
		UserEmail: recipient.Email,
	}
}

func CardDueSoon(cardID uint, cardTitle string, due time.Time, recipient *authdomain.User) Request {
	day := due.UTC().Format("2006-01-02")
	return Request{
		UserID:    recipient.ID,
		Type:      notifdomain.TypeCardDueSoon,
		Title:     "Tarjeta próxima a vencer",
		Message:   fmt.Sprintf("La tarjeta '%s' vence el %s", cardTitle, due.UTC().Format("02/01/2006 15:04 UTC")),
		Resource:  notifdomain.CardResource(cardID),
		EventID:   fmt.Sprintf("card:%d:due:%s:to:%d", cardID, day, recipient.ID),
		UserEmail: recipient.Email,
		SendEmail: true,
	}
}
