// Package schema owns the database migrations for every feature.
package schema

import (
	"fmt"

	authdomain "github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/internal/auth/domain"
	boarddomain "github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/internal/board/domain"
	carddomain "github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/internal/card/domain"
	commentdomain "github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/internal/comment/domain"
	listdomain "github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/internal/list/domain"
	notifdomain "github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/internal/notification/domain"
	subtaskdomain "github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/internal/subtask/domain"
	tagdomain "github.com/Programa-TrainIT-Ar/be-trelloop-grupo-1/internal/tag/domain"

	"gorm.io/gorm"
)

// Models lists every persisted type in dependency order.
func Models() []interface{} {
	return []interface{}{
		&authdomain.User{},
		&authdomain.RefreshToken{},
		&authdomain.FCMToken{},
		&tagdomain.Tag{},
		&boarddomain.Board{},
		&boarddomain.FavoriteBoard{},
		&listdomain.List{},
		&carddomain.Card{},
		&commentdomain.Comment{},
		&subtaskdomain.Subtask{},
		&notifdomain.Notification{},
	}
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}
