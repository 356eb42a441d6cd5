package database

import (
	"context"

	"gorm.io/gorm"
)

// UnitOfWork is the transaction handed to collaborators that must take part in
// the caller's write without owning its commit.
type UnitOfWork struct {
	tx          *gorm.DB
	afterCommit []func()
}

// DB returns the transaction-scoped handle.
func (u *UnitOfWork) DB() *gorm.DB {
	return u.tx
}

// AfterCommit registers fn to run once the transaction has committed.
// Hooks are dropped if the transaction rolls back.
func (u *UnitOfWork) AfterCommit(fn func()) {
	u.afterCommit = append(u.afterCommit, fn)
}

// InTransaction runs fn inside a transaction. It commits when fn returns nil and
// rolls back otherwise; after-commit hooks run in registration order.
func InTransaction(ctx context.Context, db *gorm.DB, fn func(uow *UnitOfWork) error) error {
	uow := &UnitOfWork{}
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		uow.tx = tx
		return fn(uow)
	})
	if err != nil {
		return err
	}

	for _, hook := range uow.afterCommit {
		hook()
	}
	return nil
}
