package repository

import (
	"storefront/internal/repository/repotest"

	"github.com/jackc/pgx/v5"
)

var (
	_ ProductRepository   = (*repotest.MockProductRepository)(nil)
	_ UserRepository      = (*repotest.MockUserRepository)(nil)
	_ CartRepository      = (*repotest.MockCartRepository)(nil)
	_ OrderRepository     = (*repotest.MockOrderRepository)(nil)
	_ StatusJobRepository = (*repotest.MockStatusJobRepository)(nil)
	_ pgx.Tx              = (*repotest.MockTx)(nil)
)
