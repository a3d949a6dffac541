package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/motomarket/internal/dbx"
	"github.com/dmitrijs2005/motomarket/internal/server/repositories/catalog"
	"github.com/dmitrijs2005/motomarket/internal/server/repositories/listings"
	"github.com/dmitrijs2005/motomarket/internal/server/repositories/profiles"
	"github.com/dmitrijs2005/motomarket/internal/server/repositories/roles"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Listings(db dbx.DBTX) listings.Repository
	Roles(db dbx.DBTX) roles.Repository
	Profiles(db dbx.DBTX) profiles.Repository
	Catalog(db dbx.DBTX) catalog.Repository
}
