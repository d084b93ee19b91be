package domain

import (
	"context"

	"github.com/locvowork/stockcount/pkg/tabular"
)

// CatalogSource supplies the raw catalog table when it is not uploaded.
type CatalogSource interface {
	LoadCatalog(ctx context.Context) (*tabular.Table, error)
}
