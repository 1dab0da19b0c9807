// Package artifact loads the fitted artifact bundle from a persistence
// layer and validates it against the declared attribute vocabulary.
package artifact

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"scorecast/db"
)

// Artifact names, one fitted object each.
const (
	NameFeatures        = "features"
	NameScaler          = "scaler"
	NamePolyFeatures    = "poly_features"
	NameLinearModel     = "linear_model"
	NameRidgeModel      = "ridge_model"
	NameLassoModel      = "lasso_model"
	NamePolynomialModel = "polynomial_model"
	NamePolyRidgeModel  = "poly_ridge_model"
	NameR2Scores        = "r2_scores"
)

// Names lists every artifact a bundle is built from.
func Names() []string {
	return []string{
		NameFeatures,
		NameScaler,
		NamePolyFeatures,
		NameLinearModel,
		NameRidgeModel,
		NameLassoModel,
		NamePolynomialModel,
		NamePolyRidgeModel,
		NameR2Scores,
	}
}

// Store returns the raw payload of a named artifact.
type Store interface {
	Load(ctx context.Context, name string) ([]byte, error)
}

// DirStore reads <dir>/<name>.json.
type DirStore struct {
	Dir string
}

func (s DirStore) Path(name string) string {
	return filepath.Join(s.Dir, name+".json")
}

func (s DirStore) Load(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	payload, err := os.ReadFile(s.Path(name))
	if err != nil {
		return nil, err
	}
	return payload, nil
}

// SQLStore reads artifacts from the sqlite artifact table.
type SQLStore struct {
	DB *db.DB
}

func (s SQLStore) Load(ctx context.Context, name string) ([]byte, error) {
	if s.DB == nil {
		return nil, errors.New("sqlite store: database not initialized")
	}
	return s.DB.LoadArtifact(ctx, name)
}

// Import copies every artifact from src into dst.
func Import(ctx context.Context, src Store, dst *db.DB) (int, error) {
	count := 0
	for _, name := range Names() {
		payload, err := src.Load(ctx, name)
		if err != nil {
			return count, fmt.Errorf("read %s: %w", name, err)
		}
		if err := dst.SaveArtifact(ctx, name, payload); err != nil {
			return count, fmt.Errorf("save %s: %w", name, err)
		}
		count++
	}
	return count, nil
}

const (
	SourceDir    = "dir"
	SourceSQLite = "sqlite"
)

// OpenStore opens the store selected by source. The returned close function
// releases it.
func OpenStore(source, dir, dbPath string) (Store, func() error, error) {
	switch source {
	case SourceDir:
		if _, err := os.Stat(dir); err != nil {
			return nil, nil, fmt.Errorf("artifact dir: %w", err)
		}
		return DirStore{Dir: dir}, func() error { return nil }, nil
	case SourceSQLite:
		database, err := db.Open(dbPath)
		if err != nil {
			return nil, nil, err
		}
		return SQLStore{DB: database}, database.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown artifact source %q", source)
	}
}
