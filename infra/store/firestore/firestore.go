// Package firestore reads fleet rows from Cloud Firestore and pushes a new
// collection whenever either collection changes.
package firestore

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"

	"github.com/kilianp07/motofleet/core/logger"
	"github.com/kilianp07/motofleet/core/model"
	"github.com/kilianp07/motofleet/core/monitoring"
	"github.com/kilianp07/motofleet/core/store"
)

// Config locates the Firestore project and collections.
type Config struct {
	ProjectID             string        `json:"project_id"`
	CredentialsFile       string        `json:"credentials_file"`
	CredentialsJSON       string        `json:"credentials_json"`
	AssetsCollection      string        `json:"assets_collection"`
	MaintenanceCollection string        `json:"maintenance_collection"`
	RetryDelay            time.Duration `json:"retry_delay"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.AssetsCollection == "" {
		c.AssetsCollection = "motos"
	}
	if c.MaintenanceCollection == "" {
		c.MaintenanceCollection = "manutencoes"
	}
	if c.RetryDelay <= 0 {
		c.RetryDelay = 5 * time.Second
	}
}

// Validate checks required fields.
func (c Config) Validate() error {
	if c.ProjectID == "" {
		return fmt.Errorf("firestore project_id is required")
	}
	return nil
}

func (c Config) clientOptions() ([]option.ClientOption, error) {
	creds := []byte(c.CredentialsJSON)
	if len(creds) == 0 && c.CredentialsFile != "" {
		b, err := os.ReadFile(c.CredentialsFile)
		if err != nil {
			return nil, fmt.Errorf("read credentials: %w", err)
		}
		creds = b
	}
	if len(creds) == 0 {
		// Application default credentials or the emulator.
		return nil, nil
	}
	return []option.ClientOption{option.WithCredentialsJSON(creds)}, nil
}

// Repository implements store.Repository and store.Watcher.
type Repository struct {
	client *firestore.Client
	cfg    Config
	log    logger.Logger
}

// Open creates the Firestore client.
func Open(ctx context.Context, cfg Config, log logger.Logger) (*Repository, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	opts, err := cfg.clientOptions()
	if err != nil {
		return nil, err
	}
	client, err := firestore.NewClient(ctx, cfg.ProjectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("init firestore client: %w", err)
	}
	return &Repository{client: client, cfg: cfg, log: logger.OrNop(log)}, nil
}

// Assets implements store.Repository.
func (r *Repository) Assets(ctx context.Context) ([]model.AssetSnapshot, error) {
	docs, err := r.documents(ctx, r.cfg.AssetsCollection)
	if err != nil {
		return nil, err
	}
	return r.decodeAssets(docs), nil
}

// Maintenance implements store.Repository.
func (r *Repository) Maintenance(ctx context.Context) ([]model.MaintenanceRecord, error) {
	docs, err := r.documents(ctx, r.cfg.MaintenanceCollection)
	if err != nil {
		return nil, err
	}
	return r.decodeMaintenance(docs), nil
}

func (r *Repository) documents(ctx context.Context, name string) ([]map[string]any, error) {
	it := r.client.Collection(name).Documents(ctx)
	defer it.Stop()
	docs, err := collect(docNext(it))
	if err != nil {
		return nil, fmt.Errorf("iterate %s: %w", name, err)
	}
	return docs, nil
}

func (r *Repository) decodeAssets(docs []map[string]any) []model.AssetSnapshot {
	raw := make([]model.RawAsset, len(docs))
	for i, d := range docs {
		raw[i] = model.RawAssetFromMap(d)
	}
	return store.DecodeAssets(raw, r.log)
}

func (r *Repository) decodeMaintenance(docs []map[string]any) []model.MaintenanceRecord {
	raw := make([]model.RawMaintenance, len(docs))
	for i, d := range docs {
		raw[i] = model.RawMaintenanceFromMap(d)
	}
	return store.DecodeMaintenance(raw, r.log)
}

// Watch implements store.Watcher using snapshot listeners on both
// collections. A collection is emitted once both listeners delivered their
// first snapshot and after every later change.
func (r *Repository) Watch(ctx context.Context) (<-chan store.Collection, error) {
	assets := make(chan []model.AssetSnapshot)
	maint := make(chan []model.MaintenanceRecord)
	go r.listen(ctx, r.cfg.AssetsCollection, func(docs []map[string]any) {
		select {
		case assets <- r.decodeAssets(docs):
		case <-ctx.Done():
		}
	})
	go r.listen(ctx, r.cfg.MaintenanceCollection, func(docs []map[string]any) {
		select {
		case maint <- r.decodeMaintenance(docs):
		case <-ctx.Done():
		}
	})
	out := make(chan store.Collection, 1)
	go merge(ctx, assets, maint, out)
	return out, nil
}

// listen follows one collection, reopening the listener after errors.
func (r *Repository) listen(ctx context.Context, name string, emit func([]map[string]any)) {
	for ctx.Err() == nil {
		err := r.follow(ctx, name, emit)
		if ctx.Err() != nil {
			return
		}
		r.log.Errorf("firestore listener %s stopped: %v", name, err)
		monitoring.Capture(err, "firestore", "listen")
		select {
		case <-ctx.Done():
			return
		case <-time.After(r.cfg.RetryDelay):
		}
	}
}

func (r *Repository) follow(ctx context.Context, name string, emit func([]map[string]any)) error {
	it := r.client.Collection(name).Snapshots(ctx)
	defer it.Stop()
	for {
		qs, err := it.Next()
		if err != nil {
			return err
		}
		docs, err := collect(docNext(qs.Documents))
		if err != nil {
			return err
		}
		r.log.Debugf("firestore %s changed: %d documents", name, len(docs))
		emit(docs)
	}
}

// merge combines the latest slices of both listeners into collections.
func merge(ctx context.Context, assets <-chan []model.AssetSnapshot, maint <-chan []model.MaintenanceRecord, out chan<- store.Collection) {
	defer close(out)
	var (
		cur        store.Collection
		gotA, gotM bool
	)
	for {
		select {
		case <-ctx.Done():
			return
		case a := <-assets:
			cur.Assets, gotA = a, true
		case m := <-maint:
			cur.Maintenance, gotM = m, true
		}
		if !gotA || !gotM {
			continue
		}
		cur.FetchedAt = time.Now().UTC()
		select {
		case out <- cur:
		case <-ctx.Done():
			return
		}
	}
}

func docNext(it *firestore.DocumentIterator) func() (map[string]any, error) {
	return func() (map[string]any, error) {
		d, err := it.Next()
		if err != nil {
			return nil, err
		}
		return d.Data(), nil
	}
}

// collect drains an iterator until iterator.Done.
func collect(next func() (map[string]any, error)) ([]map[string]any, error) {
	var docs []map[string]any
	for {
		d, err := next()
		if errors.Is(err, iterator.Done) {
			return docs, nil
		}
		if err != nil {
			return nil, err
		}
		docs = append(docs, d)
	}
}

// Close closes the Firestore client.
func (r *Repository) Close() error { return r.client.Close() }
