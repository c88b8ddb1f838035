// Package sqlstore reads fleet rows from a SQL database. The sqlite driver
// is backed by modernc.org/sqlite and the postgres driver by lib/pq.
package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"strings"
	"time"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/kilianp07/motofleet/core/logger"
	"github.com/kilianp07/motofleet/core/model"
	"github.com/kilianp07/motofleet/core/store"
)

var assetColumns = []string{
	"placa", "status", "modelo", "franqueado", "data_criacao",
	"data_ultima_movimentacao", "valor_semanal", "dias_parada", "contagem_pausada",
}

var maintenanceColumns = []string{"placa", "data", "receita_pecas", "custo_pecas", "valor_liquido"}

var identifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

// Config locates the database and its tables.
type Config struct {
	Driver           string        `json:"driver"`
	DSN              string        `json:"dsn"`
	AssetsTable      string        `json:"assets_table"`
	MaintenanceTable string        `json:"maintenance_table"`
	Migrate          bool          `json:"migrate"`
	QueryTimeout     time.Duration `json:"query_timeout"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.AssetsTable == "" {
		c.AssetsTable = "assets"
	}
	if c.MaintenanceTable == "" {
		c.MaintenanceTable = "maintenance"
	}
	if c.QueryTimeout <= 0 {
		c.QueryTimeout = 30 * time.Second
	}
}

// Validate checks the driver and table names.
func (c Config) Validate() error {
	switch c.Driver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("unsupported sql driver %q", c.Driver)
	}
	if c.DSN == "" {
		return fmt.Errorf("dsn is required")
	}
	for _, t := range []string{c.AssetsTable, c.MaintenanceTable} {
		if !identifier.MatchString(t) {
			return fmt.Errorf("invalid table name %q", t)
		}
	}
	return nil
}

// Repository implements store.Repository over database/sql.
type Repository struct {
	db      *sql.DB
	cfg     Config
	log     logger.Logger
	assetsQ string
	maintQ  string
}

// Open connects to the configured database and pings it.
func Open(cfg Config, log logger.Logger) (*Repository, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	db, err := sql.Open(cfg.Driver, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", cfg.Driver, err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s: %w", cfg.Driver, err)
	}
	r := New(db, cfg, log)
	if cfg.Migrate {
		if err := r.EnsureSchema(ctx); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	return r, nil
}

// New wraps an open database handle.
func New(db *sql.DB, cfg Config, log logger.Logger) *Repository {
	cfg.SetDefaults()
	return &Repository{
		db:      db,
		cfg:     cfg,
		log:     logger.OrNop(log),
		assetsQ: selectAll(cfg.AssetsTable, assetColumns),
		maintQ:  selectAll(cfg.MaintenanceTable, maintenanceColumns),
	}
}

func selectAll(table string, cols []string) string {
	return fmt.Sprintf("SELECT %s FROM %s", strings.Join(cols, ", "), table)
}

// EnsureSchema creates both tables with text columns when they are missing.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	for table, cols := range map[string][]string{
		r.cfg.AssetsTable:      assetColumns,
		r.cfg.MaintenanceTable: maintenanceColumns,
	} {
		defs := make([]string, len(cols))
		for i, c := range cols {
			defs[i] = c + " TEXT"
		}
		q := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", table, strings.Join(defs, ", "))
		if _, err := r.db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("create %s: %w", table, err)
		}
	}
	return nil
}

// Assets implements store.Repository.
func (r *Repository) Assets(ctx context.Context) ([]model.AssetSnapshot, error) {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.QueryTimeout)
	defer cancel()
	var raw []model.RawAsset
	err := r.query(ctx, r.assetsQ, len(assetColumns), func(v []string) {
		raw = append(raw, model.RawAsset{
			Plate: v[0], Status: v[1], Model: v[2], Franchisee: v[3], CreatedAt: v[4],
			LastMovementAt: v[5], WeeklyRate: v[6], IdleDays: v[7], CountingPaused: v[8],
		})
	})
	if err != nil {
		return nil, fmt.Errorf("query assets: %w", err)
	}
	return store.DecodeAssets(raw, r.log), nil
}

// Maintenance implements store.Repository.
func (r *Repository) Maintenance(ctx context.Context) ([]model.MaintenanceRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.QueryTimeout)
	defer cancel()
	var raw []model.RawMaintenance
	err := r.query(ctx, r.maintQ, len(maintenanceColumns), func(v []string) {
		raw = append(raw, model.RawMaintenance{
			Plate: v[0], Date: v[1], PartsRevenue: v[2], PartsCost: v[3], NetAmount: v[4],
		})
	})
	if err != nil {
		return nil, fmt.Errorf("query maintenance: %w", err)
	}
	return store.DecodeMaintenance(raw, r.log), nil
}

// query scans every column as nullable text; NULL becomes "".
func (r *Repository) query(ctx context.Context, q string, n int, row func([]string)) error {
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return err
	}
	defer func() { _ = rows.Close() }()
	vals := make([]sql.NullString, n)
	dest := make([]any, n)
	for i := range vals {
		dest[i] = &vals[i]
	}
	for rows.Next() {
		if err := rows.Scan(dest...); err != nil {
			return err
		}
		out := make([]string, n)
		for i, v := range vals {
			out[i] = v.String
		}
		row(out)
	}
	return rows.Err()
}

// Close closes the underlying database.
func (r *Repository) Close() error { return r.db.Close() }
