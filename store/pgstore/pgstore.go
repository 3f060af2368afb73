// Package pgstore is a PostgreSQL-backed ric.DataRepository, grounded on
// this codebase's internal/postgres client wrapper: pgxpool for pooling,
// slog for connection lifecycle logging, and a startup connection retry
// loop.
package pgstore

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oran-ric/near-rt-ric/internal/fatal"
	"github.com/oran-ric/near-rt-ric/internal/logging"
	"github.com/oran-ric/near-rt-ric/ric"
)

// Config holds database connection configuration.
type Config struct {
	Host            string
	Port            int
	User            string
	Password        string
	Database        string
	SSLMode         string
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
	// ConnectRetries bounds the exponential-backoff retry loop Open uses
	// when the database is not yet reachable (e.g. at process startup
	// racing a sidecar container).
	ConnectRetries uint64
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Host: "localhost", Port: 5432, User: "ric", Database: "ric",
		SSLMode: "disable", MaxConns: 10, MinConns: 2,
		MaxConnLifetime: time.Hour, MaxConnIdleTime: 30 * time.Minute,
		ConnectRetries: 5,
	}
}

func (c Config) connectionString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Database, c.SSLMode)
}

// Store is a pgxpool-backed ric.DataRepository.
type Store struct {
	pool   *pgxpool.Pool
	log    *slog.Logger
	active atomic.Bool
	mu     sync.Mutex // not locked by any method; Open applies the schema before the Store exists
}

// Open connects to PostgreSQL, retrying with exponential backoff up to
// config.ConnectRetries times, applies the schema, and returns a ready
// Store.
func Open(ctx context.Context, config Config, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = logging.New(logging.DefaultConfig())
	}

	poolConfig, err := pgxpool.ParseConfig(config.connectionString())
	if err != nil {
		return nil, fmt.Errorf("pgstore: failed to parse connection string: %w", err)
	}
	poolConfig.MaxConns = config.MaxConns
	poolConfig.MinConns = config.MinConns
	poolConfig.MaxConnLifetime = config.MaxConnLifetime
	poolConfig.MaxConnIdleTime = config.MaxConnIdleTime

	var pool *pgxpool.Pool
	boff := backoff.WithMaxRetries(backoff.NewExponentialBackOff(), config.ConnectRetries)
	err = backoff.Retry(func() error {
		p, err := pgxpool.NewWithConfig(ctx, poolConfig)
		if err != nil {
			return err
		}
		if err := p.Ping(ctx); err != nil {
			p.Close()
			return err
		}
		pool = p
		return nil
	}, boff)
	if err != nil {
		return nil, fmt.Errorf("pgstore: failed to connect: %w", err)
	}

	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pgstore: failed to apply schema: %w", err)
	}

	logger.Info("connected to PostgreSQL",
		slog.String("host", config.Host), slog.Int("port", config.Port),
		slog.String("database", config.Database))

	s := &Store{pool: pool, log: logger}
	s.active.Store(true)
	return s, nil
}

func (s *Store) Close() {
	s.pool.Close()
	s.log.Info("PostgreSQL connection pool closed")
}

func (s *Store) Activate()   { s.active.Store(true) }
func (s *Store) Deactivate() { s.active.Store(false) }

// abortOnStorageError implements spec §4.1's "any storage-level failure is
// fatal" policy: it names the operation and its bound arguments in the
// abort message, analogous to the source's NS_ABORT_MSG.
func (s *Store) abortOnStorageError(op string, args []any, err error) {
	if err != nil {
		fatal.Abortf("pgstore: operation %s failed with args %v: %v", op, args, err)
	}
}

func (s *Store) IsRegistered(ctx context.Context, id ric.E2NodeID) bool {
	if !s.active.Load() {
		return false
	}
	var registered bool
	err := s.pool.QueryRow(ctx,
		`SELECT registered FROM ric_registration_events WHERE e2_node_id=$1 ORDER BY at DESC, id DESC LIMIT 1`,
		int64(id)).Scan(&registered)
	if err == pgx.ErrNoRows {
		return false
	}
	s.abortOnStorageError("IsRegistered", []any{id}, err)
	return registered
}

func (s *Store) insertRegistrationEvent(ctx context.Context, id ric.E2NodeID, registered bool, at time.Time) {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO ric_registration_events (e2_node_id, registered, at) VALUES ($1,$2,$3)`,
		int64(id), registered, at)
	s.abortOnStorageError("insertRegistrationEvent", []any{id, registered, at}, err)
}

func (s *Store) RegisterNode(ctx context.Context, kind ric.NodeKind, external ric.ExternalID, at time.Time) ric.E2NodeID {
	if !s.active.Load() {
		return ric.InvalidE2NodeID
	}
	var id int64
	var err error
	switch kind {
	case ric.NodeKindLteUE:
		err = s.pool.QueryRow(ctx,
			`INSERT INTO ric_nodes (kind, ext_imsi) VALUES (1,$1)
			 ON CONFLICT (ext_imsi) WHERE kind=1 DO UPDATE SET ext_imsi=EXCLUDED.ext_imsi
			 RETURNING e2_node_id`, int64(external.IMSI)).Scan(&id)
	case ric.NodeKindLteENB:
		err = s.pool.QueryRow(ctx,
			`INSERT INTO ric_nodes (kind, ext_cell_id) VALUES (2,$1)
			 ON CONFLICT (ext_cell_id) WHERE kind=2 DO UPDATE SET ext_cell_id=EXCLUDED.ext_cell_id
			 RETURNING e2_node_id`, int64(external.CellID)).Scan(&id)
	default:
		err = s.pool.QueryRow(ctx,
			`INSERT INTO ric_nodes (kind, ext_handle) VALUES (0,$1)
			 ON CONFLICT (ext_handle) WHERE kind=0 DO UPDATE SET ext_handle=EXCLUDED.ext_handle
			 RETURNING e2_node_id`, int64(external.Handle)).Scan(&id)
	}
	s.abortOnStorageError("RegisterNode", []any{kind, external, at}, err)
	nodeID := ric.E2NodeID(id)
	s.insertRegistrationEvent(ctx, nodeID, true, at)
	return nodeID
}

func (s *Store) RegisterLteUe(ctx context.Context, external ric.ExternalID, imsi uint64, at time.Time) ric.E2NodeID {
	external.IMSI = imsi
	return s.RegisterNode(ctx, ric.NodeKindLteUE, external, at)
}

func (s *Store) RegisterLteEnb(ctx context.Context, external ric.ExternalID, cellID uint32, at time.Time) ric.E2NodeID {
	external.CellID = cellID
	return s.RegisterNode(ctx, ric.NodeKindLteENB, external, at)
}

func (s *Store) DeregisterNode(ctx context.Context, id ric.E2NodeID, at time.Time) ric.E2NodeID {
	if !s.active.Load() {
		return id
	}
	s.insertRegistrationEvent(ctx, id, false, at)
	return id
}

func (s *Store) SavePosition(ctx context.Context, id ric.E2NodeID, x, y, z float64, at time.Time) {
	if !s.active.Load() || !s.IsRegistered(ctx, id) {
		return
	}
	_, err := s.pool.Exec(ctx,
		`INSERT INTO ric_position_samples (e2_node_id, x, y, z, at) VALUES ($1,$2,$3,$4,$5)`,
		int64(id), x, y, z, at)
	s.abortOnStorageError("SavePosition", []any{id, x, y, z, at}, err)
}

func (s *Store) SaveLteUeCellInfo(ctx context.Context, id ric.E2NodeID, cellID, rnti uint32, at time.Time) {
	if !s.active.Load() || !s.IsRegistered(ctx, id) {
		return
	}
	_, err := s.pool.Exec(ctx,
		`INSERT INTO ric_cell_info_samples (e2_node_id, cell_id, rnti, at) VALUES ($1,$2,$3,$4)`,
		int64(id), int64(cellID), int64(rnti), at)
	s.abortOnStorageError("SaveLteUeCellInfo", []any{id, cellID, rnti, at}, err)
}

func (s *Store) SaveAppLoss(ctx context.Context, id ric.E2NodeID, loss float64, at time.Time) {
	if !s.active.Load() || !s.IsRegistered(ctx, id) {
		return
	}
	_, err := s.pool.Exec(ctx,
		`INSERT INTO ric_app_loss_samples (e2_node_id, loss, at) VALUES ($1,$2,$3)`,
		int64(id), loss, at)
	s.abortOnStorageError("SaveAppLoss", []any{id, loss, at}, err)
}

func (s *Store) SaveLteUeRsrpRsrq(ctx context.Context, sample ric.RsrpRsrqSample) {
	if !s.active.Load() || !s.IsRegistered(ctx, sample.E2NodeID) {
		return
	}
	_, err := s.pool.Exec(ctx,
		`INSERT INTO ric_rsrp_rsrq_samples (e2_node_id, rnti, cell_id, rsrp, rsrq, is_serving, carrier_id, at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		int64(sample.E2NodeID), int64(sample.RNTI), int64(sample.CellID),
		sample.RSRP, sample.RSRQ, sample.IsServing, int64(sample.CarrierID), sample.Timestamp)
	s.abortOnStorageError("SaveLteUeRsrpRsrq", []any{sample}, err)
}

func (s *Store) GetNodePositions(ctx context.Context, id ric.E2NodeID, from, to time.Time, limit int) []ric.PositionSample {
	if !s.active.Load() {
		return nil
	}
	rows, err := s.pool.Query(ctx,
		`SELECT x, y, z, at FROM ric_position_samples
		 WHERE e2_node_id=$1 AND at >= $2 AND at <= $3
		 ORDER BY at DESC LIMIT $4`, int64(id), from, to, limit)
	s.abortOnStorageError("GetNodePositions", []any{id, from, to, limit}, err)
	defer rows.Close()

	var out []ric.PositionSample
	for rows.Next() {
		var p ric.PositionSample
		p.E2NodeID = id
		err := rows.Scan(&p.X, &p.Y, &p.Z, &p.Timestamp)
		s.abortOnStorageError("GetNodePositions.scan", []any{id}, err)
		out = append(out, p)
	}
	return out
}

func (s *Store) GetLteUeCellInfo(ctx context.Context, id ric.E2NodeID) ric.CellInfo {
	if !s.active.Load() {
		return ric.CellInfo{}
	}
	var cellID, rnti int64
	err := s.pool.QueryRow(ctx,
		`SELECT cell_id, rnti FROM ric_cell_info_samples WHERE e2_node_id=$1 ORDER BY at DESC LIMIT 1`,
		int64(id)).Scan(&cellID, &rnti)
	if err == pgx.ErrNoRows {
		return ric.CellInfo{}
	}
	s.abortOnStorageError("GetLteUeCellInfo", []any{id}, err)
	return ric.CellInfo{Found: true, CellID: uint32(cellID), RNTI: uint32(rnti)}
}

func (s *Store) GetAppLoss(ctx context.Context, id ric.E2NodeID) float64 {
	if !s.active.Load() {
		return 0
	}
	var loss float64
	err := s.pool.QueryRow(ctx,
		`SELECT loss FROM ric_app_loss_samples WHERE e2_node_id=$1 ORDER BY at DESC LIMIT 1`,
		int64(id)).Scan(&loss)
	if err == pgx.ErrNoRows {
		return 0
	}
	s.abortOnStorageError("GetAppLoss", []any{id}, err)
	return loss
}

func (s *Store) GetLteUeRsrpRsrq(ctx context.Context, id ric.E2NodeID) []ric.RsrpRsrqSample {
	if !s.active.Load() {
		return nil
	}
	rows, err := s.pool.Query(ctx,
		`SELECT rnti, cell_id, rsrp, rsrq, is_serving, carrier_id, at
		 FROM ric_rsrp_rsrq_samples
		 WHERE e2_node_id=$1 AND at = (SELECT MAX(at) FROM ric_rsrp_rsrq_samples WHERE e2_node_id=$1)`,
		int64(id))
	s.abortOnStorageError("GetLteUeRsrpRsrq", []any{id}, err)
	defer rows.Close()

	var out []ric.RsrpRsrqSample
	for rows.Next() {
		sample := ric.RsrpRsrqSample{E2NodeID: id}
		var rnti, cellID, carrierID int64
		err := rows.Scan(&rnti, &cellID, &sample.RSRP, &sample.RSRQ, &sample.IsServing, &carrierID, &sample.Timestamp)
		s.abortOnStorageError("GetLteUeRsrpRsrq.scan", []any{id}, err)
		sample.RNTI, sample.CellID, sample.CarrierID = uint32(rnti), uint32(cellID), uint32(carrierID)
		out = append(out, sample)
	}
	return out
}

func (s *Store) idsByKind(ctx context.Context, kind int) []ric.E2NodeID {
	if !s.active.Load() {
		return nil
	}
	rows, err := s.pool.Query(ctx, `
		SELECT n.e2_node_id FROM ric_nodes n
		WHERE n.kind=$1 AND EXISTS (
			SELECT 1 FROM ric_registration_events e
			WHERE e.e2_node_id = n.e2_node_id
			ORDER BY e.at DESC, e.id DESC LIMIT 1
		) AND (
			SELECT registered FROM ric_registration_events e
			WHERE e.e2_node_id = n.e2_node_id
			ORDER BY e.at DESC, e.id DESC LIMIT 1
		)`, kind)
	s.abortOnStorageError("idsByKind", []any{kind}, err)
	defer rows.Close()

	var out []ric.E2NodeID
	for rows.Next() {
		var id int64
		err := rows.Scan(&id)
		s.abortOnStorageError("idsByKind.scan", []any{kind}, err)
		out = append(out, ric.E2NodeID(id))
	}
	return out
}

func (s *Store) GetLteUeE2NodeIDs(ctx context.Context) []ric.E2NodeID  { return s.idsByKind(ctx, 1) }
func (s *Store) GetLteEnbE2NodeIDs(ctx context.Context) []ric.E2NodeID { return s.idsByKind(ctx, 2) }

func (s *Store) GetLastRegistrationRequests(ctx context.Context) map[ric.E2NodeID]time.Time {
	out := make(map[ric.E2NodeID]time.Time)
	if !s.active.Load() {
		return out
	}
	rows, err := s.pool.Query(ctx, `
		SELECT DISTINCT ON (e2_node_id) e2_node_id, at, registered
		FROM ric_registration_events
		ORDER BY e2_node_id, at DESC, id DESC`)
	s.abortOnStorageError("GetLastRegistrationRequests", nil, err)
	defer rows.Close()

	for rows.Next() {
		var id int64
		var at time.Time
		var registered bool
		err := rows.Scan(&id, &at, &registered)
		s.abortOnStorageError("GetLastRegistrationRequests.scan", nil, err)
		if registered {
			out[ric.E2NodeID(id)] = at
		}
	}
	return out
}

func (s *Store) GetLteUeE2NodeIDFromCellInfo(ctx context.Context, cellID, rnti uint32) (ric.E2NodeID, bool) {
	if !s.active.Load() {
		return ric.InvalidE2NodeID, false
	}
	var id int64
	err := s.pool.QueryRow(ctx,
		`SELECT e2_node_id FROM ric_cell_info_samples WHERE cell_id=$1 AND rnti=$2 ORDER BY at DESC LIMIT 1`,
		int64(cellID), int64(rnti)).Scan(&id)
	if err == pgx.ErrNoRows {
		return ric.InvalidE2NodeID, false
	}
	s.abortOnStorageError("GetLteUeE2NodeIDFromCellInfo", []any{cellID, rnti}, err)
	return ric.E2NodeID(id), true
}

func (s *Store) logAudit(ctx context.Context, component, name, text string) {
	if !s.active.Load() {
		return
	}
	_, err := s.pool.Exec(ctx,
		`INSERT INTO ric_audit_entries (correlation_id, component, name, at, text) VALUES ($1,$2,$3,$4,$5)`,
		uuid.New().String(), component, name, time.Now(), text)
	s.abortOnStorageError("logAudit", []any{component, name}, err)
}

func (s *Store) LogCommandFromE2Terminator(ctx context.Context, cmd ric.Command) {
	s.logAudit(ctx, "E2Terminator", "", cmd.String())
}

func (s *Store) LogCommandFromLm(ctx context.Context, lmName string, cmd ric.Command) {
	s.logAudit(ctx, "LogicModule", lmName, cmd.String())
}

func (s *Store) LogActionLm(ctx context.Context, lmName, text string) {
	s.logAudit(ctx, "LogicModule", lmName, text)
}

func (s *Store) LogActionCmm(ctx context.Context, cmmName, text string) {
	s.logAudit(ctx, "ConflictMitigationModule", cmmName, text)
}

func (s *Store) AuditEntries(ctx context.Context) []ric.AuditEntry {
	if !s.active.Load() {
		return nil
	}
	rows, err := s.pool.Query(ctx, `SELECT correlation_id, component, name, at, text FROM ric_audit_entries ORDER BY id ASC`)
	s.abortOnStorageError("AuditEntries", nil, err)
	defer rows.Close()

	var out []ric.AuditEntry
	for rows.Next() {
		var e ric.AuditEntry
		var correlationID string
		err := rows.Scan(&correlationID, &e.Component, &e.Name, &e.Timestamp, &e.Text)
		s.abortOnStorageError("AuditEntries.scan", nil, err)
		if parsed, err := uuid.Parse(correlationID); err == nil {
			e.ID = parsed
		}
		out = append(out, e)
	}
	return out
}
