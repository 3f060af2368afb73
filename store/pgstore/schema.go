package pgstore

// schema is applied idempotently by Open. All sample/event tables are
// append-only per I4; only the nodes table itself is upserted, on
// re-registration of a previously-known external identity.
const schema = `
CREATE TABLE IF NOT EXISTS ric_nodes (
	e2_node_id     BIGSERIAL PRIMARY KEY,
	kind           SMALLINT NOT NULL,
	ext_handle     BIGINT,
	ext_imsi       BIGINT,
	ext_cell_id    BIGINT
);
CREATE UNIQUE INDEX IF NOT EXISTS ric_nodes_wired_uidx ON ric_nodes (ext_handle) WHERE kind = 0;
CREATE UNIQUE INDEX IF NOT EXISTS ric_nodes_lteue_uidx ON ric_nodes (ext_imsi) WHERE kind = 1;
CREATE UNIQUE INDEX IF NOT EXISTS ric_nodes_lteenb_uidx ON ric_nodes (ext_cell_id) WHERE kind = 2;

CREATE TABLE IF NOT EXISTS ric_registration_events (
	id             BIGSERIAL PRIMARY KEY,
	e2_node_id     BIGINT NOT NULL REFERENCES ric_nodes(e2_node_id),
	registered     BOOLEAN NOT NULL,
	at             TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS ric_registration_events_node_idx ON ric_registration_events (e2_node_id, at DESC);

CREATE TABLE IF NOT EXISTS ric_position_samples (
	id             BIGSERIAL PRIMARY KEY,
	e2_node_id     BIGINT NOT NULL REFERENCES ric_nodes(e2_node_id),
	x              DOUBLE PRECISION NOT NULL,
	y              DOUBLE PRECISION NOT NULL,
	z              DOUBLE PRECISION NOT NULL,
	at             TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS ric_position_samples_node_idx ON ric_position_samples (e2_node_id, at DESC);

CREATE TABLE IF NOT EXISTS ric_cell_info_samples (
	id             BIGSERIAL PRIMARY KEY,
	e2_node_id     BIGINT NOT NULL REFERENCES ric_nodes(e2_node_id),
	cell_id        BIGINT NOT NULL,
	rnti           BIGINT NOT NULL,
	at             TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS ric_cell_info_samples_node_idx ON ric_cell_info_samples (e2_node_id, at DESC);
CREATE INDEX IF NOT EXISTS ric_cell_info_samples_cell_rnti_idx ON ric_cell_info_samples (cell_id, rnti, at DESC);

CREATE TABLE IF NOT EXISTS ric_rsrp_rsrq_samples (
	id             BIGSERIAL PRIMARY KEY,
	e2_node_id     BIGINT NOT NULL REFERENCES ric_nodes(e2_node_id),
	rnti           BIGINT NOT NULL,
	cell_id        BIGINT NOT NULL,
	rsrp           DOUBLE PRECISION NOT NULL,
	rsrq           DOUBLE PRECISION NOT NULL,
	is_serving     BOOLEAN NOT NULL,
	carrier_id     BIGINT NOT NULL,
	at             TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS ric_rsrp_rsrq_samples_node_idx ON ric_rsrp_rsrq_samples (e2_node_id, at DESC);

CREATE TABLE IF NOT EXISTS ric_app_loss_samples (
	id             BIGSERIAL PRIMARY KEY,
	e2_node_id     BIGINT NOT NULL REFERENCES ric_nodes(e2_node_id),
	loss           DOUBLE PRECISION NOT NULL,
	at             TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS ric_app_loss_samples_node_idx ON ric_app_loss_samples (e2_node_id, at DESC);

CREATE TABLE IF NOT EXISTS ric_audit_entries (
	id             BIGSERIAL PRIMARY KEY,
	correlation_id TEXT NOT NULL,
	component      TEXT NOT NULL,
	name           TEXT NOT NULL,
	at             TIMESTAMPTZ NOT NULL,
	text           TEXT NOT NULL
);
`
