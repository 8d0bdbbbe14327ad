package storage

// SchemaVersion is the current database schema version.
const SchemaVersion = 1

// Schema contains the SQL statements to create the shipment database schema.
const Schema = `
-- Shipment records table
CREATE TABLE IF NOT EXISTS shipments (
    id TEXT PRIMARY KEY,
    container_no TEXT,

    -- Lifecycle state
    current_phase TEXT NOT NULL,
    phase_progress TEXT NOT NULL,

    -- Compliance
    compliance_status TEXT NOT NULL,
    compliance_issues TEXT,

    -- Monitoring
    monitoring_status TEXT NOT NULL,
    eta_planned TIMESTAMP,
    eta_current TIMESTAMP,
    eta_variance_hours REAL,

    -- Business attributes
    shipper TEXT,
    consignee TEXT,
    hs_code TEXT,
    commodity TEXT,
    port TEXT,
    destination TEXT,
    eta TIMESTAMP,
    arrival_date TIMESTAMP,
    promised_date TIMESTAMP,

    -- Fleet KPI inputs
    cost_saved REAL,
    gross_margin REAL,

    -- Provenance
    source TEXT NOT NULL,
    email_metadata TEXT,

    version INTEGER NOT NULL,
    created_at TIMESTAMP NOT NULL,
    updated_at TIMESTAMP NOT NULL
);

-- Schema version table
CREATE TABLE IF NOT EXISTS schema_version (
    version INTEGER PRIMARY KEY,
    applied_at TIMESTAMP NOT NULL
);

-- Indexes for common queries
CREATE INDEX IF NOT EXISTS idx_shipments_current_phase ON shipments(current_phase);
CREATE INDEX IF NOT EXISTS idx_shipments_compliance_status ON shipments(compliance_status);
CREATE INDEX IF NOT EXISTS idx_shipments_monitoring_status ON shipments(monitoring_status);
CREATE INDEX IF NOT EXISTS idx_shipments_source ON shipments(source);
CREATE INDEX IF NOT EXISTS idx_shipments_created_at ON shipments(created_at);
`

// InsertSchemaVersion inserts the schema version into the schema_version table.
const InsertSchemaVersion = `
INSERT INTO schema_version (version, applied_at)
VALUES (?, datetime('now'))
ON CONFLICT(version) DO NOTHING;
`

// GetSchemaVersion retrieves the current schema version from the database.
const GetSchemaVersion = `
SELECT version FROM schema_version ORDER BY version DESC LIMIT 1;
`
