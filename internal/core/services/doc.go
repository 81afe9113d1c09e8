// Package services implements the application services behind the
// driving ports: ingest, backfill, and query resolution.
package services
