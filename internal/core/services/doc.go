// Package services implements the core business logic.
//
// Services implement driving ports and depend on driven ports.
// They contain the configuration lifecycle and the ingestion
// orchestration, but no transport or storage details.
package services
