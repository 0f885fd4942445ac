// Package services implements the driving ports: ingestion, grounded
// answering, keyword chat, storage proxying, auto-tagging, prompt coaching
// and authentication. Services hold no mutable state beyond their injected
// dependencies; every operation is request/response.
package services
