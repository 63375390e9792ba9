// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// The parse orchestrator and the book service are the core pipeline; the
// exercise and deck services are LLM-driven readers of the stored pages.
package services
