// Package services defines the shared error taxonomy for poolconv components.
//
// Components wrap failures with one of the exported sentinel markers so the
// pipeline and CLI can classify them with errors.Is without inspecting error
// strings. Use Wrap when surfacing a failure from a component boundary so the
// component, operation, and cause stay uniform across logs.
package services
