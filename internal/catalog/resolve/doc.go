// Package resolve talks to the editing application's scripting API through
// its local HTTP gateway.
//
// The gateway exposes the current project, the media pool's root-folder
// clips, and delete/import operations. Endpoints:
//
//	GET  /api/v1/project          current project, 404 when none is open
//	GET  /api/v1/mediapool/clips  clips in the root folder
//	POST /api/v1/mediapool/delete remove clips by id
//	POST /api/v1/mediapool/import import files into the pool
package resolve
