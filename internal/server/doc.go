// Package server streams bench snapshots to browsers over websockets.
//
// Clients send parameter changes as JSON:
//
//	{"param": "slit_width", "value": 0.0002}
//	{"action": "reset"}
//
// Accepted changes are broadcast to every client as a snapshot message; a
// rejected change is answered with an error message to the sender only and
// leaves the bench untouched.
package server
