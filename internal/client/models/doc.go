// Package models defines the records exchanged with the ProtoDrive storage
// service: users, files (and folders) and per-user display configuration.
//
// The records are read-only snapshots of server state. The client never
// builds a User itself and never edits a File locally.
package models
