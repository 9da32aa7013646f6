// Package services implements the server use cases on top of the
// repositories and blob storage. Errors returned to callers are the
// internal/common sentinels; anything unexpected is logged and reported as
// common.ErrorInternal.
package services
