package config

import (
	"fmt"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// FacultySessionKey returns the cache key for a faculty member's login session.
func (r *CacheKeyStruct) FacultySessionKey(facultyID int) string {
	return fmt.Sprintf("login:faculty:%d", facultyID)
}

// PendingImportKey returns the cache key holding a validated import batch
// between upload and the user's confirmation.
func (r *CacheKeyStruct) PendingImportKey(token string) string {
	return fmt.Sprintf("import:pending:%s", token)
}

var CacheKey = NewCacheKeyStruct()
