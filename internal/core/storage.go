package core

import (
	"btocore/internal/blob"
	blobfs "btocore/internal/blob/fs"
	blobmemory "btocore/internal/blob/memory"
	blobs3 "btocore/internal/blob/s3"
	"btocore/internal/infra/persistence/memory"
	"btocore/internal/infra/persistence/postgres"
	"btocore/internal/infra/persistence/sqlite"
	"context"
	"fmt"
	"os"
)

// StorageDriver identifies a concrete persistent storage implementation.
type StorageDriver string

const (
	StorageMemory   StorageDriver = "memory"   // in-memory only (tests / ephemeral)
	StorageSQLite   StorageDriver = "sqlite"   // embedded sqlite file
	StoragePostgres StorageDriver = "postgres" // PostgreSQL server
)

// OpenPersistentStore selects a backend using environment variables.
// Defaults to sqlite when unset.
//
//	BTOCORE_STORAGE_DRIVER: memory|sqlite|postgres (default sqlite)
//	BTOCORE_SQLITE_PATH: path to sqlite file (default ./btocore.db)
//	BTOCORE_POSTGRES_DSN: postgres DSN when driver=postgres
func OpenPersistentStore(engine *RulesEngine) (PersistentStore, error) {
	driver := os.Getenv("BTOCORE_STORAGE_DRIVER")
	if driver == "" {
		driver = string(StorageSQLite)
	}
	switch StorageDriver(driver) {
	case StorageMemory:
		return memory.NewStore(engine), nil
	case StorageSQLite:
		path := os.Getenv("BTOCORE_SQLITE_PATH")
		return sqlite.NewStore(path, engine)
	case StoragePostgres:
		dsn := os.Getenv("BTOCORE_POSTGRES_DSN")
		return postgres.NewStore(dsn, engine)
	default:
		return nil, fmt.Errorf("unknown storage driver %s", driver)
	}
}

// OpenReceiptArchive selects a blob backend for booking receipts using
// environment variables. Defaults to the in-memory store when unset.
//
//	BTOCORE_BLOB_DRIVER: memory|fs|s3 (default memory)
//	BTOCORE_BLOB_FS_ROOT: root dir when driver=fs (default ./receipts)
//	BTOCORE_BLOB_S3_*: bucket configuration when driver=s3
func OpenReceiptArchive() (blob.Store, error) {
	driver := os.Getenv("BTOCORE_BLOB_DRIVER")
	if driver == "" {
		driver = string(blob.DriverMemory)
	}
	switch blob.Driver(driver) {
	case blob.DriverMemory:
		return blobmemory.New(), nil
	case blob.DriverFilesystem:
		root := os.Getenv("BTOCORE_BLOB_FS_ROOT")
		if root == "" {
			root = "./receipts"
		}
		return blobfs.New(root)
	case blob.DriverS3:
		return blobs3.OpenFromEnv(context.Background())
	default:
		return nil, fmt.Errorf("unknown blob driver %s", driver)
	}
}
