// Package minio stores schema snapshots in a MinIO (or any S3-compatible) bucket.
//
// *Store implements snapshot.Store. Keys are prefixed with Config.Prefix and
// written as application/json objects. A missing object is reported as
// snapshot.ErrNotFound, so the schema loader falls back to introspection:
//
//	store, err := minio.NewClient(minio.Config{
//		Connection: minio.ConnectionConfig{
//			Endpoint:             "minio:9000",
//			AccessKeyID:          "sqlshim",
//			SecretAccessKey:      "secret",
//			BucketName:           "schemas",
//			AccessBucketCreation: true,
//		},
//		Prefix: "billing/",
//	})
//	db, err := database.Open(ctx, cfg, database.WithSnapshotStore(store))
//
// Under FXModule a background monitor probes the bucket every few seconds and
// swaps in a fresh client after a failure.
package minio
