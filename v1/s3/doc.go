// Package s3 stores schema snapshots in Amazon S3 or an S3-compatible service
// using the AWS SDK for Go v2.
//
// *Store implements snapshot.Store. A missing object (NoSuchKey or a bare 404)
// is reported as snapshot.ErrNotFound:
//
//	store, err := s3.NewClient(ctx, s3.Config{Bucket: "schemas", Prefix: "billing/", Region: "eu-central-1"})
//	db, err := database.Open(ctx, cfg, database.WithSnapshotStore(store))
//
// Setting Endpoint targets MinIO, Ceph or similar services with path-style URLs.
package s3
