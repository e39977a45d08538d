// Package s3 provides an S3 implementation of the blobstore.BlobStore interface.
//
// # Usage
//
//	store, err := s3.New(ctx, "my-bucket",
//	    s3.WithPrefix("models/prod/"),
//	    s3.WithRegion("us-east-1"),
//	)
//
//	model, err := elemgo.LoadSnapshot(ctx, store, "nightly")
//
// # Features
//
//   - Range reads for efficient partial fetches
//   - Multipart uploads for large snapshots
//   - Automatic pagination for listing
//   - Configurable prefix for multi-tenant isolation
//   - DynamoDB commit log for atomic CURRENT updates (DDBCommitStore)
//   - S3 Express One Zone conditional writes (ExpressStore)
package s3
