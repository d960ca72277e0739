// Package s3 provides an Amazon S3 implementation of blobstore.Store.
//
//	store, err := s3.New(ctx, "genomes",
//	    s3.WithPrefix("graphs/"),
//	    s3.WithRegion("eu-central-1"),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	err = g.Save(ctx, store, "ecoli-k31.kmg")
//
// Reads use ranged GETs. Streaming writes go through the SDK multipart
// uploader with CRC32C part checksums. WithEndpoint targets S3-compatible
// services with path-style addressing.
package s3
