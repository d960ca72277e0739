// Package minio provides a blobstore.Store backed by the MinIO client.
//
// It works with MinIO and other S3-compatible services (Ceph, Garage,
// SeaweedFS) and needs no AWS SDK. Graph snapshots and sequence inputs
// can be kept in a bucket and read with ranged GETs.
//
//	client, err := minio.New("localhost:9000", &minio.Options{
//	    Creds:  credentials.NewStaticV4("minioadmin", "minioadmin", ""),
//	    Secure: false,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	store := minioblob.NewStore(client, "genomes", "graphs/")
//	g, err := kmergraph.Load(ctx, store, "ecoli-k31.kmg")
package minio
