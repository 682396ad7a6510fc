// Package http talks to the FSS object storage service over HTTP.
//
// Client wraps the signing functions of the fss package into the usual
// object operations:
//
//	client, err := http.NewClient(cfg)
//	if err != nil {
//		return err
//	}
//	resp, err := client.Get(ctx, "photos/demo.jpg")
//	if err != nil {
//		var reqErr *http.RequestError
//		if errors.As(err, &reqErr) {
//			log.Printf("service said %d: %s", reqErr.StatusCode, reqErr.Error())
//		}
//		return err
//	}
//	defer resp.Close()
//
// Presigned URLs are created with SignURL and never touch the network:
//
//	u, err := client.SignURL("photos/demo.jpg", fss.WithExpires(time.Hour))
//
// SigningTransport signs requests made through a plain http.Client,
// for callers that build their own requests.
//
// Failed requests are never retried.
package http
