package http_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/mctech-dev/fss-go"
	"github.com/mctech-dev/fss-go/config"
	fsshttp "github.com/mctech-dev/fss-go/http"
)

func ExampleClient_SignURL() {
	client, err := fsshttp.NewClient(config.Config{
		BucketName:      "bucket",
		AccessKeyID:     "AKID",
		AccessKeySecret: "secret",
		PublicEndpoint:  "https://fss.example.com/v1/",
	}, fsshttp.WithClock(fss.FixedClock(time.Date(2021, 4, 20, 2, 7, 55, 0, time.UTC))))
	if err != nil {
		fmt.Printf("failed to create client: %s\n", err)
		return
	}

	u, err := client.SignURL("key")
	if err != nil {
		fmt.Printf("failed to sign URL: %s\n", err)
		return
	}
	fmt.Println(u)

	// Output:
	// https://fss.example.com/v1/bucket/key?FSSAccessKeyId=AKID&Expires=1618899475&Signature=o4ZIA7pMoC6HSjnf001mYLO8mVM%3D
}

// ExampleWrap puts a handler behind signature verification and calls it
// once with a signed request and once without.
func ExampleWrap() {
	clock := fss.FixedClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))

	verifier := fsshttp.NewVerifier(fsshttp.StaticSecrets{"AKID": "secret"})
	verifier.BasePath = "/v1"
	verifier.Clock = clock

	appHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "hello")
	})

	server := httptest.NewServer(fsshttp.Wrap(appHandler, verifier))
	defer server.Close()

	client, err := fsshttp.NewClient(config.Config{
		BucketName:      "bucket",
		AccessKeyID:     "AKID",
		AccessKeySecret: "secret",
		PublicEndpoint:  server.URL + "/v1",
	}, fsshttp.WithClock(clock))
	if err != nil {
		fmt.Printf("failed to create client: %s\n", err)
		return
	}

	signed, err := client.HTTPClient().Get(server.URL + "/v1/bucket/greeting.txt")
	if err != nil {
		fmt.Printf("request failed: %s\n", err)
		return
	}
	signed.Body.Close()

	unsigned, err := http.Get(server.URL + "/v1/bucket/greeting.txt")
	if err != nil {
		fmt.Printf("request failed: %s\n", err)
		return
	}
	unsigned.Body.Close()

	fmt.Printf("signed: %d\n", signed.StatusCode)
	fmt.Printf("unsigned: %d\n", unsigned.StatusCode)

	// Output:
	// signed: 200
	// unsigned: 403
}
