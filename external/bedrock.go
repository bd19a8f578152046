// AWS SigV4 signing for Bedrock generation calls.
package external

import (
	"bytes"
	"context"
	"crypto/sha256"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
)

// BedrockSigningTransport is an http.RoundTripper that signs requests with
// AWS SigV4 for the bedrock service. CallLLM uses it via HTTPClient when
// the provider is "bedrock".
type BedrockSigningTransport struct {
	credentials aws.CredentialsProvider
	region      string
	signer      *v4.Signer
	base        http.RoundTripper
}

// NewBedrockSigningTransport builds a signing transport from the standard
// AWS credential chain. A nil base uses http.DefaultTransport.
func NewBedrockSigningTransport(region string, base http.RoundTripper) (*BedrockSigningTransport, error) {
	if region == "" {
		region = "us-east-1"
	}
	if base == nil {
		base = http.DefaultTransport
	}

	cfg, err := awsconfig.LoadDefaultConfig(context.Background(), awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	if _, err := cfg.Credentials.Retrieve(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to retrieve AWS credentials: %w", err)
	}

	return &BedrockSigningTransport{
		credentials: cfg.Credentials,
		region:      region,
		signer:      v4.NewSigner(),
		base:        base,
	}, nil
}

// RoundTrip signs the request with SigV4 before sending it.
func (t *BedrockSigningTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	var body []byte
	if req.Body != nil {
		var err error
		body, err = io.ReadAll(req.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to read request body for signing: %w", err)
		}
		req.Body = io.NopCloser(bytes.NewReader(body))
	}

	creds, err := t.credentials.Retrieve(req.Context())
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve AWS credentials: %w", err)
	}

	payloadHash := fmt.Sprintf("%x", sha256.Sum256(body))
	if err := t.signer.SignHTTP(req.Context(), creds, req, payloadHash, "bedrock", t.region, time.Now()); err != nil {
		return nil, fmt.Errorf("failed to sign Bedrock request: %w", err)
	}

	req.Body = io.NopCloser(bytes.NewReader(body))
	return t.base.RoundTrip(req)
}

// newBedrockHTTPClient wires the signing transport into an HTTP client,
// resolving the region from the environment.
func newBedrockHTTPClient() (*http.Client, error) {
	region := os.Getenv("AWS_REGION")
	if region == "" {
		region = os.Getenv("AWS_DEFAULT_REGION")
	}

	transport, err := NewBedrockSigningTransport(region, nil)
	if err != nil {
		return nil, err
	}
	return &http.Client{Transport: transport}, nil
}
