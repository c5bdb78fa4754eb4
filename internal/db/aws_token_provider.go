package db

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/rds/auth"
)

// rdsTokenLifetime is how long RDS accepts a signed IAM token.
const rdsTokenLifetime = 15 * time.Minute

// rdsTokenBuilder signs an RDS login token for username at endpoint.
type rdsTokenBuilder func(ctx context.Context, endpoint, region, username string) (string, error)

// AWSIAMTokenProvider signs RDS IAM login tokens with the default AWS
// credential chain. RDS for PostgreSQL and RDS for MySQL accept the same token.
type AWSIAMTokenProvider struct {
	endpoint string // host:port
	region   string
	username string
	build    rdsTokenBuilder
	now      func() time.Time
}

// NewAWSIAMTokenProvider validates the endpoint, region and database user
// the token will be signed for.
func NewAWSIAMTokenProvider(endpoint, region, username string) (*AWSIAMTokenProvider, error) {
	if endpoint == "" {
		return nil, fmt.Errorf("AWS IAM auth requires endpoint (host:port)")
	}
	if region == "" {
		return nil, fmt.Errorf("AWS IAM auth requires region (use --aws-region or $AWS_REGION)")
	}
	if username == "" {
		return nil, fmt.Errorf("AWS IAM auth requires database username")
	}

	return &AWSIAMTokenProvider{
		endpoint: endpoint,
		region:   region,
		username: username,
		build:    signRDSToken,
		now:      time.Now,
	}, nil
}

func signRDSToken(ctx context.Context, endpoint, region, username string) (string, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return "", fmt.Errorf("failed to load AWS config: %w", err)
	}
	return auth.BuildAuthToken(ctx, endpoint, region, username, cfg.Credentials)
}

// GetToken signs a fresh token. Expiry is counted from the signing time.
func (p *AWSIAMTokenProvider) GetToken(ctx context.Context) (string, time.Time, error) {
	signedAt := p.now()
	token, err := p.build(ctx, p.endpoint, p.region, p.username)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("rds iam token for %s@%s: %w", p.username, p.endpoint, err)
	}
	return token, signedAt.Add(rdsTokenLifetime), nil
}

func (p *AWSIAMTokenProvider) String() string {
	return fmt.Sprintf("AWS RDS IAM (%s@%s, %s)", p.username, p.endpoint, p.region)
}
