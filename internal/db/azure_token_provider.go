package db

import (
	"context"
	"fmt"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
)

// AzureTokenProvider requests Entra ID access tokens for the Azure managed
// PostgreSQL and MySQL servers. The access token is the login password.
type AzureTokenProvider struct {
	credential azcore.TokenCredential
	source     string
}

// NewAzureTokenProvider authenticates with a client secret when tenant,
// client and secret are all set. Otherwise it falls back to the
// DefaultAzureCredential chain (environment, workload identity, managed
// identity, az CLI), pinned to tenantID when one is given.
func NewAzureTokenProvider(tenantID, clientID, clientSecret string) (*AzureTokenProvider, error) {
	if tenantID != "" && clientID != "" && clientSecret != "" {
		cred, err := azidentity.NewClientSecretCredential(tenantID, clientID, clientSecret, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create Azure client secret credential: %w", err)
		}
		return newAzureTokenProvider(cred, fmt.Sprintf("service principal %s in tenant %s", clientID, tenantID)), nil
	}

	var opts *azidentity.DefaultAzureCredentialOptions
	if tenantID != "" {
		opts = &azidentity.DefaultAzureCredentialOptions{TenantID: tenantID}
	}
	cred, err := azidentity.NewDefaultAzureCredential(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to create Azure default credential: %w", err)
	}
	return newAzureTokenProvider(cred, "default credential chain"), nil
}

func newAzureTokenProvider(cred azcore.TokenCredential, source string) *AzureTokenProvider {
	return &AzureTokenProvider{credential: cred, source: source}
}

func (p *AzureTokenProvider) GetToken(ctx context.Context) (string, time.Time, error) {
	token, err := p.credential.GetToken(ctx, policy.TokenRequestOptions{
		Scopes: []string{AzureOSSRDBMSScope},
	})
	if err != nil {
		return "", time.Time{}, fmt.Errorf("entra id token via %s: %w", p.source, err)
	}
	return token.Token, token.ExpiresOn, nil
}

func (p *AzureTokenProvider) String() string {
	return "Azure Entra ID (" + p.source + ")"
}
