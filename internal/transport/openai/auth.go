package openai

import (
	"fmt"
	"net/http"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
)

// tokenDoer attaches a bearer token from an Azure credential to every request.
type tokenDoer struct {
	inner  *http.Client
	cred   azcore.TokenCredential
	scopes []string
}

func (d *tokenDoer) Do(req *http.Request) (*http.Response, error) {
	tok, err := d.cred.GetToken(req.Context(), policy.TokenRequestOptions{Scopes: d.scopes})
	if err != nil {
		return nil, fmt.Errorf("acquire token: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+tok.Token)
	return d.inner.Do(req) //nolint:wrapcheck // transport passthrough
}
